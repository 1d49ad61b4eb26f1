package gen

import (
	"math/rand"

	"github.com/Johell1NS/StepGenerator/model"
)

// State threads the mutable generation context through the row loop, so a
// tier's walk is a pure function of its inputs and its rand stream.
type State struct {
	// LastColumn is the column of the most recent note, -1 before any.
	LastColumn int
	// PrevWasTap reports whether the most recent note was a tap, however
	// long ago it was emitted. It blocks LastColumn for the next note;
	// only a hold clears it.
	PrevWasTap bool
	// OpenHolds blocks a column from its hold head up to and including the
	// tail tick.
	OpenHolds [model.NumColumns]bool
	// tails holds the pending tail tick for each open hold column.
	tails [model.NumColumns]int64

	rests  int
	streak int
}

func NewState() *State {
	return &State{LastColumn: -1}
}

// HoldOpen reports whether any column is currently held. Dance-Single
// charts keep at most one hold running at a time.
func (s *State) HoldOpen() bool {
	for _, open := range s.OpenHolds {
		if open {
			return true
		}
	}
	return false
}

func (s *State) eligible(exclude int) []int {
	var cols []int
	for c := 0; c < model.NumColumns; c++ {
		if c == exclude || s.OpenHolds[c] {
			continue
		}
		if s.PrevWasTap && c == s.LastColumn {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// PickColumn draws uniformly from the eligible columns, which is the
// weighted selection with weight 0 on blocked columns. Returns -1 when every
// column is blocked.
func (s *State) PickColumn(rng *rand.Rand) int {
	return pick(s.eligible(-1), rng)
}

// PickSecondColumn draws a jump partner: same eligibility, also excluding
// the first column.
func (s *State) PickSecondColumn(first int, rng *rand.Rand) int {
	return pick(s.eligible(first), rng)
}

func pick(cols []int, rng *rand.Rand) int {
	if len(cols) == 0 {
		return -1
	}
	return cols[rng.Intn(len(cols))]
}
