// Package scale nudges an existing chart's density up or down by a bounded
// fraction without regenerating it, so a chart a player almost passes can be
// retried at a slightly easier or harder setting.
package scale

import (
	"fmt"
	"math"
	"sort"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/intensity"
	"github.com/Johell1NS/StepGenerator/model"
)

// MaxDelta bounds the scaling fraction either way. Beyond that the chart
// stops resembling the tier it was generated for; regenerate instead.
const MaxDelta = 0.2

// InvalidTargetError reports that the grid could not absorb the full
// requested change. The returned grid still carries the Applied changes.
type InvalidTargetError struct {
	Requested int
	Applied   int
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("scale: applied %v of %v requested note changes", e.Applied, e.Requested)
}

// Apply returns a copy of the grid with round(taps*|delta|) taps removed
// (delta < 0) or added (delta > 0). Holds are never touched: their heads,
// tails and spanned cells are immune to removal and block additions. The
// result is deterministic for a given grid and profile.
func Apply(g *model.NoteGrid, profile *intensity.Profile, delta float64) (*model.NoteGrid, int, error) {
	if math.Abs(delta) > MaxDelta+1e-9 {
		return nil, 0, fmt.Errorf("scale: delta %.2f outside ±%.2f", delta, MaxDelta)
	}

	out := cloneGrid(g)
	k := int(math.Round(float64(g.TapCount()) * math.Abs(delta)))
	if k == 0 {
		return out, 0, nil
	}

	var applied int
	var err error
	if delta < 0 {
		applied = removeTaps(out, profile, k)
	} else {
		applied, err = addTaps(out, profile, k)
		if err != nil {
			return nil, 0, err
		}
	}

	if applied < k {
		return out, applied, &InvalidTargetError{Requested: k, Applied: applied}
	}
	return out, applied, nil
}

func cloneGrid(g *model.NoteGrid) *model.NoteGrid {
	out := &model.NoteGrid{Rows: make([]model.Row, len(g.Rows))}
	copy(out.Rows, g.Rows)
	return out
}

type candidate struct {
	tick    int64
	col     int
	density int
	weight  float64
}

// removeTaps clears up to k taps, densest neighborhoods first so relief
// lands where the player is struggling. Ties break toward lower intensity,
// then earlier position, keeping the ranking total and the result stable.
func removeTaps(g *model.NoteGrid, profile *intensity.Profile, k int) int {
	var cands []candidate
	for _, row := range g.Rows {
		for col, c := range row.Cells {
			if c != model.Tap {
				continue
			}
			cands = append(cands, candidate{
				tick:    row.Tick,
				col:     col,
				density: localNoteCount(g, row.Tick),
				weight:  profile.At(row.Tick),
			})
		}
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].density != cands[j].density {
			return cands[i].density > cands[j].density
		}
		if cands[i].weight != cands[j].weight {
			return cands[i].weight < cands[j].weight
		}
		if cands[i].tick != cands[j].tick {
			return cands[i].tick < cands[j].tick
		}
		return cands[i].col < cands[j].col
	})

	n := k
	if n > len(cands) {
		n = len(cands)
	}
	for _, c := range cands[:n] {
		g.ClearCell(c.tick, c.col)
	}
	return n
}

// addTaps inserts up to k taps on the 16th-note grid, loudest subdivisions
// first. A slot qualifies only if the cell is free, no hold spans it, the
// row stays at two simultaneous inputs or fewer, and the column does not
// repeat the nearest occupied neighbor rows.
func addTaps(g *model.NoteGrid, profile *intensity.Profile, k int) (int, error) {
	spans, err := model.HoldSpans(g)
	if err != nil {
		return 0, err
	}

	var cands []candidate
	for tick := int64(0); tick <= g.LastTick(); tick += constants.SubdivTicks {
		for col := 0; col < model.NumColumns; col++ {
			if model.InsideHold(spans, col, tick) {
				continue
			}
			cands = append(cands, candidate{tick: tick, col: col, weight: profile.At(tick)})
		}
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].weight != cands[j].weight {
			return cands[i].weight > cands[j].weight
		}
		if cands[i].tick != cands[j].tick {
			return cands[i].tick < cands[j].tick
		}
		return cands[i].col < cands[j].col
	})

	var applied int
	for _, c := range cands {
		if applied >= k {
			break
		}
		// Earlier insertions shift row contents and neighbors, so every
		// structural check runs against the current grid.
		if g.CellAt(c.tick, c.col) != model.Empty {
			continue
		}
		if rowInputs(g, spans, c.tick) >= 2 {
			continue
		}
		if neighborUsesColumn(g, c.tick, c.col) {
			continue
		}
		g.SetCell(c.tick, c.col, model.Tap)
		applied++
	}
	return applied, nil
}

// localNoteCount counts steppable cells within two beats either side.
func localNoteCount(g *model.NoteGrid, tick int64) int {
	var n int
	for _, row := range g.Rows {
		if row.Tick < tick-2*constants.TicksPerBeat {
			continue
		}
		if row.Tick > tick+2*constants.TicksPerBeat {
			break
		}
		for _, c := range row.Cells {
			if c == model.Tap || c == model.HoldHead || c == model.RollHead {
				n++
			}
		}
	}
	return n
}

// rowInputs counts what the player is engaging at tick: notes on the row
// plus holds spanning it from other rows.
func rowInputs(g *model.NoteGrid, spans [model.NumColumns][]model.HoldSpan, tick int64) int {
	var n int
	for col := 0; col < model.NumColumns; col++ {
		if model.InsideHold(spans, col, tick) {
			n++
			continue
		}
		if c := g.CellAt(tick, col); c == model.Tap || c == model.HoldHead || c == model.RollHead {
			n++
		}
	}
	return n
}

// neighborUsesColumn reports whether the nearest occupied row before or
// after tick already steps the column, which would break alternation.
func neighborUsesColumn(g *model.NoteGrid, tick int64, col int) bool {
	i := sort.Search(len(g.Rows), func(i int) bool {
		return g.Rows[i].Tick >= tick
	})
	// Previous occupied row.
	for j := i - 1; j >= 0; j-- {
		if g.Rows[j].Tick < tick {
			if steppable(g.Rows[j].Cells[col]) {
				return true
			}
			break
		}
	}
	// Next occupied row.
	for j := i; j < len(g.Rows); j++ {
		if g.Rows[j].Tick > tick {
			if steppable(g.Rows[j].Cells[col]) {
				return true
			}
			break
		}
	}
	return false
}

func steppable(c model.CellType) bool {
	return c == model.Tap || c == model.HoldHead || c == model.RollHead
}
