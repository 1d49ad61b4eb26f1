// Package timing converts between musical position and wall-clock time
// under a piecewise-constant tempo map with discrete stops.
package timing

import (
	"fmt"
	"math"
	"sort"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/model"
)

type OutOfRangeError struct {
	Seconds float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("timing: %.3fs precedes beat 0", e.Seconds)
}

// span is one piece of the seconds→beat mapping: starting at sec the beat
// axis advances at bpm (0 during a stop plateau) from tick.
type span struct {
	sec  float64
	tick int64
	bpm  float64
}

// Grid is an immutable projection of a TempoMap. Rebuild it whenever the
// tempo map changes; concurrent readers are safe because nothing mutates.
type Grid struct {
	offset float64
	bpms   []model.BPMChange
	stops  []model.Stop
	spans  []span
}

func NewGrid(t model.TempoMap) (*Grid, error) {
	if len(t.BPMs) == 0 {
		return nil, fmt.Errorf("timing: tempo map has no bpm segments")
	}
	if t.BPMs[0].Tick != 0 {
		return nil, fmt.Errorf("timing: first bpm segment must start at beat 0")
	}

	g := &Grid{offset: t.OffsetSeconds, bpms: t.BPMs, stops: t.Stops}

	// Walk bpm changes and stops in tick order, recording every point where
	// the seconds→beat slope changes.
	sec := t.OffsetSeconds
	tick := int64(0)
	bpm := t.BPMs[0].BPM
	g.spans = append(g.spans, span{sec: sec, tick: tick, bpm: bpm})

	bpmIdx, stopIdx := 1, 0
	for bpmIdx < len(t.BPMs) || stopIdx < len(t.Stops) {
		nextTick := int64(math.MaxInt64)
		if bpmIdx < len(t.BPMs) {
			nextTick = t.BPMs[bpmIdx].Tick
		}
		if stopIdx < len(t.Stops) && t.Stops[stopIdx].Tick < nextTick {
			nextTick = t.Stops[stopIdx].Tick
		}

		sec += ticksToSeconds(nextTick-tick, bpm)
		tick = nextTick

		if bpmIdx < len(t.BPMs) && t.BPMs[bpmIdx].Tick == tick {
			bpm = t.BPMs[bpmIdx].BPM
			bpmIdx++
		}
		if stopIdx < len(t.Stops) && t.Stops[stopIdx].Tick == tick {
			// Plateau: time passes, the beat axis stands still.
			g.spans = append(g.spans, span{sec: sec, tick: tick, bpm: 0})
			sec += t.Stops[stopIdx].Seconds
			stopIdx++
		}
		g.spans = append(g.spans, span{sec: sec, tick: tick, bpm: bpm})
	}

	return g, nil
}

func ticksToSeconds(ticks int64, bpm float64) float64 {
	return float64(ticks) / constants.TicksPerBeat * 60.0 / bpm
}

// BeatToSeconds returns the wall-clock time of a tick. A stop at tick s
// contributes its full duration to every query at or after s, so the value
// returned for the stop tick itself is the end of the plateau.
func (g *Grid) BeatToSeconds(tick int64) float64 {
	sec := g.offset
	for i, c := range g.bpms {
		segEnd := tick
		if i+1 < len(g.bpms) && g.bpms[i+1].Tick < tick {
			segEnd = g.bpms[i+1].Tick
		}
		if segEnd > c.Tick {
			sec += ticksToSeconds(segEnd-c.Tick, c.BPM)
		}
		if i+1 >= len(g.bpms) || g.bpms[i+1].Tick >= tick {
			break
		}
	}
	for _, s := range g.stops {
		if s.Tick <= tick {
			sec += s.Seconds
		}
	}
	return sec
}

// SecondsToBeat returns the tick nearest to the given time. Times inside a
// stop plateau all resolve to the stop's tick. Fails only when the time
// precedes beat 0.
func (g *Grid) SecondsToBeat(sec float64) (int64, error) {
	if sec < g.offset {
		return 0, &OutOfRangeError{Seconds: sec}
	}
	i := sort.Search(len(g.spans), func(i int) bool {
		return g.spans[i].sec > sec
	}) - 1
	if i < 0 {
		i = 0
	}
	sp := g.spans[i]
	if sp.bpm == 0 {
		return sp.tick, nil
	}
	ticks := (sec - sp.sec) * sp.bpm / 60.0 * constants.TicksPerBeat
	return sp.tick + int64(math.Round(ticks)), nil
}
