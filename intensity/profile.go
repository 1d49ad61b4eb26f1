// Package intensity derives a per-subdivision rhythmic salience weight from
// a song's audio. The profile only biases note placement; it is not a tempo
// detector.
package intensity

import (
	"math"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/timing"
)

// Profile maps each generation subdivision (starting at beat 0) to a weight
// in [0,1]. Derived and disposable: never serialized with a chart, rebuilt
// from the audio whenever the tempo map changes.
type Profile struct {
	SubdivTicks int64
	Weights     []float64
}

// At returns the weight of the subdivision nearest to tick, 0 outside the
// profiled range.
func (p *Profile) At(tick int64) float64 {
	idx := int((tick + p.SubdivTicks/2) / p.SubdivTicks)
	if tick < 0 || idx < 0 || idx >= len(p.Weights) {
		return 0
	}
	return p.Weights[idx]
}

// EndTick is the first tick past the profiled range.
func (p *Profile) EndTick() int64 {
	return int64(len(p.Weights)) * p.SubdivTicks
}

// Flat builds a uniform profile covering [0, endTick). Used when charts are
// scaled without audio on hand, and in tests.
func Flat(endTick int64) *Profile {
	n := endTick / constants.SubdivTicks
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0
	}
	return &Profile{SubdivTicks: constants.SubdivTicks, Weights: weights}
}

// FromAudio decodes the song and extracts a fresh profile. Prefer Load,
// which memoizes the result next to the audio file.
func FromAudio(path string, grid *timing.Grid) (*Profile, error) {
	samples, sr, err := decodePCM(path)
	if err != nil {
		return nil, err
	}
	return extract(samples, sr, grid), nil
}

// extract samples a short window around each subdivision's wall-clock time
// and combines rectified energy with an onset estimate (energy rise against
// the preceding window), then normalizes per song so density targets are
// comparable across songs of different loudness.
func extract(samples []float64, sr int, grid *timing.Grid) *Profile {
	duration := float64(len(samples)) / float64(sr)
	effective := duration - constants.EndMarginSeconds
	if effective <= 0 {
		effective = duration
	}

	var weights []float64
	for tick := int64(0); ; tick += constants.SubdivTicks {
		t := grid.BeatToSeconds(tick)
		if t >= effective {
			break
		}
		weights = append(weights, weightAt(samples, sr, t))
	}
	if len(weights) == 0 && len(samples) > 0 {
		// Shorter than one subdivision: single-sample profile.
		weights = append(weights, weightAt(samples, sr, grid.BeatToSeconds(0)))
	}

	var max float64
	for _, w := range weights {
		if w > max {
			max = w
		}
	}
	if max > 0 {
		for i := range weights {
			weights[i] /= max
		}
	}

	return &Profile{SubdivTicks: constants.SubdivTicks, Weights: weights}
}

func weightAt(samples []float64, sr int, t float64) float64 {
	center := int(t * float64(sr))
	win := sr / 20 // 50ms half-window

	energy := rms(samples, center-win, center+win)
	prev := rms(samples, center-3*win, center-win)
	onset := energy - prev
	if onset < 0 {
		onset = 0
	}
	return energy + 2*onset
}

func rms(samples []float64, lo, hi int) float64 {
	if lo < 0 {
		lo = 0
	}
	if hi > len(samples) {
		hi = len(samples)
	}
	if hi <= lo {
		return 0
	}
	var sum float64
	for _, s := range samples[lo:hi] {
		sum += s * s
	}
	return math.Sqrt(sum / float64(hi-lo))
}
