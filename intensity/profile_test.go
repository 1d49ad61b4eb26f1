package intensity

import (
	"testing"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/model"
	"github.com/Johell1NS/StepGenerator/timing"
	"github.com/stretchr/testify/assert"
)

func sixtyBPMGrid(t *testing.T) *timing.Grid {
	g, err := timing.NewGrid(model.TempoMap{
		BPMs: []model.BPMChange{{Tick: 0, BPM: 60}},
	})
	assert.NoError(t, err)
	return g
}

func TestExtractSilenceIsAllZero(t *testing.T) {
	samples := make([]float64, 10000) // 10s at 1kHz
	p := extract(samples, 1000, sixtyBPMGrid(t))

	assert := assert.New(t)
	assert.NotEmpty(p.Weights)
	for _, w := range p.Weights {
		assert.Zero(w)
	}
}

func TestExtractNormalizesThePeakToOne(t *testing.T) {
	samples := make([]float64, 10000)
	// A click at 2.0s: at 60 BPM that is beat 2, tick 384.
	for i := 2000; i < 2100; i++ {
		samples[i] = 0.8
	}
	p := extract(samples, 1000, sixtyBPMGrid(t))

	assert := assert.New(t)
	assert.InDelta(1.0, p.At(384), 1e-9)
	assert.Zero(p.At(0))
}

func TestExtractStopsBeforeTheEndMargin(t *testing.T) {
	samples := make([]float64, 10000)
	p := extract(samples, 1000, sixtyBPMGrid(t))

	// 10s of audio minus the margin leaves 8.5s of quarter-second slots.
	assert.Len(t, p.Weights, 34)
}

func TestUltraShortAudioStillProfilesOneSlot(t *testing.T) {
	samples := make([]float64, 100) // 0.1s
	p := extract(samples, 1000, sixtyBPMGrid(t))

	assert.Len(t, p.Weights, 1)
}

func TestFlatProfileCoversTheRange(t *testing.T) {
	p := Flat(constants.TicksPerMeasure)

	assert := assert.New(t)
	assert.Equal(int64(constants.TicksPerMeasure), p.EndTick())
	assert.Equal(1.0, p.At(0))
	assert.Equal(1.0, p.At(500))
}

func TestProfileAtOutsideTheRangeIsZero(t *testing.T) {
	p := Flat(constants.TicksPerMeasure)

	assert := assert.New(t)
	assert.Zero(p.At(-constants.SubdivTicks))
	assert.Zero(p.At(p.EndTick() + constants.SubdivTicks))
}
