package gen

import (
	"math/rand"
	"testing"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/intensity"
	"github.com/Johell1NS/StepGenerator/model"
	"github.com/stretchr/testify/assert"
)

// variedProfile is a deterministic stand-in for real audio analysis: weights
// sweep through [0,1) in a fixed pattern.
func variedProfile(measures int) *intensity.Profile {
	n := measures * int(constants.TicksPerMeasure/constants.SubdivTicks)
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = float64((i*37)%100) / 100
	}
	return &intensity.Profile{SubdivTicks: constants.SubdivTicks, Weights: weights}
}

func tapColumn(row model.Row) int {
	for col, c := range row.Cells {
		if c == model.Tap {
			return col
		}
	}
	return -1
}

func TestEasyFlatProfilePlacesANoteOnEveryBeat(t *testing.T) {
	profile := intensity.Flat(4 * constants.TicksPerMeasure)
	chart, err := Generate(profile, DefaultTunings()[model.Easy], rand.New(rand.NewSource(1)))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(chart.Grid.Rows, 16)
	for _, row := range chart.Grid.Rows {
		assert.Zero(row.Tick % constants.TicksPerBeat)
		assert.Equal(1, countSteppable(row))
	}
}

func TestConsecutiveNotesAlternateColumns(t *testing.T) {
	profile := intensity.Flat(8 * constants.TicksPerMeasure)
	chart, err := Generate(profile, DefaultTunings()[model.Easy], rand.New(rand.NewSource(3)))

	assert := assert.New(t)
	assert.NoError(err)
	rows := chart.Grid.Rows
	for i := 1; i < len(rows); i++ {
		if rows[i].Tick-rows[i-1].Tick == constants.TicksPerBeat {
			assert.NotEqual(tapColumn(rows[i-1]), tapColumn(rows[i]))
		}
	}
}

func TestMediumNeverRepeatsAColumnAcrossRests(t *testing.T) {
	// The alternation rule binds consecutive notes, not consecutive
	// subdivisions: a column must not repeat even when rests sit between
	// the two notes.
	profile := intensity.Flat(16 * constants.TicksPerMeasure)
	chart, err := Generate(profile, DefaultTunings()[model.Medium], rand.New(rand.NewSource(1)))

	assert := assert.New(t)
	assert.NoError(err)
	rows := chart.Grid.Rows
	assert.NotEmpty(rows)
	for i := 1; i < len(rows); i++ {
		assert.NotEqual(tapColumn(rows[i-1]), tapColumn(rows[i]),
			"column repeats at ticks %v -> %v", rows[i-1].Tick, rows[i].Tick)
	}
}

func TestMediumAlternationHoldsOnSparseProfiles(t *testing.T) {
	// Mostly-quiet weights force long rest runs between notes.
	weights := make([]float64, 256)
	for i := range weights {
		if i%24 == 0 {
			weights[i] = 1.0
		}
	}
	profile := &intensity.Profile{SubdivTicks: constants.SubdivTicks, Weights: weights}
	chart, err := Generate(profile, DefaultTunings()[model.Medium], rand.New(rand.NewSource(2)))

	assert := assert.New(t)
	assert.NoError(err)
	rows := chart.Grid.Rows
	for i := 1; i < len(rows); i++ {
		assert.NotEqual(tapColumn(rows[i-1]), tapColumn(rows[i]),
			"column repeats at ticks %v -> %v", rows[i-1].Tick, rows[i].Tick)
	}
}

func TestEveryMeasureStartCarriesANote(t *testing.T) {
	// All-zero weights: only the downbeat rule and the rest cap fire.
	weights := make([]float64, 64)
	profile := &intensity.Profile{SubdivTicks: constants.SubdivTicks, Weights: weights}

	for tier, tun := range DefaultTunings() {
		chart, err := Generate(profile, tun, rand.New(rand.NewSource(5)))
		assert.NoError(t, err)
		for tick := int64(0); tick < profile.EndTick(); tick += constants.TicksPerMeasure {
			found := false
			for col := 0; col < model.NumColumns; col++ {
				if chart.Grid.CellAt(tick, col) != model.Empty {
					found = true
				}
			}
			assert.True(t, found, "tier %v has no note at measure start tick %v", tier, tick)
		}
	}
}

func TestRestCapForcesANote(t *testing.T) {
	weights := make([]float64, 64)
	profile := &intensity.Profile{SubdivTicks: constants.SubdivTicks, Weights: weights}
	tun := DefaultTunings()[model.Easy]
	chart, err := Generate(profile, tun, rand.New(rand.NewSource(5)))

	assert := assert.New(t)
	assert.NoError(err)
	// No gap of more than MaxRests silent beats between notes.
	var prev int64 = -constants.TicksPerBeat
	for _, row := range chart.Grid.Rows {
		gap := (row.Tick-prev)/constants.TicksPerBeat - 1
		assert.LessOrEqual(int(gap), tun.MaxRests)
		prev = row.Tick
	}
}

func TestMediumNeverEmitsJumpsOrHolds(t *testing.T) {
	chart, err := Generate(variedProfile(8), DefaultTunings()[model.Medium], rand.New(rand.NewSource(9)))

	assert := assert.New(t)
	assert.NoError(err)
	for _, row := range chart.Grid.Rows {
		assert.Equal(1, countSteppable(row))
		for _, c := range row.Cells {
			assert.NotEqual(model.HoldHead, c)
		}
	}
}

func TestHardHoldsAreAlwaysPaired(t *testing.T) {
	profile := variedProfile(8)
	// Sustain a region well above the hold threshold.
	for i := 16; i < 40; i++ {
		profile.Weights[i] = 0.9
	}
	chart, err := Generate(profile, DefaultTunings()[model.Hard], rand.New(rand.NewSource(11)))

	assert := assert.New(t)
	assert.NoError(err)
	spans, err := model.HoldSpans(&chart.Grid)
	assert.NoError(err)

	var holds int
	for col := range spans {
		holds += len(spans[col])
	}
	assert.Greater(holds, 0)
}

func TestHardJumpsStayOnDownbeatsWithTwoColumns(t *testing.T) {
	profile := intensity.Flat(16 * constants.TicksPerMeasure)
	tun := DefaultTunings()[model.Hard]
	tun.AllowHolds = false
	chart, err := Generate(profile, tun, rand.New(rand.NewSource(13)))

	assert := assert.New(t)
	assert.NoError(err)
	for _, row := range chart.Grid.Rows {
		n := countSteppable(row)
		assert.LessOrEqual(n, 2)
		if n == 2 {
			assert.Zero(row.Tick % constants.TicksPerMeasure)
		}
	}
}

func TestGenerateAllIsDeterministic(t *testing.T) {
	profile := variedProfile(8)
	a, err1 := GenerateAll(profile, DefaultTunings(), 42)
	b, err2 := GenerateAll(profile, DefaultTunings(), 42)

	assert := assert.New(t)
	assert.NoError(err1)
	assert.NoError(err2)
	assert.Equal(a, b)
}

func TestDifferentSeedsProduceDifferentCharts(t *testing.T) {
	profile := variedProfile(8)
	a, _ := GenerateAll(profile, DefaultTunings(), 42)
	b, _ := GenerateAll(profile, DefaultTunings(), 7)

	assert.NotEqual(t, a[model.Hard].Grid.Rows, b[model.Hard].Grid.Rows)
}

func TestEmptyProfileFails(t *testing.T) {
	profile := &intensity.Profile{SubdivTicks: constants.SubdivTicks}
	_, err := Generate(profile, DefaultTunings()[model.Easy], rand.New(rand.NewSource(1)))

	var ide *InsufficientDataError
	assert.ErrorAs(t, err, &ide)
}

func countSteppable(row model.Row) int {
	var n int
	for _, c := range row.Cells {
		if c == model.Tap || c == model.HoldHead || c == model.RollHead {
			n++
		}
	}
	return n
}
