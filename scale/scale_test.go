package scale

import (
	"testing"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/intensity"
	"github.com/Johell1NS/StepGenerator/model"
	"github.com/stretchr/testify/assert"
)

// tenTapGrid has a tap on each of the first ten beats, alternating between
// columns 0 and 1, plus a one-measure hold on column 2.
func tenTapGrid() *model.NoteGrid {
	g := &model.NoteGrid{}
	for beat := int64(0); beat < 10; beat++ {
		g.SetCell(beat*constants.TicksPerBeat, int(beat%2), model.Tap)
	}
	g.SetCell(3*constants.TicksPerBeat, 2, model.HoldHead)
	g.SetCell(7*constants.TicksPerBeat, 2, model.HoldTail)
	return g
}

func TestScaleDownRemovesExactlyTheRoundedCount(t *testing.T) {
	g := tenTapGrid()
	profile := intensity.Flat(16 * constants.TicksPerMeasure)
	out, applied, err := Apply(g, profile, -0.2)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(2, applied)
	assert.Equal(8, out.TapCount())
	// The input grid is untouched.
	assert.Equal(10, g.TapCount())
}

func TestScaleDownNeverTouchesHolds(t *testing.T) {
	g := tenTapGrid()
	profile := intensity.Flat(16 * constants.TicksPerMeasure)
	out, _, err := Apply(g, profile, -0.2)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(model.HoldHead, out.CellAt(3*constants.TicksPerBeat, 2))
	assert.Equal(model.HoldTail, out.CellAt(7*constants.TicksPerBeat, 2))
}

func TestScaleDownPrefersDenseNeighborhoods(t *testing.T) {
	g := &model.NoteGrid{}
	// A cluster of 16ths at the start, two lonely taps far away.
	for i := int64(0); i < 6; i++ {
		g.SetCell(i*constants.SubdivTicks, int(i%2), model.Tap)
	}
	g.SetCell(10*constants.TicksPerBeat, 0, model.Tap)
	g.SetCell(12*constants.TicksPerBeat, 0, model.Tap)

	profile := intensity.Flat(16 * constants.TicksPerMeasure)
	out, applied, err := Apply(g, profile, -0.2)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(2, applied)
	assert.Equal(model.Tap, out.CellAt(10*constants.TicksPerBeat, 0))
	assert.Equal(model.Tap, out.CellAt(12*constants.TicksPerBeat, 0))
}

func TestScaleUpAddsExactlyTheRoundedCount(t *testing.T) {
	g := tenTapGrid()
	profile := intensity.Flat(16 * constants.TicksPerMeasure)
	out, applied, err := Apply(g, profile, 0.2)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(2, applied)
	assert.Equal(12, out.TapCount())
}

func TestScaleUpKeepsHoldSpansClear(t *testing.T) {
	g := tenTapGrid()
	profile := intensity.Flat(16 * constants.TicksPerMeasure)
	out, _, err := Apply(g, profile, 0.2)

	assert := assert.New(t)
	assert.NoError(err)
	spans, err := model.HoldSpans(out)
	assert.NoError(err)
	assert.Len(spans[2], 1)
	// Nothing landed on column 2 inside the hold.
	for tick := 3 * constants.TicksPerBeat; tick <= 7*constants.TicksPerBeat; tick += constants.SubdivTicks {
		c := out.CellAt(int64(tick), 2)
		assert.NotEqual(model.Tap, c)
	}
}

func TestScaleUpRespectsTwoInputCap(t *testing.T) {
	g := tenTapGrid()
	profile := intensity.Flat(16 * constants.TicksPerMeasure)
	out, _, err := Apply(g, profile, 0.2)

	assert := assert.New(t)
	assert.NoError(err)
	spans, err := model.HoldSpans(out)
	assert.NoError(err)
	for _, row := range out.Rows {
		var inputs int
		for col := 0; col < model.NumColumns; col++ {
			if model.InsideHold(spans, col, row.Tick) {
				inputs++
				continue
			}
			c := row.Cells[col]
			if c == model.Tap || c == model.HoldHead || c == model.RollHead {
				inputs++
			}
		}
		assert.LessOrEqual(inputs, 2)
	}
}

func TestScaleUpReportsShortfall(t *testing.T) {
	g := &model.NoteGrid{}
	g.SetCell(0, 0, model.Tap)
	g.SetCell(0, 1, model.Tap)
	g.SetCell(constants.SubdivTicks, 2, model.Tap)
	g.SetCell(constants.SubdivTicks, 3, model.Tap)

	profile := intensity.Flat(constants.TicksPerMeasure)
	out, applied, err := Apply(g, profile, 0.2)

	assert := assert.New(t)
	var ite *InvalidTargetError
	assert.ErrorAs(err, &ite)
	assert.Equal(1, ite.Requested)
	assert.Equal(0, ite.Applied)
	assert.Equal(0, applied)
	// The grid still comes back with whatever fit.
	assert.NotNil(out)
	assert.Equal(4, out.TapCount())
}

func TestTinyDeltaIsANoOp(t *testing.T) {
	g := tenTapGrid()
	profile := intensity.Flat(16 * constants.TicksPerMeasure)
	out, applied, err := Apply(g, profile, 0.01)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(0, applied)
	assert.Equal(10, out.TapCount())
}

func TestDeltaBeyondBoundFails(t *testing.T) {
	g := tenTapGrid()
	profile := intensity.Flat(16 * constants.TicksPerMeasure)
	_, _, err := Apply(g, profile, 0.5)
	assert.Error(t, err)
}
