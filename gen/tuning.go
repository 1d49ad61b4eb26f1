package gen

import (
	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/model"
)

// Tuning collects the per-tier knobs as named configuration instead of
// hard-coded constants, so tiers differ only in data.
type Tuning struct {
	// SubdivTicks is the finest subdivision the tier may place notes on.
	SubdivTicks int64
	// OnsetFactor scales the local-average intensity gate for on-beat
	// emission. Lower means denser.
	OnsetFactor float64
	// OffbeatFactor scales the gate for 8th/16th slots between beats.
	OffbeatFactor float64
	// MaxRests forces a note after this many consecutive silent beats.
	MaxRests int
	// MaxStreak forces a rest after this many consecutive notes. 0 means no
	// limit.
	MaxStreak int
	// JumpQuota is the chance a qualifying downbeat becomes a jump. 0
	// disables jumps for the tier.
	JumpQuota float64
	// JumpThreshold is the minimum intensity for a jump candidate.
	JumpThreshold float64

	AllowHolds bool
	// HoldThreshold marks a subdivision as sustained; a run of at least
	// HoldMinRun sustained subdivisions becomes a hold.
	HoldThreshold float64
	HoldMinRun    int

	Meter int
}

func DefaultTunings() map[model.DifficultyTier]Tuning {
	return map[model.DifficultyTier]Tuning{
		model.Easy: {
			SubdivTicks: constants.TicksPerBeat,
			OnsetFactor: 0.6,
			MaxRests:    2,
			Meter:       3,
		},
		model.Medium: {
			SubdivTicks:   constants.TicksPerBeat / 2,
			OnsetFactor:   0.8,
			OffbeatFactor: 1.0,
			MaxRests:      2,
			MaxStreak:     7,
			Meter:         5,
		},
		model.Hard: {
			SubdivTicks:   constants.SubdivTicks,
			OnsetFactor:   0.5,
			OffbeatFactor: 0.8,
			MaxRests:      3,
			MaxStreak:     7,
			JumpQuota:     0.4,
			JumpThreshold: 0.6,
			AllowHolds:    true,
			HoldThreshold: 0.7,
			HoldMinRun:    4,
			Meter:         8,
		},
	}
}
