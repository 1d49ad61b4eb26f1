// Package gen builds tiered Dance-Single charts from an intensity profile.
// The walk is deterministic for a given profile, tuning and seed.
package gen

import (
	"math/rand"
	"sync"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/intensity"
	"github.com/Johell1NS/StepGenerator/model"
)

// InsufficientDataError means the profile covers no subdivisions, usually
// because the audio is shorter than the end margin.
type InsufficientDataError struct{}

func (e *InsufficientDataError) Error() string {
	return "gen: profile is empty, nothing to chart"
}

// Generate walks every subdivision the tier admits and decides emit/rest
// from the intensity profile, then places columns via the rand stream. Two
// calls with equal inputs and equally-seeded streams produce identical
// charts.
func Generate(profile *intensity.Profile, tun Tuning, rng *rand.Rand) (*model.Chart, error) {
	endTick := profile.EndTick()
	if endTick <= 0 {
		return nil, &InsufficientDataError{}
	}

	chart := &model.Chart{Description: "StepGenerator", Meter: tun.Meter}
	g := &chart.Grid
	st := NewState()
	globalAvg := average(profile.Weights)

	for tick := int64(0); tick < endTick; tick += tun.SubdivTicks {
		// A hold keeps its column blocked through the tail tick; place the
		// tail once the walker has passed it.
		for c := 0; c < model.NumColumns; c++ {
			if st.OpenHolds[c] && tick > st.tails[c] {
				g.SetCell(st.tails[c], c, model.HoldTail)
				st.OpenHolds[c] = false
			}
		}

		w := profile.At(tick)
		onBeat := tick%constants.TicksPerBeat == 0
		downbeat := tick%constants.TicksPerMeasure == 0
		local := localAverage(profile, tick)

		emit := false
		switch {
		case downbeat:
			// Measure starts always carry a note; it anchors the player.
			emit = true
		case onBeat:
			emit = w > local*tun.OnsetFactor || st.rests >= tun.MaxRests
			if tun.MaxStreak > 0 && st.streak >= tun.MaxStreak {
				emit = false
			}
		default:
			// Off-beat slots are accents only: well above the song's
			// average, and they never trigger the rest cap.
			emit = w > local*tun.OffbeatFactor && w > 1.5*globalAvg
			if tun.MaxStreak > 0 && st.streak >= tun.MaxStreak {
				emit = false
			}
		}

		if !emit {
			if onBeat {
				st.rests++
			}
			st.streak = 0
			continue
		}

		if tun.AllowHolds && onBeat && !st.HoldOpen() && w >= tun.HoldThreshold {
			if run := sustainedRun(profile, tick, tun.HoldThreshold); run >= tun.HoldMinRun {
				if col := st.PickColumn(rng); col >= 0 {
					g.SetCell(tick, col, model.HoldHead)
					st.OpenHolds[col] = true
					st.tails[col] = tick + int64(run)*profile.SubdivTicks
					st.LastColumn = col
					st.PrevWasTap = false
					st.rests = 0
					st.streak++
					continue
				}
			}
		}

		col := st.PickColumn(rng)
		if col < 0 {
			// Every column blocked by holds and the alternation rule; the
			// slot degrades to a rest rather than breaking an invariant.
			if onBeat {
				st.rests++
			}
			st.streak = 0
			continue
		}
		g.SetCell(tick, col, model.Tap)

		if downbeat && tun.JumpQuota > 0 && w >= tun.JumpThreshold && rng.Float64() < tun.JumpQuota {
			if second := st.PickSecondColumn(col, rng); second >= 0 {
				g.SetCell(tick, second, model.Tap)
				col = second
			}
		}

		st.LastColumn = col
		st.PrevWasTap = true
		st.rests = 0
		st.streak++
	}

	for c := 0; c < model.NumColumns; c++ {
		if st.OpenHolds[c] {
			g.SetCell(st.tails[c], c, model.HoldTail)
			st.OpenHolds[c] = false
		}
	}

	return chart, nil
}

// tierSalts decorrelate the per-tier rand streams derived from one seed.
var tierSalts = map[model.DifficultyTier]int64{
	model.Easy:   0,
	model.Medium: 7919,
	model.Hard:   104729,
}

// GenerateAll builds the Easy, Medium and Hard charts. The tiers are
// independent, so they run in parallel; each owns a rand stream seeded from
// the shared seed plus a fixed per-tier salt, which keeps the output
// identical to a serial run.
func GenerateAll(profile *intensity.Profile, tunings map[model.DifficultyTier]Tuning, seed int64) (map[model.DifficultyTier]*model.Chart, error) {
	tiers := []model.DifficultyTier{model.Easy, model.Medium, model.Hard}
	charts := make([]*model.Chart, len(tiers))
	errs := make([]error, len(tiers))

	var wg sync.WaitGroup
	for i, tier := range tiers {
		wg.Add(1)
		go func(i int, tier model.DifficultyTier) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + tierSalts[tier]))
			charts[i], errs[i] = Generate(profile, tunings[tier], rng)
		}(i, tier)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make(map[model.DifficultyTier]*model.Chart, len(tiers))
	for i, tier := range tiers {
		out[tier] = charts[i]
	}
	return out, nil
}

// localAverage is the mean weight over the surrounding four beats each way,
// clipped at the profile edges.
func localAverage(p *intensity.Profile, tick int64) float64 {
	var sum float64
	var n int
	for b := int64(-4); b <= 4; b++ {
		t := tick + b*constants.TicksPerBeat
		if t < 0 || t >= p.EndTick() {
			continue
		}
		sum += p.At(t)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// sustainedRun counts consecutive profile subdivisions from tick whose
// weight stays at or above the threshold.
func sustainedRun(p *intensity.Profile, tick int64, threshold float64) int {
	var n int
	for t := tick; t < p.EndTick() && p.At(t) >= threshold; t += p.SubdivTicks {
		n++
	}
	return n
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
