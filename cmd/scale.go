package cmd

import (
	"fmt"
	"os"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/intensity"
	"github.com/Johell1NS/StepGenerator/model"
	"github.com/Johell1NS/StepGenerator/scale"
	"github.com/Johell1NS/StepGenerator/sm"
	"github.com/Johell1NS/StepGenerator/timing"
	"github.com/Johell1NS/StepGenerator/util"
	"github.com/spf13/cobra"
)

var (
	scaleTier  string
	scaleDelta float64
)

func init() {
	scaleCmd.Flags().StringVar(&scaleTier, "difficulty", "Hard", "tier to scale")
	scaleCmd.Flags().Float64Var(&scaleDelta, "delta", -0.1, "density change, -0.2 to 0.2")
	rootCmd.AddCommand(scaleCmd)
}

var scaleCmd = &cobra.Command{
	Use:   "scale",
	Short: "Scales one tier's note density up or down",
	Long:  `Scales one tier's note density by a fraction without regenerating it, for every simfile under the songs dir.`,
	Run: func(cmd *cobra.Command, args []string) {
		runScale()
	},
}

func runScale() {
	tier := model.DifficultyTier(scaleTier)
	paths := util.GatherAllChartPaths(constants.GetSongsDir(), 0)

	for _, path := range paths {
		if err := scaleOne(path, tier); err != nil {
			fmt.Printf("Skipping %v because: %v\n", path, err)
		}
	}
}

func scaleOne(path string, tier model.DifficultyTier) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sim, err := sm.Parse(raw)
	if err != nil {
		return err
	}
	chart, ok := sim.Charts[tier]
	if !ok {
		return fmt.Errorf("no %v chart (have %v)", tier, util.GetKeys(sim.Charts))
	}

	profile := loadOrFlatProfile(path, sim, chart)

	scaled, applied, err := scale.Apply(&chart.Grid, profile, scaleDelta)
	if shortfall, ok := err.(*scale.InvalidTargetError); ok {
		fmt.Printf("%v: only %v of %v changes fit\n", path, shortfall.Applied, shortfall.Requested)
	} else if err != nil {
		return err
	}

	chart.Grid = *scaled
	fmt.Printf("%v: %v notes %v by %v\n", path, tier, direction(scaleDelta), applied)
	return os.WriteFile(path, sm.Serialize(sim), 0644)
}

// loadOrFlatProfile uses the song's real intensity when the audio is on
// hand, otherwise a flat profile: scaling then ranks purely by structure.
func loadOrFlatProfile(path string, sim *model.Simfile, chart *model.Chart) *intensity.Profile {
	if grid, err := timing.NewGrid(sim.Tempo); err == nil {
		if p, err := intensity.Load(resolveAudio(path, sim), grid); err == nil {
			return p
		}
	}
	return intensity.Flat(chart.Grid.LastTick() + constants.TicksPerMeasure)
}

func direction(delta float64) string {
	if delta < 0 {
		return "down"
	}
	return "up"
}
