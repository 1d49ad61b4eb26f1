package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/db"
	"github.com/Johell1NS/StepGenerator/gen"
	"github.com/Johell1NS/StepGenerator/intensity"
	"github.com/Johell1NS/StepGenerator/model"
	"github.com/Johell1NS/StepGenerator/sm"
	"github.com/Johell1NS/StepGenerator/timing"
	"github.com/Johell1NS/StepGenerator/util"
	"github.com/spf13/cobra"
)

var generateSeed int64

func init() {
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 1, "seed for note placement; same seed, same charts")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate [maxNum]",
	Short: "Generates Easy/Medium/Hard charts for every song",
	Long:  `Generates Easy/Medium/Hard charts for every simfile under the songs dir, replacing those tiers in place.`,
	Run: func(cmd *cobra.Command, args []string) {
		var maxNum int
		if len(args) == 1 {
			arg1, err := strconv.Atoi(args[0])
			if err != nil {
				panic(err)
			}
			maxNum = arg1
		}

		runGenerate(maxNum)
	},
}

func runGenerate(maxNum int) {
	paths := util.GatherAllChartPaths(constants.GetSongsDir(), maxNum)
	fmt.Printf("Generating charts for %v simfiles...\n", len(paths))

	var done int
	for _, path := range paths {
		if err := generateOne(path); err != nil {
			fmt.Printf("Skipping %v because: %v\n", path, err)
			continue
		}
		done++
	}
	fmt.Printf("Done. Generated charts for %v of %v simfiles.\n", done, len(paths))
}

func generateOne(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sim, err := sm.Parse(raw)
	if err != nil {
		return err
	}

	grid, err := timing.NewGrid(sim.Tempo)
	if err != nil {
		return err
	}

	audioPath := resolveAudio(path, sim)
	fillMetadata(sim, audioPath)

	profile, err := intensity.Load(audioPath, grid)
	if err != nil {
		return err
	}

	charts, err := gen.GenerateAll(profile, gen.DefaultTunings(), generateSeed)
	if err != nil {
		return err
	}

	// Only the generated tiers are replaced; hand-made Beginner or
	// Challenge charts survive a regenerate.
	if sim.Charts == nil {
		sim.Charts = make(map[model.DifficultyTier]*model.Chart)
	}
	for tier, chart := range charts {
		sim.Charts[tier] = chart
	}

	return os.WriteFile(path, sm.Serialize(sim), 0644)
}

// resolveAudio prefers the #MUSIC tag and falls back to an mp3 named after
// the simfile.
func resolveAudio(smPath string, sim *model.Simfile) string {
	dir := filepath.Dir(smPath)
	if sim.Music != "" {
		return filepath.Join(dir, sim.Music)
	}
	base := strings.TrimSuffix(filepath.Base(smPath), ".sm")
	return filepath.Join(dir, base+".mp3")
}

// fillMetadata populates empty header tags from the catalog, then from the
// "Title - Artist" filename convention.
func fillMetadata(sim *model.Simfile, audioPath string) {
	if sim.Title != "" && sim.Artist != "" {
		return
	}

	name := filepath.Base(audioPath)
	if meta, ok := db.GetSongMetadatas([]string{name})[name]; ok {
		if sim.Title == "" {
			sim.Title = meta.Title
		}
		if sim.Artist == "" {
			sim.Artist = meta.Artist
		}
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if parts := strings.SplitN(stem, " - ", 2); len(parts) == 2 {
		if sim.Title == "" {
			sim.Title = parts[0]
		}
		if sim.Artist == "" {
			sim.Artist = parts[1]
		}
	} else if sim.Title == "" {
		sim.Title = stem
	}

	if sim.Music == "" {
		sim.Music = name
	}
}
