package cmd

import (
	"fmt"
	"os"

	"github.com/Johell1NS/StepGenerator/model"
	"github.com/Johell1NS/StepGenerator/sm"
	"github.com/Johell1NS/StepGenerator/timing"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <simfile>",
	Short: "Prints a simfile's header and per-tier note counts",
	Long:  `Prints a simfile's header and per-tier note counts`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inspect(args[0])
	},
}

func inspect(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	sim, err := sm.Parse(raw)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Title:  %v\n", sim.Title)
	fmt.Printf("Artist: %v\n", sim.Artist)
	fmt.Printf("Music:  %v\n", sim.Music)
	fmt.Printf("Offset: %.3fs\n", sim.Tempo.OffsetSeconds)
	for _, b := range sim.Tempo.BPMs {
		fmt.Printf("BPM:    %.3f from tick %v\n", b.BPM, b.Tick)
	}
	for _, s := range sim.Tempo.Stops {
		fmt.Printf("Stop:   %.3fs at tick %v\n", s.Seconds, s.Tick)
	}

	if grid, err := timing.NewGrid(sim.Tempo); err == nil {
		for _, tier := range model.TierOrder {
			if chart, ok := sim.Charts[tier]; ok {
				last := chart.Grid.LastTick()
				fmt.Printf("%-9v meter %2v: %4v notes, last at tick %v (%.1fs)\n",
					tier, chart.Meter, chart.Grid.NoteCount(), last, grid.BeatToSeconds(last))
			}
		}
	}
}
