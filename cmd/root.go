package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stepgenerator",
	Short: "Generates StepMania Dance-Single charts from audio",
	Long:  `Generates tiered StepMania Dance-Single charts from a song's audio and tempo map.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
