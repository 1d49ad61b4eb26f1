package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Johell1NS/StepGenerator/model"
	"github.com/Johell1NS/StepGenerator/sm"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var auditionTier string

func init() {
	auditionCmd.Flags().StringVar(&auditionTier, "difficulty", "Hard", "tier to audition")
	rootCmd.AddCommand(auditionCmd)
}

var auditionCmd = &cobra.Command{
	Use:   "audition <simfile>",
	Short: "Renders one tier as a MIDI click pattern",
	Long:  `Renders one tier's note pattern as a MIDI file next to the simfile, one pitch per column, so a chart can be heard without booting the game.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		audition(args[0])
	},
}

// columnKeys maps the four panels to close diatonic pitches, left to right.
var columnKeys = [model.NumColumns]uint8{60, 62, 64, 65}

type midiEvent struct {
	tick int64
	msg  smf.Message
}

func audition(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	sim, err := sm.Parse(raw)
	if err != nil {
		panic(err)
	}
	chart, ok := sim.Charts[model.DifficultyTier(auditionTier)]
	if !ok {
		panic("no " + auditionTier + " chart in " + path)
	}

	events := chartEvents(sim, chart)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(192)

	var track smf.Track
	var prev int64
	for _, e := range events {
		track.Add(uint32(e.tick-prev), e.msg)
		prev = e.tick
	}
	track.Close(0)
	s.Add(track)

	out := strings.TrimSuffix(path, ".sm") + ".mid"
	if err := s.WriteFile(out); err != nil {
		panic("Could not write midi file: " + err.Error())
	}
	fmt.Printf("Wrote %v (%v events)\n", out, len(events))
}

// chartEvents flattens the grid into absolute-tick MIDI events. Taps sound
// for a 16th; holds sound from head to tail.
func chartEvents(sim *model.Simfile, chart *model.Chart) []midiEvent {
	spans, err := model.HoldSpans(&chart.Grid)
	if err != nil {
		panic(err)
	}

	var events []midiEvent
	for _, b := range sim.Tempo.BPMs {
		events = append(events, midiEvent{tick: b.Tick, msg: smf.MetaTempo(b.BPM)})
	}

	for _, row := range chart.Grid.Rows {
		for col, c := range row.Cells {
			key := columnKeys[col]
			switch c {
			case model.Tap:
				events = append(events, midiEvent{tick: row.Tick, msg: smf.Message(midi.NoteOn(0, key, 100))})
				events = append(events, midiEvent{tick: row.Tick + 48, msg: smf.Message(midi.NoteOff(0, key))})
			case model.HoldHead, model.RollHead:
				events = append(events, midiEvent{tick: row.Tick, msg: smf.Message(midi.NoteOn(0, key, 100))})
				events = append(events, midiEvent{tick: tailFor(spans, col, row.Tick), msg: smf.Message(midi.NoteOff(0, key))})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].tick < events[j].tick
	})
	return events
}

func tailFor(spans [model.NumColumns][]model.HoldSpan, col int, head int64) int64 {
	for _, s := range spans[col] {
		if s.Head == head {
			return s.Tail
		}
	}
	// HoldSpans already validated pairing.
	panic(fmt.Sprintf("no tail for hold at tick %v column %v", head, col))
}
