package sm

import (
	"fmt"
	"strings"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/model"
)

// rowCounts are the measure resolutions a serialized chart may use, coarsest
// first. Serialize picks the coarsest one that represents every tick in the
// measure exactly, which is also what ArrowVortex does on re-save.
var rowCounts = []int64{4, 8, 12, 16, 24, 32, 48, 64, 96, 192}

const defaultRadar = "0.500,0.500,0.500,0.500,0.500"

// Serialize writes the canonical .sm text for a simfile. Output is
// deterministic: fixed tag ordering, fixed numeric formatting, tiers in
// TierOrder, and per-measure resolutions chosen by rowCounts.
func Serialize(sim *model.Simfile) []byte {
	var b strings.Builder

	writeTag := func(tag, value string) {
		fmt.Fprintf(&b, "#%v:%v;\n", tag, value)
	}

	writeTag("TITLE", sim.Title)
	writeTag("SUBTITLE", sim.Subtitle)
	writeTag("ARTIST", sim.Artist)
	writeTag("TITLETRANSLIT", "")
	writeTag("SUBTITLETRANSLIT", "")
	writeTag("ARTISTTRANSLIT", "")
	writeTag("GENRE", "")
	writeTag("CREDIT", "StepGenerator")
	writeTag("MUSIC", sim.Music)
	writeTag("BANNER", "")
	writeTag("BACKGROUND", "")
	writeTag("CDTITLE", "")
	writeTag("SAMPLESTART", fmt.Sprintf("%.3f", sim.SampleStart))
	writeTag("SAMPLELENGTH", fmt.Sprintf("%.3f", sim.SampleLength))
	writeTag("SELECTABLE", "YES")
	writeTag("OFFSET", fmt.Sprintf("%.3f", -sim.Tempo.OffsetSeconds))
	writeTag("BPMS", formatBPMs(sim.Tempo.BPMs))
	writeTag("STOPS", formatStops(sim.Tempo.Stops))
	writeTag("DELAYS", "")
	writeTag("WARPS", "")
	writeTag("TIMESIGNATURES", "0.000=4=4")
	writeTag("TICKCOUNTS", "0.000=4")
	writeTag("COMBOS", "0.000=1")
	writeTag("SPEEDS", "0.000=1.000=0.000=0")
	writeTag("SCROLLS", "0.000=1.000")
	writeTag("FAKES", "")
	writeTag("LABELS", "0.000=Song Start")

	for _, tier := range model.TierOrder {
		chart, ok := sim.Charts[tier]
		if !ok {
			continue
		}
		desc := chart.Description
		if desc == "" {
			desc = "StepGenerator"
		}
		radar := chart.Radar
		if radar == "" {
			radar = defaultRadar
		}
		fmt.Fprintf(&b, "\n//--------------- dance-single - %v ----------------\n", tier)
		b.WriteString("#NOTES:\n")
		fmt.Fprintf(&b, "     dance-single:\n")
		fmt.Fprintf(&b, "     %v:\n", desc)
		fmt.Fprintf(&b, "     %v:\n", tier)
		fmt.Fprintf(&b, "     %v:\n", chart.Meter)
		fmt.Fprintf(&b, "     %v:\n", radar)
		b.WriteString(formatMeasures(&chart.Grid))
		b.WriteString("\n;\n")
	}

	return []byte(b.String())
}

func formatBPMs(bpms []model.BPMChange) string {
	entries := make([]string, 0, len(bpms))
	for _, c := range bpms {
		entries = append(entries, fmt.Sprintf("%.3f=%.3f", tickToBeat(c.Tick), c.BPM))
	}
	return strings.Join(entries, ",\n")
}

func formatStops(stops []model.Stop) string {
	entries := make([]string, 0, len(stops))
	for _, s := range stops {
		entries = append(entries, fmt.Sprintf("%.3f=%.3f", tickToBeat(s.Tick), s.Seconds))
	}
	return strings.Join(entries, ",\n")
}

func formatMeasures(g *model.NoteGrid) string {
	numMeasures := g.LastTick()/constants.TicksPerMeasure + 1

	var measures []string
	rowIdx := 0
	for m := int64(0); m < numMeasures; m++ {
		start := m * constants.TicksPerMeasure
		end := start + constants.TicksPerMeasure

		var rows []model.Row
		for rowIdx < len(g.Rows) && g.Rows[rowIdx].Tick < end {
			rows = append(rows, g.Rows[rowIdx])
			rowIdx++
		}

		n := measureResolution(rows, start)
		step := constants.TicksPerMeasure / n
		lines := make([]string, n)
		for i := range lines {
			lines[i] = "0000"
		}
		for _, row := range rows {
			i := (row.Tick - start) / step
			var cells [model.NumColumns]byte
			for c := range row.Cells {
				cells[c] = byte(row.Cells[c])
			}
			lines[i] = string(cells[:])
		}
		measures = append(measures, strings.Join(lines, "\n"))
	}

	return strings.Join(measures, "\n,\n")
}

func measureResolution(rows []model.Row, start int64) int64 {
	for _, n := range rowCounts {
		step := constants.TicksPerMeasure / n
		ok := true
		for _, row := range rows {
			if (row.Tick-start)%step != 0 {
				ok = false
				break
			}
		}
		if ok {
			return n
		}
	}
	// Ticks are always multiples of 1/192 of a measure per the parse rules,
	// so reaching this means the grid was built wrong.
	panic(fmt.Sprintf("measure at tick %v has rows off the 192nd grid", start))
}
