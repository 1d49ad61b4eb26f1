// Package sm reads and writes the StepMania .sm chart format. Everything
// format-specific (tag grammar, fixed-width rows, measure separators) stays
// in here; the rest of the program only sees model values.
package sm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/model"
)

type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return "sm: " + e.Msg
}

func formatErrf(format string, args ...any) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

func beatToTick(beat float64) int64 {
	return int64(math.Round(beat * constants.TicksPerBeat))
}

func tickToBeat(tick int64) float64 {
	return float64(tick) / constants.TicksPerBeat
}

// stripComments removes // comments line by line. ArrowVortex and the
// original generator both sprinkle separator comments between note blocks.
func stripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "//"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}

// Parse decodes a .sm file. File I/O is the caller's responsibility.
func Parse(data []byte) (*model.Simfile, error) {
	text := stripComments(string(data))
	sim := &model.Simfile{Charts: make(map[model.DifficultyTier]*model.Chart)}

	pos := 0
	for {
		hash := strings.IndexByte(text[pos:], '#')
		if hash < 0 {
			break
		}
		pos += hash + 1

		colon := strings.IndexByte(text[pos:], ':')
		if colon < 0 {
			return nil, formatErrf("tag %q has no value", snippet(text[pos:]))
		}
		tag := strings.ToUpper(strings.TrimSpace(text[pos : pos+colon]))
		pos += colon + 1

		semi := strings.IndexByte(text[pos:], ';')
		if semi < 0 {
			return nil, formatErrf("tag #%v is not terminated with ';'", tag)
		}
		value := text[pos : pos+semi]
		pos += semi + 1

		if err := applyTag(sim, tag, value); err != nil {
			return nil, err
		}
	}

	if len(sim.Tempo.BPMs) == 0 {
		return nil, formatErrf("missing #BPMS tag")
	}
	return sim, nil
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 20 {
		return s[:20]
	}
	return s
}

func applyTag(sim *model.Simfile, tag, value string) error {
	trimmed := strings.TrimSpace(value)
	switch tag {
	case "TITLE":
		sim.Title = trimmed
	case "SUBTITLE":
		sim.Subtitle = trimmed
	case "ARTIST":
		sim.Artist = trimmed
	case "MUSIC":
		sim.Music = trimmed
	case "SAMPLESTART":
		v, err := parseFloat(trimmed, tag)
		if err != nil {
			return err
		}
		sim.SampleStart = v
	case "SAMPLELENGTH":
		v, err := parseFloat(trimmed, tag)
		if err != nil {
			return err
		}
		sim.SampleLength = v
	case "OFFSET":
		v, err := parseFloat(trimmed, tag)
		if err != nil {
			return err
		}
		// #OFFSET shifts the chart earlier, so the wall-clock time of
		// beat 0 is its negation.
		sim.Tempo.OffsetSeconds = -v
	case "BPMS":
		bpms, err := parseBPMs(trimmed)
		if err != nil {
			return err
		}
		sim.Tempo.BPMs = bpms
	case "STOPS":
		stops, err := parseStops(trimmed)
		if err != nil {
			return err
		}
		sim.Tempo.Stops = stops
	case "NOTES":
		tier, chart, err := parseNotes(value)
		if err != nil {
			return err
		}
		sim.Charts[tier] = chart
	}
	// Unknown tags are ignored; Serialize emits the full canonical set.
	return nil
}

func parseFloat(s, tag string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, formatErrf("#%v: bad number %q", tag, s)
	}
	return v, nil
}

func parseBPMs(value string) ([]model.BPMChange, error) {
	var res []model.BPMChange
	if strings.TrimSpace(value) == "" {
		return res, nil
	}
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		beatStr, bpmStr, found := strings.Cut(entry, "=")
		if !found {
			return nil, formatErrf("#BPMS: bad entry %q", entry)
		}
		beat, err := parseFloat(strings.TrimSpace(beatStr), "BPMS")
		if err != nil {
			return nil, err
		}
		bpm, err := parseFloat(strings.TrimSpace(bpmStr), "BPMS")
		if err != nil {
			return nil, err
		}
		if bpm <= 0 {
			return nil, formatErrf("#BPMS: non-positive bpm %v", bpm)
		}
		tick := beatToTick(beat)
		if len(res) == 0 && tick != 0 {
			return nil, formatErrf("#BPMS: first segment must start at beat 0, got %v", beat)
		}
		if len(res) > 0 && tick <= res[len(res)-1].Tick {
			return nil, formatErrf("#BPMS: segments must be strictly increasing at beat %v", beat)
		}
		res = append(res, model.BPMChange{Tick: tick, BPM: bpm})
	}
	return res, nil
}

func parseStops(value string) ([]model.Stop, error) {
	var res []model.Stop
	if strings.TrimSpace(value) == "" {
		return res, nil
	}
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		beatStr, durStr, found := strings.Cut(entry, "=")
		if !found {
			return nil, formatErrf("#STOPS: bad entry %q", entry)
		}
		beat, err := parseFloat(strings.TrimSpace(beatStr), "STOPS")
		if err != nil {
			return nil, err
		}
		dur, err := parseFloat(strings.TrimSpace(durStr), "STOPS")
		if err != nil {
			return nil, err
		}
		if dur < 0 {
			return nil, formatErrf("#STOPS: negative duration %v", dur)
		}
		tick := beatToTick(beat)
		if len(res) > 0 && tick <= res[len(res)-1].Tick {
			return nil, formatErrf("#STOPS: events must be strictly increasing at beat %v", beat)
		}
		res = append(res, model.Stop{Tick: tick, Seconds: dur})
	}
	return res, nil
}

func parseTier(s string) (model.DifficultyTier, error) {
	for _, tier := range model.TierOrder {
		if strings.EqualFold(s, string(tier)) {
			return tier, nil
		}
	}
	return "", formatErrf("#NOTES: unknown difficulty %q", s)
}

func parseNotes(value string) (model.DifficultyTier, *model.Chart, error) {
	fields := strings.SplitN(value, ":", 6)
	if len(fields) != 6 {
		return "", nil, formatErrf("#NOTES: expected 6 fields, got %v", len(fields))
	}

	stepsType := strings.TrimSpace(fields[0])
	if stepsType != "dance-single" {
		return "", nil, formatErrf("#NOTES: unsupported steps type %q", stepsType)
	}

	tier, err := parseTier(strings.TrimSpace(fields[2]))
	if err != nil {
		return "", nil, err
	}

	meter, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return "", nil, formatErrf("#NOTES: bad meter %q", strings.TrimSpace(fields[3]))
	}

	chart := &model.Chart{
		Description: strings.TrimSpace(fields[1]),
		Meter:       meter,
		Radar:       strings.TrimSpace(fields[4]),
	}

	for mIdx, measure := range strings.Split(fields[5], ",") {
		var rows []string
		for _, line := range strings.Split(measure, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				rows = append(rows, line)
			}
		}
		if len(rows) == 0 {
			continue
		}
		if constants.TicksPerMeasure%len(rows) != 0 {
			return "", nil, formatErrf("#NOTES: measure %v has unsupported row count %v", mIdx+1, len(rows))
		}
		step := int64(constants.TicksPerMeasure / len(rows))
		for rIdx, rowStr := range rows {
			if len(rowStr) != model.NumColumns {
				return "", nil, formatErrf("#NOTES: measure %v row %v has %v columns, want %v", mIdx+1, rIdx+1, len(rowStr), model.NumColumns)
			}
			tick := int64(mIdx)*constants.TicksPerMeasure + int64(rIdx)*step
			for col := 0; col < model.NumColumns; col++ {
				switch c := model.CellType(rowStr[col]); c {
				case model.Empty:
				case model.Tap, model.HoldHead, model.HoldTail, model.RollHead, model.Mine:
					chart.Grid.SetCell(tick, col, c)
				default:
					return "", nil, formatErrf("#NOTES: measure %v row %v has invalid cell %q", mIdx+1, rIdx+1, string(rowStr[col]))
				}
			}
		}
	}

	return tier, chart, nil
}
