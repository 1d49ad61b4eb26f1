package constants

import "os"

func GetSongsDir() string {
	path := os.Getenv("SONGS_PATH")
	if path != "" {
		return path
	}
	return "./songs"
}

// GetMetadataEndpoint returns the DynamoDB endpoint for song metadata
// lookups, or "" when the lookup is disabled.
func GetMetadataEndpoint() string {
	return os.Getenv("METADATA_ENDPOINT")
}

// Beat positions are stored as integer ticks so grid math stays exact over
// long songs with many tempo segments. 192 ticks per beat divides evenly
// into every row resolution StepMania accepts.
const TicksPerBeat = 192

const BeatsPerMeasure = 4

const TicksPerMeasure = TicksPerBeat * BeatsPerMeasure

// SubdivTicks is the default generation grid: one slot per 16th note.
const SubdivTicks = TicksPerBeat / 4

// EndMarginSeconds keeps the final fade of a song free of notes.
const EndMarginSeconds = 1.5

// CacheSuffix names the per-song intensity cache written next to the audio.
const CacheSuffix = ".analysis.dat"
