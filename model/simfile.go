package model

const NumColumns = 4

// CellType uses the .sm cell characters directly so the codec never has to
// translate.
type CellType byte

const (
	Empty    CellType = '0'
	Tap      CellType = '1'
	HoldHead CellType = '2'
	HoldTail CellType = '3'
	RollHead CellType = '4'
	Mine     CellType = 'M'
)

type DifficultyTier string

const (
	Beginner  DifficultyTier = "Beginner"
	Easy      DifficultyTier = "Easy"
	Medium    DifficultyTier = "Medium"
	Hard      DifficultyTier = "Hard"
	Challenge DifficultyTier = "Challenge"
)

// TierOrder is the canonical ordering of note blocks in a serialized chart.
var TierOrder = []DifficultyTier{Beginner, Easy, Medium, Hard, Challenge}

// BPMChange starts a constant-tempo segment at Tick.
type BPMChange struct {
	Tick int64
	BPM  float64
}

// Stop pauses the wall clock at Tick without advancing the beat axis.
type Stop struct {
	Tick    int64
	Seconds float64
}

type TempoMap struct {
	// OffsetSeconds is the wall-clock time of beat 0 relative to the start
	// of the audio. May be negative (pre-roll).
	OffsetSeconds float64
	BPMs          []BPMChange
	Stops         []Stop
}

type Chart struct {
	Description string
	Meter       int
	Radar       string
	Grid        NoteGrid
}

type Simfile struct {
	Title    string
	Subtitle string
	Artist   string
	Music    string

	SampleStart  float64
	SampleLength float64

	Tempo  TempoMap
	Charts map[DifficultyTier]*Chart
}
