package intensity

import (
	"os"
	"path/filepath"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/timing"
	"github.com/Johell1NS/StepGenerator/util"
	"github.com/google/uuid"
)

type cacheEntry struct {
	AudioSize    int64
	AudioModTime int64
	SubdivTicks  int64
	Weights      []float64
}

// Load returns the song's profile, reusing the cache written next to the
// audio file when the audio is unchanged. Repeated regenerate runs skip
// extraction entirely.
func Load(audioPath string, grid *timing.Grid) (*Profile, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, &AudioUnavailableError{Path: audioPath, Err: err}
	}

	cachePath := audioPath + constants.CacheSuffix
	entry, err := util.ReadBinary[cacheEntry](cachePath)
	if err == nil &&
		entry.AudioSize == info.Size() &&
		entry.AudioModTime == info.ModTime().Unix() &&
		entry.SubdivTicks == constants.SubdivTicks {
		return &Profile{SubdivTicks: entry.SubdivTicks, Weights: entry.Weights}, nil
	}

	p, err := FromAudio(audioPath, grid)
	if err != nil {
		return nil, err
	}

	// Write under a throwaway name, then rename, so a crash never leaves a
	// torn cache behind.
	tmp := filepath.Join(filepath.Dir(audioPath), uuid.New().String()+".tmp")
	util.CreateBinary(tmp, cacheEntry{
		AudioSize:    info.Size(),
		AudioModTime: info.ModTime().Unix(),
		SubdivTicks:  p.SubdivTicks,
		Weights:      p.Weights,
	})
	os.Rename(tmp, cachePath)

	return p, nil
}
