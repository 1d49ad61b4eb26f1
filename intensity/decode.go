package intensity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

type AudioUnavailableError struct {
	Path string
	Err  error
}

func (e *AudioUnavailableError) Error() string {
	return fmt.Sprintf("audio unavailable: %v: %v", e.Path, e.Err)
}

func (e *AudioUnavailableError) Unwrap() error {
	return e.Err
}

// decodePCM decodes the whole file to mono float64 samples.
func decodePCM(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, &AudioUnavailableError{Path: path, Err: err}
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, 0, &AudioUnavailableError{Path: path, Err: fmt.Errorf("unsupported audio format %q", filepath.Ext(path))}
	}
	if err != nil {
		f.Close()
		return nil, 0, &AudioUnavailableError{Path: path, Err: err}
	}
	defer streamer.Close()

	var samples []float64
	buf := make([][2]float64, 2048)
	for {
		n, ok := streamer.Stream(buf)
		for i := 0; i < n; i++ {
			samples = append(samples, (buf[i][0]+buf[i][1])/2)
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, 0, &AudioUnavailableError{Path: path, Err: err}
	}

	return samples, int(format.SampleRate), nil
}
