package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinaryRoundTrip(t *testing.T) {
	type payload struct {
		Name    string
		Weights []float64
	}

	path := filepath.Join(t.TempDir(), "test.dat")
	in := payload{Name: "x", Weights: []float64{0.1, 0.9}}
	CreateBinary(path, in)

	out, err := ReadBinary[payload](path)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(in, out)
}

func TestReadBinaryFailsOnMissingFile(t *testing.T) {
	_, err := ReadBinary[int](filepath.Join(t.TempDir(), "nope.dat"))
	assert.Error(t, err)
}

func TestGatherAllChartPathsFindsOnlySimfiles(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "song1"), 0755)
	os.WriteFile(filepath.Join(dir, "song1", "song1.sm"), []byte{}, 0644)
	os.WriteFile(filepath.Join(dir, "song1", "song1.mp3"), []byte{}, 0644)
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte{}, 0644)

	paths := GatherAllChartPaths(dir, 0)

	assert := assert.New(t)
	assert.Len(paths, 1)
	assert.Contains(paths[0], "song1.sm")
}

func TestGatherAllChartPathsHonorsMaxNum(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.sm"), []byte{}, 0644)
	os.WriteFile(filepath.Join(dir, "b.sm"), []byte{}, 0644)
	os.WriteFile(filepath.Join(dir, "c.sm"), []byte{}, 0644)

	assert.Len(t, GatherAllChartPaths(dir, 2), 2)
}

func TestMin(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(3, Min(3, 5))
	assert.Equal(int64(-1), Min(int64(7), int64(-1)))
}
