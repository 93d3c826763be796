package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/dombratab/midi"
	"github.com/jsphweid/dombratab/model"
	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DOMBRATAB_CONFIG", "")
	t.Setenv("PORT", "")
	cfg, err := Load("")

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(model.Tuning{OpenPitches: []int{62, 55}, MaxFret: 20}, cfg.Tuning)
	assert.Equal(1e-3, cfg.Reducer.Tolerance)
	assert.Equal(":8000", cfg.Server.Addr)
	assert.Equal(midi.Seconds, cfg.TimeUnit())

	n, err := cfg.MaxUploadBytes()
	assert.NoError(err)
	assert.Equal(int64(2000000), n)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "")
	path := writeConfig(t, `
tuning:
  open_pitches: [64, 57, 50]
  max_fret: 12
reducer:
  tolerance: 0.01
detector:
  time_unit: beats
server:
  max_upload: 5MiB
`)
	cfg, err := Load(path)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]int{64, 57, 50}, cfg.Tuning.OpenPitches)
	assert.Equal(12, cfg.Tuning.MaxFret)
	assert.Equal(0.01, cfg.Reducer.Tolerance)
	assert.Equal(midi.Beats, cfg.TimeUnit())
	// untouched sections keep their defaults
	assert.Equal("basic-pitch", cfg.Detector.Command)

	n, _ := cfg.MaxUploadBytes()
	assert.Equal(int64(5*1024*1024), n)
}

func TestLoadPortFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg, err := Load(writeConfig(t, "server:\n  addr: \":1\"\n"))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(":9090", cfg.Server.Addr)
}

func TestLoadRejectsInvalidTuning(t *testing.T) {
	_, err := Load(writeConfig(t, "tuning:\n  max_fret: -1\n"))
	assert.True(t, errors.Is(err, model.ErrInvalidTuning))
}

func TestLoadErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(err)

	_, err = Load(writeConfig(t, "detector:\n  time_unit: bars\n"))
	assert.Error(err)

	_, err = Load(writeConfig(t, "server:\n  max_upload: lots\n"))
	assert.Error(err)
}
