// Package config loads dombratab settings from a YAML file, falling back to
// defaults for anything left out.
package config

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"

	"github.com/jsphweid/dombratab/constants"
	"github.com/jsphweid/dombratab/midi"
	"github.com/jsphweid/dombratab/model"
)

type Config struct {
	Tuning   model.Tuning `yaml:"tuning"`
	Reducer  Reducer      `yaml:"reducer"`
	Detector Detector     `yaml:"detector"`
	Server   Server       `yaml:"server"`

	// WorkDir holds uploads and detector output while a request runs.
	WorkDir string `yaml:"work_dir,omitempty"`
}

type Reducer struct {
	Tolerance float64 `yaml:"tolerance"`
}

// Detector describes the external audio-to-MIDI command. Args may contain
// the {input} and {output} placeholders.
type Detector struct {
	Command      string   `yaml:"command"`
	Args         []string `yaml:"args"`
	OutputSuffix string   `yaml:"output_suffix"`
	TimeUnit     string   `yaml:"time_unit"`
}

type Server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUpload      string   `yaml:"max_upload"`
}

func Default() *Config {
	return &Config{
		Tuning: model.Tuning{
			OpenPitches: append([]int(nil), constants.DefaultOpenPitches...),
			MaxFret:     constants.DefaultMaxFret,
		},
		Reducer: Reducer{Tolerance: constants.Tolerance},
		Detector: Detector{
			Command:      "basic-pitch",
			Args:         []string{"{output}", "{input}"},
			OutputSuffix: constants.DetectorOutputSuffix,
			TimeUnit:     string(midi.Seconds),
		},
		Server: Server{
			Addr:           constants.DefaultAddr,
			AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			MaxUpload:      constants.DefaultMaxUpload,
		},
		WorkDir: constants.GetWorkDir(),
	}
}

// Load reads path on top of the defaults. An empty path falls back to the
// DOMBRATAB_CONFIG environment variable and then to defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = constants.GetConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if port := constants.GetPort(); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = constants.GetWorkDir()
	}
	if cfg.Reducer.Tolerance <= 0 {
		cfg.Reducer.Tolerance = constants.Tolerance
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Tuning.Validate(); err != nil {
		return err
	}
	if _, err := midi.ParseTimeUnit(c.Detector.TimeUnit); err != nil {
		return fmt.Errorf("detector: %w", err)
	}
	if _, err := c.MaxUploadBytes(); err != nil {
		return err
	}
	return nil
}

func (c *Config) MaxUploadBytes() (int64, error) {
	n, err := humanize.ParseBytes(c.Server.MaxUpload)
	if err != nil {
		return 0, fmt.Errorf("server: invalid max_upload %q: %w", c.Server.MaxUpload, err)
	}
	return int64(n), nil
}

func (c *Config) TimeUnit() midi.TimeUnit {
	unit, _ := midi.ParseTimeUnit(c.Detector.TimeUnit)
	return unit
}
