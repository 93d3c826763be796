// Package detector turns audio files into note events by running an
// external transcription model that writes a MIDI file.
package detector

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jsphweid/dombratab/config"
	"github.com/jsphweid/dombratab/constants"
	"github.com/jsphweid/dombratab/midi"
	"github.com/jsphweid/dombratab/model"
	"github.com/jsphweid/dombratab/util"
)

type Detector interface {
	Detect(ctx context.Context, audioPath string) ([]model.NoteEvent, error)
}

// Func adapts a plain function to a Detector.
type Func func(ctx context.Context, audioPath string) ([]model.NoteEvent, error)

func (f Func) Detect(ctx context.Context, audioPath string) ([]model.NoteEvent, error) {
	return f(ctx, audioPath)
}

// Command runs Name with Args, substituting {input} with the audio path and
// {output} with a scratch directory, then reads <output>/<stem><OutputSuffix>.
type Command struct {
	Name         string
	Args         []string
	OutputSuffix string
	Unit         midi.TimeUnit
	WorkDir      string
}

func FromConfig(cfg *config.Config) *Command {
	return &Command{
		Name:         cfg.Detector.Command,
		Args:         cfg.Detector.Args,
		OutputSuffix: cfg.Detector.OutputSuffix,
		Unit:         cfg.TimeUnit(),
		WorkDir:      cfg.WorkDir,
	}
}

func (c *Command) args(input, output string) []string {
	r := strings.NewReplacer("{input}", input, "{output}", output)
	res := make([]string, len(c.Args))
	for i, a := range c.Args {
		res[i] = r.Replace(a)
	}
	return res
}

// OutputPath is where the command is expected to leave its MIDI file.
func (c *Command) OutputPath(outDir, audioPath string) string {
	suffix := c.OutputSuffix
	if suffix == "" {
		suffix = constants.DetectorOutputSuffix
	}
	return filepath.Join(outDir, util.Stem(audioPath)+suffix)
}

func (c *Command) Detect(ctx context.Context, audioPath string) ([]model.NoteEvent, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("no detector command configured")
	}
	outDir, err := os.MkdirTemp(c.WorkDir, "detect-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create detector output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := c.args(audioPath, outDir)
	cmd := exec.CommandContext(ctx, c.Name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	started := time.Now()
	slog.Debug("detector: running", "command", c.Name, "args", args)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("detector %s failed: %w: %s", c.Name, err, strings.TrimSpace(stderr.String()))
	}

	midiPath := c.OutputPath(outDir, audioPath)
	notes, err := midi.ReadNotes(midiPath, c.Unit)
	if err != nil {
		return nil, fmt.Errorf("detector output: %w", err)
	}
	slog.Info("detector: done", "audio", filepath.Base(audioPath), "notes", len(notes), "took", time.Since(started))
	return notes, nil
}
