// Package transcribe runs the full note-events-to-tablature pipeline.
package transcribe

import (
	"context"
	"log/slog"

	"github.com/jsphweid/dombratab/constants"
	"github.com/jsphweid/dombratab/detector"
	"github.com/jsphweid/dombratab/fretboard"
	"github.com/jsphweid/dombratab/melody"
	"github.com/jsphweid/dombratab/midi"
	"github.com/jsphweid/dombratab/model"
)

type Pipeline struct {
	tuning    model.Tuning
	tolerance float64
}

// Result keeps the intermediate line alongside the tabs.
type Result struct {
	Input int
	Mono  []model.MonoEvent
	Tabs  []model.TabEvent
}

// Dropped is the number of monophonic notes that had no playable position.
func (r Result) Dropped() int {
	return len(r.Mono) - len(r.Tabs)
}

// New checks the tuning up front so a bad configuration never reaches the
// per-note loop. A tolerance <= 0 uses the default.
func New(t model.Tuning, tolerance float64) (*Pipeline, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if tolerance <= 0 {
		tolerance = constants.Tolerance
	}
	return &Pipeline{tuning: t, tolerance: tolerance}, nil
}

func (p *Pipeline) Tuning() model.Tuning {
	return p.tuning
}

func (p *Pipeline) Run(events []model.NoteEvent) (Result, error) {
	mono := melody.ReduceWithTolerance(events, p.tolerance)
	tabs, err := fretboard.MapToTabs(mono, p.tuning)
	if err != nil {
		return Result{}, err
	}

	res := Result{Input: len(events), Mono: mono, Tabs: tabs}
	slog.Info("transcribed",
		"input", res.Input,
		"monophonic", len(res.Mono),
		"tabs", len(res.Tabs),
		"dropped", res.Dropped(),
	)
	return res, nil
}

func (p *Pipeline) RunMidi(path string, unit midi.TimeUnit) (Result, error) {
	notes, err := midi.ReadNotes(path, unit)
	if err != nil {
		return Result{}, err
	}
	return p.Run(notes)
}

func (p *Pipeline) RunAudio(ctx context.Context, d detector.Detector, path string) (Result, error) {
	notes, err := d.Detect(ctx, path)
	if err != nil {
		return Result{}, err
	}
	return p.Run(notes)
}
