package model

import (
	"errors"
	"fmt"
)

// NoteEvent is a single detected or scored note. Start and End share one
// time unit (seconds or beats) across a sequence.
type NoteEvent struct {
	Pitch int     `json:"pitch" yaml:"pitch"`
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Valid reports whether the event has a positive duration.
func (n NoteEvent) Valid() bool {
	return n.End > n.Start
}

// MonoEvent is a NoteEvent that belongs to a monophonic sequence.
type MonoEvent NoteEvent

// TabEvent is a playable position. String is 1-indexed in tuning order.
type TabEvent struct {
	String int     `json:"string" yaml:"string"`
	Fret   int     `json:"fret" yaml:"fret"`
	Pitch  int     `json:"pitch" yaml:"pitch"`
	Start  float64 `json:"start" yaml:"start"`
	End    float64 `json:"end" yaml:"end"`
}

// Note returns the (possibly octave-shifted) note actually played.
func (t TabEvent) Note() NoteEvent {
	return NoteEvent{Pitch: t.Pitch, Start: t.Start, End: t.End}
}

func (t TabEvent) Minimal() TabPosition {
	return TabPosition{String: t.String, Fret: t.Fret}
}

// TabPosition is the minimal wire shape of a TabEvent.
type TabPosition struct {
	String int `json:"string" yaml:"string"`
	Fret   int `json:"fret" yaml:"fret"`
}

var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning lists open-string pitches, first entry is string 1.
type Tuning struct {
	OpenPitches []int `json:"open_pitches" yaml:"open_pitches"`
	MaxFret     int   `json:"max_fret" yaml:"max_fret"`
}

func (t Tuning) NumStrings() int {
	return len(t.OpenPitches)
}

// Open returns the open pitch of a 1-indexed string.
func (t Tuning) Open(str int) int {
	return t.OpenPitches[str-1]
}

func (t Tuning) Validate() error {
	if len(t.OpenPitches) == 0 {
		return fmt.Errorf("%w: at least one string is required", ErrInvalidTuning)
	}
	if t.MaxFret < 0 {
		return fmt.Errorf("%w: max fret must be >= 0, got %d", ErrInvalidTuning, t.MaxFret)
	}
	return nil
}

func (t Tuning) String() string {
	s := ""
	for i, p := range t.OpenPitches {
		if i > 0 {
			s += "-"
		}
		s += PitchName(p)
	}
	return fmt.Sprintf("%s (max fret %d)", s, t.MaxFret)
}
