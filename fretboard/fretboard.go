// Package fretboard places a monophonic line on the strings of a fretted
// instrument, choosing each position greedily from the one before it.
package fretboard

import (
	"log/slog"

	"github.com/jsphweid/dombratab/constants"
	"github.com/jsphweid/dombratab/model"
	"github.com/jsphweid/dombratab/util"
)

// Position is the rolling state between two placements.
type Position struct {
	String int
	Fret   int
}

// Candidate is a playable placement of a pitch together with its cost.
type Candidate struct {
	Position
	Pitch int
	Cost  int
}

// octave fallback order, down before up
var shifts = [...]int{-constants.OctaveShift, constants.OctaveShift}

func fretOn(t model.Tuning, str, pitch int) (int, bool) {
	fret := pitch - t.Open(str)
	return fret, fret >= 0 && fret <= t.MaxFret
}

func moveCost(p Position, prev *Position) int {
	if prev == nil {
		return 0
	}
	cost := util.Abs(p.Fret - prev.Fret)
	if p.String != prev.String {
		cost += constants.StringChangeCost
	}
	return cost
}

// Place picks a position for pitch given the previously accepted one (nil
// at the start of a line). ok is false when the pitch cannot be played even
// an octave up or down. The tuning is assumed valid.
func Place(pitch int, t model.Tuning, prev *Position) (best Candidate, ok bool) {
	for str := 1; str <= t.NumStrings(); str++ {
		fret, valid := fretOn(t, str, pitch)
		if !valid {
			continue
		}
		pos := Position{String: str, Fret: fret}
		cost := moveCost(pos, prev)
		if !ok || cost < best.Cost {
			best = Candidate{Position: pos, Pitch: pitch, Cost: cost}
			ok = true
		}
	}
	if ok {
		return best, true
	}

	// every fallback costs the same, so the first one found wins
	for _, shift := range shifts {
		shifted := pitch + shift
		for str := 1; str <= t.NumStrings(); str++ {
			if fret, valid := fretOn(t, str, shifted); valid {
				pos := Position{String: str, Fret: fret}
				return Candidate{Position: pos, Pitch: shifted, Cost: constants.OctaveShiftCost}, true
			}
		}
	}
	return Candidate{}, false
}

// MapToTabs assigns every event a string and fret, in input order. Events
// that cannot be placed are left out. An invalid tuning is reported before
// any event is looked at.
func MapToTabs(events []model.MonoEvent, t model.Tuning) ([]model.TabEvent, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	tabs := make([]model.TabEvent, 0, len(events))
	var prev *Position
	for _, ev := range events {
		c, ok := Place(ev.Pitch, t, prev)
		if !ok {
			slog.Debug("fretboard: pitch unplayable, dropping note",
				"pitch", model.PitchName(ev.Pitch), "start", ev.Start)
			continue
		}
		if c.Pitch != ev.Pitch {
			slog.Debug("fretboard: pitch moved by an octave",
				"detected", model.PitchName(ev.Pitch), "played", model.PitchName(c.Pitch))
		}
		pos := c.Position
		prev = &pos
		tabs = append(tabs, model.TabEvent{
			String: c.String,
			Fret:   c.Fret,
			Pitch:  c.Pitch,
			Start:  ev.Start,
			End:    ev.End,
		})
	}
	return tabs, nil
}

// Range returns the lowest and highest directly playable pitch of a string.
func Range(t model.Tuning, str int) (low, high int) {
	return t.Open(str), t.Open(str) + t.MaxFret
}
