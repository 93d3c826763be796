package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/dombratab/model"
)

// TimeUnit selects how note times are expressed.
type TimeUnit string

const (
	Seconds TimeUnit = "seconds"
	Beats   TimeUnit = "beats"
)

func ParseTimeUnit(s string) (TimeUnit, error) {
	switch TimeUnit(s) {
	case Seconds, "":
		return Seconds, nil
	case Beats:
		return Beats, nil
	}
	return "", fmt.Errorf("unknown time unit %q (want %q or %q)", s, Seconds, Beats)
}

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file: %w", err)
	}
	return ReadMidi(bytes.NewReader(dat))
}

func ReadMidi(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fmt.Errorf("error parsing midi file: %v", r)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing midi file: %w", err)
	}
	return res, nil
}

type noteKey struct {
	track   int
	channel uint8
	key     uint8
}

type openNote struct {
	absTicks int64
}

// GetNotes pairs note starts with note ends across all tracks. A repeated
// start on a sounding key stacks; each end closes the oldest open start.
// Notes never closed are dropped.
func GetNotes(s *smf.SMF, unit TimeUnit) ([]model.NoteEvent, error) {
	toTime, err := clock(s, unit)
	if err != nil {
		return nil, err
	}

	var res []model.NoteEvent
	for trackNum, events := range s.Tracks {
		pressed := make(map[noteKey][]openNote)
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			msg := gomidi.Message(event.Message)
			var channel, key, velocity uint8
			switch {
			case msg.GetNoteStart(&channel, &key, &velocity):
				k := noteKey{track: trackNum, channel: channel, key: key}
				pressed[k] = append(pressed[k], openNote{absTicks: absTicks})
			case msg.GetNoteEnd(&channel, &key):
				k := noteKey{track: trackNum, channel: channel, key: key}
				starts := pressed[k]
				if len(starts) == 0 {
					continue
				}
				res = append(res, model.NoteEvent{
					Pitch: int(key),
					Start: toTime(starts[0].absTicks),
					End:   toTime(absTicks),
				})
				pressed[k] = starts[1:]
			}
		}
	}

	// prioritize earlier starts, then higher pitch, as a score reads
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Start != res[j].Start {
			return res[i].Start < res[j].Start
		}
		return res[i].Pitch > res[j].Pitch
	})
	return res, nil
}

func clock(s *smf.SMF, unit TimeUnit) (func(int64) float64, error) {
	switch unit {
	case Seconds, "":
		return func(absTicks int64) float64 {
			return float64(s.TimeAt(absTicks)) / 1e6
		}, nil
	case Beats:
		ticks, ok := s.TimeFormat.(smf.MetricTicks)
		if !ok || ticks.Resolution() == 0 {
			return nil, errors.New("beat times need a metric ticks time format")
		}
		res := float64(ticks.Resolution())
		return func(absTicks int64) float64 {
			return float64(absTicks) / res
		}, nil
	}
	return nil, fmt.Errorf("unknown time unit %q", unit)
}

// ReadNotes parses a MIDI file into note events.
func ReadNotes(path string, unit TimeUnit) ([]model.NoteEvent, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	return GetNotes(s, unit)
}
