// Package sample builds Standard MIDI Files from note events.
package sample

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/dombratab/model"
)

const (
	Resolution = 960
	DefaultBPM = 120.0
	velocity   = 100
)

type Options struct {
	BPM float64
	// InBeats treats event times as quarter notes instead of seconds.
	InBeats bool
	Channel uint8
}

type timedMsg struct {
	absTicks uint32
	isOff    bool
	msg      midi.Message
}

func (o Options) ticks(t float64) uint32 {
	beats := t
	if !o.InBeats {
		beats = t * o.BPM / 60
	}
	return uint32(math.Round(beats * Resolution))
}

// Create writes events into a single-track SMF with one tempo event.
// Pitches outside 0-127 and non-positive durations are skipped.
func Create(events []model.NoteEvent, opts Options) (*smf.SMF, error) {
	if opts.BPM <= 0 {
		opts.BPM = DefaultBPM
	}

	var msgs []timedMsg
	for _, e := range events {
		if !e.Valid() || e.Start < 0 || e.Pitch < 0 || e.Pitch > 127 {
			continue
		}
		key := uint8(e.Pitch)
		msgs = append(msgs,
			timedMsg{absTicks: opts.ticks(e.Start), msg: midi.NoteOn(opts.Channel, key, velocity)},
			timedMsg{absTicks: opts.ticks(e.End), isOff: true, msg: midi.NoteOff(opts.Channel, key)},
		)
	}

	// note offs first so back-to-back notes on one key pair up in order
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].absTicks != msgs[j].absTicks {
			return msgs[i].absTicks < msgs[j].absTicks
		}
		return msgs[i].isOff && !msgs[j].isOff
	})

	res := smf.New()
	res.TimeFormat = smf.MetricTicks(Resolution)

	var track smf.Track
	track.Add(0, smf.MetaTempo(opts.BPM))
	var last uint32
	for _, m := range msgs {
		track.Add(m.absTicks-last, m.msg)
		last = m.absTicks
	}
	track.Close(0)

	if err := res.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}
	return res, nil
}

func Write(w io.Writer, events []model.NoteEvent, opts Options) error {
	s, err := Create(events, opts)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write midi: %w", err)
	}
	return nil
}

func WriteFile(path string, events []model.NoteEvent, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create midi file: %w", err)
	}
	defer f.Close()
	return Write(f, events, opts)
}

// TabNotes returns the pitches actually played by a tab line.
func TabNotes(tabs []model.TabEvent) []model.NoteEvent {
	res := make([]model.NoteEvent, len(tabs))
	for i, t := range tabs {
		res[i] = t.Note()
	}
	return res
}
