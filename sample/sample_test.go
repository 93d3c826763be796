package sample

import (
	"testing"

	"gitlab.com/gomidi/midi/v2"

	"github.com/jsphweid/dombratab/model"
	"github.com/stretchr/testify/assert"
)

func TestCreateOrdersOffsBeforeOns(t *testing.T) {
	s, err := Create([]model.NoteEvent{
		{Pitch: 60, Start: 0.5, End: 1},
		{Pitch: 60, Start: 0, End: 0.5},
		{Pitch: 200, Start: 0, End: 1},
		{Pitch: 62, Start: 1, End: 1},
	}, Options{BPM: 120})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(s.Tracks, 1)

	var kinds []string
	var ticks []uint32
	var abs uint32
	for _, ev := range s.Tracks[0] {
		abs += ev.Delta
		msg := midi.Message(ev.Message)
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			kinds = append(kinds, "on")
			ticks = append(ticks, abs)
		case msg.GetNoteEnd(&ch, &key):
			kinds = append(kinds, "off")
			ticks = append(ticks, abs)
		}
	}
	assert.Equal([]string{"on", "off", "on", "off"}, kinds)
	assert.Equal([]uint32{0, 960, 960, 1920}, ticks)
}

func TestTabNotes(t *testing.T) {
	notes := TabNotes([]model.TabEvent{{String: 1, Fret: 5, Pitch: 67, Start: 0, End: 1}})
	assert.Equal(t, []model.NoteEvent{{Pitch: 67, Start: 0, End: 1}}, notes)
}
