package fretboard

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/jsphweid/dombratab/model"
	"github.com/stretchr/testify/assert"
)

var dombra = model.Tuning{OpenPitches: []int{62, 55}, MaxFret: 20}

func mono(pitches ...int) []model.MonoEvent {
	var res []model.MonoEvent
	for i, p := range pitches {
		res = append(res, model.MonoEvent{Pitch: p, Start: float64(i), End: float64(i) + 1})
	}
	return res
}

func TestSingleNoteOnlyCandidate(t *testing.T) {
	tabs, err := MapToTabs([]model.MonoEvent{{Pitch: 67, Start: 0, End: 1}}, dombra)

	assert := assert.New(t)
	assert.NoError(err)
	// 67 is fret 5 on string 1 and fret 12 on string 2; with no previous
	// note both cost 0 and the first string wins
	assert.Equal([]model.TabEvent{{String: 1, Fret: 5, Pitch: 67, Start: 0, End: 1}}, tabs)
}

func TestOnlyLowStringReachesLowPitch(t *testing.T) {
	tabs, err := MapToTabs(mono(57), dombra)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(2, tabs[0].String)
	assert.Equal(2, tabs[0].Fret)
}

func TestPrefersSmallestHandTravel(t *testing.T) {
	// 55 only on string 2 fret 0. 67 is s1f5 (cost 5+1) or s2f12 (cost 12).
	tabs, err := MapToTabs(mono(55, 67), dombra)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(model.TabEvent{String: 1, Fret: 5, Pitch: 67, Start: 1, End: 2}, tabs[1])

	// 65 ties at cost 0 and lands on s1f3; 67 is then s1f5 (cost 2) or s2f12 (cost 10)
	tabs, err = MapToTabs(mono(65, 65, 67), dombra)
	assert.NoError(err)
	assert.Equal(1, tabs[0].String)
	assert.Equal(3, tabs[0].Fret)
	assert.Equal(1, tabs[2].String)
	assert.Equal(5, tabs[2].Fret)
}

func TestStringChangePenaltyBreaksTies(t *testing.T) {
	// open strings a fourth apart: from s2f5 (60), 62 is s1f0 (5+1) or s2f7 (2)
	prev := Position{String: 2, Fret: 5}
	c, ok := Place(62, dombra, &prev)

	assert := assert.New(t)
	assert.True(ok)
	assert.Equal(Candidate{Position: Position{String: 2, Fret: 7}, Pitch: 62, Cost: 2}, c)

	// equal travel on both strings: staying put is cheaper by the penalty
	tuning := model.Tuning{OpenPitches: []int{60, 60}, MaxFret: 12}
	prev = Position{String: 2, Fret: 3}
	c, ok = Place(64, tuning, &prev)
	assert.True(ok)
	assert.Equal(2, c.String)
	assert.Equal(1, c.Cost)
}

func TestTieGoesToFirstString(t *testing.T) {
	tuning := model.Tuning{OpenPitches: []int{60, 60}, MaxFret: 12}
	c, ok := Place(64, tuning, nil)

	assert := assert.New(t)
	assert.True(ok)
	assert.Equal(1, c.String)
	assert.Equal(0, c.Cost)
}

func TestOctaveFallbackDown(t *testing.T) {
	// 94 is past the last fret of both strings, an octave down is s1f20
	c, ok := Place(94, dombra, nil)

	assert := assert.New(t)
	assert.True(ok)
	assert.Equal(Candidate{Position: Position{String: 1, Fret: 20}, Pitch: 82, Cost: 5}, c)
}

func TestOctaveFallbackUp(t *testing.T) {
	// 50 is below G3; 62 is s1f0 and s2f7, first string wins regardless of prev
	prev := Position{String: 2, Fret: 7}
	c, ok := Place(50, dombra, &prev)

	assert := assert.New(t)
	assert.True(ok)
	assert.Equal(Candidate{Position: Position{String: 1, Fret: 0}, Pitch: 62, Cost: 5}, c)
}

func TestOctaveDownTriedBeforeUp(t *testing.T) {
	// strings cover 40-42 and 64-66; 53 is directly unplayable, 41 and 65 both work
	tuning := model.Tuning{OpenPitches: []int{64, 40}, MaxFret: 2}
	c, ok := Place(53, tuning, nil)

	assert := assert.New(t)
	assert.True(ok)
	assert.Equal(41, c.Pitch)
	assert.Equal(2, c.String)
}

func TestUnplayablePitchIsDropped(t *testing.T) {
	// 30: 18 and 42 are still below G3, only one shift is tried
	_, ok := Place(30, dombra, nil)
	assert.False(t, ok)

	tabs, err := MapToTabs(mono(62, 30, 64), dombra)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(tabs, 2)
	assert.Equal(62, tabs[0].Pitch)
	assert.Equal(64, tabs[1].Pitch)
	assert.Equal(2.0, tabs[1].Start)
}

func TestDroppedNoteDoesNotUpdatePrevious(t *testing.T) {
	// prev stays at 66 (s1f4): 67 goes to s1f5
	tabs, err := MapToTabs(mono(66, 30, 67), dombra)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(1, tabs[1].String)
	assert.Equal(5, tabs[1].Fret)
}

func TestInvalidTuningFailsFast(t *testing.T) {
	tabs, err := MapToTabs(mono(62, 64), model.Tuning{OpenPitches: []int{62, 55}, MaxFret: -1})

	assert := assert.New(t)
	assert.Nil(tabs)
	assert.True(errors.Is(err, model.ErrInvalidTuning))

	_, err = MapToTabs(nil, model.Tuning{MaxFret: 20})
	assert.True(errors.Is(err, model.ErrInvalidTuning))
}

func TestEmptyInput(t *testing.T) {
	tabs, err := MapToTabs(nil, dombra)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(tabs)
}

func TestPropertiesOnRandomLines(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var in []model.MonoEvent
	for i := 0; i < 500; i++ {
		in = append(in, model.MonoEvent{Pitch: 20 + rng.Intn(90), Start: float64(i), End: float64(i) + 0.5})
	}

	tabs, err := MapToTabs(in, dombra)
	again, _ := MapToTabs(in, dombra)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(tabs, again)
	assert.LessOrEqual(len(tabs), len(in))
	for i, tab := range tabs {
		assert.GreaterOrEqual(tab.Fret, 0)
		assert.LessOrEqual(tab.Fret, dombra.MaxFret)
		assert.Equal(dombra.Open(tab.String)+tab.Fret, tab.Pitch)
		if i > 0 {
			assert.Greater(tab.Start, tabs[i-1].Start)
		}
	}
}

func TestRange(t *testing.T) {
	low, high := Range(dombra, 2)

	assert := assert.New(t)
	assert.Equal(55, low)
	assert.Equal(75, high)
}
