package model

import "fmt"

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClass returns the letter name of a pitch without its octave.
func PitchClass(pitch int) string {
	return noteNames[((pitch%12)+12)%12]
}

// PitchName formats a pitch number in scientific notation, 60 = C4.
func PitchName(pitch int) string {
	if pitch < 0 {
		return fmt.Sprintf("?%d", pitch)
	}
	return fmt.Sprintf("%s%d", noteNames[pitch%12], (pitch/12)-1)
}
