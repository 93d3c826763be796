// Package melody thins a possibly polyphonic note list down to a single
// time-ordered line.
package melody

import (
	"sort"

	"github.com/jsphweid/dombratab/constants"
	"github.com/jsphweid/dombratab/model"
)

// Reduce returns a monophonic line using the default overlap tolerance.
func Reduce(events []model.NoteEvent) []model.MonoEvent {
	return ReduceWithTolerance(events, constants.Tolerance)
}

// ReduceWithTolerance drops non-positive durations, orders events by start
// then descending pitch, and resolves each overlap by replacing the last
// accepted event with the overlapping one.
//
// The replacement keeps the most recent candidate, not the highest pitch:
// a lower note starting at the same instant as a higher one wins because it
// sorts after it.
func ReduceWithTolerance(events []model.NoteEvent, eps float64) []model.MonoEvent {
	sorted := make([]model.NoteEvent, 0, len(events))
	for _, e := range events {
		if e.Valid() {
			sorted = append(sorted, e)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Pitch > sorted[j].Pitch
	})

	mono := make([]model.MonoEvent, 0, len(sorted))
	for _, e := range sorted {
		last := len(mono) - 1
		if last < 0 || e.Start >= mono[last].End-eps {
			mono = append(mono, model.MonoEvent(e))
			continue
		}
		mono[last] = model.MonoEvent(e)
	}
	return mono
}

// IsMonophonic reports whether consecutive events never overlap beyond eps.
func IsMonophonic(events []model.MonoEvent, eps float64) bool {
	for i := 1; i < len(events); i++ {
		if events[i].Start < events[i-1].End-eps {
			return false
		}
	}
	return true
}
