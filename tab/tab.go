// Package tab renders tablature lines as text.
package tab

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jsphweid/dombratab/constants"
	"github.com/jsphweid/dombratab/model"
)

const empty = "-- "

type Renderer struct {
	Tuning model.Tuning
	// Wrap is the number of positions per block, 0 means the default.
	Wrap int
	// Label styles the string names; nil renders plain text.
	Label *lipgloss.Style
}

// DefaultLabelStyle is the label style used for terminal output.
func DefaultLabelStyle() *lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	return &s
}

func mark(fret int) string {
	return fmt.Sprintf("%-3d", fret)
}

func (r Renderer) label(str int) string {
	name := model.PitchClass(r.Tuning.Open(str))
	if r.Label != nil {
		return r.Label.Render(name)
	}
	return name
}

// Render prints one line per string, last configured string on top, and
// starts a new block every Wrap positions.
func (r Renderer) Render(tabs []model.TabEvent) string {
	wrap := r.Wrap
	if wrap <= 0 {
		wrap = constants.TabWrapLength
	}
	n := r.Tuning.NumStrings()

	var out strings.Builder
	for from := 0; from < len(tabs); from += wrap {
		to := from + wrap
		if to > len(tabs) {
			to = len(tabs)
		}
		if from > 0 {
			out.WriteString("\n")
		}
		for str := n; str >= 1; str-- {
			out.WriteString(r.label(str))
			out.WriteString("| ")
			for _, t := range tabs[from:to] {
				if t.String == str {
					out.WriteString(mark(t.Fret))
				} else {
					out.WriteString(empty)
				}
			}
			out.WriteString("\n")
		}
	}
	return out.String()
}

// Records converts tabs into their wire records.
func Records(tabs []model.TabEvent, minimal bool) any {
	if !minimal {
		if tabs == nil {
			return []model.TabEvent{}
		}
		return tabs
	}
	res := make([]model.TabPosition, len(tabs))
	for i, t := range tabs {
		res[i] = t.Minimal()
	}
	return res
}
