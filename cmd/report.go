package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/dombratab/constants"
	"github.com/jsphweid/dombratab/fretboard"
	"github.com/jsphweid/dombratab/model"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Reports the playable range of the tuning",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyOverrides(); err != nil {
			return err
		}
		report(cmd.OutOrStdout(), cfg.Tuning)
		return nil
	},
}

func report(w io.Writer, t model.Tuning) {
	fmt.Fprintf(w, "tuning: %v\n", t)
	low, high := 0, 0
	for str := 1; str <= t.NumStrings(); str++ {
		l, h := fretboard.Range(t, str)
		fmt.Fprintf(w, "string %v: %v-%v (%v-%v)\n", str, model.PitchName(l), model.PitchName(h), l, h)
		if str == 1 || l < low {
			low = l
		}
		if str == 1 || h > high {
			high = h
		}
	}
	fmt.Fprintf(w, "direct range: %v-%v\n", model.PitchName(low), model.PitchName(high))
	fmt.Fprintf(w, "with octave fallback: %v-%v\n",
		model.PitchName(low-constants.OctaveShift), model.PitchName(high+constants.OctaveShift))
}
