package cmd

import (
	"fmt"

	"github.com/jsphweid/dombratab/melody"
	"github.com/jsphweid/dombratab/midi"
	"github.com/jsphweid/dombratab/model"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Prints the notes of a MIDI file and its reduced melody",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyOverrides(); err != nil {
			return err
		}
		return inspect(cmd, args[0])
	},
}

func inspect(cmd *cobra.Command, path string) error {
	notes, err := midi.ReadNotes(path, cfg.TimeUnit())
	if err != nil {
		return err
	}
	mono := melody.ReduceWithTolerance(notes, cfg.Reducer.Tolerance)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "notes: %v\n", len(notes))
	for _, n := range notes {
		fmt.Fprintf(out, "  %-4s %8.3f %8.3f\n", model.PitchName(n.Pitch), n.Start, n.End)
	}
	fmt.Fprintf(out, "melody: %v\n", len(mono))
	for _, n := range mono {
		fmt.Fprintf(out, "  %-4s %8.3f %8.3f\n", model.PitchName(n.Pitch), n.Start, n.End)
	}
	return nil
}
