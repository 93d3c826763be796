package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsphweid/dombratab/constants"
	"github.com/jsphweid/dombratab/detector"
	"github.com/jsphweid/dombratab/midi"
	"github.com/jsphweid/dombratab/sample"
	"github.com/jsphweid/dombratab/transcribe"
	"github.com/jsphweid/dombratab/util"
	"github.com/spf13/cobra"
)

var (
	openPitches []int
	maxFret     int
	timeUnit    string

	format  string
	shape   string
	outPath string
	midiOut string
	color   bool
)

func init() {
	rootCmd.PersistentFlags().IntSliceVar(&openPitches, "tuning", nil, "open string pitches, first is string 1 (overrides config)")
	rootCmd.PersistentFlags().IntVar(&maxFret, "max-fret", constants.DefaultMaxFret, "highest playable fret (overrides config)")
	rootCmd.PersistentFlags().StringVar(&timeUnit, "unit", "", "time unit for MIDI input: seconds or beats (overrides config)")

	transcribeCmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml or ascii")
	transcribeCmd.Flags().StringVar(&shape, "shape", "extended", "record shape: extended or minimal")
	transcribeCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	transcribeCmd.Flags().StringVar(&midiOut, "midi-out", "", "also write the tab line as a MIDI file")
	transcribeCmd.Flags().BoolVar(&color, "color", false, "style string names in ascii output")
	rootCmd.AddCommand(transcribeCmd)
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio|midi file>",
	Short: "Transcribes one file to tablature",
	Long: `Transcribes one file to tablature. Files ending in .mid or .midi are read
as scores, anything else is handed to the configured pitch detector.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if shape != "extended" && shape != "minimal" {
			return fmt.Errorf("unknown shape %q", shape)
		}
		res, err := transcribeFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if midiOut != "" {
			opts := sample.Options{InBeats: cfg.TimeUnit() == midi.Beats}
			if err := sample.WriteFile(midiOut, sample.TabNotes(res.Tabs), opts); err != nil {
				return err
			}
			slog.Info("wrote midi", "path", midiOut, "notes", len(res.Tabs))
		}

		w, err := openOutput(outPath)
		if err != nil {
			return err
		}
		defer w.Close()
		return writeTabs(w, res.Tabs, cfg.Tuning, outputOptions{
			format:  outputFormat(format),
			minimal: shape == "minimal",
			color:   color,
		})
	},
}

// applyOverrides folds the tuning and unit flags into cfg.
func applyOverrides() error {
	if len(openPitches) > 0 {
		cfg.Tuning.OpenPitches = openPitches
	}
	if rootCmd.PersistentFlags().Changed("max-fret") {
		cfg.Tuning.MaxFret = maxFret
	}
	if timeUnit != "" {
		cfg.Detector.TimeUnit = timeUnit
	}
	return cfg.Validate()
}

func newPipeline() (*transcribe.Pipeline, error) {
	if err := applyOverrides(); err != nil {
		return nil, err
	}
	return transcribe.New(cfg.Tuning, cfg.Reducer.Tolerance)
}

func transcribeFile(ctx context.Context, path string) (transcribe.Result, error) {
	p, err := newPipeline()
	if err != nil {
		return transcribe.Result{}, err
	}
	slog.Debug("transcribing", "path", path, "tuning", p.Tuning().String())
	if util.IsMidiPath(path) {
		return p.RunMidi(path, cfg.TimeUnit())
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return p.RunAudio(ctx, detector.FromConfig(cfg), path)
}
