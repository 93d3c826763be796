package cmd

import (
	"log/slog"
	"os"

	"github.com/jsphweid/dombratab/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool

	// cfg is loaded once before any subcommand runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dombratab",
	Short: "Turns melodies into dombra tablature",
	Long: `Turns a detected or scored melody into two-string dombra tablature.
Audio goes through an external pitch detector, MIDI files are read directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initLogger(debug)
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $DOMBRATAB_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging with source locations")
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(h))
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
