package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/remeh/sizedwaitgroup"
	"github.com/spf13/cobra"

	"github.com/jsphweid/dombratab/file"
	"github.com/jsphweid/dombratab/transcribe"
	"github.com/jsphweid/dombratab/util"
)

var (
	batchOut  string
	batchJobs int
)

func init() {
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "out", "directory for the .tab.json files")
	batchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", runtime.NumCPU(), "files transcribed at once")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir> [maxNum]",
	Short: "Transcribes every MIDI file under a directory",
	Long:  `Transcribes every MIDI file under a directory into <out>/<name>.tab.json.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var maxNum int
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("maxNum must be a number: %w", err)
			}
			maxNum = n
		}

		p, err := newPipeline()
		if err != nil {
			return err
		}
		sum, err := runBatch(p, args[0], batchOut, maxNum, batchJobs)
		if err != nil {
			return err
		}
		slog.Info("batch done", "written", sum.written, "skipped", sum.skipped, "out", batchOut)
		return nil
	},
}

type batchSummary struct {
	written int64
	skipped int64
}

func runBatch(p *transcribe.Pipeline, dir, outDir string, maxNum, jobs int) (batchSummary, error) {
	var sum batchSummary
	paths, err := util.GatherAllMidiPaths(dir, maxNum)
	if err != nil {
		return sum, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return sum, fmt.Errorf("failed to create output dir: %w", err)
	}
	if jobs < 1 {
		jobs = 1
	}

	unit := cfg.TimeUnit()
	wg := sizedwaitgroup.New(jobs)
	for i, path := range paths {
		wg.Add()
		go func(i int, path string) {
			defer wg.Done()
			slog.Debug(fmt.Sprintf("Processing %v of %v midi files", i+1, len(paths)), "path", path)

			res, err := p.RunMidi(path, unit)
			if err == nil {
				err = writeTabFile(file.TabPath(outDir, path), res)
			}
			if err != nil {
				slog.Warn(fmt.Sprintf("Skipping %v because: %v", path, err))
				atomic.AddInt64(&sum.skipped, 1)
				return
			}
			atomic.AddInt64(&sum.written, 1)
		}(i, path)
	}
	wg.Wait()
	return sum, nil
}

func writeTabFile(path string, res transcribe.Result) error {
	w, err := openOutput(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return writeTabs(w, res.Tabs, cfg.Tuning, outputOptions{format: formatJSON})
}
