package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/jsphweid/dombratab/model"
	"github.com/jsphweid/dombratab/tab"
)

type outputFormat string

const (
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
	formatASCII outputFormat = "ascii"
)

type outputOptions struct {
	format  outputFormat
	minimal bool
	color   bool
}

func writeTabs(w io.Writer, tabs []model.TabEvent, tuning model.Tuning, opts outputOptions) error {
	res := model.TranscribeResponse{Status: "ok", Tabs: tab.Records(tabs, opts.minimal)}
	switch opts.format {
	case formatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case formatYAML:
		data, err := yaml.Marshal(res)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		_, err = w.Write(data)
		return err
	case formatASCII:
		r := tab.Renderer{Tuning: tuning}
		if opts.color {
			r.Label = tab.DefaultLabelStyle()
		}
		_, err := io.WriteString(w, r.Render(tabs))
		return err
	}
	return fmt.Errorf("unsupported output format: %s", opts.format)
}

// openOutput returns stdout for an empty path.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
