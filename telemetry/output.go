package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/scottkirkwood/flockart/config"
)

// Output writes frame stats to frames.csv in a run directory.
type Output struct {
	dir           string
	framesFile    *os.File
	headerWritten bool
}

// NewOutput creates dir and frames.csv inside it.
// Returns nil if dir is empty (output disabled).
func NewOutput(dir string) (*Output, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	return &Output{dir: dir, framesFile: f}, nil
}

// Dir is where the output goes.
func (o *Output) Dir() string {
	if o == nil {
		return ""
	}
	return o.dir
}

// WriteConfig saves the run's configuration as YAML.
func (o *Output) WriteConfig(cfg *config.Config) error {
	if o == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(o.dir, "config.yaml"))
}

// WriteFrame appends one row to frames.csv.
func (o *Output) WriteFrame(stats FrameStats) error {
	if o == nil {
		return nil
	}
	records := []FrameStats{stats}
	if !o.headerWritten {
		if err := gocsv.Marshal(records, o.framesFile); err != nil {
			return fmt.Errorf("writing frames: %w", err)
		}
		o.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, o.framesFile); err != nil {
		return fmt.Errorf("writing frames: %w", err)
	}
	return nil
}

// Close closes frames.csv.
func (o *Output) Close() error {
	if o == nil {
		return nil
	}
	return o.framesFile.Close()
}
