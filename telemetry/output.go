package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// TraceWriter appends trace and run rows to CSV files in one directory.
type TraceWriter struct {
	dir       string
	traceFile *os.File
	runsFile  *os.File

	traceHeaderWritten bool
	runsHeaderWritten  bool
}

// NewTraceWriter creates dir and opens trace.csv and runs.csv in it.
// Returns nil if dir is empty (tracing disabled).
func NewTraceWriter(dir string) (*TraceWriter, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("telemetry: create %s: %w", dir, err)
	}

	tw := &TraceWriter{dir: dir}
	f, err := os.Create(filepath.Join(dir, "trace.csv"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: create trace.csv: %w", err)
	}
	tw.traceFile = f

	f, err = os.Create(filepath.Join(dir, "runs.csv"))
	if err != nil {
		tw.traceFile.Close()
		return nil, fmt.Errorf("telemetry: create runs.csv: %w", err)
	}
	tw.runsFile = f
	return tw, nil
}

// WriteFrame appends one row to trace.csv.
func (tw *TraceWriter) WriteFrame(rec FrameRecord) error {
	if tw == nil {
		return nil
	}
	records := []FrameRecord{rec}
	if !tw.traceHeaderWritten {
		if err := gocsv.Marshal(records, tw.traceFile); err != nil {
			return fmt.Errorf("telemetry: write trace: %w", err)
		}
		tw.traceHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, tw.traceFile); err != nil {
		return fmt.Errorf("telemetry: write trace: %w", err)
	}
	return nil
}

// WriteRun appends one row to runs.csv.
func (tw *TraceWriter) WriteRun(rec RunRecord) error {
	if tw == nil {
		return nil
	}
	records := []RunRecord{rec}
	if !tw.runsHeaderWritten {
		if err := gocsv.Marshal(records, tw.runsFile); err != nil {
			return fmt.Errorf("telemetry: write runs: %w", err)
		}
		tw.runsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, tw.runsFile); err != nil {
		return fmt.Errorf("telemetry: write runs: %w", err)
	}
	return nil
}

func (tw *TraceWriter) Dir() string {
	if tw == nil {
		return ""
	}
	return tw.dir
}

// Close closes both files and returns the first error.
func (tw *TraceWriter) Close() error {
	if tw == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{tw.traceFile, tw.runsFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ReadRuns loads a runs.csv written by WriteRun.
func ReadRuns(path string) ([]RunRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	var runs []RunRecord
	if err := gocsv.UnmarshalFile(f, &runs); err != nil {
		return nil, fmt.Errorf("telemetry: read %s: %w", path, err)
	}
	return runs, nil
}
