package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"redfin-harness/models"
)

// CSVWriter writes one row per violation, plus one row per case that failed
// without violations (upstream or count failures). It is safe for
// concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

var csvHeader = []string{
	"run_id", "case", "mode", "started_at", "records", "min_count",
	"record_index", "path", "expected", "actual", "upstream_error",
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends the failures of the given reports. Passing cases produce no
// rows.
func (c *CSVWriter) Write(reports []*models.CaseReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range reports {
		if r.Passed {
			continue
		}
		base := []string{
			r.RunID,
			r.Case,
			string(r.Mode),
			r.StartedAt.Format(time.RFC3339),
			strconv.Itoa(r.Records),
			strconv.Itoa(r.MinCount),
		}

		if len(r.Violations) == 0 {
			row := append(append([]string{}, base...), "", "", "", "", r.UpstreamError)
			if err := c.writer.Write(row); err != nil {
				return fmt.Errorf("csv: write row: %w", err)
			}
			continue
		}

		for _, v := range r.Violations {
			row := append(append([]string{}, base...),
				strconv.Itoa(v.RecordIndex), v.Path, v.Expected, v.Actual, r.UpstreamError)
			if err := c.writer.Write(row); err != nil {
				return fmt.Errorf("csv: write row: %w", err)
			}
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
