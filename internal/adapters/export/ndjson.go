// Package export streams the audit-trail event log to NDJSON. Writes
// buffer in memory; the engine flushes at day boundaries.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/example/courtsim/internal/core/metrics"
)

// NDJSONSink writes one JSON object per event line.
type NDJSONSink struct {
	w      *bufio.Writer
	closer io.Closer
}

// NewNDJSONSink wraps an arbitrary writer.
func NewNDJSONSink(w io.Writer) *NDJSONSink {
	return &NDJSONSink{w: bufio.NewWriter(w)}
}

// OpenNDJSONFile creates (truncating) an NDJSON event file at path.
func OpenNDJSONFile(path string) (*NDJSONSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event file: %w", err)
	}
	return &NDJSONSink{w: bufio.NewWriter(f), closer: f}, nil
}

// WriteEvent appends one event line.
func (s *NDJSONSink) WriteEvent(e metrics.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := s.w.Write(data); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

// Flush drains the buffer.
func (s *NDJSONSink) Flush() error {
	return s.w.Flush()
}

// Close flushes and closes the underlying file when one is owned.
func (s *NDJSONSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
