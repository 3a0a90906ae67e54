package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Header is the first row of every report.
var Header = []string{"username", "roles", "error"}

// ErrNotOpen is returned when closing a recorder that is not open.
var ErrNotOpen = errors.New("report is not open")

// Outcome is the result of one attempt to place a user in a role's group.
type Outcome struct {
	Username string
	Roles    []string
	Err      error
}

// Recorder is an append-only sink of outcomes.
type Recorder interface {
	// Append records one outcome. Safe for concurrent use.
	Append(o Outcome)
	// Close flushes and releases the recorder.
	Close() error
}

// Nop discards outcomes. It stands in when reporting is disabled.
type Nop struct{}

func (Nop) Append(Outcome) {}

func (Nop) Close() error { return ErrNotOpen }

// CSVRecorder writes outcomes as CSV rows. Writes are serialized so rows from
// concurrent callers never interleave.
type CSVRecorder struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
	err    error
	closed bool
}

// NewCSVRecorder writes rows to w. When writeHeader is set the header row is
// written first. The closer, if any, is closed by Close.
func NewCSVRecorder(w io.Writer, closer io.Closer, writeHeader bool) (*CSVRecorder, error) {
	r := &CSVRecorder{w: csv.NewWriter(w), closer: closer}
	if writeHeader {
		if err := r.w.Write(Header); err != nil {
			return nil, fmt.Errorf("failed to write report header: %w", err)
		}
	}
	return r, nil
}

// Open creates the recorder for a run. A disabled report yields Nop.
// The file is truncated unless cfg.Append is set; when appending, the header
// is written only to an empty file.
func Open(cfg Config, enabled bool) (Recorder, error) {
	if !enabled {
		return Nop{}, nil
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if cfg.Append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(cfg.Path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open report %s: %w", cfg.Path, err)
	}

	writeHeader := true
	if cfg.Append {
		info, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to stat report %s: %w", cfg.Path, err)
		}
		writeHeader = info.Size() == 0
	}

	r, err := NewCSVRecorder(f, f, writeHeader)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

// Append writes one row. The first write error is kept and returned by Close.
func (r *CSVRecorder) Append(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.err != nil {
		return
	}
	if err := r.w.Write(row(o)); err != nil {
		r.err = err
	}
}

// Close flushes buffered rows and closes the underlying file.
func (r *CSVRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrNotOpen
	}
	r.closed = true

	r.w.Flush()
	err := r.err
	if err == nil {
		err = r.w.Error()
	}
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Finalize closes rec. Closing a recorder that is not open is only worth a
// warning.
func Finalize(l *zap.Logger, rec Recorder) error {
	if rec == nil {
		l.Warn("Trying to close a report that does not exist")
		return nil
	}
	if err := rec.Close(); err != nil {
		if errors.Is(err, ErrNotOpen) {
			l.Warn("Trying to close a report that does not exist")
			return nil
		}
		return err
	}
	return nil
}

func row(o Outcome) []string {
	var errText string
	if o.Err != nil {
		errText = o.Err.Error()
	}
	return []string{o.Username, strings.Join(o.Roles, ","), errText}
}
