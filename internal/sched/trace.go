// internal/sched/trace.go

package sched

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// CSVTrace records status events as CSV rows.
type CSVTrace struct {
	w      *csv.Writer
	closer io.Closer
}

var csvHeader = []string{"time_ms", "event", "task_id", "due_ms", "overdue", "pending"}

// NewCSVTrace writes the header to w and returns a trace writing to it.
func NewCSVTrace(w io.Writer) (*CSVTrace, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write trace header: %w", err)
	}
	cw.Flush()
	return &CSVTrace{w: cw}, cw.Error()
}

// OpenCSVTrace creates the file at path for CSV tracing.
func OpenCSVTrace(path string) (*CSVTrace, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open trace %s: %w", path, err)
	}
	t, err := NewCSVTrace(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	t.closer = f
	return t, nil
}

// Record appends one event. It satisfies EventSink.
func (t *CSVTrace) Record(ev StatusEvent) {
	rec := []string{
		formatMS(ev.Time),
		ev.Kind.String(),
		strconv.FormatUint(uint64(ev.TaskID), 10),
		formatMS(ev.DueTime),
		strconv.FormatBool(ev.Overdue),
		strconv.Itoa(ev.Pending),
	}
	t.w.Write(rec)
	t.w.Flush()
}

// Close flushes pending rows and closes the underlying file, if any.
func (t *CSVTrace) Close() error {
	t.w.Flush()
	if err := t.w.Error(); err != nil {
		return err
	}
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

func formatMS(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 3, 64)
}
