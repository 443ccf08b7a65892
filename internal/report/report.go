// Package report formats the pipe-delimited output lines for both
// reports.
//
// A line is only ever written whole: formatting happens into an internal
// buffer before anything reaches the destination, so a failed record can
// never leave a partial line behind.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/xtxerr/contribstream/internal/store"
)

// Writer emits report lines to a destination. The destination is wrapped
// in a buffered writer; Flush must be called before the destination is
// closed.
type Writer struct {
	w    *bufio.Writer
	line []byte
}

// NewWriter creates a report Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), line: make([]byte, 0, 128)}
}

// WriteRunning writes one running-report line:
// recipient|zone|median|count|total.
func (w *Writer) WriteRunning(recipient, zone string, snap store.Snapshot) error {
	w.line = w.line[:0]
	w.line = append(w.line, recipient...)
	w.line = append(w.line, '|')
	w.line = append(w.line, zone...)
	w.line = appendSnapshot(w.line, snap)
	return w.writeLine()
}

// WriteAggregate writes one aggregate-report line:
// recipient|date|median|count|total.
func (w *Writer) WriteAggregate(e *store.DateEntry) error {
	w.line = w.line[:0]
	w.line = append(w.line, e.RecipientID...)
	w.line = append(w.line, '|')
	w.line = append(w.line, e.DateStr...)
	w.line = appendSnapshot(w.line, e.Snapshot())
	return w.writeLine()
}

func appendSnapshot(line []byte, snap store.Snapshot) []byte {
	line = append(line, '|')
	line = strconv.AppendInt(line, snap.Median, 10)
	line = append(line, '|')
	line = strconv.AppendInt(line, int64(snap.Count), 10)
	line = append(line, '|')
	line = strconv.AppendInt(line, snap.Total, 10)
	line = append(line, '\n')
	return line
}

func (w *Writer) writeLine() error {
	if _, err := w.w.Write(w.line); err != nil {
		return fmt.Errorf("write report line: %w", err)
	}
	return nil
}

// Flush flushes buffered lines to the destination.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
