// Package export writes archival parquet copies of both reports.
//
// Export runs strictly after the stream is drained; it only reads final
// store state. The two files are independent and are written
// concurrently.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"golang.org/x/sync/errgroup"

	"github.com/xtxerr/contribstream/internal/store"
)

// File names inside the export directory.
const (
	RunningFile   = "running_by_zone.parquet"
	AggregateFile = "aggregate_by_date.parquet"
)

// Options configures the parquet export.
type Options struct {
	// Compression algorithm
	Compression CompressionType

	// CompressionLevel for algorithms that support it (zstd: 1-22)
	CompressionLevel int
}

// CompressionType represents a parquet compression algorithm.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionSnappy
	CompressionZstd
	CompressionLZ4
	CompressionGzip
)

// DefaultOptions returns default export options.
func DefaultOptions() Options {
	return Options{
		Compression:      CompressionZstd,
		CompressionLevel: 3,
	}
}

// ParseCompressionType parses a compression type string.
func ParseCompressionType(s string) CompressionType {
	switch s {
	case "snappy":
		return CompressionSnappy
	case "zstd":
		return CompressionZstd
	case "lz4":
		return CompressionLZ4
	case "gzip":
		return CompressionGzip
	case "none", "":
		return CompressionNone
	default:
		return CompressionZstd
	}
}

// getCompression returns the parquet-go compression codec.
func getCompression(ct CompressionType) compress.Codec {
	switch ct {
	case CompressionSnappy:
		return &parquet.Snappy
	case CompressionZstd:
		return &parquet.Zstd
	case CompressionLZ4:
		return &parquet.Lz4Raw
	case CompressionGzip:
		return &parquet.Gzip
	default:
		return &parquet.Uncompressed
	}
}

// RunningRow is the final state of one (recipient, zone) key.
type RunningRow struct {
	Recipient string `parquet:"recipient,zstd"`
	Zone      string `parquet:"zone,zstd"`
	Median    int64  `parquet:"median"`
	Count     int64  `parquet:"count"`
	Total     int64  `parquet:"total"`
}

// AggregateRow is one (recipient, date) report line.
type AggregateRow struct {
	Recipient string `parquet:"recipient,zstd"`
	Date      string `parquet:"date,zstd"`
	Median    int64  `parquet:"median"`
	Count     int64  `parquet:"count"`
	Total     int64  `parquet:"total"`
}

// Export writes both report files into dir, creating it if needed.
func Export(dir string, st *store.Store, opts Options) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	var g errgroup.Group
	g.Go(func() error { return exportRunning(filepath.Join(dir, RunningFile), st.Running(), opts) })
	g.Go(func() error { return exportAggregate(filepath.Join(dir, AggregateFile), st.Aggregate(), opts) })
	return g.Wait()
}

func exportRunning(path string, s *store.RunningStore, opts Options) error {
	rows := make([]RunningRow, 0, s.Len())
	s.Each(func(recipient, zone string, snap store.Snapshot) {
		rows = append(rows, RunningRow{
			Recipient: recipient,
			Zone:      zone,
			Median:    snap.Median,
			Count:     int64(snap.Count),
			Total:     snap.Total,
		})
	})
	return writeRows(path, rows, opts)
}

func exportAggregate(path string, s *store.AggregateStore, opts Options) error {
	var rows []AggregateRow
	for _, recipient := range s.Recipients() {
		for _, e := range s.DatesFor(recipient) {
			snap := e.Snapshot()
			rows = append(rows, AggregateRow{
				Recipient: e.RecipientID,
				Date:      e.DateStr,
				Median:    snap.Median,
				Count:     int64(snap.Count),
				Total:     snap.Total,
			})
		}
	}
	return writeRows(path, rows, opts)
}

func writeRows[T any](path string, rows []T, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	writer := parquet.NewGenericWriter[T](f, parquet.Compression(getCompression(opts.Compression)))

	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			f.Close()
			return fmt.Errorf("write rows: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

// ReadRunning reads back an exported running file, for inspection and
// tests.
func ReadRunning(path string) ([]RunningRow, error) {
	return readRows[RunningRow](path)
}

// ReadAggregate reads back an exported aggregate file.
func ReadAggregate(path string) ([]AggregateRow, error) {
	return readRows[AggregateRow](path)
}

func readRows[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[T](f)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	if len(rows) == 0 {
		return nil, nil
	}

	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows[:n], nil
}
