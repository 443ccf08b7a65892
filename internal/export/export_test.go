package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xtxerr/contribstream/internal/feed"
	"github.com/xtxerr/contribstream/internal/store"
)

func contribution(recipient, zone, dateStr string, cents float64) *feed.Contribution {
	c := &feed.Contribution{RecipientID: recipient, AmountCents: cents}
	if zone != "" {
		c.Zone = zone
		c.HasZone = true
	}
	if dateStr != "" {
		d, err := time.Parse("01022006", dateStr)
		if err != nil {
			panic(err)
		}
		c.DateStr = dateStr
		c.Date = d
		c.HasDate = true
	}
	return c
}

func TestExport_RoundTrip(t *testing.T) {
	st := store.New()
	st.Add(contribution("C001", "10001", "01152017", 10000))
	st.Add(contribution("C001", "10001", "01152017", 30000))
	st.Add(contribution("C002", "94105", "02012017", 50000))

	dir := t.TempDir()
	if err := Export(dir, st, DefaultOptions()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	running, err := ReadRunning(filepath.Join(dir, RunningFile))
	if err != nil {
		t.Fatalf("ReadRunning: %v", err)
	}
	if len(running) != 2 {
		t.Fatalf("expected 2 running rows, got %d", len(running))
	}
	if r := running[0]; r.Recipient != "C001" || r.Zone != "10001" || r.Count != 2 || r.Median != 200 || r.Total != 400 {
		t.Errorf("unexpected running row: %+v", r)
	}

	agg, err := ReadAggregate(filepath.Join(dir, AggregateFile))
	if err != nil {
		t.Fatalf("ReadAggregate: %v", err)
	}
	if len(agg) != 2 {
		t.Fatalf("expected 2 aggregate rows, got %d", len(agg))
	}
	if r := agg[0]; r.Recipient != "C001" || r.Date != "01152017" || r.Median != 200 {
		t.Errorf("unexpected aggregate row: %+v", r)
	}
}

func TestExport_EmptyStore(t *testing.T) {
	dir := t.TempDir()
	if err := Export(dir, store.New(), DefaultOptions()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	for _, name := range []string{RunningFile, AggregateFile} {
		stat, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("file should exist: %v", err)
		}
		if stat.Size() == 0 {
			t.Errorf("%s should carry a parquet footer even when empty", name)
		}
	}
}

func TestParseCompressionType(t *testing.T) {
	tests := []struct {
		in   string
		want CompressionType
	}{
		{"snappy", CompressionSnappy},
		{"zstd", CompressionZstd},
		{"lz4", CompressionLZ4},
		{"gzip", CompressionGzip},
		{"none", CompressionNone},
		{"", CompressionNone},
		{"bogus", CompressionZstd},
	}
	for _, tt := range tests {
		if got := ParseCompressionType(tt.in); got != tt.want {
			t.Errorf("ParseCompressionType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
