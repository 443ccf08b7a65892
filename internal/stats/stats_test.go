package stats

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func TestRun_SketchPercentiles(t *testing.T) {
	r := NewRun(true, 0.01)

	// Amounts 1..100: quantiles should land close to their rank.
	for i := 1; i <= 100; i++ {
		r.Observe(float64(i))
	}

	if r.Processed != 100 {
		t.Fatalf("expected processed=100, got %d", r.Processed)
	}
	if r.sketch == nil {
		t.Fatal("sketch should be attached")
	}

	p50, err := r.sketch.GetValueAtQuantile(0.50)
	if err != nil {
		t.Fatalf("GetValueAtQuantile: %v", err)
	}
	if math.Abs(p50-50.0) > 2.0 {
		t.Errorf("expected p50 near 50, got %f", p50)
	}

	p99, err := r.sketch.GetValueAtQuantile(0.99)
	if err != nil {
		t.Fatalf("GetValueAtQuantile: %v", err)
	}
	if math.Abs(p99-99.0) > 2.0 {
		t.Errorf("expected p99 near 99, got %f", p99)
	}
}

func TestRun_Disabled(t *testing.T) {
	r := NewRun(false, 0)
	r.Observe(42)

	if r.sketch != nil {
		t.Error("sketch should be nil when disabled")
	}
	if r.Processed != 1 {
		t.Errorf("expected processed=1, got %d", r.Processed)
	}
}

func TestRun_LogSummary(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	r := NewRun(true, 0.01)
	r.LinesRead = 5
	r.SkippedBad = 2
	r.Observe(100)
	r.Observe(300)
	r.Observe(200)

	r.LogSummary(log)

	out := buf.String()
	for _, want := range []string{"run complete", "lines=5", "processed=3", "skipped=2", "amount_p50"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q: %s", want, out)
		}
	}
}
