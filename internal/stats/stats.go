// Package stats tracks run-level counters and an approximate amount
// distribution for the end-of-run summary.
//
// The distribution uses DDSketch and is diagnostic only; report medians
// always come from the exact accumulators in the store.
package stats

import (
	"log/slog"
	"time"

	"github.com/DataDog/sketches-go/ddsketch"
)

// Run accumulates statistics over one pipeline run.
type Run struct {
	start time.Time

	// Counters
	LinesRead   int64
	Processed   int64
	SkippedBad  int64
	OutOfScope  int64
	ZoneAbsent  int64
	DateAbsent  int64

	// Amount distribution in currency units (nil if disabled)
	sketch *ddsketch.DDSketch
}

// NewRun creates a Run. When withSketch is set, an amount-distribution
// sketch with the given relative accuracy is attached; a sketch
// construction error just disables the distribution.
func NewRun(withSketch bool, accuracy float64) *Run {
	r := &Run{start: time.Now()}
	if withSketch {
		sketch, err := ddsketch.NewDefaultDDSketch(accuracy)
		if err == nil {
			r.sketch = sketch
		}
	}
	return r
}

// Observe records a processed record's amount, in currency units.
func (r *Run) Observe(amount float64) {
	r.Processed++
	if r.sketch != nil && amount > 0 {
		r.sketch.Add(amount)
	}
}

// Elapsed returns the wall time since the run started.
func (r *Run) Elapsed() time.Duration {
	return time.Since(r.start)
}

// LogSummary writes the run summary through the given logger.
func (r *Run) LogSummary(log *slog.Logger) {
	elapsed := r.Elapsed()

	args := []any{
		"lines", r.LinesRead,
		"processed", r.Processed,
		"skipped", r.SkippedBad,
		"out_of_scope", r.OutOfScope,
		"zone_absent", r.ZoneAbsent,
		"date_absent", r.DateAbsent,
		"elapsed", elapsed.Round(time.Millisecond),
	}
	if elapsed > 0 {
		args = append(args, "records_per_sec", int64(float64(r.Processed)/elapsed.Seconds()))
	}

	if r.sketch != nil && r.sketch.GetCount() > 0 {
		p50, err50 := r.sketch.GetValueAtQuantile(0.50)
		p90, err90 := r.sketch.GetValueAtQuantile(0.90)
		p95, err95 := r.sketch.GetValueAtQuantile(0.95)
		p99, err99 := r.sketch.GetValueAtQuantile(0.99)
		if err50 == nil && err90 == nil && err95 == nil && err99 == nil {
			args = append(args,
				"amount_p50", p50,
				"amount_p90", p90,
				"amount_p95", p95,
				"amount_p99", p99,
			)
		}
	}

	log.Info("run complete", args...)
}
