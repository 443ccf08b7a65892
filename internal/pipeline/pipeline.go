// Package pipeline drives the record stream end to end: scan raw lines,
// parse, feed the stores, and emit both reports.
//
// Processing is strictly sequential. Each record's update to both stores
// completes, including the immediate running-report line, before the next
// line is read; the aggregate report is drained only after the stream
// ends.
package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/xtxerr/contribstream/internal/feed"
	"github.com/xtxerr/contribstream/internal/logging"
	"github.com/xtxerr/contribstream/internal/report"
	"github.com/xtxerr/contribstream/internal/stats"
	"github.com/xtxerr/contribstream/internal/store"
)

// Options configures a pipeline run.
type Options struct {
	// Layout describes the raw feed field positions.
	Layout feed.Layout

	// MaxLineBytes bounds a single raw line.
	MaxLineBytes int

	// ProgressEvery is how many records pass between progress log lines.
	// Zero disables progress logging.
	ProgressEvery int

	// StatsSketch enables the amount-distribution sketch in the run
	// summary.
	StatsSketch bool

	// StatsAccuracy is the sketch relative accuracy.
	StatsAccuracy float64
}

// Pipeline processes one contribution stream.
type Pipeline struct {
	opts   Options
	parser *feed.Parser
	store  *store.Store
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	if opts.MaxLineBytes <= 0 {
		opts.MaxLineBytes = 1024 * 1024
	}
	return &Pipeline{
		opts:   opts,
		parser: feed.NewParser(opts.Layout),
		store:  store.New(),
	}
}

// Store exposes the coordinator, for export after Run returns.
func (p *Pipeline) Store() *store.Store {
	return p.store
}

// Run consumes the input stream and writes both reports. The running
// report gets one line per record with a usable zone, in stream order;
// the aggregate report is written once the stream is drained, recipients
// ascending and dates chronological.
func (p *Pipeline) Run(input io.Reader, runningOut, aggregateOut io.Writer) (*stats.Run, error) {
	log := logging.Component("pipeline")
	run := stats.NewRun(p.opts.StatsSketch, p.opts.StatsAccuracy)

	running := report.NewWriter(runningOut)
	aggregate := report.NewWriter(aggregateOut)

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 64*1024), p.opts.MaxLineBytes)

	for scanner.Scan() {
		run.LinesRead++

		c, err := p.parser.Parse(scanner.Text())
		if err != nil {
			// Best-effort policy: malformed and out-of-scope records are
			// skipped and the stream continues.
			switch {
			case errors.Is(err, feed.ErrOutOfScope):
				run.OutOfScope++
			default:
				run.SkippedBad++
				log.Debug("record skipped", "line", run.LinesRead, "error", err)
			}
			continue
		}

		snap, ok := p.store.Add(c)
		if ok {
			if err := running.WriteRunning(c.RecipientID, c.Zone, snap); err != nil {
				return run, err
			}
		} else {
			run.ZoneAbsent++
		}
		if !c.HasDate {
			run.DateAbsent++
		}

		run.Observe(c.AmountCents / 100)

		if p.opts.ProgressEvery > 0 && run.Processed%int64(p.opts.ProgressEvery) == 0 {
			log.Info("progress",
				"processed", run.Processed,
				"skipped", run.SkippedBad,
				"elapsed", run.Elapsed())
		}
	}
	if err := scanner.Err(); err != nil {
		return run, fmt.Errorf("read input: %w", err)
	}

	agg := p.store.Aggregate()
	for _, recipient := range agg.Recipients() {
		for _, entry := range agg.DatesFor(recipient) {
			if err := aggregate.WriteAggregate(entry); err != nil {
				return run, err
			}
		}
	}

	if err := running.Flush(); err != nil {
		return run, err
	}
	if err := aggregate.Flush(); err != nil {
		return run, err
	}

	run.LogSummary(log)
	return run, nil
}
