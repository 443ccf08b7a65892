package store

import "github.com/xtxerr/contribstream/internal/feed"

// Store coordinates the running and aggregate stores over one validated
// record stream.
type Store struct {
	running   *RunningStore
	aggregate *AggregateStore
}

// New creates a Store with empty running and aggregate sides.
func New() *Store {
	return &Store{
		running:   NewRunningStore(),
		aggregate: NewAggregateStore(),
	}
}

// Add feeds one validated record to both stores. The zone and date sides
// are gated independently: a record missing one field still advances the
// other store. The returned snapshot reflects the just-updated running
// accumulator; ok is false when the record carried no usable zone and no
// running line should be emitted.
func (s *Store) Add(c *feed.Contribution) (snap Snapshot, ok bool) {
	if c.HasZone {
		snap = s.running.Update(c.RecipientID, c.Zone, c.AmountCents)
		ok = true
	}
	if c.HasDate {
		s.aggregate.Update(c.RecipientID, c.DateStr, c.Date, c.AmountCents)
	}
	return snap, ok
}

// Running returns the running-store side.
func (s *Store) Running() *RunningStore {
	return s.running
}

// Aggregate returns the aggregate-store side, for draining after the
// stream is fully consumed.
func (s *Store) Aggregate() *AggregateStore {
	return s.aggregate
}
