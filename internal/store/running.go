// Package store holds the keyed accumulator stores and the coordinator
// that feeds them.
//
// RunningStore answers "the freshest accumulator for a (recipient, zone)
// key"; AggregateStore answers "all accumulators for a recipient in
// chronological order". Both are append-only for the life of the process
// and are not safe for concurrent use: the ingestion model is one strictly
// ordered stream, and the aggregate store is only read after the stream is
// fully drained.
package store

import (
	"math"
	"sort"

	"github.com/xtxerr/contribstream/internal/median"
)

// Snapshot is a read-only view of an accumulator at one point in the
// stream. Total and Median are whole currency units, rounded half-to-even
// from the cents domain.
type Snapshot struct {
	Count  int
	Total  int64
	Median int64
}

// roundCents converts unrounded cents to whole currency units.
// Rounding happens here, at read time, never at insert time.
func roundCents(cents float64) int64 {
	return int64(math.RoundToEven(cents / 100))
}

// runningEntry accumulates contributions for one (recipient, zone) key.
type runningEntry struct {
	recipient  string
	zone       string
	acc        *median.Accumulator
	count      int
	totalCents float64
}

func (e *runningEntry) add(cents float64) {
	e.count++
	e.totalCents += cents
	e.acc.Add(cents)
}

func (e *runningEntry) snapshot() Snapshot {
	// The accumulator cannot be empty here: entries are created by an add.
	m, _ := e.acc.Median()
	return Snapshot{
		Count:  e.count,
		Total:  roundCents(e.totalCents),
		Median: roundCents(m),
	}
}

// RunningStore maps (recipient, zone) keys to running accumulators.
type RunningStore struct {
	entries map[string]*runningEntry
}

// NewRunningStore creates an empty RunningStore.
func NewRunningStore() *RunningStore {
	return &RunningStore{entries: make(map[string]*runningEntry)}
}

// runningKey joins recipient and zone. Zones are always 5 digits after
// validation, so the joiner cannot be ambiguous.
func runningKey(recipient, zone string) string {
	return recipient + "|" + zone
}

// Update inserts one contribution amount for the given key and returns a
// snapshot of the just-touched accumulator. Callers must not call Update
// for records without a usable zone; no entry is created in that case.
func (s *RunningStore) Update(recipient, zone string, cents float64) Snapshot {
	key := runningKey(recipient, zone)
	entry, ok := s.entries[key]
	if !ok {
		entry = &runningEntry{recipient: recipient, zone: zone, acc: median.New()}
		s.entries[key] = entry
	}
	entry.add(cents)
	return entry.snapshot()
}

// Len returns the number of distinct (recipient, zone) keys seen.
func (s *RunningStore) Len() int {
	return len(s.entries)
}

// Each calls fn for every (recipient, zone) entry with its final
// snapshot, in ascending key order.
func (s *RunningStore) Each(fn func(recipient, zone string, snap Snapshot)) {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e := s.entries[k]
		fn(e.recipient, e.zone, e.snapshot())
	}
}
