package store

import (
	"sort"
	"time"

	"github.com/xtxerr/contribstream/internal/median"
)

// DateEntry accumulates contributions for one (recipient, date) pair.
// Identity is (RecipientID, DateStr); Date only orders entries and is
// seeded from the first record seen for the date string.
type DateEntry struct {
	RecipientID string
	DateStr     string
	Date        time.Time

	acc        *median.Accumulator
	count      int
	totalCents float64
}

func (e *DateEntry) add(cents float64) {
	e.count++
	e.totalCents += cents
	e.acc.Add(cents)
}

// Snapshot returns the entry's rounded count/total/median.
func (e *DateEntry) Snapshot() Snapshot {
	m, _ := e.acc.Median()
	return Snapshot{
		Count:  e.count,
		Total:  roundCents(e.totalCents),
		Median: roundCents(m),
	}
}

// recipientBuckets holds one recipient's date entries. The slice preserves
// insertion order so that equal calendar dates sort stably; the map serves
// lookups.
type recipientBuckets struct {
	byDate  map[string]*DateEntry
	ordered []*DateEntry
}

// AggregateStore is the two-level (recipient -> date) accumulator store.
// Recipients come back in ascending lexicographic order, and each
// recipient's entries in ascending calendar-date order; both orderings are
// explicit sorts at retrieval, not properties of the containers.
type AggregateStore struct {
	recipients map[string]*recipientBuckets
}

// NewAggregateStore creates an empty AggregateStore.
func NewAggregateStore() *AggregateStore {
	return &AggregateStore{recipients: make(map[string]*recipientBuckets)}
}

// Update inserts one contribution amount under (recipient, dateStr).
// The entry for a new date string is seeded with date; later inserts for
// the same string never alter the stored calendar date. Callers must not
// call Update for records without a valid date.
func (s *AggregateStore) Update(recipient, dateStr string, date time.Time, cents float64) {
	buckets, ok := s.recipients[recipient]
	if !ok {
		buckets = &recipientBuckets{byDate: make(map[string]*DateEntry)}
		s.recipients[recipient] = buckets
	}

	entry, ok := buckets.byDate[dateStr]
	if !ok {
		entry = &DateEntry{
			RecipientID: recipient,
			DateStr:     dateStr,
			Date:        date,
			acc:         median.New(),
		}
		buckets.byDate[dateStr] = entry
		buckets.ordered = append(buckets.ordered, entry)
	}
	entry.add(cents)
}

// Recipients returns all recipient ids in ascending lexicographic order.
func (s *AggregateStore) Recipients() []string {
	ids := make([]string, 0, len(s.recipients))
	for id := range s.recipients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DatesFor returns the recipient's entries in ascending calendar-date
// order. Entries with equal dates keep their original insertion order.
func (s *AggregateStore) DatesFor(recipient string) []*DateEntry {
	buckets, ok := s.recipients[recipient]
	if !ok {
		return nil
	}
	entries := append([]*DateEntry(nil), buckets.ordered...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries
}

// Len returns the number of recipients with at least one dated
// contribution.
func (s *AggregateStore) Len() int {
	return len(s.recipients)
}
