// Package median maintains an exact running median over a growing
// multiset of values.
//
// The accumulator keeps two heap halves: low holds the smaller half of the
// values behind a max-heap, high holds the larger half behind a min-heap.
// After every insertion the halves differ in size by at most one, so the
// median is always available from the heap tops in O(1) while insertion
// stays O(log n). A sort-on-demand design was rejected: the median is read
// after every single insertion and the stream can be millions of records.
package median

import (
	"container/heap"
	"errors"
)

// ErrNoSamples is returned by Median on an accumulator that has never
// seen a value.
var ErrNoSamples = errors.New("median: no samples")

// half is one heap half of the accumulator. max selects the comparison
// direction: a max-heap surfaces the largest of the lower half, a min-heap
// the smallest of the upper half.
type half struct {
	vals []float64
	max  bool
}

func (h half) Len() int { return len(h.vals) }

func (h half) Less(i, j int) bool {
	if h.max {
		return h.vals[i] > h.vals[j]
	}
	return h.vals[i] < h.vals[j]
}

func (h half) Swap(i, j int) {
	h.vals[i], h.vals[j] = h.vals[j], h.vals[i]
}

func (h *half) Push(x interface{}) {
	h.vals = append(h.vals, x.(float64))
}

func (h *half) Pop() interface{} {
	old := h.vals
	n := len(old)
	v := old[n-1]
	h.vals = old[:n-1]
	return v
}

// peek returns the heap top without removing it. Callers must check Len first.
func (h *half) peek() float64 {
	return h.vals[0]
}

// Accumulator maintains an exact median over all values added so far.
//
// Accumulator is not safe for concurrent use; the ingestion model is a
// single strictly ordered stream.
type Accumulator struct {
	low  half // smaller half, max-heap
	high half // larger half, min-heap
}

// New creates an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{
		low:  half{max: true},
		high: half{},
	}
}

// Add inserts a value and rebalances the halves so their sizes never
// differ by more than one.
func (a *Accumulator) Add(v float64) {
	if a.low.Len() == 0 || v < a.low.peek() {
		heap.Push(&a.low, v)
	} else {
		heap.Push(&a.high, v)
	}
	a.rebalance()
}

func (a *Accumulator) rebalance() {
	diff := a.low.Len() - a.high.Len()
	switch {
	case diff > 1:
		heap.Push(&a.high, heap.Pop(&a.low))
	case diff < -1:
		heap.Push(&a.low, heap.Pop(&a.high))
	}
}

// Median returns the exact median of all values added so far.
// It returns ErrNoSamples if nothing has been added.
func (a *Accumulator) Median() (float64, error) {
	switch {
	case a.low.Len() == 0 && a.high.Len() == 0:
		return 0, ErrNoSamples
	case a.low.Len() == a.high.Len():
		lo, hi := a.low.peek(), a.high.peek()
		// Midpoint without summing two large values.
		return lo + (hi-lo)/2, nil
	case a.low.Len() > a.high.Len():
		return a.low.peek(), nil
	default:
		return a.high.peek(), nil
	}
}

// Count returns the number of values added so far.
func (a *Accumulator) Count() int {
	return a.low.Len() + a.high.Len()
}

// balance reports the signed size difference between the halves.
// Exposed for invariant checks in tests.
func (a *Accumulator) balance() int {
	return a.low.Len() - a.high.Len()
}
