// Package buffer holds the sample stores used by the processing context: a
// fixed-capacity FIFO for per-channel telemetry and an unbounded series for
// RR intervals.
package buffer

import "github.com/gammazero/deque"

// Bounded is an insertion-ordered buffer of at most capacity values. Pushing
// onto a full buffer evicts the oldest value.
type Bounded struct {
	capacity int
	values   *deque.Deque[float64]
}

// NewBounded returns an empty buffer. A capacity below one is treated as one.
func NewBounded(capacity int) *Bounded {
	if capacity < 1 {
		capacity = 1
	}

	return &Bounded{
		capacity: capacity,
		values:   deque.New[float64](capacity + 1),
	}
}

// Push appends v, dropping the front value once if the buffer overflows.
func (b *Bounded) Push(v float64) {
	b.values.PushBack(v)
	if b.values.Len() > b.capacity {
		b.values.PopFront()
	}
}

// Values returns a copy of the contents, oldest first.
func (b *Bounded) Values() []float64 {
	out := make([]float64, b.values.Len())
	for i := range out {
		out[i] = b.values.At(i)
	}

	return out
}

func (b *Bounded) Len() int {
	return b.values.Len()
}

func (b *Bounded) Capacity() int {
	return b.capacity
}

// Reset empties the buffer.
func (b *Bounded) Reset() {
	b.values.Clear()
}
