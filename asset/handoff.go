package asset

import "sync/atomic"

// Handoff is a bounded single-producer single-consumer ring
// The loader dispatch side pushes, the tick thread pops; neither side blocks
type Handoff[T any] struct {
	items []T
	mask  uint64
	head  atomic.Uint64 // Next slot to read, written by consumer
	tail  atomic.Uint64 // Next slot to write, written by producer
}

// NewHandoff rounds capacity up to a power of two
func NewHandoff[T any](capacity int) *Handoff[T] {
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &Handoff[T]{
		items: make([]T, size),
		mask:  uint64(size - 1),
	}
}

// Push appends v, false when the ring is full
func (h *Handoff[T]) Push(v T) bool {
	tail := h.tail.Load()
	if tail-h.head.Load() == uint64(len(h.items)) {
		return false
	}
	h.items[tail&h.mask] = v
	h.tail.Store(tail + 1) // Publishes the slot
	return true
}

// Pop removes the oldest value
func (h *Handoff[T]) Pop() (T, bool) {
	var zero T
	head := h.head.Load()
	if head == h.tail.Load() {
		return zero, false
	}
	v := h.items[head&h.mask]
	h.items[head&h.mask] = zero
	h.head.Store(head + 1)
	return v, true
}

// Len is the number of unread values
func (h *Handoff[T]) Len() int {
	return int(h.tail.Load() - h.head.Load())
}

// Cap is the ring size
func (h *Handoff[T]) Cap() int {
	return len(h.items)
}
