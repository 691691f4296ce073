package event

import (
	"sync/atomic"

	"github.com/lixenwraith/skirmish/parameter"
)

// Queue is a lock-free MPSC ring buffer for simulation events
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK (systems and loader workers)
//   - Consume: Single consumer (frame loop)
//   - Published flags prevent reading partial writes
//
// Overflow: Oldest events overwritten when full, Overwritten counts them
type Queue struct {
	events      [parameter.EventQueueSize]Event
	published   [parameter.EventQueueSize]atomic.Bool // True = slot fully written
	head        atomic.Uint64                         // Read index
	tail        atomic.Uint64                         // Write index
	overwritten atomic.Uint64
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push adds event using lock-free CAS with published flags pattern
// Safe for concurrent producers. O(1) amortized
func (q *Queue) Push(ev Event) {
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & parameter.EventBufferMask

			q.events[idx] = ev
			q.published[idx].Store(true) // MUST be after write

			// Advance head if overwriting unread events
			currentHead := q.head.Load()
			if nextTail-currentHead > parameter.EventQueueSize {
				if q.head.CompareAndSwap(currentHead, nextTail-parameter.EventQueueSize) {
					q.overwritten.Add(nextTail - parameter.EventQueueSize - currentHead)
				}
			}
			return
		}
	}
}

// Consume returns all pending events in FIFO order and advances head
// Single-consumer design. Checks published flags for safety
func (q *Queue) Consume() []Event {
	return q.ConsumeInto(nil)
}

// ConsumeInto appends pending events to dst, reusing its capacity
func (q *Queue) ConsumeInto(dst []Event) []Event {
	for {
		currentHead := q.head.Load()
		currentTail := q.tail.Load()

		if currentTail == currentHead {
			return dst
		}

		maxAvailable := currentTail - currentHead
		if maxAvailable > parameter.EventQueueSize {
			maxAvailable = parameter.EventQueueSize
			currentHead = currentTail - parameter.EventQueueSize
		}

		base := len(dst)
		for i := uint64(0); i < maxAvailable; i++ {
			idx := (currentHead + i) & parameter.EventBufferMask

			if !q.published[idx].Load() {
				break // Writer incomplete
			}

			dst = append(dst, q.events[idx])
			q.events[idx] = Event{}
			q.published[idx].Store(false)
		}

		newHead := currentHead + uint64(len(dst)-base)
		if q.head.CompareAndSwap(currentHead, newHead) {
			return dst
		}
		// Producer overran the ring while reading, retry from the new head
		dst = dst[:base]
	}
}

// Len returns approximate pending event count
// Lock-free; used for pre-consume heuristics
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	diff := int(tail - head)
	if diff > parameter.EventQueueSize {
		return parameter.EventQueueSize
	}
	return diff
}

// Overwritten returns how many unread events were lost to overflow
func (q *Queue) Overwritten() uint64 {
	return q.overwritten.Load()
}
