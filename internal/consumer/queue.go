// Package consumer implements the prefetch window, ack-mode state
// machine, pending-ack coalescer, and redelivery/poison policy of
// spec.md §4.4 — the hardest part of the client runtime.
//
// Grounded on cellorg/internal/broker/service.go's mutex-guarded
// in-memory queue pattern, generalized from a single FIFO into the
// UnconsumedQueue/DispatchedLog pair spec.md's data model requires.
package consumer

import (
	"sync"
	"time"

	"github.com/tenzoki/gowire/internal/wireformat"
)

// UnconsumedQueue is the ordered sequence of MessageDispatch awaiting
// handoff to the user (spec.md §3). It enforces no capacity limit:
// Enqueue always appends unless the queue is closed.
type UnconsumedQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*wireformat.MessageDispatch
	closed bool
}

func NewUnconsumedQueue() *UnconsumedQueue {
	q := &UnconsumedQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a dispatch at the tail and wakes one blocked receiver.
func (q *UnconsumedQueue) Enqueue(d *wireformat.MessageDispatch) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, d)
	q.cond.Signal()
}

// EnqueueFront prepends, in order, the dispatches in ds — used by
// rollback redelivery to restore original delivery order (spec.md
// §4.4 step 4: "push L back to the front ... preserving original
// order").
func (q *UnconsumedQueue) EnqueueFront(ds []*wireformat.MessageDispatch) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(append([]*wireformat.MessageDispatch{}, ds...), q.items...)
	q.cond.Broadcast()
}

// Pop blocks until an item is available, the queue is closed, or
// deadline passes (the zero Time means block forever). A returned
// (nil, false) means "no message" (closed or timed out), not an error.
//
// A timer armed against deadline broadcasts the cond so a waiter
// actually wakes when the deadline passes — cond.Wait alone only
// re-checks its predicate on a Signal/Broadcast, so without this timer
// a Pop with nothing ever enqueued again would block forever instead
// of honoring its deadline.
func (q *UnconsumedQueue) Pop(deadline time.Time) (*wireformat.MessageDispatch, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !deadline.IsZero() {
		timer := time.AfterFunc(time.Until(deadline), func() {
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		})
		defer timer.Stop()
	}

	for len(q.items) == 0 && !q.closed {
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return nil, false
		}
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	d := q.items[0]
	q.items = q.items[1:]
	return d, true
}

// PopNoWait returns immediately: a message if one is queued, else
// (nil, false).
func (q *UnconsumedQueue) PopNoWait() (*wireformat.MessageDispatch, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	d := q.items[0]
	q.items = q.items[1:]
	return d, true
}

// Len reports the current queue depth.
func (q *UnconsumedQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear drops all queued dispatches (spec.md §4.2: cleared on
// transport-interruption recovery, via Consumer.Dispatch's
// clear-required check).
func (q *UnconsumedQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// Close wakes every blocked Pop with "no message" and prevents
// further Enqueues.
func (q *UnconsumedQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// DispatchedLog is the ordered sequence of MessageDispatch handed to
// the user but not yet acked (spec.md §3).
type DispatchedLog struct {
	mu    sync.Mutex
	items []*wireformat.MessageDispatch
}

func NewDispatchedLog() *DispatchedLog { return &DispatchedLog{} }

func (l *DispatchedLog) Push(d *wireformat.MessageDispatch) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, d)
}

// Snapshot returns a copy of the current log contents in order.
func (l *DispatchedLog) Snapshot() []*wireformat.MessageDispatch {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*wireformat.MessageDispatch, len(l.items))
	copy(out, l.items)
	return out
}

func (l *DispatchedLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Clear empties the log, returning what it held (used by commit,
// rollback, and recover to drain it atomically).
func (l *DispatchedLog) Clear() []*wireformat.MessageDispatch {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.items
	l.items = nil
	return out
}
