// Package idle implements the deferred-work queue that tree traces and
// event handlers use for "when idle" delivery.
//
// The embedding program decides when it is idle and calls RunPending (one
// pass) or Drain (until empty). Work scheduled while a pass runs is held for
// the next pass, so a callback that reschedules itself cannot starve the
// caller.
package idle

import (
	"sync"
)

// Handle identifies a scheduled task for cancellation.
type Handle uint64

// task is one pending unit of work. fn is cleared once the task has run or
// been cancelled.
type task struct {
	id    Handle
	owner any
	fn    func()
}

// Queue is a FIFO of deferred callbacks. It is safe for concurrent use;
// callbacks run on the goroutine that calls RunPending.
type Queue struct {
	mu      sync.Mutex
	pending []*task
	running []*task // batch of the pass in progress
	nextID  Handle
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Schedule appends fn to the queue. owner groups tasks for CancelOwner and
// may be nil.
func (q *Queue) Schedule(owner any, fn func()) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	q.pending = append(q.pending, &task{id: q.nextID, owner: owner, fn: fn})
	return q.nextID
}

// Cancel drops a task that has not run yet. It reports whether the task was
// still waiting.
func (q *Queue) Cancel(h Handle) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, t := range q.pending {
		if t.id == h {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return true
		}
	}
	for _, t := range q.running {
		if t.id == h && t.fn != nil {
			t.fn = nil
			return true
		}
	}
	return false
}

// CancelOwner drops every waiting task scheduled with owner and returns how
// many were dropped.
func (q *Queue) CancelOwner(owner any) int {
	if owner == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	dropped := 0
	kept := q.pending[:0]
	for _, t := range q.pending {
		if t.owner == owner {
			dropped++
			continue
		}
		kept = append(kept, t)
	}
	clear(q.pending[len(kept):])
	q.pending = kept
	for _, t := range q.running {
		if t.owner == owner && t.fn != nil {
			t.fn = nil
			dropped++
		}
	}
	return dropped
}

// Len returns the number of tasks waiting for the next pass.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// RunPending runs the tasks queued at the time of the call, in order, and
// returns how many ran. A task cancelled by an earlier task of the same
// pass does not run.
func (q *Queue) RunPending() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.running = batch
	q.mu.Unlock()

	ran := 0
	for _, t := range batch {
		q.mu.Lock()
		fn := t.fn
		t.fn = nil
		q.mu.Unlock()
		if fn == nil {
			continue
		}
		fn()
		ran++
	}

	q.mu.Lock()
	q.running = nil
	q.mu.Unlock()
	return ran
}

// Drain runs passes until the queue is empty or maxPasses is reached
// (maxPasses <= 0 means no bound). It returns the total number of tasks run.
func (q *Queue) Drain(maxPasses int) int {
	total := 0
	for pass := 0; maxPasses <= 0 || pass < maxPasses; pass++ {
		if q.Len() == 0 {
			break
		}
		total += q.RunPending()
	}
	return total
}
