// Package delivery moves finished cycle reports out of the collection
// critical section and hands them to the consumer on the primary execution
// context.
package delivery

import (
	"sync/atomic"

	"github.com/agbru/gcstats/internal/cycle"
	apperrors "github.com/agbru/gcstats/internal/errors"
)

// Loop is the primary execution context. Post must never block; tasks run
// one at a time in the order they were posted.
type Loop interface {
	Post(task func())
	// Uncaught receives consumer failures. It is the host's unhandled
	// callback error path.
	Uncaught(err error)
}

// WorkQueue runs work on a background worker, then posts after onto the Loop.
type WorkQueue interface {
	QueueWork(work, after func())
}

// DeliverFunc materialises a report and invokes the consumer. It always
// runs on the Loop.
type DeliverFunc func(r *cycle.Report) error

// Queue is a single-producer, ordered, at-most-once delivery queue.
//
// Every submitted report schedules exactly one background work item. The
// work item does nothing: it exists to leave the collector's goroutine and
// come back through the Loop once the collection has finished. Workers may
// complete out of order, so re-entry goes through a reorder buffer keyed by
// sequence number and reports are delivered strictly in submission order.
type Queue struct {
	loop    Loop
	work    WorkQueue
	deliver DeliverFunc

	seq       atomic.Uint64
	inFlight  atomic.Int64
	delivered atomic.Uint64

	// Owned by the Loop.
	next    uint64
	pending map[uint64]*cycle.Report
}

// NewQueue builds a Queue delivering through fn.
func NewQueue(loop Loop, work WorkQueue, fn DeliverFunc) *Queue {
	return &Queue{
		loop:    loop,
		work:    work,
		deliver: fn,
		next:    1,
		pending: make(map[uint64]*cycle.Report),
	}
}

// Submit takes ownership of r and schedules its delivery. It returns
// immediately and never calls the consumer itself.
func (q *Queue) Submit(r *cycle.Report) {
	r.Seq = q.seq.Add(1)
	q.inFlight.Add(1)
	q.work.QueueWork(trampoline, func() { q.reenter(r) })
}

// trampoline is the background half of a delivery. Nothing may be built here.
func trampoline() {}

func (q *Queue) reenter(r *cycle.Report) {
	q.pending[r.Seq] = r
	for {
		next, ok := q.pending[q.next]
		if !ok {
			return
		}
		delete(q.pending, q.next)
		q.next++
		q.invoke(next)
	}
}

// invoke delivers one report. A failing consumer is reported to the Loop and
// the report is dropped; later reports are unaffected.
func (q *Queue) invoke(r *cycle.Report) {
	defer q.inFlight.Add(-1)
	defer func() {
		if v := recover(); v != nil {
			q.loop.Uncaught(&apperrors.ConsumerError{Seq: r.Seq, Cause: &apperrors.PanicError{Value: v}})
		}
	}()
	q.delivered.Add(1)
	if err := q.deliver(r); err != nil {
		q.loop.Uncaught(&apperrors.ConsumerError{Seq: r.Seq, Cause: err})
	}
}

// Pending returns how many submitted reports have not been delivered yet.
func (q *Queue) Pending() int64 { return q.inFlight.Load() }

// Submitted returns how many reports have been submitted.
func (q *Queue) Submitted() uint64 { return q.seq.Load() }

// Delivered returns how many reports reached the consumer, failed or not.
func (q *Queue) Delivered() uint64 { return q.delivered.Load() }
