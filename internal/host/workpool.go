package host

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultWorkers matches the size of a typical runtime thread pool.
const DefaultWorkers = 4

// poster is the part of the event loop the pool needs.
type poster interface {
	Post(task func())
}

// WorkPool runs work items on background goroutines, at most size at a
// time, and posts each item's after-callback onto the loop when it finishes.
// Completion order across items is not guaranteed.
type WorkPool struct {
	loop poster
	sem  *semaphore.Weighted
	wg   sync.WaitGroup
}

// NewWorkPool creates a pool posting completions to loop.
func NewWorkPool(loop poster, size int) *WorkPool {
	if size <= 0 {
		size = DefaultWorkers
	}
	return &WorkPool{loop: loop, sem: semaphore.NewWeighted(int64(size))}
}

// QueueWork schedules work and returns immediately.
func (p *WorkPool) QueueWork(work, after func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		// Acquire with a background context cannot fail.
		_ = p.sem.Acquire(context.Background(), 1)
		work()
		p.sem.Release(1)
		p.loop.Post(after)
	}()
}

// Wait blocks until every queued work item has finished and posted its
// completion.
func (p *WorkPool) Wait() {
	p.wg.Wait()
}
