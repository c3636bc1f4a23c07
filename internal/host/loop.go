package host

import (
	"context"
	"sync"

	apperrors "github.com/agbru/gcstats/internal/errors"
	"github.com/agbru/gcstats/internal/logging"
)

// EventLoop is the primary execution context: a single goroutine running
// posted tasks one at a time in FIFO order. Consumers are only ever called
// from here.
type EventLoop struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	wake   chan struct{}
	done   chan struct{}

	uncaught func(error)
	logger   logging.Logger
}

// LoopOption configures an EventLoop.
type LoopOption func(*EventLoop)

// WithUncaughtHandler replaces the default handler, which logs the error.
func WithUncaughtHandler(fn func(error)) LoopOption {
	return func(l *EventLoop) { l.uncaught = fn }
}

// WithLoopLogger sets the logger used by the default uncaught handler.
func WithLoopLogger(logger logging.Logger) LoopOption {
	return func(l *EventLoop) { l.logger = logger }
}

// NewEventLoop creates a loop. Tasks posted before Run starts are kept.
func NewEventLoop(opts ...LoopOption) *EventLoop {
	l := &EventLoop{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.uncaught == nil {
		l.uncaught = func(err error) {
			l.logger.Error("uncaught callback error", err)
		}
	}
	return l
}

// Post queues task. It never blocks; tasks posted after the loop stopped are
// dropped.
func (l *EventLoop) Post(task func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Uncaught routes err to the unhandled-error handler.
func (l *EventLoop) Uncaught(err error) {
	l.uncaught(err)
}

// Run executes tasks until ctx is done, then runs whatever is still queued
// and returns. A panicking task is reported through Uncaught and the loop
// keeps going.
func (l *EventLoop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-l.wake:
			l.runQueued()
		case <-ctx.Done():
			l.mu.Lock()
			l.closed = true
			l.mu.Unlock()
			l.runQueued()
			return ctx.Err()
		}
	}
}

// Done is closed once Run has returned.
func (l *EventLoop) Done() <-chan struct{} { return l.done }

// Flush waits until every task posted before the call has run.
func (l *EventLoop) Flush(ctx context.Context) error {
	reached := make(chan struct{})
	l.Post(func() { close(reached) })
	select {
	case <-reached:
		return nil
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *EventLoop) runQueued() {
	for {
		l.mu.Lock()
		batch := l.tasks
		l.tasks = nil
		l.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, task := range batch {
			l.safeRun(task)
		}
	}
}

func (l *EventLoop) safeRun(task func()) {
	defer func() {
		if v := recover(); v != nil {
			l.Uncaught(&apperrors.PanicError{Value: v})
		}
	}()
	task()
}
