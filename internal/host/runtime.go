package host

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agbru/gcstats/internal/cycle"
	"github.com/agbru/gcstats/internal/heap"
	"github.com/agbru/gcstats/internal/logging"
)

// GoRuntime hosts collection hooks for the Go runtime of this process.
type GoRuntime struct {
	hooksMu   sync.RWMutex
	prologues []func()
	epilogues []func(cycle.GCType)

	// collectMu keeps cycles from overlapping.
	collectMu   sync.Mutex
	collections atomic.Uint64

	source heap.Source
	clock  cycle.Clock
	loop   *EventLoop
	pool   *WorkPool
	logger logging.Logger

	workers  int
	loopOpts []LoopOption
}

// Option configures a GoRuntime.
type Option func(*GoRuntime)

// WithHeapSource replaces the MemStats heap source.
func WithHeapSource(src heap.Source) Option {
	return func(r *GoRuntime) { r.source = src }
}

// WithClock replaces the monotonic clock.
func WithClock(c cycle.Clock) Option {
	return func(r *GoRuntime) { r.clock = c }
}

// WithWorkers sets the background work pool size.
func WithWorkers(n int) Option {
	return func(r *GoRuntime) { r.workers = n }
}

// WithLogger sets the logger for the runtime and its event loop.
func WithLogger(logger logging.Logger) Option {
	return func(r *GoRuntime) { r.logger = logger }
}

// WithLoopOptions forwards options to the event loop.
func WithLoopOptions(opts ...LoopOption) Option {
	return func(r *GoRuntime) { r.loopOpts = append(r.loopOpts, opts...) }
}

// NewGoRuntime builds a runtime host. The event loop does not run until
// Start or Loop().Run is called.
func NewGoRuntime(opts ...Option) *GoRuntime {
	r := &GoRuntime{
		source:  NewMemStatsSource(),
		clock:   MonotonicClock{},
		logger:  logging.Nop(),
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(r)
	}
	loopOpts := append([]LoopOption{WithLoopLogger(r.logger)}, r.loopOpts...)
	r.loop = NewEventLoop(loopOpts...)
	r.pool = NewWorkPool(r.loop, r.workers)
	return r
}

// Start runs the event loop on its own goroutine until ctx is done.
func (r *GoRuntime) Start(ctx context.Context) {
	go func() {
		_ = r.loop.Run(ctx)
	}()
}

// AddPrologue subscribes fn to the "before collection" slot.
func (r *GoRuntime) AddPrologue(fn func()) {
	r.hooksMu.Lock()
	r.prologues = append(r.prologues, fn)
	r.hooksMu.Unlock()
}

// AddEpilogue subscribes fn to the "after collection" slot.
func (r *GoRuntime) AddEpilogue(fn func(cycle.GCType)) {
	r.hooksMu.Lock()
	r.epilogues = append(r.epilogues, fn)
	r.hooksMu.Unlock()
}

// HeapStatistics fills s from the configured heap source.
func (r *GoRuntime) HeapStatistics(s *heap.Snapshot) { r.source.HeapStatistics(s) }

// Nanotime reads the monotonic clock.
func (r *GoRuntime) Nanotime() uint64 { return r.clock.Nanotime() }

// Loop returns the primary execution context.
func (r *GoRuntime) Loop() *EventLoop { return r.loop }

// Work returns the background work queue.
func (r *GoRuntime) Work() *WorkPool { return r.pool }

// Collections returns how many collections the runtime has raised.
func (r *GoRuntime) Collections() uint64 { return r.collections.Load() }

// Collect runs one collection of kind t, raising every prologue hook before
// and every epilogue hook after it.
func (r *GoRuntime) Collect(t cycle.GCType) {
	r.collectMu.Lock()
	defer r.collectMu.Unlock()

	r.hooksMu.RLock()
	prologues, epilogues := r.prologues, r.epilogues
	r.hooksMu.RUnlock()

	for _, fn := range prologues {
		fn()
	}
	switch t {
	case cycle.GCTypeScavenge:
		debug.FreeOSMemory()
	default:
		t = cycle.GCTypeFull
		runtime.GC()
	}
	for _, fn := range epilogues {
		fn(t)
	}
	r.collections.Add(1)
}

// Drive raises a collection every interval until ctx is done or limit
// collections have run (limit 0 means no limit). next picks the kind of
// each collection; beforeEach, when set, runs ahead of every collection.
func (r *GoRuntime) Drive(ctx context.Context, interval time.Duration, limit uint64, next func(n uint64) cycle.GCType, beforeEach func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := uint64(0); limit == 0 || n < limit; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if beforeEach != nil {
			beforeEach()
		}
		t := next(n)
		r.logger.Debug("raising collection", logging.String("gctype", t.String()), logging.Uint64("n", n+1))
		r.Collect(t)
	}
	return nil
}

var (
	defaultOnce    sync.Once
	defaultRuntime *GoRuntime
)

// Default returns the process-wide runtime host, creating it and starting
// its event loop on first use. It lives until the process exits.
func Default() *GoRuntime {
	defaultOnce.Do(func() {
		defaultRuntime = NewGoRuntime()
		defaultRuntime.Start(context.Background())
	})
	return defaultRuntime
}
