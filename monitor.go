package gcstats

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/agbru/gcstats/internal/cycle"
	"github.com/agbru/gcstats/internal/delivery"
	apperrors "github.com/agbru/gcstats/internal/errors"
	"github.com/agbru/gcstats/internal/heap"
	"github.com/agbru/gcstats/internal/host"
	"github.com/agbru/gcstats/internal/logging"
)

// ErrInvalidArgument is returned by AfterGC when the target is missing or
// cannot be called.
var ErrInvalidArgument = apperrors.ErrInvalidArgument

// Runtime is the collector being observed: two hook slots, a heap
// statistics query and a monotonic clock.
type Runtime interface {
	heap.Source
	cycle.Clock
	AddPrologue(fn func())
	AddEpilogue(fn func(GCType))
}

// Loop is the primary execution context consumers run on.
type Loop = delivery.Loop

// WorkQueue carries deliveries off the collector's goroutine.
type WorkQueue = delivery.WorkQueue

// Diagnostics is a point-in-time view of a Monitor's pipeline.
type Diagnostics struct {
	Armed      bool   `json:"armed"`
	Submitted  uint64 `json:"submitted"`
	Delivered  uint64 `json:"delivered"`
	Pending    int64  `json:"pending"`
	Overwrites uint64 `json:"overwrites"`
	Orphans    uint64 `json:"orphans"`
}

type registration struct {
	consumer Consumer
}

// Monitor wires a Runtime's hooks to a single registered consumer.
//
// The before-collection hook is armed as soon as the Monitor exists. The
// after-collection hook is armed by the first successful AfterGC call, so
// no report is produced until someone is listening.
type Monitor struct {
	rt        Runtime
	state     *cycle.State
	finalizer *cycle.Finalizer
	queue     *delivery.Queue

	consumer atomic.Pointer[registration]
	armOnce  sync.Once
	armed    atomic.Bool

	logger logging.Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the logger used for registration events.
func WithLogger(logger logging.Logger) Option {
	return func(m *Monitor) { m.logger = logger }
}

// New creates a Monitor over rt, delivering on loop through work.
func New(rt Runtime, loop Loop, work WorkQueue, opts ...Option) *Monitor {
	m := &Monitor{
		rt:     rt,
		state:  cycle.NewState(),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.queue = delivery.NewQueue(loop, work, m.deliver)
	m.finalizer = cycle.NewFinalizer(m.state, rt, rt, m.queue)
	rt.AddPrologue(cycle.NewRecorder(m.state, rt, rt).OnCycleStart)
	return m
}

// NewForRuntime creates a Monitor over a Go runtime host.
func NewForRuntime(rt *host.GoRuntime, opts ...Option) *Monitor {
	return New(rt, rt.Loop(), rt.Work(), opts...)
}

// AfterGC installs target as the consumer, replacing any previous one, and
// arms the after-collection hook. target may be a func(Stats), a
// func(Stats) error, or a Consumer. Anything else, including nil, fails
// with ErrInvalidArgument and changes nothing.
func (m *Monitor) AfterGC(target any) error {
	c, err := asConsumer(target)
	if err != nil {
		return err
	}
	replaced := m.consumer.Swap(&registration{consumer: c}) != nil
	m.armOnce.Do(func() {
		m.rt.AddEpilogue(m.finalizer.OnCycleEnd)
		m.armed.Store(true)
	})
	m.logger.Debug("gc stats consumer registered", logging.String("consumer", reflect.TypeOf(target).String()), logging.Field{Key: "replaced", Value: replaced})
	return nil
}

// deliver runs on the loop, after the collection that produced r has ended.
func (m *Monitor) deliver(r *cycle.Report) error {
	reg := m.consumer.Load()
	if reg == nil {
		return nil
	}
	return reg.consumer.HandleGCStats(newStats(r))
}

// Diagnostics returns counters describing the pipeline.
func (m *Monitor) Diagnostics() Diagnostics {
	return Diagnostics{
		Armed:      m.armed.Load(),
		Submitted:  m.queue.Submitted(),
		Delivered:  m.queue.Delivered(),
		Pending:    m.queue.Pending(),
		Overwrites: m.state.Overwrites(),
		Orphans:    m.state.Orphans(),
	}
}

func asConsumer(target any) (Consumer, error) {
	if isNil(target) {
		return nil, apperrors.NewInvalidArgument("callback", "callback is required")
	}
	switch fn := target.(type) {
	case Consumer:
		return fn, nil
	case func(Stats) error:
		return ConsumerFunc(fn), nil
	case func(Stats):
		return ConsumerFunc(func(s Stats) error {
			fn(s)
			return nil
		}), nil
	default:
		return nil, apperrors.NewInvalidArgument("callback", "%T is not callable", target)
	}
}

// isNil catches both a nil interface and a typed nil func or pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

var (
	defaultOnce    sync.Once
	defaultMonitor *Monitor
)

// Default returns the process-wide Monitor over the Go runtime, creating it
// on first use.
func Default() *Monitor {
	defaultOnce.Do(func() {
		defaultMonitor = NewForRuntime(host.Default())
	})
	return defaultMonitor
}

// AfterGC registers target on the process-wide Monitor.
func AfterGC(target any) error {
	return Default().AfterGC(target)
}

// Collect runs one collection of kind t on the process-wide runtime host.
// Only collections raised this way produce reports.
func Collect(t GCType) {
	Default()
	host.Default().Collect(t)
}
