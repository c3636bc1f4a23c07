package cycle

import "github.com/agbru/gcstats/internal/heap"

// Clock is a monotonic nanosecond time source.
type Clock interface {
	Nanotime() uint64
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() uint64

// Nanotime calls f.
func (f ClockFunc) Nanotime() uint64 { return f() }

// Submitter accepts finished reports. Submit must return without waiting
// for delivery.
type Submitter interface {
	Submit(r *Report)
}

// Recorder captures the state of the heap just before a collection.
type Recorder struct {
	state  *State
	source heap.Source
	clock  Clock
}

// NewRecorder wires a Recorder to its state cell, heap source and clock.
func NewRecorder(state *State, source heap.Source, clock Clock) *Recorder {
	return &Recorder{state: state, source: source, clock: clock}
}

// OnCycleStart is the "before collection" hook.
func (r *Recorder) OnCycleStart() {
	start := r.clock.Nanotime()
	var snap heap.Snapshot
	r.source.HeapStatistics(&snap)
	r.state.Store(snap, start)
}

// Finalizer closes a cycle opened by the Recorder sharing its State.
type Finalizer struct {
	state  *State
	source heap.Source
	clock  Clock
	out    Submitter
}

// NewFinalizer wires a Finalizer to the Recorder's state and a Submitter.
func NewFinalizer(state *State, source heap.Source, clock Clock, out Submitter) *Finalizer {
	return &Finalizer{state: state, source: source, clock: clock, out: out}
}

// OnCycleEnd is the "after collection" hook. It builds the cycle report and
// hands it to the Submitter; delivery happens later, elsewhere.
func (f *Finalizer) OnCycleEnd(t GCType) {
	var after heap.Snapshot
	f.source.HeapStatistics(&after)
	end := f.clock.Nanotime()
	before, start := f.state.Load()
	f.out.Submit(NewReport(before, after, start, end, t))
}
