package cycle

import (
	"sync"
	"sync/atomic"

	"github.com/agbru/gcstats/internal/heap"
)

// State is the single pending-cycle slot shared by a Recorder and its
// Finalizer.
//
// A Go host may raise collection hooks from any goroutine, so the slot is
// guarded by a mutex rather than relying on a single collector thread.
// Only one cycle is ever open: a second start overwrites the first and an
// end with nothing open reads whatever the slot last held. Both cases are
// counted, never rejected.
type State struct {
	mu       sync.Mutex
	snapshot heap.Snapshot
	start    uint64
	open     bool

	overwrites atomic.Uint64
	orphans    atomic.Uint64
}

// NewState returns an empty slot.
func NewState() *State {
	return &State{}
}

// Store records the before-snapshot and start time of a new cycle.
func (s *State) Store(snap heap.Snapshot, start uint64) {
	s.mu.Lock()
	if s.open {
		s.overwrites.Add(1)
	}
	s.snapshot = snap
	s.start = start
	s.open = true
	s.mu.Unlock()
}

// Load returns the pending snapshot and start time and closes the cycle.
func (s *State) Load() (heap.Snapshot, uint64) {
	s.mu.Lock()
	if !s.open {
		s.orphans.Add(1)
	}
	snap, start := s.snapshot, s.start
	s.open = false
	s.mu.Unlock()
	return snap, start
}

// Open reports whether a cycle start is waiting for its end.
func (s *State) Open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Overwrites counts starts observed while a cycle was already open.
func (s *State) Overwrites() uint64 { return s.overwrites.Load() }

// Orphans counts ends observed with no open cycle.
func (s *State) Orphans() uint64 { return s.orphans.Load() }
