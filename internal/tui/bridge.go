package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/gcstats"
)

// programRef is a shared reference to the tea.Program. Bubbletea copies
// the model on every Update, so producers hold this pointer instead.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe). It is a
// no-op until a program is attached.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Bridge is a gcstats consumer that forwards every report to the dashboard.
// Reports delivered before the dashboard starts are dropped.
type Bridge struct {
	ref *programRef
}

var _ gcstats.Consumer = (*Bridge)(nil)

// NewBridge creates a detached bridge; Run attaches it.
func NewBridge() *Bridge {
	return &Bridge{ref: &programRef{}}
}

// HandleGCStats posts the report to the dashboard.
func (b *Bridge) HandleGCStats(s gcstats.Stats) error {
	b.ref.Send(StatsMsg{Stats: s})
	return nil
}

// Done tells the dashboard the driver has stopped.
func (b *Bridge) Done(err error) {
	b.ref.Send(DoneMsg{Err: err})
}
