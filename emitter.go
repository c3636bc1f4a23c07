package gcstats

import "sync"

// Emitter fans every Stats value out to any number of subscribers, in the
// order they subscribed.
type Emitter struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

type subscription struct {
	id uint64
	fn func(Stats)
}

// NewEmitter returns an Emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscribe adds fn and returns a function that removes it.
func (e *Emitter) Subscribe(fn func(Stats)) (unsubscribe func()) {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscription{id: id, fn: fn})
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { e.remove(id) })
	}
}

func (e *Emitter) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscribers.
func (e *Emitter) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs)
}

// HandleGCStats calls every subscriber with s.
func (e *Emitter) HandleGCStats(s Stats) error {
	e.mu.RLock()
	subs := e.subs
	e.mu.RUnlock()
	for _, sub := range subs {
		sub.fn(s)
	}
	return nil
}

var (
	eventsOnce sync.Once
	events     *Emitter
)

// Events returns the process-wide Emitter. The first call registers it as
// the consumer of the default Monitor, replacing anything installed with
// AfterGC; later AfterGC calls replace it in turn.
func Events() *Emitter {
	eventsOnce.Do(func() {
		events = NewEmitter()
		// An *Emitter is always a valid target.
		_ = AfterGC(events)
	})
	return events
}
