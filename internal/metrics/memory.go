package metrics

import "runtime"

// RuntimeSnapshot holds the runtime-wide GC counters, including cycles the
// runtime started on its own.
type RuntimeSnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // completed GC cycles
	NumForcedGC  uint32 // cycles forced by runtime.GC and debug.FreeOSMemory
	PauseTotalNs uint64 // cumulative stop-the-world pause time
	HeapObjects  uint64 // allocated heap objects
}

// Background returns the cycles the runtime's pacer started by itself.
// gcstats never sees these.
func (s RuntimeSnapshot) Background() uint32 {
	if s.NumForcedGC > s.NumGC {
		return 0
	}
	return s.NumGC - s.NumForcedGC
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics. It stops the world briefly, so
// it must not be called from collection hooks.
func (mc *MemoryCollector) Snapshot() RuntimeSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeSnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		NumForcedGC:  m.NumForcedGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}
