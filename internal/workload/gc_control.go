package workload

import (
	"math"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// GCController applies a GOGC value and a soft memory limit for the length
// of a session and restores the previous settings afterwards.
type GCController struct {
	gcPercent   int
	memoryLimit int64

	origGCPercent   int
	origMemoryLimit int64
	active          bool

	logger     zerolog.Logger
	startStats runtime.MemStats
	endStats   runtime.MemStats
}

// SessionStats is the runtime-wide activity between Begin and End.
type SessionStats struct {
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	NumForcedGC  uint32
	PauseTotalNs uint64
}

// NewGCController returns a controller that sets gcPercent (0 leaves GOGC
// alone, negative turns the pacer off) and memoryLimit in bytes (0 leaves
// the limit alone).
func NewGCController(gcPercent int, memoryLimit int64) *GCController {
	return &GCController{gcPercent: gcPercent, memoryLimit: memoryLimit, logger: zerolog.Nop()}
}

// SetLogger configures the logger for GC control events.
func (gc *GCController) SetLogger(l zerolog.Logger) {
	gc.logger = l
}

// Begin applies the session settings.
func (gc *GCController) Begin() {
	runtime.ReadMemStats(&gc.startStats)
	gc.origGCPercent = debug.SetGCPercent(-1)
	debug.SetGCPercent(gc.origGCPercent)
	gc.origMemoryLimit = debug.SetMemoryLimit(-1)
	gc.active = true

	if gc.gcPercent != 0 {
		debug.SetGCPercent(gc.gcPercent)
	}
	if gc.memoryLimit > 0 {
		debug.SetMemoryLimit(gc.memoryLimit)
	}
	gc.logger.Debug().
		Int("gc_percent", gc.gcPercent).
		Int64("memory_limit_bytes", gc.memoryLimit).
		Uint64("heap_alloc_bytes", gc.startStats.HeapAlloc).
		Msg("gc settings applied")
}

// End restores the settings found by Begin. It is a no-op without Begin.
func (gc *GCController) End() {
	if !gc.active {
		return
	}
	gc.active = false
	runtime.ReadMemStats(&gc.endStats)
	debug.SetGCPercent(gc.origGCPercent)
	debug.SetMemoryLimit(gc.origMemoryLimit)
	s := gc.Stats()
	gc.logger.Debug().
		Uint64("heap_alloc_bytes", s.HeapAlloc).
		Uint64("total_alloc_bytes", s.TotalAlloc).
		Uint32("gc_cycles", s.NumGC).
		Uint32("forced_cycles", s.NumForcedGC).
		Msg("gc settings restored")
}

// Stats returns runtime activity between Begin and End.
func (gc *GCController) Stats() SessionStats {
	return SessionStats{
		HeapAlloc:    gc.endStats.HeapAlloc,
		TotalAlloc:   gc.endStats.TotalAlloc - gc.startStats.TotalAlloc,
		NumGC:        gc.endStats.NumGC - gc.startStats.NumGC,
		NumForcedGC:  gc.endStats.NumForcedGC - gc.startStats.NumForcedGC,
		PauseTotalNs: gc.endStats.PauseTotalNs - gc.startStats.PauseTotalNs,
	}
}

// NoMemoryLimit is the runtime's "no limit" value.
const NoMemoryLimit int64 = math.MaxInt64
