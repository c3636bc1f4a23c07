package host

import (
	"runtime"
	"runtime/debug"

	"github.com/agbru/gcstats/internal/heap"
)

// MemStatsSource reads heap statistics from runtime.ReadMemStats.
//
// Field mapping:
//   - TotalHeapSize: HeapSys, bytes of heap address space obtained from the OS
//   - TotalHeapExecutableSize: always 0, Go has no executable heap space
//   - TotalPhysicalSize: HeapSys - HeapReleased, heap memory still resident
//   - UsedHeapSize: HeapAlloc, bytes of allocated heap objects
//   - HeapSizeLimit: the soft memory limit (math.MaxInt64 when unset)
type MemStatsSource struct{}

// NewMemStatsSource creates a new heap source.
func NewMemStatsSource() *MemStatsSource {
	return &MemStatsSource{}
}

// HeapStatistics fills s with current statistics.
func (MemStatsSource) HeapStatistics(s *heap.Snapshot) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	*s = heap.Snapshot{
		TotalHeapSize:           m.HeapSys,
		TotalHeapExecutableSize: 0,
		TotalPhysicalSize:       m.HeapSys - m.HeapReleased,
		UsedHeapSize:            m.HeapAlloc,
		HeapSizeLimit:           memoryLimit(),
		HasPhysical:             true,
	}
}

// memoryLimit returns the current soft limit; a negative argument only reads it.
func memoryLimit() uint64 {
	limit := debug.SetMemoryLimit(-1)
	if limit < 0 {
		return 0
	}
	return uint64(limit)
}
