// Package gcstats reports, for every garbage collection cycle, the pause
// duration and the change in heap occupancy, delivered asynchronously to a
// registered consumer.
//
//	err := gcstats.AfterGC(func(s gcstats.Stats) {
//		log.Printf("gc %s: paused %dms, used %+d bytes", s.GCType, s.PauseMS, s.Diff.UsedHeapSize)
//	})
//
// Collection hooks only capture plain values. Stats are built and the
// consumer is called later, on the host's event loop, in cycle order.
package gcstats

import (
	"github.com/agbru/gcstats/internal/cycle"
	"github.com/agbru/gcstats/internal/heap"
)

// GCType identifies which kind of collection ran.
type GCType = cycle.GCType

// Collection kinds raised by the Go runtime host.
const (
	GCTypeUnknown  = cycle.GCTypeUnknown
	GCTypeFull     = cycle.GCTypeFull
	GCTypeScavenge = cycle.GCTypeScavenge
)

// HeapInfo is one heap snapshot as seen by consumers.
type HeapInfo struct {
	TotalHeapSize           uint64  `json:"totalHeapSize"`
	TotalHeapExecutableSize uint64  `json:"totalHeapExecutableSize"`
	TotalPhysicalSize       *uint64 `json:"totalPhysicalSize,omitempty"`
	UsedHeapSize            uint64  `json:"usedHeapSize"`
	HeapSizeLimit           uint64  `json:"heapSizeLimit"`
}

// HeapDiff is after minus before for every HeapInfo field.
type HeapDiff struct {
	TotalHeapSize           int64  `json:"totalHeapSize"`
	TotalHeapExecutableSize int64  `json:"totalHeapExecutableSize"`
	TotalPhysicalSize       *int64 `json:"totalPhysicalSize,omitempty"`
	UsedHeapSize            int64  `json:"usedHeapSize"`
	HeapSizeLimit           int64  `json:"heapSizeLimit"`
}

// Stats is the value passed to the consumer once per collection cycle.
// TotalPhysicalSize is set in Before, After and Diff together or in none.
type Stats struct {
	// Pause is the cycle duration in nanoseconds.
	Pause uint64 `json:"pause"`
	// PauseMS is Pause in whole milliseconds, truncated.
	PauseMS uint64 `json:"pauseMS"`
	// GCType is omitted when the host did not tag the cycle.
	GCType GCType   `json:"gctype,omitempty"`
	Before HeapInfo `json:"before"`
	After  HeapInfo `json:"after"`
	Diff   HeapDiff `json:"diff"`

	// Seq numbers reports in cycle order, starting at 1.
	Seq uint64 `json:"-"`
}

// newStats materialises a report into the consumer-facing value.
func newStats(r *cycle.Report) Stats {
	physical := r.Diff.HasPhysical
	s := Stats{
		Pause:   r.Pause,
		PauseMS: r.PauseMS,
		GCType:  r.Type,
		Before:  newHeapInfo(r.Before, physical),
		After:   newHeapInfo(r.After, physical),
		Diff: HeapDiff{
			TotalHeapSize:           r.Diff.TotalHeapSize,
			TotalHeapExecutableSize: r.Diff.TotalHeapExecutableSize,
			UsedHeapSize:            r.Diff.UsedHeapSize,
			HeapSizeLimit:           r.Diff.HeapSizeLimit,
		},
		Seq: r.Seq,
	}
	if physical {
		d := r.Diff.TotalPhysicalSize
		s.Diff.TotalPhysicalSize = &d
	}
	return s
}

func newHeapInfo(s heap.Snapshot, physical bool) HeapInfo {
	info := HeapInfo{
		TotalHeapSize:           s.TotalHeapSize,
		TotalHeapExecutableSize: s.TotalHeapExecutableSize,
		UsedHeapSize:            s.UsedHeapSize,
		HeapSizeLimit:           s.HeapSizeLimit,
	}
	if physical {
		p := s.TotalPhysicalSize
		info.TotalPhysicalSize = &p
	}
	return info
}
