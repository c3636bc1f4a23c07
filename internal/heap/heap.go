// Package heap defines the point-in-time heap snapshot captured around a
// collection cycle and the signed, field-wise difference between two of them.
package heap

// Snapshot is a fixed-shape record of heap magnitudes at one instant.
// It is a plain value: copied, never shared.
type Snapshot struct {
	TotalHeapSize           uint64
	TotalHeapExecutableSize uint64
	TotalPhysicalSize       uint64
	UsedHeapSize            uint64
	HeapSizeLimit           uint64

	// HasPhysical is false when the source cannot report TotalPhysicalSize.
	HasPhysical bool
}

// Diff holds after minus before for every Snapshot field. Values may be negative.
type Diff struct {
	TotalHeapSize           int64
	TotalHeapExecutableSize int64
	TotalPhysicalSize       int64
	UsedHeapSize            int64
	HeapSizeLimit           int64

	HasPhysical bool
}

// Source fills a snapshot in place. Implementations are called from
// collection hooks and must not block.
type Source interface {
	HeapStatistics(s *Snapshot)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(s *Snapshot)

// HeapStatistics calls f(s).
func (f SourceFunc) HeapStatistics(s *Snapshot) { f(s) }

// Sub returns after minus before, field by field.
//
// Each delta is the 64-bit two's complement difference, so a shrinking field
// yields a negative value instead of wrapping to a huge unsigned one. The
// result is exact whenever the true difference fits in an int64.
// TotalPhysicalSize is only compared when both snapshots carry it.
func Sub(before, after Snapshot) Diff {
	d := Diff{
		TotalHeapSize:           delta(before.TotalHeapSize, after.TotalHeapSize),
		TotalHeapExecutableSize: delta(before.TotalHeapExecutableSize, after.TotalHeapExecutableSize),
		UsedHeapSize:            delta(before.UsedHeapSize, after.UsedHeapSize),
		HeapSizeLimit:           delta(before.HeapSizeLimit, after.HeapSizeLimit),
		HasPhysical:             before.HasPhysical && after.HasPhysical,
	}
	if d.HasPhysical {
		d.TotalPhysicalSize = delta(before.TotalPhysicalSize, after.TotalPhysicalSize)
	}
	return d
}

func delta(before, after uint64) int64 {
	return int64(after - before)
}

// Reclaimed returns how many used bytes a cycle freed, or 0 if usage grew.
func (d Diff) Reclaimed() uint64 {
	if d.UsedHeapSize >= 0 {
		return 0
	}
	return uint64(-d.UsedHeapSize)
}
