package cycle

import "github.com/agbru/gcstats/internal/heap"

// GCType identifies which kind of collection ran. The zero value means the
// host did not say.
type GCType uint8

const (
	GCTypeUnknown GCType = iota
	// GCTypeFull is a complete blocking mark and sweep (runtime.GC).
	GCTypeFull
	// GCTypeScavenge is a full collection followed by returning free pages
	// to the operating system (debug.FreeOSMemory).
	GCTypeScavenge
)

// String returns the lowercase name of the collection kind.
func (t GCType) String() string {
	switch t {
	case GCTypeFull:
		return "full"
	case GCTypeScavenge:
		return "scavenge"
	default:
		return "unknown"
	}
}

// nanosPerMilli converts the nanosecond pause to whole milliseconds.
const nanosPerMilli = 1_000_000

// Report is the immutable result of one collection cycle.
type Report struct {
	Before heap.Snapshot
	After  heap.Snapshot
	Diff   heap.Diff

	// Pause is end minus start in nanoseconds.
	Pause uint64
	// PauseMS is Pause truncated to whole milliseconds.
	PauseMS uint64

	Type GCType

	// Seq is assigned by the delivery queue, starting at 1.
	Seq uint64
}

// NewReport assembles a Report from both snapshots and both timestamps.
// The clock is monotonic, so end >= start.
func NewReport(before, after heap.Snapshot, start, end uint64, t GCType) *Report {
	pause := end - start
	return &Report{
		Before:  before,
		After:   after,
		Diff:    heap.Sub(before, after),
		Pause:   pause,
		PauseMS: pause / nanosPerMilli,
		Type:    t,
	}
}
