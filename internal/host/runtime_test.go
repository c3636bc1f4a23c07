package host

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/gcstats/internal/cycle"
	"github.com/agbru/gcstats/internal/heap"
)

func TestGoRuntime_CollectRaisesHooksAroundCollection(t *testing.T) {
	t.Parallel()
	rt := NewGoRuntime()

	var events []string
	rt.AddPrologue(func() { events = append(events, "before") })
	rt.AddEpilogue(func(gt cycle.GCType) { events = append(events, "after:"+gt.String()) })

	rt.Collect(cycle.GCTypeFull)
	rt.Collect(cycle.GCTypeScavenge)
	rt.Collect(cycle.GCTypeUnknown)

	assert.Equal(t, []string{
		"before", "after:full",
		"before", "after:scavenge",
		"before", "after:full",
	}, events)
	assert.Equal(t, uint64(3), rt.Collections())
}

func TestGoRuntime_HooksObserveHeapAndClock(t *testing.T) {
	t.Parallel()
	ticks := uint64(0)
	rt := NewGoRuntime(
		WithHeapSource(heap.SourceFunc(func(s *heap.Snapshot) { s.UsedHeapSize = 42 })),
		WithClock(cycle.ClockFunc(func() uint64 { ticks += 10; return ticks })),
	)

	var snap heap.Snapshot
	rt.HeapStatistics(&snap)
	assert.Equal(t, uint64(42), snap.UsedHeapSize)
	assert.Equal(t, uint64(10), rt.Nanotime())
	assert.Equal(t, uint64(20), rt.Nanotime())
}

func TestGoRuntime_DriveStopsAtLimit(t *testing.T) {
	t.Parallel()
	rt := NewGoRuntime()
	var kinds []cycle.GCType
	rt.AddEpilogue(func(gt cycle.GCType) { kinds = append(kinds, gt) })

	prepared := 0
	err := rt.Drive(context.Background(), time.Millisecond, 4, func(n uint64) cycle.GCType {
		if n%2 == 0 {
			return cycle.GCTypeFull
		}
		return cycle.GCTypeScavenge
	}, func() { prepared++ })

	require.NoError(t, err)
	assert.Equal(t, []cycle.GCType{cycle.GCTypeFull, cycle.GCTypeScavenge, cycle.GCTypeFull, cycle.GCTypeScavenge}, kinds)
	assert.Equal(t, 4, prepared)
}

func TestGoRuntime_DriveStopsOnCancel(t *testing.T) {
	t.Parallel()
	rt := NewGoRuntime()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rt.Drive(ctx, time.Hour, 0, func(uint64) cycle.GCType { return cycle.GCTypeFull }, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, rt.Collections())
}

func TestDefault_IsSingleton(t *testing.T) {
	t.Parallel()
	assert.Same(t, Default(), Default())
}

func TestMemStatsSource(t *testing.T) {
	t.Parallel()
	var s heap.Snapshot
	NewMemStatsSource().HeapStatistics(&s)

	assert.NotZero(t, s.TotalHeapSize)
	assert.NotZero(t, s.UsedHeapSize)
	assert.NotZero(t, s.HeapSizeLimit)
	assert.Zero(t, s.TotalHeapExecutableSize)
	assert.True(t, s.HasPhysical)
	assert.LessOrEqual(t, s.TotalPhysicalSize, s.TotalHeapSize)
}

func TestMonotonicClock_NeverGoesBackwards(t *testing.T) {
	t.Parallel()
	var clock MonotonicClock
	prev := clock.Nanotime()
	for range 1000 {
		now := clock.Nanotime()
		require.GreaterOrEqual(t, now, prev)
		prev = now
	}
}
