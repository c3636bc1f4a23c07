package telemetry

import (
	"context"
	"fmt"

	"github.com/agbru/gcstats"
	"github.com/agbru/gcstats/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricHeapLive      = "gcstats.heap.live"
	metricHeapReclaimed = "gcstats.heap.reclaimed"
	metricRuntimeCycles = "gcstats.runtime.cycles"
	metricRuntimePause  = "gcstats.runtime.pause"

	attrGCType = "gctype"
	attrOrigin = "origin"

	originForced     = "forced"
	originBackground = "background"
)

// liveHeapBoundaries covers 1 MiB to 16 GiB in powers of four.
var liveHeapBoundaries = []float64{1 << 20, 4 << 20, 16 << 20, 64 << 20, 256 << 20, 1 << 30, 4 << 30, 16 << 30}

// RuntimeSampler reads runtime-wide GC counters.
type RuntimeSampler interface {
	Snapshot() metrics.RuntimeSnapshot
}

// Instruments is a gcstats consumer recording each cycle on OTel
// instruments, plus observable counters for the whole runtime so cycles
// gcstats does not see are still accounted for.
type Instruments struct {
	heapLive      metric.Int64Histogram
	heapReclaimed metric.Int64Counter
}

var _ gcstats.Consumer = (*Instruments)(nil)

// NewInstruments creates the instruments from mt. sampler feeds the
// runtime-wide counters; nil skips them.
func NewInstruments(mt metric.Meter, sampler RuntimeSampler) (*Instruments, error) {
	live, err := mt.Int64Histogram(metricHeapLive,
		metric.WithDescription("Used heap right after each observed cycle"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(liveHeapBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricHeapLive, err)
	}

	reclaimed, err := mt.Int64Counter(metricHeapReclaimed,
		metric.WithDescription("Used heap freed by observed cycles"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricHeapReclaimed, err)
	}

	if sampler != nil {
		if err := registerRuntime(mt, sampler); err != nil {
			return nil, err
		}
	}

	return &Instruments{heapLive: live, heapReclaimed: reclaimed}, nil
}

func registerRuntime(mt metric.Meter, sampler RuntimeSampler) error {
	cycles, err := mt.Int64ObservableCounter(metricRuntimeCycles,
		metric.WithDescription("Completed GC cycles of the whole runtime"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", metricRuntimeCycles, err)
	}
	pause, err := mt.Float64ObservableCounter(metricRuntimePause,
		metric.WithDescription("Cumulative stop-the-world pause of the whole runtime"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", metricRuntimePause, err)
	}

	forced := metric.WithAttributes(attribute.String(attrOrigin, originForced))
	background := metric.WithAttributes(attribute.String(attrOrigin, originBackground))
	_, err = mt.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		snap := sampler.Snapshot()
		obs.ObserveInt64(cycles, int64(snap.NumForcedGC), forced)
		obs.ObserveInt64(cycles, int64(snap.Background()), background)
		obs.ObserveFloat64(pause, float64(snap.PauseTotalNs)/1e9)
		return nil
	}, cycles, pause)
	if err != nil {
		return fmt.Errorf("register runtime callback: %w", err)
	}
	return nil
}

// HandleGCStats records s.
func (in *Instruments) HandleGCStats(s gcstats.Stats) error {
	if in == nil {
		return nil
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String(attrGCType, s.GCType.String()))
	in.heapLive.Record(ctx, int64(s.After.UsedHeapSize), attrs)
	if s.Diff.UsedHeapSize < 0 {
		in.heapReclaimed.Add(ctx, -s.Diff.UsedHeapSize, attrs)
	}
	return nil
}
