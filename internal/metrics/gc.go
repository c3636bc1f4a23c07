package metrics

import (
	"github.com/agbru/gcstats"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gcstats"

// Heap field label values.
const (
	FieldTotal      = "total"
	FieldExecutable = "executable"
	FieldPhysical   = "physical"
	FieldUsed       = "used"
	FieldLimit      = "limit"
)

// pauseBuckets spans 50µs to about 3.3s.
var pauseBuckets = prometheus.ExponentialBuckets(0.00005, 4, 9)

// GCCollector is a gcstats consumer that turns every cycle into Prometheus
// samples.
type GCCollector struct {
	pause     *prometheus.HistogramVec
	cycles    *prometheus.CounterVec
	heap      *prometheus.GaugeVec
	delta     *prometheus.GaugeVec
	reclaimed prometheus.Counter
}

var _ gcstats.Consumer = (*GCCollector)(nil)

// NewGCCollector creates the collectors and registers them on reg.
func NewGCCollector(reg prometheus.Registerer) (*GCCollector, error) {
	c := &GCCollector{
		pause: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pause_seconds",
			Help:      "Duration of each observed collection cycle.",
			Buckets:   pauseBuckets,
		}, []string{"gctype"}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Collection cycles delivered to consumers.",
		}, []string{"gctype"}),
		heap: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heap_bytes",
			Help:      "Heap magnitudes right after the last cycle.",
		}, []string{"field"}),
		delta: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heap_delta_bytes",
			Help:      "Change of each heap magnitude across the last cycle.",
		}, []string{"field"}),
		reclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reclaimed_bytes_total",
			Help:      "Used heap bytes freed by observed cycles.",
		}),
	}
	for _, col := range []prometheus.Collector{c.pause, c.cycles, c.heap, c.delta, c.reclaimed} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// HandleGCStats records s.
func (c *GCCollector) HandleGCStats(s gcstats.Stats) error {
	kind := s.GCType.String()
	c.pause.WithLabelValues(kind).Observe(float64(s.Pause) / 1e9)
	c.cycles.WithLabelValues(kind).Inc()

	c.heap.WithLabelValues(FieldTotal).Set(float64(s.After.TotalHeapSize))
	c.heap.WithLabelValues(FieldExecutable).Set(float64(s.After.TotalHeapExecutableSize))
	c.heap.WithLabelValues(FieldUsed).Set(float64(s.After.UsedHeapSize))
	c.heap.WithLabelValues(FieldLimit).Set(float64(s.After.HeapSizeLimit))

	c.delta.WithLabelValues(FieldTotal).Set(float64(s.Diff.TotalHeapSize))
	c.delta.WithLabelValues(FieldExecutable).Set(float64(s.Diff.TotalHeapExecutableSize))
	c.delta.WithLabelValues(FieldUsed).Set(float64(s.Diff.UsedHeapSize))
	c.delta.WithLabelValues(FieldLimit).Set(float64(s.Diff.HeapSizeLimit))

	if s.Diff.TotalPhysicalSize != nil {
		c.heap.WithLabelValues(FieldPhysical).Set(float64(*s.After.TotalPhysicalSize))
		c.delta.WithLabelValues(FieldPhysical).Set(float64(*s.Diff.TotalPhysicalSize))
	}

	if s.Diff.UsedHeapSize < 0 {
		c.reclaimed.Add(float64(-s.Diff.UsedHeapSize))
	}
	return nil
}
