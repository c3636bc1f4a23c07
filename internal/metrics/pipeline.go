package metrics

import (
	"github.com/agbru/gcstats"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterPipeline exposes a Monitor's delivery counters. diag is called on
// every scrape.
func RegisterPipeline(reg prometheus.Registerer, diag func() gcstats.Diagnostics) error {
	counter := func(name, help string, read func(gcstats.Diagnostics) uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(read(diag())) })
	}
	collectors := []prometheus.Collector{
		counter("reports_submitted_total", "Cycle reports handed to the delivery queue.",
			func(d gcstats.Diagnostics) uint64 { return d.Submitted }),
		counter("reports_delivered_total", "Cycle reports passed to the consumer.",
			func(d gcstats.Diagnostics) uint64 { return d.Delivered }),
		counter("cycle_overwrites_total", "Cycle starts seen while another cycle was open.",
			func(d gcstats.Diagnostics) uint64 { return d.Overwrites }),
		counter("cycle_orphans_total", "Cycle ends seen with no open cycle.",
			func(d gcstats.Diagnostics) uint64 { return d.Orphans }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reports_pending",
			Help:      "Cycle reports waiting for delivery.",
		}, func() float64 { return float64(diag().Pending) }),
	}
	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}
