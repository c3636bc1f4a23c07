// Package metrics exports gcstats reports as Prometheus collectors and
// samples runtime-wide memory counters.
package metrics
