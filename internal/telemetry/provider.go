// Package telemetry records gcstats cycles through OpenTelemetry instruments
// and exports them on a Prometheus registry.
package telemetry

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// ScopeName is the instrumentation scope of every gcstats instrument.
const ScopeName = "github.com/agbru/gcstats"

// Provider is a MeterProvider whose reader is a Prometheus exporter.
type Provider struct {
	mp *sdkmetric.MeterProvider
}

// NewProvider registers an exporter on reg and attaches it to a new
// MeterProvider.
func NewProvider(reg prometheus.Registerer) (*Provider, error) {
	exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	return &Provider{mp: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))}, nil
}

// Meter returns the gcstats meter.
func (p *Provider) Meter() metric.Meter {
	return p.mp.Meter(ScopeName)
}

// Shutdown flushes and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.mp.Shutdown(ctx)
}
