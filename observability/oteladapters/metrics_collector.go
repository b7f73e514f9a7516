// Package oteladapters plugs the notification core into OpenTelemetry: a
// patterns.MetricsCollector backed by an otel Meter and a slog logger bridged
// to the otel logs API.
package oteladapters

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/delaneyj/lazyquant/patterns"
)

// MetricsCollector maps counters to Int64Counter and values to Float64Gauge.
// Instruments are created on first use.
type MetricsCollector struct {
	meter    metric.Meter
	counters map[string]metric.Int64Counter
	gauges   map[string]metric.Float64Gauge
}

func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		meter:    meter,
		counters: make(map[string]metric.Int64Counter),
		gauges:   make(map[string]metric.Float64Gauge),
	}
}

func (m *MetricsCollector) IncrementCounter(metricName string, labels map[string]string) {
	counter := m.counter(metricName)
	if counter == nil {
		return
	}
	counter.Add(context.Background(), 1, metric.WithAttributes(attributes(labels)...))
}

func (m *MetricsCollector) RecordValue(metricName string, value float64, labels map[string]string) {
	gauge := m.gauge(metricName)
	if gauge == nil {
		return
	}
	gauge.Record(context.Background(), value, metric.WithAttributes(attributes(labels)...))
}

func attributes(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	return attrs
}

func (m *MetricsCollector) counter(name string) metric.Int64Counter {
	if c, ok := m.counters[name]; ok {
		return c
	}
	c, err := m.meter.Int64Counter(name, metric.WithDescription("lazyquant notification counter"))
	if err != nil {
		return nil
	}
	m.counters[name] = c
	return c
}

func (m *MetricsCollector) gauge(name string) metric.Float64Gauge {
	if g, ok := m.gauges[name]; ok {
		return g
	}
	g, err := m.meter.Float64Gauge(name, metric.WithDescription("lazyquant notification gauge"))
	if err != nil {
		return nil
	}
	m.gauges[name] = g
	return g
}

var _ patterns.MetricsCollector = (*MetricsCollector)(nil)

// NewLogger returns a slog logger whose records go to the OpenTelemetry logs
// API, through the global LoggerProvider unless an option overrides it.
func NewLogger(name string, opts ...otelslog.Option) *slog.Logger {
	return otelslog.NewLogger(name, opts...)
}
