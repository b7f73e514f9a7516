package patterns

import "log/slog"

// Logger is satisfied by *slog.Logger and by any structured logger with the
// same four methods.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector receives counters and values about notification traffic.
type MetricsCollector interface {
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

const (
	MetricNotifications  = "lazyquant_notifications_total"
	MetricUpdateFailures = "lazyquant_update_failures_total"
	MetricRecalculations = "lazyquant_recalculations_total"
	MetricFlushSize      = "lazyquant_deferred_flush_size"
)

var (
	labelsImmediate = map[string]string{"mode": "immediate"}
	labelsDeferred  = map[string]string{"mode": "deferred"}
	labelsDropped   = map[string]string{"mode": "dropped"}
	labelsOK        = map[string]string{"result": "ok"}
	labelsError     = map[string]string{"result": "error"}
)

type noopMetrics struct{}

func (noopMetrics) IncrementCounter(string, map[string]string) {}
func (noopMetrics) RecordValue(string, float64, map[string]string) {}

var _ Logger = (*slog.Logger)(nil)
