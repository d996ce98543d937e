// Package observability provides Prometheus instrumentation for engine
// round trips, exposed to the facade through domain.LifecycleHooks.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/macrokit/maestro/pkg/domain"
)

// Metrics records per-operation counters and latencies.
type Metrics struct {
	commands *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the bridge metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maestro_engine_commands_total",
				Help: "Total number of commands submitted to the engine",
			},
			[]string{"op"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maestro_engine_failures_total",
				Help: "Total number of failed engine commands",
			},
			[]string{"op"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "maestro_engine_command_duration_seconds",
				Help: "Duration of engine command round trips",
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.commands, m.failures, m.duration)
	return m
}

// Hooks returns lifecycle hooks that feed these metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			m.commands.WithLabelValues(e.Op).Inc()
		},
		OnResult: func(ctx context.Context, e *domain.ResultEvent) {
			m.duration.WithLabelValues(e.Op).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.failures.WithLabelValues(e.Op).Inc()
			}
		},
	}
}
