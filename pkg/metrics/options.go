package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option customizes a Manager built by NewManager. Empty values keep the
// defaults.
type Option func(*Manager)

// WithNamespace replaces the "animalrace" metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithSubsystem replaces the "game" subsystem.
func WithSubsystem(sub string) Option {
	return func(m *Manager) {
		if sub != "" {
			m.subsystem = sub
		}
	}
}

// WithMetricPrefix prepends prefix_ to every collector name.
func WithMetricPrefix(prefix string) Option {
	return func(m *Manager) {
		if prefix != "" {
			m.metricPrefix = prefix
		}
	}
}

// WithHistogramBuckets overrides the default latency buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithCustomLabels adds constant labels such as env or region.
func WithCustomLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if labels != nil {
			m.customLabels = labels
		}
	}
}

// WithMetricsEnabled starts the manager with recording on or off.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) { m.enabled.Store(enabled) }
}

// WithRefreshInterval sets how often polled gauges (store shards) refresh.
func WithRefreshInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.refreshInterval = d
		}
	}
}

// WithPrometheusRegistry registers collectors on r instead of the default
// registerer.
func WithPrometheusRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}
