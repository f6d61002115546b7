package metrics

import (
	"maps"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option adjusts a Manager before its collectors are built.
type Option func(*Manager)

// WithName sets the metric name prefix parts, giving
// <namespace>_<subsystem>_<metric>. An empty part keeps the default.
func WithName(namespace, subsystem string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithLatencyBuckets sets the bucket bounds, in milliseconds, of the request
// and store latency histograms. Bounds that are not strictly increasing are
// ignored.
func WithLatencyBuckets(bounds ...float64) Option {
	return func(m *Manager) {
		if len(bounds) == 0 {
			return
		}
		for i := 1; i < len(bounds); i++ {
			if bounds[i] <= bounds[i-1] {
				return
			}
		}
		m.histogramBuckets = slices.Clone(bounds)
	}
}

// WithRecording turns recording on or off. A disabled manager still registers
// its collectors, so /metrics keeps serving the same families.
func WithRecording(on bool) Option {
	return func(m *Manager) {
		m.enabled = on
	}
}

// WithPoolSampling sets how often the connection pool gauges are refreshed.
func WithPoolSampling(interval time.Duration) Option {
	return func(m *Manager) {
		if interval > 0 {
			m.refreshInterval = interval
		}
	}
}

// WithConstLabels adds labels carried by every metric. Repeated options merge;
// a later value wins for the same key.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		maps.Copy(m.customLabels, labels)
	}
}

// WithRegistry registers the collectors on reg instead of the default registerer.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}
