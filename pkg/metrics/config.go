package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config selects where and whether a component reports its metrics. The
// zero value disables collection entirely, which is the default for plain
// constructors; the NewWith*Metrics constructors pass an enabled Config.
type Config struct {
	// Enabled turns collection on. When false the component runs with no
	// metrics overhead at all.
	Enabled bool

	// Registry receives the collectors. Leave nil to register on
	// prometheus.DefaultRegisterer, which is what promhttp exposes.
	Registry prometheus.Registerer

	// Namespace replaces the "muxflow" metric name prefix.
	Namespace string

	// Labels are attached to every collector the component creates.
	Labels prometheus.Labels
}

// DefaultConfig returns an enabled Config reporting to the global
// Prometheus registerer under the standard namespace.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: "muxflow",
	}
}

// Instrumentable is implemented by components whose metrics collection can
// be toggled after construction.
type Instrumentable interface {
	// EnableMetrics starts collection with the given configuration.
	EnableMetrics(config Config) error

	// DisableMetrics stops collection.
	DisableMetrics()

	// MetricsEnabled reports whether collection is currently active.
	MetricsEnabled() bool
}
