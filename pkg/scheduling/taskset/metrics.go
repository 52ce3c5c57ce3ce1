package taskset

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/muxflow/pkg/metrics"
)

// MetricsSet wraps a Set with Prometheus metrics collection.
type MetricsSet[R any] struct {
	set      *Set[R]
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates an empty set with metrics enabled.
func NewWithMetrics[R any](name string) *MetricsSet[R] {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics[R](name, config)
}

// NewWithConfigAndMetrics creates an empty set with custom metrics config.
func NewWithConfigAndMetrics[R any](name string, metricsConfig metrics.Config) *MetricsSet[R] {
	ms := &MetricsSet[R]{
		set:  New[R](),
		name: name,
	}

	if !metricsConfig.Enabled {
		return ms
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	ms.registry = registry
	ms.enabled = true
	return ms
}

// Add registers fut with the set and returns its id.
func (ms *MetricsSet[R]) Add(fut Future[R]) (uint64, error) {
	id, err := ms.set.Add(fut)

	if ms.enabled && err == nil {
		ms.registry.TasksAdded.WithLabelValues(ms.name).Inc()
		ms.registry.TasksPending.WithLabelValues(ms.name).Set(float64(ms.set.Len()))
	}

	return id, err
}

// AddFunc registers fn as a future with the set.
func (ms *MetricsSet[R]) AddFunc(fn func(ctx context.Context) R) (uint64, error) {
	return ms.Add(FutureFunc[R](fn))
}

// PollNext returns the next resolved result.
func (ms *MetricsSet[R]) PollNext(ctx context.Context) (R, bool, error) {
	r, ok, err := ms.set.PollNext(ctx)

	if ms.enabled {
		if ok {
			ms.registry.TasksResolved.WithLabelValues(ms.name).Inc()
		}
		ms.registry.TasksPending.WithLabelValues(ms.name).Set(float64(ms.set.Len()))
	}

	return r, ok, err
}

// Detach removes the entry with the given id without delivering its result.
func (ms *MetricsSet[R]) Detach(id uint64) (Future[R], bool) {
	fut, ok := ms.set.Detach(id)

	if ms.enabled && ok {
		ms.registry.TasksDetached.WithLabelValues(ms.name).Inc()
		ms.registry.TasksPending.WithLabelValues(ms.name).Set(float64(ms.set.Len()))
	}

	return fut, ok
}

// Len returns the number of pending entries.
func (ms *MetricsSet[R]) Len() int {
	return ms.set.Len()
}

// IsEmpty returns true if the set has no pending entries.
func (ms *MetricsSet[R]) IsEmpty() bool {
	return ms.set.IsEmpty()
}

// Terminated returns true once PollNext has observed the empty set.
func (ms *MetricsSet[R]) Terminated() bool {
	return ms.set.Terminated()
}

// Each calls fn for each pending future.
func (ms *MetricsSet[R]) Each(fn func(id uint64, fut Future[R])) {
	ms.set.Each(fn)
}

// Close detaches all pending entries and marks the set terminated.
func (ms *MetricsSet[R]) Close() error {
	err := ms.set.Close()

	if ms.enabled {
		ms.registry.TasksPending.WithLabelValues(ms.name).Set(0)
	}

	return err
}
