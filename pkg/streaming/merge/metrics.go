package merge

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/muxflow/pkg/metrics"
	"github.com/vnykmshr/muxflow/pkg/streaming/stream"
)

// MetricsMerged wraps a Merged with Prometheus metrics collection.
type MetricsMerged[T any] struct {
	merged   *Merged[T]
	name     string
	registry *metrics.Registry
	enabled  bool
}

var _ stream.Stream[int] = (*MetricsMerged[int])(nil)

// NewWithMetrics creates an empty merge with metrics enabled.
func NewWithMetrics[T any](name string) *MetricsMerged[T] {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics[T](name, config)
}

// NewWithConfigAndMetrics creates an empty merge with custom metrics config.
func NewWithConfigAndMetrics[T any](name string, metricsConfig metrics.Config) *MetricsMerged[T] {
	mm := &MetricsMerged[T]{
		merged: New[T](),
		name:   name,
	}

	if !metricsConfig.Enabled {
		return mm
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	mm.registry = registry
	mm.enabled = true
	return mm
}

// Push adds a member stream to the merge.
func (mm *MetricsMerged[T]) Push(st stream.Stream[T]) {
	mm.merged.Push(st)

	if mm.enabled {
		mm.registry.MergeMembersAdded.WithLabelValues(mm.name).Inc()
		mm.registry.MergeMembersActive.WithLabelValues(mm.name).Set(float64(mm.merged.Len()))
	}
}

// Extend pushes every given stream.
func (mm *MetricsMerged[T]) Extend(streams ...stream.Stream[T]) {
	for _, st := range streams {
		mm.Push(st)
	}
}

// Next returns the next item produced by any member.
func (mm *MetricsMerged[T]) Next(ctx context.Context) (T, bool, error) {
	if !mm.enabled {
		return mm.merged.Next(ctx)
	}

	before := mm.merged.Stats()
	start := time.Now()

	item, ok, err := mm.merged.Next(ctx)

	duration := time.Since(start)
	mm.registry.MergeNextWaitTime.WithLabelValues(mm.name).Observe(duration.Seconds())

	after := mm.merged.Stats()
	if ok {
		mm.registry.MergeItems.WithLabelValues(mm.name).Inc()
	}
	if d := after.MembersEnded - before.MembersEnded; d > 0 {
		mm.registry.MergeMembersEnded.WithLabelValues(mm.name).Add(float64(d))
	}
	if d := after.MemberErrors - before.MemberErrors; d > 0 {
		mm.registry.MergeMemberErrors.WithLabelValues(mm.name).Add(float64(d))
	}
	mm.registry.MergeMembersActive.WithLabelValues(mm.name).Set(float64(mm.merged.Len()))

	return item, ok, err
}

// Len returns the number of member streams currently registered.
func (mm *MetricsMerged[T]) Len() int {
	return mm.merged.Len()
}

// IsEmpty returns true if no member streams are registered.
func (mm *MetricsMerged[T]) IsEmpty() bool {
	return mm.merged.IsEmpty()
}

// Terminated returns true once Next has reported end-of-stream.
func (mm *MetricsMerged[T]) Terminated() bool {
	return mm.merged.Terminated()
}

// Stats returns a snapshot of the merge counters.
func (mm *MetricsMerged[T]) Stats() Stats {
	return mm.merged.Stats()
}

// Close drops every member stream and marks the merge terminated.
func (mm *MetricsMerged[T]) Close() error {
	err := mm.merged.Close()

	if mm.enabled {
		mm.registry.MergeMembersActive.WithLabelValues(mm.name).Set(0)
	}

	return err
}
