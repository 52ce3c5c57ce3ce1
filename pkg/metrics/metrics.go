// Package metrics provides Prometheus instrumentation for muxflow components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for muxflow components.
type Registry struct {
	// Merge Metrics
	MergeItems         *prometheus.CounterVec
	MergeMembersAdded  *prometheus.CounterVec
	MergeMembersEnded  *prometheus.CounterVec
	MergeMemberErrors  *prometheus.CounterVec
	MergeMembersActive *prometheus.GaugeVec
	MergeNextWaitTime  *prometheus.HistogramVec

	// Task Set Metrics
	TasksAdded    *prometheus.CounterVec
	TasksResolved *prometheus.CounterVec
	TasksDetached *prometheus.CounterVec
	TasksPending  *prometheus.GaugeVec
}

// DefaultRegistry is the default metrics registry used by muxflow components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Merge Metrics
		MergeItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "muxflow",
				Subsystem: "merge",
				Name:      "items_total",
				Help:      "Total number of items yielded by the merged stream",
			},
			[]string{"merge_name"},
		),

		MergeMembersAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "muxflow",
				Subsystem: "merge",
				Name:      "members_added_total",
				Help:      "Total number of member streams pushed into the merge",
			},
			[]string{"merge_name"},
		),

		MergeMembersEnded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "muxflow",
				Subsystem: "merge",
				Name:      "members_ended_total",
				Help:      "Total number of member streams that ran to exhaustion",
			},
			[]string{"merge_name"},
		),

		MergeMemberErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "muxflow",
				Subsystem: "merge",
				Name:      "member_errors_total",
				Help:      "Total number of member streams removed after a failure",
			},
			[]string{"merge_name"},
		),

		MergeMembersActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "muxflow",
				Subsystem: "merge",
				Name:      "members_active",
				Help:      "Number of member streams currently registered",
			},
			[]string{"merge_name"},
		),

		MergeNextWaitTime: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "muxflow",
				Subsystem: "merge",
				Name:      "next_wait_duration_seconds",
				Help:      "Time spent waiting in Next for an item to become ready",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"merge_name"},
		),

		// Task Set Metrics
		TasksAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "muxflow",
				Subsystem: "taskset",
				Name:      "tasks_added_total",
				Help:      "Total number of futures added to the set",
			},
			[]string{"set_name"},
		),

		TasksResolved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "muxflow",
				Subsystem: "taskset",
				Name:      "tasks_resolved_total",
				Help:      "Total number of futures that resolved and were delivered",
			},
			[]string{"set_name"},
		),

		TasksDetached: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "muxflow",
				Subsystem: "taskset",
				Name:      "tasks_detached_total",
				Help:      "Total number of futures detached before resolving",
			},
			[]string{"set_name"},
		),

		TasksPending: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "muxflow",
				Subsystem: "taskset",
				Name:      "tasks_pending",
				Help:      "Number of futures currently pending in the set",
			},
			[]string{"set_name"},
		),
	}
}
