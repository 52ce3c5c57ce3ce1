// Package metrics provides Prometheus instrumentation for muxflow components.
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	// Merge with metrics
//	m := merge.NewWithMetrics[int]("event_fanin")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	m := merge.NewWithConfigAndMetrics[int]("event_fanin", config)
//
// # Available Metrics
//
// ## Merge Metrics
//
//   - muxflow_merge_items_total: Total number of items yielded by the merged stream
//   - muxflow_merge_members_added_total: Total number of member streams pushed into the merge
//   - muxflow_merge_members_ended_total: Total number of member streams that ran to exhaustion
//   - muxflow_merge_member_errors_total: Total number of member streams removed after a failure
//   - muxflow_merge_members_active: Number of member streams currently registered
//   - muxflow_merge_next_wait_duration_seconds: Time spent waiting in Next for an item
//
// ## Task Set Metrics
//
//   - muxflow_taskset_tasks_added_total: Total number of futures added to the set
//   - muxflow_taskset_tasks_resolved_total: Total number of futures delivered
//   - muxflow_taskset_tasks_detached_total: Total number of futures detached before resolving
//   - muxflow_taskset_tasks_pending: Number of futures currently pending
//
// # Labels
//
// Metrics include relevant labels for filtering and aggregation:
//
//   - merge_name: User-provided name for the merge instance
//   - set_name: User-provided name for the task set instance
package metrics
