/*
Package muxflow provides dynamic stream multiplexing for Go: an unbounded,
runtime-growable set of pull-based streams merged into a single stream that
yields each item as soon as any member produces it.

Streaming (pkg/streaming):
  - stream: pull-based stream abstraction and sources (slices, channels,
    generators, cron schedules, Redis)
  - merge: the multiplexer that drives a set of streams to completion

Task Scheduling (pkg/scheduling):
  - taskset: unordered set of one-shot tasks drained in completion order,
    the scheduling primitive underneath merge

Example usage:

	import (
		"github.com/vnykmshr/muxflow/pkg/streaming/merge"
		"github.com/vnykmshr/muxflow/pkg/streaming/stream"
	)

	m := merge.Merge(
		stream.FromSlice([]int{1, 2, 3}),
		stream.FromChannel(events),
	)
	defer m.Close()

	for {
		item, ok, err := m.Next(ctx)
		if err != nil || !ok {
			break
		}
		process(item)
	}

Items from different members arrive in whatever order the members produce
them; items from a single member keep that member's order. More streams can
be pushed into the merge at any time, including while it is being consumed.
*/
package muxflow
