/*
Package merge combines an unbounded, dynamic set of streams into a single stream.

The merge package implements a fan-in primitive for stream.Stream values: any
number of member streams are registered with a Merged, and their items are
delivered to one consumer in whatever order the members produce them. Members
can be added and removed at any time, including while the consumer is blocked
waiting for the next item.

Core Features:

Merging solves the common problem of consuming many independent sources
(subscriptions, queues, timers, generators) through a single loop without
writing a bespoke select statement or spawning a forwarding goroutine per
source by hand.

Key Components:
  - Merged: the dynamic merge, itself a stream.Stream
  - Merge/New: construct a merge from initial members or empty
  - Push/Extend: add members at any point in the merge's life
  - Members/Streams: inspect pending members or dismantle the merge
  - MetricsMerged: Prometheus-instrumented wrapper

Basic Usage:

	a := stream.FromSlice([]int{1, 2, 3})
	b := stream.FromSlice([]int{10, 20})

	m := merge.Merge(a, b)
	defer m.Close()

	for {
		v, ok, err := m.Next(ctx)
		if err != nil {
			log.Printf("member failed: %v", err)
			continue
		}
		if !ok {
			break // every member has ended
		}
		process(v)
	}

Dynamic Membership:

Members may be pushed from other goroutines while Next is blocked; the new
member starts contributing items on the next poll. An empty merge reports
end-of-stream, but pushing a member revives it, so a merge can be constructed
empty and populated later:

	m := merge.New[Event]()
	go func() {
		for conn := range accepted {
			m.Push(streamFor(conn))
		}
	}()

Ordering Semantics:

Items from different members are interleaved in completion order with no
cross-member guarantees. Items from the same member are always delivered in
that member's own order: a member is polled for at most one item at a time
and is re-registered only after its previous item was delivered.

Member Lifecycle:

A member that ends is removed and closed silently; the consumer only observes
end-of-stream once all members have ended. A member whose Next call fails is
removed and closed, and the failure is returned from Merged.Next exactly
once; the merge remains usable for the surviving members.

Metrics Integration:

	m := merge.NewWithMetrics[int]("ingest")
	m.Extend(sources...)

The wrapper tracks items merged, members added/ended/failed, active member
count, and Next wait time. See the metrics package for the full catalog.

Performance Characteristics:
  - One goroutine per pending member head, started lazily on first poll
  - Ready items are handed to the consumer in FIFO resolution order
  - Push, Len and member accessors take a single short mutex hold

The merge is single-consumer: Next must not be called concurrently with
itself. All other methods are safe for concurrent use.
*/
package merge
