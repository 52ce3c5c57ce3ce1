/*
Package stream provides a pull-based stream abstraction for sequences of
data in Go.

A Stream yields one item per Next call and reports exhaustion with a false
second return value. All blocking calls are context-aware, and exhaustion
is stable: once a stream has ended it stays ended.

Stream Creation:

	// From slice
	s := stream.FromSlice([]string{"a", "b", "c"})

	// From channel
	ch := make(chan int, 3)
	ch <- 1; ch <- 2; ch <- 3; close(ch)
	s := stream.FromChannel(ch)

	// From generator function (infinite; bound with Take)
	counter := 0
	s := stream.Take(stream.Generate(func() int {
		counter++
		return counter
	}), 10)

	// Empty stream
	s := stream.Empty[int]()

	// Cron schedule ticks
	s, err := stream.Schedule("@every 30s")

	// Redis-backed streams
	s := stream.FromRedisPubSub(client, "events")
	s := stream.FromRedisList(client, "jobs")

Consuming:

	items, err := stream.Collect(ctx, s)

	err := stream.ForEach(ctx, s, func(v int) {
		fmt.Println(v)
	})

	n, err := stream.Count(ctx, s)

Or drive Next directly:

	for {
		v, ok, err := s.Next(ctx)
		if err != nil || !ok {
			break
		}
		process(v)
	}

Error Handling:

Next returns the context error when ctx is canceled mid-wait; the stream
itself stays usable and a later Next call resumes where it left off.
Resource-backed sources report their failures through Next as an
OperationError from pkg/common/errors.

Resource Management:

Streams should be closed to release resources:

	s := stream.FromRedisPubSub(client, "events")
	defer s.Close()

Thread Safety:

Individual streams are single-consumer: Next must not be called from
multiple goroutines at once. To fan multiple streams into one consumer,
use pkg/streaming/merge.
*/
package stream
