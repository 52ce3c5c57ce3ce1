/*
Package taskset provides an unordered, dynamically growable set of one-shot
asynchronous tasks drained in completion order.

A Set tracks pending futures keyed by an internal identity. Futures are
registered with Add without being run; the next PollNext starts anything
idle and then waits for the first resolution, so a set never does work
unless someone is consuming it. Results are delivered one per poll, in
whatever order the futures finish.

Basic usage:

	set := taskset.New[int]()
	defer set.Close()

	for _, job := range jobs {
		set.AddFunc(func(ctx context.Context) int {
			return job.Run(ctx)
		})
	}

	for {
		result, ok, err := set.PollNext(ctx)
		if err != nil || !ok {
			break
		}
		handle(result)
	}

PollNext reports ok=false once the set is empty; after that the set is
Terminated until new futures are added. More futures can be added at any
time, including from another goroutine while a poll is blocked.

Individual entries can be inspected with Each and removed with Detach,
which cancels the entry's context and hands the future back to the caller.

The package is the scheduling primitive underneath pkg/streaming/merge,
which registers one head-of-stream future per merged member.
*/
package taskset
