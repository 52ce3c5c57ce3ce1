package merge

import (
	"context"
	"sync/atomic"

	"github.com/vnykmshr/muxflow/pkg/scheduling/taskset"
	"github.com/vnykmshr/muxflow/pkg/streaming/stream"
)

// Merged is an unbounded set of streams consumed as a single stream.
//
// Member streams are pushed into the set and their items are yielded as
// they become ready. A member is polled only through the set: for each
// member exactly one head-of-stream future is registered at a time, and a
// member whose future resolves with an item is immediately re-registered
// with a fresh one. Members that end are dropped silently.
//
// Merged itself satisfies stream.Stream, so merges compose: a Merged can
// be pushed into another Merged.
//
// Merged is single-consumer: Next must not be called concurrently. Push,
// Extend, Len and the member accessors may be called from any goroutine,
// including while Next is blocked.
type Merged[T any] struct {
	set *taskset.Set[headResult[T]]

	closed       int32
	itemsMerged  int64
	membersAdded int64
	membersEnded int64
	memberErrors int64
}

var _ stream.Stream[int] = (*Merged[int])(nil)

// headResult is the resolution of one head-of-stream future: the next item
// (if any) plus the stream it was consumed from.
type headResult[T any] struct {
	item T
	ok   bool
	err  error
	rest stream.Stream[T]
}

// streamFuture waits for one member's next item.
type streamFuture[T any] struct {
	st stream.Stream[T]
}

func (f *streamFuture[T]) Await(ctx context.Context) headResult[T] {
	item, ok, err := f.st.Next(ctx)
	return headResult[T]{item: item, ok: ok, err: err, rest: f.st}
}

// New constructs an empty Merged. Polling it yields end-of-stream until
// members are pushed.
func New[T any]() *Merged[T] {
	return &Merged[T]{set: taskset.New[headResult[T]]()}
}

// Merge bundles the given streams into a single Merged stream. Items are
// yielded in whatever order the members produce them; each member's own
// order is preserved. More streams can be pushed later.
func Merge[T any](streams ...stream.Stream[T]) *Merged[T] {
	m := New[T]()
	m.Extend(streams...)
	return m
}

// Push adds a member stream to the set. The member is not polled by Push
// itself; it starts making progress once the Merged is next polled. Pushing
// into a closed Merged closes the stream immediately instead.
func (m *Merged[T]) Push(st stream.Stream[T]) {
	if !m.register(st) {
		return
	}
	atomic.AddInt64(&m.membersAdded, 1)
}

// Extend pushes every given stream. Safe to call at any time, including
// while a consumer is blocked in Next.
func (m *Merged[T]) Extend(streams ...stream.Stream[T]) {
	for _, st := range streams {
		m.Push(st)
	}
}

// Len returns the number of member streams currently registered.
func (m *Merged[T]) Len() int {
	return m.set.Len()
}

// IsEmpty returns true if no member streams are registered.
func (m *Merged[T]) IsEmpty() bool {
	return m.set.IsEmpty()
}

// Terminated returns true once Next has reported end-of-stream. Pushing a
// new member makes the Merged live again.
func (m *Merged[T]) Terminated() bool {
	return m.set.Terminated()
}

// Next returns the next item produced by any member. It blocks until some
// member yields, every member has ended, or ctx is canceled.
//
// When a member ends it is absorbed here without surfacing to the caller;
// Next keeps draining resolutions until it has a real item or the set is
// empty. End-of-stream (ok=false with nil error) is stable across repeated
// calls. A member that fails has its error returned once and is removed;
// Next remains usable for the surviving members.
func (m *Merged[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		r, ok, err := m.set.PollNext(ctx)
		if err != nil {
			return zero, false, err
		}
		if !ok {
			// No members left.
			return zero, false, nil
		}
		if r.err != nil {
			atomic.AddInt64(&m.memberErrors, 1)
			_ = r.rest.Close()
			return zero, false, r.err
		}
		if r.ok {
			m.register(r.rest)
			atomic.AddInt64(&m.itemsMerged, 1)
			return r.item, true, nil
		}
		// The member ended. The set is not empty-terminal yet because it
		// just delivered this resolution, so keep polling rather than
		// reporting anything to the caller.
		atomic.AddInt64(&m.membersEnded, 1)
		_ = r.rest.Close()
	}
}

// Close drops every member stream, closing each one, and marks the Merged
// terminated. Close is idempotent.
func (m *Merged[T]) Close() error {
	if !atomic.CompareAndSwapInt32(&m.closed, 0, 1) {
		return nil
	}

	futs, undelivered := m.set.Drain()
	_ = m.set.Close()

	var firstErr error
	for _, fut := range futs {
		if sf, ok := fut.(*streamFuture[T]); ok {
			if err := sf.st.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	// A member whose head future resolved without being delivered lives
	// only in the undelivered results; close it too.
	for _, r := range undelivered {
		if err := r.rest.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Streams stops driving the set and hands back the member streams that had
// not yet ended. In-flight head futures are canceled; their members remain
// usable. An item that resolved without being delivered is dropped, but its
// member is still returned. The Merged is closed afterwards.
func (m *Merged[T]) Streams() []stream.Stream[T] {
	atomic.StoreInt32(&m.closed, 1)

	futs, undelivered := m.set.Drain()
	_ = m.set.Close()

	streams := make([]stream.Stream[T], 0, len(futs)+len(undelivered))
	for _, fut := range futs {
		if sf, ok := fut.(*streamFuture[T]); ok {
			streams = append(streams, sf.st)
		}
	}
	// A resolved-but-undelivered head still owns its member. Hand the
	// member back if it was alive; one that ended or failed is closed here.
	for _, r := range undelivered {
		if r.ok {
			streams = append(streams, r.rest)
		} else {
			_ = r.rest.Close()
		}
	}
	return streams
}

// Member is a handle to one stream pending inside a Merged.
type Member[T any] struct {
	id uint64
	m  *Merged[T]
	st stream.Stream[T]
}

// Stream returns the underlying member stream for inspection. The merge
// still owns it; calling Next on it bypasses the set's bookkeeping.
func (mb Member[T]) Stream() stream.Stream[T] {
	return mb.st
}

// Cancel removes the member from the merge and closes its stream. It
// returns false if the member already left the set (ended, failed, or was
// canceled before).
func (mb Member[T]) Cancel() bool {
	fut, ok := mb.m.set.Detach(mb.id)
	if !ok {
		return false
	}
	if sf, ok := fut.(*streamFuture[T]); ok {
		_ = sf.st.Close()
	}
	return true
}

// Members returns handles to all currently pending member streams. The
// snapshot is immediately stale: members may end or be re-registered at any
// time while the merge is being driven.
func (m *Merged[T]) Members() []Member[T] {
	var out []Member[T]
	m.set.Each(func(id uint64, fut taskset.Future[headResult[T]]) {
		if sf, ok := fut.(*streamFuture[T]); ok {
			out = append(out, Member[T]{id: id, m: m, st: sf.st})
		}
	})
	return out
}

// Stats holds counters describing the life of a Merged.
type Stats struct {
	// ItemsMerged is the total number of items yielded by Next.
	ItemsMerged int64

	// MembersAdded is the total number of streams pushed via Push or Extend.
	MembersAdded int64

	// MembersEnded is the total number of members that ran to exhaustion.
	MembersEnded int64

	// MemberErrors is the total number of members removed after a failure.
	MemberErrors int64
}

// Stats returns a snapshot of the merge counters.
func (m *Merged[T]) Stats() Stats {
	return Stats{
		ItemsMerged:  atomic.LoadInt64(&m.itemsMerged),
		MembersAdded: atomic.LoadInt64(&m.membersAdded),
		MembersEnded: atomic.LoadInt64(&m.membersEnded),
		MemberErrors: atomic.LoadInt64(&m.memberErrors),
	}
}

// register wraps st into a head future and adds it to the set. Returns
// false if the set is closed, in which case st is closed.
func (m *Merged[T]) register(st stream.Stream[T]) bool {
	if _, err := m.set.Add(&streamFuture[T]{st: st}); err != nil {
		_ = st.Close()
		return false
	}
	return true
}
