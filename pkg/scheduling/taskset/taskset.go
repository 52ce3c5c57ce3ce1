package taskset

import (
	"context"
	"sync"

	mxerrors "github.com/vnykmshr/muxflow/pkg/common/errors"
)

// Future is a one-shot asynchronous computation producing a value of type R.
// Await must honor ctx cancellation and return promptly with whatever value
// encodes the cancellation; it is called at most once per Future.
type Future[R any] interface {
	Await(ctx context.Context) R
}

// FutureFunc adapts an ordinary function to the Future interface.
type FutureFunc[R any] func(ctx context.Context) R

// Await implements Future.
func (f FutureFunc[R]) Await(ctx context.Context) R {
	return f(ctx)
}

type entryState int

const (
	stateIdle entryState = iota
	stateRunning
	stateDetached
)

type entry[R any] struct {
	id     uint64
	fut    Future[R]
	state  entryState
	cancel context.CancelFunc // set when the entry starts running
	done   chan struct{}      // closed when the running goroutine exits
}

// Set is an unordered, dynamically growable collection of pending futures,
// drained in completion order. Futures are registered with Add and start
// running only once the set is polled; PollNext delivers results as they
// resolve, with no ordering across entries.
//
// PollNext is single-consumer: only one goroutine may poll at a time.
// Add, Len, Each and Detach may be called from any goroutine, including
// while a poll is blocked.
type Set[R any] struct {
	mu         sync.Mutex
	entries    map[uint64]*entry[R]
	nextID     uint64
	ready      []R
	notEmpty   chan struct{} // capacity 1, wake signal for PollNext
	doneCh     chan struct{} // closed when the set is closed
	baseCtx    context.Context
	cancelBase context.CancelFunc
	terminated bool
	closed     bool
}

// New creates an empty Set.
func New[R any]() *Set[R] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Set[R]{
		entries:    make(map[uint64]*entry[R]),
		notEmpty:   make(chan struct{}, 1),
		doneCh:     make(chan struct{}),
		baseCtx:    ctx,
		cancelBase: cancel,
	}
}

// Add registers fut with the set and returns its id. The future is not run
// until the set is next polled. Adding to a set that has already reported
// empty makes it live again.
func (s *Set[R]) Add(fut Future[R]) (uint64, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, mxerrors.ErrClosed
	}
	id := s.nextID
	s.nextID++
	s.entries[id] = &entry[R]{id: id, fut: fut, done: make(chan struct{})}
	s.terminated = false
	s.mu.Unlock()

	// Wake a blocked poll so the new entry starts running.
	s.signal()
	return id, nil
}

// AddFunc registers fn as a future with the set.
func (s *Set[R]) AddFunc(fn func(ctx context.Context) R) (uint64, error) {
	return s.Add(FutureFunc[R](fn))
}

// Len returns the number of pending entries. Resolved entries leave the set
// the moment they resolve, before their result is delivered.
func (s *Set[R]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// IsEmpty returns true if the set has no pending entries.
func (s *Set[R]) IsEmpty() bool {
	return s.Len() == 0
}

// Terminated returns true once PollNext has observed the empty set at least
// once. Add resets the flag.
func (s *Set[R]) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

// PollNext returns the next resolved result. When the set holds no pending
// entries and no undelivered results it returns ok=false; that outcome is
// stable until new futures are added. When entries are pending but none
// have resolved, PollNext blocks until one resolves, the set is closed, or
// ctx is canceled. Canceling ctx only abandons the wait; pending entries
// keep running and their results are delivered by a later poll.
func (s *Set[R]) PollNext(ctx context.Context) (R, bool, error) {
	var zero R
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return zero, false, nil
		}
		s.startIdleLocked()
		if len(s.ready) > 0 {
			r := s.ready[0]
			s.ready = s.ready[1:]
			s.maintainSignalLocked()
			s.mu.Unlock()
			return r, true, nil
		}
		if len(s.entries) == 0 {
			s.terminated = true
			s.mu.Unlock()
			return zero, false, nil
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, false, ctx.Err()
		case <-s.doneCh:
			return zero, false, nil
		case <-s.notEmpty:
			// Re-check; wake-ups may be spurious.
		}
	}
}

// Each calls fn for each pending future. The snapshot is taken under the
// lock; entries that resolve while fn runs may still be visited. fn must
// treat running futures as read-only.
func (s *Set[R]) Each(fn func(id uint64, fut Future[R])) {
	type pending struct {
		id  uint64
		fut Future[R]
	}

	s.mu.Lock()
	snapshot := make([]pending, 0, len(s.entries))
	for id, e := range s.entries {
		snapshot = append(snapshot, pending{id: id, fut: e.fut})
	}
	s.mu.Unlock()

	for _, p := range snapshot {
		fn(p.id, p.fut)
	}
}

// Detach removes the entry with the given id without delivering its result.
// A running future has its context canceled, and Detach waits for it to
// settle. The future is returned so the caller can reclaim whatever it
// wraps.
func (s *Set[R]) Detach(id uint64) (Future[R], bool) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	delete(s.entries, id)
	running := e.state == stateRunning
	e.state = stateDetached
	if running {
		e.cancel()
	}
	s.mu.Unlock()

	if running {
		<-e.done
	}

	// The set may have become empty; wake a blocked poll so it can report that.
	s.signal()
	return e.fut, true
}

// Drain detaches every pending entry and returns their futures, leaving the
// set empty. Results that resolved but were never delivered by PollNext are
// returned alongside, so no entry is lost in either form.
func (s *Set[R]) Drain() ([]Future[R], []R) {
	s.mu.Lock()
	ids := make([]uint64, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	futs := make([]Future[R], 0, len(ids))
	for _, id := range ids {
		if fut, ok := s.Detach(id); ok {
			futs = append(futs, fut)
		}
	}

	// Entries that settled between the snapshot and their Detach land in
	// the ready queue and are captured here.
	s.mu.Lock()
	results := s.ready
	s.ready = nil
	s.mu.Unlock()
	return futs, results
}

// Close detaches all pending entries, discards undelivered results and
// marks the set terminated. Add is rejected afterwards. Close is idempotent.
func (s *Set[R]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.doneCh)
	s.Drain()
	s.cancelBase()

	s.mu.Lock()
	s.terminated = true
	s.mu.Unlock()
	return nil
}

// startIdleLocked launches every idle entry. Futures start running only in
// response to a poll, so adding to the set never does work by itself.
// Must be called with the lock held.
func (s *Set[R]) startIdleLocked() {
	for _, e := range s.entries {
		if e.state != stateIdle {
			continue
		}
		e.state = stateRunning
		ctx, cancel := context.WithCancel(s.baseCtx)
		e.cancel = cancel
		go s.run(ctx, e)
	}
}

func (s *Set[R]) run(ctx context.Context, e *entry[R]) {
	defer close(e.done)
	defer e.cancel()

	r := e.fut.Await(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if e.state == stateDetached {
		// Detach already removed the entry; the result is discarded.
		return
	}
	delete(s.entries, e.id)
	s.ready = append(s.ready, r)
	s.maintainSignalLocked()
}

// maintainSignalLocked keeps a wake-up pending while undelivered results
// remain. Must be called with the lock held.
func (s *Set[R]) maintainSignalLocked() {
	if len(s.ready) > 0 {
		select {
		case s.notEmpty <- struct{}{}:
		default:
		}
	}
}

func (s *Set[R]) signal() {
	select {
	case s.notEmpty <- struct{}{}:
	default:
	}
}
