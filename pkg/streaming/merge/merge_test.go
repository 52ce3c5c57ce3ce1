package merge

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vnykmshr/muxflow/internal/testutil"
	"github.com/vnykmshr/muxflow/pkg/streaming/stream"
)

// drain collects every item and every member error until end-of-stream.
func drain[T any](ctx context.Context, m *Merged[T]) ([]T, []error) {
	var items []T
	var errs []error
	for {
		v, ok, err := m.Next(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			return items, errs
		}
		items = append(items, v)
	}
}

func TestEmptyMergeReportsEnd(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	m := New[int]()
	defer m.Close()

	for i := 0; i < 3; i++ {
		_, ok, err := m.Next(ctx)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, ok, false)
	}
	testutil.AssertEqual(t, m.Terminated(), true)
	testutil.AssertEqual(t, m.IsEmpty(), true)
}

func TestMergeDeliversAllItems(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	m := Merge(
		stream.FromSlice([]int{1, 2, 3}),
		stream.FromSlice([]int{10, 20}),
		stream.FromSlice([]int{100}),
	)
	defer m.Close()

	items, errs := drain(ctx, m)
	testutil.AssertEqual(t, len(errs), 0)
	testutil.AssertElementsMatch(t, items, []int{1, 2, 3, 10, 20, 100})
	testutil.AssertEqual(t, m.Terminated(), true)
}

func TestPerMemberOrderPreserved(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	a := []int{1, 2, 3, 4, 5}
	b := []int{10, 20, 30, 40}
	m := Merge(stream.FromSlice(a), stream.FromSlice(b))
	defer m.Close()

	items, errs := drain(ctx, m)
	testutil.AssertEqual(t, len(errs), 0)
	testutil.AssertElementsMatch(t, items, append(append([]int{}, a...), b...))
	testutil.AssertSubsequence(t, items, a)
	testutil.AssertSubsequence(t, items, b)
}

func TestPushWhileConsuming(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	first := testutil.NewBlockingStream[string]()
	m := Merge[string](first)
	defer m.Close()

	got := make(chan string)
	go func() {
		for {
			v, ok, err := m.Next(ctx)
			if err != nil || !ok {
				close(got)
				return
			}
			got <- v
		}
	}()

	first.Emit("a")
	testutil.AssertEqual(t, <-got, "a")

	// The consumer is blocked in Next; a member pushed now must still be
	// picked up.
	second := testutil.NewBlockingStream[string]()
	m.Push(second)
	second.Emit("b")
	testutil.AssertEqual(t, <-got, "b")

	first.End()
	second.End()
	if _, ok := <-got; ok {
		t.Fatal("expected consumer to observe end-of-stream")
	}
}

func TestPushRevivesTerminatedMerge(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	m := New[int]()
	defer m.Close()

	_, ok, err := m.Next(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, false)
	testutil.AssertEqual(t, m.Terminated(), true)

	m.Push(stream.FromSlice([]int{7}))
	testutil.AssertEqual(t, m.Terminated(), false)

	v, ok, err := m.Next(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, v, 7)

	_, ok, err = m.Next(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, false)
}

// countingStream counts Next calls so tests can assert a member was not
// polled.
type countingStream struct {
	calls int64
}

func (cs *countingStream) Next(_ context.Context) (int, bool, error) {
	atomic.AddInt64(&cs.calls, 1)
	return 0, false, nil
}

func (cs *countingStream) Close() error { return nil }

func TestPushDoesNotPollMember(t *testing.T) {
	m := New[int]()
	defer m.Close()

	cs := &countingStream{}
	m.Push(cs)

	time.Sleep(20 * time.Millisecond)
	testutil.AssertEqual(t, atomic.LoadInt64(&cs.calls), 0)
	testutil.AssertEqual(t, m.Len(), 1)
}

func TestExhaustedMemberAbsorbedSilently(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	m := Merge(
		stream.Empty[int](),
		stream.FromSlice([]int{1}),
		stream.Empty[int](),
	)
	defer m.Close()

	items, errs := drain(ctx, m)
	testutil.AssertEqual(t, len(errs), 0)
	testutil.AssertElementsMatch(t, items, []int{1})
}

func TestMemberErrorSurfacedOnce(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	boom := errors.New("boom")
	m := Merge[int](
		&testutil.ErrStream[int]{Err: boom},
		stream.FromSlice([]int{1, 2}),
	)
	defer m.Close()

	items, errs := drain(ctx, m)
	testutil.AssertEqual(t, len(errs), 1)
	testutil.AssertErrorIs(t, errs[0], boom)
	testutil.AssertElementsMatch(t, items, []int{1, 2})
	testutil.AssertEqual(t, m.Stats().MemberErrors, 1)
}

func TestNextContextCanceled(t *testing.T) {
	bs := testutil.NewBlockingStream[int]()
	m := Merge[int](bs)
	defer m.Close()

	pollCtx, cancelPoll := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() {
		_, _, err := m.Next(pollCtx)
		errCh <- err
	}()

	cancelPoll()
	testutil.AssertErrorIs(t, <-errCh, context.Canceled)

	// An abandoned poll must not lose items: emit now and pick the item up
	// with a fresh context.
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	go bs.Emit(42)
	v, ok, err := m.Next(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, v, 42)
	bs.End()
}

func TestMembersAndCancel(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	a := testutil.NewBlockingStream[int]()
	b := testutil.NewBlockingStream[int]()
	m := Merge[int](a, b)
	defer m.Close()

	members := m.Members()
	testutil.AssertEqual(t, len(members), 2)

	testutil.AssertEqual(t, members[0].Cancel(), true)
	testutil.AssertEqual(t, members[0].Cancel(), false)
	testutil.AssertEqual(t, m.Len(), 1)

	// The survivor still delivers.
	survivor := m.Members()[0].Stream().(*testutil.BlockingStream[int])
	go survivor.Emit(5)
	v, ok, err := m.Next(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, v, 5)
}

func TestStreamsReturnsLiveMembers(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	a := testutil.NewBlockingStream[int]()
	b := testutil.NewBlockingStream[int]()
	m := Merge[int](a, b)

	streams := m.Streams()
	testutil.AssertEqual(t, len(streams), 2)

	// Returned members are still usable outside the merge.
	go streams[0].(*testutil.BlockingStream[int]).Emit(9)
	v, ok, err := streams[0].Next(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, v, 9)

	a.End()
	b.End()
}

func TestCloseClosesMembers(t *testing.T) {
	a := testutil.NewBlockingStream[int]()
	b := testutil.NewBlockingStream[int]()
	m := Merge[int](a, b)

	testutil.AssertNoError(t, m.Close())
	testutil.AssertNoError(t, m.Close())

	// Closed members report exhaustion.
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()
	_, ok, err := a.Next(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, false)
}

// settleUndelivered abandons a poll so the member's head goroutine is
// running, releases one item into it, and waits for the resolution to land
// in the ready queue with no poll outstanding.
func settleUndelivered(t *testing.T, m *Merged[int], bs *testutil.BlockingStream[int], v int) {
	t.Helper()

	pollCtx, cancelPoll := context.WithCancel(context.Background())
	cancelPoll()
	_, _, err := m.Next(pollCtx)
	testutil.AssertErrorIs(t, err, context.Canceled)

	bs.Emit(v)
	deadline := time.Now().Add(testutil.TestTimeout)
	for m.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("head future did not settle")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStreamsIncludesUndeliveredMember(t *testing.T) {
	bs := testutil.NewBlockingStream[int]()
	m := Merge[int](bs)

	settleUndelivered(t, m, bs, 42)

	streams := m.Streams()
	testutil.AssertEqual(t, len(streams), 1)
	if streams[0] != bs {
		t.Fatalf("Streams returned %T, want the original member", streams[0])
	}
	bs.End()
}

func TestCloseClosesUndeliveredMember(t *testing.T) {
	bs := testutil.NewBlockingStream[int]()
	m := Merge[int](bs)

	settleUndelivered(t, m, bs, 42)

	testutil.AssertNoError(t, m.Close())

	// The member must have been closed even though its last resolution was
	// never delivered.
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()
	_, ok, err := bs.Next(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, false)
}

func TestPushAfterCloseClosesStream(t *testing.T) {
	m := New[int]()
	testutil.AssertNoError(t, m.Close())

	bs := testutil.NewBlockingStream[int]()
	m.Push(bs)
	testutil.AssertEqual(t, m.Len(), 0)

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()
	_, ok, err := bs.Next(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, false)
}

func TestMergeOfMerges(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	inner := Merge(
		stream.FromSlice([]int{1, 2}),
		stream.FromSlice([]int{3}),
	)
	outer := Merge[int](inner, stream.FromSlice([]int{10, 20}))
	defer outer.Close()

	items, errs := drain(ctx, outer)
	testutil.AssertEqual(t, len(errs), 0)
	testutil.AssertElementsMatch(t, items, []int{1, 2, 3, 10, 20})
}

func TestStatsCounters(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	m := Merge(
		stream.FromSlice([]int{1, 2, 3}),
		stream.FromSlice([]int{4, 5}),
	)
	defer m.Close()

	items, errs := drain(ctx, m)
	testutil.AssertEqual(t, len(errs), 0)
	testutil.AssertEqual(t, len(items), 5)

	stats := m.Stats()
	testutil.AssertEqual(t, stats.ItemsMerged, 5)
	testutil.AssertEqual(t, stats.MembersAdded, 2)
	testutil.AssertEqual(t, stats.MembersEnded, 2)
	testutil.AssertEqual(t, stats.MemberErrors, 0)
}

func TestManyMembersAllDelivered(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	const members = 50
	m := New[int]()
	defer m.Close()

	var want []int
	for i := 0; i < members; i++ {
		vals := []int{i * 10, i*10 + 1, i*10 + 2}
		want = append(want, vals...)
		m.Push(stream.FromSlice(vals))
	}

	items, errs := drain(ctx, m)
	testutil.AssertEqual(t, len(errs), 0)
	testutil.AssertElementsMatch(t, items, want)
}
