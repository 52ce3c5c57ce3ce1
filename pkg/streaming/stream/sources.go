package stream

import (
	"context"
	"sync/atomic"
)

// sliceStream yields the elements of a slice in order.
type sliceStream[T any] struct {
	slice []T
	index int64
}

func (s *sliceStream[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	default:
	}

	currentIndex := atomic.AddInt64(&s.index, 1) - 1
	if currentIndex >= int64(len(s.slice)) {
		return zero, false, nil
	}
	return s.slice[currentIndex], true, nil
}

func (s *sliceStream[T]) Close() error {
	atomic.StoreInt64(&s.index, int64(len(s.slice)))
	return nil
}

// chanStream yields values received from a channel.
type chanStream[T any] struct {
	ch <-chan T
}

func (s *chanStream[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	select {
	case value, ok := <-s.ch:
		if !ok {
			return zero, false, nil
		}
		return value, true, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

func (s *chanStream[T]) Close() error {
	return nil
}

// generatorStream yields values produced by a generator function.
type generatorStream[T any] struct {
	generator func() T
	closed    int32
}

func (s *generatorStream[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if atomic.LoadInt32(&s.closed) != 0 {
		return zero, false, nil
	}

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	default:
		return s.generator(), true, nil
	}
}

func (s *generatorStream[T]) Close() error {
	atomic.StoreInt32(&s.closed, 1)
	return nil
}

// emptyStream yields nothing.
type emptyStream[T any] struct{}

func (s *emptyStream[T]) Next(_ context.Context) (T, bool, error) {
	var zero T
	return zero, false, nil
}

func (s *emptyStream[T]) Close() error {
	return nil
}

// takeStream truncates an inner stream after n items.
type takeStream[T any] struct {
	inner     Stream[T]
	remaining int64
}

func (s *takeStream[T]) Next(ctx context.Context) (T, bool, error) {
	if atomic.LoadInt64(&s.remaining) <= 0 {
		var zero T
		return zero, false, nil
	}

	v, ok, err := s.inner.Next(ctx)
	if err != nil || !ok {
		var zero T
		return zero, false, err
	}
	atomic.AddInt64(&s.remaining, -1)
	return v, true, nil
}

func (s *takeStream[T]) Close() error {
	atomic.StoreInt64(&s.remaining, 0)
	return s.inner.Close()
}
