package stream

import (
	"context"
)

// Stream represents a pull-based sequence of items. Next returns the next
// item and true, or the zero value and false once the stream is exhausted.
// Exhaustion is stable: after Next has returned false with a nil error, it
// keeps doing so. Streams are single-consumer; Next must not be called
// concurrently.
type Stream[T any] interface {
	// Next returns the next item. It blocks until an item is available,
	// the stream ends, or ctx is canceled.
	Next(ctx context.Context) (T, bool, error)

	// Close releases resources held by the stream. A closed stream behaves
	// as exhausted.
	Close() error
}

// FromSlice creates a Stream over the elements of a slice, in order.
func FromSlice[T any](slice []T) Stream[T] {
	return &sliceStream[T]{slice: slice}
}

// FromChannel creates a Stream that yields values received from ch until
// the channel is closed.
func FromChannel[T any](ch <-chan T) Stream[T] {
	return &chanStream[T]{ch: ch}
}

// Generate creates an infinite Stream from a generator function. Bound it
// with Take before collecting.
func Generate[T any](generator func() T) Stream[T] {
	return &generatorStream[T]{generator: generator}
}

// Empty creates a Stream with no items.
func Empty[T any]() Stream[T] {
	return &emptyStream[T]{}
}

// Take returns a stream yielding at most n items from s. Closing the
// returned stream closes s.
func Take[T any](s Stream[T], n int64) Stream[T] {
	return &takeStream[T]{inner: s, remaining: n}
}

// Collect reads s to exhaustion and returns all items. It does not close s.
func Collect[T any](ctx context.Context, s Stream[T]) ([]T, error) {
	var result []T
	for {
		v, ok, err := s.Next(ctx)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		result = append(result, v)
	}
}

// ForEach applies fn to each item of s until exhaustion. It does not close s.
func ForEach[T any](ctx context.Context, s Stream[T], fn func(T)) error {
	for {
		v, ok, err := s.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		fn(v)
	}
}

// Count reads s to exhaustion and returns the number of items.
func Count[T any](ctx context.Context, s Stream[T]) (int64, error) {
	var count int64
	for {
		_, ok, err := s.Next(ctx)
		if err != nil {
			return count, err
		}
		if !ok {
			return count, nil
		}
		count++
	}
}
