package testutil

import (
	"context"
	"sync"
)

// BlockingStream is a scripted stream for tests. Items become available only
// when the test releases them through Emit, so tests control readiness
// exactly. It satisfies the stream.Stream interface without importing it.
type BlockingStream[T any] struct {
	ch        chan T
	closeOnce sync.Once
}

// NewBlockingStream creates a BlockingStream with no items available.
func NewBlockingStream[T any]() *BlockingStream[T] {
	return &BlockingStream[T]{ch: make(chan T)}
}

// Emit makes one item available. It blocks until a Next call consumes it,
// which makes readiness deterministic in tests.
func (bs *BlockingStream[T]) Emit(v T) {
	bs.ch <- v
}

// End marks the stream exhausted. Emit must not be called afterwards.
func (bs *BlockingStream[T]) End() {
	bs.closeOnce.Do(func() { close(bs.ch) })
}

// Next returns the next released item, or false once End was called.
func (bs *BlockingStream[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	select {
	case v, ok := <-bs.ch:
		if !ok {
			return zero, false, nil
		}
		return v, true, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

// Close implements the stream Close contract; it ends the stream.
func (bs *BlockingStream[T]) Close() error {
	bs.End()
	return nil
}

// ErrStream is a stream that fails with a fixed error on every Next call.
type ErrStream[T any] struct {
	Err error
}

// Next always returns the configured error.
func (es *ErrStream[T]) Next(_ context.Context) (T, bool, error) {
	var zero T
	return zero, false, es.Err
}

// Close is a no-op.
func (es *ErrStream[T]) Close() error {
	return nil
}
