// Package queue provides the bounded FIFO work queue shared by the
// scheduler and the worker loops. Delivery is at most once per
// successful dequeue; there is no ack or redelivery protocol.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Enqueue after Close, and by Dequeue once the
// queue is both closed and drained.
var ErrClosed = errors.New("queue is closed")

// Queue is a bounded multi-producer multi-consumer FIFO. Enqueue blocks
// while the queue is full (backpressure, never drop-oldest). Jobs may
// carry a priority field; the queue never reorders on it.
type Queue[T any] struct {
	items     chan T
	closed    chan struct{}
	closeOnce sync.Once
}

// New creates a queue with a fixed capacity.
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{
		items:  make(chan T, capacity),
		closed: make(chan struct{}),
	}
}

// Enqueue adds an item, suspending the caller while the queue is full.
// It returns ErrClosed after Close and ctx.Err() on cancellation.
func (q *Queue[T]) Enqueue(ctx context.Context, item T) error {
	select {
	case <-q.closed:
		return ErrClosed
	default:
	}

	select {
	case q.items <- item:
		return nil
	case <-q.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue removes the oldest item, blocking until one is available. It
// returns ErrClosed only once the queue is closed and fully drained,
// and returns promptly with ctx.Err() when ctx fires while idle.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	var zero T

	// Drain pending items even after close.
	select {
	case item := <-q.items:
		return item, nil
	default:
	}

	select {
	case item := <-q.items:
		return item, nil
	case <-q.closed:
		select {
		case item := <-q.items:
			return item, nil
		default:
			return zero, ErrClosed
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Len reports the current depth. Best-effort only: concurrent
// producers and consumers make it stale the moment it returns.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Cap reports the fixed capacity.
func (q *Queue[T]) Cap() int {
	return cap(q.items)
}

// Close marks the queue closed. Pending Dequeue calls observing an
// empty closed queue return ErrClosed instead of blocking forever.
// Close is idempotent.
func (q *Queue[T]) Close() {
	q.closeOnce.Do(func() {
		close(q.closed)
	})
}
