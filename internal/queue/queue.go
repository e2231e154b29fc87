// Package queue provides the unbounded FIFO handoff between pipeline
// stages. Two instances exist at runtime: the candidate queue of trigger
// events and the delivery queue of resolved targets.
package queue

import (
	"context"
	"sync"
)

// Queue is an unbounded, ordered, thread-safe FIFO. Pop blocks until an
// item is available instead of polling, so idle workers park on the
// condition variable rather than spinning.
type Queue[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []T
}

func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Append adds an item to the tail and wakes one waiting consumer.
func (q *Queue[T]) Append(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.cond.Signal()
}

// Pop removes and returns the head item, blocking while the queue is
// empty. It returns ok=false only when ctx is cancelled.
func (q *Queue[T]) Pop(ctx context.Context) (T, bool) {
	var zero T

	// Wake all waiters on cancellation; the broadcast takes the lock so it
	// cannot slip between a waiter's ctx check and its cond.Wait.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		q.cond.Broadcast()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		if ctx.Err() != nil {
			return zero, false
		}
		q.cond.Wait()
	}

	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return item, true
}

// TryPop removes and returns the head item without blocking.
func (q *Queue[T]) TryPop() (T, bool) {
	var zero T
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return item, true
}

// Len reports the current depth.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
