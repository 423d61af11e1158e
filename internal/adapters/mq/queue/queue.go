// Package queue buffers notifications between the request that produced them
// and the worker that delivers them. Enqueue never blocks.
package queue

import (
	"context"
	"sync"

	"github.com/okian/shoresquad/internal/domain/model"
	"github.com/okian/shoresquad/pkg/metrics"
)

const (
	defaultQueueCapacity = 64
)

// Notification is the payload flowing through the queue.
type Notification = model.Notification

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a notification. It returns false when the queue is full
	// or closed.
	Enqueue(ctx context.Context, n Notification) bool

	// Dequeue returns a channel receiving notifications. The channel is
	// closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Notification

	// Len returns the number of pending notifications.
	Len(ctx context.Context) int

	// Close stops accepting notifications.
	Close() error

	// IsClosed reports whether Close was called.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	events   chan Notification
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan Notification, q.capacity)
	metrics.UpdateNotificationQueueSize(0)
	return q
}

// Enqueue adds a notification without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, n Notification) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordNotificationDropped()
		return false
	}

	select {
	case q.events <- n:
		metrics.RecordNotificationQueued()
		metrics.UpdateNotificationQueueSize(len(q.events))
		return true
	case <-ctx.Done():
		metrics.RecordNotificationDropped()
		return false
	default:
		metrics.RecordNotificationDropped()
		return false
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Notification {
	out := make(chan Notification)
	go func() {
		defer close(out)
		for n := range q.events {
			select {
			case out <- n:
				metrics.UpdateNotificationQueueSize(len(q.events))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of pending notifications.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.events)
}

// Close stops accepting notifications. Pending ones can still be dequeued.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.events)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
