// Package worker delivers queued notifications to a sink in the background.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/shoresquad/internal/domain/model"
	"github.com/okian/shoresquad/pkg/logger"
	"github.com/okian/shoresquad/pkg/metrics"
)

// Notification abstracts what the worker reads off the queue.
type Notification = model.Notification

// Queue defines how the worker receives notifications.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Notification
}

// Sink receives delivered notifications.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n Notification) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, n Notification) error { return f(ctx, n) }

// Worker drains a queue into a sink until stopped.
type Worker struct {
	queue Queue
	sink  Sink
	name  string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a worker.
func New(queue Queue, sink Sink, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		sink:     sink,
		name:     "notifier",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes notifications until ctx is cancelled, Shutdown is called or
// the queue channel closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	ch := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := w.deliver(ctx, n); err != nil {
				w.logger.Error(ctx, "notification delivery failed", logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker and waits for the loop to exit.
func (w *Worker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out", logger.String("worker", w.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *Worker) Done() <-chan struct{} { return w.done }

func (w *Worker) deliver(ctx context.Context, n Notification) error {
	start := time.Now()
	if err := w.sink.Deliver(ctx, n); err != nil {
		return fmt.Errorf("deliver %s: %w", n.ID, err)
	}
	metrics.RecordNotificationDelivered()
	w.logger.Debug(ctx, "notification delivered",
		logger.String("id", n.ID),
		logger.String("kind", n.Kind),
		logger.String("event_id", n.EventID),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}
