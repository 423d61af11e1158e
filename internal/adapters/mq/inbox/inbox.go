// Package inbox keeps delivered notifications until the page picks them up.
package inbox

import (
	"context"
	"sync"

	"github.com/okian/shoresquad/internal/domain/model"
)

const defaultLimit = 50

// Inbox is a bounded FIFO of delivered notifications. When full, the oldest
// entry is discarded.
type Inbox struct {
	mu    sync.Mutex
	items []model.Notification
	limit int
}

// New creates an inbox holding at most limit notifications.
func New(limit int) *Inbox {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Inbox{limit: limit}
}

// Deliver stores n. It satisfies worker.Sink.
func (b *Inbox) Deliver(_ context.Context, n model.Notification) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == b.limit {
		copy(b.items, b.items[1:])
		b.items = b.items[:len(b.items)-1]
	}
	b.items = append(b.items, n)
	return nil
}

// Drain returns and removes every stored notification, oldest first.
func (b *Inbox) Drain() []model.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	if out == nil {
		out = []model.Notification{}
	}
	return out
}

// Len returns the number of stored notifications.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
