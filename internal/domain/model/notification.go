// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification kinds.
const (
	KindJoined = "joined"
)

// Notification acknowledges a visitor action without blocking it.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	EventID   string    `json:"event_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewJoinNotification builds the acknowledgement for joining a cleanup.
func NewJoinNotification(eventID, title string, participants int, now time.Time) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Kind:      KindJoined,
		EventID:   eventID,
		Message:   fmt.Sprintf("Successfully joined %s! %d volunteers are signed up. We'll send you more details soon.", title, participants),
		CreatedAt: now,
	}
}
