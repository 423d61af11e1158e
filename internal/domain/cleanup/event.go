// Package cleanup keeps the beach-cleanup events shown on the map and the
// markers bound to them.
package cleanup

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/shoresquad/internal/domain/geo"
)

// Sentinel kinds for cleanup errors.
var (
	ErrEventNotFound  = errors.New("cleanup event not found")
	ErrDuplicateEvent = errors.New("cleanup event already registered")
	ErrInvalidEvent   = errors.New("invalid cleanup event")
)

// Event is a cleanup event. Participants is the only field that changes
// after registration.
type Event struct {
	ID           string    `json:"id"`
	Latitude     float64   `json:"lat"`
	Longitude    float64   `json:"lng"`
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Participants int       `json:"participants"`
}

// Position returns the event location.
func (e Event) Position() geo.Coordinate {
	return geo.Coordinate{Latitude: e.Latitude, Longitude: e.Longitude}
}

// DateString formats Date as YYYY-MM-DD.
func (e Event) DateString() string {
	return e.Date.Format(time.DateOnly)
}

// Validate checks the event before registration.
func (e Event) Validate() error {
	switch {
	case strings.TrimSpace(e.ID) == "":
		return fmt.Errorf("%w: missing id", ErrInvalidEvent)
	case strings.TrimSpace(e.Title) == "":
		return fmt.Errorf("%w: %s: missing title", ErrInvalidEvent, e.ID)
	case e.Participants < 0:
		return fmt.Errorf("%w: %s: negative participants", ErrInvalidEvent, e.ID)
	}
	if err := e.Position().Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidEvent, e.ID, err)
	}
	return nil
}
