package cleanup

import (
	"fmt"
	"html/template"

	"github.com/okian/shoresquad/internal/domain/geo"
	"github.com/okian/shoresquad/internal/domain/mapview"
	"github.com/okian/shoresquad/pkg/metrics"
)

// MarkerFactory places markers on a map.
type MarkerFactory interface {
	AddMarker(pos geo.Coordinate) *mapview.Marker
}

// PopupRenderer produces popup markup for an event.
type PopupRenderer interface {
	Popup(e Event) (template.HTML, error)
}

// Store is the registry of cleanup events and their markers. Both registries
// are written together so their id sets are always equal.
//
// A Store is not safe for concurrent use; the app controller serialises access.
type Store struct {
	events  map[string]*Event
	markers map[string]*mapview.Marker
	order   []string

	placer MarkerFactory
	popups PopupRenderer
}

// NewStore creates an empty store placing markers via placer.
func NewStore(placer MarkerFactory, popups PopupRenderer) *Store {
	return &Store{
		events:  make(map[string]*Event),
		markers: make(map[string]*mapview.Marker),
		placer:  placer,
		popups:  popups,
	}
}

// Add registers e and places its marker. Duplicate ids are rejected with
// ErrDuplicateEvent and leave both registries untouched.
func (s *Store) Add(e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, ok := s.events[e.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEvent, e.ID)
	}
	popup, err := s.popups.Popup(e)
	if err != nil {
		return fmt.Errorf("render popup for %s: %w", e.ID, err)
	}

	ev := e
	s.markers[e.ID] = s.placer.AddMarker(e.Position()).BindPopup(popup)
	s.events[e.ID] = &ev
	s.order = append(s.order, e.ID)

	metrics.UpdateCleanupEvents(len(s.events))
	return nil
}

// Join adds one participant to the event and regenerates its popup. Unknown
// ids return ErrEventNotFound and change nothing.
func (s *Store) Join(id string) (Event, error) {
	ev, ok := s.events[id]
	if !ok {
		return Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}

	next := *ev
	next.Participants++
	popup, err := s.popups.Popup(next)
	if err != nil {
		return Event{}, fmt.Errorf("render popup for %s: %w", id, err)
	}

	*ev = next
	s.markers[id].SetPopupContent(popup)
	return next, nil
}

// Get returns a copy of the event with the given id.
func (s *Store) Get(id string) (Event, bool) {
	ev, ok := s.events[id]
	if !ok {
		return Event{}, false
	}
	return *ev, true
}

// Marker returns the marker bound to id.
func (s *Store) Marker(id string) (*mapview.Marker, bool) {
	mk, ok := s.markers[id]
	return mk, ok
}

// List returns copies of all events in registration order.
func (s *Store) List() []Event {
	out := make([]Event, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.events[id])
	}
	return out
}

// Len returns the number of registered events.
func (s *Store) Len() int { return len(s.events) }

// MarkerIDs returns the ids present in the marker registry.
func (s *Store) MarkerIDs() []string {
	ids := make([]string, 0, len(s.markers))
	for _, id := range s.order {
		if _, ok := s.markers[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
