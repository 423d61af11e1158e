package cleanup

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/okian/shoresquad/internal/domain/geo"
	"github.com/okian/shoresquad/internal/domain/mapview"
	. "github.com/smartystreets/goconvey/convey"
)

type textPopups struct{ fail bool }

func (p textPopups) Popup(e Event) (template.HTML, error) {
	if p.fail {
		return "", errors.New("template broken")
	}
	return template.HTML(fmt.Sprintf("<h3>%s</h3><p>Participants: %d</p>", e.Title, e.Participants)), nil
}

func seedEventFixture() Event {
	return Event{
		ID:           "event1",
		Latitude:     1.381497,
		Longitude:    103.955574,
		Title:        "Pasir Ris Beach Cleanup",
		Date:         time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		Participants: 15,
	}
}

func TestStoreAdd(t *testing.T) {
	Convey("Given an empty store on a map", t, func() {
		m := mapview.New(geo.Coordinate{Latitude: 1.38, Longitude: 103.95}, 13)
		s := NewStore(m, textPopups{})

		Convey("When adding the seed event", func() {
			So(s.Add(seedEventFixture()), ShouldBeNil)

			Convey("Then event and marker are registered together", func() {
				ev, ok := s.Get("event1")
				So(ok, ShouldBeTrue)
				So(ev.Participants, ShouldEqual, 15)
				So(s.MarkerIDs(), ShouldResemble, []string{"event1"})
				So(m.Len(), ShouldEqual, 1)
				mk, _ := s.Marker("event1")
				So(string(mk.Popup()), ShouldContainSubstring, "Participants: 15")
				So(mk.Position(), ShouldResemble, ev.Position())
			})

			Convey("And a duplicate id is rejected without touching either registry", func() {
				dup := seedEventFixture()
				dup.Title = "Other"
				err := s.Add(dup)
				So(errors.Is(err, ErrDuplicateEvent), ShouldBeTrue)
				ev, _ := s.Get("event1")
				So(ev.Title, ShouldEqual, "Pasir Ris Beach Cleanup")
				So(s.Len(), ShouldEqual, 1)
				So(m.Len(), ShouldEqual, 1)
			})
		})

		Convey("When adding invalid events", func() {
			bad := []Event{
				{Title: "no id"},
				{ID: "x"},
				{ID: "x", Title: "t", Participants: -1},
				{ID: "x", Title: "t", Latitude: 99},
			}
			for _, e := range bad {
				So(errors.Is(s.Add(e), ErrInvalidEvent), ShouldBeTrue)
			}
			So(s.Len(), ShouldEqual, 0)
			So(m.Len(), ShouldEqual, 0)
		})

		Convey("When the popup cannot be rendered", func() {
			s := NewStore(m, textPopups{fail: true})
			So(s.Add(seedEventFixture()), ShouldNotBeNil)
			So(s.Len(), ShouldEqual, 0)
			So(m.Len(), ShouldEqual, 0)
		})
	})
}

func TestStoreJoin(t *testing.T) {
	Convey("Given a store seeded with event1", t, func() {
		m := mapview.New(geo.Coordinate{}, 13)
		s := NewStore(m, textPopups{})
		So(s.Add(seedEventFixture()), ShouldBeNil)

		Convey("When joining once", func() {
			ev, err := s.Join("event1")

			Convey("Then participants go to 16 and the popup is re-rendered", func() {
				So(err, ShouldBeNil)
				So(ev.Participants, ShouldEqual, 16)
				mk, _ := s.Marker("event1")
				So(string(mk.Popup()), ShouldContainSubstring, "16")
			})
		})

		Convey("When joining twice", func() {
			_, _ = s.Join("event1")
			ev, err := s.Join("event1")

			Convey("Then participants grow by two relative to the seed", func() {
				So(err, ShouldBeNil)
				So(ev.Participants, ShouldEqual, 17)
				got, _ := s.Get("event1")
				So(got.Participants, ShouldEqual, 17)
			})
		})

		Convey("When joining an unknown id", func() {
			before := s.List()
			mk, _ := s.Marker("event1")
			popup := mk.Popup()
			_, err := s.Join("nope")

			Convey("Then nothing changes", func() {
				So(errors.Is(err, ErrEventNotFound), ShouldBeTrue)
				So(s.List(), ShouldResemble, before)
				So(mk.Popup(), ShouldEqual, popup)
				So(s.MarkerIDs(), ShouldResemble, []string{"event1"})
			})
		})

		Convey("When the copy returned by Get is mutated", func() {
			ev, _ := s.Get("event1")
			ev.Participants = 99
			got, _ := s.Get("event1")
			So(got.Participants, ShouldEqual, 15)
		})
	})
}

func TestSeed(t *testing.T) {
	Convey("Given the embedded seed", t, func() {
		events, err := DefaultSeed()

		Convey("Then it holds the Pasir Ris cleanup", func() {
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 1)
			So(events[0].ID, ShouldEqual, "event1")
			So(events[0].Participants, ShouldEqual, 15)
			So(events[0].DateString(), ShouldEqual, "2025-06-08")
			So(events[0].Validate(), ShouldBeNil)
		})
	})

	Convey("Given a seed with a bad date", t, func() {
		_, err := ReadSeed(strings.NewReader("events:\n  - id: e\n    title: t\n    date: tomorrow\n"))
		So(errors.Is(err, ErrInvalidEvent), ShouldBeTrue)
	})

	Convey("Given a seed whose latitude is not a number", t, func() {
		events, err := ReadSeed(strings.NewReader("events:\n  - id: e\n    lat: .nan\n    lng: 103.9\n    title: t\n    date: 2025-06-08\n"))
		So(err, ShouldBeNil)
		So(events, ShouldHaveLength, 1)

		Convey("Then the store should refuse it", func() {
			m := mapview.New(geo.Coordinate{Latitude: 1.38, Longitude: 103.95}, mapview.DefaultZoom)
			s := NewStore(m, textPopups{})
			So(errors.Is(s.Add(events[0]), ErrInvalidEvent), ShouldBeTrue)
			So(s.Len(), ShouldEqual, 0)
			So(m.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given malformed YAML", t, func() {
		_, err := ReadSeed(strings.NewReader("events: ["))
		So(err, ShouldNotBeNil)
	})

	Convey("Given a missing seed file", t, func() {
		_, err := LoadSeed("/non/existent/seed.yaml")
		So(err, ShouldNotBeNil)
	})
}
