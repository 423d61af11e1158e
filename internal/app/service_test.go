package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/shoresquad/internal/adapters/location"
	"github.com/okian/shoresquad/internal/domain/cleanup"
	"github.com/okian/shoresquad/internal/domain/geo"
	"github.com/okian/shoresquad/internal/domain/weather"
	"github.com/okian/shoresquad/internal/presenter"
	. "github.com/smartystreets/goconvey/convey"
)

var pasirRis = geo.Coordinate{Latitude: 1.381497, Longitude: 103.955574}

type fakeGateway struct {
	mu    sync.Mutex
	calls int
	dates []time.Time
	errs  []error
	snap  weather.Snapshot
}

func (g *fakeGateway) Fetch(_ context.Context, ref time.Time) (weather.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.dates = append(g.dates, ref)
	if len(g.errs) > 0 {
		err := g.errs[0]
		g.errs = g.errs[1:]
		if err != nil {
			return weather.Snapshot{}, err
		}
	}
	return g.snap, nil
}

func sampleSnapshot() weather.Snapshot {
	return weather.Snapshot{
		Current: weather.CurrentConditions{
			Temperature:   weather.Celsius(29.4),
			ForecastText:  "Partly Cloudy",
			Humidity:      weather.Range{Low: 60, High: 90},
			WindSpeed:     weather.Range{Low: 10, High: 20},
			WindDirection: "NE",
		},
		ForecastDays: []weather.DayForecast{{
			Date:         weather.MustDate("2025-06-05"),
			ForecastText: "Thundery Showers",
			Temperature:  weather.Range{Low: 25, High: 33},
		}},
	}
}

func seedOf(events ...cleanup.Event) SeedFunc {
	return func() ([]cleanup.Event, error) { return events, nil }
}

func event1() cleanup.Event {
	return cleanup.Event{
		ID:           "event1",
		Latitude:     1.381497,
		Longitude:    103.955574,
		Title:        "Pasir Ris Beach Cleanup",
		Date:         weather.MustDate("2025-06-08"),
		Participants: 15,
	}
}

func newService(locator geo.Provider, gw weather.Gateway, opts ...Option) *Service {
	opts = append([]Option{
		WithSeed(seedOf(event1())),
		WithClock(func() time.Time { return time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC) }),
	}, opts...)
	return New(locator, gw, presenter.MustNew(), opts...)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestStartup(t *testing.T) {
	Convey("Given a page service with a resolvable location", t, func() {
		ctx := context.Background()
		gw := &fakeGateway{snap: sampleSnapshot()}
		svc := newService(location.NewStatic(pasirRis), gw)
		defer func() { _ = svc.Stop(ctx) }()

		So(svc.Phase(), ShouldEqual, PhaseIdle)

		Convey("When Start runs", func() {
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then every phase should be entered in order", func() {
				So(svc.History(), ShouldResemble, []Phase{
					PhaseIdle,
					PhaseNavigationWired,
					PhaseLocationResolved,
					PhaseMapInitialized,
					PhaseWeatherResolved,
					PhaseInteractive,
				})
			})

			Convey("And the navigation menu should start collapsed", func() {
				menu := svc.Menu()
				So(menu.Expanded, ShouldBeFalse)
				So(len(menu.Items), ShouldEqual, 4)
				So(menu.CTATarget, ShouldEqual, "#map")
			})

			Convey("And the map should hold the user marker and the seeded event", func() {
				view, ok := svc.MapView()
				So(ok, ShouldBeTrue)
				So(view.Zoom, ShouldEqual, 13)
				So(len(view.Markers), ShouldEqual, 2)
				So(string(view.Markers[0].Popup), ShouldEqual, "Your Location")
				So(view.Markers[0].Open, ShouldBeTrue)
				So(string(view.Markers[1].Popup), ShouldContainSubstring, "Pasir Ris Beach Cleanup")
			})

			Convey("And the weather region should show the snapshot", func() {
				html, version := svc.WeatherHTML()
				So(string(html), ShouldContainSubstring, "29.4°C")
				So(string(html), ShouldContainSubstring, "Partly Cloudy")
				So(version, ShouldEqual, 2)
			})

			Convey("And the gateway should receive today's date", func() {
				So(gw.dates, ShouldHaveLength, 1)
				So(gw.dates[0].Format(time.DateOnly), ShouldEqual, "2025-06-04")
			})

			Convey("And a second Start should do nothing", func() {
				So(svc.Start(ctx), ShouldBeNil)
				So(gw.calls, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a pinned reference date", t, func() {
		ctx := context.Background()
		gw := &fakeGateway{snap: sampleSnapshot()}
		svc := newService(location.NewStatic(pasirRis), gw, WithReferenceDate(weather.MustDate("2025-06-01")))
		defer func() { _ = svc.Stop(ctx) }()

		So(svc.Start(ctx), ShouldBeNil)
		So(gw.dates[0].Format(time.DateOnly), ShouldEqual, "2025-06-01")
	})
}

func TestStartupDegrades(t *testing.T) {
	Convey("Given the location is unavailable", t, func() {
		ctx := context.Background()
		gw := &fakeGateway{snap: sampleSnapshot()}
		svc := newService(location.None{}, gw)
		defer func() { _ = svc.Stop(ctx) }()

		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then map and weather should be skipped", func() {
			So(svc.History(), ShouldResemble, []Phase{
				PhaseIdle,
				PhaseNavigationWired,
				PhaseLocationResolved,
				PhaseMapSkipped,
				PhaseWeatherSkipped,
				PhaseInteractive,
			})
			_, ok := svc.MapView()
			So(ok, ShouldBeFalse)
			So(svc.Events(), ShouldBeEmpty)
			So(gw.calls, ShouldEqual, 0)
			So(svc.WeatherAvailable(), ShouldBeFalse)
		})

		Convey("And joins should be ignored", func() {
			_, ok := svc.JoinCleanup(ctx, "event1")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given the weather gateway fails", t, func() {
		ctx := context.Background()
		gw := &fakeGateway{snap: sampleSnapshot(), errs: []error{weather.ErrWeatherUnavailable}}
		svc := newService(location.NewStatic(pasirRis), gw)
		defer func() { _ = svc.Stop(ctx) }()

		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then the error block with a retry control should be shown", func() {
			html, _ := svc.WeatherHTML()
			So(string(html), ShouldContainSubstring, "Unable to load weather data. Please try again later.")
			So(string(html), ShouldContainSubstring, presenter.DefaultRetryURL)
			So(svc.History(), ShouldContain, PhaseWeatherFailed)
			So(svc.Phase(), ShouldEqual, PhaseInteractive)
			So(svc.WeatherAvailable(), ShouldBeFalse)
		})

		Convey("When the user retries", func() {
			So(svc.RetryWeather(ctx), ShouldBeNil)

			Convey("Then the snapshot should replace the error block", func() {
				html, _ := svc.WeatherHTML()
				So(string(html), ShouldContainSubstring, "Partly Cloudy")
				So(string(html), ShouldNotContainSubstring, "Unable to load")
				So(gw.calls, ShouldEqual, 2)
				So(svc.WeatherAvailable(), ShouldBeTrue)
			})
		})
	})

	Convey("Given the seed cannot be loaded", t, func() {
		ctx := context.Background()
		svc := newService(location.NewStatic(pasirRis), &fakeGateway{snap: sampleSnapshot()},
			WithSeed(func() ([]cleanup.Event, error) { return nil, errors.New("bad seed") }))
		defer func() { _ = svc.Stop(ctx) }()

		So(svc.Start(ctx), ShouldBeNil)
		So(svc.History(), ShouldContain, PhaseMapSkipped)
		So(svc.History(), ShouldContain, PhaseWeatherResolved)
	})

	Convey("Given a seed with a duplicate id", t, func() {
		ctx := context.Background()
		dup := event1()
		dup.Title = "Overwrite attempt"
		svc := newService(location.NewStatic(pasirRis), &fakeGateway{snap: sampleSnapshot()},
			WithSeed(seedOf(event1(), dup)))
		defer func() { _ = svc.Stop(ctx) }()

		So(svc.Start(ctx), ShouldBeNil)
		events := svc.Events()
		So(events, ShouldHaveLength, 1)
		So(events[0].Title, ShouldEqual, "Pasir Ris Beach Cleanup")
	})
}

func TestLocate(t *testing.T) {
	Convey("Given a service whose location comes with a request", t, func() {
		ctx := context.Background()
		gw := &fakeGateway{snap: sampleSnapshot()}
		svc := newService(location.FromRequest{}, gw)
		defer func() { _ = svc.Stop(ctx) }()

		So(svc.Locate(ctx), ShouldEqual, ErrNotStarted)
		So(svc.Start(ctx), ShouldBeNil)
		_, ok := svc.Location()
		So(ok, ShouldBeFalse)

		Convey("When a later request carries no coordinate", func() {
			err := svc.Locate(ctx)

			Convey("Then the location should stay unresolved", func() {
				So(errors.Is(err, geo.ErrLocationUnavailable), ShouldBeTrue)
				_, ok := svc.MapView()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a later request carries a coordinate that is not a number", func() {
			err := svc.Locate(location.WithRequest(ctx, requestWith("NaN", "103.9")))

			Convey("Then it should be refused and leave the location open", func() {
				So(errors.Is(err, geo.ErrLocationUnavailable), ShouldBeTrue)
				_, ok := svc.Location()
				So(ok, ShouldBeFalse)
				_, ok = svc.MapView()
				So(ok, ShouldBeFalse)
				So(gw.calls, ShouldEqual, 0)
			})

			Convey("And a following valid coordinate should still resolve", func() {
				req := requestWith("1.381497", "103.955574")
				So(svc.Locate(location.WithRequest(ctx, req)), ShouldBeNil)
				coord, ok := svc.Location()
				So(ok, ShouldBeTrue)
				So(coord, ShouldResemble, pasirRis)
				_, ok = svc.MapView()
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When a later request carries a coordinate", func() {
			req := requestWith("1.381497", "103.955574")
			So(svc.Locate(location.WithRequest(ctx, req)), ShouldBeNil)

			Convey("Then the map and weather should be initialised", func() {
				coord, ok := svc.Location()
				So(ok, ShouldBeTrue)
				So(coord, ShouldResemble, pasirRis)
				_, ok = svc.MapView()
				So(ok, ShouldBeTrue)
				So(gw.calls, ShouldEqual, 1)
				So(svc.Phase(), ShouldEqual, PhaseInteractive)
			})

			Convey("And a second coordinate should not replace it", func() {
				other := requestWith("1.3", "103.8")
				So(svc.Locate(location.WithRequest(ctx, other)), ShouldBeNil)
				coord, _ := svc.Location()
				So(coord, ShouldResemble, pasirRis)
				So(gw.calls, ShouldEqual, 1)
			})
		})
	})
}

func TestJoinCleanup(t *testing.T) {
	Convey("Given a started service with the seeded event", t, func() {
		ctx := context.Background()
		svc := newService(location.NewStatic(pasirRis), &fakeGateway{snap: sampleSnapshot()})
		defer func() { _ = svc.Stop(ctx) }()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When joining event1 once", func() {
			ev, ok := svc.JoinCleanup(ctx, "event1")

			Convey("Then the count and popup should show 16", func() {
				So(ok, ShouldBeTrue)
				So(ev.Participants, ShouldEqual, 16)
				view, _ := svc.MapView()
				So(string(view.Markers[1].Popup), ShouldContainSubstring, "16")
			})

			Convey("And a confirmation should reach the inbox", func() {
				var got []string
				So(waitFor(func() bool {
					for _, n := range svc.Notifications() {
						got = append(got, n.Message)
					}
					return len(got) > 0
				}), ShouldBeTrue)
				So(got[0], ShouldContainSubstring, "Successfully joined Pasir Ris Beach Cleanup!")
				So(got[0], ShouldContainSubstring, "16 volunteers")
			})
		})

		Convey("When joining event1 twice", func() {
			svc.JoinCleanup(ctx, "event1")
			ev, _ := svc.JoinCleanup(ctx, "event1")

			Convey("Then the seed count should grow by two", func() {
				So(ev.Participants, ShouldEqual, 17)
				So(svc.Events()[0].Participants, ShouldEqual, 17)
			})
		})

		Convey("When joining an unknown id", func() {
			before, _ := svc.MapView()
			_, ok := svc.JoinCleanup(ctx, "nope")

			Convey("Then nothing should change", func() {
				So(ok, ShouldBeFalse)
				after, _ := svc.MapView()
				So(after, ShouldResemble, before)
				So(svc.Events()[0].Participants, ShouldEqual, 15)
			})
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newService(location.NewStatic(pasirRis), &fakeGateway{snap: sampleSnapshot()})
		defer func() { _ = svc.Stop(ctx) }()
		So(svc.Start(ctx), ShouldBeNil)

		stats := svc.Stats(ctx)
		So(stats["phase"], ShouldEqual, "interactive")
		So(stats["events"], ShouldEqual, 1)
		So(stats["markers"], ShouldEqual, 2)
		So(stats["locationResolved"], ShouldBeTrue)
		So(stats["weatherAvailable"], ShouldBeTrue)
	})
}

func TestPhaseString(t *testing.T) {
	Convey("Phases should render by name", t, func() {
		So(PhaseMapSkipped.String(), ShouldEqual, "map_skipped")
		So(Phase(99).String(), ShouldEqual, "unknown")
		b, err := PhaseInteractive.MarshalText()
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, "interactive")
	})
}
