package site

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/shoresquad/internal/adapters/location"
	service "github.com/okian/shoresquad/internal/app"
	"github.com/okian/shoresquad/internal/domain/cleanup"
	"github.com/okian/shoresquad/internal/domain/geo"
	. "github.com/smartystreets/goconvey/convey"
)

type mockPage struct {
	located bool
	locates int
	events  []cleanup.Event
}

func (m *mockPage) Menu() service.Menu {
	return service.Menu{
		Items:     []service.NavItem{{Label: "Home", Href: "#home"}, {Label: "Map", Href: "#map"}},
		CTALabel:  "Find a Cleanup",
		CTATarget: "#map",
	}
}

func (m *mockPage) WeatherHTML() (template.HTML, uint64) {
	return `<div class="weather-current">sunny</div>`, 1
}

func (m *mockPage) Events() []cleanup.Event { return m.events }

func (m *mockPage) Location() (geo.Coordinate, bool) {
	if !m.located {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Latitude: 1.38, Longitude: 103.95}, true
}

func (m *mockPage) Locate(ctx context.Context) error {
	m.locates++
	if _, err := (location.FromRequest{}).Acquire(ctx); err != nil {
		return err
	}
	m.located = true
	return nil
}

func newMux(page Page, opts ...Option) *http.ServeMux {
	h, err := NewHandler(page, opts...)
	So(err, ShouldBeNil)
	mux := http.NewServeMux()
	h.Register(context.Background(), mux)
	return mux
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestRootPage(t *testing.T) {
	Convey("Given a located page with one event", t, func() {
		page := &mockPage{located: true, events: []cleanup.Event{{ID: "event1", Title: "Pasir Ris <Beach> Cleanup", Participants: 15}}}
		mux := newMux(page)

		Convey("When requesting /", func() {
			w := get(mux, "/")
			body := w.Body.String()

			Convey("Then the page should carry every region", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(body, ShouldContainSubstring, `aria-expanded="false"`)
				So(body, ShouldContainSubstring, `<a href="#map">Map</a>`)
				So(body, ShouldContainSubstring, `<div class="weather-current">sunny</div>`)
				So(body, ShouldContainSubstring, `id="cleanup-map"`)
				So(body, ShouldContainSubstring, `data-event-id="event1"`)
			})

			Convey("And event titles should be escaped", func() {
				So(body, ShouldContainSubstring, "Pasir Ris &lt;Beach&gt; Cleanup")
			})
		})

		Convey("When requesting an unknown path", func() {
			So(get(mux, "/nope").Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given an unlocated page", t, func() {
		page := &mockPage{}

		Convey("When visitor locations are not accepted", func() {
			mux := newMux(page)
			body := get(mux, "/?lat=1.38&lon=103.95").Body.String()

			Convey("Then the map placeholder should be shown", func() {
				So(page.locates, ShouldEqual, 0)
				So(body, ShouldContainSubstring, "map-unavailable")
				So(body, ShouldNotContainSubstring, `id="cleanup-map"`)
			})
		})

		Convey("When the visitor supplies a coordinate", func() {
			mux := newMux(page, WithRequestLocation(true))
			body := get(mux, "/?lat=1.38&lon=103.95").Body.String()

			Convey("Then the page should resolve it and show the map", func() {
				So(page.locates, ShouldEqual, 1)
				So(body, ShouldContainSubstring, `id="cleanup-map"`)
				So(body, ShouldContainSubstring, `data-request-location="true"`)
			})
		})

		Convey("When the coordinate is malformed", func() {
			mux := newMux(page, WithRequestLocation(true))
			w := get(mux, "/?lat=north&lon=103.95")

			Convey("Then the page should still render without a map", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "map-unavailable")
			})
		})
	})
}

func TestStaticAssets(t *testing.T) {
	Convey("Given the embedded assets", t, func() {
		mux := newMux(&mockPage{})

		Convey("Then the script and stylesheet should be served", func() {
			js := get(mux, "/static/app.js")
			So(js.Code, ShouldEqual, http.StatusOK)
			So(js.Body.String(), ShouldContainSubstring, "join-cleanup")

			css := get(mux, "/static/style.css")
			So(css.Code, ShouldEqual, http.StatusOK)
			So(css.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
		})
	})
}
