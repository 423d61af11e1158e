package location

import (
	"context"
	"errors"
	"math"
	"net/http/httptest"
	"testing"

	"github.com/okian/shoresquad/internal/domain/geo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStatic(t *testing.T) {
	Convey("Given a static provider", t, func() {
		p := NewStatic(geo.Coordinate{Latitude: 1.381497, Longitude: 103.955574})

		Convey("When acquiring", func() {
			c, err := p.Acquire(context.Background())

			Convey("Then the pinned coordinate is returned", func() {
				So(err, ShouldBeNil)
				So(c.Latitude, ShouldEqual, 1.381497)
			})
		})

		Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := p.Acquire(ctx)

			Convey("Then the location is unavailable", func() {
				So(errors.Is(err, geo.ErrLocationUnavailable), ShouldBeTrue)
			})
		})

		Convey("When the pinned coordinate is off the globe", func() {
			_, err := NewStatic(geo.Coordinate{Latitude: 123}).Acquire(context.Background())
			So(errors.Is(err, geo.ErrLocationUnavailable), ShouldBeTrue)
		})

		Convey("When the pinned coordinate is not a number", func() {
			_, err := NewStatic(geo.Coordinate{Latitude: math.NaN(), Longitude: 103.9}).Acquire(context.Background())
			So(errors.Is(err, geo.ErrLocationUnavailable), ShouldBeTrue)
		})
	})
}

func TestNone(t *testing.T) {
	Convey("Given no geolocation capability", t, func() {
		_, err := None{}.Acquire(context.Background())
		So(errors.Is(err, geo.ErrLocationUnavailable), ShouldBeTrue)
	})
}

func TestFromRequest(t *testing.T) {
	Convey("Given a request based provider", t, func() {
		p := FromRequest{}

		Convey("When the query carries a coordinate", func() {
			r := httptest.NewRequest("GET", "/?lat=1.35&lon=103.9", nil)
			c, err := p.Acquire(WithRequest(context.Background(), r))

			Convey("Then it is parsed", func() {
				So(err, ShouldBeNil)
				So(c, ShouldResemble, geo.Coordinate{Latitude: 1.35, Longitude: 103.9})
			})
		})

		Convey("When the query is missing or malformed", func() {
			for _, q := range []string{"/", "/?lat=1", "/?lat=x&lon=1", "/?lat=1&lon=200",
				"/?lat=NaN&lon=103.9", "/?lat=1.38&lon=NaN", "/?lat=Inf&lon=103.9", "/?lat=1.38&lon=-Inf"} {
				r := httptest.NewRequest("GET", q, nil)
				_, err := p.Acquire(WithRequest(context.Background(), r))
				So(errors.Is(err, geo.ErrLocationUnavailable), ShouldBeTrue)
			}
		})

		Convey("When no request is attached", func() {
			_, err := p.Acquire(context.Background())
			So(errors.Is(err, geo.ErrLocationUnavailable), ShouldBeTrue)
		})
	})
}
