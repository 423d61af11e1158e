// Package location implements geo.Provider strategies.
package location

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/shoresquad/internal/domain/geo"
)

// Static always reports the configured coordinate.
type Static struct {
	coord geo.Coordinate
}

// NewStatic returns a provider pinned to coord.
func NewStatic(coord geo.Coordinate) *Static {
	return &Static{coord: coord}
}

// Acquire returns the pinned coordinate unless ctx is already done.
func (s *Static) Acquire(ctx context.Context) (geo.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: %v", geo.ErrLocationUnavailable, err)
	}
	if err := s.coord.Validate(); err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: %v", geo.ErrLocationUnavailable, err)
	}
	return s.coord, nil
}

// None models a platform without a geolocation capability.
type None struct{}

// Acquire always fails.
func (None) Acquire(context.Context) (geo.Coordinate, error) {
	return geo.Coordinate{}, fmt.Errorf("%w: geolocation not supported", geo.ErrLocationUnavailable)
}

type requestKey struct{}

// WithRequest stores r on ctx so FromRequest can read the visitor's coordinate.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

// FromRequest reads "lat" and "lon" query parameters of the request carried
// on the context. The browser fills them from its geolocation API.
type FromRequest struct{}

// Acquire parses the coordinate from the request on ctx.
func (FromRequest) Acquire(ctx context.Context) (geo.Coordinate, error) {
	r, ok := ctx.Value(requestKey{}).(*http.Request)
	if !ok || r == nil {
		return geo.Coordinate{}, fmt.Errorf("%w: no request in context", geo.ErrLocationUnavailable)
	}
	return ParseQuery(r.URL.Query().Get("lat"), r.URL.Query().Get("lon"))
}

// ParseQuery converts textual latitude/longitude into a validated coordinate.
func ParseQuery(lat, lon string) (geo.Coordinate, error) {
	lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
	if lat == "" || lon == "" {
		return geo.Coordinate{}, fmt.Errorf("%w: coordinate not provided", geo.ErrLocationUnavailable)
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: latitude: %v", geo.ErrLocationUnavailable, err)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: longitude: %v", geo.ErrLocationUnavailable, err)
	}
	c := geo.Coordinate{Latitude: la, Longitude: lo}
	if err := c.Validate(); err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: %v", geo.ErrLocationUnavailable, err)
	}
	return c, nil
}
