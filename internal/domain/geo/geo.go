// Package geo holds the visitor coordinate and the contract for acquiring it.
package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrLocationUnavailable reports that no coordinate could be acquired.
// Callers treat it as a terminal state, not a failure of the page.
var ErrLocationUnavailable = errors.New("location unavailable")

// Coordinate is an immutable latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the coordinate lies on the globe. NaN and infinities
// are rejected; range comparisons alone let NaN through.
func (c Coordinate) Validate() error {
	if !finite(c.Latitude) || !finite(c.Longitude) {
		return fmt.Errorf("coordinate %v,%v is not finite", c.Latitude, c.Longitude)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", c.Longitude)
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// Provider acquires the visitor coordinate in a single attempt.
type Provider interface {
	Acquire(ctx context.Context) (Coordinate, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (Coordinate, error)

// Acquire calls f.
func (f ProviderFunc) Acquire(ctx context.Context) (Coordinate, error) { return f(ctx) }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
