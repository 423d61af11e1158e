// Package static implements a weather gateway returning a canned snapshot.
package static

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/shoresquad/internal/domain/weather"
)

const defaultDelay = time.Second

// Gateway serves Snapshot after a simulated network delay.
type Gateway struct {
	delay    time.Duration
	snapshot weather.Snapshot
}

// Option applies a configuration option to the Gateway.
type Option func(*Gateway)

// WithDelay sets the simulated latency. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(g *Gateway) {
		if d >= 0 {
			g.delay = d
		}
	}
}

// WithSnapshot replaces the canned payload.
func WithSnapshot(s weather.Snapshot) Option {
	return func(g *Gateway) {
		g.snapshot = s
	}
}

// New creates a static gateway serving the demo snapshot.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		delay:    defaultDelay,
		snapshot: Demo(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Fetch waits for the simulated delay and returns the canned snapshot. The
// reference date is ignored.
func (g *Gateway) Fetch(ctx context.Context, _ time.Time) (weather.Snapshot, error) {
	if g.delay > 0 {
		t := time.NewTimer(g.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return weather.Snapshot{}, fmt.Errorf("%w: %v", weather.ErrWeatherUnavailable, ctx.Err())
		case <-t.C:
		}
	}
	return clone(g.snapshot), nil
}

func clone(s weather.Snapshot) weather.Snapshot {
	out := s
	if s.Current.Temperature != nil {
		out.Current.Temperature = weather.Celsius(*s.Current.Temperature)
	}
	out.ForecastDays = append([]weather.DayForecast(nil), s.ForecastDays...)
	return out
}

// Demo is the Pasir Ris payload used for demos.
func Demo() weather.Snapshot {
	return weather.Snapshot{
		Current: weather.CurrentConditions{
			Temperature:   weather.Celsius(29.5),
			ForecastText:  "Partly Cloudy",
			Humidity:      weather.Range{Low: 65, High: 75},
			WindSpeed:     weather.Range{Low: 15, High: 25},
			WindDirection: "NE",
		},
		ForecastDays: []weather.DayForecast{
			{
				Date:         weather.MustDate("2025-06-05"),
				ForecastText: "Afternoon Thunderstorms",
				Temperature:  weather.Range{Low: 26, High: 32},
				Humidity:     weather.Range{Low: 70, High: 90},
				WindSpeed:    weather.Range{Low: 10, High: 20},
			},
			{
				Date:         weather.MustDate("2025-06-06"),
				ForecastText: "Light Rain",
				Temperature:  weather.Range{Low: 25, High: 31},
				Humidity:     weather.Range{Low: 75, High: 85},
				WindSpeed:    weather.Range{Low: 15, High: 25},
			},
			{
				Date:         weather.MustDate("2025-06-07"),
				ForecastText: "Fair and Warm",
				Temperature:  weather.Range{Low: 27, High: 33},
				Humidity:     weather.Range{Low: 60, High: 80},
				WindSpeed:    weather.Range{Low: 10, High: 20},
			},
			{
				Date:         weather.MustDate("2025-06-08"),
				ForecastText: "Sunny",
				Temperature:  weather.Range{Low: 26, High: 32},
				Humidity:     weather.Range{Low: 65, High: 75},
				WindSpeed:    weather.Range{Low: 12, High: 22},
			},
		},
	}
}
