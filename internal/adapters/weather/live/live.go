// Package live implements the weather gateway against the data.gov.sg
// environment API.
package live

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/okian/shoresquad/internal/domain/weather"
)

const (
	defaultTimeout = 10 * time.Second

	forecast24hPath    = "/24-hour-weather-forecast"
	forecast4dayPath   = "/4-day-weather-forecast"
	airTemperaturePath = "/air-temperature"
)

// DefaultStations lists temperature stations by preference:
// Pasir Ris, Changi, Tampines.
var DefaultStations = []string{"S50", "S104", "S107"}

// Gateway issues three sequential requests scoped to the same date.
type Gateway struct {
	client   *resty.Client
	stations []string
}

// Option applies a configuration option to the Gateway.
type Option func(*Gateway)

// WithTimeout bounds each HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.client.SetTimeout(d)
		}
	}
}

// WithStations overrides the station preference list.
func WithStations(ids ...string) Option {
	return func(g *Gateway) {
		if len(ids) > 0 {
			g.stations = append([]string(nil), ids...)
		}
	}
}

// WithClient replaces the resty client. The base URL passed to New is kept.
func WithClient(c *resty.Client) Option {
	return func(g *Gateway) {
		if c != nil {
			c.SetBaseURL(g.client.BaseURL)
			g.client = c
		}
	}
}

// New creates a live gateway rooted at baseURL, e.g.
// https://api.data.gov.sg/v1/environment.
func New(baseURL string, opts ...Option) *Gateway {
	g := &Gateway{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
		stations: DefaultStations,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Fetch builds a snapshot from the 24-hour forecast, the 4-day outlook and the
// station temperatures. The first two are required; the temperature degrades
// to absent.
func (g *Gateway) Fetch(ctx context.Context, referenceDate time.Time) (weather.Snapshot, error) {
	date := referenceDate.Format(time.DateOnly)

	var day forecast24h
	if err := g.get(ctx, forecast24hPath, date, &day); err != nil {
		return weather.Snapshot{}, err
	}
	if len(day.Items) == 0 {
		return weather.Snapshot{}, fmt.Errorf("%w: %s returned no items", weather.ErrWeatherUnavailable, forecast24hPath)
	}

	var outlook forecast4day
	if err := g.get(ctx, forecast4dayPath, date, &outlook); err != nil {
		return weather.Snapshot{}, err
	}
	if len(outlook.Items) == 0 {
		return weather.Snapshot{}, fmt.Errorf("%w: %s returned no items", weather.ErrWeatherUnavailable, forecast4dayPath)
	}

	snap := weather.Snapshot{
		Current:      day.Items[0].General.toCurrent(),
		ForecastDays: outlook.Items[0].toDays(),
	}

	var temps airTemperature
	if err := g.get(ctx, airTemperaturePath, date, &temps); err == nil {
		snap.Current.Temperature = temps.station(g.stations)
	}
	return snap, nil
}

func (g *Gateway) get(ctx context.Context, path, date string, out any) error {
	// The body is decoded as JSON whatever content type the API reports;
	// decode failures surface as the request error.
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("date", date).
		ForceContentType("application/json").
		SetResult(out).
		Get(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", weather.ErrWeatherUnavailable, path, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: %s: status %d", weather.ErrWeatherUnavailable, path, resp.StatusCode())
	}
	return nil
}
