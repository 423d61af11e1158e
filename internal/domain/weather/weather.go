// Package weather contains the weather snapshot model and the gateway contract.
package weather

import (
	"context"
	"errors"
	"time"
)

// ErrWeatherUnavailable reports that no snapshot could be produced.
var ErrWeatherUnavailable = errors.New("weather unavailable")

// Range is an inclusive low/high pair as published by the forecast service.
type Range struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// CurrentConditions describes the next 24 hours at the reference location.
type CurrentConditions struct {
	// Temperature is nil when no station reading was available.
	Temperature   *float64 `json:"temperature,omitempty"`
	ForecastText  string   `json:"forecast"`
	Humidity      Range    `json:"relative_humidity"`
	WindSpeed     Range    `json:"wind_speed"`
	WindDirection string   `json:"wind_direction,omitempty"`
}

// DayForecast is one entry of the multi-day outlook.
type DayForecast struct {
	Date         time.Time `json:"date"`
	ForecastText string    `json:"forecast"`
	Temperature  Range     `json:"temperature"`
	Humidity     Range     `json:"relative_humidity"`
	WindSpeed    Range     `json:"wind_speed"`
}

// Snapshot is an immutable weather payload. A new fetch replaces it wholesale.
type Snapshot struct {
	Current      CurrentConditions `json:"current"`
	ForecastDays []DayForecast     `json:"forecast_days"`
}

// Gateway produces a snapshot for a calendar date.
type Gateway interface {
	Fetch(ctx context.Context, referenceDate time.Time) (Snapshot, error)
}

// Date truncates t to its calendar date in t's location, expressed at UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MustDate parses a YYYY-MM-DD literal. It panics on malformed input and is
// meant for fixed data.
func MustDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Celsius returns a pointer to v, for building snapshots with a known temperature.
func Celsius(v float64) *float64 { return &v }
