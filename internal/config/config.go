// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers an optional .env, a YAML file and env vars on top.
// - Errors returned by Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"fmt"
	"regexp"
	"time"
)

// metricName matches a Prometheus namespace or subsystem.
var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Weather strategies.
const (
	WeatherStatic = "static"
	WeatherLive   = "live"
)

// Location strategies.
const (
	LocationStatic  = "static"
	LocationNone    = "none"
	LocationRequest = "request"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// WeatherStrategy selects the weather gateway: static or live.
	WeatherStrategy string `koanf:"weather_strategy"`

	// WeatherBaseURL is the data.gov.sg environment API root used by the live gateway.
	WeatherBaseURL string `koanf:"weather_base_url"`

	// WeatherTimeoutMS bounds each live HTTP request.
	WeatherTimeoutMS int `koanf:"weather_timeout_ms"`

	// WeatherDelayMS is the simulated latency of the static gateway.
	WeatherDelayMS int `koanf:"weather_delay_ms"`

	// ReferenceDate pins the forecast date (YYYY-MM-DD). Empty means today.
	ReferenceDate string `koanf:"reference_date"`

	// LocationStrategy selects how the visitor location is acquired: static, none or request.
	LocationStrategy string `koanf:"location_strategy"`

	// LocationLatitude and LocationLongitude feed the static location strategy.
	LocationLatitude  float64 `koanf:"location_latitude"`
	LocationLongitude float64 `koanf:"location_longitude"`

	// MapZoom is the initial zoom of the cleanup map.
	MapZoom int `koanf:"map_zoom"`

	// TileURL and TileAttribution configure the map tile layer.
	TileURL         string `koanf:"tile_url"`
	TileAttribution string `koanf:"tile_attribution"`

	// SeedFile optionally replaces the embedded seed events (YAML).
	SeedFile string `koanf:"seed_file"`

	// NotificationQueueSize bounds pending join notifications.
	NotificationQueueSize int `koanf:"notification_queue_size"`

	// NotificationHistory caps delivered notifications kept for the page.
	NotificationHistory int `koanf:"notification_history"`

	// MetricsNamespace and MetricsSubsystem prefix every exported series.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsBuckets overrides the latency histogram buckets (milliseconds),
	// e.g. "5,25,100,500" from the environment.
	MetricsBuckets []float64 `koanf:"metrics_buckets"`

	// MetricsRefreshMS is how often the system gauges are sampled.
	MetricsRefreshMS int `koanf:"metrics_refresh_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		WeatherStrategy:       WeatherStatic,
		WeatherBaseURL:        "https://api.data.gov.sg/v1/environment",
		WeatherTimeoutMS:      10_000,
		WeatherDelayMS:        1_000,
		LocationStrategy:      LocationStatic,
		LocationLatitude:      1.381497,
		LocationLongitude:     103.955574,
		MapZoom:               13,
		TileURL:               "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		TileAttribution:       `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		NotificationQueueSize: 64,
		NotificationHistory:   50,
		MetricsNamespace:      "shoresquad",
		MetricsSubsystem:      "page",
		MetricsRefreshMS:      10_000,
	}
}

// WeatherTimeout returns WeatherTimeoutMS as a duration.
func (c *Config) WeatherTimeout() time.Duration {
	return time.Duration(c.WeatherTimeoutMS) * time.Millisecond
}

// WeatherDelay returns WeatherDelayMS as a duration.
func (c *Config) WeatherDelay() time.Duration {
	return time.Duration(c.WeatherDelayMS) * time.Millisecond
}

// MetricsRefresh returns MetricsRefreshMS as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// Reference returns the pinned reference date, or ok=false when none is set.
func (c *Config) Reference() (time.Time, bool) {
	if c.ReferenceDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, c.ReferenceDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WeatherStrategy != WeatherStatic && c.WeatherStrategy != WeatherLive:
		return fmt.Errorf("%w: unknown weather_strategy %q", ErrInvalidConfig, c.WeatherStrategy)
	case c.WeatherStrategy == WeatherLive && c.WeatherBaseURL == "":
		return fmt.Errorf("%w: weather_base_url is required for the live strategy", ErrInvalidConfig)
	case c.LocationStrategy != LocationStatic && c.LocationStrategy != LocationNone && c.LocationStrategy != LocationRequest:
		return fmt.Errorf("%w: unknown location_strategy %q", ErrInvalidConfig, c.LocationStrategy)
	case c.MapZoom < 0 || c.MapZoom > 19:
		return fmt.Errorf("%w: map_zoom must be within [0, 19]", ErrInvalidConfig)
	case !metricName.MatchString(c.MetricsNamespace):
		return fmt.Errorf("%w: metrics_namespace %q is not a valid metric name", ErrInvalidConfig, c.MetricsNamespace)
	case c.MetricsSubsystem != "" && !metricName.MatchString(c.MetricsSubsystem):
		return fmt.Errorf("%w: metrics_subsystem %q is not a valid metric name", ErrInvalidConfig, c.MetricsSubsystem)
	case c.MetricsRefreshMS <= 0:
		return fmt.Errorf("%w: metrics_refresh_ms must be positive", ErrInvalidConfig)
	}
	for i := 1; i < len(c.MetricsBuckets); i++ {
		if c.MetricsBuckets[i] <= c.MetricsBuckets[i-1] {
			return fmt.Errorf("%w: metrics_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}
	if c.ReferenceDate != "" {
		if _, err := time.Parse(time.DateOnly, c.ReferenceDate); err != nil {
			return fmt.Errorf("%w: reference_date must be YYYY-MM-DD: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}
