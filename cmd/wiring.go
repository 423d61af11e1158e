package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/shoresquad/internal/adapters/http/api"
	"github.com/okian/shoresquad/internal/adapters/http/site"
	"github.com/okian/shoresquad/internal/adapters/location"
	"github.com/okian/shoresquad/internal/adapters/weather/live"
	"github.com/okian/shoresquad/internal/adapters/weather/static"
	service "github.com/okian/shoresquad/internal/app"
	"github.com/okian/shoresquad/internal/config"
	"github.com/okian/shoresquad/internal/domain/cleanup"
	"github.com/okian/shoresquad/internal/domain/geo"
	"github.com/okian/shoresquad/internal/domain/weather"
	"github.com/okian/shoresquad/internal/presenter"
	"github.com/okian/shoresquad/pkg/logger"
	"github.com/okian/shoresquad/pkg/metrics"
)

// metricsOptions maps the metrics settings onto the global manager.
func metricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
		metrics.WithRefreshInterval(cfg.MetricsRefresh()),
	}
}

// buildGateway selects the weather strategy and wraps it with logging and metrics.
func buildGateway(cfg *config.Config, log logger.Logger) *weather.Observed {
	var gw weather.Gateway
	switch cfg.WeatherStrategy {
	case config.WeatherLive:
		gw = live.New(cfg.WeatherBaseURL, live.WithTimeout(cfg.WeatherTimeout()))
	default:
		gw = static.New(static.WithDelay(cfg.WeatherDelay()))
	}
	return weather.Observe(cfg.WeatherStrategy, gw, log.Named("weather"))
}

func buildLocator(cfg *config.Config) geo.Provider {
	switch cfg.LocationStrategy {
	case config.LocationNone:
		return location.None{}
	case config.LocationRequest:
		return location.FromRequest{}
	default:
		return location.NewStatic(geo.Coordinate{Latitude: cfg.LocationLatitude, Longitude: cfg.LocationLongitude})
	}
}

func buildSeed(cfg *config.Config) service.SeedFunc {
	if cfg.SeedFile == "" {
		return cleanup.DefaultSeed
	}
	path := cfg.SeedFile
	return func() ([]cleanup.Event, error) { return cleanup.LoadSeed(path) }
}

// buildService assembles the page service from configuration.
func buildService(cfg *config.Config, log logger.Logger) (*service.Service, error) {
	p, err := presenter.New()
	if err != nil {
		return nil, fmt.Errorf("presenter: %w", err)
	}
	opts := []service.Option{
		service.WithLogger(log.Named("page")),
		service.WithSeed(buildSeed(cfg)),
		service.WithZoom(cfg.MapZoom),
		service.WithTiles(cfg.TileURL, cfg.TileAttribution),
		service.WithQueueSize(cfg.NotificationQueueSize),
		service.WithNotificationHistory(cfg.NotificationHistory),
	}
	if ref, ok := cfg.Reference(); ok {
		opts = append(opts, service.WithReferenceDate(ref))
	}
	return service.New(buildLocator(cfg), buildGateway(cfg, log), p, opts...), nil
}

// newMux registers the page and API routes.
func newMux(ctx context.Context, cfg *config.Config, svc *service.Service, log logger.Logger) (*http.ServeMux, error) {
	mux := http.NewServeMux()

	page, err := site.NewHandler(svc,
		site.WithRequestLocation(cfg.LocationStrategy == config.LocationRequest),
		site.WithLogger(log.Named("site")),
	)
	if err != nil {
		return nil, err
	}
	page.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc, api.WithLogger(log.Named("api")))
	apiServer.Register(ctx, mux)
	return mux, nil
}
