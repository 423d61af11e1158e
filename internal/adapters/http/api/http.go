// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/okian/shoresquad/internal/domain/cleanup"
	"github.com/okian/shoresquad/internal/domain/mapview"
	"github.com/okian/shoresquad/internal/domain/model"
	"github.com/okian/shoresquad/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the page service.
type Dependencies interface {
	// WeatherHTML returns the weather region markup and its version.
	WeatherHTML() (template.HTML, uint64)
	// RetryWeather fetches and renders weather again.
	RetryWeather(ctx context.Context) error
	// WeatherAvailable reports whether the last fetch rendered a report.
	WeatherAvailable() bool

	// MapView returns the map snapshot, or false when the map was skipped.
	MapView() (mapview.View, bool)
	Events() []cleanup.Event
	// JoinCleanup reports ok=false for unknown ids.
	JoinCleanup(ctx context.Context, eventID string) (cleanup.Event, bool)

	// Notifications drains delivered notifications.
	Notifications() []model.Notification
}

// StatsProvider exposes page state for monitoring.
type StatsProvider interface {
	Stats(ctx context.Context) map[string]any
}

// Server wires HTTP routes for the page API.
type Server struct {
	instrument instrument

	healthHandler        *HealthHandler
	stateHandler         *StateHandler
	weatherHandler       *WeatherHandler
	mapHandler           *MapHandler
	eventsHandler        *EventsHandler
	notificationsHandler *NotificationsHandler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the request logger. Requests are not logged by default.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.instrument.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		instrument:           instrument{log: logger.Nop()},
		healthHandler:        NewHealthHandler(),
		stateHandler:         NewStateHandler(statsProvider),
		weatherHandler:       NewWeatherHandler(deps),
		mapHandler:           NewMapHandler(deps),
		eventsHandler:        NewEventsHandler(deps),
		notificationsHandler: NewNotificationsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.instrument.wrap("healthz", s.healthHandler.HandleHealth))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /api/state", s.instrument.wrap("state", s.stateHandler.HandleState))
	mux.HandleFunc("GET /api/weather", s.instrument.wrap("weather", s.weatherHandler.HandleGetWeather))
	mux.HandleFunc("POST /api/weather/retry", s.instrument.wrap("weather_retry", s.weatherHandler.HandleRetry))
	mux.HandleFunc("GET /api/map", s.instrument.wrap("map", s.mapHandler.HandleGetMap))
	mux.HandleFunc("GET /api/events", s.instrument.wrap("events", s.eventsHandler.HandleListEvents))
	mux.HandleFunc("POST /api/events/{id}/join", s.instrument.wrap("events_join", s.eventsHandler.HandleJoin))
	mux.HandleFunc("GET /api/notifications", s.instrument.wrap("notifications", s.notificationsHandler.HandleDrain))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// encodeFailure is sent verbatim when a response body cannot be encoded.
const encodeFailure = `{"code":"encode_failed","message":"response could not be encoded"}` + "\n"

// writeJSON encodes v before touching the header so an encoding failure can
// still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(encodeFailure)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
