// Package service drives the community page: it runs the startup sequence
// and serves the page state to the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/okian/shoresquad/internal/adapters/mq/inbox"
	"github.com/okian/shoresquad/internal/adapters/mq/queue"
	"github.com/okian/shoresquad/internal/adapters/mq/worker"
	"github.com/okian/shoresquad/internal/domain/cleanup"
	"github.com/okian/shoresquad/internal/domain/geo"
	"github.com/okian/shoresquad/internal/domain/mapview"
	"github.com/okian/shoresquad/internal/domain/model"
	"github.com/okian/shoresquad/internal/domain/weather"
	"github.com/okian/shoresquad/internal/presenter"
	"github.com/okian/shoresquad/pkg/logger"
	"github.com/okian/shoresquad/pkg/metrics"
)

const userMarkerPopup template.HTML = "Your Location"

// SeedFunc supplies the events placed on the map at startup.
type SeedFunc func() ([]cleanup.Event, error)

// Service is the page controller.
type Service struct {
	mu sync.RWMutex
	// serialises weather fetches so a retry never races startup
	fetchMu sync.Mutex

	// Collaborators
	locator   geo.Provider
	gateway   weather.Gateway
	presenter *presenter.Presenter
	seed      SeedFunc
	clock     func() time.Time

	// Configuration
	referenceDate     time.Time
	zoom              int
	tileURL           string
	tileAttribution   string
	queueSize         int
	notificationLimit int

	// State
	phase    Phase
	history  []Phase
	menu     Menu
	location *geo.Coordinate
	mapView  *mapview.Map
	events   *cleanup.Store
	region   *presenter.Region
	started  bool
	// outcome of the last completed weather fetch
	weatherOK bool

	notifications *queue.InMemoryQueue
	inbox         *inbox.Inbox
	notifier      *worker.Worker
	stopWorker    context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed sets where the startup events come from.
func WithSeed(seed SeedFunc) Option {
	return func(s *Service) {
		if seed != nil {
			s.seed = seed
		}
	}
}

// WithClock sets the time source used for the reference date and notifications.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithReferenceDate pins the date sent to the weather gateway.
func WithReferenceDate(t time.Time) Option {
	return func(s *Service) {
		s.referenceDate = weather.Date(t)
	}
}

// WithZoom sets the initial map zoom.
func WithZoom(zoom int) Option {
	return func(s *Service) {
		if zoom > 0 {
			s.zoom = zoom
		}
	}
}

// WithTiles sets the map tile source.
func WithTiles(url, attribution string) Option {
	return func(s *Service) {
		s.tileURL = url
		s.tileAttribution = attribution
	}
}

// WithQueueSize sets the notification queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithNotificationHistory sets how many undelivered-to-page notifications are kept.
func WithNotificationHistory(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.notificationLimit = limit
		}
	}
}

// New constructs a Service. Start must be called before it serves anything.
func New(locator geo.Provider, gateway weather.Gateway, p *presenter.Presenter, opts ...Option) *Service {
	s := &Service{
		locator:           locator,
		gateway:           gateway,
		presenter:         p,
		seed:              cleanup.DefaultSeed,
		clock:             time.Now,
		zoom:              mapview.DefaultZoom,
		tileURL:           mapview.DefaultTileURL,
		tileAttribution:   mapview.DefaultAttribution,
		queueSize:         64,
		notificationLimit: 50,
		phase:             PhaseIdle,
		history:           []Phase{PhaseIdle},
		region:            presenter.NewRegion(),
		logger:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the startup sequence once: navigation, location, map, weather.
// Location or weather failures degrade the page; they are not returned.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.startNotifier(ctx)
	s.menu = defaultMenu()
	s.enter(ctx, PhaseNavigationWired)
	s.mu.Unlock()

	coord, err := s.locator.Acquire(ctx)

	s.mu.Lock()
	s.applyLocation(ctx, coord, err)
	located := s.location != nil
	s.mu.Unlock()

	if !located {
		s.mu.Lock()
		s.enter(ctx, PhaseWeatherSkipped)
		s.enter(ctx, PhaseInteractive)
		s.mu.Unlock()
		return nil
	}

	s.refreshWeather(ctx)

	s.mu.Lock()
	s.enter(ctx, PhaseInteractive)
	s.mu.Unlock()
	return nil
}

// Locate retries location acquisition when startup could not resolve one,
// for instance when the coordinate arrives with a later request. A resolved
// location is never replaced.
func (s *Service) Locate(ctx context.Context) error {
	s.mu.RLock()
	resolved := s.location != nil
	started := s.started
	s.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}
	if resolved {
		return nil
	}

	coord, err := s.locator.Acquire(ctx)
	if err != nil {
		metrics.RecordLocationResolution("unavailable")
		return err
	}

	s.mu.Lock()
	if s.location != nil {
		s.mu.Unlock()
		return nil
	}
	s.applyLocation(ctx, coord, nil)
	s.mu.Unlock()

	s.refreshWeather(ctx)

	s.mu.Lock()
	s.enter(ctx, PhaseInteractive)
	s.mu.Unlock()
	return nil
}

// RetryWeather fetches and renders weather again.
func (s *Service) RetryWeather(ctx context.Context) error {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}
	s.logger.Info(ctx, "retrying weather")
	if ok := s.refreshWeather(ctx); !ok {
		return weather.ErrWeatherUnavailable
	}
	s.mu.Lock()
	if s.phase != PhaseInteractive {
		s.enter(ctx, PhaseInteractive)
	}
	s.mu.Unlock()
	return nil
}

// JoinCleanup adds one participant to the event. Unknown ids, and joins
// before the map exists, are ignored and reported with ok=false.
func (s *Service) JoinCleanup(ctx context.Context, eventID string) (cleanup.Event, bool) {
	s.mu.Lock()
	if s.events == nil {
		s.mu.Unlock()
		metrics.RecordCleanupJoinMiss()
		s.logger.Debug(ctx, "join ignored, no map", logger.String("event_id", eventID))
		return cleanup.Event{}, false
	}
	ev, err := s.events.Join(eventID)
	s.mu.Unlock()

	if err != nil {
		metrics.RecordCleanupJoinMiss()
		if !errors.Is(err, cleanup.ErrEventNotFound) {
			s.logger.Error(ctx, "join failed", logger.String("event_id", eventID), logger.Error(err))
		} else {
			s.logger.Debug(ctx, "join ignored, unknown event", logger.String("event_id", eventID))
		}
		return cleanup.Event{}, false
	}

	metrics.RecordCleanupJoin()
	n := model.NewJoinNotification(ev.ID, ev.Title, ev.Participants, s.clock())
	if !s.notifications.Enqueue(ctx, n) {
		s.logger.Warn(ctx, "notification dropped", logger.String("event_id", ev.ID))
	}
	s.logger.Info(ctx, "cleanup joined",
		logger.String("event_id", ev.ID),
		logger.Int("participants", ev.Participants),
	)
	return ev, true
}

// Stop shuts the notification worker down.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.notifier == nil {
		return nil
	}
	_ = s.notifications.Close()
	err := s.notifier.Shutdown(ctx)
	s.stopWorker()
	s.notifier = nil
	s.logger.Info(ctx, "page service stopped")
	return err
}

// Phase returns the current startup phase.
func (s *Service) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// History returns every phase entered so far, in order.
func (s *Service) History() []Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Phase(nil), s.history...)
}

// Menu returns the navigation model.
func (s *Service) Menu() Menu {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.menu
}

// Location returns the resolved coordinate, if any.
func (s *Service) Location() (geo.Coordinate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.location == nil {
		return geo.Coordinate{}, false
	}
	return *s.location, true
}

// MapView returns a snapshot of the map, or false when it was skipped.
func (s *Service) MapView() (mapview.View, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mapView == nil {
		return mapview.View{}, false
	}
	return s.mapView.Snapshot(), true
}

// Events lists the cleanup events in insertion order.
func (s *Service) Events() []cleanup.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.events == nil {
		return []cleanup.Event{}
	}
	return s.events.List()
}

// WeatherHTML returns the current weather region markup and its version.
func (s *Service) WeatherHTML() (template.HTML, uint64) {
	return s.region.HTML(), s.region.Version()
}

// WeatherAvailable reports whether the last weather fetch rendered a report.
// It is false before any fetch and after a failed one.
func (s *Service) WeatherAvailable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weatherOK
}

// Notifications drains delivered notifications.
func (s *Service) Notifications() []model.Notification {
	s.mu.RLock()
	b := s.inbox
	s.mu.RUnlock()
	if b == nil {
		return []model.Notification{}
	}
	return b.Drain()
}

// Stats summarises the page state for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":          s.started,
		"phase":            s.phase.String(),
		"locationResolved": s.location != nil,
		"weatherVersion":   s.region.Version(),
		"weatherAvailable": s.weatherOK,
		"events":           0,
		"markers":          0,
		"pendingNotices":   0,
	}
	if s.events != nil {
		stats["events"] = s.events.Len()
	}
	if s.mapView != nil {
		stats["markers"] = s.mapView.Len()
	}
	if s.notifications != nil {
		stats["pendingNotices"] = s.notifications.Len(ctx)
	}
	return stats
}

// applyLocation records the acquisition outcome and builds the map. Callers
// hold s.mu.
func (s *Service) applyLocation(ctx context.Context, coord geo.Coordinate, err error) {
	if err == nil {
		err = coord.Validate()
	}
	if err != nil {
		metrics.RecordLocationResolution("unavailable")
		s.logger.Warn(ctx, "location unavailable, map and weather skipped", logger.Error(err))
		s.enter(ctx, PhaseLocationResolved)
		s.enter(ctx, PhaseMapSkipped)
		return
	}

	metrics.RecordLocationResolution("resolved")
	s.location = &coord
	s.enter(ctx, PhaseLocationResolved)

	if err := s.initMap(ctx, coord); err != nil {
		s.logger.Error(ctx, "map initialization failed", logger.Error(err))
		s.mapView = nil
		s.events = nil
		s.enter(ctx, PhaseMapSkipped)
		return
	}
	s.enter(ctx, PhaseMapInitialized)
}

func (s *Service) initMap(ctx context.Context, center geo.Coordinate) error {
	m := mapview.New(center, s.zoom, mapview.WithTiles(s.tileURL, s.tileAttribution))
	m.AddMarker(center).BindPopup(userMarkerPopup).OpenPopup()

	store := cleanup.NewStore(m, s.presenter)
	seed, err := s.seed()
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	for _, e := range seed {
		if err := store.Add(e); err != nil {
			s.logger.Warn(ctx, "event skipped", logger.String("event_id", e.ID), logger.Error(err))
		}
	}

	s.mapView = m
	s.events = store
	metrics.UpdateMapMarkers(m.Len())
	s.logger.Info(ctx, "map initialized",
		logger.String("center", center.String()),
		logger.Int("zoom", s.zoom),
		logger.Int("events", store.Len()),
	)
	return nil
}

// refreshWeather renders the loading block, fetches and renders the result.
// It reports whether a snapshot was rendered.
func (s *Service) refreshWeather(ctx context.Context) bool {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	if err := s.presenter.RenderLoading(s.region); err != nil {
		s.logger.Error(ctx, "render loading failed", logger.Error(err))
	}

	snap, err := s.gateway.Fetch(ctx, s.reference())
	if err == nil {
		err = s.presenter.Render(s.region, snap)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn(ctx, "weather unavailable", logger.Error(err))
		if rerr := s.presenter.RenderError(s.region); rerr != nil {
			s.logger.Error(ctx, "render error block failed", logger.Error(rerr))
		}
		s.weatherOK = false
		s.enter(ctx, PhaseWeatherFailed)
		return false
	}
	s.weatherOK = true
	s.enter(ctx, PhaseWeatherResolved)
	return true
}

func (s *Service) reference() time.Time {
	if !s.referenceDate.IsZero() {
		return s.referenceDate
	}
	return weather.Date(s.clock())
}

func (s *Service) startNotifier(ctx context.Context) {
	s.notifications = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.inbox = inbox.New(s.notificationLimit)
	s.notifier = worker.New(s.notifications, s.inbox,
		worker.WithName("notifier"),
		worker.WithLogger(s.logger.Named("notifier")),
	)
	// The worker outlives the startup context.
	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.stopWorker = cancel
	go s.notifier.Run(wctx)
}

// enter moves to phase p. Callers hold s.mu.
func (s *Service) enter(ctx context.Context, p Phase) {
	s.phase = p
	s.history = append(s.history, p)
	metrics.UpdateStartupPhase(int(p))
	s.logger.Debug(ctx, "phase entered", logger.Any("phase", p))
}
