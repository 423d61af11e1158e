// Package site renders the community page and serves its static assets.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/okian/shoresquad/internal/adapters/location"
	service "github.com/okian/shoresquad/internal/app"
	"github.com/okian/shoresquad/internal/domain/cleanup"
	"github.com/okian/shoresquad/internal/domain/geo"
	"github.com/okian/shoresquad/pkg/logger"
)

//go:embed static/*
var staticFS embed.FS

//go:embed templates/*.html
var templateFS embed.FS

// Error constants
var (
	ErrRender = errors.New("page render failed")
)

// Page is what the handler needs from the page service.
type Page interface {
	Menu() service.Menu
	WeatherHTML() (template.HTML, uint64)
	Events() []cleanup.Event
	Location() (geo.Coordinate, bool)
	Locate(ctx context.Context) error
}

type pageView struct {
	Menu            service.Menu
	Weather         template.HTML
	Events          []cleanup.Event
	Located         bool
	RequestLocation bool
}

// Handler serves the page.
type Handler struct {
	page            Page
	tmpl            *template.Template
	requestLocation bool
	logger          logger.Logger
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithRequestLocation lets visitors supply the coordinate via lat/lon query
// parameters when startup could not resolve one.
func WithRequestLocation(enabled bool) Option {
	return func(h *Handler) { h.requestLocation = enabled }
}

// WithLogger sets a custom logger for the handler.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler parses the page template.
func NewHandler(page Page, opts ...Option) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	h := &Handler{page: page, tmpl: tmpl, logger: logger.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Register attaches the page and static routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", h.HandleRoot)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
}

// HandleRoot handles GET / requests.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.page.Location(); !ok && h.requestLocation && r.URL.Query().Has("lat") {
		if err := h.page.Locate(location.WithRequest(ctx, r)); err != nil {
			h.logger.Warn(ctx, "visitor location rejected", logger.Error(err))
		}
	}

	_, located := h.page.Location()
	html, _ := h.page.WeatherHTML()
	view := pageView{
		Menu:            h.page.Menu(),
		Weather:         html,
		Events:          h.page.Events(),
		Located:         located,
		RequestLocation: h.requestLocation,
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "page", view); err != nil {
		h.logger.Error(ctx, "render page", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// FS returns an http.FileSystem for the embedded assets.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
