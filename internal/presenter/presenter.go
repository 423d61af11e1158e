// Package presenter turns weather snapshots and cleanup events into page
// markup. Data is first mapped to typed view models; html/template does the
// escaping.
package presenter

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/okian/shoresquad/internal/domain/cleanup"
	"github.com/okian/shoresquad/internal/domain/weather"
	"github.com/okian/shoresquad/pkg/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// Defaults.
const (
	DefaultPlace     = "Pasir Ris"
	DefaultDayLayout = "Mon, Jan 2"
	DefaultRetryURL  = "/api/weather/retry"
	errorMessage     = "Unable to load weather data. Please try again later."
)

// Presenter renders the weather region and event popups.
type Presenter struct {
	tmpl      *template.Template
	place     string
	dayLayout string
	retryURL  string
}

// Option applies a configuration option to the Presenter.
type Option func(*Presenter)

// WithPlace sets the place named in the current-weather heading.
func WithPlace(place string) Option {
	return func(p *Presenter) {
		if place != "" {
			p.place = place
		}
	}
}

// WithDayLayout sets the time layout used for forecast day labels.
func WithDayLayout(layout string) Option {
	return func(p *Presenter) {
		if layout != "" {
			p.dayLayout = layout
		}
	}
}

// WithRetryURL sets where the retry control posts to.
func WithRetryURL(url string) Option {
	return func(p *Presenter) {
		if url != "" {
			p.retryURL = url
		}
	}
}

// New parses the embedded templates.
func New(opts ...Option) (*Presenter, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	p := &Presenter{
		tmpl:      tmpl,
		place:     DefaultPlace,
		dayLayout: DefaultDayLayout,
		retryURL:  DefaultRetryURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// MustNew is New that panics on error. The templates are embedded, so an
// error here is a build defect.
func MustNew(opts ...Option) *Presenter {
	p, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Present renders a snapshot without side effects.
func (p *Presenter) Present(s weather.Snapshot) (template.HTML, error) {
	return p.execute("weather", p.BuildWeatherView(s))
}

// Render replaces the region with the snapshot markup.
func (p *Presenter) Render(region *Region, s weather.Snapshot) error {
	if region == nil {
		return nil
	}
	html, err := p.Present(s)
	if err != nil {
		return err
	}
	region.Replace(html)
	metrics.RecordWeatherRender("snapshot")
	return nil
}

// RenderError replaces the region with the error block and its retry control.
func (p *Presenter) RenderError(region *Region) error {
	if region == nil {
		return nil
	}
	html, err := p.execute("weather-error", ErrorView{Message: errorMessage, RetryURL: p.retryURL})
	if err != nil {
		return err
	}
	region.Replace(html)
	metrics.RecordWeatherRender("error")
	return nil
}

// RenderLoading replaces the region with the loading indicator.
func (p *Presenter) RenderLoading(region *Region) error {
	if region == nil {
		return nil
	}
	html, err := p.execute("weather-loading", nil)
	if err != nil {
		return err
	}
	region.Replace(html)
	metrics.RecordWeatherRender("loading")
	return nil
}

// Popup renders the marker popup of an event. It satisfies cleanup.PopupRenderer.
func (p *Presenter) Popup(e cleanup.Event) (template.HTML, error) {
	return p.execute("popup", p.BuildPopupView(e))
}

func (p *Presenter) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}
