package presenter

import (
	"fmt"
	"net/url"

	"github.com/okian/shoresquad/internal/domain/cleanup"
	"github.com/okian/shoresquad/internal/domain/weather"
)

// AbsentTemperature is shown when no station reading exists.
const AbsentTemperature = "--"

// CurrentView is the display model of current conditions.
type CurrentView struct {
	Place       string
	Temperature string
	Icon        string
	Forecast    string
	Humidity    string
	Wind        string
}

// DayView is the display model of one forecast day.
type DayView struct {
	Label       string
	Icon        string
	Temperature string
	Forecast    string
	Humidity    string
	Wind        string
}

// WeatherView is everything the weather template needs.
type WeatherView struct {
	Current CurrentView
	Days    []DayView
}

// ErrorView feeds the error block.
type ErrorView struct {
	Message  string
	RetryURL string
}

// PopupView feeds the marker popup.
type PopupView struct {
	ID           string
	Title        string
	Date         string
	Participants int
	JoinURL      string
}

// FormatTemperature renders a reading to one decimal place, or the absent placeholder.
func FormatTemperature(t *float64) string {
	if t == nil {
		return AbsentTemperature
	}
	return fmt.Sprintf("%.1f", *t)
}

func formatRange(r weather.Range) string {
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// BuildWeatherView maps a snapshot to its display model.
func (p *Presenter) BuildWeatherView(s weather.Snapshot) WeatherView {
	v := WeatherView{
		Current: CurrentView{
			Place:       p.place,
			Temperature: FormatTemperature(s.Current.Temperature),
			Icon:        Icon(s.Current.ForecastText),
			Forecast:    s.Current.ForecastText,
			Humidity:    formatRange(s.Current.Humidity),
			Wind:        formatRange(s.Current.WindSpeed),
		},
		Days: make([]DayView, 0, len(s.ForecastDays)),
	}
	for _, d := range s.ForecastDays {
		v.Days = append(v.Days, DayView{
			Label:       d.Date.Format(p.dayLayout),
			Icon:        Icon(d.ForecastText),
			Temperature: fmt.Sprintf("%d°C - %d°C", d.Temperature.Low, d.Temperature.High),
			Forecast:    d.ForecastText,
			Humidity:    formatRange(d.Humidity),
			Wind:        formatRange(d.WindSpeed),
		})
	}
	return v
}

// BuildPopupView maps an event to its popup model.
func (p *Presenter) BuildPopupView(e cleanup.Event) PopupView {
	return PopupView{
		ID:           e.ID,
		Title:        e.Title,
		Date:         e.DateString(),
		Participants: e.Participants,
		JoinURL:      "/api/events/" + url.PathEscape(e.ID) + "/join",
	}
}
