package api

import (
	"html/template"
	"net/http"
	"strings"
)

type weatherResponse struct {
	HTML      template.HTML `json:"html"`
	Version   uint64        `json:"version"`
	Available bool          `json:"available"`
}

// WeatherHandler serves the weather region.
type WeatherHandler struct {
	deps Dependencies
}

// NewWeatherHandler creates a new weather handler.
func NewWeatherHandler(deps Dependencies) *WeatherHandler {
	return &WeatherHandler{deps: deps}
}

// HandleGetWeather handles GET /api/weather requests. Available is false
// while the region shows the loading or error block.
func (h *WeatherHandler) HandleGetWeather(w http.ResponseWriter, _ *http.Request) {
	html, version := h.deps.WeatherHTML()
	writeJSON(w, http.StatusOK, weatherResponse{HTML: html, Version: version, Available: h.deps.WeatherAvailable()})
}

// HandleRetry handles POST /api/weather/retry requests. Plain form posts are
// redirected back to the page; script clients get the new region.
func (h *WeatherHandler) HandleRetry(w http.ResponseWriter, r *http.Request) {
	err := h.deps.RetryWeather(r.Context())
	if !wantsJSON(r) {
		http.Redirect(w, r, "/#weather", http.StatusSeeOther)
		return
	}
	html, version := h.deps.WeatherHTML()
	writeJSON(w, http.StatusOK, weatherResponse{HTML: html, Version: version, Available: err == nil && h.deps.WeatherAvailable()})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
