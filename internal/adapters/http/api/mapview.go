package api

import (
	"net/http"
)

// MapHandler serves the map snapshot.
type MapHandler struct {
	deps Dependencies
}

// NewMapHandler creates a new map handler.
func NewMapHandler(deps Dependencies) *MapHandler {
	return &MapHandler{deps: deps}
}

// HandleGetMap handles GET /api/map requests.
func (h *MapHandler) HandleGetMap(w http.ResponseWriter, _ *http.Request) {
	view, ok := h.deps.MapView()
	if !ok {
		writeError(w, http.StatusNotFound, "map_unavailable", ErrMapUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
