package api

import (
	"net/http"
)

// StateHandler handles page state requests.
type StateHandler struct {
	statsProvider StatsProvider
}

// NewStateHandler creates a new state handler.
func NewStateHandler(statsProvider StatsProvider) *StateHandler {
	return &StateHandler{statsProvider: statsProvider}
}

// HandleState handles GET /api/state requests.
func (h *StateHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.statsProvider.Stats(r.Context()))
}
