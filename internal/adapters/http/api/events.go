package api

import (
	"fmt"
	"net/http"
	"strings"
)

// EventsHandler handles cleanup event requests.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleListEvents handles GET /api/events requests.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Events())
}

// HandleJoin handles POST /api/events/{id}/join requests. Unknown ids are not
// an error: the join is ignored and 204 is returned.
func (h *EventsHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", fmt.Errorf("%w: missing event id", ErrBadRequest))
		return
	}
	ev, ok := h.deps.JoinCleanup(r.Context(), id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
