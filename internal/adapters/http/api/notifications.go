package api

import (
	"net/http"
)

// NotificationsHandler hands delivered notifications to the page.
type NotificationsHandler struct {
	deps Dependencies
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(deps Dependencies) *NotificationsHandler {
	return &NotificationsHandler{deps: deps}
}

// HandleDrain handles GET /api/notifications requests. Each notification is
// returned once.
func (h *NotificationsHandler) HandleDrain(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Notifications())
}
