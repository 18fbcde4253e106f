package api

import (
	"net/http"
)

// dashboardHandler serves the race viewer page.
type dashboardHandler struct{}

func newdashboardHandler() *dashboardHandler {
	return &dashboardHandler{}
}

// HandleDashboard handles GET /dashboard. The page drives a session
// through the JSON API and draws frames received over /sessions/{id}/ws.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, dashboardFS, "dashboard.html")
}
