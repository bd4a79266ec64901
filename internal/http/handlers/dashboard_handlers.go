package handlers

import (
	"net/http"

	"chargebook/internal/service"
)

// DashboardHandlers serves the per-role summary tiles.
type DashboardHandlers struct {
	svc       *service.DashboardService
	responder *Responder
}

// NewDashboardHandlers returns handler struct.
func NewDashboardHandlers(svc *service.DashboardService, responder *Responder) *DashboardHandlers {
	return &DashboardHandlers{svc: svc, responder: responder}
}

// Admin handles GET /api/admin/dashboard. Panels resolve independently, so
// the response is always 200 with per-panel errors where fetches failed.
func (h *DashboardHandlers) Admin(w http.ResponseWriter, r *http.Request) {
	h.responder.OK(w, h.svc.Admin(r.Context(), mustSession(r)))
}

// Operator handles GET /api/operator/dashboard.
func (h *DashboardHandlers) Operator(w http.ResponseWriter, r *http.Request) {
	h.responder.OK(w, h.svc.Operator(r.Context(), mustSession(r)))
}

// Owner handles GET /api/owner/dashboard.
func (h *DashboardHandlers) Owner(w http.ResponseWriter, r *http.Request) {
	h.responder.OK(w, h.svc.Owner(r.Context(), mustSession(r)))
}
