package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"chargebook/internal/clients"
	"chargebook/internal/service"
)

// OwnersHandlers serves the EV-owner management screens (back office) and the
// owner's own profile screen.
type OwnersHandlers struct {
	svc       *service.OwnersService
	responder *Responder
}

// NewOwnersHandlers returns handler struct.
func NewOwnersHandlers(svc *service.OwnersService, responder *Responder) *OwnersHandlers {
	return &OwnersHandlers{svc: svc, responder: responder}
}

// List handles GET /api/admin/owners?q=&active=.
func (h *OwnersHandlers) List(w http.ResponseWriter, r *http.Request) {
	filter := service.OwnerFilter{
		Query:      r.URL.Query().Get("q"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	owners, err := h.svc.List(r.Context(), mustSession(r), filter)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, owners)
}

// Get handles GET /api/admin/owners/{nic}.
func (h *OwnersHandlers) Get(w http.ResponseWriter, r *http.Request) {
	owner, err := h.svc.Get(r.Context(), mustSession(r), mux.Vars(r)["nic"])
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, owner)
}

// Create handles POST /api/admin/owners.
func (h *OwnersHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var payload clients.OwnerRegistration
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid owner payload")
		return
	}
	owner, err := h.svc.Create(r.Context(), mustSession(r), payload)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Created(w, owner)
}

// Update handles PUT /api/admin/owners/{nic}.
func (h *OwnersHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var payload clients.OwnerUpdate
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid owner payload")
		return
	}
	owner, err := h.svc.Update(r.Context(), mustSession(r), mux.Vars(r)["nic"], payload)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, owner)
}

// Delete handles DELETE /api/admin/owners/{nic}.
func (h *OwnersHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mustSession(r), mux.Vars(r)["nic"]); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "owner deleted"})
}

// SetActive handles PATCH /api/admin/owners/{nic}/active.
func (h *OwnersHandlers) SetActive(w http.ResponseWriter, r *http.Request) {
	var payload setActivePayload
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid payload")
		return
	}
	owner, err := h.svc.SetActive(r.Context(), mustSession(r), mux.Vars(r)["nic"], payload.IsActive)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, owner)
}

// Reactivate handles POST /api/admin/owners/{nic}/reactivate.
func (h *OwnersHandlers) Reactivate(w http.ResponseWriter, r *http.Request) {
	owner, err := h.svc.Reactivate(r.Context(), mustSession(r), mux.Vars(r)["nic"])
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, owner)
}

// Self handles GET /api/owner/profile: the signed-in owner's record.
func (h *OwnersHandlers) Self(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)
	owner, err := h.svc.Get(r.Context(), sess, sess.UserID)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, owner)
}

// UpdateSelf handles PUT /api/owner/profile.
func (h *OwnersHandlers) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	var payload clients.OwnerUpdate
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid profile payload")
		return
	}
	sess := mustSession(r)
	owner, err := h.svc.Update(r.Context(), sess, sess.UserID, payload)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, owner)
}

// DeactivateSelf handles POST /api/owner/profile/deactivate. Reactivation
// afterwards requires the back office.
func (h *OwnersHandlers) DeactivateSelf(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)
	owner, err := h.svc.SetActive(r.Context(), sess, sess.UserID, false)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, owner)
}
