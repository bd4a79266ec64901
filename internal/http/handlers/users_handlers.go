package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"chargebook/internal/clients"
	"chargebook/internal/models"
	"chargebook/internal/service"
)

// UsersHandlers serves the back-office user management screen.
type UsersHandlers struct {
	svc       *service.UsersService
	responder *Responder
}

// NewUsersHandlers returns handler struct.
func NewUsersHandlers(svc *service.UsersService, responder *Responder) *UsersHandlers {
	return &UsersHandlers{svc: svc, responder: responder}
}

// List handles GET /api/admin/users?q=&role=&active=.
func (h *UsersHandlers) List(w http.ResponseWriter, r *http.Request) {
	filter := service.UserFilter{
		Query:      r.URL.Query().Get("q"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	if raw := r.URL.Query().Get("role"); raw != "" {
		role, err := models.ParseRole(raw)
		if err != nil {
			badRequest(w, "unknown role filter")
			return
		}
		filter.Role = &role
	}

	users, err := h.svc.List(r.Context(), mustSession(r), filter)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, users)
}

// Get handles GET /api/admin/users/{id}.
func (h *UsersHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Get(r.Context(), mustSession(r), mux.Vars(r)["id"])
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, user)
}

// Create handles POST /api/admin/users.
func (h *UsersHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var payload clients.UserRegistration
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid user payload")
		return
	}
	user, err := h.svc.Create(r.Context(), mustSession(r), payload)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Created(w, user)
}

// Update handles PUT /api/admin/users/{id}.
func (h *UsersHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var payload clients.UserUpdate
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid user payload")
		return
	}
	user, err := h.svc.Update(r.Context(), mustSession(r), mux.Vars(r)["id"], payload)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, user)
}

// Delete handles DELETE /api/admin/users/{id}.
func (h *UsersHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mustSession(r), mux.Vars(r)["id"]); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "user deleted"})
}

type setActivePayload struct {
	IsActive bool `json:"isActive"`
}

// SetActive handles PATCH /api/admin/users/{id}/active.
func (h *UsersHandlers) SetActive(w http.ResponseWriter, r *http.Request) {
	var payload setActivePayload
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid payload")
		return
	}
	user, err := h.svc.SetActive(r.Context(), mustSession(r), mux.Vars(r)["id"], payload.IsActive)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, user)
}
