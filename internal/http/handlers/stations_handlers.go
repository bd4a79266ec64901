package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chargebook/internal/clients"
	"chargebook/internal/models"
	"chargebook/internal/service"
)

// StationsHandlers serves station screens for all three roles.
type StationsHandlers struct {
	svc       *service.StationsService
	responder *Responder
}

// NewStationsHandlers returns handler struct.
func NewStationsHandlers(svc *service.StationsService, responder *Responder) *StationsHandlers {
	return &StationsHandlers{svc: svc, responder: responder}
}

func stationFilterFromQuery(r *http.Request) (service.StationFilter, error) {
	filter := service.StationFilter{
		Query:         r.URL.Query().Get("q"),
		ActiveOnly:    r.URL.Query().Get("active") == "true",
		AvailableOnly: r.URL.Query().Get("available") == "true",
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil || !models.StationType(code).Valid() {
			return filter, errBadStationType
		}
		t := models.StationType(code)
		filter.Type = &t
	}
	return filter, nil
}

var errBadStationType = &badFilterError{"unknown station type filter"}

type badFilterError struct{ msg string }

func (e *badFilterError) Error() string { return e.msg }

// List handles GET /api/{admin,owner}/stations?q=&type=&active=&available=.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	filter, err := stationFilterFromQuery(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	stations, err := h.svc.List(r.Context(), mustSession(r), filter)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, stations)
}

// ListMine handles GET /api/operator/stations: only assigned stations.
func (h *StationsHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	filter, err := stationFilterFromQuery(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	stations, err := h.svc.ListForOperator(r.Context(), mustSession(r), filter)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, stations)
}

// Nearby handles GET /api/owner/stations/nearby?lat=&lng=&radius=.
func (h *StationsHandlers) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		badRequest(w, "lat and lng are required")
		return
	}
	radius, _ := strconv.ParseFloat(r.URL.Query().Get("radius"), 64)

	stations, err := h.svc.Nearby(r.Context(), mustSession(r), lat, lng, radius)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, stations)
}

// Get handles GET station by id.
func (h *StationsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	station, err := h.svc.Get(r.Context(), mustSession(r), mux.Vars(r)["id"])
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, station)
}

// Create handles POST /api/admin/stations.
func (h *StationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var payload clients.StationInput
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid station payload")
		return
	}
	station, err := h.svc.Create(r.Context(), mustSession(r), payload)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Created(w, station)
}

// Update handles PUT /api/admin/stations/{id}.
func (h *StationsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var payload clients.StationInput
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid station payload")
		return
	}
	station, err := h.svc.Update(r.Context(), mustSession(r), mux.Vars(r)["id"], payload)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, station)
}

// Delete handles DELETE /api/admin/stations/{id}.
func (h *StationsHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mustSession(r), mux.Vars(r)["id"]); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "station deleted"})
}

// SetActive handles PATCH /api/admin/stations/{id}/active.
func (h *StationsHandlers) SetActive(w http.ResponseWriter, r *http.Request) {
	var payload setActivePayload
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid payload")
		return
	}
	station, err := h.svc.SetActive(r.Context(), mustSession(r), mux.Vars(r)["id"], payload.IsActive)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, station)
}

type updateSlotsPayload struct {
	AvailableSlots int `json:"availableSlots"`
	TotalSlots     int `json:"totalSlots"`
}

// UpdateSlots handles PATCH /api/{admin,operator}/stations/{id}/slots. The
// slot bound is checked before any backend call.
func (h *StationsHandlers) UpdateSlots(w http.ResponseWriter, r *http.Request) {
	var payload updateSlotsPayload
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid payload")
		return
	}
	station, err := h.svc.UpdateSlots(r.Context(), mustSession(r), mux.Vars(r)["id"], payload.AvailableSlots, payload.TotalSlots)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, station)
}

type operatorPayload struct {
	UserID string `json:"userId"`
}

// AssignOperator handles POST /api/admin/stations/{id}/operators.
func (h *StationsHandlers) AssignOperator(w http.ResponseWriter, r *http.Request) {
	var payload operatorPayload
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid payload")
		return
	}
	station, err := h.svc.AssignOperator(r.Context(), mustSession(r), mux.Vars(r)["id"], payload.UserID)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, station)
}

// RevokeOperator handles DELETE /api/admin/stations/{id}/operators/{userId}.
func (h *StationsHandlers) RevokeOperator(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	station, err := h.svc.RevokeOperator(r.Context(), mustSession(r), vars["id"], vars["userId"])
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, station)
}
