package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chargebook/internal/clients"
	"chargebook/internal/models"
	"chargebook/internal/service"
)

// BookingsHandlers serves reservation screens for all three roles.
type BookingsHandlers struct {
	svc       *service.BookingsService
	responder *Responder
}

// NewBookingsHandlers returns handler struct.
func NewBookingsHandlers(svc *service.BookingsService, responder *Responder) *BookingsHandlers {
	return &BookingsHandlers{svc: svc, responder: responder}
}

func bookingFilterFromQuery(r *http.Request) (service.BookingFilter, bool) {
	filter := service.BookingFilter{Query: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("status"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil || models.BookingStatus(code).String() == "Unknown" {
			return filter, false
		}
		status := models.BookingStatus(code)
		filter.Status = &status
	}
	return filter, true
}

// List handles GET /api/admin/bookings?q=&status=.
func (h *BookingsHandlers) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := bookingFilterFromQuery(r)
	if !ok {
		badRequest(w, "unknown booking status filter")
		return
	}
	bookings, err := h.svc.List(r.Context(), mustSession(r), filter)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, bookings)
}

// ListMine handles GET /api/owner/bookings.
func (h *BookingsHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	filter, ok := bookingFilterFromQuery(r)
	if !ok {
		badRequest(w, "unknown booking status filter")
		return
	}
	bookings, err := h.svc.ListForOwner(r.Context(), mustSession(r), filter)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, bookings)
}

// ListByStation handles GET /api/operator/stations/{id}/bookings.
func (h *BookingsHandlers) ListByStation(w http.ResponseWriter, r *http.Request) {
	filter, ok := bookingFilterFromQuery(r)
	if !ok {
		badRequest(w, "unknown booking status filter")
		return
	}
	bookings, err := h.svc.ListForStation(r.Context(), mustSession(r), mux.Vars(r)["id"], filter)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, bookings)
}

// Get handles GET booking by id.
func (h *BookingsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.svc.Get(r.Context(), mustSession(r), mux.Vars(r)["id"])
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, booking)
}

// Create handles POST /api/{owner,admin}/bookings.
func (h *BookingsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var payload clients.BookingInput
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid booking payload")
		return
	}
	booking, err := h.svc.Create(r.Context(), mustSession(r), payload)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Created(w, booking)
}

// Update handles PUT booking by id.
func (h *BookingsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var payload clients.BookingInput
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid booking payload")
		return
	}
	booking, err := h.svc.Update(r.Context(), mustSession(r), mux.Vars(r)["id"], payload)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, booking)
}

// Cancel handles POST booking cancel. Refused unless the booking is pending.
func (h *BookingsHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	booking, err := h.svc.Cancel(r.Context(), mustSession(r), mux.Vars(r)["id"])
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, booking)
}

// Approve handles POST booking approve.
func (h *BookingsHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	booking, err := h.svc.Approve(r.Context(), mustSession(r), mux.Vars(r)["id"])
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, booking)
}

// Start handles POST booking start (operator).
func (h *BookingsHandlers) Start(w http.ResponseWriter, r *http.Request) {
	booking, err := h.svc.Start(r.Context(), mustSession(r), mux.Vars(r)["id"])
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, booking)
}

// Complete handles POST booking complete (operator).
func (h *BookingsHandlers) Complete(w http.ResponseWriter, r *http.Request) {
	booking, err := h.svc.Complete(r.Context(), mustSession(r), mux.Vars(r)["id"])
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, booking)
}

type verifyQRPayload struct {
	QRCode string `json:"qrCode"`
}

// VerifyQR handles POST /api/operator/bookings/verify-qr.
func (h *BookingsHandlers) VerifyQR(w http.ResponseWriter, r *http.Request) {
	var payload verifyQRPayload
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid payload")
		return
	}
	booking, err := h.svc.VerifyQR(r.Context(), mustSession(r), payload.QRCode)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, booking)
}
