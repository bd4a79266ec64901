package handlers

import (
	"net/http"
	"strconv"

	"chargebook/internal/audit"
)

// AuditHandlers exposes the back-office audit trail.
type AuditHandlers struct {
	recorder  audit.Recorder
	responder *Responder
}

// NewAuditHandlers returns handler struct.
func NewAuditHandlers(recorder audit.Recorder, responder *Responder) *AuditHandlers {
	return &AuditHandlers{recorder: recorder, responder: responder}
}

// List handles GET /api/admin/audit?limit=.
func (h *AuditHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.recorder.ListRecent(r.Context(), limit)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	if records == nil {
		records = []audit.Record{}
	}
	h.responder.OK(w, records)
}
