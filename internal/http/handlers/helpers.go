package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"chargebook/internal/clients"
	"chargebook/internal/http/middleware"
	"chargebook/internal/service"
	"chargebook/internal/session"
)

// envelope mirrors the backend's response wrapper so the dashboard sees one
// uniform shape end to end.
type envelope struct {
	Success  bool                `json:"success"`
	Message  string              `json:"message"`
	Data     interface{}         `json:"data,omitempty"`
	Errors   []string            `json:"errors,omitempty"`
	Fields   map[string][]string `json:"fields,omitempty"`
	Redirect string              `json:"redirect,omitempty"`
}

// SessionClearer is the store subset the error path needs: a backend 401
// wipes the session.
type SessionClearer interface {
	Clear(ctx context.Context, id string) error
}

// Responder centralises response writing and error mapping for all handlers.
type Responder struct {
	sessions SessionClearer
	logger   *zap.Logger
	secure   bool
}

// NewResponder builds the shared responder.
func NewResponder(sessions SessionClearer, logger *zap.Logger, secureCookies bool) *Responder {
	return &Responder{sessions: sessions, logger: logger, secure: secureCookies}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a success envelope.
func (rp *Responder) OK(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a success envelope with 201.
func (rp *Responder) Created(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// Error maps a service error to the uniform failure surface: validation
// failures become 422 with per-field messages, a backend 401 clears the
// session and points at login, 403 passes through, transport failures
// become 502, and decoded backend errors keep their status.
func (rp *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusUnprocessableEntity, envelope{
			Success: false,
			Message: "validation failed",
			Errors:  flattenFields(vErr.Fields),
			Fields:  vErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, clients.ErrUnauthorized):
		if sess, ok := middleware.SessionFromContext(r.Context()); ok {
			if clearErr := rp.sessions.Clear(r.Context(), sess.ID); clearErr != nil {
				rp.logger.Warn("session clear failed", zap.Error(clearErr))
			}
		}
		session.ClearCookie(w, rp.secure)
		writeJSON(w, http.StatusUnauthorized, envelope{
			Success:  false,
			Message:  "session expired, sign in again",
			Redirect: middleware.LoginPath,
		})
		return
	case errors.Is(err, clients.ErrForbidden):
		writeJSON(w, http.StatusForbidden, envelope{
			Success:  false,
			Message:  "access denied",
			Redirect: "/unauthorized",
		})
		return
	case errors.Is(err, clients.ErrUnavailable):
		rp.logger.Error("backend unavailable", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, envelope{
			Success: false,
			Message: "booking service unavailable, try again",
		})
		return
	case errors.Is(err, service.ErrNotCancellable):
		writeJSON(w, http.StatusConflict, envelope{Success: false, Message: err.Error()})
		return
	}

	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		if status >= 500 {
			rp.logger.Error("backend error", zap.Int("status", apiErr.Status), zap.Error(err))
			writeJSON(w, http.StatusBadGateway, envelope{
				Success: false,
				Message: "booking service error, try again",
			})
			return
		}
		writeJSON(w, status, envelope{Success: false, Message: apiErr.Message, Errors: apiErr.Errors})
		return
	}

	rp.logger.Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "internal error"})
}

func flattenFields(fields map[string][]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		for _, msg := range fields[name] {
			out = append(out, fmt.Sprintf("%s: %s", name, msg))
		}
	}
	return out
}

// decodeBody reads a JSON request payload.
func decodeBody(r *http.Request, out interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

// badRequest reports an undecodable payload.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: message})
}

// mustSession pulls the authenticated session; the auth middleware guarantees
// it exists on guarded routes.
func mustSession(r *http.Request) *session.Session {
	sess, _ := middleware.SessionFromContext(r.Context())
	return sess
}
