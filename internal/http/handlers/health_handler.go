package handlers

import "net/http"

// NewHealthHandler reports liveness.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// NotFound is the catch-all JSON 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "not found"})
}

// Unauthorized is the landing payload for role mismatches.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusForbidden, envelope{Success: false, Message: "you do not have access to this area"})
}
