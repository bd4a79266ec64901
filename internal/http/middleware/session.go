package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"chargebook/internal/models"
	"chargebook/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// LoginPath is the route unauthenticated callers are pointed at.
const LoginPath = "/auth/login"

// SessionReader is the store subset the middleware needs.
type SessionReader interface {
	Get(ctx context.Context, id string) (*session.Session, error)
	Refresh(ctx context.Context, id string) error
}

// SessionAuth resolves the session cookie and stores the session in the
// request context. Missing or expired sessions get a 401 with a login
// redirect hint.
func SessionAuth(store SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := session.ReadCookie(r)
			if id == "" {
				unauthorized(w, "not signed in")
				return
			}
			sess, err := store.Get(r.Context(), id)
			if err != nil {
				unauthorized(w, "session expired")
				return
			}
			// Sliding expiry: activity keeps the session alive.
			_ = store.Refresh(r.Context(), id)

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole guards a route subtree for one dashboard role.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok {
				unauthorized(w, "not signed in")
				return
			}
			if sess.Role != role {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success":  false,
					"message":  "access denied for role " + sess.Role.String(),
					"redirect": "/unauthorized",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*session.Session)
	return sess, ok
}

// ContextWithSession injects a session; test helper for handler packages.
func ContextWithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  false,
		"message":  message,
		"redirect": LoginPath,
	})
}
