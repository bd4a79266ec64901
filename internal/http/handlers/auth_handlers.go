package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"chargebook/internal/clients"
	"chargebook/internal/http/middleware"
	"chargebook/internal/service"
	"chargebook/internal/session"
)

// AuthHandlers serves login, registration, logout and the layout-shell
// profile endpoint.
type AuthHandlers struct {
	svc        *service.AuthService
	responder  *Responder
	logger     *zap.Logger
	sessionTTL time.Duration
	secure     bool
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(svc *service.AuthService, responder *Responder, logger *zap.Logger, sessionTTL time.Duration, secureCookies bool) *AuthHandlers {
	return &AuthHandlers{svc: svc, responder: responder, logger: logger, sessionTTL: sessionTTL, secure: secureCookies}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. A backend rejection never sets the
// session cookie.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid login payload")
		return
	}

	result, err := h.svc.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	session.WriteCookie(w, result.SessionID, h.sessionTTL, h.secure)
	h.responder.OK(w, map[string]interface{}{
		"userId":    result.UserID,
		"role":      result.Role,
		"roleLabel": result.Role.String(),
	})
}

// Logout handles POST /api/auth/logout: clears session and cookie, always.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), session.ReadCookie(r)); err != nil {
		h.logger.Warn("logout: session clear failed", zap.Error(err))
	}
	session.ClearCookie(w, h.secure)
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "signed out", Redirect: middleware.LoginPath})
}

// RegisterOwner handles POST /api/auth/register (EV-owner self signup).
func (h *AuthHandlers) RegisterOwner(w http.ResponseWriter, r *http.Request) {
	var payload clients.OwnerRegistration
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid registration payload")
		return
	}
	owner, err := h.svc.RegisterOwner(r.Context(), payload)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Created(w, owner)
}

// RegisterUser handles POST /api/auth/register-user (staff signup).
func (h *AuthHandlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var payload clients.UserRegistration
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid registration payload")
		return
	}
	user, err := h.svc.RegisterUser(r.Context(), payload)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Created(w, user)
}

type forgotPasswordPayload struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *AuthHandlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload forgotPasswordPayload
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid payload")
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), payload.Email); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "reset code sent"})
}

type verifyOTPPayload struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// VerifyOTP handles POST /api/auth/verify-otp.
func (h *AuthHandlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var payload verifyOTPPayload
	if err := decodeBody(r, &payload); err != nil {
		badRequest(w, "invalid payload")
		return
	}
	if err := h.svc.VerifyOTP(r.Context(), payload.Email, payload.OTP, payload.NewPassword); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "password updated"})
}

// Refresh handles POST /api/session/refresh: swaps the stored backend token
// pair for a fresh one. The session cookie is untouched.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RefreshTokens(r.Context(), mustSession(r)); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "session refreshed"})
}

// Me handles GET /api/me: the layout shell's profile + navigation payload.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), mustSession(r))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, profile)
}
