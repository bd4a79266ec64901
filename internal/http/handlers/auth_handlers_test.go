package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"chargebook/internal/clients"
	"chargebook/internal/models"
	"chargebook/internal/service"
	"chargebook/internal/session"
)

type stubAuthBackend struct {
	tokens   clients.AuthTokens
	loginErr error
}

func (s *stubAuthBackend) Login(ctx context.Context, req clients.LoginRequest) (clients.AuthTokens, error) {
	return s.tokens, s.loginErr
}

func (s *stubAuthBackend) RegisterOwner(ctx context.Context, req clients.OwnerRegistration) (models.EVOwner, error) {
	return models.EVOwner{NIC: req.NIC}, nil
}

func (s *stubAuthBackend) RegisterUser(ctx context.Context, req clients.UserRegistration) (models.User, error) {
	return models.User{Username: req.Username}, nil
}

func (s *stubAuthBackend) ForgotPassword(ctx context.Context, email string) error { return nil }

func (s *stubAuthBackend) VerifyOTP(ctx context.Context, email, otp, newPassword string) error {
	return nil
}

func (s *stubAuthBackend) Refresh(ctx context.Context, refreshToken string) (clients.AuthTokens, error) {
	return s.tokens, s.loginErr
}

type stubSessions struct {
	createCalls int
	clearCalls  int
}

func (s *stubSessions) Create(ctx context.Context, sess session.Session) (string, error) {
	s.createCalls++
	return "sess-1", nil
}

func (s *stubSessions) Update(ctx context.Context, sess *session.Session) error { return nil }

func (s *stubSessions) Clear(ctx context.Context, id string) error {
	s.clearCalls++
	return nil
}

type stubUserProfiles struct{}

func (stubUserProfiles) Get(ctx context.Context, token, id string) (models.User, error) {
	return models.User{ID: id}, nil
}

type stubOwnerProfiles struct{}

func (stubOwnerProfiles) Get(ctx context.Context, token, nic string) (models.EVOwner, error) {
	return models.EVOwner{NIC: nic}, nil
}

func newAuthHandlers(t *testing.T, backend *stubAuthBackend, sessions *stubSessions) *AuthHandlers {
	t.Helper()
	svc := service.NewAuthService(backend, stubUserProfiles{}, stubOwnerProfiles{}, sessions, zap.NewNop())
	responder := NewResponder(&stubClearer{}, zap.NewNop(), false)
	return NewAuthHandlers(svc, responder, zap.NewNop(), time.Hour, false)
}

func adminToken(t *testing.T) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"nameid": "u-1",
		"role":   "1",
	}).SignedString([]byte("test"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestLoginSuccessSetsCookie(t *testing.T) {
	backend := &stubAuthBackend{tokens: clients.AuthTokens{Token: adminToken(t)}}
	sessions := &stubSessions{}
	h := newAuthHandlers(t, backend, sessions)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"secret"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value != "sess-1" {
		t.Fatalf("session cookie not set: %+v", cookie)
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}
	if sessions.createCalls != 1 {
		t.Fatalf("expected one session create, got %d", sessions.createCalls)
	}

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]interface{})
	if !ok || data["roleLabel"] != "BackOffice" {
		t.Fatalf("unexpected login payload: %v", body)
	}
}

func TestLoginRejectionSetsNoCookie(t *testing.T) {
	backend := &stubAuthBackend{loginErr: &clients.APIError{Status: 400, Message: "bad credentials"}}
	sessions := &stubSessions{}
	h := newAuthHandlers(t, backend, sessions)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if sessionCookie(rec) != nil {
		t.Fatalf("rejected login must not set a cookie")
	}
	if sessions.createCalls != 0 {
		t.Fatalf("rejected login must not create a session")
	}
}

func TestLoginValidationFailure(t *testing.T) {
	h := newAuthHandlers(t, &stubAuthBackend{}, &stubSessions{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"","password":""}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if sessionCookie(rec) != nil {
		t.Fatalf("invalid login must not set a cookie")
	}
}

func TestLoginBadPayload(t *testing.T) {
	h := newAuthHandlers(t, &stubAuthBackend{}, &stubSessions{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLogoutClearsCookieAlways(t *testing.T) {
	sessions := &stubSessions{}
	h := newAuthHandlers(t, &stubAuthBackend{}, sessions)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sess-1"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("logout must expire the cookie: %+v", cookie)
	}
	if sessions.clearCalls != 1 {
		t.Fatalf("expected one session clear, got %d", sessions.clearCalls)
	}

	// Logout without a cookie still succeeds.
	rec = httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie-less logout must succeed, got %d", rec.Code)
	}
}

func TestRegisterOwnerValidationSurface(t *testing.T) {
	h := newAuthHandlers(t, &stubAuthBackend{}, &stubSessions{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"nic":"bad","email":"worse"}`))
	rec := httptest.NewRecorder()
	h.RegisterOwner(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if _, ok := body["fields"]; !ok {
		t.Fatalf("expected field problems: %v", body)
	}
}
