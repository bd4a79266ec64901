package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"chargebook/internal/clients"
	"chargebook/internal/models"
	"chargebook/internal/session"
)

type stubAuthAPI struct {
	loginCalls int
	tokens     clients.AuthTokens
	loginErr   error

	registeredOwner *clients.OwnerRegistration
	registeredUser  *clients.UserRegistration

	refreshCalls  int
	refreshTokens clients.AuthTokens
	refreshErr    error
}

func (s *stubAuthAPI) Login(ctx context.Context, req clients.LoginRequest) (clients.AuthTokens, error) {
	s.loginCalls++
	return s.tokens, s.loginErr
}

func (s *stubAuthAPI) RegisterOwner(ctx context.Context, req clients.OwnerRegistration) (models.EVOwner, error) {
	s.registeredOwner = &req
	return models.EVOwner{NIC: req.NIC}, nil
}

func (s *stubAuthAPI) RegisterUser(ctx context.Context, req clients.UserRegistration) (models.User, error) {
	s.registeredUser = &req
	return models.User{Username: req.Username, Role: req.Role}, nil
}

func (s *stubAuthAPI) ForgotPassword(ctx context.Context, email string) error { return nil }

func (s *stubAuthAPI) VerifyOTP(ctx context.Context, email, otp, newPassword string) error {
	return nil
}

func (s *stubAuthAPI) Refresh(ctx context.Context, refreshToken string) (clients.AuthTokens, error) {
	s.refreshCalls++
	return s.refreshTokens, s.refreshErr
}

type stubSessionStore struct {
	createCalls int
	created     *session.Session
	clearCalls  int
	clearedID   string
	createErr   error
	updated     *session.Session
}

func (s *stubSessionStore) Create(ctx context.Context, sess session.Session) (string, error) {
	s.createCalls++
	s.created = &sess
	if s.createErr != nil {
		return "", s.createErr
	}
	return "sess-1", nil
}

func (s *stubSessionStore) Update(ctx context.Context, sess *session.Session) error {
	s.updated = sess
	return nil
}

func (s *stubSessionStore) Clear(ctx context.Context, id string) error {
	s.clearCalls++
	s.clearedID = id
	return nil
}

type stubProfileUsers struct {
	user models.User
	err  error
}

func (s *stubProfileUsers) Get(ctx context.Context, token, id string) (models.User, error) {
	return s.user, s.err
}

type stubProfileOwners struct {
	owner models.EVOwner
	err   error
}

func (s *stubProfileOwners) Get(ctx context.Context, token, nic string) (models.EVOwner, error) {
	return s.owner, s.err
}

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newAuthService(auth *stubAuthAPI, store *stubSessionStore) *AuthService {
	return NewAuthService(auth, &stubProfileUsers{}, &stubProfileOwners{}, store, zap.NewNop())
}

func TestLoginOpensSession(t *testing.T) {
	auth := &stubAuthAPI{tokens: clients.AuthTokens{
		Token:        signTestToken(t, jwt.MapClaims{"nameid": "u-9", "role": "1"}),
		RefreshToken: "refresh",
	}}
	store := &stubSessionStore{}
	svc := newAuthService(auth, store)

	result, err := svc.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.SessionID != "sess-1" || result.UserID != "u-9" || result.Role != models.RoleBackOffice {
		t.Fatalf("unexpected result: %+v", result)
	}
	if store.createCalls != 1 {
		t.Fatalf("expected one session create, got %d", store.createCalls)
	}
	if store.created.AuthToken != auth.tokens.Token || store.created.RefreshToken != "refresh" {
		t.Fatalf("session tokens not stored: %+v", store.created)
	}
}

func TestLoginRejectionNeverCreatesSession(t *testing.T) {
	auth := &stubAuthAPI{loginErr: &clients.APIError{Status: 400, Message: "bad credentials"}}
	store := &stubSessionStore{}
	svc := newAuthService(auth, store)

	_, err := svc.Login(context.Background(), "admin", "wrong")
	var apiErr *clients.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if store.createCalls != 0 {
		t.Fatalf("rejected login must not create a session")
	}
}

func TestLoginValidationSkipsBackend(t *testing.T) {
	auth := &stubAuthAPI{}
	store := &stubSessionStore{}
	svc := newAuthService(auth, store)

	_, err := svc.Login(context.Background(), "", "")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if auth.loginCalls != 0 {
		t.Fatalf("validation failure must not reach the backend")
	}
	if store.createCalls != 0 {
		t.Fatalf("validation failure must not create a session")
	}
}

func TestLoginRejectsTokenWithoutDashboardRole(t *testing.T) {
	auth := &stubAuthAPI{tokens: clients.AuthTokens{
		Token: signTestToken(t, jwt.MapClaims{"nameid": "u-9"}),
	}}
	store := &stubSessionStore{}
	svc := newAuthService(auth, store)

	if _, err := svc.Login(context.Background(), "admin", "secret"); err == nil {
		t.Fatalf("expected error for role-less token")
	}
	if store.createCalls != 0 {
		t.Fatalf("role-less token must not create a session")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	store := &stubSessionStore{}
	svc := newAuthService(&stubAuthAPI{}, store)

	if err := svc.Logout(context.Background(), "sess-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.clearCalls != 1 || store.clearedID != "sess-1" {
		t.Fatalf("expected clear of sess-1, got %d calls for %q", store.clearCalls, store.clearedID)
	}

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("logout without session: %v", err)
	}
	if store.clearCalls != 1 {
		t.Fatalf("empty session id must not hit the store")
	}
}

func TestRegisterOwnerValidation(t *testing.T) {
	auth := &stubAuthAPI{}
	svc := newAuthService(auth, &stubSessionStore{})

	_, err := svc.RegisterOwner(context.Background(), clients.OwnerRegistration{
		NIC:             "12345",
		FirstName:       "Ama",
		LastName:        "Perera",
		Email:           "ama@example.com",
		PhoneNumber:     "0771234567",
		Password:        "hunter22x",
		ConfirmPassword: "different",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := vErr.Fields["nic"]; !ok {
		t.Fatalf("expected nic problem, got %v", vErr.Fields)
	}
	if _, ok := vErr.Fields["confirmPassword"]; !ok {
		t.Fatalf("expected confirmPassword problem, got %v", vErr.Fields)
	}
	if auth.registeredOwner != nil {
		t.Fatalf("invalid registration must not reach the backend")
	}

	owner, err := svc.RegisterOwner(context.Background(), clients.OwnerRegistration{
		NIC:             "200012345678",
		FirstName:       "Ama",
		LastName:        "Perera",
		Email:           "ama@example.com",
		PhoneNumber:     "0771234567",
		Password:        "hunter22x",
		ConfirmPassword: "hunter22x",
	})
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}
	if owner.NIC != "200012345678" || auth.registeredOwner == nil {
		t.Fatalf("registration not forwarded")
	}
}

func TestRegisterUserRejectsOwnerRole(t *testing.T) {
	auth := &stubAuthAPI{}
	svc := newAuthService(auth, &stubSessionStore{})

	_, err := svc.RegisterUser(context.Background(), clients.UserRegistration{
		Username:        "operator1",
		Email:           "op@example.com",
		Password:        "hunter22x",
		ConfirmPassword: "hunter22x",
		Role:            models.RoleEVOwner,
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if auth.registeredUser != nil {
		t.Fatalf("invalid registration must not reach the backend")
	}
}

func TestProfileResolvesByRole(t *testing.T) {
	users := &stubProfileUsers{user: models.User{ID: "user-1", Username: "admin"}}
	owners := &stubProfileOwners{owner: models.EVOwner{NIC: "user-1", FirstName: "Ama"}}
	svc := NewAuthService(&stubAuthAPI{}, users, owners, &stubSessionStore{}, zap.NewNop())

	adminProfile, err := svc.Profile(context.Background(), testSession(models.RoleBackOffice))
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if adminProfile.User == nil || adminProfile.Owner != nil {
		t.Fatalf("staff profile should carry a user record: %+v", adminProfile)
	}
	if len(adminProfile.Navigation) == 0 {
		t.Fatalf("staff profile missing navigation")
	}

	ownerProfile, err := svc.Profile(context.Background(), testSession(models.RoleEVOwner))
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if ownerProfile.Owner == nil || ownerProfile.User != nil {
		t.Fatalf("owner profile should carry an owner record: %+v", ownerProfile)
	}
}

func TestNavigationIsRoleScoped(t *testing.T) {
	admin := navigationFor(models.RoleBackOffice)
	operator := navigationFor(models.RoleStationOperator)
	owner := navigationFor(models.RoleEVOwner)

	for _, item := range admin {
		if len(item.Path) < 7 || item.Path[:7] != "/admin/" {
			t.Fatalf("admin nav leaked path %q", item.Path)
		}
	}
	for _, item := range operator {
		if len(item.Path) < 10 || item.Path[:10] != "/operator/" {
			t.Fatalf("operator nav leaked path %q", item.Path)
		}
	}
	for _, item := range owner {
		if len(item.Path) < 7 || item.Path[:7] != "/owner/" {
			t.Fatalf("owner nav leaked path %q", item.Path)
		}
	}
	if navigationFor(models.RoleUnknown) != nil {
		t.Fatalf("unknown role must have no navigation")
	}
}

func TestRefreshTokensSwapsPairInPlace(t *testing.T) {
	newToken := signTestToken(t, jwt.MapClaims{"nameid": "user-1", "role": "1"})
	auth := &stubAuthAPI{refreshTokens: clients.AuthTokens{Token: newToken, RefreshToken: "next-refresh"}}
	store := &stubSessionStore{}
	svc := newAuthService(auth, store)

	sess := testSession(models.RoleBackOffice)
	sess.RefreshToken = "old-refresh"
	if err := svc.RefreshTokens(context.Background(), sess); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if auth.refreshCalls != 1 {
		t.Fatalf("expected 1 backend refresh, got %d", auth.refreshCalls)
	}
	if store.updated == nil || store.updated.AuthToken != newToken || store.updated.RefreshToken != "next-refresh" {
		t.Fatalf("session not resealed with new pair: %+v", store.updated)
	}
	if store.updated.ID != sess.ID {
		t.Fatalf("refresh must keep the session id")
	}
}

func TestRefreshTokensRejectsSubjectSwap(t *testing.T) {
	swapped := signTestToken(t, jwt.MapClaims{"nameid": "someone-else", "role": "1"})
	auth := &stubAuthAPI{refreshTokens: clients.AuthTokens{Token: swapped, RefreshToken: "next"}}
	store := &stubSessionStore{}
	svc := newAuthService(auth, store)

	sess := testSession(models.RoleBackOffice)
	sess.RefreshToken = "old-refresh"
	if err := svc.RefreshTokens(context.Background(), sess); err == nil {
		t.Fatalf("expected error on subject change")
	}
	if store.updated != nil {
		t.Fatalf("session must not be updated on subject change")
	}
}

func TestRefreshTokensWithoutRefreshTokenIsUnauthorized(t *testing.T) {
	auth := &stubAuthAPI{}
	svc := newAuthService(auth, &stubSessionStore{})

	sess := testSession(models.RoleBackOffice)
	sess.RefreshToken = ""
	if err := svc.RefreshTokens(context.Background(), sess); !errors.Is(err, clients.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if auth.refreshCalls != 0 {
		t.Fatalf("backend must not be called without a refresh token")
	}
}
