package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"chargebook/internal/clients"
	"chargebook/internal/models"
	"chargebook/internal/session"
	"chargebook/internal/token"
	"chargebook/internal/validate"
)

// AuthAPI is the backend auth surface the service depends on.
type AuthAPI interface {
	Login(ctx context.Context, req clients.LoginRequest) (clients.AuthTokens, error)
	RegisterOwner(ctx context.Context, req clients.OwnerRegistration) (models.EVOwner, error)
	RegisterUser(ctx context.Context, req clients.UserRegistration) (models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp, newPassword string) error
	Refresh(ctx context.Context, refreshToken string) (clients.AuthTokens, error)
}

// ProfileUsersAPI fetches staff profiles for the layout shell.
type ProfileUsersAPI interface {
	Get(ctx context.Context, token, id string) (models.User, error)
}

// ProfileOwnersAPI fetches owner profiles for the layout shell.
type ProfileOwnersAPI interface {
	Get(ctx context.Context, token, nic string) (models.EVOwner, error)
}

// SessionStore is the credential authority the service writes through.
type SessionStore interface {
	Create(ctx context.Context, sess session.Session) (string, error)
	Update(ctx context.Context, sess *session.Session) error
	Clear(ctx context.Context, id string) error
}

// LoginResult is handed back to the login handler on success.
type LoginResult struct {
	SessionID string
	UserID    string
	Role      models.Role
}

// NavItem is one sidebar entry of the role-scoped dashboard shell.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Profile is the layout-shell payload: who is signed in and what they can see.
type Profile struct {
	UserID     string           `json:"userId"`
	Role       models.Role      `json:"role"`
	RoleLabel  string           `json:"roleLabel"`
	User       *models.User     `json:"user,omitempty"`
	Owner      *models.EVOwner  `json:"owner,omitempty"`
	Navigation []NavItem        `json:"navigation"`
}

// AuthService owns login, registration, logout and profile resolution.
type AuthService struct {
	auth     AuthAPI
	users    ProfileUsersAPI
	owners   ProfileOwnersAPI
	sessions SessionStore
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(auth AuthAPI, users ProfileUsersAPI, owners ProfileOwnersAPI, sessions SessionStore, logger *zap.Logger) *AuthService {
	return &AuthService{auth: auth, users: users, owners: owners, sessions: sessions, logger: logger}
}

var loginSchema = validate.Schema{
	{Name: "username", Rules: []validate.Rule{validate.Required()}},
	{Name: "password", Rules: []validate.Rule{validate.Required()}},
}

// Login authenticates against the backend and opens a session. A backend
// rejection never creates a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if err := validationErr(loginSchema.Apply(validate.Values{
		"username": username,
		"password": password,
	})); err != nil {
		return nil, err
	}

	tokens, err := s.auth.Login(ctx, clients.LoginRequest{Username: strings.TrimSpace(username), Password: password})
	if err != nil {
		return nil, err
	}

	claims, err := token.Decode(tokens.Token)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("login: token carries no dashboard role")
	}

	id, err := s.sessions.Create(ctx, session.Session{
		UserID:       claims.UserID,
		Role:         claims.Role,
		AuthToken:    tokens.Token,
		RefreshToken: tokens.RefreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("login: store session: %w", err)
	}

	s.logger.Info("session opened",
		zap.String("user_id", claims.UserID),
		zap.String("role", claims.Role.String()))

	return &LoginResult{SessionID: id, UserID: claims.UserID, Role: claims.Role}, nil
}

// RefreshTokens exchanges the session's refresh token for a new pair and
// reseals the session under the same id. The cookie stays valid throughout.
func (s *AuthService) RefreshTokens(ctx context.Context, sess *session.Session) error {
	if sess.RefreshToken == "" {
		return clients.ErrUnauthorized
	}
	tokens, err := s.auth.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		return err
	}
	claims, err := token.Decode(tokens.Token)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if claims.UserID != sess.UserID {
		return fmt.Errorf("refresh: token subject changed")
	}

	sess.AuthToken = tokens.Token
	sess.RefreshToken = tokens.RefreshToken
	if err := s.sessions.Update(ctx, sess); err != nil {
		return fmt.Errorf("refresh: store session: %w", err)
	}
	return nil
}

// Logout clears the session unconditionally.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Clear(ctx, sessionID)
}

var ownerRegistrationSchema = validate.Schema{
	{Name: "nic", Rules: []validate.Rule{validate.Required(), validate.NICFormat()}},
	{Name: "firstName", Rules: []validate.Rule{validate.Required(), validate.MaxLen(64)}},
	{Name: "lastName", Rules: []validate.Rule{validate.Required(), validate.MaxLen(64)}},
	{Name: "email", Rules: []validate.Rule{validate.Required(), validate.Email()}},
	{Name: "phoneNumber", Rules: []validate.Rule{validate.Required(), validate.MinLen(9)}},
	{Name: "password", Rules: []validate.Rule{validate.Required(), validate.MinLen(8)}},
	{Name: "confirmPassword", Rules: []validate.Rule{validate.Required(), validate.MatchesField("password")}},
}

// RegisterOwner validates and forwards an EV-owner signup.
func (s *AuthService) RegisterOwner(ctx context.Context, req clients.OwnerRegistration) (models.EVOwner, error) {
	problems := ownerRegistrationSchema.Apply(validate.Values{
		"nic":             req.NIC,
		"firstName":       req.FirstName,
		"lastName":        req.LastName,
		"email":           req.Email,
		"phoneNumber":     req.PhoneNumber,
		"password":        req.Password,
		"confirmPassword": req.ConfirmPassword,
	})
	if err := validationErr(problems); err != nil {
		return models.EVOwner{}, err
	}
	return s.auth.RegisterOwner(ctx, req)
}

var userRegistrationSchema = validate.Schema{
	{Name: "username", Rules: []validate.Rule{validate.Required(), validate.MinLen(3), validate.MaxLen(32)}},
	{Name: "email", Rules: []validate.Rule{validate.Required(), validate.Email()}},
	{Name: "password", Rules: []validate.Rule{validate.Required(), validate.MinLen(8)}},
	{Name: "confirmPassword", Rules: []validate.Rule{validate.Required(), validate.MatchesField("password")}},
	{Name: "role", Rules: []validate.Rule{validate.Required(), validate.OneOf("1", "2")}},
}

// RegisterUser validates and forwards a staff-account signup. Only BackOffice
// and StationOperator roles can be created this way.
func (s *AuthService) RegisterUser(ctx context.Context, req clients.UserRegistration) (models.User, error) {
	problems := userRegistrationSchema.Apply(validate.Values{
		"username":        req.Username,
		"email":           req.Email,
		"password":        req.Password,
		"confirmPassword": req.ConfirmPassword,
		"role":            fmt.Sprintf("%d", req.Role),
	})
	if err := validationErr(problems); err != nil {
		return models.User{}, err
	}
	return s.auth.RegisterUser(ctx, req)
}

// ForgotPassword forwards a reset request.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	problems := validate.Schema{
		{Name: "email", Rules: []validate.Rule{validate.Required(), validate.Email()}},
	}.Apply(validate.Values{"email": email})
	if err := validationErr(problems); err != nil {
		return err
	}
	return s.auth.ForgotPassword(ctx, strings.TrimSpace(email))
}

// VerifyOTP forwards a reset confirmation.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp, newPassword string) error {
	problems := validate.Schema{
		{Name: "email", Rules: []validate.Rule{validate.Required(), validate.Email()}},
		{Name: "otp", Rules: []validate.Rule{validate.Required(), validate.MinLen(4)}},
		{Name: "newPassword", Rules: []validate.Rule{validate.Required(), validate.MinLen(8)}},
	}.Apply(validate.Values{"email": email, "otp": otp, "newPassword": newPassword})
	if err := validationErr(problems); err != nil {
		return err
	}
	return s.auth.VerifyOTP(ctx, strings.TrimSpace(email), otp, newPassword)
}

// Profile resolves the layout-shell payload for the signed-in session.
func (s *AuthService) Profile(ctx context.Context, sess *session.Session) (*Profile, error) {
	profile := &Profile{
		UserID:     sess.UserID,
		Role:       sess.Role,
		RoleLabel:  sess.Role.String(),
		Navigation: navigationFor(sess.Role),
	}

	switch sess.Role {
	case models.RoleEVOwner:
		owner, err := s.owners.Get(ctx, sess.AuthToken, sess.UserID)
		if err != nil {
			return nil, err
		}
		profile.Owner = &owner
	default:
		user, err := s.users.Get(ctx, sess.AuthToken, sess.UserID)
		if err != nil {
			return nil, err
		}
		profile.User = &user
	}
	return profile, nil
}

func navigationFor(role models.Role) []NavItem {
	switch role {
	case models.RoleBackOffice:
		return []NavItem{
			{Label: "Dashboard", Path: "/admin/dashboard"},
			{Label: "Users", Path: "/admin/users"},
			{Label: "EV Owners", Path: "/admin/owners"},
			{Label: "Charging Stations", Path: "/admin/stations"},
			{Label: "Bookings", Path: "/admin/bookings"},
			{Label: "Audit Trail", Path: "/admin/audit"},
		}
	case models.RoleStationOperator:
		return []NavItem{
			{Label: "Dashboard", Path: "/operator/dashboard"},
			{Label: "My Stations", Path: "/operator/stations"},
			{Label: "Bookings", Path: "/operator/bookings"},
			{Label: "Scan QR", Path: "/operator/scan"},
		}
	case models.RoleEVOwner:
		return []NavItem{
			{Label: "Dashboard", Path: "/owner/dashboard"},
			{Label: "Find Stations", Path: "/owner/stations"},
			{Label: "My Bookings", Path: "/owner/bookings"},
			{Label: "Profile", Path: "/owner/profile"},
		}
	default:
		return nil
	}
}
