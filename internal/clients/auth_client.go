package clients

import (
	"context"
	"net/http"

	"chargebook/internal/models"
)

// LoginRequest is the credentials payload sent to the backend.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthTokens is the credential pair issued by the backend on login/refresh.
type AuthTokens struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// OwnerRegistration is the EV-owner self-signup payload.
type OwnerRegistration struct {
	NIC             string           `json:"nic"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	Email           string           `json:"email"`
	PhoneNumber     string           `json:"phoneNumber"`
	Password        string           `json:"password"`
	ConfirmPassword string           `json:"confirmPassword"`
	VehicleDetails  []models.Vehicle `json:"vehicleDetails,omitempty"`
}

// UserRegistration creates a back-office or station-operator account.
type UserRegistration struct {
	Username        string      `json:"username"`
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	ConfirmPassword string      `json:"confirmPassword"`
	Role            models.Role `json:"role"`
}

// AuthClient talks to the backend Auth resource.
type AuthClient struct {
	base *BaseClient
}

// NewAuthClient returns client.
func NewAuthClient(base *BaseClient) *AuthClient {
	return &AuthClient{base: base}
}

// Login exchanges credentials for a token pair.
func (c *AuthClient) Login(ctx context.Context, req LoginRequest) (AuthTokens, error) {
	var tokens AuthTokens
	err := c.base.Call(ctx, http.MethodPost, "/api/Auth/login", "", req, &tokens)
	return tokens, err
}

// RegisterOwner self-registers an EV owner.
func (c *AuthClient) RegisterOwner(ctx context.Context, req OwnerRegistration) (models.EVOwner, error) {
	var owner models.EVOwner
	err := c.base.Call(ctx, http.MethodPost, "/api/Auth/register", "", req, &owner)
	return owner, err
}

// RegisterUser creates a staff account.
func (c *AuthClient) RegisterUser(ctx context.Context, req UserRegistration) (models.User, error) {
	var user models.User
	err := c.base.Call(ctx, http.MethodPost, "/api/Auth/register-user", "", req, &user)
	return user, err
}

// ForgotPassword requests a reset OTP for the given email.
func (c *AuthClient) ForgotPassword(ctx context.Context, email string) error {
	return c.base.Call(ctx, http.MethodPost, "/api/Auth/forgot-password", "", map[string]string{"email": email}, nil)
}

// VerifyOTP confirms a reset code and sets the new password.
func (c *AuthClient) VerifyOTP(ctx context.Context, email, otp, newPassword string) error {
	payload := map[string]string{"email": email, "otp": otp, "newPassword": newPassword}
	return c.base.Call(ctx, http.MethodPost, "/api/Auth/verify-otp", "", payload, nil)
}

// Refresh exchanges a refresh token for a fresh pair.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (AuthTokens, error) {
	var tokens AuthTokens
	err := c.base.Call(ctx, http.MethodPost, "/api/Auth/refresh", "", map[string]string{"refreshToken": refreshToken}, &tokens)
	return tokens, err
}
