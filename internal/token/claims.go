package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"chargebook/internal/models"
)

// Claims is the decoded bearer-token payload the dashboards care about.
// Decoding is display/routing material only: the signature is never checked
// here, the backend remains the enforcement point.
type Claims struct {
	UserID    string
	Role      models.Role
	ExpiresAt time.Time
	Issuer    string
	Audience  []string
}

// ErrNoSubject is returned when the token carries no usable user id.
var ErrNoSubject = errors.New("token: no user id claim")

type payload struct {
	NameID string `json:"nameid"`
	Sub    string `json:"sub"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Decode parses the JWT payload without verifying the signature.
func Decode(tokenString string) (*Claims, error) {
	parser := jwt.NewParser()
	var p payload
	if _, _, err := parser.ParseUnverified(tokenString, &p); err != nil {
		return nil, fmt.Errorf("token: parse: %w", err)
	}

	userID := p.NameID
	if userID == "" {
		userID = p.Sub
	}
	if userID == "" {
		return nil, ErrNoSubject
	}

	role, err := models.ParseRole(p.Role)
	if err != nil {
		return nil, err
	}

	claims := &Claims{
		UserID:   userID,
		Role:     role,
		Issuer:   p.Issuer,
		Audience: p.Audience,
	}
	if p.ExpiresAt != nil {
		claims.ExpiresAt = p.ExpiresAt.Time
	}
	return claims, nil
}

// Expired reports whether the token's expiry has passed. Tokens without an
// expiry claim are treated as live.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
