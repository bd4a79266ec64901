package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Role identifies which dashboard a session may use. The backend encodes roles
// as numeric codes; tokens sometimes carry the name instead, so ParseRole
// accepts both.
type Role int

const (
	RoleUnknown         Role = 0
	RoleBackOffice      Role = 1
	RoleStationOperator Role = 2
	RoleEVOwner         Role = 3
)

// String returns the display label used across the dashboards.
func (r Role) String() string {
	switch r {
	case RoleBackOffice:
		return "BackOffice"
	case RoleStationOperator:
		return "StationOperator"
	case RoleEVOwner:
		return "EVOwner"
	default:
		return "Unknown"
	}
}

// Valid reports whether the role is one of the three known dashboard roles.
func (r Role) Valid() bool {
	return r == RoleBackOffice || r == RoleStationOperator || r == RoleEVOwner
}

// ParseRole accepts a numeric code ("1") or a role name ("BackOffice", "evowner").
func ParseRole(raw string) (Role, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RoleUnknown, fmt.Errorf("role: empty value")
	}
	if code, err := strconv.Atoi(raw); err == nil {
		role := Role(code)
		if !role.Valid() {
			return RoleUnknown, fmt.Errorf("role: unknown code %d", code)
		}
		return role, nil
	}
	switch strings.ToLower(raw) {
	case "backoffice", "admin":
		return RoleBackOffice, nil
	case "stationoperator", "operator":
		return RoleStationOperator, nil
	case "evowner", "owner":
		return RoleEVOwner, nil
	}
	return RoleUnknown, fmt.Errorf("role: unknown value %q", raw)
}

// User is a back-office managed account (BackOffice or StationOperator).
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
