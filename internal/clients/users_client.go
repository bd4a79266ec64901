package clients

import (
	"context"
	"net/http"

	"chargebook/internal/models"
)

// UserUpdate is the mutable subset of a staff account.
type UserUpdate struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

// UsersClient talks to the backend Users resource.
type UsersClient struct {
	base *BaseClient
}

// NewUsersClient returns client.
func NewUsersClient(base *BaseClient) *UsersClient {
	return &UsersClient{base: base}
}

// List fetches all staff accounts.
func (c *UsersClient) List(ctx context.Context, token string) ([]models.User, error) {
	var users []models.User
	err := c.base.Call(ctx, http.MethodGet, "/api/Users", token, nil, &users)
	return users, err
}

// Get fetches one account by id.
func (c *UsersClient) Get(ctx context.Context, token, id string) (models.User, error) {
	var user models.User
	err := c.base.Call(ctx, http.MethodGet, "/api/Users/"+id, token, nil, &user)
	return user, err
}

// Create adds a staff account.
func (c *UsersClient) Create(ctx context.Context, token string, req UserRegistration) (models.User, error) {
	var user models.User
	err := c.base.Call(ctx, http.MethodPost, "/api/Users", token, req, &user)
	return user, err
}

// Update modifies a staff account.
func (c *UsersClient) Update(ctx context.Context, token, id string, req UserUpdate) (models.User, error) {
	var user models.User
	err := c.base.Call(ctx, http.MethodPut, "/api/Users/"+id, token, req, &user)
	return user, err
}

// Delete removes a staff account.
func (c *UsersClient) Delete(ctx context.Context, token, id string) error {
	return c.base.Call(ctx, http.MethodDelete, "/api/Users/"+id, token, nil, nil)
}

// SetActive flips the active flag. Exactly one call, carrying the new value.
func (c *UsersClient) SetActive(ctx context.Context, token, id string, active bool) (models.User, error) {
	var user models.User
	err := c.base.Call(ctx, http.MethodPatch, "/api/Users/"+id+"/active", token, map[string]bool{"isActive": active}, &user)
	return user, err
}
