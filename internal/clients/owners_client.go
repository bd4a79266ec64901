package clients

import (
	"context"
	"net/http"

	"chargebook/internal/models"
)

// OwnerUpdate is the mutable subset of an EV-owner profile.
type OwnerUpdate struct {
	FirstName      string           `json:"firstName"`
	LastName       string           `json:"lastName"`
	Email          string           `json:"email"`
	PhoneNumber    string           `json:"phoneNumber"`
	VehicleDetails []models.Vehicle `json:"vehicleDetails,omitempty"`
}

// OwnersClient talks to the backend EVOwners resource. Owners are keyed by NIC.
type OwnersClient struct {
	base *BaseClient
}

// NewOwnersClient returns client.
func NewOwnersClient(base *BaseClient) *OwnersClient {
	return &OwnersClient{base: base}
}

// List fetches all owners.
func (c *OwnersClient) List(ctx context.Context, token string) ([]models.EVOwner, error) {
	var owners []models.EVOwner
	err := c.base.Call(ctx, http.MethodGet, "/api/EVOwners", token, nil, &owners)
	return owners, err
}

// Get fetches one owner by NIC.
func (c *OwnersClient) Get(ctx context.Context, token, nic string) (models.EVOwner, error) {
	var owner models.EVOwner
	err := c.base.Call(ctx, http.MethodGet, "/api/EVOwners/"+nic, token, nil, &owner)
	return owner, err
}

// Create registers an owner on behalf of the back office.
func (c *OwnersClient) Create(ctx context.Context, token string, req OwnerRegistration) (models.EVOwner, error) {
	var owner models.EVOwner
	err := c.base.Call(ctx, http.MethodPost, "/api/EVOwners", token, req, &owner)
	return owner, err
}

// Update modifies an owner profile.
func (c *OwnersClient) Update(ctx context.Context, token, nic string, req OwnerUpdate) (models.EVOwner, error) {
	var owner models.EVOwner
	err := c.base.Call(ctx, http.MethodPut, "/api/EVOwners/"+nic, token, req, &owner)
	return owner, err
}

// Delete removes an owner record.
func (c *OwnersClient) Delete(ctx context.Context, token, nic string) error {
	return c.base.Call(ctx, http.MethodDelete, "/api/EVOwners/"+nic, token, nil, nil)
}

// SetActive flips the active flag.
func (c *OwnersClient) SetActive(ctx context.Context, token, nic string, active bool) (models.EVOwner, error) {
	var owner models.EVOwner
	err := c.base.Call(ctx, http.MethodPatch, "/api/EVOwners/"+nic+"/active", token, map[string]bool{"isActive": active}, &owner)
	return owner, err
}

// Reactivate restores a deactivated owner account.
func (c *OwnersClient) Reactivate(ctx context.Context, token, nic string) (models.EVOwner, error) {
	var owner models.EVOwner
	err := c.base.Call(ctx, http.MethodPost, "/api/EVOwners/"+nic+"/reactivate", token, nil, &owner)
	return owner, err
}
