package clients

import (
	"context"
	"fmt"
	"net/http"

	"chargebook/internal/models"
)

// StationInput is the create/update payload for a charging station.
type StationInput struct {
	Name           string                `json:"name"`
	Location       models.Location       `json:"location"`
	Type           models.StationType    `json:"type"`
	TotalSlots     int                   `json:"totalSlots"`
	AvailableSlots int                   `json:"availableSlots"`
	PricePerHour   float64               `json:"pricePerHour"`
	OperatingHours models.OperatingHours `json:"operatingHours"`
	Amenities      []string              `json:"amenities,omitempty"`
}

// StationsClient talks to the backend ChargingStations resource.
type StationsClient struct {
	base *BaseClient
}

// NewStationsClient returns client.
func NewStationsClient(base *BaseClient) *StationsClient {
	return &StationsClient{base: base}
}

// List fetches all stations.
func (c *StationsClient) List(ctx context.Context, token string) ([]models.ChargingStation, error) {
	var stations []models.ChargingStation
	err := c.base.Call(ctx, http.MethodGet, "/api/ChargingStations", token, nil, &stations)
	return stations, err
}

// Get fetches one station.
func (c *StationsClient) Get(ctx context.Context, token, id string) (models.ChargingStation, error) {
	var station models.ChargingStation
	err := c.base.Call(ctx, http.MethodGet, "/api/ChargingStations/"+id, token, nil, &station)
	return station, err
}

// Nearby fetches stations within radiusKm of a point.
func (c *StationsClient) Nearby(ctx context.Context, token string, lat, lng, radiusKm float64) ([]models.ChargingStation, error) {
	var stations []models.ChargingStation
	path := fmt.Sprintf("/api/ChargingStations/nearby?lat=%f&lng=%f&radius=%f", lat, lng, radiusKm)
	err := c.base.Call(ctx, http.MethodGet, path, token, nil, &stations)
	return stations, err
}

// Create adds a station.
func (c *StationsClient) Create(ctx context.Context, token string, req StationInput) (models.ChargingStation, error) {
	var station models.ChargingStation
	err := c.base.Call(ctx, http.MethodPost, "/api/ChargingStations", token, req, &station)
	return station, err
}

// Update modifies a station.
func (c *StationsClient) Update(ctx context.Context, token, id string, req StationInput) (models.ChargingStation, error) {
	var station models.ChargingStation
	err := c.base.Call(ctx, http.MethodPut, "/api/ChargingStations/"+id, token, req, &station)
	return station, err
}

// Delete removes a station.
func (c *StationsClient) Delete(ctx context.Context, token, id string) error {
	return c.base.Call(ctx, http.MethodDelete, "/api/ChargingStations/"+id, token, nil, nil)
}

// SetActive flips the active flag.
func (c *StationsClient) SetActive(ctx context.Context, token, id string, active bool) (models.ChargingStation, error) {
	var station models.ChargingStation
	err := c.base.Call(ctx, http.MethodPatch, "/api/ChargingStations/"+id+"/active", token, map[string]bool{"isActive": active}, &station)
	return station, err
}

// UpdateSlots sets the available-slot counter.
func (c *StationsClient) UpdateSlots(ctx context.Context, token, id string, available int) (models.ChargingStation, error) {
	var station models.ChargingStation
	err := c.base.Call(ctx, http.MethodPatch, "/api/ChargingStations/"+id+"/slots", token, map[string]int{"availableSlots": available}, &station)
	return station, err
}

// AssignOperator grants a station-operator account access to the station.
func (c *StationsClient) AssignOperator(ctx context.Context, token, id, userID string) (models.ChargingStation, error) {
	var station models.ChargingStation
	err := c.base.Call(ctx, http.MethodPost, "/api/ChargingStations/"+id+"/operators", token, map[string]string{"userId": userID}, &station)
	return station, err
}

// RevokeOperator removes an operator assignment.
func (c *StationsClient) RevokeOperator(ctx context.Context, token, id, userID string) (models.ChargingStation, error) {
	var station models.ChargingStation
	err := c.base.Call(ctx, http.MethodDelete, "/api/ChargingStations/"+id+"/operators/"+userID, token, nil, &station)
	return station, err
}
