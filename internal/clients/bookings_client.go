package clients

import (
	"context"
	"net/http"
	"time"

	"chargebook/internal/models"
)

// BookingInput is the create/update payload for a reservation.
type BookingInput struct {
	EVOwnerNIC          string    `json:"evOwnerNic"`
	ChargingStationID   string    `json:"chargingStationId"`
	ReservationDateTime time.Time `json:"reservationDateTime"`
	DurationMinutes     int       `json:"durationMinutes"`
}

// BookingsClient talks to the backend Bookings resource.
type BookingsClient struct {
	base *BaseClient
}

// NewBookingsClient returns client.
func NewBookingsClient(base *BaseClient) *BookingsClient {
	return &BookingsClient{base: base}
}

// List fetches all bookings.
func (c *BookingsClient) List(ctx context.Context, token string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := c.base.Call(ctx, http.MethodGet, "/api/Bookings", token, nil, &bookings)
	return bookings, err
}

// ListByOwner fetches bookings for one EV owner.
func (c *BookingsClient) ListByOwner(ctx context.Context, token, nic string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := c.base.Call(ctx, http.MethodGet, "/api/Bookings/owner/"+nic, token, nil, &bookings)
	return bookings, err
}

// ListByStation fetches bookings for one charging station.
func (c *BookingsClient) ListByStation(ctx context.Context, token, stationID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := c.base.Call(ctx, http.MethodGet, "/api/Bookings/station/"+stationID, token, nil, &bookings)
	return bookings, err
}

// Get fetches one booking.
func (c *BookingsClient) Get(ctx context.Context, token, id string) (models.Booking, error) {
	var booking models.Booking
	err := c.base.Call(ctx, http.MethodGet, "/api/Bookings/"+id, token, nil, &booking)
	return booking, err
}

// Create places a reservation.
func (c *BookingsClient) Create(ctx context.Context, token string, req BookingInput) (models.Booking, error) {
	var booking models.Booking
	err := c.base.Call(ctx, http.MethodPost, "/api/Bookings", token, req, &booking)
	return booking, err
}

// Update modifies a pending reservation.
func (c *BookingsClient) Update(ctx context.Context, token, id string, req BookingInput) (models.Booking, error) {
	var booking models.Booking
	err := c.base.Call(ctx, http.MethodPut, "/api/Bookings/"+id, token, req, &booking)
	return booking, err
}

// Cancel cancels a reservation.
func (c *BookingsClient) Cancel(ctx context.Context, token, id string) (models.Booking, error) {
	var booking models.Booking
	err := c.base.Call(ctx, http.MethodPost, "/api/Bookings/"+id+"/cancel", token, nil, &booking)
	return booking, err
}

// Approve confirms a pending reservation.
func (c *BookingsClient) Approve(ctx context.Context, token, id string) (models.Booking, error) {
	var booking models.Booking
	err := c.base.Call(ctx, http.MethodPost, "/api/Bookings/"+id+"/approve", token, nil, &booking)
	return booking, err
}

// Start marks an approved reservation as in progress.
func (c *BookingsClient) Start(ctx context.Context, token, id string) (models.Booking, error) {
	var booking models.Booking
	err := c.base.Call(ctx, http.MethodPost, "/api/Bookings/"+id+"/start", token, nil, &booking)
	return booking, err
}

// Complete finishes an in-progress reservation.
func (c *BookingsClient) Complete(ctx context.Context, token, id string) (models.Booking, error) {
	var booking models.Booking
	err := c.base.Call(ctx, http.MethodPost, "/api/Bookings/"+id+"/complete", token, nil, &booking)
	return booking, err
}

// VerifyQR resolves a scanned QR payload to its booking.
func (c *BookingsClient) VerifyQR(ctx context.Context, token, qrCode string) (models.Booking, error) {
	var booking models.Booking
	err := c.base.Call(ctx, http.MethodPost, "/api/Bookings/verify-qr", token, map[string]string{"qrCode": qrCode}, &booking)
	return booking, err
}
