package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"chargebook/internal/audit"
	"chargebook/internal/clients"
	"chargebook/internal/models"
	"chargebook/internal/session"
	"chargebook/internal/validate"
)

// BookingsAPI is the backend bookings surface the service depends on.
type BookingsAPI interface {
	List(ctx context.Context, token string) ([]models.Booking, error)
	ListByOwner(ctx context.Context, token, nic string) ([]models.Booking, error)
	ListByStation(ctx context.Context, token, stationID string) ([]models.Booking, error)
	Get(ctx context.Context, token, id string) (models.Booking, error)
	Create(ctx context.Context, token string, req clients.BookingInput) (models.Booking, error)
	Update(ctx context.Context, token, id string, req clients.BookingInput) (models.Booking, error)
	Cancel(ctx context.Context, token, id string) (models.Booking, error)
	Approve(ctx context.Context, token, id string) (models.Booking, error)
	Start(ctx context.Context, token, id string) (models.Booking, error)
	Complete(ctx context.Context, token, id string) (models.Booking, error)
	VerifyQR(ctx context.Context, token, qrCode string) (models.Booking, error)
}

// BookingFilter narrows a booking list. Query matches owner NIC and station
// name, case-insensitive substring.
type BookingFilter struct {
	Query  string
	Status *models.BookingStatus
}

// BookingsService backs the reservation screens for all roles.
type BookingsService struct {
	client  BookingsAPI
	auditor audit.Recorder
	logger  *zap.Logger
	now     func() time.Time
}

// NewBookingsService builds the service.
func NewBookingsService(client BookingsAPI, auditor audit.Recorder, logger *zap.Logger) *BookingsService {
	return &BookingsService{client: client, auditor: auditor, logger: logger, now: time.Now}
}

// List fetches all bookings (back office view) and filters locally.
func (s *BookingsService) List(ctx context.Context, sess *session.Session, filter BookingFilter) ([]models.Booking, error) {
	bookings, err := s.client.List(ctx, sess.AuthToken)
	if err != nil {
		return nil, err
	}
	return FilterBookings(bookings, filter), nil
}

// ListForOwner fetches the signed-in owner's bookings.
func (s *BookingsService) ListForOwner(ctx context.Context, sess *session.Session, filter BookingFilter) ([]models.Booking, error) {
	bookings, err := s.client.ListByOwner(ctx, sess.AuthToken, sess.UserID)
	if err != nil {
		return nil, err
	}
	return FilterBookings(bookings, filter), nil
}

// ListForStation fetches one station's bookings (operator view).
func (s *BookingsService) ListForStation(ctx context.Context, sess *session.Session, stationID string, filter BookingFilter) ([]models.Booking, error) {
	bookings, err := s.client.ListByStation(ctx, sess.AuthToken, stationID)
	if err != nil {
		return nil, err
	}
	return FilterBookings(bookings, filter), nil
}

// FilterBookings is the pure list filter: a function of (list, filter) only.
func FilterBookings(bookings []models.Booking, filter BookingFilter) []models.Booking {
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if filter.Query != "" &&
			!containsFold(b.EVOwnerNIC, filter.Query) &&
			!containsFold(b.ChargingStationName, filter.Query) {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Get fetches one booking.
func (s *BookingsService) Get(ctx context.Context, sess *session.Session, id string) (models.Booking, error) {
	return s.client.Get(ctx, sess.AuthToken, id)
}

func (s *BookingsService) bookingSchema() validate.Schema {
	return validate.Schema{
		{Name: "chargingStationId", Rules: []validate.Rule{validate.Required()}},
		{Name: "reservationDateTime", Rules: []validate.Rule{validate.Required(), validate.FutureTime(s.now)}},
		{Name: "durationMinutes", Rules: []validate.Rule{validate.Required(), validate.IntRange(30, 480)}},
	}
}

func (s *BookingsService) checkBookingInput(req clients.BookingInput) error {
	values := validate.Values{
		"chargingStationId": req.ChargingStationID,
		"durationMinutes":   itoaDuration(req.DurationMinutes),
	}
	if !req.ReservationDateTime.IsZero() {
		values["reservationDateTime"] = req.ReservationDateTime.Format(time.RFC3339)
	}
	return validationErr(s.bookingSchema().Apply(values))
}

// Create places a reservation. A station id and a future reservation time are
// both required before any backend call is made.
func (s *BookingsService) Create(ctx context.Context, sess *session.Session, req clients.BookingInput) (models.Booking, error) {
	if sess.Role == models.RoleEVOwner {
		req.EVOwnerNIC = sess.UserID
	}
	if err := s.checkBookingInput(req); err != nil {
		return models.Booking{}, err
	}
	booking, err := s.client.Create(ctx, sess.AuthToken, req)
	recordAudit(ctx, s.auditor, s.logger, sess, "create", "booking", booking.ID, err)
	return booking, err
}

// Update modifies a reservation; the backend only accepts this while pending.
func (s *BookingsService) Update(ctx context.Context, sess *session.Session, id string, req clients.BookingInput) (models.Booking, error) {
	if err := s.checkBookingInput(req); err != nil {
		return models.Booking{}, err
	}
	booking, err := s.client.Update(ctx, sess.AuthToken, id, req)
	recordAudit(ctx, s.auditor, s.logger, sess, "update", "booking", id, err)
	return booking, err
}

// Cancel cancels a reservation. Only pending bookings may be cancelled; the
// status is checked here so the action is refused without a mutation call.
func (s *BookingsService) Cancel(ctx context.Context, sess *session.Session, id string) (models.Booking, error) {
	current, err := s.client.Get(ctx, sess.AuthToken, id)
	if err != nil {
		return models.Booking{}, err
	}
	if !current.Status.Cancellable() {
		return models.Booking{}, ErrNotCancellable
	}

	booking, err := s.client.Cancel(ctx, sess.AuthToken, id)
	recordAudit(ctx, s.auditor, s.logger, sess, "cancel", "booking", id, err)
	return booking, err
}

// Approve confirms a pending reservation (back office / operator action).
func (s *BookingsService) Approve(ctx context.Context, sess *session.Session, id string) (models.Booking, error) {
	booking, err := s.client.Approve(ctx, sess.AuthToken, id)
	recordAudit(ctx, s.auditor, s.logger, sess, "approve", "booking", id, err)
	return booking, err
}

// Start marks an approved reservation as in progress (operator action).
func (s *BookingsService) Start(ctx context.Context, sess *session.Session, id string) (models.Booking, error) {
	booking, err := s.client.Start(ctx, sess.AuthToken, id)
	recordAudit(ctx, s.auditor, s.logger, sess, "start", "booking", id, err)
	return booking, err
}

// Complete finishes an in-progress reservation (operator action).
func (s *BookingsService) Complete(ctx context.Context, sess *session.Session, id string) (models.Booking, error) {
	booking, err := s.client.Complete(ctx, sess.AuthToken, id)
	recordAudit(ctx, s.auditor, s.logger, sess, "complete", "booking", id, err)
	return booking, err
}

// VerifyQR resolves a scanned code to its booking (operator action).
func (s *BookingsService) VerifyQR(ctx context.Context, sess *session.Session, qrCode string) (models.Booking, error) {
	if qrCode == "" {
		return models.Booking{}, &ValidationError{Fields: map[string][]string{
			"qrCode": {"qrCode is required"},
		}}
	}
	return s.client.VerifyQR(ctx, sess.AuthToken, qrCode)
}

func itoaDuration(minutes int) string {
	if minutes == 0 {
		return ""
	}
	return strconv.Itoa(minutes)
}
