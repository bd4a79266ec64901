package service

import (
	"context"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"chargebook/internal/audit"
	"chargebook/internal/clients"
	"chargebook/internal/models"
	"chargebook/internal/session"
	"chargebook/internal/validate"
)

// StationsAPI is the backend charging-stations surface the service depends on.
type StationsAPI interface {
	List(ctx context.Context, token string) ([]models.ChargingStation, error)
	Get(ctx context.Context, token, id string) (models.ChargingStation, error)
	Nearby(ctx context.Context, token string, lat, lng, radiusKm float64) ([]models.ChargingStation, error)
	Create(ctx context.Context, token string, req clients.StationInput) (models.ChargingStation, error)
	Update(ctx context.Context, token, id string, req clients.StationInput) (models.ChargingStation, error)
	Delete(ctx context.Context, token, id string) error
	SetActive(ctx context.Context, token, id string, active bool) (models.ChargingStation, error)
	UpdateSlots(ctx context.Context, token, id string, available int) (models.ChargingStation, error)
	AssignOperator(ctx context.Context, token, id, userID string) (models.ChargingStation, error)
	RevokeOperator(ctx context.Context, token, id, userID string) (models.ChargingStation, error)
}

// StationFilter narrows the station list. Query matches name, address and
// city, case-insensitive substring.
type StationFilter struct {
	Query         string
	Type          *models.StationType
	ActiveOnly    bool
	AvailableOnly bool
}

// StationsService backs the charging-station screens for all roles.
type StationsService struct {
	client  StationsAPI
	auditor audit.Recorder
	logger  *zap.Logger
}

// NewStationsService builds the service.
func NewStationsService(client StationsAPI, auditor audit.Recorder, logger *zap.Logger) *StationsService {
	return &StationsService{client: client, auditor: auditor, logger: logger}
}

// List fetches all stations and applies the filter locally.
func (s *StationsService) List(ctx context.Context, sess *session.Session, filter StationFilter) ([]models.ChargingStation, error) {
	stations, err := s.client.List(ctx, sess.AuthToken)
	if err != nil {
		return nil, err
	}
	return FilterStations(stations, filter), nil
}

// ListForOperator returns only the stations the operator is assigned to.
func (s *StationsService) ListForOperator(ctx context.Context, sess *session.Session, filter StationFilter) ([]models.ChargingStation, error) {
	stations, err := s.List(ctx, sess, filter)
	if err != nil {
		return nil, err
	}
	assigned := make([]models.ChargingStation, 0, len(stations))
	for _, st := range stations {
		if slices.Contains(st.OperatorIDs, sess.UserID) {
			assigned = append(assigned, st)
		}
	}
	return assigned, nil
}

// FilterStations is the pure list filter: a function of (list, filter) only.
func FilterStations(stations []models.ChargingStation, filter StationFilter) []models.ChargingStation {
	out := make([]models.ChargingStation, 0, len(stations))
	for _, st := range stations {
		if filter.Query != "" &&
			!containsFold(st.Name, filter.Query) &&
			!containsFold(st.Location.Address, filter.Query) &&
			!containsFold(st.Location.City, filter.Query) {
			continue
		}
		if filter.Type != nil && st.Type != *filter.Type {
			continue
		}
		if filter.ActiveOnly && !st.IsActive {
			continue
		}
		if filter.AvailableOnly && st.AvailableSlots == 0 {
			continue
		}
		out = append(out, st)
	}
	return out
}

// Get fetches one station.
func (s *StationsService) Get(ctx context.Context, sess *session.Session, id string) (models.ChargingStation, error) {
	return s.client.Get(ctx, sess.AuthToken, id)
}

// Nearby fetches stations around a point.
func (s *StationsService) Nearby(ctx context.Context, sess *session.Session, lat, lng, radiusKm float64) ([]models.ChargingStation, error) {
	if radiusKm <= 0 {
		radiusKm = 10
	}
	return s.client.Nearby(ctx, sess.AuthToken, lat, lng, radiusKm)
}

var stationSchema = validate.Schema{
	{Name: "name", Rules: []validate.Rule{validate.Required(), validate.MaxLen(128)}},
	{Name: "address", Rules: []validate.Rule{validate.Required()}},
	{Name: "city", Rules: []validate.Rule{validate.Required()}},
	{Name: "type", Rules: []validate.Rule{validate.Required(), validate.OneOf("1", "2", "3")}},
	{Name: "totalSlots", Rules: []validate.Rule{validate.Required(), validate.IntRange(1, 200)}},
	{Name: "pricePerHour", Rules: []validate.Rule{validate.Required(), validate.FloatMin(0)}},
}

func stationValues(req clients.StationInput) validate.Values {
	return validate.Values{
		"name":         req.Name,
		"address":      req.Location.Address,
		"city":         req.Location.City,
		"type":         strconv.Itoa(int(req.Type)),
		"totalSlots":   strconv.Itoa(req.TotalSlots),
		"pricePerHour": strconv.FormatFloat(req.PricePerHour, 'f', -1, 64),
	}
}

func checkStationInput(req clients.StationInput) error {
	problems := stationSchema.Apply(stationValues(req))
	if err := models.ValidateSlotCount(req.AvailableSlots, req.TotalSlots); err != nil {
		problems["availableSlots"] = append(problems["availableSlots"], err.Error())
	}
	return validationErr(problems)
}

// Create validates the station form, including the slot bound, before any
// backend call is made.
func (s *StationsService) Create(ctx context.Context, sess *session.Session, req clients.StationInput) (models.ChargingStation, error) {
	if err := checkStationInput(req); err != nil {
		return models.ChargingStation{}, err
	}
	station, err := s.client.Create(ctx, sess.AuthToken, req)
	recordAudit(ctx, s.auditor, s.logger, sess, "create", "station", station.ID, err)
	return station, err
}

// Update validates and updates a station.
func (s *StationsService) Update(ctx context.Context, sess *session.Session, id string, req clients.StationInput) (models.ChargingStation, error) {
	if err := checkStationInput(req); err != nil {
		return models.ChargingStation{}, err
	}
	station, err := s.client.Update(ctx, sess.AuthToken, id, req)
	recordAudit(ctx, s.auditor, s.logger, sess, "update", "station", id, err)
	return station, err
}

// Delete removes a station.
func (s *StationsService) Delete(ctx context.Context, sess *session.Session, id string) error {
	err := s.client.Delete(ctx, sess.AuthToken, id)
	recordAudit(ctx, s.auditor, s.logger, sess, "delete", "station", id, err)
	return err
}

// SetActive flips the active flag.
func (s *StationsService) SetActive(ctx context.Context, sess *session.Session, id string, active bool) (models.ChargingStation, error) {
	station, err := s.client.SetActive(ctx, sess.AuthToken, id, active)
	recordAudit(ctx, s.auditor, s.logger, sess, activeAction(active), "station", id, err)
	return station, err
}

// UpdateSlots sets the available-slot counter. Values outside [0, totalSlots]
// are rejected here and no backend call is issued.
func (s *StationsService) UpdateSlots(ctx context.Context, sess *session.Session, id string, available, totalSlots int) (models.ChargingStation, error) {
	if err := models.ValidateSlotCount(available, totalSlots); err != nil {
		return models.ChargingStation{}, &ValidationError{Fields: map[string][]string{
			"availableSlots": {err.Error()},
		}}
	}
	station, err := s.client.UpdateSlots(ctx, sess.AuthToken, id, available)
	recordAudit(ctx, s.auditor, s.logger, sess, "update-slots", "station", id, err)
	return station, err
}

// AssignOperator grants an operator account access to a station.
func (s *StationsService) AssignOperator(ctx context.Context, sess *session.Session, id, userID string) (models.ChargingStation, error) {
	if userID == "" {
		return models.ChargingStation{}, &ValidationError{Fields: map[string][]string{
			"userId": {"userId is required"},
		}}
	}
	station, err := s.client.AssignOperator(ctx, sess.AuthToken, id, userID)
	recordAudit(ctx, s.auditor, s.logger, sess, "assign-operator", "station", id, err)
	return station, err
}

// RevokeOperator removes an operator assignment.
func (s *StationsService) RevokeOperator(ctx context.Context, sess *session.Session, id, userID string) (models.ChargingStation, error) {
	station, err := s.client.RevokeOperator(ctx, sess.AuthToken, id, userID)
	recordAudit(ctx, s.auditor, s.logger, sess, "revoke-operator", "station", id, err)
	return station, err
}
