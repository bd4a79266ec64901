package service

import (
	"context"

	"go.uber.org/zap"

	"chargebook/internal/audit"
	"chargebook/internal/clients"
	"chargebook/internal/models"
	"chargebook/internal/session"
	"chargebook/internal/validate"
)

// OwnersAPI is the backend EV-owners surface the service depends on.
type OwnersAPI interface {
	List(ctx context.Context, token string) ([]models.EVOwner, error)
	Get(ctx context.Context, token, nic string) (models.EVOwner, error)
	Create(ctx context.Context, token string, req clients.OwnerRegistration) (models.EVOwner, error)
	Update(ctx context.Context, token, nic string, req clients.OwnerUpdate) (models.EVOwner, error)
	Delete(ctx context.Context, token, nic string) error
	SetActive(ctx context.Context, token, nic string, active bool) (models.EVOwner, error)
	Reactivate(ctx context.Context, token, nic string) (models.EVOwner, error)
}

// OwnerFilter narrows the owner list. Query matches NIC, names and email,
// case-insensitive substring.
type OwnerFilter struct {
	Query      string
	ActiveOnly bool
}

// OwnersService backs the EV-owner management screens.
type OwnersService struct {
	client  OwnersAPI
	auditor audit.Recorder
	logger  *zap.Logger
}

// NewOwnersService builds the service.
func NewOwnersService(client OwnersAPI, auditor audit.Recorder, logger *zap.Logger) *OwnersService {
	return &OwnersService{client: client, auditor: auditor, logger: logger}
}

// List fetches all owners and applies the filter locally.
func (s *OwnersService) List(ctx context.Context, sess *session.Session, filter OwnerFilter) ([]models.EVOwner, error) {
	owners, err := s.client.List(ctx, sess.AuthToken)
	if err != nil {
		return nil, err
	}
	return FilterOwners(owners, filter), nil
}

// FilterOwners is the pure list filter: a function of (list, filter) only.
func FilterOwners(owners []models.EVOwner, filter OwnerFilter) []models.EVOwner {
	out := make([]models.EVOwner, 0, len(owners))
	for _, o := range owners {
		if filter.Query != "" &&
			!containsFold(o.NIC, filter.Query) &&
			!containsFold(o.FirstName, filter.Query) &&
			!containsFold(o.LastName, filter.Query) &&
			!containsFold(o.Email, filter.Query) {
			continue
		}
		if filter.ActiveOnly && !o.IsActive {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Get fetches one owner by NIC.
func (s *OwnersService) Get(ctx context.Context, sess *session.Session, nic string) (models.EVOwner, error) {
	return s.client.Get(ctx, sess.AuthToken, nic)
}

// Create validates and registers an owner on the back office's behalf.
func (s *OwnersService) Create(ctx context.Context, sess *session.Session, req clients.OwnerRegistration) (models.EVOwner, error) {
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

	owner, err := s.client.Create(ctx, sess.AuthToken, req)
	recordAudit(ctx, s.auditor, s.logger, sess, "create", "owner", req.NIC, err)
	return owner, err
}

var ownerUpdateSchema = validate.Schema{
	{Name: "firstName", Rules: []validate.Rule{validate.Required(), validate.MaxLen(64)}},
	{Name: "lastName", Rules: []validate.Rule{validate.Required(), validate.MaxLen(64)}},
	{Name: "email", Rules: []validate.Rule{validate.Required(), validate.Email()}},
	{Name: "phoneNumber", Rules: []validate.Rule{validate.Required(), validate.MinLen(9)}},
}

// Update validates and updates an owner profile.
func (s *OwnersService) Update(ctx context.Context, sess *session.Session, nic string, req clients.OwnerUpdate) (models.EVOwner, error) {
	problems := ownerUpdateSchema.Apply(validate.Values{
		"firstName":   req.FirstName,
		"lastName":    req.LastName,
		"email":       req.Email,
		"phoneNumber": req.PhoneNumber,
	})
	if err := validationErr(problems); err != nil {
		return models.EVOwner{}, err
	}

	owner, err := s.client.Update(ctx, sess.AuthToken, nic, req)
	recordAudit(ctx, s.auditor, s.logger, sess, "update", "owner", nic, err)
	return owner, err
}

// Delete removes an owner record.
func (s *OwnersService) Delete(ctx context.Context, sess *session.Session, nic string) error {
	err := s.client.Delete(ctx, sess.AuthToken, nic)
	recordAudit(ctx, s.auditor, s.logger, sess, "delete", "owner", nic, err)
	return err
}

// SetActive flips the active flag with a single backend call. No optimistic
// state is kept; failures leave the caller's view untouched.
func (s *OwnersService) SetActive(ctx context.Context, sess *session.Session, nic string, active bool) (models.EVOwner, error) {
	owner, err := s.client.SetActive(ctx, sess.AuthToken, nic, active)
	recordAudit(ctx, s.auditor, s.logger, sess, activeAction(active), "owner", nic, err)
	return owner, err
}

// Reactivate restores a deactivated owner account.
func (s *OwnersService) Reactivate(ctx context.Context, sess *session.Session, nic string) (models.EVOwner, error) {
	owner, err := s.client.Reactivate(ctx, sess.AuthToken, nic)
	recordAudit(ctx, s.auditor, s.logger, sess, "reactivate", "owner", nic, err)
	return owner, err
}
