package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"chargebook/internal/audit"
	"chargebook/internal/clients"
	"chargebook/internal/models"
	"chargebook/internal/session"
	"chargebook/internal/validate"
)

// UsersAPI is the backend users surface the service depends on.
type UsersAPI interface {
	List(ctx context.Context, token string) ([]models.User, error)
	Get(ctx context.Context, token, id string) (models.User, error)
	Create(ctx context.Context, token string, req clients.UserRegistration) (models.User, error)
	Update(ctx context.Context, token, id string, req clients.UserUpdate) (models.User, error)
	Delete(ctx context.Context, token, id string) error
	SetActive(ctx context.Context, token, id string, active bool) (models.User, error)
}

// UserFilter narrows the user list. Query matches username and email,
// case-insensitive substring.
type UserFilter struct {
	Query      string
	Role       *models.Role
	ActiveOnly bool
}

// UsersService backs the back-office user management screen.
type UsersService struct {
	client  UsersAPI
	auditor audit.Recorder
	logger  *zap.Logger
}

// NewUsersService builds the service.
func NewUsersService(client UsersAPI, auditor audit.Recorder, logger *zap.Logger) *UsersService {
	return &UsersService{client: client, auditor: auditor, logger: logger}
}

// List fetches all staff accounts and applies the filter locally.
func (s *UsersService) List(ctx context.Context, sess *session.Session, filter UserFilter) ([]models.User, error) {
	users, err := s.client.List(ctx, sess.AuthToken)
	if err != nil {
		return nil, err
	}
	return FilterUsers(users, filter), nil
}

// FilterUsers is the pure list filter: a function of (list, filter) only.
func FilterUsers(users []models.User, filter UserFilter) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if filter.Query != "" && !containsFold(u.Username, filter.Query) && !containsFold(u.Email, filter.Query) {
			continue
		}
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.ActiveOnly && !u.IsActive {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Get fetches one account.
func (s *UsersService) Get(ctx context.Context, sess *session.Session, id string) (models.User, error) {
	return s.client.Get(ctx, sess.AuthToken, id)
}

// Create validates and creates a staff account.
func (s *UsersService) Create(ctx context.Context, sess *session.Session, req clients.UserRegistration) (models.User, error) {
	problems := userRegistrationSchema.Apply(validate.Values{
		"username":        req.Username,
		"email":           req.Email,
		"password":        req.Password,
		"confirmPassword": req.ConfirmPassword,
		"role":            strconv.Itoa(int(req.Role)),
	})
	if err := validationErr(problems); err != nil {
		return models.User{}, err
	}

	user, err := s.client.Create(ctx, sess.AuthToken, req)
	recordAudit(ctx, s.auditor, s.logger, sess, "create", "user", user.ID, err)
	return user, err
}

var userUpdateSchema = validate.Schema{
	{Name: "username", Rules: []validate.Rule{validate.Required(), validate.MinLen(3), validate.MaxLen(32)}},
	{Name: "email", Rules: []validate.Rule{validate.Required(), validate.Email()}},
	{Name: "role", Rules: []validate.Rule{validate.Required(), validate.OneOf("1", "2")}},
}

// Update validates and updates a staff account.
func (s *UsersService) Update(ctx context.Context, sess *session.Session, id string, req clients.UserUpdate) (models.User, error) {
	problems := userUpdateSchema.Apply(validate.Values{
		"username": req.Username,
		"email":    req.Email,
		"role":     strconv.Itoa(int(req.Role)),
	})
	if err := validationErr(problems); err != nil {
		return models.User{}, err
	}

	user, err := s.client.Update(ctx, sess.AuthToken, id, req)
	recordAudit(ctx, s.auditor, s.logger, sess, "update", "user", id, err)
	return user, err
}

// Delete removes a staff account.
func (s *UsersService) Delete(ctx context.Context, sess *session.Session, id string) error {
	err := s.client.Delete(ctx, sess.AuthToken, id)
	recordAudit(ctx, s.auditor, s.logger, sess, "delete", "user", id, err)
	return err
}

// SetActive issues exactly one backend call carrying the new value. There is
// no optimistic state: on failure the caller's view is untouched and the
// error is surfaced.
func (s *UsersService) SetActive(ctx context.Context, sess *session.Session, id string, active bool) (models.User, error) {
	user, err := s.client.SetActive(ctx, sess.AuthToken, id, active)
	recordAudit(ctx, s.auditor, s.logger, sess, activeAction(active), "user", id, err)
	return user, err
}

func activeAction(active bool) string {
	if active {
		return "activate"
	}
	return "deactivate"
}
