package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"chargebook/internal/audit"
	"chargebook/internal/session"
)

// ValidationError carries per-field messages for inline display. No backend
// call is made when a form fails validation.
type ValidationError struct {
	Fields map[string][]string
}

// Error implements error.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// ErrNotCancellable is returned when a booking is past the pending state.
var ErrNotCancellable = errors.New("booking: only pending bookings can be cancelled")

func validationErr(fields map[string][]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// recordAudit emits a best-effort audit record for a mutation. The write uses
// a detached context so a cancelled request cannot drop the trail entry.
func recordAudit(ctx context.Context, rec audit.Recorder, logger *zap.Logger, sess *session.Session, action, resource, entityID string, callErr error) {
	outcome := audit.OutcomeOK
	detail := ""
	if callErr != nil {
		outcome = audit.OutcomeFailed
		detail = callErr.Error()
	}
	entry := audit.Record{
		Actor:    sess.UserID,
		Role:     sess.Role,
		Action:   action,
		Resource: resource,
		EntityID: entityID,
		Outcome:  outcome,
		Detail:   detail,
	}
	if err := rec.Save(context.WithoutCancel(ctx), entry); err != nil {
		logger.Warn("audit write failed",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err))
	}
}

// containsFold reports a case-insensitive substring match.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
