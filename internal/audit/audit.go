// Package audit records dashboard mutations for the back office. Writes are
// best effort and never block or fail a user action.
package audit

import (
	"context"
	"time"

	"chargebook/internal/models"
)

// Record is one dashboard action taken against the backend.
type Record struct {
	ID        int64       `json:"id"`
	Actor     string      `json:"actor"`
	Role      models.Role `json:"role"`
	Action    string      `json:"action"`
	Resource  string      `json:"resource"`
	EntityID  string      `json:"entityId"`
	Outcome   string      `json:"outcome"`
	Detail    string      `json:"detail,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Recorder is implemented by the postgres repository and the no-op fallback.
type Recorder interface {
	Save(ctx context.Context, rec Record) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

// Nop discards records; used when no audit database is configured.
type Nop struct{}

// Save discards the record.
func (Nop) Save(context.Context, Record) error { return nil }

// ListRecent returns nothing.
func (Nop) ListRecent(context.Context, int) ([]Record, error) { return nil, nil }
