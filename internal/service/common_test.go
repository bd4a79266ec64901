package service

import (
	"context"
	"sync"

	"chargebook/internal/audit"
	"chargebook/internal/models"
	"chargebook/internal/session"
)

type memRecorder struct {
	mu      sync.Mutex
	records []audit.Record
}

func (m *memRecorder) Save(ctx context.Context, rec audit.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memRecorder) ListRecent(ctx context.Context, limit int) ([]audit.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]audit.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memRecorder) recorded() []audit.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]audit.Record, len(m.records))
	copy(out, m.records)
	return out
}

func testSession(role models.Role) *session.Session {
	return &session.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Role:      role,
		AuthToken: "bearer-token",
	}
}
