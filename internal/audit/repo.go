package audit

import (
	"context"
	"database/sql"

	"chargebook/internal/models"
)

// Repository stores audit records in postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository ctor.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the audit table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS audit_log (
			id         BIGSERIAL PRIMARY KEY,
			actor      TEXT NOT NULL,
			role       INT NOT NULL,
			action     TEXT NOT NULL,
			resource   TEXT NOT NULL,
			entity_id  TEXT NOT NULL DEFAULT '',
			outcome    TEXT NOT NULL,
			detail     TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

// Save inserts one record.
func (r *Repository) Save(ctx context.Context, rec Record) error {
	const query = `
		INSERT INTO audit_log (actor, role, action, resource, entity_id, outcome, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.Actor, int(rec.Role), rec.Action, rec.Resource, rec.EntityID, rec.Outcome, rec.Detail)
	return err
}

// ListRecent returns the newest records, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const query = `
		SELECT id, actor, role, action, resource, entity_id, outcome, detail, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var role int
		if err := rows.Scan(&rec.ID, &rec.Actor, &role, &rec.Action, &rec.Resource,
			&rec.EntityID, &rec.Outcome, &rec.Detail, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Role = models.Role(role)
		records = append(records, rec)
	}
	return records, rows.Err()
}
