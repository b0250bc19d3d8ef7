package postgres

import (
	"context"
	"log/slog"

	"lending-engine/internal/audit"
)

// AuditRepository persists audit entries. Failures are logged and swallowed
// so auditing never fails the operation that produced the entry.
type AuditRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ audit.Recorder = (*AuditRepository)(nil)

func NewAuditRepository(db DBPool, logger *slog.Logger) *AuditRepository {
	if db == nil {
		panic("DBPool cannot be nil for AuditRepository")
	}
	return &AuditRepository{db: db, logger: logger.With("component", "AuditRepository")}
}

func (r *AuditRepository) Record(ctx context.Context, e audit.Entry) {
	query := `
        INSERT INTO audit_log (actor, action, entity, entity_id, detail, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())`

	if _, err := r.db.Exec(ctx, query, e.Actor, e.Action, e.Entity, e.EntityID, e.Detail); err != nil {
		r.logger.ErrorContext(ctx, "Failed to write audit entry",
			"action", e.Action, "entity", e.Entity, "entity_id", e.EntityID, "error", err)
	}
}
