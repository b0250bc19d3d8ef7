package audit

import (
	"context"
	"log/slog"
)

// Entry is one append-only audit row for a mutating call. The engine emits
// entries; it never reads them back.
type Entry struct {
	Actor    string
	Action   string
	Entity   string
	EntityID int64
	Detail   string
}

// Recorder appends audit entries. Implementations must not fail the calling
// operation: auditing is fire-and-forget from the engine's point of view.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// LogRecorder writes audit entries to the structured log. Used in tests and
// as a fallback when no persistent recorder is wired.
type LogRecorder struct {
	logger *slog.Logger
}

func NewLogRecorder(logger *slog.Logger) *LogRecorder {
	return &LogRecorder{logger: logger.With("component", "AuditLog")}
}

func (r *LogRecorder) Record(ctx context.Context, e Entry) {
	r.logger.InfoContext(ctx, "Audit entry",
		"actor", e.Actor,
		"action", e.Action,
		"entity", e.Entity,
		"entity_id", e.EntityID,
		"detail", e.Detail,
	)
}
