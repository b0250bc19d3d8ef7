package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"lending-engine/internal/domain/authcode"
	"lending-engine/internal/infrastructure/monitoring"
	"lending-engine/internal/pkg/apperrors"
)

const authCodeColumns = `id, application_id, code, issued_by, issued_at, expires_at, used_at, used_by, superseded`

type AuthCodeRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ authcode.Repository = (*AuthCodeRepository)(nil)

func NewAuthCodeRepository(db DBPool, logger *slog.Logger) *AuthCodeRepository {
	if db == nil {
		panic("DBPool cannot be nil for AuthCodeRepository")
	}
	return &AuthCodeRepository{db: db, logger: logger.With("component", "AuthCodeRepository")}
}

func (r *AuthCodeRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *AuthCodeRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *AuthCodeRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *AuthCodeRepository) SupersedeActiveInTx(ctx context.Context, tx pgx.Tx, applicationID int64) error {
	query := `
        UPDATE authorization_codes
        SET superseded = TRUE
        WHERE application_id = $1 AND used_at IS NULL AND NOT superseded`

	tag, err := tx.Exec(ctx, query, applicationID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to supersede authorization codes", "application_id", applicationID, "error", err)
		return translateDBError(err, r.logger)
	}
	if tag.RowsAffected() > 0 {
		r.logger.InfoContext(ctx, "Superseded earlier authorization codes",
			"application_id", applicationID, "count", tag.RowsAffected())
	}
	return nil
}

func (r *AuthCodeRepository) InsertCodeInTx(ctx context.Context, tx pgx.Tx, c *authcode.AuthorizationCode) (*authcode.AuthorizationCode, error) {
	query := `
        INSERT INTO authorization_codes (application_id, code, issued_by, issued_at, expires_at, superseded)
        VALUES ($1, $2, $3, $4, $5, FALSE)
        RETURNING ` + authCodeColumns

	var created authcode.AuthorizationCode
	err := tx.QueryRow(ctx, query,
		c.ApplicationID, c.Code, c.IssuedBy, c.IssuedAt, c.ExpiresAt,
	).Scan(
		&created.ID, &created.ApplicationID, &created.Code, &created.IssuedBy,
		&created.IssuedAt, &created.ExpiresAt, &created.UsedAt, &created.UsedBy, &created.Superseded,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert authorization code", "application_id", c.ApplicationID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return &created, nil
}

// ConsumeInTx is the single authoritative burn: only an unused, unsuperseded,
// unexpired code with the matching value is touched. Concurrent attempts
// serialize on the row; the second one matches zero rows.
func (r *AuthCodeRepository) ConsumeInTx(ctx context.Context, tx pgx.Tx, applicationID int64, code, usedBy string, now time.Time) (bool, error) {
	query := `
        UPDATE authorization_codes
        SET used_at = $3, used_by = $4
        WHERE application_id = $1 AND code = $2 AND used_at IS NULL AND NOT superseded AND expires_at > $3`
	status := "success"
	startTime := time.Now()

	tag, err := tx.Exec(ctx, query, applicationID, code, now, usedBy)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("ConsumeAuthCode", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to consume authorization code", "application_id", applicationID, "error", err)
		return false, translateDBError(err, r.logger)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *AuthCodeRepository) GetLatestInTx(ctx context.Context, tx pgx.Tx, applicationID int64) (*authcode.AuthorizationCode, error) {
	query := `
        SELECT ` + authCodeColumns + `
        FROM authorization_codes
        WHERE application_id = $1 AND NOT superseded
        ORDER BY issued_at DESC
        LIMIT 1`

	return r.scanCode(ctx, tx.QueryRow(ctx, query, applicationID), applicationID)
}

func (r *AuthCodeRepository) GetLatest(ctx context.Context, applicationID int64) (*authcode.AuthorizationCode, error) {
	query := `
        SELECT ` + authCodeColumns + `
        FROM authorization_codes
        WHERE application_id = $1 AND NOT superseded
        ORDER BY issued_at DESC
        LIMIT 1`

	return r.scanCode(ctx, r.db.QueryRow(ctx, query, applicationID), applicationID)
}

func (r *AuthCodeRepository) scanCode(ctx context.Context, row pgx.Row, applicationID int64) (*authcode.AuthorizationCode, error) {
	var c authcode.AuthorizationCode
	err := row.Scan(
		&c.ID, &c.ApplicationID, &c.Code, &c.IssuedBy,
		&c.IssuedAt, &c.ExpiresAt, &c.UsedAt, &c.UsedBy, &c.Superseded,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get authorization code", "application_id", applicationID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &c, nil
}
