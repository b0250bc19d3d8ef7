package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"lending-engine/internal/domain/application"
	"lending-engine/internal/infrastructure/monitoring"
	"lending-engine/internal/pkg/apperrors"
)

const applicationColumns = `id, borrower_id, loan_type, requested_amount, approved_amount, purpose,
        interest_rate, term_months, interest_type, eligibility_score, risk_tier, income_ratio,
        debt_to_income, grace_period_days, penalty_rate, penalty_flat, status, reviewed_by,
        reviewed_at, created_at, updated_at`

type ApplicationRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ application.Repository = (*ApplicationRepository)(nil)

func NewApplicationRepository(db DBPool, logger *slog.Logger) *ApplicationRepository {
	if db == nil {
		panic("DBPool cannot be nil for ApplicationRepository")
	}
	return &ApplicationRepository{db: db, logger: logger.With("component", "ApplicationRepository")}
}

func (r *ApplicationRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *ApplicationRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *ApplicationRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func scanApplication(row pgx.Row) (*application.Application, error) {
	var app application.Application
	err := row.Scan(
		&app.ID, &app.BorrowerID, &app.LoanType, &app.RequestedAmount, &app.ApprovedAmount, &app.Purpose,
		&app.InterestRate, &app.TermMonths, &app.InterestType, &app.EligibilityScore, &app.RiskTier,
		&app.IncomeRatio, &app.DebtToIncome, &app.GracePeriodDays, &app.PenaltyRate, &app.PenaltyFlat,
		&app.Status, &app.ReviewedBy, &app.ReviewedAt, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) CreateApplication(ctx context.Context, app *application.Application) (*application.Application, error) {
	query := `
        INSERT INTO loan_applications (borrower_id, loan_type, requested_amount, approved_amount, purpose,
            interest_rate, term_months, interest_type, eligibility_score, risk_tier, income_ratio,
            debt_to_income, grace_period_days, penalty_rate, penalty_flat, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
        RETURNING ` + applicationColumns
	status := "success"
	startTime := time.Now()

	created, err := scanApplication(r.db.QueryRow(ctx, query,
		app.BorrowerID, app.LoanType, app.RequestedAmount, app.ApprovedAmount, app.Purpose,
		app.InterestRate, app.TermMonths, app.InterestType, app.EligibilityScore, app.RiskTier,
		app.IncomeRatio, app.DebtToIncome, app.GracePeriodDays, app.PenaltyRate, app.PenaltyFlat,
		app.Status,
	))
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("CreateApplication", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert application", "error", err)
		return nil, translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Application created in DB", "application_id", created.ID)
	return created, nil
}

func (r *ApplicationRepository) GetApplicationByID(ctx context.Context, applicationID int64) (*application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM loan_applications WHERE id = $1`
	status := "success"
	startTime := time.Now()

	app, err := scanApplication(r.db.QueryRow(ctx, query, applicationID))
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetApplicationByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Application not found", "application_id", applicationID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get application by ID", "application_id", applicationID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return app, nil
}

func (r *ApplicationRepository) UpdateApplication(ctx context.Context, app *application.Application) error {
	query := `
        UPDATE loan_applications
        SET approved_amount = $2, interest_rate = $3, term_months = $4, interest_type = $5,
            reviewed_by = $6, reviewed_at = $7, updated_at = NOW()
        WHERE id = $1`
	status := "success"
	startTime := time.Now()

	tag, err := r.db.Exec(ctx, query,
		app.ID, app.ApprovedAmount, app.InterestRate, app.TermMonths, app.InterestType,
		app.ReviewedBy, app.ReviewedAt,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("UpdateApplication", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update application", "application_id", app.ID, "error", err)
		return translateDBError(err, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) GetApplicationForUpdateInTx(ctx context.Context, tx pgx.Tx, applicationID int64) (*application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM loan_applications WHERE id = $1 FOR UPDATE`

	app, err := scanApplication(tx.QueryRow(ctx, query, applicationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Application not found for update", "application_id", applicationID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to lock application row", "application_id", applicationID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return app, nil
}

func (r *ApplicationRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, applicationID int64, newStatus application.Status) error {
	query := `UPDATE loan_applications SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := tx.Exec(ctx, query, applicationID, newStatus)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update application status", "application_id", applicationID, "error", err)
		return translateDBError(err, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	r.logger.InfoContext(ctx, "Application status updated", "application_id", applicationID, "status", newStatus)
	return nil
}

func (r *ApplicationRepository) InsertApprovalInTx(ctx context.Context, tx pgx.Tx, rec *application.ApprovalRecord) (*application.ApprovalRecord, error) {
	query := `
        INSERT INTO approval_records (application_id, stage, decision, decided_by, decider_id, decider_role, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING id, application_id, stage, decision, decided_by, decider_id, decider_role, notes, created_at`

	var created application.ApprovalRecord
	err := tx.QueryRow(ctx, query,
		rec.ApplicationID, rec.Stage, rec.Decision, rec.DecidedBy, rec.DeciderID, rec.DeciderRole, rec.Notes,
	).Scan(
		&created.ID, &created.ApplicationID, &created.Stage, &created.Decision,
		&created.DecidedBy, &created.DeciderID, &created.DeciderRole, &created.Notes, &created.CreatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert approval record",
			"application_id", rec.ApplicationID, "stage", rec.Stage, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return &created, nil
}

func (r *ApplicationRepository) ListApprovalsInTx(ctx context.Context, tx pgx.Tx, applicationID int64) ([]application.ApprovalRecord, error) {
	query := `
        SELECT id, application_id, stage, decision, decided_by, decider_id, decider_role, notes, created_at
        FROM approval_records
        WHERE application_id = $1
        ORDER BY created_at ASC`

	rows, err := tx.Query(ctx, query, applicationID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query approval records", "application_id", applicationID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return collectApprovals(rows, r.logger)
}

func (r *ApplicationRepository) ListApprovals(ctx context.Context, applicationID int64) ([]application.ApprovalRecord, error) {
	query := `
        SELECT id, application_id, stage, decision, decided_by, decider_id, decider_role, notes, created_at
        FROM approval_records
        WHERE application_id = $1
        ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query approval records", "application_id", applicationID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return collectApprovals(rows, r.logger)
}

func collectApprovals(rows pgx.Rows, logger *slog.Logger) ([]application.ApprovalRecord, error) {
	defer rows.Close()

	records := make([]application.ApprovalRecord, 0)
	for rows.Next() {
		var rec application.ApprovalRecord
		err := rows.Scan(
			&rec.ID, &rec.ApplicationID, &rec.Stage, &rec.Decision,
			&rec.DecidedBy, &rec.DeciderID, &rec.DeciderRole, &rec.Notes, &rec.CreatedAt,
		)
		if err != nil {
			logger.Error("Failed scanning approval record row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Error iterating approval record rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return records, nil
}
