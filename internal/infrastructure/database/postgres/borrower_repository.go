package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"lending-engine/internal/domain/borrower"
	"lending-engine/internal/infrastructure/monitoring"
	"lending-engine/internal/pkg/apperrors"
)

const borrowerColumns = `id, full_name, email, phone, monthly_income, monthly_expenses,
        existing_debts, kyc_status, credit_score, status, created_at, updated_at`

type BorrowerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ borrower.Repository = (*BorrowerRepository)(nil)

func NewBorrowerRepository(db DBPool, logger *slog.Logger) *BorrowerRepository {
	if db == nil {
		panic("DBPool cannot be nil for BorrowerRepository")
	}
	return &BorrowerRepository{db: db, logger: logger.With("component", "BorrowerRepository")}
}

func scanBorrower(row pgx.Row) (*borrower.Borrower, error) {
	var b borrower.Borrower
	err := row.Scan(
		&b.ID, &b.FullName, &b.Email, &b.Phone, &b.MonthlyIncome, &b.MonthlyExpenses,
		&b.ExistingDebts, &b.KYCStatus, &b.CreditScore, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BorrowerRepository) CreateBorrower(ctx context.Context, b *borrower.Borrower) (*borrower.Borrower, error) {
	query := `
        INSERT INTO borrowers (full_name, email, phone, monthly_income, monthly_expenses,
            existing_debts, kyc_status, credit_score, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
        RETURNING ` + borrowerColumns
	status := "success"
	startTime := time.Now()

	created, err := scanBorrower(r.db.QueryRow(ctx, query,
		b.FullName, b.Email, b.Phone, b.MonthlyIncome, b.MonthlyExpenses,
		b.ExistingDebts, b.KYCStatus, b.CreditScore, b.Status,
	))
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("CreateBorrower", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert borrower", "error", err)
		return nil, translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Borrower created in DB", "borrower_id", created.ID)
	return created, nil
}

func (r *BorrowerRepository) GetBorrowerByID(ctx context.Context, borrowerID int64) (*borrower.Borrower, error) {
	query := `SELECT ` + borrowerColumns + ` FROM borrowers WHERE id = $1`
	status := "success"
	startTime := time.Now()

	b, err := scanBorrower(r.db.QueryRow(ctx, query, borrowerID))
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetBorrowerByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Borrower not found", "borrower_id", borrowerID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get borrower by ID", "borrower_id", borrowerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return b, nil
}

func (r *BorrowerRepository) UpdateBorrower(ctx context.Context, b *borrower.Borrower) error {
	query := `
        UPDATE borrowers
        SET monthly_income = $2, monthly_expenses = $3, existing_debts = $4,
            kyc_status = $5, credit_score = $6, status = $7, updated_at = NOW()
        WHERE id = $1`
	status := "success"
	startTime := time.Now()

	tag, err := r.db.Exec(ctx, query,
		b.ID, b.MonthlyIncome, b.MonthlyExpenses, b.ExistingDebts,
		b.KYCStatus, b.CreditScore, b.Status,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("UpdateBorrower", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update borrower", "borrower_id", b.ID, "error", err)
		return translateDBError(err, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetScoreFacts aggregates the borrower's payment history across all loans
// plus recent application activity. A borrower with no history gets zeros.
func (r *BorrowerRepository) GetScoreFacts(ctx context.Context, borrowerID int64) (borrower.ScoreFacts, error) {
	query := `
        SELECT
            COUNT(*) FILTER (WHERE p.status = 'paid') AS on_time,
            COUNT(*) FILTER (WHERE p.status = 'late') AS late,
            (SELECT COUNT(*) FROM loan_applications a
             WHERE a.borrower_id = $1 AND a.created_at > NOW() - INTERVAL '6 months') AS inquiries
        FROM payments p
        JOIN loans l ON l.id = p.loan_id
        WHERE l.borrower_id = $1`
	status := "success"
	startTime := time.Now()

	var facts borrower.ScoreFacts
	err := r.db.QueryRow(ctx, query, borrowerID).Scan(
		&facts.OnTimePayments, &facts.LatePayments, &facts.RecentInquiries,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetScoreFacts", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to aggregate score facts", "borrower_id", borrowerID, "error", err)
		return borrower.ScoreFacts{}, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return facts, nil
}
