package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"lending-engine/internal/domain/loan"
	"lending-engine/internal/infrastructure/monitoring"
	"lending-engine/internal/pkg/apperrors"
)

const loanColumns = `id, application_id, borrower_id, principal_amount, interest_rate, term_months,
        interest_type, monthly_payment, total_amount, outstanding_balance, accrued_penalty,
        grace_period_days, penalty_rate, penalty_flat, disbursement_method, reference_number,
        receipt_number, disbursed_by, start_date, next_due_date, status, created_at, updated_at`

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	if db == nil {
		panic("DBPool cannot be nil for LoanRepository")
	}
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *LoanRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID, &l.ApplicationID, &l.BorrowerID, &l.PrincipalAmount, &l.InterestRate, &l.TermMonths,
		&l.InterestType, &l.MonthlyPayment, &l.TotalAmount, &l.OutstandingBalance, &l.AccruedPenalty,
		&l.GracePeriodDays, &l.PenaltyRate, &l.PenaltyFlat, &l.DisbursementMethod, &l.ReferenceNumber,
		&l.ReceiptNumber, &l.DisbursedBy, &l.StartDate, &l.NextDueDate, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LoanRepository) CreateLoanInTx(ctx context.Context, tx pgx.Tx, newLoan *loan.Loan) (*loan.Loan, error) {
	query := `
        INSERT INTO loans (application_id, borrower_id, principal_amount, interest_rate, term_months,
            interest_type, monthly_payment, total_amount, outstanding_balance, accrued_penalty,
            grace_period_days, penalty_rate, penalty_flat, disbursement_method, reference_number,
            receipt_number, disbursed_by, start_date, next_due_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW(), NOW())
        RETURNING ` + loanColumns

	created, err := scanLoan(tx.QueryRow(ctx, query,
		newLoan.ApplicationID, newLoan.BorrowerID, newLoan.PrincipalAmount, newLoan.InterestRate, newLoan.TermMonths,
		newLoan.InterestType, newLoan.MonthlyPayment, newLoan.TotalAmount, newLoan.OutstandingBalance, newLoan.AccruedPenalty,
		newLoan.GracePeriodDays, newLoan.PenaltyRate, newLoan.PenaltyFlat, newLoan.DisbursementMethod, newLoan.ReferenceNumber,
		newLoan.ReceiptNumber, newLoan.DisbursedBy, newLoan.StartDate, newLoan.NextDueDate, newLoan.Status,
	))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "application_id", newLoan.ApplicationID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", created.ID, "application_id", created.ApplicationID)
	return created, nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	status := "success"
	startTime := time.Now()

	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetLoanByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return l, nil
}

func (r *LoanRepository) GetLoanForUpdateInTx(ctx context.Context, tx pgx.Tx, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	l, err := scanLoan(tx.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found for update", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to lock loan row", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return l, nil
}

const updateLoanSQL = `
        UPDATE loans
        SET outstanding_balance = $2, accrued_penalty = $3, next_due_date = $4, status = $5, updated_at = NOW()
        WHERE id = $1`

func (r *LoanRepository) UpdateLoanInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) error {
	tag, err := tx.Exec(ctx, updateLoanSQL, l.ID, l.OutstandingBalance, l.AccruedPenalty, l.NextDueDate, l.Status)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan", "loan_id", l.ID, "error", err)
		return translateDBError(err, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *LoanRepository) UpdateLoan(ctx context.Context, l *loan.Loan) error {
	status := "success"
	startTime := time.Now()

	tag, err := r.db.Exec(ctx, updateLoanSQL, l.ID, l.OutstandingBalance, l.AccruedPenalty, l.NextDueDate, l.Status)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("UpdateLoan", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan", "loan_id", l.ID, "error", err)
		return translateDBError(err, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *LoanRepository) InsertPaymentInTx(ctx context.Context, tx pgx.Tx, p *loan.Payment) (*loan.Payment, error) {
	query := `
        INSERT INTO payments (loan_id, amount, late_fee, payment_date, due_date, status, received_by, receipt_number, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        RETURNING id, loan_id, amount, late_fee, payment_date, due_date, status, received_by, receipt_number, created_at`

	var created loan.Payment
	err := tx.QueryRow(ctx, query,
		p.LoanID, p.Amount, p.LateFee, p.PaymentDate, p.DueDate, p.Status, p.ReceivedBy, p.ReceiptNumber,
	).Scan(
		&created.ID, &created.LoanID, &created.Amount, &created.LateFee, &created.PaymentDate,
		&created.DueDate, &created.Status, &created.ReceivedBy, &created.ReceiptNumber, &created.CreatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert payment", "loan_id", p.LoanID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return &created, nil
}

func (r *LoanRepository) ListPaymentsByLoanID(ctx context.Context, loanID int64) ([]loan.Payment, error) {
	query := `
        SELECT id, loan_id, amount, late_fee, payment_date, due_date, status, received_by, receipt_number, created_at
        FROM payments
        WHERE loan_id = $1
        ORDER BY payment_date ASC`

	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query payments", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	payments := make([]loan.Payment, 0)
	for rows.Next() {
		var p loan.Payment
		err := rows.Scan(
			&p.ID, &p.LoanID, &p.Amount, &p.LateFee, &p.PaymentDate,
			&p.DueDate, &p.Status, &p.ReceivedBy, &p.ReceiptNumber, &p.CreatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed scanning payment row", "loan_id", loanID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating payment rows", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return payments, nil
}

func (r *LoanRepository) ListOverdueLoans(ctx context.Context, asOf time.Time) ([]loan.Loan, error) {
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE status = $1 AND next_due_date + (grace_period_days || ' days')::interval < $2`
	status := "success"
	startTime := time.Now()

	rows, err := r.db.Query(ctx, query, loan.StatusActive, asOf)
	if err != nil {
		monitoring.RecordDBQuery("ListOverdueLoans", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query overdue loans", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed scanning overdue loan row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, *l)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating overdue loan rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	monitoring.RecordDBQuery("ListOverdueLoans", status, time.Since(startTime))
	return loans, nil
}
