package loan

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// CreateLoanInTx fails with apperrors.ErrConflict when a loan already
	// exists for the application or the receipt number is taken.
	CreateLoanInTx(ctx context.Context, tx pgx.Tx, l *Loan) (*Loan, error)
	GetLoanByID(ctx context.Context, loanID int64) (*Loan, error)
	GetLoanForUpdateInTx(ctx context.Context, tx pgx.Tx, loanID int64) (*Loan, error)
	UpdateLoanInTx(ctx context.Context, tx pgx.Tx, l *Loan) error
	UpdateLoan(ctx context.Context, l *Loan) error

	// InsertPaymentInTx fails with apperrors.ErrConflict on a duplicate
	// receipt number.
	InsertPaymentInTx(ctx context.Context, tx pgx.Tx, p *Payment) (*Payment, error)
	ListPaymentsByLoanID(ctx context.Context, loanID int64) ([]Payment, error)

	// ListOverdueLoans returns active loans whose next due date plus grace
	// period lies before asOf.
	ListOverdueLoans(ctx context.Context, asOf time.Time) ([]Loan, error)
}
