package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"lending-engine/internal/domain/borrower"
	"lending-engine/internal/pkg/apperrors"
)

func setupBorrowerRepo(t *testing.T) (context.Context, *BorrowerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewBorrowerRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func borrowerRows(b *borrower.Borrower) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "full_name", "email", "phone", "monthly_income", "monthly_expenses",
		"existing_debts", "kyc_status", "credit_score", "status", "created_at", "updated_at",
	}).AddRow(
		b.ID, b.FullName, b.Email, b.Phone, b.MonthlyIncome, b.MonthlyExpenses,
		b.ExistingDebts, b.KYCStatus, b.CreditScore, b.Status, b.CreatedAt, b.UpdatedAt,
	)
}

func TestCreateBorrowerInsertsAndScans(t *testing.T) {
	ctx, repo, mockPool := setupBorrowerRepo(t)
	defer mockPool.Close()

	now := time.Now()
	in := &borrower.Borrower{
		FullName:        "Dewi Lestari",
		Email:           "dewi@example.com",
		Phone:           "+62811111111",
		MonthlyIncome:   9000,
		MonthlyExpenses: 4000,
		ExistingDebts:   1000,
		KYCStatus:       borrower.KYCPending,
		CreditScore:     598,
		Status:          borrower.StatusActive,
	}
	out := *in
	out.ID = 3
	out.CreatedAt = now
	out.UpdatedAt = now

	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO borrowers")).
		WithArgs(in.FullName, in.Email, in.Phone, in.MonthlyIncome, in.MonthlyExpenses,
			in.ExistingDebts, in.KYCStatus, in.CreditScore, in.Status).
		WillReturnRows(borrowerRows(&out))

	created, err := repo.CreateBorrower(ctx, in)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, "Dewi Lestari", created.FullName)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestGetBorrowerByID(t *testing.T) {
	ctx, repo, mockPool := setupBorrowerRepo(t)
	defer mockPool.Close()

	b := &borrower.Borrower{
		ID:          3,
		FullName:    "Dewi Lestari",
		KYCStatus:   borrower.KYCVerified,
		CreditScore: 680,
		Status:      borrower.StatusActive,
	}

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM borrowers WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(borrowerRows(b))

	got, err := repo.GetBorrowerByID(ctx, 3)

	assert.NoError(t, err)
	assert.Equal(t, 680, got.CreditScore)
	assert.Equal(t, borrower.KYCVerified, got.KYCStatus)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestGetBorrowerByIDNotFound(t *testing.T) {
	ctx, repo, mockPool := setupBorrowerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM borrowers WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.GetBorrowerByID(ctx, 99)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUpdateBorrower(t *testing.T) {
	ctx, repo, mockPool := setupBorrowerRepo(t)
	defer mockPool.Close()

	b := &borrower.Borrower{
		ID:              3,
		MonthlyIncome:   12000,
		MonthlyExpenses: 5000,
		ExistingDebts:   500,
		KYCStatus:       borrower.KYCVerified,
		CreditScore:     700,
		Status:          borrower.StatusActive,
	}

	mockPool.ExpectExec(regexp.QuoteMeta("UPDATE borrowers")).
		WithArgs(b.ID, b.MonthlyIncome, b.MonthlyExpenses, b.ExistingDebts,
			b.KYCStatus, b.CreditScore, b.Status).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateBorrower(ctx, b)

	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUpdateBorrowerNotFound(t *testing.T) {
	ctx, repo, mockPool := setupBorrowerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta("UPDATE borrowers")).
		WithArgs(int64(99), 0.0, 0.0, 0.0, borrower.KYCStatus(""), 0, borrower.Status("")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateBorrower(ctx, &borrower.Borrower{ID: 99})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestGetScoreFacts(t *testing.T) {
	ctx, repo, mockPool := setupBorrowerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM payments p")).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"on_time", "late", "inquiries"}).AddRow(12, 1, 2))

	facts, err := repo.GetScoreFacts(ctx, 3)

	assert.NoError(t, err)
	assert.Equal(t, 12, facts.OnTimePayments)
	assert.Equal(t, 1, facts.LatePayments)
	assert.Equal(t, 2, facts.RecentInquiries)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
