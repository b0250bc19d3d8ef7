package borrower

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lending-engine/internal/audit"
	"lending-engine/internal/domain/scoring"
	"lending-engine/internal/pkg/apperrors"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) CreateBorrower(ctx context.Context, b *Borrower) (*Borrower, error) {
	ret := _m.Called(ctx, b)

	var r0 *Borrower
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Borrower)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetBorrowerByID(ctx context.Context, borrowerID int64) (*Borrower, error) {
	ret := _m.Called(ctx, borrowerID)

	var r0 *Borrower
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Borrower)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) UpdateBorrower(ctx context.Context, b *Borrower) error {
	ret := _m.Called(ctx, b)
	return ret.Error(0)
}

func (_m *MockRepository) GetScoreFacts(ctx context.Context, borrowerID int64) (ScoreFacts, error) {
	ret := _m.Called(ctx, borrowerID)
	return ret.Get(0).(ScoreFacts), ret.Error(1)
}

func newService(repo *MockRepository) BorrowerService {
	return NewBorrowerService(repo, audit.NewLogRecorder(logger), logger)
}

func TestCreateBorrower(t *testing.T) {
	ctx := context.Background()

	t.Run("computes an initial score from the profile", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		wantScore := scoring.Compute(scoring.Input{
			MonthlyIncome:   9000,
			MonthlyExpenses: 4000,
			ExistingDebts:   1000,
		}).Score

		repo.On("CreateBorrower", ctx, mock.MatchedBy(func(b *Borrower) bool {
			return b.FullName == "Dewi Lestari" && b.CreditScore == wantScore
		})).Return(&Borrower{ID: 3, FullName: "Dewi Lestari", CreditScore: wantScore}, nil)

		created, err := svc.CreateBorrower(ctx, "Dewi Lestari", "dewi@example.com", "+62811111111", 9000, 4000, 1000)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), created.ID)
		assert.Equal(t, wantScore, created.CreditScore)
		repo.AssertExpectations(t)
	})

	t.Run("rejects an invalid profile before touching the repository", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		_, err := svc.CreateBorrower(ctx, "", "", "", 9000, 4000, 0)

		assert.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		repo.AssertNotCalled(t, "CreateBorrower", mock.Anything, mock.Anything)
	})

	t.Run("wraps a repository failure", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("CreateBorrower", ctx, mock.Anything).Return(nil, apperrors.ErrDatabase)

		_, err := svc.CreateBorrower(ctx, "Dewi Lestari", "dewi@example.com", "", 9000, 4000, 0)

		assert.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrDatabase))
		repo.AssertExpectations(t)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("updates the stored profile", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("GetBorrowerByID", ctx, int64(3)).Return(&Borrower{ID: 3, Status: StatusActive, MonthlyIncome: 9000}, nil)
		repo.On("UpdateBorrower", ctx, mock.MatchedBy(func(b *Borrower) bool {
			return b.MonthlyIncome == 12000 && b.MonthlyExpenses == 5000 && b.ExistingDebts == 500
		})).Return(nil)

		updated, err := svc.UpdateProfile(ctx, 3, 12000, 5000, 500)

		assert.NoError(t, err)
		assert.Equal(t, 12000.0, updated.MonthlyIncome)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a blacklisted borrower", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("GetBorrowerByID", ctx, int64(3)).Return(&Borrower{ID: 3, Status: StatusBlacklisted}, nil)

		_, err := svc.UpdateProfile(ctx, 3, 12000, 5000, 500)

		assert.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
		repo.AssertNotCalled(t, "UpdateBorrower", mock.Anything, mock.Anything)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		_, err := svc.UpdateProfile(ctx, 3, -1, 5000, 500)

		assert.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		repo.AssertNotCalled(t, "GetBorrowerByID", mock.Anything, mock.Anything)
	})
}

func TestSubmitKYC(t *testing.T) {
	ctx := context.Background()

	t.Run("marks pending documents as submitted", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("GetBorrowerByID", ctx, int64(3)).Return(&Borrower{ID: 3, KYCStatus: KYCPending}, nil)
		repo.On("UpdateBorrower", ctx, mock.MatchedBy(func(b *Borrower) bool {
			return b.KYCStatus == KYCSubmitted
		})).Return(nil)

		assert.NoError(t, svc.SubmitKYC(ctx, 3))
		repo.AssertExpectations(t)
	})

	t.Run("allows resubmission after a rejection", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("GetBorrowerByID", ctx, int64(3)).Return(&Borrower{ID: 3, KYCStatus: KYCRejected}, nil)
		repo.On("UpdateBorrower", ctx, mock.Anything).Return(nil)

		assert.NoError(t, svc.SubmitKYC(ctx, 3))
		repo.AssertExpectations(t)
	})

	t.Run("rejects a second submission", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("GetBorrowerByID", ctx, int64(3)).Return(&Borrower{ID: 3, KYCStatus: KYCVerified}, nil)

		err := svc.SubmitKYC(ctx, 3)

		assert.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
		repo.AssertNotCalled(t, "UpdateBorrower", mock.Anything, mock.Anything)
	})
}

func TestReviewKYC(t *testing.T) {
	ctx := context.Background()

	t.Run("approval verifies and recomputes the score", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("GetBorrowerByID", ctx, int64(3)).Return(&Borrower{
			ID:              3,
			KYCStatus:       KYCSubmitted,
			MonthlyIncome:   9000,
			MonthlyExpenses: 4000,
		}, nil)
		repo.On("GetScoreFacts", ctx, int64(3)).Return(ScoreFacts{OnTimePayments: 10, LatePayments: 1}, nil)
		repo.On("UpdateBorrower", ctx, mock.MatchedBy(func(b *Borrower) bool {
			return b.KYCStatus == KYCVerified && b.CreditScore > 0
		})).Return(nil)

		assert.NoError(t, svc.ReviewKYC(ctx, 3, true, "budi"))
		repo.AssertExpectations(t)
	})

	t.Run("rejection does not touch the score", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("GetBorrowerByID", ctx, int64(3)).Return(&Borrower{ID: 3, KYCStatus: KYCSubmitted, CreditScore: 640}, nil)
		repo.On("UpdateBorrower", ctx, mock.MatchedBy(func(b *Borrower) bool {
			return b.KYCStatus == KYCRejected && b.CreditScore == 640
		})).Return(nil)

		assert.NoError(t, svc.ReviewKYC(ctx, 3, false, "budi"))
		repo.AssertNotCalled(t, "GetScoreFacts", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("only submitted documents can be reviewed", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("GetBorrowerByID", ctx, int64(3)).Return(&Borrower{ID: 3, KYCStatus: KYCPending}, nil)

		err := svc.ReviewKYC(ctx, 3, true, "budi")

		assert.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("transitions to blacklisted", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("GetBorrowerByID", ctx, int64(3)).Return(&Borrower{ID: 3, Status: StatusActive}, nil)
		repo.On("UpdateBorrower", ctx, mock.MatchedBy(func(b *Borrower) bool {
			return b.Status == StatusBlacklisted
		})).Return(nil)

		assert.NoError(t, svc.SetStatus(ctx, 3, StatusBlacklisted, "budi"))
		repo.AssertExpectations(t)
	})

	t.Run("setting the current status is a no-op", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("GetBorrowerByID", ctx, int64(3)).Return(&Borrower{ID: 3, Status: StatusActive}, nil)

		assert.NoError(t, svc.SetStatus(ctx, 3, StatusActive, "budi"))
		repo.AssertNotCalled(t, "UpdateBorrower", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		err := svc.SetStatus(ctx, 3, Status("frozen"), "budi")

		assert.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		repo.AssertNotCalled(t, "GetBorrowerByID", mock.Anything, mock.Anything)
	})
}

func TestScore(t *testing.T) {
	ctx := context.Background()

	t.Run("combines the profile with payment history facts", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("GetBorrowerByID", ctx, int64(3)).Return(&Borrower{
			ID:              3,
			MonthlyIncome:   9000,
			MonthlyExpenses: 4000,
			ExistingDebts:   1000,
		}, nil)
		repo.On("GetScoreFacts", ctx, int64(3)).Return(ScoreFacts{OnTimePayments: 12, LatePayments: 0, RecentInquiries: 1}, nil)

		res, err := svc.Score(ctx, 3)

		assert.NoError(t, err)
		assert.Equal(t, 100, res.Factors.PaymentHistory)
		assert.Equal(t, 80, res.Factors.RecentInquiries)
		assert.GreaterOrEqual(t, res.Score, scoring.MinScore)
		assert.LessOrEqual(t, res.Score, scoring.MaxScore)
		repo.AssertExpectations(t)
	})

	t.Run("maps a missing borrower to not found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo)

		repo.On("GetBorrowerByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound)

		_, err := svc.Score(ctx, 99)

		assert.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})
}
