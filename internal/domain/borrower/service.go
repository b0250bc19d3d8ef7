package borrower

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lending-engine/internal/audit"
	"lending-engine/internal/domain/scoring"
	"lending-engine/internal/pkg/apperrors"
)

type BorrowerService interface {
	CreateBorrower(ctx context.Context, fullName, email, phone string, monthlyIncome, monthlyExpenses, existingDebts float64) (*Borrower, error)

	GetBorrower(ctx context.Context, borrowerID int64) (*Borrower, error)

	UpdateProfile(ctx context.Context, borrowerID int64, monthlyIncome, monthlyExpenses, existingDebts float64) (*Borrower, error)

	SubmitKYC(ctx context.Context, borrowerID int64) error

	ReviewKYC(ctx context.Context, borrowerID int64, approved bool, reviewedBy string) error

	SetStatus(ctx context.Context, borrowerID int64, status Status, changedBy string) error

	// Score recomputes the internal credit score on demand. The result is
	// returned, never persisted here.
	Score(ctx context.Context, borrowerID int64) (*scoring.Result, error)
}

type borrowerServiceImpl struct {
	repo   Repository
	audit  audit.Recorder
	logger *slog.Logger
}

func NewBorrowerService(r Repository, rec audit.Recorder, logger *slog.Logger) BorrowerService {
	return &borrowerServiceImpl{repo: r, audit: rec, logger: logger.With("component", "BorrowerService")}
}

func (s *borrowerServiceImpl) CreateBorrower(ctx context.Context, fullName, email, phone string, monthlyIncome, monthlyExpenses, existingDebts float64) (*Borrower, error) {
	s.logger.Info("Creating new borrower")

	b, err := NewBorrower(fullName, email, phone, monthlyIncome, monthlyExpenses, existingDebts)
	if err != nil {
		return nil, err
	}

	// Initial score comes from the financial profile alone; there is no
	// payment history yet so the payment-history factor stays neutral.
	b.CreditScore = scoring.Compute(scoring.Input{
		MonthlyIncome:   monthlyIncome,
		MonthlyExpenses: monthlyExpenses,
		ExistingDebts:   existingDebts,
	}).Score

	created, err := s.repo.CreateBorrower(ctx, b)
	if err != nil {
		s.logger.Error("Failed to save borrower", "error", err)
		return nil, fmt.Errorf("failed to save borrower: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{Actor: fullName, Action: "borrower.create", Entity: "borrower", EntityID: created.ID})
	s.logger.Info("Borrower created successfully", "borrowerID", created.ID)
	return created, nil
}

func (s *borrowerServiceImpl) GetBorrower(ctx context.Context, borrowerID int64) (*Borrower, error) {
	b, err := s.repo.GetBorrowerByID(ctx, borrowerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: borrower %d not found", apperrors.ErrNotFound, borrowerID)
		}
		s.logger.Error("Failed to get borrower", "borrowerID", borrowerID, "error", err)
		return nil, fmt.Errorf("%w: failed to get borrower %d: %v", apperrors.ErrInternalServer, borrowerID, err)
	}
	return b, nil
}

func (s *borrowerServiceImpl) UpdateProfile(ctx context.Context, borrowerID int64, monthlyIncome, monthlyExpenses, existingDebts float64) (*Borrower, error) {
	s.logger.Info("Updating borrower financial profile", "borrowerID", borrowerID)
	if monthlyIncome < 0 || monthlyExpenses < 0 || existingDebts < 0 {
		return nil, fmt.Errorf("%w: financial profile amounts cannot be negative", apperrors.ErrValidation)
	}

	b, err := s.GetBorrower(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	if b.Status == StatusBlacklisted {
		return nil, fmt.Errorf("%w: borrower %d is blacklisted", apperrors.ErrInvalidState, borrowerID)
	}

	b.MonthlyIncome = monthlyIncome
	b.MonthlyExpenses = monthlyExpenses
	b.ExistingDebts = existingDebts

	if err := s.repo.UpdateBorrower(ctx, b); err != nil {
		s.logger.Error("Failed to update borrower profile", "borrowerID", borrowerID, "error", err)
		return nil, fmt.Errorf("failed to update borrower profile: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{Action: "borrower.update_profile", Entity: "borrower", EntityID: borrowerID})
	return b, nil
}

func (s *borrowerServiceImpl) SubmitKYC(ctx context.Context, borrowerID int64) error {
	b, err := s.GetBorrower(ctx, borrowerID)
	if err != nil {
		return err
	}

	if b.KYCStatus != KYCPending && b.KYCStatus != KYCRejected {
		return fmt.Errorf("%w: KYC for borrower %d is already %s", apperrors.ErrInvalidState, borrowerID, b.KYCStatus)
	}

	b.KYCStatus = KYCSubmitted
	if err := s.repo.UpdateBorrower(ctx, b); err != nil {
		s.logger.Error("Failed to mark KYC as submitted", "borrowerID", borrowerID, "error", err)
		return fmt.Errorf("failed to mark KYC as submitted: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{Action: "borrower.kyc_submit", Entity: "borrower", EntityID: borrowerID})
	return nil
}

func (s *borrowerServiceImpl) ReviewKYC(ctx context.Context, borrowerID int64, approved bool, reviewedBy string) error {
	s.logger.Info("Reviewing borrower KYC", "borrowerID", borrowerID, "approved", approved)

	b, err := s.GetBorrower(ctx, borrowerID)
	if err != nil {
		return err
	}

	if b.KYCStatus != KYCSubmitted {
		return fmt.Errorf("%w: KYC for borrower %d is %s, only submitted applications can be reviewed",
			apperrors.ErrInvalidState, borrowerID, b.KYCStatus)
	}

	if approved {
		b.KYCStatus = KYCVerified
		// Verification is the point where the full score, including payment
		// history, is recomputed and written back.
		res, err := s.scoreBorrower(ctx, b)
		if err != nil {
			return err
		}
		b.CreditScore = res.Score
	} else {
		b.KYCStatus = KYCRejected
	}

	if err := s.repo.UpdateBorrower(ctx, b); err != nil {
		s.logger.Error("Failed to update KYC status", "borrowerID", borrowerID, "error", err)
		return fmt.Errorf("failed to update KYC status: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    reviewedBy,
		Action:   "borrower.kyc_review",
		Entity:   "borrower",
		EntityID: borrowerID,
		Detail:   string(b.KYCStatus),
	})
	return nil
}

func (s *borrowerServiceImpl) SetStatus(ctx context.Context, borrowerID int64, status Status, changedBy string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("%w: invalid borrower status %q", apperrors.ErrValidation, status)
	}

	b, err := s.GetBorrower(ctx, borrowerID)
	if err != nil {
		return err
	}
	if b.Status == status {
		return nil
	}

	b.Status = status
	if err := s.repo.UpdateBorrower(ctx, b); err != nil {
		s.logger.Error("Failed to update borrower status", "borrowerID", borrowerID, "error", err)
		return fmt.Errorf("failed to update borrower status: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    changedBy,
		Action:   "borrower.set_status",
		Entity:   "borrower",
		EntityID: borrowerID,
		Detail:   string(status),
	})
	s.logger.Info("Borrower status updated", "borrowerID", borrowerID, "status", status)
	return nil
}

func (s *borrowerServiceImpl) Score(ctx context.Context, borrowerID int64) (*scoring.Result, error) {
	b, err := s.GetBorrower(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	return s.scoreBorrower(ctx, b)
}

func (s *borrowerServiceImpl) scoreBorrower(ctx context.Context, b *Borrower) (*scoring.Result, error) {
	facts, err := s.repo.GetScoreFacts(ctx, b.ID)
	if err != nil {
		s.logger.Error("Failed to load score facts", "borrowerID", b.ID, "error", err)
		return nil, fmt.Errorf("%w: failed to load score facts for borrower %d: %v", apperrors.ErrInternalServer, b.ID, err)
	}

	res := scoring.Compute(scoring.Input{
		MonthlyIncome:    b.MonthlyIncome,
		MonthlyExpenses:  b.MonthlyExpenses,
		ExistingDebts:    b.ExistingDebts,
		OnTimePayments:   facts.OnTimePayments,
		LatePayments:     facts.LatePayments,
		AccountAgeMonths: b.AccountAgeMonths(time.Now()),
		RecentInquiries:  facts.RecentInquiries,
	})
	return &res, nil
}
