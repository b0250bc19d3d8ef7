package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lending-engine/internal/audit"
	"lending-engine/internal/domain/borrower"
	"lending-engine/internal/domain/scoring"
	"lending-engine/internal/event"
	"lending-engine/internal/infrastructure/monitoring"
	"lending-engine/internal/pkg/apperrors"
)

type CreateApplicationInput struct {
	BorrowerID      int64
	LoanType        string
	RequestedAmount float64
	Purpose         string
	InterestType    InterestType
	GracePeriodDays int
	PenaltyRate     float64
	PenaltyFlat     float64
}

type UpdateReviewInput struct {
	ApplicationID  int64
	ApprovedAmount float64
	InterestRate   float64
	TermMonths     int
	ReviewedBy     string
}

type DecisionInput struct {
	ApplicationID int64
	Stage         Stage
	Decision      Decision
	DeciderID     int64
	DecidedBy     string
	DeciderRole   Role
	Notes         string
}

type ApplicationService interface {
	CreateApplication(ctx context.Context, in CreateApplicationInput) (*Application, error)

	GetApplication(ctx context.Context, applicationID int64) (*Application, error)

	UpdateReview(ctx context.Context, in UpdateReviewInput) (*Application, error)

	// RecordDecision appends one stage decision and re-evaluates the
	// application against a single settings snapshot. Returns the inserted
	// record and the status the application ended up in.
	RecordDecision(ctx context.Context, in DecisionInput) (*ApprovalRecord, Status, error)

	ListApprovals(ctx context.Context, applicationID int64) ([]ApprovalRecord, error)

	Settings() PermissionSettings
}

type applicationServiceImpl struct {
	repo            Repository
	borrowerService borrower.BorrowerService
	settings        PermissionSettings
	publisher       event.EventPublisher
	audit           audit.Recorder
	logger          *slog.Logger
}

func NewApplicationService(r Repository, bs borrower.BorrowerService, settings PermissionSettings, pub event.EventPublisher, rec audit.Recorder, logger *slog.Logger) ApplicationService {
	return &applicationServiceImpl{
		repo:            r,
		borrowerService: bs,
		settings:        settings,
		publisher:       pub,
		audit:           rec,
		logger:          logger.With("component", "ApplicationService"),
	}
}

func (s *applicationServiceImpl) Settings() PermissionSettings {
	return s.settings
}

func (s *applicationServiceImpl) CreateApplication(ctx context.Context, in CreateApplicationInput) (*Application, error) {
	s.logger.Info("Creating loan application", "borrowerID", in.BorrowerID)

	b, err := s.borrowerService.GetBorrower(ctx, in.BorrowerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: borrower %d not found", apperrors.ErrValidation, in.BorrowerID)
		}
		return nil, fmt.Errorf("failed to verify borrower: %w", err)
	}

	if b.Status != borrower.StatusActive {
		return nil, fmt.Errorf("%w: borrower %d is %s", apperrors.ErrInvalidState, b.ID, b.Status)
	}
	if b.KYCStatus != borrower.KYCVerified {
		return nil, fmt.Errorf("%w: borrower %d has not completed identity verification", apperrors.ErrInvalidState, b.ID)
	}

	// Eligibility always derives from the stored borrower score, never
	// from caller input.
	app, err := NewApplication(in.BorrowerID, in.LoanType, in.RequestedAmount, in.Purpose, b.CreditScore)
	if err != nil {
		return nil, err
	}

	if in.InterestType != "" {
		if !ValidInterestType(in.InterestType) {
			return nil, fmt.Errorf("%w: invalid interestType %q", apperrors.ErrValidation, in.InterestType)
		}
		app.InterestType = in.InterestType
	}
	if in.GracePeriodDays < 0 || in.PenaltyRate < 0 || in.PenaltyFlat < 0 {
		return nil, fmt.Errorf("%w: penalty configuration cannot be negative", apperrors.ErrValidation)
	}
	app.GracePeriodDays = in.GracePeriodDays
	app.PenaltyRate = in.PenaltyRate
	app.PenaltyFlat = in.PenaltyFlat

	app.RiskTier = scoring.RiskTier(b.CreditScore)
	annualIncome := b.MonthlyIncome * 12
	if annualIncome > 0 {
		app.IncomeRatio = in.RequestedAmount / annualIncome
		app.DebtToIncome = b.ExistingDebts / annualIncome
	} else {
		// No income on file: both ratios saturate to maximal risk.
		app.IncomeRatio = 1
		app.DebtToIncome = 1
	}

	created, err := s.repo.CreateApplication(ctx, app)
	if err != nil {
		s.logger.Error("Failed to save application", "error", err)
		return nil, fmt.Errorf("failed to save application: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{Action: "application.create", Entity: "application", EntityID: created.ID})
	s.logger.Info("Application created", "applicationID", created.ID, "riskTier", created.RiskTier)
	return created, nil
}

func (s *applicationServiceImpl) GetApplication(ctx context.Context, applicationID int64) (*Application, error) {
	app, err := s.repo.GetApplicationByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: application %d not found", apperrors.ErrNotFound, applicationID)
		}
		s.logger.Error("Failed to get application", "applicationID", applicationID, "error", err)
		return nil, fmt.Errorf("%w: failed to get application %d: %v", apperrors.ErrInternalServer, applicationID, err)
	}
	return app, nil
}

func (s *applicationServiceImpl) UpdateReview(ctx context.Context, in UpdateReviewInput) (*Application, error) {
	s.logger.Info("Updating application review terms", "applicationID", in.ApplicationID)

	if in.ApprovedAmount <= 0 {
		return nil, fmt.Errorf("%w: approvedAmount must be greater than zero", apperrors.ErrValidation)
	}
	if in.TermMonths <= 0 {
		return nil, fmt.Errorf("%w: termMonths must be positive", apperrors.ErrValidation)
	}
	if in.InterestRate < 0 {
		return nil, fmt.Errorf("%w: interestRate cannot be negative", apperrors.ErrValidation)
	}

	app, err := s.GetApplication(ctx, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != StatusPending && app.Status != StatusUnderReview {
		return nil, fmt.Errorf("%w: application %d is %s, review terms are frozen",
			apperrors.ErrInvalidState, app.ID, app.Status)
	}

	now := time.Now()
	app.ApprovedAmount = in.ApprovedAmount
	app.InterestRate = in.InterestRate
	app.TermMonths = in.TermMonths
	app.ReviewedBy = &in.ReviewedBy
	app.ReviewedAt = &now

	if err := s.repo.UpdateApplication(ctx, app); err != nil {
		s.logger.Error("Failed to update application", "applicationID", app.ID, "error", err)
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{Actor: in.ReviewedBy, Action: "application.update_review", Entity: "application", EntityID: app.ID})
	return app, nil
}

func (s *applicationServiceImpl) RecordDecision(ctx context.Context, in DecisionInput) (rec *ApprovalRecord, status Status, err error) {
	s.logger.Info("Recording stage decision",
		"applicationID", in.ApplicationID, "stage", in.Stage, "decision", in.Decision, "role", in.DeciderRole)

	if !ValidStage(in.Stage) {
		return nil, "", fmt.Errorf("%w: invalid approval stage %q", apperrors.ErrValidation, in.Stage)
	}
	if !ValidDecision(in.Decision) {
		return nil, "", fmt.Errorf("%w: invalid decision %q", apperrors.ErrValidation, in.Decision)
	}

	// One consistent snapshot for the whole evaluation.
	settings := s.settings

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	app, err := s.repo.GetApplicationForUpdateInTx(ctx, tx, in.ApplicationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: application %d not found", apperrors.ErrNotFound, in.ApplicationID)
		}
		return nil, "", fmt.Errorf("%w: could not load application %d: %v", apperrors.ErrInternalServer, in.ApplicationID, err)
	}

	if app.Status != StatusPending && app.Status != StatusUnderReview {
		return nil, "", fmt.Errorf("%w: application %d is %s, no further decisions are accepted",
			apperrors.ErrInvalidState, app.ID, app.Status)
	}

	if err = CanDecideStage(settings, in.Stage, in.DeciderRole, app.RequestedAmount); err != nil {
		return nil, "", err
	}

	rec, err = s.repo.InsertApprovalInTx(ctx, tx, &ApprovalRecord{
		ApplicationID: app.ID,
		Stage:         in.Stage,
		Decision:      in.Decision,
		DecidedBy:     in.DecidedBy,
		DeciderID:     in.DeciderID,
		DeciderRole:   in.DeciderRole,
		Notes:         in.Notes,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, "", fmt.Errorf("%w: stage %s of application %d has already been decided",
				apperrors.ErrConflict, in.Stage, app.ID)
		}
		return nil, "", fmt.Errorf("%w: could not insert approval record: %v", apperrors.ErrInternalServer, err)
	}

	records, err := s.repo.ListApprovalsInTx(ctx, tx, app.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: could not list approval records: %v", apperrors.ErrInternalServer, err)
	}

	status = Evaluate(settings, app.RequestedAmount, records)
	if status != app.Status {
		if !CanTransition(app.Status, status) {
			return nil, "", fmt.Errorf("%w: application %d cannot move from %s to %s",
				apperrors.ErrInvalidState, app.ID, app.Status, status)
		}
		if err = s.repo.UpdateStatusInTx(ctx, tx, app.ID, status); err != nil {
			return nil, "", fmt.Errorf("%w: could not update application status: %v", apperrors.ErrInternalServer, err)
		}
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, "", fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordStageDecision(string(in.Stage), string(in.Decision))
	s.audit.Record(ctx, audit.Entry{
		Actor:    in.DecidedBy,
		Action:   "application.record_decision",
		Entity:   "application",
		EntityID: app.ID,
		Detail:   fmt.Sprintf("%s:%s", in.Stage, in.Decision),
	})
	s.notifyDecision(ctx, app, in, status)

	s.logger.Info("Stage decision recorded", "applicationID", app.ID, "stage", in.Stage, "status", status)
	return rec, status, nil
}

func (s *applicationServiceImpl) ListApprovals(ctx context.Context, applicationID int64) ([]ApprovalRecord, error) {
	if _, err := s.GetApplication(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.repo.ListApprovals(ctx, applicationID)
}

func (s *applicationServiceImpl) notifyDecision(ctx context.Context, app *Application, in DecisionInput, status Status) {
	if s.publisher == nil {
		return
	}

	e := event.ApplicationDecidedEvent{
		ApplicationID: app.ID,
		BorrowerID:    app.BorrowerID,
		Status:        string(status),
		Stage:         string(in.Stage),
		DecidedBy:     in.DecidedBy,
		Timestamp:     time.Now(),
	}

	var err error
	switch status {
	case StatusApproved:
		err = s.publisher.PublishApplicationApproved(ctx, e)
	case StatusRejected:
		err = s.publisher.PublishApplicationRejected(ctx, e)
	default:
		return
	}
	if err != nil {
		// Notification delivery is best-effort.
		s.logger.Warn("Failed to publish application decision event", "applicationID", app.ID, "error", err)
	}
}
