package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lending-engine/internal/audit"
	"lending-engine/internal/domain/application"
	"lending-engine/internal/domain/authcode"
	"lending-engine/internal/event"
	"lending-engine/internal/infrastructure/monitoring"
	"lending-engine/internal/pkg/apperrors"
)

type DisburseInput struct {
	ApplicationID      int64
	AuthorizationCode  string
	DisbursementMethod string
	ReferenceNumber    string
	DisbursedBy        string
}

type PaymentInput struct {
	LoanID      int64
	Amount      float64
	PaymentDate time.Time
	ReceivedBy  string
}

type LoanService interface {
	// Disburse funds an approved application. The status check, code burn,
	// loan insert and status change all commit atomically or not at all.
	Disburse(ctx context.Context, in DisburseInput) (*Loan, error)

	GetLoan(ctx context.Context, loanID int64) (*Loan, error)

	RecordPayment(ctx context.Context, in PaymentInput) (*Payment, error)

	ListPayments(ctx context.Context, loanID int64) ([]Payment, error)

	// AssessOverdue accrues penalties on loans past their grace period and
	// marks them delinquent. Returns how many loans were flagged.
	AssessOverdue(ctx context.Context, asOf time.Time) (int, error)
}

type loanServiceImpl struct {
	repo        Repository
	appRepo     application.Repository
	authService authcode.AuthCodeService
	publisher   event.EventPublisher
	audit       audit.Recorder
	logger      *slog.Logger
	now         func() time.Time
}

func NewLoanService(r Repository, appRepo application.Repository, authSvc authcode.AuthCodeService, pub event.EventPublisher, rec audit.Recorder, logger *slog.Logger) LoanService {
	return &loanServiceImpl{
		repo:        r,
		appRepo:     appRepo,
		authService: authSvc,
		publisher:   pub,
		audit:       rec,
		logger:      logger.With("component", "LoanService"),
		now:         time.Now,
	}
}

func (s *loanServiceImpl) Disburse(ctx context.Context, in DisburseInput) (l *Loan, err error) {
	s.logger.Info("Disbursing loan", "applicationID", in.ApplicationID, "disbursedBy", in.DisbursedBy)

	defer func() {
		if err != nil {
			monitoring.RecordDisbursement("failure")
		}
	}()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	app, err := s.appRepo.GetApplicationForUpdateInTx(ctx, tx, in.ApplicationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: application %d not found", apperrors.ErrNotFound, in.ApplicationID)
		}
		return nil, fmt.Errorf("%w: could not load application %d: %v", apperrors.ErrInternalServer, in.ApplicationID, err)
	}

	if !application.CanTransition(app.Status, application.StatusDisbursed) {
		return nil, fmt.Errorf("%w: application %d is %s, only approved applications can be disbursed",
			apperrors.ErrInvalidState, app.ID, app.Status)
	}
	if app.ApprovedAmount <= 0 {
		return nil, fmt.Errorf("%w: application %d has no approved amount", apperrors.ErrInvalidState, app.ID)
	}
	if app.TermMonths <= 0 {
		return nil, fmt.Errorf("%w: application %d has no repayment term", apperrors.ErrInvalidState, app.ID)
	}

	if err = s.authService.ConsumeInTx(ctx, tx, app.ID, in.AuthorizationCode, in.DisbursedBy); err != nil {
		return nil, err
	}

	sched, err := ComputeSchedule(app.ApprovedAmount, app.InterestRate, app.TermMonths, app.InterestType)
	if err != nil {
		return nil, err
	}

	startDate := s.now().Truncate(24 * time.Hour)
	l, err = s.repo.CreateLoanInTx(ctx, tx, &Loan{
		ApplicationID:      app.ID,
		BorrowerID:         app.BorrowerID,
		PrincipalAmount:    app.ApprovedAmount,
		InterestRate:       app.InterestRate,
		TermMonths:         app.TermMonths,
		InterestType:       app.InterestType,
		MonthlyPayment:     sched.MonthlyPayment,
		TotalAmount:        sched.TotalAmount,
		OutstandingBalance: sched.TotalAmount,
		GracePeriodDays:    app.GracePeriodDays,
		PenaltyRate:        app.PenaltyRate,
		PenaltyFlat:        app.PenaltyFlat,
		DisbursementMethod: in.DisbursementMethod,
		ReferenceNumber:    in.ReferenceNumber,
		ReceiptNumber:      newReceiptNumber("DSB"),
		DisbursedBy:        in.DisbursedBy,
		StartDate:          startDate,
		NextDueDate:        NextDueDate(startDate),
		Status:             StatusActive,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: application %d already has a disbursed loan", apperrors.ErrConflict, app.ID)
		}
		return nil, fmt.Errorf("%w: could not create loan: %v", apperrors.ErrInternalServer, err)
	}

	if err = s.appRepo.UpdateStatusInTx(ctx, tx, app.ID, application.StatusDisbursed); err != nil {
		return nil, fmt.Errorf("%w: could not update application status: %v", apperrors.ErrInternalServer, err)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordDisbursement("success")
	s.audit.Record(ctx, audit.Entry{
		Actor:    in.DisbursedBy,
		Action:   "loan.disburse",
		Entity:   "loan",
		EntityID: l.ID,
		Detail:   l.ReceiptNumber,
	})
	if s.publisher != nil {
		pubErr := s.publisher.PublishLoanDisbursed(ctx, event.LoanDisbursedEvent{
			LoanID:        l.ID,
			ApplicationID: l.ApplicationID,
			BorrowerID:    l.BorrowerID,
			Principal:     l.PrincipalAmount,
			ReceiptNumber: l.ReceiptNumber,
			Timestamp:     s.now(),
		})
		if pubErr != nil {
			s.logger.Warn("Failed to publish loan disbursed event", "loanID", l.ID, "error", pubErr)
		}
	}

	s.logger.Info("Loan disbursed", "loanID", l.ID, "applicationID", l.ApplicationID, "receipt", l.ReceiptNumber)
	return l, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*Loan, error) {
	l, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan %d not found", apperrors.ErrNotFound, loanID)
		}
		s.logger.Error("Failed to get loan", "loanID", loanID, "error", err)
		return nil, fmt.Errorf("%w: failed to get loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}
	return l, nil
}

func (s *loanServiceImpl) RecordPayment(ctx context.Context, in PaymentInput) (p *Payment, err error) {
	s.logger.Info("Recording payment", "loanID", in.LoanID, "amount", in.Amount)

	if in.Amount <= 0 {
		monitoring.RecordPayment("rejected")
		return nil, fmt.Errorf("%w: payment amount must be greater than zero", apperrors.ErrValidation)
	}
	paymentDate := in.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = s.now()
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}
	defer func() {
		if err != nil {
			monitoring.RecordPayment("failure")
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	l, err := s.repo.GetLoanForUpdateInTx(ctx, tx, in.LoanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan %d not found", apperrors.ErrNotFound, in.LoanID)
		}
		return nil, fmt.Errorf("%w: could not load loan %d: %v", apperrors.ErrInternalServer, in.LoanID, err)
	}

	if l.Status == StatusPaidOff {
		return nil, fmt.Errorf("%w: loan %d is already paid off", apperrors.ErrInvalidState, l.ID)
	}

	dueDate := l.NextDueDate
	status := PaymentStatusPaid
	if paymentDate.After(dueDate) {
		status = PaymentStatusLate
	}
	fee := LateFee(l.OutstandingBalance, dueDate, paymentDate, l.GracePeriodDays, l.PenaltyRate, l.PenaltyFlat)

	p, err = s.repo.InsertPaymentInTx(ctx, tx, &Payment{
		LoanID:        l.ID,
		Amount:        in.Amount,
		LateFee:       fee,
		PaymentDate:   paymentDate,
		DueDate:       dueDate,
		Status:        status,
		ReceivedBy:    in.ReceivedBy,
		ReceiptNumber: newReceiptNumber("PAY"),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: duplicate payment receipt for loan %d", apperrors.ErrConflict, l.ID)
		}
		return nil, fmt.Errorf("%w: could not record payment: %v", apperrors.ErrInternalServer, err)
	}

	l.OutstandingBalance = roundTo(l.OutstandingBalance-in.Amount, 2)
	l.AccruedPenalty = roundTo(l.AccruedPenalty+fee, 2)
	if l.OutstandingBalance <= 0 {
		l.OutstandingBalance = 0
		l.Status = StatusPaidOff
	} else {
		l.NextDueDate = NextDueDate(dueDate)
		if l.Status == StatusDelinquent {
			l.Status = StatusActive
		}
	}

	if err = s.repo.UpdateLoanInTx(ctx, tx, l); err != nil {
		return nil, fmt.Errorf("%w: could not update loan balance: %v", apperrors.ErrInternalServer, err)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordPayment(string(status))
	s.audit.Record(ctx, audit.Entry{
		Actor:    in.ReceivedBy,
		Action:   "loan.record_payment",
		Entity:   "loan",
		EntityID: l.ID,
		Detail:   p.ReceiptNumber,
	})
	if s.publisher != nil {
		pubErr := s.publisher.PublishPaymentRecorded(ctx, event.PaymentRecordedEvent{
			PaymentID:     p.ID,
			LoanID:        l.ID,
			Amount:        p.Amount,
			Status:        string(p.Status),
			LateFee:       p.LateFee,
			ReceiptNumber: p.ReceiptNumber,
			Timestamp:     s.now(),
		})
		if pubErr != nil {
			s.logger.Warn("Failed to publish payment recorded event", "loanID", l.ID, "error", pubErr)
		}
	}

	s.logger.Info("Payment recorded", "loanID", l.ID, "paymentID", p.ID, "status", p.Status, "outstanding", l.OutstandingBalance)
	return p, nil
}

func (s *loanServiceImpl) ListPayments(ctx context.Context, loanID int64) ([]Payment, error) {
	if _, err := s.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}
	return s.repo.ListPaymentsByLoanID(ctx, loanID)
}

func (s *loanServiceImpl) AssessOverdue(ctx context.Context, asOf time.Time) (int, error) {
	s.logger.Info("Assessing overdue loans", "asOf", asOf)

	loans, err := s.repo.ListOverdueLoans(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("%w: could not list overdue loans: %v", apperrors.ErrInternalServer, err)
	}

	flagged := 0
	for i := range loans {
		l := &loans[i]
		fee := LateFee(l.OutstandingBalance, l.NextDueDate, asOf, l.GracePeriodDays, l.PenaltyRate, l.PenaltyFlat)
		l.AccruedPenalty = roundTo(l.AccruedPenalty+fee, 2)
		l.Status = StatusDelinquent

		if err := s.repo.UpdateLoan(ctx, l); err != nil {
			s.logger.Error("Failed to flag overdue loan", "loanID", l.ID, "error", err)
			continue
		}
		s.audit.Record(ctx, audit.Entry{
			Action:   "loan.assess_overdue",
			Entity:   "loan",
			EntityID: l.ID,
			Detail:   fmt.Sprintf("penalty=%.2f", fee),
		})
		flagged++
	}

	s.logger.Info("Overdue assessment complete", "scanned", len(loans), "flagged", flagged)
	return flagged, nil
}

func newReceiptNumber(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}
