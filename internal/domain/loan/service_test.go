package loan

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lending-engine/internal/audit"
	"lending-engine/internal/domain/application"
	"lending-engine/internal/domain/authcode"
	"lending-engine/internal/event"
	"lending-engine/internal/pkg/apperrors"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ret := _m.Called(ctx)

	var r0 pgx.Tx
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(pgx.Tx)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockRepository) CreateLoanInTx(ctx context.Context, tx pgx.Tx, l *Loan) (*Loan, error) {
	ret := _m.Called(ctx, tx, l)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetLoanByID(ctx context.Context, loanID int64) (*Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetLoanForUpdateInTx(ctx context.Context, tx pgx.Tx, loanID int64) (*Loan, error) {
	ret := _m.Called(ctx, tx, loanID)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) UpdateLoanInTx(ctx context.Context, tx pgx.Tx, l *Loan) error {
	ret := _m.Called(ctx, tx, l)
	return ret.Error(0)
}

func (_m *MockRepository) UpdateLoan(ctx context.Context, l *Loan) error {
	ret := _m.Called(ctx, l)
	return ret.Error(0)
}

func (_m *MockRepository) InsertPaymentInTx(ctx context.Context, tx pgx.Tx, p *Payment) (*Payment, error) {
	ret := _m.Called(ctx, tx, p)

	var r0 *Payment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Payment)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) ListPaymentsByLoanID(ctx context.Context, loanID int64) ([]Payment, error) {
	ret := _m.Called(ctx, loanID)

	var r0 []Payment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Payment)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) ListOverdueLoans(ctx context.Context, asOf time.Time) ([]Loan, error) {
	ret := _m.Called(ctx, asOf)

	var r0 []Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Loan)
	}
	return r0, ret.Error(1)
}

type MockApplicationRepository struct {
	mock.Mock
}

func (_m *MockApplicationRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ret := _m.Called(ctx)

	var r0 pgx.Tx
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(pgx.Tx)
	}
	return r0, ret.Error(1)
}

func (_m *MockApplicationRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockApplicationRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockApplicationRepository) CreateApplication(ctx context.Context, app *application.Application) (*application.Application, error) {
	ret := _m.Called(ctx, app)

	var r0 *application.Application
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*application.Application)
	}
	return r0, ret.Error(1)
}

func (_m *MockApplicationRepository) GetApplicationByID(ctx context.Context, applicationID int64) (*application.Application, error) {
	ret := _m.Called(ctx, applicationID)

	var r0 *application.Application
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*application.Application)
	}
	return r0, ret.Error(1)
}

func (_m *MockApplicationRepository) UpdateApplication(ctx context.Context, app *application.Application) error {
	ret := _m.Called(ctx, app)
	return ret.Error(0)
}

func (_m *MockApplicationRepository) GetApplicationForUpdateInTx(ctx context.Context, tx pgx.Tx, applicationID int64) (*application.Application, error) {
	ret := _m.Called(ctx, tx, applicationID)

	var r0 *application.Application
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*application.Application)
	}
	return r0, ret.Error(1)
}

func (_m *MockApplicationRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, applicationID int64, status application.Status) error {
	ret := _m.Called(ctx, tx, applicationID, status)
	return ret.Error(0)
}

func (_m *MockApplicationRepository) InsertApprovalInTx(ctx context.Context, tx pgx.Tx, rec *application.ApprovalRecord) (*application.ApprovalRecord, error) {
	ret := _m.Called(ctx, tx, rec)

	var r0 *application.ApprovalRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*application.ApprovalRecord)
	}
	return r0, ret.Error(1)
}

func (_m *MockApplicationRepository) ListApprovalsInTx(ctx context.Context, tx pgx.Tx, applicationID int64) ([]application.ApprovalRecord, error) {
	ret := _m.Called(ctx, tx, applicationID)

	var r0 []application.ApprovalRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]application.ApprovalRecord)
	}
	return r0, ret.Error(1)
}

func (_m *MockApplicationRepository) ListApprovals(ctx context.Context, applicationID int64) ([]application.ApprovalRecord, error) {
	ret := _m.Called(ctx, applicationID)

	var r0 []application.ApprovalRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]application.ApprovalRecord)
	}
	return r0, ret.Error(1)
}

type MockAuthCodeService struct {
	mock.Mock
}

func (_m *MockAuthCodeService) Issue(ctx context.Context, applicationID int64, issuedBy string) (*authcode.AuthorizationCode, error) {
	ret := _m.Called(ctx, applicationID, issuedBy)

	var r0 *authcode.AuthorizationCode
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*authcode.AuthorizationCode)
	}
	return r0, ret.Error(1)
}

func (_m *MockAuthCodeService) ConsumeInTx(ctx context.Context, tx pgx.Tx, applicationID int64, code, usedBy string) error {
	ret := _m.Called(ctx, tx, applicationID, code, usedBy)
	return ret.Error(0)
}

func (_m *MockAuthCodeService) ActiveCode(ctx context.Context, applicationID int64) (*authcode.AuthorizationCode, error) {
	ret := _m.Called(ctx, applicationID)

	var r0 *authcode.AuthorizationCode
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*authcode.AuthorizationCode)
	}
	return r0, ret.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (_m *MockEventPublisher) PublishApplicationApproved(ctx context.Context, e event.ApplicationDecidedEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func (_m *MockEventPublisher) PublishApplicationRejected(ctx context.Context, e event.ApplicationDecidedEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func (_m *MockEventPublisher) PublishLoanDisbursed(ctx context.Context, e event.LoanDisbursedEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func (_m *MockEventPublisher) PublishPaymentRecorded(ctx context.Context, e event.PaymentRecordedEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

type txMock struct {
	pgx.Tx
}

func approvedApplication() *application.Application {
	return &application.Application{
		ID:              1,
		BorrowerID:      7,
		RequestedAmount: 20000,
		ApprovedAmount:  15000,
		InterestRate:    12,
		TermMonths:      12,
		InterestType:    application.InterestCompound,
		GracePeriodDays: 5,
		PenaltyRate:     2,
		PenaltyFlat:     150,
		Status:          application.StatusApproved,
	}
}

func newTestService(repo *MockRepository, appRepo *MockApplicationRepository, authSvc *MockAuthCodeService, pub *MockEventPublisher) LoanService {
	// Avoid wrapping a typed nil in the interface so the service's nil
	// publisher guard still applies when no mock is supplied.
	var p event.EventPublisher
	if pub != nil {
		p = pub
	}
	return NewLoanService(repo, appRepo, authSvc, p, audit.NewLogRecorder(logger), logger)
}

func TestDisburse(t *testing.T) {
	mockRepo := new(MockRepository)
	mockAppRepo := new(MockApplicationRepository)
	mockAuth := new(MockAuthCodeService)
	mockPub := new(MockEventPublisher)
	service := newTestService(mockRepo, mockAppRepo, mockAuth, mockPub)

	ctx := context.Background()
	tx := &txMock{}
	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockAppRepo.On("GetApplicationForUpdateInTx", ctx, tx, int64(1)).Return(approvedApplication(), nil)
	mockAuth.On("ConsumeInTx", ctx, tx, int64(1), "ABCD2345", "citra").Return(nil)
	mockRepo.On("CreateLoanInTx", ctx, tx, mock.AnythingOfType("*loan.Loan")).
		Return(&Loan{ID: 5, ApplicationID: 1, BorrowerID: 7, PrincipalAmount: 15000, ReceiptNumber: "DSB-x"}, nil)
	mockAppRepo.On("UpdateStatusInTx", ctx, tx, int64(1), application.StatusDisbursed).Return(nil)
	mockRepo.On("CommitTx", ctx, tx).Return(nil)
	mockPub.On("PublishLoanDisbursed", ctx, mock.AnythingOfType("event.LoanDisbursedEvent")).Return(nil)

	l, err := service.Disburse(ctx, DisburseInput{
		ApplicationID:      1,
		AuthorizationCode:  "ABCD2345",
		DisbursementMethod: "transfer",
		ReferenceNumber:    "TRX-2026-0117",
		DisbursedBy:        "citra",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(5), l.ID)
	mockRepo.AssertExpectations(t)
	mockAppRepo.AssertExpectations(t)
	mockAuth.AssertExpectations(t)
	mockPub.AssertExpectations(t)

	created := mockRepo.Calls[1].Arguments.Get(2).(*Loan)
	assert.InDelta(t, 1332.73, created.MonthlyPayment, 0.01)
	assert.Equal(t, created.TotalAmount, created.OutstandingBalance)
	assert.Equal(t, "transfer", created.DisbursementMethod)
	assert.Equal(t, "TRX-2026-0117", created.ReferenceNumber)
	assert.Equal(t, StatusActive, created.Status)
	assert.Equal(t, created.NextDueDate, NextDueDate(created.StartDate))
}

func TestDisburseNotApproved(t *testing.T) {
	statuses := []application.Status{
		application.StatusPending,
		application.StatusUnderReview,
		application.StatusRejected,
		application.StatusDisbursed,
	}
	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			mockRepo := new(MockRepository)
			mockAppRepo := new(MockApplicationRepository)
			mockAuth := new(MockAuthCodeService)
			service := newTestService(mockRepo, mockAppRepo, mockAuth, nil)

			ctx := context.Background()
			tx := &txMock{}
			app := approvedApplication()
			app.Status = status

			mockRepo.On("BeginTx", ctx).Return(tx, nil)
			mockAppRepo.On("GetApplicationForUpdateInTx", ctx, tx, int64(1)).Return(app, nil)
			mockRepo.On("RollbackTx", ctx, tx).Return(nil)

			_, err := service.Disburse(ctx, DisburseInput{ApplicationID: 1, AuthorizationCode: "ABCD2345", DisbursedBy: "citra"})

			assert.ErrorIs(t, err, apperrors.ErrInvalidState)
			mockAuth.AssertNotCalled(t, "ConsumeInTx")
			mockRepo.AssertNotCalled(t, "CreateLoanInTx")
			mockRepo.AssertNotCalled(t, "CommitTx")
		})
	}
}

func TestDisburseCodeRejectedAbortsTransaction(t *testing.T) {
	mockRepo := new(MockRepository)
	mockAppRepo := new(MockApplicationRepository)
	mockAuth := new(MockAuthCodeService)
	service := newTestService(mockRepo, mockAppRepo, mockAuth, nil)

	ctx := context.Background()
	tx := &txMock{}
	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockAppRepo.On("GetApplicationForUpdateInTx", ctx, tx, int64(1)).Return(approvedApplication(), nil)
	mockAuth.On("ConsumeInTx", ctx, tx, int64(1), "ABCD2345", "citra").Return(apperrors.ErrCodeAlreadyUsed)
	mockRepo.On("RollbackTx", ctx, tx).Return(nil)

	_, err := service.Disburse(ctx, DisburseInput{ApplicationID: 1, AuthorizationCode: "ABCD2345", DisbursedBy: "citra"})

	assert.ErrorIs(t, err, apperrors.ErrCodeAlreadyUsed)
	mockRepo.AssertNotCalled(t, "CreateLoanInTx")
	mockAppRepo.AssertNotCalled(t, "UpdateStatusInTx")
	mockRepo.AssertNotCalled(t, "CommitTx")
	mockRepo.AssertExpectations(t)
}

func TestDisburseDuplicateLoan(t *testing.T) {
	mockRepo := new(MockRepository)
	mockAppRepo := new(MockApplicationRepository)
	mockAuth := new(MockAuthCodeService)
	service := newTestService(mockRepo, mockAppRepo, mockAuth, nil)

	ctx := context.Background()
	tx := &txMock{}
	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockAppRepo.On("GetApplicationForUpdateInTx", ctx, tx, int64(1)).Return(approvedApplication(), nil)
	mockAuth.On("ConsumeInTx", ctx, tx, int64(1), "ABCD2345", "citra").Return(nil)
	mockRepo.On("CreateLoanInTx", ctx, tx, mock.AnythingOfType("*loan.Loan")).Return(nil, apperrors.ErrConflict)
	mockRepo.On("RollbackTx", ctx, tx).Return(nil)

	_, err := service.Disburse(ctx, DisburseInput{ApplicationID: 1, AuthorizationCode: "ABCD2345", DisbursedBy: "citra"})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	mockAppRepo.AssertNotCalled(t, "UpdateStatusInTx")
	mockRepo.AssertNotCalled(t, "CommitTx")
}

func activeLoan() *Loan {
	return &Loan{
		ID:                 5,
		ApplicationID:      1,
		BorrowerID:         7,
		PrincipalAmount:    15000,
		TermMonths:         12,
		MonthlyPayment:     1332.73,
		TotalAmount:        15992.76,
		OutstandingBalance: 15992.76,
		GracePeriodDays:    5,
		PenaltyRate:        2,
		PenaltyFlat:        150,
		StartDate:          time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
		NextDueDate:        time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		Status:             StatusActive,
	}
}

func TestRecordPaymentOnTime(t *testing.T) {
	mockRepo := new(MockRepository)
	mockAppRepo := new(MockApplicationRepository)
	mockAuth := new(MockAuthCodeService)
	mockPub := new(MockEventPublisher)
	service := newTestService(mockRepo, mockAppRepo, mockAuth, mockPub)

	ctx := context.Background()
	tx := &txMock{}
	l := activeLoan()
	paymentDate := time.Date(2025, time.May, 30, 0, 0, 0, 0, time.UTC)

	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockRepo.On("GetLoanForUpdateInTx", ctx, tx, int64(5)).Return(l, nil)
	mockRepo.On("InsertPaymentInTx", ctx, tx, mock.AnythingOfType("*loan.Payment")).
		Return(&Payment{ID: 9, LoanID: 5, Amount: 1332.73, Status: PaymentStatusPaid, ReceiptNumber: "PAY-x"}, nil)
	mockRepo.On("UpdateLoanInTx", ctx, tx, l).Return(nil)
	mockRepo.On("CommitTx", ctx, tx).Return(nil)
	mockPub.On("PublishPaymentRecorded", ctx, mock.AnythingOfType("event.PaymentRecordedEvent")).Return(nil)

	p, err := service.RecordPayment(ctx, PaymentInput{
		LoanID:      5,
		Amount:      1332.73,
		PaymentDate: paymentDate,
		ReceivedBy:  "citra",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(9), p.ID)
	assert.InDelta(t, 14660.03, l.OutstandingBalance, 0.01)
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), l.NextDueDate)
	assert.Equal(t, StatusActive, l.Status)
	mockRepo.AssertExpectations(t)

	inserted := mockRepo.Calls[2].Arguments.Get(2).(*Payment)
	assert.Equal(t, PaymentStatusPaid, inserted.Status)
	assert.Equal(t, 0.0, inserted.LateFee)
}

func TestRecordPaymentLateAccruesFee(t *testing.T) {
	mockRepo := new(MockRepository)
	mockAppRepo := new(MockApplicationRepository)
	mockAuth := new(MockAuthCodeService)
	service := newTestService(mockRepo, mockAppRepo, mockAuth, nil)

	ctx := context.Background()
	tx := &txMock{}
	l := activeLoan()
	paymentDate := time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC)

	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockRepo.On("GetLoanForUpdateInTx", ctx, tx, int64(5)).Return(l, nil)
	mockRepo.On("InsertPaymentInTx", ctx, tx, mock.AnythingOfType("*loan.Payment")).
		Return(&Payment{ID: 10, LoanID: 5, Status: PaymentStatusLate}, nil)
	mockRepo.On("UpdateLoanInTx", ctx, tx, l).Return(nil)
	mockRepo.On("CommitTx", ctx, tx).Return(nil)

	_, err := service.RecordPayment(ctx, PaymentInput{
		LoanID:      5,
		Amount:      1332.73,
		PaymentDate: paymentDate,
		ReceivedBy:  "citra",
	})

	assert.NoError(t, err)
	inserted := mockRepo.Calls[2].Arguments.Get(2).(*Payment)
	assert.Equal(t, PaymentStatusLate, inserted.Status)
	// 2% of 15992.76 beats the 150 flat fee.
	assert.InDelta(t, 319.86, inserted.LateFee, 0.01)
	assert.InDelta(t, 319.86, l.AccruedPenalty, 0.01)
}

func TestRecordPaymentPaysOffLoan(t *testing.T) {
	mockRepo := new(MockRepository)
	mockAppRepo := new(MockApplicationRepository)
	mockAuth := new(MockAuthCodeService)
	service := newTestService(mockRepo, mockAppRepo, mockAuth, nil)

	ctx := context.Background()
	tx := &txMock{}
	l := activeLoan()
	l.OutstandingBalance = 1332.73

	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockRepo.On("GetLoanForUpdateInTx", ctx, tx, int64(5)).Return(l, nil)
	mockRepo.On("InsertPaymentInTx", ctx, tx, mock.AnythingOfType("*loan.Payment")).
		Return(&Payment{ID: 11, LoanID: 5, Status: PaymentStatusPaid}, nil)
	mockRepo.On("UpdateLoanInTx", ctx, tx, l).Return(nil)
	mockRepo.On("CommitTx", ctx, tx).Return(nil)

	_, err := service.RecordPayment(ctx, PaymentInput{
		LoanID:      5,
		Amount:      1332.73,
		PaymentDate: time.Date(2025, time.May, 30, 0, 0, 0, 0, time.UTC),
		ReceivedBy:  "citra",
	})

	assert.NoError(t, err)
	assert.Equal(t, 0.0, l.OutstandingBalance)
	assert.Equal(t, StatusPaidOff, l.Status)
}

func TestRecordPaymentOnPaidOffLoan(t *testing.T) {
	mockRepo := new(MockRepository)
	mockAppRepo := new(MockApplicationRepository)
	mockAuth := new(MockAuthCodeService)
	service := newTestService(mockRepo, mockAppRepo, mockAuth, nil)

	ctx := context.Background()
	tx := &txMock{}
	l := activeLoan()
	l.Status = StatusPaidOff

	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockRepo.On("GetLoanForUpdateInTx", ctx, tx, int64(5)).Return(l, nil)
	mockRepo.On("RollbackTx", ctx, tx).Return(nil)

	_, err := service.RecordPayment(ctx, PaymentInput{
		LoanID:     5,
		Amount:     100,
		ReceivedBy: "citra",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	mockRepo.AssertNotCalled(t, "InsertPaymentInTx")
}

func TestAssessOverdue(t *testing.T) {
	mockRepo := new(MockRepository)
	mockAppRepo := new(MockApplicationRepository)
	mockAuth := new(MockAuthCodeService)
	service := newTestService(mockRepo, mockAppRepo, mockAuth, nil)

	ctx := context.Background()
	asOf := time.Date(2025, time.June, 15, 1, 0, 0, 0, time.UTC)
	overdue := []Loan{*activeLoan()}

	mockRepo.On("ListOverdueLoans", ctx, asOf).Return(overdue, nil)
	mockRepo.On("UpdateLoan", ctx, mock.AnythingOfType("*loan.Loan")).Return(nil)

	flagged, err := service.AssessOverdue(ctx, asOf)

	assert.NoError(t, err)
	assert.Equal(t, 1, flagged)

	updated := mockRepo.Calls[1].Arguments.Get(1).(*Loan)
	assert.Equal(t, StatusDelinquent, updated.Status)
	assert.InDelta(t, 319.86, updated.AccruedPenalty, 0.01)
}
