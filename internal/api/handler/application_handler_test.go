package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lending-engine/internal/api/handler/dto"
	"lending-engine/internal/domain/application"
	"lending-engine/internal/domain/authcode"
	"lending-engine/internal/domain/loan"
	"lending-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) CreateApplication(ctx context.Context, in application.CreateApplicationInput) (*application.Application, error) {
	args := m.Called(ctx, in)
	if app, ok := args.Get(0).(*application.Application); ok {
		return app, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockApplicationService) GetApplication(ctx context.Context, applicationID int64) (*application.Application, error) {
	args := m.Called(ctx, applicationID)
	if app, ok := args.Get(0).(*application.Application); ok {
		return app, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockApplicationService) UpdateReview(ctx context.Context, in application.UpdateReviewInput) (*application.Application, error) {
	args := m.Called(ctx, in)
	if app, ok := args.Get(0).(*application.Application); ok {
		return app, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockApplicationService) RecordDecision(ctx context.Context, in application.DecisionInput) (*application.ApprovalRecord, application.Status, error) {
	args := m.Called(ctx, in)
	var rec *application.ApprovalRecord
	if r, ok := args.Get(0).(*application.ApprovalRecord); ok {
		rec = r
	}
	return rec, args.Get(1).(application.Status), args.Error(2)
}

func (m *MockApplicationService) ListApprovals(ctx context.Context, applicationID int64) ([]application.ApprovalRecord, error) {
	args := m.Called(ctx, applicationID)
	if records, ok := args.Get(0).([]application.ApprovalRecord); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockApplicationService) Settings() application.PermissionSettings {
	args := m.Called()
	return args.Get(0).(application.PermissionSettings)
}

type MockAuthCodeService struct {
	mock.Mock
}

func (m *MockAuthCodeService) Issue(ctx context.Context, applicationID int64, issuedBy string) (*authcode.AuthorizationCode, error) {
	args := m.Called(ctx, applicationID, issuedBy)
	if code, ok := args.Get(0).(*authcode.AuthorizationCode); ok {
		return code, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthCodeService) ConsumeInTx(ctx context.Context, tx pgx.Tx, applicationID int64, code, usedBy string) error {
	args := m.Called(ctx, tx, applicationID, code, usedBy)
	return args.Error(0)
}

func (m *MockAuthCodeService) ActiveCode(ctx context.Context, applicationID int64) (*authcode.AuthorizationCode, error) {
	args := m.Called(ctx, applicationID)
	if code, ok := args.Get(0).(*authcode.AuthorizationCode); ok {
		return code, args.Error(1)
	}
	return nil, args.Error(1)
}

func newApplicationHandler(appSvc *MockApplicationService, acSvc *MockAuthCodeService, loanSvc *MockLoanService) *ApplicationHandler {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewApplicationHandler(appSvc, acSvc, loanSvc, logger)
}

func TestApplicationHandlerCreateApplication(t *testing.T) {
	t.Run("successfully creates an application", func(t *testing.T) {
		mockService := new(MockApplicationService)
		handler := newApplicationHandler(mockService, new(MockAuthCodeService), new(MockLoanService))

		created := &application.Application{
			ID:               10,
			BorrowerID:       7,
			LoanType:         "personal",
			RequestedAmount:  15000,
			EligibilityScore: 680,
			RiskTier:         "near_prime",
			Status:           application.StatusPending,
		}
		mockService.On("CreateApplication", mock.Anything, mock.MatchedBy(func(in application.CreateApplicationInput) bool {
			return in.BorrowerID == 7 && in.RequestedAmount == 15000 && in.LoanType == "personal"
		})).Return(created, nil)

		body := strings.NewReader(`{"borrowerId":7,"loanType":"personal","requestedAmount":"15000","purpose":"working capital"}`)
		req := httptest.NewRequest(http.MethodPost, "/applications", body)
		rec := httptest.NewRecorder()

		handler.CreateApplication(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.ApplicationResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(10), resp.ID)
		assert.Equal(t, "near_prime", resp.RiskTier)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects an unverified borrower with conflict", func(t *testing.T) {
		mockService := new(MockApplicationService)
		handler := newApplicationHandler(mockService, new(MockAuthCodeService), new(MockLoanService))

		mockService.On("CreateApplication", mock.Anything, mock.Anything).
			Return((*application.Application)(nil), apperrors.ErrInvalidState)

		body := strings.NewReader(`{"borrowerId":7,"loanType":"personal","requestedAmount":"15000"}`)
		req := httptest.NewRequest(http.MethodPost, "/applications", body)
		rec := httptest.NewRecorder()

		handler.CreateApplication(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects an invalid payload", func(t *testing.T) {
		mockService := new(MockApplicationService)
		handler := newApplicationHandler(mockService, new(MockAuthCodeService), new(MockLoanService))

		body := strings.NewReader(`{"borrowerId":7}`)
		req := httptest.NewRequest(http.MethodPost, "/applications", body)
		rec := httptest.NewRecorder()

		handler.CreateApplication(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "CreateApplication", mock.Anything, mock.Anything)
	})
}

func TestApplicationHandlerRecordDecision(t *testing.T) {
	t.Run("records a decision using token identity", func(t *testing.T) {
		mockService := new(MockApplicationService)
		handler := newApplicationHandler(mockService, new(MockAuthCodeService), new(MockLoanService))

		record := &application.ApprovalRecord{
			ID:            1,
			ApplicationID: 10,
			Stage:         application.StageLoanOfficer,
			Decision:      application.DecisionApproved,
			DecidedBy:     "andi",
			DeciderRole:   application.RoleLoanOfficer,
		}
		mockService.On("RecordDecision", mock.Anything, mock.MatchedBy(func(in application.DecisionInput) bool {
			return in.ApplicationID == 10 && in.DecidedBy == "andi" && in.DeciderRole == application.RoleLoanOfficer
		})).Return(record, application.StatusUnderReview, nil)

		body := strings.NewReader(`{"stage":"loan_officer","decision":"approved"}`)
		req := routeContext(httptest.NewRequest(http.MethodPost, "/applications/10/approvals", body), "applicationID", "10")
		req = authedContext(req, "andi", "loan_officer")
		rec := httptest.NewRecorder()

		handler.RecordDecision(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.DecisionResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "under_review", resp.ApplicationStatus)
		assert.Equal(t, "andi", resp.Approval.DecidedBy)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects a request without token identity", func(t *testing.T) {
		mockService := new(MockApplicationService)
		handler := newApplicationHandler(mockService, new(MockAuthCodeService), new(MockLoanService))

		body := strings.NewReader(`{"stage":"loan_officer","decision":"approved"}`)
		req := routeContext(httptest.NewRequest(http.MethodPost, "/applications/10/approvals", body), "applicationID", "10")
		rec := httptest.NewRecorder()

		handler.RecordDecision(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockService.AssertNotCalled(t, "RecordDecision", mock.Anything, mock.Anything)
	})

	t.Run("maps a duplicate stage to conflict", func(t *testing.T) {
		mockService := new(MockApplicationService)
		handler := newApplicationHandler(mockService, new(MockAuthCodeService), new(MockLoanService))

		mockService.On("RecordDecision", mock.Anything, mock.Anything).
			Return((*application.ApprovalRecord)(nil), application.StatusUnderReview, apperrors.ErrConflict)

		body := strings.NewReader(`{"stage":"loan_officer","decision":"approved"}`)
		req := routeContext(httptest.NewRequest(http.MethodPost, "/applications/10/approvals", body), "applicationID", "10")
		req = authedContext(req, "andi", "loan_officer")
		rec := httptest.NewRecorder()

		handler.RecordDecision(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("maps a cashier decision to forbidden", func(t *testing.T) {
		mockService := new(MockApplicationService)
		handler := newApplicationHandler(mockService, new(MockAuthCodeService), new(MockLoanService))

		mockService.On("RecordDecision", mock.Anything, mock.Anything).
			Return((*application.ApprovalRecord)(nil), application.StatusPending, apperrors.ErrForbidden)

		body := strings.NewReader(`{"stage":"loan_officer","decision":"approved"}`)
		req := routeContext(httptest.NewRequest(http.MethodPost, "/applications/10/approvals", body), "applicationID", "10")
		req = authedContext(req, "citra", "cashier")
		rec := httptest.NewRecorder()

		handler.RecordDecision(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		mockService.AssertExpectations(t)
	})
}

func TestApplicationHandlerIssueAuthCode(t *testing.T) {
	t.Run("issues a code for an approved application", func(t *testing.T) {
		mockCodes := new(MockAuthCodeService)
		handler := newApplicationHandler(new(MockApplicationService), mockCodes, new(MockLoanService))

		expires := time.Now().Add(5 * time.Minute)
		mockCodes.On("Issue", mock.Anything, int64(10), "budi").Return(&authcode.AuthorizationCode{
			ApplicationID: 10,
			Code:          "K7ZP2Q4M",
			ExpiresAt:     expires,
		}, nil)

		req := routeContext(httptest.NewRequest(http.MethodPost, "/applications/10/authorization-codes", nil), "applicationID", "10")
		req = authedContext(req, "budi", "manager")
		rec := httptest.NewRecorder()

		handler.IssueAuthCode(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.AuthCodeResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "K7ZP2Q4M", resp.Code)
		mockCodes.AssertExpectations(t)
	})

	t.Run("maps an unapproved application to conflict", func(t *testing.T) {
		mockCodes := new(MockAuthCodeService)
		handler := newApplicationHandler(new(MockApplicationService), mockCodes, new(MockLoanService))

		mockCodes.On("Issue", mock.Anything, int64(10), "").
			Return((*authcode.AuthorizationCode)(nil), apperrors.ErrInvalidState)

		req := routeContext(httptest.NewRequest(http.MethodPost, "/applications/10/authorization-codes", nil), "applicationID", "10")
		rec := httptest.NewRecorder()

		handler.IssueAuthCode(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		mockCodes.AssertExpectations(t)
	})
}

func TestApplicationHandlerDisburse(t *testing.T) {
	t.Run("disburses with a valid code", func(t *testing.T) {
		mockLoans := new(MockLoanService)
		handler := newApplicationHandler(new(MockApplicationService), new(MockAuthCodeService), mockLoans)

		disbursed := &loan.Loan{ID: 5, ApplicationID: 10, PrincipalAmount: 15000, Status: loan.StatusActive}
		mockLoans.On("Disburse", mock.Anything, mock.MatchedBy(func(in loan.DisburseInput) bool {
			return in.ApplicationID == 10 && in.AuthorizationCode == "K7ZP2Q4M" &&
				in.DisbursementMethod == "transfer" && in.ReferenceNumber == "TRX-77" && in.DisbursedBy == "citra"
		})).Return(disbursed, nil)

		body := strings.NewReader(`{"authorizationCode":"K7ZP2Q4M","disbursementMethod":"transfer","referenceNumber":"TRX-77"}`)
		req := routeContext(httptest.NewRequest(http.MethodPost, "/applications/10/disbursement", body), "applicationID", "10")
		req = authedContext(req, "citra", "cashier")
		rec := httptest.NewRecorder()

		handler.Disburse(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.LoanResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(5), resp.ID)
		mockLoans.AssertExpectations(t)
	})

	t.Run("maps an expired code to unprocessable entity", func(t *testing.T) {
		mockLoans := new(MockLoanService)
		handler := newApplicationHandler(new(MockApplicationService), new(MockAuthCodeService), mockLoans)

		mockLoans.On("Disburse", mock.Anything, mock.Anything).
			Return((*loan.Loan)(nil), apperrors.ErrCodeExpired)

		body := strings.NewReader(`{"authorizationCode":"K7ZP2Q4M","disbursementMethod":"cash"}`)
		req := routeContext(httptest.NewRequest(http.MethodPost, "/applications/10/disbursement", body), "applicationID", "10")
		rec := httptest.NewRecorder()

		handler.Disburse(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		mockLoans.AssertExpectations(t)
	})

	t.Run("rejects an empty code", func(t *testing.T) {
		mockLoans := new(MockLoanService)
		handler := newApplicationHandler(new(MockApplicationService), new(MockAuthCodeService), mockLoans)

		body := strings.NewReader(`{"authorizationCode":"","disbursementMethod":"cash"}`)
		req := routeContext(httptest.NewRequest(http.MethodPost, "/applications/10/disbursement", body), "applicationID", "10")
		rec := httptest.NewRecorder()

		handler.Disburse(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockLoans.AssertNotCalled(t, "Disburse", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unknown disbursement method", func(t *testing.T) {
		mockLoans := new(MockLoanService)
		handler := newApplicationHandler(new(MockApplicationService), new(MockAuthCodeService), mockLoans)

		body := strings.NewReader(`{"authorizationCode":"K7ZP2Q4M","disbursementMethod":"crypto"}`)
		req := routeContext(httptest.NewRequest(http.MethodPost, "/applications/10/disbursement", body), "applicationID", "10")
		rec := httptest.NewRecorder()

		handler.Disburse(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockLoans.AssertNotCalled(t, "Disburse", mock.Anything, mock.Anything)
	})
}
