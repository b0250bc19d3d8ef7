package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"lending-engine/internal/api/handler/dto"
	"lending-engine/internal/api/middleware"
	"lending-engine/internal/domain/application"
	"lending-engine/internal/domain/loan"
	"lending-engine/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Authentication required."
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrAlreadyExists):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrInvalidState):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrCodeExpired),
		errors.Is(err, apperrors.ErrCodeAlreadyUsed),
		errors.Is(err, apperrors.ErrCodeMismatch):
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func pathID(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	if idStr == "" {
		return 0, fmt.Errorf("%w: %s not found in URL path", apperrors.ErrInvalidArgument, name)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s format in URL path: %s", apperrors.ErrInvalidArgument, name, idStr)
	}
	return id, nil
}

// GetLoan handles GET /loans/{loanID}
// @Summary Retrieve loan details
// @Description Retrieves details for a specific disbursed loan.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Success 200 {object} dto.LoanResponse "Loan details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID format"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanID")
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get loan ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	l, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(l))
}

// GetSchedule handles GET /loans/{loanID}/schedule
// @Summary Retrieve the repayment schedule of a loan
// @Description Returns the monthly installment and total repayable amount computed from the loan terms.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Success 200 {object} dto.ScheduleResponse "Schedule retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID format"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/schedule [get]
// @Security BearerAuth
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	l, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := dto.NewScheduleResponse(loan.Schedule{
		MonthlyPayment: l.MonthlyPayment,
		TotalAmount:    l.TotalAmount,
	})
	respondJSON(w, http.StatusOK, resp)
}

// PreviewSchedule handles POST /loans/schedule
// @Summary Preview a repayment schedule
// @Description Computes the monthly installment and total repayable amount for hypothetical loan terms without creating anything.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.ScheduleRequest true "Terms to amortize"
// @Success 200 {object} dto.ScheduleResponse "Schedule computed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Router /loans/schedule [post]
// @Security BearerAuth
func (h *LoanHandler) PreviewSchedule(w http.ResponseWriter, r *http.Request) {
	var req dto.ScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	interestType := req.InterestType
	if interestType == "" {
		interestType = "compound"
	}
	schedule, err := loan.ComputeSchedule(req.ParsedPrincipal(), req.InterestRate, req.TermMonths, application.InterestType(interestType))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewScheduleResponse(schedule))
}

// RecordPayment handles POST /loans/{loanID}/payments
// @Summary Record a repayment
// @Description Registers an installment payment against a loan, assessing a late fee when the due date has passed the grace period.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Param request body dto.PaymentRequest true "Payment payload"
// @Success 201 {object} dto.PaymentResponse "Payment successfully recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID or request payload"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan is not in a payable state"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/payments [post]
// @Security BearerAuth
func (h *LoanHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.PaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	payment, err := h.service.RecordPayment(r.Context(), loan.PaymentInput{
		LoanID:      loanID,
		Amount:      req.ParsedAmount(),
		PaymentDate: paymentDate,
		ReceivedBy:  middleware.UsernameFromContext(r.Context()),
	})
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidState) &&
			!errors.Is(err, apperrors.ErrValidation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to record payment", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Payment recorded", slog.Int64("loanID", loanID), slog.String("receipt", payment.ReceiptNumber))
	respondJSON(w, http.StatusCreated, dto.NewPaymentResponse(payment))
}

// ListPayments handles GET /loans/{loanID}/payments
// @Summary List payments of a loan
// @Description Retrieves all payments recorded against a loan, newest first.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Success 200 {array} dto.PaymentResponse "List of payments"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/payments [get]
// @Security BearerAuth
func (h *LoanHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	payments, err := h.service.ListPayments(r.Context(), loanID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list payments", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		resp[i] = dto.NewPaymentResponse(&payments[i])
	}
	respondJSON(w, http.StatusOK, resp)
}
