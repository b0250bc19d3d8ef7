package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"lending-engine/internal/api/handler/dto"
	"lending-engine/internal/api/middleware"
	"lending-engine/internal/domain/application"
	"lending-engine/internal/domain/authcode"
	"lending-engine/internal/domain/loan"
	"lending-engine/internal/pkg/apperrors"
)

type ApplicationHandler struct {
	service     application.ApplicationService
	authCodes   authcode.AuthCodeService
	loanService loan.LoanService
	logger      *slog.Logger
}

func NewApplicationHandler(s application.ApplicationService, ac authcode.AuthCodeService, ls loan.LoanService, l *slog.Logger) *ApplicationHandler {
	if s == nil {
		panic("application service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ApplicationHandler{
		service:     s,
		authCodes:   ac,
		loanService: ls,
		logger:      l.With("component", "ApplicationHandler"),
	}
}

// CreateApplication handles POST /applications
// @Summary Submit a loan application
// @Description Creates a loan application for a verified borrower. The eligibility score and risk tier are computed at submission time.
// @Tags Applications
// @Accept json
// @Produce json
// @Param request body dto.CreateApplicationRequest true "Application payload"
// @Success 201 {object} dto.ApplicationResponse "Application successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Borrower not eligible to apply"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications [post]
// @Security BearerAuth
func (h *ApplicationHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create application request")

	var req dto.CreateApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	app, err := h.service.CreateApplication(r.Context(), application.CreateApplicationInput{
		BorrowerID:      req.BorrowerID,
		LoanType:        req.LoanType,
		RequestedAmount: req.Amount(),
		Purpose:         req.Purpose,
		InterestType:    application.InterestType(req.InterestType),
		GracePeriodDays: req.GracePeriodDays,
		PenaltyRate:     req.PenaltyRate,
		PenaltyFlat:     req.PenaltyFlat,
	})
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrInvalidState) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to create application", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Application created successfully", slog.Int64("applicationID", app.ID))
	respondJSON(w, http.StatusCreated, dto.NewApplicationResponse(app))
}

// GetApplication handles GET /applications/{applicationID}
// @Summary Retrieve application details
// @Description Retrieves a loan application including its review terms and workflow status.
// @Tags Applications
// @Produce json
// @Param applicationID path int true "Application ID" Minimum(1)
// @Success 200 {object} dto.ApplicationResponse "Application details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid application ID format"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{applicationID} [get]
// @Security BearerAuth
func (h *ApplicationHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	applicationID, err := pathID(r, "applicationID")
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get application ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	app, err := h.service.GetApplication(r.Context(), applicationID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get application", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewApplicationResponse(app))
}

// UpdateReview handles PUT /applications/{applicationID}
// @Summary Update review terms
// @Description Sets or adjusts the approved amount, interest rate and term while the application is still under review.
// @Tags Applications
// @Accept json
// @Produce json
// @Param applicationID path int true "Application ID" Minimum(1)
// @Param request body dto.UpdateReviewRequest true "Review terms payload"
// @Success 200 {object} dto.ApplicationResponse "Review terms updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid application ID or request payload"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application is no longer reviewable"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{applicationID} [put]
// @Security BearerAuth
func (h *ApplicationHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	applicationID, err := pathID(r, "applicationID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	app, err := h.service.UpdateReview(r.Context(), application.UpdateReviewInput{
		ApplicationID:  applicationID,
		ApprovedAmount: req.Amount(),
		InterestRate:   req.InterestRate,
		TermMonths:     req.TermMonths,
		ReviewedBy:     middleware.UsernameFromContext(r.Context()),
	})
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidState) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to update review terms", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Review terms updated", slog.Int64("applicationID", applicationID))
	respondJSON(w, http.StatusOK, dto.NewApplicationResponse(app))
}

// RecordDecision handles POST /applications/{applicationID}/approvals
// @Summary Record a stage decision
// @Description Records an approve or reject decision for one workflow stage and re-evaluates the application status. The decider identity comes from the bearer token.
// @Tags Applications
// @Accept json
// @Produce json
// @Param applicationID path int true "Application ID" Minimum(1)
// @Param request body dto.DecisionRequest true "Decision payload"
// @Success 201 {object} dto.DecisionResponse "Decision recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid application ID or request payload"
// @Failure 403 {object} dto.ErrorResponse "Role not allowed to decide this stage"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Stage already decided or application is terminal"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{applicationID}/approvals [post]
// @Security BearerAuth
func (h *ApplicationHandler) RecordDecision(w http.ResponseWriter, r *http.Request) {
	applicationID, err := pathID(r, "applicationID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.DecisionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	decidedBy := middleware.UsernameFromContext(r.Context())
	role := middleware.RoleFromContext(r.Context())
	if decidedBy == "" || role == "" {
		respondError(w, fmt.Errorf("%w: bearer token carries no decider identity", apperrors.ErrUnauthorized))
		return
	}

	record, status, err := h.service.RecordDecision(r.Context(), application.DecisionInput{
		ApplicationID: applicationID,
		Stage:         application.Stage(req.Stage),
		Decision:      application.Decision(req.Decision),
		DecidedBy:     decidedBy,
		DeciderRole:   application.Role(role),
		Notes:         req.Notes,
	})
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrForbidden) &&
			!errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrInvalidState) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to record decision", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Decision recorded",
		slog.Int64("applicationID", applicationID),
		slog.String("stage", req.Stage),
		slog.String("status", string(status)))
	respondJSON(w, http.StatusCreated, dto.DecisionResponse{
		Approval:          dto.NewApprovalResponse(record),
		ApplicationStatus: string(status),
	})
}

// ListApprovals handles GET /applications/{applicationID}/approvals
// @Summary List stage decisions
// @Description Retrieves every stage decision recorded against an application, oldest first.
// @Tags Applications
// @Produce json
// @Param applicationID path int true "Application ID" Minimum(1)
// @Success 200 {array} dto.ApprovalResponse "List of decisions"
// @Failure 400 {object} dto.ErrorResponse "Invalid application ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{applicationID}/approvals [get]
// @Security BearerAuth
func (h *ApplicationHandler) ListApprovals(w http.ResponseWriter, r *http.Request) {
	applicationID, err := pathID(r, "applicationID")
	if err != nil {
		respondError(w, err)
		return
	}

	records, err := h.service.ListApprovals(r.Context(), applicationID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list approvals", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.ApprovalResponse, len(records))
	for i := range records {
		resp[i] = dto.NewApprovalResponse(&records[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// IssueAuthCode handles POST /applications/{applicationID}/authorization-codes
// @Summary Issue a disbursement authorization code
// @Description Generates a short-lived single-use code for an approved application. Any previously issued unused code is superseded.
// @Tags Applications
// @Produce json
// @Param applicationID path int true "Application ID" Minimum(1)
// @Success 201 {object} dto.AuthCodeResponse "Code issued"
// @Failure 400 {object} dto.ErrorResponse "Invalid application ID format"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application is not approved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{applicationID}/authorization-codes [post]
// @Security BearerAuth
func (h *ApplicationHandler) IssueAuthCode(w http.ResponseWriter, r *http.Request) {
	applicationID, err := pathID(r, "applicationID")
	if err != nil {
		respondError(w, err)
		return
	}

	code, err := h.authCodes.Issue(r.Context(), applicationID, middleware.UsernameFromContext(r.Context()))
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidState) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to issue authorization code", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Authorization code issued", slog.Int64("applicationID", applicationID))
	respondJSON(w, http.StatusCreated, dto.NewAuthCodeResponse(code))
}

// Disburse handles POST /applications/{applicationID}/disbursement
// @Summary Disburse an approved application
// @Description Consumes the authorization code and creates the funded loan in a single transaction. The application moves to disbursed.
// @Tags Applications
// @Accept json
// @Produce json
// @Param applicationID path int true "Application ID" Minimum(1)
// @Param request body dto.DisburseRequest true "Authorization code payload"
// @Success 201 {object} dto.LoanResponse "Loan successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid application ID or request payload"
// @Failure 404 {object} dto.ErrorResponse "Application or code not found"
// @Failure 409 {object} dto.ErrorResponse "Application not approved or already disbursed"
// @Failure 422 {object} dto.ErrorResponse "Authorization code rejected (expired, used or mismatched)"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{applicationID}/disbursement [post]
// @Security BearerAuth
func (h *ApplicationHandler) Disburse(w http.ResponseWriter, r *http.Request) {
	applicationID, err := pathID(r, "applicationID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.DisburseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	l, err := h.loanService.Disburse(r.Context(), loan.DisburseInput{
		ApplicationID:      applicationID,
		AuthorizationCode:  req.AuthorizationCode,
		DisbursementMethod: req.DisbursementMethod,
		ReferenceNumber:    req.ReferenceNumber,
		DisbursedBy:        middleware.UsernameFromContext(r.Context()),
	})
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidState) &&
			!errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrCodeExpired) &&
			!errors.Is(err, apperrors.ErrCodeAlreadyUsed) && !errors.Is(err, apperrors.ErrCodeMismatch) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to disburse application", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Application disbursed",
		slog.Int64("applicationID", applicationID),
		slog.Int64("loanID", l.ID))
	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(l))
}
