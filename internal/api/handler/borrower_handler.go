package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"lending-engine/internal/api/handler/dto"
	"lending-engine/internal/api/middleware"
	"lending-engine/internal/domain/borrower"
	"lending-engine/internal/pkg/apperrors"
)

type BorrowerHandler struct {
	service borrower.BorrowerService
	logger  *slog.Logger
}

func NewBorrowerHandler(s borrower.BorrowerService, l *slog.Logger) *BorrowerHandler {
	if s == nil {
		panic("borrower service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &BorrowerHandler{
		service: s,
		logger:  l.With("component", "BorrowerHandler"),
	}
}

// CreateBorrower handles POST /borrowers
// @Summary Register a new borrower
// @Description Creates a borrower record with contact details and financial profile. An initial credit score is computed from the profile.
// @Tags Borrowers
// @Accept json
// @Produce json
// @Param request body dto.CreateBorrowerRequest true "Borrower registration payload"
// @Success 201 {object} dto.BorrowerResponse "Borrower successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrowers [post]
// @Security BearerAuth
func (h *BorrowerHandler) CreateBorrower(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create borrower request")

	var req dto.CreateBorrowerRequest
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

	income, expenses, debts := req.Amounts()
	created, err := h.service.CreateBorrower(r.Context(), req.FullName, req.Email, req.Phone, income, expenses, debts)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrConflict) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to create borrower", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Borrower created successfully", slog.Int64("borrowerID", created.ID))
	respondJSON(w, http.StatusCreated, dto.NewBorrowerResponse(created))
}

// GetBorrower handles GET /borrowers/{borrowerID}
// @Summary Retrieve borrower details
// @Description Retrieves details for a specific borrower by their ID.
// @Tags Borrowers
// @Produce json
// @Param borrowerID path int true "Borrower ID" Minimum(1)
// @Success 200 {object} dto.BorrowerResponse "Borrower details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid borrower ID format"
// @Failure 404 {object} dto.ErrorResponse "Borrower not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrowers/{borrowerID} [get]
// @Security BearerAuth
func (h *BorrowerHandler) GetBorrower(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := pathID(r, "borrowerID")
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get borrower ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	b, err := h.service.GetBorrower(r.Context(), borrowerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get borrower", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewBorrowerResponse(b))
}

// UpdateProfile handles PUT /borrowers/{borrowerID}/profile
// @Summary Update borrower financial profile
// @Description Replaces the income, expenses and debts figures of a borrower.
// @Tags Borrowers
// @Accept json
// @Produce json
// @Param borrowerID path int true "Borrower ID" Minimum(1)
// @Param request body dto.UpdateProfileRequest true "Financial profile payload"
// @Success 200 {object} dto.BorrowerResponse "Profile updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid borrower ID or request payload"
// @Failure 404 {object} dto.ErrorResponse "Borrower not found"
// @Failure 409 {object} dto.ErrorResponse "Borrower is blacklisted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrowers/{borrowerID}/profile [put]
// @Security BearerAuth
func (h *BorrowerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := pathID(r, "borrowerID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	income, expenses, debts := req.Amounts()
	b, err := h.service.UpdateProfile(r.Context(), borrowerID, income, expenses, debts)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidState) &&
			!errors.Is(err, apperrors.ErrValidation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to update borrower profile", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Borrower profile updated", slog.Int64("borrowerID", borrowerID))
	respondJSON(w, http.StatusOK, dto.NewBorrowerResponse(b))
}

// SubmitKYC handles POST /borrowers/{borrowerID}/kyc
// @Summary Submit identity documents for verification
// @Description Marks the borrower's identity check as submitted and awaiting review.
// @Tags Borrowers
// @Produce json
// @Param borrowerID path int true "Borrower ID" Minimum(1)
// @Success 204 "KYC submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid borrower ID format"
// @Failure 404 {object} dto.ErrorResponse "Borrower not found"
// @Failure 409 {object} dto.ErrorResponse "KYC already submitted or verified"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrowers/{borrowerID}/kyc [post]
// @Security BearerAuth
func (h *BorrowerHandler) SubmitKYC(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := pathID(r, "borrowerID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.SubmitKYC(r.Context(), borrowerID); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidState) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to submit KYC", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "KYC submitted", slog.Int64("borrowerID", borrowerID))
	respondJSON(w, http.StatusNoContent, nil)
}

// ReviewKYC handles PUT /borrowers/{borrowerID}/kyc
// @Summary Review submitted identity documents
// @Description Approves or rejects a submitted identity check. Approval recomputes the borrower's credit score.
// @Tags Borrowers
// @Accept json
// @Produce json
// @Param borrowerID path int true "Borrower ID" Minimum(1)
// @Param request body dto.ReviewKYCRequest true "Review outcome payload"
// @Success 204 "KYC reviewed"
// @Failure 400 {object} dto.ErrorResponse "Invalid borrower ID or request payload"
// @Failure 404 {object} dto.ErrorResponse "Borrower not found"
// @Failure 409 {object} dto.ErrorResponse "KYC is not in submitted state"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrowers/{borrowerID}/kyc [put]
// @Security BearerAuth
func (h *BorrowerHandler) ReviewKYC(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := pathID(r, "borrowerID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.ReviewKYCRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	err = h.service.ReviewKYC(r.Context(), borrowerID, req.Approved, middleware.UsernameFromContext(r.Context()))
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidState) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to review KYC", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "KYC reviewed", slog.Int64("borrowerID", borrowerID), slog.Bool("approved", req.Approved))
	respondJSON(w, http.StatusNoContent, nil)
}

// SetStatus handles PUT /borrowers/{borrowerID}/status
// @Summary Change borrower account status
// @Description Moves a borrower between active, inactive and blacklisted.
// @Tags Borrowers
// @Accept json
// @Produce json
// @Param borrowerID path int true "Borrower ID" Minimum(1)
// @Param request body dto.SetStatusRequest true "Status payload"
// @Success 204 "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid borrower ID or status value"
// @Failure 404 {object} dto.ErrorResponse "Borrower not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrowers/{borrowerID}/status [put]
// @Security BearerAuth
func (h *BorrowerHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := pathID(r, "borrowerID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.SetStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	err = h.service.SetStatus(r.Context(), borrowerID, borrower.Status(req.Status), middleware.UsernameFromContext(r.Context()))
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to set borrower status", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Borrower status updated", slog.Int64("borrowerID", borrowerID), slog.String("status", req.Status))
	respondJSON(w, http.StatusNoContent, nil)
}

// GetScore handles GET /borrowers/{borrowerID}/score
// @Summary Compute the borrower's credit score
// @Description Recomputes the internal credit score, risk tier and lending limit from the current profile and payment history.
// @Tags Borrowers
// @Produce json
// @Param borrowerID path int true "Borrower ID" Minimum(1)
// @Success 200 {object} dto.ScoreResponse "Score computed"
// @Failure 400 {object} dto.ErrorResponse "Invalid borrower ID format"
// @Failure 404 {object} dto.ErrorResponse "Borrower not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrowers/{borrowerID}/score [get]
// @Security BearerAuth
func (h *BorrowerHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := pathID(r, "borrowerID")
	if err != nil {
		respondError(w, err)
		return
	}

	res, err := h.service.Score(r.Context(), borrowerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to compute score", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewScoreResponse(res))
}
