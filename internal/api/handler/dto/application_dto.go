package dto

import (
	"fmt"
	"time"

	"lending-engine/internal/domain/application"
	"lending-engine/internal/domain/authcode"
)

type CreateApplicationRequest struct {
	BorrowerID      int64   `json:"borrowerId"`
	LoanType        string  `json:"loanType"`
	RequestedAmount string  `json:"requestedAmount"`
	Purpose         string  `json:"purpose"`
	InterestType    string  `json:"interestType,omitempty"`
	GracePeriodDays int     `json:"gracePeriodDays,omitempty"`
	PenaltyRate     float64 `json:"penaltyRate,omitempty"`
	PenaltyFlat     float64 `json:"penaltyFlat,omitempty"`

	requestedAmount float64
}

func (r *CreateApplicationRequest) Validate() error {
	if r.BorrowerID <= 0 {
		return fmt.Errorf("borrowerId must be positive")
	}
	if r.LoanType == "" {
		return fmt.Errorf("loanType is required")
	}

	var err error
	if r.requestedAmount, err = parseMoney("requestedAmount", r.RequestedAmount); err != nil {
		return err
	}
	if r.requestedAmount <= 0 {
		return fmt.Errorf("requestedAmount must be greater than zero")
	}
	if r.InterestType != "" && !application.ValidInterestType(application.InterestType(r.InterestType)) {
		return fmt.Errorf("invalid interestType %q", r.InterestType)
	}
	return nil
}

func (r *CreateApplicationRequest) Amount() float64 {
	return r.requestedAmount
}

type UpdateReviewRequest struct {
	ApprovedAmount string  `json:"approvedAmount"`
	InterestRate   float64 `json:"interestRate"`
	TermMonths     int     `json:"termMonths"`

	approvedAmount float64
}

func (r *UpdateReviewRequest) Validate() error {
	var err error
	if r.approvedAmount, err = parseMoney("approvedAmount", r.ApprovedAmount); err != nil {
		return err
	}
	if r.approvedAmount <= 0 {
		return fmt.Errorf("approvedAmount must be greater than zero")
	}
	if r.TermMonths <= 0 {
		return fmt.Errorf("termMonths must be positive")
	}
	if r.InterestRate < 0 {
		return fmt.Errorf("interestRate cannot be negative")
	}
	return nil
}

func (r *UpdateReviewRequest) Amount() float64 {
	return r.approvedAmount
}

type DecisionRequest struct {
	Stage    string `json:"stage"`
	Decision string `json:"decision"`
	Notes    string `json:"notes,omitempty"`
}

func (r *DecisionRequest) Validate() error {
	if !application.ValidStage(application.Stage(r.Stage)) {
		return fmt.Errorf("invalid stage %q", r.Stage)
	}
	if !application.ValidDecision(application.Decision(r.Decision)) {
		return fmt.Errorf("invalid decision %q", r.Decision)
	}
	return nil
}

type DisburseRequest struct {
	AuthorizationCode  string `json:"authorizationCode"`
	DisbursementMethod string `json:"disbursementMethod"`
	ReferenceNumber    string `json:"referenceNumber,omitempty"`
}

func (r *DisburseRequest) Validate() error {
	if r.AuthorizationCode == "" {
		return fmt.Errorf("authorizationCode is required")
	}
	switch r.DisbursementMethod {
	case "cash", "transfer":
	case "":
		return fmt.Errorf("disbursementMethod is required")
	default:
		return fmt.Errorf("invalid disbursementMethod %q", r.DisbursementMethod)
	}
	return nil
}

type ApplicationResponse struct {
	ID               int64      `json:"id"`
	BorrowerID       int64      `json:"borrowerId"`
	LoanType         string     `json:"loanType"`
	RequestedAmount  string     `json:"requestedAmount"`
	ApprovedAmount   string     `json:"approvedAmount,omitempty"`
	Purpose          string     `json:"purpose,omitempty"`
	InterestRate     float64    `json:"interestRate"`
	TermMonths       int        `json:"termMonths"`
	InterestType     string     `json:"interestType"`
	EligibilityScore int        `json:"eligibilityScore"`
	RiskTier         string     `json:"riskTier"`
	Status           string     `json:"status"`
	ReviewedBy       *string    `json:"reviewedBy,omitempty"`
	ReviewedAt       *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func NewApplicationResponse(app *application.Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:               app.ID,
		BorrowerID:       app.BorrowerID,
		LoanType:         app.LoanType,
		RequestedAmount:  formatMoney(app.RequestedAmount),
		Purpose:          app.Purpose,
		InterestRate:     app.InterestRate,
		TermMonths:       app.TermMonths,
		InterestType:     string(app.InterestType),
		EligibilityScore: app.EligibilityScore,
		RiskTier:         app.RiskTier,
		Status:           string(app.Status),
		ReviewedBy:       app.ReviewedBy,
		ReviewedAt:       app.ReviewedAt,
		CreatedAt:        app.CreatedAt,
		UpdatedAt:        app.UpdatedAt,
	}
	if app.ApprovedAmount > 0 {
		resp.ApprovedAmount = formatMoney(app.ApprovedAmount)
	}
	return resp
}

type ApprovalResponse struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"applicationId"`
	Stage         string    `json:"stage"`
	Decision      string    `json:"decision"`
	DecidedBy     string    `json:"decidedBy"`
	DeciderRole   string    `json:"deciderRole"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewApprovalResponse(rec *application.ApprovalRecord) ApprovalResponse {
	return ApprovalResponse{
		ID:            rec.ID,
		ApplicationID: rec.ApplicationID,
		Stage:         string(rec.Stage),
		Decision:      string(rec.Decision),
		DecidedBy:     rec.DecidedBy,
		DeciderRole:   string(rec.DeciderRole),
		Notes:         rec.Notes,
		CreatedAt:     rec.CreatedAt,
	}
}

type DecisionResponse struct {
	Approval          ApprovalResponse `json:"approval"`
	ApplicationStatus string           `json:"applicationStatus"`
}

type AuthCodeResponse struct {
	ApplicationID int64     `json:"applicationId"`
	Code          string    `json:"code"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

func NewAuthCodeResponse(c *authcode.AuthorizationCode) AuthCodeResponse {
	return AuthCodeResponse{
		ApplicationID: c.ApplicationID,
		Code:          c.Code,
		ExpiresAt:     c.ExpiresAt,
	}
}
