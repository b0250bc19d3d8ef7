package application

import (
	"fmt"
	"time"

	"lending-engine/internal/pkg/apperrors"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusDisbursed   Status = "disbursed"
)

// Stage is an approval stage. Cashiers perform disbursement, which is not an
// approval stage; only loan officers and managers decide applications.
type Stage string

const (
	StageLoanOfficer Stage = "loan_officer"
	StageManager     Stage = "manager"
)

type Role string

const (
	RoleLoanOfficer Role = "loan_officer"
	RoleManager     Role = "manager"
	RoleCashier     Role = "cashier"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

type InterestType string

const (
	InterestSimple   InterestType = "simple"
	InterestCompound InterestType = "compound"
)

type Application struct {
	ID               int64
	BorrowerID       int64
	LoanType         string
	RequestedAmount  float64
	ApprovedAmount   float64
	Purpose          string
	InterestRate     float64
	TermMonths       int
	InterestType     InterestType
	EligibilityScore int
	RiskTier         string
	IncomeRatio      float64
	DebtToIncome     float64
	GracePeriodDays  int
	PenaltyRate      float64
	PenaltyFlat      float64
	Status           Status
	ReviewedBy       *string
	ReviewedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ApprovalRecord is one decision for one stage of one application.
// (applicationID, stage) is unique: a stage is decided at most once and the
// row is never overwritten.
type ApprovalRecord struct {
	ID            int64
	ApplicationID int64
	Stage         Stage
	Decision      Decision
	DecidedBy     string
	DeciderID     int64
	DeciderRole   Role
	Notes         string
	CreatedAt     time.Time
}

// PermissionSettings is process-wide override configuration. The workflow
// reads one snapshot per evaluation and never mutates it.
type PermissionSettings struct {
	OverrideLimit                   float64
	AllowLoanOfficerManagerOverride bool
	BypassManagerApproval           bool
	BypassLoanOfficerApproval       bool
}

func NewApplication(borrowerID int64, loanType string, requestedAmount float64, purpose string, creditScore int) (*Application, error) {
	if borrowerID <= 0 {
		return nil, fmt.Errorf("%w: borrowerID must be positive", apperrors.ErrValidation)
	}
	if requestedAmount <= 0 {
		return nil, fmt.Errorf("%w: requestedAmount must be greater than zero", apperrors.ErrValidation)
	}
	if loanType == "" {
		return nil, fmt.Errorf("%w: loanType is required", apperrors.ErrValidation)
	}

	return &Application{
		BorrowerID:       borrowerID,
		LoanType:         loanType,
		RequestedAmount:  requestedAmount,
		Purpose:          purpose,
		EligibilityScore: creditScore,
		InterestType:     InterestCompound,
		Status:           StatusPending,
	}, nil
}

func ValidInterestType(t InterestType) bool {
	return t == InterestSimple || t == InterestCompound
}

// CanTransition reports whether the status change is allowed by the
// application lifecycle. Status is monotonic except for the review branch;
// rejected is absorbing and disbursed is reachable only from approved.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusUnderReview || to == StatusApproved || to == StatusRejected
	case StatusUnderReview:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusDisbursed
	default:
		return false
	}
}
