package dto

import (
	"fmt"
	"time"

	"lending-engine/internal/domain/borrower"
	"lending-engine/internal/domain/scoring"
)

type CreateBorrowerRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	MonthlyIncome   string `json:"monthlyIncome"`
	MonthlyExpenses string `json:"monthlyExpenses"`
	ExistingDebts   string `json:"existingDebts"`

	monthlyIncome   float64
	monthlyExpenses float64
	existingDebts   float64
}

func (r *CreateBorrowerRequest) Validate() error {
	if r.FullName == "" {
		return fmt.Errorf("fullName is required")
	}

	var err error
	if r.monthlyIncome, err = parseMoney("monthlyIncome", r.MonthlyIncome); err != nil {
		return err
	}
	if r.monthlyExpenses, err = parseMoney("monthlyExpenses", r.MonthlyExpenses); err != nil {
		return err
	}
	if r.existingDebts, err = parseMoney("existingDebts", r.ExistingDebts); err != nil {
		return err
	}
	if r.monthlyIncome < 0 || r.monthlyExpenses < 0 || r.existingDebts < 0 {
		return fmt.Errorf("financial amounts cannot be negative")
	}
	return nil
}

func (r *CreateBorrowerRequest) Amounts() (income, expenses, debts float64) {
	return r.monthlyIncome, r.monthlyExpenses, r.existingDebts
}

type UpdateProfileRequest struct {
	MonthlyIncome   string `json:"monthlyIncome"`
	MonthlyExpenses string `json:"monthlyExpenses"`
	ExistingDebts   string `json:"existingDebts"`

	monthlyIncome   float64
	monthlyExpenses float64
	existingDebts   float64
}

func (r *UpdateProfileRequest) Validate() error {
	var err error
	if r.monthlyIncome, err = parseMoney("monthlyIncome", r.MonthlyIncome); err != nil {
		return err
	}
	if r.monthlyExpenses, err = parseMoney("monthlyExpenses", r.MonthlyExpenses); err != nil {
		return err
	}
	if r.existingDebts, err = parseMoney("existingDebts", r.ExistingDebts); err != nil {
		return err
	}
	if r.monthlyIncome < 0 || r.monthlyExpenses < 0 || r.existingDebts < 0 {
		return fmt.Errorf("financial amounts cannot be negative")
	}
	return nil
}

func (r *UpdateProfileRequest) Amounts() (income, expenses, debts float64) {
	return r.monthlyIncome, r.monthlyExpenses, r.existingDebts
}

type ReviewKYCRequest struct {
	Approved bool `json:"approved"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

func (r *SetStatusRequest) Validate() error {
	if !borrower.ValidStatus(borrower.Status(r.Status)) {
		return fmt.Errorf("invalid status %q", r.Status)
	}
	return nil
}

type BorrowerResponse struct {
	ID              int64     `json:"id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	MonthlyIncome   string    `json:"monthlyIncome"`
	MonthlyExpenses string    `json:"monthlyExpenses"`
	ExistingDebts   string    `json:"existingDebts"`
	KYCStatus       string    `json:"kycStatus"`
	CreditScore     int       `json:"creditScore"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewBorrowerResponse(b *borrower.Borrower) BorrowerResponse {
	return BorrowerResponse{
		ID:              b.ID,
		FullName:        b.FullName,
		Email:           b.Email,
		Phone:           b.Phone,
		MonthlyIncome:   formatMoney(b.MonthlyIncome),
		MonthlyExpenses: formatMoney(b.MonthlyExpenses),
		ExistingDebts:   formatMoney(b.ExistingDebts),
		KYCStatus:       string(b.KYCStatus),
		CreditScore:     b.CreditScore,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

type ScoreResponse struct {
	Score        int             `json:"score"`
	RiskTier     string          `json:"riskTier"`
	LendingLimit string          `json:"lendingLimit"`
	Factors      scoring.Factors `json:"factors"`
}

func NewScoreResponse(res *scoring.Result) ScoreResponse {
	return ScoreResponse{
		Score:        res.Score,
		RiskTier:     scoring.RiskTier(res.Score),
		LendingLimit: formatMoney(res.LendingLimit),
		Factors:      res.Factors,
	}
}
