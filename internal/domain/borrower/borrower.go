package borrower

import (
	"fmt"
	"time"

	"lending-engine/internal/pkg/apperrors"
)

type KYCStatus string

const (
	KYCPending   KYCStatus = "pending"
	KYCSubmitted KYCStatus = "submitted"
	KYCVerified  KYCStatus = "verified"
	KYCRejected  KYCStatus = "rejected"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusBlacklisted Status = "blacklisted"
)

// Borrower is never deleted, only status-transitioned.
type Borrower struct {
	ID              int64
	FullName        string
	Email           string
	Phone           string
	MonthlyIncome   float64
	MonthlyExpenses float64
	ExistingDebts   float64
	KYCStatus       KYCStatus
	CreditScore     int
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewBorrower(fullName, email, phone string, monthlyIncome, monthlyExpenses, existingDebts float64) (*Borrower, error) {
	if fullName == "" {
		return nil, fmt.Errorf("%w: fullName is required", apperrors.ErrValidation)
	}
	if monthlyIncome < 0 || monthlyExpenses < 0 || existingDebts < 0 {
		return nil, fmt.Errorf("%w: financial profile amounts cannot be negative", apperrors.ErrValidation)
	}

	return &Borrower{
		FullName:        fullName,
		Email:           email,
		Phone:           phone,
		MonthlyIncome:   monthlyIncome,
		MonthlyExpenses: monthlyExpenses,
		ExistingDebts:   existingDebts,
		KYCStatus:       KYCPending,
		Status:          StatusActive,
	}, nil
}

func ValidKYCStatus(s KYCStatus) bool {
	switch s {
	case KYCPending, KYCSubmitted, KYCVerified, KYCRejected:
		return true
	}
	return false
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusBlacklisted:
		return true
	}
	return false
}

// AccountAgeMonths is whole calendar months since the borrower was created.
func (b *Borrower) AccountAgeMonths(now time.Time) int {
	if now.Before(b.CreatedAt) {
		return 0
	}
	months := int(now.Month()) - int(b.CreatedAt.Month()) + 12*(now.Year()-b.CreatedAt.Year())
	if now.Day() < b.CreatedAt.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
