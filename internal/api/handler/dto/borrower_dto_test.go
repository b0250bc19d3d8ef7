package dto

import (
	"testing"
	"time"

	"lending-engine/internal/domain/borrower"
	"lending-engine/internal/domain/scoring"

	"github.com/stretchr/testify/assert"
)

func TestCreateBorrowerRequestValidate(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		req := CreateBorrowerRequest{
			FullName:        "Siti Rahma",
			Email:           "siti@example.com",
			Phone:           "+62811111111",
			MonthlyIncome:   "8000",
			MonthlyExpenses: "3000",
			ExistingDebts:   "12000",
		}
		assert.NoError(t, req.Validate())
		income, expenses, debts := req.Amounts()
		assert.Equal(t, 8000.0, income)
		assert.Equal(t, 3000.0, expenses)
		assert.Equal(t, 12000.0, debts)
	})

	t.Run("rejects a missing name", func(t *testing.T) {
		req := CreateBorrowerRequest{MonthlyIncome: "8000", MonthlyExpenses: "3000", ExistingDebts: "0"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects a negative amount", func(t *testing.T) {
		req := CreateBorrowerRequest{FullName: "Siti", MonthlyIncome: "-1", MonthlyExpenses: "0", ExistingDebts: "0"}
		assert.Error(t, req.Validate())
	})
}

func TestSetStatusRequestValidate(t *testing.T) {
	assert.NoError(t, (&SetStatusRequest{Status: "inactive"}).Validate())
	assert.Error(t, (&SetStatusRequest{Status: "vip"}).Validate())
}

func TestNewBorrowerResponse(t *testing.T) {
	now := time.Now()
	b := &borrower.Borrower{
		ID:              7,
		FullName:        "Siti Rahma",
		Email:           "siti@example.com",
		Phone:           "+62811111111",
		MonthlyIncome:   8000,
		MonthlyExpenses: 3000,
		ExistingDebts:   12000,
		KYCStatus:       borrower.KYCVerified,
		CreditScore:     680,
		Status:          borrower.StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	resp := NewBorrowerResponse(b)

	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "8000.00", resp.MonthlyIncome)
	assert.Equal(t, "3000.00", resp.MonthlyExpenses)
	assert.Equal(t, "12000.00", resp.ExistingDebts)
	assert.Equal(t, string(borrower.KYCVerified), resp.KYCStatus)
	assert.Equal(t, 680, resp.CreditScore)
	assert.Equal(t, string(borrower.StatusActive), resp.Status)
}

func TestNewScoreResponse(t *testing.T) {
	res := &scoring.Result{
		Score:        680,
		LendingLimit: 40000,
		Factors: scoring.Factors{
			PaymentHistory:  200,
			Utilization:     150,
			CreditAge:       40,
			TotalDebt:       60,
			RecentInquiries: 30,
		},
	}

	resp := NewScoreResponse(res)

	assert.Equal(t, 680, resp.Score)
	assert.Equal(t, "near_prime", resp.RiskTier)
	assert.Equal(t, "40000.00", resp.LendingLimit)
	assert.Equal(t, res.Factors, resp.Factors)
}
