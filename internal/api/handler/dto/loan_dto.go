package dto

import (
	"fmt"
	"time"

	"lending-engine/internal/domain/loan"
)

type PaymentRequest struct {
	Amount      string    `json:"amount"`
	PaymentDate time.Time `json:"paymentDate,omitempty"`

	amount float64
}

func (r *PaymentRequest) Validate() error {
	var err error
	if r.amount, err = parseMoney("amount", r.Amount); err != nil {
		return err
	}
	if r.amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	return nil
}

func (r *PaymentRequest) ParsedAmount() float64 {
	return r.amount
}

type LoanResponse struct {
	ID                 int64     `json:"id"`
	ApplicationID      int64     `json:"applicationId"`
	BorrowerID         int64     `json:"borrowerId"`
	PrincipalAmount    string    `json:"principalAmount"`
	InterestRate       float64   `json:"interestRate"`
	TermMonths         int       `json:"termMonths"`
	InterestType       string    `json:"interestType"`
	MonthlyPayment     string    `json:"monthlyPayment"`
	TotalAmount        string    `json:"totalAmount"`
	OutstandingBalance string    `json:"outstandingBalance"`
	AccruedPenalty     string    `json:"accruedPenalty"`
	DisbursementMethod string    `json:"disbursementMethod"`
	ReferenceNumber    string    `json:"referenceNumber,omitempty"`
	ReceiptNumber      string    `json:"receiptNumber"`
	StartDate          time.Time `json:"startDate"`
	NextDueDate        time.Time `json:"nextDueDate"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	return LoanResponse{
		ID:                 l.ID,
		ApplicationID:      l.ApplicationID,
		BorrowerID:         l.BorrowerID,
		PrincipalAmount:    formatMoney(l.PrincipalAmount),
		InterestRate:       l.InterestRate,
		TermMonths:         l.TermMonths,
		InterestType:       string(l.InterestType),
		MonthlyPayment:     formatMoney(l.MonthlyPayment),
		TotalAmount:        formatMoney(l.TotalAmount),
		OutstandingBalance: formatMoney(l.OutstandingBalance),
		AccruedPenalty:     formatMoney(l.AccruedPenalty),
		DisbursementMethod: l.DisbursementMethod,
		ReferenceNumber:    l.ReferenceNumber,
		ReceiptNumber:      l.ReceiptNumber,
		StartDate:          l.StartDate,
		NextDueDate:        l.NextDueDate,
		Status:             string(l.Status),
		CreatedAt:          l.CreatedAt,
	}
}

type PaymentResponse struct {
	ID            int64     `json:"id"`
	LoanID        int64     `json:"loanId"`
	Amount        string    `json:"amount"`
	LateFee       string    `json:"lateFee"`
	PaymentDate   time.Time `json:"paymentDate"`
	DueDate       time.Time `json:"dueDate"`
	Status        string    `json:"status"`
	ReceiptNumber string    `json:"receiptNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewPaymentResponse(p *loan.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		LoanID:        p.LoanID,
		Amount:        formatMoney(p.Amount),
		LateFee:       formatMoney(p.LateFee),
		PaymentDate:   p.PaymentDate,
		DueDate:       p.DueDate,
		Status:        string(p.Status),
		ReceiptNumber: p.ReceiptNumber,
		CreatedAt:     p.CreatedAt,
	}
}

type ScheduleRequest struct {
	Principal    string  `json:"principal"`
	InterestRate float64 `json:"interestRate"`
	TermMonths   int     `json:"termMonths"`
	InterestType string  `json:"interestType"`

	principal float64
}

func (r *ScheduleRequest) Validate() error {
	var err error
	if r.principal, err = parseMoney("principal", r.Principal); err != nil {
		return err
	}
	if r.principal <= 0 {
		return fmt.Errorf("principal must be greater than zero")
	}
	if r.TermMonths <= 0 {
		return fmt.Errorf("termMonths must be positive")
	}
	if r.InterestRate < 0 {
		return fmt.Errorf("interestRate cannot be negative")
	}
	return nil
}

func (r *ScheduleRequest) ParsedPrincipal() float64 {
	return r.principal
}

type ScheduleResponse struct {
	MonthlyPayment string `json:"monthlyPayment"`
	TotalAmount    string `json:"totalAmount"`
}

func NewScheduleResponse(s loan.Schedule) ScheduleResponse {
	return ScheduleResponse{
		MonthlyPayment: formatMoney(s.MonthlyPayment),
		TotalAmount:    formatMoney(s.TotalAmount),
	}
}
