package loan

import (
	"math"
	"time"

	"lending-engine/internal/domain/application"
)

type LoanStatus string

const (
	StatusActive     LoanStatus = "active"
	StatusPaidOff    LoanStatus = "paid_off"
	StatusDelinquent LoanStatus = "delinquent"
)

type PaymentStatus string

const (
	PaymentStatusPaid PaymentStatus = "paid"
	PaymentStatusLate PaymentStatus = "late"
)

// Loan is the funded side of an approved application. Exactly one loan can
// exist per application.
type Loan struct {
	ID                 int64
	ApplicationID      int64
	BorrowerID         int64
	PrincipalAmount    float64
	InterestRate       float64
	TermMonths         int
	InterestType       application.InterestType
	MonthlyPayment     float64
	TotalAmount        float64
	OutstandingBalance float64
	AccruedPenalty     float64
	GracePeriodDays    int
	PenaltyRate        float64
	PenaltyFlat        float64
	DisbursementMethod string
	ReferenceNumber    string
	ReceiptNumber      string
	DisbursedBy        string
	StartDate          time.Time
	NextDueDate        time.Time
	Status             LoanStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Payment struct {
	ID            int64
	LoanID        int64
	Amount        float64
	LateFee       float64
	PaymentDate   time.Time
	DueDate       time.Time
	Status        PaymentStatus
	ReceivedBy    string
	ReceiptNumber string
	CreatedAt     time.Time
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
