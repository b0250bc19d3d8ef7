package event

import "time"

type ApplicationDecidedEvent struct {
	ApplicationID int64     `json:"applicationId"`
	BorrowerID    int64     `json:"borrowerId"`
	Status        string    `json:"status"`
	Stage         string    `json:"stage"`
	DecidedBy     string    `json:"decidedBy"`
	Timestamp     time.Time `json:"timestamp"`
}

type LoanDisbursedEvent struct {
	LoanID        int64     `json:"loanId"`
	ApplicationID int64     `json:"applicationId"`
	BorrowerID    int64     `json:"borrowerId"`
	Principal     float64   `json:"principal"`
	ReceiptNumber string    `json:"receiptNumber"`
	Timestamp     time.Time `json:"timestamp"`
}

type PaymentRecordedEvent struct {
	PaymentID     int64     `json:"paymentId"`
	LoanID        int64     `json:"loanId"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	LateFee       float64   `json:"lateFee,omitempty"`
	ReceiptNumber string    `json:"receiptNumber"`
	Timestamp     time.Time `json:"timestamp"`
}
