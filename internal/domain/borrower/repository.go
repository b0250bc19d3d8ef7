package borrower

import "context"

// ScoreFacts are the payment-history aggregates the scoring unit consumes.
type ScoreFacts struct {
	OnTimePayments  int
	LatePayments    int
	RecentInquiries int
}

type Repository interface {
	CreateBorrower(ctx context.Context, b *Borrower) (*Borrower, error)
	GetBorrowerByID(ctx context.Context, borrowerID int64) (*Borrower, error)
	UpdateBorrower(ctx context.Context, b *Borrower) error
	GetScoreFacts(ctx context.Context, borrowerID int64) (ScoreFacts, error)
}
