package authcode

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// SupersedeActiveInTx marks every unused, unsuperseded code for the
	// application as superseded.
	SupersedeActiveInTx(ctx context.Context, tx pgx.Tx, applicationID int64) error
	InsertCodeInTx(ctx context.Context, tx pgx.Tx, code *AuthorizationCode) (*AuthorizationCode, error)

	// ConsumeInTx burns the code with one conditional update: it matches only
	// when the code value is current, unused, unsuperseded and unexpired.
	// Returns false without error when no row matched.
	ConsumeInTx(ctx context.Context, tx pgx.Tx, applicationID int64, code, usedBy string, now time.Time) (bool, error)

	// GetLatestInTx returns the most recently issued unsuperseded code for
	// the application, used or not.
	GetLatestInTx(ctx context.Context, tx pgx.Tx, applicationID int64) (*AuthorizationCode, error)
	GetLatest(ctx context.Context, applicationID int64) (*AuthorizationCode, error)
}
