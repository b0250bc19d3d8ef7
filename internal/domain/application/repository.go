package application

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	CreateApplication(ctx context.Context, app *Application) (*Application, error)
	GetApplicationByID(ctx context.Context, applicationID int64) (*Application, error)
	UpdateApplication(ctx context.Context, app *Application) error

	// GetApplicationForUpdateInTx locks the application row for the duration
	// of the transaction so concurrent evaluations serialize.
	GetApplicationForUpdateInTx(ctx context.Context, tx pgx.Tx, applicationID int64) (*Application, error)
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, applicationID int64, status Status) error

	// InsertApprovalInTx fails with apperrors.ErrConflict when a record for
	// (applicationID, stage) already exists.
	InsertApprovalInTx(ctx context.Context, tx pgx.Tx, rec *ApprovalRecord) (*ApprovalRecord, error)
	ListApprovalsInTx(ctx context.Context, tx pgx.Tx, applicationID int64) ([]ApprovalRecord, error)
	ListApprovals(ctx context.Context, applicationID int64) ([]ApprovalRecord, error)
}
