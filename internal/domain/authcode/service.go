package authcode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"lending-engine/internal/audit"
	"lending-engine/internal/domain/application"
	"lending-engine/internal/infrastructure/monitoring"
	"lending-engine/internal/pkg/apperrors"
)

type AuthCodeService interface {
	// Issue generates a fresh code for an approved application. Any earlier
	// unused code for the same application is superseded in the same
	// transaction.
	Issue(ctx context.Context, applicationID int64, issuedBy string) (*AuthorizationCode, error)

	// ConsumeInTx validates and burns the active code inside the caller's
	// transaction, so the burn commits or rolls back with the disbursement.
	ConsumeInTx(ctx context.Context, tx pgx.Tx, applicationID int64, code, usedBy string) error

	ActiveCode(ctx context.Context, applicationID int64) (*AuthorizationCode, error)
}

type authCodeServiceImpl struct {
	repo       Repository
	appService application.ApplicationService
	ttl        time.Duration
	codeLength int
	audit      audit.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

func NewAuthCodeService(r Repository, appSvc application.ApplicationService, ttl time.Duration, codeLength int, rec audit.Recorder, logger *slog.Logger) AuthCodeService {
	return &authCodeServiceImpl{
		repo:       r,
		appService: appSvc,
		ttl:        ttl,
		codeLength: codeLength,
		audit:      rec,
		logger:     logger.With("component", "AuthCodeService"),
		now:        time.Now,
	}
}

func (s *authCodeServiceImpl) Issue(ctx context.Context, applicationID int64, issuedBy string) (code *AuthorizationCode, err error) {
	s.logger.Info("Issuing authorization code", "applicationID", applicationID)

	app, err := s.appService.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != application.StatusApproved {
		monitoring.RecordAuthCode("issue", "rejected")
		return nil, fmt.Errorf("%w: application %d is %s, codes are issued for approved applications only",
			apperrors.ErrInvalidState, app.ID, app.Status)
	}

	value, err := GenerateCode(s.codeLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternalServer, err)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}
	defer func() {
		if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	if err = s.repo.SupersedeActiveInTx(ctx, tx, applicationID); err != nil {
		return nil, fmt.Errorf("%w: could not supersede earlier codes: %v", apperrors.ErrInternalServer, err)
	}

	issuedAt := s.now()
	code, err = s.repo.InsertCodeInTx(ctx, tx, &AuthorizationCode{
		ApplicationID: applicationID,
		Code:          value,
		IssuedBy:      issuedBy,
		IssuedAt:      issuedAt,
		ExpiresAt:     issuedAt.Add(s.ttl),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: could not store authorization code: %v", apperrors.ErrInternalServer, err)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordAuthCode("issue", "success")
	s.audit.Record(ctx, audit.Entry{Actor: issuedBy, Action: "authcode.issue", Entity: "application", EntityID: applicationID})
	s.logger.Info("Authorization code issued", "applicationID", applicationID, "expiresAt", code.ExpiresAt)
	return code, nil
}

func (s *authCodeServiceImpl) ConsumeInTx(ctx context.Context, tx pgx.Tx, applicationID int64, code, usedBy string) error {
	if code == "" {
		monitoring.RecordAuthCode("consume", "rejected")
		return fmt.Errorf("%w: authorization code is required", apperrors.ErrValidation)
	}

	now := s.now()
	consumed, err := s.repo.ConsumeInTx(ctx, tx, applicationID, code, usedBy, now)
	if err != nil {
		return fmt.Errorf("%w: could not consume authorization code: %v", apperrors.ErrInternalServer, err)
	}
	if consumed {
		monitoring.RecordAuthCode("consume", "success")
		s.audit.Record(ctx, audit.Entry{Actor: usedBy, Action: "authcode.consume", Entity: "application", EntityID: applicationID})
		return nil
	}

	monitoring.RecordAuthCode("consume", "rejected")
	return s.diagnoseFailure(ctx, tx, applicationID, code, now)
}

// diagnoseFailure explains why the conditional burn matched nothing. The
// answer is advisory only; the burn itself already decided the outcome.
func (s *authCodeServiceImpl) diagnoseFailure(ctx context.Context, tx pgx.Tx, applicationID int64, code string, now time.Time) error {
	latest, err := s.repo.GetLatestInTx(ctx, tx, applicationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: no authorization code exists for application %d", apperrors.ErrNotFound, applicationID)
		}
		return fmt.Errorf("%w: could not inspect authorization code: %v", apperrors.ErrInternalServer, err)
	}

	switch {
	case latest.Code != code:
		return fmt.Errorf("%w: authorization code does not match the active code for application %d",
			apperrors.ErrCodeMismatch, applicationID)
	case latest.IsUsed():
		return fmt.Errorf("%w: authorization code for application %d was already used",
			apperrors.ErrCodeAlreadyUsed, applicationID)
	case latest.IsExpired(now):
		return fmt.Errorf("%w: authorization code for application %d expired at %s",
			apperrors.ErrCodeExpired, applicationID, latest.ExpiresAt.Format(time.RFC3339))
	default:
		return fmt.Errorf("%w: authorization code for application %d could not be consumed",
			apperrors.ErrInternalServer, applicationID)
	}
}

func (s *authCodeServiceImpl) ActiveCode(ctx context.Context, applicationID int64) (*AuthorizationCode, error) {
	latest, err := s.repo.GetLatest(ctx, applicationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no authorization code exists for application %d", apperrors.ErrNotFound, applicationID)
		}
		return nil, fmt.Errorf("%w: could not load authorization code: %v", apperrors.ErrInternalServer, err)
	}
	return latest, nil
}
