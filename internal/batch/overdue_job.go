package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lending-engine/internal/domain/loan"
)

// OverdueAssessmentJob walks every active loan whose due date has passed the
// grace period, accrues the penalty and flags the loan delinquent.
type OverdueAssessmentJob struct {
	loanService loan.LoanService
	logger      *slog.Logger
}

func NewOverdueAssessmentJob(loanSvc loan.LoanService, logger *slog.Logger) *OverdueAssessmentJob {
	if loanSvc == nil || logger == nil {
		panic("OverdueAssessmentJob dependencies cannot be nil")
	}
	return &OverdueAssessmentJob{
		loanService: loanSvc,
		logger:      logger.With("job", "OverdueAssessment"),
	}
}

func (j *OverdueAssessmentJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting daily overdue assessment job.")

	flagged, err := j.loanService.AssessOverdue(ctx, startTime)
	if err != nil {
		j.logger.ErrorContext(ctx, "Overdue assessment failed.", slog.Any("error", err))
		return fmt.Errorf("cannot complete overdue assessment: %w", err)
	}

	j.logger.InfoContext(ctx, "Overdue assessment job finished.",
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("loans_flagged_delinquent", flagged),
	)
	return nil
}
