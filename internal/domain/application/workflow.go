package application

import (
	"fmt"

	"lending-engine/internal/pkg/apperrors"
)

// stageOrder is the fixed evaluation order of approval stages.
var stageOrder = []Stage{StageLoanOfficer, StageManager}

func ValidStage(s Stage) bool {
	return s == StageLoanOfficer || s == StageManager
}

func ValidDecision(d Decision) bool {
	return d == DecisionApproved || d == DecisionRejected
}

// CanDecideStage checks that the decider's role is permitted for the stage
// under the given settings snapshot. A loan officer may take the manager
// stage only when the override is enabled and the requested amount is within
// the configured limit.
func CanDecideStage(settings PermissionSettings, stage Stage, role Role, requestedAmount float64) error {
	switch stage {
	case StageLoanOfficer:
		if role != RoleLoanOfficer {
			return fmt.Errorf("%w: role %s cannot decide the %s stage", apperrors.ErrForbidden, role, stage)
		}
	case StageManager:
		if role == RoleManager {
			return nil
		}
		if role == RoleLoanOfficer {
			if !settings.AllowLoanOfficerManagerOverride {
				return fmt.Errorf("%w: loan officer override of the manager stage is disabled", apperrors.ErrForbidden)
			}
			if requestedAmount > settings.OverrideLimit {
				return fmt.Errorf("%w: amount %.2f exceeds the override limit %.2f",
					apperrors.ErrForbidden, requestedAmount, settings.OverrideLimit)
			}
			return nil
		}
		return fmt.Errorf("%w: role %s cannot decide the %s stage", apperrors.ErrForbidden, role, stage)
	default:
		return fmt.Errorf("%w: unknown approval stage %q", apperrors.ErrValidation, stage)
	}
	return nil
}

// Evaluate derives the application status from the recorded stage decisions
// and one settings snapshot. Any rejected decision is terminal regardless of
// the other stages. A stage requirement is waived by its bypass flag (or, for
// the manager stage, by the amount-bounded override) only while no record
// exists for it; a recorded decision always counts.
func Evaluate(settings PermissionSettings, requestedAmount float64, records []ApprovalRecord) Status {
	byStage := make(map[Stage]ApprovalRecord, len(records))
	for _, rec := range records {
		if rec.Decision == DecisionRejected {
			return StatusRejected
		}
		byStage[rec.Stage] = rec
	}

	for _, stage := range stageOrder {
		if _, decided := byStage[stage]; decided {
			continue
		}
		if stageWaived(settings, stage, requestedAmount) {
			continue
		}
		// A required stage is still open.
		if len(records) == 0 {
			return StatusPending
		}
		return StatusUnderReview
	}

	return StatusApproved
}

func stageWaived(settings PermissionSettings, stage Stage, requestedAmount float64) bool {
	switch stage {
	case StageLoanOfficer:
		return settings.BypassLoanOfficerApproval
	case StageManager:
		if settings.BypassManagerApproval {
			return true
		}
		return settings.AllowLoanOfficerManagerOverride && requestedAmount <= settings.OverrideLimit
	}
	return false
}
