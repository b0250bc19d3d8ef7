package loan

import (
	"fmt"
	"math"
	"time"

	"lending-engine/internal/domain/application"
	"lending-engine/internal/pkg/apperrors"
)

// Schedule holds the derived repayment figures for a loan. Amounts are
// rounded to cents.
type Schedule struct {
	MonthlyPayment float64
	TotalAmount    float64
}

// ComputeSchedule derives the monthly installment and total repayable amount.
// Simple interest accrues on the principal over the whole term; compound uses
// the standard annuity formula on the monthly rate.
func ComputeSchedule(principal, annualRatePercent float64, termMonths int, interestType application.InterestType) (Schedule, error) {
	if principal <= 0 {
		return Schedule{}, fmt.Errorf("%w: principal must be greater than zero", apperrors.ErrValidation)
	}
	if termMonths <= 0 {
		return Schedule{}, fmt.Errorf("%w: termMonths must be positive", apperrors.ErrValidation)
	}
	if annualRatePercent < 0 {
		return Schedule{}, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrValidation)
	}

	switch interestType {
	case application.InterestSimple:
		total := principal * (1 + (annualRatePercent/100)*(float64(termMonths)/12))
		return Schedule{
			MonthlyPayment: roundTo(total/float64(termMonths), 2),
			TotalAmount:    roundTo(total, 2),
		}, nil
	case application.InterestCompound:
		monthlyRate := annualRatePercent / 100 / 12
		var monthly float64
		if monthlyRate == 0 {
			monthly = principal / float64(termMonths)
		} else {
			monthly = principal * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(termMonths)))
		}
		monthly = roundTo(monthly, 2)
		return Schedule{
			MonthlyPayment: monthly,
			TotalAmount:    roundTo(monthly*float64(termMonths), 2),
		}, nil
	default:
		return Schedule{}, fmt.Errorf("%w: invalid interestType %q", apperrors.ErrValidation, interestType)
	}
}

// NextDueDate advances one calendar month, keeping the day of month and
// clamping to the last valid day when the next month is shorter. AddDate is
// avoided because it normalizes Jan 31 into Mar 2/3 instead of clamping.
func NextDueDate(from time.Time) time.Time {
	year, month, day := from.Date()
	month++
	if month > time.December {
		month = time.January
		year++
	}
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	hour, min, sec := from.Clock()
	return time.Date(year, month, day, hour, min, sec, from.Nanosecond(), from.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LateFee returns the penalty owed on a payment received past the grace
// period. With both a percentage and a flat amount configured the larger one
// applies; with neither, no fee accrues.
func LateFee(outstanding float64, dueDate, now time.Time, gracePeriodDays int, penaltyRate, penaltyFlat float64) float64 {
	daysLate := int(now.Sub(dueDate).Hours() / 24)
	if daysLate <= gracePeriodDays {
		return 0
	}

	percentage := outstanding * penaltyRate / 100
	switch {
	case penaltyRate > 0 && penaltyFlat > 0:
		return roundTo(math.Max(percentage, penaltyFlat), 2)
	case penaltyRate > 0:
		return roundTo(percentage, 2)
	case penaltyFlat > 0:
		return roundTo(penaltyFlat, 2)
	default:
		return 0
	}
}
