package scoring

import "math"

const (
	MinScore = 300
	MaxScore = 850

	weightPaymentHistory  = 0.35
	weightUtilization     = 0.30
	weightCreditAge       = 0.15
	weightTotalDebt       = 0.10
	weightRecentInquiries = 0.10

	// Neutral sub-score for borrowers with no payment history at all.
	neutralSubScore = 50

	fullCreditAgeMonths = 120
	inquiryPenalty      = 20
)

type Input struct {
	MonthlyIncome    float64
	MonthlyExpenses  float64
	ExistingDebts    float64
	OnTimePayments   int
	LatePayments     int
	AccountAgeMonths int
	RecentInquiries  int
}

// Factors holds the weighted sub-scores, each in [0,100].
type Factors struct {
	PaymentHistory  int `json:"paymentHistory"`
	Utilization     int `json:"utilization"`
	CreditAge       int `json:"creditAge"`
	TotalDebt       int `json:"totalDebt"`
	RecentInquiries int `json:"recentInquiries"`
}

type Result struct {
	Score        int     `json:"score"`
	Factors      Factors `json:"factors"`
	LendingLimit float64 `json:"lendingLimit"`
}

// Compute derives the internal credit score from a borrower's financial
// profile and payment history. The result is never persisted here; callers
// decide whether to write it back.
func Compute(in Input) Result {
	f := Factors{
		PaymentHistory:  paymentHistorySubScore(in.OnTimePayments, in.LatePayments),
		Utilization:     utilizationSubScore(in.MonthlyIncome, in.MonthlyExpenses),
		CreditAge:       creditAgeSubScore(in.AccountAgeMonths),
		TotalDebt:       totalDebtSubScore(in.MonthlyIncome, in.ExistingDebts),
		RecentInquiries: inquiriesSubScore(in.RecentInquiries),
	}

	weighted := weightPaymentHistory*float64(f.PaymentHistory) +
		weightUtilization*float64(f.Utilization) +
		weightCreditAge*float64(f.CreditAge) +
		weightTotalDebt*float64(f.TotalDebt) +
		weightRecentInquiries*float64(f.RecentInquiries)

	score := MinScore + int(math.Round(weighted/100*float64(MaxScore-MinScore)))
	score = clampInt(score, MinScore, MaxScore)

	return Result{
		Score:        score,
		Factors:      f,
		LendingLimit: lendingLimit(score, in.MonthlyIncome, in.MonthlyExpenses),
	}
}

func paymentHistorySubScore(onTime, late int) int {
	total := onTime + late
	if total <= 0 {
		return neutralSubScore
	}
	return clampInt(int(math.Round(float64(onTime)/float64(total)*100)), 0, 100)
}

func utilizationSubScore(income, expenses float64) int {
	if income <= 0 {
		// No income means nothing left to lend against: maximal risk.
		return 0
	}
	disposable := (income - expenses) / income
	return clampInt(int(math.Round(disposable*100)), 0, 100)
}

func creditAgeSubScore(months int) int {
	if months <= 0 {
		return 0
	}
	return clampInt(int(math.Round(float64(months)/fullCreditAgeMonths*100)), 0, 100)
}

func totalDebtSubScore(income, existingDebts float64) int {
	if income <= 0 {
		return 0
	}
	dti := existingDebts / (income * 12)
	return clampInt(int(math.Round((1-dti)*100)), 0, 100)
}

func inquiriesSubScore(recent int) int {
	if recent <= 0 {
		return 100
	}
	return clampInt(100-recent*inquiryPenalty, 0, 100)
}

// lendingLimit maps the score tier to a multiplier over monthly disposable
// income. A borrower with no disposable income has no limit at all.
func lendingLimit(score int, income, expenses float64) float64 {
	disposable := income - expenses
	if disposable <= 0 {
		return 0
	}

	var multiplier float64
	switch {
	case score >= 750:
		multiplier = 20
	case score >= 650:
		multiplier = 12
	case score >= 550:
		multiplier = 6
	default:
		multiplier = 3
	}
	return math.Round(disposable*multiplier*100) / 100
}

// RiskTier buckets a score for display and application risk fields.
func RiskTier(score int) string {
	switch {
	case score >= 750:
		return "prime"
	case score >= 650:
		return "near_prime"
	case score >= 550:
		return "subprime"
	default:
		return "high_risk"
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
