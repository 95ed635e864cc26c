package invest

// TargetIncomeResult is the perpetuity inversion: the capital whose
// monthly interest alone sustains the target payout without touching
// principal.
type TargetIncomeResult struct {
	RequiredCapital float64 `json:"required_capital"`
	MonthlyRate     float64 `json:"monthly_rate"`
}

// RequiredCapital computes the principal needed so that its monthly
// interest at the given effective annual rate equals the target monthly
// income. A non-positive rate has no finite answer and returns
// ErrRateNotPositive instead of letting Inf or NaN escape.
func RequiredCapital(annualPct, targetMonthlyIncome float64) (TargetIncomeResult, error) {
	if targetMonthlyIncome < 0 {
		return TargetIncomeResult{}, ErrNegativeAmount
	}
	if annualPct > 100 {
		return TargetIncomeResult{}, ErrRateOutOfRange
	}
	if annualPct <= 0 {
		return TargetIncomeResult{}, ErrRateNotPositive
	}

	monthlyRate := EffectiveMonthlyRate(annualPct)
	return TargetIncomeResult{
		RequiredCapital: targetMonthlyIncome / monthlyRate,
		MonthlyRate:     monthlyRate,
	}, nil
}
