package invest

// Summary condenses a projection: the final balance, how much of it was
// contributed and how much was earned, plus both periodic rates (the
// simulator displays both regardless of the active frequency).
//
// TotalContributions is the ledger's cumulative recurring total and
// TotalMonthlyContributions the nominal one (contribution * term); one
// deposit lands per month under either frequency, so the two agree.
// Neither includes the initial amount, so FinalBalance == InitialAmount
// + TotalContributions + TotalInterestEarned always holds: interest is
// kept as the residual of the ledger rather than accumulated
// independently.
type Summary struct {
	InitialAmount             float64   `json:"initial_amount"`
	AnnualRate                float64   `json:"annual_rate"`
	TermMonths                int       `json:"term_months"`
	Frequency                 Frequency `json:"compounding_frequency"`
	FinalBalance              float64   `json:"final_balance"`
	TotalContributions        float64   `json:"total_contributions"`
	TotalMonthlyContributions float64   `json:"total_monthly_contributions"`
	TotalInterestEarned       float64   `json:"total_interest_earned"`
	EffectiveMonthlyRate      float64   `json:"effective_monthly_rate"`
	EffectiveDailyRate        float64   `json:"effective_daily_rate"`
}

// Summarize runs the full ledger for the input and reports its totals.
// A zero-month term yields FinalBalance == InitialAmount with zero
// contributions and interest.
func Summarize(in ScenarioInput) (Summary, error) {
	periods, err := Schedule(in)
	if err != nil {
		return Summary{}, err
	}
	return SummarizeSchedule(in, periods), nil
}

// SummarizeSchedule reports the totals of a ledger already generated
// from in, sparing callers that hold the schedule a second generation
// pass. The periods must be the output of Schedule (or ScheduleFrom)
// for the same input.
func SummarizeSchedule(in ScenarioInput, periods []PeriodDetail) Summary {
	s := Summary{
		InitialAmount:             in.InitialAmount,
		AnnualRate:                in.AnnualRate,
		TermMonths:                in.TermMonths,
		Frequency:                 in.Frequency,
		FinalBalance:              in.InitialAmount,
		TotalMonthlyContributions: in.MonthlyContribution * float64(in.TermMonths),
		EffectiveMonthlyRate:      EffectiveMonthlyRate(in.AnnualRate),
		EffectiveDailyRate:        EffectiveDailyRate(in.AnnualRate),
	}
	if len(periods) > 0 {
		last := periods[len(periods)-1]
		s.FinalBalance = last.ClosingBalance
		s.TotalContributions = last.CumulativeContributions
	}
	s.TotalInterestEarned = s.FinalBalance - s.InitialAmount - s.TotalContributions
	return s
}
