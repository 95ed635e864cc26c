package invest

import "time"

// PeriodDetail is one row of a projection ledger. For monthly
// compounding each row is one month; for daily compounding rows are
// computed day by day and compacted to one row per month before they
// leave this package, so a schedule always has TermMonths rows.
//
// Every row satisfies ClosingBalance == OpeningBalance + Contribution +
// InterestEarned, and consecutive rows chain: the closing balance of
// row N is the opening balance of row N+1.
type PeriodDetail struct {
	Period                  int       `json:"period"`
	Date                    time.Time `json:"date"`
	OpeningBalance          float64   `json:"opening_balance"`
	Contribution            float64   `json:"contribution"`
	InterestEarned          float64   `json:"interest_earned"`
	ClosingBalance          float64   `json:"closing_balance"`
	CumulativeContributions float64   `json:"cumulative_contributions"`
	CumulativeInterest      float64   `json:"cumulative_interest"`
}

// Schedule generates the projection ledger for the input, dating the
// periods from today. Dates are display labels only; they never enter
// the arithmetic.
func Schedule(in ScenarioInput) ([]PeriodDetail, error) {
	return ScheduleFrom(in, time.Now())
}

// ScheduleFrom generates the projection ledger dating periods from the
// given start date. The contribution is deposited at the start of each
// month and earns interest for the full period it lands in.
func ScheduleFrom(in ScenarioInput, start time.Time) ([]PeriodDetail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	switch in.Frequency {
	case Daily:
		return compactMonthly(dailyLedger(in, start)), nil
	default:
		return monthlyLedger(in, start), nil
	}
}

func monthlyLedger(in ScenarioInput, start time.Time) []PeriodDetail {
	rate := EffectiveMonthlyRate(in.AnnualRate)
	periods := make([]PeriodDetail, 0, in.TermMonths)

	balance := in.InitialAmount
	var cumContrib, cumInterest float64

	for i := 1; i <= in.TermMonths; i++ {
		opening := balance
		contribution := in.MonthlyContribution
		interest := (opening + contribution) * rate
		balance = opening + contribution + interest

		cumContrib += contribution
		cumInterest += interest

		periods = append(periods, PeriodDetail{
			Period:                  i,
			Date:                    start.AddDate(0, i, 0),
			OpeningBalance:          opening,
			Contribution:            contribution,
			InterestEarned:          interest,
			ClosingBalance:          balance,
			CumulativeContributions: cumContrib,
			CumulativeInterest:      cumInterest,
		})
	}
	return periods
}

// dailyLedger iterates one period per day over TermMonths fixed 30-day
// blocks. The monthly contribution lands on the first day of each block.
func dailyLedger(in ScenarioInput, start time.Time) []PeriodDetail {
	rate := EffectiveDailyRate(in.AnnualRate)
	totalDays := in.TermMonths * daysPerMonth
	periods := make([]PeriodDetail, 0, totalDays)

	balance := in.InitialAmount
	var cumContrib, cumInterest float64

	for day := 1; day <= totalDays; day++ {
		opening := balance
		var contribution float64
		if (day-1)%daysPerMonth == 0 {
			contribution = in.MonthlyContribution
		}
		interest := (opening + contribution) * rate
		balance = opening + contribution + interest

		cumContrib += contribution
		cumInterest += interest

		periods = append(periods, PeriodDetail{
			Period:                  day,
			Date:                    start.AddDate(0, 0, day),
			OpeningBalance:          opening,
			Contribution:            contribution,
			InterestEarned:          interest,
			ClosingBalance:          balance,
			CumulativeContributions: cumContrib,
			CumulativeInterest:      cumInterest,
		})
	}
	return periods
}

// compactMonthly folds runs of daily rows into one row per 30-day
// month: contributions and interest are summed, the opening balance is
// the month's first opening and the closing balance the month's last
// closing. The row invariants hold at the monthly granularity.
func compactMonthly(daily []PeriodDetail) []PeriodDetail {
	if len(daily) == 0 {
		return []PeriodDetail{}
	}

	months := make([]PeriodDetail, 0, (len(daily)+daysPerMonth-1)/daysPerMonth)
	for startIdx := 0; startIdx < len(daily); startIdx += daysPerMonth {
		endIdx := startIdx + daysPerMonth
		if endIdx > len(daily) {
			endIdx = len(daily)
		}

		first := daily[startIdx]
		last := daily[endIdx-1]
		month := PeriodDetail{
			Period:                  len(months) + 1,
			Date:                    last.Date,
			OpeningBalance:          first.OpeningBalance,
			ClosingBalance:          last.ClosingBalance,
			CumulativeContributions: last.CumulativeContributions,
			CumulativeInterest:      last.CumulativeInterest,
		}
		for _, d := range daily[startIdx:endIdx] {
			month.Contribution += d.Contribution
			month.InterestEarned += d.InterestEarned
		}
		months = append(months, month)
	}
	return months
}
