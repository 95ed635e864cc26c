package invest

// RateCandidate is one alternative annual rate to project the base
// scenario against. The label is carried through untouched for display.
type RateCandidate struct {
	Rate  float64 `json:"rate"`
	Label string  `json:"label,omitempty"`
}

// RateComparison is the outcome of projecting the base scenario under
// one rate. Exactly one entry per comparison carries IsBase == true with
// a zero difference.
type RateComparison struct {
	Rate                float64 `json:"rate"`
	Label               string  `json:"label,omitempty"`
	IsBase              bool    `json:"is_base_rate"`
	FinalBalance        float64 `json:"final_balance"`
	TotalInterestEarned float64 `json:"total_interest_earned"`
	DifferenceFromBase  float64 `json:"difference_from_base"`
}

// CompareRates projects the base scenario once per candidate rate and
// reports each outcome against the base. The base entry comes first,
// candidates follow in the order supplied; deduplication against the
// base rate is the caller's concern.
func CompareRates(in ScenarioInput, candidates []RateCandidate) ([]RateComparison, error) {
	base, err := Summarize(in)
	if err != nil {
		return nil, err
	}

	results := make([]RateComparison, 0, len(candidates)+1)
	results = append(results, RateComparison{
		Rate:                in.AnnualRate,
		IsBase:              true,
		FinalBalance:        base.FinalBalance,
		TotalInterestEarned: base.TotalInterestEarned,
	})

	for _, c := range candidates {
		s, err := Summarize(in.withRate(c.Rate))
		if err != nil {
			return nil, err
		}
		results = append(results, RateComparison{
			Rate:                c.Rate,
			Label:               c.Label,
			FinalBalance:        s.FinalBalance,
			TotalInterestEarned: s.TotalInterestEarned,
			DifferenceFromBase:  s.FinalBalance - base.FinalBalance,
		})
	}
	return results, nil
}
