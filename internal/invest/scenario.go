package invest

import "errors"

var (
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrNegativeTerm     = errors.New("term cannot be negative")
	ErrRateOutOfRange   = errors.New("annual rate must be between 0 and 100")
	ErrRateNotPositive  = errors.New("annual rate must be positive")
	ErrUnknownFrequency = errors.New("unknown compounding frequency")
)

// ScenarioInput holds the parameters of a projection. Values are taken
// as-is: callers (forms) clamp and sanitize, Validate is the backstop.
type ScenarioInput struct {
	InitialAmount       float64   `json:"initial_amount"`
	MonthlyContribution float64   `json:"monthly_contribution"`
	TermMonths          int       `json:"term_months"`
	AnnualRate          float64   `json:"annual_rate"` // effective annual rate, percent
	Frequency           Frequency `json:"compounding_frequency"`
}

// Validate fails fast on inputs the engine refuses to compute with.
// A zero term is valid and yields an empty schedule.
func (in ScenarioInput) Validate() error {
	if in.InitialAmount < 0 || in.MonthlyContribution < 0 {
		return ErrNegativeAmount
	}
	if in.TermMonths < 0 {
		return ErrNegativeTerm
	}
	if in.AnnualRate < 0 || in.AnnualRate > 100 {
		return ErrRateOutOfRange
	}
	switch in.Frequency {
	case Monthly, Daily:
	default:
		return ErrUnknownFrequency
	}
	return nil
}

// withRate returns a copy of the input with the annual rate replaced.
func (in ScenarioInput) withRate(annualPct float64) ScenarioInput {
	in.AnnualRate = annualPct
	return in
}
