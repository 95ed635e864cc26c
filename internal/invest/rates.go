// Package invest implements the investment projection engine: effective
// rate conversion, compound-growth schedule generation, scenario
// summaries, the target-income solver and multi-rate comparison.
//
// All functions are pure and deterministic. Arithmetic is IEEE float64;
// the budgeting ledger keeps integer cents, but projections are
// estimates and tolerate sub-cent drift.
package invest

import "math"

// Frequency selects how often interest is capitalized.
type Frequency string

const (
	Monthly Frequency = "monthly"
	Daily   Frequency = "daily"
)

const (
	monthsPerYear = 12
	daysPerYear   = 365

	// daysPerMonth is the fixed day-count used by daily schedules.
	// A term of N months iterates N*30 daily periods.
	daysPerMonth = 30
)

// EffectiveMonthlyRate converts an effective annual rate, expressed as a
// percentage, into the equivalent monthly rate. Compounding the result
// twelve times reproduces the annual rate exactly.
func EffectiveMonthlyRate(annualPct float64) float64 {
	return math.Pow(1+annualPct/100, 1.0/monthsPerYear) - 1
}

// EffectiveDailyRate converts an effective annual rate, expressed as a
// percentage, into the equivalent daily rate over a 365-day year.
func EffectiveDailyRate(annualPct float64) float64 {
	return math.Pow(1+annualPct/100, 1.0/daysPerYear) - 1
}
