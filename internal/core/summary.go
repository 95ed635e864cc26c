package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// MonthOverview is the dashboard summary for a specific year+month:
// totals for both ledger sides and the per-category expense breakdown.
type MonthOverview struct {
	Year          int              `json:"year"`
	Month         int              `json:"month"` // 1-12
	TotalExpenses Money            `json:"total_expenses"`
	TotalIncomes  Money            `json:"total_incomes"`
	ByCategory    []CategoryAmount `json:"by_category"`
}

// Net returns incomes minus expenses for the month.
func (o MonthOverview) Net() Money {
	return Money{Cents: o.TotalIncomes.Cents - o.TotalExpenses.Cents}
}
