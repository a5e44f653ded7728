package core

// CategoryAmount is an expense total for one category.
type CategoryAmount struct {
	Category string
	Amount   float64
}

// MonthTotals holds income and expense sums for one YYYY-MM month.
type MonthTotals struct {
	Month         string
	TotalIncome   float64
	TotalExpenses float64
}

// MonthlySummary is the overview of a single month for one user.
type MonthlySummary struct {
	Month         Month
	TotalIncome   float64
	TotalExpenses float64
	NetTotal      float64
	Transactions  []Transaction // date descending
}

// Summarize sums transactions by type. NetTotal is income minus expenses.
func Summarize(month Month, txns []Transaction) MonthlySummary {
	s := MonthlySummary{Month: month, Transactions: txns}
	for _, t := range txns {
		switch t.Type {
		case Income:
			s.TotalIncome += t.Amount
		case Expense:
			s.TotalExpenses += t.Amount
		}
	}
	s.NetTotal = s.TotalIncome - s.TotalExpenses
	return s
}
