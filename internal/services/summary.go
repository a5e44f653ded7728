package services

import (
	"context"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ports"
)

// readTimeout bounds every aggregation query.
const readTimeout = 7 * time.Second

type SummaryService struct {
	repo ports.TransactionRepository
	agg  ports.TransactionAggregator
}

func NewSummaryService(repo ports.TransactionRepository, agg ports.TransactionAggregator) *SummaryService {
	return &SummaryService{repo: repo, agg: agg}
}

// MonthlySummary totals the month's transactions, both window ends inclusive.
func (s *SummaryService) MonthlySummary(ctx context.Context, userID string, month core.Month) (core.MonthlySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	txns, err := s.repo.ListTransactions(ctx, userID, month.Start(), month.End())
	if err != nil {
		return core.MonthlySummary{}, core.Persistence("monthly summary", err)
	}
	if txns == nil {
		txns = []core.Transaction{}
	}
	return core.Summarize(month, txns), nil
}

// CategoryBreakdown sums the month's expenses per category, ascending by
// category. Transactions dated on the month's last day are not counted.
func (s *SummaryService) CategoryBreakdown(ctx context.Context, userID string, month core.Month) ([]core.CategoryAmount, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	rows, err := s.agg.SumExpensesByCategory(ctx, userID, month.Start(), month.LastDay())
	if err != nil {
		return nil, core.Persistence("category breakdown", err)
	}
	if rows == nil {
		rows = []core.CategoryAmount{}
	}
	return rows, nil
}

// AllMonthsSummary returns income and expense totals for every month with
// at least one transaction, newest month first.
func (s *SummaryService) AllMonthsSummary(ctx context.Context, userID string) ([]core.MonthTotals, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	rows, err := s.agg.MonthlyTotals(ctx, userID)
	if err != nil {
		return nil, core.Persistence("monthly totals", err)
	}
	if rows == nil {
		rows = []core.MonthTotals{}
	}
	return rows, nil
}
