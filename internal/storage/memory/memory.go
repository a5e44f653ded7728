package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// Store keeps users and transactions in process memory. Insertion order is
// preserved so lookups and ties resolve like the persistent backends.
type Store struct {
	mu    sync.Mutex
	users []core.User
	txns  []core.Transaction
	now   func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// CreateUser implements ports.UserRepository.
func (s *Store) CreateUser(_ context.Context, u core.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = uuid.NewString()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}
	s.users = append(s.users, u)
	return u.ID, nil
}

// FindUserByEmail implements ports.UserRepository.
func (s *Store) FindUserByEmail(_ context.Context, email string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

// FindUserByID implements ports.UserRepository.
func (s *Store) FindUserByID(_ context.Context, id string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

// CreateTransaction implements ports.TransactionRepository.
func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	s.txns = append(s.txns, t)
	return t.ID, nil
}

// ListTransactions implements ports.TransactionRepository.
func (s *Store) ListTransactions(_ context.Context, userID string, start, end time.Time) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, 0)
	// walk newest-first so the stable sort keeps later inserts ahead on ties
	for i := len(s.txns) - 1; i >= 0; i-- {
		t := s.txns[i]
		if t.UserID != userID || t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// SumExpensesByCategory implements ports.TransactionAggregator.
func (s *Store) SumExpensesByCategory(_ context.Context, userID string, start, endExclusive time.Time) ([]core.CategoryAmount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := make(map[string]float64)
	for _, t := range s.txns {
		if t.UserID != userID || t.Type != core.Expense {
			continue
		}
		if t.Date.Before(start) || !t.Date.Before(endExclusive) {
			continue
		}
		sums[t.Category] += t.Amount
	}

	out := make([]core.CategoryAmount, 0, len(sums))
	for cat, amount := range sums {
		out = append(out, core.CategoryAmount{Category: cat, Amount: amount})
	}
	slices.SortFunc(out, func(a, b core.CategoryAmount) int {
		switch {
		case a.Category < b.Category:
			return -1
		case a.Category > b.Category:
			return 1
		}
		return 0
	})
	return out, nil
}

// MonthlyTotals implements ports.TransactionAggregator.
func (s *Store) MonthlyTotals(_ context.Context, userID string) ([]core.MonthTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byMonth := make(map[string]*core.MonthTotals)
	for _, t := range s.txns {
		if t.UserID != userID {
			continue
		}
		key := t.Date.UTC().Format(core.MonthLayout)
		row, ok := byMonth[key]
		if !ok {
			row = &core.MonthTotals{Month: key}
			byMonth[key] = row
		}
		switch t.Type {
		case core.Income:
			row.TotalIncome += t.Amount
		case core.Expense:
			row.TotalExpenses += t.Amount
		}
	}

	out := make([]core.MonthTotals, 0, len(byMonth))
	for _, row := range byMonth {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }
