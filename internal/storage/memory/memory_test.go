package memory

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustCreate(t *testing.T, s *Store, tx core.Transaction) string {
	t.Helper()
	id, err := s.CreateTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return id
}

func TestUsersFirstEmailMatchWins(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.CreateUser(ctx, core.User{Email: "a@x.com", PasswordHash: "h1"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := s.CreateUser(ctx, core.User{Email: "a@x.com", PasswordHash: "h2"}); err != nil {
		t.Fatalf("duplicate email should be accepted: %v", err)
	}

	u, err := s.FindUserByEmail(ctx, "a@x.com")
	if err != nil || u == nil || u.ID != first || u.PasswordHash != "h1" {
		t.Fatalf("FindUserByEmail = %+v, %v", u, err)
	}
	if u, _ := s.FindUserByEmail(ctx, "A@x.com"); u != nil {
		t.Fatal("email match must be exact")
	}
	if u, _ := s.FindUserByID(ctx, first); u == nil || u.Email != "a@x.com" || u.CreatedAt.IsZero() {
		t.Fatalf("FindUserByID = %+v", u)
	}
	if u, _ := s.FindUserByID(ctx, "missing"); u != nil {
		t.Fatal("unknown id should return nil")
	}
}

func TestListTransactionsRangeAndOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	mustCreate(t, s, core.Transaction{UserID: "u1", Type: core.Expense, Amount: 1, Category: "A", Date: day(2024, 3, 1)})
	tie1 := mustCreate(t, s, core.Transaction{UserID: "u1", Type: core.Expense, Amount: 2, Category: "A", Date: day(2024, 3, 15)})
	tie2 := mustCreate(t, s, core.Transaction{UserID: "u1", Type: core.Income, Amount: 3, Category: "B", Date: day(2024, 3, 15)})
	mustCreate(t, s, core.Transaction{UserID: "u1", Type: core.Expense, Amount: 4, Category: "A", Date: day(2024, 3, 31)})
	mustCreate(t, s, core.Transaction{UserID: "u1", Type: core.Expense, Amount: 5, Category: "A", Date: day(2024, 4, 1)})
	mustCreate(t, s, core.Transaction{UserID: "u2", Type: core.Expense, Amount: 6, Category: "A", Date: day(2024, 3, 10)})

	m := core.Month{Year: 2024, Month: time.March}
	got, err := s.ListTransactions(ctx, "u1", m.Start(), m.End())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(got))
	}
	if !got[0].Date.Equal(day(2024, 3, 31)) || !got[3].Date.Equal(day(2024, 3, 1)) {
		t.Fatalf("not sorted by date descending: %+v", got)
	}
	if got[1].ID != tie2 || got[2].ID != tie1 {
		t.Fatalf("ties should list the newest insert first: %s %s", got[1].ID, got[2].ID)
	}

	empty, err := s.ListTransactions(ctx, "nobody", m.Start(), m.End())
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v (err=%v)", empty, err)
	}
}

func TestSumExpensesByCategoryExcludesUpperBound(t *testing.T) {
	ctx := context.Background()
	s := New()

	mustCreate(t, s, core.Transaction{UserID: "u1", Type: core.Expense, Amount: 10, Category: "Food", Date: day(2024, 3, 1)})
	mustCreate(t, s, core.Transaction{UserID: "u1", Type: core.Expense, Amount: 5.5, Category: "Food", Date: day(2024, 3, 20)})
	mustCreate(t, s, core.Transaction{UserID: "u1", Type: core.Expense, Amount: 7, Category: "Rent", Date: day(2024, 3, 31)})
	mustCreate(t, s, core.Transaction{UserID: "u1", Type: core.Income, Amount: 100, Category: "Food", Date: day(2024, 3, 2)})

	m := core.Month{Year: 2024, Month: time.March}
	got, err := s.SumExpensesByCategory(ctx, "u1", m.Start(), m.LastDay())
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if len(got) != 1 || got[0].Category != "Food" || got[0].Amount != 15.5 {
		t.Fatalf("unexpected breakdown %+v", got)
	}
}

func TestMonthlyTotals(t *testing.T) {
	ctx := context.Background()
	s := New()

	mustCreate(t, s, core.Transaction{UserID: "u1", Type: core.Income, Amount: 100, Category: "Pay", Date: day(2024, 1, 31)})
	mustCreate(t, s, core.Transaction{UserID: "u1", Type: core.Expense, Amount: 40, Category: "Food", Date: day(2024, 1, 2)})
	mustCreate(t, s, core.Transaction{UserID: "u1", Type: core.Expense, Amount: 20, Category: "Food", Date: day(2024, 3, 5)})
	mustCreate(t, s, core.Transaction{UserID: "u2", Type: core.Expense, Amount: 99, Category: "Food", Date: day(2024, 2, 5)})

	got, err := s.MonthlyTotals(ctx, "u1")
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	want := []core.MonthTotals{
		{Month: "2024-03", TotalIncome: 0, TotalExpenses: 20},
		{Month: "2024-01", TotalIncome: 100, TotalExpenses: 40},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCreateTransactionValidates(t *testing.T) {
	s := New()
	_, err := s.CreateTransaction(context.Background(), core.Transaction{UserID: "u1", Type: "gift", Amount: 1, Category: "A", Date: day(2024, 1, 1)})
	if !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
