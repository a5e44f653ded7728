package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseTransactionType(t *testing.T) {
	for _, in := range []string{"income", "expense", " expense "} {
		if _, err := ParseTransactionType(in); err != nil {
			t.Fatalf("%q expected ok, got %v", in, err)
		}
	}
	for _, in := range []string{"", "Income", "transfer"} {
		if _, err := ParseTransactionType(in); !errors.Is(err, ErrInvalidType) {
			t.Fatalf("%q expected ErrInvalidType, got %v", in, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", d)
	}

	d, err = ParseDate("2024-03-05T23:30:00-02:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.Format(DateLayout); got != "2024-03-06" {
		t.Fatalf("expected UTC calendar date 2024-03-06, got %s", got)
	}

	for _, in := range []string{"", "05/03/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("%q expected error", in)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		UserID:   "u1",
		Type:     Expense,
		Amount:   20,
		Category: "Food",
		Date:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []func(*Transaction){
		func(t *Transaction) { t.UserID = "" },
		func(t *Transaction) { t.Type = "gift" },
		func(t *Transaction) { t.Amount = 0 },
		func(t *Transaction) { t.Category = "  " },
		func(t *Transaction) { t.Date = time.Time{} },
	}
	for i, mutate := range bads {
		tx := good
		mutate(&tx)
		err := tx.Validate()
		if !IsValidation(err) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}

func TestMonthWindows(t *testing.T) {
	m, err := ParseMonth("2024-02", time.Now())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := m.Start(); !got.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", got)
	}
	if got := m.End(); !got.Equal(time.Date(2024, 2, 29, 23, 59, 59, 999_000_000, time.UTC)) {
		t.Fatalf("end = %v", got)
	}
	if got := m.LastDay(); !got.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("last day = %v", got)
	}
	if m.String() != "2024-02" {
		t.Fatalf("string = %s", m)
	}

	now := time.Date(2024, 12, 31, 23, 0, 0, 0, time.FixedZone("x", -5*3600))
	def, err := ParseMonth("", now)
	if err != nil || def.String() != "2025-01" {
		t.Fatalf("expected current UTC month 2025-01, got %v (err=%v)", def, err)
	}

	if _, err := ParseMonth("2024-2-1", now); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	txns := []Transaction{
		{Type: Income, Amount: 100},
		{Type: Expense, Amount: 20},
		{Type: Expense, Amount: 12.35},
	}
	s := Summarize(CurrentMonth(time.Now()), txns)
	if FormatAmount(s.TotalIncome) != "100.00" || FormatAmount(s.TotalExpenses) != "32.35" {
		t.Fatalf("unexpected totals %+v", s)
	}
	if s.NetTotal != s.TotalIncome-s.TotalExpenses {
		t.Fatalf("net total %v != %v", s.NetTotal, s.TotalIncome-s.TotalExpenses)
	}
}
