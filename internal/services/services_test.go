package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage/memory"
)

type recordingPublisher struct {
	events []core.Transaction
	err    error
}

func (p *recordingPublisher) PublishTransactionCreated(_ context.Context, t core.Transaction) error {
	p.events = append(p.events, t)
	return p.err
}

func march() core.Month { return core.Month{Year: 2024, Month: time.March} }

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &recordingPublisher{}
	svc := NewTransactionService(store, pub)

	id, err := svc.Create(ctx, "u1", TransactionInput{
		Type: "expense", Amount: "12.345", Category: " Food ", Note: "lunch", Date: "2024-03-05",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.FindByUserAndRange(ctx, "u1", march().Start(), march().End())
	if err != nil || len(got) != 1 {
		t.Fatalf("find = %+v, %v", got, err)
	}
	tx := got[0]
	if tx.ID != id || tx.Amount != 12.35 || tx.Category != "Food" || tx.Type != core.Expense {
		t.Fatalf("unexpected stored transaction %+v", tx)
	}
	if !tx.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v", tx.Date)
	}
	if len(pub.events) != 1 || pub.events[0].ID != id {
		t.Fatalf("expected one event for %s, got %+v", id, pub.events)
	}
}

func TestCreateTransactionRejectsBadInput(t *testing.T) {
	valid := TransactionInput{Type: "income", Amount: "10", Category: "Salary", Date: "2024-03-01"}
	tests := []struct {
		name   string
		mutate func(*TransactionInput)
		field  string
	}{
		{"unknown type", func(in *TransactionInput) { in.Type = "transfer" }, "type"},
		{"non numeric amount", func(in *TransactionInput) { in.Amount = "ten" }, "amount"},
		{"negative amount", func(in *TransactionInput) { in.Amount = "-5" }, "amount"},
		{"zero amount", func(in *TransactionInput) { in.Amount = "0" }, "amount"},
		{"bad date", func(in *TransactionInput) { in.Date = "03/05/2024" }, "date"},
		{"blank category", func(in *TransactionInput) { in.Category = "   " }, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			pub := &recordingPublisher{}
			svc := NewTransactionService(store, pub)

			in := valid
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), "u1", in)

			var ve *core.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("Create() error = %v, want validation on %q", err, tt.field)
			}
			if len(pub.events) != 0 {
				t.Fatal("no event should be published for rejected input")
			}
			got, _ := store.ListTransactions(context.Background(), "u1", time.Time{}, time.Now().AddDate(10, 0, 0))
			if len(got) != 0 {
				t.Fatalf("rejected input was stored: %+v", got)
			}
		})
	}
}

func TestPublishFailureDoesNotFailCreate(t *testing.T) {
	svc := NewTransactionService(memory.New(), &recordingPublisher{err: errors.New("broker down")})
	_, err := svc.Create(context.Background(), "u1", TransactionInput{
		Type: "income", Amount: "1", Category: "Gift", Date: "2024-03-01",
	})
	if err != nil {
		t.Fatalf("create should succeed when publishing fails: %v", err)
	}
}

func TestFindByUserAndRangeEmpty(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	got, err := svc.FindByUserAndRange(context.Background(), "u1", march().Start(), march().End())
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %v (err=%v)", got, err)
	}
	if _, err := svc.FindByUserAndRange(context.Background(), "u1", march().End(), march().Start()); !core.IsValidation(err) {
		t.Fatalf("inverted range error = %v", err)
	}
}

func seedSummary(t *testing.T) (*memory.Store, *SummaryService) {
	t.Helper()
	store := memory.New()
	txs := NewTransactionService(store, nil)
	for _, in := range []TransactionInput{
		{Type: "income", Amount: "1000", Category: "Salary", Date: "2024-03-01"},
		{Type: "expense", Amount: "20", Category: "Food", Date: "2024-03-05"},
		{Type: "expense", Amount: "12.345", Category: "Food", Date: "2024-03-20"},
		{Type: "expense", Amount: "300", Category: "Rent", Date: "2024-03-31"},
		{Type: "expense", Amount: "15", Category: "Bills", Date: "2024-03-10"},
		{Type: "expense", Amount: "8", Category: "Food", Date: "2024-02-29"},
	} {
		if _, err := txs.Create(context.Background(), "u1", in); err != nil {
			t.Fatalf("seed %+v: %v", in, err)
		}
	}
	return store, NewSummaryService(store, store)
}

func TestMonthlySummary(t *testing.T) {
	_, svc := seedSummary(t)

	sum, err := svc.MonthlySummary(context.Background(), "u1", march())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(sum.Transactions) != 5 {
		t.Fatalf("expected 5 March transactions, got %d", len(sum.Transactions))
	}
	// last day of the month is inside the inclusive window
	if !sum.Transactions[0].Date.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first transaction = %+v", sum.Transactions[0])
	}
	if got := core.FormatAmount(sum.TotalIncome); got != "1000.00" {
		t.Errorf("TotalIncome = %s", got)
	}
	if got := core.FormatAmount(sum.TotalExpenses); got != "347.35" {
		t.Errorf("TotalExpenses = %s", got)
	}
	if got := core.FormatAmount(sum.NetTotal); got != "652.65" {
		t.Errorf("NetTotal = %s", got)
	}

	empty, err := svc.MonthlySummary(context.Background(), "nobody", march())
	if err != nil || empty.Transactions == nil || len(empty.Transactions) != 0 || empty.NetTotal != 0 {
		t.Fatalf("empty summary = %+v, %v", empty, err)
	}
}

func TestCategoryBreakdownExcludesLastDay(t *testing.T) {
	_, svc := seedSummary(t)

	rows, err := svc.CategoryBreakdown(context.Background(), "u1", march())
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected Bills and Food only, got %+v", rows)
	}
	if rows[0].Category != "Bills" || rows[0].Amount != 15 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Category != "Food" || core.FormatAmount(rows[1].Amount) != "32.35" {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestAllMonthsSummary(t *testing.T) {
	_, svc := seedSummary(t)

	rows, err := svc.AllMonthsSummary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("all months: %v", err)
	}
	if len(rows) != 2 || rows[0].Month != "2024-03" || rows[1].Month != "2024-02" {
		t.Fatalf("unexpected months %+v", rows)
	}
	if rows[1].TotalIncome != 0 || rows[1].TotalExpenses != 8 {
		t.Fatalf("February row = %+v", rows[1])
	}

	none, err := svc.AllMonthsSummary(context.Background(), "nobody")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty slice, got %v (err=%v)", none, err)
	}
}
