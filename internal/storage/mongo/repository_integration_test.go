//go:build integration

package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"fintrack/internal/core"
)

func newIntegrationRepo(t *testing.T) *Repository {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx := context.Background()
	dbName := fmt.Sprintf("fintrack_test_%d", time.Now().UnixNano())
	repo, err := Connect(ctx, uri, dbName)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = repo.client.Database(dbName).Drop(context.Background())
		_ = repo.Close(context.Background())
	})
	return repo
}

func TestMongoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newIntegrationRepo(t)

	uid, err := repo.CreateUser(ctx, core.User{Email: "a@x.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	u, err := repo.FindUserByEmail(ctx, "a@x.com")
	if err != nil || u == nil || u.ID != uid {
		t.Fatalf("find by email = %+v, %v", u, err)
	}

	day := func(d int) time.Time { return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC) }
	for _, tx := range []core.Transaction{
		{UserID: uid, Type: core.Expense, Amount: 20, Category: "Food", Date: day(5)},
		{UserID: uid, Type: core.Expense, Amount: 7, Category: "Rent", Date: day(31)},
		{UserID: uid, Type: core.Income, Amount: 100, Category: "Salary", Date: day(10)},
	} {
		if _, err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("create transaction: %v", err)
		}
	}

	m := core.Month{Year: 2024, Month: time.March}
	list, err := repo.ListTransactions(ctx, uid, m.Start(), m.End())
	if err != nil || len(list) != 3 || !list[0].Date.Equal(day(31)) {
		t.Fatalf("list = %+v, %v", list, err)
	}

	cats, err := repo.SumExpensesByCategory(ctx, uid, m.Start(), m.LastDay())
	if err != nil || len(cats) != 1 || cats[0].Category != "Food" || cats[0].Amount != 20 {
		t.Fatalf("categories = %+v, %v", cats, err)
	}

	months, err := repo.MonthlyTotals(ctx, uid)
	if err != nil || len(months) != 1 {
		t.Fatalf("months = %+v, %v", months, err)
	}
	if months[0].Month != "2024-03" || months[0].TotalIncome != 100 || months[0].TotalExpenses != 27 {
		t.Fatalf("unexpected month row %+v", months[0])
	}
}
