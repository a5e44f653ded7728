package ports

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// Ports for storage adapters.
type (
	UserRepository interface {
		CreateUser(ctx context.Context, u core.User) (id string, err error)
		// FindUserByEmail returns the earliest user with this exact email, or nil.
		FindUserByEmail(ctx context.Context, email string) (*core.User, error)
		// FindUserByID returns nil when no user has this id.
		FindUserByID(ctx context.Context, id string) (*core.User, error)
	}

	TransactionRepository interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (id string, err error)
		// ListTransactions returns the user's transactions with start <= date <= end,
		// newest date first. No match yields an empty slice.
		ListTransactions(ctx context.Context, userID string, start, end time.Time) ([]core.Transaction, error)
	}

	// TransactionAggregator runs grouping queries inside the store.
	TransactionAggregator interface {
		// SumExpensesByCategory sums expenses with start <= date < endExclusive.
		SumExpensesByCategory(ctx context.Context, userID string, start, endExclusive time.Time) ([]core.CategoryAmount, error)
		// MonthlyTotals groups all of the user's transactions by YYYY-MM, newest month first.
		MonthlyTotals(ctx context.Context, userID string) ([]core.MonthTotals, error)
	}

	// TransactionPublisher announces stored transactions to other systems.
	TransactionPublisher interface {
		PublishTransactionCreated(ctx context.Context, t core.Transaction) error
	}
)
