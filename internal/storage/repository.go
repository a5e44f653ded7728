package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

const timestampLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateUser implements ports.UserRepository
func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (string, error) {
	id := uuid.NewString()
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		id, u.Email, u.PasswordHash, createdAt.UTC().Format(timestampLayout))
	if err != nil {
		return "", core.Persistence("create user", err)
	}

	slog.DebugContext(ctx, "User saved to SQLite", "user_id", id)
	return id, nil
}

// FindUserByEmail implements ports.UserRepository
func (r *SQLiteRepository) FindUserByEmail(ctx context.Context, email string) (*core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ? ORDER BY rowid ASC LIMIT 1`,
		email)
	return scanUser(row, "find user by email")
}

// FindUserByID implements ports.UserRepository
func (r *SQLiteRepository) FindUserByID(ctx context.Context, id string) (*core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id)
	return scanUser(row, "find user by id")
}

func scanUser(row *sql.Row, op string) (*core.User, error) {
	var u core.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, core.Persistence(op, err)
	}
	if ts, err := time.Parse(timestampLayout, createdAt); err == nil {
		u.CreatedAt = ts
	}
	return &u, nil
}

// CreateTransaction implements ports.TransactionRepository
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, type, amount, category, note, date) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, t.UserID, string(t.Type), t.Amount, t.Category, t.Note, t.Date.UTC().Format(core.DateLayout))
	if err != nil {
		return "", core.Persistence("create transaction", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"transaction_id", id,
		"transaction_type", t.Type,
		"category", t.Category,
		"date", t.Date.Format(core.DateLayout))

	return id, nil
}

// ListTransactions implements ports.TransactionRepository
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, start, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, amount, category, note, date
		   FROM transactions
		  WHERE user_id = ? AND date >= ? AND date <= ?
		  ORDER BY date DESC, rowid DESC`,
		userID, lowerBound(start), inclusiveUpper(end))
	if err != nil {
		return nil, core.Persistence("list transactions", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		var t core.Transaction
		var kind, date string
		if err := rows.Scan(&t.ID, &t.UserID, &kind, &t.Amount, &t.Category, &t.Note, &date); err != nil {
			return nil, core.Persistence("scan transaction", err)
		}
		t.Type = core.TransactionType(kind)
		d, err := time.Parse(core.DateLayout, date)
		if err != nil {
			return nil, core.Persistence("parse transaction date", err)
		}
		t.Date = d
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Persistence("list transactions", err)
	}
	return out, nil
}

// SumExpensesByCategory implements ports.TransactionAggregator
func (r *SQLiteRepository) SumExpensesByCategory(ctx context.Context, userID string, start, endExclusive time.Time) ([]core.CategoryAmount, error) {
	upperOp, upper := exclusiveUpper(endExclusive)
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount)
		   FROM transactions
		  WHERE user_id = ? AND type = 'expense' AND date >= ? AND date `+upperOp+` ?
		  GROUP BY category
		  ORDER BY category ASC`,
		userID, lowerBound(start), upper)
	if err != nil {
		return nil, core.Persistence("sum expenses by category", err)
	}
	defer rows.Close()

	out := make([]core.CategoryAmount, 0)
	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Category, &ca.Amount); err != nil {
			return nil, core.Persistence("scan category sum", err)
		}
		out = append(out, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Persistence("sum expenses by category", err)
	}
	return out, nil
}

// MonthlyTotals implements ports.TransactionAggregator
func (r *SQLiteRepository) MonthlyTotals(ctx context.Context, userID string) ([]core.MonthTotals, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT substr(date, 1, 7) AS month,
		        COALESCE(SUM(CASE WHEN type = 'income' THEN amount END), 0),
		        COALESCE(SUM(CASE WHEN type = 'expense' THEN amount END), 0)
		   FROM transactions
		  WHERE user_id = ?
		  GROUP BY month
		  ORDER BY month DESC`,
		userID)
	if err != nil {
		return nil, core.Persistence("monthly totals", err)
	}
	defer rows.Close()

	out := make([]core.MonthTotals, 0)
	for rows.Next() {
		var mt core.MonthTotals
		if err := rows.Scan(&mt.Month, &mt.TotalIncome, &mt.TotalExpenses); err != nil {
			return nil, core.Persistence("scan monthly totals", err)
		}
		out = append(out, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Persistence("monthly totals", err)
	}
	return out, nil
}

// Dates are stored as YYYY-MM-DD text, so bounds are compared as calendar
// days. A lower bound past midnight starts on the following day.
func lowerBound(t time.Time) string {
	d := core.CalendarDate(t)
	if d.Before(t.UTC()) {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(core.DateLayout)
}

func inclusiveUpper(t time.Time) string {
	return core.CalendarDate(t).Format(core.DateLayout)
}

// exclusiveUpper keeps the stored day whose midnight is before t.
func exclusiveUpper(t time.Time) (string, string) {
	d := core.CalendarDate(t)
	if d.Equal(t.UTC()) {
		return "<", d.Format(core.DateLayout)
	}
	return "<=", d.Format(core.DateLayout)
}
