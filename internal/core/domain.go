package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	User struct {
		ID           string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	Transaction struct {
		ID       string
		UserID   string
		Type     TransactionType
		Amount   float64 // rounded to 2 fractional digits at write time
		Category string
		Note     string
		Date     time.Time // UTC midnight
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyEmail      = errors.New("empty email")
	ErrEmptyPassword   = errors.New("empty password")
	ErrMissingUser     = errors.New("missing user id")
	ErrNoteTooLong     = errors.New("note too long (max 500 characters)")
	ErrCategoryTooLong = errors.New("category too long (max 100 characters)")
)

// ParseTransactionType accepts exactly "income" or "expense".
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.TrimSpace(s)); t {
	case Income, Expense:
		return t, nil
	default:
		return "", ErrInvalidType
	}
}

// ParseDate reads a calendar date. RFC3339 timestamps are accepted and
// truncated to their UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return CalendarDate(ts), nil
}

// CalendarDate returns midnight UTC of t's UTC calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return &ValidationError{Field: "userId", Err: ErrMissingUser}
	}
	if t.Type != Income && t.Type != Expense {
		return &ValidationError{Field: "type", Err: ErrInvalidType}
	}
	if t.Amount <= 0 {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	if strings.TrimSpace(t.Category) == "" {
		return &ValidationError{Field: "category", Err: ErrEmptyCategory}
	}
	if len(t.Category) > 100 {
		return &ValidationError{Field: "category", Err: ErrCategoryTooLong}
	}
	if len(t.Note) > 500 {
		return &ValidationError{Field: "note", Err: ErrNoteTooLong}
	}
	if t.Date.IsZero() {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	return nil
}
