package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ports"
)

// TransactionInput carries the raw submitted form fields.
type TransactionInput struct {
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Note     string `json:"note"`
	Date     string `json:"date"`
}

type TransactionService struct {
	repo      ports.TransactionRepository
	publisher ports.TransactionPublisher
}

// NewTransactionService builds the service. publisher may be nil.
func NewTransactionService(repo ports.TransactionRepository, publisher ports.TransactionPublisher) *TransactionService {
	return &TransactionService{repo: repo, publisher: publisher}
}

// Create validates in and stores it for userID.
func (s *TransactionService) Create(ctx context.Context, userID string, in TransactionInput) (string, error) {
	t, err := ParseTransaction(userID, in)
	if err != nil {
		return "", err
	}

	id, err := s.repo.CreateTransaction(ctx, t)
	if err != nil {
		return "", core.Persistence("create transaction", err)
	}
	t.ID = id

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionCreated(ctx, t); err != nil {
			slog.WarnContext(ctx, "Failed to publish transaction event",
				"transaction_id", id,
				"error", err)
		}
	}
	return id, nil
}

// ParseTransaction converts submitted form fields into a validated transaction.
func ParseTransaction(userID string, in TransactionInput) (core.Transaction, error) {
	kind, err := core.ParseTransactionType(in.Type)
	if err != nil {
		return core.Transaction{}, &core.ValidationError{Field: "type", Err: err}
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, &core.ValidationError{Field: "amount", Err: err}
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Transaction{}, &core.ValidationError{Field: "date", Err: err}
	}

	t := core.Transaction{
		UserID:   userID,
		Type:     kind,
		Amount:   amount,
		Category: strings.TrimSpace(in.Category),
		Note:     strings.TrimSpace(in.Note),
		Date:     date,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// FindByUserAndRange lists the user's transactions dated within
// [start, end], newest first.
func (s *TransactionService) FindByUserAndRange(ctx context.Context, userID string, start, end time.Time) ([]core.Transaction, error) {
	if end.Before(start) {
		return nil, &core.ValidationError{Field: "range", Err: fmt.Errorf("end %s before start %s", end, start)}
	}
	txns, err := s.repo.ListTransactions(ctx, userID, start, end)
	if err != nil {
		return nil, core.Persistence("list transactions", err)
	}
	if txns == nil {
		txns = []core.Transaction{}
	}
	return txns, nil
}
