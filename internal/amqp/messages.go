package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/core"
)

// EventTransactionCreated is the AMQP message type of TransactionCreatedMessage.
const EventTransactionCreated = "transaction.created"

// TransactionCreatedMessage announces a stored transaction. Amount uses the
// same 2-decimal text as the overview endpoint.
type TransactionCreatedMessage struct {
	Event         string    `json:"event"`
	TransactionID string    `json:"transactionId"`
	UserID        string    `json:"userId"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	Category      string    `json:"category"`
	Date          string    `json:"date"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionCreatedMessage(t core.Transaction, now time.Time) *TransactionCreatedMessage {
	return &TransactionCreatedMessage{
		Event:         EventTransactionCreated,
		TransactionID: t.ID,
		UserID:        t.UserID,
		Type:          string(t.Type),
		Amount:        core.FormatAmount(t.Amount),
		Category:      t.Category,
		Date:          t.Date.Format(core.DateLayout),
		Timestamp:     now.UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionCreatedMessageFromJSON decodes a message body.
func TransactionCreatedMessageFromJSON(data []byte) (*TransactionCreatedMessage, error) {
	var msg TransactionCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
