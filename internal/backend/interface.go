package backend

import (
	"context"

	"fintrack/internal/ports"
)

// Backend is a data store serving users, transactions and aggregations.
type Backend interface {
	ports.UserRepository
	ports.TransactionRepository
	ports.TransactionAggregator
	Ping(ctx context.Context) error
}

// CleanupFunc releases resources held by a backend
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function.
// Publisher is nil when AMQP is not configured or unreachable.
type BackendResult struct {
	Backend   Backend
	Publisher ports.TransactionPublisher
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// MongoDB specific
	MongoURI      string
	MongoDatabase string

	// AMQP events, optional for every backend
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
	MongoBackend  BackendType = "mongo"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, MongoBackend:
		return true
	default:
		return false
	}
}
