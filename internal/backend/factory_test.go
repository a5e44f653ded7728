package backend

import (
	"context"
	"path/filepath"
	"testing"

	"fintrack/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		DataBackend:   "mongo",
		MongoURI:      "mongodb://db:27017",
		MongoDatabase: "FinancialTracker",
		AMQPURL:       "amqp://guest:guest@mq:5672/",
		AMQPExchange:  "fintrack",
		AMQPQueue:     "transactions",
	}
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if got.Type != MongoBackend || got.MongoURI != cfg.MongoURI || got.AMQPQueue != "transactions" {
		t.Fatalf("unexpected config %+v", got)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("unknown backend should be rejected")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("nil config should be rejected")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"mongo without uri", Config{Type: MongoBackend, MongoDatabase: "db"}, true},
		{"mongo without database", Config{Type: MongoBackend, MongoURI: "mongodb://x"}, true},
		{"amqp without queue", Config{Type: MemoryBackend, AMQPURL: "amqp://x", AMQPExchange: "e"}, true},
		{"invalid type", Config{Type: "sheets"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	f := NewFactory(nil)
	ctx := context.Background()

	mem, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
	if err != nil || mem.Backend == nil || mem.Cleanup == nil || mem.Publisher != nil {
		t.Fatalf("memory backend = %+v, %v", mem, err)
	}
	if err := mem.Backend.Ping(ctx); err != nil {
		t.Fatalf("memory ping: %v", err)
	}
	if err := mem.Cleanup(); err != nil {
		t.Fatalf("memory cleanup: %v", err)
	}

	sq, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "f.db")})
	if err != nil {
		t.Fatalf("sqlite backend: %v", err)
	}
	if err := sq.Backend.Ping(ctx); err != nil {
		t.Fatalf("sqlite ping: %v", err)
	}
	if err := sq.Cleanup(); err != nil {
		t.Fatalf("sqlite cleanup: %v", err)
	}
}
