package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fintrack/internal/cache"
)

// KeyPrefix namespaces session keys in shared stores.
const KeyPrefix = "fintrack:session:"

// Record is the server-side state behind a session token.
type Record struct {
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists session records by token. Get reports a missing or
// expired token as (nil, nil).
type Store interface {
	Get(ctx context.Context, token string) (*Record, error)
	Set(ctx context.Context, token string, rec Record, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// MemoryStore keeps sessions in a bounded TTL cache. Every entry lives for
// the cache's TTL; the ttl passed to Set is ignored.
type MemoryStore struct {
	cache *cache.LRUCache[Record]
}

func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.NewLRUCache[Record](maxEntries, ttl)}
}

func (s *MemoryStore) Get(_ context.Context, token string) (*Record, error) {
	rec, ok := s.cache.Get(token)
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryStore) Set(_ context.Context, token string, rec Record, _ time.Duration) error {
	s.cache.Set(token, rec)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.cache.Delete(token)
	return nil
}

// CleanExpired implements cache.Cleaner.
func (s *MemoryStore) CleanExpired() int {
	return s.cache.CleanExpired()
}

// Len returns the number of live entries, including ones not yet purged.
func (s *MemoryStore) Len() int {
	return s.cache.Size()
}

// RedisStore keeps JSON-encoded sessions in redis with native expiry.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Record, error) {
	raw, err := s.client.Get(ctx, KeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Set(ctx context.Context, token string, rec Record, ttl time.Duration) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, KeyPrefix+token, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, KeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Ping reports whether redis answers.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
