// Package redis implements the durable cache tier on Redis: slower than the
// memory tier, survives process restarts, bounded by the host's maxmemory.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/domain"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/observability"
)

const scanBatchSize = 200

// envelope is the stored JSON wrapper. The timestamp/ttl pair lets Get
// double-check freshness independently of the Redis key expiry, which matters
// when entries are restored from a snapshot.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	TTL       int64           `json:"ttl"`
}

// Store is the Redis-backed durable cache tier. All keys are namespaced under
// a fixed prefix so Clear never touches unrelated data in the same database.
type Store struct {
	client *redis.Client
	prefix string
}

// New creates a durable store over the given Redis client.
func New(client *redis.Client, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
	}
}

// Ping checks connectivity to Redis.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Get returns the value for key, or domain.ErrCacheMiss when absent or
// expired. A stale envelope is deleted eagerly.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("durable cache read failed: %w", err)
	}

	var env envelope
	if unmarshalErr := json.Unmarshal(payload, &env); unmarshalErr != nil {
		// Unreadable entries are as good as absent; drop them.
		s.client.Del(ctx, s.prefix+key)
		return nil, domain.ErrCacheMiss
	}

	age := time.Since(time.UnixMilli(env.Timestamp))
	if age > time.Duration(env.TTL)*time.Millisecond {
		if delErr := s.client.Del(ctx, s.prefix+key).Err(); delErr != nil {
			observability.FromContext(ctx).Warn("failed to evict expired entry",
				observability.String("key", key),
				observability.Error(delErr))
		}
		return nil, domain.ErrCacheMiss
	}

	return env.Data, nil
}

// Set stores value under key with the given TTL (zero means
// domain.DefaultTTL). An out-of-memory rejection surfaces as a
// domain.StorageQuotaError for upper layers to swallow.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return &domain.ValidationError{Field: "key", Reason: "must not be empty"}
	}
	if ttl <= 0 {
		ttl = domain.DefaultTTL
	}

	payload, err := json.Marshal(envelope{
		Data:      value,
		Timestamp: time.Now().UnixMilli(),
		TTL:       ttl.Milliseconds(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache envelope: %w", err)
	}

	if setErr := s.client.Set(ctx, s.prefix+key, payload, ttl).Err(); setErr != nil {
		if isQuotaError(setErr) {
			return &domain.StorageQuotaError{Key: key, Err: setErr}
		}
		return fmt.Errorf("durable cache write failed: %w", setErr)
	}

	return nil
}

// Invalidate removes a single key.
func (s *Store) Invalidate(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("durable cache delete failed: %w", err)
	}
	return nil
}

// InvalidatePrefix removes every key starting with prefix, scanning in
// batches to avoid blocking Redis.
func (s *Store) InvalidatePrefix(ctx context.Context, prefix string) error {
	if prefix == "" {
		return &domain.ValidationError{Field: "prefix", Reason: "must not be empty"}
	}
	return s.deleteByPattern(ctx, s.prefix+prefix+"*")
}

// Clear removes every entry under this store's namespace.
func (s *Store) Clear(ctx context.Context) error {
	return s.deleteByPattern(ctx, s.prefix+"*")
}

func (s *Store) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("durable cache scan failed: %w", err)
		}

		if len(keys) > 0 {
			if delErr := s.client.Del(ctx, keys...).Err(); delErr != nil {
				return fmt.Errorf("durable cache bulk delete failed: %w", delErr)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// isQuotaError recognizes the Redis maxmemory rejection.
func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "OOM") || strings.Contains(msg, "maxmemory")
}
