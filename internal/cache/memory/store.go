// Package memory implements the process-local cache tier: fastest, lost on
// restart, expired lazily on read.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/domain"
)

type entry struct {
	value     []byte
	createdAt time.Time
	ttl       time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// Store is an in-process expiring key-value store.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
}

// New creates an empty memory store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
	}
}

// Get returns the value for key. An entry whose age exceeds its TTL behaves
// as absent and is evicted on the spot.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	if e.expired(time.Now()) {
		delete(s.entries, key)
		return nil, domain.ErrCacheMiss
	}

	return e.value, nil
}

// Set stores value under key. A zero ttl means domain.DefaultTTL. The stored
// copy is private; readers never mutate returned values.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return &domain.ValidationError{Field: "key", Reason: "must not be empty"}
	}
	if ttl <= 0 {
		ttl = domain.DefaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{
		value:     append([]byte(nil), value...),
		createdAt: time.Now(),
		ttl:       ttl,
	}

	return nil
}

// Invalidate removes a single key.
func (s *Store) Invalidate(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// InvalidatePrefix removes every key starting with prefix.
func (s *Store) InvalidatePrefix(_ context.Context, prefix string) error {
	if prefix == "" {
		return &domain.ValidationError{Field: "prefix", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}

	return nil
}

// Clear removes all entries.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]entry)
	return nil
}

// Len reports the number of live entries, counting not-yet-evicted expired
// ones.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
