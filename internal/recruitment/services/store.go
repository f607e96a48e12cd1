package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-recruiter/pkg/database"

	"github.com/redis/go-redis/v9"
)

// Store is the process wide key/value cache the aggregator reads through.
// Add never replaces a live entry, so concurrent fills of the same key are harmless.
type Store interface {
	// Has reports presence without decoding. Status reporting uses it.
	Has(ctx context.Context, key string) (bool, error)
	// Get decodes the value into dest and reports whether the key was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Add stores value for ttlMinutes unless the key already exists.
	Add(ctx context.Context, key string, value any, ttlMinutes int) error
	// Put stores value for ttlMinutes, replacing any previous entry.
	Put(ctx context.Context, key string, value any, ttlMinutes int) error
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore keeps JSON encoded values in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) lookup(key string) (memoryEntry, bool) {
	e, ok := s.entries[key]
	if !ok || !e.expires.After(s.now()) {
		return memoryEntry{}, false
	}
	return e, true
}

func (s *MemoryStore) Has(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.lookup(key)
	return ok, nil
}

func (s *MemoryStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.RLock()
	e, ok := s.lookup(key)
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

func (s *MemoryStore) Add(_ context.Context, key string, value any, ttlMinutes int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookup(key); ok {
		return nil
	}
	s.entries[key] = memoryEntry{data: data, expires: s.now().Add(ttl(ttlMinutes))}
	return nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value any, ttlMinutes int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{data: data, expires: s.now().Add(ttl(ttlMinutes))}
	return nil
}

// Purge drops expired entries.
func (s *MemoryStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for k, e := range s.entries {
		if !e.expires.After(now) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

// RedisStore keeps values in Redis under a common prefix.
type RedisStore struct {
	redis  *database.Redis
	prefix string
}

func NewRedisStore(r *database.Redis) *RedisStore {
	return &RedisStore{redis: r, prefix: "recruiter:"}
}

func (s *RedisStore) Has(ctx context.Context, key string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.prefix+key)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return n > 0, nil
}

func (s *RedisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := s.redis.Get(ctx, s.prefix+key)
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisStore) Add(ctx context.Context, key string, value any, ttlMinutes int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if _, err := s.redis.SetNX(ctx, s.prefix+key, data, ttl(ttlMinutes)); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value any, ttlMinutes int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.redis.Set(ctx, s.prefix+key, data, ttl(ttlMinutes)); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func ttl(minutes int) time.Duration {
	return time.Duration(max(minutes, 1)) * time.Minute
}
