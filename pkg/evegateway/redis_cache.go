package evegateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-recruiter/pkg/database"

	"github.com/redis/go-redis/v9"
)

const redisCachePrefix = "esi:cache:"

// staleRetention keeps expired entries around for conditional requests
const staleRetention = time.Hour

// RedisCacheManager implements CacheManager using Redis for persistence
type RedisCacheManager struct {
	redis *database.Redis
}

// NewRedisCacheManager creates a new Redis-based cache manager
func NewRedisCacheManager(redis *database.Redis) *RedisCacheManager {
	return &RedisCacheManager{redis: redis}
}

func (r *RedisCacheManager) load(ctx context.Context, key string) (*CacheEntry, bool, error) {
	entryJSON, err := r.redis.Get(ctx, redisCachePrefix+key)
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry CacheEntry
	if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &entry, true, nil
}

func (r *RedisCacheManager) store(ctx context.Context, key string, entry *CacheEntry) error {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	ttl := time.Until(entry.Expires)
	if ttl < 0 {
		ttl = 0
	}
	return r.redis.Set(ctx, redisCachePrefix+key, entryJSON, ttl+staleRetention)
}

func (r *RedisCacheManager) Get(ctx context.Context, key string) (*CacheEntry, bool, error) {
	entry, found, err := r.load(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	if entry.Expires.Before(time.Now()) {
		return nil, false, nil
	}
	return entry, true, nil
}

func (r *RedisCacheManager) GetForNotModified(ctx context.Context, key string) (*CacheEntry, bool, error) {
	return r.load(ctx, key)
}

func (r *RedisCacheManager) RefreshExpiry(ctx context.Context, key string, headers http.Header) error {
	entry, found, err := r.load(ctx, key)
	if err != nil || !found {
		return err
	}
	refreshEntry(entry, headers, time.Now())
	return r.store(ctx, key, entry)
}

func (r *RedisCacheManager) Set(ctx context.Context, key string, data []byte, headers http.Header) error {
	return r.store(ctx, key, newCacheEntry(data, headers, time.Now()))
}

func (r *RedisCacheManager) SetConditionalHeaders(ctx context.Context, req *http.Request, key string) error {
	entry, found, err := r.load(ctx, key)
	if err != nil || !found {
		return err
	}
	applyConditionalHeaders(req, entry)
	return nil
}
