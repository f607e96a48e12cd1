package evegateway

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// CacheEntry represents a cached ESI response
type CacheEntry struct {
	Data         []byte      `json:"data"`
	Header       http.Header `json:"header,omitempty"`
	ETag         string      `json:"etag,omitempty"`
	LastModified string      `json:"last_modified,omitempty"`
	Expires      time.Time   `json:"expires"`
}

// ESIErrorLimits represents ESI error limit headers
type ESIErrorLimits struct {
	Remain int
	Reset  time.Time
	Window int
}

// CacheManager caches raw responses of public GET endpoints, keyed by request URL.
type CacheManager interface {
	// Get returns a fresh entry.
	Get(ctx context.Context, key string) (*CacheEntry, bool, error)
	// GetForNotModified returns an entry even if it is stale (for 304 responses).
	GetForNotModified(ctx context.Context, key string) (*CacheEntry, bool, error)
	Set(ctx context.Context, key string, data []byte, headers http.Header) error
	RefreshExpiry(ctx context.Context, key string, headers http.Header) error
	SetConditionalHeaders(ctx context.Context, req *http.Request, key string) error
}

// DefaultCacheManager implements basic in-memory caching
type DefaultCacheManager struct {
	cache      map[string]*CacheEntry
	cacheMutex sync.RWMutex
	now        func() time.Time
}

// NewDefaultCacheManager creates a new default cache manager
func NewDefaultCacheManager() *DefaultCacheManager {
	return &DefaultCacheManager{
		cache: make(map[string]*CacheEntry),
		now:   time.Now,
	}
}

func (c *DefaultCacheManager) Get(_ context.Context, key string) (*CacheEntry, bool, error) {
	c.cacheMutex.RLock()
	defer c.cacheMutex.RUnlock()

	entry, exists := c.cache[key]
	if !exists || entry.Expires.Before(c.now()) {
		return nil, false, nil
	}
	return entry, true, nil
}

func (c *DefaultCacheManager) GetForNotModified(_ context.Context, key string) (*CacheEntry, bool, error) {
	c.cacheMutex.RLock()
	defer c.cacheMutex.RUnlock()

	entry, exists := c.cache[key]
	return entry, exists, nil
}

func (c *DefaultCacheManager) RefreshExpiry(_ context.Context, key string, headers http.Header) error {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	entry, exists := c.cache[key]
	if !exists {
		return nil
	}
	refreshEntry(entry, headers, c.now())
	return nil
}

func refreshEntry(entry *CacheEntry, headers http.Header, now time.Time) {
	entry.Expires = cacheExpiry(headers, now)
	if expires := headers.Get("Expires"); expires != "" {
		if entry.Header == nil {
			entry.Header = http.Header{}
		}
		entry.Header.Set("Expires", expires)
	}
}

func (c *DefaultCacheManager) Set(_ context.Context, key string, data []byte, headers http.Header) error {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	c.cache[key] = newCacheEntry(data, headers, c.now())
	return nil
}

func (c *DefaultCacheManager) SetConditionalHeaders(_ context.Context, req *http.Request, key string) error {
	c.cacheMutex.RLock()
	defer c.cacheMutex.RUnlock()

	if entry, exists := c.cache[key]; exists {
		applyConditionalHeaders(req, entry)
	}
	return nil
}

func newCacheEntry(data []byte, headers http.Header, now time.Time) *CacheEntry {
	kept := http.Header{}
	for _, h := range []string{"Expires", "X-Pages", "Last-Modified", "ETag"} {
		if v := headers.Get(h); v != "" {
			kept.Set(h, v)
		}
	}
	return &CacheEntry{
		Data:         data,
		Header:       kept,
		ETag:         headers.Get("ETag"),
		LastModified: headers.Get("Last-Modified"),
		Expires:      cacheExpiry(headers, now),
	}
}

func applyConditionalHeaders(req *http.Request, entry *CacheEntry) {
	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	}
	if entry.LastModified != "" {
		req.Header.Set("If-Modified-Since", entry.LastModified)
	}
}
