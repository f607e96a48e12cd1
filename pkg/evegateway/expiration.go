package evegateway

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// defaultCacheDuration applies to responses without any cache headers
const defaultCacheDuration = 5 * time.Second

// ParseExpires returns the instant in the Expires header, or nil when it is absent or malformed.
func ParseExpires(headers http.Header) *time.Time {
	expires := headers.Get("Expires")
	if expires == "" {
		return nil
	}
	for _, layout := range []string{time.RFC1123, time.RFC1123Z, http.TimeFormat} {
		if t, err := time.Parse(layout, expires); err == nil {
			return &t
		}
	}
	return nil
}

// ExpirationMinutes converts an upstream expiry instant into a cache TTL in minutes.
// The result is rounded to the nearest minute and is never below one.
// Without an instant the fallback TTL is returned.
func ExpirationMinutes(expires *time.Time, now time.Time, fallback int) int {
	if expires == nil {
		return fallback
	}
	minutes := int(math.Round(expires.Sub(now).Minutes()))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// cacheExpiry works out when an HTTP cache entry goes stale: Expires first,
// then Cache-Control max-age, then a short default.
func cacheExpiry(headers http.Header, now time.Time) time.Time {
	if t := ParseExpires(headers); t != nil {
		return *t
	}
	if maxAge := parseCacheControlMaxAge(headers.Get("Cache-Control")); maxAge > 0 {
		return now.Add(time.Duration(maxAge) * time.Second)
	}
	return now.Add(defaultCacheDuration)
}

func parseCacheControlMaxAge(cacheControl string) int {
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		value, ok := strings.CutPrefix(directive, "max-age=")
		if !ok {
			continue
		}
		maxAge, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0
		}
		return maxAge
	}
	return 0
}
