package evegateway

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpirationMinutes(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}
	tests := []struct {
		name    string
		expires *time.Time
		want    int
	}{
		{"thirty minutes", at(30 * time.Minute), 30},
		{"rounds down", at(30*time.Minute + 20*time.Second), 30},
		{"rounds up", at(29*time.Minute + 40*time.Second), 30},
		{"already expired", at(-5 * time.Minute), 1},
		{"under a minute", at(10 * time.Second), 1},
		{"missing header", nil, 3264},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpirationMinutes(tt.expires, now, 3264))
		})
	}
}

func TestParseExpires(t *testing.T) {
	h := http.Header{}
	assert.Nil(t, ParseExpires(h))

	h.Set("Expires", "Sun, 01 Jun 2025 12:30:00 GMT")
	got := ParseExpires(h)
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)))

	h.Set("Expires", "tomorrow")
	assert.Nil(t, ParseExpires(h))
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	h := http.Header{"Cache-Control": []string{"public, max-age=300"}}
	assert.Equal(t, now.Add(5*time.Minute), cacheExpiry(h, now))

	assert.Equal(t, now.Add(defaultCacheDuration), cacheExpiry(http.Header{}, now))
}

func TestDefaultCacheManager(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewDefaultCacheManager()
	c.now = func() time.Time { return now }
	ctx := t.Context()

	h := http.Header{}
	h.Set("Cache-Control", "max-age=60")
	h.Set("ETag", `"abc"`)
	require.NoError(t, c.Set(ctx, "k", []byte(`"v"`), h))

	entry, found, _ := c.Get(ctx, "k")
	require.True(t, found)
	assert.Equal(t, `"v"`, string(entry.Data))

	now = now.Add(2 * time.Minute)
	_, found, _ = c.Get(ctx, "k")
	assert.False(t, found, "stale entry must not be served")

	req, _ := http.NewRequest("GET", "https://esi.test/", nil)
	require.NoError(t, c.SetConditionalHeaders(ctx, req, "k"))
	assert.Equal(t, `"abc"`, req.Header.Get("If-None-Match"))

	require.NoError(t, c.RefreshExpiry(ctx, "k", http.Header{"Cache-Control": []string{"max-age=60"}}))
	_, found, _ = c.Get(ctx, "k")
	assert.True(t, found)
}

func TestTokenScopes(t *testing.T) {
	scopes, err := TokenScopes(makeToken(t, ScopeReadMail, ScopeReadSkills))
	require.NoError(t, err)
	assert.Equal(t, []string{ScopeReadMail, ScopeReadSkills}, scopes)

	_, err = TokenScopes("not-a-jwt")
	assert.Error(t, err)
}
