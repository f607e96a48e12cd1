package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAggregatorSettings(t *testing.T) {
	t.Run("core mode requires app credentials", func(t *testing.T) {
		t.Setenv("ESI_AUTH_MODE", "core")
		t.Setenv("CORE_URL", "https://core.example.com")
		t.Setenv("CORE_APP_ID", "")
		t.Setenv("CORE_APP_SECRET", "")

		_, err := LoadAggregatorSettings()
		assert.Error(t, err)
	})

	t.Run("core mode routes through the proxy", func(t *testing.T) {
		t.Setenv("ESI_AUTH_MODE", "core")
		t.Setenv("CORE_URL", "https://core.example.com/")
		t.Setenv("CORE_APP_ID", "7")
		t.Setenv("CORE_APP_SECRET", "s3cret")

		s, err := LoadAggregatorSettings()
		require.NoError(t, err)
		assert.Equal(t, "https://core.example.com/api/app/v1/esi/latest", s.UpstreamBaseURL())
		assert.Equal(t, 3264, s.CacheTime)
		assert.Equal(t, 60, s.PriceCacheMinutes)
	})

	t.Run("token mode talks to ESI directly", func(t *testing.T) {
		t.Setenv("ESI_AUTH_MODE", "TOKEN")
		t.Setenv("ESI_BASE_URL", "https://esi.example.com/latest/")
		t.Setenv("CACHE_TIME", "15")

		s, err := LoadAggregatorSettings()
		require.NoError(t, err)
		assert.Equal(t, AuthModeToken, s.AuthMode)
		assert.Equal(t, "https://esi.example.com/latest", s.UpstreamBaseURL())
		assert.Equal(t, 15, s.CacheTime)
	})

	t.Run("rejects unknown cache backend", func(t *testing.T) {
		t.Setenv("ESI_AUTH_MODE", "token")
		t.Setenv("CACHE_BACKEND", "memcached")

		_, err := LoadAggregatorSettings()
		assert.Error(t, err)
	})
}
