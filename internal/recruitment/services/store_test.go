package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return clock }

	require.NoError(t, s.Add(ctx, "name:corporation:1", "Acme", 10))

	t.Run("add keeps the live entry", func(t *testing.T) {
		require.NoError(t, s.Add(ctx, "name:corporation:1", "Other", 10))
		var got string
		ok, err := s.Get(ctx, "name:corporation:1", &got)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Acme", got)
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "k", 1, 10))
		require.NoError(t, s.Put(ctx, "k", 2, 10))
		var got int
		_, err := s.Get(ctx, "k", &got)
		require.NoError(t, err)
		assert.Equal(t, 2, got)
	})

	t.Run("entries expire", func(t *testing.T) {
		clock = clock.Add(11 * time.Minute)
		ok, err := s.Has(ctx, "name:corporation:1")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.Add(ctx, "name:corporation:1", "Renamed", 10))
		var got string
		_, _ = s.Get(ctx, "name:corporation:1", &got)
		assert.Equal(t, "Renamed", got)
	})

	t.Run("purge drops expired entries", func(t *testing.T) {
		clock = clock.Add(time.Hour)
		assert.Equal(t, 2, s.Purge())
	})
}

func TestTTLHasAFloor(t *testing.T) {
	assert.Equal(t, time.Minute, ttl(0))
	assert.Equal(t, 30*time.Minute, ttl(30))
}
