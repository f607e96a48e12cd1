package recruitment

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-recruiter/internal/recruitment/services"
	"go-recruiter/pkg/config"
	"go-recruiter/pkg/database"
	"go-recruiter/pkg/module"
	"go-recruiter/pkg/sde"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexFunc func(ctx context.Context) error

func (f indexFunc) EnsureIndexes(ctx context.Context) error { return f(ctx) }

func TestInitializeCreatesIndexes(t *testing.T) {
	var calls int
	ok := indexFunc(func(context.Context) error { calls++; return nil })
	m := New(Dependencies{Indexes: []database.IndexCreator{ok, ok}})

	require.NoError(t, m.Initialize(t.Context()))
	assert.Equal(t, 2, calls)

	failing := New(Dependencies{Indexes: []database.IndexCreator{indexFunc(func(context.Context) error { return errors.New("denied") })}})
	assert.Error(t, failing.Initialize(t.Context()))
}

func TestGetStatus(t *testing.T) {
	tests := []struct {
		name       string
		stats      func(context.Context) (sde.Stats, error)
		wantStatus module.Status
		wantRef    string
	}{
		{"no reference reporter", nil, module.StatusHealthy, ""},
		{"loaded", func(context.Context) (sde.Stats, error) {
			return sde.Stats{Backend: "file", Loaded: true, Types: 6}, nil
		}, module.StatusHealthy, "healthy"},
		{"empty", func(context.Context) (sde.Stats, error) {
			return sde.Stats{Backend: "mongo"}, nil
		}, module.StatusDegraded, "empty"},
		{"unreachable", func(context.Context) (sde.Stats, error) {
			return sde.Stats{}, errors.New("timeout")
		}, module.StatusDegraded, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(Dependencies{ReferenceStats: tt.stats})

			got := m.GetStatus(t.Context())

			assert.Equal(t, "recruitment", got.Module)
			assert.Equal(t, string(tt.wantStatus), got.Status)
			assert.Equal(t, "memory", got.Dependencies.Cache)
			assert.Equal(t, tt.wantRef, got.Dependencies.Reference)
		})
	}
}

func TestGetStatusReportsCachedPrices(t *testing.T) {
	store := services.NewMemoryStore()
	m := New(Dependencies{Aggregator: services.NewAggregator(nil, store, nil, services.Options{})})

	got := m.GetStatus(t.Context())
	require.NotNil(t, got.Dependencies.PricesCached)
	assert.False(t, *got.Dependencies.PricesCached)

	require.NoError(t, store.Put(t.Context(), "market:prices", services.PriceTable{34: 5}, 60))
	got = m.GetStatus(t.Context())
	require.NotNil(t, got.Dependencies.PricesCached)
	assert.True(t, *got.Dependencies.PricesCached)
}

func TestBackgroundTasksStopWithModule(t *testing.T) {
	m := New(Dependencies{Settings: &config.AggregatorSettings{PriceWarmupCron: "0 0 * * * *"}})
	done := make(chan struct{})
	go func() {
		m.StartBackgroundTasks(t.Context())
		close(done)
	}()

	m.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("background tasks did not stop")
	}
}

func TestInvalidScheduleDoesNotBlockStop(t *testing.T) {
	m := New(Dependencies{Settings: &config.AggregatorSettings{PriceWarmupCron: "whenever"}})
	done := make(chan struct{})
	go func() {
		m.StartBackgroundTasks(t.Context())
		close(done)
	}()

	m.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("background tasks did not stop")
	}
}
