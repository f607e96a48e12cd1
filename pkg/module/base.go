// Package module holds what every HTTP facing module of the service shares.
package module

import (
	"context"
	"log/slog"
	"sync"

	"go-recruiter/pkg/database"

	"github.com/danielgtaylor/huma/v2"
)

// Status is a module health value as reported by the status endpoints
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Module is the lifecycle main drives for each module
type Module interface {
	RegisterUnifiedRoutes(api huma.API, basePath string)
	// StartBackgroundTasks blocks until ctx is done or Stop is called
	StartBackgroundTasks(ctx context.Context)
	Stop()
	Name() string
}

// BaseModule carries the shared connections and the stop signal. Embed it and
// override StartBackgroundTasks for periodic work.
type BaseModule struct {
	name     string
	mongodb  *database.MongoDB
	redis    *database.Redis
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewBaseModule accepts nil connections for backends that are not configured.
func NewBaseModule(name string, mongodb *database.MongoDB, redis *database.Redis) *BaseModule {
	return &BaseModule{
		name:    name,
		mongodb: mongodb,
		redis:   redis,
		stopCh:  make(chan struct{}),
	}
}

func (b *BaseModule) Name() string {
	return b.name
}

func (b *BaseModule) MongoDB() *database.MongoDB {
	return b.mongodb
}

func (b *BaseModule) Redis() *database.Redis {
	return b.redis
}

// StopChannel is closed once the module is stopped.
func (b *BaseModule) StopChannel() <-chan struct{} {
	return b.stopCh
}

// Stop may be called more than once.
func (b *BaseModule) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopCh)
		slog.Info("Module stopped", "module", b.name)
	})
}

func (b *BaseModule) StartBackgroundTasks(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-b.stopCh:
	}
}
