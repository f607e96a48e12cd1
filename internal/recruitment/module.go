package recruitment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-recruiter/internal/recruitment/dto"
	"go-recruiter/internal/recruitment/routes"
	"go-recruiter/internal/recruitment/services"
	"go-recruiter/pkg/config"
	"go-recruiter/pkg/database"
	"go-recruiter/pkg/evegateway"
	"go-recruiter/pkg/module"
	"go-recruiter/pkg/sde"

	"github.com/danielgtaylor/huma/v2"
	"github.com/robfig/cron/v3"
)

const (
	// esiErrorFloor is the remaining error budget below which the module reports degraded.
	esiErrorFloor = 10
	purgeSchedule = "0 */10 * * * *"
)

// Purger drops expired cache entries. Only in-process stores need one.
type Purger interface {
	Purge() int
}

// Dependencies holds what the recruitment module is built from
type Dependencies struct {
	MongoDB    *database.MongoDB
	Redis      *database.Redis
	ESI        *evegateway.Client
	Aggregator *services.Aggregator
	Settings   *config.AggregatorSettings
	// ReferenceStats reports the state of the reference dataset
	ReferenceStats func(ctx context.Context) (sde.Stats, error)
	Indexes        []database.IndexCreator
	Purger         Purger
}

// Module represents the recruitment module
type Module struct {
	*module.BaseModule
	deps Dependencies
}

// New creates a new recruitment module instance
func New(deps Dependencies) *Module {
	return &Module{
		BaseModule: module.NewBaseModule("recruitment", deps.MongoDB, deps.Redis),
		deps:       deps,
	}
}

// Aggregator returns the aggregator serving the module routes
func (m *Module) Aggregator() *services.Aggregator {
	return m.deps.Aggregator
}

// Initialize creates the Mongo indexes of the configured backends
func (m *Module) Initialize(ctx context.Context) error {
	slog.InfoContext(ctx, "Initializing recruitment module")
	for _, ix := range m.deps.Indexes {
		if err := ix.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create recruitment indexes: %w", err)
		}
	}
	slog.InfoContext(ctx, "Recruitment module initialized successfully")
	return nil
}

// RegisterUnifiedRoutes registers routes on the shared Huma API
func (m *Module) RegisterUnifiedRoutes(api huma.API, basePath string) {
	routes.RegisterRecruitmentRoutes(api, basePath, m.deps.Aggregator, m.GetStatus)
	slog.Info("Recruitment module unified routes registered", "base_path", basePath)
}

// StartBackgroundTasks keeps the market price table warm and purges the in-process
// cache until the module stops
func (m *Module) StartBackgroundTasks(ctx context.Context) {
	scheduler := cron.New(cron.WithSeconds())
	_, err := scheduler.AddFunc(m.deps.Settings.PriceWarmupCron, func() {
		if err := m.deps.Aggregator.WarmPrices(ctx); err != nil {
			slog.WarnContext(ctx, "Price warmup failed", "error", err)
		}
	})
	if err != nil {
		slog.ErrorContext(ctx, "Invalid price warmup schedule", "schedule", m.deps.Settings.PriceWarmupCron, "error", err)
		m.BaseModule.StartBackgroundTasks(ctx)
		return
	}
	if m.deps.Purger != nil {
		_, err = scheduler.AddFunc(purgeSchedule, func() {
			if n := m.deps.Purger.Purge(); n > 0 {
				slog.DebugContext(ctx, "Purged expired cache entries", "count", n)
			}
		})
		if err != nil {
			slog.ErrorContext(ctx, "Failed to schedule cache purge", "error", err)
		}
	}

	slog.InfoContext(ctx, "Starting price warmup", "schedule", m.deps.Settings.PriceWarmupCron)
	scheduler.Start()
	m.BaseModule.StartBackgroundTasks(ctx)
	<-scheduler.Stop().Done()
	slog.Info("Price warmup stopped")
}

// GetStatus reports the health of the cache, the reference dataset and the ESI error budget
func (m *Module) GetStatus(ctx context.Context) *dto.RecruitmentStatusResponse {
	resp := &dto.RecruitmentStatusResponse{
		Module:       m.Name(),
		Status:       string(module.StatusHealthy),
		Dependencies: &dto.RecruitmentDependencies{Cache: "memory"},
		LastChecked:  time.Now().UTC().Format(time.RFC3339),
	}
	var problems []string

	if r := m.Redis(); r != nil {
		resp.Dependencies.Cache = "healthy"
		if err := r.HealthCheck(ctx); err != nil {
			resp.Dependencies.Cache = "unhealthy"
			problems = append(problems, "cache unreachable")
		}
	}

	if m.deps.ReferenceStats != nil {
		stats, err := m.deps.ReferenceStats(ctx)
		switch {
		case err != nil:
			resp.Dependencies.Reference = "unhealthy"
			problems = append(problems, "reference dataset unreachable")
		case !stats.Loaded:
			resp.Dependencies.Reference = "empty"
			resp.Reference = &stats
			problems = append(problems, "reference dataset not loaded")
		default:
			resp.Dependencies.Reference = "healthy"
			resp.Reference = &stats
		}
	}

	if m.deps.ESI != nil {
		limits := m.deps.ESI.ErrorLimits()
		resp.Dependencies.ESIErrorRemain = limits.Remain
		if !limits.Reset.IsZero() {
			resp.Dependencies.ESIErrorReset = limits.Reset.UTC().Format(time.RFC3339)
			if limits.Remain < esiErrorFloor {
				problems = append(problems, "ESI error budget nearly exhausted")
			}
		}
	}

	if m.deps.Aggregator != nil {
		cached, err := m.deps.Aggregator.PricesCached(ctx)
		if err == nil {
			resp.Dependencies.PricesCached = &cached
		}
	}

	if len(problems) > 0 {
		resp.Status = string(module.StatusDegraded)
		resp.Message = problems[0]
		if resp.Dependencies.Cache == "unhealthy" {
			resp.Status = string(module.StatusUnhealthy)
		}
	}
	return resp
}
