package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"go-recruiter/pkg/config"
	"go-recruiter/pkg/database"
	"go-recruiter/pkg/evegateway"
	"go-recruiter/pkg/logging"
	"go-recruiter/pkg/sde"

	"github.com/joho/godotenv"
)

// AppContext holds the shared application context and dependencies
type AppContext struct {
	Settings         *config.AggregatorSettings
	MongoDB          *database.MongoDB
	Redis            *database.Redis
	ESI              *evegateway.Client
	Reference        sde.Store
	ReferenceStats   func(ctx context.Context) (sde.Stats, error)
	Indexes          []database.IndexCreator
	TelemetryManager *logging.TelemetryManager
	ServiceName      string
	shutdownFuncs    []func(context.Context) error
}

// InitializeApp initializes common application dependencies. Databases are only
// connected when the configured backends need them.
func InitializeApp(serviceName string) (*AppContext, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it: %v", err)
	}

	ctx := context.Background()

	// Initialize telemetry
	telemetryManager := logging.NewTelemetryManager()
	if err := telemetryManager.Initialize(ctx); err != nil {
		log.Printf("Warning: Failed to initialize telemetry: %v", err)
		// Continue without telemetry rather than failing
	}

	appCtx := &AppContext{
		TelemetryManager: telemetryManager,
		ServiceName:      serviceName,
	}
	appCtx.shutdownFuncs = append(appCtx.shutdownFuncs, telemetryManager.Shutdown)

	settings, err := config.LoadAggregatorSettings()
	if err != nil {
		return nil, err
	}
	appCtx.Settings = settings

	if NeedsMongoDB(settings) {
		mongodb, err := database.NewMongoDB(ctx, serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		slog.Info("Connected to MongoDB")
		appCtx.MongoDB = mongodb
		appCtx.shutdownFuncs = append(appCtx.shutdownFuncs, mongodb.Close)
	}

	if settings.CacheBackend == "redis" {
		redis, err := database.NewRedis(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		slog.Info("Connected to Redis")
		appCtx.Redis = redis
		appCtx.shutdownFuncs = append(appCtx.shutdownFuncs, func(ctx context.Context) error {
			return redis.Close()
		})
	}

	appCtx.initReference()
	appCtx.initESI()

	return appCtx, nil
}

// NeedsMongoDB reports whether the settings select a Mongo backed component.
func NeedsMongoDB(s *config.AggregatorSettings) bool {
	return s.ReferenceBackend == "mongo" || s.AuthMode == config.AuthModeToken
}

func (a *AppContext) initReference() {
	if a.Settings.ReferenceBackend == "mongo" {
		store := sde.NewMongoStore(a.MongoDB)
		a.Reference = store
		a.ReferenceStats = store.Stats
		a.Indexes = append(a.Indexes, store)
		slog.Info("Reference dataset backed by MongoDB")
		return
	}
	svc := sde.NewService(a.Settings.SDEDataDir)
	a.Reference = svc
	a.ReferenceStats = func(context.Context) (sde.Stats, error) {
		return svc.Stats(), nil
	}
	slog.Info("SDE service initialized", "data_dir", a.Settings.SDEDataDir)
}

func (a *AppContext) initESI() {
	s := a.Settings
	opts := evegateway.Options{
		BaseURL:     s.UpstreamBaseURL(),
		UserAgent:   s.ESIUserAgent,
		MaxRetries:  s.MaxRetries,
		RateLimit:   s.RateLimit,
		Concurrency: s.Concurrency,
	}

	switch s.AuthMode {
	case config.AuthModeToken:
		tokens := evegateway.NewMongoTokenStore(a.MongoDB)
		opts.Authorizer = evegateway.NewTokenAuthorizer(tokens)
		a.Indexes = append(a.Indexes, tokens)
	default:
		opts.Authorizer = &evegateway.CoreAuthorizer{AppID: s.CoreAppID, Secret: s.CoreAppSecret}
	}

	if a.Redis != nil {
		opts.CacheManager = evegateway.NewRedisCacheManager(a.Redis)
	}

	a.ESI = evegateway.NewClient(opts)
	slog.Info("ESI client initialized", "base_url", opts.BaseURL, "auth_mode", s.AuthMode)
}

// Shutdown gracefully shuts down all application dependencies
func (a *AppContext) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application", "service", a.ServiceName)

	for _, shutdown := range a.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}

	slog.Info("Application shutdown completed", "service", a.ServiceName)
	return nil
}

// GetPort returns the port from environment or default
func GetPort(defaultPort string) string {
	return config.GetEnv("PORT", defaultPort)
}

// IsProduction returns true if running in production environment
func IsProduction() bool {
	env := config.GetEnv("NODE_ENV", "development")
	return env == "production"
}

// IsDevelopment returns true if running in development environment
func IsDevelopment() bool {
	return !IsProduction()
}
