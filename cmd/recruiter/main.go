package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go-recruiter/internal/recruitment"
	"go-recruiter/internal/recruitment/services"
	"go-recruiter/pkg/app"
	"go-recruiter/pkg/config"
	"go-recruiter/pkg/handlers"
	"go-recruiter/pkg/module"
	"go-recruiter/pkg/version"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "go.uber.org/automaxprocs"
)

// customLoggerMiddleware logs requests but excludes health check endpoints
func customLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/health") {
			next.ServeHTTP(w, r)
			return
		}
		middleware.Logger(next).ServeHTTP(w, r)
	})
}

// corsMiddleware allows the configured origins, "*" allows any
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (slices.Contains(origins, "*") || slices.Contains(origins, origin)) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func main() {
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	versionInfo := version.Get()
	if *showVersion {
		out, _ := json.MarshalIndent(versionInfo, "", "  ")
		fmt.Println(string(out))
		return
	}

	fmt.Print("\033[38;5;33mGO-RECRUITER ESI Aggregator\033[0m\n")
	log.Printf("🏷️  Version: %s | Build: %s", versionInfo, versionInfo.BuildDate)
	log.Printf("🖥️  CPUs: %d | GOMAXPROCS: %d", runtime.NumCPU(), runtime.GOMAXPROCS(0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appCtx, err := app.InitializeApp("recruiter")
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Printf("💾 Memory: %s heap | %s total", humanize.IBytes(m.HeapAlloc), humanize.IBytes(m.Sys))
	printMemoryLimits()

	// Cache store for names, skills, mail bodies and prices
	var (
		store  services.Store
		purger recruitment.Purger
	)
	if appCtx.Redis != nil {
		store = services.NewRedisStore(appCtx.Redis)
	} else {
		mem := services.NewMemoryStore()
		store, purger = mem, mem
	}

	aggregator := services.NewAggregator(appCtx.ESI, store, appCtx.Reference, services.OptionsFromSettings(appCtx.Settings))
	recruitmentModule := recruitment.New(recruitment.Dependencies{
		MongoDB:        appCtx.MongoDB,
		Redis:          appCtx.Redis,
		ESI:            appCtx.ESI,
		Aggregator:     aggregator,
		Settings:       appCtx.Settings,
		ReferenceStats: appCtx.ReferenceStats,
		Indexes:        appCtx.Indexes,
		Purger:         purger,
	})
	if err := recruitmentModule.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize recruitment module: %v", err)
	}
	modules := []module.Module{recruitmentModule}

	r := chi.NewRouter()
	r.Use(customLoggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware(config.GetListEnv("CORS_ALLOWED_ORIGINS", []string{"*"})))
	r.Use(handlers.TracingMiddleware("recruiter"))

	var probes []handlers.Probe
	if appCtx.MongoDB != nil {
		probes = append(probes, handlers.Probe{Name: "mongodb", Check: appCtx.MongoDB.HealthCheck})
	}
	if appCtx.Redis != nil {
		probes = append(probes, handlers.Probe{Name: "redis", Check: appCtx.Redis.HealthCheck})
	}
	r.Get("/health", handlers.HealthHandler("recruiter", versionInfo.String(), probes...))

	apiPrefix := config.GetAPIPrefix()
	humaConfig := huma.DefaultConfig("Go Recruiter API", versionInfo.Version)
	humaConfig.Info.Description = "Recruitment views of EVE Online characters aggregated from ESI"

	var unifiedAPI huma.API
	if apiPrefix == "" {
		unifiedAPI = humachi.New(r, humaConfig)
	} else {
		r.Route(apiPrefix, func(prefixRouter chi.Router) {
			unifiedAPI = humachi.New(prefixRouter, humaConfig)
		})
	}
	recruitmentModule.RegisterUnifiedRoutes(unifiedAPI, "/esi")

	for _, mod := range modules {
		go mod.StartBackgroundTasks(ctx)
	}

	// Warm the price table so the first asset request does not pay for it
	go func() {
		if err := aggregator.WarmPrices(ctx); err != nil {
			slog.Warn("Initial price warmup failed", "error", err)
		}
	}()

	port := app.GetPort("8080")
	host := config.GetHost()
	srv := &http.Server{
		Addr:         host + ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Printf("🚀 Server: http://%s%s | OpenAPI: %s/openapi.json", srv.Addr, apiPrefix, apiPrefix)

	go func() {
		slog.Info("Starting recruiter server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Received shutdown signal, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.GetDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	for _, mod := range modules {
		mod.Stop()
	}
	cancel()

	// Application context will handle database and telemetry shutdown
	appCtx.Shutdown(shutdownCtx)

	slog.Info("Recruiter shutdown completed successfully")
}

// printMemoryLimits reads and displays container memory limits
func printMemoryLimits() {
	for _, read := range []func() int64{readCgroupV2MemoryLimit, readCgroupV1MemoryLimit} {
		if limit := read(); limit > 0 {
			log.Printf("📦 Container limit: %s", humanize.IBytes(uint64(limit)))
			return
		}
	}
}

func readCgroupV2MemoryLimit() int64 {
	data, err := os.ReadFile("/sys/fs/cgroup/memory.max")
	if err != nil {
		return 0
	}
	limitStr := strings.TrimSpace(string(data))
	if limitStr == "max" {
		return 0
	}
	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil {
		return 0
	}
	return limit
}

func readCgroupV1MemoryLimit() int64 {
	data, err := os.ReadFile("/sys/fs/cgroup/memory/memory.limit_in_bytes")
	if err != nil {
		return 0
	}
	limit, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	// v1 reports a huge number when unlimited
	if err != nil || limit >= 1<<62 {
		return 0
	}
	return limit
}
