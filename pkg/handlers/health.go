package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status       string            `json:"status"`
	Module       string            `json:"module,omitempty"`
	Version      string            `json:"version,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Probe checks one dependency of the service
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

const probeTimeout = 3 * time.Second

// HealthHandler creates a health check handler for a given module. The service is
// unhealthy when any probe fails.
func HealthHandler(moduleName, version string, probes ...Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:  "healthy",
			Module:  moduleName,
			Version: version,
		}
		code := http.StatusOK

		if len(probes) > 0 {
			ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
			defer cancel()

			response.Dependencies = make(map[string]string, len(probes))
			for _, p := range probes {
				if err := p.Check(ctx); err != nil {
					slog.WarnContext(ctx, "Health probe failed", "dependency", p.Name, "error", err)
					response.Dependencies[p.Name] = "unhealthy"
					response.Status = "unhealthy"
					code = http.StatusServiceUnavailable
					continue
				}
				response.Dependencies[p.Name] = "healthy"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)

		if err := json.NewEncoder(w).Encode(response); err != nil {
			slog.Error("Failed to encode health response", "error", err, "module", moduleName)
		}
	}
}
