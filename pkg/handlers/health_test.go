package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	ok := Probe{Name: "redis", Check: func(context.Context) error { return nil }}
	down := Probe{Name: "mongodb", Check: func(context.Context) error { return errors.New("no route to host") }}

	tests := []struct {
		name     string
		probes   []Probe
		wantCode int
		wantDeps map[string]string
	}{
		{"no probes", nil, http.StatusOK, nil},
		{"all healthy", []Probe{ok}, http.StatusOK, map[string]string{"redis": "healthy"}},
		{"one failing", []Probe{ok, down}, http.StatusServiceUnavailable, map[string]string{"redis": "healthy", "mongodb": "unhealthy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HealthHandler("recruiter", "1.0.0", tt.probes...)(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			var got HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, "recruiter", got.Module)
			assert.Equal(t, tt.wantDeps, got.Dependencies)
		})
	}
}
