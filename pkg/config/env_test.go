package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAPIPrefix(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"api", "/api"},
		{"/api/", "/api"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("API_PREFIX", tt.env)
			assert.Equal(t, tt.want, GetAPIPrefix())
		})
	}
}

func TestGetListEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, GetListEnv("CORS_ALLOWED_ORIGINS", nil))

	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	assert.Equal(t, []string{"*"}, GetListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}))
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "45s")
	assert.Equal(t, "45s", GetDurationEnv("SHUTDOWN_TIMEOUT", 0).String())

	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	assert.Equal(t, "30s", GetDurationEnv("SHUTDOWN_TIMEOUT", 30_000_000_000).String())
}
