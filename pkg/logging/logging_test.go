package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, false, slog.LevelWarn))

	logger.Info("dropped")
	logger.Warn("kept", "character_id", 42)

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"character_id":42`)
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, log.SeverityDebug, severity(slog.LevelDebug))
	assert.Equal(t, log.SeverityInfo, severity(slog.LevelInfo))
	assert.Equal(t, log.SeverityWarn, severity(slog.LevelWarn+1))
	assert.Equal(t, log.SeverityError, severity(slog.LevelError))
}

func TestConvertAttr(t *testing.T) {
	kv := convertAttr(slog.Int("pages", 3))
	assert.Equal(t, "pages", kv.Key)
	assert.Equal(t, int64(3), kv.Value.AsInt64())

	kv = convertAttr(slog.String("endpoint", "/characters/1/"))
	assert.Equal(t, "/characters/1/", kv.Value.AsString())
}
