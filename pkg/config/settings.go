package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Upstream authentication modes
const (
	AuthModeCore  = "core"
	AuthModeToken = "token"
)

// AggregatorSettings holds everything the ESI aggregator reads from the environment
type AggregatorSettings struct {
	ESIBaseURL    string `validate:"required,url"`
	ESIUserAgent  string `validate:"required"`
	AuthMode      string `validate:"oneof=core token"`
	CoreURL       string `validate:"required_if=AuthMode core"`
	CoreAppID     string `validate:"required_if=AuthMode core"`
	CoreAppSecret string `validate:"required_if=AuthMode core"`

	// CacheTime is the default name cache TTL in minutes.
	CacheTime          int     `validate:"min=1"`
	PriceCacheMinutes  int     `validate:"min=1"`
	MaxRetries         int     `validate:"min=0,max=10"`
	RateLimit          float64 `validate:"min=0"`
	Concurrency        int     `validate:"min=1,max=50"`
	CacheBackend       string  `validate:"oneof=memory redis"`
	ReferenceBackend   string  `validate:"oneof=file mongo"`
	SDEDataDir         string
	TypeRemoteFallback bool
	PriceWarmupCron    string `validate:"required"`
}

// LoadAggregatorSettings reads and validates the aggregator settings
func LoadAggregatorSettings() (*AggregatorSettings, error) {
	s := &AggregatorSettings{
		ESIBaseURL:         GetEnv("ESI_BASE_URL", "https://esi.evetech.net/latest"),
		ESIUserAgent:       GetEnv("ESI_USER_AGENT", "go-recruiter/1.0.0 contact@example.com"),
		AuthMode:           strings.ToLower(GetEnv("ESI_AUTH_MODE", AuthModeCore)),
		CoreURL:            GetEnv("CORE_URL", ""),
		CoreAppID:          GetEnv("CORE_APP_ID", ""),
		CoreAppSecret:      GetEnv("CORE_APP_SECRET", ""),
		CacheTime:          GetIntEnv("CACHE_TIME", 3264),
		PriceCacheMinutes:  GetIntEnv("PRICE_CACHE_MINUTES", 60),
		MaxRetries:         GetIntEnv("ESI_MAX_RETRIES", 3),
		RateLimit:          GetFloatEnv("ESI_RATE_LIMIT", 20),
		Concurrency:        GetIntEnv("ESI_CONCURRENCY", 5),
		CacheBackend:       strings.ToLower(GetEnv("CACHE_BACKEND", "memory")),
		ReferenceBackend:   strings.ToLower(GetEnv("REFERENCE_BACKEND", "file")),
		SDEDataDir:         GetEnv("SDE_DATA_DIR", "data/sde"),
		TypeRemoteFallback: GetBoolEnv("TYPE_REMOTE_FALLBACK", false),
		PriceWarmupCron:    GetEnv("PRICE_WARMUP_SCHEDULE", "0 */30 * * * *"),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings for consistency
func (s *AggregatorSettings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid aggregator settings: %w", err)
	}
	return nil
}

// UpstreamBaseURL is where ESI requests are sent. In core mode requests go through the
// core application's ESI proxy instead of hitting ESI directly.
func (s *AggregatorSettings) UpstreamBaseURL() string {
	if s.AuthMode == AuthModeCore {
		return strings.TrimRight(s.CoreURL, "/") + "/api/app/v1/esi/latest"
	}
	return strings.TrimRight(s.ESIBaseURL, "/")
}
