package app

import (
	"testing"

	"go-recruiter/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestNeedsMongoDB(t *testing.T) {
	tests := []struct {
		name      string
		auth      string
		reference string
		want      bool
	}{
		{"core auth with files", config.AuthModeCore, "file", false},
		{"token auth", config.AuthModeToken, "file", true},
		{"mongo reference", config.AuthModeCore, "mongo", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &config.AggregatorSettings{AuthMode: tt.auth, ReferenceBackend: tt.reference}
			assert.Equal(t, tt.want, NeedsMongoDB(s))
		})
	}
}

func TestInitReferenceUsesFiles(t *testing.T) {
	a := &AppContext{Settings: &config.AggregatorSettings{ReferenceBackend: "file", SDEDataDir: t.TempDir()}}

	a.initReference()

	stats, err := a.ReferenceStats(t.Context())
	assert.NoError(t, err)
	assert.Equal(t, "file", stats.Backend)
	assert.Empty(t, a.Indexes)
}

func TestInitESICoreMode(t *testing.T) {
	a := &AppContext{Settings: &config.AggregatorSettings{
		AuthMode:      config.AuthModeCore,
		CoreURL:       "https://core.example.com/",
		CoreAppID:     "7",
		CoreAppSecret: "s3cret",
		Concurrency:   5,
	}}

	a.initESI()

	assert.NotNil(t, a.ESI)
	assert.Empty(t, a.Indexes)
}
