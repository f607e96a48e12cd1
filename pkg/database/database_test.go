package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDatabaseName(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		env  string
		want string
	}{
		{"path in uri", "mongodb://localhost:27017/recruitment?authSource=admin", "", "recruitment"},
		{"no path", "mongodb://localhost:27017", "", "fallback"},
		{"env wins", "mongodb://localhost:27017/recruitment", "override", "override"},
		{"invalid uri", "not a uri", "", "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MONGODB_DATABASE", tt.env)
			assert.Equal(t, tt.want, extractDatabaseName(tt.uri, "fallback"))
		})
	}
}
