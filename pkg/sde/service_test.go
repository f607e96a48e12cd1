package sde

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceLoadsJSON(t *testing.T) {
	s := NewService("testdata")
	ctx := context.Background()
	assert.False(t, s.IsLoaded())

	rifter, err := s.TypeByID(ctx, 587)
	require.NoError(t, err)
	assert.Equal(t, "Rifter", rifter.EnglishName())
	assert.Equal(t, int32(25), rifter.GroupID)
	assert.True(t, s.IsLoaded())

	group, err := s.GroupByID(ctx, rifter.GroupID)
	require.NoError(t, err)
	assert.Equal(t, "Frigate", group.EnglishName())

	stats := s.Stats()
	assert.Equal(t, 4, stats.Types)
	assert.Equal(t, 2, stats.Groups)
}

func TestServiceLookups(t *testing.T) {
	s := NewService("testdata")
	ctx := context.Background()

	tests := []struct {
		name    string
		lookup  string
		want    int32
		wantErr bool
	}{
		{"exact", "Minmatar Frigate", 3329, false},
		{"case insensitive", "minmatar frigate", 3329, false},
		{"surrounding space", "  Gunnery ", 3300, false},
		{"unknown", "Titan", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.TypeByName(ctx, tt.lookup)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.TypeID)
		})
	}

	_, err := s.TypeByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GroupByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceMissingDirectory(t *testing.T) {
	s := NewService(t.TempDir())

	_, err := s.TypeByID(context.Background(), 587)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestUpsertMakesEntriesVisible(t *testing.T) {
	s := NewStaticService(nil, nil)
	ctx := context.Background()

	require.NoError(t, s.UpsertType(ctx, &Type{TypeID: 34, GroupID: 18, Name: map[string]string{"en": "Tritanium"}}))
	require.NoError(t, s.UpsertGroup(ctx, &Group{GroupID: 18, Name: map[string]string{"en": "Mineral"}}))

	got, err := s.TypeByName(ctx, "tritanium")
	require.NoError(t, err)
	assert.Equal(t, int32(34), got.TypeID)
	g, err := s.GroupByID(ctx, 18)
	require.NoError(t, err)
	assert.Equal(t, "Mineral", g.EnglishName())
}
