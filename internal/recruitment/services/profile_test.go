package services

import (
	"context"
	"testing"
	"time"

	"go-recruiter/internal/recruitment/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerPublicCharacter(f *fixture) {
	f.respond("GET", "/characters/99/", 200, map[string]any{
		"name":            "Pilot",
		"corporation_id":  98000001,
		"alliance_id":     99000001,
		"birthday":        "2015-03-24T11:37:00Z",
		"gender":          "female",
		"race_id":         2,
		"bloodline_id":    4,
		"ancestry_id":     24,
		"security_status": 1.23456789,
	})
	f.respond("GET", "/universe/races/", 200, []map[string]any{{"race_id": 2, "name": "Minmatar"}})
	f.respond("GET", "/universe/bloodlines/", 200, []map[string]any{{"bloodline_id": 4, "name": "Brutor", "race_id": 2}})
	f.respond("GET", "/universe/ancestries/", 200, []map[string]any{})
	f.respond("GET", "/corporations/98000001/", 200, map[string]any{"name": "Acme Corp", "ticker": "ACME"})
	f.respond("GET", "/alliances/99000001/", 200, map[string]any{"name": "Test Alliance", "ticker": "TEST"})
}

func TestProfile(t *testing.T) {
	f := newFixture(t, Options{})
	registerPublicCharacter(f)
	f.respond("GET", "/characters/99/location/", 200, map[string]any{"solar_system_id": 30000142})
	f.respond("GET", "/universe/systems/30000142/", 200, map[string]any{"name": "Jita", "constellation_id": 20000020})
	f.respond("GET", "/universe/constellations/20000020/", 200, map[string]any{"name": "Kimotoro", "region_id": 10000002})
	f.respond("GET", "/universe/regions/10000002/", 200, map[string]any{"name": "The Forge"})
	f.respond("GET", "/characters/99/ship/", 200, map[string]any{"ship_item_id": 1, "ship_name": "Tackle", "ship_type_id": 587})
	f.respond("GET", "/characters/99/skills/", 200, map[string]any{"skills": []any{}, "total_sp": 5000000})

	got, err := f.agg.Profile(context.Background(), characterID)

	require.NoError(t, err)
	assert.Equal(t, "Pilot", got.Name)
	assert.Equal(t, "2015-03-24", got.Birthday)
	assert.Equal(t, "Female", got.Gender)
	assert.Equal(t, 1.2346, got.SecurityStatus)
	assert.Equal(t, "Minmatar", got.Race)
	assert.Equal(t, "Brutor", got.Bloodline)
	assert.Equal(t, models.Unknown, got.Ancestry)
	assert.Equal(t, "Acme Corp", got.Corporation)
	require.NotNil(t, got.Alliance)
	assert.Equal(t, "Test Alliance", *got.Alliance)
	require.NotNil(t, got.Location)
	assert.Equal(t, "In Space (Jita)", *got.Location)
	require.NotNil(t, got.Region)
	assert.Equal(t, "The Forge", *got.Region)
	require.NotNil(t, got.CurrentShip)
	assert.Equal(t, "Tackle (Rifter)", *got.CurrentShip)
	require.NotNil(t, got.TotalSkillpoints)
	assert.Equal(t, "5,000,000", *got.TotalSkillpoints)
}

func TestProfileOptionalPartsDegradeToNil(t *testing.T) {
	f := newFixture(t, Options{})
	registerPublicCharacter(f)
	f.fail("GET", "/characters/99/location/", 403)
	f.fail("GET", "/characters/99/ship/", 403)
	f.fail("GET", "/characters/99/skills/", 403)

	got, err := f.agg.Profile(context.Background(), characterID)

	require.NoError(t, err)
	assert.Nil(t, got.Location)
	assert.Nil(t, got.Region)
	assert.Nil(t, got.CurrentShip)
	assert.Nil(t, got.TotalSkillpoints)
}

func TestProfileRequiresPublicData(t *testing.T) {
	f := newFixture(t, Options{})
	f.fail("GET", "/characters/99/", 404)

	_, err := f.agg.Profile(context.Background(), characterID)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "profile", fe.Domain)
}

func TestProfileReusesCachedSkills(t *testing.T) {
	f := newFixture(t, Options{})
	registerPublicCharacter(f)
	f.fail("GET", "/characters/99/location/", 403)
	f.fail("GET", "/characters/99/ship/", 403)
	f.respond("GET", "/characters/99/skills/", 200, map[string]any{"skills": []any{}, "total_sp": 1234567}, expiresIn(time.Hour))
	ctx := context.Background()

	_, err := f.agg.Skills(ctx, characterID)
	require.NoError(t, err)
	got, err := f.agg.Profile(ctx, characterID)

	require.NoError(t, err)
	require.NotNil(t, got.TotalSkillpoints)
	assert.Equal(t, "1,234,567", *got.TotalSkillpoints)
	assert.Equal(t, 1, f.calls("GET", "/characters/99/skills/"))
}
