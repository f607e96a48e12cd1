package services

import (
	"context"
	"testing"

	"go-recruiter/internal/recruitment/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContacts(t *testing.T) {
	f := newFixture(t, Options{})
	f.respond("GET", "/characters/99/contacts/", 200, []map[string]any{
		{"contact_id": 90000001, "contact_type": "character", "standing": 5},
		{"contact_id": 500001, "contact_type": "faction", "standing": -10},
		{"contact_id": 98000001, "contact_type": "corporation", "standing": 10},
	})
	f.respond("POST", "/universe/names/", 200, []map[string]any{
		{"id": 90000001, "name": "Alice", "category": "character"},
		{"id": 98000001, "name": "Acme Corp", "category": "corporation"},
	})

	got, err := f.agg.Contacts(context.Background(), characterID)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []float64{10, 5, -10}, []float64{got[0].Standing, got[1].Standing, got[2].Standing})
	require.NotNil(t, got[0].Name)
	assert.Equal(t, "Acme Corp", *got[0].Name)
	assert.Nil(t, got[2].Name, "factions have no name")
}

func TestClones(t *testing.T) {
	f := newFixture(t, Options{})
	f.respond("GET", "/characters/99/implants/", 200, []int32{3300, 424242})
	f.respond("GET", "/characters/99/clones/", 200, map[string]any{
		"home_location": map[string]any{"location_id": 60003760, "location_type": "station"},
		"jump_clones": []map[string]any{
			{"jump_clone_id": 1, "location_id": 1022734985679, "location_type": "structure", "implants": []int32{}},
		},
	})
	f.respond("GET", "/universe/stations/60003760/", 200, map[string]any{"name": "Jita IV - Moon 4"})
	f.fail("GET", "/universe/structures/1022734985679/", 403)

	got, err := f.agg.Clones(context.Background(), characterID)

	require.NoError(t, err)
	assert.Equal(t, []string{"Gunnery", models.Unknown}, got.Implants)
	require.NotNil(t, got.HomeLocation)
	assert.Equal(t, "Jita IV - Moon 4", *got.HomeLocation)
	require.Len(t, got.JumpClones, 1)
	require.NotNil(t, got.JumpClones[0].Location)
	assert.Equal(t, models.UnknownLocation, *got.JumpClones[0].Location)
}

func TestClonesRequireBothEndpoints(t *testing.T) {
	f := newFixture(t, Options{})
	f.respond("GET", "/characters/99/implants/", 200, []int32{})
	f.fail("GET", "/characters/99/clones/", 403)

	_, err := f.agg.Clones(context.Background(), characterID)

	var fe *FetchError
	assert.ErrorAs(t, err, &fe)
}

func TestCorporationHistory(t *testing.T) {
	f := newFixture(t, Options{})
	f.respond("GET", "/characters/99/corporationhistory/", 200, []map[string]any{
		{"corporation_id": 1000167, "record_id": 1, "start_date": "2015-03-24T11:37:00Z"},
		{"corporation_id": 98000001, "record_id": 2, "start_date": "2020-01-01T00:00:00Z"},
	})
	f.respond("GET", "/corporations/1000167/", 200, map[string]any{"name": "State War Academy", "ticker": "SWA"})
	f.respond("GET", "/corporations/98000001/", 200, map[string]any{"name": "Acme Corp", "ticker": "ACME", "alliance_id": 99000001})
	f.respond("GET", "/alliances/99000001/", 200, map[string]any{"name": "Test Alliance"})
	ctx := context.Background()

	got, err := f.agg.CorporationHistory(ctx, characterID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Acme Corp", got[0].Corporation)
	require.NotNil(t, got[0].Alliance)
	assert.Equal(t, "Test Alliance", *got[0].Alliance)
	assert.Equal(t, "State War Academy", got[1].Corporation)
	assert.Nil(t, got[1].Alliance)

	name, err := f.agg.Names().Resolve(ctx, characterID, DomainCorporation, 98000001)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", name)
	assert.Equal(t, 1, f.calls("GET", "/corporations/98000001/"), "corporation names are remembered")
}

func TestNotifications(t *testing.T) {
	f := newFixture(t, Options{})
	f.respond("GET", "/characters/99/notifications/", 200, []map[string]any{
		{"notification_id": 1, "sender_id": 98000001, "sender_type": "corporation", "timestamp": "2025-05-01T10:00:00Z", "type": "CorpAppNewMsg",
			"text": "applicationText: Hello there\ncharID: 90000001\ncorpID: 98000001\n"},
		{"notification_id": 2, "sender_id": 1000125, "sender_type": "other", "timestamp": "2025-05-02T10:00:00Z", "type": "SkillFinished"},
	})
	f.respond("POST", "/universe/names/", 200, []map[string]any{
		{"id": 98000001, "name": "Acme Corp", "category": "corporation"},
	})

	got, err := f.agg.Notifications(context.Background(), characterID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].NotificationID)
	assert.Equal(t, models.Unknown, got[0].Sender)
	assert.Equal(t, "Acme Corp", got[1].Sender)
	assert.Equal(t, "Hello there", got[1].Data["applicationText"])
	assert.Nil(t, got[0].Data)
}

func TestNotificationData(t *testing.T) {
	assert.Nil(t, notificationData(""))
	assert.Nil(t, notificationData("just: [broken"))
	assert.Equal(t, "Jita", notificationData("solarSystemName: Jita\n")["solarSystemName"])
}
