package services

import (
	"net/http"
	"testing"
	"time"

	"go-recruiter/pkg/evegateway"
	"go-recruiter/pkg/sde"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

const (
	esiURL      = "https://esi.test/latest"
	characterID = int32(99)
)

var allScopes = []string{
	evegateway.ScopeReadLocation,
	evegateway.ScopeReadShipType,
	evegateway.ScopeReadClones,
	evegateway.ScopeReadImplants,
	evegateway.ScopeReadSkills,
	evegateway.ScopeReadSkillQueue,
	evegateway.ScopeReadAssets,
	evegateway.ScopeReadMail,
	evegateway.ScopeReadContacts,
	evegateway.ScopeReadContracts,
	evegateway.ScopeReadWallet,
	evegateway.ScopeReadMarketOrders,
	evegateway.ScopeReadNotifications,
	evegateway.ScopeReadStructures,
}

type fixture struct {
	agg   *Aggregator
	mt    *httpmock.MockTransport
	store *MemoryStore
	clock time.Time
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "CHARACTER:EVE:99",
		"scp": allScopes,
	})
	signed, err := token.SignedString([]byte("test"))
	require.NoError(t, err)

	mt := httpmock.NewMockTransport()
	esi := evegateway.NewClient(evegateway.Options{
		BaseURL:    esiURL,
		UserAgent:  "go-recruiter-test",
		HTTPClient: &http.Client{Transport: mt},
		Authorizer: evegateway.NewTokenAuthorizer(evegateway.StaticTokenStore{
			characterID: {CharacterID: characterID, AccessToken: signed},
		}),
		DisableCache: true,
		BackoffUnit:  time.Millisecond,
	})

	f := &fixture{mt: mt, store: NewMemoryStore(), clock: time.Now()}
	f.store.now = func() time.Time { return f.clock }
	f.agg = NewAggregator(esi, f.store, testReference(), opts)
	return f
}

func testReference() *sde.Service {
	en := func(s string) map[string]string { return map[string]string{"en": s} }
	return sde.NewStaticService(
		[]*sde.Type{
			{TypeID: 34, GroupID: 18, Name: en("Tritanium"), Published: true},
			{TypeID: 35, GroupID: 18, Name: en("Pyerite"), Published: true},
			{TypeID: 587, GroupID: 25, Name: en("Rifter"), Published: true},
			{TypeID: 3300, GroupID: 255, Name: en("Gunnery"), Published: true},
			{TypeID: 3327, GroupID: 257, Name: en("Spaceship Command"), Published: true},
			{TypeID: 3329, GroupID: 257, Name: en("Minmatar Frigate"), Published: true},
		},
		[]*sde.Group{
			{GroupID: 18, CategoryID: 4, Name: en("Mineral"), Published: true},
			{GroupID: 25, CategoryID: 6, Name: en("Frigate"), Published: true},
			{GroupID: 255, CategoryID: 16, Name: en("Gunnery"), Published: true},
			{GroupID: 257, CategoryID: 16, Name: en("Spaceship Command"), Published: true},
		},
	)
}

// respond registers a JSON responder for an ESI path.
func (f *fixture) respond(method, path string, status int, body any, headers ...http.Header) {
	r := httpmock.NewJsonResponderOrPanic(status, body)
	for _, h := range headers {
		r = r.HeaderSet(h)
	}
	f.mt.RegisterResponder(method, esiURL+path, r)
}

func (f *fixture) fail(method, path string, status int) {
	f.mt.RegisterResponder(method, esiURL+path, httpmock.NewStringResponder(status, `{"error":"test"}`))
}

func (f *fixture) calls(method, path string) int {
	return f.mt.GetCallCountInfo()[method+" "+esiURL+path]
}

func expiresIn(d time.Duration) http.Header {
	return http.Header{"Expires": []string{time.Now().Add(d).UTC().Format(http.TimeFormat)}}
}
