package services

import (
	"context"
	"testing"

	"go-recruiter/internal/recruitment/models"
	"go-recruiter/pkg/evegateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallet(t *testing.T) {
	f := newFixture(t, Options{})
	f.respond("GET", "/characters/99/wallet/", 200, 1234567.891)
	f.respond("GET", "/characters/99/wallet/journal/", 200, []map[string]any{
		{"id": 1, "date": "2025-05-01T10:00:00Z", "ref_type": "player_donation", "description": "x", "amount": 100, "first_party_id": 90000001, "second_party_id": 99},
		{"id": 2, "date": "2025-05-03T10:00:00Z", "ref_type": "market_escrow", "description": "y", "amount": -5},
	})
	f.respond("GET", "/characters/99/wallet/transactions/", 200, []map[string]any{
		{"transaction_id": 7, "date": "2025-05-02T10:00:00Z", "type_id": 34, "quantity": 100, "unit_price": 5, "client_id": 90000001, "location_id": 2004, "is_buy": true},
	})
	f.respond("POST", "/universe/names/", 200, []map[string]any{
		{"id": 90000001, "name": "Alice", "category": "character"},
		{"id": 99, "name": "Pilot", "category": "character"},
	})

	got, err := f.agg.Wallet(context.Background(), characterID)

	require.NoError(t, err)
	assert.Equal(t, "1,234,567.89 ISK", got.BalanceFormatted)
	require.Len(t, got.Journal, 2)
	assert.Equal(t, int64(2), got.Journal[0].ID)
	assert.Empty(t, got.Journal[0].FirstParty)
	assert.Equal(t, "Alice", got.Journal[1].FirstParty)
	assert.Equal(t, "Pilot", got.Journal[1].SecondParty)
	require.Len(t, got.Transactions, 1)
	tx := got.Transactions[0]
	assert.Equal(t, "Alice", tx.Client)
	assert.Equal(t, AssetSafetyName, tx.Location)
	require.NotNil(t, tx.TypeName)
	assert.Equal(t, "Tritanium", *tx.TypeName)
}

func TestWalletFailsWhenAnyPartFails(t *testing.T) {
	f := newFixture(t, Options{})
	f.respond("GET", "/characters/99/wallet/", 200, 10.0)
	f.respond("GET", "/characters/99/wallet/journal/", 200, []map[string]any{})
	f.fail("GET", "/characters/99/wallet/transactions/", 403)

	_, err := f.agg.Wallet(context.Background(), characterID)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "wallet", fe.Domain)
	_, ok := evegateway.AsScopeError(err)
	assert.True(t, ok)
}

func TestMarketOrders(t *testing.T) {
	f := newFixture(t, Options{})
	f.respond("GET", "/characters/99/orders/", 200, []map[string]any{
		{"order_id": 1, "type_id": 587, "location_id": 60003760, "region_id": 10000002, "price": 500000, "volume_remain": 1, "volume_total": 2, "issued": "2025-05-01T10:00:00Z", "duration": 90, "range": "region"},
		{"order_id": 2, "type_id": 34, "location_id": 60003760, "region_id": 10000043, "price": 5, "volume_remain": 10, "volume_total": 10, "issued": "2025-05-02T10:00:00Z", "duration": 90, "range": "station", "is_buy_order": true},
	})
	f.respond("GET", "/universe/stations/60003760/", 200, map[string]any{"name": "Jita IV - Moon 4"})
	f.respond("GET", "/universe/regions/10000002/", 200, map[string]any{"name": "The Forge"})
	f.fail("GET", "/universe/regions/10000043/", 404)

	got, err := f.agg.MarketOrders(context.Background(), characterID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].OrderID)
	assert.Equal(t, models.Unknown, got[0].Region)
	assert.Equal(t, "The Forge", got[1].Region)
	assert.Equal(t, "Jita IV - Moon 4", got[1].Location)
	assert.Equal(t, 1, f.calls("GET", "/universe/stations/60003760/"))
}

func TestSetContractAmounts(t *testing.T) {
	raw := evegateway.Contract{Price: 1, Reward: 2, Collateral: 3, Buyout: 4}
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		contractType string
		want         models.Contract
	}{
		{evegateway.ContractItemExchange, models.Contract{Price: f(1)}},
		{evegateway.ContractAuction, models.Contract{Price: f(1), Buyout: f(4)}},
		{evegateway.ContractCourier, models.Contract{Reward: f(2), Collateral: f(3)}},
		{evegateway.ContractLoan, models.Contract{Price: f(1), Collateral: f(3)}},
		{"unknown", models.Contract{}},
	}
	for _, tt := range tests {
		t.Run(tt.contractType, func(t *testing.T) {
			c := raw
			c.Type = tt.contractType
			var got models.Contract
			setContractAmounts(&got, c)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContracts(t *testing.T) {
	f := newFixture(t, Options{})
	f.respond("GET", "/characters/99/contracts/", 200, []map[string]any{
		{"contract_id": 1, "type": "item_exchange", "status": "outstanding", "issuer_id": 90000001, "assignee_id": 0, "acceptor_id": 0, "start_location_id": 60003760, "price": 2000, "date_issued": "2025-05-01T10:00:00Z", "date_expired": "2025-05-15T10:00:00Z"},
		{"contract_id": 2, "type": "courier", "status": "in_progress", "issuer_id": 90000009, "assignee_id": 98000001, "acceptor_id": 90000001, "start_location_id": 60003760, "end_location_id": 2004, "reward": 1e6, "collateral": 5e7, "date_issued": "2025-05-03T10:00:00Z", "date_expired": "2025-05-15T10:00:00Z"},
	})
	f.respond("GET", "/characters/99/contracts/1/items/", 200, []map[string]any{
		{"record_id": 1, "type_id": 587, "quantity": 1, "is_included": true},
		{"record_id": 2, "type_id": 34, "quantity": 100, "is_included": false},
	})
	f.fail("GET", "/characters/99/contracts/2/items/", 404)
	f.respond("GET", "/markets/prices/", 200, []map[string]any{
		{"type_id": 34, "average_price": 5},
		{"type_id": 587, "average_price": 1000},
	})
	f.respond("POST", "/universe/names/", 200, []map[string]any{
		{"id": 90000001, "name": "Alice", "category": "character"},
		{"id": 98000001, "name": "Acme Corp", "category": "corporation"},
	})
	f.fail("GET", "/characters/90000009/", 404)
	f.respond("GET", "/universe/stations/60003760/", 200, map[string]any{"name": "Jita IV - Moon 4"})

	got, err := f.agg.Contracts(context.Background(), characterID)

	require.NoError(t, err)
	require.Len(t, got, 2)

	courier := got[0]
	assert.Equal(t, int64(2), courier.ContractID)
	assert.Equal(t, models.UnknownCharacter, courier.Issuer)
	assert.Equal(t, "Acme Corp", courier.Assignee)
	assert.Equal(t, "Alice", courier.Acceptor)
	assert.Equal(t, AssetSafetyName, courier.EndLocation)
	assert.Empty(t, courier.Items, "items degrade to empty")
	assert.Nil(t, courier.Price)

	exchange := got[1]
	assert.Equal(t, "Alice", exchange.Issuer)
	assert.Empty(t, exchange.Assignee)
	assert.Equal(t, "Jita IV - Moon 4", exchange.StartLocation)
	require.Len(t, exchange.Items, 2)
	assert.Equal(t, 1000.0, exchange.ItemsValue, "only included items count")
}
