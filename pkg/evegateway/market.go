package evegateway

import (
	"context"
	"time"
)

type MarketOrder struct {
	OrderID      int64     `json:"order_id"`
	TypeID       int32     `json:"type_id"`
	LocationID   int64     `json:"location_id"`
	RegionID     int32     `json:"region_id"`
	Price        float64   `json:"price"`
	VolumeRemain int32     `json:"volume_remain"`
	VolumeTotal  int32     `json:"volume_total"`
	IsBuyOrder   bool      `json:"is_buy_order,omitempty"`
	Issued       time.Time `json:"issued"`
	Duration     int32     `json:"duration"`
	Range        string    `json:"range"`
	Escrow       float64   `json:"escrow,omitempty"`
}

type MarketPrice struct {
	TypeID        int32   `json:"type_id"`
	AveragePrice  float64 `json:"average_price,omitempty"`
	AdjustedPrice float64 `json:"adjusted_price,omitempty"`
}

func (c *Client) GetMarketOrders(ctx context.Context, characterID int32) (*Response[[]MarketOrder], error) {
	return get[[]MarketOrder](ctx, c, request{
		operation:   "GetMarketOrders",
		path:        characterPath(characterID, "orders/"),
		characterID: characterID,
		scope:       ScopeReadMarketOrders,
	})
}

// GetMarketPrices returns the universe wide average and adjusted prices.
func (c *Client) GetMarketPrices(ctx context.Context) (*Response[[]MarketPrice], error) {
	return get[[]MarketPrice](ctx, c, request{
		operation: "GetMarketPrices",
		path:      "/markets/prices/",
	})
}
