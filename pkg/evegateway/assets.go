package evegateway

import (
	"context"
	"fmt"
	"net/http"
)

// Asset represents an EVE Online asset
type Asset struct {
	ItemID          int64  `json:"item_id"`
	TypeID          int32  `json:"type_id"`
	LocationID      int64  `json:"location_id"`
	LocationFlag    string `json:"location_flag"`
	LocationType    string `json:"location_type"`
	Quantity        int32  `json:"quantity"`
	IsSingleton     bool   `json:"is_singleton"`
	IsBlueprintCopy bool   `json:"is_blueprint_copy,omitempty"`
}

// GetAssets retrieves all pages of a character's assets.
func (c *Client) GetAssets(ctx context.Context, characterID int32) (*Response[[]Asset], error) {
	return getPaged[Asset](ctx, c, request{
		operation:   "GetAssets",
		path:        characterPath(characterID, "assets/"),
		characterID: characterID,
		scope:       ScopeReadAssets,
	})
}

// AssetName is the player given name of a ship or container.
type AssetName struct {
	ItemID int64  `json:"item_id"`
	Name   string `json:"name"`
}

// PostAssetNames looks up custom names for at most MaxNamesPerRequest items.
func (c *Client) PostAssetNames(ctx context.Context, characterID int32, itemIDs []int64) (*Response[[]AssetName], error) {
	if len(itemIDs) > MaxNamesPerRequest {
		return nil, fmt.Errorf("too many item ids for one names request: %d", len(itemIDs))
	}
	return get[[]AssetName](ctx, c, request{
		operation:   "PostAssetNames",
		method:      http.MethodPost,
		path:        characterPath(characterID, "assets/names/"),
		body:        itemIDs,
		characterID: characterID,
		scope:       ScopeReadAssets,
	})
}
