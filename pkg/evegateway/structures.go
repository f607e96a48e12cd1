package evegateway

import (
	"context"
	"fmt"
)

// Structure is a player owned structure. Reading one needs a character with docking access.
type Structure struct {
	Name          string `json:"name"`
	OwnerID       int32  `json:"owner_id"`
	SolarSystemID int32  `json:"solar_system_id"`
	TypeID        int32  `json:"type_id,omitempty"`
}

func (c *Client) GetStructure(ctx context.Context, characterID int32, structureID int64) (*Response[Structure], error) {
	return get[Structure](ctx, c, request{
		operation:   "GetStructure",
		path:        fmt.Sprintf("/universe/structures/%d/", structureID),
		characterID: characterID,
		scope:       ScopeReadStructures,
	})
}
