package evegateway

import (
	"context"
	"fmt"
	"time"
)

// CharacterPublic is the public part of a character sheet.
type CharacterPublic struct {
	Name           string    `json:"name"`
	CorporationID  int32     `json:"corporation_id"`
	AllianceID     int32     `json:"alliance_id,omitempty"`
	Birthday       time.Time `json:"birthday"`
	Gender         string    `json:"gender"`
	RaceID         int32     `json:"race_id"`
	BloodlineID    int32     `json:"bloodline_id"`
	AncestryID     int32     `json:"ancestry_id,omitempty"`
	SecurityStatus float64   `json:"security_status,omitempty"`
}

type CorporationHistoryEntry struct {
	CorporationID int32     `json:"corporation_id"`
	RecordID      int32     `json:"record_id"`
	StartDate     time.Time `json:"start_date"`
	IsDeleted     bool      `json:"is_deleted,omitempty"`
}

type CharacterLocation struct {
	SolarSystemID int32 `json:"solar_system_id"`
	StationID     int32 `json:"station_id,omitempty"`
	StructureID   int64 `json:"structure_id,omitempty"`
}

type CharacterShip struct {
	ShipItemID int64  `json:"ship_item_id"`
	ShipName   string `json:"ship_name"`
	ShipTypeID int32  `json:"ship_type_id"`
}

type CloneLocation struct {
	LocationID   int64  `json:"location_id"`
	LocationType string `json:"location_type"`
}

type JumpClone struct {
	JumpCloneID  int32   `json:"jump_clone_id"`
	LocationID   int64   `json:"location_id"`
	LocationType string  `json:"location_type"`
	Implants     []int32 `json:"implants"`
	Name         string  `json:"name,omitempty"`
}

type CharacterClones struct {
	HomeLocation          *CloneLocation `json:"home_location,omitempty"`
	JumpClones            []JumpClone    `json:"jump_clones"`
	LastCloneJumpDate     *time.Time     `json:"last_clone_jump_date,omitempty"`
	LastStationChangeDate *time.Time     `json:"last_station_change_date,omitempty"`
}

type Contact struct {
	ContactID   int64   `json:"contact_id"`
	ContactType string  `json:"contact_type"`
	Standing    float64 `json:"standing"`
	IsBlocked   bool    `json:"is_blocked,omitempty"`
	IsWatched   bool    `json:"is_watched,omitempty"`
}

type Notification struct {
	NotificationID int64     `json:"notification_id"`
	SenderID       int64     `json:"sender_id"`
	SenderType     string    `json:"sender_type"`
	Timestamp      time.Time `json:"timestamp"`
	Type           string    `json:"type"`
	IsRead         bool      `json:"is_read,omitempty"`
	Text           string    `json:"text,omitempty"`
}

func characterPath(characterID int32, suffix string) string {
	return fmt.Sprintf("/characters/%d/%s", characterID, suffix)
}

// GetCharacter fetches the public character sheet.
func (c *Client) GetCharacter(ctx context.Context, characterID int32) (*Response[CharacterPublic], error) {
	return get[CharacterPublic](ctx, c, request{
		operation: "GetCharacter",
		path:      characterPath(characterID, ""),
	})
}

func (c *Client) GetCorporationHistory(ctx context.Context, characterID int32) (*Response[[]CorporationHistoryEntry], error) {
	return get[[]CorporationHistoryEntry](ctx, c, request{
		operation: "GetCorporationHistory",
		path:      characterPath(characterID, "corporationhistory/"),
	})
}

func (c *Client) GetLocation(ctx context.Context, characterID int32) (*Response[CharacterLocation], error) {
	return get[CharacterLocation](ctx, c, request{
		operation:   "GetLocation",
		path:        characterPath(characterID, "location/"),
		characterID: characterID,
		scope:       ScopeReadLocation,
	})
}

func (c *Client) GetShip(ctx context.Context, characterID int32) (*Response[CharacterShip], error) {
	return get[CharacterShip](ctx, c, request{
		operation:   "GetShip",
		path:        characterPath(characterID, "ship/"),
		characterID: characterID,
		scope:       ScopeReadShipType,
	})
}

func (c *Client) GetClones(ctx context.Context, characterID int32) (*Response[CharacterClones], error) {
	return get[CharacterClones](ctx, c, request{
		operation:   "GetClones",
		path:        characterPath(characterID, "clones/"),
		characterID: characterID,
		scope:       ScopeReadClones,
	})
}

func (c *Client) GetImplants(ctx context.Context, characterID int32) (*Response[[]int32], error) {
	return get[[]int32](ctx, c, request{
		operation:   "GetImplants",
		path:        characterPath(characterID, "implants/"),
		characterID: characterID,
		scope:       ScopeReadImplants,
	})
}

func (c *Client) GetContacts(ctx context.Context, characterID int32) (*Response[[]Contact], error) {
	return getPaged[Contact](ctx, c, request{
		operation:   "GetContacts",
		path:        characterPath(characterID, "contacts/"),
		characterID: characterID,
		scope:       ScopeReadContacts,
	})
}

func (c *Client) GetNotifications(ctx context.Context, characterID int32) (*Response[[]Notification], error) {
	return get[[]Notification](ctx, c, request{
		operation:   "GetNotifications",
		path:        characterPath(characterID, "notifications/"),
		characterID: characterID,
		scope:       ScopeReadNotifications,
	})
}
