package evegateway

import (
	"context"
	"fmt"
	"net/http"
)

type Race struct {
	RaceID int32  `json:"race_id"`
	Name   string `json:"name"`
}

type Ancestry struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	BloodlineID int32  `json:"bloodline_id"`
}

type Bloodline struct {
	BloodlineID int32  `json:"bloodline_id"`
	Name        string `json:"name"`
	RaceID      int32  `json:"race_id"`
}

type SolarSystem struct {
	SystemID        int32   `json:"system_id"`
	Name            string  `json:"name"`
	ConstellationID int32   `json:"constellation_id"`
	SecurityStatus  float64 `json:"security_status"`
}

type Constellation struct {
	ConstellationID int32  `json:"constellation_id"`
	Name            string `json:"name"`
	RegionID        int32  `json:"region_id"`
}

type Region struct {
	RegionID int32  `json:"region_id"`
	Name     string `json:"name"`
}

type Station struct {
	StationID int32  `json:"station_id"`
	Name      string `json:"name"`
	SystemID  int32  `json:"system_id"`
	TypeID    int32  `json:"type_id"`
}

type DogmaAttribute struct {
	AttributeID int32   `json:"attribute_id"`
	Value       float64 `json:"value"`
}

type ItemType struct {
	TypeID          int32            `json:"type_id"`
	Name            string           `json:"name"`
	GroupID         int32            `json:"group_id"`
	Published       bool             `json:"published"`
	DogmaAttributes []DogmaAttribute `json:"dogma_attributes,omitempty"`
}

type ItemGroup struct {
	GroupID    int32  `json:"group_id"`
	Name       string `json:"name"`
	CategoryID int32  `json:"category_id"`
}

type Alliance struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

type Corporation struct {
	Name       string `json:"name"`
	Ticker     string `json:"ticker"`
	AllianceID int32  `json:"alliance_id,omitempty"`
}

// UniverseName is one entry of a bulk id to name lookup.
type UniverseName struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// UniverseIDs is the answer of a bulk name to id lookup. Only the categories used
// here are decoded.
type UniverseIDs struct {
	InventoryTypes []struct {
		ID   int32  `json:"id"`
		Name string `json:"name"`
	} `json:"inventory_types,omitempty"`
}

// MaxNamesPerRequest is the bulk lookup limit of /universe/names/.
const MaxNamesPerRequest = 1000

func (c *Client) GetRaces(ctx context.Context) (*Response[[]Race], error) {
	return get[[]Race](ctx, c, request{operation: "GetRaces", path: "/universe/races/"})
}

func (c *Client) GetAncestries(ctx context.Context) (*Response[[]Ancestry], error) {
	return get[[]Ancestry](ctx, c, request{operation: "GetAncestries", path: "/universe/ancestries/"})
}

func (c *Client) GetBloodlines(ctx context.Context) (*Response[[]Bloodline], error) {
	return get[[]Bloodline](ctx, c, request{operation: "GetBloodlines", path: "/universe/bloodlines/"})
}

func (c *Client) GetSolarSystem(ctx context.Context, systemID int32) (*Response[SolarSystem], error) {
	return get[SolarSystem](ctx, c, request{
		operation: "GetSolarSystem",
		path:      fmt.Sprintf("/universe/systems/%d/", systemID),
	})
}

func (c *Client) GetConstellation(ctx context.Context, constellationID int32) (*Response[Constellation], error) {
	return get[Constellation](ctx, c, request{
		operation: "GetConstellation",
		path:      fmt.Sprintf("/universe/constellations/%d/", constellationID),
	})
}

func (c *Client) GetRegion(ctx context.Context, regionID int32) (*Response[Region], error) {
	return get[Region](ctx, c, request{
		operation: "GetRegion",
		path:      fmt.Sprintf("/universe/regions/%d/", regionID),
	})
}

func (c *Client) GetStation(ctx context.Context, stationID int64) (*Response[Station], error) {
	return get[Station](ctx, c, request{
		operation: "GetStation",
		path:      fmt.Sprintf("/universe/stations/%d/", stationID),
	})
}

// GetType includes the dogma attributes used for skill requirement checks.
func (c *Client) GetType(ctx context.Context, typeID int32) (*Response[ItemType], error) {
	return get[ItemType](ctx, c, request{
		operation: "GetType",
		path:      fmt.Sprintf("/universe/types/%d/", typeID),
	})
}

func (c *Client) GetGroup(ctx context.Context, groupID int32) (*Response[ItemGroup], error) {
	return get[ItemGroup](ctx, c, request{
		operation: "GetGroup",
		path:      fmt.Sprintf("/universe/groups/%d/", groupID),
	})
}

func (c *Client) GetAlliance(ctx context.Context, allianceID int64) (*Response[Alliance], error) {
	return get[Alliance](ctx, c, request{
		operation: "GetAlliance",
		path:      fmt.Sprintf("/alliances/%d/", allianceID),
	})
}

func (c *Client) GetCorporation(ctx context.Context, corporationID int64) (*Response[Corporation], error) {
	return get[Corporation](ctx, c, request{
		operation: "GetCorporation",
		path:      fmt.Sprintf("/corporations/%d/", corporationID),
	})
}

// PostNames resolves up to MaxNamesPerRequest ids in one call. ESI fails the whole
// request when any id is unknown.
func (c *Client) PostNames(ctx context.Context, ids []int64) (*Response[[]UniverseName], error) {
	if len(ids) > MaxNamesPerRequest {
		return nil, fmt.Errorf("too many ids for one names request: %d", len(ids))
	}
	return get[[]UniverseName](ctx, c, request{
		operation: "PostNames",
		method:    http.MethodPost,
		path:      "/universe/names/",
		body:      ids,
	})
}

// PostIDs resolves exact names to ids.
func (c *Client) PostIDs(ctx context.Context, names []string) (*Response[UniverseIDs], error) {
	return get[UniverseIDs](ctx, c, request{
		operation: "PostIDs",
		method:    http.MethodPost,
		path:      "/universe/ids/",
		body:      names,
	})
}
