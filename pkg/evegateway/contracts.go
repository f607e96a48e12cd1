package evegateway

import (
	"context"
	"fmt"
	"time"
)

// Contract types
const (
	ContractItemExchange = "item_exchange"
	ContractAuction      = "auction"
	ContractCourier      = "courier"
	ContractLoan         = "loan"
)

type Contract struct {
	ContractID          int64      `json:"contract_id"`
	Type                string     `json:"type"`
	Status              string     `json:"status"`
	Title               string     `json:"title,omitempty"`
	Availability        string     `json:"availability"`
	IssuerID            int32      `json:"issuer_id"`
	IssuerCorporationID int32      `json:"issuer_corporation_id"`
	AssigneeID          int64      `json:"assignee_id"`
	AcceptorID          int64      `json:"acceptor_id"`
	StartLocationID     int64      `json:"start_location_id,omitempty"`
	EndLocationID       int64      `json:"end_location_id,omitempty"`
	Price               float64    `json:"price,omitempty"`
	Reward              float64    `json:"reward,omitempty"`
	Collateral          float64    `json:"collateral,omitempty"`
	Buyout              float64    `json:"buyout,omitempty"`
	Volume              float64    `json:"volume,omitempty"`
	DateIssued          time.Time  `json:"date_issued"`
	DateExpired         time.Time  `json:"date_expired"`
	DateAccepted        *time.Time `json:"date_accepted,omitempty"`
	DateCompleted       *time.Time `json:"date_completed,omitempty"`
	ForCorporation      bool       `json:"for_corporation"`
}

type ContractItem struct {
	RecordID    int64 `json:"record_id"`
	TypeID      int32 `json:"type_id"`
	Quantity    int32 `json:"quantity"`
	IsIncluded  bool  `json:"is_included"`
	IsSingleton bool  `json:"is_singleton"`
}

func (c *Client) GetContracts(ctx context.Context, characterID int32) (*Response[[]Contract], error) {
	return getPaged[Contract](ctx, c, request{
		operation:   "GetContracts",
		path:        characterPath(characterID, "contracts/"),
		characterID: characterID,
		scope:       ScopeReadContracts,
	})
}

func (c *Client) GetContractItems(ctx context.Context, characterID int32, contractID int64) (*Response[[]ContractItem], error) {
	return get[[]ContractItem](ctx, c, request{
		operation:   "GetContractItems",
		path:        characterPath(characterID, fmt.Sprintf("contracts/%d/items/", contractID)),
		characterID: characterID,
		scope:       ScopeReadContracts,
	})
}
