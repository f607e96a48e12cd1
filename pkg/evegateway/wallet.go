package evegateway

import (
	"context"
	"time"
)

type WalletJournalEntry struct {
	ID            int64     `json:"id"`
	Date          time.Time `json:"date"`
	RefType       string    `json:"ref_type"`
	Description   string    `json:"description"`
	Amount        *float64  `json:"amount,omitempty"`
	Balance       *float64  `json:"balance,omitempty"`
	FirstPartyID  int64     `json:"first_party_id,omitempty"`
	SecondPartyID int64     `json:"second_party_id,omitempty"`
	Reason        string    `json:"reason,omitempty"`
}

type WalletTransaction struct {
	TransactionID int64     `json:"transaction_id"`
	Date          time.Time `json:"date"`
	TypeID        int32     `json:"type_id"`
	Quantity      int32     `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	ClientID      int64     `json:"client_id"`
	LocationID    int64     `json:"location_id"`
	IsBuy         bool      `json:"is_buy"`
	IsPersonal    bool      `json:"is_personal"`
}

func (c *Client) GetWalletBalance(ctx context.Context, characterID int32) (*Response[float64], error) {
	return get[float64](ctx, c, request{
		operation:   "GetWalletBalance",
		path:        characterPath(characterID, "wallet/"),
		characterID: characterID,
		scope:       ScopeReadWallet,
	})
}

func (c *Client) GetWalletJournal(ctx context.Context, characterID int32) (*Response[[]WalletJournalEntry], error) {
	return getPaged[WalletJournalEntry](ctx, c, request{
		operation:   "GetWalletJournal",
		path:        characterPath(characterID, "wallet/journal/"),
		characterID: characterID,
		scope:       ScopeReadWallet,
	})
}

func (c *Client) GetWalletTransactions(ctx context.Context, characterID int32) (*Response[[]WalletTransaction], error) {
	return get[[]WalletTransaction](ctx, c, request{
		operation:   "GetWalletTransactions",
		path:        characterPath(characterID, "wallet/transactions/"),
		characterID: characterID,
		scope:       ScopeReadWallet,
	})
}
