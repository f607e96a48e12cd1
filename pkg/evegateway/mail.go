package evegateway

import (
	"context"
	"fmt"
	"time"
)

// Mail recipient types
const (
	RecipientCharacter   = "character"
	RecipientCorporation = "corporation"
	RecipientAlliance    = "alliance"
	RecipientMailingList = "mailing_list"
)

type MailRecipient struct {
	RecipientID   int64  `json:"recipient_id"`
	RecipientType string `json:"recipient_type"`
}

type MailHeader struct {
	MailID     int64           `json:"mail_id"`
	From       int64           `json:"from"`
	Subject    string          `json:"subject"`
	Timestamp  time.Time       `json:"timestamp"`
	IsRead     bool            `json:"is_read,omitempty"`
	Labels     []int32         `json:"labels,omitempty"`
	Recipients []MailRecipient `json:"recipients"`
}

type MailBody struct {
	Body       string          `json:"body"`
	From       int64           `json:"from"`
	Subject    string          `json:"subject"`
	Timestamp  time.Time       `json:"timestamp"`
	Recipients []MailRecipient `json:"recipients"`
}

type MailingList struct {
	MailingListID int64  `json:"mailing_list_id"`
	Name          string `json:"name"`
}

// GetMailHeaders returns the most recent mail headers.
func (c *Client) GetMailHeaders(ctx context.Context, characterID int32) (*Response[[]MailHeader], error) {
	return get[[]MailHeader](ctx, c, request{
		operation:   "GetMailHeaders",
		path:        characterPath(characterID, "mail/"),
		characterID: characterID,
		scope:       ScopeReadMail,
	})
}

func (c *Client) GetMail(ctx context.Context, characterID int32, mailID int64) (*Response[MailBody], error) {
	return get[MailBody](ctx, c, request{
		operation:   "GetMail",
		path:        characterPath(characterID, fmt.Sprintf("mail/%d/", mailID)),
		characterID: characterID,
		scope:       ScopeReadMail,
	})
}

func (c *Client) GetMailingLists(ctx context.Context, characterID int32) (*Response[[]MailingList], error) {
	return get[[]MailingList](ctx, c, request{
		operation:   "GetMailingLists",
		path:        characterPath(characterID, "mail/lists/"),
		characterID: characterID,
		scope:       ScopeReadMail,
	})
}
