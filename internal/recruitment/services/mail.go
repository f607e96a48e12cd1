package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"go-recruiter/internal/recruitment/models"
	"go-recruiter/pkg/evegateway"
	"go-recruiter/pkg/evehtml"

	"golang.org/x/sync/errgroup"
)

func mailBodyKey(mailID int64) string {
	return fmt.Sprintf("mail_body:%d", mailID)
}

// recipientDomains maps ESI recipient types to name domains and display labels.
var recipientDomains = map[string]struct {
	domain Domain
	label  string
}{
	evegateway.RecipientCharacter:   {DomainCharacter, "character"},
	evegateway.RecipientCorporation: {DomainCorporation, "corporation"},
	evegateway.RecipientAlliance:    {DomainAlliance, "alliance"},
	evegateway.RecipientMailingList: {DomainMailingList, "mailing list"},
}

// Mail returns the character's mailbox, newest first, with bodies and every sender and
// recipient resolved. Names are resolved in one bulk request across the whole mailbox.
func (a *Aggregator) Mail(ctx context.Context, characterID int32) ([]models.MailMessage, error) {
	resp, err := a.esi.GetMailHeaders(ctx, characterID)
	if err != nil {
		return nil, fetchError("mail", err)
	}
	headers := resp.Data

	bodies, err := a.mailBodies(ctx, characterID, headers)
	if err != nil {
		return nil, fetchError("mail", err)
	}

	var refs []EntityRef
	for _, h := range headers {
		refs = append(refs, EntityRef{Domain: DomainEntity, ID: h.From})
		for _, r := range h.Recipients {
			if rd, ok := recipientDomains[r.RecipientType]; ok {
				refs = append(refs, EntityRef{Domain: rd.domain, ID: r.RecipientID})
			}
		}
	}
	names := a.names.ResolveBatch(ctx, characterID, refs)

	messages := make([]models.MailMessage, 0, len(headers))
	for i, h := range headers {
		m := models.MailMessage{
			MailID:       h.MailID,
			Subject:      h.Subject,
			Timestamp:    h.Timestamp,
			From:         lookup(names, DomainEntity, h.From, models.UnknownCharacter),
			Recipients:   make([]models.MailRecipient, 0, len(h.Recipients)),
			Body:         bodies[i],
			BodyText:     evehtml.ToPlain(bodies[i]),
			BodyMarkdown: evehtml.ToMarkdown(bodies[i]),
			IsRead:       h.IsRead,
		}
		for _, r := range h.Recipients {
			rd, ok := recipientDomains[r.RecipientType]
			if !ok {
				continue
			}
			m.Recipients = append(m.Recipients, models.MailRecipient{
				Type: rd.label,
				Name: lookup(names, rd.domain, r.RecipientID, models.UnknownRecipient),
			})
		}
		messages = append(messages, m)
	}
	slices.SortStableFunc(messages, func(x, y models.MailMessage) int {
		return y.Timestamp.Compare(x.Timestamp)
	})
	return messages, nil
}

// mailBodies returns bodies in header order. Bodies never change, so they are cached
// with the default TTL.
func (a *Aggregator) mailBodies(ctx context.Context, characterID int32, headers []evegateway.MailHeader) ([]string, error) {
	bodies := make([]string, len(headers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)
	for i, h := range headers {
		g.Go(func() error {
			key := mailBodyKey(h.MailID)
			if ok, _ := a.store.Get(gctx, key, &bodies[i]); ok {
				return nil
			}
			resp, err := a.esi.GetMail(gctx, characterID, h.MailID)
			if err != nil {
				return fmt.Errorf("mail %d: %w", h.MailID, err)
			}
			bodies[i] = resp.Data.Body
			if err := a.store.Add(gctx, key, resp.Data.Body, a.opts.CacheTime); err != nil {
				slog.WarnContext(gctx, "Failed to cache mail body", "mail_id", h.MailID, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bodies, nil
}
