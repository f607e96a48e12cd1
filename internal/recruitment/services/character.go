package services

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"go-recruiter/internal/recruitment/models"

	"github.com/goccy/go-yaml"
)

// contactDomains lists the contact types that have names. Factions have none.
var contactDomains = map[string]Domain{
	"character":   DomainCharacter,
	"corporation": DomainCorporation,
	"alliance":    DomainAlliance,
}

// Contacts returns the character's contacts, highest standing first.
func (a *Aggregator) Contacts(ctx context.Context, characterID int32) ([]models.Contact, error) {
	resp, err := a.esi.GetContacts(ctx, characterID)
	if err != nil {
		return nil, fetchError("contacts", err)
	}

	var refs []EntityRef
	for _, c := range resp.Data {
		if d, ok := contactDomains[c.ContactType]; ok {
			refs = append(refs, EntityRef{Domain: d, ID: c.ContactID})
		}
	}
	names := a.names.ResolveBatch(ctx, characterID, refs)

	contacts := make([]models.Contact, 0, len(resp.Data))
	for _, c := range resp.Data {
		contact := models.Contact{Type: c.ContactType, Standing: c.Standing}
		if d, ok := contactDomains[c.ContactType]; ok {
			name := lookup(names, d, c.ContactID, models.Unknown)
			contact.Name = &name
		}
		contacts = append(contacts, contact)
	}
	slices.SortStableFunc(contacts, func(x, y models.Contact) int {
		return cmp.Compare(y.Standing, x.Standing)
	})
	return contacts, nil
}

// Clones returns active implants and jump clones.
func (a *Aggregator) Clones(ctx context.Context, characterID int32) (*models.CloneInfo, error) {
	implants, err := a.esi.GetImplants(ctx, characterID)
	if err != nil {
		return nil, fetchError("clones", err)
	}
	clones, err := a.esi.GetClones(ctx, characterID)
	if err != nil {
		return nil, fetchError("clones", err)
	}

	info := &models.CloneInfo{
		Implants:          a.typeNames(ctx, implants.Data),
		JumpClones:        make([]models.JumpClone, 0, len(clones.Data.JumpClones)),
		LastCloneJumpDate: clones.Data.LastCloneJumpDate,
	}
	if home := clones.Data.HomeLocation; home != nil {
		info.HomeLocation = a.names.LocationByType(ctx, characterID, home.LocationType, home.LocationID)
	}
	for _, jc := range clones.Data.JumpClones {
		info.JumpClones = append(info.JumpClones, models.JumpClone{
			Name:     jc.Name,
			Location: a.names.LocationByType(ctx, characterID, jc.LocationType, jc.LocationID),
			Implants: a.typeNames(ctx, jc.Implants),
		})
	}
	return info, nil
}

func (a *Aggregator) typeNames(ctx context.Context, typeIDs []int32) []string {
	names := make([]string, 0, len(typeIDs))
	for _, id := range typeIDs {
		if n := a.names.TypeName(ctx, id); n != nil {
			names = append(names, *n)
		} else {
			names = append(names, models.Unknown)
		}
	}
	return names
}

// CorporationHistory lists past corporations, most recent first as ESI returns them,
// with the alliance each corporation belongs to today.
func (a *Aggregator) CorporationHistory(ctx context.Context, characterID int32) ([]models.CorporationHistoryEntry, error) {
	resp, err := a.esi.GetCorporationHistory(ctx, characterID)
	if err != nil {
		return nil, fetchError("corporation history", err)
	}

	history := make([]models.CorporationHistoryEntry, 0, len(resp.Data))
	for _, h := range resp.Data {
		entry := models.CorporationHistoryEntry{
			StartDate:   h.StartDate,
			Corporation: models.Unknown,
			IsDeleted:   h.IsDeleted,
		}
		corp, err := a.esi.GetCorporation(ctx, int64(h.CorporationID))
		if err != nil {
			slog.WarnContext(ctx, "Corporation unavailable", "corporation_id", h.CorporationID, "error", err)
		} else {
			entry.Corporation = corp.Data.Name
			a.names.remember(ctx, nameKey(DomainCorporation, int64(h.CorporationID)), corp.Data.Name, a.opts.CacheTime)
			if corp.Data.AllianceID != 0 {
				alliance := a.names.NameOr(ctx, characterID, DomainAlliance, int64(corp.Data.AllianceID), models.Unknown)
				entry.Alliance = &alliance
			}
		}
		history = append(history, entry)
	}
	slices.SortStableFunc(history, func(x, y models.CorporationHistoryEntry) int {
		return y.StartDate.Compare(x.StartDate)
	})
	return history, nil
}

// notificationSenders maps sender types to name domains. Other senders stay unknown.
var notificationSenders = map[string]Domain{
	"character":   DomainCharacter,
	"corporation": DomainCorporation,
	"alliance":    DomainAlliance,
	"faction":     DomainEntity,
}

// Notifications returns notifications newest first.
func (a *Aggregator) Notifications(ctx context.Context, characterID int32) ([]models.Notification, error) {
	resp, err := a.esi.GetNotifications(ctx, characterID)
	if err != nil {
		return nil, fetchError("notifications", err)
	}

	var refs []EntityRef
	for _, n := range resp.Data {
		if d, ok := notificationSenders[n.SenderType]; ok {
			refs = append(refs, EntityRef{Domain: d, ID: n.SenderID})
		}
	}
	names := a.names.ResolveBatch(ctx, characterID, refs)

	notifications := make([]models.Notification, 0, len(resp.Data))
	for _, n := range resp.Data {
		sender := models.Unknown
		if d, ok := notificationSenders[n.SenderType]; ok {
			sender = lookup(names, d, n.SenderID, models.Unknown)
		}
		notifications = append(notifications, models.Notification{
			NotificationID: n.NotificationID,
			Type:           n.Type,
			Sender:         sender,
			Timestamp:      n.Timestamp,
			IsRead:         n.IsRead,
			Text:           n.Text,
			Data:           notificationData(n.Text),
		})
	}
	slices.SortStableFunc(notifications, func(x, y models.Notification) int {
		return y.Timestamp.Compare(x.Timestamp)
	})
	return notifications, nil
}

// notificationData decodes the YAML body ESI sends as notification text.
func notificationData(text string) map[string]any {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var data map[string]any
	if err := yaml.Unmarshal([]byte(text), &data); err != nil {
		return nil
	}
	return data
}
