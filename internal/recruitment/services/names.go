package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-recruiter/internal/recruitment/models"
	"go-recruiter/pkg/evegateway"
	"go-recruiter/pkg/sde"
)

// Domain is the kind of entity an id refers to. Every domain has its own cache key space.
type Domain string

const (
	DomainCharacter     Domain = "character"
	DomainCorporation   Domain = "corporation"
	DomainAlliance      Domain = "alliance"
	DomainSystem        Domain = "system"
	DomainConstellation Domain = "constellation"
	DomainRegion        Domain = "region"
	DomainStation       Domain = "station"
	DomainStructure     Domain = "structure"
	DomainType          Domain = "type"
	DomainGroup         Domain = "group"
	DomainMailingList   Domain = "mailing_list"
	DomainRace          Domain = "race"
	DomainBloodline     Domain = "bloodline"
	DomainAncestry      Domain = "ancestry"
	DomainSystemRegion  Domain = "system_region"
	// DomainEntity is an id of unknown category that only the bulk names endpoint can resolve.
	DomainEntity Domain = "entity"
)

// ErrNameNotFound means the upstream answered but did not know the id.
var ErrNameNotFound = errors.New("name not found")

// Location id ranges of the ESI id space.
const (
	stationIDMin     = 60_000_000
	stationIDMax     = 64_000_000 // exclusive
	assetSafetyID    = 2004
	piStructureIDMin = 40_000_000
	piStructureIDMax = 50_000_000 // exclusive

	AssetSafetyName        = "Asset Safety"
	DeletedPIStructureName = "Deleted PI Structure"
)

func nameKey(d Domain, id int64) string {
	return fmt.Sprintf("name:%s:%d", d, id)
}

// NameResolver turns ids into display names, reading through the Store.
type NameResolver struct {
	esi         *evegateway.Client
	store       Store
	ref         sde.Reader
	remoteTypes bool
	ttl         int
	concurrency int
	now         func() time.Time
}

// ResolverOptions tunes a NameResolver.
type ResolverOptions struct {
	// TTL in minutes for entries without an upstream expiry.
	TTL int
	// RemoteTypes enables the ESI fallback for types and groups missing from the reference data.
	RemoteTypes bool
	Concurrency int
}

func NewNameResolver(esi *evegateway.Client, store Store, ref sde.Reader, opts ResolverOptions) *NameResolver {
	r := &NameResolver{
		esi:         esi,
		store:       store,
		ref:         ref,
		remoteTypes: opts.RemoteTypes,
		ttl:         opts.TTL,
		concurrency: opts.Concurrency,
		now:         time.Now,
	}
	if r.ttl < 1 {
		r.ttl = 3264
	}
	if r.concurrency < 1 {
		r.concurrency = 5
	}
	return r
}

// Resolve returns the name of id in domain. characterID authorises lookups that need
// a character (structures, mailing lists).
func (r *NameResolver) Resolve(ctx context.Context, characterID int32, d Domain, id int64) (string, error) {
	switch d {
	case DomainType:
		t, err := r.typeByID(ctx, int32(id))
		if err != nil {
			return "", err
		}
		return t.EnglishName(), nil
	case DomainGroup:
		g, err := r.groupByID(ctx, int32(id))
		if err != nil {
			return "", err
		}
		return g.EnglishName(), nil
	case DomainSystemRegion:
		return r.RegionForSystem(ctx, int32(id))
	}

	key := nameKey(d, id)
	var name string
	if ok, err := r.store.Get(ctx, key, &name); err != nil {
		slog.WarnContext(ctx, "Name cache read failed", "key", key, "error", err)
	} else if ok {
		return name, nil
	}

	name, err := r.fetch(ctx, characterID, d, id)
	if err != nil {
		return "", err
	}
	r.remember(ctx, key, name, r.ttl)
	return name, nil
}

func (r *NameResolver) remember(ctx context.Context, key, name string, ttlMinutes int) {
	if err := r.store.Add(ctx, key, name, ttlMinutes); err != nil {
		slog.WarnContext(ctx, "Name cache write failed", "key", key, "error", err)
	}
}

func (r *NameResolver) fetch(ctx context.Context, characterID int32, d Domain, id int64) (string, error) {
	switch d {
	case DomainCharacter:
		resp, err := r.esi.GetCharacter(ctx, int32(id))
		if err != nil {
			return "", err
		}
		return resp.Data.Name, nil
	case DomainCorporation:
		resp, err := r.esi.GetCorporation(ctx, id)
		if err != nil {
			return "", err
		}
		return resp.Data.Name, nil
	case DomainAlliance:
		resp, err := r.esi.GetAlliance(ctx, id)
		if err != nil {
			return "", err
		}
		return resp.Data.Name, nil
	case DomainSystem:
		resp, err := r.esi.GetSolarSystem(ctx, int32(id))
		if err != nil {
			return "", err
		}
		return resp.Data.Name, nil
	case DomainConstellation:
		resp, err := r.esi.GetConstellation(ctx, int32(id))
		if err != nil {
			return "", err
		}
		return resp.Data.Name, nil
	case DomainRegion:
		resp, err := r.esi.GetRegion(ctx, int32(id))
		if err != nil {
			return "", err
		}
		return resp.Data.Name, nil
	case DomainStation:
		resp, err := r.esi.GetStation(ctx, id)
		if err != nil {
			return "", err
		}
		return resp.Data.Name, nil
	case DomainStructure:
		resp, err := r.esi.GetStructure(ctx, characterID, id)
		if err != nil {
			return "", err
		}
		return resp.Data.Name, nil
	case DomainMailingList:
		return r.mailingListName(ctx, characterID, id)
	case DomainRace, DomainBloodline, DomainAncestry:
		return r.characterAttributeName(ctx, d, id)
	case DomainEntity:
		names, _, err := r.postNames(ctx, []int64{id})
		if err != nil {
			return "", err
		}
		if name, ok := names[id]; ok {
			return name, nil
		}
		return "", ErrNameNotFound
	default:
		return "", fmt.Errorf("unsupported name domain %q", d)
	}
}

// mailingListName loads every list of the character and caches all of them.
func (r *NameResolver) mailingListName(ctx context.Context, characterID int32, id int64) (string, error) {
	resp, err := r.esi.GetMailingLists(ctx, characterID)
	if err != nil {
		return "", err
	}
	var found string
	for _, l := range resp.Data {
		r.remember(ctx, nameKey(DomainMailingList, l.MailingListID), l.Name, r.ttl)
		if l.MailingListID == id {
			found = l.Name
		}
	}
	if found == "" {
		return "", ErrNameNotFound
	}
	return found, nil
}

// characterAttributeName serves races, bloodlines and ancestries from their list endpoints.
func (r *NameResolver) characterAttributeName(ctx context.Context, d Domain, id int64) (string, error) {
	names := make(map[int64]string)
	switch d {
	case DomainRace:
		resp, err := r.esi.GetRaces(ctx)
		if err != nil {
			return "", err
		}
		for _, v := range resp.Data {
			names[int64(v.RaceID)] = v.Name
		}
	case DomainBloodline:
		resp, err := r.esi.GetBloodlines(ctx)
		if err != nil {
			return "", err
		}
		for _, v := range resp.Data {
			names[int64(v.BloodlineID)] = v.Name
		}
	case DomainAncestry:
		resp, err := r.esi.GetAncestries(ctx)
		if err != nil {
			return "", err
		}
		for _, v := range resp.Data {
			names[int64(v.ID)] = v.Name
		}
	}
	name, ok := names[id]
	if !ok {
		return "", ErrNameNotFound
	}
	return name, nil
}

// RegionForSystem walks system, constellation and region.
func (r *NameResolver) RegionForSystem(ctx context.Context, systemID int32) (string, error) {
	key := nameKey(DomainSystemRegion, int64(systemID))
	var name string
	if ok, _ := r.store.Get(ctx, key, &name); ok {
		return name, nil
	}

	system, err := r.esi.GetSolarSystem(ctx, systemID)
	if err != nil {
		return "", fmt.Errorf("system %d: %w", systemID, err)
	}
	constellation, err := r.esi.GetConstellation(ctx, system.Data.ConstellationID)
	if err != nil {
		return "", fmt.Errorf("constellation %d: %w", system.Data.ConstellationID, err)
	}
	name, err = r.Resolve(ctx, 0, DomainRegion, int64(constellation.Data.RegionID))
	if err != nil {
		return "", fmt.Errorf("region %d: %w", constellation.Data.RegionID, err)
	}
	r.remember(ctx, nameKey(DomainSystem, int64(systemID)), system.Data.Name, r.ttl)
	r.remember(ctx, key, name, r.ttl)
	return name, nil
}

// NameOr resolves id and returns fallback when that fails.
func (r *NameResolver) NameOr(ctx context.Context, characterID int32, d Domain, id int64, fallback string) string {
	if id == 0 {
		return fallback
	}
	name, err := r.Resolve(ctx, characterID, d, id)
	if err != nil {
		slog.DebugContext(ctx, "Name unresolved", "domain", d, "id", id, "error", err)
		return fallback
	}
	return name
}

// LocationName resolves an asset or contract location by its place in the id space.
func (r *NameResolver) LocationName(ctx context.Context, characterID int32, id int64) string {
	switch {
	case id >= stationIDMin && id < stationIDMax:
		return r.NameOr(ctx, characterID, DomainStation, id, models.UnknownLocation)
	case id == assetSafetyID:
		return AssetSafetyName
	case id >= piStructureIDMin && id < piStructureIDMax:
		return DeletedPIStructureName
	default:
		return r.NameOr(ctx, characterID, DomainStructure, id, models.UnknownLocation)
	}
}

// LocationByType resolves clone locations, which come with an explicit type.
// Types other than station and structure have no name.
func (r *NameResolver) LocationByType(ctx context.Context, characterID int32, locationType string, id int64) *string {
	var d Domain
	switch locationType {
	case "station":
		d = DomainStation
	case "structure":
		d = DomainStructure
	default:
		return nil
	}
	name := r.NameOr(ctx, characterID, d, id, models.UnknownLocation)
	return &name
}

// TypeName returns nil when the type cannot be found.
func (r *NameResolver) TypeName(ctx context.Context, typeID int32) *string {
	t, err := r.typeByID(ctx, typeID)
	if err != nil {
		slog.DebugContext(ctx, "Type unresolved", "type_id", typeID, "error", err)
		return nil
	}
	name := t.EnglishName()
	return &name
}

// GroupName returns the name of the group typeID belongs to, or nil.
func (r *NameResolver) GroupName(ctx context.Context, typeID int32) *string {
	t, err := r.typeByID(ctx, typeID)
	if err != nil {
		return nil
	}
	g, err := r.groupByID(ctx, t.GroupID)
	if err != nil {
		slog.DebugContext(ctx, "Group unresolved", "group_id", t.GroupID, "error", err)
		return nil
	}
	name := g.EnglishName()
	return &name
}

// TypeIDByName finds a type by exact name in the reference data, then via ESI.
func (r *NameResolver) TypeIDByName(ctx context.Context, name string) (int32, bool) {
	if t, err := r.ref.TypeByName(ctx, name); err == nil {
		return t.TypeID, true
	}
	resp, err := r.esi.PostIDs(ctx, []string{name})
	if err != nil {
		slog.DebugContext(ctx, "Type name lookup failed", "name", name, "error", err)
		return 0, false
	}
	if len(resp.Data.InventoryTypes) == 0 {
		return 0, false
	}
	return resp.Data.InventoryTypes[0].ID, true
}

func (r *NameResolver) typeByID(ctx context.Context, typeID int32) (*sde.Type, error) {
	t, err := r.ref.TypeByID(ctx, typeID)
	if err == nil || !errors.Is(err, sde.ErrNotFound) || !r.remoteTypes {
		return t, err
	}

	resp, err := r.esi.GetType(ctx, typeID)
	if err != nil {
		return nil, err
	}
	t = &sde.Type{
		TypeID:    typeID,
		GroupID:   resp.Data.GroupID,
		Name:      map[string]string{"en": resp.Data.Name},
		Published: resp.Data.Published,
	}
	if w, ok := r.ref.(sde.Writer); ok {
		if err := w.UpsertType(ctx, t); err != nil {
			slog.WarnContext(ctx, "Failed to persist type", "type_id", typeID, "error", err)
		}
	}
	return t, nil
}

func (r *NameResolver) groupByID(ctx context.Context, groupID int32) (*sde.Group, error) {
	g, err := r.ref.GroupByID(ctx, groupID)
	if err == nil || !errors.Is(err, sde.ErrNotFound) || !r.remoteTypes {
		return g, err
	}

	resp, err := r.esi.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	g = &sde.Group{
		GroupID:    groupID,
		CategoryID: resp.Data.CategoryID,
		Name:       map[string]string{"en": resp.Data.Name},
	}
	if w, ok := r.ref.(sde.Writer); ok {
		if err := w.UpsertGroup(ctx, g); err != nil {
			slog.WarnContext(ctx, "Failed to persist group", "group_id", groupID, "error", err)
		}
	}
	return g, nil
}
