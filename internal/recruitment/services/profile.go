package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"go-recruiter/internal/recruitment/models"
	"go-recruiter/pkg/evegateway"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

func publicDataKey(characterID int32) string {
	return fmt.Sprintf("public_data:%d", characterID)
}

func (a *Aggregator) publicData(ctx context.Context, characterID int32) (*evegateway.CharacterPublic, error) {
	key := publicDataKey(characterID)
	var data evegateway.CharacterPublic
	if ok, _ := a.store.Get(ctx, key, &data); ok {
		return &data, nil
	}
	resp, err := a.esi.GetCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if err := a.store.Add(ctx, key, resp.Data, a.opts.CacheTime); err != nil {
		slog.WarnContext(ctx, "Failed to cache public data", "character_id", characterID, "error", err)
	}
	return &resp.Data, nil
}

// Profile builds the character overview. Only the public character data is required,
// ship, location, region and skillpoints are left nil when they cannot be loaded.
func (a *Aggregator) Profile(ctx context.Context, characterID int32) (*models.CharacterProfile, error) {
	pub, err := a.publicData(ctx, characterID)
	if err != nil {
		return nil, fetchError("profile", err)
	}

	p := &models.CharacterProfile{
		CharacterID:    characterID,
		Name:           pub.Name,
		Birthday:       pub.Birthday.Format("2006-01-02"),
		Gender:         capitalize(pub.Gender),
		SecurityStatus: math.Round(pub.SecurityStatus*10000) / 10000,
	}

	var g errgroup.Group
	g.SetLimit(a.opts.Concurrency)
	g.Go(func() error {
		p.Race = a.names.NameOr(ctx, characterID, DomainRace, int64(pub.RaceID), models.Unknown)
		p.Bloodline = a.names.NameOr(ctx, characterID, DomainBloodline, int64(pub.BloodlineID), models.Unknown)
		p.Ancestry = a.names.NameOr(ctx, characterID, DomainAncestry, int64(pub.AncestryID), models.Unknown)
		return nil
	})
	g.Go(func() error {
		p.Corporation = a.names.NameOr(ctx, characterID, DomainCorporation, int64(pub.CorporationID), models.Unknown)
		if pub.AllianceID != 0 {
			alliance := a.names.NameOr(ctx, characterID, DomainAlliance, int64(pub.AllianceID), models.Unknown)
			p.Alliance = &alliance
		}
		return nil
	})
	g.Go(func() error {
		p.Location, p.Region = a.currentLocation(ctx, characterID)
		return nil
	})
	g.Go(func() error {
		p.CurrentShip = a.currentShip(ctx, characterID)
		return nil
	})
	g.Go(func() error {
		skills, err := a.Skills(ctx, characterID)
		if err != nil {
			slog.WarnContext(ctx, "Skillpoints unavailable", "character_id", characterID, "error", err)
			return nil
		}
		sp := humanize.Comma(skills.TotalSP)
		p.TotalSkillpoints = &sp
		return nil
	})
	_ = g.Wait()

	return p, nil
}

func (a *Aggregator) currentLocation(ctx context.Context, characterID int32) (location, region *string) {
	resp, err := a.esi.GetLocation(ctx, characterID)
	if err != nil {
		slog.WarnContext(ctx, "Location unavailable", "character_id", characterID, "error", err)
		return nil, nil
	}
	loc := resp.Data

	var name string
	switch {
	case loc.StructureID != 0:
		name, err = a.names.Resolve(ctx, characterID, DomainStructure, loc.StructureID)
	case loc.StationID != 0:
		name, err = a.names.Resolve(ctx, characterID, DomainStation, int64(loc.StationID))
	default:
		var system string
		system, err = a.names.Resolve(ctx, characterID, DomainSystem, int64(loc.SolarSystemID))
		name = "In Space (" + system + ")"
	}
	if err != nil {
		slog.WarnContext(ctx, "Location name unavailable", "character_id", characterID, "error", err)
	} else {
		location = &name
	}

	if r, err := a.names.RegionForSystem(ctx, loc.SolarSystemID); err != nil {
		slog.WarnContext(ctx, "Region unavailable", "system_id", loc.SolarSystemID, "error", err)
	} else {
		region = &r
	}
	return location, region
}

func (a *Aggregator) currentShip(ctx context.Context, characterID int32) *string {
	resp, err := a.esi.GetShip(ctx, characterID)
	if err != nil {
		slog.WarnContext(ctx, "Ship unavailable", "character_id", characterID, "error", err)
		return nil
	}
	typeName := models.Unknown
	if n := a.names.TypeName(ctx, resp.Data.ShipTypeID); n != nil {
		typeName = *n
	}
	ship := fmt.Sprintf("%s (%s)", resp.Data.ShipName, typeName)
	return &ship
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
