package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"go-recruiter/internal/recruitment/models"
	"go-recruiter/pkg/evegateway"
)

func skillsKey(characterID int32) string {
	return fmt.Sprintf("skills:%d", characterID)
}

// Skills returns the character's skills grouped by skill group. The result is cached
// for as long as ESI says the skill list stays valid.
func (a *Aggregator) Skills(ctx context.Context, characterID int32) (*models.SkillSet, error) {
	key := skillsKey(characterID)
	var cached models.SkillSet
	if ok, err := a.store.Get(ctx, key, &cached); err == nil && ok {
		return &cached, nil
	}

	resp, err := a.esi.GetSkills(ctx, characterID)
	if err != nil {
		return nil, fetchError("skills", err)
	}

	set := a.buildSkillSet(ctx, resp.Data)
	ttl := evegateway.ExpirationMinutes(resp.Expires, a.now(), a.opts.CacheTime)
	if err := a.store.Add(ctx, key, set, ttl); err != nil {
		slog.WarnContext(ctx, "Failed to cache skills", "character_id", characterID, "error", err)
	}
	return set, nil
}

func (a *Aggregator) buildSkillSet(ctx context.Context, data evegateway.CharacterSkills) *models.SkillSet {
	byGroup := make(map[string][]models.Skill)
	for _, s := range data.Skills {
		name := models.Unknown
		if n := a.names.TypeName(ctx, s.SkillID); n != nil {
			name = *n
		}
		group := models.Unknown
		if g := a.names.GroupName(ctx, s.SkillID); g != nil {
			group = *g
		}
		byGroup[group] = append(byGroup[group], models.Skill{
			Name:        name,
			Skillpoints: s.SkillpointsInSkill,
			Level:       s.ActiveSkillLevel,
		})
	}
	return &models.SkillSet{
		Categories:    sortSkillCategories(byGroup),
		TotalSP:       data.TotalSP,
		UnallocatedSP: data.UnallocatedSP,
	}
}

// sortSkillCategories orders categories by name and the skills in each by level
// descending, then name.
func sortSkillCategories(byGroup map[string][]models.Skill) []models.SkillCategory {
	categories := make([]models.SkillCategory, 0, len(byGroup))
	for name, skills := range byGroup {
		slices.SortFunc(skills, func(x, y models.Skill) int {
			if x.Level != y.Level {
				return cmp.Compare(y.Level, x.Level)
			}
			return cmp.Compare(x.Name, y.Name)
		})
		categories = append(categories, models.SkillCategory{Name: name, Skills: skills})
	}
	slices.SortFunc(categories, func(x, y models.SkillCategory) int {
		return cmp.Compare(x.Name, y.Name)
	})
	return categories
}

// SkillQueue returns the training queue in queue order.
func (a *Aggregator) SkillQueue(ctx context.Context, characterID int32) ([]models.SkillQueueEntry, error) {
	resp, err := a.esi.GetSkillQueue(ctx, characterID)
	if err != nil {
		return nil, fetchError("skill queue", err)
	}

	queue := make([]models.SkillQueueEntry, 0, len(resp.Data))
	for _, item := range resp.Data {
		name := models.Unknown
		if n := a.names.TypeName(ctx, item.SkillID); n != nil {
			name = *n
		}
		queue = append(queue, models.SkillQueueEntry{
			Position:      item.QueuePosition,
			SkillName:     name,
			FinishedLevel: item.FinishedLevel,
			StartDate:     item.StartDate,
			FinishDate:    item.FinishDate,
		})
	}
	slices.SortFunc(queue, func(x, y models.SkillQueueEntry) int {
		return cmp.Compare(x.Position, y.Position)
	})
	return queue, nil
}
