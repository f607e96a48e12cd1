package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"go-recruiter/internal/recruitment/models"
	"go-recruiter/pkg/evegateway"

	"github.com/google/uuid"
)

// Dogma attribute ids of the required skill and required level of the three skill slots.
var requiredSkillAttributes = [][2]int32{
	{182, 277},
	{183, 278},
	{184, 279},
}

// Evaluator answers skill questions for one character from a skill set loaded once.
type Evaluator struct {
	SessionID   string
	characterID int32
	levels      map[string]int
	esi         *evegateway.Client
	names       *NameResolver
}

// NewEvaluator loads the character's skills for an evaluation session.
func (a *Aggregator) NewEvaluator(ctx context.Context, characterID int32) (*Evaluator, error) {
	skills, err := a.Skills(ctx, characterID)
	if err != nil {
		return nil, err
	}
	e := &Evaluator{
		SessionID:   uuid.New().String(),
		characterID: characterID,
		levels:      skills.Levels(),
		esi:         a.esi,
		names:       a.names,
	}
	slog.DebugContext(ctx, "Evaluation session started",
		"session_id", e.SessionID,
		"character_id", characterID,
		"skills", len(e.levels))
	return e, nil
}

func (e *Evaluator) HasSkillLevel(name string, minLevel int) bool {
	return e.levels[name] >= minLevel
}

// MissingSkills lists the unmet entries of plan as "<name> <level>", sorted.
func (e *Evaluator) MissingSkills(plan map[string]int) []string {
	missing := []string{}
	for name, level := range plan {
		if !e.HasSkillLevel(name, level) {
			missing = append(missing, fmt.Sprintf("%s %d", name, level))
		}
	}
	slices.Sort(missing)
	return missing
}

func (e *Evaluator) CheckPlan(plan map[string]int) *models.SkillPlanResult {
	missing := e.MissingSkills(plan)
	res := &models.SkillPlanResult{Met: len(missing) == 0, Missing: missing}
	if res.Met {
		res.Message = "Skill requirements met"
	} else {
		res.Message = fmt.Sprintf("Missing %d of %d skills", len(missing), len(plan))
	}
	return res
}

// CanUseItem reports whether every skill requirement of the item is trained.
func (e *Evaluator) CanUseItem(ctx context.Context, typeID int32) (bool, error) {
	missing, err := e.missingForItem(ctx, typeID)
	if err != nil {
		return false, err
	}
	return len(missing) == 0, nil
}

func (e *Evaluator) missingForItem(ctx context.Context, typeID int32) ([]string, error) {
	resp, err := e.esi.GetType(ctx, typeID)
	if err != nil {
		return nil, fetchError("type", err)
	}

	attrs := make(map[int32]float64, len(resp.Data.DogmaAttributes))
	for _, a := range resp.Data.DogmaAttributes {
		attrs[a.AttributeID] = a.Value
	}

	missing := []string{}
	for _, pair := range requiredSkillAttributes {
		skillID, ok := attrs[pair[0]]
		if !ok {
			continue
		}
		level := int(attrs[pair[1]])
		name := e.names.TypeName(ctx, int32(skillID))
		if name == nil {
			missing = append(missing, fmt.Sprintf("%s %d", models.Unknown, level))
			continue
		}
		if !e.HasSkillLevel(*name, level) {
			missing = append(missing, fmt.Sprintf("%s %d", *name, level))
		}
	}
	return missing, nil
}

// CheckFit evaluates each item. The fit is usable when every item is.
func (e *Evaluator) CheckFit(ctx context.Context, typeIDs []int32) (*models.FitCheckResult, error) {
	res := &models.FitCheckResult{CanUse: true, Items: make([]models.ItemUseResult, 0, len(typeIDs))}
	for _, id := range typeIDs {
		missing, err := e.missingForItem(ctx, id)
		if err != nil {
			return nil, err
		}
		item := models.ItemUseResult{
			Name:    models.Unknown,
			CanUse:  len(missing) == 0,
			Missing: missing,
		}
		if n := e.names.TypeName(ctx, id); n != nil {
			item.Name = *n
		}
		res.CanUse = res.CanUse && item.CanUse
		res.Items = append(res.Items, item)
	}
	return res, nil
}

// CheckFitting checks an EFT fitting. Names that match no type are reported as
// unknown and do not affect the verdict.
func (e *Evaluator) CheckFitting(ctx context.Context, eft string) (*models.FitCheckResult, error) {
	var (
		ids     []int32
		unknown []string
	)
	for _, name := range ParseFitting(eft) {
		id, ok := e.names.TypeIDByName(ctx, name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		ids = append(ids, id)
	}
	res, err := e.CheckFit(ctx, ids)
	if err != nil {
		return nil, err
	}
	res.Unknown = unknown
	return res, nil
}
