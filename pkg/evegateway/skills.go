package evegateway

import (
	"context"
	"time"
)

type CharacterSkill struct {
	SkillID            int32 `json:"skill_id"`
	SkillpointsInSkill int64 `json:"skillpoints_in_skill"`
	TrainedSkillLevel  int   `json:"trained_skill_level"`
	ActiveSkillLevel   int   `json:"active_skill_level"`
}

type CharacterSkills struct {
	Skills        []CharacterSkill `json:"skills"`
	TotalSP       int64            `json:"total_sp"`
	UnallocatedSP int64            `json:"unallocated_sp,omitempty"`
}

type SkillQueueItem struct {
	SkillID         int32      `json:"skill_id"`
	FinishedLevel   int        `json:"finished_level"`
	QueuePosition   int        `json:"queue_position"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	FinishDate      *time.Time `json:"finish_date,omitempty"`
	LevelStartSP    int64      `json:"level_start_sp,omitempty"`
	LevelEndSP      int64      `json:"level_end_sp,omitempty"`
	TrainingStartSP int64      `json:"training_start_sp,omitempty"`
}

func (c *Client) GetSkills(ctx context.Context, characterID int32) (*Response[CharacterSkills], error) {
	return get[CharacterSkills](ctx, c, request{
		operation:   "GetSkills",
		path:        characterPath(characterID, "skills/"),
		characterID: characterID,
		scope:       ScopeReadSkills,
	})
}

func (c *Client) GetSkillQueue(ctx context.Context, characterID int32) (*Response[[]SkillQueueItem], error) {
	return get[[]SkillQueueItem](ctx, c, request{
		operation:   "GetSkillQueue",
		path:        characterPath(characterID, "skillqueue/"),
		characterID: characterID,
		scope:       ScopeReadSkillQueue,
	})
}
