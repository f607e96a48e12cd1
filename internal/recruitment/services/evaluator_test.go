package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEvaluatorFixture trains Gunnery 3 and Minmatar Frigate at frigateLevel.
// The Rifter requires Minmatar Frigate 1 and Spaceship Command 1.
func newEvaluatorFixture(t *testing.T, frigateLevel int) (*fixture, *Evaluator) {
	t.Helper()
	f := newFixture(t, Options{})
	f.respond("GET", "/characters/99/skills/", 200, map[string]any{
		"skills": []map[string]any{
			{"skill_id": 3300, "skillpoints_in_skill": 8000, "active_skill_level": 3},
			{"skill_id": 3327, "skillpoints_in_skill": 250, "active_skill_level": 1},
			{"skill_id": 3329, "skillpoints_in_skill": 1000, "active_skill_level": frigateLevel},
		},
		"total_sp": 9250,
	})
	f.respond("GET", "/universe/types/587/", 200, map[string]any{
		"type_id":  587,
		"name":     "Rifter",
		"group_id": 25,
		"dogma_attributes": []map[string]any{
			{"attribute_id": 182, "value": 3329},
			{"attribute_id": 277, "value": 1},
			{"attribute_id": 183, "value": 3327},
			{"attribute_id": 278, "value": 1},
		},
	})
	e, err := f.agg.NewEvaluator(context.Background(), characterID)
	require.NoError(t, err)
	return f, e
}

func TestHasSkillLevel(t *testing.T) {
	_, e := newEvaluatorFixture(t, 4)

	assert.True(t, e.HasSkillLevel("Gunnery", 3))
	assert.False(t, e.HasSkillLevel("Gunnery", 4))
	assert.False(t, e.HasSkillLevel("Drones", 1))
	assert.NotEmpty(t, e.SessionID)
}

func TestMissingSkills(t *testing.T) {
	_, e := newEvaluatorFixture(t, 4)

	got := e.MissingSkills(map[string]int{
		"Minmatar Frigate":  4,
		"Spaceship Command": 3,
		"Gunnery":           5,
	})

	assert.Equal(t, []string{"Gunnery 5", "Spaceship Command 3"}, got)
}

func TestCheckPlan(t *testing.T) {
	_, e := newEvaluatorFixture(t, 4)

	met := e.CheckPlan(map[string]int{"Gunnery": 3})
	assert.True(t, met.Met)
	assert.Empty(t, met.Missing)
	assert.Equal(t, "Skill requirements met", met.Message)

	unmet := e.CheckPlan(map[string]int{"Gunnery": 5, "Minmatar Frigate": 1})
	assert.False(t, unmet.Met)
	assert.Equal(t, []string{"Gunnery 5"}, unmet.Missing)
}

func TestCanUseItem(t *testing.T) {
	tests := []struct {
		name         string
		frigateLevel int
		want         bool
	}{
		{"all requirements trained", 1, true},
		{"trained above requirement", 5, true},
		{"requirement below threshold", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, e := newEvaluatorFixture(t, tt.frigateLevel)

			got, err := e.CanUseItem(context.Background(), 587)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, f.calls("GET", "/characters/99/skills/"))
		})
	}
}

func TestCanUseItemUnknownType(t *testing.T) {
	f, e := newEvaluatorFixture(t, 1)
	f.fail("GET", "/universe/types/123/", 404)

	_, err := e.CanUseItem(context.Background(), 123)

	var fe *FetchError
	assert.ErrorAs(t, err, &fe)
}

func TestCheckFitting(t *testing.T) {
	f, e := newEvaluatorFixture(t, 0)
	f.respond("POST", "/universe/ids/", 200, map[string]any{})
	eft := "[Rifter, Fast Tackle]\n\nUnobtainium Blaster, EMP S\n[Empty High slot]\n"

	got, err := e.CheckFitting(context.Background(), eft)

	require.NoError(t, err)
	assert.False(t, got.CanUse)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Rifter", got.Items[0].Name)
	assert.Equal(t, []string{"Minmatar Frigate 1"}, got.Items[0].Missing)
	assert.Equal(t, []string{"Unobtainium Blaster"}, got.Unknown)
}
