package dto

// CharacterInput selects the character whose data is aggregated
type CharacterInput struct {
	CharacterID int `path:"character_id" minimum:"1" maximum:"2147483647" doc:"EVE Online character ID"`
}

// SkillPlanCheckInput represents a skill plan check request
type SkillPlanCheckInput struct {
	CharacterID int `path:"character_id" minimum:"1" maximum:"2147483647" doc:"EVE Online character ID"`
	Body        struct {
		Plan string `json:"plan" minLength:"1" maxLength:"65536" doc:"One requirement per line, e.g. 'Gunnery V' or 'Gunnery 5'"`
	}
}

// FitCheckInput represents a fitting check request. Either an EFT block or a list
// of type ids must be given.
type FitCheckInput struct {
	CharacterID int `path:"character_id" minimum:"1" maximum:"2147483647" doc:"EVE Online character ID"`
	Body        struct {
		Fitting string  `json:"fitting,omitempty" maxLength:"65536" doc:"Fitting in EFT format"`
		TypeIDs []int32 `json:"type_ids,omitempty" maxItems:"200" doc:"Item type IDs to check instead of a fitting"`
	}
}

// ItemCheckInput asks whether a character can use one item type
type ItemCheckInput struct {
	CharacterID int   `path:"character_id" minimum:"1" maximum:"2147483647" doc:"EVE Online character ID"`
	TypeID      int32 `path:"type_id" minimum:"1" doc:"Item type ID"`
}
