package sde

// Type represents an inventory type from types.json
type Type struct {
	TypeID    int32             `json:"typeID" bson:"_id"`
	GroupID   int32             `json:"groupID,omitempty" bson:"group_id"`
	Name      map[string]string `json:"name" bson:"name"` // Internationalized names
	Published bool              `json:"published,omitempty" bson:"published"`
}

// Group represents an inventory group from groups.json
type Group struct {
	GroupID    int32             `json:"groupID" bson:"_id"`
	CategoryID int32             `json:"categoryID,omitempty" bson:"category_id"`
	Name       map[string]string `json:"name" bson:"name"`
	Published  bool              `json:"published,omitempty" bson:"published"`
}

// EnglishName returns the "en" translation, which every SDE entry carries.
func (t *Type) EnglishName() string {
	return t.Name["en"]
}

func (g *Group) EnglishName() string {
	return g.Name["en"]
}
