package models

type RecipeTag struct {
	RecipeID uint `gorm:"column:recipe_id;primary_key;auto_increment:false" json:"recipe_id"`
	TagID    uint `gorm:"column:tag_id;primary_key;auto_increment:false" json:"tag_id"`
}

// TableName sets the insert table name for this struct type
func (r *RecipeTag) TableName() string {
	return "recipe_tags"
}
