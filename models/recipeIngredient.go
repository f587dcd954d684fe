package models

type RecipeIngredient struct {
	ID           uint `gorm:"column:id;primary_key" json:"id"`
	RecipeID     uint `gorm:"column:recipe_id;not null;unique_index:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint `gorm:"column:ingredient_id;not null;unique_index:idx_recipe_ingredient;index" json:"ingredient_id"`
	Amount       int  `gorm:"column:amount;not null" json:"amount"`
}

// TableName sets the insert table name for this struct type
func (r *RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
