package models

type FavoriteRecipe struct {
	ID       uint `gorm:"column:id;primary_key" json:"id"`
	UserID   uint `gorm:"column:user_id;not null;unique_index:idx_favorite_user_recipe" json:"user_id"`
	RecipeID uint `gorm:"column:recipe_id;not null;unique_index:idx_favorite_user_recipe;index" json:"recipe_id"`
}

// TableName sets the insert table name for this struct type
func (f *FavoriteRecipe) TableName() string {
	return "favorite_recipes"
}
