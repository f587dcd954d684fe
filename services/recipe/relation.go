package recipe

import (
	"fmt"

	"foodgram-backend/models"
	"foodgram-backend/services/errs"
	"foodgram-backend/services/presenter"
	"foodgram-backend/structs"
)

// Relation is a unique (user, recipe) marker table.
type Relation struct {
	newRow    func(userID, recipeID uint) interface{}
	duplicate string
	missing   string
}

var (
	Favorites = Relation{
		newRow: func(userID, recipeID uint) interface{} {
			return &models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
		},
		duplicate: "The recipe is already in your favorites.",
		missing:   "The recipe is not in your favorites.",
	}
	ShoppingCart = Relation{
		newRow: func(userID, recipeID uint) interface{} {
			return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
		},
		duplicate: "The recipe is already in your shopping cart.",
		missing:   "The recipe is not in your shopping cart.",
	}
)

// Add marks recipeID for userID and returns the recipe in short form.
func (s *RecipeService) Add(r Relation, userID, recipeID uint) (structs.ShortRecipeResponse, error) {
	recipe, err := s.Get(recipeID)
	if err != nil {
		return structs.ShortRecipeResponse{}, err
	}

	row := r.newRow(userID, recipe.ID)
	var count int
	if err := s.db.Model(row).Where("user_id = ? AND recipe_id = ?", userID, recipe.ID).Count(&count).Error; err != nil {
		return structs.ShortRecipeResponse{}, fmt.Errorf("failed to check relation: %w", err)
	}
	if count > 0 {
		return structs.ShortRecipeResponse{}, errs.NewConflict(r.duplicate)
	}
	if err := s.db.Create(row).Error; err != nil {
		return structs.ShortRecipeResponse{}, fmt.Errorf("failed to add relation: %w", err)
	}
	return presenter.ShortRecipe(recipe), nil
}

// Remove drops the mark; removing an absent mark is a conflict.
func (s *RecipeService) Remove(r Relation, userID, recipeID uint) error {
	recipe, err := s.Get(recipeID)
	if err != nil {
		return err
	}
	result := s.db.Where("user_id = ? AND recipe_id = ?", userID, recipe.ID).Delete(r.newRow(0, 0))
	if result.Error != nil {
		return fmt.Errorf("failed to remove relation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewConflict(r.missing)
	}
	return nil
}
