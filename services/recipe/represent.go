package recipe

import (
	"fmt"

	"foodgram-backend/models"
	"foodgram-backend/services/presenter"
	"foodgram-backend/structs"
)

type ingredientRow struct {
	RecipeID        uint
	ID              uint
	Name            string
	MeasurementUnit string
	Amount          int
}

type tagRow struct {
	RecipeID uint
	ID       uint
	Name     string
	Slug     string
}

// Represent builds the full representation of recipes as seen by viewerID,
// loading authors, ingredients, tags and the viewer's relations in batches.
func (s *RecipeService) Represent(viewerID uint, recipes []models.Recipe) ([]structs.RecipeResponse, error) {
	responses := make([]structs.RecipeResponse, 0, len(recipes))
	if len(recipes) == 0 {
		return responses, nil
	}

	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		authorIDs = append(authorIDs, recipe.AuthorID)
	}

	var authors []models.User
	if err := s.db.Where("id IN (?)", authorIDs).Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipe authors: %w", err)
	}
	authorByID := make(map[uint]models.User, len(authors))
	for _, author := range authors {
		authorByID[author.ID] = author
	}

	var ingredientRows []ingredientRow
	err := s.db.Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id AS recipe_id, ingredients.id AS id, ingredients.name AS name, "+
			"ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN (?)", recipeIDs).
		Order("recipe_ingredients.id").
		Scan(&ingredientRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	ingredientsByRecipe := make(map[uint][]structs.RecipeIngredientResponse)
	for _, row := range ingredientRows {
		ingredientsByRecipe[row.RecipeID] = append(ingredientsByRecipe[row.RecipeID], structs.RecipeIngredientResponse{
			ID:              row.ID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	var tagRows []tagRow
	err = s.db.Table("recipe_tags").
		Select("recipe_tags.recipe_id AS recipe_id, tags.id AS id, tags.name AS name, tags.slug AS slug").
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id IN (?)", recipeIDs).
		Order("tags.id").
		Scan(&tagRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe tags: %w", err)
	}
	tagsByRecipe := make(map[uint][]structs.TagResponse)
	for _, row := range tagRows {
		tagsByRecipe[row.RecipeID] = append(tagsByRecipe[row.RecipeID], presenter.Tag(models.Tag{ID: row.ID, Name: row.Name, Slug: row.Slug}))
	}

	favorited, inCart, subscribed := map[uint]bool{}, map[uint]bool{}, map[uint]bool{}
	if viewerID != 0 {
		if favorited, err = s.viewerSet("favorite_recipes", "recipe_id", viewerID, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = s.viewerSet("shopping_carts", "recipe_id", viewerID, recipeIDs); err != nil {
			return nil, err
		}
		if subscribed, err = s.viewerSet("subscriptions", "author_id", viewerID, authorIDs); err != nil {
			return nil, err
		}
	}

	for _, recipe := range recipes {
		ingredients := ingredientsByRecipe[recipe.ID]
		if ingredients == nil {
			ingredients = []structs.RecipeIngredientResponse{}
		}
		tags := tagsByRecipe[recipe.ID]
		if tags == nil {
			tags = []structs.TagResponse{}
		}
		responses = append(responses, structs.RecipeResponse{
			ID:               recipe.ID,
			Author:           presenter.User(authorByID[recipe.AuthorID], subscribed[recipe.AuthorID]),
			Ingredients:      ingredients,
			Tags:             tags,
			Image:            recipe.Image,
			Name:             recipe.Name,
			Text:             recipe.Text,
			CookingTime:      recipe.CookingTime,
			IsFavorited:      favorited[recipe.ID],
			IsInShoppingCart: inCart[recipe.ID],
		})
	}
	return responses, nil
}

// viewerSet returns which of ids appear in column of the rows of table owned by userID.
func (s *RecipeService) viewerSet(table, column string, userID uint, ids []uint) (map[uint]bool, error) {
	var values []uint
	err := s.db.Table(table).
		Where("user_id = ? AND "+column+" IN (?)", userID, ids).
		Pluck(column, &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}
	set := make(map[uint]bool, len(values))
	for _, value := range values {
		set[value] = true
	}
	return set, nil
}
