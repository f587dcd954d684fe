// Package presenter converts stored rows into API representations.
package presenter

import (
	"foodgram-backend/models"
	"foodgram-backend/structs"
)

func User(user models.User, isSubscribed bool) structs.UserResponse {
	response := structs.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
	if user.Avatar != "" {
		avatar := user.Avatar
		response.Avatar = &avatar
	}
	return response
}

func Registered(user models.User) structs.RegisterResponse {
	return structs.RegisterResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

func ShortRecipe(recipe models.Recipe) structs.ShortRecipeResponse {
	return structs.ShortRecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

func ShortRecipes(recipes []models.Recipe) []structs.ShortRecipeResponse {
	responses := make([]structs.ShortRecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		responses = append(responses, ShortRecipe(recipe))
	}
	return responses
}

func Tag(tag models.Tag) structs.TagResponse {
	return structs.TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}
}
