package ingredient

import (
	"net/http"

	"foodgram-backend/controllers/respond"
	ingredientService "foodgram-backend/services/ingredient"
	"foodgram-backend/structs"

	"github.com/gin-gonic/gin"
)

type IngredientController struct {
	ingredients *ingredientService.IngredientService
}

func NewIngredientController(ingredients *ingredientService.IngredientService) *IngredientController {
	return &IngredientController{ingredients: ingredients}
}

func (ic *IngredientController) List(c *gin.Context) {
	var filter structs.IngredientFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respond.BindError(c, err)
		return
	}
	ingredients, err := ic.ingredients.Search(filter)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (ic *IngredientController) Get(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	ingredient, err := ic.ingredients.Get(id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
