package recipe

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"foodgram-backend/controllers/respond"
	"foodgram-backend/middleware"
	"foodgram-backend/services/metrics"
	recipeService "foodgram-backend/services/recipe"
	"foodgram-backend/services/shopping"
	"foodgram-backend/structs"

	"github.com/gin-gonic/gin"
)

type RecipeController struct {
	recipes      *recipeService.RecipeService
	aggregator   *shopping.Aggregator
	baseURL      string
	defaultLimit int
}

func NewRecipeController(recipes *recipeService.RecipeService, aggregator *shopping.Aggregator, baseURL string, defaultLimit int) *RecipeController {
	return &RecipeController{recipes: recipes, aggregator: aggregator, baseURL: baseURL, defaultLimit: defaultLimit}
}

func (rc *RecipeController) List(c *gin.Context) {
	var filter structs.RecipeFilter
	var page structs.PageParam
	if err := c.ShouldBindQuery(&filter); err != nil {
		respond.BindError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&page); err != nil {
		respond.BindError(c, err)
		return
	}
	recipes, count, err := rc.recipes.List(middleware.ViewerID(c), filter, page, rc.defaultLimit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Page(c, recipes, count, page, rc.defaultLimit)
}

func (rc *RecipeController) Get(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	recipe, err := rc.recipes.Detail(middleware.ViewerID(c), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (rc *RecipeController) Create(c *gin.Context) {
	var param structs.RecipeParam
	if err := c.ShouldBindJSON(&param); err != nil {
		respond.BindError(c, err)
		return
	}
	viewerID := middleware.ViewerID(c)
	recipe, err := rc.recipes.Create(viewerID, param)
	if err != nil {
		respond.Error(c, err)
		return
	}
	response, err := rc.recipes.Detail(viewerID, recipe.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (rc *RecipeController) Update(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	var param structs.RecipeParam
	if err := c.ShouldBindJSON(&param); err != nil {
		respond.BindError(c, err)
		return
	}
	viewerID := middleware.ViewerID(c)
	if _, err := rc.recipes.Update(viewerID, id, param); err != nil {
		respond.Error(c, err)
		return
	}
	response, err := rc.recipes.Detail(viewerID, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (rc *RecipeController) Delete(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	if err := rc.recipes.Delete(middleware.ViewerID(c), id); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rc *RecipeController) GetLink(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	link, err := rc.recipes.ShortLink(id, rc.linkBase(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// RedirectShortLink sends /r/<token>/ to the recipe page.
func (rc *RecipeController) RedirectShortLink(c *gin.Context) {
	recipe, err := rc.recipes.ByShortLinkToken(c.Param("token"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/recipes/%d/", strings.TrimRight(rc.linkBase(c), "/"), recipe.ID))
}

// AddRelation and RemoveRelation serve the favorite and shopping_cart endpoints.
func (rc *RecipeController) AddRelation(relation recipeService.Relation) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		short, err := rc.recipes.Add(relation, middleware.ViewerID(c), id)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, short)
	}
}

func (rc *RecipeController) RemoveRelation(relation recipeService.Relation) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		if err := rc.recipes.Remove(relation, middleware.ViewerID(c), id); err != nil {
			respond.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart returns the consolidated shopping list as an attachment.
func (rc *RecipeController) DownloadShoppingCart(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	var param structs.ShoppingListParam
	if err := c.ShouldBindQuery(&param); err != nil {
		respond.BindError(c, err)
		return
	}
	format, err := shopping.ParseFormat(param.Format)
	if err != nil {
		respond.Error(c, err)
		return
	}
	lines, err := rc.aggregator.Aggregate(user.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var body bytes.Buffer
	if err := shopping.Render(&body, format, user.Username, lines); err != nil {
		respond.Error(c, err)
		return
	}
	metrics.ShoppingListDownloads.WithLabelValues(string(format)).Inc()
	metrics.ShoppingListLines.Observe(float64(len(lines)))

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.FileName()))
	c.Data(http.StatusOK, format.ContentType(), body.Bytes())
}

func (rc *RecipeController) linkBase(c *gin.Context) string {
	if rc.baseURL != "" {
		return rc.baseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
