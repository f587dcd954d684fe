package router

import (
	"strings"

	"foodgram-backend/controllers/auth"
	"foodgram-backend/controllers/check"
	"foodgram-backend/controllers/ingredient"
	"foodgram-backend/controllers/readProbe"
	"foodgram-backend/controllers/recipe"
	"foodgram-backend/controllers/respond"
	"foodgram-backend/controllers/tag"
	"foodgram-backend/controllers/user"
	"foodgram-backend/middleware"
	authService "foodgram-backend/services/auth"
	"foodgram-backend/services/image"
	ingredientService "foodgram-backend/services/ingredient"
	"foodgram-backend/services/metrics"
	recipeService "foodgram-backend/services/recipe"
	"foodgram-backend/services/shopping"
	tagService "foodgram-backend/services/tag"
	userService "foodgram-backend/services/user"
	"foodgram-backend/structs"
	"foodgram-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func Router(db *gorm.DB, config structs.EnvironmentModel, logger *logrus.Entry) (*gin.Engine, error) {
	if err := respond.RegisterValidators(); err != nil {
		return nil, err
	}
	tokens, err := authService.NewTokenManager(config.Auth.Secret, utils.TokenTTL())
	if err != nil {
		return nil, err
	}

	images := image.NewStore(config.Media.Root, config.Media.URL)
	recipes := recipeService.NewRecipeService(db, images)
	authentication := authService.NewAuthService(db, tokens)

	ingredientController := ingredient.NewIngredientController(ingredientService.NewIngredientService(db))
	tagController := tag.NewTagController(tagService.NewTagService(db))
	recipeController := recipe.NewRecipeController(recipes,
		shopping.NewAggregator(db, config.ShoppingList.Locale), config.Server.BaseURL, config.Pagination.Limit)
	userController := user.NewUserController(userService.NewUserService(db, images, recipes), config.Pagination.Limit)
	authController := auth.NewAuthController(authentication)

	route := gin.New()
	route.Use(gin.Recovery(), middleware.Logger(logger), metrics.Middleware())

	route.GET("/read-probe", readProbe.Probe)
	route.GET("/check-live", check.CheckAlive)
	route.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// an absolute media url is served by a front proxy instead
	if strings.HasPrefix(config.Media.URL, "/") {
		route.Static(strings.TrimRight(config.Media.URL, "/"), config.Media.Root)
	}

	authenticated := middleware.RequireAuth()
	withUser := route.Group("", middleware.Authenticate(authentication))
	withUser.GET("/r/:token/", recipeController.RedirectShortLink)

	api := withUser.Group("/api")
	api.GET("/ingredients/", ingredientController.List)
	api.GET("/ingredients/:id/", ingredientController.Get)
	api.GET("/tags/", tagController.List)
	api.GET("/tags/:id/", tagController.Get)

	api.GET("/recipes/", recipeController.List)
	api.POST("/recipes/", authenticated, recipeController.Create)
	api.GET("/recipes/download_shopping_cart/", authenticated, recipeController.DownloadShoppingCart)
	api.GET("/recipes/:id/", recipeController.Get)
	api.PATCH("/recipes/:id/", authenticated, recipeController.Update)
	api.DELETE("/recipes/:id/", authenticated, recipeController.Delete)
	api.GET("/recipes/:id/get-link/", recipeController.GetLink)
	api.POST("/recipes/:id/favorite/", authenticated, recipeController.AddRelation(recipeService.Favorites))
	api.DELETE("/recipes/:id/favorite/", authenticated, recipeController.RemoveRelation(recipeService.Favorites))
	api.POST("/recipes/:id/shopping_cart/", authenticated, recipeController.AddRelation(recipeService.ShoppingCart))
	api.DELETE("/recipes/:id/shopping_cart/", authenticated, recipeController.RemoveRelation(recipeService.ShoppingCart))

	api.POST("/users/", userController.Register)
	api.GET("/users/", userController.List)
	api.GET("/users/me/", authenticated, userController.Me)
	api.PUT("/users/me/avatar/", authenticated, userController.SetAvatar)
	api.DELETE("/users/me/avatar/", authenticated, userController.DeleteAvatar)
	api.POST("/users/set_password/", authenticated, userController.SetPassword)
	api.GET("/users/subscriptions/", authenticated, userController.Subscriptions)
	api.GET("/users/:id/", userController.Get)
	api.POST("/users/:id/subscribe/", authenticated, userController.Subscribe)
	api.DELETE("/users/:id/subscribe/", authenticated, userController.Unsubscribe)

	api.POST("/auth/token/login/", authController.Login)
	api.POST("/auth/token/logout/", authenticated, authController.Logout)

	return route, nil
}
