package user

import (
	"net/http"

	"foodgram-backend/controllers/respond"
	"foodgram-backend/middleware"
	"foodgram-backend/services/presenter"
	userService "foodgram-backend/services/user"
	"foodgram-backend/structs"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	users        *userService.UserService
	defaultLimit int
}

func NewUserController(users *userService.UserService, defaultLimit int) *UserController {
	return &UserController{users: users, defaultLimit: defaultLimit}
}

func (uc *UserController) Register(c *gin.Context) {
	var param structs.RegisterParam
	if err := c.ShouldBindJSON(&param); err != nil {
		respond.BindError(c, err)
		return
	}
	user, err := uc.users.Register(param)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, presenter.Registered(user))
}

func (uc *UserController) List(c *gin.Context) {
	var page structs.PageParam
	if err := c.ShouldBindQuery(&page); err != nil {
		respond.BindError(c, err)
		return
	}
	users, count, err := uc.users.List(middleware.ViewerID(c), page, uc.defaultLimit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Page(c, users, count, page, uc.defaultLimit)
}

func (uc *UserController) Get(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	profile, err := uc.users.Profile(middleware.ViewerID(c), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (uc *UserController) Me(c *gin.Context) {
	viewerID := middleware.ViewerID(c)
	profile, err := uc.users.Profile(viewerID, viewerID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (uc *UserController) SetAvatar(c *gin.Context) {
	var param structs.AvatarParam
	if err := c.ShouldBindJSON(&param); err != nil {
		respond.BindError(c, err)
		return
	}
	response, err := uc.users.SetAvatar(middleware.ViewerID(c), param)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (uc *UserController) DeleteAvatar(c *gin.Context) {
	if err := uc.users.DeleteAvatar(middleware.ViewerID(c)); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (uc *UserController) SetPassword(c *gin.Context) {
	var param structs.SetPasswordParam
	if err := c.ShouldBindJSON(&param); err != nil {
		respond.BindError(c, err)
		return
	}
	if err := uc.users.SetPassword(middleware.ViewerID(c), param); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (uc *UserController) Subscriptions(c *gin.Context) {
	var param structs.SubscriptionParam
	if err := c.ShouldBindQuery(&param); err != nil {
		respond.BindError(c, err)
		return
	}
	subscriptions, count, err := uc.users.Subscriptions(
		middleware.ViewerID(c), param.PageParam, userService.ParseRecipesLimit(param.RecipesLimit), uc.defaultLimit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Page(c, subscriptions, count, param.PageParam, uc.defaultLimit)
}

func (uc *UserController) Subscribe(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	response, err := uc.users.Subscribe(middleware.ViewerID(c), id, userService.ParseRecipesLimit(c.Query("recipes_limit")))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (uc *UserController) Unsubscribe(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	if err := uc.users.Unsubscribe(middleware.ViewerID(c), id); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
