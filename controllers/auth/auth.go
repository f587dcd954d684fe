package auth

import (
	"net/http"

	"foodgram-backend/controllers/respond"
	"foodgram-backend/middleware"
	authService "foodgram-backend/services/auth"
	"foodgram-backend/structs"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth *authService.AuthService
}

func NewAuthController(auth *authService.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (ac *AuthController) Login(c *gin.Context) {
	var param structs.LoginParam
	if err := c.ShouldBindJSON(&param); err != nil {
		respond.BindError(c, err)
		return
	}
	token, err := ac.auth.Login(param)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// Logout revokes the caller's tokens.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.auth.Logout(middleware.ViewerID(c)); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
