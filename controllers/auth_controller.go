package controllers

import (
	"net/http"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/services"
	"github.com/gin-gonic/gin"
)

// AuthController serves registration, login and token refresh for one or
// both account types.
type AuthController struct {
	authService services.AuthService
}

func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register returns a handler for POST /auth/{role}/register.
func (ac *AuthController) Register(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if !bindJSON(c, &req) {
			return
		}
		resp, err := ac.authService.Register(c.Request.Context(), role, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// Login returns a handler for POST /auth/{role}/login.
func (ac *AuthController) Login(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if !bindJSON(c, &req) {
			return
		}
		resp, err := ac.authService.Login(c.Request.Context(), role, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Refresh handles POST /auth/refresh.
func (ac *AuthController) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := ac.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
