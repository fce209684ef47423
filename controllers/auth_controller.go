package controllers

import (
	"net/http"

	"thread-backend/middleware"
	"thread-backend/services"

	"github.com/gin-gonic/gin"
)

const tokenCookieMaxAge = 24 * 60 * 60

// Struct to represent the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Struct for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	PhotoURL string `json:"photoURL"`
}

// AuthController handles registration, login and session cookies.
type AuthController struct {
	authService  services.AuthService
	cookieDomain string
	cookieSecure bool
}

func NewAuthController(authService services.AuthService, cookieDomain string, cookieSecure bool) *AuthController {
	return &AuthController{
		authService:  authService,
		cookieDomain: cookieDomain,
		cookieSecure: cookieSecure,
	}
}

// Register handles POST /api/register.
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body", "details": err.Error()})
		return
	}

	user, token, svcErr := ac.authService.Register(c.Request.Context(), &services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		PhotoURL: req.PhotoURL,
	})
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ac.setTokenCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Signup successful",
		"user":    user,
	})
}

// Login handles POST /api/login.
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body", "details": err.Error()})
		return
	}

	user, token, svcErr := ac.authService.Login(c.Request.Context(), req.Email, req.Password)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ac.setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    user,
	})
}

// Logout handles POST /api/logout by clearing the token cookie.
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("token", "", -1, "/", ac.cookieDomain, ac.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logout successful"})
}

// Me handles GET /api/me for the authenticated caller.
func (ac *AuthController) Me(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)

	user, svcErr := ac.authService.CurrentUser(c.Request.Context(), identity.Email)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ac *AuthController) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("token", token, tokenCookieMaxAge, "/", ac.cookieDomain, ac.cookieSecure, true)
}
