package controllers

import (
	"net/http"
	"strconv"

	"thread-backend/services"

	"github.com/gin-gonic/gin"
)

// UserController serves the admin user queries.
type UserController struct {
	userService services.UserService
}

func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// ListUsers handles GET /api/users (admin only).
func (uc *UserController) ListUsers(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	users, total, svcErr := uc.userService.ListUsers(c.Request.Context(), page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	totalPage := int64(0)
	if limit > 0 {
		totalPage = (total + int64(limit) - 1) / int64(limit)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"result":      users,
		"totalUsers":  total,
		"totalPage":   totalPage,
		"currentPage": page,
	})
}

// CountUsers handles GET /api/users/count (admin only).
func (uc *UserController) CountUsers(c *gin.Context) {
	total, svcErr := uc.userService.CountUsers(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalUsers": total})
}

// SignupStats handles GET /api/users/stats (admin only) for the dashboard
// signup chart.
func (uc *UserController) SignupStats(c *gin.Context) {
	stats, svcErr := uc.userService.SignupStats(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// parsePaginationParams extracts and clamps page/limit query parameters.
func parsePaginationParams(c *gin.Context) (int, int) {
	const maxLimit = 100

	page := 1
	limit := 10

	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && l > 0 {
		limit = l
		if limit > maxLimit {
			limit = maxLimit
		}
	}
	return page, limit
}
