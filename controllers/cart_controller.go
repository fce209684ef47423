package controllers

import (
	"net/http"

	"thread-backend/middleware"
	"thread-backend/models"
	"thread-backend/services"

	"github.com/gin-gonic/gin"
)

// CartController handles HTTP requests for the caller's cart.
type CartController struct {
	cartService services.CartService
}

func NewCartController(cartService services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// AddLine handles POST /api/cart. The owning email always comes from the
// authenticated identity.
func (cc *CartController) AddLine(c *gin.Context) {
	var req models.AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body", "details": err.Error()})
		return
	}

	identity := middleware.IdentityFromContext(c)
	if svcErr := cc.cartService.AddLine(c.Request.Context(), identity.Email, &req); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Added to cart"})
}

// GetCart handles GET /api/cart, returning lines joined with product data.
func (cc *CartController) GetCart(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)

	lines, svcErr := cc.cartService.GetCart(c.Request.Context(), identity.Email)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, lines)
}

// RemoveLine handles DELETE /api/cart/:id.
func (cc *CartController) RemoveLine(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)

	if svcErr := cc.cartService.RemoveLine(c.Request.Context(), identity.Email, c.Param("id")); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Removed from cart"})
}

// CountLines handles GET /api/cart/count (admin only).
func (cc *CartController) CountLines(c *gin.Context) {
	total, svcErr := cc.cartService.CountLines(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalCartLines": total})
}
