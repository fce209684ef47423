package routes

import (
	"thread-backend/controllers"
	"thread-backend/middleware"
	"thread-backend/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Controllers bundles everything RegisterRoutes wires up.
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Product  *controllers.ProductController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
}

// RegisterRoutes sets up the full API surface. All payment callbacks are
// registered statically here, never from inside another handler.
func RegisterRoutes(r *gin.Engine, c *Controllers, tokens *services.TokenService) {
	api := r.Group("/api")

	authGate := middleware.RequireAuth(tokens)
	adminGate := middleware.RequireAdmin()
	loginLimiter := middleware.RateLimit(rate.Limit(1), 10)

	// Credentials
	api.POST("/register", loginLimiter, c.Auth.Register)
	api.POST("/login", loginLimiter, c.Auth.Login)
	api.POST("/logout", c.Auth.Logout)
	api.GET("/me", authGate, c.Auth.Me)

	// Admin user queries
	users := api.Group("/users", authGate, adminGate)
	users.GET("", c.User.ListUsers)
	users.GET("/count", c.User.CountUsers)
	users.GET("/stats", c.User.SignupStats)

	// Catalog
	products := api.Group("/products")
	products.GET("", c.Product.GetFeatured)
	products.GET("/query", c.Product.QueryProducts)
	products.GET("/reviews/count", authGate, adminGate, c.Product.ReviewCount)
	products.GET("/:id", c.Product.GetProduct)
	products.POST("", authGate, adminGate, c.Product.CreateProduct)
	products.PATCH("/:id", authGate, adminGate, c.Product.UpdateProduct)
	products.DELETE("/:id", authGate, adminGate, c.Product.DeleteProduct)

	// Cart
	cart := api.Group("/cart", authGate)
	cart.POST("", c.Cart.AddLine)
	cart.GET("", c.Cart.GetCart)
	cart.GET("/count", adminGate, c.Cart.CountLines)
	cart.DELETE("/:id", c.Cart.RemoveLine)

	// Checkout and orders
	api.POST("/order", authGate, c.Checkout.CreateOrder)
	orders := api.Group("/orders", authGate)
	orders.GET("", c.Checkout.ListOrders)
	orders.GET("/:tranId", c.Checkout.GetOrder)

	// Payment gateway callbacks. The success URL is hit by a browser
	// redirect, the webhook by the provider's servers.
	api.GET("/payment/success/:tranId", c.Checkout.PaymentSuccess)
	api.POST("/payment/success/:tranId", c.Checkout.PaymentSuccess)
	api.POST("/payment/webhook", c.Checkout.PaymentWebhook)
}
