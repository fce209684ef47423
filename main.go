package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thread-backend/controllers"
	"thread-backend/database"
	"thread-backend/gateway"
	"thread-backend/repository"
	"thread-backend/routes"
	"thread-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// --- Database ---
	mongoClient, db, err := database.Connect(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal("MongoDB connection failed", zap.Error(err))
	}

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer indexCancel()
	if err := repository.EnsureUserIndexes(indexCtx, db); err != nil {
		logger.Fatal("Failed to ensure user indexes", zap.Error(err))
	}
	if err := repository.EnsureCartIndexes(indexCtx, db); err != nil {
		logger.Fatal("Failed to ensure cart indexes", zap.Error(err))
	}
	if err := repository.EnsureOrderIndexes(indexCtx, db); err != nil {
		logger.Fatal("Failed to ensure order indexes", zap.Error(err))
	}

	// Redis is a read cache only; run without it if unavailable.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	// --- Dependency injection ---
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	tokenService := services.NewTokenService(cfg.JWTSecret)
	paymentGateway := gateway.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	authService := services.NewAuthService(userRepo, tokenService, logger)
	userService := services.NewUserService(userRepo, logger)
	productService := services.NewProductService(productRepo, services.NewProductCache(redisClient), logger)
	cartService := services.NewCartService(cartRepo, productRepo, logger)
	checkoutService := services.NewCheckoutService(
		cartRepo, orderRepo, paymentGateway,
		cfg.CallbackSecret, cfg.PublicBaseURL, cfg.FrontendURL, logger,
	)

	ctrl := &routes.Controllers{
		Auth:     controllers.NewAuthController(authService, cfg.CookieDomain, cfg.CookieSecure),
		User:     controllers.NewUserController(userService),
		Product:  controllers.NewProductController(productService),
		Cart:     controllers.NewCartController(cartService),
		Checkout: controllers.NewCheckoutController(checkoutService, paymentGateway, cfg.FrontendURL, logger),
	}

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Structured HTTP request logging
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		switch {
		case status >= 500:
			logger.Error("http_request", fields...)
		case status >= 400:
			logger.Warn("http_request", fields...)
		default:
			logger.Info("http_request", fields...)
		}
	})

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterRoutes(r, ctrl, tokenService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "thread-backend"})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("thread-backend started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis", zap.Error(err))
		}
	}
	if err := database.Close(mongoClient); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	logger.Info("thread-backend stopped gracefully")
}
