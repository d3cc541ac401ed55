package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tarekkmohamed/ecommerce-backend/config"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/controller"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/repository"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/service"
	"github.com/tarekkmohamed/ecommerce-backend/internal/db"
	"github.com/tarekkmohamed/ecommerce-backend/internal/middleware"
	"github.com/tarekkmohamed/ecommerce-backend/internal/router"
	"github.com/tarekkmohamed/ecommerce-backend/internal/scheduler"
	"github.com/tarekkmohamed/ecommerce-backend/pkg/logger"
	"github.com/tarekkmohamed/ecommerce-backend/pkg/mailer"
	"github.com/tarekkmohamed/ecommerce-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Ecommerce Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed reference data (categories, brands)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs token blacklisting; the server runs without it if unavailable
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token blacklisting disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}()

	// Mailer falls back to log-only dev mode without SMTP credentials
	m := mailer.New(cfg.SMTP, cfg.Server.BaseURL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		m,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	resetService := service.NewPasswordResetService(resetRepo, userRepo, m)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, addressRepo, userRepo, db.GetDB(), m)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	addressService := service.NewAddressService(addressRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, resetService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	reviewController := controller.NewReviewController(reviewService)
	addressController := controller.NewAddressController(addressService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		reviewController,
		addressController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Nightly cleanup of expired reset tokens and stale unactivated accounts
	cleanup := scheduler.NewCleanupScheduler(resetRepo, userRepo)
	if err := cleanup.Start(); err != nil {
		logger.Error("Failed to start cleanup scheduler", err)
	}
	defer cleanup.Stop()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
