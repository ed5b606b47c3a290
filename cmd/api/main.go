package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pesokrava/product_catalog/internal/catalog"
	"github.com/Pesokrava/product_catalog/internal/config"
	"github.com/Pesokrava/product_catalog/internal/delivery/events"
	httpDelivery "github.com/Pesokrava/product_catalog/internal/delivery/http"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/handler"
	"github.com/Pesokrava/product_catalog/internal/pkg/cache"
	"github.com/Pesokrava/product_catalog/internal/pkg/database"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	cacheRepo "github.com/Pesokrava/product_catalog/internal/repository/cache"
	"github.com/Pesokrava/product_catalog/internal/repository/postgres"
	"github.com/Pesokrava/product_catalog/internal/usecase/brand"
	"github.com/Pesokrava/product_catalog/internal/usecase/category"
	"github.com/Pesokrava/product_catalog/internal/usecase/feedback"
	"github.com/Pesokrava/product_catalog/internal/usecase/product"
)

// @title Product Catalog API
// @version 1.0
// @description A product catalog system with SKU generation, incremental rating aggregation, search indexing, caching, and event notifications.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/Pesokrava/product_catalog
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @tag.name Brands
// @tag.description Brand management endpoints

// @tag.name Categories
// @tag.description Category management endpoints

// @tag.name Products
// @tag.description Product management endpoints

// @tag.name Feedback
// @tag.description Product feedback endpoints

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting Product Catalog API...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	brandRepo := postgres.NewBrandRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	productRepo := postgres.NewProductRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	redisCache := cacheRepo.NewRedisCache(
		redisClient,
		cfg.Cache.ProductTTL,
		cfg.Cache.FeedbackListTTL,
	)

	// SKU counters are backed by a database sequence so numbering
	// survives restarts
	skuGen := catalog.NewSkuGenerator(postgres.NewSkuSequence(db))

	brandService := brand.NewService(brandRepo, appLogger)
	categoryService := category.NewService(categoryRepo, appLogger)
	productService := product.NewService(productRepo, brandRepo, categoryRepo, inventoryRepo, redisCache, publisher, skuGen, appLogger)
	feedbackService := feedback.NewService(feedbackRepo, productRepo, redisCache, publisher, appLogger)

	brandHandler := handler.NewBrandHandler(brandService, appLogger)
	categoryHandler := handler.NewCategoryHandler(categoryService, appLogger)
	productHandler := handler.NewProductHandler(productService, appLogger)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, appLogger)

	router := httpDelivery.NewRouter(brandHandler, categoryHandler, productHandler, feedbackHandler, cfg, appLogger)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
