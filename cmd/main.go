package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"brickstore-service/internal/config"
	"brickstore-service/internal/events"
	"brickstore-service/internal/handlers"
	"brickstore-service/internal/middleware"
	"brickstore-service/internal/repository"
	"brickstore-service/internal/services"
	"brickstore-service/internal/storage"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
	"github.com/Tesseract-Nexus/go-shared/secrets"
	"github.com/Tesseract-Nexus/go-shared/tracing"
)

// @title BrickStore API
// @version 1.0.0
// @description LEGO storefront service: catalog, product variants, FIFO stock, orders and reviews

// @contact.name BrickStore API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8087
// @BasePath /api/v1

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize Redis client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		redisOpts = &redis.Options{
			Addr: "localhost:6379",
		}
	}
	redisOpts.Password = secrets.GetRedisPassword()
	redisClient := redis.NewClient(redisOpts)

	// Test Redis connection
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
	} else {
		log.Println("✓ Redis connected successfully")
	}
	cancel()

	// Initialize upload storage
	uploads, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadPublicPath)
	if err != nil {
		log.Fatal("Failed to initialize upload storage:", err)
	}

	// Initialize repositories
	productsRepo := repository.NewProductsRepository(db, redisClient)
	stockRepo := repository.NewStockRepository(db)
	ordersRepo := repository.NewOrdersRepository(db)
	reviewsRepo := repository.NewReviewsRepository(db)
	catalogRepo := repository.NewCatalogRepository(db, redisClient)

	// Initialize event publisher only when enabled; services treat a nil
	// publisher as a no-op
	var publisher services.EventPublisher
	var eventsPublisher *events.Publisher
	if cfg.EventsEnabled {
		eventsPublisher, err = events.NewPublisher(logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (continuing without event publishing)", err)
		} else {
			publisher = eventsPublisher
			log.Println("✓ Events publisher initialized (NATS connected)")
		}
	} else {
		log.Println("EVENTS_ENABLED not set, skipping event publishing initialization")
	}
	defer func() {
		if eventsPublisher != nil {
			eventsPublisher.Close()
		}
	}()

	// Initialize services
	variantService := services.NewVariantService(productsRepo, stockRepo, uploads, publisher, logger)
	productService := services.NewProductService(productsRepo, catalogRepo, publisher, logger)
	stockService := services.NewStockService(productsRepo, stockRepo, logger)
	orderService := services.NewOrderService(productsRepo, ordersRepo, stockRepo, publisher, logger)
	reviewService := services.NewReviewService(ordersRepo, reviewsRepo, logger)
	catalogService := services.NewCatalogService(catalogRepo, productsRepo, uploads, logger)

	// Initialize handlers
	productsHandler := handlers.NewProductsHandler(productService, variantService, uploads, logger)
	variantsHandler := handlers.NewVariantsHandler(variantService, uploads, logger)
	stockHandler := handlers.NewStockHandler(stockService, logger)
	ordersHandler := handlers.NewOrdersHandler(orderService, logger)
	reviewsHandler := handlers.NewReviewsHandler(reviewService, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogService, uploads, logger)
	exportHandler := handlers.NewExportHandler(productsRepo, ordersRepo, logger)

	// Initialize OpenTelemetry tracing
	var tracerProvider *tracing.TracerProvider
	if cfg.Environment == "production" {
		tracerProvider, err = tracing.InitTracer(tracing.ProductionConfig("brickstore-service"))
	} else {
		tracerProvider, err = tracing.InitTracer(tracing.DefaultConfig("brickstore-service"))
	}
	if err != nil {
		log.Printf("WARNING: Failed to initialize tracing: %v (continuing without tracing)", err)
	} else {
		log.Println("✓ OpenTelemetry tracing initialized")
	}

	// Initialize Prometheus metrics
	metrics := gosharedmw.InitGlobalMetrics("brickstore", "brickstore_service")
	log.Println("✓ Prometheus metrics initialized")

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Observability middleware (metrics + tracing)
	router.Use(metrics.Middleware())
	router.Use(tracing.GinMiddleware("brickstore-service"))
	router.Use(gosharedmw.CompressionMiddleware())

	// CORS middleware
	router.Use(middleware.CORS())

	// Upload size cap for multipart bodies
	router.MaxMultipartMemory = int64(cfg.MaxUploadSizeMB) << 20

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)
	router.GET("/metrics", gosharedmw.Handler())

	// Uploaded images served from local storage
	router.Static(cfg.UploadPublicPath, uploads.BaseDir())

	api := router.Group("/api/v1")

	// =========================================================================
	// PUBLIC STOREFRONT ENDPOINTS (no auth required)
	// =========================================================================
	storefront := api.Group("/storefront")
	{
		storefront.GET("/products", productsHandler.BrowseProducts)
		storefront.GET("/products/:id", productsHandler.GetStorefrontProduct)
		storefront.GET("/products/:id/reviews", reviewsHandler.GetProductReviews)
		storefront.GET("/categories", catalogHandler.GetCategories)
		storefront.GET("/brands", catalogHandler.GetBrands)
	}

	// =========================================================================
	// CUSTOMER ENDPOINTS (authenticated via upstream identity headers)
	// =========================================================================
	customer := api.Group("")
	customer.Use(middleware.RequireUser())
	{
		customer.POST("/orders", ordersHandler.PlaceOrder)
		customer.GET("/orders", ordersHandler.GetMyOrders)
		customer.GET("/orders/:id", ordersHandler.GetOrder)
		customer.POST("/orders/:id/cancel", ordersHandler.CancelOrder)
		customer.POST("/reviews", reviewsHandler.CreateReview)
	}

	// =========================================================================
	// ADMIN ENDPOINTS
	// =========================================================================
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		products := admin.Group("/products")
		{
			products.GET("", productsHandler.GetProducts)
			products.POST("", productsHandler.CreateProduct)
			products.GET("/:id", productsHandler.GetProduct)
			products.PUT("/:id", productsHandler.UpdateProduct)
			products.DELETE("/:id", productsHandler.DeleteProduct)
			products.PATCH("/:id/active", productsHandler.ToggleActive)
			products.PATCH("/:id/has-variants", productsHandler.ToggleHasVariants)

			// Variant axes
			products.GET("/:id/variants", variantsHandler.GetVariants)
			products.POST("/:id/variants", variantsHandler.AddVariant)
			products.PUT("/:id/variants/:variantId", variantsHandler.RenameVariant)
			products.POST("/:id/variants/:variantId/options", variantsHandler.AddVariantOption)
			products.PUT("/:id/variants/:variantId/options", variantsHandler.UpdateVariantOption)
			products.DELETE("/:id/variants/:variantId/options/:value", variantsHandler.DeleteVariantOption)

			// Variant combinations
			products.POST("/:id/combinations", variantsHandler.AddCombination)
			products.PUT("/:id/combinations/:comboId", variantsHandler.UpdateCombination)
			products.PATCH("/:id/combinations/:comboId/price", variantsHandler.UpdateCombinationPrice)
			products.DELETE("/:id/combinations/:comboId", variantsHandler.DeleteCombination)

			// Stock entries
			products.POST("/:id/stock", stockHandler.ImportStock)
			products.GET("/:id/stock", stockHandler.GetStockEntries)
			products.GET("/:id/stock/availability", stockHandler.GetAvailability)
			products.POST("/:id/stock/:entryId/cancel", stockHandler.CancelStockEntry)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", ordersHandler.GetOrders)
			orders.PATCH("/:id/status", ordersHandler.UpdateOrderStatus)
		}

		reviews := admin.Group("/reviews")
		{
			reviews.GET("", reviewsHandler.GetAllReviews)
			reviews.PATCH("/:id/visibility", reviewsHandler.SetReviewVisibility)
		}

		categories := admin.Group("/categories")
		{
			categories.POST("", catalogHandler.CreateCategory)
			categories.GET("", catalogHandler.GetCategories)
			categories.PUT("/:id", catalogHandler.UpdateCategory)
			categories.DELETE("/:id", catalogHandler.DeleteCategory)
		}

		brands := admin.Group("/brands")
		{
			brands.POST("", catalogHandler.CreateBrand)
			brands.GET("", catalogHandler.GetBrands)
			brands.PUT("/:id", catalogHandler.UpdateBrand)
			brands.DELETE("/:id", catalogHandler.DeleteBrand)
		}

		export := admin.Group("/export")
		{
			export.GET("/products", exportHandler.ExportProducts)
			export.GET("/orders", exportHandler.ExportOrders)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("BrickStore service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down brickstore-service...")

	// Shutdown tracer provider
	if tracerProvider != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		} else {
			log.Println("✓ Tracer provider shut down")
		}
	}

	log.Println("BrickStore service stopped")
}
