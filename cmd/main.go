package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"commerce-service/internal/auth"
	"commerce-service/internal/config"
	"commerce-service/internal/events"
	"commerce-service/internal/handlers"
	"commerce-service/internal/middleware"
	"commerce-service/internal/repository"
	"commerce-service/internal/storage"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
	"github.com/Tesseract-Nexus/go-shared/secrets"
	"github.com/Tesseract-Nexus/go-shared/tracing"
)

// @title Commerce Service API
// @version 1.0.0
// @description Multi-vendor commerce backend: catalog, carts, watchlists, accounts and addresses

// @host localhost:8087
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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
	// Set Redis password from GCP Secret Manager
	redisOpts.Password = secrets.GetRedisPassword()
	redisClient := redis.NewClient(redisOpts)

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
	} else {
		log.Println("✓ Redis connected successfully")
	}
	cancel()

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(db, redisClient)
	customersRepo := repository.NewCustomersRepository(db)

	// Initialize image store
	imageStore, err := storage.NewImageStore(cfg.UploadDir, cfg.MaxImageSize, logger)
	if err != nil {
		log.Fatal("Failed to initialize image store:", err)
	}

	// Initialize token manager
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)

	// Initialize event publisher for audit trail only when NATS is enabled
	var eventsPublisher *events.Publisher
	if cfg.NATSEnabled {
		eventsPublisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (continuing without event publishing)", err)
		} else {
			log.Println("✓ Events publisher initialized (NATS connected)")
		}
	} else {
		log.Println("NATS disabled, skipping event publishing initialization")
	}
	defer func() {
		if eventsPublisher != nil {
			eventsPublisher.Close()
		}
	}()

	// Initialize handlers (events publisher may be nil when NATS is disabled)
	productsHandler := handlers.NewProductsHandler(catalogRepo, customersRepo, imageStore, eventsPublisher, logger, cfg.DefaultPageSize, cfg.MaxPageSize)
	variationsHandler := handlers.NewVariationsHandler(catalogRepo, imageStore, logger)
	categoriesHandler := handlers.NewCategoriesHandler(catalogRepo, logger)
	cartHandler := handlers.NewCartHandler(customersRepo, catalogRepo, logger)
	watchlistHandler := handlers.NewWatchlistHandler(customersRepo, catalogRepo, logger)
	customersHandler := handlers.NewCustomersHandler(customersRepo, tokens, logger)
	adminHandler := handlers.NewAdminHandler(customersRepo, catalogRepo, productsHandler, variationsHandler, logger)

	// Initialize OpenTelemetry tracing
	var tracerProvider *tracing.TracerProvider
	if cfg.Environment == "production" {
		tracerProvider, err = tracing.InitTracer(tracing.ProductionConfig("commerce-service"))
	} else {
		tracerProvider, err = tracing.InitTracer(tracing.DefaultConfig("commerce-service"))
	}
	if err != nil {
		log.Printf("WARNING: Failed to initialize tracing: %v (continuing without tracing)", err)
	} else {
		log.Println("✓ OpenTelemetry tracing initialized")
	}

	// Initialize Prometheus metrics
	metrics := gosharedmw.InitGlobalMetrics("tesseract", "commerce_service")
	log.Println("✓ Prometheus metrics initialized")

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Add observability middleware (metrics + tracing)
	router.Use(metrics.Middleware())
	router.Use(tracing.GinMiddleware("commerce-service"))
	router.Use(gosharedmw.CompressionMiddleware())

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)
	router.GET("/metrics", gosharedmw.Handler())

	// Stored product images are served statically by their relative path
	router.Static("/"+storage.ImageDirName, filepath.Join(cfg.UploadDir, storage.ImageDirName))

	api := router.Group("/api/v1")

	// Public auth endpoints
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", customersHandler.Register)
		authRoutes.POST("/login", customersHandler.Login)
	}

	// Public catalog browsing
	products := api.Group("/products")
	{
		products.GET("", productsHandler.ListProducts)
		products.GET("/filter", productsHandler.FilterProducts)
		products.GET("/slug/:slug", productsHandler.GetProductBySlug)
		products.GET("/vendor/:vendorId", productsHandler.ListProductsByVendor)
		products.GET("/category/:categoryId", productsHandler.ListProductsByCategory)
		products.GET("/size/:size", productsHandler.ListProductsBySize)
		products.GET("/color/:color", productsHandler.ListProductsByColor)
		products.GET("/price/:startPrice/:endPrice", productsHandler.ListProductsByPriceRange)
		products.GET("/:id", productsHandler.GetProduct)
		products.GET("/:id/variations", variationsHandler.ListVariationsByProduct)
	}
	api.GET("/variations", variationsHandler.ListVariations)
	api.GET("/variations/:id", variationsHandler.GetVariation)
	api.GET("/categories", categoriesHandler.ListCategories)
	api.GET("/categories/:id", categoriesHandler.GetCategory)

	// Authenticated customer routes
	account := api.Group("")
	account.Use(middleware.RequireAuth(tokens))
	{
		account.GET("/profile", customersHandler.GetProfile)
		account.PATCH("/profile", customersHandler.UpdateProfile)
		account.PUT("/profile/password", customersHandler.UpdatePassword)

		cart := account.Group("/cart")
		{
			cart.POST("", cartHandler.AddToCart)
			cart.GET("", cartHandler.GetCart)
			cart.PUT("", cartHandler.UpdateCartItem)
			cart.DELETE("", cartHandler.ClearCart)
			cart.DELETE("/items/:variationId", cartHandler.RemoveCartItem)
		}

		watchlist := account.Group("/watchlist")
		{
			watchlist.POST("", watchlistHandler.AddToWatchlist)
			watchlist.GET("", watchlistHandler.GetWatchlist)
			watchlist.DELETE("/:productId/:variationId", watchlistHandler.RemoveFromWatchlist)
		}

		shipping := account.Group("/addresses/shipping")
		{
			shipping.POST("", customersHandler.AddShippingAddress)
			shipping.GET("", customersHandler.ListShippingAddresses)
			shipping.PUT("/:id", customersHandler.UpdateShippingAddress)
			shipping.DELETE("/:id", customersHandler.DeleteShippingAddress)
		}

		billing := account.Group("/addresses/billing")
		{
			billing.POST("", customersHandler.SetBillingAddress)
			billing.GET("", customersHandler.GetBillingAddress)
			billing.PATCH("", customersHandler.UpdateBillingAddress)
			billing.DELETE("", customersHandler.DeleteBillingAddress)
		}
	}

	// Vendor catalog management, scoped to the caller's own products
	vendor := api.Group("/vendor")
	vendor.Use(middleware.RequireAuth(tokens), middleware.RequireVendor())
	{
		vendor.POST("/products", productsHandler.CreateProduct)
		vendor.PATCH("/products/:id", productsHandler.UpdateProduct)
		vendor.DELETE("/products/:id", productsHandler.DeleteProduct)

		vendor.POST("/variations", variationsHandler.AddVariation)
		vendor.PATCH("/variations/:id", variationsHandler.UpdateVariation)
		vendor.DELETE("/variations/:id", variationsHandler.DeleteVariation)
	}

	// Superadmin surface
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(tokens), middleware.RequireAdmin())
	{
		admin.POST("/users", adminHandler.CreateUser)
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.PATCH("/users/:id", adminHandler.UpdateUser)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
		admin.GET("/vendors", adminHandler.ListVendors)

		admin.PATCH("/products/:id", adminHandler.UpdateProduct)
		admin.DELETE("/products/:id", adminHandler.DeleteProduct)
		admin.PATCH("/variations/:id", adminHandler.UpdateVariation)
		admin.DELETE("/variations/:id", adminHandler.DeleteVariation)

		admin.POST("/categories", categoriesHandler.CreateCategory)
		admin.PUT("/categories/:id", categoriesHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoriesHandler.DeleteCategory)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Commerce service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down commerce-service...")

	// Shutdown tracer provider
	if tracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		} else {
			log.Println("✓ Tracer provider shut down")
		}
	}

	log.Println("Commerce service stopped")
}
