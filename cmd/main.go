package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"sareemart/internal/caching"
	"sareemart/internal/config"
	"sareemart/internal/handlers"
	"sareemart/internal/jobs"
	"sareemart/internal/jobs/background"
	"sareemart/internal/middleware"
	"sareemart/internal/repositories"
	"sareemart/internal/services"
	"sareemart/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Shop configuration
	shopConfig := config.DefaultShopConfig()
	if configPath := os.Getenv("SHOP_CONFIG"); configPath != "" {
		shopConfig, err = config.LoadShopConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load shop config: %v", err)
		}
	}

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}
	verifier, err := middleware.NewTokenVerifier(jwtSecret, os.Getenv("JWKS_URL"))
	if err != nil {
		log.Fatalf("Failed to initialize token verifier: %v", err)
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(context.Background(), shopConfig.Storage.ImageBucket); err != nil {
		log.Printf("WARNING: Could not ensure image bucket exists: %v", err)
	}

	// Create repositories
	sareeRepo := repositories.NewSareeRepo(pool)
	customerRepo := repositories.NewCustomerRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	sareeSvc := services.NewSareeService(sareeRepo, minioSvc, cacheSvc, shopConfig.Storage.ImageBucket)
	customerSvc := services.NewCustomerService(customerRepo)
	orderSvc := services.NewOrderService(orderRepo, customerRepo, cacheSvc)
	paymentSvc := services.NewPaymentService(paymentRepo, orderSvc, cacheSvc)

	// Create handlers
	pageSize := shopConfig.Pagination.PageSize
	maxPageSize := shopConfig.Pagination.MaxPageSize
	sareeHandlers := handlers.NewSareeHandlers(sareeSvc, pageSize, maxPageSize)
	customerHandlers := handlers.NewCustomerHandlers(customerSvc, pageSize, maxPageSize)
	orderHandlers := handlers.NewOrderHandlers(orderSvc, pageSize, maxPageSize)
	paymentHandlers := handlers.NewPaymentHandlers(paymentSvc, pageSize, maxPageSize)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	alertSvc := jobs.NewStockAlertService(sareeRepo, orderRepo, cacheSvc, shopConfig.Alerts.LowStockThreshold)
	scheduler := background.NewJobScheduler(alertSvc, cacheSvc, time.Duration(shopConfig.Alerts.ScanIntervalMinutes)*time.Minute)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/detailed", healthHandlers.DetailedHealthCheck)

	// API routes
	v1 := e.Group("/v1")
	v1.Use(echojwt.WithConfig(middleware.JWTConfig(verifier)))

	// Saree routes
	v1.GET("/sarees", sareeHandlers.ListSarees)
	v1.POST("/sarees", sareeHandlers.CreateSaree)
	v1.GET("/sarees/:id", sareeHandlers.GetSaree)
	v1.PUT("/sarees/:id", sareeHandlers.UpdateSaree)
	v1.PATCH("/sarees/:id", sareeHandlers.PatchSaree)
	v1.DELETE("/sarees/:id", sareeHandlers.DeleteSaree)
	v1.POST("/sarees/:id/image", sareeHandlers.UploadSareeImage)
	v1.GET("/sarees/:id/image", sareeHandlers.GetSareeImage)

	// Customer routes
	v1.GET("/customers", customerHandlers.ListCustomers)
	v1.POST("/customers", customerHandlers.CreateCustomer)
	v1.GET("/customers/:id", customerHandlers.GetCustomer)
	v1.PUT("/customers/:id", customerHandlers.UpdateCustomer)
	v1.PATCH("/customers/:id", customerHandlers.PatchCustomer)
	v1.DELETE("/customers/:id", customerHandlers.DeleteCustomer)

	// Order routes
	v1.GET("/orders", orderHandlers.ListOrders)
	v1.POST("/orders", orderHandlers.CreateOrder)
	v1.GET("/orders/:id", orderHandlers.GetOrder)
	v1.PUT("/orders/:id", orderHandlers.UpdateOrder)
	v1.PATCH("/orders/:id", orderHandlers.PatchOrder)
	v1.DELETE("/orders/:id", orderHandlers.DeleteOrder)
	v1.POST("/orders/:id/add_payment", orderHandlers.AddPayment)
	v1.POST("/orders/:id/cancel_order", orderHandlers.CancelOrder)

	// Payment routes
	v1.GET("/payments", paymentHandlers.ListPayments)
	v1.POST("/payments", paymentHandlers.CreatePayment)
	v1.GET("/payments/:id", paymentHandlers.GetPayment)
	v1.PUT("/payments/:id", paymentHandlers.UpdatePayment)
	v1.PATCH("/payments/:id", paymentHandlers.PatchPayment)
	v1.DELETE("/payments/:id", paymentHandlers.DeletePayment)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down")
		scheduler.Stop()
		e.Close()
	}()

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("SareeMart server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
