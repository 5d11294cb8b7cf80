package main

import (
	"context"
	"os"
	"time"

	_ "invoicehub/api/swagger" // swagger docs
	"invoicehub/internal/database"
	"invoicehub/internal/handler"
	"invoicehub/internal/middleware"
	"invoicehub/internal/repository"
	"invoicehub/internal/service"
	"invoicehub/internal/storage"
	"invoicehub/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title           Invoice Management API
// @version         1.0
// @description     Invoice capture, validation and approval workflow API.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("GIN_MODE") != "release" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if err := godotenv.Load("configs/.env"); err != nil {
		log.Info().Msg("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "postgres")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	log.Info().Msg("Connected to PostgreSQL successfully")

	// Object storage for logo uploads
	store, err := storage.NewMinioStore(storage.Config{
		Endpoint:  envOr("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey: envOr("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey: envOr("MINIO_SECRET_KEY", "minioadmin"),
		Bucket:    envOr("MINIO_BUCKET", "invoicehub"),
		UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Object storage initialization failed")
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Object storage bucket check failed")
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	events := websocket.NewPublisher(wsHub)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	validationRepo := repository.NewValidationRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	orderRepo := repository.NewCustomerOrderRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	userRepo := repository.NewUserRepository(db)

	invoiceService := service.NewInvoiceService(invoiceRepo, validationRepo, auditRepo, txManager, events)
	validationService := service.NewValidationService(validationRepo, invoiceRepo, auditRepo, txManager)
	approvalService := service.NewApprovalService(approvalRepo, invoiceRepo, auditRepo, txManager, events)
	supplierService := service.NewSupplierService(supplierRepo, auditRepo, txManager)
	poService := service.NewPurchaseOrderService(poRepo)
	catalogService := service.NewCatalogService(catalogRepo, auditRepo, txManager)
	profileService := service.NewProfileService(profileRepo, auditRepo, txManager, store)
	orderService := service.NewOrderService(orderRepo, auditRepo, txManager)
	auditService := service.NewAuditService(auditRepo)
	statsService := service.NewStatisticsService(invoiceRepo)
	userService := service.NewUserService(userRepo)

	// Initialize Handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	approvalHandler := handler.NewApprovalHandler(approvalService)
	validationHandler := handler.NewValidationHandler(validationService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	poHandler := handler.NewPurchaseOrderHandler(poService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	profileHandler := handler.NewProfileHandler(profileService)
	orderHandler := handler.NewOrderHandler(orderService)
	auditHandler := handler.NewAuditHandler(auditService)
	statsHandler := handler.NewStatisticsHandler(statsService)
	userHandler := handler.NewUserHandler(userService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	invoiceHandler.RegisterRoutes(router.Group(""))
	approvalHandler.RegisterRoutes(router.Group(""))
	validationHandler.RegisterRoutes(router.Group(""))
	supplierHandler.RegisterRoutes(router.Group(""))
	poHandler.RegisterRoutes(router.Group(""))
	catalogHandler.RegisterRoutes(router.Group(""))
	profileHandler.RegisterRoutes(router.Group(""))
	orderHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	statsHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")
	log.Info().Str("port", port).Msg("Server listening")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
