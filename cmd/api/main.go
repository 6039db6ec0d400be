package main

import (
	"fmt"
	"net/http"
	"os"

	"valentina/internal/config"
	"valentina/internal/database"
	"valentina/internal/events"
	"valentina/internal/handlers"
	"valentina/internal/logger"
	"valentina/internal/middleware"
	"valentina/internal/models"
	"valentina/internal/services"
	"valentina/internal/storage"
	"valentina/internal/telegram"
	"valentina/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "valentina/internal/docs" // Import swagger docs
)

// @title           Valentina API
// @version         1.0
// @description     Valentina lets users send valentines (image + message) to Telegram handles, view sent/received valentines live, and answer received ones.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	store, err := storage.NewLocalStore(appConfig.StorageDir, appConfig.StorageBaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	if err := store.EnsurePlaceholder(models.PlaceholderFileKey, storage.PlaceholderGIF); err != nil {
		return fmt.Errorf("failed to seed placeholder object: %w", err)
	}

	bot, err := telegram.New(appConfig.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to connect to the Telegram bot API: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	hub := events.NewHub()
	linkService := services.NewTelegramLinkService(db)
	userService := services.NewUserService(db, linkService)
	valentineService := services.NewValentineService(db, store, hub)
	notificationService := services.NewNotificationService(linkService, bot, appConfig.PublicBaseURL)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, notificationService, auditService)
	valentineHandler := handlers.NewValentineHandler(
		valentineService, userService, linkService, notificationService, auditService, store, hub)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public object reads
	router.Static("/uploads", store.Dir())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Valentine detail is public; the answer affordance depends on the viewer
	v1.GET("/valentines/:id", middleware.OptionalAuthMiddleware(), valentineHandler.GetByID)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

	valentines := protected.Group("/valentines")
	valentines.POST("", valentineHandler.Create)
	valentines.GET("/sent", valentineHandler.ListSent)
	valentines.GET("/received", valentineHandler.ListReceived)
	valentines.GET("/stream", valentineHandler.Stream)
	valentines.POST("/:id/answer", valentineHandler.Answer)

	log.Infof("Starting Valentina backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
