package app

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"excelytics_backend/internal/auth"
	"excelytics_backend/internal/config"
	"excelytics_backend/internal/email"
	"excelytics_backend/internal/gemini"
	"excelytics_backend/internal/googleauth"
	"excelytics_backend/internal/handlers"
	"excelytics_backend/internal/logger"
	"excelytics_backend/internal/middleware"
	"excelytics_backend/internal/models"
	"excelytics_backend/internal/repositories"
	"excelytics_backend/internal/routes"
	"excelytics_backend/internal/services"
	"excelytics_backend/internal/validator"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(&models.User{}, &models.Upload{}); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	// Репозитории
	userRepo := repositories.NewUserRepository(gormDB)
	uploadRepo := repositories.NewUploadRepository(gormDB)

	// Внешние клиенты
	googleClient := googleauth.NewClient(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURI)
	geminiClient := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)
	mailer := email.NewSender(cfg)

	// Сервисы
	authService := services.NewAuthService(userRepo, googleClient, mailer)
	uploadService := services.NewUploadService(uploadRepo, cfg.Upload.AllowedExtensions)
	insightService := services.NewInsightService(geminiClient)

	// Хэндлеры
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)
	appHandlers := &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(baseHandler, authService, userRepo),
		UploadHandler:  handlers.NewUploadHandler(baseHandler, uploadService, userRepo, cfg.Upload.MaxSize),
		InsightHandler: handlers.NewInsightHandler(baseHandler, insightService),
	}

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	if cfg.Server.CORSOrigin != "" {
		router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigin))
	}
	return router
}

// seedFirstAdmin создает первого администратора из конфига,
// если пользователя с таким email еще нет
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.Email
	adminPassword := cfg.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := cfg.Admin.Name
	if name == "" {
		name = "Admin"
	}
	newAdmin := &models.User{
		Name:         name,
		Email:        adminEmail,
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
