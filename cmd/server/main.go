package main

import (
	"log"
	"net/http"

	_ "estatehub/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"estatehub/internal/auth"
	"estatehub/internal/cache"
	"estatehub/internal/config"
	"estatehub/internal/db"
	"estatehub/internal/handler"
	"estatehub/internal/mail"
	"estatehub/internal/middleware"
	"estatehub/internal/model"
	"estatehub/internal/repository"
	"estatehub/internal/router"
	"estatehub/internal/service"
	"estatehub/internal/storage"
)

// @title Estatehub API
// @version 1.0
// @description Real-estate listing platform with user accounts, property listings, a contact inbox and JWT authentication.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Property{},
		&model.Contact{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	imageStore, err := storage.NewS3ImageStore(cfg)
	if err != nil {
		log.Fatalf("image store init: %v", err)
	}
	mailer := mail.NewSMTPMailer(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	propertyRepo := repository.NewPropertyRepository(gormDB)
	contactRepo := repository.NewContactRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	passwordPolicy := auth.NewPasswordPolicy(cfg.BcryptCost, cfg.PasswordMinLen)
	gate := middleware.NewGate(cfg.JWTSecret, userRepo)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, passwordPolicy, mailer, cfg.FrontendURL, cfg.ResetTokenExpiry)
	userService := service.NewUserService(userRepo, passwordPolicy, cacheClient)
	propertyService := service.NewPropertyService(propertyRepo, imageStore, cacheClient)
	contactService := service.NewContactService(contactRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	userHandler := handler.NewUserHandler(userService)
	propertyHandler := handler.NewPropertyHandler(propertyService)
	contactHandler := handler.NewContactHandler(contactService)

	// Register routes
	router.Register(
		e,
		cfg,
		gate,
		authHandler,
		userHandler,
		propertyHandler,
		contactHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: http://%s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
