package main

import (
	"log"
	"net/http"
	"time"

	_ "roomly/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"roomly/internal/auth"
	"roomly/internal/cache"
	"roomly/internal/config"
	"roomly/internal/db"
	"roomly/internal/google"
	"roomly/internal/handler"
	"roomly/internal/repository"
	"roomly/internal/router"
	"roomly/internal/service"
)

// @title Roomly API
// @version 1.0
// @description Room reservation API with Google Calendar sync and Google OAuth login.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := config.Load()

	gormDB, err := db.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	timezone, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("load timezone %q: %v", cfg.Timezone, err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	reservationRepo := repository.NewReservationRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)
	locationRepo := repository.NewLocationRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	sessionStore := auth.NewSessionStore(cacheClient)

	// Initialize Google clients
	oauth := google.NewOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.GoogleAllowedDomain)
	calendarClient := google.NewCalendarClient(cfg.SyncTimeout)

	// Initialize services
	authService := service.NewAuthService(userRepo, oauth, jwtService, sessionStore)
	tokenService := service.NewTokenService(userRepo, oauth)
	calendarSync := service.NewCalendarSync(tokenService, calendarClient, reservationRepo, cfg.GoogleCalendarID, timezone)
	notifier := service.NewNotificationService(notificationRepo)
	availability := service.NewAvailabilityChecker(reservationRepo)
	reservationService := service.NewReservationService(reservationRepo, locationRepo, availability, calendarSync, notifier, cacheClient)
	userService := service.NewUserService(userRepo, notificationRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	calendarHandler := handler.NewCalendarHandler(calendarSync)
	userHandler := handler.NewUserHandler(userService)
	locationHandler := handler.NewLocationHandler(locationRepo)

	e := echo.New()

	// Register routes
	router.Register(
		e,
		cfg,
		authService,
		authHandler,
		reservationHandler,
		calendarHandler,
		userHandler,
		locationHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
