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

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/meetingoneline/meeting-one-line/pkg/validator"

	"github.com/meetingoneline/meeting-one-line/internal/adapter/handler"
	"github.com/meetingoneline/meeting-one-line/internal/adapter/repository"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/cache"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/database"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/external/aipeer"
	httpmw "github.com/meetingoneline/meeting-one-line/internal/infrastructure/http/middleware"
	"github.com/meetingoneline/meeting-one-line/internal/infrastructure/storage"
	authUsecase "github.com/meetingoneline/meeting-one-line/internal/usecase/auth"
	feedbackUsecase "github.com/meetingoneline/meeting-one-line/internal/usecase/feedback"
	meetingUsecase "github.com/meetingoneline/meeting-one-line/internal/usecase/meeting"
	"github.com/meetingoneline/meeting-one-line/pkg/config"
	"github.com/meetingoneline/meeting-one-line/pkg/jwt"
)

// @title           Meeting One Line API
// @version         1.0
// @description     API for meeting recording management: uploads, AI analysis, transcripts and feedback

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(logger)

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Disable it and manage schema with sql-migrate.")
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping automatic migrations; use scripts/migrate.go or sql-migrate in CI/CD")
	}

	// Initialize cache: Redis when configured, in-process store otherwise
	var cacheStore cache.Store
	if cfg.Redis.Addr != "" {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		cacheStore = redisStore
	} else {
		log.Println("📦 No Redis configured, using in-memory cache")
		cacheStore = cache.NewMemoryStore()
	}

	// Initialize blob storage for recordings
	var blobStore storage.Store
	switch cfg.Storage.Type {
	case "minio":
		log.Println("🗄️  Connecting to MinIO...")
		blobStore, err = storage.NewMinIOStore(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO storage: %v", err)
		}
	default:
		blobStore, err = storage.NewLocalStore(cfg.Storage.UploadDir)
		if err != nil {
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	txManager := database.NewTxManager(db)

	// Initialize AI peer client
	log.Println("🤖 Initializing AI client...")
	aiClient := aipeer.NewClient(cfg.AI.ServerURL, &http.Client{Timeout: cfg.AI.RequestTimeout}, logger)

	// Initialize JWT manager
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize services
	authService := authUsecase.NewService(userRepo, tokenRepo, jwtManager, logger)
	meetingService := meetingUsecase.NewService(
		meetingRepo,
		userRepo,
		feedbackRepo,
		aiClient,
		blobStore,
		cacheStore,
		txManager,
		logger,
		cfg.AI.DispatchTimeout,
	)
	feedbackService := feedbackUsecase.NewService(meetingRepo, feedbackRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.JWT.RefreshExpiry, logger)
	meetingHandler := handler.NewMeetingHandler(meetingService, logger)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, logger)
	authMW := httpmw.NewAuthMiddleware(jwtManager)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, authMW, authHandler, meetingHandler, feedbackHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
