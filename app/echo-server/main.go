package main

import (
	"caseLibrary/app/echo-server/router"
	"caseLibrary/business/cases"
	"caseLibrary/business/interaction"
	"caseLibrary/business/migration"
	"caseLibrary/business/recommend"
	"caseLibrary/business/scoring"
	"caseLibrary/internal/middleware"
	psqlRepo "caseLibrary/internal/repository/postgres"
	redisRepo "caseLibrary/internal/repository/redis"
	"caseLibrary/internal/rest"
	"caseLibrary/pkg/config"
	"caseLibrary/pkg/database"
	redisClient "caseLibrary/pkg/database/redis"
	"caseLibrary/pkg/logger"
	"caseLibrary/pkg/metrics"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version)

	scoringCfg, err := config.LoadScoring(cfg.App.ScoringConfigFile)
	if err != nil {
		logger.Fatal("Failed to load scoring config", "error", err)
	}
	basePolicy := scoring.PolicyFromConfig(scoringCfg)
	if err := basePolicy.Validate(); err != nil {
		logger.Fatal("Invalid scoring policy", "error", err)
	}

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Without redis the ledger still keeps migrated reactions idempotent; only
	// replayed view history is no longer rejected up front.
	var guard migration.Guard
	rdb, err := redisClient.Connect(context.Background(), cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, guest migration guard disabled", "error", err)
	} else {
		defer func() {
			if err := redisClient.Close(rdb); err != nil {
				logger.Error("Failed to close redis", "error", err)
			}
		}()
		guard = redisRepo.NewMigrationGuard(rdb, cfg.Migration.GuardTTL)
	}

	metrics.Init()

	// Init repo
	recordRepo := psqlRepo.NewRecordRepository(db)
	ledgerRepo := psqlRepo.NewInteractionRepository(db)
	profileRepo := psqlRepo.NewProfileRepository(db)
	viewRepo := psqlRepo.NewViewRepository(db)
	chatRepo := psqlRepo.NewChatRepository(db)
	policyRepo := psqlRepo.NewPolicyRepository(db)
	transactor := psqlRepo.NewSerializableTransactor(db)

	policyLoader := scoring.NewLoader(policyRepo, basePolicy)

	// Init service
	interactionService := interaction.NewService(recordRepo, ledgerRepo, profileRepo, viewRepo, transactor, policyLoader)
	recommendService := recommend.NewService(recordRepo, viewRepo, policyLoader)
	migrationService := migration.NewService(recordRepo, ledgerRepo, profileRepo, viewRepo, chatRepo, transactor, policyLoader, guard)
	caseService := cases.NewService(recordRepo, ledgerRepo)

	// Init handler
	interactionHandler := rest.NewInteractionHandler(interactionService)
	recommendHandler := rest.NewRecommendHandler(recommendService)
	recommendAdminHandler := rest.NewRecommendAdminHandler(policyLoader)
	migrationHandler := rest.NewMigrationHandler(migrationService)
	caseHandler := rest.NewCaseHandler(caseService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestTrace())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{
		Timeout: cfg.Server.RequestTimeout,
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderGuestID},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unhealthy"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// Setup routes
	api := e.Group("/api/v1")
	router.SetInteractionRoutes(api, interactionHandler)
	router.SetCaseRoutes(api, caseHandler)
	router.SetRecommendRoutes(api, recommendHandler)
	router.SetMigrationRoutes(api, migrationHandler)
	router.SetRecommendAdminRoutes(api, recommendAdminHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
