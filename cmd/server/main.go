package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeon/stocklens/internal/analytics"
	"github.com/codeon/stocklens/internal/api"
	"github.com/codeon/stocklens/internal/cache"
	"github.com/codeon/stocklens/internal/config"
	"github.com/codeon/stocklens/internal/domain"
	"github.com/codeon/stocklens/internal/report"
	"github.com/codeon/stocklens/internal/repository/postgres"
	"github.com/codeon/stocklens/internal/service"
	"github.com/codeon/stocklens/internal/storage"
	"github.com/codeon/stocklens/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Analytics strategies are fixed for the process lifetime.
	classifier, err := analytics.NewClassifier(cfg.Engine.Classifier)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("invalid classifier configuration")
	}
	recommender, err := analytics.NewReorderStrategy(cfg.Engine.Recommender)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("invalid recommender configuration")
	}
	engine := analytics.NewEngine(classifier, recommender, nil)

	analyticsCache, err := cache.NewAnalyticsCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		analyticsCache = cache.NewNoopAnalyticsCache()
	}

	defaults := domain.Thresholds{
		Critical:       cfg.Engine.CriticalThreshold,
		Low:            cfg.Engine.LowThreshold,
		CoverageFactor: cfg.Engine.CoverageFactor,
		PeriodMonths:   cfg.Engine.PeriodMonths,
	}

	analyticsService := service.NewAnalyticsService(
		postgres.NewCatalogRepository(db.DB),
		postgres.NewLedgerRepository(db.DB),
		postgres.NewSettingsRepository(db),
		analyticsCache,
		engine,
		defaults,
	)

	var reportStorage storage.ObjectStorage
	if cfg.Storage.Endpoint != "" {
		store, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("report storage unavailable, exports disabled")
		} else {
			reportStorage = store
		}
	}

	router := api.NewRouter(&api.Services{
		Analytics: analyticsService,
		Reports:   report.NewAssembler(analyticsService),
		Storage:   reportStorage,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Log.Info().Msg("server exiting")
}
