package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-growth/pkg/artifacts"
	"github.com/ekaya-inc/ekaya-growth/pkg/cache"
	"github.com/ekaya-inc/ekaya-growth/pkg/classifier"
	"github.com/ekaya-inc/ekaya-growth/pkg/config"
	"github.com/ekaya-inc/ekaya-growth/pkg/database"
	"github.com/ekaya-inc/ekaya-growth/pkg/handlers"
	"github.com/ekaya-inc/ekaya-growth/pkg/logging"
	"github.com/ekaya-inc/ekaya-growth/pkg/mcp"
	"github.com/ekaya-inc/ekaya-growth/pkg/middleware"
	"github.com/ekaya-inc/ekaya-growth/pkg/render"
	"github.com/ekaya-inc/ekaya-growth/pkg/repositories"
	"github.com/ekaya-inc/ekaya-growth/pkg/retry"
	"github.com/ekaya-inc/ekaya-growth/pkg/services"
	"github.com/ekaya-inc/ekaya-growth/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server exited", zap.Error(err))
		os.Exit(1)
	}
}

// run builds the application context, serves until ctx is cancelled, then
// shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("base_url", cfg.BaseURL),
		zap.String("resources_dir", cfg.Resources.Dir),
		zap.Bool("redis", cfg.Redis.Enabled()),
		zap.Bool("history", cfg.History.Enabled()),
		zap.Bool("mcp", cfg.MCP.Enabled))

	// Artifacts and the classifier are required; the server never starts without them.
	store, err := artifacts.Load(ctx, cfg.Resources, logger)
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}
	model, err := classifier.Load(cfg.Resources.Path(cfg.Resources.Transform), cfg.Resources.Path(cfg.Resources.Classifier))
	if err != nil {
		return fmt.Errorf("load classifier: %w", err)
	}
	logger.Info("Classifier loaded",
		zap.String("kind", model.Kind()),
		zap.String("fingerprint", model.Fingerprint()))

	backends := map[string]handlers.BackendCheck{}

	redisClient := connectRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		backends["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	predictionCache := cache.NewPredictionCache(redisClient, cfg.Prediction.CacheTTL, logger)

	var historyRepo repositories.PredictionHistoryRepository
	historyDB := connectHistory(ctx, cfg, logger)
	if historyDB != nil {
		defer historyDB.Close()
		backends["postgres"] = historyDB.Ping
		historyRepo = repositories.NewPredictionHistoryRepository(historyDB)

		retention := services.NewRetentionService(historyRepo, cfg.History.RetentionDays, logger)
		retention.RunScheduler(ctx, cfg.History.PruneInterval)
	}

	predictionService := services.NewPredictionService(model, predictionCache, historyRepo, cfg.Prediction.MaxCount, logger)
	dashboardService, err := services.NewDashboardService(store, services.DashboardOptions{
		Version:        cfg.Version,
		MaxCount:       cfg.Prediction.MaxCount,
		HistoryEnabled: predictionService.HistoryEnabled(),
	}, logger)
	if err != nil {
		return fmt.Errorf("build dashboard: %w", err)
	}

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, dashboardService, backends, logger).RegisterRoutes(mux)
	handlers.NewConfigHandler(dashboardService, logger).RegisterRoutes(mux)
	handlers.NewDashboardHandler(dashboardService, render.NewRenderer(cfg.Render, logger), logger).RegisterRoutes(mux)
	handlers.NewPredictionHandler(predictionService, logger).RegisterRoutes(mux)

	if cfg.MCP.Enabled {
		mcpServer := mcp.NewServer("ekaya-growth", cfg.Version, logger)
		mcpServer.RegisterTools(&mcp.ToolDeps{
			Version:           cfg.Version,
			DashboardService:  dashboardService,
			PredictionService: predictionService,
			MaxCount:          cfg.Prediction.MaxCount,
		})
		handlers.NewMCPHandler(mcpServer, logger).RegisterRoutes(mux)
	}

	uiHandler, err := ui.Handler()
	if err != nil {
		return fmt.Errorf("load ui: %w", err)
	}
	mux.Handle("/", uiHandler)

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting ekaya-growth",
			zap.String("addr", server.Addr),
			zap.Bool("tls", cfg.TLSEnabled()))
		if cfg.TLSEnabled() {
			errCh <- server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("Server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// connectRedis returns nil when Redis is not configured or unreachable.
// The prediction cache is optional, so failures only warn.
func connectRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) *redis.Client {
	if !cfg.Redis.Enabled() {
		return nil
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.Warn("Redis not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.String("error", logging.SanitizeError(err)))
	}

	client, err := retry.DoWithResult(ctx, retryCfg, func() (*redis.Client, error) {
		return database.NewRedisClient(ctx, &cfg.Redis)
	})
	if err != nil {
		logger.Warn("Prediction cache disabled: Redis unavailable",
			zap.String("addr", cfg.Redis.Addr()),
			zap.String("error", logging.SanitizeError(err)))
		return nil
	}
	logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
	return client
}

// connectHistory returns nil when prediction history is not configured or
// the database cannot be prepared.
func connectHistory(ctx context.Context, cfg *config.Config, logger *zap.Logger) *database.DB {
	if !cfg.History.Enabled() {
		return nil
	}
	safeURL := logging.SanitizeConnectionString(cfg.History.DatabaseURL)

	retryCfg := retry.DefaultConfig()
	retryCfg.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.Warn("History database not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.String("error", logging.SanitizeError(err)))
	}

	db, err := retry.DoWithResult(ctx, retryCfg, func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            cfg.History.DatabaseURL,
			MaxConnections: cfg.History.MaxConnections,
		})
	})
	if err != nil {
		logger.Warn("Prediction history disabled: database unavailable",
			zap.String("url", safeURL),
			zap.String("error", logging.SanitizeError(err)))
		return nil
	}

	sqlDB := db.SQLDB()
	err = database.RunMigrations(sqlDB, logger)
	_ = sqlDB.Close()
	if err != nil {
		logger.Warn("Prediction history disabled: migrations failed",
			zap.String("url", safeURL),
			zap.Error(err))
		db.Close()
		return nil
	}

	logger.Info("Connected to history database", zap.String("url", safeURL))
	return db
}
