// Package main is the entry point for the Mogwi progress hub API server.
//
// The service tracks per-user flashcard learning progress: card grades,
// rolled-up problem statuses, engagement flags, and the report queries
// built on top of them.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: progress and catalog business rules without external dependencies
// - Application: use case orchestration (Commands/Queries)
// - Infrastructure: PostgreSQL persistence, Redis report cache
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mogwi-hub/mogwi-progress-hub/config"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/application/command"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/application/query"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/domain/progress"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/infrastructure/persistence/postgres"
	"github.com/mogwi-hub/mogwi-progress-hub/internal/infrastructure/persistence/redis"
	httpserver "github.com/mogwi-hub/mogwi-progress-hub/internal/interface/http"
	"github.com/mogwi-hub/mogwi-progress-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────

	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting mogwi progress hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.Bool("debug", cfg.App.Debug),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE CONNECTION
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		log.Warn("failed to get migration status", logger.Err(err))
	} else {
		applied := 0
		for _, m := range status {
			if m.IsApplied {
				applied++
			}
		}
		log.Info("migrations completed",
			logger.Int("applied", applied),
			logger.Int("total", len(status)),
		)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS REPORT CACHE (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var reportCache progress.ReportCache
	var cacheHealth httpserver.HealthChecker

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		cache, err := redis.NewReportCache(ctx, redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, report caching disabled", logger.Err(err))
		} else {
			defer func() {
				log.Info("closing Redis connection...")
				_ = cache.Close()
			}()
			reportCache = cache
			cacheHealth = cache
			log.Info("Redis connection established")
		}
	} else {
		log.Info("Redis disabled, reports served without caching")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	catalogRepo := postgres.NewCatalog(dbConn)
	progressStore := postgres.NewProgressStore(dbConn)
	reporter := postgres.NewReporter(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	gradeCardCmd := command.NewGradeCardHandler(catalogRepo, catalogRepo, progressStore, reportCache)
	startStudyCmd := command.NewStartStudyHandler(catalogRepo, catalogRepo, progressStore)
	markOngoingCmd := command.NewMarkOngoingHandler(catalogRepo, catalogRepo, progressStore, reportCache)
	toggleCmd := command.NewToggleEngagementHandler(catalogRepo, catalogRepo, progressStore, reportCache)
	deleteProgressCmd := command.NewDeleteProgressHandler(catalogRepo, progressStore, reportCache)

	summaryQuery := query.NewOverallSummaryHandler(catalogRepo, reporter, reportCache)
	problemsQuery := query.NewProblemDetailsHandler(catalogRepo, catalogRepo, reporter, reportCache)
	dailyQuery := query.NewDailyRecordsHandler(catalogRepo, reporter, reportCache)
	weeklyQuery := query.NewWeeklyRecordsHandler(catalogRepo, reporter, reportCache)
	engagedQuery := query.NewEngagedProblemsHandler(catalogRepo, catalogRepo, reporter, reportCache)
	studyCardsQuery := query.NewStudyCardsHandler(catalogRepo, catalogRepo, progressStore)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	httpDeps := httpserver.Dependencies{
		GradeCardHandler:        gradeCardCmd,
		StartStudyHandler:       startStudyCmd,
		MarkOngoingHandler:      markOngoingCmd,
		ToggleEngagementHandler: toggleCmd,
		DeleteProgressHandler:   deleteProgressCmd,
		OverallSummaryHandler:   summaryQuery,
		ProblemDetailsHandler:   problemsQuery,
		DailyRecordsHandler:     dailyQuery,
		WeeklyRecordsHandler:    weeklyQuery,
		EngagedProblemsHandler:  engagedQuery,
		StudyCardsHandler:       studyCardsQuery,
		Logger:                  log,
		DatabaseHealth:          dbConn,
		CacheHealth:             cacheHealth,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. START
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", logger.String("address", httpServer.Address()))
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 10. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("mogwi progress hub is running",
		logger.String("http_address", httpServer.Address()),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	}

	log.Info("starting graceful shutdown...",
		logger.Duration("timeout", cfg.App.ShutdownTimeout),
	)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

// setupLogger builds the structured logger from configuration.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}
