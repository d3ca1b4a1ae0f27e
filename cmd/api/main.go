package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visitor-metrics-service/internal/config"
	"visitor-metrics-service/internal/logger"
	"visitor-metrics-service/internal/middleware"
	"visitor-metrics-service/internal/observability"

	visitorsHttp "visitor-metrics-service/internal/visitors/adapters/http/fiber"
	visitorsRepoPg "visitor-metrics-service/internal/visitors/adapters/postgres"
	visitorsUsecase "visitor-metrics-service/internal/visitors/core/usecase"

	metricsHttp "visitor-metrics-service/internal/metrics/adapters/http/fiber"
	metricsRepoPg "visitor-metrics-service/internal/metrics/adapters/postgres"
	metricsCache "visitor-metrics-service/internal/metrics/adapters/redis"
	metricsPorts "visitor-metrics-service/internal/metrics/core/ports"
	metricsUsecase "visitor-metrics-service/internal/metrics/core/usecase"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	zlog "github.com/rs/zerolog/log"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "visitor-metrics-service/docs"
)

// systemClock reports the current time in the configured zone, which is
// the zone bucket labels are rendered in.
type systemClock struct {
	loc *time.Location
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// @title Visitor Metrics Service API
// @version 1.0
// @description Visit tracking, visitor bans and time-bucketed visitor metrics.
// @host localhost:8080
// @BasePath /
func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		// logger is not configured yet; use the env defaults
		logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// DB connection
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to open postgres")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLife)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		zlog.Fatal().Err(err).Msg("failed to ping postgres")
	}

	// Adapter-level DB wrappers
	visitorsDB := visitorsRepoPg.NewSQLDB(db)
	metricsDB := metricsRepoPg.NewSQLDB(db)

	if cfg.DBEnsureSchema {
		if err := visitorsRepoPg.EnsureSchema(pingCtx, visitorsDB); err != nil {
			zlog.Fatal().Err(err).Msg("failed to ensure schema")
		}
	}

	// Repositories
	visitorRepository := visitorsRepoPg.NewVisitorRepository(visitorsDB)
	metricsRepository := metricsRepoPg.NewMetricsRepository(metricsDB)

	// Optional metrics cache
	var cache metricsPorts.MetricsCachePort
	if cfg.CacheEnabled() {
		mc, err := metricsCache.New(cfg.RedisURL)
		if err != nil {
			zlog.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer mc.Close()
		cache = mc
		zlog.Info().Dur("ttl", cfg.MetricsCacheTTL).Msg("metrics cache enabled")
	} else {
		zlog.Info().Msg("metrics cache disabled (REDIS_URL not set)")
	}

	// Usecases
	clock := systemClock{loc: cfg.Location}
	recorder := observability.NewRecorder()

	recordVisitUC := visitorsUsecase.NewRecordVisitUseCase(visitorRepository, clock).WithRecorder(recorder)
	manageVisitorsUC := visitorsUsecase.NewManageVisitorsUseCase(visitorRepository, clock)
	visitorMetricsUC := metricsUsecase.NewGetVisitorMetricsUseCase(metricsRepository, cache, clock, cfg.MetricsCacheTTL).
		WithCacheRecorder(recorder)

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{
		AppName:               "visitor-metrics-service",
		DisableStartupMessage: cfg.AppEnv != "dev",
	})
	middleware.Use(app)

	// visitors endpoints
	visitorHandler := visitorsHttp.NewVisitorHandler(recordVisitUC, manageVisitorsUC)
	app.Post("/visits", visitorHandler.RecordVisit)
	app.Post("/visits/bulk", visitorHandler.BulkRecordVisits)
	app.Get("/visitors", visitorHandler.ListVisitors)
	app.Post("/visitors/:ip/ban", visitorHandler.BanVisitor)
	app.Delete("/visitors/:ip/ban", visitorHandler.UnbanVisitor)

	// metrics endpoints
	metricsHandler := metricsHttp.NewMetricsHandler(visitorMetricsUC)
	app.Get("/metrics/visitors", metricsHandler.GetVisitorMetrics)
	app.Get("/metrics/visitors/breakdown", metricsHandler.GetVisitorBreakdown)

	// Prometheus
	app.Get("/internal/metrics", observability.Handler())

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			zlog.Error().Err(err).Msg("fiber stopped")
		}
	}()

	zlog.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.AppEnv).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	zlog.Info().Msg("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		zlog.Error().Err(err).Msg("fiber shutdown error")
	}

	zlog.Info().Msg("server exiting")
}
