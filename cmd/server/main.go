package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naineek/trafficdash/internal/config"
	"github.com/naineek/trafficdash/internal/delivery/http"
	"github.com/naineek/trafficdash/internal/domain"
	"github.com/naineek/trafficdash/internal/logging"
	"github.com/naineek/trafficdash/internal/repository/postgres"
	"github.com/naineek/trafficdash/internal/service"
)

func main() {
	bootLogger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)

	// Load environment variables
	if err := config.LoadDotEnv(); err != nil {
		bootLogger.Info("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.LogError(bootLogger, "invalid configuration", err)
		os.Exit(1)
	}
	logger := logging.NewStructuredLogger(os.Stdout, cfg.LogLevel).With(
		slog.String("service", "trafficdash"),
		slog.String("env", cfg.Env))

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dataRepo, closeRepo := openRepository(ctx, cfg.DatabaseURL, logger)
	defer closeRepo()

	// Dependency Injection: Engine and Services
	engine, err := domain.NewEngine(domain.DefaultWeights(), cfg.ScaleFactor)
	if err != nil {
		logging.LogError(logger, "invalid congestion engine settings", err)
		os.Exit(1)
	}

	rng := service.NewTimeSeededRand()
	now := func() time.Time { return time.Now().In(cfg.Location) }

	forecastBridge := service.NewForecastBridge(cfg.ForecastServiceURL)
	forecastSvc := service.NewForecastService(engine, forecastBridge, dataRepo, rng, now, cfg.Location, logger)
	incidentSvc := service.NewIncidentService(now)
	mapSvc := service.NewMapService()
	dashboardSvc := service.NewDashboardService(service.DashboardDeps{
		Traffic:     service.NewTrafficService(engine, rng, now),
		Forecast:    forecastSvc,
		Weather:     service.NewWeatherService(cfg.OpenWeatherAPIKey, rng, now),
		Environment: service.NewEnvironmentService(rng, now),
		Map:         mapSvc,
		Incidents:   incidentSvc,
		Repo:        dataRepo,
		Location:    cfg.Location,
		Now:         now,
		Logger:      logger,
	})

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Newtown Traffic API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: http.ErrorHandler(logger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(http.RequestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	http.SetupRoutes(app, http.Deps{
		Dashboard:   dashboardSvc,
		Forecast:    forecastSvc,
		Incidents:   incidentSvc,
		Map:         mapSvc,
		Engine:      engine,
		SubmitLimit: http.NewRateLimiter(cfg.SubmitRatePerMin, cfg.SubmitBurst),
	})

	// Graceful shutdown
	go func() {
		logger.Info("Server starting",
			slog.String("port", cfg.Port),
			slog.Float64("scale_factor", engine.ScaleFactor()),
			slog.Bool("forecast_service", forecastBridge.Enabled()))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logging.LogError(logger, "server error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logging.LogError(logger, "server forced to shutdown", err)
	}
	dashboardSvc.WaitBackground()
	logger.Info("Server exited gracefully")
}

// openRepository connects to PostgreSQL when databaseURL is set and falls back
// to the in-memory repository otherwise.
func openRepository(ctx context.Context, databaseURL string, logger *slog.Logger) (service.DataRepository, func()) {
	if databaseURL == "" {
		logger.Info("DATABASE_URL not set, keeping history in memory")
		return postgres.NewMemoryRepository(), func() {}
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err == nil {
		pgRepo := postgres.NewPostgresRepository(pool)
		if err = pgRepo.EnsureSchema(ctx); err == nil {
			logger.Info("Connected to PostgreSQL")
			return pgRepo, pool.Close
		}
		pool.Close()
	}

	logging.LogError(logger, "could not connect to database, keeping history in memory", err)
	return postgres.NewMemoryRepository(), func() {}
}
