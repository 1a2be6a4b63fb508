package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"dhoni/internal/app"
	"dhoni/internal/config"
	"dhoni/internal/handler"
	"dhoni/internal/jobs"
	internalRedis "dhoni/internal/redis"
	"dhoni/internal/repository/postgres"
	"dhoni/internal/scheduler"
	"dhoni/internal/service"
	"dhoni/internal/store"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize New Relic")
		} else {
			log.Info().Str("app", cfg.NewRelic.AppName).Msg("New Relic enabled")
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to Redis")

	// Wire dependencies.
	server, reminderService := wireServer(db, redisClient, nrApp, cfg, log)

	// Start the reminder scheduler.
	sched := scheduler.New(log)
	if cfg.Reminder.Enabled {
		if err := sched.AddJob(cfg.Reminder.Schedule, jobs.NewUnpaidSalesJob(reminderService)); err != nil {
			log.Fatal().Err(err).Msg("failed to schedule unpaid-sales reminder")
		}
	}
	sched.Start()
	defer sched.Stop()

	// Start server in goroutine.
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// wireServer wires all dependencies and returns the HTTP server plus the
// reminder service, which the scheduler also needs.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, log zerolog.Logger) (*http.Server, *service.ReminderService) {
	// Device-local cache stores.
	tripCache := internalRedis.NewTripCache(redisClient, log)
	settingsCache := internalRedis.NewSettingsCache(redisClient, log)
	idMap := internalRedis.NewIDMap(redisClient, log)

	// Remote table repositories.
	tripRepo := postgres.NewTripRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)

	// Dual-store routing layer.
	tripStore := store.NewTripStore(tripRepo, settingsRepo, tripCache, idMap, log)

	// Services.
	tripService := service.NewTripService(tripStore, log)
	settingsService := service.NewSettingsService(settingsRepo, settingsCache, log)
	invoiceService := service.NewInvoiceService(tripService, settingsService, log)
	exportService := service.NewExportService(tripService, log)
	weatherService := service.NewWeatherService(cfg.Weather.BaseURL, log)
	reminderService := service.NewReminderService(subscriptionRepo, tripRepo, service.VAPIDConfig{
		PublicKey:  cfg.VAPID.PublicKey,
		PrivateKey: cfg.VAPID.PrivateKey,
		Subscriber: cfg.VAPID.Subscriber,
	}, log)

	// Handlers.
	tripHandler := handler.NewTripHandler(tripService, exportService, invoiceService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	weatherHandler := handler.NewWeatherHandler(weatherService)
	notificationHandler := handler.NewNotificationHandler(reminderService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TripHandler:         tripHandler,
		SettingsHandler:     settingsHandler,
		WeatherHandler:      weatherHandler,
		NotificationHandler: notificationHandler,
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, reminderService
}
