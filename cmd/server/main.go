package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"courier/internal/app"
	"courier/internal/config"
	"courier/internal/handler"
	"courier/internal/provider"
	internalRedis "courier/internal/redis"
	"courier/internal/repository/postgres"
	"courier/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database driver can be instrumented.
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
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	cacheStore := internalRedis.NewCacheStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)

	// Initialize repositories.
	orderRepo := postgres.NewOrderRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	locationRepo := postgres.NewLocationRepository(db)
	clientRepo := postgres.NewClientRepository(db)

	// Initialize external providers. Credentials come from configuration
	// only; unconfigured providers fail their channel instead of falling
	// back to any default key.
	geocoder := provider.NewGeocoder(cfg.Geocoder)
	smsGateway := provider.NewSMSGateway(cfg.SMS)
	emailSender := provider.NewEmailSender(cfg.Email)

	// Initialize services.
	assignmentService := service.NewAssignmentService(orderRepo, driverRepo, locationRepo, geocoder, cacheStore, lockStore)
	notificationService := service.NewNotificationService(orderRepo, clientRepo, driverRepo, smsGateway, emailSender, cacheStore)
	orderService := service.NewOrderService(orderRepo, assignmentService, notificationService)
	driverService := service.NewDriverService(driverRepo, locationRepo, cacheStore)

	// Initialize handlers.
	orderHandler := handler.NewOrderHandler(orderService)
	driverHandler := handler.NewDriverHandler(driverService)
	clientHandler := handler.NewClientHandler(clientRepo)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		OrderHandler:  orderHandler,
		DriverHandler: driverHandler,
		ClientHandler: clientHandler,
		RedisClient:   redisClient,
		NewRelicApp:   nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
