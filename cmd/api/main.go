package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocomet/carpool/internal/api/handlers"
	"github.com/gocomet/carpool/internal/api/routes"
	"github.com/gocomet/carpool/internal/config"
	"github.com/gocomet/carpool/internal/events"
	"github.com/gocomet/carpool/internal/service/coordination"
	"github.com/gocomet/carpool/pkg/cache"
	"github.com/gocomet/carpool/pkg/database"
	"github.com/gocomet/carpool/pkg/logger"
	"github.com/gocomet/carpool/pkg/monitoring"
	"github.com/gocomet/carpool/pkg/websocket"
	"github.com/newrelic/go-agent/v3/newrelic"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Carpool Application",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	// Initialize New Relic
	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
		LogLevel:   cfg.NewRelic.LogLevel,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
	} else if nrApp.IsEnabled() {
		appLogger.Info("New Relic APM initialized successfully",
			logger.String("app_name", cfg.NewRelic.AppName),
			logger.Bool("enabled", true))
	} else {
		appLogger.Info("New Relic APM disabled")
	}
	defer nrApp.Shutdown(10 * time.Second)

	dispatcher := events.NewDispatcher(appLogger, cfg.Events.DeliveryTimeout)

	// Initialize WebSocket hub
	var wsHub *websocket.Hub
	if cfg.Features.EnableRealTimeUpdates {
		wsHub = websocket.NewHub(appLogger)
		go wsHub.Run()
		defer wsHub.Stop()
		dispatcher.Add(events.NewHubSink(wsHub))
	}

	// Initialize Redis
	if cfg.Features.EnableEventPublishing {
		redisClient, err := cache.NewRedisClient(cache.Config{
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			MaxRetries:  cfg.Redis.MaxRetries,
			PoolSize:    cfg.Redis.PoolSize,
			MinIdleConn: cfg.Redis.MinIdleConn,
			DialTimeout: cfg.Redis.DialTimeout,
			ReadTimeout: cfg.Redis.ReadTimeout,
		})
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", logger.Err(err))
		}
		defer cache.Close(redisClient)

		dispatcher.Add(events.NewRedisSink(cache.NewPublisher(redisClient, cfg.Events.Channel, cfg.Events.StatusTTL)))
		appLogger.Info("Connected to Redis successfully", logger.String("channel", cfg.Events.Channel))
	}

	// Initialize PostgreSQL
	if cfg.Features.EnableAuditLog {
		postgresDB, err := database.NewPostgresDB(database.Config{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.Name,
			SSLMode:     cfg.Database.SSLMode,
			MaxConns:    cfg.Database.MaxConnections,
			MaxIdle:     cfg.Database.MaxIdleConns,
			MaxLifetime: cfg.Database.MaxLifetime,
		})
		if err != nil {
			appLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
		}
		defer postgresDB.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		auditLog, err := database.NewAuditLog(ctx, postgresDB)
		cancel()
		if err != nil {
			appLogger.Fatal("Failed to prepare audit log", logger.Err(err))
		}

		dispatcher.Add(events.NewAuditSink(auditLog))
		appLogger.Info("Connected to PostgreSQL successfully")
	}

	var nrApplication *newrelic.Application
	if nrApp.IsEnabled() {
		nrApplication = nrApp.Application
		dispatcher.Add(events.NewAPMSink(nrApp))
	}

	appLogger.Info("Event sinks configured", logger.Any("sinks", dispatcher.Sinks()))

	service := coordination.NewInMemory(dispatcher, appLogger)

	// Initialize handlers with dependencies
	h := handlers.NewHandlers(service, appLogger, wsHub)
	h.Origins = cfg.WebSocket.AllowedOrigins

	// Initialize Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Setup all routes
	routes.SetupRoutes(router, h, nrApplication)

	appLogger.Info("Routes configured successfully")

	// Create HTTP server
	srv := &http.Server{
		Addr:           cfg.Address(),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}
