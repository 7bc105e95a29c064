// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "scope-service/docs"
	"scope-service/internal/config"
	"scope-service/internal/database"
	"scope-service/internal/driver"
	"scope-service/internal/handler"
	"scope-service/internal/model"
	"scope-service/internal/repository"
	"scope-service/internal/routes"
	"scope-service/internal/service"
	"scope-service/internal/utils"
)

const (
	// pendingDrainInterval paces the queued operation worker
	pendingDrainInterval = 5 * time.Second

	// pendingDrainBatch bounds one worker pass
	pendingDrainBatch = 10
)

// Application represents the main application
type Application struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	database *database.DB

	// Services
	driverManager     *service.DriverManager
	instrumentService *service.InstrumentService
	operationService  *service.OperationService
	captureService    *service.CaptureService
	discoveryService  *service.DiscoveryService

	// Repositories
	instrumentRepo repository.InstrumentRepository
	operationRepo  repository.OperationRepository
	captureRepo    repository.CaptureRepository
	readingRepo    repository.ReadingRepository

	// Driver registry
	driverRegistry *driver.Registry
}

// @title Scope Service API
// @version 1.0.0
// @description Bench instrumentation service for USB oscilloscopes, multimeters, and signal generators
// @termsOfService http://swagger.io/terms/

// @contact.name Scope Service API Support
// @contact.email support@scopeservice.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8086
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize application
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Start the application
	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Create service logger
	serviceLogger := utils.NewServiceLogger(logger, "scope-service")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	// Initialize components
	if err := app.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initializeRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if err := app.initializeDriverRegistry(); err != nil {
		return nil, fmt.Errorf("failed to initialize driver registry: %w", err)
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initializeServer(); err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	return app, nil
}

// initializeDatabase sets up database connection and runs migrations
func (app *Application) initializeDatabase() error {
	db, err := database.NewConnection(&app.config.Database, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	app.database = db

	migrator := database.NewMigrator(db, app.logger, &app.config.Database)
	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	app.logger.Info("Database initialized successfully")
	return nil
}

// initializeRepositories creates repository instances
func (app *Application) initializeRepositories() error {
	app.instrumentRepo = repository.NewInstrumentRepository(app.database, app.logger)
	app.operationRepo = repository.NewOperationRepository(app.database, app.logger)
	app.captureRepo = repository.NewCaptureRepository(app.database, app.logger)
	app.readingRepo = repository.NewReadingRepository(app.database, app.logger)

	app.logger.Info("Repositories initialized successfully")
	return nil
}

// initializeDriverRegistry sets up instrument driver registry
func (app *Application) initializeDriverRegistry() error {
	app.driverRegistry = driver.NewRegistry(app.logger)

	// Register all supported drivers
	driver.RegisterDefaultDrivers(app.driverRegistry, app.logger)

	app.logger.Info("Driver registry initialized successfully",
		zap.Int("registered_drivers", len(app.driverRegistry.ListDrivers())),
	)
	return nil
}

// initializeServices creates service instances
func (app *Application) initializeServices() error {
	// The driver manager owns every live instrument connection; all
	// services share it so a connect and a later capture hit the same
	// driver instance
	app.driverManager = service.NewDriverManager(app.driverRegistry, app.logger)

	app.instrumentService = service.NewInstrumentService(
		app.instrumentRepo,
		app.operationRepo,
		app.driverManager,
		app.driverRegistry,
		app.config,
		app.logger,
	)

	app.operationService = service.NewOperationService(
		app.operationRepo,
		app.instrumentRepo,
		app.driverManager,
		app.config,
		app.logger,
	)

	app.captureService = service.NewCaptureService(
		app.captureRepo,
		app.readingRepo,
		app.instrumentRepo,
		app.driverManager,
		app.config,
		app.logger,
	)

	app.discoveryService = service.NewDiscoveryService(
		app.instrumentService,
		app.driverRegistry,
		app.config,
		app.logger,
	)

	app.logger.Info("Services initialized successfully")
	return nil
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() error {
	// The WebSocket handler doubles as the event publisher for the
	// capture layer and receives driver callbacks through the bridge
	wsHandler := handler.NewWebSocketHandler(app.instrumentService, app.captureService, app.logger)
	app.captureService.SetEventPublisher(wsHandler)
	app.driverManager.SetEventHandler(handler.NewInstrumentEventHandler(wsHandler, app.logger))

	routerManager := routes.NewRouter(
		app.config,
		app.logger,
		app.database,
		app.driverManager,
		app.instrumentService,
		app.operationService,
		app.captureService,
		app.discoveryService,
		wsHandler,
	)

	router := routerManager.SetupRouter()

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
		zap.Bool("tls_enabled", app.config.Server.TLS.Enabled),
	)

	return nil
}

// reconcileInstrumentStatus marks stale connection states left by a
// previous run. No driver survives a restart, so every instrument the
// database still shows as connected is in fact offline.
func (app *Application) reconcileInstrumentStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stale := make([]uuid.UUID, 0)
	for _, status := range []model.InstrumentStatus{model.InstrumentStatusOnline, model.InstrumentStatusStreaming} {
		instruments, err := app.instrumentRepo.ListByStatus(ctx, status)
		if err != nil {
			app.logger.Error("Failed to list instruments for status reconciliation",
				zap.String("status", string(status)),
				zap.Error(err),
			)
			continue
		}
		for _, inst := range instruments {
			stale = append(stale, inst.ID)
		}
	}

	if len(stale) == 0 {
		return
	}

	if err := app.instrumentRepo.UpdateMultipleStatus(ctx, stale, model.InstrumentStatusOffline); err != nil {
		app.logger.Error("Failed to reconcile stale instrument status", zap.Error(err))
		return
	}

	app.logger.Info("Reconciled stale instrument connections",
		zap.Int("instruments", len(stale)),
	)
}

// startBackgroundServices starts background services
func (app *Application) startBackgroundServices() {
	// Start instrument health monitoring
	go app.startHealthMonitoring()

	// Start queued operation worker
	go app.startPendingOperationWorker()

	// Start background bus discovery
	go app.startDiscoveryMonitoring()

	// Start cleanup service
	go app.startCleanupService()

	app.logger.Info("Background services started")
}

// startHealthMonitoring pings every connected instrument on an interval
func (app *Application) startHealthMonitoring() {
	ticker := time.NewTicker(app.config.Instrument.HealthCheckInterval)
	defer ticker.Stop()

	app.logger.Info("Instrument health monitoring started",
		zap.Duration("interval", app.config.Instrument.HealthCheckInterval),
	)

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

		// Ping through the cached drivers; an instrument without a live
		// driver has nothing to check
		var wg sync.WaitGroup
		for _, instrumentID := range app.driverManager.ConnectedIDs() {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				app.checkInstrumentHealth(ctx, id)
			}(instrumentID)
		}
		wg.Wait()

		cancel()
	}
}

// checkInstrumentHealth checks health of a single connected instrument
func (app *Application) checkInstrumentHealth(ctx context.Context, instrumentID string) {
	driverInstance, ok := app.driverManager.Get(instrumentID)
	if !ok {
		return
	}

	inst, err := app.instrumentRepo.GetByInstrumentID(ctx, instrumentID)
	if err != nil {
		app.logger.Error("Failed to resolve instrument for health check",
			zap.String("instrument_id", instrumentID),
			zap.Error(err),
		)
		return
	}

	startTime := time.Now()
	err = driverInstance.Ping(ctx)
	responseTime := time.Since(startTime)

	if err != nil {
		app.instrumentRepo.UpdateStatus(ctx, inst.ID, model.InstrumentStatusError)
		app.logger.Warn("Instrument health check failed",
			zap.String("instrument_id", instrumentID),
			zap.Error(err),
		)
		return
	}

	app.instrumentRepo.UpdateLastPing(ctx, inst.ID, time.Now())

	health := &model.InstrumentHealth{
		InstrumentID: inst.ID,
		HealthScore:  100,
		RecordedAt:   time.Now(),
	}

	responseTimeMs := int(responseTime.Milliseconds())
	health.ResponseTime = &responseTimeMs

	if metrics, err := driverInstance.GetHealthMetrics(); err == nil {
		health.HealthScore = metrics.HealthScore
		errorRate := 1 - metrics.SuccessRate
		health.ErrorRate = &errorRate
		uptime := metrics.UptimePercent
		health.Uptime = &uptime
		health.LastErrorTime = metrics.LastErrorTime
	}

	app.instrumentRepo.CreateHealthLog(ctx, health)
}

// startPendingOperationWorker drains the queued operation backlog
func (app *Application) startPendingOperationWorker() {
	ticker := time.NewTicker(pendingDrainInterval)
	defer ticker.Stop()

	app.logger.Info("Pending operation worker started",
		zap.Duration("interval", pendingDrainInterval),
	)

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		processed := app.operationService.ProcessPendingOperations(ctx, pendingDrainBatch)
		if processed > 0 {
			app.logger.Info("Processed queued operations", zap.Int("count", processed))
		}
		cancel()
	}
}

// startDiscoveryMonitoring periodically scans the buses and reports
// attached hardware that is not registered yet
func (app *Application) startDiscoveryMonitoring() {
	interval := app.config.Instrument.DiscoveryInterval
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	app.logger.Info("Background discovery started", zap.Duration("interval", interval))

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)

		discovered, err := app.discoveryService.ScanInstruments(ctx, &service.ScanRequest{ScanType: "all"})
		if err != nil {
			app.logger.Error("Background discovery scan failed", zap.Error(err))
			cancel()
			continue
		}

		for _, inst := range discovered {
			if inst.SerialNumber == "" {
				continue
			}
			if _, err := app.instrumentRepo.GetByInstrumentID(ctx, inst.SerialNumber); err == nil {
				continue
			}
			app.logger.Info("Unregistered instrument attached",
				zap.String("brand", string(inst.Brand)),
				zap.String("model", inst.Model),
				zap.String("serial_number", inst.SerialNumber),
				zap.String("connection_type", string(inst.ConnectionType)),
			)
		}

		cancel()
	}
}

// startCleanupService starts cleanup service for old records
func (app *Application) startCleanupService() {
	// Run cleanup every hour
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	app.logger.Info("Cleanup service started")

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)

		// Cleanup old operations (30 days)
		oldDate := time.Now().AddDate(0, 0, -30)
		deletedOps, err := app.operationRepo.DeleteOldOperations(ctx, oldDate)
		if err != nil {
			app.logger.Error("Failed to cleanup old operations", zap.Error(err))
		} else if deletedOps > 0 {
			app.logger.Info("Cleaned up old operations", zap.Int64("deleted", deletedOps))
		}

		// Capture sessions age out faster; the waveform payloads
		// dominate disk usage (14 days)
		sessionCutoff := time.Now().AddDate(0, 0, -14)
		deletedSessions, err := app.captureRepo.DeleteOldSessions(ctx, sessionCutoff)
		if err != nil {
			app.logger.Error("Failed to cleanup old capture sessions", zap.Error(err))
		} else if deletedSessions > 0 {
			app.logger.Info("Cleaned up old capture sessions", zap.Int64("deleted", deletedSessions))
		}

		// Cleanup old meter readings (30 days)
		deletedReadings, err := app.readingRepo.DeleteOldReadings(ctx, oldDate)
		if err != nil {
			app.logger.Error("Failed to cleanup old meter readings", zap.Error(err))
		} else if deletedReadings > 0 {
			app.logger.Info("Cleaned up old meter readings", zap.Int64("deleted", deletedReadings))
		}

		cancel()
	}
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, "scope-service")
	serviceLogger.LogServiceStop("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	// Stop active streams, then close instrument connections
	app.captureService.Shutdown(ctx)
	app.driverManager.CloseAll(ctx)

	// Close database connection
	if app.database != nil {
		if err := app.database.Close(); err != nil {
			app.logger.Error("Database close error", zap.Error(err))
		} else {
			app.logger.Info("Database connection closed")
		}
	}

	// Flush logger
	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}

	app.logger.Info("Application shutdown completed")
}

func (app *Application) Start() error {
	// Start server in goroutine
	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		var err error
		if app.config.Server.TLS.Enabled {
			err = app.server.ListenAndServeTLS(
				app.config.Server.TLS.CertFile,
				app.config.Server.TLS.KeyFile,
			)
		} else {
			err = app.server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Clear connection state left by a previous run
	app.reconcileInstrumentStatus()

	// Start background services
	app.startBackgroundServices()

	// Wait for interrupt signal
	app.waitForShutdown()

	return nil
}
