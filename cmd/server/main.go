package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	catalogapp "github.com/exonyb/backoffice/internal/application/catalog"
	financeapp "github.com/exonyb/backoffice/internal/application/finance"
	identityapp "github.com/exonyb/backoffice/internal/application/identity"
	notificationapp "github.com/exonyb/backoffice/internal/application/notification"
	partnerapp "github.com/exonyb/backoffice/internal/application/partner"
	reportapp "github.com/exonyb/backoffice/internal/application/report"
	tradeapp "github.com/exonyb/backoffice/internal/application/trade"
	"github.com/exonyb/backoffice/internal/infrastructure/auth"
	"github.com/exonyb/backoffice/internal/infrastructure/config"
	"github.com/exonyb/backoffice/internal/infrastructure/event"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/exonyb/backoffice/internal/infrastructure/migration"
	"github.com/exonyb/backoffice/internal/infrastructure/persistence"
	"github.com/exonyb/backoffice/internal/infrastructure/printing"
	"github.com/exonyb/backoffice/internal/infrastructure/scheduler"
	"github.com/exonyb/backoffice/internal/infrastructure/storage"
	"github.com/exonyb/backoffice/internal/infrastructure/telemetry"
	"github.com/exonyb/backoffice/internal/interfaces/http/handler"
	"github.com/exonyb/backoffice/internal/interfaces/http/middleware"
	"github.com/exonyb/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/exonyb/backoffice/docs"
)

//	@title			Back-office API
//	@version		1.0
//	@description	Clients, catalogue, orders, returns, accounting and staff administration of the shop.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const meterName = "github.com/exonyb/backoffice"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	log := logger.New(logCfg)

	ctx := context.Background()

	// Telemetry starts first so the log bridge can be tee'd into the logger
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if core := providers.Logs.Core(); core != nil {
		log = logger.New(logCfg, core)
	}
	defer func() { _ = log.Sync() }()

	profiler, err := telemetry.NewProfiler(cfg.Profiling, cfg.Telemetry.ServiceName, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsRunning() {
		providers.Tracer.EnableSpanProfiles()
	}

	log.Info("Starting back-office API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", telemetry.ServiceVersion),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level, cfg.Telemetry.DBSlowQueryThresh)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected")

	meter := providers.Meter.Meter(meterName)
	if _, err := telemetry.InstrumentDB(db.DB, meter, telemetry.DBConfig{
		TraceEnabled:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := migrate(db, cfg.Database.MigrationsPath, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	returnRepo := persistence.NewGormReturnRepository(db.DB)
	entryRepo := persistence.NewGormAccountingEntryRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	auditRepo := persistence.NewGormAuditLogRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	recorder := appaudit.NewRecorder(auditRepo)

	// Cross-context reactions run after the publishing transaction commits
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(financeapp.NewOrderDeliveredHandler(entryRepo, log))
	eventBus.Subscribe(financeapp.NewReturnRefundedHandler(entryRepo, log))
	eventBus.Subscribe(notificationapp.NewStaffAlertHandler(notificationRepo, log))

	businessMetrics, err := telemetry.NewBusinessMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	eventBus.Subscribe(businessMetrics)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	httpMetrics, err := telemetry.NewHTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	healthChecks := map[string]handler.HealthCheck{"database": db.Ping}
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, token revocations are kept in memory", zap.Error(err))
		} else {
			blacklist = redisBlacklist
			healthChecks["redis"] = redisBlacklist.Ping
			defer func() { _ = redisBlacklist.Close() }()
		}
	}

	// Storage and printing
	objectStorage, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	templates, err := printing.NewTemplateEngine()
	if err != nil {
		log.Fatal("Failed to load document templates", zap.Error(err))
	}
	printer := printing.NewPrinter(templates, printing.NewChromedpRenderer(printing.ChromedpConfigFrom(cfg.Printing, log)))
	defer func() { _ = printer.Close() }()

	// Application services
	clientService := partnerapp.NewClientService(clientRepo, recorder)
	supplierService := partnerapp.NewSupplierService(supplierRepo, recorder)
	productService := catalogapp.NewProductService(productRepo, supplierRepo, txScope, recorder)
	productService.SetEventPublisher(eventBus)
	imageService := catalogapp.NewImageService(productRepo, objectStorage, recorder, cfg.Storage.MaxImageSize, cfg.Storage.PresignExpiration)
	orderService := tradeapp.NewOrderService(orderRepo, clientRepo, txScope)
	orderService.SetEventPublisher(eventBus)
	orderService.SetMetrics(businessMetrics)
	returnService := tradeapp.NewReturnService(returnRepo, orderRepo, txScope, recorder)
	returnService.SetEventPublisher(eventBus)
	entryService := financeapp.NewEntryService(entryRepo, recorder)
	notificationService := notificationapp.NewNotificationService(notificationRepo)
	auditService := appaudit.NewAuditService(auditRepo)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, recorder, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	})
	userService := identityapp.NewUserService(userRepo, blacklist, jwtService, recorder)
	reportService := reportapp.NewReportService(orderRepo, clientRepo, productRepo, entryRepo, printer)

	if _, err := identityapp.EnsureAdmin(ctx, userRepo, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, log); err != nil {
		log.Fatal("Failed to bootstrap admin account", zap.Error(err))
	}

	// Background work
	runCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()

	var maintenance *scheduler.Maintenance
	if cfg.Scheduler.Enabled {
		maintenance, err = scheduler.NewMaintenance(cfg.Scheduler, auditService, notificationService, log)
		if err != nil {
			log.Fatal("Invalid scheduler configuration", zap.Error(err))
		}
		if err := maintenance.Start(runCtx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateWindow)
	go rateLimiter.Run(runCtx)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := router.New(cfg, router.Dependencies{
		Logger:      log,
		Tokens:      authService,
		Metrics:     httpMetrics,
		RateLimiter: rateLimiter,
	}, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Client:       handler.NewClientHandler(clientService, orderService),
		Supplier:     handler.NewSupplierHandler(supplierService),
		Product:      handler.NewProductHandler(productService, imageService),
		Order:        handler.NewOrderHandler(orderService),
		Return:       handler.NewReturnHandler(returnService),
		Accounting:   handler.NewAccountingHandler(entryService),
		Notification: handler.NewNotificationHandler(notificationService),
		Audit:        handler.NewAuditHandler(auditService),
		User:         handler.NewUserHandler(userService),
		Report:       handler.NewReportHandler(reportService),
		System:       handler.NewSystemHandler(telemetry.ServiceVersion, healthChecks),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stopBackground()
	if maintenance != nil {
		if err := maintenance.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not stop cleanly", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler did not stop cleanly", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry did not flush", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrate applies pending SQL migrations on the open pool
func migrate(db *persistence.Database, path string, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, path, log)
	if err != nil {
		return err
	}
	return m.Up()
}
