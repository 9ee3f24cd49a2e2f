package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	dashboardapp "github.com/erp/workbench/internal/application/dashboard"
	exportapp "github.com/erp/workbench/internal/application/export"
	financeapp "github.com/erp/workbench/internal/application/finance"
	layoutapp "github.com/erp/workbench/internal/application/gridlayout"
	hrapp "github.com/erp/workbench/internal/application/hr"
	settingsapp "github.com/erp/workbench/internal/application/settings"
	"github.com/erp/workbench/internal/infrastructure/auth"
	"github.com/erp/workbench/internal/infrastructure/cache"
	"github.com/erp/workbench/internal/infrastructure/config"
	exportinfra "github.com/erp/workbench/internal/infrastructure/export"
	"github.com/erp/workbench/internal/infrastructure/logger"
	"github.com/erp/workbench/internal/infrastructure/mockdata"
	"github.com/erp/workbench/internal/infrastructure/persistence"
	"github.com/erp/workbench/internal/infrastructure/printing"
	"github.com/erp/workbench/internal/infrastructure/storage"
	"github.com/erp/workbench/internal/infrastructure/telemetry"
	"github.com/erp/workbench/internal/interfaces/http/handler"
	"github.com/erp/workbench/internal/interfaces/http/middleware"
	"github.com/erp/workbench/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "1.0.0"

// mock dataset sizes
const (
	demoEmployees   = 120
	demoCashEntries = 365
	demoInvoices    = 250
	demoSeed        = 20240601
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// Bootstrap logger for telemetry setup; replaced once the log bridge exists
	bootLog, err := newLogger(cfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := newLogger(cfg, logProvider.ZapCore(logLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()
	zap.ReplaceGlobals(log)

	log.Info("Starting ERP workbench",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	metrics, err := telemetry.NewWorkbenchMetrics(meterProvider.Meter(cfg.Telemetry.ServiceName))
	if err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilerEnabled,
		ServerAddress:   cfg.Telemetry.ProfilerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles unavailable", zap.Error(err))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem(cfg.Database.Driver),
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	layoutCache := cache.NewLayoutCache(ctx, cfg.Cache, cfg.Redis, log)
	archive, err := storage.NewArchiveStorage(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize archive storage", zap.Error(err))
	}
	renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
		DefaultTimeout: cfg.Export.PDFTimeout,
		ExecPath:       cfg.Export.ChromePath,
		NoSandbox:      os.Geteuid() == 0,
		Logger:         log,
	})
	defer func() {
		_ = renderer.Close()
	}()

	// Repositories
	layoutRepo := persistence.NewGormGridLayoutRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)
	invoiceRepo := persistence.NewGormPurchaseInvoiceRepository(db.DB)

	anchor := time.Now().UTC().Truncate(24 * time.Hour)
	employees := mockdata.NewEmployeeDirectory(demoSeed, demoEmployees, anchor)
	cashBook := mockdata.NewCashBook(demoSeed, demoCashEntries, anchor)
	seedDemoTenant(ctx, cfg, invoiceRepo, anchor, log)

	// Application services
	layoutOpts := []layoutapp.LayoutServiceOption{layoutapp.WithMetrics(metrics)}
	if layoutCache != nil {
		layoutOpts = append(layoutOpts, layoutapp.WithCache(layoutCache))
		defer func() {
			_ = layoutCache.Close()
		}()
	}
	layoutService := layoutapp.NewLayoutService(layoutRepo, layoutOpts...)
	registry := layoutapp.NewRegistry()
	if err := registry.Register(financeapp.PurchaseInvoiceGridKey, financeapp.PurchaseInvoiceTable.Columns()); err != nil {
		log.Fatal("Failed to register grid", zap.String("grid", financeapp.PurchaseInvoiceGrid), zap.Error(err))
	}
	if err := registry.Register(hrapp.EmployeeGridKey, hrapp.EmployeeTable.Columns()); err != nil {
		log.Fatal("Failed to register grid", zap.String("grid", hrapp.EmployeeGrid), zap.Error(err))
	}

	settingsService := settingsapp.NewSettingsService(settingRepo, metrics)
	invoiceService := financeapp.NewPurchaseInvoiceService(invoiceRepo, layoutService, metrics)
	employeeService := hrapp.NewEmployeeService(employees, layoutService)
	dashboardService := dashboardapp.NewService(cashBook, invoiceRepo, employees)
	exportService := exportapp.NewService(layoutService, archive, exportapp.Config{
		MaxRows:   cfg.Export.MaxRows,
		Archive:   cfg.Export.ArchiveEnabled,
		URLExpiry: cfg.Storage.PresignTTL,
	}, metrics,
		exportinfra.NewXLSXWriter(),
		exportinfra.NewPDFWriter(renderer, cfg.Export.PDFTimeout),
	)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	// Middleware order:
	// 1. Recovery and RequestID wrap everything
	// 2. Logger, Security, CORS and BodyLimit see every request
	// 3. Tracing and metrics start before authentication so 401s are observed
	// 4. JWT, then the span and profile labels that need the identity
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.HTTPMetrics(metrics))
	engine.Use(middleware.JWTAuthMiddleware(jwtConfig))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.Profiling(profiler.IsEnabled()))

	health := handler.NewHealthHandler(db, version)
	engine.GET("/health", health.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	groups := router.WorkbenchGroups(router.Handlers{
		GridLayouts: handler.NewGridLayoutHandler(layoutService, registry),
		Settings:    handler.NewSettingsHandler(settingsService),
		Invoices:    handler.NewPurchaseInvoiceHandler(invoiceService, exportService),
		Employees:   handler.NewEmployeeHandler(employeeService, exportService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
	})
	r.Register(groups...).Setup()
	engine.GET(r.Prefix()+"/health", health.Health)

	for _, g := range groups {
		if dg, ok := g.(*router.DomainGroup); ok {
			log.Debug("Routes registered", zap.String("group", dg.Name()), zap.Strings("routes", dg.Paths()))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Log provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func newLogger(cfg *config.Config, extra ...zapcore.Core) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, extra...)
}

func logLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}

// seedDemoTenant fills an empty development database with generated invoices
func seedDemoTenant(ctx context.Context, cfg *config.Config, repo *persistence.GormPurchaseInvoiceRepository, anchor time.Time, log *zap.Logger) {
	if cfg.App.Env != "development" || cfg.App.DemoTenant == "" {
		return
	}
	tenantID, err := uuid.Parse(cfg.App.DemoTenant)
	if err != nil {
		log.Warn("Ignoring invalid demo tenant", zap.String("demo_tenant", cfg.App.DemoTenant), zap.Error(err))
		return
	}
	n, err := mockdata.SeedPurchaseInvoices(ctx, repo, tenantID, demoInvoices, demoSeed, anchor)
	if err != nil {
		log.Warn("Demo invoice seeding failed", zap.Error(err))
		return
	}
	log.Info("Demo invoices ready", zap.String("tenant_id", tenantID.String()), zap.Int("created", n))
}
