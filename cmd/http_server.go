package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/ghost-payroll/internal"
	"github.com/frahmantamala/ghost-payroll/internal/anomaly"
	anomalyPostgres "github.com/frahmantamala/ghost-payroll/internal/anomaly/postgres"
	"github.com/frahmantamala/ghost-payroll/internal/auth"
	"github.com/frahmantamala/ghost-payroll/internal/core/events"
	"github.com/frahmantamala/ghost-payroll/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/ghost-payroll/internal/dashboard/postgres"
	"github.com/frahmantamala/ghost-payroll/internal/observability"
	"github.com/frahmantamala/ghost-payroll/internal/records"
	recordsPostgres "github.com/frahmantamala/ghost-payroll/internal/records/postgres"
	"github.com/frahmantamala/ghost-payroll/internal/transport"
	"github.com/frahmantamala/ghost-payroll/internal/transport/rest"
	"github.com/frahmantamala/ghost-payroll/internal/transport/swagger"
	"github.com/frahmantamala/ghost-payroll/internal/upload"
	uploadPostgres "github.com/frahmantamala/ghost-payroll/internal/upload/postgres"
	"github.com/frahmantamala/ghost-payroll/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const openAPIPath = "./api/openapi.yml"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.EventBus.Wait()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	base := transport.NewBaseHandler(deps.Logger)

	recordRepo := recordsPostgres.NewRecordRepository(deps.Gorm)
	anomalyRepo := anomalyPostgres.NewAnomalyRepository(deps.Gorm)
	uploadRepo := uploadPostgres.NewFileUploadRepository(deps.Gorm)
	dashboardRepo := dashboardPostgres.NewDashboardRepository(deps.DB)

	scanner := newScanner(deps, recordRepo, anomalyRepo)

	recordService := records.NewService(recordRepo, deps.Logger)
	anomalyService := anomaly.NewService(anomalyRepo, recordService, scanner, deps.Logger)
	uploadService := upload.NewService(uploadRepo, recordRepo, scanner, deps.Metrics, deps.Logger)
	dashboardService := dashboard.NewService(dashboardRepo, deps.Logger)
	tokenService := auth.NewTokenService(cfg.Security.AccountTokenSecret, cfg.Security.TokenIssuer)

	opts := rest.RouterOptions{AllowedOrigins: cfg.Server.AllowedOrigins}
	if cfg.Observability.Metrics.Enabled {
		opts.MetricsPath = cfg.Observability.Metrics.Path
	}
	if _, err := swagger.LoadDocument(context.Background(), openAPIPath); err != nil {
		// the API works without its docs
		deps.Logger.Warn("openapi document unavailable, swagger disabled", "error", err)
	} else {
		opts.OpenAPIPath = openAPIPath
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health: rest.NewHealthHandler(map[string]rest.CheckFunc{
			"postgres": deps.DB.PingContext,
		}),
		Auth:      auth.NewHandler(base, tokenService),
		Records:   records.NewHandler(base, recordService),
		Anomaly:   anomaly.NewHandler(base, anomalyService),
		Upload:    upload.NewHandler(base, uploadService, cfg.Upload.MaxUploadBytes()),
		Dashboard: dashboard.NewHandler(base, dashboardService),
	}, deps.Metrics, opts, deps.Logger)
}

// newScanner wires the detector shared by uploads, manual rescans and the
// scan command.
func newScanner(deps *Dependencies, recordRepo *recordsPostgres.RecordRepository, anomalyRepo *anomalyPostgres.AnomalyRepository) *anomaly.Scanner {
	return anomaly.NewScanner(recordRepo, anomalyRepo, deps.Logger,
		anomaly.WithPublisher(deps.EventBus),
		anomaly.WithMetrics(deps.Metrics),
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)
	anomaly.NewEventHandler(lg).RegisterEventHandlers(eventBus)

	var metrics *observability.Metrics
	if config.Observability.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewDBStatsCollector(db.DB, "ghost_payroll"),
		)
		metrics = observability.NewMetrics(registry)
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gormDB,
		Router:   chi.NewRouter(),
		EventBus: eventBus,
		Metrics:  metrics,
		Logger:   lg,
	}, nil
}

// initDB opens the pgx-backed pool shared by sqlx and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
