package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/mizanhq/mizan-api/internal/domain/analyze"
	"github.com/mizanhq/mizan-api/internal/domain/report"
	"github.com/mizanhq/mizan-api/internal/domain/rewrite"
	"github.com/mizanhq/mizan-api/internal/domain/usage"
	"github.com/mizanhq/mizan-api/pkg/config"
	"github.com/mizanhq/mizan-api/pkg/cron"
	"github.com/mizanhq/mizan-api/pkg/db"
	"github.com/mizanhq/mizan-api/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	UsageRepo *usage.Repository

	// Services
	UsageService   *usage.Service
	ReportStore    storage.Store
	ReportService  *report.Service
	Writer         rewrite.Writer
	AnalyzeService *analyze.Service

	// Handlers
	AnalyzeHandler *analyze.Handler

	Scheduler *cron.Scheduler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initServices initializes the service layer
func (d *Dependencies) initServices() error {
	d.UsageRepo = usage.NewRepository(d.DB.Pool)
	d.UsageService = usage.NewService(d.UsageRepo, d.Logger)

	store, err := storage.New(&storage.Config{LocalPath: d.Config.Storage.ReportsPath})
	if err != nil {
		return fmt.Errorf("failed to init report storage: %w", err)
	}
	d.ReportStore = store

	renderer := report.NewChromeRenderer(30 * time.Second)
	d.ReportService = report.NewService(d.ReportStore, renderer, d.Logger)

	// Executive rewrite runs only when a Gemini key is configured; without
	// one the deterministic narrative is served unchanged.
	if d.Config.Gemini.Enabled() {
		writer, err := rewrite.NewGeminiWriter(
			context.Background(),
			d.Config.Gemini.APIKey,
			d.Config.Gemini.Model,
			d.Logger,
		)
		if err != nil {
			return fmt.Errorf("failed to init gemini writer: %w", err)
		}
		d.Writer = writer
		d.Logger.Info("executive rewrite enabled", "model", d.Config.Gemini.Model)
	} else {
		d.Writer = rewrite.Disabled{}
		d.Logger.Info("executive rewrite disabled, serving deterministic narrative")
	}

	tracer := otel.GetTracerProvider().Tracer("mizan/api")
	d.AnalyzeService = analyze.NewService(d.UsageService, d.Writer, d.ReportService, d.Logger, tracer)

	d.Scheduler = cron.NewScheduler(d.ReportStore, d.UsageRepo, d.Config.Storage.ReportRetentionDays, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes the HTTP handlers
func (d *Dependencies) initHandlers() {
	d.AnalyzeHandler = analyze.NewHandler(d.AnalyzeService, d.ReportService, d.Logger)
	d.Logger.Info("handlers initialized")
}

// Cleanup releases all resources held by the dependency graph.
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		d.Scheduler.Stop()
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("dependencies cleaned up")
}
