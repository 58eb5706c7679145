// Package app wires configuration, logging and clients for the sync commands.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/angelopoggi/PFSH-Parser/internal/config"
	"github.com/angelopoggi/PFSH-Parser/internal/logging"
	"github.com/angelopoggi/PFSH-Parser/internal/notify"
	"github.com/angelopoggi/PFSH-Parser/internal/pipeline"
	"github.com/angelopoggi/PFSH-Parser/internal/repository"
	"github.com/angelopoggi/PFSH-Parser/internal/repository/postgres"
	"github.com/angelopoggi/PFSH-Parser/internal/service"
	"github.com/angelopoggi/PFSH-Parser/internal/sftp"
	"github.com/angelopoggi/PFSH-Parser/internal/shopify"
)

// App holds everything a sync command needs for one run
type App struct {
	Config *config.Config
	Logger *zap.Logger
	RunID  uuid.UUID
	Admin  *shopify.Admin
	Repos  *repository.Repositories
	Events *service.EventRecorder
	Runner *pipeline.Runner
}

// New loads configuration and builds the run's dependencies. The returned
// close func flushes the log and releases the database.
func New(ctx context.Context) (*App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig is New with an already loaded configuration
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	logger, closeLog, err := logging.New(cfg.Environment, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	runID := uuid.New()
	logger = logger.With(zap.String("run_id", runID.String()))

	repos, db := openRepositories(ctx, cfg.Database, logger)
	closeFn := func() {
		if db != nil {
			db.Close()
		}
		closeLog()
	}

	admin := shopify.NewAdmin(shopify.NewClient(cfg.Shopify, logger), logger)
	events := service.NewEventRecorder(repos.SyncEvent, runID, logger)
	runner := pipeline.NewRunner(cfg, runID, sftp.NewClient(cfg.SFTP, logger), notify.NewNotifier(cfg.SMTP, logger), logger)

	return &App{
		Config: cfg,
		Logger: logger,
		RunID:  runID,
		Admin:  admin,
		Repos:  repos,
		Events: events,
		Runner: runner,
	}, closeFn, nil
}

// Exporter builds the order extraction workflow
func (a *App) Exporter() *service.OrderExporter {
	fulfiller := service.NewFulfiller(a.Admin, a.Events, a.Logger)
	return service.NewOrderExporter(a.Admin, fulfiller, a.Events, a.Logger)
}

// Reconciler builds the shipment reconciliation workflow
func (a *App) Reconciler() *service.ShipmentReconciler {
	return service.NewShipmentReconciler(a.Admin, a.Events, a.Logger)
}

// openRepositories connects the audit database when configured. An
// unreachable database downgrades to no auditing rather than blocking the sync.
func openRepositories(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*repository.Repositories, *sql.DB) {
	if !cfg.Enabled() {
		return repository.NewNopRepositories(), nil
	}
	db, err := postgres.NewConnection(ctx, cfg)
	if err != nil {
		logger.Warn("Audit database unavailable, sync events will not be recorded", zap.Error(err))
		return repository.NewNopRepositories(), nil
	}
	return postgres.NewRepositories(db, logger), db
}
