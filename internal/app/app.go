// Package app assembles the record store, transaction processor and
// reporting service from configuration.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/traders/internal/config"
	"github.com/mamadbah2/traders/internal/repository/csvfile"
	"github.com/mamadbah2/traders/internal/repository/mongodb"
	"github.com/mamadbah2/traders/internal/repository/records"
	"github.com/mamadbah2/traders/internal/repository/sheets"
	"github.com/mamadbah2/traders/internal/service/reporting"
	"github.com/mamadbah2/traders/internal/service/transactions"
	whatsappclient "github.com/mamadbah2/traders/pkg/clients/whatsapp"
)

// App holds the wired components.
type App struct {
	Store        *records.Store
	Transactions *transactions.Service
	Reporting    *reporting.Service

	closers []func(context.Context) error
	logger  *zap.Logger
}

// New builds the application. Table initialization failures are logged and
// the application keeps running with whichever tables are usable.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve timezone: %w", err)
	}

	table, err := NewTable(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	store := records.NewStore(table, logger.Named("repo.records"))

	if err := store.EnsureAll(ctx); err != nil {
		logger.Error("table initialization incomplete", zap.Error(err))
	}

	history, err := store.ModelHistory(ctx)
	if err != nil {
		logger.Warn("model suggestions start empty", zap.Error(err))
	}
	index := transactions.NewModelIndex(history)

	a := &App{
		Store:        store,
		Transactions: transactions.NewService(store, index, loc, logger.Named("svc.transactions")),
		logger:       logger,
	}

	var opts []reporting.Option
	if cfg.MongoDB.URI != "" {
		archive, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			return nil, fmt.Errorf("init mongodb archive: %w", err)
		}
		a.closers = append(a.closers, archive.Close)
		opts = append(opts, reporting.WithArchive(archive))
		logger.Info("monthly summary archive enabled", zap.String("db", cfg.MongoDB.DBName))
	}
	if cfg.WhatsApp.Enabled() {
		opts = append(opts, reporting.WithNotifier(whatsappclient.NewClient(cfg.WhatsApp), cfg.WhatsApp.Recipient))
		logger.Info("whatsapp report notifications enabled")
	}
	a.Reporting = reporting.NewService(a.Transactions, cfg.Reporting.Currency, logger.Named("svc.reporting"), opts...)

	return a, nil
}

// NewTable selects the table backend named by the configuration.
func NewTable(ctx context.Context, cfg *config.Config, logger *zap.Logger) (records.Table, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Storage.Backend {
	case config.BackendSheets:
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named("repo.sheets"))
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.BackendCSV, "":
		return csvfile.NewTable(cfg.Storage, logger.Named("repo.csv")), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Storage.Backend)
	}
}

// Close releases external connections.
func (a *App) Close(ctx context.Context) {
	for _, closeFn := range a.closers {
		if err := closeFn(ctx); err != nil {
			a.logger.Error("failed to close resource", zap.Error(err))
		}
	}
}
