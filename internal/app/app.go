// Package app wires configuration, storage and services together for the
// HTTP server and the operator CLI.
package app

import (
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"ledgerly/internal/config"
	"ledgerly/internal/database"
	"ledgerly/internal/ledger"
	"ledgerly/internal/logger"
	"ledgerly/internal/provider"
	"ledgerly/internal/refresher"
	"ledgerly/internal/services"
)

// App holds the long-lived dependencies of one process.
type App struct {
	Config *config.Config
	Labels config.LabelSet

	db      *database.Manager
	Runs    services.RunLogServicer
	Ledger  services.TransactionServicer
	Market  services.MarketServicer
	Perf    services.PerformanceServicer
	Expense services.CategorizationServicer
}

// New opens the database, brings the schema up to date and builds every
// service from cfg.
func New(cfg *config.Config) (*App, error) {
	freq, err := ledger.ParseFrequency(cfg.SharpeFrequency)
	if err != nil {
		return nil, fmt.Errorf("invalid SHARPE_FREQUENCY: %w", err)
	}

	labels := config.DefaultCategoryLabels()
	if cfg.CategoryLabelsFile != "" {
		if labels, err = config.LoadCategoryLabels(cfg.CategoryLabelsFile); err != nil {
			return nil, fmt.Errorf("failed to load category labels: %w", err)
		}
	}

	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		_ = dbManager.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	a := Build(dbManager.DB(), cfg, provider.NewYahooFeed(&http.Client{Timeout: cfg.FetchTimeout}, cfg.MarketDataURL), freq)
	a.db = dbManager
	a.Labels = labels
	return a, nil
}

// Build assembles the services on an open database. Tests call it with an
// in-memory database and a stub feed.
func Build(db *gorm.DB, cfg *config.Config, feed provider.Feed, freq ledger.Frequency) *App {
	forex := provider.NewForex(cfg.ReportingCurrency)
	runs := services.NewRunLogService(db)
	return &App{
		Config: cfg,
		Labels: config.DefaultCategoryLabels(),
		Runs:   runs,
		Ledger: services.NewTransactionService(db, runs),
		Market: services.NewMarketService(db, feed, forex, refresher.Options{
			Concurrency: cfg.FetchConcurrency,
			Timeout:     cfg.FetchTimeout,
		}, runs),
		Perf: services.NewPerformanceService(db, forex, services.PerformanceOptions{
			PortfolioName:   cfg.PortfolioName,
			RiskFreeRate:    cfg.RiskFreeRate,
			SharpeFrequency: freq,
		}, runs),
		Expense: services.NewCategorizationService(db, runs),
	}
}

// ReconcileLabels aligns the stored categories with the configured label set.
func (a *App) ReconcileLabels() error {
	res, err := a.Expense.Reconcile(a.Labels)
	if err != nil {
		return fmt.Errorf("failed to reconcile categories: %w", err)
	}
	logger.Named("app").Infow("categories reconciled",
		"categories_created", res.CategoriesCreated,
		"sub_categories_created", res.SubCategoriesCreated,
		"categories_deleted", res.CategoriesDeleted,
		"sub_categories_deleted", res.SubCategoriesDeleted,
		"links_removed", res.LinksRemoved,
	)
	return nil
}

// Close releases the database connection pool.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
