package services

import (
	"context"
	"time"

	"ledgerly/internal/config"
	"ledgerly/internal/ledger"
	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
	"ledgerly/internal/refresher"
)

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Ticker    *string
	Operation *models.OperationKind
	FromDate  *time.Time
	ToDate    *time.Time
}

// TransactionServicer defines the contract for the transaction ledger.
type TransactionServicer interface {
	Ingest(inputs []TransactionInput) (*IngestResult, error)
	ListTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	AllTransactions() ([]models.Transaction, error)
}

// MarketServicer defines the contract for the market data cache.
type MarketServicer interface {
	refresher.Store
	Refresh(ctx context.Context, tickers []string) (*refresher.RunResult, error)
	GetPrices(ticker string, from, to *time.Time) ([]models.StockPrice, error)
	ListSecurities() ([]models.Security, error)
}

// PerformanceFilter holds optional filter parameters for reading stored facts.
type PerformanceFilter struct {
	Portfolio  string
	Ticker     *string
	MetricType *models.MetricType
	FromDate   *time.Time
	ToDate     *time.Time
}

// PerformanceServicer defines the contract for the performance engine.
type PerformanceServicer interface {
	LoadSnapshot(asOf time.Time) (*ledger.Snapshot, error)
	Recompute(asOf time.Time) (*RecomputeResult, error)
	GetPerformance(filter PerformanceFilter) ([]models.PerformanceRow, error)
	Summary(asOf time.Time) (*Summary, error)
}

// CategorizationServicer defines the contract for the expense categorization ledger.
type CategorizationServicer interface {
	Reconcile(labels config.LabelSet) (*ReconcileResult, error)
	ListCategories() ([]models.Category, error)
	DeleteCategory(name string) (int64, error)
	DeleteSubCategory(category, subCategory string) (int64, error)

	AddRawOperations(inputs []RawOperationInput) (*ImportResult, error)
	GetRawOperation(id uint) (*models.RawOperation, error)
	ListUnprocessed(page pagination.PageRequest) (*pagination.PageResponse[models.RawOperation], error)
	IsProcessed(rawID uint) (bool, error)

	Link(rawID uint, category, subCategory string) (*models.CategorizedOperation, error)
	Unlink(rawID uint) error
	GetCategorizedOperations(year *int) ([]CategorizedOperationView, error)
}

// RunCounts are the row counters of one pipeline run.
type RunCounts struct {
	Inserted int
	Skipped  int
	Failed   int
}

// RunLogServicer defines the contract for recording pipeline runs.
type RunLogServicer interface {
	Record(kind models.RunKind, startedAt time.Time, counts RunCounts, details any)
	List(page pagination.PageRequest, kind *models.RunKind) (*pagination.PageResponse[models.RunLog], error)
}
