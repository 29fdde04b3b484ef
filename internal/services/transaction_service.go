package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/logger"
	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
	"ledgerly/internal/validator"
)

// TransactionInput is one raw brokerage row as submitted for ingestion.
// Date accepts "2006-01-02" or RFC 3339.
type TransactionInput struct {
	Ticker     *string          `json:"ticker"`
	Currency   string           `json:"currency"`
	Operation  string           `json:"operation"`
	Date       string           `json:"date"`
	Amount     *decimal.Decimal `json:"amount"`
	Fees       *decimal.Decimal `json:"fees"`
	StockPrice *decimal.Decimal `json:"stock_price"`
	Quantity   *decimal.Decimal `json:"quantity"`
}

// RowError describes a rejected input row by its position in the batch.
type RowError struct {
	Index   int    `json:"index"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IngestResult summarizes one ingestion batch.
type IngestResult struct {
	Inserted   int        `json:"inserted"`
	Duplicates int        `json:"duplicates"`
	Rejected   []RowError `json:"rejected"`
}

// transactionService handles the append-only transaction ledger.
type transactionService struct {
	db   *gorm.DB
	runs RunLogServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, runs RunLogServicer) TransactionServicer {
	return &transactionService{db: db, runs: runs}
}

// parseDate accepts a calendar date or a full timestamp.
func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

// toModel validates one input row and converts it to a stored transaction.
func (in *TransactionInput) toModel() (*models.Transaction, error) {
	op := models.OperationKind(strings.ToLower(strings.TrimSpace(in.Operation)))
	if !op.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidOperationKind, "unsupported operation "+strings.TrimSpace(in.Operation))
	}
	if in.Date == "" {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "date is required")
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date "+in.Date)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "currency is required")
	}
	if !validator.IsCurrency(currency) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown currency "+currency)
	}
	if in.Amount == nil {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "amount is required")
	}
	if in.Fees == nil {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "fees is required")
	}

	tx := &models.Transaction{
		Currency:  currency,
		Operation: op,
		Date:      models.Day(date),
		Amount:    *in.Amount,
		Fees:      *in.Fees,
	}
	if in.Ticker != nil {
		if t := strings.ToUpper(strings.TrimSpace(*in.Ticker)); t != "" {
			tx.Ticker = &t
		}
	}

	if op.IsTrade() {
		if tx.Ticker == nil {
			return nil, apperrors.WithMessage(apperrors.ErrMissingField, "ticker is required for "+string(op))
		}
		if in.StockPrice == nil {
			return nil, apperrors.WithMessage(apperrors.ErrMissingField, "stock_price is required for "+string(op))
		}
		if in.Quantity == nil {
			return nil, apperrors.WithMessage(apperrors.ErrMissingField, "quantity is required for "+string(op))
		}
		if !in.Quantity.IsPositive() || !in.StockPrice.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "stock_price and quantity must be positive")
		}
	}
	if op == models.OperationDividend && tx.Ticker == nil {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "ticker is required for dividend")
	}
	if in.StockPrice != nil {
		tx.StockPrice = decimal.NewNullDecimal(*in.StockPrice)
	}
	if in.Quantity != nil {
		tx.Quantity = decimal.NewNullDecimal(*in.Quantity)
	}
	return tx, nil
}

// Ingest validates and appends a batch of rows. Invalid rows are reported and
// skipped; rows whose natural key is already stored count as duplicates. Only
// a storage failure aborts the batch.
func (s *transactionService) Ingest(inputs []TransactionInput) (*IngestResult, error) {
	started := time.Now()
	result := &IngestResult{Rejected: []RowError{}}

	for i := range inputs {
		tx, err := inputs[i].toModel()
		if err != nil {
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			result.Rejected = append(result.Rejected, RowError{Index: i, Code: appErr.Code, Message: appErr.Message})
			continue
		}

		res := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_key"}},
			DoNothing: true,
		}).Create(tx)
		if res.Error != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			result.Duplicates++
			continue
		}
		result.Inserted++
	}

	if len(result.Rejected) > 0 {
		logger.Get().Warnw("rejected transaction rows", "count", len(result.Rejected))
	}
	s.runs.Record(models.RunIngest, started, RunCounts{
		Inserted: result.Inserted,
		Skipped:  result.Duplicates,
		Failed:   len(result.Rejected),
	}, map[string]any{"rows": len(inputs), "rejected": result.Rejected})

	return result, nil
}

// ListTransactions retrieves a paginated, filtered view of the ledger in
// chronological order.
func (s *transactionService) ListTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{})
	if filter.Ticker != nil {
		base = base.Where("ticker = ?", strings.ToUpper(*filter.Ticker))
	}
	if filter.Operation != nil {
		base = base.Where("operation = ?", *filter.Operation)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", models.Day(*filter.FromDate))
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", models.Day(*filter.ToDate))
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txs []models.Transaction
	if err := base.Order("date ASC, id ASC").Scopes(pagination.Paginate(page)).Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(txs, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

// AllTransactions returns the whole ledger in insertion order within a day.
func (s *transactionService) AllTransactions() ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.Order("date ASC, id ASC").Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}
