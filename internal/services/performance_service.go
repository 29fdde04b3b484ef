package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/ledger"
	"ledgerly/internal/logger"
	"ledgerly/internal/models"
	"ledgerly/internal/provider"
)

// PerformanceOptions configure how the engine is fed.
type PerformanceOptions struct {
	PortfolioName   string
	RiskFreeRate    float64
	SharpeFrequency ledger.Frequency
}

// RecomputeResult summarizes one recomputation.
type RecomputeResult struct {
	Portfolio  string           `json:"portfolio"`
	From       time.Time        `json:"from"`
	To         time.Time        `json:"to"`
	Tickers    []string         `json:"tickers"`
	Rows       int              `json:"rows"`
	Pruned     int64            `json:"pruned"`
	Stats      ledger.RiskStats `json:"stats"`
	Warnings   []string         `json:"warnings"`
	ComputedAt time.Time        `json:"computed_at"`
}

// Position is the closing state of one instrument.
type Position struct {
	Ticker       string  `json:"ticker"`
	Status       string  `json:"status"`
	Quantity     float64 `json:"quantity"`
	CostBasis    float64 `json:"cost_basis"`
	AverageCost  float64 `json:"average_cost"`
	RealizedGain float64 `json:"realized_gain"`
	Fees         float64 `json:"fees"`
}

// Summary is a live view of the portfolio computed without persisting.
type Summary struct {
	Portfolio         string                `json:"portfolio"`
	ReportingCurrency string                `json:"reporting_currency"`
	AsOf              time.Time             `json:"as_of"`
	ValuationGross    ledger.Metric         `json:"valuation_gross"`
	ValuationNet      ledger.Metric         `json:"valuation_net"`
	Percentage        ledger.Metric         `json:"twr_percentage"`
	Cash              ledger.Metric         `json:"cash"`
	InitialInvested   float64               `json:"initial_invested"`
	DividendYield     ledger.Metric         `json:"dividend_yield"`
	Stats             ledger.RiskStats      `json:"stats"`
	Positions         []Position            `json:"positions"`
	Monthly           []ledger.MonthlyPoint `json:"monthly"`
	Warnings          []string              `json:"warnings"`
}

// performanceService derives performance facts from the ledger and the
// market data cache and persists them.
type performanceService struct {
	db      *gorm.DB
	forex   *provider.Forex
	opts    PerformanceOptions
	runs    RunLogServicer
	nowFunc func() time.Time
}

// NewPerformanceService creates a new PerformanceServicer.
func NewPerformanceService(db *gorm.DB, forex *provider.Forex, opts PerformanceOptions, runs RunLogServicer) PerformanceServicer {
	if opts.PortfolioName == "" {
		opts.PortfolioName = "main"
	}
	if opts.SharpeFrequency == "" {
		opts.SharpeFrequency = ledger.Annual
	}
	return &performanceService{db: db, forex: forex, opts: opts, runs: runs, nowFunc: time.Now}
}

// barValue prices a day at its open, falling back to the close when the feed
// has no open.
func barValue(p models.StockPrice) float64 {
	if p.Open > 0 {
		return p.Open
	}
	return p.Close
}

func (s *performanceService) pricePoints(ticker string) ([]ledger.Point, error) {
	var rows []models.StockPrice
	if err := s.db.Where("ticker = ?", ticker).Order("date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	pts := make([]ledger.Point, 0, len(rows))
	for _, r := range rows {
		if v := barValue(r); v > 0 {
			pts = append(pts, ledger.Point{Date: models.Day(r.Date), Value: v})
		}
	}
	return pts, nil
}

// LoadSnapshot reads everything the engine needs into an immutable snapshot.
func (s *performanceService) LoadSnapshot(asOf time.Time) (*ledger.Snapshot, error) {
	var txs []models.Transaction
	if err := s.db.Order("date ASC, id ASC").Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(txs) == 0 {
		return nil, apperrors.ErrNoTransactions
	}

	snap := &ledger.Snapshot{
		Events:            ledger.EventsFromTransactions(txs),
		Prices:            make(map[string][]ledger.Point),
		Dividends:         make(map[string][]ledger.Point),
		TickerCurrency:    make(map[string]string),
		FX:                make(map[string][]ledger.Point),
		ReportingCurrency: s.forex.ReportingCurrency(),
		AsOf:              asOf,
		RiskFreeRate:      s.opts.RiskFreeRate,
		SharpeFrequency:   s.opts.SharpeFrequency,
	}

	tickerSet := make(map[string]bool)
	currencySet := make(map[string]bool)
	for _, e := range snap.Events {
		if e.Ticker != "" {
			tickerSet[e.Ticker] = true
		}
		currencySet[e.Currency] = true
	}
	tickers := make([]string, 0, len(tickerSet))
	for t := range tickerSet {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	if len(tickers) > 0 {
		var splits []models.Split
		if err := s.db.Where("ticker IN ?", tickers).Order("date ASC").Find(&splits).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		snap.Splits = ledger.SplitsFromModels(splits)

		var secs []models.Security
		if err := s.db.Where("ticker IN ?", tickers).Find(&secs).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, sec := range secs {
			if sec.Currency != "" {
				cur := strings.ToUpper(sec.Currency)
				snap.TickerCurrency[strings.ToUpper(sec.Ticker)] = cur
				currencySet[cur] = true
			}
		}

		var divs []models.Dividend
		if err := s.db.Where("ticker IN ?", tickers).Order("date ASC").Find(&divs).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, d := range divs {
			t := strings.ToUpper(d.Ticker)
			snap.Dividends[t] = append(snap.Dividends[t], ledger.Point{Date: models.Day(d.Date), Value: d.Amount})
		}
	}

	for _, t := range tickers {
		pts, err := s.pricePoints(t)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(pts) > 0 {
			snap.Prices[t] = pts
		}
	}

	currencies := make([]string, 0, len(currencySet))
	for c := range currencySet {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	for _, c := range currencies {
		if !s.forex.NeedsConversion(c) {
			continue
		}
		pts, err := s.pricePoints(s.forex.Ticker(c))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(pts) > 0 {
			snap.FX[c] = pts
		}
	}

	return snap, nil
}

func (s *performanceService) compute(asOf time.Time) (*ledger.Report, error) {
	snap, err := s.LoadSnapshot(asOf)
	if err != nil {
		return nil, err
	}
	report, err := ledger.Compute(*snap)
	if err != nil {
		if errors.Is(err, ledger.ErrNoEvents) {
			return nil, apperrors.ErrNoTransactions
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, w := range report.Warnings {
		logger.Get().Warnw("performance warning", "portfolio", s.opts.PortfolioName, "warning", w)
	}
	return report, nil
}

// Recompute derives every performance fact up to asOf and replaces the
// portfolio's stored rows in one database transaction: facts are upserted
// on (date, ticker, metric_type, portfolio_name) and rows the new run did
// not produce are pruned.
func (s *performanceService) Recompute(asOf time.Time) (*RecomputeResult, error) {
	started := s.nowFunc()

	report, err := s.compute(asOf)
	if err != nil {
		return nil, err
	}

	// Postgres keeps microseconds; truncating keeps the prune comparison exact.
	computedAt := s.nowFunc().UTC().Truncate(time.Microsecond)
	facts := report.Facts()
	rows := make([]models.PerformanceRow, 0, len(facts))
	for _, f := range facts {
		rows = append(rows, models.PerformanceRow{
			Date:          models.Day(f.Date),
			Ticker:        f.Ticker,
			MetricType:    f.Metric,
			PortfolioName: s.opts.PortfolioName,
			Value:         f.Value,
			ComputedAt:    computedAt,
		})
	}

	var pruned int64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "date"}, {Name: "ticker"}, {Name: "metric_type"}, {Name: "portfolio_name"},
				},
				DoUpdates: clause.AssignmentColumns([]string{"value", "computed_at"}),
			}).CreateInBatches(&rows, upsertBatchSize).Error; err != nil {
				return err
			}
		}
		res := tx.Where("portfolio_name = ? AND computed_at < ?", s.opts.PortfolioName, computedAt).
			Delete(&models.PerformanceRow{})
		if res.Error != nil {
			return res.Error
		}
		pruned = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &RecomputeResult{
		Portfolio:  s.opts.PortfolioName,
		From:       report.Calendar[0],
		To:         report.Calendar[len(report.Calendar)-1],
		Tickers:    report.Tickers,
		Rows:       len(rows),
		Pruned:     pruned,
		Stats:      report.Stats,
		Warnings:   report.Warnings,
		ComputedAt: computedAt,
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}

	logger.Get().Infow("performance recomputed",
		"portfolio", s.opts.PortfolioName,
		"rows", result.Rows,
		"pruned", pruned,
		"tickers", len(report.Tickers),
	)
	s.runs.Record(models.RunRecompute, started, RunCounts{
		Inserted: result.Rows,
		Skipped:  int(pruned),
	}, map[string]any{"portfolio": s.opts.PortfolioName, "warnings": result.Warnings})

	return result, nil
}

// GetPerformance returns stored facts sorted by (portfolio, ticker, metric, date).
func (s *performanceService) GetPerformance(filter PerformanceFilter) ([]models.PerformanceRow, error) {
	q := s.db.Model(&models.PerformanceRow{})
	if filter.Portfolio != "" {
		q = q.Where("portfolio_name = ?", filter.Portfolio)
	}
	if filter.Ticker != nil {
		q = q.Where("ticker = ?", strings.ToUpper(*filter.Ticker))
	}
	if filter.MetricType != nil {
		q = q.Where("metric_type = ?", *filter.MetricType)
	}
	if filter.FromDate != nil {
		q = q.Where("date >= ?", models.Day(*filter.FromDate))
	}
	if filter.ToDate != nil {
		q = q.Where("date <= ?", models.Day(*filter.ToDate))
	}

	var rows []models.PerformanceRow
	if err := q.Order("portfolio_name ASC, ticker ASC, metric_type ASC, date ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if rows == nil {
		rows = []models.PerformanceRow{}
	}
	return rows, nil
}

// Summary computes the portfolio state up to asOf without writing anything.
func (s *performanceService) Summary(asOf time.Time) (*Summary, error) {
	report, err := s.compute(asOf)
	if err != nil {
		return nil, err
	}

	last := len(report.Calendar) - 1
	pf := report.Portfolio
	sum := &Summary{
		Portfolio:         s.opts.PortfolioName,
		ReportingCurrency: s.forex.ReportingCurrency(),
		AsOf:              report.Calendar[last],
		ValuationGross:    ledger.Known(pf.ValuationGross[last]),
		ValuationNet:      ledger.Known(pf.ValuationNet[last]),
		Percentage:        ledger.Known(pf.Percentage[last]),
		Cash:              ledger.Known(report.Cash.Cumulative[last]),
		InitialInvested:   report.InitialInvested,
		DividendYield:     report.DividendYield,
		Stats:             report.Stats,
		Monthly:           report.Monthly,
		Warnings:          report.Warnings,
		Positions:         make([]Position, 0, len(report.FinalStates)),
	}
	if sum.Warnings == nil {
		sum.Warnings = []string{}
	}

	tickers := make([]string, 0, len(report.FinalStates))
	for t := range report.FinalStates {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	for _, t := range tickers {
		st := report.FinalStates[t]
		sum.Positions = append(sum.Positions, Position{
			Ticker:       t,
			Status:       st.Status().String(),
			Quantity:     st.Quantity.InexactFloat64(),
			CostBasis:    st.CostBasis.InexactFloat64(),
			AverageCost:  st.AverageCost().InexactFloat64(),
			RealizedGain: st.RealizedGain.InexactFloat64(),
			Fees:         st.Fees.InexactFloat64(),
		})
	}
	return sum, nil
}
