package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/logger"
	"ledgerly/internal/models"
	"ledgerly/internal/provider"
	"ledgerly/internal/refresher"
)

const upsertBatchSize = 500

// marketService owns the market data cache: securities, daily bars, splits
// and dividends, plus the FX pseudo-tickers.
type marketService struct {
	db        *gorm.DB
	refresher *refresher.Refresher
	forex     *provider.Forex
	runs      RunLogServicer
}

// NewMarketService creates a new MarketServicer refreshing from feed.
func NewMarketService(db *gorm.DB, feed provider.Feed, forex *provider.Forex, opts refresher.Options, runs RunLogServicer) MarketServicer {
	s := &marketService{db: db, forex: forex, runs: runs}
	s.refresher = refresher.New(feed, s, opts, logger.Named("refresher"))
	return s
}

// Refresh updates the cache for the given tickers, or for every traded
// ticker when none are given, then for the FX rates their currencies need.
// Per-ticker failures are reported in the result, never returned.
func (s *marketService) Refresh(ctx context.Context, tickers []string) (*refresher.RunResult, error) {
	started := time.Now()

	if len(tickers) == 0 {
		var err error
		if tickers, err = s.tradedTickers(); err != nil {
			return nil, err
		}
	}
	tickers = normalizeTickers(tickers)

	result, err := s.refresher.Run(ctx, tickers)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	currencies, err := s.currencies(tickers)
	if err != nil {
		return nil, err
	}
	if fx := s.forex.Tickers(currencies); len(fx) > 0 {
		fxResult, err := s.refresher.Run(ctx, fx)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result.Merge(fxResult)
	}

	s.runs.Record(models.RunRefresh, started, RunCounts{
		Inserted: result.PricesUpserted,
		Failed:   len(result.Failed),
	}, result)

	return result, nil
}

// tradedTickers returns the distinct tickers found in the transaction ledger.
func (s *marketService) tradedTickers() ([]string, error) {
	var tickers []string
	if err := s.db.Model(&models.Transaction{}).
		Where("ticker IS NOT NULL AND ticker <> ''").
		Distinct().Pluck("ticker", &tickers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tickers, nil
}

// currencies collects the quote currencies of the tickers and every currency
// used in the ledger.
func (s *marketService) currencies(tickers []string) ([]string, error) {
	var quoted []string
	if len(tickers) > 0 {
		if err := s.db.Model(&models.Security{}).
			Where("ticker IN ? AND currency <> ''", tickers).
			Distinct().Pluck("currency", &quoted).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	var booked []string
	if err := s.db.Model(&models.Transaction{}).Distinct().Pluck("currency", &booked).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return append(quoted, booked...), nil
}

func normalizeTickers(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// LastPriceDates returns the most recent stored bar per ticker.
func (s *marketService) LastPriceDates(ctx context.Context, tickers []string) (map[string]time.Time, error) {
	last := make(map[string]time.Time, len(tickers))
	for _, t := range tickers {
		var rows []models.StockPrice
		if err := s.db.WithContext(ctx).
			Where("ticker = ?", t).
			Order("date DESC").Limit(1).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			last[t] = rows[0].Date
		}
	}
	return last, nil
}

// SaveInstrument upserts everything fetched for one ticker in a single
// database transaction. Existing rows for the same (ticker, date) are
// overwritten with the feed's latest values.
func (s *marketService) SaveInstrument(ctx context.Context, u *refresher.Update) (*refresher.SaveResult, error) {
	res := &refresher.SaveResult{}
	ticker := strings.ToUpper(u.Ticker)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.Profile != nil {
			sec := &models.Security{
				Ticker:   ticker,
				Name:     u.Profile.Name,
				Currency: strings.ToUpper(u.Profile.Currency),
				Exchange: u.Profile.Exchange,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "ticker"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "currency", "exchange", "updated_at"}),
			}).Create(sec).Error; err != nil {
				return err
			}
		}

		if len(u.Bars) > 0 {
			prices := make([]models.StockPrice, 0, len(u.Bars))
			for _, b := range u.Bars {
				prices = append(prices, models.StockPrice{
					Ticker: ticker,
					Date:   models.Day(b.Date),
					Open:   b.Open,
					High:   b.High,
					Low:    b.Low,
					Close:  b.Close,
					Volume: b.Volume,
				})
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
			}).CreateInBatches(&prices, upsertBatchSize).Error; err != nil {
				return err
			}
			res.Prices = len(prices)
		}

		if len(u.Dividends) > 0 {
			divs := make([]models.Dividend, 0, len(u.Dividends))
			for _, d := range u.Dividends {
				divs = append(divs, models.Dividend{Ticker: ticker, Date: models.Day(d.Date), Amount: d.Amount})
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"amount"}),
			}).CreateInBatches(&divs, upsertBatchSize).Error; err != nil {
				return err
			}
			res.Dividends = len(divs)
		}

		if len(u.Splits) > 0 {
			splits := make([]models.Split, 0, len(u.Splits))
			for _, sp := range u.Splits {
				splits = append(splits, models.Split{Ticker: ticker, Date: models.Day(sp.Date), Ratio: sp.Ratio})
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"ratio"}),
			}).CreateInBatches(&splits, upsertBatchSize).Error; err != nil {
				return err
			}
			res.Splits = len(splits)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetPrices returns the cached bars of a ticker within the optional bounds.
func (s *marketService) GetPrices(ticker string, from, to *time.Time) ([]models.StockPrice, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	q := s.db.Where("ticker = ?", ticker)
	if from != nil {
		q = q.Where("date >= ?", models.Day(*from))
	}
	if to != nil {
		q = q.Where("date <= ?", models.Day(*to))
	}

	var prices []models.StockPrice
	if err := q.Order("date ASC").Find(&prices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(prices) > 0 {
		return prices, nil
	}

	// An empty window is fine for a known ticker.
	var known int64
	if err := s.db.Model(&models.StockPrice{}).Where("ticker = ?", ticker).Count(&known).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if known == 0 {
		var sec models.Security
		if err := s.db.Where("ticker = ?", ticker).First(&sec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrUnknownTicker, "no market data for "+ticker)
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return []models.StockPrice{}, nil
}

// ListSecurities returns every cached security profile.
func (s *marketService) ListSecurities() ([]models.Security, error) {
	var secs []models.Security
	if err := s.db.Order("ticker ASC").Find(&secs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return secs, nil
}
