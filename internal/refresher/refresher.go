// Package refresher brings the market data cache up to date. Network
// fetches for many tickers run on a bounded worker pool; the resulting
// writes go through a single writer, one ticker at a time.
package refresher

import (
	"context"
	"errors"
	"time"

	"ledgerly/internal/provider"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// overlap is re-fetched before the last known day so late corrections by
// the feed are picked up.
const overlap = 5 * 24 * time.Hour

// Store defines the market data cache operations needed by the refresher.
type Store interface {
	// LastPriceDates returns the most recent stored bar per ticker. Tickers
	// without any bar are absent from the map.
	LastPriceDates(ctx context.Context, tickers []string) (map[string]time.Time, error)

	// SaveInstrument upserts everything fetched for one ticker.
	SaveInstrument(ctx context.Context, update *Update) (*SaveResult, error)
}

// Update is what was fetched for one ticker.
type Update struct {
	Ticker    string
	Profile   *provider.Profile
	Bars      []provider.Bar
	Dividends []provider.DividendEvent
	Splits    []provider.SplitEvent
}

// SaveResult counts the rows written for one ticker.
type SaveResult struct {
	Prices    int
	Dividends int
	Splits    int
}

// FailedInstrument is a ticker skipped by a run.
type FailedInstrument struct {
	Ticker string `json:"ticker"`
	Error  string `json:"error"`
}

// RunResult contains the outcome of a refresh run.
type RunResult struct {
	Tickers           int                `json:"tickers"`
	Refreshed         int                `json:"refreshed"`
	PricesUpserted    int                `json:"prices_upserted"`
	DividendsUpserted int                `json:"dividends_upserted"`
	SplitsUpserted    int                `json:"splits_upserted"`
	Failed            []FailedInstrument `json:"failed"`
	Duration          time.Duration      `json:"duration_ns"`
}

// Merge adds another run's counts to r.
func (r *RunResult) Merge(o *RunResult) {
	r.Tickers += o.Tickers
	r.Refreshed += o.Refreshed
	r.PricesUpserted += o.PricesUpserted
	r.DividendsUpserted += o.DividendsUpserted
	r.SplitsUpserted += o.SplitsUpserted
	r.Failed = append(r.Failed, o.Failed...)
	r.Duration += o.Duration
}

// Options tune a Refresher.
type Options struct {
	Concurrency int
	Timeout     time.Duration
}

// Refresher fetches market data for a set of tickers and hands it to a Store.
type Refresher struct {
	feed    provider.Feed
	store   Store
	opts    Options
	logger  *zap.SugaredLogger
	nowFunc func() time.Time
}

// New creates a Refresher. Concurrency below 1 defaults to 10.
func New(feed provider.Feed, store Store, opts Options, logger *zap.SugaredLogger) *Refresher {
	if opts.Concurrency < 1 {
		opts.Concurrency = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Refresher{feed: feed, store: store, opts: opts, logger: logger, nowFunc: time.Now}
}

type outcome struct {
	update *Update
	err    error
}

// Run refreshes the given tickers. A ticker whose fetch fails or times out is
// logged and reported in the result; it never aborts the run. Only a store
// read failure or a cancelled context returns an error.
func (r *Refresher) Run(ctx context.Context, tickers []string) (*RunResult, error) {
	start := r.nowFunc()
	result := &RunResult{Tickers: len(tickers)}
	if len(tickers) == 0 {
		r.logger.Info("no tickers to refresh")
		return result, nil
	}

	last, err := r.store.LastPriceDates(ctx, tickers)
	if err != nil {
		return nil, err
	}

	outcomes := make([]outcome, len(tickers))
	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)
	for i, ticker := range tickers {
		i, ticker := i, ticker
		since := time.Time{}
		if d, ok := last[ticker]; ok {
			since = d.Add(-overlap)
		}
		g.Go(func() error {
			outcomes[i] = r.fetch(ctx, ticker, since)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, o := range outcomes {
		ticker := tickers[i]
		if o.err != nil {
			r.logger.Warnw("skipping instrument", "ticker", ticker, "error", o.err)
			result.Failed = append(result.Failed, FailedInstrument{Ticker: ticker, Error: o.err.Error()})
			continue
		}
		saved, err := r.store.SaveInstrument(ctx, o.update)
		if err != nil {
			r.logger.Warnw("failed to store instrument", "ticker", ticker, "error", err)
			result.Failed = append(result.Failed, FailedInstrument{Ticker: ticker, Error: err.Error()})
			continue
		}
		result.Refreshed++
		result.PricesUpserted += saved.Prices
		result.DividendsUpserted += saved.Dividends
		result.SplitsUpserted += saved.Splits
	}

	result.Duration = r.nowFunc().Sub(start)
	r.logger.Infow("refresh complete",
		"tickers", result.Tickers,
		"refreshed", result.Refreshed,
		"failed", len(result.Failed),
		"prices", result.PricesUpserted,
	)
	return result, nil
}

// fetch gathers everything for one ticker under its own timeout. FX
// pseudo-tickers only have prices.
func (r *Refresher) fetch(ctx context.Context, ticker string, since time.Time) outcome {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	u := &Update{Ticker: ticker}
	var err error

	if u.Bars, err = r.feed.FetchPrices(ctx, ticker, since); err != nil {
		return outcome{err: err}
	}
	if provider.IsForexTicker(ticker) {
		return outcome{update: u}
	}
	if u.Dividends, err = r.feed.FetchDividends(ctx, ticker); err != nil {
		return outcome{err: err}
	}
	if u.Splits, err = r.feed.FetchSplits(ctx, ticker); err != nil {
		return outcome{err: err}
	}
	// A missing profile still leaves usable history.
	if u.Profile, err = r.feed.FetchProfile(ctx, ticker); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return outcome{err: err}
		}
		r.logger.Warnw("profile unavailable", "ticker", ticker, "error", err)
		u.Profile = nil
	}
	return outcome{update: u}
}
