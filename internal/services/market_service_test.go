package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledgerly/internal/models"
	"ledgerly/internal/provider"
	"ledgerly/internal/refresher"
	"ledgerly/internal/testutil"
)

// stubFeed serves fixed bars and records which tickers were requested.
type stubFeed struct {
	mu        sync.Mutex
	requested []string
	fail      map[string]bool
	currency  string
}

func (f *stubFeed) Name() string { return "stub" }

func (f *stubFeed) FetchPrices(_ context.Context, ticker string, _ time.Time) ([]provider.Bar, error) {
	f.mu.Lock()
	f.requested = append(f.requested, ticker)
	f.mu.Unlock()
	if f.fail[ticker] {
		return nil, &provider.FetchError{Ticker: ticker, Op: "prices", Err: errors.New("boom")}
	}
	return []provider.Bar{
		{Date: testutil.Date(2024, 1, 2), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100},
		{Date: testutil.Date(2024, 1, 3), Open: 10.5, High: 12, Low: 10, Close: 11, Volume: 120},
	}, nil
}

func (f *stubFeed) FetchDividends(_ context.Context, _ string) ([]provider.DividendEvent, error) {
	return []provider.DividendEvent{{Date: testutil.Date(2024, 1, 3), Amount: 0.5}}, nil
}

func (f *stubFeed) FetchSplits(_ context.Context, _ string) ([]provider.SplitEvent, error) {
	return []provider.SplitEvent{{Date: testutil.Date(2023, 6, 1), Ratio: decimal.NewFromInt(2)}}, nil
}

func (f *stubFeed) FetchProfile(_ context.Context, ticker string) (*provider.Profile, error) {
	return &provider.Profile{Ticker: ticker, Name: ticker + " Inc", Currency: f.currency}, nil
}

func (f *stubFeed) wasRequested(ticker string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requested {
		if r == ticker {
			return true
		}
	}
	return false
}

func TestSaveInstrument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewMarketService(db, &stubFeed{}, provider.NewForex("EUR"), refresher.Options{}, NewRunLogService(db))
	ctx := context.Background()

	update := &refresher.Update{
		Ticker:    "xyz",
		Profile:   &provider.Profile{Ticker: "XYZ", Name: "XYZ Corp", Currency: "usd"},
		Bars:      []provider.Bar{{Date: testutil.Date(2024, 1, 2), Open: 1, Close: 2}},
		Dividends: []provider.DividendEvent{{Date: testutil.Date(2024, 1, 2), Amount: 0.1}},
		Splits:    []provider.SplitEvent{{Date: testutil.Date(2023, 1, 2), Ratio: decimal.NewFromInt(3)}},
	}
	res, err := svc.SaveInstrument(ctx, update)
	testutil.AssertNoError(t, err)
	if res.Prices != 1 || res.Dividends != 1 || res.Splits != 1 {
		t.Errorf("unexpected save result %+v", res)
	}

	// Same keys again with corrected values.
	update.Bars[0].Close = 3
	update.Profile.Name = "XYZ Corporation"
	_, err = svc.SaveInstrument(ctx, update)
	testutil.AssertNoError(t, err)

	if n := testutil.CountRows(t, db, &models.StockPrice{}); n != 1 {
		t.Errorf("expected upsert to keep 1 bar, got %d", n)
	}
	var bar models.StockPrice
	if err := db.First(&bar).Error; err != nil {
		t.Fatalf("failed to load bar: %v", err)
	}
	if bar.Ticker != "XYZ" || bar.Close != 3 {
		t.Errorf("expected corrected XYZ bar, got %+v", bar)
	}
	var sec models.Security
	if err := db.First(&sec, "ticker = ?", "XYZ").Error; err != nil {
		t.Fatalf("failed to load security: %v", err)
	}
	if sec.Name != "XYZ Corporation" || sec.Currency != "USD" {
		t.Errorf("unexpected security %+v", sec)
	}

	last, err := svc.LastPriceDates(ctx, []string{"XYZ", "NOPE"})
	testutil.AssertNoError(t, err)
	if d, ok := last["XYZ"]; !ok || !d.Equal(testutil.Date(2024, 1, 2)) {
		t.Errorf("expected last XYZ bar on 2024-01-02, got %v", last["XYZ"])
	}
	if _, ok := last["NOPE"]; ok {
		t.Error("ticker without bars must be absent")
	}
}

func TestRefresh(t *testing.T) {
	t.Run("ledger_tickers_and_fx", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		feed := &stubFeed{currency: "USD", fail: map[string]bool{"BAD": true}}
		svc := NewMarketService(db, feed, provider.NewForex("EUR"), refresher.Options{Concurrency: 2, Timeout: time.Second}, NewRunLogService(db))

		testutil.CreateTestTrade(t, db, models.OperationBuy, "AAPL", testutil.Date(2024, 1, 2), 1, 10, 0)
		testutil.CreateTestTrade(t, db, models.OperationBuy, "BAD", testutil.Date(2024, 1, 2), 1, 10, 0)

		res, err := svc.Refresh(context.Background(), nil)
		testutil.AssertNoError(t, err)

		if res.Tickers != 3 {
			t.Errorf("expected AAPL, BAD and one FX ticker, got %d", res.Tickers)
		}
		if len(res.Failed) != 1 || res.Failed[0].Ticker != "BAD" {
			t.Errorf("expected BAD to fail alone, got %+v", res.Failed)
		}
		if !feed.wasRequested("EURUSD=X") {
			t.Error("expected the USD rate to be fetched once AAPL is known to quote in USD")
		}

		prices, err := svc.GetPrices("aapl", nil, nil)
		testutil.AssertNoError(t, err)
		if len(prices) != 2 {
			t.Errorf("expected 2 AAPL bars, got %d", len(prices))
		}
		fx, err := svc.GetPrices("EURUSD=X", nil, nil)
		testutil.AssertNoError(t, err)
		if len(fx) != 2 {
			t.Errorf("expected 2 FX bars, got %d", len(fx))
		}
		if n := testutil.CountRows(t, db, &models.Dividend{}); n != 1 {
			t.Errorf("FX tickers must not store dividends, got %d rows", n)
		}

		var run models.RunLog
		if err := db.Where("kind = ?", models.RunRefresh).First(&run).Error; err != nil {
			t.Fatalf("expected a refresh run log: %v", err)
		}
		if run.Failed != 1 {
			t.Errorf("expected 1 failed instrument in run log, got %d", run.Failed)
		}
	})

	t.Run("explicit_tickers", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		feed := &stubFeed{currency: "EUR"}
		svc := NewMarketService(db, feed, provider.NewForex("EUR"), refresher.Options{}, NewRunLogService(db))

		res, err := svc.Refresh(context.Background(), []string{" mc.pa ", "MC.PA"})
		testutil.AssertNoError(t, err)
		if res.Tickers != 1 || res.Refreshed != 1 {
			t.Errorf("expected one deduplicated ticker, got %+v", res)
		}
	})
}

func TestGetPrices(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewMarketService(db, &stubFeed{}, provider.NewForex("EUR"), refresher.Options{}, NewRunLogService(db))
	testutil.CreateTestPrices(t, db, "XYZ", testutil.Date(2024, 1, 1), 1, 2, 3, 4)

	t.Run("window", func(t *testing.T) {
		from, to := testutil.Date(2024, 1, 2), testutil.Date(2024, 1, 3)
		prices, err := svc.GetPrices("XYZ", &from, &to)
		testutil.AssertNoError(t, err)
		if len(prices) != 2 || prices[0].Open != 2 {
			t.Errorf("unexpected window %+v", prices)
		}
	})

	t.Run("empty_window_for_known_ticker", func(t *testing.T) {
		from := testutil.Date(2025, 1, 1)
		prices, err := svc.GetPrices("XYZ", &from, nil)
		testutil.AssertNoError(t, err)
		if len(prices) != 0 {
			t.Errorf("expected no bars, got %d", len(prices))
		}
	})

	t.Run("unknown_ticker", func(t *testing.T) {
		_, err := svc.GetPrices("NOPE", nil, nil)
		testutil.AssertAppError(t, err, "UNKNOWN_TICKER")
	})
}
