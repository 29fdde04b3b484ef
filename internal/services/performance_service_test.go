package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledgerly/internal/ledger"
	"ledgerly/internal/models"
	"ledgerly/internal/provider"
	"ledgerly/internal/testutil"
)

// seedSplitScenario stores a buy of 10 XYZ at 100, a 2:1 split and a sell of
// the resulting 20 shares at 60.
func seedSplitScenario(t *testing.T, svc TransactionServicer) {
	t.Helper()
	res, err := svc.Ingest([]TransactionInput{
		tradeInput("buy", "XYZ", "2023-01-01", "10", "100"),
		tradeInput("sell", "XYZ", "2023-07-01", "20", "60"),
	})
	testutil.AssertNoError(t, err)
	if res.Inserted != 2 {
		t.Fatalf("expected 2 inserted, got %+v", res)
	}
}

func TestLoadSnapshot(t *testing.T) {
	t.Run("no_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		runs := NewRunLogService(db)
		svc := NewPerformanceService(db, provider.NewForex("EUR"), PerformanceOptions{}, runs)

		_, err := svc.LoadSnapshot(time.Time{})
		testutil.AssertAppError(t, err, "NO_TRANSACTIONS")
	})

	t.Run("market_data_and_fx", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		runs := NewRunLogService(db)
		svc := NewPerformanceService(db, provider.NewForex("EUR"), PerformanceOptions{}, runs)

		ticker := "AAPL"
		tx := &models.Transaction{
			Ticker:     &ticker,
			Currency:   "USD",
			Operation:  models.OperationBuy,
			Date:       testutil.Date(2023, 1, 2),
			Amount:     decimal.NewFromInt(150),
			Fees:       decimal.Zero,
			StockPrice: decimal.NewNullDecimal(decimal.NewFromInt(150)),
			Quantity:   decimal.NewNullDecimal(decimal.NewFromInt(1)),
		}
		if err := db.Create(tx).Error; err != nil {
			t.Fatalf("failed to create transaction: %v", err)
		}
		if err := db.Create(&models.Security{Ticker: "AAPL", Name: "Apple", Currency: "USD"}).Error; err != nil {
			t.Fatalf("failed to create security: %v", err)
		}
		testutil.CreateTestPrices(t, db, "AAPL", testutil.Date(2023, 1, 2), 150, 151)
		testutil.CreateTestPrices(t, db, "EURUSD=X", testutil.Date(2023, 1, 2), 1.1, 1.2)
		testutil.CreateTestSplit(t, db, "AAPL", testutil.Date(2023, 6, 1), 4)
		if err := db.Create(&models.Dividend{Ticker: "AAPL", Date: testutil.Date(2023, 2, 10), Amount: 0.23}).Error; err != nil {
			t.Fatalf("failed to create dividend: %v", err)
		}

		snap, err := svc.LoadSnapshot(testutil.Date(2023, 3, 1))
		testutil.AssertNoError(t, err)

		if len(snap.Events) != 1 || snap.Events[0].Ticker != "AAPL" {
			t.Fatalf("unexpected events %+v", snap.Events)
		}
		if len(snap.Prices["AAPL"]) != 2 {
			t.Errorf("expected 2 AAPL prices, got %d", len(snap.Prices["AAPL"]))
		}
		if len(snap.FX["USD"]) != 2 || snap.FX["USD"][1].Value != 1.2 {
			t.Errorf("expected USD rates from EURUSD=X, got %+v", snap.FX["USD"])
		}
		if snap.TickerCurrency["AAPL"] != "USD" {
			t.Errorf("expected AAPL quoted in USD, got %q", snap.TickerCurrency["AAPL"])
		}
		if len(snap.Splits) != 1 || len(snap.Dividends["AAPL"]) != 1 {
			t.Errorf("expected 1 split and 1 dividend, got %d and %d", len(snap.Splits), len(snap.Dividends["AAPL"]))
		}
		if snap.ReportingCurrency != "EUR" || snap.SharpeFrequency != ledger.Annual {
			t.Errorf("unexpected defaults %q %q", snap.ReportingCurrency, snap.SharpeFrequency)
		}
	})
}

func TestRecompute(t *testing.T) {
	setup := func(t *testing.T) (PerformanceServicer, func()) {
		db := testutil.SetupTestDB(t)
		runs := NewRunLogService(db)
		seedSplitScenario(t, NewTransactionService(db, runs))
		testutil.CreateTestSplit(t, db, "XYZ", testutil.Date(2023, 6, 1), 2)
		svc := NewPerformanceService(db, provider.NewForex("EUR"), PerformanceOptions{PortfolioName: "main"}, runs)
		return svc, func() { testutil.TeardownTestDB(t, db) }
	}

	t.Run("split_scenario", func(t *testing.T) {
		svc, done := setup(t)
		defer done()

		res, err := svc.Recompute(testutil.Date(2023, 7, 1))
		testutil.AssertNoError(t, err)
		if res.Rows == 0 {
			t.Fatal("expected facts to be written")
		}

		ticker := models.PortfolioTicker
		metric := models.MetricRealizedGainCumulative
		rows, err := svc.GetPerformance(PerformanceFilter{Portfolio: "main", Ticker: &ticker, MetricType: &metric})
		testutil.AssertNoError(t, err)
		if len(rows) != 182 {
			t.Fatalf("expected one row per day from Jan 1 to Jul 1, got %d", len(rows))
		}
		last := rows[len(rows)-1]
		if last.Value == nil {
			t.Fatal("expected realized gain to be defined")
		}
		testutil.AssertFloat(t, "realized gain", *last.Value, 198)
	})

	t.Run("idempotent", func(t *testing.T) {
		svc, done := setup(t)
		defer done()

		first, err := svc.Recompute(testutil.Date(2023, 7, 1))
		testutil.AssertNoError(t, err)
		second, err := svc.Recompute(testutil.Date(2023, 7, 1))
		testutil.AssertNoError(t, err)

		rows, err := svc.GetPerformance(PerformanceFilter{})
		testutil.AssertNoError(t, err)
		if len(rows) != first.Rows || first.Rows != second.Rows {
			t.Errorf("expected %d rows after two runs, got %d", first.Rows, len(rows))
		}
		if second.Pruned != 0 {
			t.Errorf("expected nothing pruned, got %d", second.Pruned)
		}

		seen := make(map[string]bool, len(rows))
		for _, r := range rows {
			key := r.Date.Format("2006-01-02") + r.Ticker + string(r.MetricType) + r.PortfolioName
			if seen[key] {
				t.Fatalf("duplicate fact %s", key)
			}
			seen[key] = true
		}
	})

	t.Run("prunes_stale_rows", func(t *testing.T) {
		svc, done := setup(t)
		defer done()

		_, err := svc.Recompute(testutil.Date(2023, 7, 31))
		testutil.AssertNoError(t, err)
		// Later clock for the second run.
		svc.(*performanceService).nowFunc = func() time.Time { return time.Now().Add(time.Second) }
		res, err := svc.Recompute(testutil.Date(2023, 7, 1))
		testutil.AssertNoError(t, err)
		if res.Pruned == 0 {
			t.Error("expected rows after the new end date to be pruned")
		}

		from := testutil.Date(2023, 7, 2)
		rows, err := svc.GetPerformance(PerformanceFilter{FromDate: &from})
		testutil.AssertNoError(t, err)
		if len(rows) != 0 {
			t.Errorf("expected no facts after Jul 1, got %d", len(rows))
		}
	})

	t.Run("sorted_output", func(t *testing.T) {
		svc, done := setup(t)
		defer done()

		_, err := svc.Recompute(testutil.Date(2023, 7, 1))
		testutil.AssertNoError(t, err)
		rows, err := svc.GetPerformance(PerformanceFilter{})
		testutil.AssertNoError(t, err)

		for i := 1; i < len(rows); i++ {
			a, b := rows[i-1], rows[i]
			ka := a.PortfolioName + "|" + a.Ticker + "|" + string(a.MetricType)
			kb := b.PortfolioName + "|" + b.Ticker + "|" + string(b.MetricType)
			if ka > kb || (ka == kb && a.Date.After(b.Date)) {
				t.Fatalf("rows out of order at %d: %s %s then %s %s", i, ka, a.Date, kb, b.Date)
			}
		}
	})

	t.Run("no_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPerformanceService(db, provider.NewForex("EUR"), PerformanceOptions{}, NewRunLogService(db))

		_, err := svc.Recompute(time.Now())
		testutil.AssertAppError(t, err, "NO_TRANSACTIONS")
	})
}

func TestSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	runs := NewRunLogService(db)
	seedSplitScenario(t, NewTransactionService(db, runs))
	testutil.CreateTestSplit(t, db, "XYZ", testutil.Date(2023, 6, 1), 2)
	svc := NewPerformanceService(db, provider.NewForex("EUR"), PerformanceOptions{}, runs)

	sum, err := svc.Summary(testutil.Date(2023, 7, 1))
	testutil.AssertNoError(t, err)

	if len(sum.Positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(sum.Positions))
	}
	p := sum.Positions[0]
	if p.Status != "flat" {
		t.Errorf("expected flat after full exit, got %s", p.Status)
	}
	testutil.AssertFloat(t, "quantity", p.Quantity, 0)
	testutil.AssertFloat(t, "cost basis", p.CostBasis, 0)
	testutil.AssertFloat(t, "realized gain", p.RealizedGain, 198)
	if len(sum.Warnings) == 0 {
		t.Error("expected a warning for missing market data")
	}
	if n := testutil.CountRows(t, db, &models.PerformanceRow{}); n != 0 {
		t.Errorf("summary must not persist facts, found %d rows", n)
	}
}
