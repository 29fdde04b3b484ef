package testutil_test

import (
	"testing"

	"ledgerly/internal/config"
	"ledgerly/internal/errors"
	"ledgerly/internal/models"
	"ledgerly/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{
		"transactions", "securities", "stock_prices", "splits", "dividends", "performances",
		"categories", "sub_categories", "raw_operations", "categorized_operations", "run_logs",
	} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	buy := testutil.CreateTestTrade(t, db, models.OperationBuy, "XYZ", testutil.Date(2023, 1, 1), 10, 100, 1)
	if buy.ID == 0 {
		t.Fatal("trade should have a non-zero ID")
	}
	if !buy.Amount.Equal(testutil.Dec(t, "1000")) {
		t.Errorf("expected amount 1000, got %s", buy.Amount)
	}
	if buy.DedupKey != "2023-01-01|XYZ|EUR|buy|100" {
		t.Errorf("unexpected dedup key %q", buy.DedupKey)
	}

	testutil.CreateTestPrices(t, db, "XYZ", testutil.Date(2023, 1, 1), 100, 101, 102)
	if n := testutil.CountRows(t, db, &models.StockPrice{}); n != 3 {
		t.Errorf("expected 3 prices, got %d", n)
	}

	testutil.SeedCategories(t, db, config.DefaultCategoryLabels())
	if n := testutil.CountRows(t, db, &models.Category{}); n != int64(len(config.DefaultCategoryLabels().Categories)) {
		t.Errorf("unexpected category count %d", n)
	}

	op := testutil.CreateTestRawOperation(t, db, testutil.Date(2023, 2, 1), -12.5)
	if op.ID == 0 {
		t.Fatal("raw operation should have a non-zero ID")
	}
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrNotLinked, "NOT_LINKED")
	testutil.AssertAppError(t, errors.WithMessage(errors.ErrMissingField, "fees is required"), "MISSING_FIELD")
}
