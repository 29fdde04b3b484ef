package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"ledgerly/internal/config"
	"ledgerly/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns UTC midnight of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Dec parses a decimal literal, failing the test on bad input.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

// CreateTestTrade stores a buy or sell of qty shares at price.
func CreateTestTrade(t *testing.T, db *gorm.DB, op models.OperationKind, ticker string, date time.Time, qty, price, fees float64) *models.Transaction {
	t.Helper()

	q := decimal.NewFromFloat(qty)
	p := decimal.NewFromFloat(price)
	tx := &models.Transaction{
		Ticker:     &ticker,
		Currency:   "EUR",
		Operation:  op,
		Date:       date,
		Amount:     q.Mul(p),
		Fees:       decimal.NewFromFloat(fees),
		StockPrice: decimal.NewNullDecimal(p),
		Quantity:   decimal.NewNullDecimal(q),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test trade: %v", err)
	}
	return tx
}

// CreateTestCashOperation stores a deposit, withdrawal, interest or
// dividend without price or quantity.
func CreateTestCashOperation(t *testing.T, db *gorm.DB, op models.OperationKind, ticker *string, date time.Time, amount float64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Ticker:    ticker,
		Currency:  "EUR",
		Operation: op,
		Date:      date,
		Amount:    decimal.NewFromFloat(amount),
		Fees:      decimal.Zero,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test cash operation: %v", err)
	}
	return tx
}

// CreateTestPrices stores one bar per day from start with the given opens.
func CreateTestPrices(t *testing.T, db *gorm.DB, ticker string, start time.Time, opens ...float64) {
	t.Helper()

	for i, o := range opens {
		p := &models.StockPrice{
			Ticker: ticker,
			Date:   start.AddDate(0, 0, i),
			Open:   o,
			High:   o,
			Low:    o,
			Close:  o,
		}
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("failed to create test price: %v", err)
		}
	}
}

// CreateTestSplit stores a split of the given ratio.
func CreateTestSplit(t *testing.T, db *gorm.DB, ticker string, date time.Time, ratio float64) *models.Split {
	t.Helper()

	s := &models.Split{Ticker: ticker, Date: date, Ratio: decimal.NewFromFloat(ratio)}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("failed to create test split: %v", err)
	}
	return s
}

// CreateTestRawOperation stores a statement line with a unique label.
func CreateTestRawOperation(t *testing.T, db *gorm.DB, date time.Time, amount float64) *models.RawOperation {
	t.Helper()

	op := &models.RawOperation{
		OperationDate: date,
		ShortLabel:    fmt.Sprintf("OP %d", nextID()),
		OperationType: "CARD",
		FullLabel:     "card payment",
		Amount:        decimal.NewFromFloat(amount),
	}
	if err := db.Create(op).Error; err != nil {
		t.Fatalf("failed to create test raw operation: %v", err)
	}
	return op
}

// SeedCategories stores every category and sub-category of the label set.
func SeedCategories(t *testing.T, db *gorm.DB, labels config.LabelSet) {
	t.Helper()

	for _, l := range labels.Categories {
		cat := &models.Category{Name: l.Name}
		if err := db.Create(cat).Error; err != nil {
			t.Fatalf("failed to create test category: %v", err)
		}
		for _, name := range l.SubCategories {
			sub := &models.SubCategory{CategoryID: cat.ID, Name: name}
			if err := db.Create(sub).Error; err != nil {
				t.Fatalf("failed to create test sub-category: %v", err)
			}
		}
	}
}

// CountRows returns the number of rows of the model's table.
func CountRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
