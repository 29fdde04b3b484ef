package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OperationKind is the kind of brokerage event a transaction records.
type OperationKind string

// Supported operation kinds.
const (
	OperationBuy        OperationKind = "buy"
	OperationSell       OperationKind = "sell"
	OperationDividend   OperationKind = "dividend"
	OperationInterest   OperationKind = "interest"
	OperationDeposit    OperationKind = "deposit"
	OperationWithdrawal OperationKind = "withdrawal"
)

// OperationKinds lists every valid kind.
var OperationKinds = []OperationKind{
	OperationBuy, OperationSell, OperationDividend,
	OperationInterest, OperationDeposit, OperationWithdrawal,
}

// Valid reports whether k is a supported kind.
func (k OperationKind) Valid() bool {
	for _, v := range OperationKinds {
		if k == v {
			return true
		}
	}
	return false
}

// IsTrade reports whether k moves shares (buy or sell).
func (k OperationKind) IsTrade() bool {
	return k == OperationBuy || k == OperationSell
}

// Transaction is one user-initiated brokerage event. Rows are append-only:
// they are never updated after insert.
type Transaction struct {
	Base
	Ticker     *string             `gorm:"size:32;index" json:"ticker,omitempty"`
	Currency   string              `gorm:"size:3;not null" json:"currency"`
	Operation  OperationKind       `gorm:"size:16;not null;index" json:"operation"`
	Date       time.Time           `gorm:"not null;index" json:"date"`
	Amount     decimal.Decimal     `gorm:"type:decimal(20,8);not null" json:"amount"`
	Fees       decimal.Decimal     `gorm:"type:decimal(20,8);not null;default:0" json:"fees"`
	StockPrice decimal.NullDecimal `gorm:"type:decimal(20,8)" json:"stock_price"`
	Quantity   decimal.NullDecimal `gorm:"type:decimal(24,10)" json:"quantity"`
	DedupKey   string              `gorm:"size:255;not null;uniqueIndex" json:"-"`
}

// TickerOrEmpty returns the ticker, or "" for pure cash operations.
func (t *Transaction) TickerOrEmpty() string {
	if t.Ticker == nil {
		return ""
	}
	return *t.Ticker
}

// NaturalKey builds the uniqueness key of the row: (date, ticker, currency,
// operation) plus stock_price for buys and sells.
func (t *Transaction) NaturalKey() string {
	parts := []string{
		Day(t.Date).Format("2006-01-02"),
		strings.ToUpper(t.TickerOrEmpty()),
		strings.ToUpper(t.Currency),
		string(t.Operation),
	}
	if t.Operation.IsTrade() {
		parts = append(parts, t.StockPrice.Decimal.String())
	}
	return strings.Join(parts, "|")
}

// BeforeCreate normalizes the date and derives the dedup key.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	t.Date = Day(t.Date)
	t.DedupKey = t.NaturalKey()
	return nil
}
