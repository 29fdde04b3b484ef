package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Security is the reference profile of a listed instrument.
type Security struct {
	Ticker    string    `gorm:"primaryKey;size:32" json:"ticker"`
	Name      string    `json:"name"`
	Currency  string    `gorm:"size:3" json:"currency"`
	Exchange  string    `json:"exchange,omitempty"`
	Sector    string    `json:"sector,omitempty"`
	Country   string    `json:"country,omitempty"`
	ISIN      string    `gorm:"size:12" json:"isin,omitempty"`
	Website   string    `json:"website,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockPrice is one daily OHLCV bar. FX rates are stored as bars of
// pseudo-tickers such as "EURUSD=X".
type StockPrice struct {
	ID     uint      `gorm:"primaryKey" json:"-"`
	Ticker string    `gorm:"size:32;not null;uniqueIndex:idx_stock_price_ticker_date" json:"ticker"`
	Date   time.Time `gorm:"not null;uniqueIndex:idx_stock_price_ticker_date" json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Split is a share split effective on Date: one old share becomes Ratio new ones.
type Split struct {
	ID     uint            `gorm:"primaryKey" json:"-"`
	Ticker string          `gorm:"size:32;not null;uniqueIndex:idx_split_ticker_date" json:"ticker"`
	Date   time.Time       `gorm:"not null;uniqueIndex:idx_split_ticker_date" json:"date"`
	Ratio  decimal.Decimal `gorm:"type:decimal(20,10);not null" json:"ratio"`
}

// Dividend is a cash dividend per share paid on its ex-date.
type Dividend struct {
	ID     uint      `gorm:"primaryKey" json:"-"`
	Ticker string    `gorm:"size:32;not null;uniqueIndex:idx_dividend_ticker_date" json:"ticker"`
	Date   time.Time `gorm:"not null;uniqueIndex:idx_dividend_ticker_date" json:"date"`
	Amount float64   `gorm:"not null" json:"amount"`
}
