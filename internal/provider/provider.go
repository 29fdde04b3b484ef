// Package provider defines the market data feed the ledger consumes and a
// Yahoo Finance implementation of it.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one daily OHLCV observation.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// DividendEvent is a cash dividend per share on its ex-date.
type DividendEvent struct {
	Date   time.Time
	Amount float64
}

// SplitEvent is a share split; Ratio new shares replace one old share.
type SplitEvent struct {
	Date  time.Time
	Ratio decimal.Decimal
}

// Profile is the reference data of an instrument.
type Profile struct {
	Ticker   string
	Name     string
	Currency string
	Exchange string
	Type     string
}

// FetchError reports a failed fetch for one ticker.
type FetchError struct {
	Ticker string
	Op     string
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s for %s: %v", e.Op, e.Ticker, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error { return e.Err }

// Feed fetches historical market data for one ticker at a time. All calls
// are independent reads and safe to run concurrently.
type Feed interface {
	// Name returns the feed's display name (e.g., "Yahoo Finance").
	Name() string

	// FetchPrices returns daily bars from since (inclusive) to today. A zero
	// since requests the full history.
	FetchPrices(ctx context.Context, ticker string, since time.Time) ([]Bar, error)

	// FetchDividends returns the full dividend history.
	FetchDividends(ctx context.Context, ticker string) ([]DividendEvent, error)

	// FetchSplits returns the full split history.
	FetchSplits(ctx context.Context, ticker string) ([]SplitEvent, error)

	// FetchProfile returns the instrument's reference data.
	FetchProfile(ctx context.Context, ticker string) (*Profile, error)
}
