package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// 2024-01-02 and 2024-01-03 14:30 UTC, New York open.
const chartPayload = `{"chart":{"result":[{
	"meta":{"symbol":"AAPL","currency":"USD","exchangeName":"NMS","instrumentType":"EQUITY",
		"longName":"Apple Inc.","gmtoffset":-18000,"regularMarketPrice":185.2},
	"timestamp":[1704205800,1704292200,1704378600],
	"events":{
		"dividends":{"1699626600":{"amount":0.24,"date":1699626600}},
		"splits":{"1598880600":{"date":1598880600,"numerator":4,"denominator":1,"splitRatio":"4:1"}}
	},
	"indicators":{"quote":[{
		"open":[187.15,184.22,null],
		"high":[188.44,185.88,null],
		"low":[183.89,183.43,null],
		"close":[185.64,184.25,null],
		"volume":[82488700,58414500,null]
	}]}
}],"error":null}}`

const chartNotFound = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

// newChartServer serves chartPayload for AAPL and a chart error otherwise.
func newChartServer(calls *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		ticker := strings.TrimPrefix(r.URL.Path, yahooChartPath)
		w.Header().Set("Content-Type", "application/json")
		if ticker != "AAPL" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(chartNotFound))
			return
		}
		_, _ = w.Write([]byte(chartPayload))
	}))
}

func newTestFeed(srv *httptest.Server) *YahooFeed {
	feed := NewYahooFeed(srv.Client(), srv.URL)
	feed.now = func() time.Time { return time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC) }
	return feed
}

func TestYahooFeed_FetchPrices(t *testing.T) {
	t.Run("parses_bars_and_skips_nulls", func(t *testing.T) {
		srv := newChartServer(nil)
		defer srv.Close()

		bars, err := newTestFeed(srv).FetchPrices(context.Background(), "AAPL", time.Time{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(bars) != 2 {
			t.Fatalf("expected 2 bars, got %d", len(bars))
		}
		if !bars[0].Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected 2024-01-02, got %s", bars[0].Date)
		}
		if bars[0].Open != 187.15 || bars[0].Close != 185.64 {
			t.Errorf("unexpected bar %+v", bars[0])
		}
		if bars[1].Volume != 58414500 {
			t.Errorf("expected volume 58414500, got %d", bars[1].Volume)
		}
	})

	t.Run("sends_period_and_events", func(t *testing.T) {
		var query string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			_, _ = w.Write([]byte(chartPayload))
		}))
		defer srv.Close()

		since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		if _, err := newTestFeed(srv).FetchPrices(context.Background(), "AAPL", since); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(query, "period1=1704067200") {
			t.Errorf("expected period1 in query, got %s", query)
		}
		if !strings.Contains(query, "interval=1d") {
			t.Errorf("expected daily interval, got %s", query)
		}
	})

	t.Run("chart_error", func(t *testing.T) {
		srv := newChartServer(nil)
		defer srv.Close()

		_, err := newTestFeed(srv).FetchPrices(context.Background(), "NOPE", time.Time{})
		if err == nil {
			t.Fatal("expected error for unknown ticker")
		}
		var fe *FetchError
		if !asFetchError(err, &fe) || fe.Ticker != "NOPE" || fe.Op != "prices" {
			t.Errorf("expected FetchError for NOPE prices, got %v", err)
		}
	})

	t.Run("context_cancelled", func(t *testing.T) {
		srv := newChartServer(nil)
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := newTestFeed(srv).FetchPrices(ctx, "AAPL", time.Time{}); err == nil {
			t.Fatal("expected error on cancelled context")
		}
	})
}

func TestYahooFeed_Events(t *testing.T) {
	srv := newChartServer(nil)
	defer srv.Close()
	feed := newTestFeed(srv)

	t.Run("dividends", func(t *testing.T) {
		divs, err := feed.FetchDividends(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(divs) != 1 || divs[0].Amount != 0.24 {
			t.Fatalf("unexpected dividends %+v", divs)
		}
		if !divs[0].Date.Equal(time.Date(2023, 11, 10, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected 2023-11-10, got %s", divs[0].Date)
		}
	})

	t.Run("splits", func(t *testing.T) {
		splits, err := feed.FetchSplits(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(splits) != 1 || splits[0].Ratio.String() != "4" {
			t.Fatalf("unexpected splits %+v", splits)
		}
	})

	t.Run("profile", func(t *testing.T) {
		p, err := feed.FetchProfile(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name != "Apple Inc." || p.Currency != "USD" || p.Exchange != "NMS" {
			t.Errorf("unexpected profile %+v", p)
		}
	})
}

func TestYahooFeed_Name(t *testing.T) {
	if got := NewYahooFeed(http.DefaultClient, "").Name(); got != "Yahoo Finance" {
		t.Errorf("Name() = %q", got)
	}
}
