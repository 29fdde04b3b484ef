package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	yahooBaseURL   = "https://query1.finance.yahoo.com"
	yahooChartPath = "/v8/finance/chart/"
	yahooUA        = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// yahooChartResponse is the v8 chart payload.
type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *yahooChartError   `json:"error"`
	} `json:"chart"`
}

type yahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooChartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		Currency           string  `json:"currency"`
		ExchangeName       string  `json:"exchangeName"`
		InstrumentType     string  `json:"instrumentType"`
		LongName           string  `json:"longName"`
		ShortName          string  `json:"shortName"`
		GMTOffset          int64   `json:"gmtoffset"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp []int64 `json:"timestamp"`
	Events    struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
		Splits map[string]struct {
			Date        int64   `json:"date"`
			Numerator   float64 `json:"numerator"`
			Denominator float64 `json:"denominator"`
		} `json:"splits"`
	} `json:"events"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// YahooFeed reads daily history from the Yahoo Finance v8 chart endpoint.
type YahooFeed struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	now        func() time.Time
}

// NewYahooFeed creates a Yahoo Finance feed. An empty baseURL selects the
// public endpoint.
func NewYahooFeed(httpClient *http.Client, baseURL string) *YahooFeed {
	if baseURL == "" {
		baseURL = yahooBaseURL
	}
	return &YahooFeed{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		now:        time.Now,
	}
}

// Name returns the feed's display name.
func (p *YahooFeed) Name() string { return "Yahoo Finance" }

// FetchPrices fetches daily bars since the given day.
func (p *YahooFeed) FetchPrices(ctx context.Context, ticker string, since time.Time) ([]Bar, error) {
	res, err := p.chart(ctx, ticker, since, "1d")
	if err != nil {
		return nil, &FetchError{Ticker: ticker, Op: "prices", Err: err}
	}
	if len(res.Indicators.Quote) == 0 {
		return nil, nil
	}
	q := res.Indicators.Quote[0]
	at := func(xs []*float64, i int) float64 {
		if i < len(xs) && xs[i] != nil {
			return *xs[i]
		}
		return 0
	}

	bars := make([]Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		// Days the exchange was closed come back as nulls.
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		bar := Bar{
			Date:  marketDay(ts, res.Meta.GMTOffset),
			Open:  at(q.Open, i),
			High:  at(q.High, i),
			Low:   at(q.Low, i),
			Close: *q.Close[i],
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			bar.Volume = *q.Volume[i]
		}
		if bar.Open == 0 {
			bar.Open = bar.Close
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// FetchDividends fetches the full dividend history.
func (p *YahooFeed) FetchDividends(ctx context.Context, ticker string) ([]DividendEvent, error) {
	res, err := p.chart(ctx, ticker, time.Time{}, "1mo")
	if err != nil {
		return nil, &FetchError{Ticker: ticker, Op: "dividends", Err: err}
	}
	out := make([]DividendEvent, 0, len(res.Events.Dividends))
	for _, d := range res.Events.Dividends {
		if d.Amount <= 0 {
			continue
		}
		out = append(out, DividendEvent{Date: marketDay(d.Date, res.Meta.GMTOffset), Amount: d.Amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// FetchSplits fetches the full split history.
func (p *YahooFeed) FetchSplits(ctx context.Context, ticker string) ([]SplitEvent, error) {
	res, err := p.chart(ctx, ticker, time.Time{}, "1mo")
	if err != nil {
		return nil, &FetchError{Ticker: ticker, Op: "splits", Err: err}
	}
	out := make([]SplitEvent, 0, len(res.Events.Splits))
	for _, s := range res.Events.Splits {
		if s.Numerator <= 0 || s.Denominator <= 0 {
			continue
		}
		ratio := decimal.NewFromFloat(s.Numerator).Div(decimal.NewFromFloat(s.Denominator))
		out = append(out, SplitEvent{Date: marketDay(s.Date, res.Meta.GMTOffset), Ratio: ratio})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// FetchProfile reads the instrument metadata carried by the chart payload.
func (p *YahooFeed) FetchProfile(ctx context.Context, ticker string) (*Profile, error) {
	now := p.now()
	res, err := p.chart(ctx, ticker, now.AddDate(0, 0, -7), "1d")
	if err != nil {
		return nil, &FetchError{Ticker: ticker, Op: "profile", Err: err}
	}
	name := res.Meta.LongName
	if name == "" {
		name = res.Meta.ShortName
	}
	return &Profile{
		Ticker:   ticker,
		Name:     name,
		Currency: strings.ToUpper(res.Meta.Currency),
		Exchange: res.Meta.ExchangeName,
		Type:     res.Meta.InstrumentType,
	}, nil
}

// chart performs one chart request and returns its single result.
func (p *YahooFeed) chart(ctx context.Context, ticker string, since time.Time, interval string) (*yahooChartResult, error) {
	q := url.Values{}
	q.Set("interval", interval)
	q.Set("events", "div,splits")
	q.Set("period1", strconv.FormatInt(since.Unix(), 10))
	if since.IsZero() {
		q.Set("period1", "0")
	}
	q.Set("period2", strconv.FormatInt(p.now().Unix(), 10))
	endpoint := p.baseURL + yahooChartPath + url.PathEscape(ticker) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var chartResp yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("chart error: %s: %s", chartResp.Chart.Error.Code, chartResp.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if len(chartResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart result for %s", ticker)
	}
	return &chartResp.Chart.Result[0], nil
}

// marketDay converts a Yahoo timestamp to the exchange-local trading day.
func marketDay(ts, gmtOffset int64) time.Time {
	t := time.Unix(ts+gmtOffset, 0).UTC()
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
