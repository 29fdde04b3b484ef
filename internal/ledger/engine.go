package ledger

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"ledgerly/internal/models"

	"github.com/shopspring/decimal"
)

// ErrNoEvents is returned by Compute for an empty snapshot.
var ErrNoEvents = errors.New("ledger: snapshot has no events")

// Frequency selects the resampling of the Sharpe ratio.
type Frequency string

// Sharpe frequencies.
const (
	Daily   Frequency = "daily"
	Monthly Frequency = "monthly"
	Annual  Frequency = "annual"
)

// ParseFrequency accepts daily, monthly or annual.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case Daily, Monthly, Annual:
		return f, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// Snapshot is the immutable input of one computation: raw transactions and
// splits as stored, plus the market data known at AsOf.
type Snapshot struct {
	Events []Event
	Splits []SplitEvent

	// Prices and Dividends are keyed by ticker. Dividends are per share.
	Prices    map[string][]Point
	Dividends map[string][]Point

	// TickerCurrency is the quote currency of each ticker's prices. FX maps
	// a currency to its units per one unit of ReportingCurrency.
	TickerCurrency    map[string]string
	FX                map[string][]Point
	ReportingCurrency string

	AsOf            time.Time
	RiskFreeRate    float64
	SharpeFrequency Frequency
}

// TickerSeries holds the daily series of one instrument, aligned on the
// report calendar.
type TickerSeries struct {
	Quantity            []float64
	Price               []float64
	AverageCost         []float64
	Invested            []float64
	ValuationGross      []float64
	ValuationNet        []float64
	Percentage          []float64
	DividendsDaily      []float64
	DividendsCumulative []float64
	FeesCumulative      []float64
	RealizedGain        []float64
}

// PortfolioSeries holds the daily aggregates across instruments.
type PortfolioSeries struct {
	ValuationGross         []float64
	ValuationNet           []float64
	Invested               []float64
	Capital                []float64
	RealizedGainCumulative []float64
	Percentage             []float64
	DividendsDaily         []float64
	DividendsCumulative    []float64
	FeesCumulative         []float64
}

// Report is the full output of Compute.
type Report struct {
	Calendar        Calendar
	Tickers         []string
	PerTicker       map[string]*TickerSeries
	Portfolio       PortfolioSeries
	Cash            CashLedger
	Monthly         []MonthlyPoint
	Stats           RiskStats
	InitialInvested float64
	DividendYield   Metric
	FinalStates     map[string]InstrumentState
	Warnings        []string
}

func newTickerSeries(n int) *TickerSeries {
	mk := func() []float64 { return make([]float64, n) }
	return &TickerSeries{
		Quantity: mk(), Price: mk(), AverageCost: mk(), Invested: mk(),
		ValuationGross: mk(), ValuationNet: mk(), Percentage: mk(),
		DividendsDaily: mk(), DividendsCumulative: mk(), FeesCumulative: mk(),
		RealizedGain: mk(),
	}
}

func newPortfolioSeries(n int) PortfolioSeries {
	mk := func() []float64 { return make([]float64, n) }
	return PortfolioSeries{
		ValuationGross: mk(), ValuationNet: mk(), Invested: mk(), Capital: mk(),
		RealizedGainCumulative: mk(), Percentage: mk(),
		DividendsDaily: mk(), DividendsCumulative: mk(), FeesCumulative: mk(),
	}
}

// Compute adjusts the snapshot for splits, converts it to the reporting
// currency and replays it day by day from the first transaction to AsOf.
//
// A ticker without any price is valued at its average cost so that missing
// market data shows up as a flat line and a warning rather than a failure.
func Compute(s Snapshot) (*Report, error) {
	if len(s.Events) == 0 {
		return nil, ErrNoEvents
	}

	adjusted := AdjustSplits(s.Events, s.Splits)
	SortEvents(adjusted)

	end := models.Day(s.AsOf)
	if last := adjusted[len(adjusted)-1].Date; s.AsOf.IsZero() || end.Before(last) {
		end = last
	}
	cal := NewCalendar(adjusted[0].Date, end)
	n := len(cal)

	work := s
	work.Events = adjusted
	events, prices, warnings := normalizeCurrency(&work, cal)

	report := &Report{
		Calendar:  cal,
		PerTicker: make(map[string]*TickerSeries),
		Portfolio: newPortfolioSeries(n),
		Cash:      cashOnCalendar(events, cal),
		Warnings:  warnings,
	}

	for _, e := range events {
		if e.Ticker == "" || !e.Operation.IsTrade() {
			continue
		}
		if _, ok := report.PerTicker[e.Ticker]; !ok {
			report.PerTicker[e.Ticker] = newTickerSeries(n)
			report.Tickers = append(report.Tickers, e.Ticker)
		}
	}
	sort.Strings(report.Tickers)

	missingPrice := make(map[string]bool)
	for _, t := range report.Tickers {
		if p, ok := prices[t]; !ok || len(p) == 0 || IsUndefined(p[0]) {
			missingPrice[t] = true
			report.Warnings = append(report.Warnings, fmt.Sprintf("no market data for %s, valued at average cost", t))
		}
	}
	dividends := make(map[string][]float64, len(s.Dividends))
	for t, pts := range s.Dividends {
		dividends[t] = sparseDaily(pts, cal)
	}

	book := NewBook()
	var tracker capitalTracker
	realizedCum := 0.0
	next := 0

	for i, day := range cal {
		realizedToday := decimal.Zero
		for next < len(events) && !events[next].Date.After(day) {
			e := events[next]
			tracker.apply(e)
			realizedToday = realizedToday.Add(book.Apply(e))
			next++
		}
		// Recoverable gains never go below zero.
		realizedCum = math.Max(realizedCum+realizedToday.InexactFloat64(), 0)

		pf := &report.Portfolio
		pf.RealizedGainCumulative[i] = realizedCum
		pf.Capital[i] = tracker.total().InexactFloat64()

		for _, t := range report.Tickers {
			ts := report.PerTicker[t]
			st := book.State(t)
			qty := st.Quantity.InexactFloat64()
			cost := st.CostBasis.InexactFloat64()
			avg := st.AverageCost().InexactFloat64()

			price := avg
			if !missingPrice[t] {
				price = prices[t][i]
			}

			ts.Quantity[i] = qty
			ts.Price[i] = price
			ts.Invested[i] = cost
			ts.FeesCumulative[i] = st.Fees.InexactFloat64()
			ts.RealizedGain[i] = math.Max(st.RealizedGain.InexactFloat64(), 0)
			ts.ValuationGross[i] = qty * price
			ts.ValuationNet[i] = qty*price - cost
			if avg > 0 {
				ts.AverageCost[i] = avg
				ts.Percentage[i] = (price/avg - 1) * 100
			} else {
				ts.AverageCost[i] = Undefined
				ts.Percentage[i] = Undefined
			}

			if d, ok := dividends[t]; ok {
				ts.DividendsDaily[i] = d[i] * qty
			}
			ts.DividendsCumulative[i] = ts.DividendsDaily[i]
			if i > 0 {
				ts.DividendsCumulative[i] += ts.DividendsCumulative[i-1]
			}

			pf.ValuationGross[i] += ts.ValuationGross[i]
			pf.ValuationNet[i] += ts.ValuationNet[i]
			pf.Invested[i] += cost
			pf.DividendsDaily[i] += ts.DividendsDaily[i]
			pf.DividendsCumulative[i] += ts.DividendsCumulative[i]
			pf.FeesCumulative[i] += ts.FeesCumulative[i]
		}

		pf.ValuationNet[i] += realizedCum
		pf.Percentage[i] = PortfolioPercentage(pf.Capital[i], pf.ValuationNet[i])
	}

	report.Warnings = append(report.Warnings, book.Warnings()...)
	report.FinalStates = make(map[string]InstrumentState, len(report.Tickers))
	for _, t := range book.Tickers() {
		report.FinalStates[t] = book.State(t)
	}
	report.InitialInvested = tracker.total().InexactFloat64()
	report.Monthly = MonthlyEvolution(cal, report.Portfolio.ValuationGross, events)
	report.Stats = ComputeRiskStats(cal, report.Portfolio.ValuationGross, s.RiskFreeRate, s.SharpeFrequency)
	report.DividendYield = dividendYield(events, report.Portfolio.ValuationGross)
	return report, nil
}

// PortfolioPercentage is (capital + gain) / capital × 100 − 100, reported as
// 0 when no capital has been invested.
func PortfolioPercentage(capital, gain float64) float64 {
	if capital == 0 {
		return 0
	}
	return (capital+gain)/capital*100 - 100
}

// dividendYield is net dividends received over the final valuation, in percent.
func dividendYield(events []Event, valuation []float64) Metric {
	if len(valuation) == 0 {
		return Unavailable()
	}
	total := decimal.Zero
	for _, e := range events {
		if e.Operation == models.OperationDividend {
			total = total.Add(e.Amount.Sub(e.Fees))
		}
	}
	last := valuation[len(valuation)-1]
	if last == 0 {
		return Unavailable()
	}
	return Known(total.InexactFloat64() / last * 100)
}
