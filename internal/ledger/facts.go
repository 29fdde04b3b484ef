package ledger

import (
	"time"

	"ledgerly/internal/models"
)

// Fact is one derived (date, ticker, metric) value. A nil Value is undefined.
type Fact struct {
	Date   time.Time
	Ticker string
	Metric models.MetricType
	Value  *float64
}

// Facts flattens the report into performance facts. Daily series are
// emitted for every calendar day; monthly points on their month end; scalar
// statistics once, on the last calendar day, under the portfolio ticker.
func (r *Report) Facts() []Fact {
	var out []Fact
	series := func(ticker string, metric models.MetricType, values []float64) {
		for i, v := range values {
			out = append(out, Fact{Date: r.Calendar[i], Ticker: ticker, Metric: metric, Value: ptrOf(v)})
		}
	}

	for _, t := range r.Tickers {
		ts := r.PerTicker[t]
		series(t, models.MetricValuationGross, ts.ValuationGross)
		series(t, models.MetricValuationNet, ts.ValuationNet)
		series(t, models.MetricTWRPercentage, ts.Percentage)
		series(t, models.MetricInvestedCumulative, ts.Invested)
		series(t, models.MetricDividendsCumulative, ts.DividendsCumulative)
		series(t, models.MetricDividendsDaily, ts.DividendsDaily)
		series(t, models.MetricFeesCumulative, ts.FeesCumulative)
		series(t, models.MetricAverageCost, ts.AverageCost)
		series(t, models.MetricRealizedGainCumulative, ts.RealizedGain)
	}

	pf := r.Portfolio
	p := models.PortfolioTicker
	series(p, models.MetricValuationGross, pf.ValuationGross)
	series(p, models.MetricValuationNet, pf.ValuationNet)
	series(p, models.MetricTWRPercentage, pf.Percentage)
	series(p, models.MetricInvestedCumulative, pf.Invested)
	series(p, models.MetricDividendsCumulative, pf.DividendsCumulative)
	series(p, models.MetricDividendsDaily, pf.DividendsDaily)
	series(p, models.MetricFeesCumulative, pf.FeesCumulative)
	series(p, models.MetricRealizedGainCumulative, pf.RealizedGainCumulative)

	// The cash ledger shares the report calendar.
	series(p, models.MetricCashCumulative, r.Cash.Cumulative)

	for _, m := range r.Monthly {
		out = append(out, Fact{Date: m.Date, Ticker: p, Metric: models.MetricMonthlyPercentage, Value: m.Percentage.Ptr()})
	}

	if len(r.Calendar) == 0 {
		return out
	}
	asOf := r.Calendar[len(r.Calendar)-1]
	scalar := func(metric models.MetricType, m Metric) {
		out = append(out, Fact{Date: asOf, Ticker: p, Metric: metric, Value: m.Ptr()})
	}
	cagr := map[string]models.MetricType{
		"1y": models.MetricCAGR1Y, "2y": models.MetricCAGR2Y, "3y": models.MetricCAGR3Y,
		"5y": models.MetricCAGR5Y, "10y": models.MetricCAGR10Y, "all": models.MetricCAGRAll,
	}
	for _, c := range r.Stats.CAGR {
		scalar(cagr[c.Label], c.Metric)
	}
	scalar(models.MetricSharpeRatio, r.Stats.Sharpe)
	scalar(models.MetricSortinoRatio, r.Stats.Sortino)
	scalar(models.MetricVolatility, r.Stats.Volatility)
	scalar(models.MetricMaxDrawdown, r.Stats.MaxDrawdown.Metric)
	scalar(models.MetricWorstDay, r.Stats.WorstDay.Metric)
	scalar(models.MetricDividendYield, r.DividendYield)
	scalar(models.MetricInitialInvested, Known(r.InitialInvested))
	return out
}
