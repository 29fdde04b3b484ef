package ledger

import (
	"math"
	"time"
)

const tradingDays = 252

// CAGRHorizons are the fixed look-back windows, in years.
var CAGRHorizons = []int{1, 2, 3, 5, 10}

// HorizonCAGR is the growth rate over one look-back window.
type HorizonCAGR struct {
	Years  int    `json:"years,omitempty"`
	Label  string `json:"label"`
	Metric Metric `json:"value"`
}

// Drawdown is the deepest fall from a running peak.
type Drawdown struct {
	Metric Metric    `json:"value"`
	Peak   time.Time `json:"peak_date"`
	Trough time.Time `json:"trough_date"`
}

// RiskStats gathers the portfolio risk statistics. Percent-valued fields
// (CAGR, volatility, drawdown, worst day) are expressed ×100; Sharpe and
// Sortino are plain ratios.
type RiskStats struct {
	Start           time.Time     `json:"start"`
	CAGR            []HorizonCAGR `json:"cagr"`
	Sharpe          Metric        `json:"sharpe"`
	SharpeFrequency Frequency     `json:"sharpe_frequency"`
	Sortino         Metric        `json:"sortino"`
	Volatility      Metric        `json:"volatility"`
	MaxDrawdown     Drawdown      `json:"max_drawdown"`
	WorstDay        DatedMetric   `json:"worst_day"`
}

// ComputeRiskStats evaluates the statistics from the first day the
// valuation is strictly positive, so days before any capital was deployed
// do not count as zero returns.
func ComputeRiskStats(cal Calendar, valuation []float64, riskFree float64, freq Frequency) RiskStats {
	if freq == "" {
		freq = Annual
	}
	stats := RiskStats{SharpeFrequency: freq}
	start := firstPositive(valuation)
	if start < 0 {
		for _, h := range CAGRHorizons {
			stats.CAGR = append(stats.CAGR, HorizonCAGR{Years: h, Label: horizonLabel(h)})
		}
		stats.CAGR = append(stats.CAGR, HorizonCAGR{Label: "all"})
		return stats
	}
	dates, values := cal[start:], valuation[start:]
	stats.Start = dates[0]

	for _, h := range CAGRHorizons {
		stats.CAGR = append(stats.CAGR, HorizonCAGR{Years: h, Label: horizonLabel(h), Metric: CAGR(values, h)})
	}
	stats.CAGR = append(stats.CAGR, HorizonCAGR{Label: "all", Metric: CAGRAll(values)})

	returns, returnDates := dailyReturns(dates, values)
	switch freq {
	case Daily:
		stats.Sharpe = Sharpe(returns, tradingDays, riskFree)
	case Monthly:
		r, _ := dailyReturns(resample(dates, values, Monthly))
		stats.Sharpe = Sharpe(r, 12, riskFree)
	default:
		r, _ := dailyReturns(resample(dates, values, Annual))
		stats.Sharpe = Sharpe(r, 1, riskFree)
	}
	stats.Sortino = Sortino(returns, riskFree)
	if sd, ok := stdDev(returns); ok {
		stats.Volatility = Known(sd * 100)
	}
	stats.MaxDrawdown = MaxDrawdown(dates, values)
	stats.WorstDay = WorstDay(returnDates, returns)
	return stats
}

func horizonLabel(years int) string {
	return map[int]string{1: "1y", 2: "2y", 3: "3y", 5: "5y", 10: "10y"}[years]
}

func firstPositive(values []float64) int {
	for i, v := range values {
		if v > 0 && !IsUndefined(v) {
			return i
		}
	}
	return -1
}

// CAGR is the compound annual growth over the last `years`, in percent.
// It is unavailable with fewer than 365×years observations.
func CAGR(values []float64, years int) Metric {
	need := 365 * years
	n := len(values)
	if years <= 0 || n < need {
		return Unavailable()
	}
	start, end := values[n-need], values[n-1]
	if start <= 0 || end < 0 {
		return Unavailable()
	}
	return Known((math.Pow(end/start, 1/float64(years)) - 1) * 100)
}

// CAGRAll is the compound annual growth over the whole series, in percent,
// using the first value as the base. Callers pass the series from its first
// strictly positive valuation.
func CAGRAll(values []float64) Metric {
	n := len(values)
	if n < 2 {
		return Unavailable()
	}
	start, end := values[0], values[n-1]
	if start <= 0 || end < 0 {
		return Unavailable()
	}
	years := float64(n) / 365
	return Known((math.Pow(end/start, 1/years) - 1) * 100)
}

// dailyReturns returns the step-to-step relative changes, skipping steps
// from a zero value.
func dailyReturns(dates []time.Time, values []float64) ([]float64, []time.Time) {
	var out []float64
	var at []time.Time
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 || IsUndefined(prev) || IsUndefined(values[i]) {
			continue
		}
		out = append(out, values[i]/prev-1)
		at = append(at, dates[i])
	}
	return out, at
}

// resample keeps the last value of each month or year.
func resample(dates []time.Time, values []float64, freq Frequency) ([]time.Time, []float64) {
	var outD []time.Time
	var outV []float64
	key := func(d time.Time) int {
		if freq == Annual {
			return d.Year()
		}
		return d.Year()*12 + int(d.Month())
	}
	for i, d := range dates {
		if len(outD) > 0 && key(outD[len(outD)-1]) == key(d) {
			outD[len(outD)-1], outV[len(outV)-1] = d, values[i]
			continue
		}
		outD = append(outD, d)
		outV = append(outV, values[i])
	}
	return outD, outV
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev is the sample standard deviation.
func stdDev(xs []float64) (float64, bool) {
	if len(xs) < 2 {
		return 0, false
	}
	m := mean(xs)
	ss := 0.0
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)-1)), true
}

// Sharpe is (mean×scale − riskFree) / (σ×√scale) for returns sampled scale
// times a year.
func Sharpe(returns []float64, scale, riskFree float64) Metric {
	sd, ok := stdDev(returns)
	if !ok || sd == 0 {
		return Unavailable()
	}
	return Known((mean(returns)*scale - riskFree) / (sd * math.Sqrt(scale)))
}

// Sortino divides the mean daily excess return by the root mean square of
// the negative excess returns, annualized over trading days. It is undefined
// without any negative excess return.
func Sortino(returns []float64, riskFree float64) Metric {
	if len(returns) == 0 {
		return Unavailable()
	}
	daily := math.Pow(1+riskFree, 1.0/tradingDays) - 1
	excess := make([]float64, len(returns))
	var sq float64
	var neg int
	for i, r := range returns {
		excess[i] = r - daily
		if excess[i] < 0 {
			sq += excess[i] * excess[i]
			neg++
		}
	}
	if neg == 0 {
		return Unavailable()
	}
	dd := math.Sqrt(sq / float64(neg))
	if dd == 0 {
		return Unavailable()
	}
	return Known(mean(excess) / dd * math.Sqrt(tradingDays))
}

// MaxDrawdown finds the minimum of value/running_peak − 1, in percent, with
// the peak it fell from and the day it bottomed.
func MaxDrawdown(dates []time.Time, values []float64) Drawdown {
	var out Drawdown
	peak, peakAt := 0.0, -1
	worst := 0.0
	found := false
	for i, v := range values {
		if IsUndefined(v) {
			continue
		}
		if peakAt < 0 || v > peak {
			peak, peakAt = v, i
		}
		if peak <= 0 {
			continue
		}
		dd := v/peak - 1
		if !found || dd < worst {
			worst, found = dd, true
			out.Peak, out.Trough = dates[peakAt], dates[i]
		}
	}
	if !found {
		return Drawdown{Metric: Unavailable()}
	}
	out.Metric = Known(worst * 100)
	return out
}

// WorstDay is the lowest one-day return, in percent, and its date.
func WorstDay(dates []time.Time, returns []float64) DatedMetric {
	if len(returns) == 0 {
		return DatedMetric{}
	}
	at := 0
	for i, r := range returns {
		if r < returns[at] {
			at = i
		}
	}
	return DatedMetric{Metric: Known(returns[at] * 100), Date: dates[at]}
}
