package models

import "time"

// MetricType names the quantity a performance row holds.
type MetricType string

// Daily series.
const (
	MetricValuationGross         MetricType = "valuation_gross"
	MetricValuationNet           MetricType = "valuation_net"
	MetricTWRPercentage          MetricType = "twr_percentage"
	MetricInvestedCumulative     MetricType = "invested_cumulative"
	MetricDividendsCumulative    MetricType = "dividends_cumulative"
	MetricDividendsDaily         MetricType = "dividends_daily"
	MetricFeesCumulative         MetricType = "fees_cumulative"
	MetricCashCumulative         MetricType = "cash_cumulative"
	MetricRealizedGainCumulative MetricType = "realized_gain_cumulative"
	MetricAverageCost            MetricType = "average_cost"
	MetricMonthlyPercentage      MetricType = "monthly_percentage"
)

// Scalar statistics, stored once at the as-of date.
const (
	MetricCAGR1Y          MetricType = "cagr_1y"
	MetricCAGR2Y          MetricType = "cagr_2y"
	MetricCAGR3Y          MetricType = "cagr_3y"
	MetricCAGR5Y          MetricType = "cagr_5y"
	MetricCAGR10Y         MetricType = "cagr_10y"
	MetricCAGRAll         MetricType = "cagr_all"
	MetricSharpeRatio     MetricType = "sharpe_ratio"
	MetricSortinoRatio    MetricType = "sortino_ratio"
	MetricVolatility      MetricType = "volatility"
	MetricMaxDrawdown     MetricType = "max_drawdown"
	MetricWorstDay        MetricType = "worst_day"
	MetricDividendYield   MetricType = "dividend_yield"
	MetricInitialInvested MetricType = "initial_invested"
)

// MetricTypes lists every metric a recompute can emit.
var MetricTypes = []MetricType{
	MetricValuationGross, MetricValuationNet, MetricTWRPercentage, MetricInvestedCumulative,
	MetricDividendsCumulative, MetricDividendsDaily, MetricFeesCumulative, MetricCashCumulative,
	MetricRealizedGainCumulative, MetricAverageCost, MetricMonthlyPercentage,
	MetricCAGR1Y, MetricCAGR2Y, MetricCAGR3Y, MetricCAGR5Y, MetricCAGR10Y, MetricCAGRAll,
	MetricSharpeRatio, MetricSortinoRatio, MetricVolatility, MetricMaxDrawdown, MetricWorstDay,
	MetricDividendYield, MetricInitialInvested,
}

// Valid reports whether m is a known metric type.
func (m MetricType) Valid() bool {
	for _, v := range MetricTypes {
		if m == v {
			return true
		}
	}
	return false
}

// PortfolioTicker is the ticker under which portfolio aggregates are stored.
const PortfolioTicker = "_PORTFOLIO"

// PerformanceRow is one derived (date, ticker, metric_type, portfolio_name)
// fact. A nil Value means the metric is undefined on that date.
type PerformanceRow struct {
	ID            uint       `gorm:"primaryKey" json:"-"`
	Date          time.Time  `gorm:"not null;uniqueIndex:idx_performance_key,priority:1" json:"date"`
	Ticker        string     `gorm:"size:32;not null;uniqueIndex:idx_performance_key,priority:2" json:"ticker"`
	MetricType    MetricType `gorm:"size:32;not null;uniqueIndex:idx_performance_key,priority:3" json:"metric_type"`
	PortfolioName string     `gorm:"size:64;not null;uniqueIndex:idx_performance_key,priority:4" json:"portfolio_name"`
	Value         *float64   `json:"value"`
	ComputedAt    time.Time  `gorm:"not null;index" json:"computed_at"`
}

// TableName pins the table name.
func (PerformanceRow) TableName() string { return "performances" }
