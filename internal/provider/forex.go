package provider

import "strings"

// Forex names the FX pseudo-tickers that quote foreign currencies against
// the reporting currency. "EURUSD=X" is the number of USD per EUR, so a USD
// amount divided by its rate is in EUR.
type Forex struct {
	reporting string
}

// NewForex creates a Forex for the given reporting currency.
func NewForex(reportingCurrency string) *Forex {
	return &Forex{reporting: strings.ToUpper(reportingCurrency)}
}

// ReportingCurrency returns the reporting currency code (e.g. "EUR").
func (f *Forex) ReportingCurrency() string {
	return f.reporting
}

// NeedsConversion returns true if the given currency differs from the reporting one.
func (f *Forex) NeedsConversion(currency string) bool {
	c := strings.ToUpper(currency)
	return c != "" && c != f.reporting
}

// Ticker returns the pseudo-ticker quoting currency per reporting unit.
func (f *Forex) Ticker(currency string) string {
	return f.reporting + strings.ToUpper(currency) + "=X"
}

// Tickers returns the distinct pseudo-tickers needed for the currencies.
func (f *Forex) Tickers(currencies []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range currencies {
		if !f.NeedsConversion(c) {
			continue
		}
		t := f.Ticker(c)
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// Currency extracts the quoted currency from one of this Forex's tickers.
func (f *Forex) Currency(ticker string) (string, bool) {
	t := strings.ToUpper(ticker)
	if !strings.HasPrefix(t, f.reporting) || !strings.HasSuffix(t, "=X") {
		return "", false
	}
	cur := strings.TrimSuffix(strings.TrimPrefix(t, f.reporting), "=X")
	if len(cur) != 3 {
		return "", false
	}
	return cur, true
}

// IsForexTicker reports whether ticker is an FX pseudo-ticker.
func IsForexTicker(ticker string) bool {
	return strings.HasSuffix(strings.ToUpper(ticker), "=X")
}
