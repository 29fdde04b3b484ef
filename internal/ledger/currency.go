package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// normalizeCurrency converts every event and price series to the reporting
// currency. fx maps a currency to the series of its units per one unit of
// the reporting currency. Amounts without a usable rate are kept as they are
// and reported as warnings.
func normalizeCurrency(s *Snapshot, cal Calendar) ([]Event, map[string][]float64, []string) {
	reporting := strings.ToUpper(s.ReportingCurrency)
	var warnings []string

	rates := make(map[string][]float64)
	rateFor := func(cur string) []float64 {
		cur = strings.ToUpper(cur)
		if r, ok := rates[cur]; ok {
			return r
		}
		pts, ok := s.FX[cur]
		if !ok || len(pts) == 0 {
			warnings = append(warnings, fmt.Sprintf("no %s/%s rate, %s amounts left unconverted", reporting, cur, cur))
			rates[cur] = nil
			return nil
		}
		r := alignDaily(pts, cal)
		rates[cur] = r
		return r
	}

	events := make([]Event, len(s.Events))
	copy(events, s.Events)
	if reporting != "" {
		for i := range events {
			e := &events[i]
			if e.Currency == "" || e.Currency == reporting {
				continue
			}
			r := rateFor(e.Currency)
			idx := cal.Index(e.Date)
			if r == nil || idx < 0 || IsUndefined(r[idx]) || r[idx] == 0 {
				continue
			}
			rate := decimalOf(r[idx])
			e.Amount = e.Amount.Div(rate)
			e.Fees = e.Fees.Div(rate)
			e.Price = e.Price.Div(rate)
			e.Currency = reporting
		}
	}

	prices := make(map[string][]float64, len(s.Prices))
	for ticker, pts := range s.Prices {
		aligned := alignDaily(pts, cal)
		cur := strings.ToUpper(s.TickerCurrency[ticker])
		if reporting != "" && cur != "" && cur != reporting {
			if r := rateFor(cur); r != nil {
				for i := range aligned {
					if IsUndefined(r[i]) || r[i] == 0 {
						continue
					}
					aligned[i] /= r[i]
				}
			}
		}
		prices[ticker] = aligned
	}
	return events, prices, warnings
}

func decimalOf(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
