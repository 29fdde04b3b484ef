package ledger

import (
	"time"

	"ledgerly/internal/models"

	"github.com/shopspring/decimal"
)

// MonthlyPoint is the evolution of one calendar month.
type MonthlyPoint struct {
	Date       time.Time `json:"date"`
	Valuation  Metric    `json:"valuation"`
	Invested   float64   `json:"invested"`
	Percentage Metric    `json:"percentage"`
}

// MonthlyEvolution resamples the valuation to month ends and measures each
// month against the capital invested up to that month end plus the gain
// carried over from the previous month, so consecutive months compound.
// Months before the first non-zero valuation are skipped; later months
// without any non-zero valuation are undefined.
func MonthlyEvolution(cal Calendar, valuation []float64, events []Event) []MonthlyPoint {
	if len(cal) == 0 {
		return nil
	}

	type bucket struct {
		end   time.Time
		value float64
		has   bool
	}
	var buckets []bucket
	for i, day := range cal {
		end := monthEnd(day)
		if last := cal[len(cal)-1]; end.After(last) {
			end = last
		}
		if len(buckets) == 0 || !buckets[len(buckets)-1].end.Equal(end) {
			buckets = append(buckets, bucket{end: end})
		}
		if v := valuation[i]; v != 0 && !IsUndefined(v) {
			b := &buckets[len(buckets)-1]
			b.value, b.has = v, true
		}
	}

	ordered := append([]Event(nil), events...)
	SortEvents(ordered)

	var (
		out      []MonthlyPoint
		invested = decimal.Zero
		next     int
		gainPrev float64
		started  bool
	)
	for _, b := range buckets {
		for next < len(ordered) && !ordered[next].Date.After(b.end) {
			switch e := ordered[next]; e.Operation {
			case models.OperationBuy:
				invested = invested.Add(e.Amount)
			case models.OperationSell:
				invested = invested.Sub(e.Amount)
			}
			next++
		}
		if !started && !b.has {
			continue
		}
		started = true

		inv := invested.InexactFloat64()
		p := MonthlyPoint{Date: b.end, Invested: inv}
		if !b.has {
			p.Valuation = Unavailable()
			p.Percentage = Unavailable()
			out = append(out, p)
			continue
		}
		p.Valuation = Known(b.value)
		if denom := inv + gainPrev; denom != 0 {
			p.Percentage = Known(b.value*100/denom - 100)
		} else {
			p.Percentage = Unavailable()
		}
		gainPrev = b.value - inv
		out = append(out, p)
	}
	return out
}
