package ledger

import (
	"ledgerly/internal/models"

	"github.com/shopspring/decimal"
)

// CashFlow is the signed effect of an event on the cash balance.
func CashFlow(e Event) decimal.Decimal {
	switch e.Operation {
	case models.OperationBuy:
		return e.Amount.Add(e.Fees).Neg()
	case models.OperationSell, models.OperationDividend, models.OperationInterest, models.OperationDeposit:
		return e.Amount.Sub(e.Fees)
	case models.OperationWithdrawal:
		return e.Amount.Neg()
	}
	return decimal.Zero
}

// CashLedger is the daily cash-flow ledger between the first and last event.
type CashLedger struct {
	Calendar   Calendar
	Daily      []float64
	Cumulative []float64
}

func cashOnCalendar(ordered []Event, cal Calendar) CashLedger {
	daily := make([]decimal.Decimal, len(cal))
	for _, e := range ordered {
		if i := cal.Index(e.Date); i >= 0 {
			daily[i] = daily[i].Add(CashFlow(e))
		}
	}
	out := CashLedger{
		Calendar:   cal,
		Daily:      make([]float64, len(cal)),
		Cumulative: make([]float64, len(cal)),
	}
	running := decimal.Zero
	for i, d := range daily {
		running = running.Add(d)
		out.Daily[i] = d.InexactFloat64()
		out.Cumulative[i] = running.InexactFloat64()
	}
	return out
}

// capitalTracker separates fresh external capital from recycled sale
// proceeds. Net proceeds of sells sit in available cash and fund later buys;
// only the part of a buy that available cash cannot cover counts as newly
// injected capital.
type capitalTracker struct {
	available decimal.Decimal
	injected  decimal.Decimal
}

func (c *capitalTracker) apply(e Event) {
	switch e.Operation {
	case models.OperationSell:
		c.available = c.available.Add(e.Amount.Sub(e.Fees))
	case models.OperationBuy:
		cost := e.Amount.Add(e.Fees)
		if c.available.GreaterThanOrEqual(cost) {
			c.available = c.available.Sub(cost)
			return
		}
		c.injected = c.injected.Add(cost.Sub(c.available))
		c.available = decimal.Zero
	}
}

func (c *capitalTracker) total() decimal.Decimal {
	return c.injected
}
