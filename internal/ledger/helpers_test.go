package ledger

import (
	"math"
	"testing"
	"time"

	"ledgerly/internal/models"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func trade(seq uint, op models.OperationKind, date, ticker, qty, price, fees string) Event {
	q, p := dec(qty), dec(price)
	return Event{
		Seq: seq, Ticker: ticker, Currency: "EUR", Operation: op, Date: day(date),
		Amount: q.Mul(p), Fees: dec(fees), Price: p, Quantity: q,
	}
}

func buy(seq uint, date, ticker, qty, price, fees string) Event {
	return trade(seq, models.OperationBuy, date, ticker, qty, price, fees)
}

func sell(seq uint, date, ticker, qty, price, fees string) Event {
	return trade(seq, models.OperationSell, date, ticker, qty, price, fees)
}

func cash(seq uint, op models.OperationKind, date, amount, fees string) Event {
	return Event{Seq: seq, Currency: "EUR", Operation: op, Date: day(date), Amount: dec(amount), Fees: dec(fees)}
}

func assertClose(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s: expected %.6f, got %.6f", name, want, got)
	}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: expected %s, got %s", name, want, got)
	}
}

// replay sorts a copy of the events and books them all, returning the final
// state per ticker.
func replay(events []Event) map[string]InstrumentState {
	ordered := append([]Event(nil), events...)
	SortEvents(ordered)

	book := NewBook()
	for _, e := range ordered {
		book.Apply(e)
	}
	out := make(map[string]InstrumentState, len(book.states))
	for t, st := range book.states {
		out[t] = *st
	}
	return out
}

// buildCashLedger sums cash flows per day over a gap-free calendar. Days
// without events contribute zero.
func buildCashLedger(events []Event) CashLedger {
	if len(events) == 0 {
		return CashLedger{}
	}
	ordered := append([]Event(nil), events...)
	SortEvents(ordered)
	cal := NewCalendar(ordered[0].Date, ordered[len(ordered)-1].Date)
	return cashOnCalendar(ordered, cal)
}

// initialInvested returns the net new capital the events required: the sum
// of buy costs that earlier sale proceeds could not fund.
func initialInvested(events []Event) decimal.Decimal {
	ordered := append([]Event(nil), events...)
	SortEvents(ordered)

	var tracker capitalTracker
	for _, e := range ordered {
		tracker.apply(e)
	}
	return tracker.total()
}
