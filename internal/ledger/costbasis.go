package ledger

import (
	"fmt"
	"sort"

	"ledgerly/internal/models"

	"github.com/shopspring/decimal"
)

// QuantityEpsilon is the tolerance under which a sell is treated as closing
// the whole position. It absorbs rounding left by split adjustment and
// fractional-share brokers.
var QuantityEpsilon = decimal.New(1, -6)

// Status is the position state of one instrument.
type Status int

// Position states.
const (
	Flat Status = iota
	Holding
)

func (s Status) String() string {
	if s == Holding {
		return "holding"
	}
	return "flat"
}

// InstrumentState is the running accounting state of one ticker. Quantity
// and CostBasis are never negative.
type InstrumentState struct {
	Quantity     decimal.Decimal
	CostBasis    decimal.Decimal
	RealizedGain decimal.Decimal
	Fees         decimal.Decimal
}

// Status reports whether shares are held.
func (s InstrumentState) Status() Status {
	if s.Quantity.IsPositive() {
		return Holding
	}
	return Flat
}

// AverageCost is cost basis per share, zero while Flat.
func (s InstrumentState) AverageCost() decimal.Decimal {
	if !s.Quantity.IsPositive() {
		return decimal.Zero
	}
	return s.CostBasis.Div(s.Quantity)
}

// Book holds the InstrumentState of every ticker for the duration of one
// replay. Create a new Book per computation.
type Book struct {
	states   map[string]*InstrumentState
	warnings []string
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{states: make(map[string]*InstrumentState)}
}

func (b *Book) state(ticker string) *InstrumentState {
	st, ok := b.states[ticker]
	if !ok {
		st = &InstrumentState{}
		b.states[ticker] = st
	}
	return st
}

// State returns a copy of the ticker's state.
func (b *Book) State(ticker string) InstrumentState {
	if st, ok := b.states[ticker]; ok {
		return *st
	}
	return InstrumentState{}
}

// Tickers lists every ticker seen so far, sorted.
func (b *Book) Tickers() []string {
	out := make([]string, 0, len(b.states))
	for t := range b.states {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Warnings returns the anomalies met during the replay.
func (b *Book) Warnings() []string { return b.warnings }

// Apply books one event and returns the gain it realized. Only sells realize
// gains; cash operations leave instrument state untouched.
//
// A buy adds its quantity and amount+fees to the cost basis. A sell of at
// least the held quantity (within QuantityEpsilon) closes the position and
// realizes proceeds minus the whole cost basis; a smaller sell consumes cost
// basis in proportion to the quantity sold.
func (b *Book) Apply(e Event) decimal.Decimal {
	if !e.Operation.IsTrade() || e.Ticker == "" {
		return decimal.Zero
	}
	st := b.state(e.Ticker)
	st.Fees = st.Fees.Add(e.Fees)

	switch e.Operation {
	case models.OperationBuy:
		// Fees are capitalized: cost basis grows by amount+fees, not amount
		// alone, so the average cost and later realized gains include them.
		st.Quantity = st.Quantity.Add(e.Quantity)
		st.CostBasis = st.CostBasis.Add(e.Amount).Add(e.Fees)
		return decimal.Zero

	case models.OperationSell:
		proceeds := e.Amount.Sub(e.Fees)
		held := st.Quantity
		var realized decimal.Decimal

		if e.Quantity.GreaterThanOrEqual(held.Sub(QuantityEpsilon)) {
			if e.Quantity.Sub(held).GreaterThan(QuantityEpsilon) {
				b.warnings = append(b.warnings, fmt.Sprintf(
					"%s %s: sold %s shares while holding %s",
					e.Date.Format("2006-01-02"), e.Ticker, e.Quantity, held))
			}
			realized = proceeds.Sub(st.CostBasis)
			st.Quantity = decimal.Zero
			st.CostBasis = decimal.Zero
		} else {
			consumed := st.CostBasis.Mul(e.Quantity).Div(held)
			realized = proceeds.Sub(consumed)
			st.Quantity = held.Sub(e.Quantity)
			st.CostBasis = st.CostBasis.Sub(consumed)
		}
		st.RealizedGain = st.RealizedGain.Add(realized)
		return realized
	}
	return decimal.Zero
}
