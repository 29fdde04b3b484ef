package ledger

import (
	"sort"
	"strings"
	"time"

	"ledgerly/internal/models"

	"github.com/shopspring/decimal"
)

// Event is the engine's read-only view of one transaction.
type Event struct {
	Seq       uint
	Ticker    string
	Currency  string
	Operation models.OperationKind
	Date      time.Time
	Amount    decimal.Decimal
	Fees      decimal.Decimal
	Price     decimal.Decimal
	Quantity  decimal.Decimal
}

// SplitEvent is a share split: from Date on, one old share is Ratio new ones.
type SplitEvent struct {
	Ticker string
	Date   time.Time
	Ratio  decimal.Decimal
}

// EventsFromTransactions converts stored rows into engine events. The row id
// becomes the insertion sequence used to order same-day events.
func EventsFromTransactions(txs []models.Transaction) []Event {
	events := make([]Event, 0, len(txs))
	for i := range txs {
		t := &txs[i]
		events = append(events, Event{
			Seq:       t.ID,
			Ticker:    strings.ToUpper(t.TickerOrEmpty()),
			Currency:  strings.ToUpper(t.Currency),
			Operation: t.Operation,
			Date:      models.Day(t.Date),
			Amount:    t.Amount,
			Fees:      t.Fees,
			Price:     t.StockPrice.Decimal,
			Quantity:  t.Quantity.Decimal,
		})
	}
	return events
}

// SplitsFromModels converts stored split rows.
func SplitsFromModels(rows []models.Split) []SplitEvent {
	splits := make([]SplitEvent, 0, len(rows))
	for _, s := range rows {
		splits = append(splits, SplitEvent{
			Ticker: strings.ToUpper(s.Ticker),
			Date:   models.Day(s.Date),
			Ratio:  s.Ratio,
		})
	}
	return splits
}

// SortEvents orders events by date, keeping insertion order within a day.
// Replaying in any other order yields wrong average costs without an error.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Seq < events[j].Seq
	})
}
