package ledger

import (
	"testing"

	"ledgerly/internal/models"
)

func TestBookApply(t *testing.T) {
	t.Run("split_then_full_sell", func(t *testing.T) {
		events := []Event{
			buy(1, "2023-01-01", "XYZ", "10", "100", "1"),
			sell(2, "2023-07-01", "XYZ", "20", "60", "1"),
		}
		splits := []SplitEvent{{Ticker: "XYZ", Date: day("2023-06-01"), Ratio: dec("2")}}
		adjusted := AdjustSplits(events, splits)

		book := NewBook()
		book.Apply(adjusted[0])
		st := book.State("XYZ")
		assertDecimal(t, "quantity after split", st.Quantity, "20")
		assertDecimal(t, "average cost", st.AverageCost(), "50.05")

		realized := book.Apply(adjusted[1])
		assertDecimal(t, "realized", realized, "198")

		st = book.State("XYZ")
		if st.Status() != Flat {
			t.Errorf("expected flat, got %s", st.Status())
		}
		assertDecimal(t, "quantity", st.Quantity, "0")
		assertDecimal(t, "cost basis", st.CostBasis, "0")
		assertDecimal(t, "realized to date", st.RealizedGain, "198")
	})

	t.Run("partial_sell_is_proportional", func(t *testing.T) {
		book := NewBook()
		book.Apply(buy(1, "2023-01-01", "ABC", "10", "10", "0"))
		realized := book.Apply(sell(2, "2023-02-01", "ABC", "4", "15", "0"))

		assertDecimal(t, "realized", realized, "20")
		st := book.State("ABC")
		assertDecimal(t, "quantity", st.Quantity, "6")
		assertDecimal(t, "cost basis", st.CostBasis, "60")
		if st.Status() != Holding {
			t.Errorf("expected holding, got %s", st.Status())
		}
	})

	t.Run("weighted_average_across_buys", func(t *testing.T) {
		book := NewBook()
		book.Apply(buy(1, "2023-01-01", "ABC", "10", "10", "0"))
		book.Apply(buy(2, "2023-01-02", "ABC", "10", "20", "0"))
		assertDecimal(t, "average cost", book.State("ABC").AverageCost(), "15")
	})

	t.Run("epsilon_closes_position", func(t *testing.T) {
		book := NewBook()
		book.Apply(buy(1, "2023-01-01", "ABC", "10", "10", "0"))
		book.Apply(sell(2, "2023-01-02", "ABC", "9.9999995", "10", "0"))

		st := book.State("ABC")
		if st.Status() != Flat {
			t.Fatalf("expected flat, got %s with %s shares", st.Status(), st.Quantity)
		}
		assertDecimal(t, "cost basis", st.CostBasis, "0")
	})

	t.Run("oversell_never_goes_negative", func(t *testing.T) {
		book := NewBook()
		book.Apply(buy(1, "2023-01-01", "ABC", "5", "10", "0"))
		book.Apply(sell(2, "2023-01-02", "ABC", "8", "10", "0"))
		book.Apply(sell(3, "2023-01-03", "ABC", "1", "10", "0"))

		st := book.State("ABC")
		if st.Quantity.IsNegative() || st.CostBasis.IsNegative() {
			t.Errorf("expected non-negative state, got quantity %s cost %s", st.Quantity, st.CostBasis)
		}
		if len(book.Warnings()) != 2 {
			t.Errorf("expected 2 warnings, got %d: %v", len(book.Warnings()), book.Warnings())
		}
	})

	t.Run("cash_operations_do_not_touch_state", func(t *testing.T) {
		book := NewBook()
		realized := book.Apply(cash(1, models.OperationDeposit, "2023-01-01", "1000", "0"))
		if !realized.IsZero() {
			t.Errorf("expected no realized gain, got %s", realized)
		}
		if len(book.Tickers()) != 0 {
			t.Errorf("expected no tickers, got %v", book.Tickers())
		}
	})
}

func TestReplay(t *testing.T) {
	t.Run("sorts_before_replaying", func(t *testing.T) {
		events := []Event{
			sell(3, "2023-03-01", "ABC", "10", "20", "0"),
			buy(1, "2023-01-01", "ABC", "10", "10", "0"),
		}
		states := replay(events)
		assertDecimal(t, "realized", states["ABC"].RealizedGain, "100")
		assertDecimal(t, "quantity", states["ABC"].Quantity, "0")
	})

	t.Run("same_day_uses_insertion_order", func(t *testing.T) {
		events := []Event{
			sell(2, "2023-01-01", "ABC", "10", "12", "0"),
			buy(1, "2023-01-01", "ABC", "10", "10", "0"),
		}
		states := replay(events)
		assertDecimal(t, "realized", states["ABC"].RealizedGain, "20")
	})

	t.Run("non_negative_for_any_sequence", func(t *testing.T) {
		events := []Event{
			buy(1, "2023-01-01", "ABC", "3", "10", "1"),
			sell(2, "2023-01-02", "ABC", "1", "9", "1"),
			sell(3, "2023-01-03", "ABC", "5", "9", "1"),
			buy(4, "2023-01-04", "ABC", "2", "11", "0"),
			sell(5, "2023-01-05", "ABC", "0.5", "12", "0"),
		}
		for i := 1; i <= len(events); i++ {
			st := replay(events[:i])["ABC"]
			if st.Quantity.IsNegative() || st.CostBasis.IsNegative() {
				t.Fatalf("after %d events: quantity %s cost %s", i, st.Quantity, st.CostBasis)
			}
		}
	})
}

func TestCashLedger(t *testing.T) {
	t.Run("cash_flow_signs", func(t *testing.T) {
		cases := []struct {
			event Event
			want  string
		}{
			{buy(1, "2023-01-01", "ABC", "10", "10", "1"), "-101"},
			{sell(1, "2023-01-01", "ABC", "10", "10", "1"), "99"},
			{cash(1, models.OperationDividend, "2023-01-01", "5", "1"), "4"},
			{cash(1, models.OperationInterest, "2023-01-01", "3", "0"), "3"},
			{cash(1, models.OperationDeposit, "2023-01-01", "100", "0"), "100"},
			{cash(1, models.OperationWithdrawal, "2023-01-01", "40", "2"), "-40"},
		}
		for _, c := range cases {
			assertDecimal(t, string(c.event.Operation), CashFlow(c.event), c.want)
		}
	})

	t.Run("zero_fills_calendar_gaps", func(t *testing.T) {
		events := []Event{
			cash(2, models.OperationWithdrawal, "2023-01-04", "30", "0"),
			cash(1, models.OperationDeposit, "2023-01-01", "100", "0"),
		}
		l := buildCashLedger(events)
		if len(l.Calendar) != 4 {
			t.Fatalf("expected 4 days, got %d", len(l.Calendar))
		}
		want := []float64{100, 100, 100, 70}
		for i, w := range want {
			assertClose(t, "cumulative", l.Cumulative[i], w)
		}
		assertClose(t, "gap day flow", l.Daily[1], 0)
	})

	t.Run("empty", func(t *testing.T) {
		l := buildCashLedger(nil)
		if len(l.Calendar) != 0 {
			t.Errorf("expected empty calendar, got %d days", len(l.Calendar))
		}
	})
}

func TestInitialInvested(t *testing.T) {
	t.Run("fresh_capital_only", func(t *testing.T) {
		events := []Event{
			buy(1, "2023-01-01", "ABC", "10", "100", "0"),
			buy(2, "2023-02-01", "DEF", "5", "100", "0"),
		}
		assertDecimal(t, "initial invested", initialInvested(events), "1500")
	})

	t.Run("recycled_proceeds_are_not_new_capital", func(t *testing.T) {
		events := []Event{
			buy(1, "2023-01-01", "ABC", "10", "100", "0"),
			sell(2, "2023-02-01", "ABC", "10", "120", "0"),
			buy(3, "2023-03-01", "DEF", "10", "110", "0"),
		}
		assertDecimal(t, "initial invested", initialInvested(events), "1000")
	})

	t.Run("shortfall_is_injected", func(t *testing.T) {
		events := []Event{
			buy(1, "2023-01-01", "ABC", "10", "100", "0"),
			sell(2, "2023-02-01", "ABC", "10", "50", "0"),
			buy(3, "2023-03-01", "DEF", "10", "80", "0"),
		}
		assertDecimal(t, "initial invested", initialInvested(events), "1300")
	})
}
