package ledger

import "sort"

// AdjustSplits restates every trade on a post-split basis. Splits apply in
// ascending date order; a split of ratio r multiplies the quantity and
// divides the price of each earlier event of its ticker, leaving
// quantity*price unchanged. Events on or after the split date are left alone.
//
// The input slice is not modified. Applying the result a second time with
// the same splits would rescale twice, so callers adjust each raw snapshot
// exactly once; Compute does this itself.
func AdjustSplits(events []Event, splits []SplitEvent) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	if len(splits) == 0 {
		return out
	}

	ordered := append([]SplitEvent(nil), splits...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	for _, s := range ordered {
		if !s.Ratio.IsPositive() {
			continue
		}
		for i := range out {
			e := &out[i]
			if e.Ticker != s.Ticker || !e.Date.Before(s.Date) {
				continue
			}
			e.Quantity = e.Quantity.Mul(s.Ratio)
			e.Price = e.Price.Div(s.Ratio)
		}
	}
	return out
}
