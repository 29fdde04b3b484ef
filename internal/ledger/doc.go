// Package ledger is the accounting core: it adjusts transactions for splits,
// replays them into per-instrument cost-basis state and a cash ledger, and
// derives daily valuation, return and risk series.
//
// Every entry point is a pure function over a Snapshot. Nothing in this
// package touches the database or keeps state between calls; the services
// layer loads the snapshot and persists what Compute returns.
package ledger
