package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"

	"ledgerly/internal/app"
	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
	"ledgerly/internal/services"
)

var ledgerCommands = []subcommands.Command{
	&ingestCmd{},
	&recomputeCmd{},
	&performanceCmd{},
	&summaryCmd{},
}

var marketCommands = []subcommands.Command{
	&refreshCmd{},
}

var expenseCommands = []subcommands.Command{
	&reconcileCmd{},
	&importOpsCmd{},
	&unprocessedCmd{},
	&linkCmd{},
	&unlinkCmd{},
	&categorizedCmd{},
}

// withApp opens the application, runs fn and maps its error to an exit status.
func withApp(fn func(a *app.App) error) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if err := fn(a); err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return models.Day(time.Now()), nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return d, nil
}

func optionalDay(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := parseDay(raw)
	return &d, err
}

// decodeBatch accepts either a bare JSON array or an object wrapping it
// under key.
func decodeBatch(path, key string, v any) error {
	var raw json.RawMessage
	if err := readJSONFile(path, &raw); err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return err
		}
		inner, ok := wrapper[key]
		if !ok {
			return fmt.Errorf("%s: expected a %q array", path, key)
		}
		trimmed = inner
	}
	return json.Unmarshal(trimmed, v)
}

// --- ledger ---

type ingestCmd struct {
	format string
}

func (*ingestCmd) Name() string     { return "ingest" }
func (*ingestCmd) Synopsis() string { return "append brokerage transactions from a JSON file" }
func (*ingestCmd) Usage() string {
	return `ledger ingest [-format json|yaml] <file.json|->

  Appends parsed brokerage rows. The file holds an array of transactions, or
  an object with a "transactions" array. Duplicates are skipped and invalid
  rows are reported by index; neither aborts the batch.
`
}

func (c *ingestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "json", "Output format (json, yaml).")
}

func (c *ingestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	var inputs []services.TransactionInput
	if err := decodeBatch(f.Arg(0), "transactions", &inputs); err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	return withApp(func(a *app.App) error {
		res, err := a.Ledger.Ingest(inputs)
		if err != nil {
			return err
		}
		return render(os.Stdout, c.format, res)
	})
}

type recomputeCmd struct {
	asOf   string
	format string
}

func (*recomputeCmd) Name() string     { return "recompute" }
func (*recomputeCmd) Synopsis() string { return "rebuild every stored performance metric" }
func (*recomputeCmd) Usage() string {
	return `ledger recompute [-as-of YYYY-MM-DD] [-format json|yaml]

  Recomputes the daily metrics of the configured portfolio from the first
  transaction to -as-of (today by default) and replaces the stored facts.
`
}

func (c *recomputeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asOf, "as-of", "", "Last day of the calendar (defaults to today).")
	f.StringVar(&c.format, "format", "json", "Output format (json, yaml).")
}

func (c *recomputeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := parseDay(c.asOf)
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app.App) error {
		res, err := a.Perf.Recompute(asOf)
		if err != nil {
			return err
		}
		return render(os.Stdout, c.format, res)
	})
}

type performanceCmd struct {
	portfolio string
	ticker    string
	metric    string
	from, to  string
	format    string
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "print stored performance facts" }
func (*performanceCmd) Usage() string {
	return `ledger performance [-portfolio name] [-ticker T] [-metric type] [-from D] [-to D] [-format json|yaml]
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "portfolio", "", "Portfolio name (all when empty).")
	f.StringVar(&c.ticker, "ticker", "", "Ticker, or _PORTFOLIO for aggregates.")
	f.StringVar(&c.metric, "metric", "", "Metric type.")
	f.StringVar(&c.from, "from", "", "First day (YYYY-MM-DD).")
	f.StringVar(&c.to, "to", "", "Last day (YYYY-MM-DD).")
	f.StringVar(&c.format, "format", "json", "Output format (json, yaml).")
}

func (c *performanceCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter := services.PerformanceFilter{Portfolio: c.portfolio}
	if c.ticker != "" {
		filter.Ticker = &c.ticker
	}
	if c.metric != "" {
		mt := models.MetricType(c.metric)
		if !mt.Valid() {
			fail(fmt.Errorf("unknown metric type %q", c.metric))
			return subcommands.ExitUsageError
		}
		filter.MetricType = &mt
	}
	var err error
	if filter.FromDate, err = optionalDay(c.from); err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	if filter.ToDate, err = optionalDay(c.to); err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app.App) error {
		rows, err := a.Perf.GetPerformance(filter)
		if err != nil {
			return err
		}
		return render(os.Stdout, c.format, rows)
	})
}

type summaryCmd struct {
	asOf   string
	format string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print positions, valuation and risk statistics" }
func (*summaryCmd) Usage() string {
	return `ledger summary [-as-of YYYY-MM-DD] [-format text|json|yaml]

  Computes the portfolio state without writing anything.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asOf, "as-of", "", "Last day (defaults to today).")
	f.StringVar(&c.format, "format", "text", "Output format (text, json, yaml).")
}

func (c *summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := parseDay(c.asOf)
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app.App) error {
		sum, err := a.Perf.Summary(asOf)
		if err != nil {
			return err
		}
		if c.format != "text" {
			return render(os.Stdout, c.format, sum)
		}
		return printSummary(sum)
	})
}

// formatAmount renders v in the reporting currency, e.g. "€1,234.50".
func formatAmount(v float64, currency string) string {
	if money.GetCurrency(currency) == nil {
		return strconv.FormatFloat(v, 'f', 2, 64) + " " + currency
	}
	return money.NewFromFloat(v, currency).Display()
}

func printSummary(s *services.Summary) error {
	cur := s.ReportingCurrency
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Portfolio\t%s\n", s.Portfolio)
	fmt.Fprintf(w, "As of\t%s\n", s.AsOf.Format("2006-01-02"))
	fmt.Fprintf(w, "Valuation (gross)\t%s\n", metricAmount(s.ValuationGross.Ptr(), cur))
	fmt.Fprintf(w, "Valuation (net)\t%s\n", metricAmount(s.ValuationNet.Ptr(), cur))
	fmt.Fprintf(w, "Cash\t%s\n", metricAmount(s.Cash.Ptr(), cur))
	fmt.Fprintf(w, "Initial invested\t%s\n", formatAmount(s.InitialInvested, cur))
	fmt.Fprintf(w, "TWR\t%s\n", percent(s.Percentage.Ptr()))
	fmt.Fprintf(w, "Dividend yield\t%s\n", percent(s.DividendYield.Ptr()))
	fmt.Fprintf(w, "Sharpe (%s)\t%s\n", s.Stats.SharpeFrequency, s.Stats.Sharpe)
	fmt.Fprintf(w, "Sortino\t%s\n", s.Stats.Sortino)
	fmt.Fprintf(w, "Volatility\t%s\n", percent(s.Stats.Volatility.Ptr()))
	fmt.Fprintf(w, "Max drawdown\t%s\n", percent(s.Stats.MaxDrawdown.Metric.Ptr()))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "TICKER\tSTATUS\tQUANTITY\tAVG COST\tCOST BASIS\tREALIZED\tFEES")
	for _, p := range s.Positions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Ticker, p.Status,
			strconv.FormatFloat(p.Quantity, 'f', -1, 64),
			formatAmount(p.AverageCost, cur),
			formatAmount(p.CostBasis, cur),
			formatAmount(p.RealizedGain, cur),
			formatAmount(p.Fees, cur),
		)
	}
	if len(s.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warn := range s.Warnings {
			fmt.Fprintf(w, "warning:\t%s\n", warn)
		}
	}
	return w.Flush()
}

func metricAmount(v *float64, cur string) string {
	if v == nil {
		return "N/A"
	}
	return formatAmount(*v, cur)
}

func percent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64) + "%"
}

// --- market ---

type refreshCmd struct {
	format string
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch market data for traded tickers" }
func (*refreshCmd) Usage() string {
	return `ledger refresh [-format json|yaml] [TICKER...]

  Fetches bars, dividends, splits and profiles incrementally. Without
  arguments every ticker found in the ledger is refreshed, plus the FX
  rates its currencies need. Failed tickers are listed, not fatal.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "json", "Output format (json, yaml).")
}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app.App) error {
		res, err := a.Market.Refresh(ctx, f.Args())
		if err != nil {
			return err
		}
		return render(os.Stdout, c.format, res)
	})
}

// --- expenses ---

type reconcileCmd struct {
	format string
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "align stored categories with the label set" }
func (*reconcileCmd) Usage() string {
	return `ledger reconcile [-format json|yaml]

  Creates missing categories, and deletes the ones no longer allowed along
  with their links. Uses CATEGORY_LABELS_FILE when set.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "json", "Output format (json, yaml).")
}

func (c *reconcileCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app.App) error {
		res, err := a.Expense.Reconcile(a.Labels)
		if err != nil {
			return err
		}
		return render(os.Stdout, c.format, res)
	})
}

type importOpsCmd struct {
	format string
}

func (*importOpsCmd) Name() string     { return "import-operations" }
func (*importOpsCmd) Synopsis() string { return "import bank statement lines from a JSON file" }
func (*importOpsCmd) Usage() string {
	return `ledger import-operations [-format json|yaml] <file.json|->

  The file holds an array of operations, or an object with an "operations"
  array.
`
}

func (c *importOpsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "json", "Output format (json, yaml).")
}

func (c *importOpsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	var inputs []services.RawOperationInput
	if err := decodeBatch(f.Arg(0), "operations", &inputs); err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	return withApp(func(a *app.App) error {
		res, err := a.Expense.AddRawOperations(inputs)
		if err != nil {
			return err
		}
		return render(os.Stdout, c.format, res)
	})
}

type unprocessedCmd struct {
	page, pageSize int
	format         string
}

func (*unprocessedCmd) Name() string     { return "unprocessed" }
func (*unprocessedCmd) Synopsis() string { return "list operations awaiting a category" }
func (*unprocessedCmd) Usage() string {
	return `ledger unprocessed [-page N] [-page-size N] [-format json|yaml]
`
}

func (c *unprocessedCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.page, "page", 1, "Page number.")
	f.IntVar(&c.pageSize, "page-size", pagination.DefaultPageSize, "Items per page.")
	f.StringVar(&c.format, "format", "json", "Output format (json, yaml).")
}

func (c *unprocessedCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app.App) error {
		res, err := a.Expense.ListUnprocessed(pagination.PageRequest{Page: c.page, PageSize: c.pageSize})
		if err != nil {
			return err
		}
		return render(os.Stdout, c.format, res)
	})
}

type linkCmd struct{}

func (*linkCmd) Name() string     { return "link" }
func (*linkCmd) Synopsis() string { return "categorize a raw operation" }
func (*linkCmd) Usage() string {
	return `ledger link <operation-id> <category> <sub-category>
`
}
func (*linkCmd) SetFlags(*flag.FlagSet) {}

func (*linkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	id, err := parseOperationID(f.Arg(0))
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app.App) error {
		if _, err := a.Expense.Link(id, f.Arg(1), f.Arg(2)); err != nil {
			return err
		}
		fmt.Printf("operation %d categorized as %s / %s\n", id, f.Arg(1), f.Arg(2))
		return nil
	})
}

type unlinkCmd struct{}

func (*unlinkCmd) Name() string     { return "unlink" }
func (*unlinkCmd) Synopsis() string { return "remove the category of a raw operation" }
func (*unlinkCmd) Usage() string {
	return `ledger unlink <operation-id>
`
}
func (*unlinkCmd) SetFlags(*flag.FlagSet) {}

func (*unlinkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	id, err := parseOperationID(f.Arg(0))
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app.App) error {
		if err := a.Expense.Unlink(id); err != nil {
			return err
		}
		fmt.Printf("operation %d is unprocessed again\n", id)
		return nil
	})
}

func parseOperationID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid operation id %q", raw)
	}
	return uint(id), nil
}

type categorizedCmd struct {
	year   int
	format string
}

func (*categorizedCmd) Name() string     { return "categorized" }
func (*categorizedCmd) Synopsis() string { return "list categorized operations" }
func (*categorizedCmd) Usage() string {
	return `ledger categorized [-year YYYY] [-format json|yaml]
`
}

func (c *categorizedCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "Restrict to one calendar year.")
	f.StringVar(&c.format, "format", "json", "Output format (json, yaml).")
}

func (c *categorizedCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var year *int
	if c.year != 0 {
		year = &c.year
	}
	return withApp(func(a *app.App) error {
		ops, err := a.Expense.GetCategorizedOperations(year)
		if err != nil {
			return err
		}
		return render(os.Stdout, c.format, ops)
	})
}

// --- runs ---

type runsCmd struct {
	kind   string
	format string
}

func (*runsCmd) Name() string     { return "runs" }
func (*runsCmd) Synopsis() string { return "list recent pipeline runs" }
func (*runsCmd) Usage() string {
	return `ledger runs [-kind ingest|refresh|recompute|reconcile|import_raw] [-format json|yaml]
`
}

func (c *runsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "", "Only runs of this kind.")
	f.StringVar(&c.format, "format", "json", "Output format (json, yaml).")
}

func (c *runsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var kind *models.RunKind
	if c.kind != "" {
		k := models.RunKind(strings.ToLower(c.kind))
		kind = &k
	}
	return withApp(func(a *app.App) error {
		res, err := a.Runs.List(pagination.PageRequest{}, kind)
		if err != nil {
			return err
		}
		return render(os.Stdout, c.format, res)
	})
}
