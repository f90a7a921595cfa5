package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/shelflife/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database string
	RunID    string
	ItemID   string // optional - filter to one item
}

// RunReport is the stored history of a run.
type RunReport struct {
	Run   store.Run    `json:"run"`
	Ticks []store.Tick `json:"ticks"`
	Stats ReportStats  `json:"stats"`
}

// ReportStats summarizes the ticks of a report.
type ReportStats struct {
	Ticks        int `json:"ticks"`
	Items        int `json:"items"`
	QualityDelta int `json:"quality_delta"` // sum of quality changes over the ticks shown
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show stored runs and their ticks",
		Long: `Read a run recorded by "simulate --db" back from SQLite.

Without --run, lists the runs in the database. With --run, prints every
tick of the run ordered by day and inventory position: countdown and
quality before and after, and which rule fired.

Examples:
  shelflife report --db ./shelf.db
  shelflife report --db ./shelf.db --run spring
  shelflife report --db ./shelf.db --run spring --item vest --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Env.DBPath, "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to report")
	cmd.Flags().StringVar(&opts.ItemID, "item", "", "filter to one item id")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	if opts.Database == "" {
		return NewExitError(ExitCommandError, "--db is required")
	}
	if opts.ItemID != "" && opts.RunID == "" {
		return NewExitError(ExitCommandError, "--item requires --run")
	}
	// store.Open would create a missing database; report only reads.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.RunID == "" {
		return listRuns(ctx, st, formatter)
	}

	run, err := st.ReadRun(ctx, opts.RunID)
	if errors.Is(err, store.ErrNotFound) {
		_ = formatter.Error("E_RUN_NOT_FOUND", fmt.Sprintf("run not found: %s", opts.RunID), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	ticks, err := st.ReadTicks(ctx, opts.RunID, opts.ItemID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read ticks", err)
	}

	report := RunReport{Run: run, Ticks: ticks, Stats: reportStats(ticks)}

	if opts.Format == "json" {
		return formatter.encode(CLIResponse{Status: "ok", Data: report, RunID: run.ID})
	}
	outputReportText(formatter.Writer, report, opts.Verbose)
	return nil
}

func listRuns(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs found.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(formatter.Writer, "%s  items=%d  day=%d\n", run.ID, run.ItemCount, run.Days)
	}
	return nil
}

func reportStats(ticks []store.Tick) ReportStats {
	items := make(map[string]bool)
	stats := ReportStats{Ticks: len(ticks)}
	for _, t := range ticks {
		items[t.ItemID] = true
		stats.QualityDelta += t.QualityAfter - t.QualityBefore
	}
	stats.Items = len(items)
	return stats
}

// outputReportText prints one line per tick.
func outputReportText(w io.Writer, report RunReport, verbose bool) {
	fmt.Fprintf(w, "Run: %s\n", report.Run.ID)
	fmt.Fprintf(w, "Items: %d, last day: %d\n", report.Run.ItemCount, report.Run.Days)
	fmt.Fprintln(w)

	if len(report.Ticks) == 0 {
		fmt.Fprintln(w, "  (no ticks)")
		return
	}

	for _, t := range report.Ticks {
		fmt.Fprintf(w, "  [day %d] %s: sell_in %d -> %d, quality %d -> %d (rule %d %s)\n",
			t.Day, t.ItemID,
			t.SellInBefore, t.SellInAfter,
			t.QualityBefore, t.QualityAfter,
			t.RuleIndex, t.Adjustment)
		if verbose {
			fmt.Fprintf(w, "           %s\n", t.Name)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Ticks: %d across %d item(s), quality change %+d\n",
		report.Stats.Ticks, report.Stats.Items, report.Stats.QualityDelta)
}
