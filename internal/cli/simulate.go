package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/shelflife/internal/compiler"
	"github.com/roach88/shelflife/internal/engine"
	"github.com/roach88/shelflife/internal/inventory"
	"github.com/roach88/shelflife/internal/store"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Days     int
	Database string
	RunID    string
	Resume   string

	// SkipValidate runs catalogs with rule-table errors; the run then
	// stops on the first tick that hits one.
	SkipValidate bool

	// RunIDGenerator allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDGenerator engine.RunIDGenerator
}

// ItemView is an item's state in simulate output.
type ItemView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	SellIn  int    `json:"sell_in"`
	Quality int    `json:"quality"`
}

// SimulateResult is the JSON payload of the simulate command.
type SimulateResult struct {
	RunID    string             `json:"run_id"`
	StartDay int64              `json:"start_day"`
	EndDay   int64              `json:"end_day"`
	Days     []engine.DayReport `json:"days"`
	Items    []ItemView         `json:"items"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate [catalog]",
		Short: "Age a catalog day by day",
		Long: `Load a CUE catalog and age its items for a number of days.

Text output lists every item after each day. With --db the run, its items
and every tick are stored in SQLite and can be inspected with "report" or
continued later with --resume.

Defaults for --days and --db come from SHELFLIFE_DAYS and SHELFLIFE_DB.

Examples:
  shelflife simulate ./catalog --days 30
  shelflife simulate ./catalog --days 30 --db ./shelf.db --run-id spring
  shelflife simulate --db ./shelf.db --resume spring --days 7`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogPath := ""
			if len(args) == 1 {
				catalogPath = args[0]
			}
			return runSimulate(opts, catalogPath, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Days, "days", rootOpts.Env.Days, "number of days to simulate")
	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Env.DBPath, "path to SQLite database (optional)")
	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "fixed run id (default: generated UUIDv7)")
	cmd.Flags().StringVar(&opts.Resume, "resume", "", "continue a stored run (requires --db)")
	cmd.Flags().BoolVar(&opts.SkipValidate, "skip-validate", false, "run even if the catalog has rule-table errors")

	return cmd
}

func checkSimulateArgs(opts *SimulateOptions, catalogPath string) error {
	if opts.Days < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--days must be non-negative, got %d", opts.Days))
	}
	if opts.Resume == "" {
		if catalogPath == "" {
			return NewExitError(ExitCommandError, "catalog path is required unless --resume is set")
		}
		return nil
	}
	if catalogPath != "" {
		return NewExitError(ExitCommandError, "--resume takes its items from the database; do not pass a catalog")
	}
	if opts.Database == "" {
		return NewExitError(ExitCommandError, "--resume requires --db")
	}
	if opts.RunID != "" {
		return NewExitError(ExitCommandError, "--run-id and --resume are mutually exclusive")
	}
	return nil
}

func runSimulate(opts *SimulateOptions, catalogPath string, cmd *cobra.Command) error {
	if err := checkSimulateArgs(opts, catalogPath); err != nil {
		return err
	}

	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	// Signal handling for graceful shutdown between days.
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var st *store.Store
	if opts.Database != "" {
		logger.Info("opening database", "path", opts.Database)
		var err error
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	eng, err := openEngine(ctx, opts, catalogPath, st, logger, formatter)
	if err != nil {
		return err
	}

	result := SimulateResult{
		RunID:    eng.RunID(),
		StartDay: eng.Day(),
		Days:     make([]engine.DayReport, 0, opts.Days),
	}

	if opts.Format != "json" {
		printDay(formatter.Writer, eng.Day(), eng.Snapshot())
	}

	var tickErr error
	for i := 0; i < opts.Days; i++ {
		report, err := eng.Tick(ctx)
		if err != nil {
			tickErr = err
			break
		}
		result.Days = append(result.Days, report)
		if opts.Format != "json" {
			fmt.Fprintln(formatter.Writer)
			printDay(formatter.Writer, report.Day, eng.Snapshot())
		}
	}

	result.EndDay = eng.Day()
	result.Items = itemViews(eng.Snapshot())

	if tickErr != nil && ctx.Err() != nil {
		logger.Info("simulation interrupted", "run", eng.RunID(), "day", eng.Day())
		tickErr = nil
	}
	if tickErr != nil {
		return outputSimulateFailure(formatter, result, tickErr)
	}

	logger.Info("simulation finished", "run", eng.RunID(), "day", eng.Day())
	if opts.Format == "json" {
		return formatter.encode(CLIResponse{Status: "ok", Data: result, RunID: result.RunID})
	}
	if opts.Verbose {
		fmt.Fprintf(formatter.Writer, "\nrun %s: day %d -> %d\n", result.RunID, result.StartDay, result.EndDay)
	}
	return nil
}

// openEngine starts a fresh run from the catalog or resumes a stored one.
func openEngine(ctx context.Context, opts *SimulateOptions, catalogPath string, st *store.Store, logger *slog.Logger, formatter *OutputFormatter) (*engine.Engine, error) {
	engineOpts := []engine.Option{engine.WithLogger(logger)}

	if opts.Resume != "" {
		eng, err := engine.Resume(ctx, st, opts.Resume, engineOpts...)
		if errors.Is(err, store.ErrNotFound) {
			_ = formatter.Error("E_RUN_NOT_FOUND", fmt.Sprintf("run not found: %s", opts.Resume), nil)
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.Resume))
		}
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to resume run", err)
		}
		logger.Info("run resumed", "run", eng.RunID(), "day", eng.Day())
		return eng, nil
	}

	stock, err := loadStock(catalogPath, opts.SkipValidate, logger, formatter)
	if err != nil {
		return nil, err
	}

	if st != nil {
		engineOpts = append(engineOpts, engine.WithRecorder(st))
	}

	gen := opts.RunIDGenerator
	if opts.RunID != "" {
		gen = engine.NewFixedGenerator(opts.RunID)
	}
	if gen == nil {
		gen = engine.UUIDv7Generator{}
	}

	eng, err := engine.New(stock, gen, engineOpts...)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid inventory", err)
	}
	return eng, nil
}

// loadStock loads and validates a catalog. Validation errors stop the run
// unless skipValidate is set; warnings are logged.
func loadStock(catalogPath string, skipValidate bool, logger *slog.Logger, formatter *OutputFormatter) ([]engine.Stock, error) {
	logger.Info("loading catalog", "path", catalogPath)
	catalog, loadErrors := compiler.LoadCatalog(catalogPath, compiler.LoadModeFailFast)
	if len(loadErrors) > 0 {
		code := compiler.ErrCodeGeneric
		var loadErr *compiler.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			code = loadErr.Code
		}
		_ = formatter.Error(code, loadErrors[0].Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to load catalog", loadErrors[0])
	}

	stock := make([]engine.Stock, 0, len(catalog.Items))
	var invalid []compiler.ValidationError
	for _, ci := range catalog.Items {
		for _, finding := range compiler.Validate(ci.ID, ci.Item) {
			if finding.IsWarning() || skipValidate {
				logger.Warn("catalog finding", "severity", finding.Severity, "item", ci.ID, "code", finding.Code, "message", finding.Message)
				continue
			}
			invalid = append(invalid, finding)
		}
		stock = append(stock, engine.Stock{ID: ci.ID, Item: ci.Item})
	}

	if len(invalid) > 0 {
		_ = formatter.Error(invalid[0].Code, invalid[0].Error(), invalid)
		return nil, NewExitError(ExitFailure, fmt.Sprintf("catalog has %d invalid rule table(s); run validate for details", len(invalid)))
	}

	logger.Info("catalog loaded", "items", len(stock), "files", catalog.FileCount)
	return stock, nil
}

// outputSimulateFailure reports the error that stopped the run.
// Days completed before the failure are still part of the output.
func outputSimulateFailure(formatter *OutputFormatter, result SimulateResult, err error) error {
	code := "E_SIMULATE"
	var tickErr *inventory.TickError
	switch {
	case errors.As(err, &tickErr):
		code = string(tickErr.Code)
	case engine.IsDayLimitError(err):
		code = "E_DAY_LIMIT"
	}

	details := map[string]any{"day": result.EndDay + 1}
	if item, ok := engine.FailedItem(err); ok {
		details["item"] = item
	}

	if formatter.Format == "json" {
		if encErr := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			RunID:  result.RunID,
			Error:  &CLIError{Code: code, Message: err.Error(), Details: details},
		}); encErr != nil {
			return encErr
		}
	} else {
		fmt.Fprintf(formatter.Writer, "\n!! %v\n", err)
	}

	return WrapExitError(ExitFailure, "simulation stopped", err)
}

// newLogger configures slog based on the verbose flag.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func printDay(w io.Writer, day int64, stock []engine.Stock) {
	fmt.Fprintf(w, "-------- day %d --------\n", day)
	for _, s := range stock {
		fmt.Fprintln(w, s.Item.String())
	}
}

func itemViews(stock []engine.Stock) []ItemView {
	views := make([]ItemView, len(stock))
	for i, s := range stock {
		views[i] = ItemView{
			ID:      s.ID,
			Name:    s.Item.Name,
			Type:    s.Item.Type.String(),
			SellIn:  s.Item.SellIn,
			Quality: s.Item.Quality,
		}
	}
	return views
}
