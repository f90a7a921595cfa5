package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/shelflife/internal/compiler"
	"github.com/roach88/shelflife/internal/engine"
	"github.com/roach88/shelflife/internal/inventory"
	"github.com/roach88/shelflife/internal/store"
	"github.com/roach88/shelflife/internal/testutil"
)

// Harness holds the per-scenario execution state.
type Harness struct {
	store  *store.Store
	runGen *testutil.FixedRunIDGenerator
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Load catalog items, then inline items
// 3. Tick the engine for scenario.Days days, or until a tick fails
// 4. Evaluate assertions against the result and the stored ticks
//
// A tick failure is not a Go error: it is captured in Result.Failure.
// The returned error covers setup problems (unreadable catalog, bad item
// definition, store failure).
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with engine logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		runGen: testutil.NewFixedRunIDGenerator(scenario.RunID),
		logger: logger,
	}

	stock, err := loadStock(scenario)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	result, err := h.execute(ctx, stock, scenario.Days)
	if err != nil {
		return nil, err
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	if result.Failure != nil && !expectsFailure(scenario.Assertions) {
		result.AddError(fmt.Sprintf("unexpected tick failure on day %d: item %s: %s",
			result.Failure.Day, result.Failure.Item, result.Failure.Message))
	}

	return result, nil
}

// loadStock builds the scenario inventory: catalog items first, then inline items.
func loadStock(scenario *Scenario) ([]engine.Stock, error) {
	var stock []engine.Stock

	for _, path := range scenario.Catalog {
		catalog, errs := compiler.LoadCatalog(path, compiler.LoadModeFailFast)
		if len(errs) > 0 {
			return nil, fmt.Errorf("failed to load catalog %s: %w", path, errs[0])
		}
		for _, ci := range catalog.Items {
			stock = append(stock, engine.Stock{ID: ci.ID, Item: ci.Item})
		}
	}

	for i, def := range scenario.Items {
		item, err := compiler.Build(def)
		if err != nil {
			return nil, fmt.Errorf("items[%d] (%s): %w", i, def.ID, err)
		}
		stock = append(stock, engine.Stock{ID: def.ID, Item: item})
	}

	return stock, nil
}

// execute runs the engine and captures every day's state.
func (h *Harness) execute(ctx context.Context, stock []engine.Stock, days int) (*Result, error) {
	runID := h.runGen.Generate()
	result := NewResult(runID)

	eng, err := engine.New(stock, h.runGen,
		engine.WithRecorder(h.store),
		engine.WithLogger(h.logger),
	)
	if err != nil {
		// Rule tables that fail Validate never start; report them as a
		// failure on day 0 so tick_error assertions can match them.
		failure, ok := asTickFailure(err)
		if !ok {
			return nil, fmt.Errorf("failed to create engine: %w", err)
		}
		result.addDay(0, stock)
		result.Failure = failure
		return result, nil
	}

	result.addDay(eng.Day(), eng.Snapshot())

	for i := 0; i < days; i++ {
		if _, err := eng.Tick(ctx); err != nil {
			failure, ok := asTickFailure(err)
			if !ok {
				return nil, fmt.Errorf("day %d: %w", eng.Day()+1, err)
			}
			result.Failure = failure
			break
		}
		result.addDay(eng.Day(), eng.Snapshot())
	}

	return result, nil
}

// asTickFailure extracts the failed item and tick error from an engine error.
func asTickFailure(err error) (*TickFailure, bool) {
	var itemErr *engine.ItemError
	var tickErr *inventory.TickError
	if !errors.As(err, &itemErr) || !errors.As(err, &tickErr) {
		return nil, false
	}
	return &TickFailure{
		Day:     itemErr.Day,
		Item:    itemErr.ItemID,
		Code:    string(tickErr.Code),
		Message: tickErr.Message,
	}, true
}

func expectsFailure(assertions []Assertion) bool {
	for _, a := range assertions {
		if a.Type == AssertTickError {
			return true
		}
	}
	return false
}
