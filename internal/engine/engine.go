package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/shelflife/internal/inventory"
	"github.com/roach88/shelflife/internal/store"
)

// DefaultMaxDays bounds a single run. Ten years of simulated days is far
// beyond any countdown in a sane catalog.
const DefaultMaxDays = 3650

// Stock is an item together with its catalog id.
type Stock struct {
	ID   string
	Item *inventory.Item
}

// DayReport is the outcome of one Tick.
type DayReport struct {
	RunID string       `json:"run_id"`
	Day   int64        `json:"day"`
	Ticks []store.Tick `json:"ticks"`
}

// Recorder persists runs. *store.Store implements it.
type Recorder interface {
	WriteRun(ctx context.Context, run store.Run) error
	WriteItems(ctx context.Context, rows []store.ItemRow) error
	WriteTick(ctx context.Context, t store.Tick) error
}

// Engine advances an inventory one day at a time.
//
// Thread-safety: an Engine must be driven from one goroutine.
type Engine struct {
	runID    string
	clock    *Clock
	stock    []Stock
	recorder Recorder
	logger   *slog.Logger
	maxDays  int64
	started  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder persists the run, its items and every tick.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithLogger sets the structured logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMaxDays sets the last day a run may reach. Zero disables the limit.
func WithMaxDays(n int64) Option {
	return func(e *Engine) {
		e.maxDays = n
	}
}

// WithClock starts the engine at the clock's current day.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// New creates an engine for a fresh run.
//
// Items are deep-copied; later changes to the caller's items do not affect
// the run. Every item is validated up front so that authoring mistakes such
// as a missing rate fail here rather than on some later day. Ids must be
// non-empty and unique.
func New(stock []Stock, gen RunIDGenerator, opts ...Option) (*Engine, error) {
	return newEngine(gen.Generate(), stock, opts...)
}

// Resume reopens a stored run at its last completed day.
func Resume(ctx context.Context, st *store.Store, runID string, opts ...Option) (*Engine, error) {
	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	rows, err := st.ReadItems(ctx, runID)
	if err != nil {
		return nil, err
	}

	stock := make([]Stock, len(rows))
	for i, row := range rows {
		stock[i] = Stock{ID: row.ItemID, Item: row.Item}
	}

	opts = append([]Option{WithRecorder(st), WithClock(NewClockAt(run.Days))}, opts...)
	e, err := newEngine(runID, stock, opts...)
	if err != nil {
		return nil, err
	}
	e.started = true
	return e, nil
}

func newEngine(runID string, stock []Stock, opts ...Option) (*Engine, error) {
	e := &Engine{
		runID:   runID,
		clock:   NewClock(),
		stock:   make([]Stock, 0, len(stock)),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDays: DefaultMaxDays,
	}
	for _, opt := range opts {
		opt(e)
	}

	seen := make(map[string]bool, len(stock))
	for i, s := range stock {
		if s.ID == "" {
			return nil, fmt.Errorf("stock[%d]: empty item id", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("stock[%d]: duplicate item id %q", i, s.ID)
		}
		seen[s.ID] = true
		if s.Item == nil {
			return nil, fmt.Errorf("stock[%d]: item %s is nil", i, s.ID)
		}
		if err := s.Item.Validate(); err != nil {
			return nil, &ItemError{RunID: runID, Day: e.clock.Current(), ItemID: s.ID, Err: err}
		}
		e.stock = append(e.stock, Stock{ID: s.ID, Item: s.Item.Clone()})
	}

	return e, nil
}

// RunID returns the run identifier.
func (e *Engine) RunID() string {
	return e.runID
}

// Day returns the last completed day.
func (e *Engine) Day() int64 {
	return e.clock.Current()
}

// Snapshot returns deep copies of the current items in inventory order.
func (e *Engine) Snapshot() []Stock {
	out := make([]Stock, len(e.stock))
	for i, s := range e.stock {
		out[i] = Stock{ID: s.ID, Item: s.Item.Clone()}
	}
	return out
}

// start records the run and the day-0 state.
func (e *Engine) start(ctx context.Context) error {
	if e.started {
		return nil
	}
	if e.recorder != nil {
		if err := e.recorder.WriteRun(ctx, store.Run{ID: e.runID, ItemCount: len(e.stock), Days: e.clock.Current()}); err != nil {
			return err
		}
		if err := e.recorder.WriteItems(ctx, e.itemRows(e.stock)); err != nil {
			return err
		}
	}
	e.started = true
	e.logger.Info("run started", "run", e.runID, "items", len(e.stock), "day", e.clock.Current())
	return nil
}

// Tick advances every item by one day.
//
// Returns the day's records. When an item fails, items and clock are left
// as they were and nothing is recorded.
func (e *Engine) Tick(ctx context.Context) (DayReport, error) {
	if err := ctx.Err(); err != nil {
		return DayReport{}, err
	}
	if err := e.start(ctx); err != nil {
		return DayReport{}, err
	}

	day := e.clock.Current() + 1
	if e.maxDays > 0 && day > e.maxDays {
		return DayReport{}, &DayLimitError{RunID: e.runID, Limit: e.maxDays}
	}

	next := make([]Stock, len(e.stock))
	report := DayReport{RunID: e.runID, Day: day, Ticks: make([]store.Tick, 0, len(e.stock))}

	for i, s := range e.stock {
		item := s.Item.Clone()
		idx, err := item.Advance()
		if err != nil {
			e.logger.Error("tick failed", "run", e.runID, "day", day, "item", s.ID, "error", err)
			return DayReport{}, &ItemError{RunID: e.runID, Day: day, ItemID: s.ID, Err: err}
		}

		report.Ticks = append(report.Ticks, store.Tick{
			RunID:         e.runID,
			Day:           day,
			ItemID:        s.ID,
			Position:      i,
			Name:          item.Name,
			SellInBefore:  s.Item.SellIn,
			SellInAfter:   item.SellIn,
			QualityBefore: s.Item.Quality,
			QualityAfter:  item.Quality,
			RuleIndex:     idx,
			Adjustment:    item.QualityRules[idx].Adjustment.String(),
		})
		next[i] = Stock{ID: s.ID, Item: item}

		e.logger.Debug("item ticked",
			"day", day,
			"item", s.ID,
			"sell_in", item.SellIn,
			"quality", item.Quality,
			"rule", idx,
		)
	}

	if e.recorder != nil {
		if err := e.record(ctx, report, next); err != nil {
			return DayReport{}, err
		}
	}

	e.stock = next
	e.clock.Next()
	e.logger.Info("day completed", "run", e.runID, "day", day, "items", len(next))
	return report, nil
}

// record writes the day's ticks, then the new item state, then the run's
// day counter. A crash between writes leaves ticks that a resumed run
// rewrites as no-ops.
func (e *Engine) record(ctx context.Context, report DayReport, next []Stock) error {
	for _, t := range report.Ticks {
		if err := e.recorder.WriteTick(ctx, t); err != nil {
			return fmt.Errorf("record day %d: %w", report.Day, err)
		}
	}
	if err := e.recorder.WriteItems(ctx, e.itemRows(next)); err != nil {
		return fmt.Errorf("record day %d: %w", report.Day, err)
	}
	if err := e.recorder.WriteRun(ctx, store.Run{ID: e.runID, ItemCount: len(next), Days: report.Day}); err != nil {
		return fmt.Errorf("record day %d: %w", report.Day, err)
	}
	return nil
}

func (e *Engine) itemRows(stock []Stock) []store.ItemRow {
	rows := make([]store.ItemRow, len(stock))
	for i, s := range stock {
		rows[i] = store.ItemRow{RunID: e.runID, ItemID: s.ID, Position: i, Item: s.Item}
	}
	return rows
}

// Run ticks the given number of days, stopping at the first error or when
// ctx is cancelled. Returns the reports of the days that completed.
func (e *Engine) Run(ctx context.Context, days int) ([]DayReport, error) {
	if days < 0 {
		return nil, fmt.Errorf("days must be non-negative, got %d", days)
	}
	reports := make([]DayReport, 0, days)
	for i := 0; i < days; i++ {
		report, err := e.Tick(ctx)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
