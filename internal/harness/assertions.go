package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/shelflife/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// assertItemState checks an item's sell_in and/or quality after a day.
func assertItemState(result *Result, assertion Assertion) error {
	day := result.LastDay()
	if assertion.Day != nil {
		day = *assertion.Day
	}

	state, ok := result.State(day, assertion.Item)
	if !ok {
		return &AssertionError{
			Type:     AssertItemState,
			Expected: fmt.Sprintf("item %s on day %d", assertion.Item, day),
			Actual:   fmt.Sprintf("no state recorded (last completed day %d)", result.LastDay()),
		}
	}

	var diffs []string
	if assertion.SellIn != nil && *assertion.SellIn != state.SellIn {
		diffs = append(diffs, fmt.Sprintf("sell_in %d, want %d", state.SellIn, *assertion.SellIn))
	}
	if assertion.Quality != nil && *assertion.Quality != state.Quality {
		diffs = append(diffs, fmt.Sprintf("quality %d, want %d", state.Quality, *assertion.Quality))
	}
	if len(diffs) == 0 {
		return nil
	}

	return &AssertionError{
		Type:     AssertItemState,
		Expected: fmt.Sprintf("item %s on day %d: %s", assertion.Item, day, formatExpected(assertion)),
		Actual:   strings.Join(diffs, ", "),
	}
}

func formatExpected(a Assertion) string {
	var parts []string
	if a.SellIn != nil {
		parts = append(parts, fmt.Sprintf("sell_in=%d", *a.SellIn))
	}
	if a.Quality != nil {
		parts = append(parts, fmt.Sprintf("quality=%d", *a.Quality))
	}
	return strings.Join(parts, " ")
}

// assertTickError checks that the run stopped with the expected error.
// Item and day are checked only when the assertion names them.
func assertTickError(result *Result, assertion Assertion) error {
	expected := assertion.Code
	if assertion.Item != "" {
		expected += " on item " + assertion.Item
	}
	if assertion.Day != nil {
		expected += fmt.Sprintf(" on day %d", *assertion.Day)
	}

	f := result.Failure
	if f == nil {
		return &AssertionError{
			Type:     AssertTickError,
			Expected: expected,
			Actual:   fmt.Sprintf("no tick failure (last completed day %d)", result.LastDay()),
		}
	}

	if f.Code != assertion.Code ||
		(assertion.Item != "" && f.Item != assertion.Item) ||
		(assertion.Day != nil && f.Day != *assertion.Day) {
		return &AssertionError{
			Type:     AssertTickError,
			Expected: expected,
			Actual:   fmt.Sprintf("%s on item %s on day %d", f.Code, f.Item, f.Day),
		}
	}

	return nil
}

// assertTickCount checks the number of ticks stored for an item.
func assertTickCount(ctx context.Context, st *store.Store, runID string, assertion Assertion) error {
	ticks, err := st.ReadTicks(ctx, runID, assertion.Item)
	if err != nil {
		return fmt.Errorf("tick_count: failed to read ticks: %w", err)
	}

	if len(ticks) != *assertion.Count {
		return &AssertionError{
			Type:     AssertTickCount,
			Expected: fmt.Sprintf("%d ticks for %s", *assertion.Count, assertion.Item),
			Actual:   fmt.Sprintf("%d ticks", len(ticks)),
		}
	}

	return nil
}

// AssertionContext provides the store for assertions that read it.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions runs all assertions and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertItemState:
			err = assertItemState(result, assertion)
		case AssertTickError:
			err = assertTickError(result, assertion)
		case AssertTickCount:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: tick_count requires database context", i)
			} else {
				err = assertTickCount(actx.Ctx, actx.Store, result.RunID, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
