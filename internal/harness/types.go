package harness

import "github.com/roach88/shelflife/internal/engine"

// ItemState is one item's values at the end of a day.
type ItemState struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SellIn  int    `json:"sell_in"`
	Quality int    `json:"quality"`
}

// DayState is the inventory at the end of a day. Day 0 is the initial state.
type DayState struct {
	Day   int64       `json:"day"`
	Items []ItemState `json:"items"`
}

// TickFailure records the error that stopped a run.
type TickFailure struct {
	Day     int64  `json:"day"`
	Item    string `json:"item"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	RunID string `json:"run_id"`

	// Days holds the state after each completed day, starting with day 0.
	Days []DayState `json:"days"`

	// Failure is set when the run stopped on a tick error.
	Failure *TickFailure `json:"failure,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(runID string) *Result {
	return &Result{
		Pass:   true,
		RunID:  runID,
		Days:   []DayState{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// LastDay returns the last completed day.
func (r *Result) LastDay() int64 {
	if len(r.Days) == 0 {
		return 0
	}
	return r.Days[len(r.Days)-1].Day
}

// State returns the state of item id after day, if recorded.
func (r *Result) State(day int64, id string) (ItemState, bool) {
	for _, ds := range r.Days {
		if ds.Day != day {
			continue
		}
		for _, is := range ds.Items {
			if is.ID == id {
				return is, true
			}
		}
	}
	return ItemState{}, false
}

func (r *Result) addDay(day int64, stock []engine.Stock) {
	ds := DayState{Day: day, Items: make([]ItemState, len(stock))}
	for i, s := range stock {
		ds.Items[i] = ItemState{
			ID:      s.ID,
			Name:    s.Item.Name,
			SellIn:  s.Item.SellIn,
			Quality: s.Item.Quality,
		}
	}
	r.Days = append(r.Days, ds)
}
