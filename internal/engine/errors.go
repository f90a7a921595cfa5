package engine

import (
	"errors"
	"fmt"
)

// ItemError reports which item failed a day.
// The underlying error is usually an *inventory.TickError.
type ItemError struct {
	RunID  string
	Day    int64
	ItemID string
	Err    error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return fmt.Sprintf("day %d: item %s: %v", e.Day, e.ItemID, e.Err)
}

// Unwrap exposes the underlying tick error to errors.Is/As.
func (e *ItemError) Unwrap() error {
	return e.Err
}

// DayLimitError indicates a run tried to go past its maximum day.
type DayLimitError struct {
	RunID string
	Limit int64
}

// Error implements the error interface.
func (e *DayLimitError) Error() string {
	return fmt.Sprintf("run %s reached the day limit (%d)", e.RunID, e.Limit)
}

// IsDayLimitError returns true if err is a DayLimitError.
// Uses errors.As to handle wrapped errors.
func IsDayLimitError(err error) bool {
	var dl *DayLimitError
	return errors.As(err, &dl)
}

// FailedItem returns the id of the item that failed, if err is an ItemError.
func FailedItem(err error) (string, bool) {
	var ie *ItemError
	if errors.As(err, &ie) {
		return ie.ItemID, true
	}
	return "", false
}
