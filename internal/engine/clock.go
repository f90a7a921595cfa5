package engine

import "sync/atomic"

// Clock is the logical day counter of a run.
//
// Day 0 is the initial state; the first Tick produces day 1.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	day atomic.Int64
}

// NewClock creates a new clock at day 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock positioned at a specific day.
// Used to resume a stored run.
func NewClockAt(day int64) *Clock {
	c := &Clock{}
	c.day.Store(day)
	return c
}

// Next advances the clock and returns the new day.
func (c *Clock) Next() int64 {
	return c.day.Add(1)
}

// Current returns the last completed day without advancing.
func (c *Clock) Current() int64 {
	return c.day.Load()
}
