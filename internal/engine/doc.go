// Package engine drives the daily simulation of an inventory.
//
// The engine owns an ordered list of items and advances all of them one
// simulated day per Tick, calling inventory.(*Item).ProcessTick on each.
// It is the caller the update engine expects: it decides when days pass,
// keeps the countdown history and persists it.
//
// Days are atomic. Every item is updated on a private copy; if any item
// fails (RULE_NOT_FOUND, MISSING_RATE) the whole day is discarded, nothing
// is recorded and the clock does not advance.
//
// Days are numbered by a logical Clock, never by wall-clock time, so a run
// replayed from the same catalog produces identical tick records.
//
// Items are processed in inventory order by a single goroutine. The update
// of one item never reads another, so the order only affects the order of
// records.
package engine
