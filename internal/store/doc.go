// Package store provides SQLite-backed storage for simulation runs.
//
// The store keeps three tables:
//   - runs: one row per simulation run, with the last day reached
//   - items: the latest state of every item in a run, rules included
//   - ticks: one row per (run, day, item) recording the before/after
//     countdown and quality and the rule that fired
//
// Tick rows are append-only. UNIQUE(run_id, day, item_id) makes rewriting
// a day a no-op, so a resumed run cannot duplicate history.
//
// # Ordering
//
// Ticks are always read ORDER BY day ASC, position ASC, where position is
// the item's index in the run's inventory. Days are logical; no wall-clock
// timestamps are stored.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
