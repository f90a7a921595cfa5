// Package harness provides conformance testing for shelflife rule tables.
//
// The harness loads items (inline or from CUE catalogs), runs them through
// the engine for a number of days, and checks the outcome against the
// scenario's assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: backstage_tiers
//	description: "Backstage passes appreciate faster near the concert"
//	run_id: backstage-001
//	days: 12
//	catalog:
//	  - ../catalog/gildedrose.cue
//	items:
//	  - id: pass
//	    name: Backstage passes to a TAFKAL80ETC concert
//	    type: AppreciatingTiered
//	    sell_in: 11
//	    quality: 20
//	    rules:
//	      - { max_sell_in: -1, adjust: SetToMin }
//	      - { min_sell_in: 0, max_sell_in: 5, adjust: Increase, rate: 3 }
//	      - { min_sell_in: 6, max_sell_in: 10, adjust: Increase, rate: 2 }
//	      - { min_sell_in: 11, adjust: Increase, rate: 1 }
//	assertions:
//	  - type: item_state
//	    item: pass
//	    day: 1
//	    sell_in: 10
//	    quality: 21
//	  - type: tick_count
//	    item: pass
//	    count: 12
//
// Catalog items come first, in declaration order, followed by inline items.
//
// # Assertion Types
//
//   - item_state: Checks an item's sell_in and/or quality after a given day
//     (default: the last completed day; day 0 is the initial state)
//   - tick_error: Expects the run to stop with the given error code,
//     optionally on a specific day and item
//   - tick_count: Checks how many ticks were recorded for an item
//
// A run that stops on a tick error fails the scenario unless a tick_error
// assertion expects it.
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store with a fixed
// run id (scenario.run_id, or "test-run-default"), so reports are
// byte-identical between executions and can be compared to golden files.
package harness
