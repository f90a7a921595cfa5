package store

import "github.com/roach88/shelflife/internal/inventory"

// Run is a simulation session.
type Run struct {
	ID        string `json:"id"`
	ItemCount int    `json:"item_count"`
	Days      int64  `json:"days"` // last completed day
}

// ItemRow is the latest stored state of one item in a run.
type ItemRow struct {
	RunID    string
	ItemID   string
	Position int
	Item     *inventory.Item
}

// Tick records one item's update on one day.
type Tick struct {
	RunID         string `json:"run_id"`
	Day           int64  `json:"day"`
	ItemID        string `json:"item_id"`
	Position      int    `json:"position"`
	Name          string `json:"name"`
	SellInBefore  int    `json:"sell_in_before"`
	SellInAfter   int    `json:"sell_in_after"`
	QualityBefore int    `json:"quality_before"`
	QualityAfter  int    `json:"quality_after"`
	RuleIndex     int    `json:"rule_index"`
	Adjustment    string `json:"adjustment"`
}
