package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/shelflife/internal/inventory"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestTick creates a tick with minimal required fields.
func createTestTick(runID, itemID string, day int64, position int) Tick {
	return Tick{
		RunID:         runID,
		Day:           day,
		ItemID:        itemID,
		Position:      position,
		Name:          itemID,
		SellInBefore:  10,
		SellInAfter:   9,
		QualityBefore: 20,
		QualityAfter:  19,
		RuleIndex:     1,
		Adjustment:    "Decrease",
	}
}

// tieredItem is the backstage pass curve.
func tieredItem() *inventory.Item {
	return &inventory.Item{
		Name:    "Backstage passes to a TAFKAL80ETC concert",
		Type:    inventory.AppreciatingTiered,
		SellIn:  15,
		Quality: 20,
		QualityRules: []inventory.QualityRule{
			{MaxSellIn: inventory.Int(-1), Adjustment: inventory.SetToMin},
			{MinSellIn: inventory.Int(0), MaxSellIn: inventory.Int(5), Adjustment: inventory.Increase, Rate: inventory.Int(3)},
			{MinSellIn: inventory.Int(6), MaxSellIn: inventory.Int(10), Adjustment: inventory.Increase, Rate: inventory.Int(2)},
			{MinSellIn: inventory.Int(11), Adjustment: inventory.Increase, Rate: inventory.Int(1)},
		},
	}
}
