// Package testutil holds deterministic helpers shared by package tests:
// the reference item fixtures and a fixed run id generator.
package testutil

import "github.com/roach88/shelflife/internal/inventory"

// Fixture names, matching the reference shop inventory.
const (
	VestName      = "+5 Dexterity Vest"
	ConjuredName  = "Conjured Mana Cake"
	BrieName      = "Aged Brie"
	BackstageName = "Backstage passes to a TAFKAL80ETC concert"
	SulfurasName  = "Sulfuras, Hand of Ragnaros"
)

// NewDeprecatingItem loses 1 quality per day, 2 once past due.
func NewDeprecatingItem(sellIn, quality int) *inventory.Item {
	return &inventory.Item{
		Name:    VestName,
		Type:    inventory.Deprecating,
		SellIn:  sellIn,
		Quality: quality,
		QualityRules: []inventory.QualityRule{
			{MaxSellIn: inventory.Int(-1), Adjustment: inventory.Decrease, Rate: inventory.Int(2)},
			{MinSellIn: inventory.Int(0), Adjustment: inventory.Decrease, Rate: inventory.Int(1)},
		},
	}
}

// NewConjuredItem degrades twice as fast as NewDeprecatingItem.
func NewConjuredItem(sellIn, quality int) *inventory.Item {
	it := NewDeprecatingItem(sellIn, quality)
	it.Name = ConjuredName
	for i := range it.QualityRules {
		*it.QualityRules[i].Rate *= 2
	}
	return it
}

// NewAppreciatingItem gains 1 quality per day, 2 once past due.
func NewAppreciatingItem(sellIn, quality int) *inventory.Item {
	return &inventory.Item{
		Name:    BrieName,
		Type:    inventory.Appreciating,
		SellIn:  sellIn,
		Quality: quality,
		QualityRules: []inventory.QualityRule{
			{MaxSellIn: inventory.Int(-1), Adjustment: inventory.Increase, Rate: inventory.Int(2)},
			{MinSellIn: inventory.Int(0), Adjustment: inventory.Increase, Rate: inventory.Int(1)},
		},
	}
}

// NewTieredItem gains faster as the event approaches and drops to zero after it.
func NewTieredItem(sellIn, quality int) *inventory.Item {
	return &inventory.Item{
		Name:    BackstageName,
		Type:    inventory.AppreciatingTiered,
		SellIn:  sellIn,
		Quality: quality,
		QualityRules: []inventory.QualityRule{
			{MaxSellIn: inventory.Int(-1), Adjustment: inventory.SetToMin},
			{MinSellIn: inventory.Int(0), MaxSellIn: inventory.Int(5), Adjustment: inventory.Increase, Rate: inventory.Int(3)},
			{MinSellIn: inventory.Int(6), MaxSellIn: inventory.Int(10), Adjustment: inventory.Increase, Rate: inventory.Int(2)},
			{MinSellIn: inventory.Int(11), Adjustment: inventory.Increase, Rate: inventory.Int(1)},
		},
	}
}

// NewFixedItem never ages and never changes quality.
func NewFixedItem(sellIn, quality int) *inventory.Item {
	return &inventory.Item{
		Name:    SulfurasName,
		Type:    inventory.Fixed,
		SellIn:  sellIn,
		Quality: quality,
		QualityRules: []inventory.QualityRule{
			{Adjustment: inventory.None},
		},
	}
}
