package inventory

import (
	"fmt"
	"strings"
)

// Quality bounds enforced while adjusting.
const (
	MinQuality = 0
	MaxQuality = 50
)

// ItemType decides whether an item's countdown advances.
type ItemType int

const (
	// Fixed items never age.
	Fixed ItemType = iota
	Deprecating
	Appreciating
	AppreciatingTiered
)

var itemTypeNames = map[ItemType]string{
	Fixed:              "Fixed",
	Deprecating:        "Deprecating",
	Appreciating:       "Appreciating",
	AppreciatingTiered: "AppreciatingTiered",
}

// String returns the canonical type name.
func (t ItemType) String() string {
	if name, ok := itemTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ItemType(%d)", int(t))
}

// ParseItemType resolves a type name, ignoring case.
func ParseItemType(s string) (ItemType, error) {
	for t, name := range itemTypeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown item type %q", s)
}

// Adjustment is the quality change a rule applies.
type Adjustment int

const (
	None Adjustment = iota
	Increase
	Decrease
	SetToMin
)

var adjustmentNames = map[Adjustment]string{
	None:     "None",
	Increase: "Increase",
	Decrease: "Decrease",
	SetToMin: "SetToMin",
}

// String returns the canonical adjustment name.
func (a Adjustment) String() string {
	if name, ok := adjustmentNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Adjustment(%d)", int(a))
}

// ParseAdjustment resolves an adjustment name, ignoring case.
func ParseAdjustment(s string) (Adjustment, error) {
	for a, name := range adjustmentNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown adjustment %q", s)
}

// NeedsRate reports whether the adjustment requires a rate.
func (a Adjustment) NeedsRate() bool {
	return a == Increase || a == Decrease
}

// QualityRule maps a countdown range to a quality adjustment.
//
// A nil bound is unbounded on that side. Both bounds are inclusive.
type QualityRule struct {
	MinSellIn  *int
	MaxSellIn  *int
	Adjustment Adjustment
	Rate       *int
}

// Matches reports whether sellIn falls inside the rule's range.
func (r QualityRule) Matches(sellIn int) bool {
	return (r.MinSellIn == nil || *r.MinSellIn <= sellIn) &&
		(r.MaxSellIn == nil || *r.MaxSellIn >= sellIn)
}

// String renders the rule as "[min..max] Adjustment xRate".
func (r QualityRule) String() string {
	lo, hi := "*", "*"
	if r.MinSellIn != nil {
		lo = fmt.Sprintf("%d", *r.MinSellIn)
	}
	if r.MaxSellIn != nil {
		hi = fmt.Sprintf("%d", *r.MaxSellIn)
	}
	if r.Rate != nil {
		return fmt.Sprintf("[%s..%s] %s x%d", lo, hi, r.Adjustment, *r.Rate)
	}
	return fmt.Sprintf("[%s..%s] %s", lo, hi, r.Adjustment)
}

// Int returns a pointer to v, for building rule bounds and rates.
func Int(v int) *int {
	return &v
}

// Item is a tracked inventory entry.
//
// SellIn and Quality are the only fields ProcessTick mutates.
type Item struct {
	Name         string
	SellIn       int
	Quality      int
	Type         ItemType
	QualityRules []QualityRule
}

// String renders "{name} - Quality={quality}, SellIn={sellIn}".
func (it *Item) String() string {
	return fmt.Sprintf("%s - Quality=%d, SellIn=%d", it.Name, it.Quality, it.SellIn)
}

// Clone returns a deep copy of the item, rules included.
func (it *Item) Clone() *Item {
	c := *it
	c.QualityRules = make([]QualityRule, len(it.QualityRules))
	for i, r := range it.QualityRules {
		c.QualityRules[i] = QualityRule{
			MinSellIn:  copyInt(r.MinSellIn),
			MaxSellIn:  copyInt(r.MaxSellIn),
			Adjustment: r.Adjustment,
			Rate:       copyInt(r.Rate),
		}
	}
	return &c
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
