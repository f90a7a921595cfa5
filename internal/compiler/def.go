package compiler

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/shelflife/internal/inventory"
)

// ItemDef is the textual form of an inventory item.
type ItemDef struct {
	ID      string    `json:"id,omitempty" yaml:"id"`
	Name    string    `json:"name" yaml:"name"`
	Type    string    `json:"type" yaml:"type"`
	SellIn  int       `json:"sell_in" yaml:"sell_in"`
	Quality int       `json:"quality" yaml:"quality"`
	Rules   []RuleDef `json:"rules" yaml:"rules"`
}

// RuleDef is the textual form of a quality rule.
// Nil pointers mean "absent".
type RuleDef struct {
	MinSellIn *int   `json:"min_sell_in,omitempty" yaml:"min_sell_in,omitempty"`
	MaxSellIn *int   `json:"max_sell_in,omitempty" yaml:"max_sell_in,omitempty"`
	Adjust    string `json:"adjust" yaml:"adjust"`
	Rate      *int   `json:"rate,omitempty" yaml:"rate,omitempty"`
}

// Build converts a definition into an item.
//
// Enum names are resolved case-insensitively and the item name is
// NFC-normalized so that visually identical names compare equal.
// Build does not check rule coverage; see Validate.
func Build(def ItemDef) (*inventory.Item, error) {
	typ, err := inventory.ParseItemType(def.Type)
	if err != nil {
		return nil, &CompileError{Field: "type", Message: err.Error()}
	}

	item := &inventory.Item{
		Name:         norm.NFC.String(strings.TrimSpace(def.Name)),
		SellIn:       def.SellIn,
		Quality:      def.Quality,
		Type:         typ,
		QualityRules: make([]inventory.QualityRule, 0, len(def.Rules)),
	}

	for i, rd := range def.Rules {
		adj, err := inventory.ParseAdjustment(rd.Adjust)
		if err != nil {
			return nil, &CompileError{Field: fmt.Sprintf("rules[%d].adjust", i), Message: err.Error()}
		}
		item.QualityRules = append(item.QualityRules, inventory.QualityRule{
			MinSellIn:  rd.MinSellIn,
			MaxSellIn:  rd.MaxSellIn,
			Adjustment: adj,
			Rate:       rd.Rate,
		})
	}

	return item, nil
}

// Definition is the inverse of Build.
func Definition(id string, item *inventory.Item) ItemDef {
	def := ItemDef{
		ID:      id,
		Name:    item.Name,
		Type:    item.Type.String(),
		SellIn:  item.SellIn,
		Quality: item.Quality,
		Rules:   make([]RuleDef, len(item.QualityRules)),
	}
	for i, r := range item.QualityRules {
		def.Rules[i] = RuleDef{
			MinSellIn: r.MinSellIn,
			MaxSellIn: r.MaxSellIn,
			Adjust:    r.Adjustment.String(),
			Rate:      r.Rate,
		}
	}
	return def
}
