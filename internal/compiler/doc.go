// Package compiler turns textual item definitions into inventory items.
//
// Definitions come from two sources that share one shape (ItemDef):
// CUE catalog files, compiled with CompileItem, and YAML scenarios, which
// decode straight into ItemDef and call Build.
//
// A CUE catalog declares items under the top-level "item" struct:
//
//	item: vest: {
//		name:    "+5 Dexterity Vest"
//		type:    "Deprecating"
//		sell_in: 10
//		quality: 20
//		rules: [
//			{max_sell_in: -1, adjust: "Decrease", rate: 2},
//			{min_sell_in: 0, adjust: "Decrease", rate: 1},
//		]
//	}
//
// Validate reports authoring mistakes in a compiled item's rule table,
// most importantly countdown values that no rule (or more than one rule)
// covers.
package compiler
