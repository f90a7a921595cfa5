// Package inventory implements the shelf-life update engine.
//
// An Item carries a countdown (SellIn), a quality score and an ordered list
// of QualityRules. Once per simulated day the caller invokes ProcessTick,
// which:
//
//  1. Decrements SellIn unless the item is Fixed
//  2. Selects the first rule whose range contains the new SellIn
//  3. Applies that rule's adjustment to Quality
//
// The quality curve is entirely data-driven. ItemType only decides whether
// the countdown moves; adding a new curve means adding rules, not code.
//
// Quality bounds [MinQuality, MaxQuality] gate an adjustment, they do not
// clamp its result. An Increase with Rate 3 applied at Quality 49 yields 52.
// Whether that overshoot is intended is unknown, so it is reproduced as-is.
//
// Nothing in this package is safe for concurrent use on the same Item.
// Distinct items share no state and may be processed independently.
package inventory
