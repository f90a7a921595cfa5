package inventory

import "errors"

// ProcessTick advances the item by one simulated day.
//
// The countdown moves first (unless the item is Fixed), then the first rule
// matching the new countdown adjusts quality. On error the item is left
// untouched.
//
// An Increase or Decrease rule without a rate fails with MissingRate even
// when the quality bound would have blocked the change.
func (it *Item) ProcessTick() error {
	_, err := it.Advance()
	return err
}

// Advance is ProcessTick returning the index of the rule that fired.
func (it *Item) Advance() (int, error) {
	sellIn := it.SellIn
	if it.Type != Fixed {
		sellIn--
	}

	idx, rule, err := MatchRule(it.QualityRules, sellIn)
	if err != nil {
		return -1, newRuleNotFoundError(it.Name, sellIn)
	}

	quality, err := applyAdjustment(rule, it.Quality)
	if err != nil {
		return -1, newMissingRateError(it.Name, sellIn, idx, rule.Adjustment)
	}

	it.SellIn = sellIn
	it.Quality = quality
	return idx, nil
}

// MatchRule returns the first rule whose range contains sellIn.
//
// Earlier rules win when ranges overlap.
func MatchRule(rules []QualityRule, sellIn int) (int, QualityRule, error) {
	for i, r := range rules {
		if r.Matches(sellIn) {
			return i, r, nil
		}
	}
	return -1, QualityRule{}, errNoRule
}

var errMissingRate = errors.New("missing rate")

// applyAdjustment computes the new quality. The bounds gate the change;
// the result is not clamped.
func applyAdjustment(rule QualityRule, quality int) (int, error) {
	switch rule.Adjustment {
	case Increase:
		if rule.Rate == nil {
			return 0, errMissingRate
		}
		if quality < MaxQuality {
			return quality + *rule.Rate, nil
		}
	case Decrease:
		if rule.Rate == nil {
			return 0, errMissingRate
		}
		if quality > MinQuality {
			return quality - *rule.Rate, nil
		}
	case SetToMin:
		return MinQuality, nil
	}
	return quality, nil
}

// Validate checks construction-time invariants: at least one rule, and a
// rate on every Increase and Decrease rule. Coverage of the countdown range
// is checked by the compiler package.
func (it *Item) Validate() error {
	if len(it.QualityRules) == 0 {
		return newRuleNotFoundError(it.Name, it.SellIn)
	}
	for i, r := range it.QualityRules {
		if r.Adjustment.NeedsRate() && r.Rate == nil {
			return newMissingRateError(it.Name, it.SellIn, i, r.Adjustment)
		}
	}
	return nil
}
