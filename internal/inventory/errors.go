package inventory

import (
	"errors"
	"fmt"
)

// TickErrorCode categorizes tick failures.
type TickErrorCode string

const (
	// ErrCodeRuleNotFound indicates no rule covers the item's countdown.
	ErrCodeRuleNotFound TickErrorCode = "RULE_NOT_FOUND"

	// ErrCodeMissingRate indicates an Increase or Decrease rule without a rate.
	ErrCodeMissingRate TickErrorCode = "MISSING_RATE"
)

// TickError reports a malformed rule set detected while processing an item.
//
// Both codes are authoring mistakes. Retrying the tick cannot succeed.
type TickError struct {
	Code    TickErrorCode
	Message string

	// Item is the item name.
	Item string

	// SellIn is the countdown the rules were evaluated against.
	SellIn int

	// RuleIndex is the offending rule, or -1 when no rule matched.
	RuleIndex int
}

// Error implements the error interface.
func (e *TickError) Error() string {
	if e.RuleIndex >= 0 {
		return fmt.Sprintf("%s: %s (item=%q, sell_in=%d, rule=%d)", e.Code, e.Message, e.Item, e.SellIn, e.RuleIndex)
	}
	return fmt.Sprintf("%s: %s (item=%q, sell_in=%d)", e.Code, e.Message, e.Item, e.SellIn)
}

// IsRuleNotFound returns true if err is a RULE_NOT_FOUND tick error.
// Uses errors.As to handle wrapped errors.
func IsRuleNotFound(err error) bool {
	var te *TickError
	if errors.As(err, &te) {
		return te.Code == ErrCodeRuleNotFound
	}
	return false
}

// IsMissingRate returns true if err is a MISSING_RATE tick error.
// Uses errors.As to handle wrapped errors.
func IsMissingRate(err error) bool {
	var te *TickError
	if errors.As(err, &te) {
		return te.Code == ErrCodeMissingRate
	}
	return false
}

// errNoRule is returned by MatchRule. ProcessTick decorates it with item context.
var errNoRule = errors.New("no quality rule matches countdown")

func newRuleNotFoundError(name string, sellIn int) *TickError {
	return &TickError{
		Code:      ErrCodeRuleNotFound,
		Message:   errNoRule.Error(),
		Item:      name,
		SellIn:    sellIn,
		RuleIndex: -1,
	}
}

func newMissingRateError(name string, sellIn, index int, adj Adjustment) *TickError {
	return &TickError{
		Code:      ErrCodeMissingRate,
		Message:   fmt.Sprintf("%s rule has no rate", adj),
		Item:      name,
		SellIn:    sellIn,
		RuleIndex: index,
	}
}
