package compiler

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/roach88/shelflife/internal/inventory"
)

// Validation error codes (E100-E199)
const (
	// Item errors (E101-E109)
	ErrItemNameEmpty     = "E101" // name is required
	ErrItemNoRules       = "E102" // at least one rule required
	ErrRuleMissingRate   = "E103" // Increase/Decrease without rate
	ErrRuleInvertedRange = "E104" // min_sell_in > max_sell_in
	ErrQualityOutOfRange = "E105" // quality outside [0, 50] for an ageing item

	// Coverage errors (E110-E119)
	ErrCoverageGap     = "E110" // reachable countdown matched by no rule
	ErrCoverageOverlap = "E111" // reachable countdown matched by several rules
)

// Severity levels for validation findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a rule-table validation finding.
type ValidationError struct {
	Item     string `json:"item"`
	Field    string `json:"field"`
	Message  string `json:"message"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Item != "" {
		return fmt.Sprintf("[%s] %s.%s: %s", e.Code, e.Item, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// IsWarning reports whether the finding is advisory.
func (e ValidationError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// HasErrors reports whether any finding is an error rather than a warning.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if !e.IsWarning() {
			return true
		}
	}
	return false
}

// Validate checks an item's definition and rule table.
// Returns all findings (does not fail-fast).
//
// Coverage is checked only over countdown values the item can reach:
// its current SellIn for Fixed items, everything below it otherwise.
func Validate(id string, item *inventory.Item) []ValidationError {
	var errs []ValidationError
	add := func(field, code, severity, msg string) {
		errs = append(errs, ValidationError{Item: id, Field: field, Message: msg, Code: code, Severity: severity})
	}

	if strings.TrimSpace(item.Name) == "" {
		add("name", ErrItemNameEmpty, SeverityError, "name is required and must be non-empty")
	}

	if item.Type != inventory.Fixed && (item.Quality < inventory.MinQuality || item.Quality > inventory.MaxQuality) {
		add("quality", ErrQualityOutOfRange, SeverityError,
			fmt.Sprintf("quality %d outside [%d, %d]", item.Quality, inventory.MinQuality, inventory.MaxQuality))
	}

	if len(item.QualityRules) == 0 {
		add("rules", ErrItemNoRules, SeverityError, "at least one rule is required")
		return errs
	}

	inverted := false
	for i, r := range item.QualityRules {
		if r.Adjustment.NeedsRate() && r.Rate == nil {
			add(fmt.Sprintf("rules[%d].rate", i), ErrRuleMissingRate, SeverityError,
				fmt.Sprintf("%s rule requires a rate", r.Adjustment))
		}
		if r.MinSellIn != nil && r.MaxSellIn != nil && *r.MinSellIn > *r.MaxSellIn {
			add(fmt.Sprintf("rules[%d]", i), ErrRuleInvertedRange, SeverityError,
				fmt.Sprintf("min_sell_in %d exceeds max_sell_in %d", *r.MinSellIn, *r.MaxSellIn))
			inverted = true
		}
	}
	if inverted {
		return errs
	}

	lo, hi := math.MinInt, item.SellIn-1
	if item.Type == inventory.Fixed {
		lo, hi = item.SellIn, item.SellIn
	}
	gaps, overlaps := Coverage(item.QualityRules, lo, hi)
	for _, g := range gaps {
		add("rules", ErrCoverageGap, SeverityError, "no rule covers sell_in "+g.String())
	}
	for _, o := range overlaps {
		add("rules", ErrCoverageOverlap, SeverityWarning, "several rules cover sell_in "+o.String()+"; the first listed wins")
	}

	return errs
}

// Span is an inclusive countdown interval. math.MinInt and math.MaxInt
// stand for unbounded ends.
type Span struct {
	Lo, Hi int
}

// String renders the span, using * for unbounded ends.
func (s Span) String() string {
	lo, hi := "*", "*"
	if s.Lo != math.MinInt {
		lo = fmt.Sprintf("%d", s.Lo)
	}
	if s.Hi != math.MaxInt {
		hi = fmt.Sprintf("%d", s.Hi)
	}
	if s.Lo == s.Hi {
		return lo
	}
	return lo + ".." + hi
}

// Coverage reports the parts of [lo, hi] matched by no rule (gaps) and
// by more than one rule (overlaps). Rules with inverted ranges match
// nothing and are ignored.
func Coverage(rules []inventory.QualityRule, lo, hi int) (gaps, overlaps []Span) {
	if lo > hi {
		return nil, nil
	}

	spans := make([]Span, 0, len(rules))
	for _, r := range rules {
		s := Span{Lo: math.MinInt, Hi: math.MaxInt}
		if r.MinSellIn != nil {
			s.Lo = *r.MinSellIn
		}
		if r.MaxSellIn != nil {
			s.Hi = *r.MaxSellIn
		}
		s.Lo, s.Hi = max(s.Lo, lo), min(s.Hi, hi)
		if s.Lo <= s.Hi {
			spans = append(spans, s)
		}
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Lo != spans[j].Lo {
			return spans[i].Lo < spans[j].Lo
		}
		return spans[i].Hi < spans[j].Hi
	})

	// covered is the highest value reached so far; next is covered+1
	// unless coverage already hit hi.
	next, done := lo, false
	for _, s := range spans {
		if done {
			overlaps = appendSpan(overlaps, s)
			continue
		}
		if s.Lo > next {
			gaps = append(gaps, Span{Lo: next, Hi: s.Lo - 1})
		} else if s.Lo < next {
			overlaps = appendSpan(overlaps, Span{Lo: s.Lo, Hi: min(s.Hi, next-1)})
		}
		if s.Hi >= next {
			if s.Hi == hi {
				done = true
				continue
			}
			next = s.Hi + 1
		}
	}
	if !done {
		gaps = append(gaps, Span{Lo: next, Hi: hi})
	}
	return gaps, overlaps
}

// appendSpan adds s, merging it into the previous span when they touch.
func appendSpan(spans []Span, s Span) []Span {
	if n := len(spans); n > 0 && spans[n-1].Hi != math.MaxInt && s.Lo <= spans[n-1].Hi+1 {
		spans[n-1].Hi = max(spans[n-1].Hi, s.Hi)
		return spans
	}
	return append(spans, s)
}
