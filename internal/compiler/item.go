package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/shelflife/internal/inventory"
)

// requiredFields must be present on every CUE item definition.
var requiredFields = []string{"name", "type", "sell_in", "quality", "rules"}

// CompileItem parses a CUE value into an inventory item.
// Returns the item id (the struct label) alongside the item.
//
// The CUE value should be the item struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`item: brie: { ... }`)
//	id, item, err := CompileItem(v.LookupPath(cue.ParsePath("item.brie")))
func CompileItem(v cue.Value) (string, *inventory.Item, error) {
	if err := v.Err(); err != nil {
		return "", nil, formatCUEError(err)
	}

	id := itemID(v)

	for _, field := range requiredFields {
		if !v.LookupPath(cue.ParsePath(field)).Exists() {
			return id, nil, &CompileError{
				Field:   field,
				Message: field + " is required",
				Pos:     v.Pos(),
			}
		}
	}

	var def ItemDef
	if err := v.Decode(&def); err != nil {
		return id, nil, formatCUEError(err)
	}
	if def.ID != "" {
		id = def.ID
	}

	item, err := Build(def)
	if err != nil {
		if ce, ok := err.(*CompileError); ok && !ce.Pos.IsValid() {
			field := "rules"
			if ce.Field == "type" {
				field = "type"
			}
			ce.Pos = v.LookupPath(cue.ParsePath(field)).Pos()
		}
		return id, nil, err
	}

	return id, item, nil
}

// itemID returns the last path label of v. Quoted labels such as
// "pass-15" are returned without their quotes.
func itemID(v cue.Value) string {
	labels := v.Path().Selectors()
	if len(labels) == 0 {
		return ""
	}
	sel := labels[len(labels)-1]
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// First error with a position wins
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
