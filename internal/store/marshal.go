package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/shelflife/internal/compiler"
	"github.com/roach88/shelflife/internal/inventory"
)

// marshalRules converts a rule list to JSON TEXT for storage, reusing the
// catalog definition shape so stored rules read like catalog entries.
func marshalRules(item *inventory.Item) (string, error) {
	def := compiler.Definition("", item)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(def.Rules); err != nil {
		return "", fmt.Errorf("marshal rules: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalItem rebuilds an item from its stored columns.
func unmarshalItem(name, typ string, sellIn, quality int, rulesJSON string) (*inventory.Item, error) {
	def := compiler.ItemDef{
		Name:    name,
		Type:    typ,
		SellIn:  sellIn,
		Quality: quality,
	}
	if err := json.Unmarshal([]byte(rulesJSON), &def.Rules); err != nil {
		return nil, fmt.Errorf("unmarshal rules: %w", err)
	}
	item, err := compiler.Build(def)
	if err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return item, nil
}
