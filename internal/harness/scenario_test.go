package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes a scenario file into dir and returns its path.
func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const inlineScenario = `
name: inline_vest
description: "A single inline item"
days: 2
run_id: vest-001
items:
  - id: vest
    name: "+5 Dexterity Vest"
    type: Deprecating
    sell_in: 10
    quality: 20
    rules:
      - { max_sell_in: -1, adjust: Decrease, rate: 2 }
      - { min_sell_in: 0, adjust: Decrease, rate: 1 }
assertions:
  - type: item_state
    item: vest
    quality: 18
`

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), inlineScenario)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "inline_vest", scenario.Name)
	assert.Equal(t, "vest-001", scenario.RunID)
	assert.Equal(t, 2, scenario.Days)
	require.Len(t, scenario.Items, 1)
	assert.Equal(t, "vest", scenario.Items[0].ID)
	require.Len(t, scenario.Items[0].Rules, 2)
	assert.Equal(t, -1, *scenario.Items[0].Rules[0].MaxSellIn)
	assert.Nil(t, scenario.Items[0].Rules[0].MinSellIn)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, 18, *scenario.Assertions[0].Quality)
	assert.Nil(t, scenario.Assertions[0].Day)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: typo
description: "assertion instead of assertions"
days: 1
items:
  - id: a
    name: A
    type: Fixed
    sell_in: 0
    quality: 0
    rules: [{ adjust: None }]
assertion:
  - type: tick_count
    item: a
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_UnknownItemField(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: typo
description: "sellin instead of sell_in"
days: 1
items:
  - id: a
    name: A
    type: Fixed
    sellin: 0
    quality: 0
    rules: [{ adjust: None }]
assertions:
  - type: tick_count
    item: a
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sellin")
}

func TestLoadScenario_ResolvesCatalogRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "catalog"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog", "shop.cue"), []byte("package shop\n"), 0644))

	path := writeScenario(t, dir, `
name: relative
description: "catalog next to the scenario"
days: 1
catalog:
  - catalog
assertions:
  - type: tick_count
    item: a
    count: 1
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "catalog"), scenario.Catalog[0])
}

func TestLoadScenario_Invalid(t *testing.T) {
	item := `
items:
  - id: a
    name: A
    type: Fixed
    sell_in: 0
    quality: 0
    rules: [{ adjust: None }]
`
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\ndays: 1\n" + item + "assertions: [{type: tick_count, item: a, count: 1}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\ndays: 1\n" + item + "assertions: [{type: tick_count, item: a, count: 1}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no items",
			content: "name: n\ndescription: d\ndays: 1\nassertions: [{type: tick_count, item: a, count: 1}]\n",
			wantErr: "catalog or items is required",
		},
		{
			name:    "negative days",
			content: "name: n\ndescription: d\ndays: -1\n" + item + "assertions: [{type: tick_count, item: a, count: 1}]\n",
			wantErr: "days must be non-negative",
		},
		{
			name:    "no assertions",
			content: "name: n\ndescription: d\ndays: 1\n" + item,
			wantErr: "assertions list is required",
		},
		{
			name:    "missing catalog",
			content: "name: n\ndescription: d\ndays: 1\ncatalog: [/nonexistent/shop.cue]\nassertions: [{type: tick_count, item: a, count: 1}]\n",
			wantErr: "catalog not found",
		},
		{
			name: "missing item id",
			content: "name: n\ndescription: d\ndays: 1\nitems: [{name: A, type: Fixed, sell_in: 0, quality: 0, rules: [{adjust: None}]}]\n" +
				"assertions: [{type: tick_count, item: a, count: 1}]\n",
			wantErr: "items[0]: id is required",
		},
		{
			name: "duplicate item id",
			content: "name: n\ndescription: d\ndays: 1\n" + item + "  - id: a\n    name: B\n    type: Fixed\n    sell_in: 0\n    quality: 0\n    rules: [{ adjust: None }]\n" +
				"assertions: [{type: tick_count, item: a, count: 1}]\n",
			wantErr: `items[1]: duplicate id "a"`,
		},
		{
			name:    "item_state without values",
			content: "name: n\ndescription: d\ndays: 1\n" + item + "assertions: [{type: item_state, item: a}]\n",
			wantErr: "sell_in or quality is required",
		},
		{
			name:    "tick_error without code",
			content: "name: n\ndescription: d\ndays: 1\n" + item + "assertions: [{type: tick_error, item: a}]\n",
			wantErr: "code is required for tick_error",
		},
		{
			name:    "tick_count without count",
			content: "name: n\ndescription: d\ndays: 1\n" + item + "assertions: [{type: tick_count, item: a}]\n",
			wantErr: "count is required for tick_count",
		},
		{
			name:    "unknown assertion",
			content: "name: n\ndescription: d\ndays: 1\n" + item + "assertions: [{type: final_state, item: a}]\n",
			wantErr: `unknown assertion type "final_state"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
