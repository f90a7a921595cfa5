package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/shelflife/internal/compiler"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog lists CUE catalog files or directories to load.
	// Paths are relative to the scenario file location.
	Catalog []string `yaml:"catalog,omitempty"`

	// Items are inline item definitions, added after catalog items.
	Items []compiler.ItemDef `yaml:"items,omitempty"`

	// Days is the number of days to simulate.
	Days int `yaml:"days"`

	// RunID is an optional fixed run id.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Assertions validate the run.
	// Supported types: item_state, tick_error, tick_count
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates the outcome of a run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "item_state": Check sell_in and/or quality of an item after a day
	// - "tick_error": Check the run stopped with an error code
	// - "tick_count": Check how many ticks were recorded for an item
	Type string `yaml:"type"`

	// Item is the item id (required by item_state and tick_count).
	Item string `yaml:"item,omitempty"`

	// Day selects the day (item_state, tick_error). Optional.
	Day *int64 `yaml:"day,omitempty"`

	SellIn  *int `yaml:"sell_in,omitempty"`
	Quality *int `yaml:"quality,omitempty"`

	// Code is the expected tick error code (tick_error).
	Code string `yaml:"code,omitempty"`

	// Count is the expected number of recorded ticks (tick_count).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertItemState = "item_state"
	AssertTickError = "tick_error"
	AssertTickCount = "tick_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Catalog paths are resolved relative to the scenario file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving catalog paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve catalog paths BEFORE validation
	for i, catalogPath := range scenario.Catalog {
		if !filepath.IsAbs(catalogPath) && basePath != "" {
			scenario.Catalog[i] = filepath.Join(basePath, catalogPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Catalog) == 0 && len(s.Items) == 0 {
		return fmt.Errorf("catalog or items is required")
	}

	if s.Days < 0 {
		return fmt.Errorf("days must be non-negative, got %d", s.Days)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, catalogPath := range s.Catalog {
		if _, err := os.Stat(catalogPath); os.IsNotExist(err) {
			return fmt.Errorf("catalog not found: %s", catalogPath)
		}
	}

	seen := make(map[string]bool, len(s.Items))
	for i, def := range s.Items {
		if def.ID == "" {
			return fmt.Errorf("items[%d]: id is required", i)
		}
		if seen[def.ID] {
			return fmt.Errorf("items[%d]: duplicate id %q", i, def.ID)
		}
		seen[def.ID] = true
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertItemState:
		if a.Item == "" {
			return fmt.Errorf("assertions[%d]: item is required for item_state", index)
		}
		if a.SellIn == nil && a.Quality == nil {
			return fmt.Errorf("assertions[%d]: sell_in or quality is required for item_state", index)
		}
		if a.Day != nil && *a.Day < 0 {
			return fmt.Errorf("assertions[%d]: day must be non-negative", index)
		}
	case AssertTickError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for tick_error", index)
		}
	case AssertTickCount:
		if a.Item == "" {
			return fmt.Errorf("assertions[%d]: item is required for tick_count", index)
		}
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for tick_count", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for tick_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
