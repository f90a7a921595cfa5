package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Golden files are regenerated with:
//
//	go test ./internal/harness -run TestRunWithGolden -update
func TestRunWithGolden_ScenarioFiles(t *testing.T) {
	tests := []string{"shop_catalog", "rule_not_found", "missing_rate"}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestAssertGolden_ReusesResult(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/rule_not_found.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	require.NoError(t, AssertGolden(t, "rule_not_found", result))
}

func TestReport_Format(t *testing.T) {
	result := NewResult("r")
	result.Days = []DayState{
		{Day: 0, Items: []ItemState{{ID: "a", Name: "Apple", SellIn: 1, Quality: 3}}},
		{Day: 1, Items: []ItemState{{ID: "a", Name: "Apple", SellIn: 0, Quality: 2}}},
	}

	want := "-------- day 0 --------\n" +
		"Apple - Quality=3, SellIn=1\n" +
		"\n" +
		"-------- day 1 --------\n" +
		"Apple - Quality=2, SellIn=0\n"
	assert.Equal(t, want, string(Report(result)))

	result.Failure = &TickFailure{Day: 2, Item: "a", Code: "RULE_NOT_FOUND", Message: "no quality rule matches countdown"}
	assert.Equal(t, want+"\n!! day 2: item a: RULE_NOT_FOUND: no quality rule matches countdown\n", string(Report(result)))
}

func TestReport_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/shop_catalog.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, Report(first), Report(second))
}
