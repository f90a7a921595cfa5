package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Report renders a result as the day-by-day inventory listing:
//
//	-------- day 0 --------
//	+5 Dexterity Vest - Quality=20, SellIn=10
//
//	-------- day 1 --------
//	+5 Dexterity Vest - Quality=19, SellIn=9
//
// A run that stopped on a tick error ends with a line starting "!!".
func Report(result *Result) []byte {
	var buf strings.Builder
	for i, ds := range result.Days {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "-------- day %d --------\n", ds.Day)
		for _, is := range ds.Items {
			fmt.Fprintf(&buf, "%s - Quality=%d, SellIn=%d\n", is.Name, is.Quality, is.SellIn)
		}
	}
	if f := result.Failure; f != nil {
		fmt.Fprintf(&buf, "\n!! day %d: item %s: %s: %s\n", f.Day, f.Item, f.Code, f.Message)
	}
	return []byte(buf.String())
}

// RunWithGolden executes a scenario and compares its report against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the report doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares the given result's report against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Report(result))

	return nil
}
