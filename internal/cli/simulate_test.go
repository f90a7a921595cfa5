package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shelflife/internal/engine"
	"github.com/roach88/shelflife/internal/store"
)

type simulateResponse struct {
	Status string         `json:"status"`
	RunID  string         `json:"run_id"`
	Data   SimulateResult `json:"data"`
	Error  *CLIError      `json:"error"`
}

func newSimulate(format string) *SimulateOptions {
	return &SimulateOptions{RootOptions: &RootOptions{Format: format}}
}

func TestSimulateText(t *testing.T) {
	cmd := NewSimulateCommand(&RootOptions{Format: "text", Env: defaultEnv()})

	out, _, err := execute(cmd, exampleCatalog, "--days", "2", "--run-id", "text-001")
	require.NoError(t, err)

	assert.Contains(t, out, "-------- day 0 --------\n+5 Dexterity Vest - Quality=20, SellIn=10\n")
	assert.Contains(t, out, "-------- day 2 --------\n+5 Dexterity Vest - Quality=18, SellIn=8\n")
	assert.Contains(t, out, "Backstage passes to a TAFKAL80ETC concert - Quality=52, SellIn=3")
	assert.NotContains(t, out, "day 3")
}

func TestSimulateJSON(t *testing.T) {
	cmd := NewSimulateCommand(&RootOptions{Format: "json", Env: defaultEnv()})

	out, _, err := execute(cmd, exampleCatalog, "--days", "3", "--run-id", "json-001")
	require.NoError(t, err)

	var resp simulateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "json-001", resp.RunID)
	assert.Equal(t, int64(0), resp.Data.StartDay)
	assert.Equal(t, int64(3), resp.Data.EndDay)
	require.Len(t, resp.Data.Days, 3)
	require.Len(t, resp.Data.Days[0].Ticks, 9)
	require.Len(t, resp.Data.Items, 9)

	brie := resp.Data.Items[1]
	assert.Equal(t, "brie", brie.ID)
	assert.Equal(t, "Appreciating", brie.Type)
	assert.Equal(t, -1, brie.SellIn)
	assert.Equal(t, 4, brie.Quality)
}

func TestSimulateGeneratedRunID(t *testing.T) {
	opts := newSimulate("json")
	opts.Days = 1
	opts.RunIDGenerator = engine.NewFixedGenerator("generated-001")
	cmd := NewSimulateCommand(opts.RootOptions)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, runSimulate(opts, exampleCatalog, cmd))

	var resp simulateResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "generated-001", resp.Data.RunID)
}

func TestSimulatePersistsAndResumes(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shelf.db")

	_, _, err := execute(NewSimulateCommand(&RootOptions{Format: "json", Env: defaultEnv()}),
		exampleCatalog, "--days", "4", "--db", dbPath, "--run-id", "spring")
	require.NoError(t, err)

	out, _, err := execute(NewSimulateCommand(&RootOptions{Format: "json", Env: defaultEnv()}),
		"--db", dbPath, "--resume", "spring", "--days", "6")
	require.NoError(t, err)

	var resp simulateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, int64(4), resp.Data.StartDay)
	assert.Equal(t, int64(10), resp.Data.EndDay)

	// Same end state as ten uninterrupted days.
	assert.Equal(t, 10, resp.Data.Items[0].Quality)
	assert.Equal(t, 0, resp.Data.Items[0].SellIn)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.ReadRun(context.Background(), "spring")
	require.NoError(t, err)
	assert.Equal(t, int64(10), run.Days)

	ticks, err := st.ReadTicks(context.Background(), "spring", "vest")
	require.NoError(t, err)
	assert.Len(t, ticks, 10)
}

func TestSimulateResumeUnknownRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shelf.db")

	_, _, err := execute(NewSimulateCommand(&RootOptions{Format: "text", Env: defaultEnv()}),
		"--db", dbPath, "--resume", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "run not found: missing")
}

func TestSimulateArgumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no catalog", []string{"--days", "1"}, "catalog path is required"},
		{"negative days", []string{exampleCatalog, "--days", "-1"}, "--days must be non-negative"},
		{"resume without db", []string{"--resume", "x"}, "--resume requires --db"},
		{"resume with catalog", []string{exampleCatalog, "--resume", "x", "--db", "x.db"}, "do not pass a catalog"},
		{"resume with run id", []string{"--resume", "x", "--db", "x.db", "--run-id", "y"}, "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(NewSimulateCommand(&RootOptions{Format: "text", Env: defaultEnv()}), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSimulateMissingCatalog(t *testing.T) {
	out, _, err := execute(NewSimulateCommand(&RootOptions{Format: "text", Env: defaultEnv()}), "/nonexistent/catalog")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestSimulateRefusesInvalidCatalog(t *testing.T) {
	dir := writeCatalog(t, teaCatalog)

	out, _, err := execute(NewSimulateCommand(&RootOptions{Format: "text", Env: defaultEnv()}), dir, "--days", "5")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E110]")
	assert.NotContains(t, out, "-------- day")
}

func TestSimulateRuleNotFound(t *testing.T) {
	dir := writeCatalog(t, teaCatalog)

	out, _, err := execute(NewSimulateCommand(&RootOptions{Format: "text", Env: defaultEnv()}),
		dir, "--days", "5", "--skip-validate")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "-------- day 1 --------\nGreen Tea - Quality=9, SellIn=0\n")
	assert.NotContains(t, out, "day 2 --------")
	assert.Contains(t, out, "!! day 2: item tea: RULE_NOT_FOUND")
}

func TestSimulateRuleNotFoundJSON(t *testing.T) {
	dir := writeCatalog(t, teaCatalog)

	out, _, err := execute(NewSimulateCommand(&RootOptions{Format: "json", Env: defaultEnv()}),
		dir, "--days", "5", "--skip-validate")
	require.Error(t, err)

	var resp simulateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "RULE_NOT_FOUND", resp.Error.Code)
	assert.Equal(t, int64(1), resp.Data.EndDay)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, 9, resp.Data.Items[0].Quality)

	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "tea", details["item"])
	assert.Equal(t, float64(2), details["day"])
}

func TestSimulateMissingRateBlocked(t *testing.T) {
	dir := writeCatalog(t, `
package shop

item: wine: {
	name:    "Wine"
	type:    "Appreciating"
	sell_in: 5
	quality: 10
	rules: [{adjust: "Increase"}]
}
`)

	_, _, err := execute(NewSimulateCommand(&RootOptions{Format: "text", Env: defaultEnv()}),
		dir, "--skip-validate")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "MISSING_RATE")
}

func TestSimulateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewSimulateCommand(&RootOptions{Format: "text", Env: defaultEnv()})
	cmd.SetContext(ctx)

	out, _, err := execute(cmd, exampleCatalog, "--days", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "-------- day 0 --------")
	assert.NotContains(t, out, "-------- day 1 --------")
}
