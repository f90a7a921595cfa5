package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExampleCatalog(t *testing.T) {
	out, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), exampleCatalog)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All items valid (9)")
}

func TestValidateExampleCatalogJSON(t *testing.T) {
	out, _, err := execute(NewValidateCommand(&RootOptions{Format: "json"}), exampleCatalog)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 9, resp.Data.Items)
}

func TestValidateNonExistentPath(t *testing.T) {
	out, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/catalog")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, out, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E003")
}

func TestValidateCoverageGap(t *testing.T) {
	dir := writeCatalog(t, teaCatalog)

	out, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "[E110] tea.rules")
}

func TestValidateOverlapIsWarning(t *testing.T) {
	dir := writeCatalog(t, `
package shop

item: cheese: {
	name:    "Cheese"
	type:    "Appreciating"
	sell_in: 5
	quality: 10
	rules: [
		{max_sell_in: 2, adjust: "Increase", rate: 2},
		{adjust: "Increase", rate: 1},
	]
}
`)

	out, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "warning [E111]")
	assert.Contains(t, out, "✓ All items valid (1)")
}

func TestValidateCompileErrorsCollected(t *testing.T) {
	dir := writeCatalog(t, `
package shop

item: a: {
	name:    "A"
	type:    "Legendary"
	sell_in: 0
	quality: 0
	rules: [{adjust: "None"}]
}

item: b: {
	name:    "B"
	type:    "Fixed"
	sell_in: 0
	quality: 0
	rules: [{adjust: "Shrink"}]
}
`)

	out, _, err := execute(NewValidateCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 2)
	assert.Equal(t, "a", resp.Data.Errors[0].Item)
	assert.Equal(t, "b", resp.Data.Errors[1].Item)
	assert.Equal(t, "E008", resp.Error.Code)
}
