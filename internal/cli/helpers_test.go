package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shelflife/internal/config"
)

// exampleCatalog is the reference catalog shipped with the repository.
var exampleCatalog = filepath.Join("..", "..", "examples", "catalog")

// exampleScenarios holds the reference scenarios and their golden files.
var exampleScenarios = filepath.Join("..", "..", "examples", "scenarios")

const teaCatalog = `
package shop

item: tea: {
	name:    "Green Tea"
	type:    "Deprecating"
	sell_in: 1
	quality: 10
	rules: [{min_sell_in: 0, adjust: "Decrease", rate: 1}]
}
`

// writeCatalog writes a single-file CUE catalog into a temp dir.
func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop.cue"), []byte(content), 0644))
	return dir
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func defaultEnv() config.Config {
	return config.Config{Days: 1, Format: "text"}
}
