package locmerge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupWorkspace writes a small input tree plus a configuration file
// pointing at it and returns the configuration path and the output dir
func setupWorkspace(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"global.ini":                   "\ufeffitem_pen=Medical Pen\nloc_stanton=Stanton\n",
		"sources/3.24.4 LIVE 100.json": `[{"id": 1, "key": "item_pen", "original": "Medical Pen", "translation": "医疗笔"}, {"id": 2, "key": "loc_stanton", "original": "Stanton", "translation": "斯坦顿"}]`,
		"rules/half.yaml":              "key:\n  match_rules:\n    include:\n      start_with: [item_]\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	out := filepath.Join(dir, "out")
	cfg := fmt.Sprintf(`
[paths]
reference = %q
sources = %q
rules = %q
output = %q
cache = %q

[variants]
enabled = ["full", "half"]
`, filepath.Join(dir, "global.ini"), filepath.Join(dir, "sources"), filepath.Join(dir, "rules"),
		out, filepath.Join(dir, "cache.db"))

	cfgPath := filepath.Join(dir, "locmerge.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))
	return cfgPath, out
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	cfgPath, out := setupWorkspace(t)

	stdout, err := execute(t, "run", "--config", cfgPath, "--format", "json")
	require.NoError(t, err)

	var summary struct {
		RunID    string `json:"runId"`
		Variants []struct {
			Variant string `json:"variant"`
			Error   string `json:"error"`
		} `json:"variants"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.NotEmpty(t, summary.RunID)
	require.Len(t, summary.Variants, 2)
	assert.Equal(t, "full", summary.Variants[0].Variant)
	assert.Equal(t, "half", summary.Variants[1].Variant)

	data, err := os.ReadFile(paths.VariantOutputPath(out, "half"))
	require.NoError(t, err)
	assert.Equal(t, "\ufeffitem_pen=Medical Pen\nloc_stanton=斯坦顿\n", string(data))
}

func TestRunCommandVariantFlag(t *testing.T) {
	cfgPath, out := setupWorkspace(t)

	_, err := execute(t, "run", "-c", cfgPath, "-f", "text", "--variant", " FULL ")
	require.NoError(t, err)

	_, err = os.Stat(paths.VariantOutputPath(out, "full"))
	assert.NoError(t, err)
	_, err = os.Stat(paths.VariantOutputPath(out, "half"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunCommandSetOverride(t *testing.T) {
	cfgPath, _ := setupWorkspace(t)
	dist := filepath.Join(t.TempDir(), "dist")

	_, err := execute(t, "run", "-c", cfgPath, "-f", "text", "--set", "paths.output="+dist, "--set", "variants.enabled=full")
	require.NoError(t, err)

	_, err = os.Stat(paths.VariantOutputPath(dist, "full"))
	assert.NoError(t, err)
	_, err = os.Stat(paths.VariantOutputPath(dist, "half"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunCommandUnknownVariant(t *testing.T) {
	cfgPath, _ := setupWorkspace(t)

	_, err := execute(t, "run", "-c", cfgPath, "--variant", "klingon")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid), "got %v", err)
}

func TestCheckCommand(t *testing.T) {
	cfgPath, _ := setupWorkspace(t)

	stdout, err := execute(t, "check", "-c", cfgPath, "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, stdout, "All checks passed")
}

func TestCheckCommandRuleErrors(t *testing.T) {
	cfgPath, _ := setupWorkspace(t)

	stdout, err := execute(t, "check", "-c", cfgPath, "-f", "text", "--set", "variants.half=missing.yaml")
	require.Error(t, err)
	assert.Contains(t, stdout, "half")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid), "got %v", err)
	assert.Equal(t, errors.ExitConfig, errors.ExitCode(err))
}

func TestExplainCommand(t *testing.T) {
	cfgPath, _ := setupWorkspace(t)

	stdout, err := execute(t, "explain", "item_pen", "-c", cfgPath, "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# item_pen")
	assert.Contains(t, stdout, "## half")
	assert.Contains(t, stdout, "- **output:** `Medical Pen`")

	_, err = execute(t, "explain", "nope", "-c", cfgPath)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound), "got %v", err)

	_, err = execute(t, "explain", "-c", cfgPath)
	assert.Error(t, err, "key argument is required")
}

func TestCacheCommands(t *testing.T) {
	cfgPath, _ := setupWorkspace(t)

	stdout, err := execute(t, "cache", "import", "-c", cfgPath, "-f", "json")
	require.NoError(t, err)
	var report struct {
		Imported []string `json:"imported"`
		Records  int      `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, []string{"3.24.4 LIVE 100.json"}, report.Imported)
	assert.Equal(t, 2, report.Records)

	stdout, err = execute(t, "cache", "status", "-c", cfgPath, "-f", "json")
	require.NoError(t, err)
	var status struct {
		Files   int `json:"files"`
		Records int `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &status))
	assert.Equal(t, 1, status.Files)
	assert.Equal(t, 2, status.Records)
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "locmerge.toml")

	_, err := execute(t, "config", "init", "-o", target, "-f", "text")
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# locmerge configuration")

	_, err = execute(t, "config", "init", "-o", target)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "refuses to overwrite")

	_, err = execute(t, "config", "init", "-o", target, "--force")
	assert.NoError(t, err)

	stdout, err := execute(t, "config", "init", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[paths]")
}

func TestMiscCommands(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "locmerge version")

	stdout, err = execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "locmerge")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)

	_, err = execute(t, "run", "-f", "xml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "got %v", err)
}

func TestRootWithoutCommand(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)
}
