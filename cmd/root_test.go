package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleConfig = "../test/testdata/example_config.yaml"

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunCommand_ConsoleToStdout(t *testing.T) {
	stdout, _, err := executeCommand(t, "run", exampleConfig, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ROSCA COMMITTEE FORECAST: example")
	assert.Contains(t, stdout, "KEY ASSUMPTIONS:")
	assert.Contains(t, stdout, "Year 5")
}

func TestRunCommand_JSON(t *testing.T) {
	stdout, _, err := executeCommand(t, "run", exampleConfig, "--format", "json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(stdout), "{"))
	assert.Contains(t, stdout, `"records"`)
}

func TestRunCommand_AllPartitions(t *testing.T) {
	dir := t.TempDir()
	saved := filepath.Join(dir, "resolved.yaml")
	stdout, _, err := executeCommand(t, "run", exampleConfig, "--format", "all", "--output-dir", dir, "--save-config", saved)
	require.NoError(t, err)

	for _, p := range []string{"Forecast", "Monthly", "Yearly", "Flows"} {
		assert.FileExists(t, filepath.Join(dir, "example_"+p+".csv"))
	}
	assert.FileExists(t, saved)
	assert.Equal(t, 5, strings.Count(stdout, "wrote "))
}

func TestRunCommand_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("ROSCA_FORMAT", "console-lite")
	stdout, _, err := executeCommand(t, "run", exampleConfig)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "example: 60 months"), "got %q", stdout)

	// flags still win over the environment
	stdout, _, err = executeCommand(t, "run", exampleConfig, "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Period,Label,Users"))
}

func TestRunCommand_SettingsFile(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("format: flows-csv\nworkers: 1\n"), 0o644))

	stdout, _, err := executeCommand(t, "run", exampleConfig, "--settings", settings)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Month,Year,Period,NewUsers"))
}

func TestRunCommand_Errors(t *testing.T) {
	_, _, err := executeCommand(t, "run", "missing.yaml")
	assert.ErrorContains(t, err, "failed to read file")

	_, _, err = executeCommand(t, "run", exampleConfig, "--format", "html")
	assert.ErrorContains(t, err, "unsupported report format")

	_, _, err = executeCommand(t, "run", exampleConfig, "--log", "chatty")
	assert.ErrorContains(t, err, "invalid log level")

	_, _, err = executeCommand(t, "run", exampleConfig, "--workers", "0")
	assert.ErrorContains(t, err, "workers must be at least 1")

	_, _, err = executeCommand(t, "run")
	assert.Error(t, err)
}

func TestRunCommand_LogsWarnings(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "under.yaml")
	data, err := os.ReadFile(exampleConfig)
	require.NoError(t, err)
	content := strings.Replace(string(data), "allocation_percent: 40", "allocation_percent: 30", 1)
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o644))

	_, stderr, err := executeCommand(t, "run", cfg, "--format", "console-lite")
	require.NoError(t, err)
	assert.Contains(t, stderr, "durations allocation totals 90%, expected 100%")
}

func TestValidateCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "validate", exampleConfig)
	require.NoError(t, err)
	assert.Contains(t, stdout, `Configuration "example" is valid: durations [3 6 12], horizon 60 months`)
	assert.Contains(t, stdout, "duration 6: 5 of 6 slots open, 2 slabs")
	assert.Contains(t, stdout, "duration 12: 11 of 12 slots open, 2 slabs")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("committees:\n  - duration: 2\n    slots:\n      3: { fee_percent: 1 }\n"), 0o644))
	_, _, err = executeCommand(t, "validate", bad)
	assert.ErrorContains(t, err, "slot 3 is outside 1..2")
}

func TestExampleCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "example")
	require.NoError(t, err)
	assert.Contains(t, stdout, "committees:")
	assert.Contains(t, stdout, "fan_out_mode: even_split")

	path := filepath.Join(t.TempDir(), "example.yaml")
	stdout, _, err = executeCommand(t, "example", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Example configuration written to")

	// the written example must validate
	stdout, _, err = executeCommand(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "is valid")
}

func TestCompareCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "compare", exampleConfig, "../test/testdata/aggressive_growth.yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "SCENARIO COMPARISON")
	assert.Contains(t, stdout, "aggressive growth")
	assert.Contains(t, stdout, "Best for profit:")

	dir := t.TempDir()
	stdout, _, err = executeCommand(t, "compare", exampleConfig, "../test/testdata/aggressive_growth.yaml", "--format", "csv", "--output-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote ")
	matches, err := filepath.Glob(filepath.Join(dir, "comparison_*.csv"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	_, _, err = executeCommand(t, "compare", exampleConfig)
	assert.Error(t, err, "compare needs at least two configurations")
}
