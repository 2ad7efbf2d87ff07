package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyScenarios copies the harness scenarios and their world into a temp
// directory so golden files can be written without touching testdata.
func copyScenarios(t *testing.T, names ...string) string {
	t.Helper()
	src := filepath.Join("..", "harness", "testdata")
	dir := t.TempDir()
	scenarios := filepath.Join(dir, "scenarios")
	require.NoError(t, os.MkdirAll(scenarios, 0o755))

	data, err := os.ReadFile(filepath.Join(src, "world.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "world.yaml"), data, 0o644))

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(src, "scenarios", name+".yaml"))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(scenarios, name+".yaml"), data, 0o644))
	}
	return scenarios
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	_, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyDirJSON(t *testing.T) {
	out, err := execute(t, "test", t.TempDir(), "--format", "json")
	require.NoError(t, err)

	var result TestResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Scenarios)
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	out, err := execute(t, "test", filepath.Join("..", "harness", "testdata", "scenarios"), "--format", "json")
	require.NoError(t, err)

	var result TestResult
	decodeData(t, out, &result)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 5, result.Passed)
	assert.Equal(t, 0, result.Failed)
}

func TestTestCommandFilter(t *testing.T) {
	out, err := execute(t, "test", filepath.Join("..", "harness", "testdata", "scenarios"), "--filter", "review_*")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ review_routing")
	assert.NotContains(t, out, "flag_once")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommandUpdateThenMatch(t *testing.T) {
	dir := copyScenarios(t, "review_routing")

	out, err := execute(t, "test", dir, "--update", "--format", "json")
	require.NoError(t, err)
	var updated TestResult
	decodeData(t, out, &updated)
	require.Len(t, updated.Scenarios, 1)
	assert.Equal(t, "updated", updated.Scenarios[0].Golden)

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "review_routing.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("..", "harness", "testdata", "golden", "review_routing.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(golden))

	out, err = execute(t, "test", dir, "--format", "json")
	require.NoError(t, err)
	var matched TestResult
	decodeData(t, out, &matched)
	assert.Equal(t, "match", matched.Scenarios[0].Golden)
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := copyScenarios(t, "flag_once")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "flag_once.golden"), []byte(`{}`), 0o644))

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ flag_once")
	assert.Contains(t, out, "--update")
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := copyScenarios(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(`
name: wrong
world_file: ../world.yaml
object: PHID-DREV-12
effects:
  - action: nothing
    rule: {id: H1, scope: global}
expect:
  transcripts:
    - {applied: false}
`), 0o644))

	out, err := execute(t, "test", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result TestResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Scenarios[0].Errors, 1)
	assert.Contains(t, result.Scenarios[0].Errors[0], "applied = true")
}

func TestTestCommandBrokenScenarioFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [\n"), 0o644))

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml", "c.txt", "review_x.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, files, 3)

	files, err = findScenarioFiles(dir, "review_*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "review_x.yaml")}, files)

	_, err = findScenarioFiles(dir, "[")
	assert.Error(t, err)
}
