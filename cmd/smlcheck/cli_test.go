package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, int) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), GetExitCode(err)
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

// workspace writes a unit with a clean member and a member holding one type
// error, and returns the unit description path.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.unit.yml"), "name: app\nmembers: [foo.sml, bar.sml]\n")
	writeFile(t, filepath.Join(dir, "foo.sml"), "structure Foo = struct val x = 1 end\n")
	writeFile(t, filepath.Join(dir, "bar.sml"), "val y : string = Foo.x\n")
	return filepath.Join(dir, "app.unit.yml")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"check", "codes", "parse", "history"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestInvalidFormatIsCommandError(t *testing.T) {
	_, code := execute(t, "", "codes", "--format", "yaml")
	assert.Equal(t, ExitCommandError, code)
}

func TestCheckReportsDiagnostics(t *testing.T) {
	out, code := execute(t, "", "check", workspace(t))
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "bar.sml:1:")
	assert.Contains(t, out, "error[5001]")
	assert.Contains(t, out, "checked 1 unit(s), 2 file(s): 1 error(s), 0 warning(s)")
}

func TestCheckCleanFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.sml"), "fun inc n = n + 1\n")
	writeFile(t, filepath.Join(dir, "b.sml"), "val two = inc 1\n")

	out, code := execute(t, "", "check", filepath.Join(dir, "a.sml"), filepath.Join(dir, "b.sml"))
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "0 error(s)")
}

func TestCheckJSONOutput(t *testing.T) {
	out, code := execute(t, "", "check", "--format", "json", workspace(t))
	assert.Equal(t, ExitFailure, code)

	var report struct {
		Units []struct {
			Unit        string `json:"unit"`
			Session     string `json:"session"`
			Diagnostics []struct {
				Code int `json:"code"`
			} `json:"diagnostics"`
			Exports struct {
				Values     map[string]string `json:"values"`
				Structures map[string]any    `json:"structures"`
			} `json:"exports"`
		} `json:"units"`
		Errors int `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Units, 1)
	assert.Equal(t, "app", report.Units[0].Unit)
	assert.NotEmpty(t, report.Units[0].Session)
	require.Len(t, report.Units[0].Diagnostics, 1)
	assert.Equal(t, 5001, report.Units[0].Diagnostics[0].Code)
	assert.Contains(t, report.Units[0].Exports.Structures, "Foo")
	assert.Equal(t, 1, report.Errors)
}

func TestCheckUsesWorkspaceConfig(t *testing.T) {
	unit := workspace(t)
	dir := filepath.Dir(unit)
	writeFile(t, filepath.Join(dir, "smlcheck.yml"), `
version: 1
workspace:
  units: [app.unit.yml]
diagnostics:
  "5001":
    severity: warning
`)
	chdir(t, dir)

	out, code := execute(t, "", "check")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "warning[5001]")
	assert.Contains(t, out, "0 error(s), 1 warning(s)")
}

func TestCheckWithoutInputs(t *testing.T) {
	chdir(t, t.TempDir())
	_, code := execute(t, "", "check")
	assert.Equal(t, ExitCommandError, code)
}

func TestCheckBrokenDescription(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.unit.yml"), "members: [$(SML_LIB)/basis.cm]\n")
	_, code := execute(t, "", "check", filepath.Join(dir, "app.unit.yml"))
	assert.Equal(t, ExitCommandError, code)
}

func TestCheckRecordsHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	_, code := execute(t, "", "check", "--history", db, workspace(t))
	require.Equal(t, ExitFailure, code)

	out, code := execute(t, "", "history", "--db", db, "--format", "json")
	require.Equal(t, ExitSuccess, code)
	var runs []runRow
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "app", runs[0].Unit)
	assert.Equal(t, 1, runs[0].Errors)

	out, code = execute(t, "", "history", "--db", db, runs[0].Session)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "error[5001]")
}

func TestHistoryRequiresDatabase(t *testing.T) {
	_, code := execute(t, "", "history")
	assert.Equal(t, ExitCommandError, code)
}

func TestCodesCommand(t *testing.T) {
	out, code := execute(t, "", "codes")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "2001  SyntaxError")
	assert.Contains(t, out, "5012  NotConstructor")

	out, code = execute(t, "", "codes", "5004")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "NotEqualityType")

	_, code = execute(t, "", "codes", "9999")
	assert.Equal(t, ExitCommandError, code)
}

func TestParseCommand(t *testing.T) {
	out, code := execute(t, "val x = 1\n", "parse")
	assert.Equal(t, ExitSuccess, code)
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Contains(t, tree, "declarations")

	out, code = execute(t, "val = \n", "parse")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "error[2001]")
}
