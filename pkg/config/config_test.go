package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sml/analyzer-go/pkg/diag"
)

func TestParseValidConfig(t *testing.T) {
	cfg, err := Parse("/work/smlcheck.yml", []byte(`
version: 1
workspace:
  units: [app.unit.yml, lib/lib.cm]
  workers: 4
diagnostics:
  "5010":
    severity: ignore
  "5009":
    severity: warning
`))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("/work", "app.unit.yml"), filepath.Join("/work", "lib", "lib.cm")}, cfg.Units)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, diag.Overrides{
		diag.UnresolvedRecord: diag.SeverityIgnore,
		diag.Duplicate:        diag.SeverityWarning,
	}, cfg.Overrides)
}

func TestParseMinimalConfig(t *testing.T) {
	cfg, err := Parse("/work/smlcheck.yml", []byte("version: 1\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Units)
	assert.Zero(t, cfg.Workers)
	assert.Nil(t, cfg.Overrides)
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"missing version":  "workspace:\n  units: [a.cm]\n",
		"wrong version":    "version: 2\n",
		"unknown field":    "version: 1\nextra: true\n",
		"bad severity":     "version: 1\ndiagnostics:\n  \"5001\":\n    severity: fatal\n",
		"unknown code":     "version: 1\ndiagnostics:\n  \"9999\":\n    severity: ignore\n",
		"non numeric code": "version: 1\ndiagnostics:\n  \"E1\":\n    severity: ignore\n",
		"negative workers": "version: 1\nworkspace:\n  workers: -1\n",
		"empty unit":       "version: 1\nworkspace:\n  units: [\"\"]\n",
		"empty file":       "",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("smlcheck.yml", []byte(text))
			assert.Error(t, err)
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	path := filepath.Join(root, FileName)
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))

	found, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	cfg, err := Load(found)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
}

func TestFindReportsNotFound(t *testing.T) {
	_, err := Find(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}
