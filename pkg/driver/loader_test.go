package driver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestLoaderReadsMembersInListedOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.unit.yml"), `
name: app
members:
  - foo.sml
  - lib/lib.cm
  - bar.sml
`)
	writeFile(t, filepath.Join(root, "foo.sml"), "structure Foo = struct val x = 1 end\n")
	writeFile(t, filepath.Join(root, "bar.sml"), "val y = Foo.x\n")
	writeFile(t, filepath.Join(root, "lib", "lib.cm"), `
(* library (* nested *) comment *)
Library
  structure Lib ; exports are skipped
is
  lib.sml
`)
	writeFile(t, filepath.Join(root, "lib", "lib.sml"), "structure Lib = struct end\n")

	unit, err := NewLoader().LoadUnit(filepath.Join(root, "app.unit.yml"))
	require.NoError(t, err)
	assert.Equal(t, "app", unit.Name)
	require.Len(t, unit.Members, 3)
	assert.Equal(t, filepath.Join(root, "foo.sml"), unit.Members[0].Path)
	assert.Equal(t, "structure Foo = struct val x = 1 end\n", string(unit.Members[0].Source))
	require.True(t, unit.Members[1].IsUnit())
	assert.Equal(t, "lib", unit.Members[1].Unit.Name)
	require.Len(t, unit.Members[1].Unit.Members, 1)
	assert.Equal(t, filepath.Join(root, "lib", "lib.sml"), unit.Members[1].Unit.Members[0].Path)
	assert.Equal(t, filepath.Join(root, "bar.sml"), unit.Members[2].Path)
	assert.Equal(t, 3, unit.Files())
}

func TestLoaderRejectsCycles(t *testing.T) {
	fsys := fstest.MapFS{
		"a.unit.yml": {Data: []byte("members: [b.unit.yml]\n")},
		"b.unit.yml": {Data: []byte("members: [a.unit.yml]\n")},
	}
	_, err := NewFSLoader(fsys).LoadUnit("a.unit.yml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnitCycle))
	assert.Contains(t, err.Error(), "a.unit.yml -> b.unit.yml -> a.unit.yml")
}

func TestLoaderAllowsSharedNestedUnits(t *testing.T) {
	fsys := fstest.MapFS{
		"top.unit.yml":    {Data: []byte("members: [a.unit.yml, b.unit.yml]\n")},
		"a.unit.yml":      {Data: []byte("members: [common.unit.yml]\n")},
		"b.unit.yml":      {Data: []byte("members: [common.unit.yml]\n")},
		"common.unit.yml": {Data: []byte("members: [c.sml]\n")},
		"c.sml":           {Data: []byte("val c = 1\n")},
	}
	unit, err := NewFSLoader(fsys).LoadUnit("top.unit.yml")
	require.NoError(t, err)
	assert.Equal(t, 2, unit.Files())
}

func TestLoaderRejectsUnresolvedAliases(t *testing.T) {
	fsys := fstest.MapFS{
		"app.cm": {Data: []byte("Group is $/basis.cm main.sml\n")},
	}
	_, err := NewFSLoader(fsys).LoadUnit("app.cm")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedAlias))
}

func TestLoaderReportsMissingMembers(t *testing.T) {
	fsys := fstest.MapFS{
		"app.unit.yml": {Data: []byte("members: [missing.sml]\n")},
	}
	_, err := NewFSLoader(fsys).LoadUnit("app.unit.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.sml")
}

func TestLoaderNormalisesSourceText(t *testing.T) {
	fsys := fstest.MapFS{
		"app.unit.yml": {Data: []byte("members: [s.sml]\n")},
		"s.sml":        {Data: []byte("val s = \"e\u0301\"\n")},
	}
	unit, err := NewFSLoader(fsys).LoadUnit("app.unit.yml")
	require.NoError(t, err)
	assert.Equal(t, "val s = \"\u00e9\"\n", string(unit.Members[0].Source))
}

func TestLoaderLoadsLooseFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"a.sml": {Data: []byte("val a = 1\n")},
		"b.sml": {Data: []byte("val b = a\n")},
	}
	unit, err := NewFSLoader(fsys).LoadFiles("loose", "b.sml", "a.sml")
	require.NoError(t, err)
	assert.Equal(t, "loose", unit.Name)
	require.Len(t, unit.Members, 2)
	assert.Equal(t, "b.sml", unit.Members[0].Path)
	assert.Equal(t, "a.sml", unit.Members[1].Path)

	_, err = NewFSLoader(fsys).LoadFiles("loose", "missing.sml")
	require.Error(t, err)
}

func TestParseSourceReportsSyntaxErrors(t *testing.T) {
	file, diags := ParseSource("ok.sml", []byte("val x = 1\n"))
	require.NotNil(t, file)
	assert.Empty(t, diags)

	_, diags = ParseSource("bad.sml", []byte("val = \n"))
	require.NotEmpty(t, diags)
	assert.Equal(t, "bad.sml", diags[0].Path)
	assert.EqualValues(t, 2001, diags[0].Code)
}

func TestParseDescription(t *testing.T) {
	desc, err := ParseDescription("sources.cm", []byte("Group is\n  a.sml ; first\n  b.sig\n"))
	require.NoError(t, err)
	assert.Equal(t, "sources", desc.Name)
	assert.Equal(t, []string{"a.sml", "b.sig"}, desc.Members)

	desc, err = ParseDescription("x.unit.yml", []byte("members:\n  - a.sml\n"))
	require.NoError(t, err)
	assert.Equal(t, "x", desc.Name)

	_, err = ParseDescription("x.unit.yml", []byte("name: x\nsources: [a.sml]\n"))
	require.Error(t, err)

	_, err = ParseDescription("x.unit.yml", []byte("members: [a.sml, a.sml]\n"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Issues, 1)

	_, err = ParseDescription("x.cm", []byte("Group a.sml"))
	assert.Error(t, err)

	_, err = ParseDescription("x.cm", []byte("(* open"))
	assert.Error(t, err)
}

func TestParseDescriptionSkipsMemberClasses(t *testing.T) {
	desc, err := ParseDescription("lib.cm", []byte("Library structure A is\n  a.sml : sml\n  b.sig :sml\n  c.sml\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.sml", "b.sig", "c.sml"}, desc.Members)

	_, err = ParseDescription("lib.cm", []byte("Group is : sml\n"))
	assert.Error(t, err)

	_, err = ParseDescription("lib.cm", []byte("Group is a.sml :\n"))
	assert.Error(t, err)
}
