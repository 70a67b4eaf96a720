package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sml/analyzer-go/pkg/ast"
	"sml/analyzer-go/pkg/diag"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func at(line, col int) ast.Span {
	pos := ast.Position{Line: line, Column: col}
	return ast.Span{Start: pos, End: pos}
}

func sampleRun(session string, started time.Time) Run {
	undefined := diag.New(diag.Undefined, at(1, 9), "undefined structure: Foo")
	undefined.Path = "bar.sml"
	mismatch := diag.New(diag.MismatchedTypes, at(2, 5), "mismatched types: expected int, found string")
	mismatch.Path = "bar.sml"
	mismatch.Severity = diag.SeverityWarning
	return Run{
		Session:     session,
		Unit:        "app",
		Path:        "/work/app.unit.yml",
		StartedAt:   started,
		Files:       2,
		Duration:    1500 * time.Millisecond,
		Diagnostics: []diag.Diagnostic{undefined, mismatch},
	}
}

func TestRecordAndList(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.Record(ctx, sampleRun("s1", base)))
	require.NoError(t, s.Record(ctx, sampleRun("s2", base.Add(time.Minute))))

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "s2", runs[0].Session)
	assert.Equal(t, "s1", runs[1].Session)
	assert.True(t, base.Equal(runs[1].StartedAt))
	assert.Equal(t, 1500*time.Millisecond, runs[1].Duration)
	assert.Equal(t, 1, runs[1].Errors)
	assert.Equal(t, 1, runs[1].Warnings)
	assert.Equal(t, 2, runs[1].Files)

	limited, err := s.Runs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDiagnosticsRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := sampleRun("s1", time.Now())
	require.NoError(t, s.Record(ctx, run))

	diags, err := s.Diagnostics(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, diag.Undefined, diags[0].Code)
	assert.Equal(t, "bar.sml", diags[0].Path)
	assert.Equal(t, 1, diags[0].Span.Start.Line)
	assert.Equal(t, 9, diags[0].Span.Start.Column)
	assert.Equal(t, diag.SeverityWarning, diags[1].Severity)

	none, err := s.Diagnostics(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecordIsIdempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := sampleRun("s1", time.Now())
	require.NoError(t, s.Record(ctx, run))
	require.NoError(t, s.Record(ctx, run))

	counts, err := s.CodeCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[diag.Code]int{diag.Undefined: 1, diag.MismatchedTypes: 1}, counts)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), sampleRun("s1", time.Now())))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	runs, err := s.Runs(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}
