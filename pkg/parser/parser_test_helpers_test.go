package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sml/analyzer-go/pkg/ast"
)

func checkSpan(t testing.TB, label string, span ast.Span, startLine, startCol, endLine, endCol int) {
	t.Helper()
	if span.Start.Line != startLine || span.Start.Column != startCol {
		t.Fatalf("%s start span mismatch: got (%d,%d), want (%d,%d)", label, span.Start.Line, span.Start.Column, startLine, startCol)
	}
	if span.End.Line != endLine || span.End.Column != endCol {
		t.Fatalf("%s end span mismatch: got (%d,%d), want (%d,%d)", label, span.End.Line, span.End.Column, endLine, endCol)
	}
}

// mustParse parses source and strips spans so trees compare structurally.
func mustParse(t testing.TB, source string) *ast.SourceFile {
	t.Helper()
	file, err := ParseString(source)
	require.NoError(t, err)
	ast.ClearSpans(file)
	return file
}

func onlyDecl(t testing.TB, source string) ast.Declaration {
	t.Helper()
	file := mustParse(t, source)
	require.Len(t, file.Declarations, 1)
	return file.Declarations[0]
}

func valueOf(t testing.TB, source string) ast.Expression {
	t.Helper()
	decl, ok := onlyDecl(t, source).(*ast.ValDeclaration)
	require.True(t, ok, "expected a val declaration")
	require.Len(t, decl.Bindings, 1)
	return decl.Bindings[0].Value
}
