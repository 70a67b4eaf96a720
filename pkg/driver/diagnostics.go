package driver

import (
	"errors"
	"strings"

	"sml/analyzer-go/pkg/ast"
	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/parser"
)

// ParseSource parses one source file and reports its syntax errors as
// diagnostics. The file is nil only when nothing could be tokenised.
func ParseSource(path string, source []byte) (*ast.SourceFile, []diag.Diagnostic) {
	file, err := parser.NewModuleParser().ParseModule(path, source)
	return file, parserDiagnostics(path, err)
}

// parserDiagnostics converts the error returned by the parser into syntax
// diagnostics for path. Errors that carry no position are reported at the
// start of the file.
func parserDiagnostics(path string, err error) []diag.Diagnostic {
	if err == nil {
		return nil
	}
	var list parser.ErrorList
	if errors.As(err, &list) {
		out := make([]diag.Diagnostic, 0, len(list))
		for _, perr := range list {
			out = append(out, syntaxDiagnostic(path, perr.Span, perr.Message))
		}
		return out
	}
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		return []diag.Diagnostic{syntaxDiagnostic(path, perr.Span, perr.Message)}
	}
	start := ast.Position{Line: 1, Column: 1}
	return []diag.Diagnostic{syntaxDiagnostic(path, ast.Span{Start: start, End: start}, err.Error())}
}

func syntaxDiagnostic(path string, span ast.Span, message string) diag.Diagnostic {
	message = strings.TrimSpace(message)
	if strings.HasPrefix(message, "parser:") {
		message = strings.TrimSpace(strings.TrimPrefix(message, "parser:"))
	}
	d := diag.New(diag.SyntaxError, span, "%s", message)
	d.Path = path
	return d
}
