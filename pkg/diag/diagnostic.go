package diag

import (
	"fmt"
	"sort"
	"strings"

	"sml/analyzer-go/pkg/ast"
)

// Severity captures diagnostic levels.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	// SeverityIgnore is only meaningful in overrides: it drops the diagnostic.
	SeverityIgnore Severity = "ignore"
)

// Note captures secondary context for a diagnostic.
type Note struct {
	Message string   `json:"message"`
	Span    ast.Span `json:"span"`
}

// Diagnostic is a problem found in the analysed program.
type Diagnostic struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Path     string   `json:"path,omitempty"`
	Span     ast.Span `json:"span"`
	// Expected and Found hold the rendered types of a type mismatch.
	Expected string `json:"expected,omitempty"`
	Found    string `json:"found,omitempty"`
	Notes    []Note `json:"notes,omitempty"`
}

// New returns an error-severity diagnostic.
func New(code Code, span ast.Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

func (d Diagnostic) Error() string {
	return Describe(d)
}

// WithNote appends a note and returns the diagnostic.
func (d Diagnostic) WithNote(span ast.Span, format string, args ...any) Diagnostic {
	d.Notes = append(d.Notes, Note{Message: fmt.Sprintf(format, args...), Span: span})
	return d
}

// Describe formats a diagnostic on one line for CLI output.
func Describe(d Diagnostic) string {
	location := formatLocation(d.Path, d.Span.Start)
	prefix := "error"
	if d.Severity == SeverityWarning {
		prefix = "warning"
	}
	message := strings.TrimSpace(d.Message)
	if location != "" {
		return fmt.Sprintf("%s: %s[%d]: %s", location, prefix, int(d.Code), message)
	}
	return fmt.Sprintf("%s[%d]: %s", prefix, int(d.Code), message)
}

func formatLocation(path string, pos ast.Position) string {
	path = strings.TrimSpace(path)
	switch {
	case path != "" && pos.Line > 0 && pos.Column > 0:
		return fmt.Sprintf("%s:%d:%d", path, pos.Line, pos.Column)
	case path != "" && pos.Line > 0:
		return fmt.Sprintf("%s:%d", path, pos.Line)
	case path != "":
		return path
	case pos.Line > 0 && pos.Column > 0:
		return fmt.Sprintf("line %d, column %d", pos.Line, pos.Column)
	case pos.Line > 0:
		return fmt.Sprintf("line %d", pos.Line)
	default:
		return ""
	}
}

// Sort orders diagnostics by path, then source position, then code. The
// sort is stable so diagnostics at the same position keep emission order.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Span.Start != b.Span.Start {
			return a.Span.Start.Before(b.Span.Start)
		}
		return a.Code < b.Code
	})
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Overrides maps codes to the severity they should be reported with.
type Overrides map[Code]Severity

// Apply rewrites severities and drops ignored diagnostics.
func (o Overrides) Apply(diags []Diagnostic) []Diagnostic {
	if len(o) == 0 {
		return diags
	}
	out := diags[:0:0]
	for _, d := range diags {
		sev, ok := o[d.Code]
		switch {
		case !ok:
		case sev == SeverityIgnore:
			continue
		default:
			d.Severity = sev
		}
		out = append(out, d)
	}
	return out
}
