package parser

import (
	"fmt"
	"strings"

	"sml/analyzer-go/pkg/ast"
)

// ParseError describes one syntax error.
type ParseError struct {
	Message string
	Span    ast.Span
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser: %d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

// ErrorList collects every syntax error found in one file.
type ErrorList []*ParseError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "parser: no errors"
	case 1:
		return l[0].Error()
	}
	parts := make([]string, len(l))
	for i, err := range l {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%s (and %d more)", parts[0], len(l)-1) + "\n" + strings.Join(parts[1:], "\n")
}

// Unwrap exposes the individual errors to errors.Is / errors.As.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, err := range l {
		errs[i] = err
	}
	return errs
}
