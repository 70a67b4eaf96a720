package typechecker

import (
	"errors"
	"fmt"
	"strings"

	"sml/analyzer-go/pkg/ast"
	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/types"
)

// Checker elaborates one source file against an environment and records
// diagnostics. It belongs to a Session and shares the session's arena.
type Checker struct {
	arena *types.Arena
	path  string
	diags []diag.Diagnostic

	// strPath is the structure nesting used to qualify generated type names.
	strPath []string
	// structDepth counts enclosing struct ... end bodies.
	structDepth int
	// tyvars holds the user type variables in scope, innermost last.
	tyvars []map[string]types.Type
	// recordSpans remembers where record-constrained variables were created.
	recordSpans map[types.VarID]ast.Span
}

func newChecker(arena *types.Arena, path string) *Checker {
	return &Checker{
		arena:       arena,
		path:        path,
		recordSpans: map[types.VarID]ast.Span{},
	}
}

// CheckFile elaborates the declarations of file in order, each seeing the
// bindings of the ones before it. It returns the environment the file adds.
func (c *Checker) CheckFile(env *Env, file *ast.SourceFile) *Env {
	acc := NewEnv(nil)
	if file == nil {
		return acc
	}
	cur := env
	for _, decl := range file.Declarations {
		delta := c.elabTopDec(cur, decl)
		acc.Absorb(delta)
		cur = cur.With(delta)
	}
	return acc
}

// Diagnostics returns what has been reported so far, in emission order.
func (c *Checker) Diagnostics() []diag.Diagnostic {
	return c.diags
}

// elabTopDec elaborates a top-level declaration and then settles the
// overloaded and record-constrained variables it left behind.
func (c *Checker) elabTopDec(env *Env, decl ast.Declaration) *Env {
	delta := c.elabDec(env, decl)
	c.arena.ResolveOverloads()
	unresolved := c.arena.UnresolvedRecords()
	for _, rec := range unresolved {
		span := c.recordSpans[rec.Var.ID]
		if span == (ast.Span{}) {
			span = decl.Span()
		}
		p := types.NewPrinter(c.arena)
		c.report(diag.New(diag.UnresolvedRecord, span, "unresolved record type: %s", p.Type(rec.Var)))
	}
	c.arena.CloseRecords()
	c.recordSpans = map[types.VarID]ast.Span{}
	return delta
}

func (c *Checker) report(d diag.Diagnostic) {
	d.Path = c.path
	c.diags = append(c.diags, d)
}

func (c *Checker) errorf(code diag.Code, node ast.Node, format string, args ...any) {
	var span ast.Span
	if node != nil {
		span = node.Span()
	}
	c.report(diag.New(code, span, format, args...))
}

// mark returns a token for failedSince.
func (c *Checker) mark() int {
	return len(c.diags)
}

// failedSince reports whether anything was reported after mark.
func (c *Checker) failedSince(mark int) bool {
	return len(c.diags) > mark
}

// qualify prefixes name with the current structure path.
func (c *Checker) qualify(name string) string {
	if len(c.strPath) == 0 {
		return name
	}
	return strings.Join(c.strPath, ".") + "." + name
}

func (c *Checker) pushStructure(name string) func() {
	c.strPath = append(c.strPath, name)
	return func() { c.strPath = c.strPath[:len(c.strPath)-1] }
}

// unify reports a failed unification at node. headCode is the code used for
// head mismatches; the other failure kinds have fixed codes.
func (c *Checker) unify(expected, found types.Type, node ast.Node, headCode diag.Code) bool {
	return c.unifyAt(expected, found, node.Span(), headCode)
}

func (c *Checker) unifyAt(expected, found types.Type, span ast.Span, headCode diag.Code) bool {
	err := c.arena.Unify(expected, found)
	if err == nil {
		return true
	}
	c.reportUnify(err, span, headCode)
	return false
}

func (c *Checker) requireEquality(t types.Type, node ast.Node) bool {
	err := c.arena.RequireEquality(t)
	if err == nil {
		return true
	}
	c.reportUnify(err, node.Span(), diag.MismatchedTypes)
	return false
}

func (c *Checker) reportUnify(err error, span ast.Span, headCode diag.Code) {
	var ue *types.UnifyError
	if !errors.As(err, &ue) {
		c.report(diag.New(headCode, span, "%v", err))
		return
	}
	d := unifyDiagnostic(c.arena, ue, headCode)
	d.Span = span
	c.report(d)
	c.arena.Settle(ue)
}

// unifyDiagnostic renders a unification failure. All types of one
// diagnostic share a Printer so inference variables are named consistently.
func unifyDiagnostic(arena *types.Arena, ue *types.UnifyError, headCode diag.Code) diag.Diagnostic {
	p := types.NewPrinter(arena)
	var d diag.Diagnostic
	switch ue.Kind {
	case types.HeadMismatch:
		expected, found := p.Type(ue.Expected), p.Type(ue.Found)
		d = diag.New(headCode, ast.Span{}, "%s: expected %s, found %s", headMessage(headCode), expected, found)
		d.Expected, d.Found = expected, found
		left, right := p.Type(ue.Left), p.Type(ue.Right)
		if left != expected || right != found {
			d.Notes = append(d.Notes, diag.Note{Message: fmt.Sprintf("in particular: expected %s, found %s", left, right)})
		}
	case types.OccursCheck:
		left, right := p.Type(ue.Left), p.Type(ue.Right)
		d = diag.New(diag.OccursCheck, ast.Span{}, "circular type: %s occurs in %s", left, right)
		d.Expected, d.Found = p.Type(ue.Expected), p.Type(ue.Found)
	case types.NotInOverloadClass:
		ground := ue.Right
		if _, isVar := arena.Resolve(ground).(types.Var); isVar {
			ground = ue.Left
		}
		found := p.Type(ground)
		d = diag.New(diag.OverloadMismatch, ast.Span{}, "overloaded type mismatch: expected %s, found %s", ue.Class, found)
		d.Expected, d.Found = ue.Class.String(), found
	case types.OverloadIncompatible:
		d = diag.New(diag.OverloadMismatch, ast.Span{}, "incompatible overloads: %s and %s", ue.Class, ue.Other)
		d.Expected, d.Found = ue.Class.String(), ue.Other.String()
	case types.NotEqualityType:
		offending := p.Type(ue.Left)
		d = diag.New(diag.NotEqualityType, ast.Span{}, "not an equality type: %s", offending)
		d.Found = offending
	}
	return d
}

func headMessage(code diag.Code) string {
	switch code {
	case diag.AppMismatch:
		return "mismatched argument type"
	case diag.SignatureMismatch:
		return "signature mismatch"
	}
	return "mismatched types"
}
