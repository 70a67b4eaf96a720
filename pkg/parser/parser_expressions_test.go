package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sml/analyzer-go/pkg/ast"
)

func TestParseInfixPrecedence(t *testing.T) {
	got := valueOf(t, "val x = 1 + 2 * 3")
	want := ast.Infix("+", ast.Int("1"), ast.Infix("*", ast.Int("2"), ast.Int("3")))
	assert.Equal(t, want, got)
}

func TestParseRightAssociativeCons(t *testing.T) {
	got := valueOf(t, "val x = 1 :: 2 :: nil")
	want := ast.Infix("::", ast.Int("1"), ast.Infix("::", ast.Int("2"), ast.Path("nil")))
	assert.Equal(t, want, got)
}

func TestParseApplicationBindsTighterThanInfix(t *testing.T) {
	got := valueOf(t, "val x = f 1 + g 2")
	want := ast.Infix("+", ast.App(ast.Path("f"), ast.Int("1")), ast.App(ast.Path("g"), ast.Int("2")))
	assert.Equal(t, want, got)
}

func TestParseTuplesUnitAndSequences(t *testing.T) {
	assert.Equal(t, ast.Tuple(ast.Int("1"), ast.Str("a")), valueOf(t, `val x = (1, "a")`))
	assert.Equal(t, ast.Unit(), valueOf(t, "val x = ()"))
	seq := valueOf(t, "val x = (f (); 3)")
	require.IsType(t, &ast.SequenceExpression{}, seq)
	assert.Len(t, seq.(*ast.SequenceExpression).Expressions, 2)
}

func TestParseOpAndTypedExpression(t *testing.T) {
	got := valueOf(t, "val x = op + : int * int -> int")
	typed, ok := got.(*ast.TypedExpression)
	require.True(t, ok)
	path := typed.Expression.(*ast.PathExpression)
	assert.True(t, path.Op)
	assert.Equal(t, "+", path.Path.Name)
	want := ast.Arrow(ast.NewTupleType([]ast.TypeExpression{ast.Ty("int"), ast.Ty("int")}), ast.Ty("int"))
	assert.Equal(t, want, typed.Type)
}

func TestParseFnCaseAndHandle(t *testing.T) {
	got := valueOf(t, "val f = fn x => case x of 0 => 1 | n => n handle Overflow => 0")
	fn, ok := got.(*ast.FnExpression)
	require.True(t, ok)
	require.Len(t, fn.Rules, 1)
	cs, ok := fn.Rules[0].Body.(*ast.CaseExpression)
	require.True(t, ok)
	require.Len(t, cs.Rules, 2)
	_, isHandle := cs.Rules[1].Body.(*ast.HandleExpression)
	assert.True(t, isHandle, "handle extends the last case arm")
}

func TestParseAndalsoOrelse(t *testing.T) {
	got := valueOf(t, "val b = a andalso b orelse c")
	or, ok := got.(*ast.BoolExpression)
	require.True(t, ok)
	assert.Equal(t, ast.BoolOrelse, or.Operator)
	and, ok := or.Left.(*ast.BoolExpression)
	require.True(t, ok)
	assert.Equal(t, ast.BoolAndalso, and.Operator)
}

func TestParseRecordsSelectorsAndLists(t *testing.T) {
	got := valueOf(t, "val r = #a {a = [1, 2], b = #\"c\"}")
	app, ok := got.(*ast.AppExpression)
	require.True(t, ok)
	assert.Equal(t, ast.NewSelectorExpression("a"), app.Func)
	rec := app.Arg.(*ast.RecordExpression)
	require.Len(t, rec.Fields, 2)
	assert.Equal(t, ast.NewListExpression([]ast.Expression{ast.Int("1"), ast.Int("2")}), rec.Fields[0].Value)
	assert.Equal(t, ast.NewSConExpression(ast.SConChar, "c"), rec.Fields[1].Value)
}

func TestParseLetIfWhile(t *testing.T) {
	got := valueOf(t, "val x = let val y = 1 in if y > 0 then y else ~1 end")
	let, ok := got.(*ast.LetExpression)
	require.True(t, ok)
	require.Len(t, let.Declarations, 1)
	require.Len(t, let.Body, 1)
	assert.IsType(t, &ast.IfExpression{}, let.Body[0])

	loop := valueOf(t, "val u = while false do ()")
	assert.IsType(t, &ast.WhileExpression{}, loop)
}

func TestParseTopLevelExpressionBindsIt(t *testing.T) {
	decl := onlyDecl(t, "f 1;")
	val, ok := decl.(*ast.ValDeclaration)
	require.True(t, ok)
	assert.Equal(t, ast.Var("it"), val.Bindings[0].Pattern)
}

func TestParseUserFixity(t *testing.T) {
	file := mustParse(t, "infixr 5 ++\nval x = a ++ b ++ c")
	require.Len(t, file.Declarations, 2)
	val := file.Declarations[1].(*ast.ValDeclaration)
	want := ast.Infix("++", ast.Path("a"), ast.Infix("++", ast.Path("b"), ast.Path("c")))
	assert.Equal(t, want, val.Bindings[0].Value)
}

func TestParseExpressionSpans(t *testing.T) {
	file, err := ParseString("val x =\n  foo 12")
	require.NoError(t, err)
	val := file.Declarations[0].(*ast.ValDeclaration)
	checkSpan(t, "declaration", val.Span(), 1, 1, 2, 9)
	checkSpan(t, "application", val.Bindings[0].Value.Span(), 2, 3, 2, 9)
	app := val.Bindings[0].Value.(*ast.AppExpression)
	checkSpan(t, "argument", app.Arg.Span(), 2, 7, 2, 9)
}
