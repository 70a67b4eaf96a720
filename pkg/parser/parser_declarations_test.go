package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sml/analyzer-go/pkg/ast"
)

func TestParseFunClauses(t *testing.T) {
	decl := onlyDecl(t, "fun len [] = 0\n  | len (_ :: xs) : int = 1 + len xs")
	fun, ok := decl.(*ast.FunDeclaration)
	require.True(t, ok)
	require.Len(t, fun.Bindings, 1)
	binding := fun.Bindings[0]
	assert.Equal(t, "len", binding.Name)
	require.Len(t, binding.Clauses, 2)
	assert.Equal(t, ast.NewListPattern(nil), binding.Clauses[0].Params[0])
	assert.Nil(t, binding.Clauses[0].ReturnType)
	assert.Equal(t, ast.Ty("int"), binding.Clauses[1].ReturnType)
	cons, ok := binding.Clauses[1].Params[0].(*ast.InfixPattern)
	require.True(t, ok)
	assert.Equal(t, "::", cons.Constructor.Name)
}

func TestParseInfixFunClause(t *testing.T) {
	file := mustParse(t, "infix 6 +++\nfun a +++ b = a + b")
	fun := file.Declarations[1].(*ast.FunDeclaration)
	assert.Equal(t, "+++", fun.Bindings[0].Name)
	require.Len(t, fun.Bindings[0].Clauses[0].Params, 1)
	assert.Equal(t, ast.NewTuplePattern([]ast.Pattern{ast.Var("a"), ast.Var("b")}), fun.Bindings[0].Clauses[0].Params[0])
}

func TestParseFunClauseNameMismatch(t *testing.T) {
	_, err := ParseString("fun f 0 = 1 | g n = n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must all define f")
}

func TestParseValRecAndPatterns(t *testing.T) {
	decl := onlyDecl(t, "val rec f = fn (SOME x, {a, b = _, ...}) => x | (y as NONE, _) => 0")
	val := decl.(*ast.ValDeclaration)
	assert.True(t, val.Rec)
	fn := val.Bindings[0].Value.(*ast.FnExpression)
	require.Len(t, fn.Rules, 2)

	first := fn.Rules[0].Pattern.(*ast.RecordPattern)
	assert.Equal(t, ast.NewConPattern(ast.LongIdent{Name: "SOME"}, ast.Var("x")), first.Fields[0].Pattern)
	rec := first.Fields[1].Pattern.(*ast.RecordPattern)
	assert.True(t, rec.Flexible)
	assert.Equal(t, []ast.PatternField{{Label: "a", Pattern: ast.Var("a")}, {Label: "b", Pattern: ast.Wild()}}, rec.Fields)

	second := fn.Rules[1].Pattern.(*ast.RecordPattern)
	assert.Equal(t, ast.NewAsPattern("y", nil, ast.Var("NONE")), second.Fields[0].Pattern)
}

func TestParseTypeExpressions(t *testing.T) {
	decl := onlyDecl(t, "type ('a, 'b) t = ('a * 'b) list -> {x : int, y : 'a option} -> ('a, 'b) either")
	td := decl.(*ast.TypeDeclaration)
	require.Len(t, td.Bindings, 1)
	assert.Equal(t, []string{"'a", "'b"}, td.Bindings[0].TyVars)
	pair := ast.NewTupleType([]ast.TypeExpression{ast.TyVar("'a"), ast.TyVar("'b")})
	record := ast.NewRecordType([]ast.TypeField{
		{Label: "x", Type: ast.Ty("int")},
		{Label: "y", Type: ast.Ty("option", ast.TyVar("'a"))},
	})
	want := ast.Arrow(ast.Ty("list", pair), ast.Arrow(record, ast.Ty("either", ast.TyVar("'a"), ast.TyVar("'b"))))
	assert.Equal(t, want, td.Bindings[0].Type)
}

func TestParseDatatypeAndException(t *testing.T) {
	file := mustParse(t, `
datatype 'a tree = Leaf | Node of 'a tree * 'a * 'a tree
and color = Red | Black
datatype t = datatype color
exception Empty and Fail' of string and Again = Empty
`)
	require.Len(t, file.Declarations, 3)
	dt := file.Declarations[0].(*ast.DatatypeDeclaration)
	require.Len(t, dt.Bindings, 2)
	assert.Equal(t, "tree", dt.Bindings[0].Name)
	assert.Len(t, dt.Bindings[0].Constructors, 2)
	assert.Nil(t, dt.Bindings[0].Constructors[0].Argument)
	assert.NotNil(t, dt.Bindings[0].Constructors[1].Argument)
	assert.Equal(t, "color", dt.Bindings[1].Name)

	cp := file.Declarations[1].(*ast.DatatypeCopyDeclaration)
	assert.Equal(t, "t", cp.Name)
	assert.Equal(t, "color", cp.Source.Name)

	exn := file.Declarations[2].(*ast.ExceptionDeclaration)
	require.Len(t, exn.Bindings, 3)
	assert.Equal(t, ast.Ty("string"), exn.Bindings[1].Argument)
	require.NotNil(t, exn.Bindings[2].CopyOf)
	assert.Equal(t, "Empty", exn.Bindings[2].CopyOf.Name)
}

func TestParseLocalAndOpen(t *testing.T) {
	decl := onlyDecl(t, "local open List Foo.Bar in val x = 1 end")
	local := decl.(*ast.LocalDeclaration)
	require.Len(t, local.Locals, 1)
	open := local.Locals[0].(*ast.OpenDeclaration)
	assert.Equal(t, []ast.LongIdent{{Name: "List"}, {Structures: []string{"Foo"}, Name: "Bar"}}, open.Structures)
	require.Len(t, local.Body, 1)
}

func TestParseRecoversAtNextDeclaration(t *testing.T) {
	file, err := ParseString("val x = \nval y = 2\nval z = (1,\nfun f x = x")
	require.Error(t, err)
	var list ErrorList
	require.ErrorAs(t, err, &list)
	assert.Len(t, list, 2)
	require.NotNil(t, file)
	require.Len(t, file.Declarations, 2)
	assert.IsType(t, &ast.ValDeclaration{}, file.Declarations[0])
	assert.IsType(t, &ast.FunDeclaration{}, file.Declarations[1])
	assert.Equal(t, 2, list[0].Span.Start.Line)
}

func TestParseLexerErrorsAreParseErrors(t *testing.T) {
	file, err := ParseString(`val s = "unterminated`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "unclosed string")
	require.NotNil(t, file)
	assert.Empty(t, file.Declarations)
}
