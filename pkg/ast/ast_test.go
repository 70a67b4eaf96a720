package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLongIdent(t *testing.T) {
	id := ParseLongIdent("Foo.Bar.x")
	assert.Equal(t, []string{"Foo", "Bar"}, id.Structures)
	assert.Equal(t, "x", id.Name)
	assert.True(t, id.IsQualified())
	assert.Equal(t, "Foo.Bar.x", id.String())

	plain := ParseLongIdent("x")
	assert.False(t, plain.IsQualified())
	assert.Equal(t, "x", plain.String())
}

func TestTupleHelpersUseNumericLabels(t *testing.T) {
	tuple := Tuple(Int("1"), Str("a"))
	require.Len(t, tuple.Fields, 2)
	assert.Equal(t, "1", tuple.Fields[0].Label)
	assert.Equal(t, "2", tuple.Fields[1].Label)

	ty := NewTupleType([]TypeExpression{Ty("int"), Ty("string")})
	assert.Equal(t, "2", ty.Fields[1].Label)
}

func TestInspectVisitsNestedNodes(t *testing.T) {
	file := File(Val(Var("x"), App(Path("f"), Tuple(Int("1"), Int("2")))))
	var kinds []NodeType
	Inspect(file, func(node Node) bool {
		kinds = append(kinds, node.NodeType())
		return true
	})
	assert.Equal(t, []NodeType{
		NodeSourceFile,
		NodeValDeclaration,
		NodeVarPattern,
		NodeAppExpression,
		NodePathExpression,
		NodeRecordExpression,
		NodeSConExpression,
		NodeSConExpression,
	}, kinds)
}

func TestInspectCanSkipChildren(t *testing.T) {
	file := File(Val(Var("x"), App(Path("f"), Int("1"))))
	count := 0
	Inspect(file, func(node Node) bool {
		count++
		return node.NodeType() != NodeValDeclaration
	})
	assert.Equal(t, 2, count)
}

func TestClearSpansResetsNodesAndBindings(t *testing.T) {
	span := Span{Start: Position{Line: 3, Column: 1}, End: Position{Line: 3, Column: 9}}
	lit := Int("1")
	SetSpan(lit, span)
	decl := NewStructureDeclaration([]StructureBinding{{Name: "S", Body: Struct(Val(Wild(), lit)), Span: span}})
	SetSpan(decl, span)

	ClearSpans(File(decl))

	assert.Equal(t, Span{}, lit.Span())
	assert.Equal(t, Span{}, decl.Span())
	assert.Equal(t, Span{}, decl.Bindings[0].Span)
}

func TestPositionBefore(t *testing.T) {
	a := Position{Line: 1, Column: 5}
	b := Position{Line: 2, Column: 1}
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}
