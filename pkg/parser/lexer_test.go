package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerScansConstants(t *testing.T) {
	tokens, err := NewLexer(`1 ~2 0x1F 0w3 0wxFF 1.5 2e10 3.0e~2 "a\nb" #"c"`).Scan()
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{tokInt, tokInt, tokInt, tokWord, tokWord, tokReal, tokReal, tokReal, tokString, tokChar, tokEOF}, kinds(tokens))
	assert.Equal(t, "~2", tokens[1].Text)
	assert.Equal(t, "a\nb", tokens[8].Text)
	assert.Equal(t, "c", tokens[9].Text)
}

func TestLexerQualifiedIdentifiers(t *testing.T) {
	tokens, err := NewLexer(`List.map Int.+ Foo.Bar.t x`).Scan()
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{tokIdent, tokSymbolic, tokIdent, tokIdent, tokEOF}, kinds(tokens))
	assert.Equal(t, "Int.+", tokens[1].Text)
	assert.Equal(t, "Foo.Bar.t", tokens[2].Text)
}

func TestLexerReservedSymbolsAndKeywords(t *testing.T) {
	tokens, err := NewLexer(`val x : 'a -> ''b = fn y => y :: [] | z :> S # ...`).Scan()
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		tokVal, tokIdent, tokColon, tokTyVar, tokArrow, tokTyVar, tokEquals, tokFn, tokIdent, tokDArrow,
		tokIdent, tokSymbolic, tokLBracket, tokRBracket, tokBar, tokIdent, tokSeal, tokIdent, tokHash, tokEllipsis, tokEOF,
	}, kinds(tokens))
}

func TestLexerSkipsNestedComments(t *testing.T) {
	tokens, err := NewLexer("(* outer (* inner *) still *) val\n  x").Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, 1, tokens[0].Start.Line)
	assert.Equal(t, 31, tokens[0].Start.Column)
	assert.Equal(t, 2, tokens[1].Start.Line)
	assert.Equal(t, 3, tokens[1].Start.Column)
}

func TestLexerReportsUnclosedInput(t *testing.T) {
	_, err := NewLexer(`(* never closed`).Scan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unclosed comment")

	_, err = NewLexer(`"abc`).Scan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unclosed string literal")
}

func TestLexerRejectsOversizedIntegers(t *testing.T) {
	_, err := NewLexer(`val x = 99999999999999999999999`).Scan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "integer constant too large: 99999999999999999999999")

	_, err = NewLexer(`0x1FFFFFFFFFFFFFFFF`).Scan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "integer constant too large")

	tokens, err := NewLexer(`9223372036854775807 ~9223372036854775808 0x7FFFFFFFFFFFFFFF 1.0e400`).Scan()
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{tokInt, tokInt, tokInt, tokReal, tokEOF}, kinds(tokens))
}

func TestLexerStringEscapes(t *testing.T) {
	tokens, err := NewLexer(`"\065B\^A\t\"\\ \   \x"`).Scan()
	require.NoError(t, err)
	assert.Equal(t, "AB\x01\t\"\\ x", tokens[0].Text)
}
