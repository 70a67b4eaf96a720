package parser

import (
	"errors"

	"sml/analyzer-go/pkg/ast"
)

// ModuleParser turns SML source text into the canonical AST.
type ModuleParser struct{}

// NewModuleParser constructs a parser. Fixity declarations are scoped to the
// file being parsed; every file starts from the standard basis fixities.
func NewModuleParser() *ModuleParser {
	return &ModuleParser{}
}

// ParseModule parses one source file. When the source contains syntax errors
// the returned file still holds every declaration that parsed cleanly and the
// error is an ErrorList.
func (p *ModuleParser) ParseModule(path string, source []byte) (*ast.SourceFile, error) {
	tokens, err := NewLexer(string(source)).Scan()
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			return ast.NewSourceFile(path, nil), ErrorList{perr}
		}
		return nil, err
	}
	ps := newParserState(tokens)
	decls := ps.parseTopLevel()
	file := ast.NewSourceFile(path, decls)
	if len(tokens) > 0 {
		ast.SetSpan(file, ast.Span{Start: ast.Position{Line: 1, Column: 1}, End: tokens[len(tokens)-1].End})
	}
	if len(ps.errors) > 0 {
		return file, ps.errors
	}
	return file, nil
}

// ParseString is a convenience wrapper used by tests and tools.
func ParseString(source string) (*ast.SourceFile, error) {
	return NewModuleParser().ParseModule("", []byte(source))
}

type fixity struct {
	precedence int
	right      bool
}

// bailout unwinds the parser to the nearest recovery point.
type bailout struct{}

type parserState struct {
	tokens []Token
	pos    int
	fixity map[string]fixity
	errors ErrorList
}

func newParserState(tokens []Token) *parserState {
	return &parserState{tokens: tokens, fixity: defaultFixities()}
}

func defaultFixities() map[string]fixity {
	table := map[string]fixity{
		"*": {7, false}, "/": {7, false}, "div": {7, false}, "mod": {7, false},
		"+": {6, false}, "-": {6, false}, "^": {6, false},
		"::": {5, true}, "@": {5, true},
		"=": {4, false}, "<>": {4, false}, ">": {4, false}, ">=": {4, false}, "<": {4, false}, "<=": {4, false},
		":=": {3, false}, "o": {3, false},
		"before": {0, false},
	}
	return table
}

// parseTopLevel parses declarations until EOF, recovering from syntax
// errors at the next declaration keyword.
func (p *parserState) parseTopLevel() []ast.Declaration {
	var decls []ast.Declaration
	for !p.at(tokEOF) {
		if p.accept(tokSemicolon) {
			continue
		}
		decl, ok := p.parseTopLevelDeclaration()
		if ok && decl != nil {
			decls = append(decls, decl)
		}
	}
	return decls
}

func (p *parserState) parseTopLevelDeclaration() (decl ast.Declaration, ok bool) {
	start := p.pos
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			if p.pos == start {
				p.next()
			}
			p.synchronize()
			decl, ok = nil, false
		}
	}()
	if !p.startsDeclaration() && p.startsExpression() {
		return p.parseTopLevelExpression(), true
	}
	return p.parseDeclaration(), true
}

// parseTopLevelExpression handles `exp ;` at top level as `val it = exp`.
func (p *parserState) parseTopLevelExpression() ast.Declaration {
	first := p.peek()
	expr := p.parseExpression()
	pat := ast.NewVarPattern(ast.LongIdent{Name: "it"})
	ast.SetSpan(pat, expr.Span())
	decl := ast.NewValDeclaration(nil, false, []ast.ValueBinding{{Pattern: pat, Value: expr}})
	p.finish(decl, first)
	return decl
}

func (p *parserState) synchronize() {
	for !p.at(tokEOF) {
		switch p.peek().Kind {
		case tokVal, tokFun, tokType, tokDatatype, tokException, tokLocal, tokOpen,
			tokInfix, tokInfixr, tokNonfix, tokStructure, tokSignature, tokFunctor:
			return
		case tokSemicolon:
			p.next()
			return
		}
		p.next()
	}
}
