package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"sml/analyzer-go/pkg/ast"
)

// TokenKind represents the kind of token.
type TokenKind int

const (
	tokEOF TokenKind = iota

	// Identifiers and literals
	tokIdent    // alphanumeric identifier, possibly qualified
	tokSymbolic // symbolic identifier such as + or ::, possibly qualified
	tokTyVar    // 'a or ''a
	tokInt
	tokWord
	tokReal
	tokString
	tokChar

	// Punctuation
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokComma
	tokSemicolon
	tokUnderscore
	tokEllipsis
	tokColon
	tokSeal // :>
	tokBar
	tokEquals
	tokDArrow // =>
	tokArrow  // ->
	tokHash

	// Keywords
	tokAbstype
	tokAnd
	tokAndalso
	tokAs
	tokCase
	tokDatatype
	tokDo
	tokElse
	tokEnd
	tokEqtype
	tokException
	tokFn
	tokFun
	tokFunctor
	tokHandle
	tokIf
	tokIn
	tokInclude
	tokInfix
	tokInfixr
	tokLet
	tokLocal
	tokNonfix
	tokOf
	tokOp
	tokOpen
	tokOrelse
	tokRaise
	tokRec
	tokSharing
	tokSig
	tokSignature
	tokStruct
	tokStructure
	tokThen
	tokType
	tokVal
	tokWhere
	tokWhile
	tokWith
	tokWithtype
)

var keywords = map[string]TokenKind{
	"abstype":   tokAbstype,
	"and":       tokAnd,
	"andalso":   tokAndalso,
	"as":        tokAs,
	"case":      tokCase,
	"datatype":  tokDatatype,
	"do":        tokDo,
	"else":      tokElse,
	"end":       tokEnd,
	"eqtype":    tokEqtype,
	"exception": tokException,
	"fn":        tokFn,
	"fun":       tokFun,
	"functor":   tokFunctor,
	"handle":    tokHandle,
	"if":        tokIf,
	"in":        tokIn,
	"include":   tokInclude,
	"infix":     tokInfix,
	"infixr":    tokInfixr,
	"let":       tokLet,
	"local":     tokLocal,
	"nonfix":    tokNonfix,
	"of":        tokOf,
	"op":        tokOp,
	"open":      tokOpen,
	"orelse":    tokOrelse,
	"raise":     tokRaise,
	"rec":       tokRec,
	"sharing":   tokSharing,
	"sig":       tokSig,
	"signature": tokSignature,
	"struct":    tokStruct,
	"structure": tokStructure,
	"then":      tokThen,
	"type":      tokType,
	"val":       tokVal,
	"where":     tokWhere,
	"while":     tokWhile,
	"with":      tokWith,
	"withtype":  tokWithtype,
}

var reservedSymbols = map[string]TokenKind{
	":":  tokColon,
	":>": tokSeal,
	"|":  tokBar,
	"=":  tokEquals,
	"=>": tokDArrow,
	"->": tokArrow,
	"#":  tokHash,
}

// Token is a lexical token. Text holds the decoded value for string and
// character literals and the raw lexeme otherwise.
type Token struct {
	Kind  TokenKind
	Text  string
	Start ast.Position
	End   ast.Position
}

func (t Token) String() string {
	switch t.Kind {
	case tokEOF:
		return "end of file"
	case tokString:
		return strconv.Quote(t.Text)
	case tokChar:
		return "#" + strconv.Quote(t.Text)
	}
	return "`" + t.Text + "`"
}

// Lexer scans SML source into tokens.
type Lexer struct {
	src    string
	start  int
	cur    int
	line   int
	col    int
	sLine  int
	sCol   int
	tokens []Token
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Scan tokenizes the whole input. The returned slice always ends with an EOF
// token.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		if err := l.skipTrivia(); err != nil {
			return nil, err
		}
		if l.atEnd() {
			l.begin()
			l.emit(tokEOF, "")
			return l.tokens, nil
		}
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
}

func (l *Lexer) atEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.cur]
}

func (l *Lexer) peekAt(offset int) byte {
	if l.cur+offset >= len(l.src) {
		return 0
	}
	return l.src[l.cur+offset]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else if ch < utf8.RuneSelf || utf8.RuneStart(ch) {
		l.col++
	}
	return ch
}

func (l *Lexer) begin() {
	l.start = l.cur
	l.sLine = l.line
	l.sCol = l.col
}

func (l *Lexer) position() ast.Position {
	return ast.Position{Line: l.line, Column: l.col, Offset: l.cur}
}

func (l *Lexer) emit(kind TokenKind, text string) {
	l.tokens = append(l.tokens, Token{
		Kind:  kind,
		Text:  text,
		Start: ast.Position{Line: l.sLine, Column: l.sCol, Offset: l.start},
		End:   l.position(),
	})
}

func (l *Lexer) errorf(format string, args ...any) error {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Span: ast.Span{
			Start: ast.Position{Line: l.sLine, Column: l.sCol, Offset: l.start},
			End:   l.position(),
		},
	}
}

func (l *Lexer) skipTrivia() error {
	for !l.atEnd() {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f':
			l.advance()
		case ch == '(' && l.peekAt(1) == '*':
			l.begin()
			if err := l.skipComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) skipComment() error {
	depth := 0
	for !l.atEnd() {
		switch {
		case l.peek() == '(' && l.peekAt(1) == '*':
			l.advance()
			l.advance()
			depth++
		case l.peek() == '*' && l.peekAt(1) == ')':
			l.advance()
			l.advance()
			depth--
			if depth == 0 {
				return nil
			}
		default:
			l.advance()
		}
	}
	return l.errorf("unclosed comment")
}

func isAlpha(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch) || ch == '_' || ch == '\''
}

func isSymbolic(ch byte) bool {
	return strings.IndexByte("!%&$#+-/:<=>?@\\~`^|*", ch) >= 0
}

func (l *Lexer) scanToken() error {
	l.begin()
	ch := l.peek()
	switch {
	case ch == '~' && isDigit(l.peekAt(1)):
		l.advance()
		return l.scanNumber()
	case isDigit(ch):
		return l.scanNumber()
	case ch == '"':
		l.advance()
		text, err := l.scanStringBody()
		if err != nil {
			return err
		}
		l.emit(tokString, text)
		return nil
	case ch == '#' && l.peekAt(1) == '"':
		l.advance()
		l.advance()
		text, err := l.scanStringBody()
		if err != nil {
			return err
		}
		if utf8.RuneCountInString(text) != 1 {
			return l.errorf("character literal must contain exactly one character")
		}
		l.emit(tokChar, text)
		return nil
	case ch == '\'':
		for !l.atEnd() && isAlphaNumeric(l.peek()) {
			l.advance()
		}
		l.emit(tokTyVar, l.src[l.start:l.cur])
		return nil
	case isAlpha(ch):
		return l.scanIdentifier()
	case isSymbolic(ch):
		for !l.atEnd() && isSymbolic(l.peek()) {
			l.advance()
		}
		text := l.src[l.start:l.cur]
		if kind, ok := reservedSymbols[text]; ok {
			l.emit(kind, text)
			return nil
		}
		l.emit(tokSymbolic, text)
		return nil
	}
	l.advance()
	switch ch {
	case '(':
		l.emit(tokLParen, "(")
	case ')':
		l.emit(tokRParen, ")")
	case '[':
		l.emit(tokLBracket, "[")
	case ']':
		l.emit(tokRBracket, "]")
	case '{':
		l.emit(tokLBrace, "{")
	case '}':
		l.emit(tokRBrace, "}")
	case ',':
		l.emit(tokComma, ",")
	case ';':
		l.emit(tokSemicolon, ";")
	case '_':
		l.emit(tokUnderscore, "_")
	case '.':
		if l.peek() == '.' && l.peekAt(1) == '.' {
			l.advance()
			l.advance()
			l.emit(tokEllipsis, "...")
			return nil
		}
		return l.errorf("unexpected `.`")
	default:
		return l.errorf("unexpected character %q", ch)
	}
	return nil
}

// scanIdentifier reads an alphanumeric identifier and any qualification
// that follows it, e.g. List.map or Int.+.
func (l *Lexer) scanIdentifier() error {
	for !l.atEnd() && isAlphaNumeric(l.peek()) {
		l.advance()
	}
	kind := tokIdent
	for l.peek() == '.' {
		next := l.peekAt(1)
		switch {
		case isAlpha(next):
			l.advance()
			for !l.atEnd() && isAlphaNumeric(l.peek()) {
				l.advance()
			}
		case isSymbolic(next):
			l.advance()
			for !l.atEnd() && isSymbolic(l.peek()) {
				l.advance()
			}
			kind = tokSymbolic
		default:
			return l.errorf("expected an identifier after `.`")
		}
		if kind == tokSymbolic {
			break
		}
	}
	text := l.src[l.start:l.cur]
	if kw, ok := keywords[text]; ok {
		l.emit(kw, text)
		return nil
	}
	l.emit(kind, text)
	return nil
}

func (l *Lexer) scanNumber() error {
	if l.peek() == '0' && l.peekAt(1) == 'w' {
		l.advance()
		l.advance()
		hex := false
		if l.peek() == 'x' {
			l.advance()
			hex = true
		}
		count := l.scanDigits(hex)
		if count == 0 {
			return l.errorf("missing digits in word literal")
		}
		l.emit(tokWord, l.src[l.start:l.cur])
		return nil
	}
	if l.peek() == '0' && l.peekAt(1) == 'x' && isHexDigit(l.peekAt(2)) {
		l.advance()
		l.advance()
		l.scanDigits(true)
		return l.emitInt()
	}
	l.scanDigits(false)
	kind := tokInt
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		l.scanDigits(false)
		kind = tokReal
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		offset := 1
		if l.peekAt(1) == '~' {
			offset = 2
		}
		if isDigit(l.peekAt(offset)) {
			for i := 0; i < offset; i++ {
				l.advance()
			}
			l.scanDigits(false)
			kind = tokReal
		}
	}
	if kind == tokInt {
		return l.emitInt()
	}
	l.emit(kind, l.src[l.start:l.cur])
	return nil
}

// emitInt emits the integer constant just scanned. Constants outside the
// 64-bit range are rejected.
func (l *Lexer) emitInt() error {
	text := l.src[l.start:l.cur]
	digits, base := strings.TrimPrefix(text, "~"), 10
	if strings.HasPrefix(digits, "0x") {
		digits, base = digits[2:], 16
	}
	if strings.HasPrefix(text, "~") {
		digits = "-" + digits
	}
	if _, err := strconv.ParseInt(digits, base, 64); err != nil {
		return l.errorf("integer constant too large: %s", text)
	}
	l.emit(tokInt, text)
	return nil
}

func (l *Lexer) scanDigits(hex bool) int {
	count := 0
	for !l.atEnd() {
		ch := l.peek()
		if isDigit(ch) || hex && isHexDigit(ch) {
			l.advance()
			count++
			continue
		}
		break
	}
	return count
}

// scanStringBody reads up to and including the closing quote, decoding
// escape sequences. The opening quote has already been consumed.
func (l *Lexer) scanStringBody() (string, error) {
	var sb strings.Builder
	for {
		if l.atEnd() || l.peek() == '\n' {
			return "", l.errorf("unclosed string literal")
		}
		ch := l.advance()
		if ch == '"' {
			return sb.String(), nil
		}
		if ch != '\\' {
			sb.WriteByte(ch)
			continue
		}
		if l.atEnd() {
			return "", l.errorf("unclosed string literal")
		}
		esc := l.advance()
		switch esc {
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'v':
			sb.WriteByte('\v')
		case 'f':
			sb.WriteByte('\f')
		case 'r':
			sb.WriteByte('\r')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		case '^':
			if l.atEnd() {
				return "", l.errorf("unclosed string literal")
			}
			ctrl := l.advance()
			if ctrl < 64 || ctrl > 95 {
				return "", l.errorf("invalid control escape")
			}
			sb.WriteByte(ctrl - 64)
		case 'u':
			code, err := l.readCode(4, 16)
			if err != nil {
				return "", err
			}
			sb.WriteRune(rune(code))
		case ' ', '\t', '\n', '\r', '\f':
			for !l.atEnd() && l.peek() != '\\' {
				gap := l.advance()
				if gap != ' ' && gap != '\t' && gap != '\n' && gap != '\r' && gap != '\f' {
					return "", l.errorf("invalid character in string gap")
				}
			}
			if l.atEnd() {
				return "", l.errorf("unclosed string literal")
			}
			l.advance()
		default:
			if !isDigit(esc) {
				return "", l.errorf("invalid escape `\\%c`", esc)
			}
			l.cur--
			l.col--
			code, err := l.readCode(3, 10)
			if err != nil {
				return "", err
			}
			sb.WriteRune(rune(code))
		}
	}
}

func (l *Lexer) readCode(width, base int) (int, error) {
	if l.cur+width > len(l.src) {
		return 0, l.errorf("truncated escape sequence")
	}
	text := l.src[l.cur : l.cur+width]
	code, err := strconv.ParseInt(text, base, 32)
	if err != nil {
		return 0, l.errorf("invalid escape sequence %q", text)
	}
	for i := 0; i < width; i++ {
		l.advance()
	}
	return int(code), nil
}
