package lexer

import (
	"unicode/utf8"

	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
)

const (
	quoteChar   = '\''
	quoteString = '"'
	backslash   = '\\'
	newline     = '\n'
	carriage    = '\r'
	dot         = '.'
)

type Lexer struct {
	source string
	pos    ast.Position // next unread rune
	start  ast.Position // first rune of the token being built
}

func New(source string) *Lexer {
	return &Lexer{source: source, pos: ast.Position{Line: 1, Column: 1}}
}

// Lex tokenizes source in one go.
func Lex(source string) ([]Token, error) {
	return New(source).Lex()
}

// Lex consumes the whole input, skipping whitespace and `!!!` comments.
func (l *Lexer) Lex() ([]Token, error) {
	var tokens []Token
	for l.has(0) {
		switch {
		case isWhitespace(l.peek(0)):
			l.advance()
		case l.peek(0) == '!' && l.peek(1) == '!' && l.peek(2) == '!':
			l.skipComment()
		default:
			tok, err := l.lexToken()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}

func (l *Lexer) lexToken() (Token, error) {
	l.start = l.pos
	c := l.peek(0)
	switch {
	case isIdentifierStart(c):
		return l.lexIdentifier(), nil
	case isDigit(c), (c == '+' || c == '-') && isDigit(l.peek(1)):
		return l.lexNumber(), nil
	case c == quoteChar:
		return l.lexCharacter()
	case c == quoteString:
		return l.lexString()
	default:
		return l.lexOperator(), nil
	}
}

func (l *Lexer) lexIdentifier() Token {
	l.advance()
	for l.has(0) && isIdentifierPart(l.peek(0)) {
		l.advance()
	}
	return l.emit(Identifier)
}

func (l *Lexer) lexNumber() Token {
	if c := l.peek(0); c == '+' || c == '-' {
		l.advance()
	}
	l.skipDigits()
	if l.peek(0) == dot && isDigit(l.peek(1)) {
		l.advance()
		l.skipDigits()
		return l.emit(Decimal)
	}
	return l.emit(Integer)
}

func (l *Lexer) lexCharacter() (Token, error) {
	l.advance() // opening quote
	switch c := l.peek(0); {
	case !l.has(0) || c == newline || c == carriage:
		return Token{}, l.errorf("character literal is not terminated")
	case c == quoteChar:
		return Token{}, l.errorf("character literal is empty")
	case c == backslash:
		if err := l.lexEscape("character"); err != nil {
			return Token{}, err
		}
	default:
		l.advance()
	}
	if l.peek(0) != quoteChar {
		return Token{}, l.errorf("character literal is not terminated, expected a closing quote (')")
	}
	l.advance()
	return l.emit(Character), nil
}

func (l *Lexer) lexString() (Token, error) {
	l.advance() // opening quote
	for {
		c := l.peek(0)
		switch {
		case !l.has(0) || c == newline || c == carriage:
			return Token{}, l.errorf("string literal is not terminated, expected a closing quote (\")")
		case c == quoteString:
			l.advance()
			return l.emit(String), nil
		case c == backslash:
			if err := l.lexEscape("string"); err != nil {
				return Token{}, err
			}
		default:
			l.advance()
		}
	}
}

func (l *Lexer) lexEscape(literal string) error {
	l.advance() // backslash
	switch l.peek(0) {
	case 'b', 'n', 'r', 't', '\'', '"', '\\':
		l.advance()
		return nil
	}
	return l.errorf("%s literal contains an invalid escape, expected one of b, n, r, t, ', \", \\", literal)
}

func (l *Lexer) lexOperator() Token {
	c := l.peek(0)
	l.advance()
	if (c == '<' || c == '>' || c == '!' || c == '=') && l.peek(0) == '=' {
		l.advance()
	}
	return l.emit(Operator)
}

func (l *Lexer) skipComment() {
	for l.has(0) {
		c := l.peek(0)
		l.advance()
		if c == newline {
			return
		}
	}
}

func (l *Lexer) skipDigits() {
	for l.has(0) && isDigit(l.peek(0)) {
		l.advance()
	}
}

func (l *Lexer) has(offset int) bool {
	return l.runeAt(offset) >= 0
}

// runeAt returns the byte offset of the rune `offset` positions ahead, or -1.
func (l *Lexer) runeAt(offset int) int {
	i := l.pos.Offset
	for n := 0; n < offset; n++ {
		if i >= len(l.source) {
			return -1
		}
		_, size := utf8.DecodeRuneInString(l.source[i:])
		i += size
	}
	if i >= len(l.source) {
		return -1
	}
	return i
}

// peek returns the rune `offset` positions ahead, or utf8.RuneError past the end.
func (l *Lexer) peek(offset int) rune {
	i := l.runeAt(offset)
	if i < 0 {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(l.source[i:])
	return r
}

func (l *Lexer) advance() {
	if l.pos.Offset >= len(l.source) {
		return
	}
	r, size := utf8.DecodeRuneInString(l.source[l.pos.Offset:])
	l.pos.Offset += size
	if r == newline {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
}

func (l *Lexer) emit(kind Kind) Token {
	return Token{
		Kind:  kind,
		Text:  l.source[l.start.Offset:l.pos.Offset],
		Start: l.start,
		End:   l.pos,
	}
}

func (l *Lexer) errorf(format string, args ...any) error {
	err := diag.Errorf(diag.SyntaxError, format, args...)
	err.Span = ast.Span{Start: l.pos, End: l.pos}
	return err
}

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\b' || c == '\n' || c == '\r' || c == '\t'
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentifierStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentifierPart(c rune) bool {
	return isIdentifierStart(c) || isDigit(c) || c == '-'
}
