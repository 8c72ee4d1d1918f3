package parser

import (
	"fmt"

	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/lexer"
)

func (p *SourceParser) has(offset int) bool {
	return p.index+offset < len(p.tokens)
}

func (p *SourceParser) token(offset int) lexer.Token {
	return p.tokens[p.index+offset]
}

// peek reports whether the next tokens match patterns in order. A pattern is
// either a lexer.Kind or the literal token text.
func (p *SourceParser) peek(patterns ...any) bool {
	for i, pattern := range patterns {
		if !p.has(i) {
			return false
		}
		tok := p.token(i)
		switch want := pattern.(type) {
		case lexer.Kind:
			if tok.Kind != want {
				return false
			}
		case string:
			if tok.Text != want {
				return false
			}
		default:
			panic(fmt.Sprintf("parser: invalid peek pattern %T", pattern))
		}
	}
	return true
}

// match consumes the tokens when peek succeeds.
func (p *SourceParser) match(patterns ...any) bool {
	if !p.peek(patterns...) {
		return false
	}
	p.index += len(patterns)
	return true
}

// expect consumes one token matching pattern or fails with a SyntaxError.
func (p *SourceParser) expect(pattern any) (lexer.Token, error) {
	if !p.peek(pattern) {
		return lexer.Token{}, p.expected(describe(pattern))
	}
	tok := p.token(0)
	p.index++
	return tok, nil
}

func (p *SourceParser) expectIdentifier() (string, error) {
	tok, err := p.expect(lexer.Identifier)
	if err != nil {
		return "", err
	}
	return tok.Text, nil
}

func describe(pattern any) string {
	switch want := pattern.(type) {
	case lexer.Kind:
		return string(want)
	default:
		return fmt.Sprint(want)
	}
}

// expected builds "Expected: `X`, received: `Y`." at the current token, or an
// incomplete-input error past the last one.
func (p *SourceParser) expected(what string) error {
	if !p.has(0) {
		err := diag.Errorf(diag.SyntaxError, "Expected: `%s`, received: end of input.", what)
		err.Span = ast.Span{Start: p.end, End: p.end}
		return &incompleteError{err: err}
	}
	tok := p.token(0)
	err := diag.Errorf(diag.SyntaxError, "Expected: `%s`, received: `%s`.", what, tok.Text)
	err.Span = tok.Span()
	return err
}

// position is the start of the next token, or the end of input.
func (p *SourceParser) position() ast.Position {
	if p.has(0) {
		return p.token(0).Start
	}
	return p.end
}

// previousEnd is the end of the last consumed token.
func (p *SourceParser) previousEnd() ast.Position {
	if p.index == 0 {
		return p.position()
	}
	return p.tokens[p.index-1].End
}
