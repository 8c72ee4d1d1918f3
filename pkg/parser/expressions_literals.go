package parser

import (
	"math/big"
	"strings"
	"unicode/utf8"

	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/lexer"
)

var escapeReplacer = strings.NewReplacer(
	`\b`, "\b",
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
	`\'`, "'",
	`\"`, `"`,
	`\\`, `\`,
)

func parseLiteral(tok lexer.Token) (ast.Expression, error) {
	switch tok.Kind {
	case lexer.Integer:
		return parseIntegerLiteral(tok)
	case lexer.Decimal:
		return ast.NewDecimalLiteral(tok.Text), nil
	case lexer.Character:
		return parseCharLiteral(tok)
	case lexer.String:
		return ast.NewStringLiteral(unescape(tok.Text)), nil
	}
	return nil, literalError(tok, "unexpected literal token %s", tok.Kind)
}

func parseIntegerLiteral(tok lexer.Token) (ast.Expression, error) {
	value, ok := new(big.Int).SetString(tok.Text, 10)
	if !ok {
		return nil, literalError(tok, "invalid integer literal %q", tok.Text)
	}
	return ast.NewIntegerLiteral(value), nil
}

func parseCharLiteral(tok lexer.Token) (ast.Expression, error) {
	content := unescape(tok.Text)
	if utf8.RuneCountInString(content) != 1 {
		return nil, literalError(tok, "character literal %s must hold a single character", tok.Text)
	}
	r, _ := utf8.DecodeRuneInString(content)
	return ast.NewCharacterLiteral(r), nil
}

// unescape strips the surrounding quotes and resolves escape sequences.
func unescape(raw string) string {
	if len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}
	return escapeReplacer.Replace(raw)
}

func literalError(tok lexer.Token, format string, args ...any) error {
	err := diag.Errorf(diag.SyntaxError, format, args...)
	err.Span = tok.Span()
	return err
}
