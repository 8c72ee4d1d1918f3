package parser

import (
	"errors"

	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/lexer"
)

// SourceParser turns a token stream into the canonical AST. A parser is
// single-use: construct one per input.
type SourceParser struct {
	tokens []lexer.Token
	index  int
	end    ast.Position
}

// NewSourceParser lexes source and prepares a parser over its tokens.
func NewSourceParser(source []byte) (*SourceParser, error) {
	tokens, err := lexer.Lex(string(source))
	if err != nil {
		return nil, err
	}
	p := &SourceParser{tokens: tokens}
	if n := len(tokens); n > 0 {
		p.end = tokens[n-1].End
	} else {
		p.end = ast.Position{Line: 1, Column: 1}
	}
	return p, nil
}

// Parse parses a whole program.
func Parse(source []byte) (*ast.Source, error) {
	p, err := NewSourceParser(source)
	if err != nil {
		return nil, err
	}
	return p.ParseSource()
}

// ParseStatements parses a bare statement list, as typed at the REPL.
func ParseStatements(source []byte) ([]ast.Statement, error) {
	p, err := NewSourceParser(source)
	if err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for p.has(0) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// ParseExpression parses exactly one expression.
func ParseExpression(source []byte) (ast.Expression, error) {
	p, err := NewSourceParser(source)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.has(0) {
		return nil, p.expected("end of input")
	}
	return expr, nil
}

// ParseSource parses `field* (method | struct)*` and requires every token to
// be consumed.
func (p *SourceParser) ParseSource() (*ast.Source, error) {
	start := p.position()
	var (
		fields  []*ast.Field
		methods []*ast.Method
		structs []*ast.Struct
	)
	for p.peek("LET") {
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	for p.peek("DEF") {
		if p.peek("DEF", "TYPE") {
			st, err := p.parseStruct()
			if err != nil {
				return nil, err
			}
			structs = append(structs, st)
			continue
		}
		method, err := p.parseMethod()
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	if p.has(0) {
		return nil, p.expected("DEF")
	}
	src := ast.NewSource(fields, methods, structs)
	p.annotate(src, start)
	return src, nil
}

// incompleteError marks failures caused by running out of tokens, so a REPL
// can ask for another line instead of reporting.
type incompleteError struct {
	err *diag.Error
}

func (e *incompleteError) Error() string { return e.err.Error() }
func (e *incompleteError) Unwrap() error { return e.err }

// IsIncomplete reports whether err was caused by input ending too early.
func IsIncomplete(err error) bool {
	var ie *incompleteError
	return errors.As(err, &ie)
}
