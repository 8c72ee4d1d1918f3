package parser

import (
	"plc/interpreter-go/pkg/ast"
)

// parseBlock parses statements until one of the terminators is next. The
// terminator itself is left for the caller.
func (p *SourceParser) parseBlock(terminators ...string) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		if !p.has(0) {
			return nil, p.expected(terminators[0])
		}
		for _, term := range terminators {
			if p.peek(term) {
				return stmts, nil
			}
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *SourceParser) parseStatement() (ast.Statement, error) {
	switch {
	case p.peek("LET"):
		return p.parseDeclaration()
	case p.peek("IF"):
		return p.parseIf()
	case p.peek("FOR"):
		return p.parseFor()
	case p.peek("WHILE"):
		return p.parseWhile()
	case p.peek("RETURN"):
		return p.parseReturn()
	default:
		return p.parseExpressionOrAssignment()
	}
}

// parseDeclaration parses `LET name (: Type)? (= value)?;`.
func (p *SourceParser) parseDeclaration() (ast.Statement, error) {
	start := p.position()
	p.match("LET")
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	var typeName *ast.TypeReference
	if p.match(":") {
		if typeName, err = p.parseTypeReference(); err != nil {
			return nil, err
		}
	}
	var value ast.Expression
	if p.match("=") {
		if value, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return p.annotateStatement(ast.NewDeclaration(name, typeName, value), start), nil
}

func (p *SourceParser) parseIf() (ast.Statement, error) {
	start := p.position()
	p.match("IF")
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("DO"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock("END", "ELSE")
	if err != nil {
		return nil, err
	}
	var otherwise []ast.Statement
	if p.match("ELSE") {
		if otherwise, err = p.parseBlock("END"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect("END"); err != nil {
		return nil, err
	}
	return p.annotateStatement(ast.NewIfStatement(condition, then, otherwise), start), nil
}

func (p *SourceParser) parseFor() (ast.Statement, error) {
	start := p.position()
	p.match("FOR")
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("IN"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("DO"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock("END")
	if err != nil {
		return nil, err
	}
	p.match("END")
	return p.annotateStatement(ast.NewForStatement(name, value, body), start), nil
}

func (p *SourceParser) parseWhile() (ast.Statement, error) {
	start := p.position()
	p.match("WHILE")
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("DO"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock("END")
	if err != nil {
		return nil, err
	}
	p.match("END")
	return p.annotateStatement(ast.NewWhileStatement(condition, body), start), nil
}

func (p *SourceParser) parseReturn() (ast.Statement, error) {
	start := p.position()
	p.match("RETURN")
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return p.annotateStatement(ast.NewReturnStatement(value), start), nil
}

// parseExpressionOrAssignment parses `expr (= expr)?;`. The target is not
// validated here; the analyzer rejects non-access targets.
func (p *SourceParser) parseExpressionOrAssignment() (ast.Statement, error) {
	start := p.position()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	var stmt ast.Statement
	if p.match("=") {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt = ast.NewAssignment(expr, value)
	} else {
		stmt = ast.NewExpressionStatement(expr)
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return p.annotateStatement(stmt, start), nil
}
