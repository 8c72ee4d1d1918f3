package parser

import (
	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/lexer"
)

var (
	logicalOperators        = []string{"AND", "OR"}
	comparisonOperators     = []string{"<", "<=", ">", ">=", "==", "!="}
	additiveOperators       = []string{"+", "-"}
	multiplicativeOperators = []string{"*", "/"}
)

func (p *SourceParser) parseExpression() (ast.Expression, error) {
	return p.parseLogical()
}

func (p *SourceParser) parseLogical() (ast.Expression, error) {
	return p.parseInfix(logicalOperators, p.parseComparison)
}

func (p *SourceParser) parseComparison() (ast.Expression, error) {
	return p.parseInfix(comparisonOperators, p.parseAdditive)
}

func (p *SourceParser) parseAdditive() (ast.Expression, error) {
	return p.parseInfix(additiveOperators, p.parseMultiplicative)
}

func (p *SourceParser) parseMultiplicative() (ast.Expression, error) {
	return p.parseInfix(multiplicativeOperators, p.parseSecondary)
}

// parseInfix folds a left-associative chain of operators at one precedence level.
func (p *SourceParser) parseInfix(operators []string, next func() (ast.Expression, error)) (ast.Expression, error) {
	start := p.position()
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchOperator(operators)
		if !ok {
			return left, nil
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = p.annotateExpression(ast.NewBinaryExpression(op, left, right), start)
	}
}

func (p *SourceParser) matchOperator(operators []string) (string, bool) {
	for _, op := range operators {
		if p.match(op) {
			return op, true
		}
	}
	return "", false
}

// parseSecondary parses `primary ('.' name ('(' args ')')?)*`.
func (p *SourceParser) parseSecondary() (ast.Expression, error) {
	start := p.position()
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.match(".") {
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		if p.peek("(") {
			args, err := p.parseCallArguments()
			if err != nil {
				return nil, err
			}
			expr = p.annotateExpression(ast.NewFunctionCall(expr, name, args), start)
			continue
		}
		expr = p.annotateExpression(ast.NewAccessExpression(expr, name), start)
	}
	return expr, nil
}

func (p *SourceParser) parsePrimary() (ast.Expression, error) {
	start := p.position()
	switch {
	case p.match("NIL"):
		return p.annotateExpression(ast.NewNilLiteral(), start), nil
	case p.match("TRUE"):
		return p.annotateExpression(ast.NewBooleanLiteral(true), start), nil
	case p.match("FALSE"):
		return p.annotateExpression(ast.NewBooleanLiteral(false), start), nil
	case p.peek(lexer.Integer), p.peek(lexer.Decimal), p.peek(lexer.Character), p.peek(lexer.String):
		tok := p.token(0)
		p.index++
		lit, err := parseLiteral(tok)
		if err != nil {
			return nil, err
		}
		return p.annotateExpression(lit, start), nil
	case p.match("("):
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return p.annotateExpression(ast.NewGroupExpression(inner), start), nil
	case p.peek(lexer.Identifier, "("):
		name := p.token(0).Text
		p.index++
		args, err := p.parseCallArguments()
		if err != nil {
			return nil, err
		}
		return p.annotateExpression(ast.NewFunctionCall(nil, name, args), start), nil
	case p.peek(lexer.Identifier):
		name := p.token(0).Text
		p.index++
		return p.annotateExpression(ast.NewAccessExpression(nil, name), start), nil
	}
	return nil, p.expected("expression")
}

// parseCallArguments parses `'(' (expr (',' expr)*)? ')'`.
func (p *SourceParser) parseCallArguments() ([]ast.Expression, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	var args []ast.Expression
	if p.match(")") {
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.match(")") {
			return args, nil
		}
		if _, err := p.expect(","); err != nil {
			return nil, err
		}
	}
}
