package parser

import (
	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/lexer"
)

// parseField parses `LET name: Type (= value)?;`. Fields always carry a type.
func (p *SourceParser) parseField() (*ast.Field, error) {
	start := p.position()
	if _, err := p.expect("LET"); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}
	typeName, err := p.parseTypeReference()
	if err != nil {
		return nil, err
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
	field := ast.NewField(name, typeName, value)
	p.annotate(field, start)
	return field, nil
}

// parseMethod parses `DEF name(p: T, ...) (: R)? DO stmt* END`.
func (p *SourceParser) parseMethod() (*ast.Method, error) {
	start := p.position()
	if _, err := p.expect("DEF"); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	var returnType *ast.TypeReference
	if p.match(":") {
		if returnType, err = p.parseTypeReference(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect("DO"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock("END")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("END"); err != nil {
		return nil, err
	}
	method := ast.NewMethod(name, params, returnType, body)
	p.annotate(method, start)
	return method, nil
}

func (p *SourceParser) parseParameters() ([]*ast.Parameter, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	var params []*ast.Parameter
	if p.match(")") {
		return params, nil
	}
	for {
		start := p.position()
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(":"); err != nil {
			return nil, err
		}
		typeName, err := p.parseTypeReference()
		if err != nil {
			return nil, err
		}
		param := ast.NewParameter(name, typeName)
		p.annotate(param, start)
		params = append(params, param)
		if p.match(")") {
			return params, nil
		}
		if _, err := p.expect(","); err != nil {
			return nil, err
		}
	}
}

// parseStruct parses `DEF TYPE Name: (field | method)* END`.
func (p *SourceParser) parseStruct() (*ast.Struct, error) {
	start := p.position()
	p.match("DEF", "TYPE")
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}
	var (
		fields  []*ast.Field
		methods []*ast.Method
	)
	for !p.peek("END") {
		switch {
		case p.peek("LET"):
			field, err := p.parseField()
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
		case p.peek("DEF"):
			method, err := p.parseMethod()
			if err != nil {
				return nil, err
			}
			methods = append(methods, method)
		default:
			return nil, p.expected("END")
		}
	}
	p.match("END")
	st := ast.NewStruct(name, fields, methods)
	p.annotate(st, start)
	return st, nil
}

func (p *SourceParser) parseTypeReference() (*ast.TypeReference, error) {
	tok, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	ref := ast.NewTypeReference(tok.Text)
	ast.SetSpan(ref, tok.Span())
	return ref, nil
}
