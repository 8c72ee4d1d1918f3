// Package typed holds the analyzed program: the same shape as the ast tree,
// but every expression carries its resolved type and every reference its
// resolved binding. Trees are produced by the typechecker and consumed by the
// generator; nothing here is mutated after construction.
package typed

import (
	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/types"
)

type node struct {
	span ast.Span
}

func (n node) Span() ast.Span { return n.span }

func at(span ast.Span) node { return node{span: span} }

type Expression interface {
	Type() *types.Type
	Span() ast.Span
	expressionNode()
}

type Statement interface {
	Span() ast.Span
	statementNode()
}

type Source struct {
	node
	Fields  []*Field
	Methods []*Method
}

func NewSource(span ast.Span, fields []*Field, methods []*Method) *Source {
	return &Source{node: at(span), Fields: fields, Methods: methods}
}

// Field is a global variable with an optional initializer.
type Field struct {
	node
	Variable *types.Variable
	Value    Expression
}

func NewField(span ast.Span, variable *types.Variable, value Expression) *Field {
	return &Field{node: at(span), Variable: variable, Value: value}
}

// Method pairs the global function binding with the parameter variables
// visible in its body.
type Method struct {
	node
	Function   *types.Function
	Parameters []*types.Variable
	Body       []Statement
}

func NewMethod(span ast.Span, fn *types.Function, params []*types.Variable, body []Statement) *Method {
	return &Method{node: at(span), Function: fn, Parameters: params, Body: body}
}

// Statements

type ExpressionStatement struct {
	node
	Expression Expression
}

func (*ExpressionStatement) statementNode() {}

func NewExpressionStatement(span ast.Span, expr Expression) *ExpressionStatement {
	return &ExpressionStatement{node: at(span), Expression: expr}
}

// Declaration introduces Variable in the current block. Value is nil when the
// declaration has no initializer.
type Declaration struct {
	node
	Variable *types.Variable
	Value    Expression
}

func (*Declaration) statementNode() {}

func NewDeclaration(span ast.Span, variable *types.Variable, value Expression) *Declaration {
	return &Declaration{node: at(span), Variable: variable, Value: value}
}

type Assignment struct {
	node
	Receiver *Access
	Value    Expression
}

func (*Assignment) statementNode() {}

func NewAssignment(span ast.Span, receiver *Access, value Expression) *Assignment {
	return &Assignment{node: at(span), Receiver: receiver, Value: value}
}

type If struct {
	node
	Condition Expression
	Then      []Statement
	Else      []Statement
}

func (*If) statementNode() {}

func NewIf(span ast.Span, condition Expression, then, otherwise []Statement) *If {
	return &If{node: at(span), Condition: condition, Then: then, Else: otherwise}
}

type For struct {
	node
	Variable *types.Variable
	Value    Expression
	Body     []Statement
}

func (*For) statementNode() {}

func NewFor(span ast.Span, variable *types.Variable, value Expression, body []Statement) *For {
	return &For{node: at(span), Variable: variable, Value: value, Body: body}
}

type While struct {
	node
	Condition Expression
	Body      []Statement
}

func (*While) statementNode() {}

func NewWhile(span ast.Span, condition Expression, body []Statement) *While {
	return &While{node: at(span), Condition: condition, Body: body}
}

type Return struct {
	node
	Value Expression
}

func (*Return) statementNode() {}

func NewReturn(span ast.Span, value Expression) *Return {
	return &Return{node: at(span), Value: value}
}
