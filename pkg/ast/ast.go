package ast

import "math/big"

type NodeType string

const (
	NodeSource              NodeType = "Source"
	NodeField               NodeType = "Field"
	NodeMethod              NodeType = "Method"
	NodeParameter           NodeType = "Parameter"
	NodeStruct              NodeType = "Struct"
	NodeTypeReference       NodeType = "TypeReference"
	NodeNilLiteral          NodeType = "NilLiteral"
	NodeBooleanLiteral      NodeType = "BooleanLiteral"
	NodeIntegerLiteral      NodeType = "IntegerLiteral"
	NodeDecimalLiteral      NodeType = "DecimalLiteral"
	NodeCharacterLiteral    NodeType = "CharacterLiteral"
	NodeStringLiteral       NodeType = "StringLiteral"
	NodeGroupExpression     NodeType = "GroupExpression"
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodeAccessExpression    NodeType = "AccessExpression"
	NodeFunctionCall        NodeType = "FunctionCall"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeDeclaration         NodeType = "Declaration"
	NodeAssignment          NodeType = "Assignment"
	NodeIfStatement         NodeType = "IfStatement"
	NodeForStatement        NodeType = "ForStatement"
	NodeWhileStatement      NodeType = "WhileStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// TypeReference names a declared type (`LET x: Integer`, `p: String`, `): Boolean`).
type TypeReference struct {
	nodeImpl

	Name string `json:"name"`
}

func NewTypeReference(name string) *TypeReference {
	return &TypeReference{nodeImpl: newNodeImpl(NodeTypeReference), Name: name}
}

// Literals

type NilLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker
}

func NewNilLiteral() *NilLiteral {
	return &NilLiteral{nodeImpl: newNodeImpl(NodeNilLiteral)}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

// IntegerLiteral keeps the unbounded value; range checks belong to the analyzer.
type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value *big.Int `json:"value"`
}

func NewIntegerLiteral(value *big.Int) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

// DecimalLiteral keeps the literal digits ("-1.50") so no precision is lost
// before the interpreter builds an exact decimal from them.
type DecimalLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value string `json:"value"`
}

func NewDecimalLiteral(value string) *DecimalLiteral {
	return &DecimalLiteral{nodeImpl: newNodeImpl(NodeDecimalLiteral), Value: value}
}

type CharacterLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value rune `json:"value"`
}

func NewCharacterLiteral(value rune) *CharacterLiteral {
	return &CharacterLiteral{nodeImpl: newNodeImpl(NodeCharacterLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

// Expressions

type GroupExpression struct {
	nodeImpl
	expressionMarker

	Expression Expression `json:"expression"`
}

func NewGroupExpression(expr Expression) *GroupExpression {
	return &GroupExpression{nodeImpl: newNodeImpl(NodeGroupExpression), Expression: expr}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// AccessExpression is `name` or `receiver.name`. Receiver is nil for the
// unqualified form.
type AccessExpression struct {
	nodeImpl
	expressionMarker

	Receiver Expression `json:"receiver,omitempty"`
	Name     string     `json:"name"`
}

func NewAccessExpression(receiver Expression, name string) *AccessExpression {
	return &AccessExpression{nodeImpl: newNodeImpl(NodeAccessExpression), Receiver: receiver, Name: name}
}

// FunctionCall is `name(args)` or `receiver.name(args)`.
type FunctionCall struct {
	nodeImpl
	expressionMarker

	Receiver  Expression   `json:"receiver,omitempty"`
	Name      string       `json:"name"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(receiver Expression, name string, arguments []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Receiver: receiver, Name: name, Arguments: arguments}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

// Declaration is `LET name (: Type)? (= value)?;`. Either TypeName or Value may
// be nil, the parser never produces both nil but hand-built trees can.
type Declaration struct {
	nodeImpl
	statementMarker

	Name     string         `json:"name"`
	TypeName *TypeReference `json:"typeName,omitempty"`
	Value    Expression     `json:"value,omitempty"`
}

func NewDeclaration(name string, typeName *TypeReference, value Expression) *Declaration {
	return &Declaration{nodeImpl: newNodeImpl(NodeDeclaration), Name: name, TypeName: typeName, Value: value}
}

type Assignment struct {
	nodeImpl
	statementMarker

	Receiver Expression `json:"receiver"`
	Value    Expression `json:"value"`
}

func NewAssignment(receiver, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Receiver: receiver, Value: value}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression  `json:"condition"`
	Then      []Statement `json:"then"`
	Else      []Statement `json:"else"`
}

func NewIfStatement(condition Expression, then, otherwise []Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: otherwise}
}

type ForStatement struct {
	nodeImpl
	statementMarker

	Name  string      `json:"name"`
	Value Expression  `json:"value"`
	Body  []Statement `json:"body"`
}

func NewForStatement(name string, value Expression, body []Statement) *ForStatement {
	return &ForStatement{nodeImpl: newNodeImpl(NodeForStatement), Name: name, Value: value, Body: body}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Condition Expression  `json:"condition"`
	Body      []Statement `json:"body"`
}

func NewWhileStatement(condition Expression, body []Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: condition, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value"`
}

func NewReturnStatement(value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Value: value}
}
