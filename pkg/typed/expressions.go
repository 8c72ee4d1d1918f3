package typed

import (
	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/types"
)

// Literal is a constant. Value holds nil, bool, *big.Int, rune or string;
// decimal literals keep their source digits as a string, so Type
// disambiguates the payload.
type Literal struct {
	node
	Value any
	typ   *types.Type
}

func (*Literal) expressionNode()     {}
func (l *Literal) Type() *types.Type { return l.typ }

func NewLiteral(span ast.Span, value any, typ *types.Type) *Literal {
	return &Literal{node: at(span), Value: value, typ: typ}
}

type Group struct {
	node
	Expression Expression
}

func (*Group) expressionNode()     {}
func (g *Group) Type() *types.Type { return g.Expression.Type() }

func NewGroup(span ast.Span, expr Expression) *Group {
	return &Group{node: at(span), Expression: expr}
}

type Binary struct {
	node
	Operator string
	Left     Expression
	Right    Expression
	typ      *types.Type
}

func (*Binary) expressionNode()     {}
func (b *Binary) Type() *types.Type { return b.typ }

func NewBinary(span ast.Span, operator string, left, right Expression, typ *types.Type) *Binary {
	return &Binary{node: at(span), Operator: operator, Left: left, Right: right, typ: typ}
}

// Access reads Variable, either from the enclosing scopes or, when Receiver
// is set, from the receiver's type.
type Access struct {
	node
	Receiver Expression
	Variable *types.Variable
}

func (*Access) expressionNode()     {}
func (a *Access) Type() *types.Type { return a.Variable.Type }

func NewAccess(span ast.Span, receiver Expression, variable *types.Variable) *Access {
	return &Access{node: at(span), Receiver: receiver, Variable: variable}
}

// Call invokes Function. For method calls Receiver is argument 0 of the
// signature and is not repeated in Arguments.
type Call struct {
	node
	Receiver  Expression
	Function  *types.Function
	Arguments []Expression
}

func (*Call) expressionNode()     {}
func (c *Call) Type() *types.Type { return c.Function.ReturnType }

func NewCall(span ast.Span, receiver Expression, fn *types.Function, args []Expression) *Call {
	return &Call{node: at(span), Receiver: receiver, Function: fn, Arguments: args}
}
