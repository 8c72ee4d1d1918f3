package lexer

import (
	"fmt"

	"plc/interpreter-go/pkg/ast"
)

type Kind string

const (
	Identifier Kind = "Identifier"
	Integer    Kind = "Integer"
	Decimal    Kind = "Decimal"
	Character  Kind = "Character"
	String     Kind = "String"
	Operator   Kind = "Operator"
)

// Token keeps the raw source text; character and string tokens still carry
// their quotes and escapes.
type Token struct {
	Kind  Kind
	Text  string
	Start ast.Position
	End   ast.Position
}

func (t Token) Span() ast.Span {
	return ast.Span{Start: t.Start, End: t.End}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Start)
}
