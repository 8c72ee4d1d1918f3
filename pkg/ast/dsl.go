package ast

import "math/big"

// Declaration helpers.

func Src(fields []*Field, methods ...*Method) *Source {
	return NewSource(fields, methods, nil)
}

func Fld(name, typeName string, value Expression) *Field {
	return NewField(name, Ty(typeName), value)
}

func Meth(name string, params []*Parameter, returnType string, body ...Statement) *Method {
	var ret *TypeReference
	if returnType != "" {
		ret = Ty(returnType)
	}
	return NewMethod(name, params, ret, body)
}

func Param(name, typeName string) *Parameter {
	return NewParameter(name, Ty(typeName))
}

func Params(params ...*Parameter) []*Parameter {
	return params
}

func Ty(name string) *TypeReference {
	if name == "" {
		return nil
	}
	return NewTypeReference(name)
}

// Statement helpers.

func Stmts(stmts ...Statement) []Statement {
	return stmts
}

func Let(name, typeName string, value Expression) *Declaration {
	return NewDeclaration(name, Ty(typeName), value)
}

func Assign(receiver, value Expression) *Assignment {
	return NewAssignment(receiver, value)
}

func If(condition Expression, then []Statement, otherwise ...Statement) *IfStatement {
	return NewIfStatement(condition, then, otherwise)
}

func For(name string, value Expression, body ...Statement) *ForStatement {
	return NewForStatement(name, value, body)
}

func While(condition Expression, body ...Statement) *WhileStatement {
	return NewWhileStatement(condition, body)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(value)
}

func Do(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

// Expression helpers.

func Nil() *NilLiteral {
	return NewNilLiteral()
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(big.NewInt(value))
}

func IntBig(value *big.Int) *IntegerLiteral {
	return NewIntegerLiteral(new(big.Int).Set(value))
}

func Dec(value string) *DecimalLiteral {
	return NewDecimalLiteral(value)
}

func Chr(value rune) *CharacterLiteral {
	return NewCharacterLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Grp(expr Expression) *GroupExpression {
	return NewGroupExpression(expr)
}

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func ID(name string) *AccessExpression {
	return NewAccessExpression(nil, name)
}

func Member(receiver Expression, name string) *AccessExpression {
	return NewAccessExpression(receiver, name)
}

func Call(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(nil, name, args)
}

func CallOn(receiver Expression, name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(receiver, name, args)
}
