package typechecker

import (
	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/typed"
	"plc/interpreter-go/pkg/types"
)

func (c *Checker) checkBinaryExpression(expr *ast.BinaryExpression) (typed.Expression, error) {
	left, err := c.checkExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.checkExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	leftType, rightType := left.Type(), right.Type()

	var result *types.Type
	switch expr.Operator {
	case "AND", "OR":
		if err := requireType(c.table.Boolean, leftType, expr.Left); err != nil {
			return nil, err
		}
		if err := requireType(c.table.Boolean, rightType, expr.Right); err != nil {
			return nil, err
		}
		result = c.table.Boolean
	case "<", "<=", ">", ">=", "==", "!=":
		if !types.IsComparable(leftType) {
			return nil, diag.Errorf(diag.TypeError, "'%s' requires comparable operands (got %s)", expr.Operator, leftType).At(expr.Left)
		}
		if !types.IsComparable(rightType) {
			return nil, diag.Errorf(diag.TypeError, "'%s' requires comparable operands (got %s)", expr.Operator, rightType).At(expr.Right)
		}
		if err := requireType(leftType, rightType, expr.Right); err != nil {
			return nil, err
		}
		result = c.table.Boolean
	case "+":
		if typeIs(leftType, "String") || typeIs(rightType, "String") {
			result = c.table.String
			break
		}
		if result, err = c.numericResult(expr, leftType, rightType); err != nil {
			return nil, err
		}
	case "-", "*", "/":
		if result, err = c.numericResult(expr, leftType, rightType); err != nil {
			return nil, err
		}
	default:
		return nil, diag.Errorf(diag.TypeError, "unsupported operator '%s'", expr.Operator).At(expr)
	}
	return typed.NewBinary(expr.Span(), expr.Operator, left, right, result), nil
}

// numericResult requires an Integer or Decimal left operand and a right
// operand of the same type.
func (c *Checker) numericResult(expr *ast.BinaryExpression, left, right *types.Type) (*types.Type, error) {
	if !types.IsNumeric(left) {
		return nil, diag.Errorf(diag.TypeError, "%s does not support operator '%s'", left, expr.Operator).At(expr.Left)
	}
	if err := requireType(left, right, expr.Right); err != nil {
		return nil, err
	}
	return left, nil
}
