package typechecker

import (
	"math"
	"math/big"
	"strconv"

	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/typed"
)

var (
	minInteger = big.NewInt(math.MinInt32)
	maxInteger = big.NewInt(math.MaxInt32)
)

func (c *Checker) checkExpression(expr ast.Expression) (typed.Expression, error) {
	switch e := expr.(type) {
	case *ast.NilLiteral:
		return typed.NewLiteral(e.Span(), nil, c.table.Nil), nil
	case *ast.BooleanLiteral:
		return typed.NewLiteral(e.Span(), e.Value, c.table.Boolean), nil
	case *ast.IntegerLiteral:
		return c.checkIntegerLiteral(e)
	case *ast.DecimalLiteral:
		return c.checkDecimalLiteral(e)
	case *ast.CharacterLiteral:
		return typed.NewLiteral(e.Span(), e.Value, c.table.Character), nil
	case *ast.StringLiteral:
		return typed.NewLiteral(e.Span(), e.Value, c.table.String), nil
	case *ast.GroupExpression:
		return c.checkGroup(e)
	case *ast.BinaryExpression:
		return c.checkBinaryExpression(e)
	case *ast.AccessExpression:
		return c.checkAccess(e)
	case *ast.FunctionCall:
		return c.checkFunctionCall(e)
	case nil:
		return nil, diag.Errorf(diag.ProgramStructureError, "missing expression")
	default:
		return nil, diag.Errorf(diag.ProgramStructureError, "unsupported expression %s", expr.NodeType()).At(expr)
	}
}

// checkIntegerLiteral rejects values outside the 32-bit signed range.
func (c *Checker) checkIntegerLiteral(lit *ast.IntegerLiteral) (typed.Expression, error) {
	if lit.Value == nil {
		return nil, diag.Errorf(diag.TypeError, "integer literal has no value").At(lit)
	}
	if lit.Value.Cmp(minInteger) < 0 || lit.Value.Cmp(maxInteger) > 0 {
		return nil, diag.Errorf(diag.TypeError, "the integer %s is out of range", lit.Value).At(lit)
	}
	return typed.NewLiteral(lit.Span(), new(big.Int).Set(lit.Value), c.table.Integer), nil
}

// checkDecimalLiteral rejects values that overflow a 64-bit float.
func (c *Checker) checkDecimalLiteral(lit *ast.DecimalLiteral) (typed.Expression, error) {
	value, err := strconv.ParseFloat(lit.Value, 64)
	if math.IsInf(value, 0) {
		return nil, diag.Errorf(diag.TypeError, "the decimal %s is out of range", lit.Value).At(lit)
	}
	if err != nil {
		return nil, diag.Errorf(diag.TypeError, "invalid decimal literal %q", lit.Value).At(lit)
	}
	return typed.NewLiteral(lit.Span(), lit.Value, c.table.Decimal), nil
}

// checkGroup only admits parenthesized binary expressions.
func (c *Checker) checkGroup(group *ast.GroupExpression) (typed.Expression, error) {
	if _, ok := group.Expression.(*ast.BinaryExpression); !ok {
		return nil, diag.Errorf(diag.ProgramStructureError, "a group must contain a binary expression").At(group)
	}
	inner, err := c.checkExpression(group.Expression)
	if err != nil {
		return nil, err
	}
	return typed.NewGroup(group.Span(), inner), nil
}
