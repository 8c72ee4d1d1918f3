package interpreter

import (
	"math/big"

	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, scope *runtime.Scope) (*runtime.Object, error) {
	switch n := node.(type) {
	case *ast.NilLiteral:
		return i.nilObject(), nil
	case *ast.BooleanLiteral:
		return runtime.NewBool(i.table, n.Value), nil
	case *ast.IntegerLiteral:
		return runtime.NewInteger(i.table, new(big.Int).Set(n.Value)), nil
	case *ast.DecimalLiteral:
		d, err := runtime.ParseDecimal(n.Value)
		if err != nil {
			return nil, diag.Errorf(diag.SyntaxError, "%s", err.Error()).At(n)
		}
		return runtime.NewDecimal(i.table, d), nil
	case *ast.CharacterLiteral:
		return runtime.NewChar(i.table, n.Value), nil
	case *ast.StringLiteral:
		return runtime.NewString(i.table, n.Value), nil
	case *ast.GroupExpression:
		return i.evaluateExpression(n.Expression, scope)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, scope)
	case *ast.AccessExpression:
		variable, err := i.resolveVariable(n, scope)
		if err != nil {
			return nil, err
		}
		return variable.Value, nil
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, scope)
	default:
		return nil, diag.Errorf(diag.ProgramStructureError, "unsupported expression type: %s", node.NodeType()).At(node)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, scope *runtime.Scope) (*runtime.Object, error) {
	left, err := i.evaluateExpression(expr.Left, scope)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "AND", "OR":
		lb, err := i.requireBool(left, expr.Left)
		if err != nil {
			return nil, err
		}
		if (expr.Operator == "AND" && !lb) || (expr.Operator == "OR" && lb) {
			return runtime.NewBool(i.table, lb), nil
		}
		right, err := i.evaluateExpression(expr.Right, scope)
		if err != nil {
			return nil, err
		}
		rb, err := i.requireBool(right, expr.Right)
		if err != nil {
			return nil, err
		}
		return runtime.NewBool(i.table, rb), nil
	}

	right, err := i.evaluateExpression(expr.Right, scope)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "==":
		return runtime.NewBool(i.table, valuesEqual(left.Value, right.Value)), nil
	case "!=":
		return runtime.NewBool(i.table, !valuesEqual(left.Value, right.Value)), nil
	case "<", "<=", ">", ">=":
		cmp, err := compareValues(left.Value, right.Value)
		if err != nil {
			return nil, diag.Locate(err, expr)
		}
		return runtime.NewBool(i.table, comparisonOp(expr.Operator, cmp)), nil
	case "+":
		_, ls := left.Value.(runtime.StringValue)
		_, rs := right.Value.(runtime.StringValue)
		if ls || rs {
			return runtime.NewString(i.table, stringify(left)+stringify(right)), nil
		}
		return i.arithmetic(expr, left, right)
	case "-", "*", "/":
		return i.arithmetic(expr, left, right)
	default:
		return nil, diag.Errorf(diag.TypeError, "unsupported operator '%s'", expr.Operator).At(expr)
	}
}

// arithmetic applies + - * / to two payloads of the same numeric kind.
// Division checks for a zero divisor first.
func (i *Interpreter) arithmetic(expr *ast.BinaryExpression, left, right *runtime.Object) (*runtime.Object, error) {
	switch l := left.Value.(type) {
	case runtime.IntegerValue:
		r, ok := right.Value.(runtime.IntegerValue)
		if !ok {
			return nil, operandMismatch(expr, left, right)
		}
		result := new(big.Int)
		switch expr.Operator {
		case "+":
			result.Add(l.Val, r.Val)
		case "-":
			result.Sub(l.Val, r.Val)
		case "*":
			result.Mul(l.Val, r.Val)
		case "/":
			if r.Val.Sign() == 0 {
				return nil, diag.Errorf(diag.ArithmeticError, "division by zero").At(expr)
			}
			result.Quo(l.Val, r.Val)
		}
		return runtime.NewInteger(i.table, result), nil
	case runtime.DecimalValue:
		r, ok := right.Value.(runtime.DecimalValue)
		if !ok {
			return nil, operandMismatch(expr, left, right)
		}
		var result runtime.Decimal
		switch expr.Operator {
		case "+":
			result = l.Val.Add(r.Val)
		case "-":
			result = l.Val.Sub(r.Val)
		case "*":
			result = l.Val.Mul(r.Val)
		case "/":
			if r.Val.IsZero() {
				return nil, diag.Errorf(diag.ArithmeticError, "division by zero").At(expr)
			}
			result = l.Val.Quo(r.Val)
		}
		return runtime.NewDecimal(i.table, result), nil
	default:
		return nil, diag.Errorf(diag.TypeError, "%s does not support operator '%s'", left.Type, expr.Operator).At(expr.Left)
	}
}

func operandMismatch(expr *ast.BinaryExpression, left, right *runtime.Object) error {
	return diag.Errorf(diag.TypeError, "expected type %s, received %s", left.Type, right.Type).At(expr.Right)
}

func comparisonOp(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default:
		return false
	}
}

// valuesEqual compares payloads by value. Payloads of different kinds are
// never equal.
func valuesEqual(left, right runtime.Value) bool {
	switch l := left.(type) {
	case runtime.NilValue:
		_, ok := right.(runtime.NilValue)
		return ok
	case runtime.BoolValue:
		r, ok := right.(runtime.BoolValue)
		return ok && l.Val == r.Val
	case runtime.IntegerValue:
		r, ok := right.(runtime.IntegerValue)
		return ok && l.Val.Cmp(r.Val) == 0
	case runtime.DecimalValue:
		r, ok := right.(runtime.DecimalValue)
		return ok && l.Val.Cmp(r.Val) == 0
	case runtime.CharValue:
		r, ok := right.(runtime.CharValue)
		return ok && l.Val == r.Val
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		return ok && l.Val == r.Val
	case *runtime.IterableValue:
		r, ok := right.(*runtime.IterableValue)
		return ok && l.Equal(r)
	default:
		return false
	}
}

// compareValues orders two payloads of the same comparable kind, returning
// -1, 0 or 1.
func compareValues(left, right runtime.Value) (int, error) {
	mismatch := func() (int, error) {
		return 0, diag.Errorf(diag.TypeError, "cannot compare %s with %s", left.Kind(), right.Kind())
	}
	switch l := left.(type) {
	case runtime.IntegerValue:
		r, ok := right.(runtime.IntegerValue)
		if !ok {
			return mismatch()
		}
		return l.Val.Cmp(r.Val), nil
	case runtime.DecimalValue:
		r, ok := right.(runtime.DecimalValue)
		if !ok {
			return mismatch()
		}
		return l.Val.Cmp(r.Val), nil
	case runtime.CharValue:
		r, ok := right.(runtime.CharValue)
		if !ok {
			return mismatch()
		}
		return sign(int64(l.Val) - int64(r.Val)), nil
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		if !ok {
			return mismatch()
		}
		switch {
		case l.Val < r.Val:
			return -1, nil
		case l.Val > r.Val:
			return 1, nil
		}
		return 0, nil
	default:
		return 0, diag.Errorf(diag.TypeError, "%s values are not comparable", left.Kind())
	}
}

func sign(n int64) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
