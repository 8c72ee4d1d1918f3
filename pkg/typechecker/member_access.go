package typechecker

import (
	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/typed"
	"plc/interpreter-go/pkg/types"
)

// checkAccess resolves `name` in the current scopes, or `receiver.name` in the
// receiver's type.
func (c *Checker) checkAccess(expr *ast.AccessExpression) (*typed.Access, error) {
	if expr.Receiver == nil {
		variable, err := c.scope.LookupVariable(expr.Name)
		if err != nil {
			return nil, diag.Locate(err, expr)
		}
		return typed.NewAccess(expr.Span(), nil, variable), nil
	}
	receiver, err := c.checkReceiver(expr.Receiver)
	if err != nil {
		return nil, err
	}
	variable, err := receiver.Type().Field(expr.Name)
	if err != nil {
		return nil, diag.Locate(err, expr)
	}
	return typed.NewAccess(expr.Span(), receiver, variable), nil
}

// checkFunctionCall resolves a global function by name/arity, or a method on
// the receiver's type where the receiver is argument 0.
func (c *Checker) checkFunctionCall(call *ast.FunctionCall) (typed.Expression, error) {
	var (
		receiver typed.Expression
		fn       *types.Function
		err      error
	)
	if call.Receiver != nil {
		if receiver, err = c.checkReceiver(call.Receiver); err != nil {
			return nil, err
		}
		if fn, err = receiver.Type().Method(call.Name, len(call.Arguments)); err != nil {
			return nil, diag.Locate(err, call)
		}
	} else if fn, err = c.scope.LookupFunction(call.Name, len(call.Arguments)); err != nil {
		return nil, diag.Locate(err, call)
	}

	params := fn.ParameterTypes
	if receiver != nil {
		params = params[1:]
	}
	var args []typed.Expression
	for i, arg := range call.Arguments {
		checked, err := c.checkExpression(arg)
		if err != nil {
			return nil, err
		}
		if err := requireAssignable(params[i], checked.Type(), arg); err != nil {
			return nil, err
		}
		args = append(args, checked)
	}
	return typed.NewCall(call.Span(), receiver, fn, args), nil
}

// checkReceiver only admits access expressions as qualified receivers.
func (c *Checker) checkReceiver(expr ast.Expression) (typed.Expression, error) {
	access, ok := expr.(*ast.AccessExpression)
	if !ok {
		return nil, diag.Errorf(diag.ProgramStructureError, "a receiver must be an access expression").At(expr)
	}
	return c.checkAccess(access)
}
