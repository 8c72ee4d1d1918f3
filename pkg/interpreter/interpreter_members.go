package interpreter

import (
	"fmt"

	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/runtime"
	"plc/interpreter-go/pkg/types"
)

// resolveVariable finds the binding named by an access: in the scope chain
// when unqualified, otherwise in the receiver object's field scope.
func (i *Interpreter) resolveVariable(expr *ast.AccessExpression, scope *runtime.Scope) (*runtime.Variable, error) {
	if expr.Receiver == nil {
		variable, err := scope.LookupVariable(expr.Name)
		if err != nil {
			return nil, diag.Locate(err, expr)
		}
		return variable, nil
	}
	receiver, err := i.evaluateExpression(expr.Receiver, scope)
	if err != nil {
		return nil, err
	}
	variable, err := receiver.Field(expr.Name)
	if err != nil {
		return nil, diag.Errorf(diag.NameError, "the field %s is not defined on %s", expr.Name, receiver.Type).At(expr)
	}
	return variable, nil
}

// evaluateFunctionCall evaluates the receiver (if any) and then the
// arguments left to right before dispatching.
func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, scope *runtime.Scope) (*runtime.Object, error) {
	var receiver *runtime.Object
	if call.Receiver != nil {
		var err error
		if receiver, err = i.evaluateExpression(call.Receiver, scope); err != nil {
			return nil, err
		}
	}
	args := make([]*runtime.Object, 0, len(call.Arguments)+1)
	if receiver != nil {
		args = append(args, receiver)
	}
	for _, arg := range call.Arguments {
		value, err := i.evaluateExpression(arg, scope)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}

	if receiver == nil {
		fn, err := scope.LookupFunction(call.Name, len(args))
		if err != nil {
			return nil, diag.Locate(err, call)
		}
		result, err := fn.Invoke(args)
		return result, diag.Locate(err, call)
	}

	method, err := receiver.Type.Method(call.Name, len(call.Arguments))
	if err != nil {
		return nil, diag.Locate(err, call)
	}
	impl, ok := i.natives[method]
	if !ok {
		return nil, diag.Errorf(diag.NameError, "the method %s has no implementation", methodKey(method)).At(call)
	}
	result, err := impl(args)
	return result, diag.Locate(err, call)
}

func methodKey(fn *types.Function) string {
	return fmt.Sprintf("%s/%d", fn.Name, fn.Arity()-1)
}

// builtinMethods binds the table's built-in method signatures to their
// implementations. Dispatch goes through the receiver's type, so a method
// inherited from Any or Comparable resolves to the same signature.
func (i *Interpreter) builtinMethods() map[*types.Function]runtime.NativeFunc {
	t := i.table
	natives := make(map[*types.Function]runtime.NativeFunc)
	bind := func(owner *types.Type, name string, arity int, impl runtime.NativeFunc) {
		fn, err := owner.Method(name, arity)
		if err != nil {
			panic(err)
		}
		natives[fn] = impl
	}

	bind(t.Any, "stringify", 0, func(args []*runtime.Object) (*runtime.Object, error) {
		return runtime.NewString(t, stringify(args[0])), nil
	})
	compare := func(args []*runtime.Object) (*runtime.Object, error) {
		cmp, err := compareValues(args[0].Value, args[1].Value)
		if err != nil {
			return nil, err
		}
		return runtime.NewInt64(t, int64(cmp)), nil
	}
	for _, owner := range []*types.Type{t.Comparable, t.Integer, t.Decimal, t.Character, t.String} {
		bind(owner, "compare", 1, compare)
	}
	bind(t.String, "slice", 2, i.sliceString)
	return natives
}

// sliceString returns the characters in [start, end).
func (i *Interpreter) sliceString(args []*runtime.Object) (*runtime.Object, error) {
	str, ok := args[0].Value.(runtime.StringValue)
	if !ok {
		return nil, diag.Errorf(diag.TypeError, "expected type String, received %s", args[0].Type)
	}
	start, err := intArgument(args[1])
	if err != nil {
		return nil, err
	}
	end, err := intArgument(args[2])
	if err != nil {
		return nil, err
	}
	runes := []rune(str.Val)
	if start < 0 || end > int64(len(runes)) || start > end {
		return nil, diag.Errorf(diag.ArithmeticError, "slice [%d, %d) is out of range for length %d", start, end, len(runes))
	}
	return runtime.NewString(i.table, string(runes[start:end])), nil
}

func (i *Interpreter) registerGlobals() {
	t := i.table
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(i.RegisterFunction("print", 1, func(args []*runtime.Object) (*runtime.Object, error) {
		if _, err := fmt.Fprintln(i.out, stringify(args[0])); err != nil {
			return nil, err
		}
		return i.nilObject(), nil
	}))
	must(i.RegisterFunction("range", 2, func(args []*runtime.Object) (*runtime.Object, error) {
		start, ok := args[0].Value.(runtime.IntegerValue)
		if !ok {
			return nil, diag.Errorf(diag.TypeError, "expected type Integer, received %s", args[0].Type)
		}
		end, ok := args[1].Value.(runtime.IntegerValue)
		if !ok {
			return nil, diag.Errorf(diag.TypeError, "expected type Integer, received %s", args[1].Type)
		}
		return runtime.NewRange(t, start.Val, end.Val), nil
	}))
}

func intArgument(obj *runtime.Object) (int64, error) {
	v, ok := obj.Value.(runtime.IntegerValue)
	if !ok {
		return 0, diag.Errorf(diag.TypeError, "expected type Integer, received %s", obj.Type)
	}
	if !v.Val.IsInt64() {
		return 0, diag.Errorf(diag.ArithmeticError, "%s is out of range", v.Val)
	}
	return v.Val.Int64(), nil
}
