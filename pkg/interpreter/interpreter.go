package interpreter

import (
	"io"
	"os"

	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/env"
	"plc/interpreter-go/pkg/runtime"
	"plc/interpreter-go/pkg/types"
)

// Interpreter evaluates plc syntax trees directly. It does not require the
// tree to have been analyzed; mismatches the analyzer would have caught
// surface as runtime errors instead.
type Interpreter struct {
	table   *types.Table
	global  *runtime.Scope
	natives map[*types.Function]runtime.NativeFunc
	out     io.Writer
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput redirects print.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) {
		i.out = w
	}
}

// WithTable uses table instead of the standard type table.
func WithTable(table *types.Table) Option {
	return func(i *Interpreter) {
		i.table = table
	}
}

// New returns an interpreter with a global frame holding print/1 and
// range/2.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		table: types.NewStandard(),
		out:   os.Stdout,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.global = env.New[*runtime.Variable, *runtime.Function](nil)
	i.natives = i.builtinMethods()
	i.registerGlobals()
	return i
}

// GlobalScope exposes the global frame.
func (i *Interpreter) GlobalScope() *runtime.Scope {
	return i.global
}

// Table returns the type table objects are built against.
func (i *Interpreter) Table() *types.Table {
	return i.table
}

// RegisterFunction binds a host function in the global frame.
func (i *Interpreter) RegisterFunction(name string, arity int, impl runtime.NativeFunc) error {
	return i.global.DefineFunction(name, arity, runtime.NewFunction(name, arity, impl))
}

// Interpret loads src and invokes main/0, returning its result.
func (i *Interpreter) Interpret(src *ast.Source) (*runtime.Object, error) {
	if err := i.Load(src); err != nil {
		return nil, err
	}
	main, err := i.global.LookupFunction("main", 0)
	if err != nil {
		return nil, diag.Locate(err, src)
	}
	return main.Invoke(nil)
}

// Load binds src's fields (in order) and methods into the global frame
// without running anything else.
func (i *Interpreter) Load(src *ast.Source) error {
	if len(src.Structs) > 0 {
		return diag.Errorf(diag.ProgramStructureError, "struct types are not supported (%s)", src.Structs[0].Name).At(src.Structs[0])
	}
	for _, field := range src.Fields {
		if err := i.defineField(field); err != nil {
			return err
		}
	}
	for _, method := range src.Methods {
		if err := i.defineMethod(method); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteStatements runs stmts directly in the global frame so declarations
// persist between calls. The result is the returned value when a RETURN
// executed, otherwise Nil.
func (i *Interpreter) ExecuteStatements(stmts []ast.Statement) (*runtime.Object, error) {
	res, err := i.executeBlock(stmts, i.global)
	if err != nil {
		return nil, err
	}
	if res.returned() {
		return res.value, nil
	}
	return i.nilObject(), nil
}

// Evaluate evaluates a single expression in the global frame.
func (i *Interpreter) Evaluate(expr ast.Expression) (*runtime.Object, error) {
	return i.evaluateExpression(expr, i.global)
}

func (i *Interpreter) defineField(field *ast.Field) error {
	value := i.nilObject()
	if field.Value != nil {
		var err error
		if value, err = i.evaluateExpression(field.Value, i.global); err != nil {
			return err
		}
	}
	if err := i.global.DefineVariable(field.Name, runtime.NewVariable(field.Name, value)); err != nil {
		return diag.Locate(err, field)
	}
	return nil
}

// defineMethod binds a user method. Each call runs in a fresh child of the
// global frame, not of the caller's frame.
func (i *Interpreter) defineMethod(method *ast.Method) error {
	names := method.ParameterNames()
	fn := runtime.NewFunction(method.Name, len(names), func(args []*runtime.Object) (*runtime.Object, error) {
		scope := i.global.Extend()
		for idx, name := range names {
			if err := scope.DefineVariable(name, runtime.NewVariable(name, args[idx])); err != nil {
				return nil, diag.Locate(err, method.Parameters[idx])
			}
		}
		res, err := i.executeBlock(method.Body, scope)
		if err != nil {
			return nil, err
		}
		if res.returned() {
			return res.value, nil
		}
		return i.nilObject(), nil
	})
	if err := i.global.DefineFunction(method.Name, len(names), fn); err != nil {
		return diag.Locate(err, method)
	}
	return nil
}

func (i *Interpreter) nilObject() *runtime.Object {
	return runtime.NewNil(i.table)
}
