package typechecker

import (
	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/typed"
	"plc/interpreter-go/pkg/types"
)

// Checker walks an ast.Source once, resolving every name and type, and
// builds the equivalent typed tree. Analysis stops at the first error.
type Checker struct {
	table       *types.Table
	scope       *types.Scope
	methodStack []*types.Function
}

// New returns a checker over the standard type table.
func New() *Checker {
	return NewWithTable(types.NewStandard())
}

// NewWithTable returns a checker resolving type names through table.
func NewWithTable(table *types.Table) *Checker {
	return &Checker{table: table}
}

// Analyze checks src with a fresh checker.
func Analyze(src *ast.Source) (*typed.Source, error) {
	return New().Check(src)
}

// Check analyzes a whole program: fields in order, then methods in order,
// then the entry point requirement.
func (c *Checker) Check(src *ast.Source) (*typed.Source, error) {
	if src == nil {
		return nil, diag.Errorf(diag.ProgramStructureError, "source is nil")
	}
	c.scope = c.table.NewScope()
	c.methodStack = nil

	if len(src.Structs) > 0 {
		st := src.Structs[0]
		return nil, diag.Errorf(diag.ProgramStructureError, "struct types are not supported (%s)", st.Name).At(st)
	}

	var fields []*typed.Field
	for _, field := range src.Fields {
		checked, err := c.checkField(field)
		if err != nil {
			return nil, err
		}
		fields = append(fields, checked)
	}

	var methods []*typed.Method
	for _, method := range src.Methods {
		checked, err := c.checkMethod(method)
		if err != nil {
			return nil, err
		}
		methods = append(methods, checked)
	}

	if err := c.checkEntryPoint(src); err != nil {
		return nil, err
	}
	return typed.NewSource(src.Span(), fields, methods), nil
}
