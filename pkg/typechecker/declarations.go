package typechecker

import (
	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/typed"
	"plc/interpreter-go/pkg/types"
)

// checkField analyzes the initializer before binding the field, so a field
// cannot refer to itself.
func (c *Checker) checkField(field *ast.Field) (*typed.Field, error) {
	if field.TypeName == nil {
		return nil, diag.Errorf(diag.ProgramStructureError, "the field %s requires a declared type", field.Name).At(field)
	}
	typ, err := c.resolveType(field.TypeName, nil)
	if err != nil {
		return nil, err
	}
	var value typed.Expression
	if field.Value != nil {
		if value, err = c.checkExpression(field.Value); err != nil {
			return nil, err
		}
		if err := requireAssignable(typ, value.Type(), field.Value); err != nil {
			return nil, err
		}
	}
	variable := types.NewVariable(field.Name, typ)
	if err := c.scope.DefineVariable(field.Name, variable); err != nil {
		return nil, diag.Locate(err, field)
	}
	return typed.NewField(field.Span(), variable, value), nil
}

// checkMethod binds the signature in the current (global) scope before the
// body is analyzed, so methods may recurse.
func (c *Checker) checkMethod(method *ast.Method) (*typed.Method, error) {
	paramTypes := make([]*types.Type, 0, len(method.Parameters))
	for _, param := range method.Parameters {
		if param.TypeName == nil {
			return nil, diag.Errorf(diag.ProgramStructureError, "the parameter %s requires a declared type", param.Name).At(param)
		}
		typ, err := c.resolveType(param.TypeName, nil)
		if err != nil {
			return nil, err
		}
		paramTypes = append(paramTypes, typ)
	}
	returnType, err := c.resolveType(method.ReturnType, c.table.Nil)
	if err != nil {
		return nil, err
	}

	fn := types.NewFunction(method.Name, paramTypes, returnType)
	if err := c.scope.DefineFunction(method.Name, len(paramTypes), fn); err != nil {
		return nil, diag.Locate(err, method)
	}

	var (
		params []*types.Variable
		body   []typed.Statement
	)
	c.pushMethod(fn)
	defer c.popMethod()
	err = c.withChildScope(func() error {
		for i, param := range method.Parameters {
			variable := types.NewVariable(param.Name, paramTypes[i])
			if err := c.scope.DefineVariable(param.Name, variable); err != nil {
				return diag.Locate(err, param)
			}
			params = append(params, variable)
		}
		var err error
		body, err = c.checkBlock(method.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return typed.NewMethod(method.Span(), fn, params, body), nil
}
