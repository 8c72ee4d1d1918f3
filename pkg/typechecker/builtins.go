package typechecker

import (
	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
)

const (
	entryPointName       = "main"
	entryPointReturnType = "Integer"
)

// checkEntryPoint requires `main/0` returning Integer once the whole source
// has been walked.
func (c *Checker) checkEntryPoint(src *ast.Source) error {
	fn, err := c.scope.LookupFunction(entryPointName, 0)
	if err != nil {
		return diag.Errorf(diag.ProgramStructureError, "a %s/0 method is required", entryPointName).At(src)
	}
	if fn.ReturnType.Name() != entryPointReturnType {
		err := diag.Errorf(diag.ProgramStructureError, "%s/0 must return %s, not %s", entryPointName, entryPointReturnType, fn.ReturnType)
		for _, method := range src.Methods {
			if method.Name == entryPointName && len(method.Parameters) == 0 {
				return err.At(method)
			}
		}
		return err
	}
	return nil
}
