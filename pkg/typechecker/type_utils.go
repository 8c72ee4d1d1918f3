package typechecker

import (
	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/types"
)

// resolveType looks a declared type up in the table. A nil reference means
// the declaration omitted its type and resolves to fallback.
func (c *Checker) resolveType(ref *ast.TypeReference, fallback *types.Type) (*types.Type, error) {
	if ref == nil {
		return fallback, nil
	}
	typ, err := c.table.Lookup(ref.Name)
	if err != nil {
		return nil, diag.Locate(err, ref)
	}
	return typ, nil
}

// requireAssignable checks source against target, reporting at node.
func requireAssignable(target, source *types.Type, node ast.Node) error {
	if err := types.Assignable(target, source); err != nil {
		return diag.Locate(err, node)
	}
	return nil
}

// requireType demands an exact type, as conditions and loop sources do.
func requireType(required, given *types.Type, node ast.Node) error {
	if required.Name() == given.Name() {
		return nil
	}
	return diag.Errorf(diag.TypeError, "expected type %s, received %s", required, given).At(node)
}

func typeIs(typ *types.Type, names ...string) bool {
	for _, name := range names {
		if typ.Name() == name {
			return true
		}
	}
	return false
}
