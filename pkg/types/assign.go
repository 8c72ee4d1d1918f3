package types

import "plc/interpreter-go/pkg/diag"

var comparableNames = map[string]struct{}{
	"Integer":   {},
	"Decimal":   {},
	"Character": {},
	"String":    {},
}

// IsComparable reports whether values of typ satisfy the Comparable pseudo-interface.
func IsComparable(typ *Type) bool {
	if typ == nil {
		return false
	}
	if typ.name == "Comparable" {
		return true
	}
	_, ok := comparableNames[typ.name]
	return ok
}

// IsNumeric reports whether typ supports arithmetic beyond `+` concatenation.
func IsNumeric(typ *Type) bool {
	return typ != nil && (typ.name == "Integer" || typ.name == "Decimal")
}

// Assignable checks whether a value of type source may be stored where
// target is expected.
func Assignable(target, source *Type) error {
	switch {
	case target == nil || source == nil:
		return diag.Errorf(diag.TypeError, "missing type in assignability check")
	case target.name == "Any", target.name == source.name:
		return nil
	case target.name == "Comparable":
		if _, ok := comparableNames[source.name]; ok {
			return nil
		}
	}
	return diag.Errorf(diag.TypeError, "expected type %s, received %s", target.name, source.name)
}
