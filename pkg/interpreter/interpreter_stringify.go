package interpreter

import (
	"strings"

	"plc/interpreter-go/pkg/runtime"
)

// Stringify renders an object the way print and stringify do.
func Stringify(obj *runtime.Object) string {
	return stringify(obj)
}

func stringify(obj *runtime.Object) string {
	if obj == nil {
		return "nil"
	}
	return valueToString(obj.Value)
}

func valueToString(val runtime.Value) string {
	switch v := val.(type) {
	case runtime.NilValue:
		return "nil"
	case runtime.BoolValue:
		if v.Val {
			return "true"
		}
		return "false"
	case runtime.IntegerValue:
		return v.Val.String()
	case runtime.DecimalValue:
		return v.Val.String()
	case runtime.CharValue:
		return string(v.Val)
	case runtime.StringValue:
		return v.Val
	case *runtime.IterableValue:
		var parts []string
		for item := range v.All() {
			parts = append(parts, stringify(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<unknown>"
	}
}
