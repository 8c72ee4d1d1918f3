package env

import (
	"fmt"
	"sort"

	"plc/interpreter-go/pkg/diag"
)

// Environment is a lexical frame binding variable names to V and
// (name, arity) pairs to F. The analyzer instantiates it with static
// bindings, the interpreter with runtime ones.
type Environment[V any, F any] struct {
	variables map[string]V
	functions map[string]map[int]F
	parent    *Environment[V, F]
}

// New creates a frame, optionally nested under a parent.
func New[V any, F any](parent *Environment[V, F]) *Environment[V, F] {
	return &Environment[V, F]{
		variables: make(map[string]V),
		functions: make(map[string]map[int]F),
		parent:    parent,
	}
}

// Extend creates a child frame of e.
func (e *Environment[V, F]) Extend() *Environment[V, F] {
	return New(e)
}

// FunctionKey is the identity of a function inside a frame.
func FunctionKey(name string, arity int) string {
	return fmt.Sprintf("%s/%d", name, arity)
}

// DefineVariable binds name in this frame. Shadowing a parent binding is
// allowed, rebinding within the same frame is not.
func (e *Environment[V, F]) DefineVariable(name string, value V) error {
	if _, exists := e.variables[name]; exists {
		return diag.Errorf(diag.DuplicateDefinitionError, "the variable %s is already defined in this scope", name)
	}
	e.variables[name] = value
	return nil
}

// LookupVariable searches outward through the frame chain.
func (e *Environment[V, F]) LookupVariable(name string) (V, error) {
	for frame := e; frame != nil; frame = frame.parent {
		if v, ok := frame.variables[name]; ok {
			return v, nil
		}
	}
	var zero V
	return zero, diag.Errorf(diag.NameError, "the variable %s is not defined in this scope", name)
}

// DefineFunction binds name/arity in this frame.
func (e *Environment[V, F]) DefineFunction(name string, arity int, fn F) error {
	byArity, ok := e.functions[name]
	if !ok {
		byArity = make(map[int]F)
		e.functions[name] = byArity
	}
	if _, exists := byArity[arity]; exists {
		return diag.Errorf(diag.DuplicateDefinitionError, "the function %s is already defined in this scope", FunctionKey(name, arity))
	}
	byArity[arity] = fn
	return nil
}

// LookupFunction searches outward for name/arity. When the name exists
// somewhere in the chain under a different arity the failure is an
// ArityError, otherwise a NameError.
func (e *Environment[V, F]) LookupFunction(name string, arity int) (F, error) {
	nameSeen := false
	for frame := e; frame != nil; frame = frame.parent {
		byArity, ok := frame.functions[name]
		if !ok {
			continue
		}
		nameSeen = true
		if fn, ok := byArity[arity]; ok {
			return fn, nil
		}
	}
	var zero F
	if nameSeen {
		return zero, diag.Errorf(diag.ArityError, "the function %s is not defined in this scope", FunctionKey(name, arity))
	}
	return zero, diag.Errorf(diag.NameError, "the function %s is not defined in this scope", FunctionKey(name, arity))
}

// VariableNames returns this frame's variable names in sorted order.
func (e *Environment[V, F]) VariableNames() []string {
	keys := make([]string, 0, len(e.variables))
	for k := range e.variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FunctionKeys returns this frame's name/arity keys in sorted order.
func (e *Environment[V, F]) FunctionKeys() []string {
	keys := make([]string, 0, len(e.functions))
	for name, byArity := range e.functions {
		for arity := range byArity {
			keys = append(keys, FunctionKey(name, arity))
		}
	}
	sort.Strings(keys)
	return keys
}
