package types

import (
	"plc/interpreter-go/pkg/env"
)

// Scope is the static frame used by the analyzer and by every type's member
// table.
type Scope = env.Environment[*Variable, *Function]

// Type is a named static classification owning a scope of instance fields
// and methods. Types are created by the standard table and never change.
type Type struct {
	name    string
	jvmName string
	scope   *Scope
}

func newType(name, jvmName string, parent *Scope) *Type {
	return &Type{name: name, jvmName: jvmName, scope: env.New(parent)}
}

func (t *Type) Name() string    { return t.name }
func (t *Type) JVMName() string { return t.jvmName }
func (t *Type) String() string  { return t.name }

// Field resolves an instance field through the type's scope chain.
func (t *Type) Field(name string) (*Variable, error) {
	return t.scope.LookupVariable(name)
}

// Method resolves an instance method taking arity explicit arguments. The
// receiver is implicit parameter 0, so the stored arity is arity+1.
func (t *Type) Method(name string, arity int) (*Function, error) {
	return t.scope.LookupFunction(name, arity+1)
}

// Variable is a static binding: a declared field, local, or parameter.
type Variable struct {
	Name    string
	JVMName string
	Type    *Type
}

func NewVariable(name string, typ *Type) *Variable {
	return &Variable{Name: name, JVMName: name, Type: typ}
}

// Function is a static signature. For methods stored on a type,
// ParameterTypes[0] is the receiver.
type Function struct {
	Name           string
	JVMName        string
	ParameterTypes []*Type
	ReturnType     *Type
}

func NewFunction(name string, params []*Type, ret *Type) *Function {
	return &Function{Name: name, JVMName: name, ParameterTypes: params, ReturnType: ret}
}

func (f *Function) Arity() int { return len(f.ParameterTypes) }
