package types

import (
	"sort"

	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/env"
)

// Table is the registry of built-in types. It is immutable once built; the
// analyzer and interpreter each hold the table they were given.
type Table struct {
	Any             *Type
	Nil             *Type
	Boolean         *Type
	Integer         *Type
	Decimal         *Type
	Character       *Type
	String          *Type
	Comparable      *Type
	IntegerIterable *Type

	byName  map[string]*Type
	globals []*Function
}

// NewStandard builds a table holding the built-in types, their members and
// the global functions.
func NewStandard() *Table {
	t := &Table{}
	t.Any = newType("Any", "Object", nil)
	t.Nil = newType("Nil", "void", t.Any.scope)
	t.IntegerIterable = newType("IntegerIterable", "Iterable<Integer>", t.Any.scope)
	t.Comparable = newType("Comparable", "Comparable", t.Any.scope)
	t.Boolean = newType("Boolean", "Boolean", t.Any.scope)
	t.Integer = newType("Integer", "Integer", t.Comparable.scope)
	t.Decimal = newType("Decimal", "Double", t.Comparable.scope)
	t.Character = newType("Character", "Character", t.Comparable.scope)
	t.String = newType("String", "String", t.Comparable.scope)

	t.byName = make(map[string]*Type)
	for _, typ := range []*Type{t.Any, t.Nil, t.IntegerIterable, t.Comparable, t.Boolean, t.Integer, t.Decimal, t.Character, t.String} {
		t.byName[typ.name] = typ
	}

	t.defineMethod(t.Any, "stringify", "toString", nil, t.String)
	for _, typ := range []*Type{t.Comparable, t.Integer, t.Decimal, t.Character, t.String} {
		t.defineMethod(typ, "compare", "compareTo", []*Type{t.Comparable}, typ)
	}
	mustDefine(t.String.scope.DefineVariable("length", &Variable{Name: "length", JVMName: "length()", Type: t.Integer}))
	t.defineMethod(t.String, "slice", "substring", []*Type{t.Integer, t.Integer}, t.String)

	t.globals = []*Function{
		{Name: "print", JVMName: "System.out.println", ParameterTypes: []*Type{t.Any}, ReturnType: t.Nil},
		{Name: "range", JVMName: "range", ParameterTypes: []*Type{t.Integer, t.Integer}, ReturnType: t.IntegerIterable},
	}
	return t
}

// defineMethod stores a method with the receiver prepended as parameter 0.
func (t *Table) defineMethod(owner *Type, name, jvmName string, params []*Type, ret *Type) {
	withReceiver := append([]*Type{t.Any}, params...)
	fn := &Function{Name: name, JVMName: jvmName, ParameterTypes: withReceiver, ReturnType: ret}
	mustDefine(owner.scope.DefineFunction(name, len(withReceiver), fn))
}

func mustDefine(err error) {
	if err != nil {
		panic(err)
	}
}

// Lookup resolves a declared type name. Unknown names fail immediately.
func (t *Table) Lookup(name string) (*Type, error) {
	if typ, ok := t.byName[name]; ok {
		return typ, nil
	}
	return nil, diag.Errorf(diag.NameError, "the type %s is not defined", name)
}

// Names lists the registered type names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewScope returns a fresh root frame holding the built-in global functions.
// Each analysis gets its own so user definitions never leak between runs.
func (t *Table) NewScope() *Scope {
	scope := env.New[*Variable, *Function](nil)
	for _, fn := range t.globals {
		mustDefine(scope.DefineFunction(fn.Name, fn.Arity(), fn))
	}
	return scope
}
