package runtime

import (
	"fmt"
	"iter"
	"math/big"
	"unicode/utf8"

	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/env"
	"plc/interpreter-go/pkg/types"
)

// Kind identifies the payload category of a runtime object.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInteger
	KindDecimal
	KindChar
	KindString
	KindIterable
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindIterable:
		return "iterable"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the payload carried by an Object.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Payloads
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (BoolValue) Kind() Kind { return KindBool }

type IntegerValue struct {
	Val *big.Int
}

func (IntegerValue) Kind() Kind { return KindInteger }

type DecimalValue struct {
	Val Decimal
}

func (DecimalValue) Kind() Kind { return KindDecimal }

type CharValue struct {
	Val rune
}

func (CharValue) Kind() Kind { return KindChar }

type StringValue struct {
	Val string
}

func (StringValue) Kind() Kind { return KindString }

// IterableValue is the half-open integer range [start, end). It keeps only
// its bounds and produces each integer as it is iterated.
type IterableValue struct {
	table      *types.Table
	start, end *big.Int
}

func (*IterableValue) Kind() Kind { return KindIterable }

// All yields the integers in ascending order.
func (v *IterableValue) All() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		one := big.NewInt(1)
		for i := new(big.Int).Set(v.start); i.Cmp(v.end) < 0; i.Add(i, one) {
			if !yield(NewInteger(v.table, new(big.Int).Set(i))) {
				return
			}
		}
	}
}

// Len reports the number of items without producing them.
func (v *IterableValue) Len() *big.Int {
	n := new(big.Int).Sub(v.end, v.start)
	if n.Sign() < 0 {
		n.SetInt64(0)
	}
	return n
}

// Equal reports whether both ranges produce the same integers.
func (v *IterableValue) Equal(o *IterableValue) bool {
	n := v.Len()
	if n.Cmp(o.Len()) != 0 {
		return false
	}
	return n.Sign() == 0 || v.start.Cmp(o.start) == 0
}

//-----------------------------------------------------------------------------
// Objects, variables, functions
//-----------------------------------------------------------------------------

// Object is a runtime value: its static type, its own field scope and the
// payload. Fields is nil for objects without fields.
type Object struct {
	Type   *types.Type
	Fields *Scope
	Value  Value
}

// Field reads a field from the object's own field scope.
func (o *Object) Field(name string) (*Variable, error) {
	return o.Fields.LookupVariable(name)
}

// Variable is a mutable runtime binding.
type Variable struct {
	Name  string
	Value *Object
}

func NewVariable(name string, value *Object) *Variable {
	return &Variable{Name: name, Value: value}
}

type NativeFunc func(args []*Object) (*Object, error)

// Function is a callable bound in a runtime scope, either a user method or a
// host-provided builtin.
type Function struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func NewFunction(name string, arity int, impl NativeFunc) *Function {
	return &Function{Name: name, Arity: arity, Impl: impl}
}

// Invoke calls the function after checking the argument count.
func (f *Function) Invoke(args []*Object) (*Object, error) {
	if len(args) != f.Arity {
		return nil, diag.Errorf(diag.ArityError, "%s expects %d arguments, received %d", f.Name, f.Arity, len(args))
	}
	return f.Impl(args)
}

type Scope = env.Environment[*Variable, *Function]

//-----------------------------------------------------------------------------
// Constructors
//-----------------------------------------------------------------------------

func newObject(typ *types.Type, value Value) *Object {
	return &Object{Type: typ, Value: value}
}

func NewNil(table *types.Table) *Object {
	return newObject(table.Nil, NilValue{})
}

func NewBool(table *types.Table, val bool) *Object {
	return newObject(table.Boolean, BoolValue{Val: val})
}

func NewInteger(table *types.Table, val *big.Int) *Object {
	return newObject(table.Integer, IntegerValue{Val: val})
}

func NewInt64(table *types.Table, val int64) *Object {
	return NewInteger(table, big.NewInt(val))
}

func NewDecimal(table *types.Table, val Decimal) *Object {
	return newObject(table.Decimal, DecimalValue{Val: val})
}

func NewChar(table *types.Table, val rune) *Object {
	return newObject(table.Character, CharValue{Val: val})
}

// NewString builds a string object exposing its `length` (in characters)
// as a field.
func NewString(table *types.Table, val string) *Object {
	obj := newObject(table.String, StringValue{Val: val})
	obj.Fields = env.New[*Variable, *Function](nil)
	length := NewInt64(table, int64(utf8.RuneCountInString(val)))
	// A fresh field scope cannot already hold length.
	_ = obj.Fields.DefineVariable("length", NewVariable("length", length))
	return obj
}

// NewRange returns the half-open integer range [start, end). Items are
// produced during iteration, so the size of the range costs nothing up front.
func NewRange(table *types.Table, start, end *big.Int) *Object {
	return newObject(table.IntegerIterable, &IterableValue{
		table: table,
		start: new(big.Int).Set(start),
		end:   new(big.Int).Set(end),
	})
}
