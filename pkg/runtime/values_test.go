package runtime

import (
	"math"
	"math/big"
	"slices"
	"testing"

	"github.com/nalgeon/be"

	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/types"
)

func TestConstructorsUseTableTypes(t *testing.T) {
	table := types.NewStandard()
	be.Equal(t, NewNil(table).Type, table.Nil)
	be.Equal(t, NewBool(table, true).Type, table.Boolean)
	be.Equal(t, NewInt64(table, 3).Type, table.Integer)
	be.Equal(t, NewDecimal(table, mustDecimal("1.0")).Type, table.Decimal)
	be.Equal(t, NewChar(table, 'x').Type, table.Character)
	be.Equal(t, NewString(table, "x").Type, table.String)
	be.Equal(t, NewRange(table, big.NewInt(0), big.NewInt(1)).Type, table.IntegerIterable)
	be.Equal(t, NewString(table, "x").Value.Kind(), KindString)
	be.Equal(t, KindIterable.String(), "iterable")
}

func TestStringLengthField(t *testing.T) {
	table := types.NewStandard()
	obj := NewString(table, "héllo")
	length, err := obj.Field("length")
	be.Err(t, err, nil)
	be.Equal(t, length.Value.Value.(IntegerValue).Val.Int64(), int64(5))

	_, err = NewInt64(table, 1).Field("length")
	be.True(t, diag.Is(err, diag.NameError))
}

func TestNewRangeIsHalfOpen(t *testing.T) {
	table := types.NewStandard()
	obj := NewRange(table, big.NewInt(2), big.NewInt(5))
	items := slices.Collect(obj.Value.(*IterableValue).All())
	be.Equal(t, len(items), 3)
	for idx, want := range []int64{2, 3, 4} {
		be.Equal(t, items[idx].Value.(IntegerValue).Val.Int64(), want)
	}

	empty := NewRange(table, big.NewInt(5), big.NewInt(5))
	be.Equal(t, len(slices.Collect(empty.Value.(*IterableValue).All())), 0)
	be.Equal(t, NewRange(table, big.NewInt(5), big.NewInt(1)).Value.(*IterableValue).Len().Sign(), 0)
}

func TestRangeProducesItemsOnDemand(t *testing.T) {
	table := types.NewStandard()
	huge := NewRange(table, big.NewInt(0), big.NewInt(math.MaxInt32)).Value.(*IterableValue)
	be.Equal(t, huge.Len().Int64(), int64(math.MaxInt32))

	var seen []int64
	for item := range huge.All() {
		seen = append(seen, item.Value.(IntegerValue).Val.Int64())
		if len(seen) == 3 {
			break
		}
	}
	be.Equal(t, seen, []int64{0, 1, 2})
}

func TestRangeEquality(t *testing.T) {
	table := types.NewStandard()
	rng := func(a, b int64) *IterableValue {
		return NewRange(table, big.NewInt(a), big.NewInt(b)).Value.(*IterableValue)
	}
	be.True(t, rng(0, 3).Equal(rng(0, 3)))
	be.True(t, !rng(0, 3).Equal(rng(1, 4)))
	be.True(t, !rng(0, 3).Equal(rng(0, 4)))
	be.True(t, rng(0, 0).Equal(rng(5, 2)))
}

func TestObjectsWithoutFieldsHaveNoScope(t *testing.T) {
	table := types.NewStandard()
	obj := NewInt64(table, 7)
	be.True(t, obj.Fields == nil)
	_, err := obj.Field("length")
	be.True(t, diag.Is(err, diag.NameError))
}

func TestFunctionInvokeChecksArity(t *testing.T) {
	table := types.NewStandard()
	fn := NewFunction("id", 1, func(args []*Object) (*Object, error) {
		return args[0], nil
	})
	arg := NewInt64(table, 7)
	got, err := fn.Invoke([]*Object{arg})
	be.Err(t, err, nil)
	be.Equal(t, got, arg)

	_, err = fn.Invoke(nil)
	be.True(t, diag.Is(err, diag.ArityError))
}
