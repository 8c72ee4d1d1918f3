package interpreter

import (
	"bytes"
	"math/big"
	"testing"

	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/runtime"
)

func mainReturning(body ...ast.Statement) *ast.Source {
	return ast.Src(nil, ast.Meth("main", nil, "Integer", body...))
}

func run(t *testing.T, src *ast.Source) (*runtime.Object, string) {
	t.Helper()
	var out bytes.Buffer
	result, err := New(WithOutput(&out)).Interpret(src)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	return result, out.String()
}

func runError(t *testing.T, src *ast.Source, kind diag.Kind) *diag.Error {
	t.Helper()
	_, err := New(WithOutput(&bytes.Buffer{})).Interpret(src)
	if err == nil {
		t.Fatalf("expected %s", kind)
	}
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != kind {
		t.Fatalf("expected %s, got %v", kind, err)
	}
	return de
}

func expectInteger(t *testing.T, obj *runtime.Object, want int64) {
	t.Helper()
	v, ok := obj.Value.(runtime.IntegerValue)
	if !ok {
		t.Fatalf("expected integer, got %#v", obj.Value)
	}
	if v.Val.Cmp(big.NewInt(want)) != 0 {
		t.Fatalf("expected %d, got %s", want, v.Val)
	}
}

func evaluate(t *testing.T, expr ast.Expression) *runtime.Object {
	t.Helper()
	obj, err := New(WithOutput(&bytes.Buffer{})).Evaluate(expr)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	return obj
}

func TestInterpretReturnsMainResult(t *testing.T) {
	result, _ := run(t, mainReturning(ast.Ret(ast.Int(0))))
	expectInteger(t, result, 0)
}

func TestMainFallingOffTheEndReturnsNil(t *testing.T) {
	result, _ := run(t, ast.Src(nil, ast.Meth("main", nil, "Integer", ast.Do(ast.Call("print", ast.Int(1))))))
	if _, ok := result.Value.(runtime.NilValue); !ok {
		t.Fatalf("expected nil, got %#v", result.Value)
	}
}

func TestMissingMainIsNameError(t *testing.T) {
	runError(t, ast.Src(nil, ast.Meth("helper", nil, "Integer", ast.Ret(ast.Int(1)))), diag.NameError)
}

func TestFieldsAreBoundInOrder(t *testing.T) {
	src := ast.Src(
		[]*ast.Field{
			ast.Fld("x", "Integer", ast.Int(2)),
			ast.Fld("y", "Integer", ast.Bin("*", ast.ID("x"), ast.Int(3))),
			ast.Fld("z", "Integer", nil),
		},
		ast.Meth("main", nil, "Integer",
			ast.Do(ast.Call("print", ast.ID("z"))),
			ast.Ret(ast.ID("y")),
		),
	)
	result, out := run(t, src)
	expectInteger(t, result, 6)
	if out != "nil\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestWhileLoopCountsToThree(t *testing.T) {
	src := mainReturning(
		ast.Let("i", "Integer", ast.Int(0)),
		ast.While(ast.Bin("<", ast.ID("i"), ast.Int(3)),
			ast.Assign(ast.ID("i"), ast.Bin("+", ast.ID("i"), ast.Int(1))),
		),
		ast.Ret(ast.ID("i")),
	)
	result, _ := run(t, src)
	expectInteger(t, result, 3)
}

func TestWhileBodyGetsFreshFramePerIteration(t *testing.T) {
	src := mainReturning(
		ast.Let("i", "Integer", ast.Int(0)),
		ast.While(ast.Bin("<", ast.ID("i"), ast.Int(2)),
			ast.Let("tmp", "Integer", ast.ID("i")),
			ast.Assign(ast.ID("i"), ast.Bin("+", ast.ID("tmp"), ast.Int(1))),
		),
		ast.Ret(ast.ID("i")),
	)
	result, _ := run(t, src)
	expectInteger(t, result, 2)
}

func TestForLoopOverRange(t *testing.T) {
	src := mainReturning(
		ast.Let("sum", "Integer", ast.Int(0)),
		ast.For("n", ast.Call("range", ast.Int(1), ast.Int(5)),
			ast.Assign(ast.ID("sum"), ast.Bin("+", ast.ID("sum"), ast.ID("n"))),
			ast.Do(ast.Call("print", ast.ID("n"))),
		),
		ast.Ret(ast.ID("sum")),
	)
	result, out := run(t, src)
	expectInteger(t, result, 10)
	if out != "1\n2\n3\n4\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestReturnInsideLoopStopsMethod(t *testing.T) {
	src := mainReturning(
		ast.For("n", ast.Call("range", ast.Int(0), ast.Int(10)),
			ast.If(ast.Bin("==", ast.ID("n"), ast.Int(4)), ast.Stmts(ast.Ret(ast.ID("n")))),
		),
		ast.Ret(ast.Int(-1)),
	)
	result, _ := run(t, src)
	expectInteger(t, result, 4)
}

func TestIfElseScopes(t *testing.T) {
	src := mainReturning(
		ast.Let("x", "Integer", ast.Int(1)),
		ast.If(ast.Bool(false),
			ast.Stmts(ast.Assign(ast.ID("x"), ast.Int(2))),
			ast.Let("x", "Integer", ast.Int(3)),
			ast.Do(ast.Call("print", ast.ID("x"))),
		),
		ast.Ret(ast.ID("x")),
	)
	result, out := run(t, src)
	expectInteger(t, result, 1)
	if out != "3\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRecursiveMethod(t *testing.T) {
	fact := ast.Meth("fact", ast.Params(ast.Param("n", "Integer")), "Integer",
		ast.If(ast.Bin("<=", ast.ID("n"), ast.Int(1)), ast.Stmts(ast.Ret(ast.Int(1)))),
		ast.Ret(ast.Bin("*", ast.ID("n"), ast.Call("fact", ast.Bin("-", ast.ID("n"), ast.Int(1))))),
	)
	src := ast.Src(nil, fact, ast.Meth("main", nil, "Integer", ast.Ret(ast.Call("fact", ast.Int(20)))))
	result, _ := run(t, src)
	expectInteger(t, result, 2432902008176640000)
}

func TestMethodsRunInChildOfGlobalFrame(t *testing.T) {
	peek := ast.Meth("peek", nil, "Integer", ast.Ret(ast.ID("local")))
	src := ast.Src(nil, peek, ast.Meth("main", nil, "Integer",
		ast.Let("local", "Integer", ast.Int(1)),
		ast.Ret(ast.Call("peek")),
	))
	runError(t, src, diag.NameError)
}

func TestShortCircuitSkipsRightOperand(t *testing.T) {
	boom := ast.Bin("==", ast.Bin("/", ast.Int(1), ast.Int(0)), ast.Int(0))
	if got := evaluate(t, ast.Bin("AND", ast.Bool(false), boom)); got.Value != (runtime.BoolValue{Val: false}) {
		t.Fatalf("expected false, got %#v", got.Value)
	}
	if got := evaluate(t, ast.Bin("OR", ast.Bool(true), boom)); got.Value != (runtime.BoolValue{Val: true}) {
		t.Fatalf("expected true, got %#v", got.Value)
	}
	if got := evaluate(t, ast.Bin("AND", ast.Bool(true), ast.Bool(false))); got.Value != (runtime.BoolValue{Val: false}) {
		t.Fatalf("expected false, got %#v", got.Value)
	}
}

func TestIntegerArithmetic(t *testing.T) {
	cases := []struct {
		op   string
		l, r int64
		want int64
	}{
		{"+", 2, 3, 5},
		{"-", 2, 3, -1},
		{"*", 4, 3, 12},
		{"/", 7, 2, 3},
		{"/", -7, 2, -3},
	}
	for _, tc := range cases {
		expectInteger(t, evaluate(t, ast.Bin(tc.op, ast.Int(tc.l), ast.Int(tc.r))), tc.want)
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, expr := range []ast.Expression{
		ast.Bin("/", ast.Int(1), ast.Int(0)),
		ast.Bin("/", ast.Dec("1.0"), ast.Dec("0.00")),
	} {
		_, err := New().Evaluate(expr)
		if !diag.Is(err, diag.ArithmeticError) {
			t.Fatalf("expected ArithmeticError, got %v", err)
		}
	}
}

func TestDecimalDivisionRoundsHalfEven(t *testing.T) {
	cases := map[string][2]string{
		"0.3": {"1.0", "3.0"},
		"0.2": {"0.5", "2.0"},
		"0.8": {"1.5", "2.0"},
		"2.5": {"5.0", "2"},
	}
	for want, operands := range cases {
		got := evaluate(t, ast.Bin("/", ast.Dec(operands[0]), ast.Dec(operands[1])))
		if s := Stringify(got); s != want {
			t.Fatalf("%s / %s: expected %s, got %s", operands[0], operands[1], want, s)
		}
	}
}

func TestStringConcatenation(t *testing.T) {
	got := evaluate(t, ast.Bin("+", ast.Bin("+", ast.Str("n="), ast.Int(1)), ast.Chr('!')))
	if Stringify(got) != "n=1!" {
		t.Fatalf("unexpected %q", Stringify(got))
	}
	got = evaluate(t, ast.Bin("+", ast.Nil(), ast.Str("")))
	if Stringify(got) != "nil" {
		t.Fatalf("unexpected %q", Stringify(got))
	}
}

func TestMismatchedOperandsAreTypeErrors(t *testing.T) {
	for _, expr := range []ast.Expression{
		ast.Bin("+", ast.Int(1), ast.Dec("1.0")),
		ast.Bin("<", ast.Int(1), ast.Str("a")),
		ast.Bin("-", ast.Bool(true), ast.Bool(false)),
		ast.Bin("AND", ast.Int(1), ast.Bool(true)),
	} {
		_, err := New().Evaluate(expr)
		if !diag.Is(err, diag.TypeError) {
			t.Fatalf("expected TypeError for %s, got %v", expr.(*ast.BinaryExpression).Operator, err)
		}
	}
}

func TestEqualityAndComparison(t *testing.T) {
	cases := []struct {
		expr ast.Expression
		want bool
	}{
		{ast.Bin("==", ast.Int(1), ast.Int(1)), true},
		{ast.Bin("==", ast.Dec("1.0"), ast.Dec("1.00")), true},
		{ast.Bin("==", ast.Int(1), ast.Dec("1.0")), false},
		{ast.Bin("!=", ast.Str("a"), ast.Str("b")), true},
		{ast.Bin("<", ast.Chr('a'), ast.Chr('b')), true},
		{ast.Bin(">=", ast.Str("b"), ast.Str("a")), true},
		{ast.Bin("<=", ast.Dec("2.5"), ast.Dec("2.25")), false},
	}
	for idx, tc := range cases {
		got := evaluate(t, tc.expr)
		if got.Value != (runtime.BoolValue{Val: tc.want}) {
			t.Fatalf("case %d: expected %v, got %#v", idx, tc.want, got.Value)
		}
	}
}

func TestBuiltinMethods(t *testing.T) {
	interp := New(WithOutput(&bytes.Buffer{}))
	if _, err := interp.ExecuteStatements(ast.Stmts(
		ast.Let("s", "String", ast.Str("héllo")),
		ast.Let("n", "Integer", ast.Int(5)),
	)); err != nil {
		t.Fatalf("setup: %v", err)
	}

	check := func(expr ast.Expression, want string) {
		t.Helper()
		got, err := interp.Evaluate(expr)
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if Stringify(got) != want {
			t.Fatalf("expected %q, got %q", want, Stringify(got))
		}
	}
	check(ast.Member(ast.ID("s"), "length"), "5")
	check(ast.CallOn(ast.ID("s"), "slice", ast.Int(1), ast.Int(3)), "él")
	check(ast.CallOn(ast.ID("n"), "stringify"), "5")
	check(ast.CallOn(ast.ID("n"), "compare", ast.Int(9)), "-1")
	check(ast.CallOn(ast.ID("s"), "compare", ast.Str("héllo")), "0")
	check(ast.Call("range", ast.Int(0), ast.Int(3)), "[0, 1, 2]")

	if _, err := interp.Evaluate(ast.CallOn(ast.ID("s"), "slice", ast.Int(2), ast.Int(9))); !diag.Is(err, diag.ArithmeticError) {
		t.Fatalf("expected ArithmeticError, got %v", err)
	}
	if _, err := interp.Evaluate(ast.CallOn(ast.ID("n"), "slice", ast.Int(0), ast.Int(1))); !diag.Is(err, diag.NameError) {
		t.Fatalf("expected NameError, got %v", err)
	}
	if _, err := interp.Evaluate(ast.CallOn(ast.ID("n"), "compare", ast.Str("x"))); !diag.Is(err, diag.TypeError) {
		t.Fatalf("expected TypeError, got %v", err)
	}
}

func TestReceiverEvaluatedBeforeArguments(t *testing.T) {
	var order []string
	interp := New(WithOutput(&bytes.Buffer{}))
	for _, name := range []string{"first", "second"} {
		name := name
		err := interp.RegisterFunction(name, 0, func([]*runtime.Object) (*runtime.Object, error) {
			order = append(order, name)
			return runtime.NewInt64(interp.Table(), 1), nil
		})
		if err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	if _, err := interp.Evaluate(ast.CallOn(ast.Call("first"), "compare", ast.Call("second"))); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected evaluation order %v", order)
	}
}

func TestRegisterFunctionRejectsDuplicates(t *testing.T) {
	interp := New()
	err := interp.RegisterFunction("print", 1, func(args []*runtime.Object) (*runtime.Object, error) { return args[0], nil })
	if !diag.Is(err, diag.DuplicateDefinitionError) {
		t.Fatalf("expected DuplicateDefinitionError, got %v", err)
	}
}

func TestAssignmentToUndefinedVariable(t *testing.T) {
	de := runError(t, mainReturning(ast.Assign(ast.ID("missing"), ast.Int(1))), diag.NameError)
	if de.Message != "the variable missing is not defined in this scope" {
		t.Fatalf("unexpected message %q", de.Message)
	}
}

func TestAssignmentEvaluatesValueBeforeTarget(t *testing.T) {
	var calls int
	interp := New(WithOutput(&bytes.Buffer{}))
	err := interp.RegisterFunction("bump", 0, func([]*runtime.Object) (*runtime.Object, error) {
		calls++
		return runtime.NewInt64(interp.Table(), 1), nil
	})
	if err != nil {
		t.Fatalf("register bump: %v", err)
	}
	_, err = interp.ExecuteStatements(ast.Stmts(ast.Assign(ast.ID("missing"), ast.Call("bump"))))
	if !diag.Is(err, diag.NameError) {
		t.Fatalf("expected NameError, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected the value to be evaluated once before the lookup failed, got %d calls", calls)
	}
}

func TestBuiltinFieldsAreReadOnly(t *testing.T) {
	de := runError(t, mainReturning(
		ast.Let("s", "String", ast.Str("hello")),
		ast.Assign(ast.Member(ast.ID("s"), "length"), ast.Int(5)),
		ast.Ret(ast.Int(0)),
	), diag.TypeError)
	if de.Message != "the field length of String is read-only" {
		t.Fatalf("unexpected message %q", de.Message)
	}
}

func TestLargeRangeIsNotMaterialized(t *testing.T) {
	src := mainReturning(
		ast.For("i", ast.Call("range", ast.Int(7), ast.Int(2147483647)),
			ast.Ret(ast.ID("i")),
		),
		ast.Ret(ast.Int(-1)),
	)
	result, _ := run(t, src)
	expectInteger(t, result, 7)
}

func TestRangesCompareByItems(t *testing.T) {
	same := evaluate(t, ast.Bin("==", ast.Call("range", ast.Int(0), ast.Int(3)), ast.Call("range", ast.Int(0), ast.Int(3))))
	if v, ok := same.Value.(runtime.BoolValue); !ok || !v.Val {
		t.Fatalf("expected equal ranges, got %#v", same.Value)
	}
	other := evaluate(t, ast.Bin("==", ast.Call("range", ast.Int(0), ast.Int(3)), ast.Call("range", ast.Int(1), ast.Int(4))))
	if v, ok := other.Value.(runtime.BoolValue); !ok || v.Val {
		t.Fatalf("expected different ranges, got %#v", other.Value)
	}
	if got := Stringify(evaluate(t, ast.Call("range", ast.Int(1), ast.Int(4)))); got != "[1, 2, 3]" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestRedeclarationInSameFrame(t *testing.T) {
	runError(t, mainReturning(
		ast.Let("x", "Integer", ast.Int(1)),
		ast.Let("x", "Integer", ast.Int(2)),
	), diag.DuplicateDefinitionError)
}

func TestForRequiresIterable(t *testing.T) {
	runError(t, mainReturning(ast.For("n", ast.Int(3), ast.Do(ast.Call("print", ast.ID("n"))))), diag.TypeError)
}

func TestStructsAreRejected(t *testing.T) {
	src := mainReturning(ast.Ret(ast.Int(0)))
	src.Structs = []*ast.Struct{ast.NewStruct("Point", nil, nil)}
	runError(t, src, diag.ProgramStructureError)
}

func TestExecuteStatementsKeepsDeclarations(t *testing.T) {
	var out bytes.Buffer
	interp := New(WithOutput(&out))
	if _, err := interp.ExecuteStatements(ast.Stmts(ast.Let("x", "", ast.Int(41)))); err != nil {
		t.Fatalf("first: %v", err)
	}
	result, err := interp.ExecuteStatements(ast.Stmts(
		ast.Assign(ast.ID("x"), ast.Bin("+", ast.ID("x"), ast.Int(1))),
		ast.Do(ast.Call("print", ast.ID("x"))),
		ast.Ret(ast.ID("x")),
	))
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	expectInteger(t, result, 42)
	if out.String() != "42\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
