package typechecker

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/go-test/deep"

	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/typed"
	"plc/interpreter-go/pkg/types"
)

func mainReturning(body ...ast.Statement) *ast.Method {
	return ast.Meth("main", nil, "Integer", body...)
}

func program(fields []*ast.Field, methods ...*ast.Method) *ast.Source {
	return ast.Src(fields, methods...)
}

func mustAnalyze(t *testing.T, src *ast.Source) *typed.Source {
	t.Helper()
	out, err := Analyze(src)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	return out
}

func expectKind(t *testing.T, src *ast.Source, kind diag.Kind) error {
	t.Helper()
	_, err := Analyze(src)
	if err == nil {
		t.Fatalf("expected %s, analysis succeeded", kind)
	}
	if !diag.Is(err, kind) {
		t.Fatalf("expected %s, got %v", kind, err)
	}
	return err
}

func TestAnalyzeMinimalProgram(t *testing.T) {
	table := types.NewStandard()
	out, err := NewWithTable(table).Check(program(nil, mainReturning(ast.Ret(ast.Int(0)))))
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if len(out.Methods) != 1 {
		t.Fatalf("expected one method, got %d", len(out.Methods))
	}
	fn := out.Methods[0].Function
	if fn.Name != "main" || fn.Arity() != 0 || fn.ReturnType != table.Integer {
		t.Fatalf("unexpected main signature %#v", fn)
	}
	ret := out.Methods[0].Body[0].(*typed.Return)
	if ret.Value.Type().Name() != "Integer" {
		t.Fatalf("expected Integer return value, got %s", ret.Value.Type())
	}
}

func TestAnalyzeMainRequirement(t *testing.T) {
	cases := map[string]*ast.Source{
		"missing":      program(nil),
		"wrong return": program(nil, ast.Meth("main", nil, "Decimal", ast.Ret(ast.Dec("1.0")))),
		"no return":    program(nil, ast.Meth("main", nil, "")),
		"wrong arity": program(nil,
			ast.Meth("main", ast.Params(ast.Param("x", "Integer")), "Integer", ast.Ret(ast.ID("x"))),
		),
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			expectKind(t, src, diag.ProgramStructureError)
		})
	}
}

func TestAnalyzeFieldsInOrder(t *testing.T) {
	src := program(
		[]*ast.Field{
			ast.Fld("x", "Integer", ast.Int(1)),
			ast.Fld("y", "Integer", ast.Bin("+", ast.ID("x"), ast.Int(1))),
			ast.Fld("z", "Comparable", ast.Str("s")),
			ast.Fld("w", "Any", nil),
		},
		mainReturning(ast.Ret(ast.ID("y"))),
	)
	out := mustAnalyze(t, src)
	if len(out.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(out.Fields))
	}
	if got := out.Fields[2].Variable.Type.Name(); got != "Comparable" {
		t.Fatalf("declared type should win, got %s", got)
	}
	if out.Fields[3].Value != nil {
		t.Fatalf("expected no initializer on w")
	}

	// A field cannot see itself or later fields.
	expectKind(t, program(
		[]*ast.Field{ast.Fld("a", "Integer", ast.ID("a"))},
		mainReturning(ast.Ret(ast.Int(0))),
	), diag.NameError)
}

func TestAnalyzeFieldErrors(t *testing.T) {
	expectKind(t, program(
		[]*ast.Field{ast.Fld("x", "Integer", ast.Str("no"))},
		mainReturning(ast.Ret(ast.Int(0))),
	), diag.TypeError)
	expectKind(t, program(
		[]*ast.Field{ast.Fld("x", "", ast.Int(1))},
		mainReturning(ast.Ret(ast.Int(0))),
	), diag.ProgramStructureError)
	expectKind(t, program(
		[]*ast.Field{ast.Fld("x", "Float", nil)},
		mainReturning(ast.Ret(ast.Int(0))),
	), diag.NameError)
	expectKind(t, program(
		[]*ast.Field{ast.Fld("x", "Integer", nil), ast.Fld("x", "String", nil)},
		mainReturning(ast.Ret(ast.Int(0))),
	), diag.DuplicateDefinitionError)
}

func TestAnalyzeRecursionAndParameters(t *testing.T) {
	fact := ast.Meth("fact", ast.Params(ast.Param("n", "Integer")), "Integer",
		ast.If(ast.Bin("<=", ast.ID("n"), ast.Int(1)),
			ast.Stmts(ast.Ret(ast.Int(1))),
		),
		ast.Ret(ast.Bin("*", ast.ID("n"), ast.Call("fact", ast.Bin("-", ast.ID("n"), ast.Int(1))))),
	)
	out := mustAnalyze(t, program(nil, fact, mainReturning(ast.Ret(ast.Call("fact", ast.Int(5))))))
	if len(out.Methods[0].Parameters) != 1 || out.Methods[0].Parameters[0].Type.Name() != "Integer" {
		t.Fatalf("unexpected parameters %#v", out.Methods[0].Parameters)
	}

	// Calls to methods declared later are not visible yet.
	expectKind(t, program(nil,
		mainReturning(ast.Ret(ast.Call("later"))),
		ast.Meth("later", nil, "Integer", ast.Ret(ast.Int(1))),
	), diag.NameError)

	expectKind(t, program(nil,
		ast.Meth("f", nil, "", ast.Do(ast.Call("print", ast.Int(1)))),
		ast.Meth("f", nil, "", ast.Do(ast.Call("print", ast.Int(2)))),
		mainReturning(ast.Ret(ast.Int(0))),
	), diag.DuplicateDefinitionError)

	expectKind(t, program(nil,
		ast.Meth("f", ast.Params(ast.Param("a", "Integer"), ast.Param("a", "Integer")), "",
			ast.Do(ast.Call("print", ast.ID("a")))),
		mainReturning(ast.Ret(ast.Int(0))),
	), diag.DuplicateDefinitionError)
}

func TestAnalyzeReturnAgainstEnclosingMethod(t *testing.T) {
	expectKind(t, program(nil, mainReturning(ast.Ret(ast.Str("x")))), diag.TypeError)
	expectKind(t, program(nil,
		ast.Meth("f", nil, "", ast.Ret(ast.Int(1))),
		mainReturning(ast.Ret(ast.Int(0))),
	), diag.TypeError)
	expectKind(t, program(nil,
		ast.Meth("f", nil, "Any", ast.Ret(ast.Str("anything"))),
		mainReturning(ast.Ret(ast.Int(0))),
	), diag.TypeError)
	expectKind(t, program(nil,
		ast.Meth("f", ast.Params(ast.Param("s", "String")), "Comparable", ast.Ret(ast.ID("s"))),
		mainReturning(ast.Ret(ast.Int(0))),
	), diag.TypeError)
	mustAnalyze(t, program(nil,
		ast.Meth("f", ast.Params(ast.Param("v", "Any")), "Any", ast.Ret(ast.ID("v"))),
		ast.Meth("g", nil, "", ast.Ret(ast.Nil())),
		mainReturning(ast.Ret(ast.Int(0))),
	))
}

func TestAnalyzeComparableFlowsIntoComparable(t *testing.T) {
	id := ast.Meth("id", ast.Params(ast.Param("c", "Comparable")), "Comparable",
		ast.Let("d", "Comparable", ast.ID("c")),
		ast.Ret(ast.ID("d")),
	)
	mustAnalyze(t, program(nil,
		id,
		mainReturning(
			ast.Let("x", "Comparable", ast.Int(1)),
			ast.Do(ast.Call("print", ast.Call("id", ast.ID("x")))),
			ast.Ret(ast.Int(0)),
		),
	))
}

func TestAnalyzeDeclarations(t *testing.T) {
	out := mustAnalyze(t, program(nil, mainReturning(
		ast.Let("a", "", ast.Dec("1.5")),
		ast.Let("b", "Comparable", ast.Chr('c')),
		ast.Let("c", "String", nil),
		ast.Ret(ast.Int(0)),
	)))
	body := out.Methods[0].Body
	if got := body[0].(*typed.Declaration).Variable.Type.Name(); got != "Decimal" {
		t.Fatalf("inferred type should be Decimal, got %s", got)
	}
	if got := body[1].(*typed.Declaration).Variable.Type.Name(); got != "Comparable" {
		t.Fatalf("declared type should win, got %s", got)
	}

	expectKind(t, program(nil, mainReturning(ast.Let("a", "", nil), ast.Ret(ast.Int(0)))), diag.ProgramStructureError)
	expectKind(t, program(nil, mainReturning(ast.Let("a", "Integer", ast.Bool(true)), ast.Ret(ast.Int(0)))), diag.TypeError)
	expectKind(t, program(nil, mainReturning(
		ast.Let("a", "Integer", nil),
		ast.Let("a", "Integer", nil),
		ast.Ret(ast.Int(0)),
	)), diag.DuplicateDefinitionError)
}

func TestAnalyzeAssignment(t *testing.T) {
	mustAnalyze(t, program(
		[]*ast.Field{ast.Fld("count", "Integer", ast.Int(0))},
		mainReturning(
			ast.Assign(ast.ID("count"), ast.Bin("+", ast.ID("count"), ast.Int(1))),
			ast.Ret(ast.ID("count")),
		),
	))
	expectKind(t, program(nil, mainReturning(
		ast.Assign(ast.Int(1), ast.Int(2)),
		ast.Ret(ast.Int(0)),
	)), diag.ProgramStructureError)
	expectKind(t, program(nil, mainReturning(
		ast.Let("s", "String", nil),
		ast.Assign(ast.ID("s"), ast.Int(2)),
		ast.Ret(ast.Int(0)),
	)), diag.TypeError)
	expectKind(t, program(nil, mainReturning(
		ast.Assign(ast.ID("missing"), ast.Int(2)),
		ast.Ret(ast.Int(0)),
	)), diag.NameError)
	err := expectKind(t, program(nil, mainReturning(
		ast.Let("s", "String", ast.Str("hello")),
		ast.Assign(ast.Member(ast.ID("s"), "length"), ast.Int(5)),
		ast.Ret(ast.Int(0)),
	)), diag.TypeError)
	if err.Error() != "the field length of String is read-only" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAnalyzeControlFlow(t *testing.T) {
	// Each branch and body gets its own scope, so the same name may be
	// declared in both branches but is invisible afterwards.
	mustAnalyze(t, program(nil, mainReturning(
		ast.If(ast.Bool(true),
			ast.Stmts(ast.Let("x", "Integer", nil)),
			ast.Let("x", "String", nil),
		),
		ast.Let("x", "Decimal", nil),
		ast.While(ast.Bool(false), ast.Let("x", "Integer", nil)),
		ast.For("i", ast.Call("range", ast.Int(0), ast.Int(3)), ast.Do(ast.Call("print", ast.ID("i")))),
		ast.Ret(ast.Int(0)),
	)))

	cases := []struct {
		name string
		stmt ast.Statement
		kind diag.Kind
	}{
		{"if empty then", ast.If(ast.Bool(true), nil), diag.ProgramStructureError},
		{"if non-boolean", ast.If(ast.Int(1), ast.Stmts(ast.Do(ast.Call("print", ast.Int(1))))), diag.TypeError},
		{"while non-boolean", ast.While(ast.Str("x")), diag.TypeError},
		{"for non-iterable", ast.For("i", ast.Int(3), ast.Do(ast.Call("print", ast.ID("i")))), diag.TypeError},
		{"for empty body", ast.For("i", ast.Call("range", ast.Int(0), ast.Int(3))), diag.ProgramStructureError},
		{"for variable is Integer", ast.For("i", ast.Call("range", ast.Int(0), ast.Int(3)),
			ast.Let("s", "String", ast.ID("i"))), diag.TypeError},
		{"expression statement", ast.Do(ast.Int(1)), diag.ProgramStructureError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectKind(t, program(nil, mainReturning(tc.stmt, ast.Ret(ast.Int(0)))), tc.kind)
		})
	}
}

func TestAnalyzeLiterals(t *testing.T) {
	cases := []struct {
		expr ast.Expression
		want string
	}{
		{ast.Nil(), "Nil"},
		{ast.Bool(true), "Boolean"},
		{ast.Int(2147483647), "Integer"},
		{ast.Int(-2147483648), "Integer"},
		{ast.Dec("3.25"), "Decimal"},
		{ast.Chr('x'), "Character"},
		{ast.Str("s"), "String"},
	}
	for _, tc := range cases {
		out := mustAnalyze(t, program(nil, mainReturning(
			ast.Let("v", "", tc.expr),
			ast.Ret(ast.Int(0)),
		)))
		decl := out.Methods[0].Body[0].(*typed.Declaration)
		if got := decl.Value.Type().Name(); got != tc.want {
			t.Fatalf("literal %T: expected %s, got %s", tc.expr, tc.want, got)
		}
	}

	tooBig := new(big.Int).Lsh(big.NewInt(1), 31)
	expectKind(t, program(nil, mainReturning(ast.Let("v", "", ast.IntBig(tooBig)), ast.Ret(ast.Int(0)))), diag.TypeError)
	expectKind(t, program(nil, mainReturning(ast.Let("v", "", ast.Int(-2147483649)), ast.Ret(ast.Int(0)))), diag.TypeError)

	huge := strings.Repeat("9", 400) + ".0"
	expectKind(t, program(nil, mainReturning(ast.Let("v", "", ast.Dec(huge)), ast.Ret(ast.Int(0)))), diag.TypeError)
}

func TestAnalyzeBinaryOperators(t *testing.T) {
	cases := []struct {
		expr ast.Expression
		want string
	}{
		{ast.Bin("AND", ast.Bool(true), ast.Bool(false)), "Boolean"},
		{ast.Bin("<", ast.Int(1), ast.Int(2)), "Boolean"},
		{ast.Bin("==", ast.Str("a"), ast.Str("b")), "Boolean"},
		{ast.Bin("!=", ast.Chr('a'), ast.Chr('b')), "Boolean"},
		{ast.Bin("+", ast.Str("a"), ast.Int(1)), "String"},
		{ast.Bin("+", ast.Bool(true), ast.Str("a")), "String"},
		{ast.Bin("+", ast.Int(1), ast.Int(2)), "Integer"},
		{ast.Bin("-", ast.Dec("1.0"), ast.Dec("2.0")), "Decimal"},
		{ast.Bin("/", ast.Int(7), ast.Int(2)), "Integer"},
		{ast.Grp(ast.Bin("*", ast.Int(7), ast.Int(2))), "Integer"},
	}
	for _, tc := range cases {
		out := mustAnalyze(t, program(nil, mainReturning(ast.Let("v", "", tc.expr), ast.Ret(ast.Int(0)))))
		decl := out.Methods[0].Body[0].(*typed.Declaration)
		if got := decl.Value.Type().Name(); got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}

	failures := []struct {
		expr ast.Expression
		kind diag.Kind
	}{
		{ast.Bin("OR", ast.Int(1), ast.Bool(true)), diag.TypeError},
		{ast.Bin("<", ast.Int(1), ast.Dec("1.0")), diag.TypeError},
		{ast.Bin("==", ast.Bool(true), ast.Bool(true)), diag.TypeError},
		{ast.Bin("+", ast.Int(1), ast.Dec("1.0")), diag.TypeError},
		{ast.Bin("+", ast.Bool(true), ast.Bool(true)), diag.TypeError},
		{ast.Bin("*", ast.Chr('a'), ast.Chr('b')), diag.TypeError},
		{ast.Grp(ast.Int(1)), diag.ProgramStructureError},
	}
	for _, tc := range failures {
		expectKind(t, program(nil, mainReturning(ast.Let("v", "", tc.expr), ast.Ret(ast.Int(0)))), tc.kind)
	}
}

func TestAnalyzeMembersAndCalls(t *testing.T) {
	out := mustAnalyze(t, program(
		[]*ast.Field{ast.Fld("s", "String", ast.Str("hello"))},
		mainReturning(
			ast.Let("n", "", ast.Member(ast.ID("s"), "length")),
			ast.Let("part", "", ast.CallOn(ast.ID("s"), "slice", ast.Int(0), ast.ID("n"))),
			ast.Let("text", "", ast.CallOn(ast.ID("n"), "stringify")),
			ast.Do(ast.Call("print", ast.ID("part"))),
			ast.Ret(ast.ID("n")),
		),
	))
	body := out.Methods[0].Body
	length := body[0].(*typed.Declaration).Value.(*typed.Access)
	if length.Variable.JVMName != "length()" || length.Type().Name() != "Integer" {
		t.Fatalf("unexpected length binding %#v", length.Variable)
	}
	slice := body[1].(*typed.Declaration).Value.(*typed.Call)
	if slice.Function.JVMName != "substring" || len(slice.Arguments) != 2 || slice.Receiver == nil {
		t.Fatalf("unexpected slice call %#v", slice)
	}
	if got := body[2].(*typed.Declaration).Variable.Type.Name(); got != "String" {
		t.Fatalf("stringify should return String, got %s", got)
	}

	cases := []struct {
		name string
		expr ast.Expression
		kind diag.Kind
	}{
		{"unknown field", ast.Member(ast.ID("s"), "size"), diag.NameError},
		{"unknown method", ast.CallOn(ast.ID("s"), "upper"), diag.NameError},
		{"method arity", ast.CallOn(ast.ID("s"), "slice", ast.Int(0)), diag.ArityError},
		{"function arity", ast.Call("print"), diag.ArityError},
		{"unknown function", ast.Call("nope"), diag.NameError},
		{"argument type", ast.CallOn(ast.ID("s"), "slice", ast.Str("0"), ast.Int(1)), diag.TypeError},
		{"literal receiver", ast.CallOn(ast.Str("x"), "stringify"), diag.ProgramStructureError},
		{"literal field receiver", ast.Member(ast.Str("x"), "length"), diag.ProgramStructureError},
		{"range arguments", ast.Call("range", ast.Int(0), ast.Dec("1.0")), diag.TypeError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectKind(t, program(
				[]*ast.Field{ast.Fld("s", "String", ast.Str("hello"))},
				mainReturning(ast.Let("v", "Any", tc.expr), ast.Ret(ast.Int(0))),
			), tc.kind)
		})
	}
}

func TestAnalyzeRejectsStructs(t *testing.T) {
	src := program(nil, mainReturning(ast.Ret(ast.Int(0))))
	src.Structs = []*ast.Struct{ast.NewStruct("Point", nil, nil)}
	expectKind(t, src, diag.ProgramStructureError)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	build := func() *ast.Source {
		return program(
			[]*ast.Field{ast.Fld("total", "Integer", ast.Int(0))},
			ast.Meth("add", ast.Params(ast.Param("n", "Integer")), "",
				ast.Assign(ast.ID("total"), ast.Bin("+", ast.ID("total"), ast.ID("n"))),
			),
			mainReturning(
				ast.For("i", ast.Call("range", ast.Int(0), ast.Int(4)), ast.Do(ast.Call("add", ast.ID("i")))),
				ast.Ret(ast.ID("total")),
			),
		)
	}
	first := mustAnalyze(t, build())
	second := mustAnalyze(t, build())
	if diff := deep.Equal(first, second); diff != nil {
		t.Fatalf("analysis is not deterministic: %v", diff)
	}
}

func TestErrorsCarrySpans(t *testing.T) {
	bad := ast.Str("x")
	ast.SetSpan(bad, ast.Span{Start: ast.Position{Line: 3, Column: 12}, End: ast.Position{Line: 3, Column: 15}})
	_, err := Analyze(program(nil, mainReturning(ast.Let("v", "Integer", bad), ast.Ret(ast.Int(0)))))
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected diag error, got %v", err)
	}
	if de.Span.Start.Line != 3 || de.Span.Start.Column != 12 {
		t.Fatalf("unexpected span %v", de.Span)
	}
}
