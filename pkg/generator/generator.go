// Package generator renders an analyzed plc program as a single Java class.
package generator

import (
	"bytes"
	"fmt"
	"strings"

	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/typed"
)

// Options tunes the rendered output.
type Options struct {
	// Header lines are emitted as // comments above the class.
	Header []string
}

// Generate renders src as the Java class Main. The tree must come from the
// analyzer: every name is written with its resolved JVM spelling.
func Generate(src *typed.Source, opts Options) ([]byte, error) {
	if src == nil {
		return nil, diag.Errorf(diag.ProgramStructureError, "generator: missing source")
	}
	g := &generator{}

	methods := &printer{indent: 1}
	for _, method := range src.Methods {
		methods.blank()
		if err := g.renderMethod(methods, method); err != nil {
			return nil, err
		}
	}

	out := &printer{}
	for _, line := range opts.Header {
		out.line("// %s", line)
	}
	out.line("public class Main {")
	out.blank()
	out.indent++
	for _, field := range src.Fields {
		if err := g.renderField(out, field); err != nil {
			return nil, err
		}
	}
	if len(src.Fields) > 0 {
		out.blank()
	}
	out.line("public static void main(String[] args) {")
	out.indent++
	out.line("System.exit(new Main().main());")
	out.indent--
	out.line("}")
	if g.usesRange {
		out.blank()
		out.line("static Iterable<Integer> range(int start, int end) {")
		out.indent++
		out.line("return () -> java.util.stream.IntStream.range(start, end).iterator();")
		out.indent--
		out.line("}")
	}
	out.buf.Write(methods.buf.Bytes())
	out.indent--
	out.blank()
	out.buf.WriteString("}\n")
	return out.buf.Bytes(), nil
}

type generator struct {
	usesRange bool
}

// printer writes indented lines, four spaces per level.
type printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.buf.WriteString(strings.Repeat("    ", p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) blank() {
	p.buf.WriteByte('\n')
}

func (g *generator) renderField(p *printer, field *typed.Field) error {
	decl := field.Variable.Type.JVMName() + " " + field.Variable.JVMName
	if field.Value == nil {
		p.line("%s;", decl)
		return nil
	}
	value, err := g.expression(field.Value)
	if err != nil {
		return err
	}
	p.line("%s = %s;", decl, value)
	return nil
}

func (g *generator) renderMethod(p *printer, method *typed.Method) error {
	fn := method.Function
	params := make([]string, len(method.Parameters))
	for idx, param := range method.Parameters {
		params[idx] = param.Type.JVMName() + " " + param.JVMName
	}
	header := fmt.Sprintf("%s %s(%s)", fn.ReturnType.JVMName(), fn.JVMName, strings.Join(params, ", "))
	return g.renderBlock(p, header, method.Body)
}

// renderBlock writes `header {`, the statements one level deeper, and the
// closing brace. An empty block collapses to `header {}`.
func (g *generator) renderBlock(p *printer, header string, body []typed.Statement) error {
	if len(body) == 0 {
		p.line("%s {}", header)
		return nil
	}
	p.line("%s {", header)
	if err := g.renderStatements(p, body); err != nil {
		return err
	}
	p.line("}")
	return nil
}

func (g *generator) renderStatements(p *printer, stmts []typed.Statement) error {
	p.indent++
	defer func() { p.indent-- }()
	for _, stmt := range stmts {
		if err := g.renderStatement(p, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) renderStatement(p *printer, stmt typed.Statement) error {
	switch s := stmt.(type) {
	case *typed.ExpressionStatement:
		expr, err := g.expression(s.Expression)
		if err != nil {
			return err
		}
		p.line("%s;", expr)
	case *typed.Declaration:
		decl := s.Variable.Type.JVMName() + " " + s.Variable.JVMName
		if s.Value == nil {
			p.line("%s;", decl)
			return nil
		}
		value, err := g.expression(s.Value)
		if err != nil {
			return err
		}
		p.line("%s = %s;", decl, value)
	case *typed.Assignment:
		target, err := g.expression(s.Receiver)
		if err != nil {
			return err
		}
		value, err := g.expression(s.Value)
		if err != nil {
			return err
		}
		p.line("%s = %s;", target, value)
	case *typed.If:
		cond, err := g.expression(s.Condition)
		if err != nil {
			return err
		}
		if len(s.Else) == 0 {
			return g.renderBlock(p, "if ("+cond+")", s.Then)
		}
		p.line("if (%s) {", cond)
		if err := g.renderStatements(p, s.Then); err != nil {
			return err
		}
		p.line("} else {")
		if err := g.renderStatements(p, s.Else); err != nil {
			return err
		}
		p.line("}")
	case *typed.For:
		value, err := g.expression(s.Value)
		if err != nil {
			return err
		}
		return g.renderBlock(p, fmt.Sprintf("for (int %s : %s)", s.Variable.JVMName, value), s.Body)
	case *typed.While:
		cond, err := g.expression(s.Condition)
		if err != nil {
			return err
		}
		return g.renderBlock(p, "while ("+cond+")", s.Body)
	case *typed.Return:
		value, err := g.expression(s.Value)
		if err != nil {
			return err
		}
		p.line("return %s;", value)
	default:
		return diag.Errorf(diag.ProgramStructureError, "generator: unsupported statement %T", stmt)
	}
	return nil
}
