package generator

import (
	"math/big"
	"strings"

	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/typed"
)

var javaEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"\"", "\\\"",
	"'", "\\'",
	"\b", "\\b",
	"\n", "\\n",
	"\r", "\\r",
	"\t", "\\t",
)

func (g *generator) expression(expr typed.Expression) (string, error) {
	switch e := expr.(type) {
	case *typed.Literal:
		return literal(e)
	case *typed.Group:
		inner, err := g.expression(e.Expression)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	case *typed.Binary:
		left, err := g.expression(e.Left)
		if err != nil {
			return "", err
		}
		right, err := g.expression(e.Right)
		if err != nil {
			return "", err
		}
		return left + " " + javaOperator(e.Operator) + " " + right, nil
	case *typed.Access:
		prefix, err := g.receiver(e.Receiver)
		if err != nil {
			return "", err
		}
		return prefix + e.Variable.JVMName, nil
	case *typed.Call:
		prefix, err := g.receiver(e.Receiver)
		if err != nil {
			return "", err
		}
		if e.Receiver == nil && e.Function.Name == "range" {
			g.usesRange = true
		}
		args := make([]string, len(e.Arguments))
		for idx, arg := range e.Arguments {
			if args[idx], err = g.expression(arg); err != nil {
				return "", err
			}
		}
		return prefix + e.Function.JVMName + "(" + strings.Join(args, ", ") + ")", nil
	default:
		return "", diag.Errorf(diag.ProgramStructureError, "generator: unsupported expression %T", expr)
	}
}

func (g *generator) receiver(expr typed.Expression) (string, error) {
	if expr == nil {
		return "", nil
	}
	rendered, err := g.expression(expr)
	if err != nil {
		return "", err
	}
	return rendered + ".", nil
}

func javaOperator(op string) string {
	switch op {
	case "AND":
		return "&&"
	case "OR":
		return "||"
	default:
		return op
	}
}

func literal(lit *typed.Literal) (string, error) {
	switch v := lit.Value.(type) {
	case nil:
		return "null", nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case *big.Int:
		return v.String(), nil
	case rune:
		return "'" + javaEscaper.Replace(string(v)) + "'", nil
	case string:
		if lit.Type().Name() == "Decimal" {
			return strings.TrimPrefix(v, "+"), nil
		}
		return "\"" + javaEscaper.Replace(v) + "\"", nil
	default:
		return "", diag.Errorf(diag.ProgramStructureError, "generator: unsupported literal %T", lit.Value)
	}
}
