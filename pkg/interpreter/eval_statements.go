package interpreter

import (
	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/runtime"
)

type outcomeKind int

const (
	outcomeNormal outcomeKind = iota
	outcomeReturn
)

// outcome is how a statement completed. Only RETURN carries a value.
type outcome struct {
	kind  outcomeKind
	value *runtime.Object
}

var normal = outcome{kind: outcomeNormal}

func (o outcome) returned() bool { return o.kind == outcomeReturn }

// executeBlock runs stmts in scope, stopping at the first RETURN.
func (i *Interpreter) executeBlock(stmts []ast.Statement, scope *runtime.Scope) (outcome, error) {
	for _, stmt := range stmts {
		res, err := i.executeStatement(stmt, scope)
		if err != nil {
			return normal, err
		}
		if res.returned() {
			return res, nil
		}
	}
	return normal, nil
}

func (i *Interpreter) executeStatement(node ast.Statement, scope *runtime.Scope) (outcome, error) {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(n.Expression, scope)
		return normal, err
	case *ast.Declaration:
		return normal, i.executeDeclaration(n, scope)
	case *ast.Assignment:
		return normal, i.executeAssignment(n, scope)
	case *ast.IfStatement:
		return i.executeIf(n, scope)
	case *ast.ForStatement:
		return i.executeFor(n, scope)
	case *ast.WhileStatement:
		return i.executeWhile(n, scope)
	case *ast.ReturnStatement:
		value, err := i.evaluateExpression(n.Value, scope)
		if err != nil {
			return normal, err
		}
		return outcome{kind: outcomeReturn, value: value}, nil
	default:
		return normal, diag.Errorf(diag.ProgramStructureError, "unsupported statement type: %s", node.NodeType()).At(node)
	}
}

func (i *Interpreter) executeDeclaration(decl *ast.Declaration, scope *runtime.Scope) error {
	value := i.nilObject()
	if decl.Value != nil {
		var err error
		if value, err = i.evaluateExpression(decl.Value, scope); err != nil {
			return err
		}
	}
	if err := scope.DefineVariable(decl.Name, runtime.NewVariable(decl.Name, value)); err != nil {
		return diag.Locate(err, decl)
	}
	return nil
}

// executeAssignment evaluates the value before resolving the target binding.
// Fields of built-in types are read-only.
func (i *Interpreter) executeAssignment(assign *ast.Assignment, scope *runtime.Scope) error {
	target, ok := assign.Receiver.(*ast.AccessExpression)
	if !ok {
		return diag.Errorf(diag.ProgramStructureError, "the left side of an assignment must be an access expression").At(assign.Receiver)
	}
	value, err := i.evaluateExpression(assign.Value, scope)
	if err != nil {
		return err
	}
	if target.Receiver != nil {
		owner, err := i.evaluateExpression(target.Receiver, scope)
		if err != nil {
			return err
		}
		return diag.Errorf(diag.TypeError, "the field %s of %s is read-only", target.Name, owner.Type).At(target)
	}
	variable, err := i.resolveVariable(target, scope)
	if err != nil {
		return err
	}
	variable.Value = value
	return nil
}

func (i *Interpreter) executeIf(stmt *ast.IfStatement, scope *runtime.Scope) (outcome, error) {
	cond, err := i.evaluateCondition(stmt.Condition, scope)
	if err != nil {
		return normal, err
	}
	if cond {
		return i.executeBlock(stmt.Then, scope.Extend())
	}
	return i.executeBlock(stmt.Else, scope.Extend())
}

func (i *Interpreter) executeWhile(stmt *ast.WhileStatement, scope *runtime.Scope) (outcome, error) {
	for {
		cond, err := i.evaluateCondition(stmt.Condition, scope)
		if err != nil {
			return normal, err
		}
		if !cond {
			return normal, nil
		}
		res, err := i.executeBlock(stmt.Body, scope.Extend())
		if err != nil || res.returned() {
			return res, err
		}
	}
}

func (i *Interpreter) executeFor(stmt *ast.ForStatement, scope *runtime.Scope) (outcome, error) {
	value, err := i.evaluateExpression(stmt.Value, scope)
	if err != nil {
		return normal, err
	}
	iterable, ok := value.Value.(*runtime.IterableValue)
	if !ok {
		return normal, diag.Errorf(diag.TypeError, "expected an iterable, received %s", value.Type).At(stmt.Value)
	}
	for item := range iterable.All() {
		body := scope.Extend()
		if err := body.DefineVariable(stmt.Name, runtime.NewVariable(stmt.Name, item)); err != nil {
			return normal, diag.Locate(err, stmt)
		}
		res, err := i.executeBlock(stmt.Body, body)
		if err != nil || res.returned() {
			return res, err
		}
	}
	return normal, nil
}

func (i *Interpreter) evaluateCondition(expr ast.Expression, scope *runtime.Scope) (bool, error) {
	value, err := i.evaluateExpression(expr, scope)
	if err != nil {
		return false, err
	}
	return i.requireBool(value, expr)
}

func (i *Interpreter) requireBool(value *runtime.Object, node ast.Node) (bool, error) {
	b, ok := value.Value.(runtime.BoolValue)
	if !ok {
		return false, diag.Errorf(diag.TypeError, "expected type Boolean, received %s", value.Type).At(node)
	}
	return b.Val, nil
}
