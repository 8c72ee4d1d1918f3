package typechecker

import (
	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/typed"
	"plc/interpreter-go/pkg/types"
)

// checkBlock analyzes statements in the current scope. Callers open the
// child scope.
func (c *Checker) checkBlock(stmts []ast.Statement) ([]typed.Statement, error) {
	var out []typed.Statement
	for _, stmt := range stmts {
		checked, err := c.checkStatement(stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, checked)
	}
	return out, nil
}

func (c *Checker) checkChildBlock(stmts []ast.Statement) ([]typed.Statement, error) {
	var out []typed.Statement
	err := c.withChildScope(func() error {
		var err error
		out, err = c.checkBlock(stmts)
		return err
	})
	return out, err
}

func (c *Checker) checkStatement(stmt ast.Statement) (typed.Statement, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return c.checkExpressionStatement(s)
	case *ast.Declaration:
		return c.checkDeclaration(s)
	case *ast.Assignment:
		return c.checkAssignment(s)
	case *ast.IfStatement:
		return c.checkIf(s)
	case *ast.ForStatement:
		return c.checkFor(s)
	case *ast.WhileStatement:
		return c.checkWhile(s)
	case *ast.ReturnStatement:
		return c.checkReturn(s)
	case nil:
		return nil, diag.Errorf(diag.ProgramStructureError, "missing statement")
	default:
		return nil, diag.Errorf(diag.ProgramStructureError, "unsupported statement %s", stmt.NodeType()).At(stmt)
	}
}

// checkExpressionStatement only admits calls; any other expression would be
// evaluated for nothing.
func (c *Checker) checkExpressionStatement(stmt *ast.ExpressionStatement) (typed.Statement, error) {
	if _, ok := stmt.Expression.(*ast.FunctionCall); !ok {
		return nil, diag.Errorf(diag.ProgramStructureError, "an expression statement must be a function call").At(stmt)
	}
	expr, err := c.checkExpression(stmt.Expression)
	if err != nil {
		return nil, err
	}
	return typed.NewExpressionStatement(stmt.Span(), expr), nil
}

// checkDeclaration requires a type, a value, or both. With both, the
// declared type is kept.
func (c *Checker) checkDeclaration(stmt *ast.Declaration) (typed.Statement, error) {
	if stmt.TypeName == nil && stmt.Value == nil {
		return nil, diag.Errorf(diag.ProgramStructureError, "the declaration of %s requires a type or a value", stmt.Name).At(stmt)
	}
	typ, err := c.resolveType(stmt.TypeName, nil)
	if err != nil {
		return nil, err
	}
	var value typed.Expression
	if stmt.Value != nil {
		if value, err = c.checkExpression(stmt.Value); err != nil {
			return nil, err
		}
		if typ == nil {
			typ = value.Type()
		}
		if err := requireAssignable(typ, value.Type(), stmt.Value); err != nil {
			return nil, err
		}
	}
	variable := types.NewVariable(stmt.Name, typ)
	if err := c.scope.DefineVariable(stmt.Name, variable); err != nil {
		return nil, diag.Locate(err, stmt)
	}
	return typed.NewDeclaration(stmt.Span(), variable, value), nil
}

func (c *Checker) checkAssignment(stmt *ast.Assignment) (typed.Statement, error) {
	target, ok := stmt.Receiver.(*ast.AccessExpression)
	if !ok {
		return nil, diag.Errorf(diag.ProgramStructureError, "the target of an assignment must be an access expression").At(stmt)
	}
	receiver, err := c.checkAccess(target)
	if err != nil {
		return nil, err
	}
	if owner := receiver.Receiver; owner != nil {
		return nil, diag.Errorf(diag.TypeError, "the field %s of %s is read-only", target.Name, owner.Type()).At(target)
	}
	value, err := c.checkExpression(stmt.Value)
	if err != nil {
		return nil, err
	}
	if err := requireAssignable(receiver.Type(), value.Type(), stmt.Value); err != nil {
		return nil, err
	}
	return typed.NewAssignment(stmt.Span(), receiver, value), nil
}

func (c *Checker) checkIf(stmt *ast.IfStatement) (typed.Statement, error) {
	if len(stmt.Then) == 0 {
		return nil, diag.Errorf(diag.ProgramStructureError, "an if statement requires at least one then statement").At(stmt)
	}
	condition, err := c.checkExpression(stmt.Condition)
	if err != nil {
		return nil, err
	}
	if err := requireType(c.table.Boolean, condition.Type(), stmt.Condition); err != nil {
		return nil, err
	}
	then, err := c.checkChildBlock(stmt.Then)
	if err != nil {
		return nil, err
	}
	otherwise, err := c.checkChildBlock(stmt.Else)
	if err != nil {
		return nil, err
	}
	return typed.NewIf(stmt.Span(), condition, then, otherwise), nil
}

func (c *Checker) checkFor(stmt *ast.ForStatement) (typed.Statement, error) {
	value, err := c.checkExpression(stmt.Value)
	if err != nil {
		return nil, err
	}
	if err := requireType(c.table.IntegerIterable, value.Type(), stmt.Value); err != nil {
		return nil, err
	}
	if len(stmt.Body) == 0 {
		return nil, diag.Errorf(diag.ProgramStructureError, "a for statement requires at least one body statement").At(stmt)
	}
	var (
		variable *types.Variable
		body     []typed.Statement
	)
	err = c.withChildScope(func() error {
		variable = types.NewVariable(stmt.Name, c.table.Integer)
		if err := c.scope.DefineVariable(stmt.Name, variable); err != nil {
			return diag.Locate(err, stmt)
		}
		var err error
		body, err = c.checkBlock(stmt.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return typed.NewFor(stmt.Span(), variable, value, body), nil
}

func (c *Checker) checkWhile(stmt *ast.WhileStatement) (typed.Statement, error) {
	condition, err := c.checkExpression(stmt.Condition)
	if err != nil {
		return nil, err
	}
	if err := requireType(c.table.Boolean, condition.Type(), stmt.Condition); err != nil {
		return nil, err
	}
	body, err := c.checkChildBlock(stmt.Body)
	if err != nil {
		return nil, err
	}
	return typed.NewWhile(stmt.Span(), condition, body), nil
}

// checkReturn requires the value's type to equal the enclosing method's
// declared return type exactly.
func (c *Checker) checkReturn(stmt *ast.ReturnStatement) (typed.Statement, error) {
	method, ok := c.currentMethod()
	if !ok {
		return nil, diag.Errorf(diag.ProgramStructureError, "return outside of a method").At(stmt)
	}
	value, err := c.checkExpression(stmt.Value)
	if err != nil {
		return nil, err
	}
	if err := requireType(method.ReturnType, value.Type(), stmt); err != nil {
		return nil, diag.Errorf(diag.TypeError, "%s returns %s: %s", method.Name, method.ReturnType, err.Error()).At(stmt)
	}
	return typed.NewReturn(stmt.Span(), value), nil
}
