package parser

import (
	"plc/interpreter-go/pkg/ast"
)

// annotate records the span from start to the last consumed token.
func (p *SourceParser) annotate(node ast.Node, start ast.Position) {
	if node == nil {
		return
	}
	ast.SetSpan(node, ast.Span{Start: start, End: p.previousEnd()})
}

func (p *SourceParser) annotateStatement(stmt ast.Statement, start ast.Position) ast.Statement {
	p.annotate(stmt, start)
	return stmt
}

func (p *SourceParser) annotateExpression(expr ast.Expression, start ast.Position) ast.Expression {
	p.annotate(expr, start)
	return expr
}
