package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"plc/interpreter-go/pkg/ast"
	"plc/interpreter-go/pkg/parser"
	"plc/interpreter-go/pkg/typechecker"
	"plc/interpreter-go/pkg/typed"
	"plc/interpreter-go/pkg/types"
)

// Program is a parsed plc source file.
type Program struct {
	Path   string
	Source []byte
	AST    *ast.Source
}

// LoadFile reads and parses a single .plc file. Syntax errors are returned
// unwrapped so callers can inspect their span.
func LoadFile(path string) (*Program, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("load: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("load: read %s: %w", absPath, err)
	}
	src, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Program{Path: absPath, Source: data, AST: src}, nil
}

// LoadEntry loads the manifest's entry file.
func LoadEntry(m *Manifest) (*Program, error) {
	if m == nil || m.Entry == "" {
		return nil, fmt.Errorf("load: manifest has no entry")
	}
	return LoadFile(m.Entry)
}

// Analyze runs the static analyzer over the program with a fresh type table.
func (p *Program) Analyze() (*typed.Source, error) {
	return p.AnalyzeWith(types.NewStandard())
}

// AnalyzeWith analyzes the program against table, so the interpreter that
// runs it afterwards can share the same types.
func (p *Program) AnalyzeWith(table *types.Table) (*typed.Source, error) {
	if p == nil || p.AST == nil {
		return nil, fmt.Errorf("load: missing program")
	}
	return typechecker.NewWithTable(table).Check(p.AST)
}
