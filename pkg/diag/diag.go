package diag

import (
	"errors"
	"fmt"

	"plc/interpreter-go/pkg/ast"
)

// Kind classifies every error a plc stage can abort with.
type Kind int

const (
	SyntaxError Kind = iota
	NameError
	DuplicateDefinitionError
	TypeError
	ArityError
	ProgramStructureError
	ArithmeticError
)

var kindNames = [...]string{
	SyntaxError:              "SyntaxError",
	NameError:                "NameError",
	DuplicateDefinitionError: "DuplicateDefinitionError",
	TypeError:                "TypeError",
	ArityError:               "ArityError",
	ProgramStructureError:    "ProgramStructureError",
	ArithmeticError:          "ArithmeticError",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the single error type produced by the lexer, parser, analyzer and
// interpreter. Span is zero when the failing node carries no position.
type Error struct {
	Kind    Kind
	Message string
	Span    ast.Span
}

func (e *Error) Error() string {
	return e.Message
}

// Errorf builds an Error of the given kind.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At attaches the span of node unless a span was already recorded.
func (e *Error) At(node ast.Node) *Error {
	if e == nil || node == nil || !e.Span.IsZero() {
		return e
	}
	e.Span = node.Span()
	return e
}

// KindOf extracts the kind of err, reporting false for foreign errors.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// Is reports whether err is a diag.Error of the given kind.
func Is(err error, kind Kind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}

// Locate attaches node's span to err when err is a diag.Error without one.
// Other errors pass through untouched.
func Locate(err error, node ast.Node) error {
	var de *Error
	if errors.As(err, &de) {
		de.At(node)
	}
	return err
}

// Format renders err for terminal output: "TypeError: message (at 3:7)".
func Format(err error) string {
	var de *Error
	if !errors.As(err, &de) {
		return err.Error()
	}
	if de.Span.IsZero() {
		return fmt.Sprintf("%s: %s", de.Kind, de.Message)
	}
	return fmt.Sprintf("%s: %s (at %s)", de.Kind, de.Message, de.Span.Start)
}
