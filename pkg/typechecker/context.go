package typechecker

import "plc/interpreter-go/pkg/types"

// pushMethod records the method whose body is being analyzed.
func (c *Checker) pushMethod(fn *types.Function) {
	c.methodStack = append(c.methodStack, fn)
}

func (c *Checker) popMethod() {
	if len(c.methodStack) == 0 {
		return
	}
	c.methodStack = c.methodStack[:len(c.methodStack)-1]
}

// currentMethod returns the innermost enclosing method, if any.
func (c *Checker) currentMethod() (*types.Function, bool) {
	if len(c.methodStack) == 0 {
		return nil, false
	}
	return c.methodStack[len(c.methodStack)-1], true
}
