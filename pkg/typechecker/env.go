package typechecker

// withChildScope runs fn inside a fresh child of the current scope and
// restores the current scope afterwards, even on error.
func (c *Checker) withChildScope(fn func() error) error {
	saved := c.scope
	c.scope = saved.Extend()
	defer func() { c.scope = saved }()
	return fn()
}
