package ir

import "fmt"

// BuiltinDialectID is the id of the builtin dialect in every Context.
const BuiltinDialectID DialectID = 0

// Context owns the dialect registry and the operation arena of one graph.
// It is not safe for concurrent use.
type Context struct {
	dialects []*Dialect
	ops      *arena[*Operation]
}

// New creates a Context with the builtin dialect registered.
func New() *Context {
	ctx := &Context{ops: newArena[*Operation](64)}
	ctx.AddDialect(newBuiltinDialect())
	return ctx
}

// AddDialect registers d and assigns it the next dialect id. A dialect can be
// added to exactly one Context once.
func (c *Context) AddDialect(d *Dialect) *Dialect {
	if d.ctx != nil {
		panic(fmt.Sprintf("ir: dialect %q is already registered", d.name))
	}
	if _, dup := c.DialectByName(d.name); dup {
		panic(fmt.Sprintf("ir: a dialect named %q is already registered", d.name))
	}
	d.setID(DialectID(mustLen(len(c.dialects))))
	d.ctx = c
	c.dialects = append(c.dialects, d)
	return d
}

func (c *Context) DialectByName(name string) (*Dialect, bool) {
	for _, d := range c.dialects {
		if d.name == name {
			return d, true
		}
	}
	return nil, false
}

func (c *Context) Dialect(id DialectID) (*Dialect, bool) {
	if int(id) >= len(c.dialects) {
		return nil, false
	}
	return c.dialects[id], true
}

// MustDialect is DialectByName for callers that registered the dialect
// themselves; it panics when name is unknown.
func (c *Context) MustDialect(name string) *Dialect {
	d, ok := c.DialectByName(name)
	if !ok {
		panic(fmt.Sprintf("ir: dialect %q is not registered", name))
	}
	return d
}

// Dialects returns the registered dialects in id order.
func (c *Context) Dialects() []*Dialect {
	return append([]*Dialect(nil), c.dialects...)
}

// Builtin returns the builtin dialect.
func (c *Context) Builtin() *Dialect { return c.dialects[BuiltinDialectID] }

// Op resolves a handle. Handles reachable from the graph always resolve, so
// a miss is an invariant violation and panics.
func (c *Context) Op(id AllocID) *Operation {
	op, ok := c.ops.get(id)
	if !ok {
		panic(fmt.Sprintf("ir: invariant violation: no operation %s", id))
	}
	return op
}

// LookupOp resolves a handle that may come from outside the graph.
func (c *Context) LookupOp(id AllocID) (*Operation, bool) {
	return c.ops.get(id)
}

// NumOps reports how many operations were ever allocated.
func (c *Context) NumOps() int { return c.ops.len() }

// opDef finds the table entry for a runtime tag.
func (c *Context) opDef(dialect DialectID, id OpID) OpDef {
	d, ok := c.Dialect(dialect)
	if !ok {
		panic(fmt.Sprintf("ir: invariant violation: no dialect %d", dialect))
	}
	def, ok := d.OpDef(id)
	if !ok {
		panic(fmt.Sprintf("ir: invariant violation: no operation %d in %s", id, d.name))
	}
	return def
}
