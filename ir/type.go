package ir

import "strconv"

// DialectID indexes a dialect in its Context. Builtin is always 0.
type DialectID uint32

// OpID identifies an operation kind within its dialect.
type OpID uint32

// TypeID identifies a type kind within its dialect.
type TypeID uint32

// Type is a value: a (dialect, type kind) tag plus parameters. Two types are
// equal when tag and parameters are equal; the Context pointer is only used to
// find printers and names.
type Type struct {
	ctx     *Context
	dialect DialectID
	id      TypeID
	attrs   AttrMap
}

// NewType builds a type from raw ids. Dialect code normally goes through
// (*Dialect).Type instead.
func NewType(ctx *Context, dialect DialectID, id TypeID, attrs AttrMap) Type {
	return Type{ctx: ctx, dialect: dialect, id: id, attrs: attrs.Clone()}
}

func (t Type) IsValid() bool        { return t.ctx != nil }
func (t Type) Context() *Context    { return t.ctx }
func (t Type) DialectID() DialectID { return t.dialect }
func (t Type) ID() TypeID           { return t.id }

// Attrs returns a copy of the type parameters.
func (t Type) Attrs() AttrMap { return t.attrs.Clone() }

func (t Type) Attr(key string) (Attr, bool) { return t.attrs.Get(key) }

// Dialect resolves the owning dialect; nil for the zero Type.
func (t Type) Dialect() *Dialect {
	if t.ctx == nil {
		return nil
	}
	d, _ := t.ctx.Dialect(t.dialect)
	return d
}

// Name returns the type kind name qualified by its dialect unless builtin.
func (t Type) Name() string {
	d := t.Dialect()
	if d == nil {
		return "<invalid>"
	}
	name, ok := d.TypeName(t.id)
	if !ok {
		name = "type" + strconv.FormatUint(uint64(t.id), 10)
	}
	if t.dialect == BuiltinDialectID {
		return name
	}
	return d.Name() + "." + name
}

func (t Type) Equal(o Type) bool {
	return t.dialect == o.dialect && t.id == o.id && t.attrs.Equal(o.attrs)
}

func (t Type) String() string {
	if t.ctx == nil {
		return "!<invalid>"
	}
	p := NewPrinter()
	p.PrintType(t)
	return p.String()
}

// TypeKind is implemented by typed wrappers over Type. The methods must work
// on the zero value.
type TypeKind interface {
	TypeDialect() string
	TypeName() string
}

// Isa reports whether t is of kind K.
func Isa[K TypeKind](t Type) bool {
	if t.ctx == nil {
		return false
	}
	var k K
	d, ok := t.ctx.DialectByName(k.TypeDialect())
	if !ok || d.ID() != t.dialect {
		return false
	}
	id, ok := d.TypeID(k.TypeName())
	return ok && id == t.id
}
