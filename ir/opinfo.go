package ir

import (
	"fmt"
	"reflect"
)

// ResultArity says whether an operation kind defines a value.
type ResultArity uint8

const (
	ResultNone ResultArity = iota
	ResultOptional
	ResultRequired
)

// Variadic as OpInfo.Operands accepts any operand count.
const Variadic = -1

// RegionSpec describes one region slot of an operation kind.
type RegionSpec struct {
	Name        string
	SingleBlock bool // exactly one block
	NoArgs      bool // entry block takes no arguments
	Terminated  bool // every block ends with a Terminator
}

// AttrSpec describes one named attribute. Kind may be AttrAny or AttrAnyInt.
type AttrSpec struct {
	Name     string
	Kind     AttrKind
	Required bool
}

// OpInfo is the static description of an operation kind, shared by every
// Context the kind is registered in. Define one per kind with DefineOp.
type OpInfo struct {
	Dialect  string
	Name     string
	Summary  string
	Regions  []RegionSpec
	Attrs    []AttrSpec
	Result   ResultArity
	Operands int // exact count, or Variadic

	caps []Capability
	view func(*Operation) Op
}

// DefineOp finalizes info with the concrete view constructor and capability
// table of kind T. Publishing the same capability twice panics.
func DefineOp[T Op](info OpInfo, view func(*Operation) T, caps ...Capability) *OpInfo {
	seen := make(map[reflect.Type]bool, len(caps))
	for _, c := range caps {
		if seen[c.iface] {
			panic(fmt.Sprintf("ir: %s.%s publishes %s twice", info.Dialect, info.Name, c.iface))
		}
		seen[c.iface] = true
	}
	info.caps = append([]Capability(nil), caps...)
	info.view = func(op *Operation) Op { return view(op) }
	return &info
}

// QualifiedName is the operation name as written in text: bare for builtin,
// dialect-prefixed otherwise.
func (i *OpInfo) QualifiedName() string {
	if i.Dialect == BuiltinDialectName {
		return i.Name
	}
	return i.Dialect + "." + i.Name
}

// Capabilities lists the published capability interfaces in table order.
func (i *OpInfo) Capabilities() []reflect.Type {
	out := make([]reflect.Type, len(i.caps))
	for n, c := range i.caps {
		out[n] = c.iface
	}
	return out
}

// Provides reports whether the table contains iface.
func (i *OpInfo) Provides(iface reflect.Type) bool {
	for _, c := range i.caps {
		if c.iface == iface {
			return true
		}
	}
	return false
}

// AttrSpec finds the spec of a named attribute.
func (i *OpInfo) AttrSpec(name string) (AttrSpec, bool) {
	for _, s := range i.Attrs {
		if s.Name == name {
			return s, true
		}
	}
	return AttrSpec{}, false
}

// View wraps op in the concrete type of this kind.
func (i *OpInfo) View(op *Operation) Op {
	if i.view == nil {
		return op
	}
	return i.view(op)
}
