package ir

import (
	"fmt"
	"reflect"
)

// Capability is one entry of an operation kind's capability table: the
// interface it provides and a thunk producing a view that implements it.
type Capability struct {
	iface reflect.Type
	thunk func(*Operation) any
}

// Implements declares that an operation kind provides interface I through
// thunk.
func Implements[I any](thunk func(*Operation) I) Capability {
	t := reflect.TypeFor[I]()
	if t.Kind() != reflect.Interface {
		panic(fmt.Sprintf("ir: capability %s is not an interface", t))
	}
	return Capability{iface: t, thunk: func(op *Operation) any { return thunk(op) }}
}

// Interface returns the capability identity.
func (c Capability) Interface() reflect.Type { return c.iface }

// As returns op viewed as capability I if its kind publishes I.
func As[I any](op Op) (I, bool) {
	var zero I
	o := op.Operation()
	if o == nil || o.info == nil {
		return zero, false
	}
	want := reflect.TypeFor[I]()
	for _, c := range o.info.caps {
		if c.iface == want {
			v, ok := c.thunk(o).(I)
			return v, ok
		}
	}
	return zero, false
}

// Has reports whether op's kind publishes capability I.
func Has[I any](op Op) bool {
	o := op.Operation()
	if o == nil || o.info == nil {
		return false
	}
	return o.info.Provides(reflect.TypeFor[I]())
}

// Cast returns the concrete view T of op when op is of T's kind.
func Cast[T Op](op Op) (T, bool) {
	var zero T
	o := op.Operation()
	if o == nil || o.info == nil || o.info.view == nil {
		return zero, false
	}
	v, ok := o.info.view(o).(T)
	return v, ok
}

// CapabilitiesOf lists the capability interfaces op's kind publishes.
func CapabilitiesOf(op Op) []reflect.Type {
	o := op.Operation()
	if o == nil || o.info == nil {
		return nil
	}
	return o.info.Capabilities()
}

// Terminator ends a block and names the blocks control may continue in.
type Terminator interface {
	Op
	Successors() []*Block
}

// OpValidator checks per-kind structural rules during Validate.
type OpValidator interface {
	Op
	Verify() error
}

// Symbol is an operation that defines a named symbol (e.g. a function).
type Symbol interface {
	Op
	SymbolName() (string, error)
}

// ResultTyped computes the type of the value an operation defines.
type ResultTyped interface {
	Op
	ResultType() (Type, error)
}
