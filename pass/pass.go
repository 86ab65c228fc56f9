package pass

import (
	"context"

	"tir/ir"
)

// Pass is one named transformation.
type Pass interface {
	// Run transforms the tree rooted at root.
	Run(ctx context.Context, root ir.Op) error
	// WrapperName names the adapter kind, e.g. "ModulePass".
	WrapperName() string
	Name() string
}

// Func is the plain function form of a pass over a concrete root kind.
type Func[T ir.Op] func(ctx context.Context, root T) error

type opPass[T ir.Op] struct {
	wrapper  string
	name     string
	expected string
	fn       Func[T]
}

// NewOpPass adapts fn into a Pass. Run downcasts the root to T and fails
// with *UnexpectedOpTypeError when it is some other kind; expected names T
// in that error.
func NewOpPass[T ir.Op](wrapper, name, expected string, fn Func[T]) Pass {
	return &opPass[T]{wrapper: wrapper, name: name, expected: expected, fn: fn}
}

func (p *opPass[T]) Run(ctx context.Context, root ir.Op) error {
	v, ok := ir.Cast[T](root)
	if !ok {
		return &UnexpectedOpTypeError{Pass: p.name, Expected: p.expected, Actual: root.Operation().Name()}
	}
	return p.fn(ctx, v)
}

func (p *opPass[T]) WrapperName() string { return p.wrapper }
func (p *opPass[T]) Name() string        { return p.name }

// NewModulePass wraps a pass that expects a builtin module root.
func NewModulePass(name string, fn Func[ir.ModuleOp]) Pass {
	return NewOpPass("ModulePass", name, ir.ModuleOpInfo.QualifiedName(), fn)
}
