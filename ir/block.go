package ir

import (
	"fmt"
	"iter"
	"slices"
)

// BlockArg is a typed block parameter.
type BlockArg struct {
	Name string
	Type Type
}

// Block holds an ordered list of operations.
type Block struct {
	ctx    *Context
	region *Region
	label  string
	args   []BlockArg
	ops    []AllocID
	guard  guard
}

// NewBlock creates a detached block.
func NewBlock(ctx *Context, label string, args ...BlockArg) *Block {
	return &Block{ctx: ctx, label: label, args: slices.Clone(args)}
}

func (b *Block) Context() *Context { return b.ctx }

// Region returns the owning region, nil if detached.
func (b *Block) Region() *Region { return b.region }

func (b *Block) Label() string { return b.label }

func (b *Block) SetLabel(label string) { b.label = label }

func (b *Block) NumArgs() int { return len(b.args) }

func (b *Block) Args() []BlockArg { return slices.Clone(b.args) }

func (b *Block) Arg(i int) (BlockArg, bool) {
	if i < 0 || i >= len(b.args) {
		return BlockArg{}, false
	}
	return b.args[i], true
}

func (b *Block) AddArg(arg BlockArg) int {
	b.args = append(b.args, arg)
	return len(b.args) - 1
}

// SetArgName renames argument i; out of range panics.
func (b *Block) SetArgName(i int, name string) { b.args[i].Name = name }

// Len returns the number of operations.
func (b *Block) Len() int { return len(b.ops) }

// Op returns operation i.
func (b *Block) Op(i int) *Operation {
	if i < 0 || i >= len(b.ops) {
		return nil
	}
	return b.ctx.Op(b.ops[i])
}

// OpIDs returns a snapshot of the operation handles.
func (b *Block) OpIDs() []AllocID { return slices.Clone(b.ops) }

// Ops iterates the operations in order. The block must not be mutated while
// iterating; doing so panics with *BorrowError.
func (b *Block) Ops() iter.Seq2[int, *Operation] {
	return func(yield func(int, *Operation) bool) {
		release := b.guard.borrow("block")
		defer release()
		for i, id := range b.ops {
			if !yield(i, b.ctx.Op(id)) {
				return
			}
		}
	}
}

// Last returns the final operation, nil for an empty block.
func (b *Block) Last() *Operation { return b.Op(len(b.ops) - 1) }

// Push appends op.
func (b *Block) Push(op Op) { b.Insert(len(b.ops), op) }

// Insert places op at position i. An operation can be attached once, and
// never inside its own regions.
func (b *Block) Insert(i int, op Op) {
	o := op.Operation()
	if o.block != nil {
		panic(fmt.Sprintf("ir: %s %s is already attached to a block", o.Name(), o.id))
	}
	if enclosing(b.region, func(owner *Operation) bool { return owner == o }) {
		panic(fmt.Sprintf("ir: %s %s cannot be inserted into its own region", o.Name(), o.id))
	}
	if o.ctx != b.ctx {
		panic("ir: operation belongs to another context")
	}
	if i < 0 || i > len(b.ops) {
		panic(fmt.Sprintf("ir: insert index %d out of range [0, %d]", i, len(b.ops)))
	}
	release := b.guard.borrowMut("block")
	defer release()
	b.ops = slices.Insert(b.ops, i, o.id)
	o.block = b
}

// IndexOf returns the position of op, -1 if absent.
func (b *Block) IndexOf(op Op) int { return slices.Index(b.ops, op.Operation().ID()) }

// enclosing walks the operations owning r and its ancestors, innermost
// first, and reports whether match accepts one of them.
func enclosing(r *Region, match func(*Operation) bool) bool {
	for r != nil {
		owner := r.ParentOp()
		if owner == nil {
			return false
		}
		if match(owner) {
			return true
		}
		if owner.block == nil {
			return false
		}
		r = owner.block.region
	}
	return false
}
