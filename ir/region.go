package ir

import "slices"

// Region is an ordered list of blocks owned by one operation.
type Region struct {
	ctx    *Context
	parent AllocID
	index  int
	blocks []*Block
	guard  guard
}

// NewRegion creates a detached region.
func NewRegion(ctx *Context) *Region { return &Region{ctx: ctx} }

func (r *Region) Context() *Context { return r.ctx }

// Parent returns the handle of the owning operation, NoAlloc if detached.
func (r *Region) Parent() AllocID { return r.parent }

// ParentOp resolves the owning operation, nil if detached.
func (r *Region) ParentOp() *Operation {
	if !r.parent.IsValid() {
		return nil
	}
	return r.ctx.Op(r.parent)
}

// Index is the position of the region in its owner.
func (r *Region) Index() int { return r.index }

func (r *Region) NumBlocks() int { return len(r.blocks) }

func (r *Region) Blocks() []*Block { return slices.Clone(r.blocks) }

func (r *Region) Block(i int) *Block {
	if i < 0 || i >= len(r.blocks) {
		return nil
	}
	return r.blocks[i]
}

// Entry returns the first block, nil for an empty region.
func (r *Region) Entry() *Block { return r.Block(0) }

// AddBlock appends b. A block belongs to at most one region and cannot
// hold an operation that encloses r.
func (r *Region) AddBlock(b *Block) {
	if b.region != nil {
		panic("ir: block already belongs to a region")
	}
	if enclosing(r, func(owner *Operation) bool { return owner.block == b }) {
		panic("ir: block holds an operation that encloses the region")
	}
	release := r.guard.borrowMut("region")
	defer release()
	b.region = r
	r.blocks = append(r.blocks, b)
}

// NewBlock creates a block and appends it.
func (r *Region) NewBlock(label string, args ...BlockArg) *Block {
	b := NewBlock(r.ctx, label, args...)
	r.AddBlock(b)
	return b
}

func (r *Region) BlockByLabel(label string) (*Block, bool) {
	for _, b := range r.blocks {
		if b.label == label {
			return b, true
		}
	}
	return nil, false
}

// IndexOf returns the position of b, -1 if b is not in r.
func (r *Region) IndexOf(b *Block) int { return slices.Index(r.blocks, b) }

// Contains reports whether b belongs to r.
func (r *Region) Contains(b *Block) bool { return b != nil && b.region == r }

func (r *Region) String() string {
	p := NewPrinter()
	p.PrintRegion(r)
	return p.String()
}
