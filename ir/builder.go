package ir

// OpBuilder inserts operations at a moving position in a block.
type OpBuilder struct {
	ctx   *Context
	block *Block
	index int
}

// NewOpBuilder starts inserting at the beginning of block.
func NewOpBuilder(ctx *Context, block *Block) *OpBuilder {
	return &OpBuilder{ctx: ctx, block: block}
}

func (b *OpBuilder) Context() *Context { return b.ctx }
func (b *OpBuilder) Block() *Block     { return b.block }
func (b *OpBuilder) Index() int        { return b.index }

func (b *OpBuilder) SetInsertionPointToStart(block *Block) {
	b.block, b.index = block, 0
}

func (b *OpBuilder) SetInsertionPointToEnd(block *Block) {
	b.block, b.index = block, block.Len()
}

func (b *OpBuilder) SetInsertionPoint(block *Block, index int) {
	b.block, b.index = block, index
}

// Insert places op at the insertion point and moves past it.
func (b *OpBuilder) Insert(op Op) {
	b.block.Insert(b.index, op)
	b.index++
}

// InsertAll inserts ops in order.
func (b *OpBuilder) InsertAll(ops ...Op) {
	for _, op := range ops {
		b.Insert(op)
	}
}
