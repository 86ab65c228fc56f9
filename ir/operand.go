package ir

import "fmt"

// OperandKind tags an Operand.
type OperandKind uint8

const (
	OperandValue    OperandKind = iota // result of another operation
	OperandBlockArg                    // argument of a block
	OperandBlock                       // successor block
	OperandRegister                    // named register, opaque to the core
)

func (k OperandKind) String() string {
	switch k {
	case OperandValue:
		return "value"
	case OperandBlockArg:
		return "block-arg"
	case OperandBlock:
		return "block"
	case OperandRegister:
		return "register"
	}
	return fmt.Sprintf("OperandKind(%d)", uint8(k))
}

// Operand references a value, a block or a register.
type Operand struct {
	kind  OperandKind
	op    AllocID
	block *Block
	index int
	reg   string
}

// ValueOperand refers to the value defined by op.
func ValueOperand(op Op) Operand {
	return Operand{kind: OperandValue, op: op.Operation().ID()}
}

// ValueOperandID refers to the value defined by the operation id.
func ValueOperandID(id AllocID) Operand { return Operand{kind: OperandValue, op: id} }

// BlockArgOperand refers to argument i of b.
func BlockArgOperand(b *Block, i int) Operand {
	return Operand{kind: OperandBlockArg, block: b, index: i}
}

// BlockOperand refers to b as a successor.
func BlockOperand(b *Block) Operand { return Operand{kind: OperandBlock, block: b} }

func RegisterOperand(name string) Operand { return Operand{kind: OperandRegister, reg: name} }

func (v Operand) Kind() OperandKind { return v.kind }

// Op returns the defining operation handle of a value operand.
func (v Operand) Op() AllocID { return v.op }

// Block returns the block of a block or block-arg operand.
func (v Operand) Block() *Block { return v.block }

// Index returns the argument index of a block-arg operand.
func (v Operand) Index() int { return v.index }

func (v Operand) Register() string { return v.reg }

// Value returns the SSA value the operand reads, for value and block-arg
// operands.
func (v Operand) Value() (Value, bool) {
	switch v.kind {
	case OperandValue:
		return Value{def: v.op}, true
	case OperandBlockArg:
		return Value{block: v.block, arg: v.index}, true
	}
	return Value{}, false
}

// Value is a definition site: an operation result or a block argument.
type Value struct {
	def   AllocID
	block *Block
	arg   int
}

// DefiningOp returns the handle of the defining operation, or NoAlloc for a
// block argument.
func (v Value) DefiningOp() AllocID { return v.def }

// BlockArg returns the block and index of a block argument value.
func (v Value) BlockArg() (*Block, int, bool) {
	return v.block, v.arg, v.block != nil
}

// Type resolves the value type. Operation results prefer the ResultTyped
// capability and fall back to the stored result type.
func (v Value) Type(ctx *Context) (Type, error) {
	if v.block != nil {
		arg, ok := v.block.Arg(v.arg)
		if !ok {
			return Type{}, fmt.Errorf("ir: block has no argument %d", v.arg)
		}
		return arg.Type, nil
	}
	op, ok := ctx.LookupOp(v.def)
	if !ok {
		return Type{}, fmt.Errorf("ir: no operation %s", v.def)
	}
	if rt, ok := As[ResultTyped](op); ok {
		return rt.ResultType()
	}
	if t, ok := op.Result(); ok {
		return t, nil
	}
	return Type{}, fmt.Errorf("ir: %s does not define a value", op.Name())
}
