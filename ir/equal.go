package ir

// StructurallyEqual reports whether two trees have the same operation
// kinds, attributes, result types, region and block layout, block argument
// types and operands. Value and block references are compared by position
// in their tree, so the trees may live in different Contexts. Result names
// and block labels are ignored.
func StructurallyEqual(a, b Op) bool {
	na, nb := numberTree(a.Operation()), numberTree(b.Operation())
	if len(na.ops) != len(nb.ops) || len(na.blockOrder) != len(nb.blockOrder) {
		return false
	}
	for i := range na.ops {
		if !sameOp(na, nb, na.ops[i], nb.ops[i]) {
			return false
		}
	}
	for i := range na.blockOrder {
		if !sameBlock(na, nb, na.blockOrder[i], nb.blockOrder[i]) {
			return false
		}
	}
	return true
}

type numbering struct {
	ops        []*Operation
	opIndex    map[AllocID]int
	blockOrder []*Block
	blockIndex map[*Block]int
}

// numberTree lists operations and blocks in pre-order.
func numberTree(root *Operation) *numbering {
	n := &numbering{opIndex: make(map[AllocID]int), blockIndex: make(map[*Block]int)}
	stack := []*Operation{root}
	for len(stack) > 0 {
		op := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n.opIndex[op.id] = len(n.ops)
		n.ops = append(n.ops, op)
		var children []*Operation
		for _, r := range op.regions {
			for _, b := range r.blocks {
				n.blockIndex[b] = len(n.blockOrder)
				n.blockOrder = append(n.blockOrder, b)
				for _, id := range b.ops {
					children = append(children, op.ctx.Op(id))
				}
			}
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return n
}

func sameOp(na, nb *numbering, x, y *Operation) bool {
	if x.info != y.info || len(x.regions) != len(y.regions) || len(x.operands) != len(y.operands) {
		return false
	}
	if !x.attrs.Equal(y.attrs) || x.result.IsValid() != y.result.IsValid() || !x.result.Equal(y.result) {
		return false
	}
	for i := range x.regions {
		rx, ry := x.regions[i], y.regions[i]
		if len(rx.blocks) != len(ry.blocks) {
			return false
		}
		for j := range rx.blocks {
			if na.blockIndex[rx.blocks[j]] != nb.blockIndex[ry.blocks[j]] {
				return false
			}
		}
	}
	for i := range x.operands {
		if !sameOperand(na, nb, x.operands[i], y.operands[i]) {
			return false
		}
	}
	return true
}

func sameBlock(na, nb *numbering, x, y *Block) bool {
	if len(x.args) != len(y.args) || len(x.ops) != len(y.ops) {
		return false
	}
	for i := range x.args {
		if !x.args[i].Type.Equal(y.args[i].Type) {
			return false
		}
	}
	for i := range x.ops {
		if na.opIndex[x.ops[i]] != nb.opIndex[y.ops[i]] {
			return false
		}
	}
	return true
}

func sameOperand(na, nb *numbering, x, y Operand) bool {
	if x.kind != y.kind {
		return false
	}
	switch x.kind {
	case OperandValue:
		ix, okx := na.opIndex[x.op]
		iy, oky := nb.opIndex[y.op]
		if okx != oky {
			return false
		}
		if !okx {
			return x.op == y.op
		}
		return ix == iy
	case OperandBlockArg:
		return x.index == y.index && sameBlockRef(na, nb, x.block, y.block)
	case OperandBlock:
		return sameBlockRef(na, nb, x.block, y.block)
	case OperandRegister:
		return x.reg == y.reg
	}
	return false
}

func sameBlockRef(na, nb *numbering, x, y *Block) bool {
	ix, okx := na.blockIndex[x]
	iy, oky := nb.blockIndex[y]
	if okx != oky {
		return false
	}
	if !okx {
		return x == y
	}
	return ix == iy
}
