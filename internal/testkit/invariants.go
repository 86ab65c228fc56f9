// Package testkit holds structural checks shared by tests of IR producers.
package testkit

import (
	"fmt"

	"tir/ir"
)

// CheckTreeInvariants verifies the ownership links of the tree under root:
//  1. every region points back at its operation and index
//  2. every block points back at its region
//  3. every operation points back at its block and shares root's context
//  4. value operands name live operations, block operands blocks of the tree
func CheckTreeInvariants(root ir.Op) error {
	if root == nil {
		return fmt.Errorf("nil root")
	}
	top := root.Operation()
	ctx := top.Context()
	blocks := make(map[*ir.Block]bool)
	var ops []*ir.Operation

	stack := []*ir.Operation{top}
	for len(stack) > 0 {
		op := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ops = append(ops, op)
		if op.Context() != ctx {
			return fmt.Errorf("%s %s: belongs to another context", op.Name(), op.ID())
		}
		for i, r := range op.Regions() {
			if r.ParentOp() != op || r.Index() != i {
				return fmt.Errorf("%s %s: region %d has parent %s index %d", op.Name(), op.ID(), i, r.Parent(), r.Index())
			}
			for j, b := range r.Blocks() {
				if b.Region() != r {
					return fmt.Errorf("%s %s: region %d block %d points at another region", op.Name(), op.ID(), i, j)
				}
				blocks[b] = true
				for _, child := range b.Ops() {
					if child.Parent() != b {
						return fmt.Errorf("%s %s: parent link does not match its block", child.Name(), child.ID())
					}
					stack = append(stack, child)
				}
			}
		}
	}

	for _, op := range ops {
		for i, v := range op.Operands() {
			switch v.Kind() {
			case ir.OperandValue:
				if _, ok := ctx.LookupOp(v.Op()); !ok {
					return fmt.Errorf("%s %s: operand %d names freed operation %s", op.Name(), op.ID(), i, v.Op())
				}
			case ir.OperandBlock, ir.OperandBlockArg:
				if !blocks[v.Block()] {
					return fmt.Errorf("%s %s: operand %d names a block outside the tree", op.Name(), op.ID(), i)
				}
				if v.Kind() == ir.OperandBlockArg && v.Index() >= v.Block().NumArgs() {
					return fmt.Errorf("%s %s: operand %d names missing block argument %d", op.Name(), op.ID(), i, v.Index())
				}
			}
		}
	}
	return nil
}
