package ir

import (
	"errors"
	"fmt"
)

// ValidationKind classifies a ValidationError.
type ValidationKind uint8

const (
	// BlockNotRegisteredWithRegion: a block operand or successor names a
	// block outside the region that holds the operation.
	BlockNotRegisteredWithRegion ValidationKind = iota + 1
	// BlockMissingTerminator: a block of a terminated region does not end
	// with a Terminator.
	BlockMissingTerminator
	// RegionShape: region count, block count or entry arguments disagree
	// with the region specs.
	RegionShape
	// OpInvalid: fields disagree with the OpInfo, a value operand dangles,
	// or the kind's OpValidator failed.
	OpInvalid
)

func (k ValidationKind) String() string {
	switch k {
	case BlockNotRegisteredWithRegion:
		return "block not registered with region"
	case BlockMissingTerminator:
		return "block missing terminator"
	case RegionShape:
		return "region shape"
	case OpInvalid:
		return "invalid operation"
	}
	return fmt.Sprintf("ValidationKind(%d)", uint8(k))
}

// ValidationError is one structural problem found by Validate.
type ValidationError struct {
	Kind   ValidationKind
	Op     AllocID
	OpName string
	Region int // -1 when not region specific
	Block  int // -1 when not block specific
	Detail string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("ir: %s %s: %s", e.OpName, e.Op, e.Kind)
	if e.Region >= 0 {
		msg += fmt.Sprintf(" (region %d", e.Region)
		if e.Block >= 0 {
			msg += fmt.Sprintf(", block %d", e.Block)
		}
		msg += ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks the structural invariants of root and everything nested
// in it. All problems are reported, joined with errors.Join.
func Validate(root Op) error {
	var errs []error
	Walk(root, func(op *Operation) {
		errs = append(errs, validateOp(op)...)
	})
	return errors.Join(errs...)
}

func validateOp(op *Operation) []error {
	var errs []error
	fail := func(kind ValidationKind, region, block int, err error, detail string) {
		if detail == "" && err != nil {
			detail = err.Error()
		}
		errs = append(errs, &ValidationError{
			Kind: kind, Op: op.id, OpName: op.Name(),
			Region: region, Block: block, Detail: detail, Err: err,
		})
	}

	info := op.info
	if err := checkFields(info, op.attrs, op.result.IsValid(), len(op.operands)); err != nil {
		fail(OpInvalid, -1, -1, err, "")
	}
	if len(op.regions) != len(info.Regions) {
		fail(RegionShape, -1, -1, nil, fmt.Sprintf("expected %d regions, found %d", len(info.Regions), len(op.regions)))
	}
	for ri, r := range op.regions {
		if ri >= len(info.Regions) {
			break
		}
		spec := info.Regions[ri]
		if spec.SingleBlock && len(r.blocks) != 1 {
			fail(RegionShape, ri, -1, nil, fmt.Sprintf("%s must have exactly one block, found %d", spec.Name, len(r.blocks)))
		}
		if spec.NoArgs && len(r.blocks) > 0 && len(r.blocks[0].args) > 0 {
			fail(RegionShape, ri, 0, nil, fmt.Sprintf("entry block of %s takes no arguments", spec.Name))
		}
		if !spec.Terminated {
			continue
		}
		for bi, b := range r.blocks {
			last := b.Last()
			if last == nil || !Has[Terminator](last) {
				fail(BlockMissingTerminator, ri, bi, nil, "")
			}
		}
	}

	var home *Region
	if op.block != nil {
		home = op.block.region
	}
	checked := make(map[*Block]bool)
	checkBlock := func(b *Block) {
		if checked[b] {
			return
		}
		checked[b] = true
		if home == nil || !home.Contains(b) {
			label := "<unlabeled>"
			if b != nil && b.label != "" {
				label = "^" + b.label
			}
			fail(BlockNotRegisteredWithRegion, -1, -1, nil, label)
		}
	}
	for _, v := range op.operands {
		switch v.kind {
		case OperandBlock:
			checkBlock(v.block)
		case OperandValue:
			if _, ok := op.ctx.LookupOp(v.op); !ok {
				fail(OpInvalid, -1, -1, nil, fmt.Sprintf("operand refers to missing operation %s", v.op))
			}
		case OperandBlockArg:
			if v.block == nil || v.index >= len(v.block.args) {
				fail(OpInvalid, -1, -1, nil, fmt.Sprintf("operand refers to missing block argument %d", v.index))
			}
		}
	}
	if term, ok := As[Terminator](op); ok {
		for _, b := range term.Successors() {
			checkBlock(b)
		}
	}
	if v, ok := As[OpValidator](op); ok {
		if err := v.Verify(); err != nil {
			fail(OpInvalid, -1, -1, err, "")
		}
	}
	return errs
}
