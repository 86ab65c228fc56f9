package passes

import (
	"context"
	"fmt"

	"tir/internal/trace"
	"tir/ir"
	"tir/pass"
)

// CanonicalizeConsts rewrites the value of every const whose result is
// !int<N> (N = 8, 16, 32 or 64) to the signed attribute kind of width N.
// A value that does not fit is an error.
var CanonicalizeConsts = pass.NewModulePass("canonicalize-consts", canonicalizeConsts)

func canonicalizeConsts(ctx context.Context, m ir.ModuleOp) error {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)
	rewritten := 0
	err := ir.WalkErr(m, func(op *ir.Operation) error {
		c, ok := ir.Cast[ir.ConstOp](op)
		if !ok {
			return nil
		}
		want, ok := canonicalKind(op)
		if !ok {
			return nil
		}
		v, err := c.Value()
		if err != nil {
			return err
		}
		if v.Kind() == want {
			return nil
		}
		nv, err := v.ConvertTo(want)
		if err != nil {
			return fmt.Errorf("const %s: %w", v, err)
		}
		op.SetAttr("value", nv)
		rewritten++
		trace.Point(tracer, trace.ScopeNode, "const", fmt.Sprintf("%s -> %s", v, nv), parent)
		return nil
	})
	trace.Point(tracer, trace.ScopeOp, "canonicalize-consts", fmt.Sprintf("rewritten=%d", rewritten), parent)
	return err
}

func canonicalKind(op *ir.Operation) (ir.AttrKind, bool) {
	rt, ok := op.Result()
	if !ok {
		return ir.AttrInvalid, false
	}
	it, ok := ir.AsIntType(rt)
	if !ok {
		return ir.AttrInvalid, false
	}
	bits, err := it.Bits()
	if err != nil {
		return ir.AttrInvalid, false
	}
	switch bits {
	case 8:
		return ir.AttrI8, true
	case 16:
		return ir.AttrI16, true
	case 32:
		return ir.AttrI32, true
	case 64:
		return ir.AttrI64, true
	}
	return ir.AttrInvalid, false
}
