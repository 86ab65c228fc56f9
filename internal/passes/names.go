package passes

import (
	"context"

	"tir/ir"
	"tir/pass"
)

// StripNames drops result names, block labels and argument names so the
// printer numbers everything afresh.
var StripNames = pass.NewOpPass[ir.Op]("OpPass", "strip-names", "operation", func(_ context.Context, root ir.Op) error {
	ir.Walk(root, func(op *ir.Operation) {
		op.SetResultName("")
		for _, r := range op.Regions() {
			for _, b := range r.Blocks() {
				b.SetLabel("")
				for i := range b.NumArgs() {
					b.SetArgName(i, "")
				}
			}
		}
	})
	return nil
})
