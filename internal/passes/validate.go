package passes

import (
	"context"

	"tir/ir"
	"tir/pass"
)

// Validate fails when the module breaks a structural rule checked by
// ir.Validate.
var Validate = pass.NewModulePass("validate", func(_ context.Context, m ir.ModuleOp) error {
	return ir.Validate(m)
})
