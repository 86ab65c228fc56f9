// Package passes holds the stock passes of the tir tool.
package passes

import (
	"sync"

	"tir/pass"
)

var registerOnce sync.Once

// Register adds the stock passes to the pass catalog. Calling it more than
// once has no further effect.
func Register() {
	registerOnce.Do(func() {
		pass.Register(Validate)
		pass.Register(CanonicalizeConsts)
		pass.Register(StripNames)
		pass.Register(OpStats)
	})
}
