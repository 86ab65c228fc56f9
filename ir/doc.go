// Package ir is an extensible intermediate representation core.
//
// A graph is a tree of operations: an Operation owns Regions, a Region owns
// Blocks and a Block holds an ordered list of child operations. Every
// operation lives in the arena of its Context and is addressed by a stable
// AllocID; the tree owns downward and all other references (values, parent
// operations) are handles or non-owning pointers.
//
// Dialects extend the core at runtime. A Dialect registers operation kinds
// (described by a static *OpInfo) and type kinds together with their textual
// assembly functions. The builtin dialect is always registered first and
// provides module, module_end, const, func and return operations and the
// void, int and func types.
//
// Behaviors shared across dialects are modeled as capabilities: Go interfaces
// that an operation kind publishes in its OpInfo. As[I] resolves a capability
// for a generic operation:
//
//	if term, ok := ir.As[ir.Terminator](op); ok {
//		_ = term.Successors()
//	}
//
// Structural invariants are not enforced while building; Validate checks
// them on request.
//
// A Context and everything reachable from it must be used from one goroutine
// at a time.
package ir
