// Package trace records spans and point events while tir loads, validates
// and transforms IR.
//
//	tir opt --trace=- --trace-level=phase input.tir
//
// A Tracer comes from New and travels on a context.Context. Stream tracers
// write each event as it happens, ring tracers keep the tail in memory and
// a multi tracer feeds both. Scopes go from ScopeDriver (CLI) through
// ScopePass and ScopeOp down to ScopeNode, which only LevelDebug admits.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "pass:canonicalize-consts")
//	defer span.End("")
package trace
