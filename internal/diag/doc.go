// Package diag defines the diagnostic model shared by the IR loaders,
// validators and passes.
//
// A Diagnostic carries a Severity, a stable numeric Code, a short message,
// a primary source.Span and optional notes. Producers either build values
// with New/NewError or report through a Reporter (usually a BagReporter
// filling a Bag). Rendering lives in internal/diagfmt.
//
// Codes are grouped in ranges: 1000s lexical, 2000s parse, 3000s
// validation, 4000s pass pipeline, 5000s binary IR and I/O.
package diag
