// Package fuzztests holds fuzz harnesses for the input paths of tir: the
// lexer, the textual IR parser and the bytecode decoder. They guard against
// panics and hangs on arbitrary input.
package fuzztests
