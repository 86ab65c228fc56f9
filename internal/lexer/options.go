package lexer

import (
	"tir/internal/diag"
	"tir/internal/source"
)

// DefaultMaxTokenLen bounds a single token; longer ones are reported.
const DefaultMaxTokenLen = 1 << 16

type Options struct {
	Reporter    diag.Reporter // nil drops errors; lexing always continues
	MaxTokenLen int           // 0 means DefaultMaxTokenLen
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.NewError(code, sp, msg))
	}
}
