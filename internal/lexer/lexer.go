package lexer

import (
	"fmt"

	"tir/internal/diag"
	"tir/internal/source"
	"tir/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token
}

func New(file *source.File, opts Options) *Lexer {
	if opts.MaxTokenLen <= 0 {
		opts.MaxTokenLen = DefaultMaxTokenLen
	}
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// File returns the file being scanned.
func (lx *Lexer) File() *source.File { return lx.file }

// Next returns the next significant token. After the end of input it keeps
// returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	var tok token.Token
	switch ch := lx.cursor.Peek(); {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdent()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '-':
		if _, b1, ok := lx.cursor.Peek2(); ok && isDec(b1) {
			tok = lx.scanNumber()
		} else {
			tok = lx.scanPunct()
		}
	case ch == '"':
		tok = lx.scanString()
	case ch == '%' || ch == '^' || ch == '@' || ch == '$':
		tok = lx.scanRef()
	default:
		tok = lx.scanPunct()
	}

	if sp := tok.Span; int(sp.Len()) > lx.opts.MaxTokenLen {
		lx.errLex(diag.LexTokenTooLong, sp, fmt.Sprintf("token is %d bytes long, limit is %d", sp.Len(), lx.opts.MaxTokenLen))
		tok.Kind = token.Invalid
	}
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		t := lx.Next()
		lx.look = &t
	}
	return *lx.look
}

// skipTrivia drops whitespace and // line comments.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case ' ', '\t', '\n', '\r':
			lx.cursor.Bump()
		case '/':
			b0, b1, ok := lx.cursor.Peek2()
			if !ok || b0 != '/' || b1 != '/' {
				return
			}
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		default:
			return
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
