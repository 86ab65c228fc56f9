package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"tir/internal/diag"
	"tir/internal/token"
)

const utf8RuneSelf = 0x80

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func (lx *Lexer) peekRune() (rune, int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	if b := lx.cursor.Peek(); b < utf8RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
}

func isNameRune(r rune, first bool) bool {
	if r < utf8RuneSelf {
		b := byte(r)
		return isIdentStartByte(b) || (!first && isDec(b))
	}
	return unicode.IsLetter(r) || (!first && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)))
}

// scanName consumes [_\pL][_\pL\pN]* and reports whether anything was read.
func (lx *Lexer) scanName() bool {
	start := lx.cursor.Off
	for {
		r, sz := lx.peekRune()
		if sz == 0 || !isNameRune(r, lx.cursor.Off == start) {
			break
		}
		lx.cursor.Off += uint32(sz) //nolint:gosec // rune size is at most 4
	}
	return lx.cursor.Off > start
}

// IsBareRef reports whether name can follow a sigil (%, ^, @, $) unquoted
// and read back unchanged: an NFC identifier or a run of decimal digits.
func IsBareRef(name string) bool {
	if name == "" || !norm.NFC.IsNormalString(name) {
		return false
	}
	if strings.IndexFunc(name, func(r rune) bool { return r < '0' || r > '9' }) < 0 {
		return true
	}
	for i, r := range name {
		if r == utf8.RuneError || !isNameRune(r, i == 0) {
			return false
		}
	}
	return true
}

// nameText returns the NFC form so visually equal names compare equal.
func (lx *Lexer) nameText(start, end uint32) string {
	raw := lx.file.Content[start:end]
	if norm.NFC.IsNormal(raw) {
		return string(raw)
	}
	return string(norm.NFC.Bytes(raw))
}

func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	if !lx.scanName() {
		_, sz := lx.peekRune()
		lx.cursor.Off += uint32(max(sz, 1)) //nolint:gosec // rune size is at most 4
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unexpected character %q", lx.file.Content[sp.Start:sp.End]))
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Ident, Span: sp, Text: lx.nameText(sp.Start, sp.End)}
}

var sigilKinds = map[byte]token.Kind{
	'%': token.ValueRef,
	'^': token.BlockRef,
	'@': token.SymbolRef,
	'$': token.RegRef,
}

// scanRef reads %name, ^name, @name or $name. Names may also be plain
// numbers (%0, $5) or string literals (@"my mod") kept byte for byte.
func (lx *Lexer) scanRef() token.Token {
	start := lx.cursor.Mark()
	kind := sigilKinds[lx.cursor.Bump()]
	if lx.cursor.Peek() == '"' {
		text, ok := lx.scanQuoted(start)
		sp := lx.cursor.SpanFrom(start)
		if !ok {
			return token.Token{Kind: token.Invalid, Span: sp}
		}
		return token.Token{Kind: kind, Span: sp, Text: text}
	}
	nameStart := lx.cursor.Off
	if !lx.scanName() {
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	if lx.cursor.Off == nameStart {
		lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("expected a name after %q", lx.file.Content[sp.Start]))
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.nameText(nameStart, sp.End)}
}

// scanNumber reads an optionally negative decimal or 0x-prefixed literal.
// The text keeps the source form; the parser converts it per target width.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Eat('-')
	digits := isDec
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits = isHex
	}
	n := 0
	for digits(lx.cursor.Peek()) {
		lx.cursor.Bump()
		n++
	}
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
		n = -1
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if n <= 0 {
		lx.errLex(diag.LexBadNumber, sp, fmt.Sprintf("malformed integer literal %q", text))
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: text}
}

// scanString decodes a double-quoted literal. The contents are kept byte
// for byte; only identifiers are normalized.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	text, ok := lx.scanQuoted(start)
	sp := lx.cursor.SpanFrom(start)
	if !ok {
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	return token.Token{Kind: token.StringLit, Span: sp, Text: text}
}

// scanQuoted decodes the literal at the cursor; start marks the token for
// error spans. Supported escapes: \" \\ \n \t \r \0 and \xHH. A bad
// escape is reported and skipped; only an unterminated literal fails.
func (lx *Lexer) scanQuoted(start Mark) (string, bool) {
	lx.cursor.Bump()

	var sb strings.Builder
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string literal")
			return "", false
		}
		b := lx.cursor.Bump()
		if b == '"' {
			return sb.String(), true
		}
		if b != '\\' {
			sb.WriteByte(b)
			continue
		}
		escStart := lx.cursor.Off - 1
		switch e := lx.cursor.Bump(); e {
		case '"', '\\':
			sb.WriteByte(e)
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case 'x':
			h0, h1, ok := lx.cursor.Peek2()
			if ok && isHex(h0) && isHex(h1) {
				v, _ := strconv.ParseUint(string([]byte{h0, h1}), 16, 8) //nolint:errcheck // validated above
				sb.WriteByte(byte(v))
				lx.cursor.Bump()
				lx.cursor.Bump()
				continue
			}
			fallthrough
		default:
			sp := lx.cursor.SpanFrom(Mark(escStart))
			lx.errLex(diag.LexBadEscape, sp, fmt.Sprintf("invalid escape sequence %q", lx.file.Content[sp.Start:sp.End]))
		}
	}
}

var punct = map[byte]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	'<': token.Lt,
	'>': token.Gt,
	',': token.Comma,
	':': token.Colon,
	'=': token.Assign,
	'.': token.Dot,
	'!': token.Bang,
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	if b == '-' && lx.cursor.Eat('>') {
		return token.Token{Kind: token.Arrow, Span: lx.cursor.SpanFrom(start), Text: "->"}
	}
	sp := lx.cursor.SpanFrom(start)
	if k, ok := punct[b]; ok {
		return token.Token{Kind: k, Span: sp, Text: string(b)}
	}
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unexpected character %q", b))
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(b)}
}
