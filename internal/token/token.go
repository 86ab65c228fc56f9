package token

import "tir/internal/source"

// Token is a single lexeme. For sigil-prefixed references and string
// literals Text holds the name or decoded value without the sigil/quotes;
// Span always covers the raw source.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// IsRef reports whether the token is one of the sigil references.
func (t Token) IsRef() bool {
	return t.Is(ValueRef, BlockRef, SymbolRef, RegRef)
}
