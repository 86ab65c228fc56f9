package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "'->'", Arrow.String())
	assert.Equal(t, "end of input", EOF.String())
	assert.Equal(t, "unknown", Kind(200).String())
}

func TestTokenIs(t *testing.T) {
	tok := Token{Kind: ValueRef, Text: "x"}
	assert.True(t, tok.IsRef())
	assert.True(t, tok.Is(Ident, ValueRef))
	assert.False(t, tok.Is(Ident))
}
