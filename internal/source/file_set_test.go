package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSetVersions(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.Add("a.tir", []byte("module {\n}\n"), 0)
	id2 := fs.Add("./a.tir", []byte("module {}\n"), 0)

	require.NotEqual(t, id1, id2)
	latest, ok := fs.Lookup("a.tir")
	require.True(t, ok)
	assert.Equal(t, id2, latest)
	assert.Equal(t, "module {\n}\n", string(fs.Get(id1).Content))
}

func TestPosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("<test>", []byte("ab\ncd\n\nef"))
	f := fs.Get(id)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // the newline itself
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Position(tt.off), "offset %d", tt.off)
	}

	start, end := fs.Resolve(Span{File: id, Start: 3, End: 5})
	assert.Equal(t, LineCol{2, 1}, start)
	assert.Equal(t, LineCol{2, 3}, end)
}

func TestLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("<test>", []byte("first\nsecond\nthird")))

	assert.Equal(t, "first", f.Line(1))
	assert.Equal(t, "second", f.Line(2))
	assert.Equal(t, "third", f.Line(3))
	assert.Empty(t, f.Line(0))
	assert.Empty(t, f.Line(4))
}

func TestNormalize(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a\r\nb\rc")...)
	out, flags := Normalize(in)

	assert.Equal(t, "a\nb\rc", string(out))
	assert.NotZero(t, flags&FileHadBOM)
	assert.NotZero(t, flags&FileNormalizedCRLF)
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	assert.Equal(t, Span{File: 1, Start: 2, End: 8}, a.Cover(Span{File: 1, Start: 2, End: 5}))
	assert.Equal(t, a, a.Cover(Span{File: 2, Start: 0, End: 20}))
	assert.Equal(t, uint32(4), a.Len())
}
