package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tir/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Add("testdata/sample.tir", []byte("module {\n  foo.bar\n}\n"), 0)

	diags := []Diagnostic{
		NewError(ParUnknownDialect, source.Span{File: file, Start: 11, End: 14}, "unknown dialect 'foo'"),
		New(SevWarning, ValInfo, source.Span{File: file, Start: 0, End: 6}, "first\nsecond").
			WithNote(source.Span{File: file, Start: 9, End: 9}, "here"),
	}

	want := "warning VAL3000 testdata/sample.tir:1:1 first second\n" +
		"note VAL3000 testdata/sample.tir:2:1 here\n" +
		"error PAR2002 testdata/sample.tir:2:3 unknown dialect 'foo'"
	assert.Equal(t, want, FormatShort(diags, fs, true))
}

func TestBagLimitSortDedup(t *testing.T) {
	b := NewBag(3)
	sp := func(start uint32) source.Span { return source.Span{Start: start, End: start + 1} }

	require.True(t, b.Add(NewError(ParBadAttr, sp(5), "b")))
	require.True(t, b.Add(New(SevWarning, ParBadAttr, sp(1), "a")))
	require.True(t, b.Add(NewError(ParBadAttr, sp(5), "b")))
	assert.False(t, b.Add(NewError(ParBadAttr, sp(9), "c")), "limit reached")

	b.Dedup()
	b.Sort()
	require.Equal(t, 2, b.Len())
	assert.Equal(t, "a", b.Items()[0].Message)
	assert.True(t, b.HasErrors())
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	rb := ReportError(BagReporter{Bag: bag}, PasUnknownPass, source.Span{}, "unknown pass 'x'").
		WithNote(source.Span{}, "see `tir passes`")
	rb.Emit()
	rb.Emit()

	require.Equal(t, 1, bag.Len())
	assert.Len(t, bag.Items()[0].Notes, 1)
}

func TestCodeID(t *testing.T) {
	assert.Equal(t, "LEX1002", LexUnterminatedString.ID())
	assert.Equal(t, "PAR2003", ParUnknownOperation.ID())
	assert.Equal(t, "VAL3002", ValBlockMissingTerminator.ID())
	assert.Equal(t, "PAS4001", PasUnknownPass.ID())
	assert.Equal(t, "IO5002", IOBadBytecode.ID())
	assert.Equal(t, "Unknown error", Code(42).Title())
}

func TestSeverityLabels(t *testing.T) {
	assert.Equal(t, "ERROR", SevError.String())
	assert.Equal(t, "warning", SevWarning.Label())
	assert.Equal(t, "UNKNOWN", Severity(9).String())
	assert.True(t, SevError.IsError())
	assert.False(t, SevWarning.IsError())
}
