package ir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrNarrowing(t *testing.T) {
	a := I8Attr(16)

	v, err := a.AsI8()
	require.NoError(t, err)
	assert.Equal(t, int8(16), v)

	_, err = a.AsU32()
	var kindErr *AttrKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, AttrU32, kindErr.Want)
	assert.Equal(t, AttrI8, kindErr.Got)

	_, err = StringAttr("x").AsBool()
	require.ErrorAs(t, err, &kindErr)
}

func TestAttrNegativeValues(t *testing.T) {
	v, err := I16Attr(-300).AsI16()
	require.NoError(t, err)
	assert.Equal(t, int16(-300), v)

	arr, err := I8ArrayAttr([]int8{-1, 0, 127}).AsI8Array()
	require.NoError(t, err)
	assert.Equal(t, []int8{-1, 0, 127}, arr)

	n, err := I32Attr(-7).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(-7), n)
}

func TestAttrConvertTo(t *testing.T) {
	wide, err := I8Attr(100).ConvertTo(AttrU64)
	require.NoError(t, err)
	u, err := wide.AsU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), u)

	_, err = I32Attr(300).ConvertTo(AttrI8)
	var rangeErr *AttrRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, AttrI8, rangeErr.Kind)

	_, err = I8Attr(-1).ConvertTo(AttrU8)
	require.ErrorAs(t, err, &rangeErr)

	_, err = U64Attr(1 << 63).ConvertTo(AttrI64)
	require.ErrorAs(t, err, &rangeErr)

	_, err = StringAttr("1").ConvertTo(AttrI8)
	var kindErr *AttrKindError
	require.True(t, errors.As(err, &kindErr))
}

func TestIntAttrRange(t *testing.T) {
	a, err := IntAttr(AttrU16, 65535)
	require.NoError(t, err)
	assert.True(t, a.Equal(U16Attr(65535)))

	_, err = IntAttr(AttrU16, 65536)
	require.Error(t, err)
	_, err = UintAttr(AttrI64, 1<<63)
	require.Error(t, err)
	_, err = IntAttr(AttrString, 1)
	require.Error(t, err)
}

func TestAttrEqual(t *testing.T) {
	ctx := New()
	i8 := NewIntType(ctx, 8).Type
	tests := []struct {
		name string
		a, b Attr
		want bool
	}{
		{"same int", I8Attr(1), I8Attr(1), true},
		{"different width", I8Attr(1), I16Attr(1), false},
		{"strings", StringAttr("a"), StringAttr("a"), true},
		{"arrays", U32ArrayAttr([]uint32{1, 2}), U32ArrayAttr([]uint32{1, 2}), true},
		{"array order", U32ArrayAttr([]uint32{1, 2}), U32ArrayAttr([]uint32{2, 1}), false},
		{"types", TypeAttr(i8), TypeAttr(NewIntType(ctx, 8).Type), true},
		{"type widths", TypeAttr(i8), TypeAttr(NewIntType(ctx, 16).Type), false},
		{"type arrays", TypeArrayAttr([]Type{i8}), TypeArrayAttr([]Type{i8}), true},
		{"bools", BoolAttr(true), BoolAttr(false), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}

func TestParseAttrKind(t *testing.T) {
	for _, name := range []string{"str", "bool", "i8", "u64", "i16[]", "u32[]", "type", "type[]", "any", "int"} {
		k, ok := ParseAttrKind(name)
		require.True(t, ok, name)
		assert.Equal(t, name, k.String())
	}
	_, ok := ParseAttrKind("invalid")
	assert.False(t, ok)
	_, ok = ParseAttrKind("f32")
	assert.False(t, ok)

	assert.Equal(t, AttrU16, AttrU16Array.Elem())
	assert.Equal(t, 16, AttrU16Array.Bits())
	assert.True(t, AttrI64Array.IsSigned())
	assert.True(t, AttrAnyInt.Accepts(AttrU8))
	assert.False(t, AttrAnyInt.Accepts(AttrU8Array))
}

func TestAttrString(t *testing.T) {
	ctx := New()
	assert.Equal(t, `<str: "a\"b\n">`, StringAttr("a\"b\n").String())
	assert.Equal(t, "<i16[]: [1, -2]>", I16ArrayAttr([]int16{1, -2}).String())
	assert.Equal(t, "<type: !void>", TypeAttr(NewVoidType(ctx).Type).String())
	assert.Equal(t, "<bool: true>", BoolAttr(true).String())
}

func TestAttrMapOrder(t *testing.T) {
	var m AttrMap
	m.Set("b", I8Attr(1))
	m.Set("a", I8Attr(2))
	m.Set("b", I8Attr(3))
	assert.Equal(t, []string{"b", "a"}, m.Keys())
	v, ok := m.Get("b")
	require.True(t, ok)
	assert.True(t, v.Equal(I8Attr(3)))

	other := Attrs(AttrPair{"a", I8Attr(2)}, AttrPair{"b", I8Attr(3)})
	assert.True(t, m.Equal(other))

	c := m.Clone()
	c.Set("c", BoolAttr(true))
	assert.Equal(t, 2, m.Len())
	assert.False(t, m.Equal(c))
}

func TestAttrMapCopiesAreIndependent(t *testing.T) {
	m := Attrs(AttrPair{"a", I8Attr(1)}, AttrPair{"b", I8Attr(2)})

	added := m
	added.Set("k", BoolAttr(true))
	replaced := m
	replaced.Set("a", I8Attr(9))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.False(t, m.Has("k"))
	v, _ := m.Get("a")
	assert.True(t, v.Equal(I8Attr(1)))
	n := 0
	for range m.All() {
		n++
	}
	assert.Equal(t, m.Len(), n)

	assert.Equal(t, []string{"a", "b", "k"}, added.Keys())
	v, _ = replaced.Get("a")
	assert.True(t, v.Equal(I8Attr(9)))
	assert.False(t, m.Equal(replaced))
}
