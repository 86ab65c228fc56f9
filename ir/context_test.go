package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectIDsAreSequential(t *testing.T) {
	ctx := New()
	assert.Equal(t, BuiltinDialectID, ctx.Builtin().ID())

	for i, name := range []string{"one", "two", "three"} {
		d := ctx.AddDialect(NewDialect(name))
		assert.Equal(t, DialectID(i+1), d.ID())
		got, ok := ctx.Dialect(d.ID())
		require.True(t, ok)
		assert.Same(t, d, got)
	}
	_, ok := ctx.DialectByName("missing")
	assert.False(t, ok)
	_, ok = ctx.Dialect(42)
	assert.False(t, ok)
	assert.Len(t, ctx.Dialects(), 4)
}

func TestDialectRegistersOnce(t *testing.T) {
	ctx := New()
	d := ctx.AddDialect(NewDialect("x"))
	assert.Panics(t, func() { ctx.AddDialect(d) })
	assert.Panics(t, func() { New().AddDialect(d) })
	assert.Panics(t, func() { ctx.AddDialect(NewDialect("x")) })
	assert.Panics(t, func() { d.setID(9) })
	assert.Panics(t, func() { ctx.MustDialect("y") })
}

func TestDialectTables(t *testing.T) {
	ctx := newTestContext(t)
	d := ctx.MustDialect("test")

	id, ok := d.OperationID("gamma")
	require.True(t, ok)
	name, ok := d.OperationName(id)
	require.True(t, ok)
	assert.Equal(t, "gamma", name)
	def, ok := d.OpDef(id)
	require.True(t, ok)
	assert.Same(t, gammaInfo, def.Info)
	_, ok = d.OpDef(999)
	assert.False(t, ok)

	tid, ok := d.TypeID("b")
	require.True(t, ok)
	tname, ok := d.TypeName(tid)
	require.True(t, ok)
	assert.Equal(t, "b", tname)
	assert.Equal(t, []string{"a", "b", "pair"}, d.TypeNames())

	assert.Panics(t, func() { d.AddOperation("gamma", OpDef{Info: gammaInfo}) })
	assert.Panics(t, func() { d.AddType("a", TypeDef{}) })
}

func TestSimilarOperation(t *testing.T) {
	ctx := newTestContext(t)
	d := ctx.MustDialect("test")

	got, ok := d.SimilarOperation("gama")
	require.True(t, ok)
	assert.Equal(t, "gamma", got)

	got, ok = ctx.Builtin().SimilarOperation("modul")
	require.True(t, ok)
	assert.Equal(t, "module", got)

	_, ok = d.SimilarOperation("completely_unrelated_name")
	assert.False(t, ok)
}

func TestOpLookup(t *testing.T) {
	ctx := New()
	c, err := NewConstOp(ctx).Value(I8Attr(1)).ResultType(NewIntType(ctx, 8).Type).Build()
	require.NoError(t, err)

	assert.Same(t, c.Operation(), ctx.Op(c.Operation().ID()))
	_, ok := ctx.LookupOp(NoAlloc)
	assert.False(t, ok)
	_, ok = ctx.LookupOp(AllocID(ctx.NumOps() + 1))
	assert.False(t, ok)
	assert.Panics(t, func() { ctx.Op(AllocID(ctx.NumOps() + 1)) })
}

func TestIsa(t *testing.T) {
	ctx := newTestContext(t)
	d := ctx.MustDialect("test")
	a := d.Type("a", AttrMap{})
	b := d.Type("b", AttrMap{})
	i8 := NewIntType(ctx, 8).Type
	void := NewVoidType(ctx).Type

	assert.True(t, Isa[testAType](a))
	assert.False(t, Isa[testBType](a))
	assert.True(t, Isa[testBType](b))
	assert.False(t, Isa[testAType](b))

	assert.True(t, Isa[IntType](i8))
	assert.False(t, Isa[VoidType](i8))
	assert.True(t, Isa[VoidType](void))
	assert.False(t, Isa[IntType](a))
	assert.False(t, Isa[IntType](Type{}))

	// Same kind in a Context without the dialect.
	assert.False(t, Isa[testAType](NewVoidType(New()).Type))
}

func TestTypeEquality(t *testing.T) {
	ctx := newTestContext(t)
	d := ctx.MustDialect("test")

	assert.True(t, NewIntType(ctx, 8).Equal(NewIntType(ctx, 8).Type))
	assert.False(t, NewIntType(ctx, 8).Equal(NewIntType(ctx, 16).Type))
	assert.False(t, d.Type("a", AttrMap{}).Equal(d.Type("b", AttrMap{})))

	p1 := d.Type("pair", Attrs(AttrPair{"x", I8Attr(1)}))
	p2 := d.Type("pair", Attrs(AttrPair{"x", I8Attr(1)}))
	p3 := d.Type("pair", Attrs(AttrPair{"x", I8Attr(2)}))
	assert.True(t, p1.Equal(p2))
	assert.False(t, p1.Equal(p3))

	bits, err := NewIntType(ctx, 32).Bits()
	require.NoError(t, err)
	assert.Equal(t, uint32(32), bits)

	ft := NewFuncType(ctx, []Type{NewIntType(ctx, 8).Type}, NewVoidType(ctx).Type)
	inputs, err := ft.Inputs()
	require.NoError(t, err)
	assert.Len(t, inputs, 1)
	_, ok := AsFuncType(ft.Type)
	assert.True(t, ok)
	_, ok = AsIntType(ft.Type)
	assert.False(t, ok)
}

func TestTypeString(t *testing.T) {
	ctx := newTestContext(t)
	d := ctx.MustDialect("test")

	assert.Equal(t, "!void", NewVoidType(ctx).String())
	assert.Equal(t, "!int<8>", NewIntType(ctx, 8).String())
	ft := NewFuncType(ctx, []Type{NewIntType(ctx, 8).Type, NewVoidType(ctx).Type}, NewIntType(ctx, 1).Type)
	assert.Equal(t, "!func<(!int<8>, !void) -> !int<1>>", ft.String())
	assert.Equal(t, "!test.a", d.Type("a", AttrMap{}).String())
	assert.Equal(t, "!test.pair<x: <i8: 1>, y: <type: !void>>",
		d.Type("pair", Attrs(AttrPair{"x", I8Attr(1)}, AttrPair{"y", TypeAttr(NewVoidType(ctx).Type)})).String())
	assert.Equal(t, "int", NewIntType(ctx, 8).Name())
	assert.Equal(t, "test.b", d.Type("b", AttrMap{}).Name())
}
