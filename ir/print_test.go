package ir

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
}

// buildSample returns a module with a function, constants and a jump.
func buildSample(t *testing.T, ctx *Context) ModuleOp {
	t.Helper()
	m, err := NewModule(ctx, "sample")
	require.NoError(t, err)
	i8 := NewIntType(ctx, 8).Type

	c, err := NewConstOp(ctx).Value(I8Attr(16)).ResultType(i8).Build()
	require.NoError(t, err)
	m.Append(c)

	fn, err := NewFunc(ctx, "pick", NewFuncType(ctx, []Type{i8, i8}, i8))
	require.NoError(t, err)
	entry := fn.Entry()
	exit := fn.Body().NewBlock("exit", BlockArg{Name: "r", Type: i8})
	entry.Push(mustOp(t, ctx, OperationState{Info: brInfo, Operands: []Operand{BlockOperand(exit), BlockArgOperand(entry, 1)}}))
	ret, err := NewReturnOp(ctx).Operands(BlockArgOperand(exit, 0)).Build()
	require.NoError(t, err)
	exit.Push(ret)
	fn.Operation().SetAttr("inline", BoolAttr(true))
	m.Append(fn)

	sum := mustOp(t, ctx, OperationState{
		Info:     addInfo,
		Operands: []Operand{ValueOperand(c), ValueOperand(c)},
		Result:   i8,
		Attrs: Attrs(
			AttrPair{"tags", StringAttr("x\ty")},
			AttrPair{"lanes", U16ArrayAttr([]uint16{1, 2, 4})},
			AttrPair{"sig", TypeArrayAttr([]Type{i8, NewVoidType(ctx).Type})},
		),
	})
	m.Append(sum)
	m.Append(mustOp(t, ctx, OperationState{Info: deltaInfo, Operands: []Operand{RegisterOperand("r0"), ValueOperand(sum)}}))
	return m
}

func TestPrintSample(t *testing.T) {
	ctx := newTestContext(t)
	golden(t).Assert(t, "sample", []byte(Print(buildSample(t, ctx))))
}

func TestPrintConstScenario(t *testing.T) {
	ctx := New()
	m := newModule(t, ctx)
	c, err := NewConstOp(ctx).Value(I8Attr(16)).ResultType(NewVoidType(ctx).Type).Build()
	require.NoError(t, err)
	m.Append(c)

	assert.Equal(t, "module {\n  %0 = const attrs = {value = <i8: 16>} -> !void\n}\n", Print(m))
}

func TestPrintEmptyRegions(t *testing.T) {
	ctx := newTestContext(t)
	m := newModule(t, ctx)
	assert.Equal(t, "module {\n^bb0:\n}\n", Print(m))

	r := mustOp(t, ctx, OperationState{Info: regionInfo})
	assert.Equal(t, "test.region {\n}", r.String())
}

func TestPrintAvoidsNameClashes(t *testing.T) {
	ctx := New()
	m := newModule(t, ctx)
	named, err := NewConstOp(ctx).Value(I8Attr(1)).ResultType(NewIntType(ctx, 8).Type).Named("0").Build()
	require.NoError(t, err)
	m.Append(newConst(t, ctx, 2))
	m.Append(named)

	want := "module {\n" +
		"  %1 = const attrs = {value = <i8: 2>} -> !int<8>\n" +
		"  %0 = const attrs = {value = <i8: 1>} -> !int<8>\n" +
		"}\n"
	assert.Equal(t, want, Print(m))
}

// reparse prints m, parses the text into a fresh context and checks that
// the trees match.
func reparse(t *testing.T, m Op) (string, *Operation) {
	t.Helper()
	text := Print(m)
	got, err := ParseString(newTestContext(t), text)
	require.NoError(t, err, text)
	assert.True(t, StructurallyEqual(m, got), text)
	assert.Equal(t, text, Print(got))
	return text, got
}

func TestStringAttrsRoundTripByteForByte(t *testing.T) {
	ctx := New()
	m := newModule(t, ctx)
	for _, s := range []string{"é", "é", "ok", "\xff\x00q"} {
		c := newConst(t, ctx, 1)
		c.Operation().SetAttr("tag", StringAttr(s))
		m.Append(c)
	}

	_, got := reparse(t, m)
	tag, ok := got.Region(0).Entry().Op(0).Attr("tag")
	require.True(t, ok)
	s, err := tag.AsString()
	require.NoError(t, err)
	assert.Equal(t, "é", s)
}

func TestPrintQuotesAndRenamesNames(t *testing.T) {
	ctx := newTestContext(t)
	m, err := NewModule(ctx, "my mod")
	require.NoError(t, err)
	i8 := NewIntType(ctx, 8).Type

	x1, err := NewConstOp(ctx).Value(I8Attr(1)).ResultType(i8).Named("x").Build()
	require.NoError(t, err)
	x2, err := NewConstOp(ctx).Value(I8Attr(2)).ResultType(i8).Named("x").Build()
	require.NoError(t, err)
	odd, err := NewConstOp(ctx).Value(I8Attr(3)).ResultType(i8).Named("x_1").Build()
	require.NoError(t, err)
	m.Append(x1)
	m.Append(x2)
	m.Append(odd)

	fn, err := NewFunc(ctx, "a-b", NewFuncType(ctx, []Type{i8}, i8))
	require.NoError(t, err)
	fn.Entry().SetArgName(0, "x")
	one := fn.Body().NewBlock("next step", BlockArg{Name: "r", Type: i8})
	two := fn.Body().NewBlock("next step", BlockArg{Name: "r", Type: i8})
	fn.Entry().Push(mustOp(t, ctx, OperationState{Info: brInfo, Operands: []Operand{BlockOperand(one), BlockArgOperand(fn.Entry(), 0)}}))
	one.Push(mustOp(t, ctx, OperationState{Info: brInfo, Operands: []Operand{BlockOperand(two), BlockArgOperand(one, 0)}}))
	ret, err := NewReturnOp(ctx).Operands(BlockArgOperand(two, 0)).Build()
	require.NoError(t, err)
	two.Push(ret)
	m.Append(fn)
	m.Append(mustOp(t, ctx, OperationState{Info: deltaInfo, Operands: []Operand{RegisterOperand("r 0"), ValueOperand(x2)}}))

	text, got := reparse(t, m)
	assert.Contains(t, text, `module @"my mod" {`)
	assert.Contains(t, text, `func @"a-b"(%x_3: !int<8>) -> !int<8> {`)
	assert.Contains(t, text, "%x = const")
	assert.Contains(t, text, "%x_2 = const")
	assert.Contains(t, text, "%x_1 = const")
	assert.Contains(t, text, `^"next step"(%r: !int<8>):`)
	assert.Contains(t, text, `^"next step_1"(%r_1: !int<8>):`)
	assert.Contains(t, text, `test.delta ($"r 0", %x_2)`)

	parsed, ok := Cast[ModuleOp](got)
	require.True(t, ok)
	name, err := parsed.SymName()
	require.NoError(t, err)
	assert.Equal(t, "my mod", name)
}

func TestPrintFuncEntryLabelAndDeclaration(t *testing.T) {
	ctx := newTestContext(t)
	m := newModule(t, ctx)
	i8 := NewIntType(ctx, 8).Type

	fn, err := NewFunc(ctx, "spin", NewFuncType(ctx, []Type{i8}, NewVoidType(ctx).Type))
	require.NoError(t, err)
	entry := fn.Entry()
	entry.SetLabel("top")
	back := fn.Body().NewBlock("back")
	entry.Push(mustOp(t, ctx, OperationState{Info: brInfo, Operands: []Operand{BlockOperand(back)}}))
	back.Push(mustOp(t, ctx, OperationState{Info: brInfo, Operands: []Operand{BlockOperand(entry)}}))
	m.Append(fn)

	unlabeled, err := NewFunc(ctx, "self", NewFuncType(ctx, nil, NewVoidType(ctx).Type))
	require.NoError(t, err)
	unlabeled.Entry().Push(mustOp(t, ctx, OperationState{Info: brInfo, Operands: []Operand{BlockOperand(unlabeled.Entry())}}))
	m.Append(unlabeled)

	decl, err := NewFuncOp(ctx).SymName("ext").FuncType(NewFuncType(ctx, []Type{i8, i8}, i8).Type).Build()
	require.NoError(t, err)
	require.Zero(t, decl.Body().NumBlocks())
	m.Append(decl)

	text, got := reparse(t, m)
	assert.Contains(t, text, "func @spin(%0: !int<8>) -> !void ^top {")
	assert.Contains(t, text, "test.br (^top)")
	assert.Contains(t, text, "func @self() -> !void ^bb0 {")
	assert.Contains(t, text, "func @ext(%1: !int<8>, %2: !int<8>) -> !int<8>\n")

	parsedDecl, ok := Cast[FuncOp](got.Region(0).Entry().Op(2))
	require.True(t, ok)
	assert.Zero(t, parsedDecl.Body().NumBlocks())
	parsedSpin, ok := Cast[FuncOp](got.Region(0).Entry().Op(0))
	require.True(t, ok)
	assert.Equal(t, "top", parsedSpin.Entry().Label())
}
