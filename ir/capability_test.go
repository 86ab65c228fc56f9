package ir

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilityDispatchIsExhaustive(t *testing.T) {
	ctx := newTestContext(t)

	tests := []struct {
		info      *OpInfo
		label     string // "" when not labeled
		cost      int    // 0 when not costed
		capsCount int
	}{
		{alphaInfo, "alpha", 1, 2},
		{betaInfo, "beta", 0, 1},
		{gammaInfo, "", 3, 1},
		{deltaInfo, "", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.info.Name, func(t *testing.T) {
			op := mustOp(t, ctx, OperationState{Info: tt.info})

			l, ok := As[labeled](op)
			assert.Equal(t, tt.label != "", ok)
			assert.Equal(t, tt.label != "", Has[labeled](op))
			if ok {
				assert.Equal(t, tt.label, l.Label())
				assert.Same(t, op, l.Operation())
			}

			c, ok := As[costed](op)
			assert.Equal(t, tt.cost != 0, ok)
			if ok {
				assert.Equal(t, tt.cost, c.Cost())
			}

			assert.Len(t, CapabilitiesOf(op), tt.capsCount)
			assert.False(t, Has[Terminator](op))
		})
	}
}

func TestCapabilityTableOrder(t *testing.T) {
	got := alphaInfo.Capabilities()
	require.Len(t, got, 2)
	assert.Equal(t, reflect.TypeFor[labeled](), got[0])
	assert.Equal(t, reflect.TypeFor[costed](), got[1])
}

func TestDuplicateCapabilityPanics(t *testing.T) {
	assert.Panics(t, func() {
		DefineOp(OpInfo{Dialect: "test", Name: "dup"},
			func(op *Operation) alphaOp { return alphaOp{op} },
			Implements(func(op *Operation) labeled { return alphaOp{op} }),
			Implements(func(op *Operation) labeled { return alphaOp{op} }),
		)
	})
}

func TestCastSelectsConcreteKind(t *testing.T) {
	ctx := newTestContext(t)
	m := newModule(t, ctx)
	c, err := NewConstOp(ctx).Value(I8Attr(16)).ResultType(NewIntType(ctx, 8).Type).Build()
	require.NoError(t, err)
	m.Append(c)
	m.Append(mustOp(t, ctx, OperationState{Info: gammaInfo}))

	kind := func(op Op) string {
		if _, ok := Cast[ConstOp](op); ok {
			return "const"
		}
		if _, ok := Cast[ModuleOp](op); ok {
			return "module"
		}
		if g, ok := Cast[gammaOp](op); ok {
			return "gamma/" + g.Operation().Name()
		}
		return "other"
	}

	var got []string
	Walk(m, func(op *Operation) { got = append(got, kind(op)) })
	assert.Equal(t, []string{"const", "gamma/test.gamma", "module"}, got)

	_, ok := Cast[FuncOp](c)
	assert.False(t, ok)
	view, ok := c.Operation().View().(ConstOp)
	require.True(t, ok)
	assert.Equal(t, c, view)
}

func TestBuiltinCapabilities(t *testing.T) {
	ctx := New()
	ret, err := NewReturnOp(ctx).Build()
	require.NoError(t, err)
	term, ok := As[Terminator](ret)
	require.True(t, ok)
	assert.Empty(t, term.Successors())

	sig := NewFuncType(ctx, nil, NewVoidType(ctx).Type)
	fn, err := NewFunc(ctx, "main", sig)
	require.NoError(t, err)
	sym, ok := As[Symbol](fn)
	require.True(t, ok)
	name, err := sym.SymbolName()
	require.NoError(t, err)
	assert.Equal(t, "main", name)
	assert.True(t, Has[OpValidator](fn))

	c, err := NewConstOp(ctx).Value(U8Attr(1)).ResultType(NewIntType(ctx, 8).Type).Build()
	require.NoError(t, err)
	rt, ok := As[ResultTyped](c)
	require.True(t, ok)
	ty, err := rt.ResultType()
	require.NoError(t, err)
	assert.True(t, Isa[IntType](ty))
}
