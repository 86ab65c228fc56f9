package ir

import (
	"errors"
	"testing"
)

// Capabilities private to the fixture dialect.
type labeled interface {
	Op
	Label() string
}

type costed interface {
	Op
	Cost() int
}

type alphaOp struct{ op *Operation }

func (o alphaOp) Operation() *Operation { return o.op }
func (o alphaOp) Label() string         { return "alpha" }
func (o alphaOp) Cost() int             { return 1 }

type betaOp struct{ op *Operation }

func (o betaOp) Operation() *Operation { return o.op }
func (o betaOp) Label() string         { return "beta" }

type gammaOp struct{ op *Operation }

func (o gammaOp) Operation() *Operation { return o.op }
func (o gammaOp) Cost() int             { return 3 }

type deltaOp struct{ op *Operation }

func (o deltaOp) Operation() *Operation { return o.op }

// brOp jumps to the blocks named by its block operands.
type brOp struct{ op *Operation }

func (o brOp) Operation() *Operation { return o.op }

func (o brOp) Successors() []*Block {
	var out []*Block
	for _, v := range o.op.Operands() {
		if v.Kind() == OperandBlock {
			out = append(out, v.Block())
		}
	}
	return out
}

// addOp has two operands and a result.
type addOp struct{ op *Operation }

func (o addOp) Operation() *Operation { return o.op }

// checkedOp fails verification when its "ok" attribute is false.
type checkedOp struct{ op *Operation }

func (o checkedOp) Operation() *Operation { return o.op }

func (o checkedOp) Verify() error {
	a, _ := o.op.Attr("ok")
	if ok, err := a.AsBool(); err != nil || !ok {
		return errors.New("checked op is not ok")
	}
	return nil
}

// regionOp owns one region whose blocks must be terminated.
type regionOp struct{ op *Operation }

func (o regionOp) Operation() *Operation { return o.op }

var (
	alphaInfo = DefineOp(OpInfo{Dialect: "test", Name: "alpha", Operands: Variadic},
		func(op *Operation) alphaOp { return alphaOp{op} },
		Implements(func(op *Operation) labeled { return alphaOp{op} }),
		Implements(func(op *Operation) costed { return alphaOp{op} }),
	)
	betaInfo = DefineOp(OpInfo{Dialect: "test", Name: "beta", Operands: Variadic},
		func(op *Operation) betaOp { return betaOp{op} },
		Implements(func(op *Operation) labeled { return betaOp{op} }),
	)
	gammaInfo = DefineOp(OpInfo{Dialect: "test", Name: "gamma", Operands: Variadic},
		func(op *Operation) gammaOp { return gammaOp{op} },
		Implements(func(op *Operation) costed { return gammaOp{op} }),
	)
	deltaInfo = DefineOp(OpInfo{Dialect: "test", Name: "delta", Operands: Variadic},
		func(op *Operation) deltaOp { return deltaOp{op} },
	)
	brInfo = DefineOp(OpInfo{Dialect: "test", Name: "br", Operands: Variadic},
		func(op *Operation) brOp { return brOp{op} },
		Implements(func(op *Operation) Terminator { return brOp{op} }),
	)
	addInfo = DefineOp(OpInfo{Dialect: "test", Name: "add", Operands: 2, Result: ResultRequired},
		func(op *Operation) addOp { return addOp{op} },
	)
	checkedInfo = DefineOp(OpInfo{
		Dialect: "test",
		Name:    "checked",
		Attrs:   []AttrSpec{{Name: "ok", Kind: AttrBool, Required: true}},
	},
		func(op *Operation) checkedOp { return checkedOp{op} },
		Implements(func(op *Operation) OpValidator { return checkedOp{op} }),
	)
	regionInfo = DefineOp(OpInfo{
		Dialect: "test",
		Name:    "region",
		Regions: []RegionSpec{{Name: "body", Terminated: true}},
	},
		func(op *Operation) regionOp { return regionOp{op} },
	)
)

// Type kinds of the fixture dialect.
type testAType struct{ Type }

func (testAType) TypeDialect() string { return "test" }
func (testAType) TypeName() string    { return "a" }

type testBType struct{ Type }

func (testBType) TypeDialect() string { return "test" }
func (testBType) TypeName() string    { return "b" }

func newTestDialect() *Dialect {
	d := NewDialect("test")
	for _, info := range []*OpInfo{alphaInfo, betaInfo, gammaInfo, deltaInfo, brInfo, addInfo, checkedInfo, regionInfo} {
		d.AddOperation(info.Name, OpDef{Info: info})
	}
	d.AddType("a", TypeDef{})
	d.AddType("b", TypeDef{})
	d.AddType("pair", TypeDef{})
	return d
}

func newTestContext(t *testing.T) *Context {
	t.Helper()
	ctx := New()
	ctx.AddDialect(newTestDialect())
	return ctx
}

// mustOp creates an operation of info or fails the test.
func mustOp(t *testing.T, ctx *Context, st OperationState) *Operation {
	t.Helper()
	op, err := ctx.CreateOperation(st)
	if err != nil {
		t.Fatalf("create %s: %v", st.Info.QualifiedName(), err)
	}
	return op
}

// newModule returns an anonymous module.
func newModule(t *testing.T, ctx *Context) ModuleOp {
	t.Helper()
	m, err := NewModule(ctx, "")
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	return m
}
