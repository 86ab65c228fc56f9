package ir

import (
	"errors"
	"fmt"
	"slices"

	"tir/internal/diag"
	"tir/internal/source"
)

// BuiltinDialectName names the dialect registered first in every Context.
// Its operation and type names print without a prefix.
const BuiltinDialectName = "builtin"

func newBuiltinDialect() *Dialect {
	d := NewDialect(BuiltinDialectName)
	registerBuiltinTypes(d)
	registerBuiltinOps(d)
	return d
}

//go:generate go run ../cmd/tirgen --schema builtin_ops.toml --out zz_builtin_ops.go

// Module

// NewModule creates a module with an empty body block. An empty name leaves
// the module anonymous.
func NewModule(ctx *Context, name string) (ModuleOp, error) {
	b := NewModuleOp(ctx)
	if name != "" {
		b.SymName(name)
	}
	return b.Build()
}

// Block returns the body block.
func (o ModuleOp) Block() *Block { return o.Body().Entry() }

// Append pushes op at the end of the body.
func (o ModuleOp) Append(op Op) { o.Block().Push(op) }

func printModuleOp(p *Printer, op *Operation) {
	p.WriteString(op.Name())
	if a, ok := op.Attr("sym_name"); ok && a.Kind() == AttrString {
		s, _ := a.AsString()
		p.WriteString(" ")
		p.PrintRef('@', s)
	}
	p.WriteString(" ")
	p.PrintRegion(op.Region(0))
	printExtraAttrs(p, op, "sym_name")
}

func parseModuleOp(p *Parser, info *OpInfo) (*Operation, error) {
	start := p.Span()
	st := OperationState{Info: info}
	if p.AtSymbol() {
		name, err := p.ParseSymbolName()
		if err != nil {
			return nil, err
		}
		st.Attrs.Set("sym_name", StringAttr(name))
	}
	body, err := p.ParseRegion()
	if err != nil {
		return nil, err
	}
	st.Regions = []*Region{body}
	if err := parseExtraAttrs(p, &st.Attrs); err != nil {
		return nil, err
	}
	return p.CreateOperation(st, start)
}

func (ModuleEndOp) Successors() []*Block { return nil }

// Const

// ResultType returns the declared type of the constant.
func (o ConstOp) ResultType() (Type, error) {
	t, ok := o.op.Result()
	if !ok {
		return Type{}, &MissingFieldError{Op: o.op.Name(), Field: "result", What: "result type"}
	}
	return t, nil
}

// Func

// NewFunc creates a function whose entry block takes the signature inputs.
func NewFunc(ctx *Context, name string, sig FuncType) (FuncOp, error) {
	inputs, err := sig.Inputs()
	if err != nil {
		return FuncOp{}, err
	}
	args := make([]BlockArg, len(inputs))
	for i, t := range inputs {
		args[i] = BlockArg{Type: t}
	}
	body := NewRegion(ctx)
	body.NewBlock("", args...)
	return NewFuncOp(ctx).SymName(name).FuncType(sig.Type).Body(body).Build()
}

func (o FuncOp) SymbolName() (string, error) { return o.SymName() }

// Signature returns func_type as a FuncType.
func (o FuncOp) Signature() (FuncType, error) {
	t, err := o.FuncType()
	if err != nil {
		return FuncType{}, err
	}
	ft, ok := AsFuncType(t)
	if !ok {
		return FuncType{}, fmt.Errorf("ir: func_type of %s is %s, not a function type", o.op.Name(), t)
	}
	return ft, nil
}

// Entry returns the entry block, nil if the body is empty.
func (o FuncOp) Entry() *Block { return o.Body().Entry() }

// Verify checks that the entry block arguments match the signature inputs.
func (o FuncOp) Verify() error {
	sig, err := o.Signature()
	if err != nil {
		return err
	}
	inputs, err := sig.Inputs()
	if err != nil {
		return err
	}
	entry := o.Entry()
	if entry == nil {
		return errors.New("function body has no entry block")
	}
	if entry.NumArgs() != len(inputs) {
		return fmt.Errorf("entry block takes %d arguments, signature has %d inputs", entry.NumArgs(), len(inputs))
	}
	for i, in := range inputs {
		if a, _ := entry.Arg(i); !a.Type.Equal(in) {
			return fmt.Errorf("entry argument %d is %s, signature says %s", i, a.Type, in)
		}
	}
	return nil
}

// func @name(%a: !t, ...) -> !ret [^entry] { body } [attrs = {...}]
//
// A function without blocks prints no body and reads back as one.
func printFuncOp(p *Printer, op *Operation) {
	f := FuncOp{op}
	p.WriteString(op.Name() + " ")
	name, _ := f.SymName()
	p.PrintRef('@', name)
	p.WriteString("(")
	sig, sigErr := f.Signature()
	entry := f.Entry()
	if entry != nil {
		p.PrintBlockArgs(entry)
	} else if sigErr == nil {
		inputs, _ := sig.Inputs()
		for i, t := range inputs {
			if i > 0 {
				p.WriteString(", ")
			}
			p.PrintRef('%', p.freshName(""))
			p.WriteString(": ")
			p.PrintType(t)
		}
	}
	p.WriteString(") -> ")
	if sigErr == nil {
		if ret, err := sig.Return(); err == nil {
			p.PrintType(ret)
		}
	}
	if entry != nil {
		if entry.label != "" || p.referenced[entry] {
			p.WriteString(" ")
			p.PrintRef('^', p.BlockName(entry))
		}
		p.WriteString(" ")
		p.PrintEntryRegion(f.Body())
	}
	printExtraAttrs(p, op, "sym_name", "func_type")
}

func parseFuncOp(p *Parser, info *OpInfo) (*Operation, error) {
	start := p.Span()
	name, err := p.ParseSymbolName()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectPunct("("); err != nil {
		return nil, err
	}
	var args []BlockArg
	var spans []source.Span
	for !p.AtPunct(")") {
		if len(args) > 0 {
			if err := p.ExpectPunct(","); err != nil {
				return nil, err
			}
		}
		sp := p.Span()
		argName, err := p.ParseValueName()
		if err != nil {
			return nil, err
		}
		if err := p.ExpectPunct(":"); err != nil {
			return nil, err
		}
		t, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		args = append(args, BlockArg{Name: argName, Type: t})
		spans = append(spans, sp)
	}
	p.EatPunct(")")
	if err := p.ExpectPunct("->"); err != nil {
		return nil, err
	}
	ret, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	body := NewRegion(p.Context())
	if label, ok := p.parseEntryLabel(); ok || p.AtRegion() {
		if args == nil {
			args = []BlockArg{}
		}
		if body, err = p.parseRegionSpans(label, args, spans); err != nil {
			return nil, err
		}
	}

	inputs := make([]Type, len(args))
	for i, a := range args {
		inputs[i] = a.Type
	}
	st := OperationState{Info: info, Regions: []*Region{body}}
	st.Attrs.Set("sym_name", StringAttr(name))
	st.Attrs.Set("func_type", TypeAttr(NewFuncType(p.Context(), inputs, ret).Type))
	if err := parseExtraAttrs(p, &st.Attrs); err != nil {
		return nil, err
	}
	return p.CreateOperation(st, start)
}

// Return

func (ReturnOp) Successors() []*Block { return nil }

// Verify checks the returned values against the enclosing function.
func (o ReturnOp) Verify() error {
	var fn FuncOp
	found := false
	for parent := o.op.ParentOp(); parent != nil; parent = parent.ParentOp() {
		if fn, found = Cast[FuncOp](parent); found {
			break
		}
	}
	if !found {
		return errors.New("return outside of a function")
	}
	sig, err := fn.Signature()
	if err != nil {
		return err
	}
	ret, err := sig.Return()
	if err != nil {
		return err
	}
	want := 1
	if Isa[VoidType](ret) {
		want = 0
	}
	if o.op.NumOperands() != want {
		return fmt.Errorf("function returns %s, return has %d operands", ret, o.op.NumOperands())
	}
	if want == 0 {
		return nil
	}
	v, ok := o.op.operands[0].Value()
	if !ok {
		return fmt.Errorf("return operand is a %s, not a value", o.op.operands[0].Kind())
	}
	t, err := v.Type(o.op.ctx)
	if err != nil {
		return err
	}
	if !t.Equal(ret) {
		return fmt.Errorf("returned value is %s, function returns %s", t, ret)
	}
	return nil
}

// printExtraAttrs prints attributes a custom format does not spell out.
func printExtraAttrs(p *Printer, op *Operation, skip ...string) {
	var extra AttrMap
	for k, v := range op.attrs.All() {
		if !slices.Contains(skip, k) {
			extra.Set(k, v)
		}
	}
	if extra.Len() > 0 {
		p.WriteString(" attrs = ")
		p.PrintAttrDict(extra)
	}
}

func parseExtraAttrs(p *Parser, into *AttrMap) error {
	if !p.AtKeyword("attrs") {
		return nil
	}
	sp := p.Span()
	p.advance()
	if err := p.ExpectPunct("="); err != nil {
		return err
	}
	extra, err := p.ParseAttrDict()
	if err != nil {
		return err
	}
	for k, v := range extra.All() {
		if into.Has(k) {
			return p.errAt(sp, diag.ParDuplicateAttr, fmt.Sprintf("duplicate attribute '%s'", k))
		}
		into.Set(k, v)
	}
	return nil
}
