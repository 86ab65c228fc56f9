package ir

func registerBuiltinTypes(d *Dialect) {
	d.AddType("void", TypeDef{
		Print: func(*Printer, AttrMap) {},
		Parse: func(*Parser) (AttrMap, error) { return AttrMap{}, nil },
	})
	d.AddType("int", TypeDef{Print: printIntType, Parse: parseIntType})
	d.AddType("func", TypeDef{Print: printFuncType, Parse: parseFuncType})
}

// VoidType is the empty type.
type VoidType struct{ Type }

func (VoidType) TypeDialect() string { return BuiltinDialectName }
func (VoidType) TypeName() string    { return "void" }

func NewVoidType(ctx *Context) VoidType {
	return VoidType{ctx.Builtin().Type("void", AttrMap{})}
}

// IntType is a fixed-width integer, written !int<bits>.
type IntType struct{ Type }

func (IntType) TypeDialect() string { return BuiltinDialectName }
func (IntType) TypeName() string    { return "int" }

func NewIntType(ctx *Context, bits uint32) IntType {
	return IntType{ctx.Builtin().Type("int", Attrs(AttrPair{"bits", U32Attr(bits)}))}
}

func AsIntType(t Type) (IntType, bool) {
	if !Isa[IntType](t) {
		return IntType{}, false
	}
	return IntType{t}, true
}

func (t IntType) Bits() (uint32, error) {
	a, ok := t.Attr("bits")
	if !ok {
		return 0, &MissingFieldError{Op: "!int", Field: "bits", What: "parameter"}
	}
	return a.AsU32()
}

func printIntType(p *Printer, attrs AttrMap) {
	a, _ := attrs.Get("bits")
	bits, err := a.AsU32()
	if err != nil {
		p.PrintTypeParams(attrs)
		return
	}
	p.Printf("<%d>", bits)
}

func parseIntType(p *Parser) (AttrMap, error) {
	if err := p.ExpectPunct("<"); err != nil {
		return AttrMap{}, err
	}
	bits, err := p.ParseUint(32)
	if err != nil {
		return AttrMap{}, err
	}
	if err := p.ExpectPunct(">"); err != nil {
		return AttrMap{}, err
	}
	return Attrs(AttrPair{"bits", U32Attr(uint32(bits))}), nil
}

// FuncType is a function signature, written !func<(!a, !b) -> !r>.
type FuncType struct{ Type }

func (FuncType) TypeDialect() string { return BuiltinDialectName }
func (FuncType) TypeName() string    { return "func" }

func NewFuncType(ctx *Context, inputs []Type, ret Type) FuncType {
	return FuncType{ctx.Builtin().Type("func", Attrs(
		AttrPair{"inputs", TypeArrayAttr(inputs)},
		AttrPair{"return", TypeAttr(ret)},
	))}
}

func AsFuncType(t Type) (FuncType, bool) {
	if !Isa[FuncType](t) {
		return FuncType{}, false
	}
	return FuncType{t}, true
}

func (t FuncType) Inputs() ([]Type, error) {
	a, ok := t.Attr("inputs")
	if !ok {
		return nil, &MissingFieldError{Op: "!func", Field: "inputs", What: "parameter"}
	}
	return a.AsTypeArray()
}

func (t FuncType) Return() (Type, error) {
	a, ok := t.Attr("return")
	if !ok {
		return Type{}, &MissingFieldError{Op: "!func", Field: "return", What: "parameter"}
	}
	return a.AsType()
}

func printFuncType(p *Printer, attrs AttrMap) {
	ft := FuncType{Type{attrs: attrs}}
	inputs, err1 := ft.Inputs()
	ret, err2 := ft.Return()
	if err1 != nil || err2 != nil {
		p.PrintTypeParams(attrs)
		return
	}
	p.WriteString("<(")
	p.PrintTypeList(inputs)
	p.WriteString(") -> ")
	p.PrintType(ret)
	p.WriteString(">")
}

func parseFuncType(p *Parser) (AttrMap, error) {
	if err := p.ExpectPunct("<"); err != nil {
		return AttrMap{}, err
	}
	if err := p.ExpectPunct("("); err != nil {
		return AttrMap{}, err
	}
	var inputs []Type
	for !p.AtPunct(")") {
		if len(inputs) > 0 {
			if err := p.ExpectPunct(","); err != nil {
				return AttrMap{}, err
			}
		}
		t, err := p.ParseType()
		if err != nil {
			return AttrMap{}, err
		}
		inputs = append(inputs, t)
	}
	p.advance()
	if err := p.ExpectPunct("->"); err != nil {
		return AttrMap{}, err
	}
	ret, err := p.ParseType()
	if err != nil {
		return AttrMap{}, err
	}
	if err := p.ExpectPunct(">"); err != nil {
		return AttrMap{}, err
	}
	return Attrs(AttrPair{"inputs", TypeArrayAttr(inputs)}, AttrPair{"return", TypeAttr(ret)}), nil
}
