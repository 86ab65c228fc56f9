package ir

import (
	"cmp"
	"fmt"
	"slices"

	"tir/internal/diag"
	"tir/internal/lexer"
	"tir/internal/source"
	"tir/internal/token"
)

// ParseError is a located textual IR error.
type ParseError struct {
	Span  source.Span
	Code  diag.Code
	Msg   string
	Notes []diag.Note
}

func (e *ParseError) Error() string { return e.Code.ID() + ": " + e.Msg }

// Diagnostic converts the error for rendering with diagfmt.
func (e *ParseError) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code, e.Span, e.Msg)
	d.Notes = slices.Clone(e.Notes)
	return d
}

// Parser reads the textual IR. Dialect parse functions receive it and use
// the exported helpers; all of them return *ParseError on failure.
type Parser struct {
	ctx    *Context
	lx     *lexer.Lexer
	tok    token.Token
	lexErr *diag.Diagnostic

	scopes  []map[string]Value
	regions []*regionScope
}

type regionScope struct {
	region  *Region
	blocks  map[string]*Block
	defined map[string]bool
	refs    map[string]source.Span
}

// Parse reads one top-level operation (normally a module) from file.
func Parse(ctx *Context, fs *source.FileSet, file source.FileID) (*Operation, error) {
	f := fs.Get(file)
	if f == nil {
		return nil, fmt.Errorf("ir: unknown file id %d", file)
	}
	p := &Parser{ctx: ctx}
	p.lx = lexer.New(f, lexer.Options{Reporter: diag.ReporterFunc(func(d diag.Diagnostic) {
		if p.lexErr == nil {
			p.lexErr = &d
		}
	})})
	p.advance()
	p.pushScope()

	op, err := p.ParseOperation()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != token.EOF {
		return nil, p.errAt(p.tok.Span, diag.ParTrailingInput, fmt.Sprintf("expected end of input, found %s", describe(p.tok)))
	}
	if p.lexErr != nil {
		return nil, p.fromLex()
	}
	return op, nil
}

// ParseString parses src as a virtual file named "<input>".
func ParseString(ctx *Context, src string) (*Operation, error) {
	fs := source.NewFileSet()
	return Parse(ctx, fs, fs.AddVirtual("<input>", []byte(src)))
}

func (p *Parser) Context() *Context { return p.ctx }

func (p *Parser) advance() { p.tok = p.lx.Next() }

func (p *Parser) fromLex() *ParseError {
	return &ParseError{Span: p.lexErr.Primary, Code: p.lexErr.Code, Msg: p.lexErr.Message}
}

func (p *Parser) errAt(sp source.Span, code diag.Code, msg string) *ParseError {
	return &ParseError{Span: sp, Code: code, Msg: msg}
}

// Errorf reports a syntax error at the current token.
func (p *Parser) Errorf(format string, args ...any) error {
	if p.tok.Kind == token.Invalid && p.lexErr != nil {
		return p.fromLex()
	}
	return p.errAt(p.tok.Span, diag.ParUnexpectedToken, fmt.Sprintf(format, args...))
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of input"
	case token.Ident, token.IntLit:
		return fmt.Sprintf("%q", t.Text)
	case token.StringLit:
		return "string literal"
	}
	if t.IsRef() {
		return t.Kind.String()
	}
	return fmt.Sprintf("'%s'", t.Text)
}

func (p *Parser) expect(k token.Kind, what string) (token.Token, error) {
	if p.tok.Kind != k {
		return token.Token{}, p.Errorf("expected %s, found %s", what, describe(p.tok))
	}
	t := p.tok
	p.advance()
	return t, nil
}

func isPunct(k token.Kind) bool { return k >= token.LParen && k <= token.Bang }

// AtPunct reports whether the current token is the punctuation s ("(",
// "->", ...).
func (p *Parser) AtPunct(s string) bool { return isPunct(p.tok.Kind) && p.tok.Text == s }

// EatPunct consumes s if it is next.
func (p *Parser) EatPunct(s string) bool {
	if p.AtPunct(s) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) ExpectPunct(s string) error {
	if !p.EatPunct(s) {
		return p.Errorf("expected '%s', found %s", s, describe(p.tok))
	}
	return nil
}

// AtKeyword reports whether the current token is the identifier word.
func (p *Parser) AtKeyword(word string) bool { return p.tok.Kind == token.Ident && p.tok.Text == word }

func (p *Parser) ExpectKeyword(word string) error {
	if !p.AtKeyword(word) {
		return p.Errorf("expected '%s', found %s", word, describe(p.tok))
	}
	p.advance()
	return nil
}

func (p *Parser) ParseIdent() (string, error) {
	t, err := p.expect(token.Ident, "identifier")
	return t.Text, err
}

// AtSymbol reports whether a "@name" is next.
func (p *Parser) AtSymbol() bool { return p.tok.Kind == token.SymbolRef }

// ParseSymbolName reads "@name".
func (p *Parser) ParseSymbolName() (string, error) {
	t, err := p.expect(token.SymbolRef, "symbol name")
	return t.Text, err
}

// ParseValueName reads "%name" without resolving it, for definitions.
func (p *Parser) ParseValueName() (string, error) {
	t, err := p.expect(token.ValueRef, "value name")
	return t.Text, err
}

// ParseUint reads a non-negative integer literal that fits bits.
func (p *Parser) ParseUint(bits int) (uint64, error) {
	t, err := p.expect(token.IntLit, "integer")
	if err != nil {
		return 0, err
	}
	v, perr := parseUintText(t.Text, bits)
	if perr != nil {
		return 0, p.errAt(t.Span, diag.ParBadAttr, fmt.Sprintf("integer %s does not fit %d unsigned bits", t.Text, bits))
	}
	return v, nil
}

func (p *Parser) pushScope() { p.scopes = append(p.scopes, make(map[string]Value)) }

func (p *Parser) popScope() { p.scopes = p.scopes[:len(p.scopes)-1] }

func (p *Parser) define(name string, v Value, sp source.Span) error {
	top := p.scopes[len(p.scopes)-1]
	if _, dup := top[name]; dup {
		return p.errAt(sp, diag.ParRedefinition, fmt.Sprintf("value %%%s is already defined", name))
	}
	top[name] = v
	return nil
}

func (p *Parser) resolve(name string) (Value, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if v, ok := p.scopes[i][name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// ParseOperation reads "[%name =] [dialect.]op ..." and dispatches to the
// dialect parser or the generic form.
func (p *Parser) ParseOperation() (*Operation, error) {
	var resName string
	var resSpan source.Span
	if p.tok.Kind == token.ValueRef && p.lx.Peek().Kind == token.Assign {
		resName, resSpan = p.tok.Text, p.tok.Span
		p.advance()
		p.advance()
	}
	start := p.tok.Span
	def, err := p.parseOpName()
	if err != nil {
		return nil, err
	}
	parse := def.Parse
	if parse == nil {
		parse = (*Parser).ParseGenericOp
	}
	op, err := parse(p, def.Info)
	if err != nil {
		return nil, err
	}
	if resName == "" {
		return op, nil
	}
	if !op.result.IsValid() {
		return nil, p.errAt(resSpan.Cover(start), diag.ParMissingField, fmt.Sprintf("%s defines no result to name %%%s", op.Name(), resName))
	}
	op.name = resName
	if err := p.define(resName, Value{def: op.id}, resSpan); err != nil {
		return nil, err
	}
	return op, nil
}

func (p *Parser) parseOpName() (OpDef, error) {
	first, err := p.expect(token.Ident, "operation name")
	if err != nil {
		return OpDef{}, err
	}
	dialectName, opName, sp := BuiltinDialectName, first.Text, first.Span
	if p.tok.Kind == token.Dot {
		p.advance()
		second, err := p.expect(token.Ident, "operation name")
		if err != nil {
			return OpDef{}, err
		}
		dialectName, opName, sp = first.Text, second.Text, sp.Cover(second.Span)
	}
	d, ok := p.ctx.DialectByName(dialectName)
	if !ok {
		return OpDef{}, p.errAt(first.Span, diag.ParUnknownDialect, fmt.Sprintf("unknown dialect '%s'", dialectName))
	}
	id, ok := d.OperationID(opName)
	if !ok {
		e := p.errAt(sp, diag.ParUnknownOperation, fmt.Sprintf("unknown operation '%s' in dialect '%s'", opName, dialectName))
		if similar, ok := d.SimilarOperation(opName); ok {
			e.Notes = append(e.Notes, diag.Note{Span: sp, Msg: fmt.Sprintf("a similarly named operation exists: '%s'", similar)})
		}
		return OpDef{}, e
	}
	def, _ := d.OpDef(id)
	return def, nil
}

// ParseGenericOp reads "[(operands)] {region}* [attrs = {...}] [-> !type]".
func (p *Parser) ParseGenericOp(info *OpInfo) (*Operation, error) {
	start := p.tok.Span
	st := OperationState{Info: info}
	if p.AtPunct("(") {
		ops, err := p.ParseOperandList()
		if err != nil {
			return nil, err
		}
		st.Operands = ops
	}
	for p.tok.Kind == token.LBrace {
		r, err := p.ParseRegion()
		if err != nil {
			return nil, err
		}
		st.Regions = append(st.Regions, r)
	}
	if p.AtKeyword("attrs") {
		p.advance()
		if err := p.ExpectPunct("="); err != nil {
			return nil, err
		}
		attrs, err := p.ParseAttrDict()
		if err != nil {
			return nil, err
		}
		st.Attrs = attrs
	}
	if p.EatPunct("->") {
		t, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		st.Result = t
	}
	return p.CreateOperation(st, start)
}

// CreateOperation builds the operation, reporting a failure at sp.
func (p *Parser) CreateOperation(st OperationState, sp source.Span) (*Operation, error) {
	op, err := p.ctx.CreateOperation(st)
	if err != nil {
		return nil, p.errAt(sp, diag.ParMissingField, err.Error())
	}
	return op, nil
}

// Span returns the span of the current token.
func (p *Parser) Span() source.Span { return p.tok.Span }

// ParseOperandList reads "(a, b, ...)".
func (p *Parser) ParseOperandList() ([]Operand, error) {
	if err := p.ExpectPunct("("); err != nil {
		return nil, err
	}
	var out []Operand
	for !p.AtPunct(")") {
		if len(out) > 0 {
			if err := p.ExpectPunct(","); err != nil {
				return nil, err
			}
		}
		v, err := p.ParseOperand()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	p.advance()
	return out, nil
}

// ParseOperand reads "%value", "^block" or "$reg".
func (p *Parser) ParseOperand() (Operand, error) {
	t := p.tok
	switch t.Kind {
	case token.ValueRef:
		p.advance()
		v, ok := p.resolve(t.Text)
		if !ok {
			return Operand{}, p.errAt(t.Span, diag.ParUndefinedValue, fmt.Sprintf("use of undefined value %%%s", t.Text))
		}
		if v.block != nil {
			return BlockArgOperand(v.block, v.arg), nil
		}
		return ValueOperandID(v.def), nil
	case token.BlockRef:
		p.advance()
		b, err := p.blockRef(t)
		if err != nil {
			return Operand{}, err
		}
		return BlockOperand(b), nil
	case token.RegRef:
		p.advance()
		return RegisterOperand(t.Text), nil
	}
	return Operand{}, p.Errorf("expected operand, found %s", describe(t))
}

// ParseBlockRef reads "^label" and returns the block, which may be defined
// later in the enclosing region.
func (p *Parser) ParseBlockRef() (*Block, error) {
	t, err := p.expect(token.BlockRef, "block label")
	if err != nil {
		return nil, err
	}
	return p.blockRef(t)
}

func (p *Parser) blockRef(t token.Token) (*Block, error) {
	if len(p.regions) == 0 {
		return nil, p.errAt(t.Span, diag.ParUndefinedValue, fmt.Sprintf("block ^%s referenced outside of a region", t.Text))
	}
	rs := p.regions[len(p.regions)-1]
	if b, ok := rs.blocks[t.Text]; ok {
		return b, nil
	}
	b := NewBlock(p.ctx, t.Text)
	rs.blocks[t.Text] = b
	rs.refs[t.Text] = t.Span
	return b, nil
}

// ParseRegion reads "{ blocks }".
func (p *Parser) ParseRegion() (*Region, error) { return p.parseRegion(nil) }

// ParseRegionWithArgs reads a region whose entry block takes args; their
// names are in scope in the body.
func (p *Parser) ParseRegionWithArgs(args []BlockArg, spans []source.Span) (*Region, error) {
	if args == nil {
		args = []BlockArg{}
	}
	return p.parseRegionSpans("", args, spans)
}

// AtRegion reports whether a "{" opening a region is next.
func (p *Parser) AtRegion() bool { return p.tok.Kind == token.LBrace }

// parseEntryLabel reads an optional "^label" naming an entry block whose
// header is not written inside the region.
func (p *Parser) parseEntryLabel() (string, bool) {
	if p.tok.Kind != token.BlockRef {
		return "", false
	}
	label := p.tok.Text
	p.advance()
	return label, true
}

func (p *Parser) parseRegion(entryArgs []BlockArg) (*Region, error) {
	return p.parseRegionSpans("", entryArgs, nil)
}

func (p *Parser) parseRegionSpans(entryLabel string, entryArgs []BlockArg, spans []source.Span) (*Region, error) {
	open, err := p.expect(token.LBrace, "'{'")
	if err != nil {
		return nil, err
	}
	r := NewRegion(p.ctx)
	rs := &regionScope{
		region:  r,
		blocks:  make(map[string]*Block),
		defined: make(map[string]bool),
		refs:    make(map[string]source.Span),
	}
	p.regions = append(p.regions, rs)
	p.pushScope()
	defer func() {
		p.popScope()
		p.regions = p.regions[:len(p.regions)-1]
	}()

	var cur *Block
	if entryArgs != nil {
		cur = r.NewBlock(entryLabel, entryArgs...)
		if entryLabel != "" {
			rs.blocks[entryLabel] = cur
			rs.defined[entryLabel] = true
		}
		for i, a := range entryArgs {
			sp := open.Span
			if i < len(spans) {
				sp = spans[i]
			}
			if err := p.define(a.Name, Value{block: cur, arg: i}, sp); err != nil {
				return nil, err
			}
		}
	}

	for p.tok.Kind != token.RBrace {
		switch p.tok.Kind {
		case token.EOF:
			e := p.errAt(p.tok.Span, diag.ParUnexpectedToken, "unexpected end of input inside region")
			e.Notes = append(e.Notes, diag.Note{Span: open.Span, Msg: "region opened here"})
			return nil, e
		case token.BlockRef:
			b, err := p.parseBlockHeader(rs)
			if err != nil {
				return nil, err
			}
			cur = b
			continue
		}
		if cur == nil {
			cur = r.NewBlock("")
		}
		op, err := p.ParseOperation()
		if err != nil {
			return nil, err
		}
		cur.Push(op)
	}

	if err := rs.undefinedBlock(p); err != nil {
		return nil, err
	}
	p.advance()
	return r, nil
}

func (rs *regionScope) undefinedBlock(p *Parser) error {
	var missing []string
	for label := range rs.refs {
		if !rs.defined[label] {
			missing = append(missing, label)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.SortFunc(missing, func(a, b string) int {
		return cmp.Compare(rs.refs[a].Start, rs.refs[b].Start)
	})
	label := missing[0]
	return p.errAt(rs.refs[label], diag.ParUndefinedValue, fmt.Sprintf("use of undefined block ^%s", label))
}

// parseBlockHeader reads "^label[(%a: !t, ...)]:" and appends the block.
func (p *Parser) parseBlockHeader(rs *regionScope) (*Block, error) {
	t := p.tok
	p.advance()
	if rs.defined[t.Text] {
		return nil, p.errAt(t.Span, diag.ParRedefinition, fmt.Sprintf("block ^%s is already defined", t.Text))
	}
	b, ok := rs.blocks[t.Text]
	if !ok {
		b = NewBlock(p.ctx, t.Text)
		rs.blocks[t.Text] = b
	}
	rs.defined[t.Text] = true

	if p.EatPunct("(") {
		for !p.AtPunct(")") {
			if b.NumArgs() > 0 {
				if err := p.ExpectPunct(","); err != nil {
					return nil, err
				}
			}
			nameTok, err := p.expect(token.ValueRef, "argument name")
			if err != nil {
				return nil, err
			}
			if err := p.ExpectPunct(":"); err != nil {
				return nil, err
			}
			ty, err := p.ParseType()
			if err != nil {
				return nil, err
			}
			i := b.AddArg(BlockArg{Name: nameTok.Text, Type: ty})
			if err := p.define(nameTok.Text, Value{block: b, arg: i}, nameTok.Span); err != nil {
				return nil, err
			}
		}
		p.advance()
	}
	if err := p.ExpectPunct(":"); err != nil {
		return nil, err
	}
	rs.region.AddBlock(b)
	return b, nil
}
