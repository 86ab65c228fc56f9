package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"tir/internal/lexer"
)

const indentUnit = "  "

// Printer renders the textual form of operations, types and attributes.
// Dialect print functions receive the Printer and write through it.
type Printer struct {
	sb     strings.Builder
	indent int
	ctx    *Context

	used       map[string]bool // every explicit value name in the tree
	usedLabels map[string]bool
	taken      map[string]bool // value names already printed
	takenLabel map[string]bool
	values     map[AllocID]string
	args       map[argKey]string
	labels     map[*Block]string
	referenced map[*Block]bool
	nextValue  int
	nextLabel  int
}

type argKey struct {
	block *Block
	index int
}

func NewPrinter() *Printer {
	return &Printer{
		used:       make(map[string]bool),
		usedLabels: make(map[string]bool),
		taken:      make(map[string]bool),
		takenLabel: make(map[string]bool),
		values:     make(map[AllocID]string),
		args:       make(map[argKey]string),
		labels:     make(map[*Block]string),
		referenced: make(map[*Block]bool),
	}
}

// Print renders op and everything nested in it, ending with a newline.
func Print(op Op) string {
	p := NewPrinter()
	p.prepare(op.Operation())
	p.PrintOp(op)
	p.sb.WriteByte('\n')
	return p.sb.String()
}

// Fprint writes Print(op) to w.
func Fprint(w io.Writer, op Op) error {
	_, err := io.WriteString(w, Print(op))
	return err
}

// prepare reserves explicit names so generated ones never collide, and
// records blocks that are referenced and therefore need a label line.
func (p *Printer) prepare(root *Operation) {
	Walk(root, func(op *Operation) {
		if op.name != "" {
			p.used[op.name] = true
		}
		for _, r := range op.regions {
			for _, b := range r.blocks {
				if b.label != "" {
					p.usedLabels[b.label] = true
				}
				for _, a := range b.args {
					if a.Name != "" {
						p.used[a.Name] = true
					}
				}
			}
		}
		for _, v := range op.operands {
			if v.kind == OperandBlock && v.block != nil {
				p.referenced[v.block] = true
			}
		}
		if term, ok := As[Terminator](op); ok {
			for _, b := range term.Successors() {
				p.referenced[b] = true
			}
		}
	})
}

func (p *Printer) String() string { return p.sb.String() }

func (p *Printer) WriteString(s string) { p.sb.WriteString(s) }

func (p *Printer) Printf(format string, args ...any) { fmt.Fprintf(&p.sb, format, args...) }

// Newline ends the line and indents the next one.
func (p *Printer) Newline() {
	p.sb.WriteByte('\n')
	for range p.indent {
		p.sb.WriteString(indentUnit)
	}
}

// claim returns a unique printed name for a definition that asked for
// name. A name seen before gets a numeric suffix; an empty one is numbered.
func claim(name, prefix string, reserved, taken map[string]bool, next *int) string {
	if name != "" && !taken[name] {
		taken[name] = true
		return name
	}
	for {
		var cand string
		if name == "" {
			cand = prefix + strconv.Itoa(*next)
			*next++
		} else {
			*next++
			cand = name + "_" + strconv.Itoa(*next)
		}
		if !reserved[cand] && !taken[cand] {
			taken[cand] = true
			return cand
		}
	}
}

func (p *Printer) freshName(name string) string {
	if name == "" {
		return claim("", "", p.used, p.taken, &p.nextValue)
	}
	n := 0
	return claim(name, "", p.used, p.taken, &n)
}

// ValueName returns the printed name of the value op defines.
func (p *Printer) ValueName(op *Operation) string {
	if name, ok := p.values[op.id]; ok {
		return name
	}
	name := p.freshName(op.name)
	p.values[op.id] = name
	return name
}

// ArgName returns the printed name of argument i of b.
func (p *Printer) ArgName(b *Block, i int) string {
	k := argKey{b, i}
	if name, ok := p.args[k]; ok {
		return name
	}
	a, _ := b.Arg(i)
	name := p.freshName(a.Name)
	p.args[k] = name
	return name
}

// BlockName returns the printed label of b.
func (p *Printer) BlockName(b *Block) string {
	if name, ok := p.labels[b]; ok {
		return name
	}
	var name string
	if b.label == "" {
		name = claim("", "bb", p.usedLabels, p.takenLabel, &p.nextLabel)
	} else {
		n := 0
		name = claim(b.label, "", p.usedLabels, p.takenLabel, &n)
	}
	p.labels[b] = name
	return name
}

// PrintRef prints sigil and name, quoting names the lexer would not read
// back unchanged.
func (p *Printer) PrintRef(sigil byte, name string) {
	p.sb.WriteByte(sigil)
	if lexer.IsBareRef(name) {
		p.sb.WriteString(name)
	} else {
		p.sb.WriteString(QuoteString(name))
	}
}

// PrintOp prints an operation using its dialect printer, or the generic form.
func (p *Printer) PrintOp(op Op) {
	o := op.Operation()
	p.ctx = o.ctx
	if o.result.IsValid() {
		p.PrintRef('%', p.ValueName(o))
		p.WriteString(" = ")
	}
	if def := o.ctx.opDef(o.dialect, o.opcode); def.Print != nil {
		def.Print(p, o)
		return
	}
	p.PrintGenericOp(o)
}

// PrintGenericOp prints name, operands, regions, attributes and result type.
func (p *Printer) PrintGenericOp(o *Operation) {
	p.WriteString(o.Name())
	if len(o.operands) > 0 {
		p.WriteString(" (")
		p.PrintOperands(o.operands)
		p.WriteString(")")
	}
	for _, r := range o.regions {
		p.WriteString(" ")
		p.PrintRegion(r)
	}
	if o.attrs.Len() > 0 {
		p.WriteString(" attrs = ")
		p.PrintAttrDict(o.attrs)
	}
	if o.result.IsValid() {
		p.WriteString(" -> ")
		p.PrintType(o.result)
	}
}

// PrintOperands prints a comma separated operand list.
func (p *Printer) PrintOperands(ops []Operand) {
	for i, v := range ops {
		if i > 0 {
			p.WriteString(", ")
		}
		p.PrintOperand(v)
	}
}

func (p *Printer) PrintOperand(v Operand) {
	switch v.kind {
	case OperandValue:
		if op, ok := p.lookup(v.op); ok {
			p.PrintRef('%', p.ValueName(op))
		} else {
			p.WriteString("%<dangling " + v.op.String() + ">")
		}
	case OperandBlockArg:
		p.PrintRef('%', p.ArgName(v.block, v.index))
	case OperandBlock:
		p.PrintRef('^', p.BlockName(v.block))
	case OperandRegister:
		p.PrintRef('$', v.reg)
	}
}

func (p *Printer) lookup(id AllocID) (*Operation, bool) {
	if p.ctx == nil {
		return nil, false
	}
	return p.ctx.LookupOp(id)
}

// PrintRegion prints r with every block header that is needed to parse it
// back.
func (p *Printer) PrintRegion(r *Region) { p.printRegion(r, false) }

// PrintEntryRegion prints r without the entry block header; the caller has
// printed the entry arguments itself.
func (p *Printer) PrintEntryRegion(r *Region) { p.printRegion(r, true) }

func (p *Printer) printRegion(r *Region, omitEntry bool) {
	p.ctx = r.ctx
	p.WriteString("{")
	for i, b := range r.blocks {
		if i > 0 || !omitEntry {
			if p.needsHeader(b, i) {
				p.Newline()
				p.printBlockHeader(b)
			}
		}
		p.indent++
		for _, op := range b.Ops() {
			p.Newline()
			p.PrintOp(op)
		}
		p.indent--
	}
	p.Newline()
	p.WriteString("}")
}

func (p *Printer) needsHeader(b *Block, i int) bool {
	return i > 0 || b.label != "" || len(b.args) > 0 || len(b.ops) == 0 || p.referenced[b]
}

func (p *Printer) printBlockHeader(b *Block) {
	p.PrintRef('^', p.BlockName(b))
	if len(b.args) > 0 {
		p.WriteString("(")
		p.PrintBlockArgs(b)
		p.WriteString(")")
	}
	p.WriteString(":")
}

// PrintBlockArgs prints "%name: !type" for every argument of b.
func (p *Printer) PrintBlockArgs(b *Block) {
	for i, a := range b.args {
		if i > 0 {
			p.WriteString(", ")
		}
		p.PrintRef('%', p.ArgName(b, i))
		p.WriteString(": ")
		p.PrintType(a.Type)
	}
}

// PrintType prints "!name" followed by the parameters.
func (p *Printer) PrintType(t Type) {
	if !t.IsValid() {
		p.WriteString("!<invalid>")
		return
	}
	p.WriteString("!" + t.Name())
	d := t.Dialect()
	if def, ok := d.TypeDef(t.id); ok && def.Print != nil {
		def.Print(p, t.attrs)
		return
	}
	p.PrintTypeParams(t.attrs)
}

// PrintTypeParams prints the generic "<key: <kind: v>, ...>" form; nothing
// for an empty map.
func (p *Printer) PrintTypeParams(m AttrMap) {
	if m.Len() == 0 {
		return
	}
	p.WriteString("<")
	first := true
	for k, v := range m.All() {
		if !first {
			p.WriteString(", ")
		}
		first = false
		p.WriteString(k + ": ")
		p.PrintAttr(v)
	}
	p.WriteString(">")
}

// PrintAttrDict prints "{key = <kind: v>, ...}".
func (p *Printer) PrintAttrDict(m AttrMap) {
	p.WriteString("{")
	first := true
	for k, v := range m.All() {
		if !first {
			p.WriteString(", ")
		}
		first = false
		p.WriteString(k + " = ")
		p.PrintAttr(v)
	}
	p.WriteString("}")
}

// PrintAttr prints "<kind: value>".
func (p *Printer) PrintAttr(a Attr) {
	p.WriteString("<" + a.kind.String() + ": ")
	p.PrintAttrValue(a)
	p.WriteString(">")
}

// PrintAttrValue prints the value part of an attribute literal.
func (p *Printer) PrintAttrValue(a Attr) {
	switch {
	case a.kind == AttrString:
		p.WriteString(QuoteString(a.str))
	case a.kind == AttrBool:
		p.WriteString(strconv.FormatBool(a.bits != 0))
	case a.kind.IsInt():
		p.WriteString(formatInt(a.kind, a.bits))
	case a.kind.IsIntArray():
		p.WriteString("[")
		for i, v := range a.vals {
			if i > 0 {
				p.WriteString(", ")
			}
			p.WriteString(formatInt(a.kind, v))
		}
		p.WriteString("]")
	case a.kind == AttrType:
		p.PrintType(a.tys[0])
	case a.kind == AttrTypeArray:
		p.WriteString("[")
		p.PrintTypeList(a.tys)
		p.WriteString("]")
	default:
		p.WriteString("?")
	}
}

// PrintTypeList prints types separated by ", ".
func (p *Printer) PrintTypeList(ts []Type) {
	for i, t := range ts {
		if i > 0 {
			p.WriteString(", ")
		}
		p.PrintType(t)
	}
}

// QuoteString renders s as a string literal the lexer reads back verbatim.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&sb, `\x%02x`, c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (a Attr) String() string {
	p := NewPrinter()
	p.PrintAttr(a)
	return p.String()
}
