package ir

import (
	"fmt"
	"strconv"

	"tir/internal/diag"
	"tir/internal/token"
)

func parseIntText(text string, bits int) (int64, error) { return strconv.ParseInt(text, 0, bits) }

func parseUintText(text string, bits int) (uint64, error) { return strconv.ParseUint(text, 0, bits) }

// ParseType reads "!name" or "!dialect.name" and the parameters its dialect
// defines.
func (p *Parser) ParseType() (Type, error) {
	bang, err := p.expect(token.Bang, "type")
	if err != nil {
		return Type{}, err
	}
	first, err := p.expect(token.Ident, "type name")
	if err != nil {
		return Type{}, err
	}
	dialectName, typeName, sp := BuiltinDialectName, first.Text, bang.Span.Cover(first.Span)
	if p.tok.Kind == token.Dot {
		p.advance()
		second, err := p.expect(token.Ident, "type name")
		if err != nil {
			return Type{}, err
		}
		dialectName, typeName, sp = first.Text, second.Text, sp.Cover(second.Span)
	}
	d, ok := p.ctx.DialectByName(dialectName)
	if !ok {
		return Type{}, p.errAt(first.Span, diag.ParUnknownDialect, fmt.Sprintf("unknown dialect '%s'", dialectName))
	}
	id, ok := d.TypeID(typeName)
	if !ok {
		return Type{}, p.errAt(sp, diag.ParUnknownType, fmt.Sprintf("unknown type '%s' in dialect '%s'", typeName, dialectName))
	}
	var attrs AttrMap
	if def, _ := d.TypeDef(id); def.Parse != nil {
		attrs, err = def.Parse(p)
	} else {
		attrs, err = p.ParseTypeParams()
	}
	if err != nil {
		return Type{}, err
	}
	return NewType(p.ctx, d.ID(), id, attrs), nil
}

// ParseTypeParams reads the generic "<key: <kind: v>, ...>" list. A missing
// list yields an empty map.
func (p *Parser) ParseTypeParams() (AttrMap, error) {
	var m AttrMap
	if !p.EatPunct("<") {
		return m, nil
	}
	err := p.parseEntries(&m, ">", ":")
	return m, err
}

// ParseAttrDict reads "{key = <kind: v>, ...}".
func (p *Parser) ParseAttrDict() (AttrMap, error) {
	var m AttrMap
	if err := p.ExpectPunct("{"); err != nil {
		return m, err
	}
	err := p.parseEntries(&m, "}", "=")
	return m, err
}

// parseEntries reads "key sep attr" entries up to and including closing.
func (p *Parser) parseEntries(m *AttrMap, closing, sep string) error {
	first := make(map[string]token.Token)
	for !p.AtPunct(closing) {
		if m.Len() > 0 {
			if err := p.ExpectPunct(","); err != nil {
				return err
			}
		}
		key, err := p.expect(token.Ident, "attribute name")
		if err != nil {
			return err
		}
		if err := p.ExpectPunct(sep); err != nil {
			return err
		}
		a, err := p.ParseAttr()
		if err != nil {
			return err
		}
		if prev, dup := first[key.Text]; dup {
			e := p.errAt(key.Span, diag.ParDuplicateAttr, fmt.Sprintf("duplicate attribute '%s'", key.Text))
			e.Notes = append(e.Notes, diag.Note{Span: prev.Span, Msg: "first defined here"})
			return e
		}
		first[key.Text] = key
		m.Set(key.Text, a)
	}
	p.advance()
	return nil
}

// ParseAttr reads "<kind: value>".
func (p *Parser) ParseAttr() (Attr, error) {
	if err := p.ExpectPunct("<"); err != nil {
		return Attr{}, err
	}
	kindTok, err := p.expect(token.Ident, "attribute kind")
	if err != nil {
		return Attr{}, err
	}
	name := kindTok.Text
	if p.EatPunct("[") {
		if err := p.ExpectPunct("]"); err != nil {
			return Attr{}, err
		}
		name += "[]"
	}
	kind, ok := ParseAttrKind(name)
	if !ok || kind == AttrAny || kind == AttrAnyInt {
		return Attr{}, p.errAt(kindTok.Span, diag.ParBadAttr, fmt.Sprintf("unknown attribute kind '%s'", name))
	}
	if err := p.ExpectPunct(":"); err != nil {
		return Attr{}, err
	}
	a, err := p.parseAttrValue(kind)
	if err != nil {
		return Attr{}, err
	}
	if err := p.ExpectPunct(">"); err != nil {
		return Attr{}, err
	}
	return a, nil
}

func (p *Parser) parseAttrValue(kind AttrKind) (Attr, error) {
	switch {
	case kind == AttrString:
		t, err := p.expect(token.StringLit, "string literal")
		if err != nil {
			return Attr{}, err
		}
		return StringAttr(t.Text), nil
	case kind == AttrBool:
		switch {
		case p.AtKeyword("true"):
			p.advance()
			return BoolAttr(true), nil
		case p.AtKeyword("false"):
			p.advance()
			return BoolAttr(false), nil
		}
		return Attr{}, p.Errorf("expected true or false, found %s", describe(p.tok))
	case kind.IsInt():
		bits, err := p.parseIntBits(kind)
		if err != nil {
			return Attr{}, err
		}
		return Attr{kind: kind, bits: bits}, nil
	case kind.IsIntArray():
		var vals []uint64
		err := p.parseList(func() error {
			bits, err := p.parseIntBits(kind.Elem())
			vals = append(vals, bits)
			return err
		})
		if err != nil {
			return Attr{}, err
		}
		return Attr{kind: kind, vals: vals}, nil
	case kind == AttrType:
		t, err := p.ParseType()
		if err != nil {
			return Attr{}, err
		}
		return TypeAttr(t), nil
	case kind == AttrTypeArray:
		var tys []Type
		err := p.parseList(func() error {
			t, err := p.ParseType()
			tys = append(tys, t)
			return err
		})
		if err != nil {
			return Attr{}, err
		}
		return TypeArrayAttr(tys), nil
	}
	return Attr{}, p.Errorf("unsupported attribute kind %s", kind)
}

// parseList reads "[elem, elem, ...]".
func (p *Parser) parseList(elem func() error) error {
	if err := p.ExpectPunct("["); err != nil {
		return err
	}
	for n := 0; !p.AtPunct("]"); n++ {
		if n > 0 {
			if err := p.ExpectPunct(","); err != nil {
				return err
			}
		}
		if err := elem(); err != nil {
			return err
		}
	}
	p.advance()
	return nil
}

// parseIntBits reads an integer literal checked against kind's width.
func (p *Parser) parseIntBits(kind AttrKind) (uint64, error) {
	t, err := p.expect(token.IntLit, "integer")
	if err != nil {
		return 0, err
	}
	if kind.IsSigned() {
		v, err := parseIntText(t.Text, kind.Bits())
		if err == nil {
			return uint64(v), nil
		}
	} else if v, err := parseUintText(t.Text, kind.Bits()); err == nil {
		return v, nil
	}
	return 0, p.errAt(t.Span, diag.ParBadAttr, fmt.Sprintf("integer %s does not fit %s", t.Text, kind))
}
