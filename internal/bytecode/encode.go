package bytecode

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"tir/ir"
)

type encoder struct {
	p        payload
	dialects map[string]uint32
	types    map[string]uint32
	ops      map[ir.AllocID]uint32
	blocks   map[*ir.Block]uint32
}

// Marshal encodes the tree rooted at root.
func Marshal(root ir.Op) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the tree rooted at root to w.
func Encode(w io.Writer, root ir.Op) error {
	e := &encoder{
		p:        payload{Schema: schemaVersion},
		dialects: make(map[string]uint32),
		types:    make(map[string]uint32),
		ops:      make(map[ir.AllocID]uint32),
		blocks:   make(map[*ir.Block]uint32),
	}
	if err := e.tree(root.Operation()); err != nil {
		return err
	}
	if _, err := io.WriteString(w, Magic); err != nil {
		return err
	}
	return msgpack.NewEncoder(w).Encode(&e.p)
}

func index(n int) (uint32, error) {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0, fmt.Errorf("bytecode: table too large: %w", err)
	}
	return v, nil
}

type pending struct {
	op    *ir.Operation
	block int64
}

// tree lists operations in pre-order with an explicit stack.
func (e *encoder) tree(root *ir.Operation) error {
	stack := []pending{{op: root, block: -1}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx, err := index(len(e.p.Ops))
		if err != nil {
			return err
		}
		e.ops[cur.op.ID()] = idx
		rec, err := e.op(cur.op, cur.block)
		if err != nil {
			return err
		}
		e.p.Ops = append(e.p.Ops, rec)

		var children []pending
		for _, r := range cur.op.Regions() {
			e.p.Regions = append(e.p.Regions, regionRecord{Op: idx})
			regionIdx, err := index(len(e.p.Regions) - 1)
			if err != nil {
				return err
			}
			for _, b := range r.Blocks() {
				blockIdx, err := e.block(b, regionIdx)
				if err != nil {
					return err
				}
				for _, child := range b.Ops() {
					children = append(children, pending{op: child, block: int64(blockIdx)})
				}
			}
		}
		slices.Reverse(children)
		stack = append(stack, children...)
	}
	return nil
}

func (e *encoder) block(b *ir.Block, region uint32) (uint32, error) {
	rec := blockRecord{Region: region, Label: b.Label()}
	for _, a := range b.Args() {
		t, err := e.typ(a.Type)
		if err != nil {
			return 0, err
		}
		rec.Args = append(rec.Args, argRecord{Name: a.Name, Type: t})
	}
	idx, err := index(len(e.p.Blocks))
	if err != nil {
		return 0, err
	}
	e.p.Blocks = append(e.p.Blocks, rec)
	e.blocks[b] = idx
	return idx, nil
}

func (e *encoder) op(op *ir.Operation, block int64) (opRecord, error) {
	d, err := e.dialect(op.Dialect().Name())
	if err != nil {
		return opRecord{}, err
	}
	rec := opRecord{Dialect: d, Name: op.Info().Name, Block: block, ResultName: op.ResultName()}
	if rec.Attrs, err = e.attrs(op.Attrs()); err != nil {
		return opRecord{}, err
	}
	if t, ok := op.Result(); ok {
		ti, err := e.typ(t)
		if err != nil {
			return opRecord{}, err
		}
		rec.Result = &ti
	}
	for i, v := range op.Operands() {
		or, err := e.operand(v)
		if err != nil {
			return opRecord{}, fmt.Errorf("bytecode: %s operand %d: %w", op.Name(), i, err)
		}
		rec.Operands = append(rec.Operands, or)
	}
	return rec, nil
}

func (e *encoder) operand(v ir.Operand) (operandRecord, error) {
	rec := operandRecord{Kind: uint8(v.Kind())}
	switch v.Kind() {
	case ir.OperandValue:
		idx, ok := e.ops[v.Op()]
		if !ok {
			return rec, fmt.Errorf("value is not defined before its use")
		}
		rec.Ref = idx
	case ir.OperandBlock, ir.OperandBlockArg:
		idx, ok := e.blocks[v.Block()]
		if !ok {
			return rec, fmt.Errorf("block is outside the encoded tree")
		}
		rec.Ref = idx
		arg, err := safecast.Conv[uint32](v.Index())
		if err != nil {
			return rec, err
		}
		rec.Arg = arg
	case ir.OperandRegister:
		rec.Reg = v.Register()
	}
	return rec, nil
}

func (e *encoder) dialect(name string) (uint32, error) {
	if idx, ok := e.dialects[name]; ok {
		return idx, nil
	}
	idx, err := index(len(e.p.Dialects))
	if err != nil {
		return 0, err
	}
	e.p.Dialects = append(e.p.Dialects, name)
	e.dialects[name] = idx
	return idx, nil
}

// typ interns t and the types nested in its parameters, nested ones first.
func (e *encoder) typ(t ir.Type) (uint32, error) {
	if !t.IsValid() {
		return 0, ir.ErrNoContext
	}
	key := t.String()
	if idx, ok := e.types[key]; ok {
		return idx, nil
	}
	d := t.Dialect()
	name, _ := d.TypeName(t.ID())
	di, err := e.dialect(d.Name())
	if err != nil {
		return 0, err
	}
	params, err := e.attrs(t.Attrs())
	if err != nil {
		return 0, err
	}
	idx, err := index(len(e.p.Types))
	if err != nil {
		return 0, err
	}
	e.p.Types = append(e.p.Types, typeRecord{Dialect: di, Name: name, Params: params})
	e.types[key] = idx
	return idx, nil
}

func (e *encoder) attrs(m ir.AttrMap) ([]attrEntry, error) {
	var out []attrEntry
	for k, v := range m.All() {
		rec, err := e.attr(v)
		if err != nil {
			return nil, fmt.Errorf("bytecode: attribute %q: %w", k, err)
		}
		out = append(out, attrEntry{Key: k, Value: rec})
	}
	return out, nil
}

func (e *encoder) attr(a ir.Attr) (attrRecord, error) {
	k := a.Kind()
	rec := attrRecord{Kind: k.String()}
	var err error
	switch {
	case k == ir.AttrString:
		rec.Str, err = a.AsString()
	case k == ir.AttrBool || k.IsInt():
		rec.Raw, err = a.Raw()
	case k.IsIntArray():
		rec.Elems, err = a.RawElems()
	case k == ir.AttrType || k == ir.AttrTypeArray:
		var tys []ir.Type
		if k == ir.AttrType {
			var t ir.Type
			t, err = a.AsType()
			tys = []ir.Type{t}
		} else {
			tys, err = a.AsTypeArray()
		}
		for _, t := range tys {
			if err != nil {
				break
			}
			var ti uint32
			ti, err = e.typ(t)
			rec.Types = append(rec.Types, ti)
		}
	default:
		err = fmt.Errorf("cannot encode attribute kind %s", k)
	}
	return rec, err
}
