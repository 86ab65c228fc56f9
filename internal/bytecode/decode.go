package bytecode

import (
	"bytes"
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"tir/ir"
)

type decoder struct {
	ctx      *ir.Context
	p        *payload
	dialects []*ir.Dialect
	types    []ir.Type
	regions  []*ir.Region
	owners   []int // region index -> owning op index
	blocks   []*ir.Block
	homes    []int // block index -> region index
	ops      []*ir.Operation
}

// Unmarshal decodes data into ctx, whose dialects must include every
// dialect the data names. Malformed input yields an error, never a panic.
func Unmarshal(ctx *ir.Context, data []byte) (*ir.Operation, error) {
	if !IsBytecode(data) {
		return nil, ErrBadMagic
	}
	var p payload
	dec := msgpack.NewDecoder(bytes.NewReader(data[len(Magic):]))
	if err := dec.Decode(&p); err != nil {
		return nil, &FormatError{Where: "payload", Msg: "malformed msgpack", Err: err}
	}
	if p.Schema != schemaVersion {
		return nil, formatErr("payload", "schema version %d, expected %d", p.Schema, schemaVersion)
	}
	d := &decoder{ctx: ctx, p: &p}
	return d.run()
}

// Decode reads all of r and unmarshals it.
func Decode(ctx *ir.Context, r io.Reader) (*ir.Operation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(ctx, data)
}

func (d *decoder) run() (*ir.Operation, error) {
	if len(d.p.Ops) == 0 {
		return nil, formatErr("payload", "no operations")
	}
	steps := []func() error{d.resolveDialects, d.decodeTypes, d.decodeRegions, d.decodeBlocks, d.decodeOps}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return d.ops[0], nil
}

func ref(v uint32, n int) (int, bool) {
	i, err := safecast.Conv[int](v)
	if err != nil || i >= n {
		return 0, false
	}
	return i, true
}

func (d *decoder) resolveDialects() error {
	for i, name := range d.p.Dialects {
		dl, ok := d.ctx.DialectByName(name)
		if !ok {
			return formatErr(fmt.Sprintf("dialect %d", i), "dialect %q is not registered", name)
		}
		d.dialects = append(d.dialects, dl)
	}
	return nil
}

func (d *decoder) dialect(where string, v uint32) (*ir.Dialect, error) {
	i, ok := ref(v, len(d.dialects))
	if !ok {
		return nil, formatErr(where, "dialect index %d out of range", v)
	}
	return d.dialects[i], nil
}

// decodeTypes fills the type table; a type may only refer to types listed
// before it.
func (d *decoder) decodeTypes() error {
	for i, rec := range d.p.Types {
		where := fmt.Sprintf("type %d", i)
		dl, err := d.dialect(where, rec.Dialect)
		if err != nil {
			return err
		}
		id, ok := dl.TypeID(rec.Name)
		if !ok {
			return formatErr(where, "unknown type %s.%s", dl.Name(), rec.Name)
		}
		params, err := d.attrs(where, rec.Params)
		if err != nil {
			return err
		}
		d.types = append(d.types, ir.NewType(d.ctx, dl.ID(), id, params))
	}
	return nil
}

func (d *decoder) typ(where string, v uint32) (ir.Type, error) {
	i, ok := ref(v, len(d.types))
	if !ok {
		return ir.Type{}, formatErr(where, "type index %d out of range", v)
	}
	return d.types[i], nil
}

func (d *decoder) attrs(where string, entries []attrEntry) (ir.AttrMap, error) {
	var m ir.AttrMap
	for _, e := range entries {
		if m.Has(e.Key) {
			return m, formatErr(where, "duplicate attribute %q", e.Key)
		}
		a, err := d.attr(where+" attribute "+e.Key, e.Value)
		if err != nil {
			return m, err
		}
		m.Set(e.Key, a)
	}
	return m, nil
}

func (d *decoder) attr(where string, rec attrRecord) (ir.Attr, error) {
	k, ok := ir.ParseAttrKind(rec.Kind)
	if !ok {
		return ir.Attr{}, formatErr(where, "unknown attribute kind %q", rec.Kind)
	}
	switch {
	case k == ir.AttrString:
		return ir.StringAttr(rec.Str), nil
	case k == ir.AttrBool || k.IsInt():
		a, err := ir.AttrFromRaw(k, rec.Raw)
		if err != nil {
			return ir.Attr{}, &FormatError{Where: where, Msg: "bad value", Err: err}
		}
		return a, nil
	case k.IsIntArray():
		a, err := ir.ArrayAttrFromRaw(k, rec.Elems)
		if err != nil {
			return ir.Attr{}, &FormatError{Where: where, Msg: "bad element", Err: err}
		}
		return a, nil
	case k == ir.AttrType:
		if len(rec.Types) != 1 {
			return ir.Attr{}, formatErr(where, "type attribute holds %d types", len(rec.Types))
		}
		t, err := d.typ(where, rec.Types[0])
		if err != nil {
			return ir.Attr{}, err
		}
		return ir.TypeAttr(t), nil
	case k == ir.AttrTypeArray:
		tys := make([]ir.Type, len(rec.Types))
		for i, ti := range rec.Types {
			t, err := d.typ(where, ti)
			if err != nil {
				return ir.Attr{}, err
			}
			tys[i] = t
		}
		return ir.TypeArrayAttr(tys), nil
	}
	return ir.Attr{}, formatErr(where, "attribute kind %s cannot be stored", k)
}

// decodeRegions creates the regions; their owners must be listed in order.
func (d *decoder) decodeRegions() error {
	last := 0
	for i, rec := range d.p.Regions {
		owner, ok := ref(rec.Op, len(d.p.Ops))
		if !ok || owner < last {
			return formatErr(fmt.Sprintf("region %d", i), "bad owner %d", rec.Op)
		}
		last = owner
		d.regions = append(d.regions, ir.NewRegion(d.ctx))
		d.owners = append(d.owners, owner)
	}
	return nil
}

func (d *decoder) decodeBlocks() error {
	for i, rec := range d.p.Blocks {
		where := fmt.Sprintf("block %d", i)
		ri, ok := ref(rec.Region, len(d.regions))
		if !ok {
			return formatErr(where, "region index %d out of range", rec.Region)
		}
		args := make([]ir.BlockArg, len(rec.Args))
		for j, a := range rec.Args {
			t, err := d.typ(where, a.Type)
			if err != nil {
				return err
			}
			args[j] = ir.BlockArg{Name: a.Name, Type: t}
		}
		d.blocks = append(d.blocks, d.regions[ri].NewBlock(rec.Label, args...))
		d.homes = append(d.homes, ri)
	}
	return nil
}

// decodeOps creates operations in listed order and pushes each into its
// block. A block must belong to a region of an earlier operation.
func (d *decoder) decodeOps() error {
	nextRegion := 0
	for i, rec := range d.p.Ops {
		where := fmt.Sprintf("op %d", i)
		dl, err := d.dialect(where, rec.Dialect)
		if err != nil {
			return err
		}
		id, ok := dl.OperationID(rec.Name)
		if !ok {
			return formatErr(where, "unknown operation %s.%s", dl.Name(), rec.Name)
		}
		def, _ := dl.OpDef(id)

		st := ir.OperationState{Info: def.Info, ResultName: rec.ResultName}
		if st.Attrs, err = d.attrs(where, rec.Attrs); err != nil {
			return err
		}
		if rec.Result != nil {
			if st.Result, err = d.typ(where, *rec.Result); err != nil {
				return err
			}
		}
		for j, o := range rec.Operands {
			v, err := d.operand(fmt.Sprintf("%s operand %d", where, j), o, i)
			if err != nil {
				return err
			}
			st.Operands = append(st.Operands, v)
		}
		for nextRegion < len(d.owners) && d.owners[nextRegion] == i {
			st.Regions = append(st.Regions, d.regions[nextRegion])
			nextRegion++
		}

		var parent *ir.Block
		if i == 0 {
			if rec.Block != -1 {
				return formatErr(where, "root must not have a parent block")
			}
		} else {
			bi, err := safecast.Conv[uint32](rec.Block)
			if err != nil {
				return formatErr(where, "bad parent block %d", rec.Block)
			}
			b, ok := ref(bi, len(d.blocks))
			if !ok || !d.ownedBefore(b, i) {
				return formatErr(where, "bad parent block %d", rec.Block)
			}
			parent = d.blocks[b]
		}

		op, err := d.ctx.CreateOperation(st)
		if err != nil {
			return &FormatError{Where: where, Msg: "invalid operation", Err: err}
		}
		d.ops = append(d.ops, op)
		if parent != nil {
			parent.Push(op)
		}
	}
	if nextRegion != len(d.regions) {
		return formatErr(fmt.Sprintf("region %d", nextRegion), "owner %d is not an operation", d.owners[nextRegion])
	}
	return nil
}

// ownedBefore reports whether block b sits in a region of an operation
// listed before op.
func (d *decoder) ownedBefore(b, op int) bool { return d.owners[d.homes[b]] < op }

func (d *decoder) operand(where string, rec operandRecord, self int) (ir.Operand, error) {
	switch ir.OperandKind(rec.Kind) {
	case ir.OperandValue:
		i, ok := ref(rec.Ref, self)
		if !ok {
			return ir.Operand{}, formatErr(where, "value refers to op %d, which is not defined before it", rec.Ref)
		}
		return ir.ValueOperand(d.ops[i]), nil
	case ir.OperandBlock:
		i, ok := ref(rec.Ref, len(d.blocks))
		if !ok {
			return ir.Operand{}, formatErr(where, "block index %d out of range", rec.Ref)
		}
		return ir.BlockOperand(d.blocks[i]), nil
	case ir.OperandBlockArg:
		i, ok := ref(rec.Ref, len(d.blocks))
		if !ok {
			return ir.Operand{}, formatErr(where, "block index %d out of range", rec.Ref)
		}
		b := d.blocks[i]
		arg, ok := ref(rec.Arg, b.NumArgs())
		if !ok {
			return ir.Operand{}, formatErr(where, "block argument %d out of range", rec.Arg)
		}
		return ir.BlockArgOperand(b, arg), nil
	case ir.OperandRegister:
		return ir.RegisterOperand(rec.Reg), nil
	}
	return ir.Operand{}, formatErr(where, "unknown operand kind %d", rec.Kind)
}
