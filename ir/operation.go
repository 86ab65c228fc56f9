package ir

import (
	"fmt"
	"slices"
	"strings"
)

// Op is implemented by *Operation and by every concrete operation view.
type Op interface {
	Operation() *Operation
}

// Operation is a node of the graph. Concrete kinds are views over it; the
// runtime tag (dialect id, op id) selects the OpInfo.
type Operation struct {
	ctx     *Context
	id      AllocID
	dialect DialectID
	opcode  OpID
	info    *OpInfo

	regions  []*Region
	attrs    AttrMap
	operands []Operand
	result   Type
	name     string

	block *Block // parent, non-owning
}

// OperationState collects the parts of an operation before it is allocated.
type OperationState struct {
	Info       *OpInfo
	Operands   []Operand
	Attrs      AttrMap
	Result     Type // zero Type for none
	ResultName string
	Regions    []*Region
}

// CreateOperation checks st against its OpInfo, allocates the operation and
// takes ownership of st.Regions. Region slots st leaves out are created
// empty; single-block slots get their entry block.
func (c *Context) CreateOperation(st OperationState) (*Operation, error) {
	info := st.Info
	if info == nil {
		panic("ir: OperationState without OpInfo")
	}
	d := c.MustDialect(info.Dialect)
	opcode, ok := d.OperationID(info.Name)
	if !ok {
		panic(fmt.Sprintf("ir: operation %s is not registered", info.QualifiedName()))
	}
	if len(st.Regions) > len(info.Regions) {
		return nil, fmt.Errorf("ir: %s takes %d regions, got %d", info.QualifiedName(), len(info.Regions), len(st.Regions))
	}
	if err := checkFields(info, st.Attrs, st.Result.IsValid(), len(st.Operands)); err != nil {
		return nil, err
	}

	op := &Operation{
		ctx:      c,
		dialect:  d.ID(),
		opcode:   opcode,
		info:     info,
		attrs:    st.Attrs.Clone(),
		operands: slices.Clone(st.Operands),
		result:   st.Result,
		name:     st.ResultName,
	}
	op.id = c.ops.allocate(op)

	for _, r := range FillRegions(c, info, st.Regions) {
		op.attachRegion(r)
	}
	return op, nil
}

// FillRegions returns regions with nil slots replaced by fresh regions, one
// per RegionSpec of info. Single-block slots get their entry block.
func FillRegions(ctx *Context, info *OpInfo, regions []*Region) []*Region {
	out := make([]*Region, len(info.Regions))
	for i := range out {
		if i < len(regions) && regions[i] != nil {
			out[i] = regions[i]
			continue
		}
		out[i] = NewRegion(ctx)
		if info.Regions[i].SingleBlock {
			out[i].AddBlock(NewBlock(ctx, ""))
		}
	}
	return out
}

// checkFields verifies attributes, result and operand count against info.
func checkFields(info *OpInfo, attrs AttrMap, hasResult bool, operands int) error {
	for _, spec := range info.Attrs {
		a, ok := attrs.Get(spec.Name)
		if !ok {
			if spec.Required {
				return &MissingFieldError{Op: info.QualifiedName(), Field: spec.Name, What: "attribute"}
			}
			continue
		}
		if !spec.Kind.Accepts(a.Kind()) {
			return &FieldKindError{Op: info.QualifiedName(), Field: spec.Name, Want: spec.Kind.String(), Got: a.Kind()}
		}
	}
	switch {
	case info.Result == ResultRequired && !hasResult:
		return &MissingFieldError{Op: info.QualifiedName(), Field: "result", What: "result type"}
	case info.Result == ResultNone && hasResult:
		return fmt.Errorf("ir: %s does not define a result", info.QualifiedName())
	}
	if info.Operands != Variadic && info.Operands != operands {
		return fmt.Errorf("ir: %s takes %d operands, got %d", info.QualifiedName(), info.Operands, operands)
	}
	return nil
}

func (o *Operation) attachRegion(r *Region) {
	if r.parent.IsValid() {
		panic(fmt.Sprintf("ir: region already belongs to %s", r.parent))
	}
	if r.ctx != o.ctx {
		panic("ir: region belongs to another context")
	}
	r.parent = o.id
	r.index = len(o.regions)
	o.regions = append(o.regions, r)
}

func (o *Operation) Operation() *Operation { return o }

func (o *Operation) ID() AllocID          { return o.id }
func (o *Operation) Context() *Context    { return o.ctx }
func (o *Operation) DialectID() DialectID { return o.dialect }
func (o *Operation) OpID() OpID           { return o.opcode }
func (o *Operation) Info() *OpInfo        { return o.info }

// Dialect returns the dialect the operation kind belongs to.
func (o *Operation) Dialect() *Dialect {
	d, _ := o.ctx.Dialect(o.dialect)
	return d
}

// Name returns the qualified operation kind name.
func (o *Operation) Name() string { return o.info.QualifiedName() }

func (o *Operation) NumRegions() int { return len(o.regions) }

// Regions returns the owned regions in order.
func (o *Operation) Regions() []*Region { return slices.Clone(o.regions) }

// Region returns region i. Asking for a region the kind does not have is a
// programming error and panics.
func (o *Operation) Region(i int) *Region {
	if i < 0 || i >= len(o.regions) {
		panic(fmt.Sprintf("ir: %s has no region %d", o.Name(), i))
	}
	return o.regions[i]
}

// Attrs returns a copy of the attribute map.
func (o *Operation) Attrs() AttrMap { return o.attrs.Clone() }

func (o *Operation) Attr(key string) (Attr, bool) { return o.attrs.Get(key) }

func (o *Operation) SetAttr(key string, v Attr) { o.attrs.Set(key, v) }

func (o *Operation) NumOperands() int { return len(o.operands) }

func (o *Operation) Operands() []Operand { return slices.Clone(o.operands) }

func (o *Operation) Operand(i int) (Operand, bool) {
	if i < 0 || i >= len(o.operands) {
		return Operand{}, false
	}
	return o.operands[i], true
}

func (o *Operation) SetOperands(ops []Operand) { o.operands = slices.Clone(ops) }

func (o *Operation) AddOperand(v Operand) { o.operands = append(o.operands, v) }

// Result returns the result type, if the operation defines a value.
func (o *Operation) Result() (Type, bool) { return o.result, o.result.IsValid() }

func (o *Operation) SetResult(t Type) { o.result = t }

// ResultName is the textual name of the defined value; empty when unnamed.
func (o *Operation) ResultName() string { return o.name }

func (o *Operation) SetResultName(name string) { o.name = name }

// Parent returns the block holding the operation, or nil if detached.
func (o *Operation) Parent() *Block { return o.block }

// ParentOp returns the operation owning the enclosing region, or nil.
func (o *Operation) ParentOp() *Operation {
	if o.block == nil || o.block.region == nil || !o.block.region.parent.IsValid() {
		return nil
	}
	return o.ctx.Op(o.block.region.parent)
}

// View returns the concrete view of the operation.
func (o *Operation) View() Op { return o.info.View(o) }

func (o *Operation) String() string { return strings.TrimSuffix(Print(o), "\n") }
