package ir

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/agnivade/levenshtein"
)

// OpParseFn parses the remainder of an operation after its name. The result
// name, when present, has already been consumed and is applied by the caller.
type OpParseFn func(p *Parser, info *OpInfo) (*Operation, error)

// OpPrintFn prints an operation after its result name.
type OpPrintFn func(p *Printer, op *Operation)

// TypeParseFn parses the parameters following a type name.
type TypeParseFn func(p *Parser) (AttrMap, error)

// TypePrintFn prints the parameters following a type name.
type TypePrintFn func(p *Printer, attrs AttrMap)

// OpDef is the dialect table entry for one operation kind. Nil Parse or Print
// fall back to the generic assembly.
type OpDef struct {
	Info  *OpInfo
	Parse OpParseFn
	Print OpPrintFn
}

// TypeDef is the dialect table entry for one type kind. Nil functions fall
// back to the generic parameter list.
type TypeDef struct {
	Parse TypeParseFn
	Print TypePrintFn
}

// maxSimilarDistance bounds SimilarOperation suggestions.
const maxSimilarDistance = 5

// Dialect is a named namespace of operation and type kinds.
type Dialect struct {
	name  string
	id    DialectID
	hasID bool
	ctx   *Context

	opIDs   map[string]OpID
	opNames []string
	ops     []OpDef

	typeIDs   map[string]TypeID
	typeNames []string
	types     []TypeDef
}

func NewDialect(name string) *Dialect {
	return &Dialect{
		name:    name,
		opIDs:   make(map[string]OpID),
		typeIDs: make(map[string]TypeID),
	}
}

func (d *Dialect) Name() string { return d.name }

// ID returns the dialect id. It is only meaningful once the dialect has been
// added to a Context.
func (d *Dialect) ID() DialectID { return d.id }

// Context returns the Context the dialect was added to, or nil.
func (d *Dialect) Context() *Context { return d.ctx }

func (d *Dialect) setID(id DialectID) {
	if d.hasID {
		panic(fmt.Sprintf("ir: dialect %q already has id %d", d.name, d.id))
	}
	d.id = id
	d.hasID = true
}

// AddOperation registers an operation kind and returns its id. Registering a
// name twice panics.
func (d *Dialect) AddOperation(name string, def OpDef) OpID {
	if def.Info == nil {
		panic(fmt.Sprintf("ir: operation %s.%s has no OpInfo", d.name, name))
	}
	if _, dup := d.opIDs[name]; dup {
		panic(fmt.Sprintf("ir: operation %s.%s registered twice", d.name, name))
	}
	id := OpID(mustLen(len(d.ops)))
	d.opIDs[name] = id
	d.opNames = append(d.opNames, name)
	d.ops = append(d.ops, def)
	return id
}

func (d *Dialect) OperationID(name string) (OpID, bool) {
	id, ok := d.opIDs[name]
	return id, ok
}

func (d *Dialect) OperationName(id OpID) (string, bool) {
	if int(id) >= len(d.opNames) {
		return "", false
	}
	return d.opNames[id], true
}

func (d *Dialect) OpDef(id OpID) (OpDef, bool) {
	if int(id) >= len(d.ops) {
		return OpDef{}, false
	}
	return d.ops[id], true
}

// OperationNames lists the registered operation names in id order.
func (d *Dialect) OperationNames() []string {
	return append([]string(nil), d.opNames...)
}

// AddType registers a type kind and returns its id. Registering a name twice
// panics.
func (d *Dialect) AddType(name string, def TypeDef) TypeID {
	if _, dup := d.typeIDs[name]; dup {
		panic(fmt.Sprintf("ir: type %s.%s registered twice", d.name, name))
	}
	id := TypeID(mustLen(len(d.types)))
	d.typeIDs[name] = id
	d.typeNames = append(d.typeNames, name)
	d.types = append(d.types, def)
	return id
}

func (d *Dialect) TypeID(name string) (TypeID, bool) {
	id, ok := d.typeIDs[name]
	return id, ok
}

func (d *Dialect) TypeName(id TypeID) (string, bool) {
	if int(id) >= len(d.typeNames) {
		return "", false
	}
	return d.typeNames[id], true
}

func (d *Dialect) TypeDef(id TypeID) (TypeDef, bool) {
	if int(id) >= len(d.types) {
		return TypeDef{}, false
	}
	return d.types[id], true
}

// TypeNames lists the registered type names in id order.
func (d *Dialect) TypeNames() []string {
	return append([]string(nil), d.typeNames...)
}

// Type builds a type of the named kind. The dialect must be registered with a
// Context and the kind must exist.
func (d *Dialect) Type(name string, attrs AttrMap) Type {
	if d.ctx == nil {
		panic(fmt.Sprintf("ir: dialect %q is not registered", d.name))
	}
	id, ok := d.typeIDs[name]
	if !ok {
		panic(fmt.Sprintf("ir: dialect %q has no type %q", d.name, name))
	}
	return NewType(d.ctx, d.id, id, attrs)
}

// SimilarOperation returns the registered operation name closest to name,
// if any is within a small edit distance.
func (d *Dialect) SimilarOperation(name string) (string, bool) {
	best, bestDist := "", maxSimilarDistance
	for _, cand := range d.opNames {
		if dist := levenshtein.ComputeDistance(name, cand); dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best, best != ""
}

func mustLen(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("ir: table overflow: %w", err))
	}
	return v
}
