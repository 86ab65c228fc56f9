package ir

import (
	"slices"
	"strconv"

	"fortio.org/safecast"
)

// AttrKind tags the variant held by an Attr.
type AttrKind uint8

const (
	AttrInvalid AttrKind = iota
	AttrString
	AttrBool
	AttrI8
	AttrI16
	AttrI32
	AttrI64
	AttrU8
	AttrU16
	AttrU32
	AttrU64
	AttrI8Array
	AttrI16Array
	AttrI32Array
	AttrI64Array
	AttrU8Array
	AttrU16Array
	AttrU32Array
	AttrU64Array
	AttrType
	AttrTypeArray

	// Constraints for OpInfo attribute specs; no Attr carries them.
	AttrAny
	AttrAnyInt
)

var attrKindNames = [...]string{
	AttrInvalid:   "invalid",
	AttrString:    "str",
	AttrBool:      "bool",
	AttrI8:        "i8",
	AttrI16:       "i16",
	AttrI32:       "i32",
	AttrI64:       "i64",
	AttrU8:        "u8",
	AttrU16:       "u16",
	AttrU32:       "u32",
	AttrU64:       "u64",
	AttrI8Array:   "i8[]",
	AttrI16Array:  "i16[]",
	AttrI32Array:  "i32[]",
	AttrI64Array:  "i64[]",
	AttrU8Array:   "u8[]",
	AttrU16Array:  "u16[]",
	AttrU32Array:  "u32[]",
	AttrU64Array:  "u64[]",
	AttrType:      "type",
	AttrTypeArray: "type[]",
	AttrAny:       "any",
	AttrAnyInt:    "int",
}

func (k AttrKind) String() string {
	if int(k) < len(attrKindNames) {
		return attrKindNames[k]
	}
	return "AttrKind(" + strconv.Itoa(int(k)) + ")"
}

// ParseAttrKind maps a textual kind ("i8", "u32[]", "type", "any") back to
// its AttrKind.
func ParseAttrKind(s string) (AttrKind, bool) {
	for k, name := range attrKindNames {
		if name == s && AttrKind(k) != AttrInvalid {
			return AttrKind(k), true
		}
	}
	return AttrInvalid, false
}

// IsInt reports whether k is a scalar integer kind.
func (k AttrKind) IsInt() bool { return k >= AttrI8 && k <= AttrU64 }

// IsIntArray reports whether k is an integer array kind.
func (k AttrKind) IsIntArray() bool { return k >= AttrI8Array && k <= AttrU64Array }

// IsSigned reports whether k (scalar or array) holds signed integers.
func (k AttrKind) IsSigned() bool {
	return (k >= AttrI8 && k <= AttrI64) || (k >= AttrI8Array && k <= AttrI64Array)
}

// Elem returns the scalar kind of an integer array kind, or k itself.
func (k AttrKind) Elem() AttrKind {
	if k.IsIntArray() {
		return k - (AttrI8Array - AttrI8)
	}
	return k
}

// Bits returns the width of a scalar or array integer kind, 0 otherwise.
func (k AttrKind) Bits() int {
	switch k.Elem() {
	case AttrI8, AttrU8:
		return 8
	case AttrI16, AttrU16:
		return 16
	case AttrI32, AttrU32:
		return 32
	case AttrI64, AttrU64:
		return 64
	}
	return 0
}

// Accepts reports whether a value of kind actual satisfies constraint k.
func (k AttrKind) Accepts(actual AttrKind) bool {
	switch k {
	case AttrAny:
		return actual != AttrInvalid
	case AttrAnyInt:
		return actual.IsInt()
	default:
		return k == actual
	}
}

// Attr is an immutable attribute value: string, bool, fixed-width integer,
// integer array, Type or Type array. Narrowing accessors never panic.
type Attr struct {
	kind AttrKind
	str  string
	bits uint64   // bool and scalar integers; signed values are sign-extended
	vals []uint64 // integer arrays, same encoding as bits
	tys  []Type   // AttrType (one element) and AttrTypeArray
}

func StringAttr(s string) Attr { return Attr{kind: AttrString, str: s} }

func BoolAttr(b bool) Attr {
	a := Attr{kind: AttrBool}
	if b {
		a.bits = 1
	}
	return a
}

func I8Attr(v int8) Attr    { return Attr{kind: AttrI8, bits: uint64(v)} }
func I16Attr(v int16) Attr  { return Attr{kind: AttrI16, bits: uint64(v)} }
func I32Attr(v int32) Attr  { return Attr{kind: AttrI32, bits: uint64(v)} }
func I64Attr(v int64) Attr  { return Attr{kind: AttrI64, bits: uint64(v)} }
func U8Attr(v uint8) Attr   { return Attr{kind: AttrU8, bits: uint64(v)} }
func U16Attr(v uint16) Attr { return Attr{kind: AttrU16, bits: uint64(v)} }
func U32Attr(v uint32) Attr { return Attr{kind: AttrU32, bits: uint64(v)} }
func U64Attr(v uint64) Attr { return Attr{kind: AttrU64, bits: v} }

type intElem interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func arrayAttr[T intElem](k AttrKind, vs []T) Attr {
	vals := make([]uint64, len(vs))
	for i, v := range vs {
		vals[i] = uint64(v)
	}
	return Attr{kind: k, vals: vals}
}

func I8ArrayAttr(vs []int8) Attr    { return arrayAttr(AttrI8Array, vs) }
func I16ArrayAttr(vs []int16) Attr  { return arrayAttr(AttrI16Array, vs) }
func I32ArrayAttr(vs []int32) Attr  { return arrayAttr(AttrI32Array, vs) }
func I64ArrayAttr(vs []int64) Attr  { return arrayAttr(AttrI64Array, vs) }
func U8ArrayAttr(vs []uint8) Attr   { return arrayAttr(AttrU8Array, vs) }
func U16ArrayAttr(vs []uint16) Attr { return arrayAttr(AttrU16Array, vs) }
func U32ArrayAttr(vs []uint32) Attr { return arrayAttr(AttrU32Array, vs) }
func U64ArrayAttr(vs []uint64) Attr { return arrayAttr(AttrU64Array, vs) }
func TypeAttr(t Type) Attr          { return Attr{kind: AttrType, tys: []Type{t}} }
func TypeArrayAttr(ts []Type) Attr  { return Attr{kind: AttrTypeArray, tys: slices.Clone(ts)} }

// IntAttr builds a scalar integer attribute of kind k from v, failing when
// v does not fit.
func IntAttr(k AttrKind, v int64) (Attr, error) {
	var err error
	switch k {
	case AttrI8:
		_, err = safecast.Conv[int8](v)
	case AttrI16:
		_, err = safecast.Conv[int16](v)
	case AttrI32:
		_, err = safecast.Conv[int32](v)
	case AttrI64:
	case AttrU8:
		_, err = safecast.Conv[uint8](v)
	case AttrU16:
		_, err = safecast.Conv[uint16](v)
	case AttrU32:
		_, err = safecast.Conv[uint32](v)
	case AttrU64:
		_, err = safecast.Conv[uint64](v)
	default:
		return Attr{}, &AttrKindError{Want: AttrAnyInt, Got: k}
	}
	if err != nil {
		return Attr{}, &AttrRangeError{Kind: k, Value: strconv.FormatInt(v, 10), Err: err}
	}
	return Attr{kind: k, bits: uint64(v)}, nil
}

// UintAttr is IntAttr for unsigned input.
func UintAttr(k AttrKind, v uint64) (Attr, error) {
	var err error
	switch k {
	case AttrI8:
		_, err = safecast.Conv[int8](v)
	case AttrI16:
		_, err = safecast.Conv[int16](v)
	case AttrI32:
		_, err = safecast.Conv[int32](v)
	case AttrI64:
		_, err = safecast.Conv[int64](v)
	case AttrU8:
		_, err = safecast.Conv[uint8](v)
	case AttrU16:
		_, err = safecast.Conv[uint16](v)
	case AttrU32:
		_, err = safecast.Conv[uint32](v)
	case AttrU64:
	default:
		return Attr{}, &AttrKindError{Want: AttrAnyInt, Got: k}
	}
	if err != nil {
		return Attr{}, &AttrRangeError{Kind: k, Value: strconv.FormatUint(v, 10), Err: err}
	}
	return Attr{kind: k, bits: v}, nil
}

func (a Attr) Kind() AttrKind { return a.kind }

// IsValid reports whether a holds a value.
func (a Attr) IsValid() bool { return a.kind != AttrInvalid }

func (a Attr) want(k AttrKind) error {
	if a.kind != k {
		return &AttrKindError{Want: k, Got: a.kind}
	}
	return nil
}

func (a Attr) AsString() (string, error) {
	if err := a.want(AttrString); err != nil {
		return "", err
	}
	return a.str, nil
}

func (a Attr) AsBool() (bool, error) {
	if err := a.want(AttrBool); err != nil {
		return false, err
	}
	return a.bits != 0, nil
}

func scalarAs[T intElem](a Attr, k AttrKind) (T, error) {
	if err := a.want(k); err != nil {
		return 0, err
	}
	return T(a.bits), nil
}

func (a Attr) AsI8() (int8, error)    { return scalarAs[int8](a, AttrI8) }
func (a Attr) AsI16() (int16, error)  { return scalarAs[int16](a, AttrI16) }
func (a Attr) AsI32() (int32, error)  { return scalarAs[int32](a, AttrI32) }
func (a Attr) AsI64() (int64, error)  { return scalarAs[int64](a, AttrI64) }
func (a Attr) AsU8() (uint8, error)   { return scalarAs[uint8](a, AttrU8) }
func (a Attr) AsU16() (uint16, error) { return scalarAs[uint16](a, AttrU16) }
func (a Attr) AsU32() (uint32, error) { return scalarAs[uint32](a, AttrU32) }
func (a Attr) AsU64() (uint64, error) { return scalarAs[uint64](a, AttrU64) }

func arrayAs[T intElem](a Attr, k AttrKind) ([]T, error) {
	if err := a.want(k); err != nil {
		return nil, err
	}
	out := make([]T, len(a.vals))
	for i, v := range a.vals {
		out[i] = T(v)
	}
	return out, nil
}

func (a Attr) AsI8Array() ([]int8, error)    { return arrayAs[int8](a, AttrI8Array) }
func (a Attr) AsI16Array() ([]int16, error)  { return arrayAs[int16](a, AttrI16Array) }
func (a Attr) AsI32Array() ([]int32, error)  { return arrayAs[int32](a, AttrI32Array) }
func (a Attr) AsI64Array() ([]int64, error)  { return arrayAs[int64](a, AttrI64Array) }
func (a Attr) AsU8Array() ([]uint8, error)   { return arrayAs[uint8](a, AttrU8Array) }
func (a Attr) AsU16Array() ([]uint16, error) { return arrayAs[uint16](a, AttrU16Array) }
func (a Attr) AsU32Array() ([]uint32, error) { return arrayAs[uint32](a, AttrU32Array) }
func (a Attr) AsU64Array() ([]uint64, error) { return arrayAs[uint64](a, AttrU64Array) }

func (a Attr) AsType() (Type, error) {
	if err := a.want(AttrType); err != nil {
		return Type{}, err
	}
	return a.tys[0], nil
}

func (a Attr) AsTypeArray() ([]Type, error) {
	if err := a.want(AttrTypeArray); err != nil {
		return nil, err
	}
	return slices.Clone(a.tys), nil
}

// Int64 returns any scalar integer as int64.
func (a Attr) Int64() (int64, error) {
	if !a.kind.IsInt() {
		return 0, &AttrKindError{Want: AttrAnyInt, Got: a.kind}
	}
	if a.kind.IsSigned() {
		return int64(a.bits), nil
	}
	v, err := safecast.Conv[int64](a.bits)
	if err != nil {
		return 0, &AttrRangeError{Kind: AttrI64, Value: strconv.FormatUint(a.bits, 10), Err: err}
	}
	return v, nil
}

// ConvertTo re-encodes a scalar integer with another integer kind, failing
// when the value does not fit.
func (a Attr) ConvertTo(k AttrKind) (Attr, error) {
	if !a.kind.IsInt() {
		return Attr{}, &AttrKindError{Want: AttrAnyInt, Got: a.kind}
	}
	if a.kind.IsSigned() {
		return IntAttr(k, int64(a.bits))
	}
	return UintAttr(k, a.bits)
}

// Raw returns the stored encoding of a bool or scalar integer attribute.
// Signed values are sign-extended.
func (a Attr) Raw() (uint64, error) {
	if a.kind != AttrBool && !a.kind.IsInt() {
		return 0, &AttrKindError{Want: AttrAnyInt, Got: a.kind}
	}
	return a.bits, nil
}

// RawElems returns the stored encoding of an integer array attribute.
func (a Attr) RawElems() ([]uint64, error) {
	if !a.kind.IsIntArray() {
		return nil, &AttrKindError{Want: AttrAnyInt, Got: a.kind}
	}
	return slices.Clone(a.vals), nil
}

// AttrFromRaw rebuilds a bool or scalar integer attribute from Raw's
// encoding, failing when raw is not a valid value of k.
func AttrFromRaw(k AttrKind, raw uint64) (Attr, error) {
	switch {
	case k == AttrBool:
		if raw > 1 {
			return Attr{}, &AttrRangeError{Kind: k, Value: strconv.FormatUint(raw, 10)}
		}
		return Attr{kind: k, bits: raw}, nil
	case k.IsSigned():
		return IntAttr(k, int64(raw))
	case k.IsInt():
		return UintAttr(k, raw)
	}
	return Attr{}, &AttrKindError{Want: AttrAnyInt, Got: k}
}

// ArrayAttrFromRaw is AttrFromRaw for integer arrays.
func ArrayAttrFromRaw(k AttrKind, elems []uint64) (Attr, error) {
	if !k.IsIntArray() {
		return Attr{}, &AttrKindError{Want: AttrAnyInt, Got: k}
	}
	vals := make([]uint64, len(elems))
	for i, raw := range elems {
		e, err := AttrFromRaw(k.Elem(), raw)
		if err != nil {
			return Attr{}, err
		}
		vals[i] = e.bits
	}
	return Attr{kind: k, vals: vals}, nil
}

// Len returns the element count of array attributes and 0 otherwise.
func (a Attr) Len() int {
	if a.kind == AttrTypeArray {
		return len(a.tys)
	}
	return len(a.vals)
}

// Equal compares kind and value structurally.
func (a Attr) Equal(b Attr) bool {
	if a.kind != b.kind {
		return false
	}
	switch {
	case a.kind == AttrString:
		return a.str == b.str
	case a.kind == AttrBool || a.kind.IsInt():
		return a.bits == b.bits
	case a.kind.IsIntArray():
		return slices.Equal(a.vals, b.vals)
	case a.kind == AttrType || a.kind == AttrTypeArray:
		return slices.EqualFunc(a.tys, b.tys, Type.Equal)
	}
	return true
}

// formatInt renders one integer value of kind k.
func formatInt(k AttrKind, bits uint64) string {
	if k.IsSigned() {
		return strconv.FormatInt(int64(bits), 10)
	}
	return strconv.FormatUint(bits, 10)
}
