package opgen

// kindInfo is how generated code reads and writes one attribute kind.
// Identifiers are unqualified; the generator prefixes them outside package ir.
type kindInfo struct {
	Const  string // AttrKind constant
	GoType string // accessor result and setter parameter
	As     string // narrowing method, empty when the Attr is returned as is
	Ctor   string // Attr constructor, empty when the setter takes an Attr
	Zero   string
	Qual   bool // GoType and Zero name an ir type
}

var kinds = map[string]kindInfo{
	"str":    {Const: "AttrString", GoType: "string", As: "AsString", Ctor: "StringAttr", Zero: `""`},
	"bool":   {Const: "AttrBool", GoType: "bool", As: "AsBool", Ctor: "BoolAttr", Zero: "false"},
	"i8":     {Const: "AttrI8", GoType: "int8", As: "AsI8", Ctor: "I8Attr", Zero: "0"},
	"i16":    {Const: "AttrI16", GoType: "int16", As: "AsI16", Ctor: "I16Attr", Zero: "0"},
	"i32":    {Const: "AttrI32", GoType: "int32", As: "AsI32", Ctor: "I32Attr", Zero: "0"},
	"i64":    {Const: "AttrI64", GoType: "int64", As: "AsI64", Ctor: "I64Attr", Zero: "0"},
	"u8":     {Const: "AttrU8", GoType: "uint8", As: "AsU8", Ctor: "U8Attr", Zero: "0"},
	"u16":    {Const: "AttrU16", GoType: "uint16", As: "AsU16", Ctor: "U16Attr", Zero: "0"},
	"u32":    {Const: "AttrU32", GoType: "uint32", As: "AsU32", Ctor: "U32Attr", Zero: "0"},
	"u64":    {Const: "AttrU64", GoType: "uint64", As: "AsU64", Ctor: "U64Attr", Zero: "0"},
	"i8[]":   {Const: "AttrI8Array", GoType: "[]int8", As: "AsI8Array", Ctor: "I8ArrayAttr", Zero: "nil"},
	"i16[]":  {Const: "AttrI16Array", GoType: "[]int16", As: "AsI16Array", Ctor: "I16ArrayAttr", Zero: "nil"},
	"i32[]":  {Const: "AttrI32Array", GoType: "[]int32", As: "AsI32Array", Ctor: "I32ArrayAttr", Zero: "nil"},
	"i64[]":  {Const: "AttrI64Array", GoType: "[]int64", As: "AsI64Array", Ctor: "I64ArrayAttr", Zero: "nil"},
	"u8[]":   {Const: "AttrU8Array", GoType: "[]uint8", As: "AsU8Array", Ctor: "U8ArrayAttr", Zero: "nil"},
	"u16[]":  {Const: "AttrU16Array", GoType: "[]uint16", As: "AsU16Array", Ctor: "U16ArrayAttr", Zero: "nil"},
	"u32[]":  {Const: "AttrU32Array", GoType: "[]uint32", As: "AsU32Array", Ctor: "U32ArrayAttr", Zero: "nil"},
	"u64[]":  {Const: "AttrU64Array", GoType: "[]uint64", As: "AsU64Array", Ctor: "U64ArrayAttr", Zero: "nil"},
	"type":   {Const: "AttrType", GoType: "Type", As: "AsType", Ctor: "TypeAttr", Zero: "Type{}", Qual: true},
	"type[]": {Const: "AttrTypeArray", GoType: "[]Type", As: "AsTypeArray", Ctor: "TypeArrayAttr", Zero: "nil", Qual: true},
	"int":    {Const: "AttrAnyInt", GoType: "Attr", Zero: "Attr{}", Qual: true},
	"any":    {Const: "AttrAny", GoType: "Attr", Zero: "Attr{}", Qual: true},
}
