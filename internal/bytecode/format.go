// Package bytecode is the binary form of the IR: a short magic header
// followed by one msgpack-encoded payload with flat tables.
//
// Operations are listed in pre-order, so a parent always precedes its
// children and the root is entry 0. Blocks and regions refer to their owners
// by table index. Value operands may only name operations listed earlier,
// the same rule the textual parser applies to %names.
package bytecode

import "bytes"

// Magic starts every bytecode file.
const Magic = "TIRB"

// Current schema version - increment when the payload layout changes.
const schemaVersion uint16 = 1

// SchemaVersion is the payload layout this package reads and writes.
const SchemaVersion = schemaVersion

// IsBytecode reports whether data starts with Magic.
func IsBytecode(data []byte) bool { return bytes.HasPrefix(data, []byte(Magic)) }

type payload struct {
	Schema   uint16
	Dialects []string
	Types    []typeRecord
	Regions  []regionRecord
	Blocks   []blockRecord
	Ops      []opRecord
}

type typeRecord struct {
	Dialect uint32
	Name    string
	Params  []attrEntry
}

type attrEntry struct {
	Key   string
	Value attrRecord
}

type attrRecord struct {
	Kind  string
	Str   string   `msgpack:",omitempty"`
	Raw   uint64   `msgpack:",omitempty"`
	Elems []uint64 `msgpack:",omitempty"`
	Types []uint32 `msgpack:",omitempty"`
}

type regionRecord struct {
	Op uint32
}

type blockRecord struct {
	Region uint32
	Label  string `msgpack:",omitempty"`
	Args   []argRecord
}

type argRecord struct {
	Name string `msgpack:",omitempty"`
	Type uint32
}

type opRecord struct {
	Dialect    uint32
	Name       string
	Block      int64 // -1 for the root
	Attrs      []attrEntry
	Operands   []operandRecord
	Result     *uint32 `msgpack:",omitempty"`
	ResultName string  `msgpack:",omitempty"`
}

type operandRecord struct {
	Kind uint8
	Ref  uint32 // op index for values, block index for blocks and block args
	Arg  uint32 `msgpack:",omitempty"`
	Reg  string `msgpack:",omitempty"`
}
