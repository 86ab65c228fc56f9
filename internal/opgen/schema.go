// Package opgen turns a TOML operation schema into Go source: a view type,
// OpInfo, fallible attribute accessors and a builder per operation.
package opgen

import (
	"errors"
	"fmt"
	"go/token"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Schema is the decoded schema file.
type Schema struct {
	Dialect string     `toml:"dialect"`
	Package string     `toml:"package"`
	Ops     []OpSchema `toml:"op"`
}

// OpSchema describes one operation kind.
type OpSchema struct {
	Name           string         `toml:"name"`
	Type           string         `toml:"type"`
	Summary        string         `toml:"summary"`
	CustomAssembly bool           `toml:"custom_assembly"`
	Result         string         `toml:"result"` // none|optional|required
	Operands       OperandCount   `toml:"operands"`
	Capabilities   []string       `toml:"capabilities"`
	Attrs          []AttrSchema   `toml:"attr"`
	Regions        []RegionSchema `toml:"region"`
}

type AttrSchema struct {
	Name     string `toml:"name"`
	Accessor string `toml:"accessor"`
	Kind     string `toml:"kind"`
	Required bool   `toml:"required"`
}

type RegionSchema struct {
	Name        string `toml:"name"`
	Accessor    string `toml:"accessor"`
	SingleBlock bool   `toml:"single_block"`
	NoArgs      bool   `toml:"no_args"`
	Terminated  bool   `toml:"terminated"`
}

// OperandCount is a fixed operand count or "variadic".
type OperandCount struct {
	N        int
	Variadic bool
}

// UnmarshalTOML accepts a non-negative integer or the string "variadic".
func (c *OperandCount) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		if x < 0 || x > 64 {
			return fmt.Errorf("operand count %d out of range", x)
		}
		c.N = int(x)
		return nil
	case string:
		if x == "variadic" {
			c.Variadic = true
			return nil
		}
	}
	return fmt.Errorf("operands must be a count or \"variadic\", got %v", v)
}

// LoadFile reads and validates a schema.
func LoadFile(path string) (*Schema, error) {
	var s Schema
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

// Parse decodes and validates schema text.
func Parse(text string) (*Schema, error) {
	var s Schema
	meta, err := toml.Decode(text, &s)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %s", undecoded[0])
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Builder methods every generated builder defines.
var reservedSetters = []string{"ResultType", "Named", "Operands", "Build"}

// Validate checks names and kinds; all problems are reported together.
func (s *Schema) Validate() error {
	var errs []error
	if s.Dialect == "" {
		errs = append(errs, errors.New("missing dialect"))
	}
	if !token.IsIdentifier(s.Package) {
		errs = append(errs, fmt.Errorf("package %q is not an identifier", s.Package))
	}
	seen := make(map[string]bool)
	types := make(map[string]bool)
	for i := range s.Ops {
		op := &s.Ops[i]
		where := fmt.Sprintf("op %q", op.Name)
		switch {
		case op.Name == "":
			errs = append(errs, fmt.Errorf("op #%d has no name", i))
		case seen[op.Name]:
			errs = append(errs, fmt.Errorf("%s defined twice", where))
		}
		seen[op.Name] = true
		if !token.IsExported(op.Type) || !token.IsIdentifier(op.Type) {
			errs = append(errs, fmt.Errorf("%s: type %q is not an exported identifier", where, op.Type))
		} else if types[op.Type] {
			errs = append(errs, fmt.Errorf("%s: type %s used twice", where, op.Type))
		}
		types[op.Type] = true
		if op.Summary == "" {
			errs = append(errs, fmt.Errorf("%s: missing summary", where))
		}
		if !slices.Contains([]string{"", "none", "optional", "required"}, op.Result) {
			errs = append(errs, fmt.Errorf("%s: result %q (expected none|optional|required)", where, op.Result))
		}
		accessors := make(map[string]bool)
		checkAccessor := func(name string) {
			switch {
			case !token.IsExported(name) || !token.IsIdentifier(name):
				errs = append(errs, fmt.Errorf("%s: accessor %q is not an exported identifier", where, name))
			case accessors[name] || name == "Operation" || slices.Contains(reservedSetters, name):
				errs = append(errs, fmt.Errorf("%s: accessor %s clashes", where, name))
			}
			accessors[name] = true
		}
		for _, a := range op.Attrs {
			checkAccessor(a.Accessor)
			if _, ok := kinds[a.Kind]; !ok {
				errs = append(errs, fmt.Errorf("%s: attribute %s has unknown kind %q", where, a.Name, a.Kind))
			}
		}
		for _, r := range op.Regions {
			checkAccessor(r.Accessor)
		}
		for _, c := range op.Capabilities {
			if c == "" || strings.ContainsAny(c, " \t") {
				errs = append(errs, fmt.Errorf("%s: bad capability %q", where, c))
			}
		}
	}
	return errors.Join(errs...)
}
