package opgen

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The checked-in builtin operations must be exactly what the generator
// produces from their schema. Run with -update to regenerate.
func TestBuiltinOpsAreUpToDate(t *testing.T) {
	s, err := LoadFile("../../ir/builtin_ops.toml")
	require.NoError(t, err)
	out, err := Generate(s, Options{Source: "builtin_ops.toml"})
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("../../ir"), goldie.WithNameSuffix(".go"))
	g.Assert(t, "zz_builtin_ops", out)
}

const toySchema = `
dialect = "toy_math"
package = "toy"

[[op]]
name = "add"
type = "AddOp"
summary = "Adds two values."
result = "required"
operands = 2
capabilities = ["ResultTyped"]

  [[op.attr]]
  name = "lanes"
  accessor = "Lanes"
  kind = "type[]"

  [[op.attr]]
  name = "width"
  accessor = "Width"
  kind = "u16"
  required = true

[[op]]
name = "loop"
type = "LoopOp"
summary = "Repeats its body."
result = "optional"

  [[op.region]]
  name = "body"
  accessor = "Body"
  terminated = true

  [[op.region]]
  name = "exit"
  accessor = "Exit"
  single_block = true
`

func TestGenerateOutsidePackageIR(t *testing.T) {
	s, err := Parse(toySchema)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Ops[0].Operands.N)

	out, err := Generate(s, Options{Source: "toy.toml"})
	require.NoError(t, err)
	src := string(out)

	_, err = parser.ParseFile(token.NewFileSet(), "toy.go", out, parser.AllErrors)
	require.NoError(t, err)

	for _, want := range []string{
		"// Code generated by tirgen from toy.toml. DO NOT EDIT.",
		"package toy",
		`import "tir/ir"`,
		"var AddOpInfo = ir.DefineOp(",
		"Operands: 2,",
		"Result:   ir.ResultRequired,",
		"ir.Implements(func(op *ir.Operation) ResultTyped { return AddOp{op} }),",
		"func (o AddOp) Lanes() ([]ir.Type, error) {",
		"return nil, &ir.MissingFieldError{",
		`b.st.Attrs.Set("lanes", ir.TypeArrayAttr(v))`,
		`b.st.Attrs.Set("width", ir.U16Attr(v))`,
		"func (b *AddOpBuilder) Operands(vs ...ir.Operand) *AddOpBuilder {",
		"regions [2]*ir.Region",
		"func (o LoopOp) Exit() *ir.Region { return o.op.Region(1) }",
		"b.regions[1] = r",
		"Result:   ir.ResultOptional,",
		"func registerToyMathOps(d *ir.Dialect) {",
		`d.AddOperation("loop", ir.OpDef{Info: LoopOpInfo})`,
	} {
		assert.Contains(t, src, want)
	}
	assert.NotContains(t, src, "func (b *LoopOpBuilder) Operands")
}

func TestGenerateIRImportOverride(t *testing.T) {
	s, err := Parse(toySchema)
	require.NoError(t, err)
	out, err := Generate(s, Options{Source: "toy.toml", IRImport: "example.com/x/ir"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `import "example.com/x/ir"`)
}

func TestSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		msg  string
	}{
		{"no dialect", `package = "p"`, "missing dialect"},
		{"bad package", "dialect = \"d\"\npackage = \"1x\"", `package "1x" is not an identifier`},
		{"unknown key", "dialect = \"d\"\npackage = \"p\"\ncolour = 1", "unknown key colour"},
		{"operands", "dialect = \"d\"\npackage = \"p\"\n[[op]]\nname = \"a\"\ntype = \"A\"\nsummary = \"s\"\noperands = \"many\"", `operands must be a count or "variadic"`},
		{"operand range", "dialect = \"d\"\npackage = \"p\"\n[[op]]\nname = \"a\"\ntype = \"A\"\nsummary = \"s\"\noperands = 100", "operand count 100 out of range"},
		{"unexported type", "dialect = \"d\"\npackage = \"p\"\n[[op]]\nname = \"a\"\ntype = \"a\"\nsummary = \"s\"", `type "a" is not an exported identifier`},
		{"duplicate op", "dialect = \"d\"\npackage = \"p\"\n[[op]]\nname = \"a\"\ntype = \"A\"\nsummary = \"s\"\n[[op]]\nname = \"a\"\ntype = \"B\"\nsummary = \"s\"", `op "a" defined twice`},
		{"result", "dialect = \"d\"\npackage = \"p\"\n[[op]]\nname = \"a\"\ntype = \"A\"\nsummary = \"s\"\nresult = \"maybe\"", `result "maybe"`},
		{"kind", "dialect = \"d\"\npackage = \"p\"\n[[op]]\nname = \"a\"\ntype = \"A\"\nsummary = \"s\"\n[[op.attr]]\nname = \"x\"\naccessor = \"X\"\nkind = \"f32\"", `unknown kind "f32"`},
		{"reserved accessor", "dialect = \"d\"\npackage = \"p\"\n[[op]]\nname = \"a\"\ntype = \"A\"\nsummary = \"s\"\n[[op.attr]]\nname = \"x\"\naccessor = \"Build\"\nkind = \"str\"", "accessor Build clashes"},
		{"accessor clash", "dialect = \"d\"\npackage = \"p\"\n[[op]]\nname = \"a\"\ntype = \"A\"\nsummary = \"s\"\n[[op.attr]]\nname = \"x\"\naccessor = \"X\"\nkind = \"str\"\n[[op.region]]\nname = \"r\"\naccessor = \"X\"", "accessor X clashes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSchemaReportsAllProblems(t *testing.T) {
	err := (&Schema{Package: "p", Ops: []OpSchema{{Name: "a", Type: "A"}}}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing dialect")
	assert.Contains(t, err.Error(), "missing summary")
}

func TestCamel(t *testing.T) {
	assert.Equal(t, "Builtin", camel("builtin"))
	assert.Equal(t, "ToyMath", camel("toy_math"))
	assert.Equal(t, "ABC", camel("a.b-c"))
}
