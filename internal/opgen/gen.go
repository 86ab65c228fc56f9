package opgen

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"
	"unicode"
)

//go:embed templates/ops.go.tpl
var opsTemplate string

// DefaultIRImport is the import path of package ir.
const DefaultIRImport = "tir/ir"

// Options controls Generate.
type Options struct {
	Source   string // schema file name for the header comment
	IRImport string // empty means DefaultIRImport
}

type fileView struct {
	Source     string
	Package    string
	Dialect    string
	IRImport   string
	NeedImport bool
	Register   string
	Ops        []opView
}

type opView struct {
	Type        string
	Name        string
	Qualified   string
	Summary     string
	Result      string
	HasResult   bool
	Operands    string
	HasOperands bool
	Caps        []string
	Attrs       []attrView
	Regions     []regionView
	Parse       string
	Print       string
}

type attrView struct {
	Name     string
	Accessor string
	Const    string
	Required bool
	GoType   string
	Zero     string
	Return   string
	SetValue string
}

type regionView struct {
	Name        string
	Accessor    string
	Index       int
	SingleBlock bool
	NoArgs      bool
	Terminated  bool
}

// Generate renders the Go source for s. The output is gofmt-formatted.
func Generate(s *Schema, opts Options) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if opts.IRImport == "" {
		opts.IRImport = DefaultIRImport
	}
	prefix := ""
	if s.Package != "ir" {
		prefix = "ir."
	}
	q := func(name string) string { return prefix + name }

	view := fileView{
		Source:     opts.Source,
		Package:    s.Package,
		Dialect:    s.Dialect,
		IRImport:   opts.IRImport,
		NeedImport: prefix != "",
		Register:   "register" + camel(s.Dialect) + "Ops",
	}
	for _, op := range s.Ops {
		view.Ops = append(view.Ops, newOpView(s.Dialect, op, q))
	}

	tmpl, err := template.New("ops").Funcs(template.FuncMap{"q": q}).Parse(opsTemplate)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, err
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("opgen: generated code does not parse: %w", err)
	}
	return out, nil
}

func newOpView(dialect string, op OpSchema, q func(string) string) opView {
	v := opView{
		Type:      op.Type,
		Name:      op.Name,
		Qualified: dialect + "." + op.Name,
		Summary:   op.Summary,
		Caps:      op.Capabilities,
		Operands:  strconv.Itoa(op.Operands.N),
	}
	switch op.Result {
	case "required":
		v.Result, v.HasResult = q("ResultRequired"), true
	case "optional":
		v.Result, v.HasResult = q("ResultOptional"), true
	default:
		v.Result = q("ResultNone")
	}
	if op.Operands.Variadic {
		v.Operands = q("Variadic")
	}
	v.HasOperands = op.Operands.Variadic || op.Operands.N > 0
	if op.CustomAssembly {
		v.Parse, v.Print = "parse"+op.Type, "print"+op.Type
	}
	for _, a := range op.Attrs {
		k := kinds[a.Kind]
		goType, zero := k.GoType, k.Zero
		if k.Qual {
			goType = qualifyType(goType, q)
			if zero != "nil" {
				zero = q(zero)
			}
		}
		av := attrView{
			Name:     a.Name,
			Accessor: a.Accessor,
			Const:    q(k.Const),
			Required: a.Required,
			GoType:   goType,
			Zero:     zero,
			Return:   "a, nil",
			SetValue: "v",
		}
		if k.As != "" {
			av.Return = "a." + k.As + "()"
		}
		if k.Ctor != "" {
			av.SetValue = q(k.Ctor) + "(v)"
		}
		v.Attrs = append(v.Attrs, av)
	}
	for i, r := range op.Regions {
		v.Regions = append(v.Regions, regionView{
			Name:        r.Name,
			Accessor:    r.Accessor,
			Index:       i,
			SingleBlock: r.SingleBlock,
			NoArgs:      r.NoArgs,
			Terminated:  r.Terminated,
		})
	}
	return v
}

// qualifyType prefixes the element name of "T" or "[]T".
func qualifyType(t string, q func(string) string) string {
	if rest, ok := strings.CutPrefix(t, "[]"); ok {
		return "[]" + q(rest)
	}
	return q(t)
}

// camel turns "my_dialect" into "MyDialect".
func camel(s string) string {
	var sb strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
