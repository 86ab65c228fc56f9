package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tir/internal/bytecode"
	"tir/internal/diag"
	"tir/internal/observ"
	"tir/internal/passes"
	"tir/ir"
	"tir/pass"
)

const constModule = `module {
  %a = const attrs = {value = <u8: 7>} -> !int<16>
}
`

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) statuses(file string) []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Status
	for _, ev := range r.events {
		if ev.File == file {
			out = append(out, ev.Status)
		}
	}
	return out
}

func TestRunTextPipeline(t *testing.T) {
	passes.Register()
	rec := &recorder{}
	timer := observ.NewTimer()
	results, err := Run(context.Background(), []Input{{Path: "a.tir", Data: []byte(constModule)}}, Options{
		Passes:   []string{"canonicalize-consts"},
		Validate: true,
		Timer:    timer,
		Sink:     rec,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, `module {
  %a = const attrs = {value = <i16: 7>} -> !int<16>
}
`, string(results[0].Output))

	assert.Equal(t, StatusQueued, rec.statuses("a.tir")[0])
	assert.Equal(t, StatusDone, rec.statuses("a.tir")[len(rec.statuses("a.tir"))-1])

	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"parse:a.tir", "validate:a.tir", "pass:a.tir", "pass:canonicalize-consts", "emit:a.tir"}, names)
}

func TestRunParseErrorKeepsDiagnostic(t *testing.T) {
	results, err := Run(context.Background(), []Input{{Path: "bad.tir", Data: []byte("module {\n  nope.op\n}\n")}}, Options{})
	require.NoError(t, err)
	r := results[0]
	require.True(t, r.Failed())
	var pe *ir.ParseError
	require.ErrorAs(t, r.Err, &pe)
	require.NotNil(t, r.Bag)
	require.Equal(t, 1, r.Bag.Len())
	d := r.Bag.Items()[0]
	assert.Equal(t, diag.SevError, d.Severity)
	assert.Equal(t, pe.Code, d.Code)

	start, _ := r.Files.Resolve(d.Primary)
	assert.Equal(t, uint32(2), start.Line)
}

func TestRunBytecodeRoundTrip(t *testing.T) {
	in := []Input{{Path: "m.tir", Data: []byte(constModule)}}
	results, err := Run(context.Background(), in, Options{Emit: EmitBytecode})
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	require.True(t, bytecode.IsBytecode(results[0].Output))

	back, err := Run(context.Background(), []Input{{Path: "m.tirb", Data: results[0].Output}}, Options{})
	require.NoError(t, err)
	require.NoError(t, back[0].Err)
	assert.Equal(t, constModule, string(back[0].Output))
	assert.Nil(t, back[0].Bag)
}

func TestRunUnknownPassFailsFast(t *testing.T) {
	rec := &recorder{}
	_, err := Run(context.Background(), []Input{{Path: "a", Data: []byte(constModule)}}, Options{
		Passes: []string{"no-such-pass"},
		Sink:   rec,
	})
	var upe *pass.UnknownPassError
	require.ErrorAs(t, err, &upe)
	assert.Equal(t, "no-such-pass", upe.Name)
	assert.Empty(t, rec.events)
}

func TestRunBadEmit(t *testing.T) {
	_, err := Run(context.Background(), nil, Options{Emit: "asm"})
	assert.ErrorContains(t, err, `unknown emit format "asm"`)
}

func TestRunValidationFailure(t *testing.T) {
	src := `module {
  func @f() -> !void {
    %c = const attrs = {value = <i8: 1>} -> !int<8>
  }
}`
	results, err := Run(context.Background(), []Input{{Path: "f", Data: []byte(src)}}, Options{Validate: true})
	require.NoError(t, err)
	var ve *ir.ValidationError
	assert.ErrorAs(t, results[0].Err, &ve)
	assert.Empty(t, results[0].Output)
}

func TestRunKeepsInputOrder(t *testing.T) {
	var inputs []Input
	for i := range 8 {
		name := string(rune('a' + i))
		inputs = append(inputs, Input{Path: name, Data: []byte("module @" + name + " {\n  %c = const attrs = {value = <i8: 1>} -> !int<8>\n}\n")})
	}
	results, err := Run(context.Background(), inputs, Options{Jobs: 3})
	require.NoError(t, err)
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, inputs[i].Path, r.Path)
		assert.True(t, strings.HasPrefix(string(r.Output), "module @"+r.Path))
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, []Input{{Path: "a", Data: []byte(constModule)}}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadInputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.tir")
	require.NoError(t, os.WriteFile(path, []byte("module {\n}\n"), 0o600))

	inputs, err := ReadInputs([]string{path, "-"}, strings.NewReader("stdin text"))
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, path, inputs[0].Path)
	assert.Equal(t, StdinName, inputs[1].Path)
	assert.Equal(t, "stdin text", string(inputs[1].Data))

	inputs, err = ReadInputs(nil, strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, StdinName, inputs[0].Path)

	_, err = ReadInputs([]string{"-", "-"}, strings.NewReader(""))
	assert.Error(t, err)
	_, err = ReadInputs([]string{filepath.Join(dir, "missing")}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
