package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tir/internal/bytecode"
	"tir/internal/passes"
	"tir/pass"
)

const constModule = `module {
  %a = const attrs = {value = <u8: 7>} -> !int<16>
}
`

const canonicalModule = `module {
  %a = const attrs = {value = <i16: 7>} -> !int<16>
}
`

type run struct {
	stdout string
	stderr string
	err    error
}

// runTir executes the CLI with an explicit config so no tir.toml above the
// test directory leaks in.
func runTir(t *testing.T, cfgText, stdin string, args ...string) run {
	t.Helper()
	passes.Register()
	cfg := filepath.Join(t.TempDir(), "tir.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(cfgText), 0o600))

	root, a := newRootCmd()
	defer a.close()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--config", cfg, "--color", "off"))
	err := root.Execute()
	return run{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestOptRunsPassesFromStdin(t *testing.T) {
	r := runTir(t, "", constModule, "opt", "--pass", "canonicalize-consts", "--validate", "-")
	require.NoError(t, r.err)
	assert.Equal(t, canonicalModule, r.stdout)
	assert.Empty(t, r.stderr)
}

func TestOptWithoutPassesEchoes(t *testing.T) {
	r := runTir(t, "", constModule, "opt")
	require.NoError(t, r.err)
	assert.Equal(t, constModule, r.stdout)
}

func TestOptParseErrorRendersDiagnostic(t *testing.T) {
	r := runTir(t, "", "module {\n  nope.op\n}\n", "opt")
	require.ErrorIs(t, r.err, errReported)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, ":2:3: ERROR PAR2002: unknown dialect 'nope'")
	assert.Contains(t, r.stderr, "  nope.op")
}

func TestOptDiagnosticsAsJSON(t *testing.T) {
	r := runTir(t, "[diagnostics]\nformat = \"json\"\n", "module {\n  nope.op\n}\n", "opt")
	require.ErrorIs(t, r.err, errReported)
	var rep struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stderr), &rep))
	require.Equal(t, 1, rep.Count)
	assert.Equal(t, "PAR2002", rep.Diagnostics[0].Code)

	r = runTir(t, "", "module {}\n", "opt", "--diag-format", "yaml")
	assert.ErrorContains(t, r.err, `unknown diagnostics format "yaml"`)
}

func TestOptDiagnosticsShort(t *testing.T) {
	r := runTir(t, "", "module {\n  nope.op\n}\n", "opt", "--diag-format", "short")
	require.ErrorIs(t, r.err, errReported)
	assert.Contains(t, r.stderr, "<stdin>:2:3")
	assert.Contains(t, r.stderr, "PAR2002")
	assert.NotContains(t, r.stderr, "  nope.op")
}

func TestOptUnknownPass(t *testing.T) {
	r := runTir(t, "", constModule, "opt", "--pass", "inline-everything")
	var upe *pass.UnknownPassError
	require.ErrorAs(t, r.err, &upe)
	assert.Equal(t, "inline-everything", upe.Name)
}

func TestOptValidationFailure(t *testing.T) {
	src := "module {\n  func @f() -> !void {\n    %c = const attrs = {value = <i8: 1>} -> !int<8>\n  }\n}\n"
	r := runTir(t, "", src, "opt", "--validate")
	require.ErrorIs(t, r.err, errReported)
	assert.Contains(t, r.stderr, "<stdin>: ")
}

func TestOptConfigSuppliesDefaults(t *testing.T) {
	cfg := "[opt]\npasses = [\"canonicalize-consts\"]\n"
	r := runTir(t, cfg, constModule, "opt")
	require.NoError(t, r.err)
	assert.Equal(t, canonicalModule, r.stdout)

	// An explicit --pass replaces the configured pipeline.
	r = runTir(t, cfg, constModule, "opt", "--pass", "validate")
	require.NoError(t, r.err)
	assert.Equal(t, constModule, r.stdout)
}

func TestOptBytecodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "m.tirb")
	r := runTir(t, "", constModule, "opt", "--emit", "bytecode", "-o", bin)
	require.NoError(t, r.err)
	data, err := os.ReadFile(bin)
	require.NoError(t, err)
	assert.True(t, bytecode.IsBytecode(data))

	r = runTir(t, "", "", "opt", "--pass", "canonicalize-consts", bin)
	require.NoError(t, r.err)
	assert.Equal(t, canonicalModule, r.stdout)
}

func TestOptBytecodeNeedsOneInput(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.tir")
	b := filepath.Join(dir, "b.tir")
	require.NoError(t, os.WriteFile(a, []byte(constModule), 0o600))
	require.NoError(t, os.WriteFile(b, []byte(constModule), 0o600))
	r := runTir(t, "", "", "opt", "--emit", "bytecode", a, b)
	assert.ErrorContains(t, r.err, "--emit bytecode takes a single input")
}

func TestOptManyFilesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"x", "y", "z"} {
		path := filepath.Join(dir, name+".tir")
		src := "module @" + name + " {\n  %c = const attrs = {value = <i8: 1>} -> !int<8>\n}\n"
		require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
		files = append(files, path)
	}
	out := filepath.Join(dir, "out.tir")
	r := runTir(t, "", "", append([]string{"opt", "--jobs", "2", "--ui", "off", "-o", out}, files...)...)
	require.NoError(t, r.err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.Less(t, strings.Index(text, "@x"), strings.Index(text, "@y"))
	assert.Less(t, strings.Index(text, "@y"), strings.Index(text, "@z"))
}

func TestOptStatsAndTimings(t *testing.T) {
	r := runTir(t, "", constModule, "opt", "--pass", "op-stats", "--timings")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "const       1\n")
	assert.Contains(t, r.stderr, "timings:\n")
	assert.Contains(t, r.stderr, "pass:op-stats")
}

func TestOptBadUIMode(t *testing.T) {
	r := runTir(t, "", constModule, "opt", "--ui", "sometimes")
	assert.ErrorContains(t, r.err, `invalid --ui value "sometimes"`)
}

func TestBadConfigFails(t *testing.T) {
	r := runTir(t, "[opt]\nemit = \"asm\"\n", constModule, "opt")
	assert.ErrorContains(t, r.err, "opt.emit")
}

func TestPassesText(t *testing.T) {
	r := runTir(t, "", "", "passes")
	require.NoError(t, r.err)
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "passes_text", []byte(r.stdout))
}

func TestPassesJSON(t *testing.T) {
	r := runTir(t, "", "", "passes", "--format", "json")
	require.NoError(t, r.err)
	var entries []passEntry
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &entries))
	assert.Contains(t, entries, passEntry{Name: "strip-names", Wrapper: "OpPass"})
	assert.Contains(t, entries, passEntry{Name: "validate", Wrapper: "ModulePass"})

	r = runTir(t, "", "", "passes", "--format", "yaml")
	assert.ErrorContains(t, r.err, `unsupported format "yaml"`)
}

func TestVersionJSON(t *testing.T) {
	r := runTir(t, "", "", "version", "--format", "json", "--hash")
	require.NoError(t, r.err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &payload))
	assert.Equal(t, "tir", payload.Tool)
	assert.Equal(t, versionTagline, payload.Tagline)
	assert.Equal(t, "unknown", payload.Commit)
	assert.Empty(t, payload.Built)
	assert.Equal(t, bytecode.SchemaVersion, payload.Bytecode)
}

func TestVersionPretty(t *testing.T) {
	r := runTir(t, "", "", "version", "--full")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "tir "))
	assert.Contains(t, r.stdout, "built:")
	assert.Contains(t, r.stdout, "bytecode schema: 1")
}

func TestTraceToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "trace.ndjson")
	root, a := newRootCmd()
	passes.Register()
	cfg := filepath.Join(t.TempDir(), "tir.toml")
	require.NoError(t, os.WriteFile(cfg, nil, 0o600))
	root.SetIn(strings.NewReader(constModule))
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"opt", "--pass", "validate", "--config", cfg, "--trace", out, "--trace-level", "phase"})
	require.NoError(t, root.Execute())
	a.close()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"pass:validate"`)
}

func TestProfilesWrittenOnClose(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.out")
	mem := filepath.Join(dir, "mem.out")
	r := runTir(t, "", constModule, "opt", "--cpu-profile", cpu, "--mem-profile", mem)
	require.NoError(t, r.err, r.stderr)
	for _, path := range []string{cpu, mem} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
}

func TestTraceRingDumpedOnClose(t *testing.T) {
	out := filepath.Join(t.TempDir(), "trace.log")
	r := runTir(t, "[trace]\nmode = \"ring\"\n", constModule,
		"opt", "--pass", "validate", "--trace", out, "--trace-level", "phase", "--trace-format", "ndjson")
	require.NoError(t, r.err, r.stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"pass:validate"`)
	assert.True(t, json.Valid([]byte(strings.SplitN(string(data), "\n", 2)[0])))
}
