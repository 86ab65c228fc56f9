package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"": LevelOff, "off": LevelOff, "PHASE": LevelPhase, "detail": LevelDetail, "debug": LevelDebug} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestLevelFiltersScopes(t *testing.T) {
	assert.True(t, LevelPhase.ShouldEmit(ScopePass))
	assert.False(t, LevelPhase.ShouldEmit(ScopeOp))
	assert.True(t, LevelDetail.ShouldEmit(ScopeOp))
	assert.False(t, LevelDetail.ShouldEmit(ScopeNode))
	assert.True(t, LevelDebug.ShouldEmit(ScopeNode))
	assert.False(t, LevelOff.ShouldEmit(ScopeDriver))
}

func TestStartNestsSpans(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), ring)

	ctx, outer := Start(ctx, ScopeDriver, "opt")
	_, inner := Start(ctx, ScopePass, "pass:validate")
	Point(ring, ScopeNode, "dropped", "", inner.ID())
	inner.WithExtra("ops", "3").End("")
	outer.End("")

	events := ring.Snapshot()
	require.Len(t, events, 4)
	assert.Equal(t, KindSpanBegin, events[0].Kind)
	assert.Equal(t, "opt", events[0].Name)
	assert.Equal(t, outer.ID(), events[1].ParentID)
	assert.Equal(t, "pass:validate", events[2].Name)
	assert.Equal(t, map[string]string{"ops": "3"}, events[2].Extra)
	assert.Equal(t, KindSpanEnd, events[3].Kind)
}

func TestDisabledTracerYieldsNoSpan(t *testing.T) {
	ctx, span := Start(context.Background(), ScopeDriver, "x")
	assert.Zero(t, span.ID())
	assert.Zero(t, CurrentSpan(ctx))
	assert.Zero(t, span.End("ignored"))
}

func TestRingWrapsAround(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeNode, name, "", 0)
	}
	events := ring.Snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].Name)
	assert.Equal(t, "c", events[1].Name)
}

func TestStreamFormats(t *testing.T) {
	var text bytes.Buffer
	st := NewStreamTracer(&text, LevelPhase, FormatText)
	Begin(st, ScopePass, "parse", 0).End("ok")
	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "→ parse")
	assert.Contains(t, lines[1], "← parse (ok)")

	var js bytes.Buffer
	st = NewStreamTracer(&js, LevelPhase, FormatNDJSON)
	Point(st, ScopeDriver, "loaded", "a.tir", 0)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "loaded", decoded["name"])
	assert.Equal(t, "point", decoded["kind"])
}

func TestNewHonorsConfig(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	assert.Equal(t, Nop, tr)

	tr, err = New(Config{Level: LevelPhase, Mode: ModeRing, RingSize: 4})
	require.NoError(t, err)
	_, ok := tr.(*RingTracer)
	assert.True(t, ok)

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	require.NoError(t, err)
	multi, ok := tr.(*MultiTracer)
	require.True(t, ok)
	_, ok = multi.Ring()
	assert.True(t, ok)

	_, err = ParseMode("tape")
	assert.Error(t, err)
}

func TestHeartbeatStopsWithTracer(t *testing.T) {
	tr, err := New(Config{Level: LevelPhase, Mode: ModeRing, Heartbeat: time.Millisecond})
	require.NoError(t, err)
	bt, ok := tr.(*beatingTracer)
	require.True(t, ok)
	ring, ok := bt.Tracer.(*RingTracer)
	require.True(t, ok)

	require.Eventually(t, func() bool { return len(ring.Snapshot()) > 0 }, time.Second, time.Millisecond)
	require.NoError(t, tr.Close())
	n := len(ring.Snapshot())
	time.Sleep(5 * time.Millisecond)
	assert.Len(t, ring.Snapshot(), n)
	assert.Equal(t, KindHeartbeat, ring.Snapshot()[0].Kind)
}

func TestDumpRingOnlyInRingMode(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Level: LevelPhase, Mode: ModeRing, Format: FormatNDJSON, Output: &buf, Heartbeat: time.Hour}
	tr, err := New(cfg)
	require.NoError(t, err)
	Begin(tr, ScopePass, "fold", 0).End("ok")
	require.NoError(t, DumpRing(tr, cfg))
	require.NoError(t, tr.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var ev map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &ev))
	assert.Equal(t, "fold", ev["name"])
	assert.Equal(t, "end", ev["kind"])

	buf.Reset()
	cfg.Mode = ModeBoth
	cfg.Heartbeat = 0
	tr, err = New(cfg)
	require.NoError(t, err)
	Point(tr, ScopeDriver, "loaded", "", 0)
	n := buf.Len()
	require.NoError(t, DumpRing(tr, cfg))
	assert.Equal(t, n, buf.Len())
}

func TestEnumSpellings(t *testing.T) {
	assert.Equal(t, "off|error|phase|detail|debug", levelNames.String())
	assert.Equal(t, "unknown", Scope(0).String())
	assert.Equal(t, "heartbeat", KindHeartbeat.String())

	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatNDJSON, f)
	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)
	_, err = ParseFormat("xml")
	assert.ErrorContains(t, err, "auto|text|ndjson")

	m, err := ParseMode("Both")
	require.NoError(t, err)
	assert.Equal(t, ModeBoth, m)
}
