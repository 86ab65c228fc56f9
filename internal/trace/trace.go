package trace

import (
	"context"
	"fmt"
	"strings"
)

// Tracer receives events. Emit must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	// Close flushes and releases the output.
	Close() error
	Level() Level
	Enabled() bool
}

// Level controls verbosity.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase  // driver and pass boundaries
	LevelDetail // plus per-operation events
	LevelDebug  // plus individual nodes
)

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI commands and input loading
	ScopePass                    // pipeline stages and passes
	ScopeOp                      // top-level operations
	ScopeNode                    // individual IR nodes
)

// finest scope each level lets through; zero admits nothing
var levelScope = [...]Scope{
	LevelPhase:  ScopePass,
	LevelDetail: ScopeOp,
	LevelDebug:  ScopeNode,
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelScope) {
		return false
	}
	limit := levelScope[l]
	return limit != 0 && scope <= limit
}

// names maps small enum values to their spelling; the index is the value.
type names []string

func (n names) name(v uint8) string {
	if int(v) < len(n) && n[v] != "" {
		return n[v]
	}
	return "unknown"
}

func (n names) lookup(s string) (uint8, bool) {
	s = strings.ToLower(s)
	for i, name := range n {
		if name != "" && name == s {
			return uint8(i), true
		}
	}
	return 0, false
}

func (n names) String() string {
	var set []string
	for _, name := range n {
		if name != "" {
			set = append(set, name)
		}
	}
	return strings.Join(set, "|")
}

var (
	levelNames = names{"off", "error", "phase", "detail", "debug"}
	scopeNames = names{"", "driver", "pass", "op", "node"}
)

func (l Level) String() string { return levelNames.name(uint8(l)) }
func (s Scope) String() string { return scopeNames.name(uint8(s)) }

// ParseLevel accepts a level name in any case; empty means off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	v, ok := levelNames.lookup(s)
	if !ok {
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, levelNames)
	}
	return Level(v), nil
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything.
var Nop Tracer = nopTracer{}

type (
	tracerKey struct{}
	spanKey   struct{}
)

// WithTracer attaches t to ctx; nil attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// CurrentSpan returns the ID of the span active in ctx, or 0.
func CurrentSpan(ctx context.Context) uint64 {
	if ctx != nil {
		if id, ok := ctx.Value(spanKey{}).(uint64); ok {
			return id
		}
	}
	return 0
}

// Start begins a span under the one active in ctx and returns a context in
// which the new span is active.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	span := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx))
	if span.ID() == 0 {
		return ctx, span
	}
	return context.WithValue(ctx, spanKey{}, span.ID()), span
}
