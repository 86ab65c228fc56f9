package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// DefaultRingSize is the ring capacity used when none is configured.
const DefaultRingSize = 4096

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write each event as it arrives
	ModeRing                          // keep the last events in memory
	ModeBoth
)

var modeNames = names{"", "stream", "ring", "both"}

func (m StorageMode) String() string { return modeNames.name(uint8(m)) }

// ParseMode accepts stream, ring or both in any case.
func ParseMode(s string) (StorageMode, error) {
	v, ok := modeNames.lookup(s)
	if !ok {
		return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: %s)", s, modeNames)
	}
	return StorageMode(v), nil
}

// Config describes the tracer New builds.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer // stream destination; OutputPath is used when nil
	OutputPath string    // "-" or empty for stderr
	RingSize   int
	Heartbeat  time.Duration // 0 disables heartbeats
}

// New builds the tracer described by cfg. A positive Heartbeat starts a
// heartbeat that Close stops.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	var sinks []Tracer
	if cfg.Mode == ModeStream || cfg.Mode == ModeBoth {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, NewStreamTracer(w, cfg.Level, cfg.resolveFormat()))
	}
	if cfg.Mode == ModeRing || cfg.Mode == ModeBoth {
		sinks = append(sinks, NewRingTracer(cfg.RingSize, cfg.Level))
	}

	var t Tracer
	switch len(sinks) {
	case 0:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	case 1:
		t = sinks[0]
	default:
		t = NewMultiTracer(cfg.Level, sinks...)
	}
	if cfg.Heartbeat > 0 {
		t = &beatingTracer{Tracer: t, hb: StartHeartbeat(t, cfg.Heartbeat)}
	}
	return t, nil
}

func (cfg Config) resolveFormat() Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".json") {
		return FormatNDJSON
	}
	return FormatText
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// filter is the level check every sink shares.
type filter struct{ level Level }

func (f filter) Level() Level  { return f.level }
func (f filter) Enabled() bool { return f.level > LevelOff }

// admits lets heartbeats through at any enabled level.
func (f filter) admits(ev *Event) bool {
	return ev.Kind == KindHeartbeat || f.level.ShouldEmit(ev.Scope)
}

// StreamTracer writes every admitted event to w as it arrives. Write errors
// are dropped so a broken trace sink never fails the run.
type StreamTracer struct {
	filter
	mu     sync.Mutex
	w      io.Writer
	format Format
	origin time.Time
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{filter: filter{level}, w: w, format: format, origin: time.Now()}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.admits(ev) {
		return
	}
	ev.Seq = NextSeq()
	line := FormatEvent(ev, t.format, t.origin)
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.w.Write(line)
}

// Flush flushes w when it buffers.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes w; stdout and stderr stay open.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.w == os.Stderr || t.w == os.Stdout {
		return nil
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// RingTracer keeps the most recent events for post-mortem dumps.
type RingTracer struct {
	filter
	mu     sync.Mutex
	buf    []Event
	stored uint64
	origin time.Time
}

// NewRingTracer creates a ring of the given capacity, DefaultRingSize when
// capacity is not positive.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{filter: filter{level}, buf: make([]Event, capacity), origin: time.Now()}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.admits(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	stored.Seq = NextSeq()
	t.buf[t.stored%uint64(len(t.buf))] = stored
	t.stored++
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.buf))
	if t.stored <= size {
		return slices.Clone(t.buf[:t.stored])
	}
	head := t.stored % size
	return slices.Concat(t.buf[head:], t.buf[:head])
}

// Dump writes the stored events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format, t.origin)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }

// MultiTracer hands each event to several tracers.
type MultiTracer struct {
	filter
	tracers []Tracer
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{filter: filter{level}, tracers: tracers}
}

// Emit gives every tracer its own copy of ev.
func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *MultiTracer) Flush() error { return t.each(Tracer.Flush) }
func (t *MultiTracer) Close() error { return t.each(Tracer.Close) }

func (t *MultiTracer) each(fn func(Tracer) error) error {
	errs := make([]error, 0, len(t.tracers))
	for _, tr := range t.tracers {
		errs = append(errs, fn(tr))
	}
	return errors.Join(errs...)
}

// Ring returns the first RingTracer among the targets.
func (t *MultiTracer) Ring() (*RingTracer, bool) {
	for _, tr := range t.tracers {
		if r, ok := tr.(*RingTracer); ok {
			return r, true
		}
	}
	return nil, false
}

// beatingTracer stops its heartbeat before closing the tracer it feeds.
type beatingTracer struct {
	Tracer
	hb *Heartbeat
}

func (t *beatingTracer) Close() error {
	t.hb.Stop()
	return t.Tracer.Close()
}

// RingOf finds the ring buffer behind t, if any.
func RingOf(t Tracer) (*RingTracer, bool) {
	switch t := t.(type) {
	case *RingTracer:
		return t, true
	case *MultiTracer:
		return t.Ring()
	case *beatingTracer:
		return RingOf(t.Tracer)
	}
	return nil, false
}

// DumpRing writes the ring contents of t to the configured output. Only
// ring-only tracers dump; in both mode the stream already holds every event.
func DumpRing(t Tracer, cfg Config) (err error) {
	if cfg.Mode != ModeRing {
		return nil
	}
	ring, ok := RingOf(t)
	if !ok {
		return nil
	}
	w, err := openOutput(cfg)
	if err != nil {
		return err
	}
	if f, ok := w.(*os.File); ok && f != os.Stderr {
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
	}
	return ring.Dump(w, cfg.resolveFormat())
}
