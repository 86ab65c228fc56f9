package pass

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tir/internal/observ"
	"tir/internal/trace"
	"tir/ir"
)

// Status reports whether a pass started or finished.
type Status int

const (
	Started Status = iota
	Finished
)

// Event describes one pass boundary during Run.
type Event struct {
	Pass    string
	Index   int
	Total   int
	Status  Status
	Elapsed time.Duration
	Err     error
}

// Observer receives pass events. It runs on the goroutine calling Run.
type Observer func(Event)

// Manager holds an ordered pipeline.
type Manager struct {
	passes   []Pass
	timer    *observ.Timer
	observer Observer
}

func NewManager() *Manager { return &Manager{} }

// NewManagerFromList builds a pipeline by looking each name up in the
// catalog.
func NewManagerFromList(names []string) (*Manager, error) {
	m := NewManager()
	for _, name := range names {
		if err := m.AddPass(name); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddPass appends the registered pass called name.
func (m *Manager) AddPass(name string) error {
	p, ok := Lookup(name)
	if !ok {
		return &UnknownPassError{Name: name}
	}
	m.passes = append(m.passes, p)
	return nil
}

// Add appends p without consulting the catalog.
func (m *Manager) Add(p Pass) { m.passes = append(m.passes, p) }

func (m *Manager) Passes() []Pass { return append([]Pass(nil), m.passes...) }

func (m *Manager) Len() int { return len(m.passes) }

// SetTimer records one phase per executed pass in t.
func (m *Manager) SetTimer(t *observ.Timer) { m.timer = t }

// SetObserver installs fn to receive pass events.
func (m *Manager) SetObserver(fn Observer) { m.observer = fn }

// String lists the pipeline as "[Wrapper] name" lines.
func (m *Manager) String() string {
	var sb strings.Builder
	for i, p := range m.passes {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "[%s] %s", p.WrapperName(), p.Name())
	}
	return sb.String()
}

// Run executes the pipeline in order on root. The first failing pass stops
// the run; its error is returned wrapped in *Error.
func (m *Manager) Run(ctx context.Context, root ir.Op) error {
	ctx, span := trace.Start(ctx, trace.ScopePass, "pipeline")
	span.WithExtra("passes", fmt.Sprint(len(m.passes)))
	for i, p := range m.passes {
		if err := ctx.Err(); err != nil {
			span.End("canceled")
			return err
		}
		if err := m.runOne(ctx, i, p, root); err != nil {
			span.End("failed")
			return &Error{Pass: p.Name(), Index: i, Err: err}
		}
	}
	span.End("")
	return nil
}

func (m *Manager) runOne(ctx context.Context, i int, p Pass, root ir.Op) error {
	m.emit(Event{Pass: p.Name(), Index: i, Total: len(m.passes), Status: Started})
	pctx, span := trace.Start(ctx, trace.ScopePass, "pass:"+p.Name())
	idx := m.timer.Begin("pass:" + p.Name())
	start := time.Now()

	err := p.Run(pctx, root)

	note := ""
	if err != nil {
		note = "failed"
	}
	m.timer.End(idx, note)
	span.End(note)
	m.emit(Event{Pass: p.Name(), Index: i, Total: len(m.passes), Status: Finished, Elapsed: time.Since(start), Err: err})
	return err
}

func (m *Manager) emit(ev Event) {
	if m.observer != nil {
		m.observer(ev)
	}
}
