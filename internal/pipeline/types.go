// Package pipeline runs tir opt over a batch of inputs: each input is parsed
// into its own ir.Context, optionally validated, passed through a pass
// pipeline and emitted. Inputs are processed in parallel; no graph is
// shared between goroutines.
package pipeline

import (
	"time"

	"tir/internal/diag"
	"tir/internal/observ"
	"tir/internal/source"
	"tir/ir"
)

// Stage describes a per-input pipeline phase.
type Stage string

const (
	StageParse    Stage = "parse"
	StageValidate Stage = "validate"
	StagePass     Stage = "pass"
	StageEmit     Stage = "emit"
)

// Status captures progress within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one input. Pass, PassIndex and PassTotal are
// set for StagePass.
type Event struct {
	File      string
	Stage     Stage
	Pass      string
	PassIndex int
	PassTotal int
	Status    Status
	Err       error
	Elapsed   time.Duration
}

// ProgressSink consumes progress events. It is called from worker
// goroutines and must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

// Emit selects the output format.
type Emit string

const (
	EmitText     Emit = "text"
	EmitBytecode Emit = "bytecode"
)

// Options configures Run.
type Options struct {
	Passes         []string
	Validate       bool
	Emit           Emit
	Jobs           int // 0 = GOMAXPROCS
	MaxDiagnostics int
	Timer          *observ.Timer
	Sink           ProgressSink
	// Setup registers extra dialects in every fresh context.
	Setup func(*ir.Context)
}

// Input is one named source. Data holds textual IR or bytecode.
type Input struct {
	Path string
	Data []byte
}

// Result is the outcome for one input. Files and Bag are set when the
// input was textual; Bag holds the parse diagnostics.
type Result struct {
	Path   string
	Output []byte
	Files  *source.FileSet
	Bag    *diag.Bag
	Err    error
}

// Failed reports whether processing stopped with an error.
func (r Result) Failed() bool { return r.Err != nil }
