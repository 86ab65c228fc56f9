package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"tir/internal/bytecode"
	"tir/internal/diag"
	"tir/internal/source"
	"tir/internal/trace"
	"tir/ir"
	"tir/pass"
)

// StdinName labels input read from standard input.
const StdinName = "<stdin>"

// ReadInputs loads paths; "-" reads stdin once. No paths means stdin.
func ReadInputs(paths []string, stdin io.Reader) ([]Input, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	inputs := make([]Input, 0, len(paths))
	readStdin := false
	for _, p := range paths {
		if p == "-" {
			if readStdin {
				return nil, errors.New("stdin given more than once")
			}
			readStdin = true
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			inputs = append(inputs, Input{Path: StdinName, Data: data})
			continue
		}
		// #nosec G304 -- paths come from the command line
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, Input{Path: p, Data: data})
	}
	return inputs, nil
}

// Run processes inputs in parallel and returns one result per input in
// input order. Per-input failures are reported in the results; the error
// return covers unknown passes and cancellation.
func Run(ctx context.Context, inputs []Input, opts Options) ([]Result, error) {
	// Resolve names once up front so a typo fails before any work.
	if _, err := pass.NewManagerFromList(opts.Passes); err != nil {
		return nil, err
	}
	if opts.Emit == "" {
		opts.Emit = EmitText
	}
	if opts.Emit != EmitText && opts.Emit != EmitBytecode {
		return nil, fmt.Errorf("unknown emit format %q (expected text|bytecode)", opts.Emit)
	}
	results := make([]Result, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "opt")
	defer span.End("")

	for _, in := range inputs {
		opts.notify(Event{File: in.Path, Stage: StageParse, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(inputs)))
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Path: in.Path, Err: err}
				return err
			}
			results[i] = opts.process(gctx, in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (o *Options) notify(ev Event) {
	if o.Sink != nil {
		o.Sink.OnEvent(ev)
	}
}

// stage runs fn as one traced and timed phase of in.
func (o *Options) stage(ctx context.Context, file string, st Stage, fn func(context.Context) error) error {
	o.notify(Event{File: file, Stage: st, Status: StatusWorking})
	sctx, span := trace.Start(ctx, trace.ScopePass, string(st))
	idx := o.Timer.Begin(string(st) + ":" + file)
	start := time.Now()

	err := fn(sctx)

	note := ""
	if err != nil {
		note = "failed"
	}
	o.Timer.End(idx, note)
	span.End(note)
	if err != nil {
		o.notify(Event{File: file, Stage: st, Status: StatusError, Err: err, Elapsed: time.Since(start)})
	}
	return err
}

func (o *Options) process(ctx context.Context, in Input) Result {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "file")
	span.WithExtra("path", in.Path)
	res := Result{Path: in.Path}
	defer func() {
		if res.Err != nil {
			span.End("failed")
			return
		}
		span.End("")
		o.notify(Event{File: in.Path, Stage: StageEmit, Status: StatusDone})
	}()

	irctx := ir.New()
	if o.Setup != nil {
		o.Setup(irctx)
	}

	var root *ir.Operation
	res.Err = o.stage(ctx, in.Path, StageParse, func(context.Context) error {
		var err error
		root, err = o.parse(irctx, in, &res)
		return err
	})
	if res.Err != nil {
		return res
	}

	if o.Validate {
		res.Err = o.stage(ctx, in.Path, StageValidate, func(context.Context) error {
			return ir.Validate(root)
		})
		if res.Err != nil {
			return res
		}
	}

	if len(o.Passes) > 0 {
		res.Err = o.stage(ctx, in.Path, StagePass, func(pctx context.Context) error {
			pm, err := pass.NewManagerFromList(o.Passes)
			if err != nil {
				return err
			}
			pm.SetTimer(o.Timer)
			pm.SetObserver(func(ev pass.Event) {
				if ev.Status == pass.Started {
					o.notify(Event{
						File:      in.Path,
						Stage:     StagePass,
						Pass:      ev.Pass,
						PassIndex: ev.Index,
						PassTotal: ev.Total,
						Status:    StatusWorking,
					})
				}
			})
			return pm.Run(pctx, root)
		})
		if res.Err != nil {
			return res
		}
	}

	res.Err = o.stage(ctx, in.Path, StageEmit, func(context.Context) error {
		if o.Emit == EmitBytecode {
			data, err := bytecode.Marshal(root)
			res.Output = data
			return err
		}
		res.Output = []byte(ir.Print(root))
		return nil
	})
	return res
}

// parse detects bytecode by its magic; anything else is textual IR.
func (o *Options) parse(irctx *ir.Context, in Input, res *Result) (*ir.Operation, error) {
	if bytecode.IsBytecode(in.Data) {
		return bytecode.Unmarshal(irctx, in.Data)
	}
	fs := source.NewFileSet()
	var id source.FileID
	if in.Path == StdinName {
		id = fs.AddVirtual(in.Path, in.Data)
	} else {
		content, flags := source.Normalize(in.Data)
		id = fs.Add(in.Path, content, flags)
	}
	res.Files = fs
	res.Bag = diag.NewBag(o.MaxDiagnostics)

	root, err := ir.Parse(irctx, fs, id)
	var pe *ir.ParseError
	if errors.As(err, &pe) {
		res.Bag.Add(pe.Diagnostic())
	}
	return root, err
}
