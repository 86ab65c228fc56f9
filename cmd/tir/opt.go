package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tir/internal/config"
	"tir/internal/diag"
	"tir/internal/diagfmt"
	"tir/internal/observ"
	"tir/internal/passes"
	"tir/internal/pipeline"
)

func newOptCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opt [flags] [files...|-]",
		Short: "Parse IR, run a pass pipeline and print the result",
		Long: `opt reads each input (textual IR or bytecode, told apart by the bytecode
magic), optionally validates it, runs the requested passes in order and prints
the result. Without files it reads stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOpt(cmd, args)
		},
	}
	cmd.Flags().StringArray("pass", nil, "append a pass to the pipeline (repeatable)")
	cmd.Flags().String("emit", "text", "output format (text|bytecode)")
	cmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	cmd.Flags().Bool("validate", false, "validate structure before running passes")
	cmd.Flags().Int("jobs", 0, "max parallel inputs (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().String("diag-format", "pretty", "diagnostics format (pretty|short|json)")
	return cmd
}

type optSettings struct {
	passes   []string
	validate bool
	emit     string
	jobs     int
	maxDiags int
	color    string
	diagFmt  string
	timings  bool
	output   string
	ui       uiMode
}

func (a *app) optSettings(cmd *cobra.Command) (optSettings, error) {
	var (
		s   optSettings
		err error
	)
	if s.passes, err = stringsSetting(cmd, "pass", a.cfg.Opt.Passes); err != nil {
		return s, err
	}
	if s.validate, err = boolSetting(cmd, "validate", a.cfg.Opt.Validate); err != nil {
		return s, err
	}
	if s.emit, err = stringSetting(cmd, "emit", a.cfg.Opt.Emit); err != nil {
		return s, err
	}
	if s.jobs, err = intSetting(cmd, "jobs", a.cfg.Opt.Jobs); err != nil {
		return s, err
	}
	if s.maxDiags, err = intSetting(cmd, "max-diagnostics", a.cfg.Diagnostics.Max); err != nil {
		return s, err
	}
	if s.color, err = stringSetting(cmd, "color", a.cfg.Diagnostics.Color); err != nil {
		return s, err
	}
	if s.diagFmt, err = stringSetting(cmd, "diag-format", a.cfg.Diagnostics.Format); err != nil {
		return s, err
	}
	if !slices.Contains(config.DiagnosticFormats, s.diagFmt) {
		return s, fmt.Errorf("unknown diagnostics format %q (expected %s)", s.diagFmt, strings.Join(config.DiagnosticFormats, "|"))
	}
	if s.timings, err = cmd.Flags().GetBool("timings"); err != nil {
		return s, err
	}
	if s.output, err = cmd.Flags().GetString("output"); err != nil {
		return s, err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return s, err
	}
	s.ui, err = readUIMode(uiFlag)
	return s, err
}

func (a *app) runOpt(cmd *cobra.Command, args []string) error {
	s, err := a.optSettings(cmd)
	if err != nil {
		return err
	}
	inputs, err := pipeline.ReadInputs(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if s.emit == string(pipeline.EmitBytecode) && len(inputs) > 1 {
		return fmt.Errorf("--emit bytecode takes a single input, got %d", len(inputs))
	}

	var timer *observ.Timer
	if s.timings {
		timer = observ.NewTimer()
	}
	stderr := &lockedWriter{w: cmd.ErrOrStderr()}
	opts := pipeline.Options{
		Passes:         s.passes,
		Validate:       s.validate,
		Emit:           pipeline.Emit(s.emit),
		Jobs:           s.jobs,
		MaxDiagnostics: s.maxDiags,
		Timer:          timer,
	}
	ctx := passes.WithStatsOutput(cmd.Context(), stderr)

	var results []pipeline.Result
	if s.output != "" && len(inputs) > 1 && shouldUseTUI(s.ui) {
		results, err = runOptWithUI(ctx, inputs, opts)
	} else {
		results, err = pipeline.Run(ctx, inputs, opts)
	}
	if err != nil {
		return err
	}

	var out bytes.Buffer
	failed := false
	for _, r := range results {
		if !r.Failed() {
			out.Write(r.Output)
			continue
		}
		failed = true
		if err := s.reportFailure(stderr, r); err != nil {
			return err
		}
	}
	if err := writeOutput(cmd.OutOrStdout(), s.output, out.Bytes()); err != nil {
		return err
	}
	if timer != nil {
		fmt.Fprint(stderr, timer.Summary())
	}
	if failed {
		return errReported
	}
	return nil
}

// reportFailure renders the parse diagnostics of r, or its error when the
// input never reached the parser.
func (s optSettings) reportFailure(w io.Writer, r pipeline.Result) error {
	if r.Bag != nil && r.Bag.Len() > 0 {
		switch s.diagFmt {
		case "json":
			return diagfmt.JSON(w, r.Bag, r.Files, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true, Max: s.maxDiags})
		case "short":
			_, err := io.WriteString(w, diag.FormatShort(r.Bag.Items(), r.Files, true)+"\n")
			return err
		}
		return diagfmt.Pretty(w, r.Bag, r.Files, diagfmt.PrettyOpts{Color: useColor(s.color, os.Stderr), ShowNotes: true})
	}
	_, err := fmt.Fprintf(w, "%s: %v\n", r.Path, r.Err)
	return err
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// lockedWriter serializes writes from pipeline workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

