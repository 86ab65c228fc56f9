package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tir/internal/config"
	"tir/internal/trace"
)

// traceConfig merges the [trace] config section with the trace flags.
func traceConfig(cmd *cobra.Command, cfg config.Trace) (trace.Config, error) {
	var tc trace.Config
	output, err := stringSetting(cmd, "trace", cfg.Output)
	if err != nil {
		return tc, err
	}
	level, err := stringSetting(cmd, "trace-level", cfg.Level)
	if err != nil {
		return tc, err
	}
	mode, err := stringSetting(cmd, "trace-mode", cfg.Mode)
	if err != nil {
		return tc, err
	}
	format, err := stringSetting(cmd, "trace-format", cfg.Format)
	if err != nil {
		return tc, err
	}
	if tc.Level, err = trace.ParseLevel(level); err != nil {
		return tc, err
	}
	if tc.Mode, err = trace.ParseMode(mode); err != nil {
		return tc, err
	}
	if tc.Format, err = trace.ParseFormat(format); err != nil {
		return tc, err
	}
	tc.OutputPath = output
	if tc.RingSize, err = cmd.Flags().GetInt("trace-ring-size"); err != nil {
		return tc, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	if tc.Heartbeat, err = cmd.Flags().GetDuration("trace-heartbeat"); err != nil {
		return tc, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}
	return tc, nil
}

// setupTracing attaches the configured tracer to the command context. The
// returned cleanup dumps a ring-only buffer, then flushes and closes.
func setupTracing(cmd *cobra.Command, cfg config.Trace) (func(), error) {
	tc, err := traceConfig(cmd, cfg)
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(tc)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	return func() {
		if err := trace.DumpRing(tracer, tc); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}
