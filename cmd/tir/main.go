// Command tir parses, validates, transforms and prints tir IR.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tir/internal/config"
	"tir/internal/passes"
	"tir/internal/version"
)

// errReported marks a failure whose details were already written to stderr.
var errReported = errors.New("failed")

// app carries state shared by the subcommands of one invocation.
type app struct {
	cfg     config.Config
	cleanup func()
}

func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{cfg: config.Default()}
	root := &cobra.Command{
		Use:           "tir",
		Short:         "Extensible IR toolkit",
		Long:          `tir reads textual or binary IR, runs pass pipelines over it and prints the result`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(cmd); err != nil {
				return err
			}
			stopProf, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			stopTrace, err := setupTracing(cmd, a.cfg.Trace)
			if err != nil {
				stopProf()
				return err
			}
			a.cleanup = func() {
				stopTrace()
				stopProf()
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("config", "", "config file (default: nearest "+config.FileName+")")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show per input")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace encoding (auto|text|ndjson)")
	pf.Int("trace-ring-size", 0, "ring buffer capacity (0 = default)")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval (0 = off)")
	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file on exit")
	pf.String("runtime-trace", "", "write Go runtime trace to file")

	root.AddCommand(newOptCmd(a), newPassesCmd(), newVersionCmd())
	return root, a
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		a.cfg, err = config.Load(path)
	} else {
		a.cfg, err = config.Discover(".")
	}
	return err
}

func main() {
	passes.Register()
	root, a := newRootCmd()
	err := root.Execute()
	a.close()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "tir:", err)
		}
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves an auto|on|off setting against f.
func useColor(setting string, f *os.File) bool {
	return setting == "on" || (setting == "auto" && isTerminal(f))
}
