// Command tirgen generates operation views, infos and builders from a TOML
// operation schema.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tir/internal/opgen"
)

var (
	schemaPath string
	outPath    string
	irImport   string
	checkOnly  bool
)

var errStale = errors.New("generated file is out of date")

var rootCmd = &cobra.Command{
	Use:           "tirgen --schema ops.toml --out zz_ops.go",
	Short:         "Generate Go operation definitions from a schema",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := opgen.LoadFile(schemaPath)
		if err != nil {
			return err
		}
		src, err := opgen.Generate(s, opgen.Options{
			Source:   filepath.Base(schemaPath),
			IRImport: irImport,
		})
		if err != nil {
			return err
		}
		if outPath == "" || outPath == "-" {
			_, err = cmd.OutOrStdout().Write(src)
			return err
		}
		if checkOnly {
			old, err := os.ReadFile(outPath)
			if err != nil {
				return err
			}
			if !bytes.Equal(old, src) {
				return fmt.Errorf("%s: %w", outPath, errStale)
			}
			return nil
		}
		return os.WriteFile(outPath, src, 0o644)
	},
}

func main() {
	rootCmd.Flags().StringVar(&schemaPath, "schema", "", "operation schema (TOML)")
	rootCmd.Flags().StringVar(&outPath, "out", "", "output file, - for stdout")
	rootCmd.Flags().StringVar(&irImport, "ir-import", opgen.DefaultIRImport, "import path of package ir")
	rootCmd.Flags().BoolVar(&checkOnly, "check", false, "fail if --out differs from the generated source")
	_ = rootCmd.MarkFlagRequired("schema")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tirgen:", err)
		os.Exit(1)
	}
}
