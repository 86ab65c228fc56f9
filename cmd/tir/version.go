package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tir/internal/bytecode"
	"tir/internal/version"
)

const versionTagline = "operations all the way down"

// versionPayload is the --format json output. Unrequested metadata is
// left out; requested but missing metadata reads "unknown".
type versionPayload struct {
	Tool    string `json:"tool"`
	Tagline string `json:"tagline"`
	version.Info
	Bytecode uint16 `json:"bytecode_schema"`
}

// versionFields selects the optional lines.
type versionFields struct {
	hash, message, date bool
}

func (f versionFields) apply(info version.Info) version.Info {
	pick := func(on bool, s string) string {
		switch {
		case !on:
			return ""
		case s == "":
			return "unknown"
		}
		return s
	}
	info.Commit = pick(f.hash, info.Commit)
	info.Message = pick(f.message, info.Message)
	info.Built = pick(f.date, info.Built)
	return info
}

func newVersionCmd() *cobra.Command {
	var (
		format string
		full   bool
		fields versionFields
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show tir build metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if full {
				fields = versionFields{true, true, true}
			}
			info := fields.apply(version.Current())
			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(versionPayload{
					Tool:     "tir",
					Tagline:  versionTagline,
					Info:     info,
					Bytecode: bytecode.SchemaVersion,
				})
			case "pretty":
				colorFlag, err := cmd.Flags().GetString("color")
				if err != nil {
					return err
				}
				printVersion(out, info, useColor(colorFlag, os.Stdout))
				return nil
			}
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&fields.hash, "hash", false, "include git commit hash")
	f.BoolVar(&fields.message, "message", false, "include git commit message")
	f.BoolVar(&fields.date, "date", false, "include build timestamp")
	f.BoolVar(&full, "full", false, "show all build metadata")
	f.StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func printVersion(w io.Writer, info version.Info, color bool) {
	v := info.Version
	if color {
		v = version.Pretty()
	}
	fmt.Fprintf(w, "tir %s (%s)\n", v, versionTagline)
	for _, line := range [][2]string{
		{"commit:  ", info.Commit},
		{"message: ", info.Message},
		{"built:   ", info.Built},
	} {
		if line[1] != "" {
			fmt.Fprintf(w, "%s%s\n", line[0], line[1])
		}
	}
	fmt.Fprintf(w, "bytecode schema: %d\n", bytecode.SchemaVersion)
}
