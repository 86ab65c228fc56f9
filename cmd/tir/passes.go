package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tir/pass"
)

type passEntry struct {
	Name    string `json:"name"`
	Wrapper string `json:"wrapper"`
}

func newPassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passes",
		Short: "List the registered passes",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			colorFlag, err := cmd.Flags().GetString("color")
			if err != nil {
				return err
			}
			entries := catalogEntries()
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			case "text":
				return renderPasses(cmd.OutOrStdout(), entries, useColor(colorFlag, os.Stdout))
			default:
				return fmt.Errorf("unsupported format %q (must be text or json)", format)
			}
		},
	}
	cmd.Flags().String("format", "text", "output format (text|json)")
	return cmd
}

func catalogEntries() []passEntry {
	registered := pass.Registered()
	entries := make([]passEntry, 0, len(registered))
	for _, p := range registered {
		entries = append(entries, passEntry{Name: p.Name(), Wrapper: p.WrapperName()})
	}
	return entries
}

// renderPasses prints "[Wrapper] name" lines, wrappers padded to a column.
func renderPasses(w io.Writer, entries []passEntry, color bool) error {
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Wrapper)+2)
	}
	wrapperStyle := lipgloss.NewStyle().Width(width).Foreground(lipgloss.Color("8"))
	nameStyle := lipgloss.NewStyle().Bold(true)
	for _, e := range entries {
		wrapper := "[" + e.Wrapper + "]"
		name := e.Name
		if color {
			wrapper, name = wrapperStyle.Render(wrapper), nameStyle.Render(name)
		} else {
			wrapper = fmt.Sprintf("%-*s", width, wrapper)
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", wrapper, name); err != nil {
			return err
		}
	}
	return nil
}
