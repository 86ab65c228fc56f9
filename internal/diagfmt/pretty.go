package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tir/internal/diag"
	"tir/internal/source"
)

type palette struct {
	err, warn, info, note, loc, code, caret *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:   mk(color.FgRed, color.Bold),
		warn:  mk(color.FgYellow, color.Bold),
		info:  mk(color.FgBlue, color.Bold),
		note:  mk(color.FgCyan),
		loc:   mk(color.Bold),
		code:  mk(color.Faint),
		caret: mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders bag items in order:
//
//	path:line:col: SEV CODE: message
//	   2 |   foo.bar
//	     |   ^~~~~~~
//	  note: path:line:col: text
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, p, d, fs, opts); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, p palette, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)

	_, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.loc.Sprintf("%s:%d:%d", file.DisplayPath(opts.BaseDir), start.Line, start.Col),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)
	if err != nil {
		return err
	}

	if err := writeSnippet(w, p, file, start, end, opts.Width); err != nil {
		return err
	}

	if !opts.ShowNotes {
		return nil
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		ns, _ := fs.Resolve(n.Span)
		if _, err := fmt.Fprintf(w, "  %s %s: %s\n",
			p.note.Sprint("note:"),
			p.loc.Sprintf("%s:%d:%d", nf.DisplayPath(opts.BaseDir), ns.Line, ns.Col),
			n.Msg,
		); err != nil {
			return err
		}
	}
	return nil
}

// writeSnippet prints the primary line and a caret underline whose position
// is measured in display cells, so wide runes keep the marker aligned.
func writeSnippet(w io.Writer, p palette, file *source.File, start, end source.LineCol, width int) error {
	if int(start.Line) > len(file.LineIdx)+1 {
		return nil
	}
	line := strings.ReplaceAll(file.Line(start.Line), "\t", "    ")

	prefix := prefixCells(file.Line(start.Line), start.Col)
	markLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		markLen = max(1, prefixCells(file.Line(start.Line), end.Col)-prefix)
	}

	shown := line
	if width > 0 {
		shown = runewidth.Truncate(line, width, "…")
	}

	gutter := fmt.Sprintf("%4d | ", start.Line)
	pad := strings.Repeat(" ", len(gutter)-2) + "| "
	marker := "^" + strings.Repeat("~", markLen-1)

	_, err := fmt.Fprintf(w, "%s%s\n%s%s%s\n", gutter, shown, pad, strings.Repeat(" ", prefix), p.caret.Sprint(marker))
	return err
}

// prefixCells returns the display width of line up to the 1-based byte column col.
func prefixCells(line string, col uint32) int {
	n := int(col) - 1
	if n > len(line) {
		n = len(line)
	}
	if n <= 0 {
		return 0
	}
	return runewidth.StringWidth(strings.ReplaceAll(line[:n], "\t", "    "))
}
