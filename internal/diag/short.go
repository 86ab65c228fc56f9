package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"tir/internal/source"
)

type shortEntry struct {
	sev  string
	code string
	path string
	pos  source.LineCol
	msg  string
}

// FormatShort renders one line per diagnostic (and per note when
// includeNotes is set), sorted by location. The output is stable enough for
// golden files.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	entries := make([]shortEntry, 0, len(diags))
	for _, d := range diags {
		entries = append(entries, resolveEntry(fs, d.Severity.Label(), d.Code, d.Primary, d.Message))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			entries = append(entries, resolveEntry(fs, "note", d.Code, n.Span, n.Msg))
		}
	}

	slices.SortStableFunc(entries, func(a, b shortEntry) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
		)
	})

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s %s %s:%d:%d %s", e.sev, e.code, e.path, e.pos.Line, e.pos.Col, e.msg)
	}
	return strings.Join(lines, "\n")
}

func resolveEntry(fs *source.FileSet, sev string, code Code, sp source.Span, msg string) shortEntry {
	start, _ := fs.Resolve(sp)
	return shortEntry{
		sev:  sev,
		code: code.ID(),
		path: fs.Get(sp.File).Path,
		pos:  start,
		msg:  strings.Join(strings.Fields(msg), " "),
	}
}
