package diagfmt

import (
	"encoding/json"
	"io"

	"tir/internal/diag"
	"tir/internal/source"
)

// Report is the JSON document written by JSON.
type Report struct {
	Diagnostics []Entry `json:"diagnostics"`
	Count       int     `json:"count"`
	// Truncated counts diagnostics left out by JSONOpts.Max.
	Truncated int `json:"truncated,omitempty"`
}

// Entry is one diagnostic.
type Entry struct {
	Severity string      `json:"severity"`
	Code     string      `json:"code"`
	Message  string      `json:"message"`
	Location Location    `json:"location"`
	Notes    []NoteEntry `json:"notes,omitempty"`
}

type NoteEntry struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

// Location is a byte range; line and column are 1-based and present only
// with JSONOpts.IncludePositions.
type Location struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type locator struct {
	fs        *source.FileSet
	positions bool
}

func (l locator) at(span source.Span) Location {
	loc := Location{File: l.fs.Get(span.File).Path, StartByte: span.Start, EndByte: span.End}
	if l.positions {
		start, end := l.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

// BuildReport converts the bag in its current order.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	var rep Report
	if opts.Max > 0 && len(items) > opts.Max {
		rep.Truncated = len(items) - opts.Max
		items = items[:opts.Max]
	}
	loc := locator{fs: fs, positions: opts.IncludePositions}
	rep.Diagnostics = make([]Entry, 0, len(items))
	for _, d := range items {
		e := Entry{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: loc.at(d.Primary),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				e.Notes = append(e.Notes, NoteEntry{Message: n.Msg, Location: loc.at(n.Span)})
			}
		}
		rep.Diagnostics = append(rep.Diagnostics, e)
	}
	rep.Count = len(rep.Diagnostics)
	return rep
}

// JSON writes the bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
