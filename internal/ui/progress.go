// Package ui renders batch progress of tir opt in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tir/internal/pipeline"
)

// stageSpan is the label shown while a stage runs and the share of one
// input's work covered once it starts and once it ends.
type stageSpan struct {
	label      string
	start, end float64
}

var stageSpans = map[pipeline.Stage]stageSpan{
	pipeline.StageParse:    {"parsing", 0.1, 0.3},
	pipeline.StageValidate: {"validating", 0.3, 0.5},
	pipeline.StagePass:     {"running passes", 0.5, 0.9},
	pipeline.StageEmit:     {"emitting", 0.9, 1},
}

const statusWidth = 24

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	statusColor = map[string]lipgloss.Style{
		"done":   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"error":  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"queued": lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	}
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// row is one input line.
type row struct {
	path   string
	status string
	last   pipeline.Event
}

func (r *row) finished() bool { return r.status == "done" || r.status == "error" }

// progress is the share of this input already handled. Inside the pass
// stage it advances with each pass started.
func (r *row) progress() float64 {
	if r.finished() {
		return 1
	}
	span, ok := stageSpans[r.last.Stage]
	if !ok || r.last.Status != pipeline.StatusWorking {
		return 0
	}
	if r.last.Stage == pipeline.StagePass && r.last.PassTotal > 0 {
		return span.start + (span.end-span.start)*float64(r.last.PassIndex)/float64(r.last.PassTotal)
	}
	return span.start
}

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []row
	byPath  map[string]*row
	width   int
	done    bool
}

type (
	eventMsg pipeline.Event
	doneMsg  struct{}
)

// NewProgressModel returns a Bubble Tea model with one line per input and
// an overall bar. It quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]row, len(files)),
		byPath:  make(map[string]*row, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.rows[i] = row{path: f, status: "queued"}
		m.byPath[f] = &m.rows[i]
	}
	return m
}

func (m *progressModel) Init() tea.Cmd { return tea.Batch(m.spinner.Tick, m.next()) }

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(pipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	if m.done {
		b.WriteString(titleStyle.Render("done: " + m.title))
	} else {
		b.WriteString(titleStyle.Render(m.spinner.View() + " " + m.title))
	}
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-4, 20)
	for _, r := range m.rows {
		style, ok := statusColor[r.status]
		if !ok {
			style = activeStyle
		}
		status := style.Render(fmt.Sprintf("%*s", statusWidth, truncate(r.status, statusWidth)))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(r.path, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// next waits for one event from the pipeline.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev pipeline.Event) tea.Cmd {
	r, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	label := statusLabel(ev)
	if label == "" {
		return nil
	}
	r.status = label
	r.last = ev
	return m.bar.SetPercent(m.fraction())
}

// fraction is the mean progress over all inputs.
func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	total := 0.0
	for i := range m.rows {
		total += m.rows[i].progress()
	}
	return total / float64(len(m.rows))
}

func statusLabel(ev pipeline.Event) string {
	switch ev.Status {
	case pipeline.StatusQueued, pipeline.StatusDone, pipeline.StatusError:
		return string(ev.Status)
	case pipeline.StatusWorking:
		if ev.Stage == pipeline.StagePass && ev.Pass != "" {
			if ev.PassTotal > 1 {
				return fmt.Sprintf("pass %s %d/%d", ev.Pass, ev.PassIndex+1, ev.PassTotal)
			}
			return "pass " + ev.Pass
		}
		return stageSpans[ev.Stage].label
	}
	return ""
}

// truncate shortens value to width terminal cells.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
