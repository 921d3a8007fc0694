package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/TimelordUK/gitvid/internal/pipeline"
)

// maxSymbols is how many recent +/- marks the status line keeps
const maxSymbols = 60

type transitionMsg struct{ t pipeline.Transition }

type frameMsg struct {
	symbol  string
	lines   int
	preview []string
}

type transitionDoneMsg struct{}

type doneMsg struct {
	result pipeline.Result
	err    error
}

// Model is the progress view for a render run
type Model struct {
	bar progress.Model

	path  string
	width int

	// Current transition
	index   int
	total   int
	label   string
	ops     int
	opsDone int
	lines   int
	symbols []string
	preview []string

	frames  int
	aborted bool
	done    bool
	result  pipeline.Result
	err     error
}

// NewModel creates a progress model for path
func NewModel(path string) *Model {
	return &Model{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		path:  path,
		width: 80,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(msg.Width-4, 10)

	case transitionMsg:
		m.index = msg.t.Index
		m.total = msg.t.Total
		m.label = msg.t.To.Label()
		m.ops = len(msg.t.Ops)
		m.opsDone = 0
		m.symbols = m.symbols[:0]
		m.preview = nil

	case frameMsg:
		m.opsDone++
		m.frames++
		m.lines = msg.lines
		m.preview = msg.preview
		m.symbols = append(m.symbols, msg.symbol)
		if len(m.symbols) > maxSymbols {
			m.symbols = m.symbols[len(m.symbols)-maxSymbols:]
		}

	case transitionDoneMsg:
		m.opsDone = m.ops

	case doneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

// Percent is overall completion, counting commits and ops within the
// current commit
func (m *Model) Percent() float64 {
	transitions := m.total - 1
	if m.done {
		return 1
	}
	if transitions <= 0 {
		return 0
	}
	within := 0.0
	if m.ops > 0 {
		within = float64(m.opsDone) / float64(m.ops)
	}
	return min((float64(m.index-1)+within)/float64(transitions), 1)
}

// Aborted reports whether the user quit before the run finished
func (m *Model) Aborted() bool {
	return m.aborted && !m.done
}

// View implements tea.Model
func (m *Model) View() string {
	var builder strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true)
	builder.WriteString(titleStyle.Render("gitvid " + m.path))
	builder.WriteString("\n")

	label := m.label
	if label == "" {
		label = "listing history..."
	}
	builder.WriteString(runewidth.Truncate(label, max(m.width-1, 1), "…"))
	builder.WriteString("\n\n")

	builder.WriteString(m.bar.ViewAs(m.Percent()))
	builder.WriteString("\n\n")

	statusStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("240")).
		Foreground(lipgloss.Color("255")).
		Width(m.width)

	status := fmt.Sprintf(" commit %d/%d  op %d/%d  frames %d  lines %d",
		m.index, m.total, m.opsDone, m.ops, m.frames, m.lines)
	builder.WriteString(statusStyle.Render(status))
	builder.WriteString("\n")

	symbolStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	builder.WriteString(symbolStyle.Render(strings.Join(m.symbols, "")))
	builder.WriteString("\n")

	previewStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	for _, line := range m.preview {
		line = strings.ReplaceAll(line, "\t", "    ")
		builder.WriteString(previewStyle.Render(runewidth.Truncate(line, max(m.width-1, 1), "…")))
		builder.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	builder.WriteString(helpStyle.Render("q: abort"))

	return builder.String()
}
