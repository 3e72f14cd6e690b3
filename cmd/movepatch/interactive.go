package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#666666"))

	activeTabStyle = tabStyle.
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type table int

const (
	tableIdentifiers table = iota
	tableConstants
)

// maxRows bounds the rows rendered at once.
const maxRows = 20

type browserModel struct {
	ctx      context.Context
	err      error
	report   *report
	filename string
	filter   textinput.Model
	active   table
	selected int
	offset   int
}

type inspectedMsg struct {
	err    error
	report *report
}

func newBrowserModel(ctx context.Context, filename string) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.Focus()

	return &browserModel{
		ctx:      ctx,
		filename: filename,
		filter:   ti,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return tea.Batch(m.load, textinput.Blink)
}

func (m *browserModel) load() tea.Msg {
	r, err := inspectFile(m.ctx, m.filename)
	return inspectedMsg{report: r, err: err}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			m.active = (m.active + 1) % 2
			m.selected, m.offset = 0, 0
			return m, nil

		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			m.scroll()
			return m, nil

		case "down", "ctrl+n":
			if m.selected < len(m.rows())-1 {
				m.selected++
			}
			m.scroll()
			return m, nil
		}

	case inspectedMsg:
		m.report, m.err = msg.report, msg.err
		return m, nil
	}

	var cmd tea.Cmd
	prev := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != prev {
		m.selected, m.offset = 0, 0
	}
	return m, cmd
}

func (m *browserModel) scroll() {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+maxRows {
		m.offset = m.selected - maxRows + 1
	}
}

// rows returns the entries of the active table matching the filter.
func (m *browserModel) rows() []entry {
	if m.report == nil {
		return nil
	}
	src := m.report.identifiers
	if m.active == tableConstants {
		src = m.report.constants
	}
	needle := strings.ToLower(m.filter.Value())
	if needle == "" {
		return src
	}
	var out []entry
	for _, e := range src {
		if strings.Contains(strings.ToLower(e.value), needle) || strings.Contains(strings.ToLower(e.typ), needle) {
			out = append(out, e)
		}
	}
	return out
}

func (m *browserModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress esc to quit.", m.err))
	}
	if m.report == nil {
		return "Loading module..."
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render("Move Module"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	tabs := []string{
		fmt.Sprintf("Identifiers (%d)", len(m.report.identifiers)),
		fmt.Sprintf("Constants (%d)", len(m.report.constants)),
	}
	for i, t := range tabs {
		if table(i) == m.active {
			b.WriteString(activeTabStyle.Render(t))
		} else {
			b.WriteString(tabStyle.Render(t))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	rows := m.rows()
	end := min(m.offset+maxRows, len(rows))
	for i := m.offset; i < end; i++ {
		line := m.formatRow(rows[i])
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if len(rows) == 0 {
		b.WriteString(helpStyle.Render("  no matches"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • tab switch table • type to filter • esc quit"))
	return b.String()
}

func (m *browserModel) formatRow(e entry) string {
	idx := fmt.Sprintf("%4d", e.index)
	if m.active == tableIdentifiers {
		return idx + "  " + e.value
	}
	return idx + "  " + typeStyle.Render(fmt.Sprintf("%-20s", e.typ)) + " " + valueStyle.Render(e.value)
}

func runInteractive(ctx context.Context, filename string) error {
	p := tea.NewProgram(newBrowserModel(ctx, filename), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
