// Package tui is the interactive terminal browser for the change feed.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/webframp/docstracker/feed"
	"github.com/webframp/docstracker/view"
)

// --- Styles ---
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	labelStyle    = lipgloss.NewStyle().Bold(true)
	addedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	modifiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	renamedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	// lines used by the title, search box and footer
	chromeLines = 6
)

// --- Messages ---
type loadedMsg struct {
	changes []feed.ChangeRecord
}

// --- Model ---
type Model struct {
	loader  *feed.Loader
	loc     *time.Location
	input   textinput.Model
	spinner spinner.Model

	state   view.State
	visible []feed.ChangeRecord
	cursor  int
	loading bool

	width  int
	height int
}

// New returns a browser that loads its feed from loader and renders dates
// in loc.
func New(loader *feed.Loader, loc *time.Location) Model {
	ti := textinput.New()
	ti.Placeholder = "Search summaries, authors, files or dates"
	ti.Prompt = "/ "
	ti.CharLimit = 200
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		loader:  loader,
		loc:     loc,
		input:   ti,
		spinner: s,
		loading: true,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.load)
}

func (m Model) load() tea.Msg {
	return loadedMsg{changes: m.loader.Fetch(context.Background())}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-4)
		return m, nil

	case loadedMsg:
		m.loading = false
		m.state = view.Loaded(m.state, msg.changes)
		m.refilter()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.input.Value() == "" {
				return m, tea.Quit
			}
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if m.cursor < len(m.visible) {
				m.state = view.Toggled(m.state, m.visible[m.cursor].SHA)
			}
			return m, nil
		case "esc":
			m.input.SetValue("")
			m.search("")
			return m, nil
		case "ctrl+r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.load)
		}

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.search(m.input.Value())
	return m, cmd
}

// search applies term and keeps the cursor on the list.
func (m *Model) search(term string) {
	if term == m.state.Term {
		return
	}
	m.state = view.Searched(m.state, term)
	m.refilter()
}

func (m *Model) refilter() {
	m.visible = view.Filter(m.state.Changes, m.state.Term, m.loc)
	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}
	if strings.TrimSpace(m.state.Term) != "" {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent Docs Changes"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.loading && len(m.state.Changes) == 0 {
		b.WriteString(fmt.Sprintf("%s Loading...\n", m.spinner.View()))
		return b.String()
	}

	lines, cursorLine := m.rowLines()
	b.WriteString(strings.Join(window(lines, cursorLine, max(1, m.height-chromeLines)), "\n"))
	if len(lines) > 0 {
		b.WriteString("\n")
	}

	status := fmt.Sprintf("Showing %d of %d changes", len(m.visible), len(m.state.Changes))
	if m.loading {
		status = m.spinner.View() + " " + status
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(status + " · ↑/↓ move · enter expand · esc clear · ctrl+r reload · ctrl+c quit"))
	return b.String()
}

// rowLines renders every visible row and returns the index of the line the
// cursor is on.
func (m Model) rowLines() ([]string, int) {
	var lines []string
	cursorLine := 0
	for i, row := range view.Rows(m.state, m.visible, m.loc) {
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
			cursorLine = len(lines)
		}
		summaryWidth := m.width - len(row.Date) - 5
		lines = append(lines, marker+dateStyle.Render(row.Date)+"  "+truncate(row.SummaryText, summaryWidth))
		if row.Expanded {
			lines = append(lines, m.detailLines(row)...)
		}
	}
	return lines, cursorLine
}

func (m Model) detailLines(row view.Row) []string {
	lines := []string{
		"    " + labelStyle.Render("Author:") + " " + row.Author,
		"    " + labelStyle.Render("Date:") + " " + row.Date,
		"    " + labelStyle.Render("Commit:") + " " + row.URL,
	}
	if len(row.Files) > 0 {
		lines = append(lines, "    "+labelStyle.Render("Changed Files:"))
		for _, f := range row.Files {
			line := "      " + fileStyle(f.Class).Render(f.Label)
			if f.Label != "" {
				line += " "
			}
			line += f.Name
			if f.Meta != "" {
				line += " " + faintStyle.Render(f.Meta)
			}
			lines = append(lines, line)
		}
	}
	return lines
}

func fileStyle(class string) lipgloss.Style {
	switch class {
	case "ed-file-added":
		return addedStyle
	case "ed-file-removed":
		return removedStyle
	case "ed-file-modified":
		return modifiedStyle
	case "ed-file-renamed":
		return renamedStyle
	}
	return lipgloss.NewStyle()
}

// window returns at most n lines of lines, scrolled so that line cur is shown.
func window(lines []string, cur, n int) []string {
	if len(lines) <= n {
		return lines
	}
	start := max(0, cur-n/2)
	if start+n > len(lines) {
		start = len(lines) - n
	}
	return lines[start : start+n]
}

func truncate(s string, n int) string {
	if n <= 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Run starts the browser on the terminal.
func Run(loader *feed.Loader, loc *time.Location) error {
	_, err := tea.NewProgram(New(loader, loc), tea.WithAltScreen()).Run()
	return err
}
