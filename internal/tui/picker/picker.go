// Package picker implements the interactive task picker: a filter field
// over the discovered tasks, with the selection handed back to the caller
// to dispatch.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/millworks/taskmill/internal/tui/styles"
	"github.com/millworks/taskmill/internal/util"
)

// visibleRows is how many tasks are shown at once; the window scrolls
// with the cursor.
const visibleRows = 12

// Item is one selectable task.
type Item struct {
	Name      string
	Summary   string
	Recursive bool
}

// Model is the Bubbletea model for the picker.
type Model struct {
	items  []Item
	filter textinput.Model

	matches []int // indices into items, filtered by the query
	cursor  int   // position within matches
	offset  int   // first visible row

	width    int
	height   int
	choice   string
	quitting bool
}

// New creates a picker over the given items. Items are shown in the
// order given; the caller sorts.
func New(items []Item) Model {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	m := Model{items: items, filter: ti}
	m.refilter()
	return m
}

// Choice returns the selected task name, or "" if the picker was
// cancelled.
func (m Model) Choice() string {
	return m.choice
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if len(m.matches) > 0 {
				m.choice = m.items[m.matches[m.cursor]].Name
			}
			m.quitting = true
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			m.scroll()
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			m.scroll()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refilter()
	return m, cmd
}

// refilter recomputes the match set for the current query and keeps the
// cursor on a valid row.
func (m *Model) refilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))

	m.matches = m.matches[:0]
	for i, item := range m.items {
		if query == "" ||
			strings.Contains(strings.ToLower(item.Name), query) ||
			strings.Contains(strings.ToLower(item.Summary), query) {
			m.matches = append(m.matches, i)
		}
	}

	if m.cursor >= len(m.matches) {
		m.cursor = len(m.matches) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scroll()
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visibleRows {
		m.offset = m.cursor - visibleRows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("Run a task"))
	b.WriteString("\n")
	b.WriteString(styles.FilterBar.Render(m.filter.View()))
	b.WriteString("\n\n")

	if len(m.matches) == 0 {
		b.WriteString(styles.Muted.Render("no tasks match"))
		b.WriteString("\n")
	}

	end := m.offset + visibleRows
	if end > len(m.matches) {
		end = len(m.matches)
	}
	for row := m.offset; row < end; row++ {
		item := m.items[m.matches[row]]
		b.WriteString(m.renderItem(item, row == m.cursor))
		b.WriteString("\n")
	}
	if end < len(m.matches) {
		b.WriteString(styles.Muted.Render("  …"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpBar.Render(
		styles.HelpKey.Render("↑/↓") + " navigate  " +
			styles.HelpKey.Render("enter") + " run  " +
			styles.HelpKey.Render("esc") + " cancel",
	))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderItem(item Item, selected bool) string {
	mark := " "
	if item.Recursive {
		mark = styles.RecursiveMark.Render("↺")
	}

	padded := fmt.Sprintf("%-28s", util.TruncateString(item.Name, 28))

	width := m.width
	if width == 0 {
		width = 80
	}
	summary := util.TruncateANSI(item.Summary, width-36)

	if selected {
		cursor := styles.Secondary.Render(">")
		name := styles.Text.Bold(true).Render(padded)
		return fmt.Sprintf(" %s %s %s %s", cursor, mark, name, styles.Primary.Render(summary))
	}
	name := styles.Text.Render(padded)
	return fmt.Sprintf("   %s %s %s", mark, name, styles.Muted.Render(summary))
}

// Run shows the picker and returns the selected task name, or "" when
// cancelled.
func Run(items []Item) (string, error) {
	p := tea.NewProgram(New(items), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(Model); ok {
		return m.Choice(), nil
	}
	return "", nil
}
