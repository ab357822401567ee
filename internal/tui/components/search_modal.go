package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/filmfinder/internal/tui/styles"
)

const (
	maxSearchHistory = 8
	shownHistory     = 5
	searchModalWidth = 46

	emptyQueryHint = "Type a title to search"
)

// SearchModal is the catalog search prompt. It remembers the queries
// submitted this session; up/down walk through them.
type SearchModal struct {
	visible bool
	input   textinput.Model
	hint    string

	history []string // Newest first
	browse  int      // Index into history, -1 while editing
	draft   string   // Text typed before browsing started
}

// NewSearchModal creates a hidden search prompt with no history
func NewSearchModal() SearchModal {
	ti := textinput.New()
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "> "
	ti.Placeholder = "Search for a movie..."
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchModal{input: ti, browse: -1}
}

// Show opens an empty prompt
func (m *SearchModal) Show() {
	m.visible = true
	m.hint = ""
	m.browse = -1
	m.draft = ""
	m.input.SetValue("")
	m.input.Focus()
}

// Hide dismisses the prompt
func (m *SearchModal) Hide() {
	m.visible = false
	m.input.Blur()
}

func (m SearchModal) IsVisible() bool {
	return m.visible
}

// Query returns the trimmed input
func (m SearchModal) Query() string {
	return strings.TrimSpace(m.input.Value())
}

// History returns the remembered queries, newest first
func (m SearchModal) History() []string {
	return append([]string(nil), m.history...)
}

// Update handles input events and returns (modal, cmd, submitted).
// Enter on a blank query keeps the prompt open with a hint instead of
// submitting.
func (m SearchModal) Update(msg tea.Msg) (SearchModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			query := m.Query()
			if query == "" {
				m.hint = emptyQueryHint
				return m, nil, false
			}
			m.remember(query)
			m.hint = ""
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		case "up", "ctrl+p":
			m.recall(m.browse + 1)
			return m, nil, false
		case "down", "ctrl+n":
			m.recall(m.browse - 1)
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.browse = -1
		m.hint = ""
	}
	return m, cmd, false
}

// recall moves to history entry i; -1 restores the draft
func (m *SearchModal) recall(i int) {
	if i >= len(m.history) || i < -1 || i == m.browse {
		return
	}
	if m.browse == -1 {
		m.draft = m.input.Value()
	}
	m.browse = i
	if i == -1 {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[i])
	}
	m.input.CursorEnd()
}

// remember moves query to the front, dropping a case-insensitive duplicate
func (m *SearchModal) remember(query string) {
	history := []string{query}
	for _, q := range m.history {
		if !strings.EqualFold(q, query) {
			history = append(history, q)
		}
	}
	if len(history) > maxSearchHistory {
		history = history[:maxSearchHistory]
	}
	m.history = history
	m.browse = -1
}

// View renders the prompt with recent queries below it
func (m SearchModal) View() string {
	if !m.visible {
		return ""
	}

	line := lipgloss.NewStyle().
		Width(searchModalWidth).
		Background(styles.SlateDark)

	rows := []string{
		line.Foreground(styles.White).Bold(true).Render("Search Movies"),
		line.Render(""),
		line.Render(m.input.View()),
	}
	if m.hint != "" {
		rows = append(rows, line.Foreground(styles.Red).Render(m.hint))
	}

	if len(m.history) > 0 {
		rows = append(rows, line.Render(""), line.Foreground(styles.DimGray).Render("Recent  ↑/↓"))
		for i, q := range m.history[:min(len(m.history), shownHistory)] {
			style := line.Foreground(styles.DimGray)
			if i == m.browse {
				style = line.Foreground(styles.Accent)
			}
			rows = append(rows, style.Render("  "+styles.Truncate(q, searchModalWidth-2)))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
