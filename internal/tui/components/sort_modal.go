package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/filmfinder/internal/discover"
	"github.com/mmcdole/filmfinder/internal/tui/styles"
)

// SortOptions returns the sort modes in menu order
func SortOptions() []discover.SortMode {
	return []discover.SortMode{
		discover.SortDefault,
		discover.SortRating,
		discover.SortRatingLow,
		discover.SortReleaseDate,
		discover.SortReleaseDateOld,
	}
}

// SortModal is a small popup for choosing sort order
type SortModal struct {
	visible bool
	options []discover.SortMode
	cursor  int
	active  discover.SortMode
}

// NewSortModal creates a new sort modal
func NewSortModal() SortModal {
	return SortModal{options: SortOptions()}
}

// Show displays the modal with the cursor on the active mode
func (m *SortModal) Show(active discover.SortMode) {
	m.visible = true
	m.active = active
	m.cursor = 0
	for i, opt := range m.options {
		if opt == active {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *SortModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m SortModal) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press, returns (handled, selection).
// If selection is non-nil, the user confirmed a choice.
func (m *SortModal) HandleKey(key string) (handled bool, selection *discover.SortMode) {
	if !m.visible {
		return false, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		chosen := m.options[m.cursor]
		m.visible = false
		return true, &chosen
	case "esc", "s":
		m.visible = false
	}

	return true, nil // consume all keys when visible
}

// View renders the sort modal
func (m SortModal) View() string {
	if !m.visible || len(m.options) == 0 {
		return ""
	}

	const width = 26

	lines := make([]string, 0, len(m.options))
	for i, opt := range m.options {
		prefix := "  "
		if opt == m.active {
			prefix = "✓ "
		}
		text := prefix + opt.Label()
		text += strings.Repeat(" ", max(width-lipgloss.Width(text), 0))

		style := lipgloss.NewStyle().Foreground(styles.LightGray)
		switch {
		case i == m.cursor:
			style = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
		case opt == m.active:
			style = lipgloss.NewStyle().Foreground(styles.Accent)
		}
		lines = append(lines, style.Render(text))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.TitleStyle.MarginBottom(1).Render("Sort by") + "\n" + strings.Join(lines, "\n"))
}
