package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/filmfinder/internal/tui/components"
	"github.com/mmcdole/filmfinder/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	contentHeight := m.Height - ChromeHeight

	var content string
	switch {
	case m.SearchModal.IsVisible():
		content = lipgloss.Place(m.Width, contentHeight,
			lipgloss.Center, lipgloss.Center,
			m.SearchModal.View())
	case m.SortModal.IsVisible():
		content = lipgloss.Place(m.Width, contentHeight,
			lipgloss.Center, lipgloss.Center,
			m.SortModal.View())
	case m.CurrentView == ViewStats:
		content = m.Stats.View()
	default:
		content = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.activeList().View(),
			m.Details.View(),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		content,
		m.renderFooter(),
	)
}

// renderTabs renders the view switcher
func (m Model) renderTabs() string {
	tabs := make([]string, 0, 3)
	for _, v := range []View{ViewDiscover, ViewLikes, ViewStats} {
		label := v.Label()
		if v == ViewLikes {
			label += " " + styles.LikedChar
		}
		if v == m.CurrentView {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(label))
		}
	}

	title := styles.TitleStyle.Render("filmfinder") + "  "
	return title + strings.Join(tabs, " ")
}

// renderFooter renders the status line
func (m Model) renderFooter() string {
	// Left side: spinner, then the status message, then the standing notice
	var left string
	switch {
	case m.Loading:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading...")
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	case m.Notice != "":
		left = styles.ErrorStyle.Render(m.Notice)
	}

	// Center section: hints for the current view
	var center string
	switch m.CurrentView {
	case ViewDiscover:
		center = styles.AccentStyle.Render("f") + styles.DimStyle.Render(" Search  ") +
			styles.AccentStyle.Render("space") + styles.DimStyle.Render(" Like")
	case ViewLikes:
		center = styles.AccentStyle.Render("space") + styles.DimStyle.Render(" Unlike")
	case ViewStats:
		center = styles.AccentStyle.Render("r") + styles.DimStyle.Render(" Refresh")
	}

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	gap := m.Width - leftWidth - centerWidth - rightWidth
	if gap < 2 {
		// Not enough room: drop the hints
		gap = max(m.Width-leftWidth-rightWidth, 1)
		return left + strings.Repeat(" ", gap) + right
	}
	leftGap := gap / 2
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", gap-leftGap) + right
}

// renderHelp renders the help overlay
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      MOVIES
  j/k        Up/down               Space  Like/unlike
  g/Home     First item            Enter  Load details
  G/End      Last item             f      Search catalog
  PgUp/PgDn  Scroll page           p      Popular movies
  Ctrl+u/d   Scroll half page      s      Sort
                                   /      Filter
                                   o      Open in browser

VIEWS                           OTHER
  Tab        Next view             r      Refresh
  1          Discover              q      Quit
  2          Likes                 ?      This help
  3          Stats                 Esc    Close / Cancel

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := components.SpinnerFrames
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}
