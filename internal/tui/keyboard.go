package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/mmcdole/filmfinder/internal/tui/styles"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.State == StateHelp {
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Typing into a list filter swallows everything but ctrl+c
	if list := m.activeList(); list != nil && list.IsFilterTyping() && msg.String() != "ctrl+c" {
		cmd := list.Update(msg)
		m.updateDetails()
		return m, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.NextView):
		m.switchView((m.CurrentView + 1) % 3)
		return m, nil

	case key.Matches(msg, Keys.PrevView):
		m.switchView((m.CurrentView + 2) % 3)
		return m, nil

	case key.Matches(msg, Keys.DiscoverView):
		m.switchView(ViewDiscover)
		return m, nil

	case key.Matches(msg, Keys.LikesView):
		m.switchView(ViewLikes)
		return m, nil

	case key.Matches(msg, Keys.StatsView):
		m.switchView(ViewStats)
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if list := m.activeList(); list != nil && list.IsFiltering() {
			list.ClearFilter()
			m.updateDetails()
		}
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.switchView(ViewDiscover)
		m.SearchModal.Show()
		return m, nil

	case key.Matches(msg, Keys.Popular):
		m.switchView(ViewDiscover)
		m.Loading = true
		m.DiscoverList.SetLoading(true)
		return m, LoadPopularCmd(m.DiscoverSvc)

	case key.Matches(msg, Keys.Refresh):
		return m.handleRefresh()
	}

	list := m.activeList()
	if list == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Filter):
		list.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Sort):
		if m.CurrentView == ViewDiscover && m.Listing.Len() > 0 {
			m.SortModal.Show(m.Listing.Mode())
		}
		return m, nil

	case key.Matches(msg, Keys.Like):
		return m.handleToggleLike(list.SelectedMovie())

	case key.Matches(msg, Keys.Details):
		movie := list.SelectedMovie()
		if movie == nil {
			return m, nil
		}
		m.Details.SetMovie(movie, m.Likes.IsLiked(movie.ID))
		m.Loading = true
		return m, LoadDetailsCmd(m.DiscoverSvc, *movie)

	case key.Matches(msg, Keys.Open):
		movie := list.SelectedMovie()
		if movie == nil || m.Opener == nil {
			return m, nil
		}
		return m, OpenPageCmd(m.Opener, *movie)
	}

	// Navigation keys go to the active list
	cmd := list.Update(msg)
	m.updateDetails()
	return m, cmd
}

// routeToModal sends the key to a visible modal. Returns handled=false if
// no modal is open.
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.SearchModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.SearchModal, cmd, submitted = m.SearchModal.Update(msg)
		if !submitted {
			return true, m, cmd
		}

		query := m.SearchModal.Query()
		m.SearchModal.Hide()
		m.Loading = true
		m.DiscoverList.SetLoading(true)
		return true, m, SearchCmd(m.DiscoverSvc, query, m.Listing)
	}

	if m.SortModal.IsVisible() {
		_, selection := m.SortModal.HandleKey(msg.String())
		if selection != nil {
			m.Listing = m.Listing.WithSort(*selection)
			m.DiscoverList.SetMovies(m.Listing.Movies())
			m.updateDetails()
			m.StatusMsg = "Sorted by " + selection.Label()
			m.StatusIsErr = false
			return true, m, ClearStatusCmd(statusTimeout)
		}
		// Swallow all keys while the modal is open
		return true, m, nil
	}

	return false, m, nil
}

// handleToggleLike flips the like state of movie
func (m Model) handleToggleLike(movie *domain.Movie) (tea.Model, tea.Cmd) {
	if movie == nil {
		return m, nil
	}

	liked := m.Likes.Toggle(*movie)
	m.refreshLikes()
	m.updateDetails()

	if liked {
		m.StatusMsg = fmt.Sprintf("%s Liked %s", styles.LikedChar, movie.Title)
	} else {
		m.StatusMsg = fmt.Sprintf("Removed %s from likes", movie.Title)
	}
	m.StatusIsErr = false
	return m, ClearStatusCmd(statusTimeout)
}

// handleRefresh reloads the current view
func (m Model) handleRefresh() (tea.Model, tea.Cmd) {
	switch m.CurrentView {
	case ViewStats, ViewLikes:
		// Re-run the sync cycle for the current liked set
		m.Syncer.Trigger(m.Likes.Version(), m.Likes.Snapshot())
		m.StatusMsg = "Refreshing stats..."
		m.StatusIsErr = false
		return m, ClearStatusCmd(statusTimeout)
	default:
		m.Loading = true
		m.DiscoverList.SetLoading(true)
		return m, LoadPopularCmd(m.DiscoverSvc)
	}
}
