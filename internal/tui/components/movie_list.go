package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/filmfinder/internal/discover"
	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/mmcdole/filmfinder/internal/tui/styles"
)

// Spinner frames for loading animation
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Layout constants for lists
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// MovieList is a scrollable, filterable list of movies with like indicators
type MovieList struct {
	movies []domain.Movie
	index  *discover.FilterIndex
	liked  func(id int64) bool

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title      string
	emptyText  string
	loading    bool
	spinnerFrm int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filtered     []discover.FilterResult // nil when no filter applies
}

// NewMovieList creates an empty list. emptyText is shown when there are no movies.
func NewMovieList(title, emptyText string) *MovieList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &MovieList{
		title:       title,
		emptyText:   emptyText,
		index:       discover.NewFilterIndex(nil),
		liked:       func(int64) bool { return false },
		filterInput: ti,
	}
}

// SetLikedFunc sets the predicate used for like indicators
func (l *MovieList) SetLikedFunc(fn func(id int64) bool) {
	if fn != nil {
		l.liked = fn
	}
}

// SetMovies replaces the list contents, keeping the cursor on the same
// movie when it is still present.
func (l *MovieList) SetMovies(movies []domain.Movie) {
	var selectedID int64
	if m := l.SelectedMovie(); m != nil {
		selectedID = m.ID
	}

	l.loading = false
	l.movies = movies
	l.index = discover.NewFilterIndex(movies)
	l.applyFilter()

	l.cursor = 0
	l.offset = 0
	for i := 0; i < l.ItemCount(); i++ {
		if l.movieAt(i).ID == selectedID {
			l.cursor = i
			break
		}
	}
	l.ensureVisible()
}

// Movies returns the unfiltered contents
func (l *MovieList) Movies() []domain.Movie {
	return l.movies
}

// Update handles navigation and filter keys
func (l *MovieList) Update(msg tea.Msg) tea.Cmd {
	// Filter input is focused: route keys to it
	if l.filterActive && l.filterInput.Focused() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				l.clearFilter()
				return nil
			case "enter":
				// Accept filter, blur input to allow navigation
				l.filterInput.Blur()
				return nil
			case "backspace":
				if l.filterInput.Value() == "" {
					l.clearFilter()
					return nil
				}
			}
		}

		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.filterQuery = l.filterInput.Value()
		l.applyFilter()
		l.cursor = 0
		l.offset = 0
		return cmd
	}

	if l.filterActive {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
			l.clearFilter()
			return nil
		}
	}

	count := l.ItemCount()
	if count == 0 {
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "j", "down":
		if l.cursor < count-1 {
			l.cursor++
		}
	case "k", "up":
		if l.cursor > 0 {
			l.cursor--
		}
	case "g", "home":
		l.cursor = 0
	case "G", "end":
		l.cursor = count - 1
	case "ctrl+d", "pgdown":
		l.cursor = min(l.cursor+max(l.maxVisible/2, 1), count-1)
	case "ctrl+u", "pgup":
		l.cursor = max(l.cursor-max(l.maxVisible/2, 1), 0)
	}
	l.ensureVisible()
	return nil
}

// View renders the list inside a border
func (l *MovieList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}

	// Subtract frame (border) size so total rendered size equals l.width x l.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(l.width-frameW, 0)).
		Height(max(l.height-frameH, 0)).
		Render(l.renderContent())
}

// SetSize sets the outer dimensions
func (l *MovieList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

func (l *MovieList) SetFocused(focused bool) { l.focused = focused }

func (l *MovieList) SetTitle(title string) { l.title = title }

func (l *MovieList) Title() string { return l.title }

func (l *MovieList) SetLoading(loading bool) { l.loading = loading }

func (l *MovieList) SetSpinnerFrame(frame int) { l.spinnerFrm = frame }

// SelectedMovie returns the movie under the cursor, nil when empty
func (l *MovieList) SelectedMovie() *domain.Movie {
	if l.cursor >= l.ItemCount() {
		return nil
	}
	m := l.movieAt(l.cursor)
	return &m
}

// SelectedIndex returns the cursor position
func (l *MovieList) SelectedIndex() int {
	return l.cursor
}

// ItemCount returns the number of visible (filtered) movies
func (l *MovieList) ItemCount() int {
	if l.filtered != nil {
		return len(l.filtered)
	}
	return len(l.movies)
}

// ToggleFilter activates the filter input
func (l *MovieList) ToggleFilter() {
	l.filterActive = true
	l.filterInput.Focus()
	l.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (l *MovieList) IsFiltering() bool {
	return l.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (l *MovieList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all movies
func (l *MovieList) ClearFilter() {
	l.clearFilter()
}

func (l *MovieList) movieAt(i int) domain.Movie {
	if l.filtered != nil {
		return l.filtered[i].Movie
	}
	return l.movies[i]
}

func (l *MovieList) matchesAt(i int) []int {
	if l.filtered != nil {
		return l.filtered[i].MatchedIndexes
	}
	return nil
}

func (l *MovieList) applyFilter() {
	if !l.filterActive || strings.TrimSpace(l.filterQuery) == "" {
		l.filtered = nil
		return
	}
	l.filtered = l.index.Filter(l.filterQuery)
}

func (l *MovieList) clearFilter() {
	l.filterActive = false
	l.filterQuery = ""
	l.filtered = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.cursor = 0
	l.offset = 0
	l.recalcMaxVisible()
}

func (l *MovieList) recalcMaxVisible() {
	// Reserve space for the title line and scroll indicators
	l.maxVisible = l.height - BorderHeight - ScrollIndicatorLines - 1
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *MovieList) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if l.height <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

// Rendering

func (l *MovieList) renderContent() string {
	itemWidth := max(l.width-BorderWidth, 10)

	titleLine := styles.AccentStyle.Render(styles.Truncate(l.title, itemWidth))

	if l.loading {
		spinner := SpinnerFrames[l.spinnerFrm%len(SpinnerFrames)]
		return titleLine + "\n \n" + styles.DimStyle.Render(spinner+" Loading...")
	}

	count := l.ItemCount()
	if count == 0 {
		empty := l.emptyText
		if l.filterActive && l.filterQuery != "" {
			empty = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(empty)
		if l.filterActive {
			content += "\n" + l.renderFilterBar()
		}
		return content
	}

	end := min(l.offset+l.maxVisible, count)
	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderMovie(l.movieAt(i), l.matchesAt(i), i == l.cursor, itemWidth))
	}

	// Always reserve the indicator lines to prevent layout shifts
	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if l.filterActive {
		content += "\n" + l.renderFilterBar()
	}
	return content
}

func (l *MovieList) renderMovie(m domain.Movie, matches []int, selected bool, width int) string {
	heartChar, heartFg := styles.UnlikedChar, styles.DimGray
	if l.liked(m.ID) {
		heartChar, heartFg = styles.LikedChar, styles.Heart
	}

	rating := m.FormattedRating()
	ratingFg := styles.Gold

	// Available space: heart(1) + spaces(2) + rating + margins(2)
	availableForTitle := max(width-5-lipgloss.Width(rating), 5)
	title := styles.Truncate(m.Title, availableForTitle)
	year := ""
	if y := m.Year(); y > 0 && lipgloss.Width(title)+7 <= availableForTitle {
		year = fmt.Sprintf(" (%d)", y)
	}

	parts := []styles.RowPart{{Text: heartChar, Foreground: &heartFg}, {Text: " "}}
	parts = append(parts, highlightTitle(title, matches)...)
	parts = append(parts, styles.RowPart{Text: year})

	used := 2 + lipgloss.Width(title) + lipgloss.Width(year) + lipgloss.Width(rating)
	if gap := width - 2 - used; gap > 0 {
		parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", gap)})
	}
	parts = append(parts, styles.RowPart{Text: rating, Foreground: &ratingFg})

	return styles.RenderListRow(parts, selected, width)
}

// highlightTitle splits title into parts with matched characters accented
func highlightTitle(title string, matches []int) []styles.RowPart {
	if len(matches) == 0 {
		return []styles.RowPart{{Text: title}}
	}

	matched := make(map[int]bool, len(matches))
	for _, i := range matches {
		matched[i] = true
	}

	accent := styles.Accent
	var parts []styles.RowPart
	var run strings.Builder
	runMatched := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		part := styles.RowPart{Text: run.String()}
		if runMatched {
			part.Foreground = &accent
		}
		parts = append(parts, part)
		run.Reset()
	}

	for i, r := range title {
		if matched[i] != runMatched {
			flush()
			runMatched = matched[i]
		}
		run.WriteRune(r)
	}
	flush()
	return parts
}

func (l *MovieList) renderFilterBar() string {
	countStr := ""
	if l.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", l.ItemCount(), len(l.movies)))
	}
	return l.filterInput.View() + countStr
}
