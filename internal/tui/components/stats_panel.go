package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/mmcdole/filmfinder/internal/tui/styles"
)

// Empty state copy for the stats view
const (
	StatsEmptyText   = "Like some movies to see your top genres!"
	StatsLoadingText = "Loading your top genres..."
)

const statsBarWidth = 20

// StatsPanel renders the analytics aggregates and sync state
type StatsPanel struct {
	state        domain.SyncState
	stats        *domain.Stats
	err          error
	attempt      int
	genre        domain.GenreStat
	recommended  []domain.Movie
	recommendErr error
	spinnerFrame int
	width        int
	height       int
}

// NewStatsPanel creates an idle panel
func NewStatsPanel() StatsPanel {
	return StatsPanel{state: domain.SyncIdle}
}

// SetSync updates the panel from a sync state transition
func (p *StatsPanel) SetSync(state domain.SyncState, stats *domain.Stats, err error, attempt int) {
	p.state = state
	p.stats = stats
	p.err = err
	p.attempt = attempt
}

// SetRecommendations sets the picks for the top genre
func (p *StatsPanel) SetRecommendations(genre domain.GenreStat, movies []domain.Movie, err error) {
	p.genre = genre
	p.recommended = movies
	p.recommendErr = err
}

// State returns the sync state on display
func (p StatsPanel) State() domain.SyncState {
	return p.state
}

func (p *StatsPanel) SetSpinnerFrame(frame int) { p.spinnerFrame = frame }

// SetSize updates the component dimensions
func (p *StatsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the component
func (p StatsPanel) View() string {
	style := styles.ActiveBorder
	frameW, frameH := style.GetFrameSize()
	contentWidth := max(p.width-frameW-1, 20)

	titleLine := styles.AccentStyle.Render("Your Top Genres") + "  " + p.renderBadge()

	return style.
		Width(max(p.width-frameW, 0)).
		Height(max(p.height-frameH, 0)).
		MaxHeight(max(p.height, 0)).
		Render(titleLine + "\n\n" + p.renderBody(contentWidth))
}

// renderBadge renders the sync state next to the title
func (p StatsPanel) renderBadge() string {
	switch p.state {
	case domain.SyncSyncing:
		spinner := SpinnerFrames[p.spinnerFrame%len(SpinnerFrames)]
		text := "syncing"
		if p.attempt > 1 {
			text = fmt.Sprintf("retrying (attempt %d)", p.attempt)
		}
		return styles.SpinnerStyle.Render(spinner) + " " + styles.DimStyle.Render(text)
	case domain.SyncSuccess:
		return styles.SuccessStyle.Render("✓ synced")
	case domain.SyncFailed:
		return styles.ErrorStyle.Render("✗ sync failed")
	default:
		return ""
	}
}

func (p StatsPanel) renderBody(width int) string {
	var b strings.Builder

	// Failures are always explicit; stale stats stay below the error
	if p.state == domain.SyncFailed && p.err != nil {
		b.WriteString(styles.ErrorStyle.Width(width).Render("Failed to load stats: " + p.err.Error()))
		b.WriteString("\n")
		if p.stats != nil {
			b.WriteString(styles.DimStyle.Render("Showing the last synced results. Press r to retry."))
		} else {
			b.WriteString(styles.DimStyle.Render("Press r to retry."))
		}
		b.WriteString("\n\n")
	}

	if p.stats == nil {
		switch p.state {
		case domain.SyncSyncing, domain.SyncIdle:
			b.WriteString(styles.DimStyle.Render(StatsLoadingText))
		}
		return b.String()
	}

	s := p.stats
	if len(s.TopGenres) == 0 {
		b.WriteString(styles.SubtitleStyle.Render(StatsEmptyText))
		return b.String()
	}

	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Based on %d liked movies", s.TotalLikes)))
	b.WriteString("\n\n")

	b.WriteString(p.renderSection("Genres", len(s.TopGenres), func(i int) (string, int) {
		return s.TopGenres[i].Name, s.TopGenres[i].Count
	}, width))

	if len(s.TopLanguages) > 0 {
		b.WriteString("\n")
		b.WriteString(p.renderSection("Languages", len(s.TopLanguages), func(i int) (string, int) {
			return s.TopLanguages[i].Name, s.TopLanguages[i].Count
		}, width))
	}

	if len(s.TopDecades) > 0 {
		b.WriteString("\n")
		b.WriteString(p.renderSection("Decades", len(s.TopDecades), func(i int) (string, int) {
			return s.TopDecades[i].Decade, s.TopDecades[i].Count
		}, width))
	}

	b.WriteString("\n")
	b.WriteString(p.renderRecommendations(width))
	return b.String()
}

// renderSection renders one ranked aggregate as labelled bars
func (p StatsPanel) renderSection(title string, n int, entry func(i int) (string, int), width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n")

	labelWidth := 0
	top := 0
	for i := 0; i < n; i++ {
		label, count := entry(i)
		labelWidth = max(labelWidth, lipgloss.Width(label))
		top = max(top, count)
	}
	labelWidth = min(labelWidth, max(width-statsBarWidth-8, 8))

	for i := 0; i < n; i++ {
		label, count := entry(i)
		label = styles.Truncate(label, labelWidth)
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(label))
		fmt.Fprintf(&b, "%d. %s%s %s %s\n",
			i+1, label, pad, styles.RenderBar(count, top, statsBarWidth), styles.DimStyle.Render(fmt.Sprint(count)))
	}
	return b.String()
}

func (p StatsPanel) renderRecommendations(width int) string {
	if p.recommendErr != nil {
		return styles.ErrorStyle.Width(width).Render(p.recommendErr.Error())
	}
	if len(p.recommended) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Because you like " + p.genre.Name))
	b.WriteString("\n")
	for _, m := range p.recommended {
		b.WriteString("  " + styles.Truncate(m.Title, width-14) + " " + styles.RatingStyle.Render(m.FormattedRating()))
		b.WriteString("\n")
	}
	return b.String()
}
