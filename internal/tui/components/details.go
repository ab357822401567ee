package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/mmcdole/filmfinder/internal/tui/styles"
)

// Details displays metadata for the selected movie
type Details struct {
	movie     *domain.Movie
	liked     bool
	imageBase string
	width     int
	height    int
}

// NewDetails creates a details panel that builds poster URLs from imageBase
func NewDetails(imageBase string) Details {
	return Details{imageBase: imageBase}
}

// SetMovie sets the movie to display (nil clears the panel)
func (d *Details) SetMovie(m *domain.Movie, liked bool) {
	d.movie = m
	d.liked = liked
}

// Movie returns the movie on display
func (d Details) Movie() *domain.Movie {
	return d.movie
}

// SetSize updates the component dimensions
func (d *Details) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the component
func (d Details) View() string {
	style := styles.InactiveBorder
	frameW, frameH := style.GetFrameSize()

	// Leave 1 char safety margin inside the border
	contentWidth := max(d.width-frameW-1, 10)

	titleLine := styles.AccentStyle.Render("Info")
	body := d.render(contentWidth)

	return style.
		Width(max(d.width-frameW, 0)).
		Height(max(d.height-frameH, 0)).
		MaxHeight(max(d.height, 0)).
		Render(titleLine + "\n\n" + body)
}

func (d Details) render(width int) string {
	if d.movie == nil {
		return styles.DimStyle.Render("No movie selected")
	}
	m := d.movie

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Width(width).Render(m.Title))
	b.WriteString("\n")
	if m.OriginalTitle != "" && m.OriginalTitle != m.Title {
		b.WriteString(styles.DimStyle.Width(width).Render(m.OriginalTitle))
		b.WriteString("\n")
	}
	b.WriteString(styles.RatingStyle.Render(m.Description()))
	b.WriteString("\n\n")

	if len(m.GenreIDs) > 0 {
		b.WriteString(styles.DimStyle.Width(width).Render(strings.Join(domain.GenreNames(m.GenreIDs), ", ")))
		b.WriteString("\n")
	}
	if m.OriginalLanguage != "" {
		b.WriteString(styles.DimStyle.Render("Language: " + domain.LanguageName(m.OriginalLanguage)))
		b.WriteString("\n")
	}
	if m.ReleaseDate != "" {
		b.WriteString(styles.DimStyle.Render("Released: " + m.ReleaseDate))
		b.WriteString("\n")
	}

	if d.liked {
		b.WriteString(styles.LikedHeart + styles.SubtitleStyle.Render(" In your likes"))
	} else {
		b.WriteString(styles.UnlikedHeart + styles.DimStyle.Render(" Not liked"))
	}
	b.WriteString("\n")

	if m.Overview != "" {
		b.WriteString("\n")
		b.WriteString(styles.SubtitleStyle.Width(width).Render(m.Overview))
		b.WriteString("\n")
	}

	if poster := m.PosterURL(d.imageBase); poster != "" {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(styles.Truncate(poster, width)))
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}
