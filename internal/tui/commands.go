package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/filmfinder/internal/discover"
	"github.com/mmcdole/filmfinder/internal/domain"
)

const requestTimeout = 30 * time.Second

// Command factories for async operations

// LoadPopularCmd loads the popular listing
func LoadPopularCmd(svc *discover.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		listing, err := svc.Popular(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return PopularLoadedMsg{Listing: listing}
	}
}

// SearchCmd searches the catalog; the results replace current
func SearchCmd(svc *discover.Service, query string, current discover.Listing) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		listing, err := svc.Search(ctx, query, current)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return SearchResultsMsg{Listing: listing, Query: query}
	}
}

// LoadDetailsCmd fetches runtime and genres for a movie
func LoadDetailsCmd(svc *discover.Service, movie domain.Movie) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		enriched, err := svc.Details(ctx, movie)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading details"}
		}
		return DetailsLoadedMsg{Movie: enriched}
	}
}

// RecommendCmd loads picks for the top genre of stats
func RecommendCmd(svc *discover.Service, stats *domain.Stats) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		genre, movies, err := svc.Recommend(ctx, stats)
		return RecommendationsMsg{Genre: genre, Movies: movies, Err: err}
	}
}

// OpenPageCmd opens the movie's catalog page in a browser
func OpenPageCmd(opener Opener, movie domain.Movie) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(movie.PageURL()); err != nil {
			return ErrMsg{Err: err, Context: "opening browser"}
		}
		return StatusMsg{Message: "Opened " + movie.Title + " in browser"}
	}
}

// WaitForSyncCmd reads the next sync transition from the observer channel
func WaitForSyncCmd(ch <-chan domain.SyncProgress) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		progress, ok := <-ch
		if !ok {
			return nil
		}
		return SyncProgressMsg{Progress: progress}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
