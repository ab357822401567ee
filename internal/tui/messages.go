package tui

import (
	"github.com/mmcdole/filmfinder/internal/discover"
	"github.com/mmcdole/filmfinder/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PopularLoadedMsg signals that the popular listing has been loaded
type PopularLoadedMsg struct {
	Listing discover.Listing
}

// SearchResultsMsg signals that search results are ready
type SearchResultsMsg struct {
	Listing discover.Listing
	Query   string
}

// DetailsLoadedMsg carries a movie enriched with its details
type DetailsLoadedMsg struct {
	Movie domain.Movie
}

// SyncProgressMsg signals an analytics sync state transition
type SyncProgressMsg struct {
	Progress domain.SyncProgress
}

// RecommendationsMsg carries picks for the user's top genre
type RecommendationsMsg struct {
	Genre  domain.GenreStat
	Movies []domain.Movie
	Err    error
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
