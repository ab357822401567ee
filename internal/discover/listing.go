package discover

import "github.com/mmcdole/filmfinder/internal/domain"

// Listing is the movie list on display: the result of the last load plus
// the sort applied to it. A search replaces the listing; it never merges
// into the previous one.
type Listing struct {
	Title    string // "Popular" or "Results for ..."
	original []domain.Movie
	mode     SortMode
	sorted   []domain.Movie
}

// NewListing creates a listing in load order
func NewListing(title string, movies []domain.Movie) Listing {
	original := make([]domain.Movie, len(movies))
	copy(original, movies)
	return Listing{Title: title, original: original, sorted: original}
}

// Movies returns the listing in display order
func (l Listing) Movies() []domain.Movie {
	return l.sorted
}

// Len returns the number of movies
func (l Listing) Len() int {
	return len(l.original)
}

// Mode returns the active sort mode
func (l Listing) Mode() SortMode {
	return l.mode
}

// WithSort returns the listing re-sorted by mode.
// SortDefault restores the order of the last load.
func (l Listing) WithSort(mode SortMode) Listing {
	l.mode = mode
	l.sorted = Sort(l.original, mode)
	return l
}
