package discover

import (
	"strings"

	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/sahilm/fuzzy"
)

// FilterIndex implements sahilm/fuzzy.Source over movie titles
type FilterIndex struct {
	movies      []domain.Movie
	lowerTitles []string // Pre-computed lowercase titles
}

// NewFilterIndex indexes movies for repeated filtering
func NewFilterIndex(movies []domain.Movie) *FilterIndex {
	idx := &FilterIndex{
		movies:      movies,
		lowerTitles: make([]string, len(movies)),
	}
	for i, m := range movies {
		idx.lowerTitles[i] = strings.ToLower(m.Title)
	}
	return idx
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *FilterIndex) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of movies (implements fuzzy.Source)
func (idx *FilterIndex) Len() int { return len(idx.movies) }

// FilterResult is a filter match with metadata for highlighting
type FilterResult struct {
	Movie          domain.Movie
	MatchedIndexes []int // Character positions that matched
	Score          int   // Higher is better
}

// Filter matches query against the indexed titles, best match first.
// A blank query matches everything in index order.
func (idx *FilterIndex) Filter(query string) []FilterResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		results := make([]FilterResult, len(idx.movies))
		for i, m := range idx.movies {
			results[i] = FilterResult{Movie: m}
		}
		return results
	}

	matches := fuzzy.FindFrom(query, idx)
	results := make([]FilterResult, len(matches))
	for i, match := range matches {
		results[i] = FilterResult{
			Movie:          idx.movies[match.Index],
			MatchedIndexes: match.MatchedIndexes,
			Score:          match.Score,
		}
	}
	return results
}

// Filter is a one-shot FilterIndex match returning the movies only
func Filter(movies []domain.Movie, query string) []domain.Movie {
	results := NewFilterIndex(movies).Filter(query)
	out := make([]domain.Movie, len(results))
	for i, r := range results {
		out[i] = r.Movie
	}
	return out
}
