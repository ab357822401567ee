package discover

import (
	"sort"
	"time"

	"github.com/mmcdole/filmfinder/internal/domain"
)

// SortMode orders a displayed movie list
type SortMode int

const (
	SortDefault SortMode = iota // Order of the last load
	SortRating
	SortRatingLow
	SortReleaseDate
	SortReleaseDateOld
)

var sortModes = []SortMode{SortDefault, SortRating, SortRatingLow, SortReleaseDate, SortReleaseDateOld}

// String returns the mode's config/CLI name
func (m SortMode) String() string {
	switch m {
	case SortRating:
		return "rating"
	case SortRatingLow:
		return "rating_low"
	case SortReleaseDate:
		return "release_date"
	case SortReleaseDateOld:
		return "release_date_old"
	default:
		return "default"
	}
}

// Label returns the mode's display label
func (m SortMode) Label() string {
	switch m {
	case SortRating:
		return "Rating (High to Low)"
	case SortRatingLow:
		return "Rating (Low to High)"
	case SortReleaseDate:
		return "Release Date (Newest)"
	case SortReleaseDateOld:
		return "Release Date (Oldest)"
	default:
		return "Default"
	}
}

// Next cycles to the following mode
func (m SortMode) Next() SortMode {
	return sortModes[(int(m)+1)%len(sortModes)]
}

// ParseSortMode maps a name back to its mode
func ParseSortMode(name string) (SortMode, bool) {
	for _, m := range sortModes {
		if m.String() == name {
			return m, true
		}
	}
	return SortDefault, false
}

// Sort returns a sorted copy of movies. Ties keep their input order and
// movies without a release date sort last in both date orders.
func Sort(movies []domain.Movie, mode SortMode) []domain.Movie {
	sorted := make([]domain.Movie, len(movies))
	copy(sorted, movies)

	switch mode {
	case SortRating:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].VoteAverage > sorted[j].VoteAverage
		})
	case SortRatingLow:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].VoteAverage < sorted[j].VoteAverage
		})
	case SortReleaseDate:
		sortByDate(sorted, true)
	case SortReleaseDateOld:
		sortByDate(sorted, false)
	}
	return sorted
}

func sortByDate(movies []domain.Movie, newestFirst bool) {
	dates := make(map[int64]time.Time, len(movies))
	for _, m := range movies {
		if t, err := time.Parse(time.DateOnly, m.ReleaseDate); err == nil {
			dates[m.ID] = t
		}
	}

	sort.SliceStable(movies, func(i, j int) bool {
		di, iok := dates[movies[i].ID]
		dj, jok := dates[movies[j].ID]
		switch {
		case !iok || !jok:
			return iok && !jok
		case newestFirst:
			return di.After(dj)
		default:
			return di.Before(dj)
		}
	})
}
