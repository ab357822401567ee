package tmdb

import (
	"encoding/json"
	"fmt"

	"github.com/mmcdole/filmfinder/internal/domain"
)

// MapDetails converts a /movie/{id} body into a Movie, deriving GenreIDs
// from the embedded genre objects.
func MapDetails(raw []byte) (*domain.Movie, error) {
	var movie domain.Movie
	if err := json.Unmarshal(raw, &movie); err != nil {
		return nil, fmt.Errorf("failed to parse movie: %w", err)
	}

	var genres DetailsGenres
	if err := json.Unmarshal(raw, &genres); err != nil {
		return nil, fmt.Errorf("failed to parse movie genres: %w", err)
	}
	if len(movie.GenreIDs) == 0 && len(genres.Genres) > 0 {
		movie.GenreIDs = make([]int, 0, len(genres.Genres))
		for _, g := range genres.Genres {
			movie.GenreIDs = append(movie.GenreIDs, g.ID)
		}
	}

	return &movie, nil
}
