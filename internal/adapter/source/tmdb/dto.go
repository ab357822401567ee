package tmdb

import "github.com/mmcdole/filmfinder/internal/domain"

// ListResponse is the paginated envelope of popular/search/discover
type ListResponse struct {
	Page         int            `json:"page"`
	Results      []domain.Movie `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// Genre is a genre object as embedded in movie details
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DetailsGenres picks the genre objects out of a /movie/{id} response,
// which carries them instead of genre_ids. The rest of the response
// decodes straight into domain.Movie.
type DetailsGenres struct {
	Genres []Genre `json:"genres"`
}

// AuthenticationResponse is the /authentication response used to validate a key
type AuthenticationResponse struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
