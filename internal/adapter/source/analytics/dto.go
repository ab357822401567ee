package analytics

import "github.com/mmcdole/filmfinder/internal/domain"

// SyncRequest is the body of POST /api/sync-likes/
type SyncRequest struct {
	Likes []domain.Movie `json:"likes"`
}

// StatusResponse is the envelope the backend uses for acknowledgements and errors
type StatusResponse struct {
	Status  string `json:"status"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

// TopGenresResponse is the body of GET /api/top-genres/
type TopGenresResponse struct {
	TopGenres  []domain.GenreStat `json:"top_genres"`
	TotalLikes int                `json:"total_likes"`
	Message    string             `json:"message,omitempty"`
}

// TopLanguagesResponse is the body of GET /api/top-languages/
type TopLanguagesResponse struct {
	TopLanguages []domain.LanguageStat `json:"top_languages"`
}

// DecadeStatsResponse is the body of GET /api/decade-stats/
type DecadeStatsResponse struct {
	TopDecades []domain.DecadeStat `json:"top_decades"`
}
