package domain

import (
	"context"
)

// CatalogRepository provides read-only access to the remote movie catalog
type CatalogRepository interface {
	// Popular returns the catalog's current popular titles
	Popular(ctx context.Context) ([]Movie, error)

	// Search returns titles matching a free-text query
	Search(ctx context.Context, query string) ([]Movie, error)

	// Discover returns titles of a genre ordered by popularity
	Discover(ctx context.Context, genreID int) ([]Movie, error)

	// Movie returns full details (including runtime) for one title
	Movie(ctx context.Context, id int64) (*Movie, error)
}

// AnalyticsRepository pushes the LikedSet to the analytics backend and
// pulls the aggregates it computes.
type AnalyticsRepository interface {
	// SyncLikes replaces the backend's copy of the LikedSet
	SyncLikes(ctx context.Context, likes []Movie) error

	// TopGenres returns the most liked genres and the total like count
	TopGenres(ctx context.Context) ([]GenreStat, int, error)

	TopLanguages(ctx context.Context) ([]LanguageStat, error)

	TopDecades(ctx context.Context) ([]DecadeStat, error)
}
