// Package discover is the catalog browsing service behind the Discover view:
// popular titles, search, genre recommendations and local sort/filter.
package discover

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/filmfinder/internal/domain"
)

// RecommendLimit is how many recommendations a genre yields
const RecommendLimit = 5

// Service wraps the catalog with ranking and recommendation logic
type Service struct {
	catalog domain.CatalogRepository
	logger  *slog.Logger
}

// NewService creates a new discover service
func NewService(catalog domain.CatalogRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{catalog: catalog, logger: logger}
}

// Popular loads the popular titles as a fresh listing
func (s *Service) Popular(ctx context.Context) (Listing, error) {
	movies, err := s.catalog.Popular(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("failed to load popular movies: %w", err)
	}
	return NewListing("Popular", movies), nil
}

// Search loads the results for query as a listing that replaces the current one.
// A blank query returns current unchanged without touching the catalog.
func (s *Service) Search(ctx context.Context, query string, current Listing) (Listing, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return current, nil
	}

	s.logger.Debug("searching", "query", query)
	results, err := s.catalog.Search(ctx, query)
	if err != nil {
		return current, fmt.Errorf("failed to search for movies: %w", err)
	}

	ranked := rankResults(results, query)
	s.logger.Debug("search complete", "query", query, "results", len(ranked))
	return NewListing(fmt.Sprintf("Results for %q", query), ranked), nil
}

// Recommend discovers popular titles in the user's top genre.
// Returns nil when there are no stats to base it on.
func (s *Service) Recommend(ctx context.Context, stats *domain.Stats) (domain.GenreStat, []domain.Movie, error) {
	if stats == nil || len(stats.TopGenres) == 0 {
		return domain.GenreStat{}, nil, nil
	}

	top := stats.TopGenres[0]
	movies, err := s.catalog.Discover(ctx, top.ID)
	if err != nil {
		return top, nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	if len(movies) > RecommendLimit {
		movies = movies[:RecommendLimit]
	}
	return top, movies, nil
}

// Details fetches the fields only the details endpoint carries and merges
// them into m. On failure m is returned unchanged with the error.
func (s *Service) Details(ctx context.Context, m domain.Movie) (domain.Movie, error) {
	details, err := s.catalog.Movie(ctx, m.ID)
	if err != nil {
		return m, err
	}
	return mergeDetails(m, *details), nil
}

func mergeDetails(m, details domain.Movie) domain.Movie {
	if details.Runtime > 0 {
		m.Runtime = details.Runtime
	}
	if len(m.GenreIDs) == 0 {
		m.GenreIDs = details.GenreIDs
	}
	if m.Overview == "" {
		m.Overview = details.Overview
	}
	return m
}

// rankResults applies fuzzy ranking to search results.
// Catalog relevance order is kept within each rank.
func rankResults(movies []domain.Movie, query string) []domain.Movie {
	if len(movies) == 0 {
		return movies
	}

	query = strings.ToLower(query)
	ranked := make([]domain.Movie, len(movies))
	copy(ranked, movies)

	scores := make(map[int64]int, len(movies))
	for _, m := range movies {
		scores[m.ID] = matchScore(strings.ToLower(m.Title), query)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].ID] < scores[ranked[j].ID]
	})
	return ranked
}

// matchScore ranks a title against a query. Lower is better.
func matchScore(title, query string) int {
	switch {
	case title == query:
		return 0
	case strings.HasPrefix(title, query):
		return 1
	case strings.Contains(title, query):
		return 2
	case fuzzy.MatchFold(query, title):
		return 3
	default:
		return 4
	}
}
