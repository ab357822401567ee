package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/filmfinder/internal/adapter/rest"
	"github.com/mmcdole/filmfinder/internal/domain"
)

const (
	defaultTimeout = 15 * time.Second

	// DiscoverLimit is how many discover results a caller gets
	DiscoverLimit = 5
)

// Client implements domain.CatalogRepository for TMDB
type Client struct {
	apiKey string
	rest   *rest.Client
	logger *slog.Logger
}

var _ domain.CatalogRepository = (*Client)(nil)

// NewClient creates a new TMDB API client.
// A missing API key is logged once here; every request then fails with
// domain.ErrNoAPIKey instead of reaching the network.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if apiKey == "" {
		logger.Error("TMDB API key is not configured")
	}
	return &Client{
		apiKey: apiKey,
		rest:   rest.NewClient("catalog", baseURL, rest.Options{Timeout: timeout}, logger),
		logger: logger,
	}
}

// get performs an authenticated GET against the catalog
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if c.apiKey == "" {
		return domain.ErrNoAPIKey
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	err := c.rest.Get(ctx, path, query, out)

	var statusErr *rest.StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		return domain.ErrMovieNotFound
	}
	return err
}

func (c *Client) list(ctx context.Context, path string, query url.Values) ([]domain.Movie, error) {
	var resp ListResponse
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []domain.Movie{}, nil
	}
	return resp.Results, nil
}

// Popular returns the current popular movies
func (c *Client) Popular(ctx context.Context) ([]domain.Movie, error) {
	movies, err := c.list(ctx, "/movie/popular", nil)
	if err != nil {
		c.logger.Error("failed to load popular movies", "error", err)
		return nil, err
	}
	c.logger.Debug("loaded popular movies", "count", len(movies))
	return movies, nil
}

// Search returns movies matching query
func (c *Client) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Movie{}, nil
	}

	movies, err := c.list(ctx, "/search/movie", url.Values{"query": {query}})
	if err != nil {
		c.logger.Error("failed to search movies", "error", err, "query", query)
		return nil, err
	}
	c.logger.Debug("searched movies", "query", query, "count", len(movies))
	return movies, nil
}

// Discover returns the first DiscoverLimit movies of a genre, most popular first
func (c *Client) Discover(ctx context.Context, genreID int) ([]domain.Movie, error) {
	query := url.Values{}
	query.Set("with_genres", strconv.Itoa(genreID))
	query.Set("sort_by", "popularity.desc")

	movies, err := c.list(ctx, "/discover/movie", query)
	if err != nil {
		c.logger.Error("failed to discover movies", "error", err, "genre", genreID)
		return nil, err
	}
	if len(movies) > DiscoverLimit {
		movies = movies[:DiscoverLimit]
	}
	return movies, nil
}

// Movie returns full details for one movie, including runtime
func (c *Client) Movie(ctx context.Context, id int64) (*domain.Movie, error) {
	var raw json.RawMessage
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &raw); err != nil {
		c.logger.Error("failed to load movie details", "error", err, "id", id)
		return nil, err
	}
	return MapDetails(raw)
}

// Validate checks the configured API key against the catalog
func (c *Client) Validate(ctx context.Context) error {
	var resp AuthenticationResponse
	if err := c.get(ctx, "/authentication", nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		if resp.StatusMessage != "" {
			return fmt.Errorf("%w: %s", domain.ErrAuthFailed, resp.StatusMessage)
		}
		return domain.ErrAuthFailed
	}
	return nil
}
