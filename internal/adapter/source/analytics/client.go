package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/filmfinder/internal/adapter/rest"
	"github.com/mmcdole/filmfinder/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second

	syncPath      = "/api/sync-likes/"
	genresPath    = "/api/top-genres/"
	languagesPath = "/api/top-languages/"
	decadesPath   = "/api/decade-stats/"

	statusError = "error"
)

// Client implements domain.AnalyticsRepository against the analytics backend
type Client struct {
	rest   *rest.Client
	logger *slog.Logger
}

var _ domain.AnalyticsRepository = (*Client)(nil)

// NewClient creates a new analytics backend client.
// Transport retries are disabled: the sync cycle owns the retry policy.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		rest: rest.NewClient("analytics", baseURL, rest.Options{
			Timeout:    timeout,
			MaxRetries: -1,
		}, logger),
		logger: logger,
	}
}

// SyncLikes replaces the backend's copy of the LikedSet
func (c *Client) SyncLikes(ctx context.Context, likes []domain.Movie) error {
	if likes == nil {
		likes = []domain.Movie{}
	}
	requestID := uuid.NewString()
	header := http.Header{"X-Request-ID": []string{requestID}}

	var resp StatusResponse
	if err := c.rest.PostJSON(ctx, syncPath, SyncRequest{Likes: likes}, &resp, header); err != nil {
		err = backendError(err)
		c.logger.Error("failed to sync likes", "error", err, "requestID", requestID, "count", len(likes))
		return err
	}
	if resp.Status == statusError {
		return fmt.Errorf("%w: %s", domain.ErrBackend, resp.Message)
	}

	c.logger.Debug("synced likes", "requestID", requestID, "count", resp.Count)
	return nil
}

// TopGenres returns the most liked genres and the total like count
func (c *Client) TopGenres(ctx context.Context) ([]domain.GenreStat, int, error) {
	var resp TopGenresResponse
	if err := c.get(ctx, genresPath, &resp); err != nil {
		return nil, 0, err
	}
	return nonNil(resp.TopGenres), resp.TotalLikes, nil
}

// TopLanguages returns the most liked original languages
func (c *Client) TopLanguages(ctx context.Context) ([]domain.LanguageStat, error) {
	var resp TopLanguagesResponse
	if err := c.get(ctx, languagesPath, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.TopLanguages), nil
}

// TopDecades returns the most liked release decades
func (c *Client) TopDecades(ctx context.Context) ([]domain.DecadeStat, error) {
	var resp DecadeStatsResponse
	if err := c.get(ctx, decadesPath, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.TopDecades), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.rest.Get(ctx, path, nil, out); err != nil {
		err = backendError(err)
		c.logger.Error("failed to fetch stats", "path", path, "error", err)
		return err
	}
	return nil
}

// backendError surfaces the backend's own message for {status:"error"} bodies
func backendError(err error) error {
	var statusErr *rest.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	var resp StatusResponse
	if json.Unmarshal([]byte(statusErr.Body), &resp) == nil && resp.Status == statusError && resp.Message != "" {
		return fmt.Errorf("%w: %s", domain.ErrBackend, resp.Message)
	}
	return fmt.Errorf("%w: %v", domain.ErrBackend, err)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
