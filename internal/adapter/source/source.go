// Package source builds the remote collaborators from the application config.
package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/filmfinder/internal/adapter"
	"github.com/mmcdole/filmfinder/internal/adapter/source/analytics"
	"github.com/mmcdole/filmfinder/internal/adapter/source/tmdb"
)

// NewCatalog creates the catalog client from the application config.
// A missing API key is not an error here; the client logs it and fails
// each request with domain.ErrNoAPIKey.
func NewCatalog(cfg *adapter.Config, logger *slog.Logger) (*tmdb.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if cfg.Catalog.BaseURL == "" {
		return nil, fmt.Errorf("catalog base URL is required")
	}
	return tmdb.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.Timeout, logger), nil
}

// NewAnalytics creates the analytics backend client from the application config
func NewAnalytics(cfg *adapter.Config, logger *slog.Logger) (*analytics.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if cfg.Analytics.BaseURL == "" {
		return nil, fmt.Errorf("analytics base URL is required")
	}
	return analytics.NewClient(cfg.Analytics.BaseURL, cfg.Analytics.Timeout, logger), nil
}

// NewAuthFlow creates the API key prompt used by the setup command
func NewAuthFlow(logger *slog.Logger) *tmdb.AuthFlow {
	return tmdb.NewAuthFlow(logger)
}
