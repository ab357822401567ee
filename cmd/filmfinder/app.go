package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mmcdole/filmfinder/internal/adapter"
	"github.com/mmcdole/filmfinder/internal/adapter/source"
	"github.com/mmcdole/filmfinder/internal/adapter/source/analytics"
	"github.com/mmcdole/filmfinder/internal/adapter/source/tmdb"
	"github.com/mmcdole/filmfinder/internal/discover"
	"github.com/mmcdole/filmfinder/internal/insights"
	"github.com/mmcdole/filmfinder/internal/likes"
	"github.com/mmcdole/filmfinder/internal/store"
)

const flushTimeout = 5 * time.Second

// app holds the collaborators shared by the commands
type app struct {
	cfg       *adapter.Config
	logger    *slog.Logger
	logCloser io.Closer

	kv        *store.KV
	likes     *likes.Store
	catalog   *tmdb.Client
	analytics *analytics.Client
	discover  *discover.Service
	syncer    *insights.Syncer
}

// openApp loads config and opens the likes store. With withSync the
// analytics syncer is subscribed to the store before it loads, so the
// persisted set is synced on start and after every change.
func openApp(opts *RootOptions, withSync bool) (*app, error) {
	cfg, err := adapter.LoadConfig(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger, logCloser: logCloser}

	a.catalog, err = source.NewCatalog(cfg, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}
	a.discover = discover.NewService(a.catalog, logger)

	a.kv, err = store.Open(cfg.Storage.Path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open likes storage: %w", err)
	}
	a.likes = likes.New(a.kv, logger)

	if withSync {
		a.analytics, err = source.NewAnalytics(cfg, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create analytics client: %w", err)
		}
		a.syncer = insights.NewSyncer(a.analytics, insights.Options{
			Attempts: max(cfg.Analytics.Retries, 0) + 1,
		}, logger)
		a.likes.Subscribe(func(c likes.Change) {
			a.syncer.Trigger(c.Version, c.Likes)
		})
	}

	a.likes.Initialize()
	return a, nil
}

// Close stops the syncer, flushes pending likes and releases storage
func (a *app) Close() error {
	var errs []error
	if a.syncer != nil {
		a.syncer.Close()
	}
	if a.likes != nil {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		if err := a.likes.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to save likes: %w", err))
		}
		cancel()
		if err := a.likes.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.logCloser != nil {
		a.logCloser.Close()
	}
	return errors.Join(errs...)
}
