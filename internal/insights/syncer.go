// Package insights runs the analytics sync cycle: push the LikedSet to the
// analytics backend, then pull the aggregates it computes.
//
// Cycles run one at a time because the backend aggregates whatever set was
// pushed last. A trigger that arrives while a cycle is in flight is parked
// and replaces any older parked trigger; it runs when the current cycle
// ends. Every cycle is tagged with the LikedSet version that triggered it
// and a result is only applied if no newer version has been triggered since.
package insights

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/filmfinder/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	defaultAttempts   = 3
	defaultRetryDelay = 500 * time.Millisecond
)

// Options tunes the retry policy. Zero values select the defaults.
type Options struct {
	Attempts   int           // Total attempts per cycle
	RetryDelay time.Duration // Base delay, doubled per attempt
}

// Result is the state currently on display
type Result struct {
	Version   uint64
	State     domain.SyncState
	Stats     *domain.Stats // Last successful stats; kept across failures
	Err       error
	UpdatedAt time.Time
}

// Syncer owns the sync state machine
type Syncer struct {
	repo   domain.AnalyticsRepository
	opts   Options
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	notifyMu  sync.Mutex
	latest    uint64
	running   bool
	pending   *job // Newest trigger waiting for the running cycle
	result    Result
	observers []domain.SyncObserver
	closed    bool
}

type job struct {
	version uint64
	likes   []domain.Movie
}

// NewSyncer creates an idle Syncer
func NewSyncer(repo domain.AnalyticsRepository, opts Options, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Syncer{
		repo:   repo,
		opts:   opts,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		result: Result{State: domain.SyncIdle},
	}
}

// AddObserver registers o for every state transition
func (s *Syncer) AddObserver(o domain.SyncObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Current returns the result on display
func (s *Syncer) Current() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Trigger schedules a cycle for the LikedSet at version. Versions older
// than the newest triggered one are ignored; triggering the newest version
// again re-runs its cycle.
func (s *Syncer) Trigger(version uint64, snapshot []domain.Movie) {
	s.mu.Lock()
	if s.closed || version < s.latest {
		s.mu.Unlock()
		return
	}
	s.latest = version
	s.result.Version = version
	s.result.State = domain.SyncSyncing
	s.result.Err = nil

	likes := make([]domain.Movie, len(snapshot))
	copy(likes, snapshot)
	next := &job{version: version, likes: likes}

	start := !s.running
	if start {
		s.running = true
		s.wg.Add(1)
	} else {
		s.pending = next
	}

	progress, observers := s.progressLocked(1)
	s.notifyMu.Lock()
	s.mu.Unlock()
	s.notify(progress, observers)

	if start {
		go s.loop(next)
	}
}

// loop runs j, then whatever trigger was parked meanwhile
func (s *Syncer) loop(j *job) {
	defer s.wg.Done()
	for j != nil {
		s.run(j.version, j.likes)

		s.mu.Lock()
		j, s.pending = s.pending, nil
		if j == nil || s.closed {
			j = nil
			s.running = false
		}
		s.mu.Unlock()
	}
}

// Wait blocks until every in-flight cycle has ended
func (s *Syncer) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight cycles and waits for them.
// Triggers after Close are ignored.
func (s *Syncer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}

func (s *Syncer) run(version uint64, likes []domain.Movie) {
	var err error
	for attempt := 1; attempt <= s.opts.Attempts; attempt++ {
		if s.superseded(version) {
			s.logger.Debug("sync superseded", "version", version)
			return
		}

		if attempt > 1 {
			delay := s.opts.RetryDelay * time.Duration(1<<(attempt-2))
			s.logger.Debug("retrying sync", "version", version, "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-s.ctx.Done():
				return
			}
			s.retrying(version, attempt)
		}

		var stats *domain.Stats
		stats, err = s.cycle(s.ctx, likes)
		if err == nil {
			s.finish(version, stats, nil)
			return
		}
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Warn("sync attempt failed", "version", version, "attempt", attempt, "error", err)
	}

	s.finish(version, nil, err)
}

// cycle pushes the LikedSet, then pulls the three aggregates concurrently
func (s *Syncer) cycle(ctx context.Context, likes []domain.Movie) (*domain.Stats, error) {
	if err := s.repo.SyncLikes(ctx, likes); err != nil {
		return nil, err
	}

	var stats domain.Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		genres, total, err := s.repo.TopGenres(gctx)
		stats.TopGenres, stats.TotalLikes = genres, total
		return err
	})
	g.Go(func() error {
		languages, err := s.repo.TopLanguages(gctx)
		stats.TopLanguages = languages
		return err
	})
	g.Go(func() error {
		decades, err := s.repo.TopDecades(gctx)
		stats.TopDecades = decades
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Syncer) superseded(version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return version < s.latest
}

func (s *Syncer) retrying(version uint64, attempt int) {
	s.mu.Lock()
	if version < s.latest {
		s.mu.Unlock()
		return
	}
	progress, observers := s.progressLocked(attempt)
	s.notifyMu.Lock()
	s.mu.Unlock()
	s.notify(progress, observers)
}

// finish applies the outcome of a cycle unless a newer version was triggered
func (s *Syncer) finish(version uint64, stats *domain.Stats, err error) {
	s.mu.Lock()
	if version < s.latest {
		s.mu.Unlock()
		s.logger.Debug("discarding stale sync result", "version", version, "error", domain.ErrStaleSync)
		return
	}

	s.result.Version = version
	s.result.UpdatedAt = time.Now()
	if err != nil {
		// Previous stats stay on display
		s.result.State = domain.SyncFailed
		s.result.Err = err
		s.logger.Error("sync failed", "version", version, "error", err)
	} else {
		s.result.State = domain.SyncSuccess
		s.result.Stats = stats
		s.result.Err = nil
		s.logger.Info("sync complete", "version", version, "likes", stats.TotalLikes)
	}

	progress, observers := s.progressLocked(0)
	s.notifyMu.Lock()
	s.mu.Unlock()
	s.notify(progress, observers)
}

func (s *Syncer) progressLocked(attempt int) (domain.SyncProgress, []domain.SyncObserver) {
	progress := domain.SyncProgress{
		Version: s.result.Version,
		State:   s.result.State,
		Attempt: attempt,
		Stats:   s.result.Stats,
		Error:   s.result.Err,
	}
	return progress, append([]domain.SyncObserver(nil), s.observers...)
}

// notify delivers progress in transition order; the caller holds notifyMu
func (s *Syncer) notify(progress domain.SyncProgress, observers []domain.SyncObserver) {
	defer s.notifyMu.Unlock()
	for _, o := range observers {
		o.OnProgress(progress)
	}
}
